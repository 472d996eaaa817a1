package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"fin-advisor/internal/database"
	"fin-advisor/internal/domain/chat"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PostgresChatHistoryRepository struct {
	db database.DB
}

func NewPostgresChatHistoryRepository(db database.DB) *PostgresChatHistoryRepository {
	return &PostgresChatHistoryRepository{db: db}
}

func (r *PostgresChatHistoryRepository) GetBySessionID(ctx context.Context, sessionID string) (chat.History, error) {
	row := r.db.QueryRow(ctx,
		`SELECT session_id, user_id, title, messages, created_at, updated_at
		 FROM chat_histories WHERE session_id = $1`,
		sessionID,
	)
	return scanHistory(row)
}

func (r *PostgresChatHistoryRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]chat.History, error) {
	rows, err := r.db.Query(ctx,
		`SELECT session_id, user_id, title, messages, created_at, updated_at
		 FROM chat_histories WHERE user_id = $1
		 ORDER BY updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]chat.History, 0)
	for rows.Next() {
		h, err := scanHistory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Save replaces the message list wholesale; re-saving identical content just
// rewrites the same row.
func (r *PostgresChatHistoryRepository) Save(ctx context.Context, h chat.History) error {
	raw, err := json.Marshal(h.Messages)
	if err != nil {
		return fmt.Errorf("marshal messages: %w", err)
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO chat_histories (session_id, user_id, title, messages)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (session_id) DO UPDATE SET
		    title = EXCLUDED.title,
		    messages = EXCLUDED.messages,
		    updated_at = now()`,
		h.SessionID, h.UserID, h.Title, raw,
	)
	return err
}

func (r *PostgresChatHistoryRepository) Delete(ctx context.Context, sessionID string, userID uuid.UUID) error {
	affected, err := r.db.Exec(ctx,
		`DELETE FROM chat_histories WHERE session_id = $1 AND user_id = $2`,
		sessionID, userID,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return chat.ErrNotFound
	}
	return nil
}

func (r *PostgresChatHistoryRepository) DeleteAllByUserID(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM chat_histories WHERE user_id = $1`, userID)
	return err
}

func scanHistory(row database.Row) (chat.History, error) {
	var h chat.History
	var raw []byte
	if err := row.Scan(&h.SessionID, &h.UserID, &h.Title, &raw, &h.CreatedAt, &h.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return chat.History{}, chat.ErrNotFound
		}
		return chat.History{}, err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &h.Messages); err != nil {
			return chat.History{}, fmt.Errorf("unmarshal messages: %w", err)
		}
	}
	return h, nil
}
