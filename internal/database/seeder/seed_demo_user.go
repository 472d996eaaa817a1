package seeder

import (
	"context"

	"fin-advisor/internal/database"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DemoUser seeds a ready-to-use account with a completed profile for local
// development. Running it twice is a no-op.
type DemoUser struct {
	Email    string
	Password string
}

func NewDemoUser() DemoUser {
	return DemoUser{Email: "demo@fin-advisor.local", Password: "demo1234"}
}

func (s DemoUser) Name() string { return "demo_user" }

func (s DemoUser) Run(ctx context.Context, db database.DB) error {
	var exists bool
	row := db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, s.Email)
	if err := row.Scan(&exists); err != nil {
		return err
	}
	if exists {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	id := uuid.New()
	if _, err := db.Exec(ctx,
		`INSERT INTO users (id, email, display_name, password_hash) VALUES ($1, $2, $3, $4)`,
		id, s.Email, "Demo User", string(hash),
	); err != nil {
		return err
	}

	industry := "technology"
	_, err = db.Exec(ctx,
		`INSERT INTO user_profiles (
		    user_id, name, age, gender, marital_status, employment_status, industry_type,
		    monthly_income, has_spouse, has_parents, has_kids, kids_count, state, city,
		    has_life_insurance, life_claim_limit, has_health_insurance, health_claim_limit,
		    profile_completed
		 ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		id, "Demo User", 30, "other", "single", "salaried", industry,
		5000, false, true, false, nil, "Jakarta", "Jakarta",
		true, 100000, true, 50000,
		true,
	)
	return err
}
