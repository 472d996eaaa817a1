package repository

import (
	"context"
	"errors"

	"fin-advisor/internal/database"
	"fin-advisor/internal/domain/profile"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PostgresProfileRepository struct {
	db database.DB
}

func NewPostgresProfileRepository(db database.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

func (r *PostgresProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (profile.UserProfile, error) {
	row := r.db.QueryRow(ctx,
		`SELECT user_id, name, age, gender, marital_status, employment_status, industry_type,
		        monthly_income, has_spouse, has_parents, has_kids, kids_count, state, city,
		        has_life_insurance, life_claim_limit, has_health_insurance, health_claim_limit,
		        profile_completed, created_at, updated_at
		 FROM user_profiles WHERE user_id = $1`,
		userID,
	)

	var p profile.UserProfile
	err := row.Scan(
		&p.UserID, &p.Name, &p.Age, &p.Gender, &p.MaritalStatus, &p.EmploymentStatus, &p.IndustryType,
		&p.MonthlyIncome, &p.HasSpouse, &p.HasParents, &p.HasKids, &p.KidsCount, &p.State, &p.City,
		&p.HasLifeInsurance, &p.LifeClaimLimit, &p.HasHealthInsurance, &p.HealthClaimLimit,
		&p.ProfileCompleted, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return profile.UserProfile{}, profile.ErrNotFound
		}
		return profile.UserProfile{}, err
	}
	return p, nil
}

func (r *PostgresProfileRepository) Upsert(ctx context.Context, p profile.UserProfile) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO user_profiles (
		    user_id, name, age, gender, marital_status, employment_status, industry_type,
		    monthly_income, has_spouse, has_parents, has_kids, kids_count, state, city,
		    has_life_insurance, life_claim_limit, has_health_insurance, health_claim_limit,
		    profile_completed
		 ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		 ON CONFLICT (user_id) DO UPDATE SET
		    name = EXCLUDED.name,
		    age = EXCLUDED.age,
		    gender = EXCLUDED.gender,
		    marital_status = EXCLUDED.marital_status,
		    employment_status = EXCLUDED.employment_status,
		    industry_type = EXCLUDED.industry_type,
		    monthly_income = EXCLUDED.monthly_income,
		    has_spouse = EXCLUDED.has_spouse,
		    has_parents = EXCLUDED.has_parents,
		    has_kids = EXCLUDED.has_kids,
		    kids_count = EXCLUDED.kids_count,
		    state = EXCLUDED.state,
		    city = EXCLUDED.city,
		    has_life_insurance = EXCLUDED.has_life_insurance,
		    life_claim_limit = EXCLUDED.life_claim_limit,
		    has_health_insurance = EXCLUDED.has_health_insurance,
		    health_claim_limit = EXCLUDED.health_claim_limit,
		    profile_completed = EXCLUDED.profile_completed,
		    updated_at = now()`,
		p.UserID, p.Name, p.Age, p.Gender, p.MaritalStatus, p.EmploymentStatus, p.IndustryType,
		p.MonthlyIncome, p.HasSpouse, p.HasParents, p.HasKids, p.KidsCount, p.State, p.City,
		p.HasLifeInsurance, p.LifeClaimLimit, p.HasHealthInsurance, p.HealthClaimLimit,
		p.ProfileCompleted,
	)
	return err
}
