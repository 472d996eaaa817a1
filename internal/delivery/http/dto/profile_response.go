package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"fin-advisor/internal/domain/profile"
)

type ProfileResponse struct {
	Name               string           `json:"name"`
	Age                int              `json:"age"`
	Gender             string           `json:"gender"`
	MaritalStatus      string           `json:"marital_status"`
	EmploymentStatus   string           `json:"employment_status"`
	IndustryType       *string          `json:"industry_type,omitempty"`
	MonthlyIncome      decimal.Decimal  `json:"monthly_income"`
	HasSpouse          bool             `json:"has_spouse"`
	HasParents         bool             `json:"has_parents"`
	HasKids            bool             `json:"has_kids"`
	KidsCount          *int             `json:"kids_count,omitempty"`
	State              string           `json:"state"`
	City               string           `json:"city"`
	HasLifeInsurance   bool             `json:"has_life_insurance"`
	LifeClaimLimit     *decimal.Decimal `json:"life_claim_limit,omitempty"`
	HasHealthInsurance bool             `json:"has_health_insurance"`
	HealthClaimLimit   *decimal.Decimal `json:"health_claim_limit,omitempty"`
	ProfileCompleted   bool             `json:"profile_completed"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

func NewProfileResponse(p profile.UserProfile) ProfileResponse {
	return ProfileResponse{
		Name:               p.Name,
		Age:                p.Age,
		Gender:             p.Gender,
		MaritalStatus:      p.MaritalStatus,
		EmploymentStatus:   p.EmploymentStatus,
		IndustryType:       p.IndustryType,
		MonthlyIncome:      p.MonthlyIncome,
		HasSpouse:          p.HasSpouse,
		HasParents:         p.HasParents,
		HasKids:            p.HasKids,
		KidsCount:          p.KidsCount,
		State:              p.State,
		City:               p.City,
		HasLifeInsurance:   p.HasLifeInsurance,
		LifeClaimLimit:     p.LifeClaimLimit,
		HasHealthInsurance: p.HasHealthInsurance,
		HealthClaimLimit:   p.HealthClaimLimit,
		ProfileCompleted:   p.ProfileCompleted,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}
