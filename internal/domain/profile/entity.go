package profile

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EmploymentSalaried     = "salaried"
	EmploymentSelfEmployed = "self-employed"
	EmploymentUnemployed   = "unemployed"
	EmploymentStudent      = "student"
	EmploymentRetired      = "retired"
)

// UserProfile is the onboarding record, one per user. Optional fields are
// pointers so a stored record never carries a value its gating field does not
// justify (industry without salaried employment, kids count without kids, a
// claim limit without the matching insurance flag).
type UserProfile struct {
	UserID             uuid.UUID        `json:"user_id"`
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

// Normalize clears optional fields whose gating condition does not hold.
// Called before every persist so the omission invariant survives partial
// updates that flip a gating field.
func (p *UserProfile) Normalize() {
	if p.EmploymentStatus != EmploymentSalaried {
		p.IndustryType = nil
	}
	if !p.HasKids {
		p.KidsCount = nil
	}
	if !p.HasLifeInsurance {
		p.LifeClaimLimit = nil
	}
	if !p.HasHealthInsurance {
		p.HealthClaimLimit = nil
	}
}
