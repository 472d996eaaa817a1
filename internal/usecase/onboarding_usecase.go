package usecase

import (
	"context"
	"errors"

	"fin-advisor/internal/domain/profile"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var ErrProfileNotFound = errors.New("profile not found")

// ProfilePatch is a partial update: nil (or zero, for required scalars) means
// "unchanged". Booleans are pointers so an absent flag is distinguishable
// from an explicit false.
type ProfilePatch struct {
	Name               string
	Age                int
	Gender             string
	MaritalStatus      string
	EmploymentStatus   string
	IndustryType       *string
	MonthlyIncome      *decimal.Decimal
	HasSpouse          *bool
	HasParents         *bool
	HasKids            *bool
	KidsCount          *int
	State              string
	City               string
	HasLifeInsurance   *bool
	LifeClaimLimit     *decimal.Decimal
	HasHealthInsurance *bool
	HealthClaimLimit   *decimal.Decimal
}

// OnboardingUsecase owns the one-time profile wizard and the completeness
// check gating the rest of the app.
type OnboardingUsecase interface {
	Get(ctx context.Context, userID uuid.UUID) (profile.UserProfile, error)
	// Submit validates the full wizard, normalizes conditional fields, and
	// persists with profile_completed set.
	Submit(ctx context.Context, p profile.UserProfile) (profile.UserProfile, error)
	// Update merges a patch into the existing profile; the merged result
	// must still validate.
	Update(ctx context.Context, userID uuid.UUID, patch ProfilePatch) (profile.UserProfile, error)
	// IsComplete is conservative: any lookup failure counts as incomplete so
	// the user is routed through onboarding rather than past it.
	IsComplete(ctx context.Context, userID uuid.UUID) bool
}

type Onboarding struct {
	profiles profile.Repository
	logger   *zap.Logger
}

func NewOnboardingUsecase(profiles profile.Repository, logger *zap.Logger) *Onboarding {
	return &Onboarding{profiles: profiles, logger: logger}
}

func (o *Onboarding) Get(ctx context.Context, userID uuid.UUID) (profile.UserProfile, error) {
	p, err := o.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return profile.UserProfile{}, ErrProfileNotFound
		}
		return profile.UserProfile{}, err
	}
	return p, nil
}

func (o *Onboarding) Submit(ctx context.Context, p profile.UserProfile) (profile.UserProfile, error) {
	if errs := p.Validate(); errs != nil {
		return profile.UserProfile{}, errs
	}

	p.Normalize()
	p.ProfileCompleted = true

	if err := o.profiles.Upsert(ctx, p); err != nil {
		o.logger.Error("profile save failed", zap.String("user_id", p.UserID.String()), zap.Error(err))
		return profile.UserProfile{}, err
	}

	return o.Get(ctx, p.UserID)
}

func (o *Onboarding) Update(ctx context.Context, userID uuid.UUID, patch ProfilePatch) (profile.UserProfile, error) {
	existing, err := o.Get(ctx, userID)
	if err != nil {
		return profile.UserProfile{}, err
	}

	merged := merge(existing, patch)
	if errs := merged.Validate(); errs != nil {
		return profile.UserProfile{}, errs
	}

	merged.Normalize()
	if err := o.profiles.Upsert(ctx, merged); err != nil {
		o.logger.Error("profile update failed", zap.String("user_id", userID.String()), zap.Error(err))
		return profile.UserProfile{}, err
	}

	return o.Get(ctx, userID)
}

func (o *Onboarding) IsComplete(ctx context.Context, userID uuid.UUID) bool {
	p, err := o.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, profile.ErrNotFound) {
			o.logger.Warn("profile completeness check failed", zap.String("user_id", userID.String()), zap.Error(err))
		}
		return false
	}
	return p.ProfileCompleted
}

// merge overlays the patch on the stored record per key: absent keys leave
// the stored value alone. Normalize after the merge clears any optional
// whose gating flag the patch flipped off.
func merge(base profile.UserProfile, in ProfilePatch) profile.UserProfile {
	out := base

	if in.Name != "" {
		out.Name = in.Name
	}
	if in.Age != 0 {
		out.Age = in.Age
	}
	if in.Gender != "" {
		out.Gender = in.Gender
	}
	if in.MaritalStatus != "" {
		out.MaritalStatus = in.MaritalStatus
	}
	if in.EmploymentStatus != "" {
		out.EmploymentStatus = in.EmploymentStatus
	}
	if in.IndustryType != nil {
		out.IndustryType = in.IndustryType
	}
	if in.MonthlyIncome != nil {
		out.MonthlyIncome = *in.MonthlyIncome
	}
	if in.HasSpouse != nil {
		out.HasSpouse = *in.HasSpouse
	}
	if in.HasParents != nil {
		out.HasParents = *in.HasParents
	}
	if in.HasKids != nil {
		out.HasKids = *in.HasKids
	}
	if in.KidsCount != nil {
		out.KidsCount = in.KidsCount
	}
	if in.State != "" {
		out.State = in.State
	}
	if in.City != "" {
		out.City = in.City
	}
	if in.HasLifeInsurance != nil {
		out.HasLifeInsurance = *in.HasLifeInsurance
	}
	if in.LifeClaimLimit != nil {
		out.LifeClaimLimit = in.LifeClaimLimit
	}
	if in.HasHealthInsurance != nil {
		out.HasHealthInsurance = *in.HasHealthInsurance
	}
	if in.HealthClaimLimit != nil {
		out.HealthClaimLimit = in.HealthClaimLimit
	}

	out.ProfileCompleted = base.ProfileCompleted
	return out
}
