package usecase

import (
	"context"
	"errors"
	"testing"

	"fin-advisor/internal/domain/profile"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type recordingProfileRepo struct {
	stored    *profile.UserProfile
	getErr    error
	upsertErr error
}

func (m *recordingProfileRepo) GetByUserID(context.Context, uuid.UUID) (profile.UserProfile, error) {
	if m.getErr != nil {
		return profile.UserProfile{}, m.getErr
	}
	if m.stored == nil {
		return profile.UserProfile{}, profile.ErrNotFound
	}
	return *m.stored, nil
}

func (m *recordingProfileRepo) Upsert(_ context.Context, p profile.UserProfile) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.stored = &p
	return nil
}

func completedProfile(userID uuid.UUID) profile.UserProfile {
	industry := "finance"
	return profile.UserProfile{
		UserID:           userID,
		Name:             "Budi",
		Age:              35,
		Gender:           "male",
		MaritalStatus:    "married",
		EmploymentStatus: profile.EmploymentSalaried,
		IndustryType:     &industry,
		MonthlyIncome:    decimal.NewFromInt(8000),
		State:            "Jawa Barat",
		City:             "Bandung",
	}
}

func TestOnboardingSubmit_NormalizesAndCompletes(t *testing.T) {
	repo := &recordingProfileRepo{}
	uc := NewOnboardingUsecase(repo, zap.NewNop())

	userID := uuid.New()
	in := completedProfile(userID)
	// Stray optionals that the gating fields do not justify.
	two := 2
	in.KidsCount = &two
	limit := decimal.NewFromInt(100)
	in.LifeClaimLimit = &limit

	out, err := uc.Submit(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !out.ProfileCompleted {
		t.Fatalf("submit must mark the profile completed")
	}
	if out.KidsCount != nil {
		t.Fatalf("kids_count should be cleared without has_kids")
	}
	if out.LifeClaimLimit != nil {
		t.Fatalf("life_claim_limit should be cleared without has_life_insurance")
	}
}

func TestOnboardingSubmit_InvalidProfileRejected(t *testing.T) {
	repo := &recordingProfileRepo{}
	uc := NewOnboardingUsecase(repo, zap.NewNop())

	in := completedProfile(uuid.New())
	in.Age = 15

	_, err := uc.Submit(context.Background(), in)
	var verrs profile.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected validation errors, got %v", err)
	}
	if repo.stored != nil {
		t.Fatalf("invalid profile must not be persisted")
	}
}

func TestOnboardingUpdate_MergePreservesCompletion(t *testing.T) {
	userID := uuid.New()
	existing := completedProfile(userID)
	existing.ProfileCompleted = true
	repo := &recordingProfileRepo{stored: &existing}
	uc := NewOnboardingUsecase(repo, zap.NewNop())

	out, err := uc.Update(context.Background(), userID, ProfilePatch{City: "Surabaya"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out.City != "Surabaya" {
		t.Fatalf("city not updated: %q", out.City)
	}
	if out.Name != "Budi" {
		t.Fatalf("unpatched field lost: %q", out.Name)
	}
	if !out.ProfileCompleted {
		t.Fatalf("update must not reset completion")
	}
}

func TestOnboardingUpdate_OmittedFlagsKeepStoredValues(t *testing.T) {
	userID := uuid.New()
	existing := completedProfile(userID)
	existing.ProfileCompleted = true
	existing.HasKids = true
	two := 2
	existing.KidsCount = &two
	existing.HasLifeInsurance = true
	limit := decimal.NewFromInt(500000)
	existing.LifeClaimLimit = &limit
	repo := &recordingProfileRepo{stored: &existing}
	uc := NewOnboardingUsecase(repo, zap.NewNop())

	out, err := uc.Update(context.Background(), userID, ProfilePatch{City: "Surabaya"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !out.HasKids || out.KidsCount == nil || *out.KidsCount != 2 {
		t.Fatalf("omitted kids fields must survive the update: %+v", out)
	}
	if !out.HasLifeInsurance || out.LifeClaimLimit == nil {
		t.Fatalf("omitted insurance fields must survive the update: %+v", out)
	}
}

func TestOnboardingUpdate_FlippingFlagClearsDependent(t *testing.T) {
	userID := uuid.New()
	existing := completedProfile(userID)
	existing.ProfileCompleted = true
	existing.HasKids = true
	three := 3
	existing.KidsCount = &three
	repo := &recordingProfileRepo{stored: &existing}
	uc := NewOnboardingUsecase(repo, zap.NewNop())

	noKids := false
	out, err := uc.Update(context.Background(), userID, ProfilePatch{HasKids: &noKids})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out.HasKids {
		t.Fatalf("has_kids not updated")
	}
	if out.KidsCount != nil {
		t.Fatalf("kids_count must be cleared when has_kids flips off")
	}
}

func TestOnboardingIsComplete_ConservativeOnError(t *testing.T) {
	repo := &recordingProfileRepo{getErr: errors.New("db down")}
	uc := NewOnboardingUsecase(repo, zap.NewNop())
	if uc.IsComplete(context.Background(), uuid.New()) {
		t.Fatalf("lookup failure must count as incomplete")
	}

	repo = &recordingProfileRepo{}
	uc = NewOnboardingUsecase(repo, zap.NewNop())
	if uc.IsComplete(context.Background(), uuid.New()) {
		t.Fatalf("missing profile is incomplete")
	}

	userID := uuid.New()
	done := completedProfile(userID)
	done.ProfileCompleted = true
	repo = &recordingProfileRepo{stored: &done}
	uc = NewOnboardingUsecase(repo, zap.NewNop())
	if !uc.IsComplete(context.Background(), userID) {
		t.Fatalf("completed profile reported incomplete")
	}
}
