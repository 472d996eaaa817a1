package handler

import (
	"errors"

	"fin-advisor/internal/delivery/http/dto"
	"fin-advisor/internal/delivery/http/middleware"
	"fin-advisor/internal/domain/profile"
	"fin-advisor/internal/pkg/response"
	"fin-advisor/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OnboardingHandler struct {
	uc usecase.OnboardingUsecase
}

type profileRequest struct {
	Name               string           `json:"name"`
	Age                int              `json:"age"`
	Gender             string           `json:"gender"`
	MaritalStatus      string           `json:"marital_status"`
	EmploymentStatus   string           `json:"employment_status"`
	IndustryType       *string          `json:"industry_type"`
	MonthlyIncome      decimal.Decimal  `json:"monthly_income"`
	HasSpouse          bool             `json:"has_spouse"`
	HasParents         bool             `json:"has_parents"`
	HasKids            bool             `json:"has_kids"`
	KidsCount          *int             `json:"kids_count"`
	State              string           `json:"state"`
	City               string           `json:"city"`
	HasLifeInsurance   bool             `json:"has_life_insurance"`
	LifeClaimLimit     *decimal.Decimal `json:"life_claim_limit"`
	HasHealthInsurance bool             `json:"has_health_insurance"`
	HealthClaimLimit   *decimal.Decimal `json:"health_claim_limit"`
}

// profileUpdateRequest is the PUT payload. Every field is optional; pointer
// booleans keep an omitted flag distinguishable from an explicit false.
type profileUpdateRequest struct {
	Name               string           `json:"name"`
	Age                int              `json:"age"`
	Gender             string           `json:"gender"`
	MaritalStatus      string           `json:"marital_status"`
	EmploymentStatus   string           `json:"employment_status"`
	IndustryType       *string          `json:"industry_type"`
	MonthlyIncome      *decimal.Decimal `json:"monthly_income"`
	HasSpouse          *bool            `json:"has_spouse"`
	HasParents         *bool            `json:"has_parents"`
	HasKids            *bool            `json:"has_kids"`
	KidsCount          *int             `json:"kids_count"`
	State              string           `json:"state"`
	City               string           `json:"city"`
	HasLifeInsurance   *bool            `json:"has_life_insurance"`
	LifeClaimLimit     *decimal.Decimal `json:"life_claim_limit"`
	HasHealthInsurance *bool            `json:"has_health_insurance"`
	HealthClaimLimit   *decimal.Decimal `json:"health_claim_limit"`
}

type validateStepRequest struct {
	Step string `json:"step"`
	profileRequest
}

func NewOnboardingHandler(uc usecase.OnboardingUsecase) *OnboardingHandler {
	return &OnboardingHandler{uc: uc}
}

func (h *OnboardingHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/profile", h.GetProfile)
	r.Post("/profile", h.Submit)
	r.Put("/profile", h.Update)
	r.Post("/profile/validate", h.ValidateStep)
}

func (h *OnboardingHandler) GetProfile(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	p, err := h.uc.Get(c.Context(), userID)
	if err != nil {
		if errors.Is(err, usecase.ErrProfileNotFound) {
			return middleware.NewAppError(fiber.StatusNotFound, "Profile not found", nil, err)
		}
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewProfileResponse(p))
}

func (h *OnboardingHandler) Submit(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req profileRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	p, err := h.uc.Submit(c.Context(), req.toProfile(userID))
	if err != nil {
		return mapOnboardingError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewProfileResponse(p))
}

func (h *OnboardingHandler) Update(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req profileUpdateRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	p, err := h.uc.Update(c.Context(), userID, req.toPatch())
	if err != nil {
		return mapOnboardingError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewProfileResponse(p))
}

// ValidateStep dry-runs one wizard step so the client can gate "next". It
// never persists anything.
func (h *OnboardingHandler) ValidateStep(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req validateStepRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	errs := req.toProfile(userID).ValidateStep(req.Step)
	data := map[string]any{
		"step":   req.Step,
		"valid":  len(errs) == 0,
		"errors": errs,
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, data)
}

func (r profileRequest) toProfile(userID uuid.UUID) profile.UserProfile {
	return profile.UserProfile{
		UserID:             userID,
		Name:               r.Name,
		Age:                r.Age,
		Gender:             r.Gender,
		MaritalStatus:      r.MaritalStatus,
		EmploymentStatus:   r.EmploymentStatus,
		IndustryType:       r.IndustryType,
		MonthlyIncome:      r.MonthlyIncome,
		HasSpouse:          r.HasSpouse,
		HasParents:         r.HasParents,
		HasKids:            r.HasKids,
		KidsCount:          r.KidsCount,
		State:              r.State,
		City:               r.City,
		HasLifeInsurance:   r.HasLifeInsurance,
		LifeClaimLimit:     r.LifeClaimLimit,
		HasHealthInsurance: r.HasHealthInsurance,
		HealthClaimLimit:   r.HealthClaimLimit,
	}
}

func (r profileUpdateRequest) toPatch() usecase.ProfilePatch {
	return usecase.ProfilePatch{
		Name:               r.Name,
		Age:                r.Age,
		Gender:             r.Gender,
		MaritalStatus:      r.MaritalStatus,
		EmploymentStatus:   r.EmploymentStatus,
		IndustryType:       r.IndustryType,
		MonthlyIncome:      r.MonthlyIncome,
		HasSpouse:          r.HasSpouse,
		HasParents:         r.HasParents,
		HasKids:            r.HasKids,
		KidsCount:          r.KidsCount,
		State:              r.State,
		City:               r.City,
		HasLifeInsurance:   r.HasLifeInsurance,
		LifeClaimLimit:     r.LifeClaimLimit,
		HasHealthInsurance: r.HasHealthInsurance,
		HealthClaimLimit:   r.HealthClaimLimit,
	}
}

func mapOnboardingError(err error) error {
	var verrs profile.ValidationErrors
	if errors.As(err, &verrs) {
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, response.MessageUnprocessableEntity, verrs, err)
	}
	if errors.Is(err, usecase.ErrProfileNotFound) {
		return middleware.NewAppError(fiber.StatusNotFound, "Profile not found", nil, err)
	}
	return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
}
