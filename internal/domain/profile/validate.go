package profile

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Wizard steps, in order. A step validates independently so clients can gate
// advancement; Validate runs all of them for the final submit.
const (
	StepPersonal   = "personal"
	StepEmployment = "employment"
	StepFamily     = "family"
	StepLocation   = "location"
	StepInsurance  = "insurance"
)

var Steps = []string{StepPersonal, StepEmployment, StepFamily, StepLocation, StepInsurance}

// FieldError reports a single failed rule, keyed by the offending field so a
// client can attach it to the right input.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors is the full set of failures for a step or a submit.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// ValidateStep checks one wizard step's rules.
func (p UserProfile) ValidateStep(step string) ValidationErrors {
	switch step {
	case StepPersonal:
		return p.validatePersonal()
	case StepEmployment:
		return p.validateEmployment()
	case StepFamily:
		return p.validateFamily()
	case StepLocation:
		return p.validateLocation()
	case StepInsurance:
		return p.validateInsurance()
	default:
		return ValidationErrors{{Field: "step", Message: fmt.Sprintf("unknown step %q", step)}}
	}
}

// Validate checks every step; a nil result means the profile can be submitted.
func (p UserProfile) Validate() ValidationErrors {
	var errs ValidationErrors
	for _, s := range Steps {
		errs = append(errs, p.ValidateStep(s)...)
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (p UserProfile) validatePersonal() ValidationErrors {
	var errs ValidationErrors
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	}
	if p.Age < 18 || p.Age > 100 {
		errs = append(errs, FieldError{Field: "age", Message: "age must be between 18 and 100"})
	}
	if strings.TrimSpace(p.Gender) == "" {
		errs = append(errs, FieldError{Field: "gender", Message: "gender is required"})
	}
	if strings.TrimSpace(p.MaritalStatus) == "" {
		errs = append(errs, FieldError{Field: "marital_status", Message: "marital status is required"})
	}
	return errs
}

func (p UserProfile) validateEmployment() ValidationErrors {
	var errs ValidationErrors
	status := strings.TrimSpace(p.EmploymentStatus)
	if status == "" {
		errs = append(errs, FieldError{Field: "employment_status", Message: "employment status is required"})
		return errs
	}

	if status == EmploymentSalaried {
		if p.IndustryType == nil || strings.TrimSpace(*p.IndustryType) == "" {
			errs = append(errs, FieldError{Field: "industry_type", Message: "industry type is required for salaried employment"})
		}
	}

	// Income requirement applies only to the employed.
	if status != EmploymentUnemployed && !p.MonthlyIncome.GreaterThan(decimal.Zero) {
		errs = append(errs, FieldError{Field: "monthly_income", Message: "monthly income must be greater than zero"})
	}
	return errs
}

func (p UserProfile) validateFamily() ValidationErrors {
	var errs ValidationErrors
	if p.HasKids {
		if p.KidsCount == nil || *p.KidsCount < 1 {
			errs = append(errs, FieldError{Field: "kids_count", Message: "number of kids must be at least 1"})
		}
	}
	return errs
}

func (p UserProfile) validateLocation() ValidationErrors {
	var errs ValidationErrors
	if strings.TrimSpace(p.State) == "" {
		errs = append(errs, FieldError{Field: "state", Message: "state is required"})
	}
	if strings.TrimSpace(p.City) == "" {
		errs = append(errs, FieldError{Field: "city", Message: "city is required"})
	}
	return errs
}

func (p UserProfile) validateInsurance() ValidationErrors {
	var errs ValidationErrors
	if p.HasLifeInsurance {
		if p.LifeClaimLimit == nil || !p.LifeClaimLimit.GreaterThan(decimal.Zero) {
			errs = append(errs, FieldError{Field: "life_claim_limit", Message: "life insurance claim limit must be greater than zero"})
		}
	}
	if p.HasHealthInsurance {
		if p.HealthClaimLimit == nil || !p.HealthClaimLimit.GreaterThan(decimal.Zero) {
			errs = append(errs, FieldError{Field: "health_claim_limit", Message: "health insurance claim limit must be greater than zero"})
		}
	}
	return errs
}
