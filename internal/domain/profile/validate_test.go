package profile

import (
	"testing"

	"github.com/shopspring/decimal"
)

func validProfile() UserProfile {
	industry := "technology"
	life := decimal.NewFromInt(100000)
	health := decimal.NewFromInt(50000)
	return UserProfile{
		Name:               "Ana",
		Age:                30,
		Gender:             "female",
		MaritalStatus:      "single",
		EmploymentStatus:   EmploymentSalaried,
		IndustryType:       &industry,
		MonthlyIncome:      decimal.NewFromInt(5000),
		State:              "Jakarta",
		City:               "Jakarta",
		HasLifeInsurance:   true,
		LifeClaimLimit:     &life,
		HasHealthInsurance: true,
		HealthClaimLimit:   &health,
	}
}

func hasFieldError(errs ValidationErrors, field string) bool {
	for _, e := range errs {
		if e.Field == field {
			return true
		}
	}
	return false
}

func TestValidate_CompleteProfile(t *testing.T) {
	if errs := validProfile().Validate(); errs != nil {
		t.Fatalf("expected valid profile, got %v", errs)
	}
}

func TestValidate_AgeBounds(t *testing.T) {
	for _, age := range []int{17, 101, 0} {
		p := validProfile()
		p.Age = age
		if !hasFieldError(p.ValidateStep(StepPersonal), "age") {
			t.Fatalf("expected age error for %d", age)
		}
	}
	for _, age := range []int{18, 100} {
		p := validProfile()
		p.Age = age
		if hasFieldError(p.ValidateStep(StepPersonal), "age") {
			t.Fatalf("unexpected age error for %d", age)
		}
	}
}

func TestValidate_SalariedRequiresIndustry(t *testing.T) {
	p := validProfile()
	p.IndustryType = nil
	if !hasFieldError(p.ValidateStep(StepEmployment), "industry_type") {
		t.Fatalf("expected industry_type error")
	}

	p.EmploymentStatus = EmploymentSelfEmployed
	if hasFieldError(p.ValidateStep(StepEmployment), "industry_type") {
		t.Fatalf("industry_type should not be required for self-employed")
	}
}

func TestValidate_UnemployedAllowsZeroIncome(t *testing.T) {
	p := validProfile()
	p.EmploymentStatus = EmploymentUnemployed
	p.IndustryType = nil
	p.MonthlyIncome = decimal.Zero
	if errs := p.ValidateStep(StepEmployment); errs != nil {
		t.Fatalf("unemployed with zero income should validate, got %v", errs)
	}

	p.EmploymentStatus = EmploymentStudent
	if !hasFieldError(p.ValidateStep(StepEmployment), "monthly_income") {
		t.Fatalf("expected monthly_income error for student with zero income")
	}
}

func TestValidate_KidsCountGating(t *testing.T) {
	p := validProfile()
	p.HasKids = true
	p.KidsCount = nil
	if !hasFieldError(p.ValidateStep(StepFamily), "kids_count") {
		t.Fatalf("expected kids_count error when has_kids without count")
	}

	zero := 0
	p.KidsCount = &zero
	if !hasFieldError(p.ValidateStep(StepFamily), "kids_count") {
		t.Fatalf("expected kids_count error for zero kids")
	}

	one := 1
	p.KidsCount = &one
	if errs := p.ValidateStep(StepFamily); errs != nil {
		t.Fatalf("unexpected family errors: %v", errs)
	}
}

func TestValidate_InsuranceClaimLimits(t *testing.T) {
	p := validProfile()
	zero := decimal.Zero
	p.HealthClaimLimit = &zero
	if !hasFieldError(p.ValidateStep(StepInsurance), "health_claim_limit") {
		t.Fatalf("expected health_claim_limit error for zero limit")
	}

	p = validProfile()
	p.HasLifeInsurance = false
	p.LifeClaimLimit = nil
	if errs := p.ValidateStep(StepInsurance); errs != nil {
		t.Fatalf("no life insurance should not require a limit, got %v", errs)
	}
}

func TestValidateStep_UnknownStep(t *testing.T) {
	if !hasFieldError(validProfile().ValidateStep("bogus"), "step") {
		t.Fatalf("expected step error for unknown step")
	}
}

func TestNormalize_ClearsUngatedOptionals(t *testing.T) {
	p := validProfile()
	p.EmploymentStatus = EmploymentRetired
	p.HasKids = false
	two := 2
	p.KidsCount = &two
	p.HasLifeInsurance = false
	p.HasHealthInsurance = false

	p.Normalize()

	if p.IndustryType != nil {
		t.Fatalf("industry_type should be cleared for non-salaried")
	}
	if p.KidsCount != nil {
		t.Fatalf("kids_count should be cleared without kids")
	}
	if p.LifeClaimLimit != nil || p.HealthClaimLimit != nil {
		t.Fatalf("claim limits should be cleared without insurance")
	}
}
