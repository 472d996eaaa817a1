// Package calc implements the synchronous financial calculations the advisor
// UI exposes alongside chat. Math runs in float64; currency outputs are
// rounded to 2 decimal places on the way out.
package calc

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

var ErrUnknownType = errors.New("unknown calculation type")

const (
	TypeCompoundInterest  = "compound_interest"
	TypeRetirementSavings = "retirement_savings"
	TypeLoanPayment       = "loan_payment"
	TypePortfolioReturn   = "portfolio_return"
	TypeEmergencyFund     = "emergency_fund"
)

// Result mirrors the advisor platform's calculator tool output: echoed
// inputs, the computed values, a one-line explanation, and the assumptions
// baked into the math.
type Result struct {
	CalculationType string         `json:"calculation_type"`
	Inputs          map[string]any `json:"inputs"`
	Result          map[string]any `json:"result"`
	Explanation     string         `json:"explanation"`
	Assumptions     []string       `json:"assumptions"`
}

// Calculate dispatches on calculation type with free-form parameters.
func Calculate(calculationType string, params map[string]any) (Result, error) {
	switch calculationType {
	case TypeCompoundInterest:
		return compoundInterest(params)
	case TypeRetirementSavings:
		return retirementSavings(params)
	case TypeLoanPayment:
		return loanPayment(params)
	case TypePortfolioReturn:
		return portfolioReturn(params)
	case TypeEmergencyFund:
		return emergencyFund(params)
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownType, calculationType)
	}
}

func compoundInterest(params map[string]any) (Result, error) {
	principal, err := reqFloat(params, "principal")
	if err != nil {
		return Result{}, err
	}
	rate, err := reqFloat(params, "annual_rate")
	if err != nil {
		return Result{}, err
	}
	years, err := reqInt(params, "years")
	if err != nil {
		return Result{}, err
	}
	compounds := optInt(params, "compounds_per_year", 12)

	if principal <= 0 {
		return Result{}, fmt.Errorf("principal must be greater than zero")
	}
	if years < 1 {
		return Result{}, fmt.Errorf("years must be at least 1")
	}
	if compounds < 1 {
		return Result{}, fmt.Errorf("compounds_per_year must be at least 1")
	}
	rate = normalizeRate(rate)

	grow := func(y int) float64 {
		return principal * math.Pow(1+rate/float64(compounds), float64(compounds*y))
	}

	amount := grow(years)
	breakdown := make([]map[string]any, 0, years)
	for y := 1; y <= years; y++ {
		balance := grow(y)
		breakdown = append(breakdown, map[string]any{
			"year":            y,
			"balance":         money(balance),
			"interest_earned": money(balance - principal),
		})
	}

	effectiveRate := (math.Pow(amount/principal, 1/float64(years)) - 1) * 100

	return Result{
		CalculationType: TypeCompoundInterest,
		Inputs: map[string]any{
			"principal":          principal,
			"annual_rate":        rate * 100,
			"years":              years,
			"compounds_per_year": compounds,
		},
		Result: map[string]any{
			"final_amount":          money(amount),
			"total_interest":        money(amount - principal),
			"effective_annual_rate": round2(effectiveRate),
			"yearly_breakdown":      breakdown,
		},
		Explanation: fmt.Sprintf(
			"With compound interest, %.2f grows to %.2f over %d years at %.1f%% annual rate.",
			principal, amount, years, rate*100,
		),
		Assumptions: []string{
			fmt.Sprintf("Interest compounds %d times per year", compounds),
			"No additional contributions",
			"Constant interest rate",
			"No taxes or fees considered",
		},
	}, nil
}

func retirementSavings(params map[string]any) (Result, error) {
	currentAge, err := reqInt(params, "current_age")
	if err != nil {
		return Result{}, err
	}
	retirementAge, err := reqInt(params, "retirement_age")
	if err != nil {
		return Result{}, err
	}
	currentSavings, err := reqFloat(params, "current_savings")
	if err != nil {
		return Result{}, err
	}
	monthlyContribution, err := reqFloat(params, "monthly_contribution")
	if err != nil {
		return Result{}, err
	}
	annualReturn, err := reqFloat(params, "annual_return")
	if err != nil {
		return Result{}, err
	}

	if retirementAge <= currentAge {
		return Result{}, fmt.Errorf("retirement_age must be greater than current_age")
	}
	annualReturn = normalizeRate(annualReturn)

	years := retirementAge - currentAge
	monthlyReturn := annualReturn / 12
	months := years * 12

	fvCurrent := currentSavings * math.Pow(1+annualReturn, float64(years))

	var fvContributions float64
	if monthlyReturn > 0 {
		fvContributions = monthlyContribution * (math.Pow(1+monthlyReturn, float64(months)) - 1) / monthlyReturn
	} else {
		fvContributions = monthlyContribution * float64(months)
	}

	total := fvCurrent + fvContributions
	annualWithdrawal := total * 0.04
	monthlyWithdrawal := annualWithdrawal / 12

	result := map[string]any{
		"projected_retirement_savings": money(total),
		"value_of_current_savings":     money(fvCurrent),
		"value_of_contributions":       money(fvContributions),
		"monthly_withdrawal_4_percent": money(monthlyWithdrawal),
		"annual_withdrawal_4_percent":  money(annualWithdrawal),
	}

	if desired, ok := optFloat(params, "desired_monthly_income"); ok && desired > 0 {
		result["replacement_ratio_percent"] = round1(monthlyWithdrawal / desired * 100)
	}

	return Result{
		CalculationType: TypeRetirementSavings,
		Inputs: map[string]any{
			"current_age":          currentAge,
			"retirement_age":       retirementAge,
			"current_savings":      currentSavings,
			"monthly_contribution": monthlyContribution,
			"annual_return":        annualReturn * 100,
		},
		Result: result,
		Explanation: fmt.Sprintf(
			"By age %d, you're projected to have %.2f for retirement.",
			retirementAge, total,
		),
		Assumptions: []string{
			fmt.Sprintf("%.1f%% average annual return", annualReturn*100),
			"Consistent monthly contributions",
			"4% safe withdrawal rate in retirement",
			"No employer matching included",
			"Inflation not adjusted",
		},
	}, nil
}

func loanPayment(params map[string]any) (Result, error) {
	loanAmount, err := reqFloat(params, "loan_amount")
	if err != nil {
		return Result{}, err
	}
	rate, err := reqFloat(params, "annual_rate")
	if err != nil {
		return Result{}, err
	}
	termYears, err := reqInt(params, "loan_term_years")
	if err != nil {
		return Result{}, err
	}
	extraPayment, _ := optFloat(params, "extra_payment")

	if loanAmount <= 0 {
		return Result{}, fmt.Errorf("loan_amount must be greater than zero")
	}
	if termYears < 1 {
		return Result{}, fmt.Errorf("loan_term_years must be at least 1")
	}
	rate = normalizeRate(rate)

	monthlyRate := rate / 12
	numPayments := termYears * 12

	var monthlyPayment float64
	if monthlyRate > 0 {
		monthlyPayment = loanAmount * (monthlyRate * math.Pow(1+monthlyRate, float64(numPayments))) /
			(math.Pow(1+monthlyRate, float64(numPayments)) - 1)
	} else {
		monthlyPayment = loanAmount / float64(numPayments)
	}

	totalMonthly := monthlyPayment + extraPayment

	// Amortize with the extra payment applied to principal. Cap at double the
	// original schedule in case the payment barely covers interest.
	balance := loanAmount
	paymentsMade := 0
	totalInterest := 0.0
	for balance > 0.01 && paymentsMade < numPayments*2 {
		interest := balance * monthlyRate
		principalPart := math.Min(totalMonthly-interest, balance)
		balance -= principalPart
		totalInterest += interest
		paymentsMade++
	}

	interestWithoutExtra := monthlyPayment*float64(numPayments) - loanAmount
	monthsSaved := float64(numPayments - paymentsMade)

	return Result{
		CalculationType: TypeLoanPayment,
		Inputs: map[string]any{
			"loan_amount":     loanAmount,
			"annual_rate":     rate * 100,
			"loan_term_years": termYears,
			"extra_payment":   extraPayment,
		},
		Result: map[string]any{
			"monthly_payment":              money(monthlyPayment),
			"total_monthly_with_extra":     money(totalMonthly),
			"total_interest_without_extra": money(interestWithoutExtra),
			"total_interest_with_extra":    money(totalInterest),
			"interest_saved":               money(interestWithoutExtra - totalInterest),
			"months_saved":                 round1(monthsSaved),
			"years_saved":                  round1(monthsSaved / 12),
			"payoff_time_with_extra":       round1(float64(paymentsMade) / 12),
		},
		Explanation: fmt.Sprintf(
			"Monthly payment is %.2f. With %.2f extra monthly, save %.2f in interest.",
			monthlyPayment, extraPayment, interestWithoutExtra-totalInterest,
		),
		Assumptions: []string{
			"Fixed interest rate",
			"No prepayment penalties",
			"Extra payments applied to principal",
			"Consistent payment schedule",
		},
	}, nil
}

func portfolioReturn(params map[string]any) (Result, error) {
	allocations, err := reqFloatMap(params, "allocations")
	if err != nil {
		return Result{}, err
	}
	expectedReturns, err := reqFloatMap(params, "expected_returns")
	if err != nil {
		return Result{}, err
	}
	volatilities, err := reqFloatMap(params, "volatilities")
	if err != nil {
		return Result{}, err
	}
	if len(allocations) == 0 {
		return Result{}, fmt.Errorf("allocations must not be empty")
	}

	var total float64
	for _, weight := range allocations {
		total += weight
	}
	if math.Abs(total-1.0) > 0.01 && math.Abs(total-100.0) > 1.0 {
		return Result{}, fmt.Errorf("allocations must sum to 100%% (or 1.0)")
	}
	// Percent-form allocations become fractions.
	if total > 1.5 {
		for asset, weight := range allocations {
			allocations[asset] = weight / 100
		}
	}

	var expectedReturn, variance float64
	for asset, weight := range allocations {
		r, ok := expectedReturns[asset]
		if !ok {
			return Result{}, fmt.Errorf("missing expected return for asset %q", asset)
		}
		vol, ok := volatilities[asset]
		if !ok {
			return Result{}, fmt.Errorf("missing volatility for asset %q", asset)
		}
		expectedReturn += weight * r
		variance += weight * weight * vol * vol
	}

	volatility := math.Sqrt(variance)
	var sharpe float64
	if volatility > 0 {
		sharpe = expectedReturn / volatility
	}

	result := map[string]any{
		"expected_annual_return": round2(expectedReturn * 100),
		"annual_volatility":      round2(volatility * 100),
		"sharpe_ratio":           round2(sharpe),
	}
	if volatility > 0 {
		result["risk_return_ratio"] = round2(expectedReturn / volatility)
	}

	return Result{
		CalculationType: TypePortfolioReturn,
		Inputs: map[string]any{
			"allocations":      allocations,
			"expected_returns": expectedReturns,
			"volatilities":     volatilities,
		},
		Result: result,
		Explanation: fmt.Sprintf(
			"Portfolio expected return: %.1f%% with %.1f%% volatility.",
			expectedReturn*100, volatility*100,
		),
		Assumptions: []string{
			"Expected returns are annual",
			"Assets assumed uncorrelated",
			"Normal distribution of returns",
			"Constant volatility",
		},
	}, nil
}

func emergencyFund(params map[string]any) (Result, error) {
	monthlyExpenses, err := reqFloat(params, "monthly_expenses")
	if err != nil {
		return Result{}, err
	}
	if monthlyExpenses <= 0 {
		return Result{}, fmt.Errorf("monthly_expenses must be greater than zero")
	}
	monthsCoverage := optInt(params, "months_coverage", 6)
	currentSavings, _ := optFloat(params, "current_savings")
	monthlySavings, _ := optFloat(params, "monthly_savings")

	target := monthlyExpenses * float64(monthsCoverage)
	shortfall := target - currentSavings

	result := map[string]any{
		"target_emergency_fund":   money(target),
		"current_coverage_months": round1(currentSavings / monthlyExpenses),
		"shortfall":               money(math.Max(0, shortfall)),
	}
	if monthlySavings > 0 {
		monthsToTarget := math.Max(0, shortfall/monthlySavings)
		result["months_to_target"] = round1(monthsToTarget)
		result["years_to_target"] = round1(monthsToTarget / 12)
	}

	return Result{
		CalculationType: TypeEmergencyFund,
		Inputs: map[string]any{
			"monthly_expenses": monthlyExpenses,
			"months_coverage":  monthsCoverage,
			"current_savings":  currentSavings,
			"monthly_savings":  monthlySavings,
		},
		Result: result,
		Explanation: fmt.Sprintf(
			"Target emergency fund: %.2f (%d months of expenses).",
			target, monthsCoverage,
		),
		Assumptions: []string{
			fmt.Sprintf("%d months of expenses recommended", monthsCoverage),
			"Consistent monthly expenses",
			"Emergency fund in liquid savings",
			"No investment growth considered",
		},
	}, nil
}

// normalizeRate treats values above 1 as percentages.
func normalizeRate(rate float64) float64 {
	if rate > 1 {
		return rate / 100
	}
	return rate
}

func money(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

func round1(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(1).Float64()
	return f
}

func reqFloat(params map[string]any, key string) (float64, error) {
	v, ok := optFloat(params, key)
	if !ok {
		return 0, fmt.Errorf("missing or invalid parameter %q", key)
	}
	return v, nil
}

func optFloat(params map[string]any, key string) (float64, bool) {
	raw, ok := params[key]
	if !ok {
		return 0, false
	}
	return asFloat(raw)
}

func asFloat(raw any) (float64, bool) {
	switch n := raw.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// reqFloatMap reads a per-asset numeric map. JSON decoding hands these over
// as map[string]any; direct callers may pass map[string]float64.
func reqFloatMap(params map[string]any, key string) (map[string]float64, error) {
	raw, ok := params[key]
	if !ok {
		return nil, fmt.Errorf("missing or invalid parameter %q", key)
	}
	switch m := raw.(type) {
	case map[string]float64:
		out := make(map[string]float64, len(m))
		for k, v := range m {
			out[k] = v
		}
		return out, nil
	case map[string]any:
		out := make(map[string]float64, len(m))
		for k, v := range m {
			f, ok := asFloat(v)
			if !ok {
				return nil, fmt.Errorf("parameter %q has a non-numeric value for %q", key, k)
			}
			out[k] = f
		}
		return out, nil
	default:
		return nil, fmt.Errorf("missing or invalid parameter %q", key)
	}
}

func reqInt(params map[string]any, key string) (int, error) {
	v, ok := optFloat(params, key)
	if !ok {
		return 0, fmt.Errorf("missing or invalid parameter %q", key)
	}
	return int(v), nil
}

func optInt(params map[string]any, key string, def int) int {
	if v, ok := optFloat(params, key); ok {
		return int(v)
	}
	return def
}
