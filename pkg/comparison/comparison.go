// Package comparison compares two mortgage scenarios for the same amount by
// the interest each one costs over its own rate term.
package comparison

import (
	"math"

	"github.com/iwvelando/mortgage-calc/pkg/constants"
	"github.com/iwvelando/mortgage-calc/pkg/mortgage"
)

// Rate types.
const (
	RateTypeFixed    = "fixed"
	RateTypeVariable = "variable"
)

// Scenario labels used when a scenario has no name.
const (
	LabelA = "A"
	LabelB = "B"
)

// Scenario describes one side of a comparison.
type Scenario struct {
	Name              string  `json:"name"`
	RatePercent       float64 `json:"ratePercent"`
	AmortizationYears int     `json:"amortizationYears"`
	TermYears         int     `json:"termYears"`
	RateType          string  `json:"rateType"`
}

// Outcome holds one scenario's payment and the totals over its term.
type Outcome struct {
	Scenario           Scenario
	MonthlyPayment     float64
	TotalPaidTerm      float64
	TotalInterestTerm  float64
	TotalPrincipalTerm float64
}

// Result holds both outcomes and the absolute differences between them.
type Result struct {
	ScenarioA           Outcome
	ScenarioB           Outcome
	MonthlyPaymentDelta float64
	InterestDelta       float64
	BetterScenario      string
	BetterScenarioLabel string
}

// Evaluate computes a scenario's payment over its amortization and the
// interest and principal paid during its term.
func Evaluate(amount float64, scenario Scenario) Outcome {
	amortizationMonths := scenario.AmortizationYears * constants.MonthsPerYear
	termMonths := scenario.TermYears * constants.MonthsPerYear

	monthlyPayment, interest := mortgage.InterestOverTerm(amount, scenario.RatePercent, amortizationMonths, termMonths)
	totalPaid := monthlyPayment * float64(termMonths)

	return Outcome{
		Scenario:           scenario,
		MonthlyPayment:     monthlyPayment,
		TotalPaidTerm:      totalPaid,
		TotalInterestTerm:  interest,
		TotalPrincipalTerm: totalPaid - interest,
	}
}

// Compare evaluates both scenarios for the same amount. B is better only when
// it costs strictly less interest than A, so ties go to A.
func Compare(amount float64, a, b Scenario) Result {
	outcomeA := Evaluate(amount, a)
	outcomeB := Evaluate(amount, b)

	paymentDiff := outcomeA.MonthlyPayment - outcomeB.MonthlyPayment
	interestDiff := outcomeA.TotalInterestTerm - outcomeB.TotalInterestTerm

	result := Result{
		ScenarioA:           outcomeA,
		ScenarioB:           outcomeB,
		MonthlyPaymentDelta: math.Abs(paymentDiff),
		InterestDelta:       math.Abs(interestDiff),
		BetterScenario:      LabelA,
		BetterScenarioLabel: label(a, LabelA),
	}
	if interestDiff > 0 {
		result.BetterScenario = LabelB
		result.BetterScenarioLabel = label(b, LabelB)
	}
	return result
}

func label(scenario Scenario, fallback string) string {
	if scenario.Name != "" {
		return scenario.Name
	}
	return fallback
}
