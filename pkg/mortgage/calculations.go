// Package mortgage provides the fixed-rate amortization math behind the
// payment, term breakdown and schedule calculators.
package mortgage

import (
	"fmt"
	"math"

	"github.com/iwvelando/mortgage-calc/pkg/constants"
	"github.com/iwvelando/mortgage-calc/pkg/datetime"
	"github.com/iwvelando/mortgage-calc/pkg/mathutil"
	"go.uber.org/zap"
)

// LoanTerms describes a fixed-rate mortgage.
type LoanTerms struct {
	Principal         float64 `json:"principal" yaml:"principal"`
	AnnualRatePercent float64 `json:"annualRatePercent" yaml:"annualRatePercent"`
	AmortizationYears int     `json:"amortizationYears" yaml:"amortizationYears"`
	TermYears         int     `json:"termYears" yaml:"termYears"`
}

// AmortizationMonths is the number of payments needed to retire the loan.
func (t LoanTerms) AmortizationMonths() int {
	return t.AmortizationYears * constants.MonthsPerYear
}

// TermMonths is the number of payments made during the rate term.
func (t LoanTerms) TermMonths() int {
	return t.TermYears * constants.MonthsPerYear
}

// PaymentBreakdown summarizes how payments made over a term split between
// principal and interest.
type PaymentBreakdown struct {
	MonthlyPayment               float64
	PrincipalPaidOverTerm        float64
	InterestPaidOverTerm         float64
	RemainingBalanceAtTerm       float64
	EffectiveInterestCostPercent float64
}

// Payment holds the values for a given payment.
type Payment struct {
	Month              int
	Date               string
	Payment            float64
	Principal          float64
	Interest           float64
	RemainingPrincipal float64
}

// MonthlyRate converts an annual percentage rate to a monthly decimal rate.
func MonthlyRate(annualRatePercent float64) float64 {
	return annualRatePercent / (constants.PercentageMultiplier * constants.MonthsPerYear)
}

// AnnuityFactor is the level payment per dollar borrowed at the given monthly
// rate over the given number of months.
func AnnuityFactor(monthlyRate float64, months int) float64 {
	if monthlyRate == 0 {
		return 1 / float64(months)
	}
	power := math.Pow(1+monthlyRate, float64(months))
	return monthlyRate * power / (power - 1)
}

// CalculateMonthlyPayment calculates the monthly payment for a loan using the standard amortization formula.
func CalculateMonthlyPayment(principal, annualRatePercent float64, amortizationMonths int) float64 {
	if annualRatePercent == 0 {
		// For zero interest, simply divide the principal by the amortization
		return principal / float64(amortizationMonths)
	}
	return principal * AnnuityFactor(MonthlyRate(annualRatePercent), amortizationMonths)
}

// CalculateInterestPayment calculates the interest portion of a payment.
func CalculateInterestPayment(remainingPrincipal, annualRatePercent float64) float64 {
	return remainingPrincipal * MonthlyRate(annualRatePercent)
}

// TermBreakdown walks the amortization month by month over the rate term and
// reports the principal and interest paid and the balance left at renewal.
func TermBreakdown(terms LoanTerms) PaymentBreakdown {
	monthlyPayment := CalculateMonthlyPayment(terms.Principal, terms.AnnualRatePercent, terms.AmortizationMonths())
	interest, principal, balance := walk(terms.Principal, terms.AnnualRatePercent, monthlyPayment, terms.TermMonths())

	return PaymentBreakdown{
		MonthlyPayment:               monthlyPayment,
		PrincipalPaidOverTerm:        principal,
		InterestPaidOverTerm:         interest,
		RemainingBalanceAtTerm:       mathutil.FloorZero(balance),
		EffectiveInterestCostPercent: mathutil.CalculatePercentage(interest/float64(terms.TermYears), terms.Principal),
	}
}

// InterestOverTerm returns the level payment and the interest accumulated
// over the first termMonths payments.
func InterestOverTerm(principal, annualRatePercent float64, amortizationMonths, termMonths int) (float64, float64) {
	monthlyPayment := CalculateMonthlyPayment(principal, annualRatePercent, amortizationMonths)
	interest, _, _ := walk(principal, annualRatePercent, monthlyPayment, termMonths)
	return monthlyPayment, interest
}

func walk(principal, annualRatePercent, monthlyPayment float64, months int) (interestPaid, principalPaid, balance float64) {
	balance = principal
	for month := 1; month <= months; month++ {
		interest := CalculateInterestPayment(balance, annualRatePercent)
		principalPart := monthlyPayment - interest
		interestPaid += interest
		principalPaid += principalPart
		balance -= principalPart
	}
	return interestPaid, principalPaid, balance
}

// ScheduleGenerator produces month-by-month amortization schedules.
type ScheduleGenerator struct {
	logger *zap.Logger
}

// NewScheduleGenerator creates a new generator instance
func NewScheduleGenerator(logger *zap.Logger) *ScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleGenerator{logger: logger}
}

// GenerateSchedule returns one Payment per month for the first months
// payments of the loan, or for the full amortization when months is not
// positive. When startDate is set each row is labelled with its YYYY-MM date.
func (g *ScheduleGenerator) GenerateSchedule(terms LoanTerms, startDate string, months int) ([]Payment, error) {
	total := terms.AmortizationMonths()
	if months <= 0 || months > total {
		months = total
	}

	var dates []string
	if startDate != "" {
		var err error
		dates, err = datetime.MonthSequence(startDate, months)
		if err != nil {
			return nil, fmt.Errorf("failed to date schedule: %w", err)
		}
	}

	monthlyPayment := CalculateMonthlyPayment(terms.Principal, terms.AnnualRatePercent, total)
	schedule := make([]Payment, 0, months)
	balance := terms.Principal
	for month := 1; month <= months; month++ {
		var current Payment
		current.Month = month
		if dates != nil {
			current.Date = dates[month-1]
		}
		current.Payment = monthlyPayment
		current.Interest = CalculateInterestPayment(balance, terms.AnnualRatePercent)
		current.Principal = monthlyPayment - current.Interest

		if month == total || mathutil.Round(balance-current.Principal) == 0 {
			// We will get machine error otherwise so just set to 0.
			current.RemainingPrincipal = 0.00
			schedule = append(schedule, current)
			g.logger.Debug(fmt.Sprintf("loan retired after %d payments", month),
				zap.String("op", "mortgage.GenerateSchedule"),
			)
			break
		}
		current.RemainingPrincipal = balance - current.Principal
		balance = current.RemainingPrincipal
		schedule = append(schedule, current)
	}

	return schedule, nil
}
