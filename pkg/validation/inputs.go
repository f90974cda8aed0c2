package validation

import (
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/mortgage-calc/pkg/affordability"
	"github.com/iwvelando/mortgage-calc/pkg/comparison"
	"github.com/iwvelando/mortgage-calc/pkg/mortgage"
)

// Accepted input ranges.
const (
	MinTermYears         = 1
	MaxTermYears         = 5
	MaxAnnualRatePercent = 25.0
)

// AllowedAmortizationYears lists the amortization periods the calculators offer.
var AllowedAmortizationYears = []int{25, 30}

// ErrNotFinite is returned for NaN or infinite amounts.
var ErrNotFinite = errors.New("value must be a finite number")

// ValidateAmount rejects negative and non-finite amounts.
func ValidateAmount(field string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("%s: %w", field, ErrNotFinite)
	}
	if value < 0 {
		return fmt.Errorf("%s must not be negative, got %.2f", field, value)
	}
	return nil
}

// ValidateRate checks an annual percentage rate.
func ValidateRate(field string, ratePercent float64) error {
	if err := ValidateAmount(field, ratePercent); err != nil {
		return err
	}
	if ratePercent > MaxAnnualRatePercent {
		return fmt.Errorf("%s must be at most %.0f%%, got %.2f%%", field, MaxAnnualRatePercent, ratePercent)
	}
	return nil
}

// ValidateAmortizationYears checks the amortization is one of the offered periods.
func ValidateAmortizationYears(years int) error {
	for _, allowed := range AllowedAmortizationYears {
		if years == allowed {
			return nil
		}
	}
	return fmt.Errorf("amortization must be one of %v years, got %d", AllowedAmortizationYears, years)
}

// ValidateTermYears checks the rate term length.
func ValidateTermYears(years int) error {
	if years < MinTermYears || years > MaxTermYears {
		return fmt.Errorf("term must be between %d and %d years, got %d", MinTermYears, MaxTermYears, years)
	}
	return nil
}

// ValidateLoanTerms validates the inputs of the payment and breakdown calculators.
func ValidateLoanTerms(terms mortgage.LoanTerms) error {
	if err := ValidateAmount("principal", terms.Principal); err != nil {
		return err
	}
	if err := ValidateRate("rate", terms.AnnualRatePercent); err != nil {
		return err
	}
	if err := ValidateAmortizationYears(terms.AmortizationYears); err != nil {
		return err
	}
	return ValidateTermYears(terms.TermYears)
}

// ValidateBorrowerProfile validates an affordability request against the
// ratio table of the policy in force.
func ValidateBorrowerProfile(profile affordability.BorrowerProfile, policy affordability.Policy) error {
	if err := ValidateAmount("annual income", profile.AnnualIncome); err != nil {
		return err
	}
	if err := ValidateAmount("monthly debts", profile.MonthlyDebts); err != nil {
		return err
	}
	if err := ValidateAmount("down payment", profile.DownPayment); err != nil {
		return err
	}
	if _, err := policy.Limits(profile.CreditTier); err != nil {
		return fmt.Errorf("credit tier: %w", err)
	}
	return nil
}

// ValidateScenario validates one side of a comparison.
func ValidateScenario(label string, scenario comparison.Scenario) error {
	if err := ValidateRate(label+" rate", scenario.RatePercent); err != nil {
		return err
	}
	if err := ValidateAmortizationYears(scenario.AmortizationYears); err != nil {
		return fmt.Errorf("%s: %w", label, err)
	}
	if err := ValidateTermYears(scenario.TermYears); err != nil {
		return fmt.Errorf("%s: %w", label, err)
	}
	switch scenario.RateType {
	case "", comparison.RateTypeFixed, comparison.RateTypeVariable:
	default:
		return fmt.Errorf("%s: rate type must be %s or %s, got %s",
			label, comparison.RateTypeFixed, comparison.RateTypeVariable, scenario.RateType)
	}
	return nil
}

// ValidateInsuredPayment validates the purchase-side payment calculator input.
func ValidateInsuredPayment(in mortgage.InsuredPaymentInput) error {
	if err := ValidateAmount("home price", in.HomePrice); err != nil {
		return err
	}
	if in.HomePrice == 0 {
		return errors.New("home price must be greater than zero")
	}
	if err := ValidateAmount("down payment", in.DownPayment); err != nil {
		return err
	}
	if err := ValidateRate("rate", in.AnnualRatePercent); err != nil {
		return err
	}
	if err := ValidateAmortizationYears(in.AmortizationYears); err != nil {
		return err
	}

	switch in.DownPaymentType {
	case "", mortgage.DownPaymentDollar:
	case mortgage.DownPaymentPercent:
		if in.DownPayment > 100 {
			return fmt.Errorf("down payment percent must be at most 100, got %.2f", in.DownPayment)
		}
	default:
		return fmt.Errorf("down payment type must be %s or %s, got %s",
			mortgage.DownPaymentDollar, mortgage.DownPaymentPercent, in.DownPaymentType)
	}
	if in.DownPaymentAmount() > in.HomePrice {
		return fmt.Errorf("down payment of %.2f exceeds home price of %.2f", in.DownPaymentAmount(), in.HomePrice)
	}

	switch in.Frequency {
	case "", mortgage.FrequencyMonthly, mortgage.FrequencyBiweekly, mortgage.FrequencyAccelerated:
	default:
		return fmt.Errorf("payment frequency must be %s, %s or %s, got %s",
			mortgage.FrequencyMonthly, mortgage.FrequencyBiweekly, mortgage.FrequencyAccelerated, in.Frequency)
	}
	return nil
}
