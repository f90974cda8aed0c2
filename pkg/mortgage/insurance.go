package mortgage

import (
	"fmt"
	"sort"

	"github.com/iwvelando/mortgage-calc/pkg/constants"
	"github.com/iwvelando/mortgage-calc/pkg/mathutil"
)

// Down payment input modes.
const (
	DownPaymentDollar  = "dollar"
	DownPaymentPercent = "percent"
)

// Payment frequencies.
const (
	FrequencyMonthly     = "monthly"
	FrequencyBiweekly    = "biweekly"
	FrequencyAccelerated = "accelerated"
)

// InsuranceTier charges PremiumRate on the mortgage when the down payment is
// strictly below MaxDownPaymentPercent of the price.
type InsuranceTier struct {
	MaxDownPaymentPercent float64 `json:"maxDownPaymentPercent" yaml:"maxDownPaymentPercent" mapstructure:"maxDownPaymentPercent"`
	PremiumRate           float64 `json:"premiumRate" yaml:"premiumRate" mapstructure:"premiumRate"`
}

// DefaultInsuranceTiers returns the CMHC premium schedule for high-ratio
// mortgages.
func DefaultInsuranceTiers() []InsuranceTier {
	return []InsuranceTier{
		{MaxDownPaymentPercent: 10, PremiumRate: 0.04},
		{MaxDownPaymentPercent: 15, PremiumRate: 0.031},
		{MaxDownPaymentPercent: 20, PremiumRate: 0.028},
	}
}

// PremiumRate looks up the insurance premium rate for a down payment
// percentage. Down payments at or above the last tier are uninsured.
func PremiumRate(downPaymentPercent float64, tiers []InsuranceTier) float64 {
	sorted := make([]InsuranceTier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].MaxDownPaymentPercent < sorted[j].MaxDownPaymentPercent
	})
	for _, tier := range sorted {
		if downPaymentPercent < tier.MaxDownPaymentPercent {
			return tier.PremiumRate
		}
	}
	return 0
}

// InsuredPaymentInput holds the purchase-side inputs of the payment calculator.
type InsuredPaymentInput struct {
	HomePrice         float64 `json:"homePrice"`
	DownPayment       float64 `json:"downPayment"`
	DownPaymentType   string  `json:"downPaymentType"`
	AnnualRatePercent float64 `json:"annualRatePercent"`
	AmortizationYears int     `json:"amortizationYears"`
	Frequency         string  `json:"frequency"`
}

// InsuredPaymentResult is the payment calculator output. Payment is expressed
// at the requested frequency; totals are over the full amortization.
type InsuredPaymentResult struct {
	Payment            float64
	MonthlyPayment     float64
	PaymentsPerYear    int
	TotalPaid          float64
	TotalInterest      float64
	Principal          float64
	CMHCPremium        float64
	DownPaymentAmount  float64
	DownPaymentPercent float64
}

// DownPaymentAmount resolves the down payment to dollars.
func (in InsuredPaymentInput) DownPaymentAmount() float64 {
	if in.DownPaymentType == DownPaymentPercent {
		return in.HomePrice * in.DownPayment / constants.PercentageMultiplier
	}
	return in.DownPayment
}

// CalculateInsuredPayment adds the mortgage insurance premium to the
// principal and derives the payment at the requested frequency.
func CalculateInsuredPayment(in InsuredPaymentInput, tiers []InsuranceTier) (InsuredPaymentResult, error) {
	var result InsuredPaymentResult

	down := in.DownPaymentAmount()
	principal := in.HomePrice - down
	downPercent := mathutil.CalculatePercentage(down, in.HomePrice)

	premium := principal * PremiumRate(downPercent, tiers)
	insured := principal + premium
	months := in.AmortizationYears * constants.MonthsPerYear
	monthly := CalculateMonthlyPayment(insured, in.AnnualRatePercent, months)

	switch in.Frequency {
	case "", FrequencyMonthly:
		result.Payment = monthly
		result.PaymentsPerYear = constants.MonthsPerYear
	case FrequencyBiweekly:
		result.Payment = monthly * constants.MonthsPerYear / constants.BiweeklyPeriodsPerYear
		result.PaymentsPerYear = constants.BiweeklyPeriodsPerYear
	case FrequencyAccelerated:
		result.Payment = monthly / 2
		result.PaymentsPerYear = constants.BiweeklyPeriodsPerYear
	default:
		return result, fmt.Errorf("unsupported payment frequency %q", in.Frequency)
	}

	result.MonthlyPayment = monthly
	result.TotalPaid = monthly * float64(months)
	result.TotalInterest = result.TotalPaid - insured
	result.Principal = insured
	result.CMHCPremium = premium
	result.DownPaymentAmount = down
	result.DownPaymentPercent = downPercent
	return result, nil
}
