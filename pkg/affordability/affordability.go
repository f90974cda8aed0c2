// Package affordability estimates the maximum purchase price a borrower
// qualifies for under simplified Canadian underwriting rules: the mortgage
// stress test and the gross and total debt service limits.
package affordability

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/iwvelando/mortgage-calc/pkg/constants"
	"github.com/iwvelando/mortgage-calc/pkg/mathutil"
	"github.com/iwvelando/mortgage-calc/pkg/mortgage"
	"go.uber.org/zap"
)

// RatioLimits caps the share of gross monthly income that may go to housing
// costs (GDS) and to housing plus other debts (TDS).
type RatioLimits struct {
	GDS float64 `json:"gds" yaml:"gds" mapstructure:"gds"`
	TDS float64 `json:"tds" yaml:"tds" mapstructure:"tds"`
}

// Policy holds the tunable underwriting assumptions.
type Policy struct {
	PropertyTaxRate             float64                `json:"propertyTaxRate" yaml:"propertyTaxRate" mapstructure:"propertyTaxRate"`
	HeatingCost                 float64                `json:"heatingCost" yaml:"heatingCost" mapstructure:"heatingCost"`
	StressTestBuffer            float64                `json:"stressTestBuffer" yaml:"stressTestBuffer" mapstructure:"stressTestBuffer"`
	StressTestFloor             float64                `json:"stressTestFloor" yaml:"stressTestFloor" mapstructure:"stressTestFloor"`
	QualifyingAmortizationYears int                    `json:"qualifyingAmortizationYears" yaml:"qualifyingAmortizationYears" mapstructure:"qualifyingAmortizationYears"`
	MaxIterations               int                    `json:"maxIterations" yaml:"maxIterations" mapstructure:"maxIterations"`
	ConvergenceThreshold        float64                `json:"convergenceThreshold" yaml:"convergenceThreshold" mapstructure:"convergenceThreshold"`
	RatioLimits                 map[string]RatioLimits `json:"ratioLimits" yaml:"ratioLimits" mapstructure:"ratioLimits"`
}

// DefaultRatioLimits returns the GDS/TDS limits per credit tier.
func DefaultRatioLimits() map[string]RatioLimits {
	return map[string]RatioLimits{
		constants.CreditTierExcellent: {GDS: 0.39, TDS: 0.44},
		constants.CreditTierGood:      {GDS: 0.35, TDS: 0.42},
		constants.CreditTierFair:      {GDS: 0.32, TDS: 0.40},
		constants.CreditTierPoor:      {GDS: 0.30, TDS: 0.38},
	}
}

// DefaultPolicy returns the Canadian qualification defaults.
func DefaultPolicy() Policy {
	return Policy{
		PropertyTaxRate:             constants.DefaultPropertyTaxRate,
		HeatingCost:                 constants.DefaultHeatingCost,
		StressTestBuffer:            constants.DefaultStressTestBuffer,
		StressTestFloor:             constants.DefaultStressTestFloor,
		QualifyingAmortizationYears: constants.DefaultQualifyingAmortizationYears,
		MaxIterations:               constants.DefaultMaxIterations,
		ConvergenceThreshold:        constants.DefaultConvergenceThreshold,
		RatioLimits:                 DefaultRatioLimits(),
	}
}

// Tiers returns the credit tiers known to the policy in sorted order.
func (p Policy) Tiers() []string {
	tiers := make([]string, 0, len(p.RatioLimits))
	for tier := range p.RatioLimits {
		tiers = append(tiers, tier)
	}
	sort.Strings(tiers)
	return tiers
}

// Limits looks up the ratio limits for a credit tier.
func (p Policy) Limits(tier string) (RatioLimits, error) {
	limits, ok := p.RatioLimits[tier]
	if !ok {
		return RatioLimits{}, fmt.Errorf("unknown credit tier %q, expected one of %s", tier, strings.Join(p.Tiers(), ", "))
	}
	return limits, nil
}

// StressTestRate is the qualifying rate in percent for a contract rate.
func (p Policy) StressTestRate(contractRatePercent float64) float64 {
	return mathutil.Max(contractRatePercent+p.StressTestBuffer, p.StressTestFloor)
}

// MonthlyPropertyTax is the assumed property tax for a purchase price.
func (p Policy) MonthlyPropertyTax(price float64) float64 {
	return price * p.PropertyTaxRate / constants.MonthsPerYear
}

// BorrowerProfile describes the borrower side of a qualification.
type BorrowerProfile struct {
	AnnualIncome float64 `json:"annualIncome"`
	MonthlyDebts float64 `json:"monthlyDebts"`
	DownPayment  float64 `json:"downPayment"`
	CreditTier   string  `json:"creditTier"`
}

// Result is the qualification outcome.
type Result struct {
	MaxPurchasePrice        float64
	MaxMortgage             float64
	EstimatedMonthlyPayment float64
	GDSRatioPercent         float64
	TDSRatioPercent         float64
	StressTestRatePercent   float64
	Iterations              int
	Converged               bool
}

// Calculator solves for the maximum purchase price under a Policy.
type Calculator struct {
	logger *zap.Logger
	policy Policy
}

// NewCalculator creates a calculator for the given policy.
func NewCalculator(logger *zap.Logger, policy Policy) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calculator{logger: logger, policy: policy}
}

// Policy returns the policy the calculator applies.
func (c *Calculator) Policy() Policy {
	return c.policy
}

// Calculate finds the purchase price at which the stress-tested payment plus
// property tax and heating meets the tighter of the GDS and TDS limits.
//
// Property tax depends on the price being solved for, so the price is found
// by fixed-point iteration starting from the down payment. The loop stops when
// successive estimates differ by less than the convergence threshold or after
// MaxIterations rounds.
func (c *Calculator) Calculate(profile BorrowerProfile, contractRatePercent float64) (Result, error) {
	limits, err := c.policy.Limits(profile.CreditTier)
	if err != nil {
		return Result{}, err
	}

	monthlyIncome := profile.AnnualIncome / constants.MonthsPerYear
	stressRate := c.policy.StressTestRate(contractRatePercent)
	qualifyingMonths := c.policy.QualifyingAmortizationYears * constants.MonthsPerYear
	paymentFactor := mortgage.AnnuityFactor(mortgage.MonthlyRate(stressRate), qualifyingMonths)

	var result Result
	result.StressTestRatePercent = stressRate

	maxPurchasePrice := profile.DownPayment
	for i := 0; i < c.policy.MaxIterations; i++ {
		result.Iterations = i + 1
		monthlyPropertyTax := c.policy.MonthlyPropertyTax(maxPurchasePrice)

		availableGDS := monthlyIncome*limits.GDS - monthlyPropertyTax - c.policy.HeatingCost
		availableTDS := monthlyIncome*limits.TDS - monthlyPropertyTax - c.policy.HeatingCost - profile.MonthlyDebts
		availableForPI := mathutil.Min(availableGDS, availableTDS)

		newPurchasePrice := availableForPI/paymentFactor + profile.DownPayment
		delta := math.Abs(newPurchasePrice - maxPurchasePrice)
		maxPurchasePrice = newPurchasePrice

		c.logger.Debug(fmt.Sprintf("iteration %d: purchase price estimate %.2f", result.Iterations, maxPurchasePrice),
			zap.String("op", "affordability.Calculate"),
			zap.Float64("availableGDS", availableGDS),
			zap.Float64("availableTDS", availableTDS),
			zap.Float64("delta", delta),
		)

		if delta < c.policy.ConvergenceThreshold {
			result.Converged = true
			break
		}
	}

	maxMortgage := maxPurchasePrice - profile.DownPayment

	// Report the payment at the contract rate rather than the stress rate.
	monthlyPayment := mortgage.CalculateMonthlyPayment(maxMortgage, contractRatePercent, qualifyingMonths)

	result.MaxPurchasePrice = mathutil.FloorZero(maxPurchasePrice)
	result.MaxMortgage = mathutil.FloorZero(maxMortgage)
	result.EstimatedMonthlyPayment = mathutil.FloorZero(monthlyPayment)

	housing := result.EstimatedMonthlyPayment + c.policy.MonthlyPropertyTax(result.MaxPurchasePrice) + c.policy.HeatingCost
	result.GDSRatioPercent = mathutil.CalculatePercentage(housing, monthlyIncome)
	result.TDSRatioPercent = mathutil.CalculatePercentage(housing+profile.MonthlyDebts, monthlyIncome)

	if !result.Converged {
		c.logger.Warn("purchase price did not converge within the iteration cap",
			zap.String("op", "affordability.Calculate"),
			zap.Int("iterations", result.Iterations),
			zap.Float64("maxPurchasePrice", result.MaxPurchasePrice),
		)
	}

	return result, nil
}
