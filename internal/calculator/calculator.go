// Package calculator applies the loaded configuration to calculator requests,
// validating inputs before running the mortgage math.
package calculator

import (
	"fmt"

	"github.com/iwvelando/mortgage-calc/internal/config"
	"github.com/iwvelando/mortgage-calc/pkg/affordability"
	"github.com/iwvelando/mortgage-calc/pkg/comparison"
	"github.com/iwvelando/mortgage-calc/pkg/mortgage"
	"github.com/iwvelando/mortgage-calc/pkg/validation"
	"go.uber.org/zap"
)

// ComparisonRequest holds a shared mortgage amount and the two scenarios to compare.
type ComparisonRequest struct {
	Amount    float64             `json:"amount"`
	ScenarioA comparison.Scenario `json:"scenarioA"`
	ScenarioB comparison.Scenario `json:"scenarioB"`
}

// ScheduleRequest asks for the first Months payments of a loan; zero means
// the full amortization.
type ScheduleRequest struct {
	Terms     mortgage.LoanTerms `json:"terms"`
	StartDate string             `json:"startDate"`
	Months    int                `json:"months"`
}

// Service runs the calculators under one configured policy.
type Service struct {
	logger        *zap.Logger
	policy        config.PolicyConfig
	affordability *affordability.Calculator
	schedules     *mortgage.ScheduleGenerator
}

// NewService creates a calculator service. A nil configuration falls back to
// the built-in Canadian defaults.
func NewService(logger *zap.Logger, conf *config.Configuration) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	if conf == nil {
		conf = &config.Configuration{Policy: config.PolicyConfig{
			Policy:         affordability.DefaultPolicy(),
			InsuranceTiers: mortgage.DefaultInsuranceTiers(),
		}}
	}

	return &Service{
		logger:        logger,
		policy:        conf.Policy,
		affordability: affordability.NewCalculator(logger, conf.AffordabilityPolicy()),
		schedules:     mortgage.NewScheduleGenerator(logger),
	}
}

// Policy returns the policy the service calculates under.
func (s *Service) Policy() config.PolicyConfig {
	return s.policy
}

// Payment computes the purchase payment including any mortgage insurance premium.
func (s *Service) Payment(in mortgage.InsuredPaymentInput) (mortgage.InsuredPaymentResult, error) {
	if err := validation.ValidateInsuredPayment(in); err != nil {
		return mortgage.InsuredPaymentResult{}, err
	}

	result, err := mortgage.CalculateInsuredPayment(in, s.policy.InsuranceTiers)
	if err != nil {
		return result, err
	}

	s.logger.Debug(fmt.Sprintf("computed %s payment of %.2f", in.Frequency, result.Payment),
		zap.String("op", "calculator.Payment"),
		zap.Float64("principal", result.Principal),
		zap.Float64("premium", result.CMHCPremium),
	)
	return result, nil
}

// TermBreakdown computes the payment and how it splits over the rate term.
func (s *Service) TermBreakdown(terms mortgage.LoanTerms) (mortgage.PaymentBreakdown, error) {
	if err := validation.ValidateLoanTerms(terms); err != nil {
		return mortgage.PaymentBreakdown{}, err
	}

	breakdown := mortgage.TermBreakdown(terms)
	s.logger.Debug(fmt.Sprintf("computed term breakdown with monthly payment %.2f", breakdown.MonthlyPayment),
		zap.String("op", "calculator.TermBreakdown"),
		zap.Float64("interest", breakdown.InterestPaidOverTerm),
	)
	return breakdown, nil
}

// Schedule returns the month-by-month amortization table.
func (s *Service) Schedule(req ScheduleRequest) ([]mortgage.Payment, error) {
	terms := req.Terms
	if err := validation.ValidateAmount("principal", terms.Principal); err != nil {
		return nil, err
	}
	if err := validation.ValidateRate("rate", terms.AnnualRatePercent); err != nil {
		return nil, err
	}
	if err := validation.ValidateAmortizationYears(terms.AmortizationYears); err != nil {
		return nil, err
	}
	if req.Months < 0 {
		return nil, fmt.Errorf("months must not be negative, got %d", req.Months)
	}

	rows, err := s.schedules.GenerateSchedule(terms, req.StartDate, req.Months)
	if err != nil {
		return nil, err
	}

	s.logger.Debug(fmt.Sprintf("generated %d schedule rows", len(rows)),
		zap.String("op", "calculator.Schedule"),
	)
	return rows, nil
}

// Affordability estimates the maximum purchase price for a borrower at the
// given contract rate.
func (s *Service) Affordability(profile affordability.BorrowerProfile, contractRatePercent float64) (affordability.Result, error) {
	if err := validation.ValidateBorrowerProfile(profile, s.policy.Policy); err != nil {
		return affordability.Result{}, err
	}
	if err := validation.ValidateRate("rate", contractRatePercent); err != nil {
		return affordability.Result{}, err
	}

	return s.affordability.Calculate(profile, contractRatePercent)
}

// Compare evaluates two scenarios for the same amount.
func (s *Service) Compare(req ComparisonRequest) (comparison.Result, error) {
	if err := validation.ValidateAmount("amount", req.Amount); err != nil {
		return comparison.Result{}, err
	}
	if err := validation.ValidateScenario("scenario A", req.ScenarioA); err != nil {
		return comparison.Result{}, err
	}
	if err := validation.ValidateScenario("scenario B", req.ScenarioB); err != nil {
		return comparison.Result{}, err
	}

	result := comparison.Compare(req.Amount, req.ScenarioA, req.ScenarioB)
	s.logger.Debug(fmt.Sprintf("scenario %s has the lower interest cost", result.BetterScenario),
		zap.String("op", "calculator.Compare"),
		zap.Float64("interestDelta", result.InterestDelta),
	)
	return result, nil
}
