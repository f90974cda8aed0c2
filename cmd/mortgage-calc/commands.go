package main

import (
	"io"

	"github.com/iwvelando/mortgage-calc/internal/calculator"
	"github.com/iwvelando/mortgage-calc/pkg/affordability"
	"github.com/iwvelando/mortgage-calc/pkg/comparison"
	"github.com/iwvelando/mortgage-calc/pkg/constants"
	"github.com/iwvelando/mortgage-calc/pkg/mortgage"
	"github.com/iwvelando/mortgage-calc/pkg/output"
	"github.com/spf13/cobra"
)

func (a *app) newPaymentCmd() *cobra.Command {
	in := mortgage.InsuredPaymentInput{}

	cmd := &cobra.Command{
		Use:   "payment",
		Short: "Payment for a purchase, including CMHC insurance below 20% down",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := a.service.Payment(in)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), result,
				func(w io.Writer) { output.PrettyInsuredPayment(w, in, result) },
				func(w io.Writer) { output.CsvInsuredPayment(w, in, result) },
			)
		},
	}

	cmd.Flags().Float64Var(&in.HomePrice, "price", 500000, "home price")
	cmd.Flags().Float64Var(&in.DownPayment, "down", 100000, "down payment, in dollars or percent")
	cmd.Flags().StringVar(&in.DownPaymentType, "down-type", mortgage.DownPaymentDollar, "down payment unit: dollar, percent")
	cmd.Flags().Float64Var(&in.AnnualRatePercent, "rate", 5.5, "annual interest rate in percent")
	cmd.Flags().IntVar(&in.AmortizationYears, "amortization", 25, "amortization in years (25 or 30)")
	cmd.Flags().StringVar(&in.Frequency, "frequency", mortgage.FrequencyMonthly, "payment frequency: monthly, biweekly, accelerated")
	return cmd
}

func (a *app) newBreakdownCmd() *cobra.Command {
	terms := mortgage.LoanTerms{}

	cmd := &cobra.Command{
		Use:   "breakdown",
		Short: "Principal and interest paid over a rate term",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			breakdown, err := a.service.TermBreakdown(terms)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), breakdown,
				func(w io.Writer) { output.PrettyBreakdown(w, terms, breakdown) },
				func(w io.Writer) { output.CsvBreakdown(w, terms, breakdown) },
			)
		},
	}

	addLoanFlags(cmd, &terms)
	cmd.Flags().IntVar(&terms.TermYears, "term", 5, "rate term in years (1 to 5)")
	return cmd
}

func (a *app) newScheduleCmd() *cobra.Command {
	req := calculator.ScheduleRequest{}

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Month-by-month amortization table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rows, err := a.service.Schedule(req)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), rows,
				func(w io.Writer) { output.PrettySchedule(w, rows) },
				func(w io.Writer) { output.CsvSchedule(w, rows) },
			)
		},
	}

	addLoanFlags(cmd, &req.Terms)
	cmd.Flags().IntVar(&req.Months, "months", 0, "number of payments to show; 0 shows the full amortization")
	cmd.Flags().StringVar(&req.StartDate, "start", "", "first payment month as "+constants.DateTimeLayout+" (optional)")
	return cmd
}

func (a *app) newAffordCmd() *cobra.Command {
	profile := affordability.BorrowerProfile{}
	var rate float64

	cmd := &cobra.Command{
		Use:   "afford",
		Short: "Maximum purchase price under the stress test and GDS/TDS limits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := a.service.Affordability(profile, rate)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), result,
				func(w io.Writer) { output.PrettyAffordability(w, profile, result) },
				func(w io.Writer) { output.CsvAffordability(w, profile, result) },
			)
		},
	}

	cmd.Flags().Float64Var(&profile.AnnualIncome, "income", 100000, "gross annual household income")
	cmd.Flags().Float64Var(&profile.MonthlyDebts, "debts", 500, "monthly payments on other debts")
	cmd.Flags().Float64Var(&profile.DownPayment, "down", 50000, "down payment in dollars")
	cmd.Flags().StringVar(&profile.CreditTier, "credit", constants.CreditTierGood, "credit tier: excellent, good, fair, poor")
	cmd.Flags().Float64Var(&rate, "rate", 5.5, "contract interest rate in percent")
	return cmd
}

func (a *app) newCompareCmd() *cobra.Command {
	req := calculator.ComparisonRequest{}

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare two rate scenarios for the same mortgage amount",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := a.service.Compare(req)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), result,
				func(w io.Writer) { output.PrettyComparison(w, req.Amount, result) },
				func(w io.Writer) { output.CsvComparison(w, req.Amount, result) },
			)
		},
	}

	cmd.Flags().Float64Var(&req.Amount, "amount", 400000, "mortgage amount")
	addScenarioFlags(cmd, "a", &req.ScenarioA, comparison.Scenario{
		Name: "Fixed Rate", RatePercent: 5.5, AmortizationYears: 25, TermYears: 5, RateType: comparison.RateTypeFixed,
	})
	addScenarioFlags(cmd, "b", &req.ScenarioB, comparison.Scenario{
		Name: "Variable Rate", RatePercent: 4.8, AmortizationYears: 25, TermYears: 5, RateType: comparison.RateTypeVariable,
	})
	return cmd
}

func addLoanFlags(cmd *cobra.Command, terms *mortgage.LoanTerms) {
	cmd.Flags().Float64Var(&terms.Principal, "amount", 400000, "mortgage amount")
	cmd.Flags().Float64Var(&terms.AnnualRatePercent, "rate", 5.5, "annual interest rate in percent")
	cmd.Flags().IntVar(&terms.AmortizationYears, "amortization", 25, "amortization in years (25 or 30)")
}

func addScenarioFlags(cmd *cobra.Command, prefix string, s *comparison.Scenario, defaults comparison.Scenario) {
	cmd.Flags().StringVar(&s.Name, prefix+"-name", defaults.Name, "scenario "+prefix+" name")
	cmd.Flags().Float64Var(&s.RatePercent, prefix+"-rate", defaults.RatePercent, "scenario "+prefix+" rate in percent")
	cmd.Flags().IntVar(&s.AmortizationYears, prefix+"-amortization", defaults.AmortizationYears, "scenario "+prefix+" amortization in years")
	cmd.Flags().IntVar(&s.TermYears, prefix+"-term", defaults.TermYears, "scenario "+prefix+" term in years")
	cmd.Flags().StringVar(&s.RateType, prefix+"-type", defaults.RateType, "scenario "+prefix+" rate type: fixed, variable")
}
