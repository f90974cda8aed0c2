// Package output provides utilities for formatting and displaying calculator results.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iwvelando/mortgage-calc/pkg/affordability"
	"github.com/iwvelando/mortgage-calc/pkg/comparison"
	"github.com/iwvelando/mortgage-calc/pkg/format"
	"github.com/iwvelando/mortgage-calc/pkg/mortgage"
)

// JSON writes any result as indented JSON.
func JSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// PrettyBreakdown outputs the payment and term breakdown as a labelled summary.
func PrettyBreakdown(w io.Writer, terms mortgage.LoanTerms, b mortgage.PaymentBreakdown) {
	fmt.Fprintf(w, "--- Payment breakdown for %s at %s ---\n", format.Currency(terms.Principal), format.Percent(terms.AnnualRatePercent, 2))
	fmt.Fprintf(w, "Amortization             | %d years\n", terms.AmortizationYears)
	fmt.Fprintf(w, "Term                     | %d years\n", terms.TermYears)
	fmt.Fprintf(w, "Monthly payment          | %s\n", format.CurrencyCents(b.MonthlyPayment))
	fmt.Fprintf(w, "Principal paid over term | %s\n", format.Currency(b.PrincipalPaidOverTerm))
	fmt.Fprintf(w, "Interest paid over term  | %s\n", format.Currency(b.InterestPaidOverTerm))
	fmt.Fprintf(w, "Balance at renewal       | %s\n", format.Currency(b.RemainingBalanceAtTerm))
	fmt.Fprintf(w, "Effective interest cost  | %s per year\n", format.Percent(b.EffectiveInterestCostPercent, 2))
}

// CsvBreakdown outputs the payment and term breakdown as a single CSV record.
func CsvBreakdown(w io.Writer, terms mortgage.LoanTerms, b mortgage.PaymentBreakdown) {
	fmt.Fprintf(w, `"principal","rate","amortization years","term years","monthly payment","principal paid","interest paid","remaining balance","effective interest cost"`+"\n")
	fmt.Fprintf(w, `"%.2f","%.4f","%d","%d","%.2f","%.2f","%.2f","%.2f","%.4f"`+"\n",
		terms.Principal, terms.AnnualRatePercent, terms.AmortizationYears, terms.TermYears,
		b.MonthlyPayment, b.PrincipalPaidOverTerm, b.InterestPaidOverTerm, b.RemainingBalanceAtTerm,
		b.EffectiveInterestCostPercent)
}

// PrettySchedule outputs a human-readable amortization table.
func PrettySchedule(w io.Writer, rows []mortgage.Payment) {
	fmt.Fprintf(w, "Month | Date    | Payment     | Interest    | Principal   | Balance\n")
	fmt.Fprintf(w, "_____ | _______ | ___________ | ___________ | ___________ | _______\n")
	for _, row := range rows {
		date := row.Date
		if date == "" {
			date = "-"
		}
		fmt.Fprintf(w, "%5d | %-7s | %11s | %11s | %11s | %s\n", row.Month, date,
			format.CurrencyCents(row.Payment), format.CurrencyCents(row.Interest),
			format.CurrencyCents(row.Principal), format.CurrencyCents(row.RemainingPrincipal))
	}
}

// CsvSchedule outputs the amortization table in comma-separated value format.
func CsvSchedule(w io.Writer, rows []mortgage.Payment) {
	fmt.Fprintf(w, `"month","date","payment","interest","principal","balance"`+"\n")
	for _, row := range rows {
		fmt.Fprintf(w, `"%d","%s","%.2f","%.2f","%.2f","%.2f"`+"\n", row.Month, row.Date,
			row.Payment, row.Interest, row.Principal, row.RemainingPrincipal)
	}
}

// PrettyAffordability outputs the affordability ceiling for a borrower.
func PrettyAffordability(w io.Writer, profile affordability.BorrowerProfile, r affordability.Result) {
	fmt.Fprintf(w, "--- Affordability for %s income, %s credit ---\n", format.Currency(profile.AnnualIncome), profile.CreditTier)
	fmt.Fprintf(w, "Maximum purchase price | %s\n", format.Currency(r.MaxPurchasePrice))
	fmt.Fprintf(w, "Maximum mortgage       | %s\n", format.Currency(r.MaxMortgage))
	fmt.Fprintf(w, "Down payment           | %s\n", format.Currency(profile.DownPayment))
	fmt.Fprintf(w, "Estimated payment      | %s per month\n", format.CurrencyCents(r.EstimatedMonthlyPayment))
	fmt.Fprintf(w, "GDS ratio              | %s\n", format.Percent(r.GDSRatioPercent, 1))
	fmt.Fprintf(w, "TDS ratio              | %s\n", format.Percent(r.TDSRatioPercent, 1))
	fmt.Fprintf(w, "Qualifying rate        | %s\n", format.Percent(r.StressTestRatePercent, 2))
	if !r.Converged {
		fmt.Fprintf(w, "Note: estimate did not settle after %d iterations\n", r.Iterations)
	}
}

// CsvAffordability outputs the affordability result as a single CSV record.
func CsvAffordability(w io.Writer, profile affordability.BorrowerProfile, r affordability.Result) {
	fmt.Fprintf(w, `"annual income","monthly debts","down payment","credit tier","max purchase price","max mortgage","monthly payment","gds ratio","tds ratio","qualifying rate","iterations","converged"`+"\n")
	fmt.Fprintf(w, `"%.2f","%.2f","%.2f","%s","%.2f","%.2f","%.2f","%.4f","%.4f","%.4f","%d","%t"`+"\n",
		profile.AnnualIncome, profile.MonthlyDebts, profile.DownPayment, profile.CreditTier,
		r.MaxPurchasePrice, r.MaxMortgage, r.EstimatedMonthlyPayment, r.GDSRatioPercent,
		r.TDSRatioPercent, r.StressTestRatePercent, r.Iterations, r.Converged)
}

// PrettyComparison outputs both scenarios side by side with the differences.
func PrettyComparison(w io.Writer, amount float64, r comparison.Result) {
	a, b := r.ScenarioA, r.ScenarioB
	fmt.Fprintf(w, "--- Comparison for %s ---\n", format.Currency(amount))
	fmt.Fprintf(w, "                 | %-16s | %-16s\n", scenarioName(a.Scenario, comparison.LabelA), scenarioName(b.Scenario, comparison.LabelB))
	fmt.Fprintf(w, "Rate             | %-16s | %-16s\n", format.Percent(a.Scenario.RatePercent, 2), format.Percent(b.Scenario.RatePercent, 2))
	fmt.Fprintf(w, "Term             | %-16s | %-16s\n", fmt.Sprintf("%d years", a.Scenario.TermYears), fmt.Sprintf("%d years", b.Scenario.TermYears))
	fmt.Fprintf(w, "Monthly payment  | %-16s | %-16s\n", format.CurrencyCents(a.MonthlyPayment), format.CurrencyCents(b.MonthlyPayment))
	fmt.Fprintf(w, "Interest in term | %-16s | %-16s\n", format.Currency(a.TotalInterestTerm), format.Currency(b.TotalInterestTerm))
	fmt.Fprintf(w, "Paid in term     | %-16s | %-16s\n", format.Currency(a.TotalPaidTerm), format.Currency(b.TotalPaidTerm))
	fmt.Fprintf(w, "Payment difference:  %s per month\n", format.CurrencyCents(r.MonthlyPaymentDelta))
	fmt.Fprintf(w, "Interest difference: %s\n", format.Currency(r.InterestDelta))
	fmt.Fprintf(w, "Lower interest cost: %s\n", r.BetterScenarioLabel)
}

// CsvComparison outputs one CSV record per scenario.
func CsvComparison(w io.Writer, amount float64, r comparison.Result) {
	fmt.Fprintf(w, `"scenario","name","rate","rate type","amortization years","term years","monthly payment","interest in term","principal in term","paid in term","better"`+"\n")
	for _, side := range []struct {
		label   string
		outcome comparison.Outcome
	}{
		{comparison.LabelA, r.ScenarioA},
		{comparison.LabelB, r.ScenarioB},
	} {
		s := side.outcome.Scenario
		fmt.Fprintf(w, `"%s","%s","%.4f","%s","%d","%d","%.2f","%.2f","%.2f","%.2f","%t"`+"\n",
			side.label, s.Name, s.RatePercent, s.RateType, s.AmortizationYears, s.TermYears,
			side.outcome.MonthlyPayment, side.outcome.TotalInterestTerm, side.outcome.TotalPrincipalTerm,
			side.outcome.TotalPaidTerm, r.BetterScenario == side.label)
	}
}

// PrettyInsuredPayment outputs the purchase payment summary including the
// mortgage insurance premium.
func PrettyInsuredPayment(w io.Writer, in mortgage.InsuredPaymentInput, r mortgage.InsuredPaymentResult) {
	frequency := in.Frequency
	if frequency == "" {
		frequency = mortgage.FrequencyMonthly
	}
	fmt.Fprintf(w, "--- Payment for a %s home ---\n", format.Currency(in.HomePrice))
	fmt.Fprintf(w, "Down payment      | %s (%s)\n", format.Currency(r.DownPaymentAmount), format.Percent(r.DownPaymentPercent, 1))
	fmt.Fprintf(w, "CMHC premium      | %s\n", format.Currency(r.CMHCPremium))
	fmt.Fprintf(w, "Mortgage amount   | %s\n", format.Currency(r.Principal))
	fmt.Fprintf(w, "Payment           | %s %s\n", format.CurrencyCents(r.Payment), frequency)
	fmt.Fprintf(w, "Monthly payment   | %s\n", format.CurrencyCents(r.MonthlyPayment))
	fmt.Fprintf(w, "Total interest    | %s\n", format.Currency(r.TotalInterest))
	fmt.Fprintf(w, "Total of payments | %s\n", format.Currency(r.TotalPaid))
}

// CsvInsuredPayment outputs the purchase payment summary as a single CSV record.
func CsvInsuredPayment(w io.Writer, in mortgage.InsuredPaymentInput, r mortgage.InsuredPaymentResult) {
	fmt.Fprintf(w, `"home price","down payment","down payment percent","cmhc premium","mortgage amount","frequency","payment","monthly payment","total interest","total paid"`+"\n")
	fmt.Fprintf(w, `"%.2f","%.2f","%.2f","%.2f","%.2f","%s","%.2f","%.2f","%.2f","%.2f"`+"\n",
		in.HomePrice, r.DownPaymentAmount, r.DownPaymentPercent, r.CMHCPremium, r.Principal,
		in.Frequency, r.Payment, r.MonthlyPayment, r.TotalInterest, r.TotalPaid)
}

func scenarioName(s comparison.Scenario, fallback string) string {
	if s.Name != "" {
		return s.Name
	}
	return fallback
}
