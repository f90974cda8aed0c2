package integration

import (
	"os"
	"testing"
	"time"

	"github.com/iwvelando/mortgage-calc/internal/calculator"
	"github.com/iwvelando/mortgage-calc/internal/config"
	"github.com/iwvelando/mortgage-calc/pkg/affordability"
	"github.com/iwvelando/mortgage-calc/pkg/comparison"
	"github.com/iwvelando/mortgage-calc/pkg/mortgage"
	"go.uber.org/zap"
)

// TestRunner is a simple test runner for debugging
func TestMain(m *testing.M) {
	code := m.Run()
	os.Exit(code)
}

// TestPerformance tests performance characteristics
func TestPerformance(t *testing.T) {
	start := time.Now()
	conf, err := config.LoadConfiguration(testConfigPath)
	if err != nil {
		t.Fatalf("LoadConfiguration failed: %v", err)
	}
	loadTime := time.Since(start)

	service := calculator.NewService(zap.NewNop(), conf)

	start = time.Now()
	rows, err := service.Schedule(calculator.ScheduleRequest{
		Terms: mortgage.LoanTerms{Principal: 400000, AnnualRatePercent: 5.5, AmortizationYears: 30, TermYears: 5},
	})
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	scheduleTime := time.Since(start)

	start = time.Now()
	solved := 0
	for income := 30000.0; income <= 500000; income += 5000 {
		for _, tier := range conf.Policy.Tiers() {
			profile := affordability.BorrowerProfile{AnnualIncome: income, MonthlyDebts: 400, DownPayment: 40000, CreditTier: tier}
			if _, err := service.Affordability(profile, 5.5); err != nil {
				t.Fatalf("Affordability failed for %+v: %v", profile, err)
			}
			solved++
		}
	}
	affordTime := time.Since(start)

	totalTime := loadTime + scheduleTime + affordTime

	t.Logf("Performance metrics:")
	t.Logf("  Load config: %v", loadTime)
	t.Logf("  Full schedule (%d rows): %v", len(rows), scheduleTime)
	t.Logf("  Affordability (%d profiles): %v", solved, affordTime)
	t.Logf("  Total time: %v", totalTime)

	if totalTime > 10*time.Second {
		t.Errorf("Total processing time %v exceeds 10 second threshold", totalTime)
	}
	if len(rows) != 360 {
		t.Errorf("Expected 360 schedule rows, got %d", len(rows))
	}
}

// TestDataConsistency validates that multiple runs produce identical results
func TestDataConsistency(t *testing.T) {
	req := calculator.ComparisonRequest{
		Amount:    650000,
		ScenarioA: comparison.Scenario{Name: "Five year fixed", RatePercent: 4.79, AmortizationYears: 30, TermYears: 5},
		ScenarioB: comparison.Scenario{Name: "Three year variable", RatePercent: 4.45, AmortizationYears: 25, TermYears: 3},
	}
	profile := affordability.BorrowerProfile{AnnualIncome: 145000, MonthlyDebts: 850, DownPayment: 120000, CreditTier: "excellent"}

	var first comparison.Result
	var firstAfford affordability.Result

	for run := 0; run < 3; run++ {
		conf, err := config.LoadConfiguration(testConfigPath)
		if err != nil {
			t.Fatalf("LoadConfiguration failed on run %d: %v", run, err)
		}
		service := calculator.NewService(zap.NewNop(), conf)

		result, err := service.Compare(req)
		if err != nil {
			t.Fatalf("Compare failed on run %d: %v", run, err)
		}
		afford, err := service.Affordability(profile, 4.79)
		if err != nil {
			t.Fatalf("Affordability failed on run %d: %v", run, err)
		}

		if run == 0 {
			first = result
			firstAfford = afford
			continue
		}

		if result != first {
			t.Errorf("Run %d: comparison %+v differs from first run %+v", run, result, first)
		}
		if afford != firstAfford {
			t.Errorf("Run %d: affordability %+v differs from first run %+v", run, afford, firstAfford)
		}
	}
}

func BenchmarkAffordability(b *testing.B) {
	service := calculator.NewService(zap.NewNop(), nil)
	profile := affordability.BorrowerProfile{AnnualIncome: 100000, MonthlyDebts: 500, DownPayment: 50000, CreditTier: "good"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := service.Affordability(profile, 5.5); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkFullSchedule(b *testing.B) {
	service := calculator.NewService(zap.NewNop(), nil)
	req := calculator.ScheduleRequest{
		Terms:     mortgage.LoanTerms{Principal: 400000, AnnualRatePercent: 5.5, AmortizationYears: 30, TermYears: 5},
		StartDate: "2025-01",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := service.Schedule(req); err != nil {
			b.Fatal(err)
		}
	}
}
