package config

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/mortgage-calc/pkg/affordability"
	"github.com/iwvelando/mortgage-calc/pkg/constants"
	"github.com/iwvelando/mortgage-calc/pkg/mortgage"
)

func TestLoadConfiguration(t *testing.T) {
	tests := []struct {
		name       string
		configPath string
		wantError  bool
	}{
		{
			name:       "Non-existent config file",
			configPath: "nonexistent.yaml",
			wantError:  true,
		},
		{
			name:       "Example config file",
			configPath: filepath.Join("..", "..", constants.ExampleConfigFile),
			wantError:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfiguration(tt.configPath)
			if tt.wantError {
				if err == nil {
					t.Errorf("LoadConfiguration() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("LoadConfiguration() error = %v", err)
				return
			}
			if config == nil {
				t.Errorf("LoadConfiguration() returned nil config")
			}
		})
	}
}

func TestExampleConfigMatchesDefaults(t *testing.T) {
	example, err := LoadConfiguration(filepath.Join("..", "..", constants.ExampleConfigFile))
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	defaults, err := DefaultConfiguration()
	if err != nil {
		t.Fatalf("DefaultConfiguration() error = %v", err)
	}

	assertPolicyEqual(t, example.AffordabilityPolicy(), defaults.AffordabilityPolicy())
	if len(example.Policy.InsuranceTiers) != len(defaults.Policy.InsuranceTiers) {
		t.Fatalf("insurance tiers = %d, expected %d", len(example.Policy.InsuranceTiers), len(defaults.Policy.InsuranceTiers))
	}
	if warnings := example.ValidateConfiguration(); len(warnings) != 0 {
		t.Errorf("example config should not produce warnings, got %v", warnings)
	}
}

func TestDefaultConfiguration(t *testing.T) {
	config, err := DefaultConfiguration()
	if err != nil {
		t.Fatalf("DefaultConfiguration() error = %v", err)
	}

	assertPolicyEqual(t, config.AffordabilityPolicy(), affordability.DefaultPolicy())

	tiers := config.Policy.InsuranceTiers
	expected := mortgage.DefaultInsuranceTiers()
	if len(tiers) != len(expected) {
		t.Fatalf("insurance tiers = %v, expected %v", tiers, expected)
	}
	for i := range expected {
		if tiers[i] != expected[i] {
			t.Errorf("insurance tier %d = %+v, expected %+v", i, tiers[i], expected[i])
		}
	}

	if config.Logging.Level != "info" {
		t.Errorf("Logging.Level = %s, expected info", config.Logging.Level)
	}
	if config.Output.Format != constants.OutputFormatPretty {
		t.Errorf("Output.Format = %s, expected pretty", config.Output.Format)
	}
	if warnings := config.ValidateConfiguration(); len(warnings) != 0 {
		t.Errorf("defaults should not produce warnings, got %v", warnings)
	}
}

func TestLoadConfigurationFromReaderOverrides(t *testing.T) {
	yaml := `
policy:
  heatingCost: 200
  maxIterations: 20
  ratioLimits:
    good: {gds: 0.33, tds: 0.41}
  insuranceTiers:
    - maxDownPaymentPercent: 20
      premiumRate: 0.03
logging:
  level: debug
  format: json
output:
  format: csv
`
	config, err := LoadConfigurationFromReader(strings.NewReader(yaml))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}

	policy := config.AffordabilityPolicy()
	if policy.HeatingCost != 200 {
		t.Errorf("HeatingCost = %v, expected 200", policy.HeatingCost)
	}
	if policy.MaxIterations != 20 {
		t.Errorf("MaxIterations = %v, expected 20", policy.MaxIterations)
	}
	if policy.StressTestFloor != constants.DefaultStressTestFloor {
		t.Errorf("StressTestFloor = %v, expected default %v", policy.StressTestFloor, constants.DefaultStressTestFloor)
	}
	good, err := policy.Limits(constants.CreditTierGood)
	if err != nil {
		t.Fatalf("Limits(good) error = %v", err)
	}
	if math.Abs(good.GDS-0.33) > 1e-9 || math.Abs(good.TDS-0.41) > 1e-9 {
		t.Errorf("good limits = %+v, expected {0.33 0.41}", good)
	}
	if len(config.Policy.InsuranceTiers) != 1 || config.Policy.InsuranceTiers[0].PremiumRate != 0.03 {
		t.Errorf("InsuranceTiers = %+v, expected single overridden tier", config.Policy.InsuranceTiers)
	}
	if config.Logging.Level != "debug" || config.Logging.Format != "json" {
		t.Errorf("Logging = %+v, expected debug/json", config.Logging)
	}
	if config.Output.Format != constants.OutputFormatCSV {
		t.Errorf("Output.Format = %s, expected csv", config.Output.Format)
	}
}

func TestLoadConfigurationFromReaderInvalidYAML(t *testing.T) {
	if _, err := LoadConfigurationFromReader(strings.NewReader("policy: [unclosed")); err == nil {
		t.Errorf("expected error for malformed YAML")
	}
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv(EnvPrefix+"_POLICY_HEATINGCOST", "175")

	config, err := DefaultConfiguration()
	if err != nil {
		t.Fatalf("DefaultConfiguration() error = %v", err)
	}
	if config.AffordabilityPolicy().HeatingCost != 175 {
		t.Errorf("HeatingCost = %v, expected environment override 175", config.AffordabilityPolicy().HeatingCost)
	}
}

func TestLoadConfigurationFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "policy:\n  stressTestFloor: 6\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	config, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if got := config.AffordabilityPolicy().StressTestRate(3); got != 6 {
		t.Errorf("StressTestRate(3) = %v, expected floor 6", got)
	}
}

func TestValidateConfiguration(t *testing.T) {
	tests := []struct {
		name          string
		modify        func(*Configuration)
		expectWarning string
	}{
		{
			name:          "Missing tier",
			modify:        func(c *Configuration) { delete(c.Policy.RatioLimits, constants.CreditTierPoor) },
			expectWarning: "missing credit tier 'poor'",
		},
		{
			name: "TDS below GDS",
			modify: func(c *Configuration) {
				c.Policy.RatioLimits[constants.CreditTierFair] = affordability.RatioLimits{GDS: 0.40, TDS: 0.35}
			},
			expectWarning: "TDS limit for 'fair' is below its GDS limit",
		},
		{
			name: "Ratio given as percent",
			modify: func(c *Configuration) {
				c.Policy.RatioLimits[constants.CreditTierGood] = affordability.RatioLimits{GDS: 35, TDS: 42}
			},
			expectWarning: "ratio limits for 'good' should be fractions",
		},
		{
			name:          "Zero iterations",
			modify:        func(c *Configuration) { c.Policy.MaxIterations = 0 },
			expectWarning: "maxIterations should be positive",
		},
		{
			name:          "Zero threshold",
			modify:        func(c *Configuration) { c.Policy.ConvergenceThreshold = 0 },
			expectWarning: "convergenceThreshold should be positive",
		},
		{
			name:          "Negative heating",
			modify:        func(c *Configuration) { c.Policy.HeatingCost = -10 },
			expectWarning: "should not be negative",
		},
		{
			name: "Premium given as percent",
			modify: func(c *Configuration) {
				c.Policy.InsuranceTiers = []mortgage.InsuranceTier{{MaxDownPaymentPercent: 10, PremiumRate: 4}}
			},
			expectWarning: "insurance premium rate",
		},
		{
			name:          "Unknown output format",
			modify:        func(c *Configuration) { c.Output.Format = "xml" },
			expectWarning: "expected output format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := DefaultConfiguration()
			if err != nil {
				t.Fatalf("DefaultConfiguration() error = %v", err)
			}
			tt.modify(config)

			warnings := config.ValidateConfiguration()
			found := false
			for _, warning := range warnings {
				if strings.Contains(warning, tt.expectWarning) {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("expected warning containing %q, got %v", tt.expectWarning, warnings)
			}
		})
	}
}

func assertPolicyEqual(t *testing.T, got, want affordability.Policy) {
	t.Helper()

	if got.PropertyTaxRate != want.PropertyTaxRate ||
		got.HeatingCost != want.HeatingCost ||
		got.StressTestBuffer != want.StressTestBuffer ||
		got.StressTestFloor != want.StressTestFloor ||
		got.QualifyingAmortizationYears != want.QualifyingAmortizationYears ||
		got.MaxIterations != want.MaxIterations ||
		got.ConvergenceThreshold != want.ConvergenceThreshold {
		t.Errorf("policy scalars = %+v, expected %+v", got, want)
	}
	if len(got.RatioLimits) != len(want.RatioLimits) {
		t.Fatalf("ratio limits = %v, expected %v", got.RatioLimits, want.RatioLimits)
	}
	for tier, limits := range want.RatioLimits {
		if got.RatioLimits[tier] != limits {
			t.Errorf("ratio limits for %s = %+v, expected %+v", tier, got.RatioLimits[tier], limits)
		}
	}
}
