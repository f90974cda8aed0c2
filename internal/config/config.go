// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/mortgage-calc/pkg/affordability"
	"github.com/iwvelando/mortgage-calc/pkg/constants"
	"github.com/iwvelando/mortgage-calc/pkg/mortgage"
	"github.com/iwvelando/mortgage-calc/pkg/validation"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. MORTGAGE_CALC_POLICY_HEATINGCOST.
const EnvPrefix = "MORTGAGE_CALC"

// Configuration holds all configuration for mortgage-calc.
type Configuration struct {
	Policy  PolicyConfig  `yaml:"policy" json:"policy"`
	Logging LoggingConfig `yaml:"logging,omitempty" json:"-"`
	Output  OutputConfig  `yaml:"output,omitempty" json:"-"`
}

// PolicyConfig holds the underwriting assumptions and the mortgage insurance
// premium schedule.
type PolicyConfig struct {
	affordability.Policy `mapstructure:",squash" yaml:",inline"`
	InsuranceTiers       []mortgage.InsuranceTier `mapstructure:"insuranceTiers" yaml:"insuranceTiers" json:"insuranceTiers"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, json
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %s", err)
	}

	return decode(v)
}

// DefaultConfiguration returns the configuration used when no file is given,
// still honouring environment overrides.
func DefaultConfiguration() (*Configuration, error) {
	return decode(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("policy.propertyTaxRate", constants.DefaultPropertyTaxRate)
	v.SetDefault("policy.heatingCost", constants.DefaultHeatingCost)
	v.SetDefault("policy.stressTestBuffer", constants.DefaultStressTestBuffer)
	v.SetDefault("policy.stressTestFloor", constants.DefaultStressTestFloor)
	v.SetDefault("policy.qualifyingAmortizationYears", constants.DefaultQualifyingAmortizationYears)
	v.SetDefault("policy.maxIterations", constants.DefaultMaxIterations)
	v.SetDefault("policy.convergenceThreshold", constants.DefaultConvergenceThreshold)

	limits := make(map[string]any)
	for tier, l := range affordability.DefaultRatioLimits() {
		limits[tier] = map[string]any{"gds": l.GDS, "tds": l.TDS}
	}
	v.SetDefault("policy.ratioLimits", limits)

	var tiers []map[string]any
	for _, tier := range mortgage.DefaultInsuranceTiers() {
		tiers = append(tiers, map[string]any{
			"maxDownPaymentPercent": tier.MaxDownPaymentPercent,
			"premiumRate":           tier.PremiumRate,
		})
	}
	v.SetDefault("policy.insuranceTiers", tiers)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("output.format", constants.OutputFormatPretty)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	err := v.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &configuration, nil
}

// AffordabilityPolicy returns the underwriting policy for the affordability
// calculator.
func (c *Configuration) AffordabilityPolicy() affordability.Policy {
	return c.Policy.Policy
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string
	policy := c.Policy

	for _, tier := range []string{
		constants.CreditTierExcellent,
		constants.CreditTierGood,
		constants.CreditTierFair,
		constants.CreditTierPoor,
	} {
		if _, ok := policy.RatioLimits[tier]; !ok {
			warnings = append(warnings, fmt.Sprintf("ratio limits missing credit tier '%s'", tier))
		}
	}

	for _, tier := range policy.Tiers() {
		limits := policy.RatioLimits[tier]
		if limits.GDS <= 0 || limits.GDS > 1 || limits.TDS <= 0 || limits.TDS > 1 {
			warnings = append(warnings, fmt.Sprintf("ratio limits for '%s' should be fractions between 0 and 1 (gds %.2f, tds %.2f)",
				tier, limits.GDS, limits.TDS))
		}
		if limits.TDS < limits.GDS {
			warnings = append(warnings, fmt.Sprintf("TDS limit for '%s' is below its GDS limit (%.2f < %.2f)",
				tier, limits.TDS, limits.GDS))
		}
	}

	if policy.MaxIterations <= 0 {
		warnings = append(warnings, fmt.Sprintf("maxIterations should be positive, got %d", policy.MaxIterations))
	}
	if policy.ConvergenceThreshold <= 0 {
		warnings = append(warnings, fmt.Sprintf("convergenceThreshold should be positive, got %.2f", policy.ConvergenceThreshold))
	}
	if policy.QualifyingAmortizationYears <= 0 {
		warnings = append(warnings, fmt.Sprintf("qualifyingAmortizationYears should be positive, got %d", policy.QualifyingAmortizationYears))
	}
	if policy.PropertyTaxRate < 0 || policy.HeatingCost < 0 {
		warnings = append(warnings, "propertyTaxRate and heatingCost should not be negative")
	}

	for _, tier := range policy.InsuranceTiers {
		if tier.PremiumRate < 0 || tier.PremiumRate >= 1 {
			warnings = append(warnings, fmt.Sprintf("insurance premium rate %.4f below %.0f%% down should be a fraction between 0 and 1",
				tier.PremiumRate, tier.MaxDownPaymentPercent))
		}
	}

	if c.Output.Format != "" {
		if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
			warnings = append(warnings, err.Error())
		}
	}

	return warnings
}
