// Package config defines the data structures related to configuration and
// includes functions for loading, checking and converting it.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/mortgage-calculator/pkg/constants"
	"github.com/iwvelando/mortgage-calculator/pkg/validation"
	"github.com/spf13/viper"
)

// DateTimeLayout is the format expected for loan start dates and is also the
// format of schedule date labels.
const DateTimeLayout = constants.DateTimeLayout

// Configuration holds all configuration for mortgage-calculator.
type Configuration struct {
	Currency     string                     `yaml:"currency,omitempty"`
	PeriodMonths int                        `yaml:"periodMonths,omitempty"`
	PageSize     int                        `yaml:"pageSize,omitempty"`
	Loans        []Loan                     `yaml:"loans"`
	Investment   *validation.InvestmentForm `yaml:"investment,omitempty"`
	Logging      LoggingConfig              `yaml:"logging,omitempty"`
	Output       OutputConfig               `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" json:"level,omitempty"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" json:"format,omitempty"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" json:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// Loan is one loan as written in the config file. Numeric fields stay text
// until they pass through the validation layer.
type Loan struct {
	ID           string                      `yaml:"id,omitempty"`
	Name         string                      `yaml:"name,omitempty"`
	Principal    string                      `yaml:"principal"`
	InterestRate string                      `yaml:"interestRate"`
	TermYears    string                      `yaml:"termYears"`
	StartDate    string                      `yaml:"startDate,omitempty"`
	Prepayments  []validation.PrepaymentForm `yaml:"prepayments,omitempty"`
}

// Form returns the loan as a validation form.
func (l Loan) Form() validation.LoanForm {
	return validation.LoanForm{
		ID:           l.ID,
		Name:         l.Name,
		Principal:    l.Principal,
		InterestRate: l.InterestRate,
		TermYears:    l.TermYears,
		Prepayments:  l.Prepayments,
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetDefault("currency", constants.DefaultCurrency)
	v.SetDefault("periodMonths", constants.DefaultPeriodMonths)
	v.SetDefault("pageSize", constants.DefaultPageSize)
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
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

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
// Numbers are accepted wherever the form fields expect text.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %s", err)
	}

	return decode(v)
}

// LoanLabel returns the name used for loan i in messages.
func (c *Configuration) LoanLabel(i int) string {
	loan := c.Loans[i]
	switch {
	case strings.TrimSpace(loan.Name) != "":
		return strings.TrimSpace(loan.Name)
	case strings.TrimSpace(loan.ID) != "":
		return strings.TrimSpace(loan.ID)
	}
	return DefaultLoanID(i)
}

// DefaultLoanID is the ID given to loan i when the config leaves it empty.
func DefaultLoanID(i int) string {
	return fmt.Sprintf("loan-%d", i+1)
}
