package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iwvelando/mortgage-calculator/internal/calculator"
	"github.com/iwvelando/mortgage-calculator/internal/config"
	"github.com/iwvelando/mortgage-calculator/internal/logging"
	"github.com/iwvelando/mortgage-calculator/pkg/chart"
	"github.com/iwvelando/mortgage-calculator/pkg/constants"
	"github.com/iwvelando/mortgage-calculator/pkg/output"
	"github.com/iwvelando/mortgage-calculator/pkg/validation"
	"go.uber.org/zap"
)

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	page := flag.Int("page", 0, "schedule page to print for each loan; 0 prints every page")
	chartDir := flag.String("chart", "", "directory to write PNG balance charts into")
	flag.Parse()

	// Load the config file to get logging configuration
	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI override takes precedence over config
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}

	outputFormat, err = validation.ValidateOutputFormat(outputFormat)
	if err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	report, err := calculator.GetReport(logger, *conf)
	if err != nil {
		logger.Fatal("failed to compute loan report",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	logWarnings(logger, outputFormat, report)

	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(os.Stdout, report, *page)
	case constants.OutputFormatCSV:
		if err := output.CsvFormat(os.Stdout, report); err != nil {
			logger.Fatal("failed to write CSV output",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	}

	if *chartDir != "" {
		if err := writeCharts(logger, *chartDir, report); err != nil {
			logger.Fatal("failed to write charts",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	}
}

// logWarnings sends configuration warnings to the log. Pretty output prints
// them itself, so they are only logged for the other formats.
func logWarnings(logger *zap.Logger, outputFormat string, report *calculator.Report) {
	if outputFormat == constants.OutputFormatPretty {
		return
	}
	for _, warning := range report.Warnings {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}
}

// chartFileName keeps a loan ID from escaping the chart directory.
func chartFileName(loanID string) string {
	name := strings.NewReplacer("/", "_", `\`, "_").Replace(strings.TrimSpace(loanID))
	if name == "" || name == "." || name == ".." {
		name = "loan"
	}
	return name + "-balance.png"
}

func writeCharts(logger *zap.Logger, dir string, report *calculator.Report) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create chart directory %s: %w", dir, err)
	}

	write := func(name string, img []byte) error {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, img, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		logger.Info("chart written",
			zap.String("op", "main.writeCharts"),
			zap.String("path", path),
		)
		return nil
	}

	for _, result := range report.Loans {
		img, err := chart.BalanceChart(result, report.Currency)
		if err != nil {
			return fmt.Errorf("loan %s: %w", result.LoanID, err)
		}
		if err := write(chartFileName(result.LoanID), img); err != nil {
			return err
		}
	}

	if report.Investment != nil {
		img, err := chart.InvestmentChart(*report.Investment, report.Currency)
		switch {
		case errors.Is(err, chart.ErrNoData):
			logger.Info("investment projection has no yearly values, skipping chart",
				zap.String("op", "main.writeCharts"),
			)
		case err != nil:
			return fmt.Errorf("investment: %w", err)
		default:
			if err := write("investment.png", img); err != nil {
				return err
			}
		}
	}
	return nil
}
