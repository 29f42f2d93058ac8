package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"

	"github.com/expenselens/walletledger/internal/api"
	"github.com/expenselens/walletledger/internal/category"
	"github.com/expenselens/walletledger/internal/config"
	"github.com/expenselens/walletledger/internal/expense"
	"github.com/expenselens/walletledger/internal/extractor"
	"github.com/expenselens/walletledger/internal/identity"
	"github.com/expenselens/walletledger/internal/ledger"
)

const version = "1.0.0"

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "walletledger",
	})

	var cfgFile string
	var user string

	root := &cobra.Command{
		Use:     "walletledger",
		Short:   "Turn wallet statements and payment screenshots into a categorized expense ledger",
		Version: version,
		Long: `walletledger ingests UPI wallet statement PDFs (PhonePe, Google Pay) and
OCR text from payment-confirmation screenshots, extracts debit transactions,
categorizes them, and keeps a deduplicated per-user CSV ledger with monthly
spend analysis and a next-month forecast.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")
	root.PersistentFlags().StringVarP(&user, "user", "u", "default", "ledger identity to operate on")

	newProcessor := func() (*expense.Processor, *config.Config, error) {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return nil, nil, err
		}
		store, err := ledger.NewStore(cfg.DataDir, logger)
		if err != nil {
			return nil, nil, err
		}
		classifier := category.NewClassifier()
		if cfg.RulesFile != "" {
			classifier, err = category.NewClassifierFromFile(cfg.RulesFile)
			if err != nil {
				return nil, nil, err
			}
		}
		return expense.NewProcessor(store, classifier, logger), cfg, nil
	}

	appendCmd := &cobra.Command{
		Use:   "append <statement.pdf|statement.txt> [more files...]",
		Short: "Extract transactions from wallet statements and append them to the ledger",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			processor, _, err := newProcessor()
			if err != nil {
				return err
			}
			for _, path := range args {
				text, err := readStatement(path)
				if err != nil {
					return err
				}
				result, err := processor.AppendStatement(user, text, true)
				if err != nil {
					return err
				}
				fmt.Printf("%s: extracted %d, added %d, ledger total %d\n",
					path, result.Extracted, result.Added, result.Total)
			}
			return nil
		},
	}

	estimateCmd := &cobra.Command{
		Use:   "estimate <ocr.txt>",
		Short: "Record one expense from a payment screenshot's OCR text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			processor, _, err := newProcessor()
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read OCR text %q: %w", args[0], err)
			}
			entry, result, err := processor.AppendScreenshot(user, string(data))
			if err != nil {
				return err
			}
			fmt.Printf("amount %.2f, category %s, added %d\n", entry.Amount, entry.Category, result.Added)
			return nil
		},
	}

	forecastCmd := &cobra.Command{
		Use:   "forecast",
		Short: "Print the next-month total spend estimate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			processor, _, err := newProcessor()
			if err != nil {
				return err
			}
			fmt.Printf("%.2f\n", processor.Forecast(user))
			return nil
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			processor, cfg, err := newProcessor()
			if err != nil {
				return err
			}
			users, err := identity.Open(cfg.UsersDB, cfg.AdminUser, cfg.AdminPassword, logger)
			if err != nil {
				return err
			}
			defer users.Close()

			uploadsDir := filepath.Join(cfg.DataDir, "uploads")
			if err := os.MkdirAll(uploadsDir, 0o755); err != nil {
				return fmt.Errorf("failed to create uploads dir: %w", err)
			}

			app := fiber.New(fiber.Config{BodyLimit: 32 << 20})
			api.New(processor, users, uploadsDir, logger).Register(app)

			logger.Info("listening", "addr", cfg.ListenAddr)
			return app.Listen(cfg.ListenAddr)
		},
	}

	root.AddCommand(appendCmd, estimateCmd, forecastCmd, serveCmd)

	if err := root.Execute(); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// readStatement loads statement text from a PDF (extracting its text) or a
// plain text export.
func readStatement(path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return extractor.ExtractTextCombined(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read statement %q: %w", path, err)
	}
	return string(data), nil
}
