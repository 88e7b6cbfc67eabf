package main

import (
	"github.com/jonathan/apply-agent/internal/ats"
	"github.com/jonathan/apply-agent/internal/config"
	"github.com/jonathan/apply-agent/internal/formfill"
	"github.com/jonathan/apply-agent/internal/observability"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var detectCmd = &cobra.Command{
	Use:   "detect [url]",
	Short: "Detect the applicant tracking system behind an application form",
	Long: "Detect which applicant tracking system hosts an application form and list the controls " +
		"found for each field kind. Loads the URL in Chrome, or reads a saved page with --html.",
	Args: cobra.MaximumNArgs(1),
	RunE: runDetect,
}

var detectHTMLFile string

func init() {
	detectCmd.Flags().StringVar(&detectHTMLFile, "html", "", "Path to a saved HTML page (skips the browser)")

	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd, config.Config{})
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()

	page, pageURL, release, err := openPage(ctx, cfg, log, firstArg(args), detectHTMLFile)
	if err != nil {
		return err
	}
	defer release()

	vendor := ats.NewDetector(log).Detect(ctx, page)
	log.Info("detection finished", zap.String("vendor", string(vendor)))

	var mapped map[ats.FieldKind][]formfill.DiscoveredField
	if vendor != ats.VendorUnknown {
		mapped = formfill.NewLocator(page, log).LocateAll(ctx, vendor)
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintDetection(pageURL, vendor, mapped)
	return nil
}
