package main

import (
	"fmt"
	"os"

	"github.com/jonathan/apply-agent/internal/ats"
	"github.com/jonathan/apply-agent/internal/config"
	"github.com/jonathan/apply-agent/internal/formfill"
	"github.com/jonathan/apply-agent/internal/observability"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fillCmd = &cobra.Command{
	Use:   "fill [url]",
	Short: "Fill and submit an application form",
	Long: "Open an application form, fill it from the candidate profile, upload the résumé and submit it. " +
		"The form is only submitted when the résumé upload succeeded.",
	Args: cobra.MaximumNArgs(1),
	RunE: runFill,
}

var (
	fillProfile     string
	fillResume      string
	fillCoverLetter string
	fillVendor      string
	fillHTMLFile    string
)

func init() {
	fillCmd.Flags().StringVarP(&fillProfile, "profile", "p", "", "Path to candidate profile (.json or .md)")
	fillCmd.Flags().StringVarP(&fillResume, "resume", "r", "", "Path to résumé file to upload")
	fillCmd.Flags().StringVar(&fillCoverLetter, "cover-letter", "", "Path to a cover letter text file")
	fillCmd.Flags().StringVar(&fillVendor, "vendor", "", "Skip detection and use this vendor (workday, lever, greenhouse, bamboohr, generic, linkedin)")
	fillCmd.Flags().StringVar(&fillHTMLFile, "html", "", "Path to a saved HTML page (skips the browser)")

	rootCmd.AddCommand(fillCmd)
}

func runFill(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd, config.Config{Profile: fillProfile, Resume: fillResume})
	if err != nil {
		return err
	}
	if cfg.Resume == "" {
		return fmt.Errorf("resume is required (use --resume or set \"resume\" in the config file)")
	}
	p, err := loadProfile(cfg)
	if err != nil {
		return err
	}

	var coverLetter string
	if fillCoverLetter != "" {
		data, err := os.ReadFile(fillCoverLetter)
		if err != nil {
			return fmt.Errorf("failed to read cover letter: %w", err)
		}
		coverLetter = string(data)
	}

	var vendor ats.Vendor
	if fillVendor != "" {
		vendor = ats.Vendor(fillVendor)
		if !ats.Known(vendor) {
			return fmt.Errorf("unknown vendor %q", fillVendor)
		}
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()
	pacer := formfill.NewPacer(cfg.FillerDelays())

	page, pageURL, release, err := openPage(ctx, cfg, log, firstArg(args), fillHTMLFile)
	if err != nil {
		return err
	}
	defer release()
	if fillHTMLFile == "" {
		if err := pacer.Pause(ctx, pacer.Delays.PageLoad); err != nil {
			return err
		}
	}

	if vendor == "" {
		vendor = ats.NewDetector(log).Detect(ctx, page)
		if vendor == ats.VendorUnknown {
			return fmt.Errorf("no application form detected at %s (use --vendor to override)", pageURL)
		}
	}
	log.Info("filling application form", zap.String("vendor", string(vendor)), zap.String("url", pageURL))

	out := formfill.NewFiller(page, pacer, log).Fill(ctx, vendor, p, cfg.Resume, coverLetter)
	observability.NewPrinter(cmd.OutOrStdout()).PrintOutcome(&out)

	if !out.Succeeded() {
		return fmt.Errorf("application was not submitted successfully (%s)", out.Submission)
	}
	return nil
}
