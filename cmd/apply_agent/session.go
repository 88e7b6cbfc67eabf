package main

import (
	"fmt"

	"github.com/jonathan/apply-agent/internal/apply"
	"github.com/jonathan/apply-agent/internal/config"
	"github.com/jonathan/apply-agent/internal/formfill"
	"github.com/jonathan/apply-agent/internal/generation"
	"github.com/jonathan/apply-agent/internal/linkedin"
	"github.com/jonathan/apply-agent/internal/observability"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Search, rank and apply to LinkedIn jobs in one paced session",
	Long: "Sign in to LinkedIn, search every keyword in every location, rank the suitable postings and apply " +
		"to the best of them with a tailored cover letter and résumé, pausing between applications and " +
		"taking longer breaks. A summary of the session is written as JSON to the output directory.",
	Args: cobra.NoArgs,
	RunE: runSession,
}

var (
	sessionProfile         string
	sessionResume          string
	sessionKeywords        []string
	sessionLocations       []string
	sessionMaxApplications int
	sessionDryRun          bool
	sessionOutreach        bool
	sessionOutputDir       string
	sessionAPIKey          string
	sessionModel           string
)

func init() {
	sessionCmd.Flags().StringVarP(&sessionProfile, "profile", "p", "", "Path to candidate profile (.json or .md)")
	sessionCmd.Flags().StringVarP(&sessionResume, "resume", "r", "", "Upload this résumé instead of generating one per job")
	sessionCmd.Flags().StringSliceVarP(&sessionKeywords, "keyword", "k", nil, "Search keyword (repeatable; default: built-in role list)")
	sessionCmd.Flags().StringSliceVarP(&sessionLocations, "location", "l", nil, "Search location, in preference order (repeatable)")
	sessionCmd.Flags().IntVar(&sessionMaxApplications, "max-applications", 0, "Stop after this many successful applications")
	sessionCmd.Flags().BoolVar(&sessionDryRun, "dry-run", false, "Search and rank without applying")
	sessionCmd.Flags().BoolVar(&sessionOutreach, "outreach", false, "Contact hiring managers after some applications")
	sessionCmd.Flags().StringVarP(&sessionOutputDir, "output", "o", "", "Directory for résumés and the session summary")
	sessionCmd.Flags().StringVar(&sessionAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	sessionCmd.Flags().StringVar(&sessionModel, "model", "", "Gemini model to use for every generation call")

	rootCmd.AddCommand(sessionCmd)
}

func runSession(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd, config.Config{
		Profile: sessionProfile,
		Resume:  sessionResume,
		Output:  sessionOutputDir,
		APIKey:  sessionAPIKey,
		Model:   sessionModel,
		LinkedIn: config.LinkedIn{
			Keywords:        sessionKeywords,
			Locations:       sessionLocations,
			MaxApplications: sessionMaxApplications,
		},
	})
	if err != nil {
		return err
	}
	if sessionOutreach {
		cfg.LinkedIn.Outreach.Enabled = true
	}
	p, err := loadProfile(cfg)
	if err != nil {
		return err
	}
	creds := cfg.LinkedInCredentials()
	if !sessionDryRun && !creds.Complete() {
		return missingCredentials()
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	ctx := cmd.Context()

	client, err := newLLMClient(ctx, cfg, log)
	if err != nil {
		return err
	}
	if client != nil {
		defer func() { _ = client.Close() }()
	}
	gen := generation.New(client, log)

	chrome, err := openChrome(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer chrome.Close()
	pacer := formfill.NewPacer(cfg.FillerDelays())
	li := linkedin.NewClient(chrome, pacer, log)

	opts := cfg.SessionOptions()
	opts.DryRun = sessionDryRun
	session := linkedin.NewSession(li, apply.NewFlow(chrome, pacer, log), gen, opts, log)
	if cfg.LinkedIn.Outreach.Enabled && !sessionDryRun {
		session.WithOutreach(linkedin.NewOutreach(li, gen, p, cfg.OutreachOptions(), log))
	}

	resumes := linkedin.GeneratedResumes(gen, p, cfg.Output, log)
	if cfg.Resume != "" {
		resumes = linkedin.StaticResume(cfg.Resume)
	}

	summary, err := session.Run(ctx, creds, p, resumes)
	if err != nil {
		return err
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintSession(summary)

	path, err := linkedin.SaveResults(cfg.Output, summary)
	if err != nil {
		return err
	}
	log.Info("session results saved", zap.String("path", path))
	fmt.Fprintf(cmd.OutOrStdout(), "Results saved to %s\n", path) //nolint:errcheck
	return nil
}
