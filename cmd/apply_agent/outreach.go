package main

import (
	"fmt"

	"github.com/jonathan/apply-agent/internal/config"
	"github.com/jonathan/apply-agent/internal/formfill"
	"github.com/jonathan/apply-agent/internal/generation"
	"github.com/jonathan/apply-agent/internal/linkedin"
	"github.com/jonathan/apply-agent/internal/observability"
	"github.com/jonathan/apply-agent/internal/profile"
	"github.com/spf13/cobra"
)

var outreachCmd = &cobra.Command{
	Use:   "outreach <job-url>",
	Short: "Contact hiring managers at the company behind a LinkedIn posting",
	Long: "Find people at the hiring company whose headline suggests they take part in hiring and send each " +
		"a connection request with a generated note, or with --follow-up a message to existing connections.",
	Args: cobra.ExactArgs(1),
	RunE: runOutreach,
}

var (
	outreachProfile     string
	outreachCompany     string
	outreachTitle       string
	outreachFollowUp    bool
	outreachMaxContacts int
	outreachAPIKey      string
	outreachModel       string
)

func init() {
	outreachCmd.Flags().StringVarP(&outreachProfile, "profile", "p", "", "Path to candidate profile used in notes (.json or .md)")
	outreachCmd.Flags().StringVar(&outreachCompany, "company", "", "Hiring company (default: read from the posting)")
	outreachCmd.Flags().StringVar(&outreachTitle, "title", "", "Job title (default: read from the posting)")
	outreachCmd.Flags().BoolVar(&outreachFollowUp, "follow-up", false, "Message existing connections instead of sending requests")
	outreachCmd.Flags().IntVar(&outreachMaxContacts, "max-contacts", 0, "People to contact")
	outreachCmd.Flags().StringVar(&outreachAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	outreachCmd.Flags().StringVar(&outreachModel, "model", "", "Gemini model to use for every generation call")

	rootCmd.AddCommand(outreachCmd)
}

func runOutreach(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd, config.Config{
		Profile: outreachProfile,
		APIKey:  outreachAPIKey,
		Model:   outreachModel,
		LinkedIn: config.LinkedIn{
			Outreach: config.Outreach{MaxContacts: outreachMaxContacts},
		},
	})
	if err != nil {
		return err
	}
	var p *profile.Profile
	if cfg.Profile != "" {
		if p, err = profile.Load(cfg.Profile); err != nil {
			return err
		}
	}
	if !cfg.LinkedInCredentials().Complete() {
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
	li := linkedin.NewClient(chrome, formfill.NewPacer(cfg.FillerDelays()), log)
	if err := signIn(ctx, cfg, li, true); err != nil {
		return err
	}

	job := linkedin.Job{URL: args[0], Title: outreachTitle, Company: outreachCompany}
	if job.Title == "" || job.Company == "" {
		if job, err = li.JobDescription(ctx, job); err != nil {
			return fmt.Errorf("failed to read job posting: %w", err)
		}
	}
	if job.Company == "" {
		return fmt.Errorf("could not determine the hiring company (use --company)")
	}

	// Every person found is contacted; the configured probability paces sessions only.
	opts := cfg.OutreachOptions()
	opts.ConnectionProbability = 1
	o := linkedin.NewOutreach(li, gen, p, opts, log)

	var res linkedin.OutreachResult
	if outreachFollowUp {
		res = o.FollowUp(ctx, job)
	} else {
		res = o.Execute(ctx, job)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintOutreach(job, res)

	if !res.Success {
		return fmt.Errorf("outreach did not reach anyone: %s", res.Reason)
	}
	return nil
}
