package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/apply-agent/internal/apply"
	"github.com/jonathan/apply-agent/internal/artifact"
	"github.com/jonathan/apply-agent/internal/config"
	"github.com/jonathan/apply-agent/internal/formfill"
	"github.com/jonathan/apply-agent/internal/generation"
	"github.com/jonathan/apply-agent/internal/linkedin"
	"github.com/jonathan/apply-agent/internal/observability"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var applyCmd = &cobra.Command{
	Use:   "apply <job-url>",
	Short: "Apply to a LinkedIn job posting",
	Long: "Open a LinkedIn job posting, generate a tailored cover letter and résumé, press the apply button " +
		"and fill whichever form appears, either Easy Apply or the employer's own application site. " +
		"Signs in first when LinkedIn credentials are configured. Title, company and description are read " +
		"from the posting unless given as flags.",
	Args: cobra.ExactArgs(1),
	RunE: runApply,
}

var (
	applyProfile         string
	applyResume          string
	applyTitle           string
	applyCompany         string
	applyDescription     string
	applyDescriptionFile string
	applyOutputDir       string
	applyNoCoverLetter   bool
	applyAPIKey          string
	applyModel           string
)

func init() {
	applyCmd.Flags().StringVarP(&applyProfile, "profile", "p", "", "Path to candidate profile (.json or .md)")
	applyCmd.Flags().StringVarP(&applyResume, "resume", "r", "", "Upload this résumé instead of generating one")
	applyCmd.Flags().StringVar(&applyTitle, "title", "", "Job title")
	applyCmd.Flags().StringVar(&applyCompany, "company", "", "Hiring company")
	applyCmd.Flags().StringVar(&applyDescription, "description", "", "Job description text")
	applyCmd.Flags().StringVar(&applyDescriptionFile, "description-file", "", "Path to a job description text file")
	applyCmd.Flags().StringVarP(&applyOutputDir, "output", "o", "", "Directory for the generated résumé (default: system temp dir)")
	applyCmd.Flags().BoolVar(&applyNoCoverLetter, "no-cover-letter", false, "Do not generate or add a cover letter")
	applyCmd.Flags().StringVar(&applyAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	applyCmd.Flags().StringVar(&applyModel, "model", "", "Gemini model to use for every generation call")

	applyCmd.MarkFlagsMutuallyExclusive("description", "description-file")

	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd, config.Config{
		Profile: applyProfile,
		Resume:  applyResume,
		Output:  applyOutputDir,
		APIKey:  applyAPIKey,
		Model:   applyModel,
	})
	if err != nil {
		return err
	}
	p, err := loadProfile(cfg)
	if err != nil {
		return err
	}
	job, err := jobFromFlags(args[0], applyTitle, applyCompany, applyDescription, applyDescriptionFile)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	ctx := cmd.Context()

	chrome, err := openChrome(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer chrome.Close()
	pacer := formfill.NewPacer(cfg.FillerDelays())

	li := linkedin.NewClient(chrome, pacer, log)
	if err := signIn(ctx, cfg, li, false); err != nil {
		return err
	}
	if job.Title == "" || job.Company == "" || job.Description == "" {
		job = scrapePosting(ctx, li, job, log)
	}

	client, err := newLLMClient(ctx, cfg, log)
	if err != nil {
		return err
	}
	if client != nil {
		defer func() { _ = client.Close() }()
	}
	gen := generation.New(client, log)

	var coverLetter string
	if !applyNoCoverLetter {
		coverLetter = gen.CoverLetter(ctx, p, job)
	}

	resumePath := cfg.Resume
	if resumePath == "" {
		file, err := artifact.WriteResumePDF(cfg.Output, job.Company, job.Title, gen.Resume(ctx, p, job))
		if err != nil {
			return err
		}
		defer func() {
			if err := file.Remove(); err != nil {
				log.Warn("failed to clean up resume artifact", zap.Error(err))
			}
		}()
		resumePath = file.Path
		log.Info("resume artifact written", zap.String("path", resumePath))
	}

	flow := apply.NewFlow(chrome, pacer, log)
	res, err := flow.Apply(ctx, job.URL, p, resumePath, coverLetter)
	if err != nil {
		return err
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintApplyResult(res)

	if !res.Succeeded() {
		return fmt.Errorf("application was not completed (%s)", res.Route)
	}
	return nil
}

// scrapePosting fills the details the flags left out from the posting page.
// Flag values win; a page that cannot be read leaves job as it was.
func scrapePosting(ctx context.Context, li *linkedin.Client, job generation.Job, log *zap.Logger) generation.Job {
	scraped, err := li.JobDescription(ctx, linkedin.Job{URL: job.URL, Title: job.Title, Company: job.Company})
	if err != nil {
		log.Warn("failed to read job posting, using flag values only", zap.Error(err))
		return job
	}
	posting := scraped.Posting()
	if job.Description != "" {
		posting.Description = job.Description
	}
	return posting
}

// jobFromFlags assembles the posting details used for generation.
func jobFromFlags(url, title, company, description, descriptionFile string) (generation.Job, error) {
	if descriptionFile != "" {
		data, err := os.ReadFile(descriptionFile)
		if err != nil {
			return generation.Job{}, fmt.Errorf("failed to read job description: %w", err)
		}
		description = string(data)
	}
	return generation.Job{
		Title:       title,
		Company:     company,
		Description: description,
		URL:         url,
	}, nil
}
