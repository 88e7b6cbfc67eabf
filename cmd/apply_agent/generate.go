package main

import (
	"fmt"
	"os"

	"github.com/jonathan/apply-agent/internal/artifact"
	"github.com/jonathan/apply-agent/internal/config"
	"github.com/jonathan/apply-agent/internal/generation"
	"github.com/spf13/cobra"
)

var coverLetterCmd = &cobra.Command{
	Use:   "cover-letter",
	Short: "Generate a cover letter for a job posting",
	Long:  "Generate a cover letter from the candidate profile and job details. Without an API key a generic letter is produced.",
	RunE:  runCoverLetter,
}

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Generate a tailored résumé PDF for a job posting",
	Long:  "Generate a résumé tailored to the job details and render it to PDF. Without an API key the profile is laid out as is.",
	RunE:  runResume,
}

var (
	genProfile         string
	genTitle           string
	genCompany         string
	genDescription     string
	genDescriptionFile string
	genOutput          string
	genAPIKey          string
	genModel           string
)

func init() {
	for _, c := range []*cobra.Command{coverLetterCmd, resumeCmd} {
		c.Flags().StringVarP(&genProfile, "profile", "p", "", "Path to candidate profile (.json or .md)")
		c.Flags().StringVar(&genTitle, "title", "", "Job title")
		c.Flags().StringVar(&genCompany, "company", "", "Hiring company")
		c.Flags().StringVar(&genDescription, "description", "", "Job description text")
		c.Flags().StringVar(&genDescriptionFile, "description-file", "", "Path to a job description text file")
		c.Flags().StringVar(&genAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
		c.Flags().StringVar(&genModel, "model", "", "Gemini model to use")
		c.MarkFlagsMutuallyExclusive("description", "description-file")
		rootCmd.AddCommand(c)
	}
	coverLetterCmd.Flags().StringVarP(&genOutput, "out", "o", "", "Write the letter to this file instead of stdout")
	resumeCmd.Flags().StringVarP(&genOutput, "out", "o", "", "Path to output PDF file (required)")
	_ = resumeCmd.MarkFlagRequired("out")
}

func newGenerator(cmd *cobra.Command) (*generation.Generator, *config.Config, func(), error) {
	cfg, err := loadSettings(cmd, config.Config{Profile: genProfile, APIKey: genAPIKey, Model: genModel})
	if err != nil {
		return nil, nil, nil, err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	client, err := newLLMClient(cmd.Context(), cfg, log)
	if err != nil {
		return nil, nil, nil, err
	}
	release := func() {
		if client != nil {
			_ = client.Close()
		}
		_ = log.Sync()
	}
	return generation.New(client, log), cfg, release, nil
}

func runCoverLetter(cmd *cobra.Command, _ []string) error {
	gen, cfg, release, err := newGenerator(cmd)
	if err != nil {
		return err
	}
	defer release()

	p, err := loadProfile(cfg)
	if err != nil {
		return err
	}
	job, err := jobFromFlags("", genTitle, genCompany, genDescription, genDescriptionFile)
	if err != nil {
		return err
	}

	letter := gen.CoverLetter(cmd.Context(), p, job)
	if genOutput == "" {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), letter)
		return nil
	}
	if err := os.WriteFile(genOutput, []byte(letter+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write cover letter: %w", err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Cover letter written to %s\n", genOutput)
	return nil
}

func runResume(cmd *cobra.Command, _ []string) error {
	gen, cfg, release, err := newGenerator(cmd)
	if err != nil {
		return err
	}
	defer release()

	p, err := loadProfile(cfg)
	if err != nil {
		return err
	}
	job, err := jobFromFlags("", genTitle, genCompany, genDescription, genDescriptionFile)
	if err != nil {
		return err
	}

	data, err := artifact.RenderPDF(gen.Resume(cmd.Context(), p, job))
	if err != nil {
		return err
	}
	if err := os.WriteFile(genOutput, data, 0644); err != nil {
		return fmt.Errorf("failed to write resume PDF: %w", err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Resume written to %s\n", genOutput)
	return nil
}
