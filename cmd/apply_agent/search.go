package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/apply-agent/internal/browser"
	"github.com/jonathan/apply-agent/internal/config"
	"github.com/jonathan/apply-agent/internal/formfill"
	"github.com/jonathan/apply-agent/internal/linkedin"
	"github.com/jonathan/apply-agent/internal/observability"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search LinkedIn for suitable jobs and rank them",
	Long: "Search every keyword in every location, keep postings in a preferred location whose title " +
		"matches a known role family, and print them ranked. Signs in first when LinkedIn credentials " +
		"are configured. With --html a saved results page stands in for every search.",
	Args: cobra.NoArgs,
	RunE: runSearch,
}

var (
	searchKeywords  []string
	searchLocations []string
	searchMaxPages  int
	searchMaxJobs   int
	searchNoDetails bool
	searchOutFile   string
	searchHTMLFile  string
)

func init() {
	searchCmd.Flags().StringSliceVarP(&searchKeywords, "keyword", "k", nil, "Search keyword (repeatable; default: built-in role list)")
	searchCmd.Flags().StringSliceVarP(&searchLocations, "location", "l", nil, "Search location, in preference order (repeatable)")
	searchCmd.Flags().IntVar(&searchMaxPages, "max-pages", 0, "Result pages to read per search")
	searchCmd.Flags().IntVar(&searchMaxJobs, "max-jobs", 0, "Postings to keep per search")
	searchCmd.Flags().BoolVar(&searchNoDetails, "no-details", false, "Do not open each posting for its description")
	searchCmd.Flags().StringVar(&searchOutFile, "out", "", "Write the ranked jobs to this JSON file")
	searchCmd.Flags().StringVar(&searchHTMLFile, "html", "", "Path to a saved results page (skips the browser)")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd, config.Config{LinkedIn: config.LinkedIn{
		Keywords:  searchKeywords,
		Locations: searchLocations,
		MaxPages:  searchMaxPages,
		MaxJobs:   searchMaxJobs,
	}})
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	ctx := cmd.Context()

	opts := cfg.SessionOptions()
	opts.DryRun = true
	opts.SkipDetails = searchNoDetails

	var (
		page  browser.Page
		creds linkedin.Credentials
	)
	if searchHTMLFile != "" {
		page, err = staticResults(searchHTMLFile, opts)
		if err != nil {
			return err
		}
		opts.SkipDetails = true
		opts.BetweenSearches = formfill.Range{}
	} else {
		chrome, err := openChrome(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer chrome.Close()
		page = chrome
		creds = cfg.LinkedInCredentials()
	}

	client := linkedin.NewClient(page, formfill.NewPacer(cfg.FillerDelays()), log)
	jobs, err := linkedin.NewSession(client, nil, nil, opts, log).Search(ctx, creds)
	if err != nil {
		return err
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintJobs(jobs)

	if searchOutFile != "" {
		if err := writeJSON(searchOutFile, jobs); err != nil {
			return err
		}
		log.Info("search results written", zap.String("path", searchOutFile))
	}
	return nil
}

// staticResults serves the saved page at every search address opts produces.
func staticResults(htmlFile string, opts linkedin.SessionOptions) (*browser.Static, error) {
	markup, err := os.ReadFile(htmlFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read HTML file: %w", err)
	}
	page, err := browser.NewStatic("about:blank", "<html></html>")
	if err != nil {
		return nil, err
	}
	for _, location := range opts.Locations {
		for _, keyword := range opts.Keywords {
			page.AddRoute(linkedin.SearchURL(keyword, location), string(markup))
		}
	}
	return page, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
