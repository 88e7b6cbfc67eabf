package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/apply-agent/internal/browser"
	"github.com/jonathan/apply-agent/internal/config"
	"github.com/jonathan/apply-agent/internal/linkedin"
	"github.com/jonathan/apply-agent/internal/llm"
	"github.com/jonathan/apply-agent/internal/logger"
	"github.com/jonathan/apply-agent/internal/profile"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// loadSettings merges command flags over the config file and validates the result.
func loadSettings(cmd *cobra.Command, flags config.Config) (*config.Config, error) {
	fileCfg := &config.Config{}
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		fileCfg = loaded
	}

	if cmd.Flags().Changed("headless") {
		flags.Headless = &headless
	}
	flags.Verbose = verbose || fileCfg.Verbose
	flags.JSONLogs = jsonLogs || fileCfg.JSONLogs

	merged := flags.MergeWithDefaults(*fileCfg)
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	log, err := logger.New(cfg.JSONLogs, cfg.Verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return log, nil
}

func loadProfile(cfg *config.Config) (*profile.Profile, error) {
	if cfg.Profile == "" {
		return nil, fmt.Errorf("profile is required (use --profile or set \"profile\" in the config file)")
	}
	return profile.Load(cfg.Profile)
}

func openChrome(ctx context.Context, cfg *config.Config, log *zap.Logger) (*browser.Chrome, error) {
	return browser.NewChrome(ctx, &browser.ChromeOptions{
		Headless: cfg.IsHeadless(),
		Timeout:  cfg.Timeout(),
	}, log)
}

// newLLMClient returns nil when no API key is available; generation then
// uses its static fallbacks.
func newLLMClient(ctx context.Context, cfg *config.Config, log *zap.Logger) (llm.Client, error) {
	apiKey := cfg.ResolveAPIKey()
	if apiKey == "" {
		log.Warn("no API key configured, using fallback text", zap.String("env", config.APIKeyEnv))
		return nil, nil
	}
	client, err := llm.NewClient(ctx, llm.DefaultConfig().WithOverride(cfg.Model), apiKey, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return client, nil
}

// openPage loads pageURL in Chrome, or htmlFile into a static page when it is
// set. It returns the page, the address it was loaded under and a release func.
func openPage(ctx context.Context, cfg *config.Config, log *zap.Logger, pageURL, htmlFile string) (browser.Page, string, func(), error) {
	if htmlFile != "" {
		markup, err := os.ReadFile(htmlFile)
		if err != nil {
			return nil, "", nil, fmt.Errorf("failed to read HTML file: %w", err)
		}
		if pageURL == "" {
			abs, err := filepath.Abs(htmlFile)
			if err != nil {
				return nil, "", nil, fmt.Errorf("failed to resolve HTML path: %w", err)
			}
			pageURL = "file://" + abs
		}
		page, err := browser.NewStatic(pageURL, string(markup))
		if err != nil {
			return nil, "", nil, err
		}
		return page, pageURL, func() {}, nil
	}

	if pageURL == "" {
		return nil, "", nil, fmt.Errorf("must provide either a URL or --html")
	}
	chrome, err := openChrome(ctx, cfg, log)
	if err != nil {
		return nil, "", nil, err
	}
	if err := chrome.Navigate(ctx, pageURL); err != nil {
		chrome.Close()
		return nil, "", nil, fmt.Errorf("failed to open %s: %w", pageURL, err)
	}
	return chrome, pageURL, chrome.Close, nil
}

// signIn logs client in with the configured LinkedIn credentials. Without
// credentials it does nothing, or fails when required is set.
func signIn(ctx context.Context, cfg *config.Config, client *linkedin.Client, required bool) error {
	creds := cfg.LinkedInCredentials()
	if !creds.Complete() {
		if required {
			return missingCredentials()
		}
		return nil
	}
	return client.Login(ctx, creds)
}

func missingCredentials() error {
	return fmt.Errorf("%w (set %s and %s, or \"linkedin\" in the config file)",
		linkedin.ErrMissingCredentials, config.LinkedInEmailEnv, config.LinkedInPasswordEnv)
}

func firstArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
