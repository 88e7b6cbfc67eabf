// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/apply-agent/internal/formfill"
	"github.com/jonathan/apply-agent/internal/linkedin"
)

// Environment variables consulted when the file leaves a secret empty.
const (
	APIKeyEnv           = "GEMINI_API_KEY"
	LinkedInEmailEnv    = "LINKEDIN_EMAIL"
	LinkedInPasswordEnv = "LINKEDIN_PASSWORD"
)

// DelayRange is a pause bound in seconds.
type DelayRange struct {
	Min float64 `json:"min" validate:"gte=0"`
	Max float64 `json:"max" validate:"gte=0,gtefield=Min"`
}

// Delays configures every pause the form filler makes. Omitted ranges use
// the filler's defaults; a range of {0, 0} disables that pause.
type Delays struct {
	Keystroke *DelayRange `json:"keystroke,omitempty"`
	Clear     *DelayRange `json:"clear,omitempty"`
	AfterType *DelayRange `json:"after_type,omitempty"`
	Select    *DelayRange `json:"select,omitempty"`
	Upload    *DelayRange `json:"upload,omitempty"`
	Submit    *DelayRange `json:"submit,omitempty"`
	PageLoad  *DelayRange `json:"page_load,omitempty"`
}

// LinkedIn configures sign-in, search sessions and outreach. Zero values use
// the session defaults.
type LinkedIn struct {
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`

	Keywords            []string    `json:"keywords,omitempty"`
	Locations           []string    `json:"locations,omitempty"`
	MaxApplications     int         `json:"max_applications_per_session,omitempty" validate:"gte=0"`
	MaxPages            int         `json:"max_pages,omitempty" validate:"gte=0"`
	MaxJobs             int         `json:"max_jobs_per_search,omitempty" validate:"gte=0"`
	BreakInterval       int         `json:"break_interval,omitempty" validate:"gte=0"` // Applications between long breaks
	BreakDuration       *DelayRange `json:"break_duration,omitempty"`
	BetweenApplications *DelayRange `json:"between_applications,omitempty"`
	BetweenSearches     *DelayRange `json:"between_searches,omitempty"`

	Outreach Outreach `json:"outreach"`
}

// Outreach configures messages to people at hiring companies.
type Outreach struct {
	Enabled               bool     `json:"enabled,omitempty"`
	Personalized          *bool    `json:"personalized_messages,omitempty"`
	ConnectionProbability *float64 `json:"connection_request_probability,omitempty" validate:"omitempty,gte=0,lte=1"`
	MaxContacts           int      `json:"max_contacts,omitempty" validate:"gte=0"`
}

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Paths
	Profile string `json:"profile,omitempty"` // Candidate profile (.json or .md)
	Resume  string `json:"resume,omitempty"`  // Résumé file to upload
	Output  string `json:"output,omitempty"`  // Directory for generated artifacts

	// Behavior
	APIKey         string `json:"api_key,omitempty"`                         // Gemini API key
	Model          string `json:"model,omitempty"`                           // Gemini model override
	Headless       *bool  `json:"headless,omitempty"`                        // Run Chrome without a window
	BrowserTimeout int    `json:"browser_timeout,omitempty" validate:"gte=0"` // Seconds per DOM operation
	Verbose        bool   `json:"verbose,omitempty"`                         // Print detailed debug information
	JSONLogs       bool   `json:"json_logs,omitempty"`                       // Emit structured JSON logs

	Delays   Delays   `json:"delays"`
	LinkedIn LinkedIn `json:"linkedin"`
}

var validate = validator.New()

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Required fields are checked by the commands after flags are merged.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("config error: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("config error: %w", err)
	}

	if c.Profile != "" {
		if _, err := os.Stat(c.Profile); os.IsNotExist(err) {
			return fmt.Errorf("config error: profile file not found: %s", c.Profile)
		}
	}
	if c.Resume != "" {
		if _, err := os.Stat(c.Resume); os.IsNotExist(err) {
			return fmt.Errorf("config error: resume file not found: %s", c.Resume)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Profile == "" {
		result.Profile = defaults.Profile
	}
	if result.Resume == "" {
		result.Resume = defaults.Resume
	}
	if result.Output == "" {
		result.Output = defaults.Output
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.Headless == nil {
		result.Headless = defaults.Headless
	}
	if result.BrowserTimeout == 0 {
		result.BrowserTimeout = defaults.BrowserTimeout
	}

	d := &result.Delays
	for _, pair := range []struct {
		dst **DelayRange
		src *DelayRange
	}{
		{&d.Keystroke, defaults.Delays.Keystroke},
		{&d.Clear, defaults.Delays.Clear},
		{&d.AfterType, defaults.Delays.AfterType},
		{&d.Select, defaults.Delays.Select},
		{&d.Upload, defaults.Delays.Upload},
		{&d.Submit, defaults.Delays.Submit},
		{&d.PageLoad, defaults.Delays.PageLoad},
	} {
		if *pair.dst == nil {
			*pair.dst = pair.src
		}
	}

	li, dl := &result.LinkedIn, defaults.LinkedIn
	if li.Email == "" {
		li.Email = dl.Email
	}
	if li.Password == "" {
		li.Password = dl.Password
	}
	if len(li.Keywords) == 0 {
		li.Keywords = dl.Keywords
	}
	if len(li.Locations) == 0 {
		li.Locations = dl.Locations
	}
	if li.MaxApplications == 0 {
		li.MaxApplications = dl.MaxApplications
	}
	if li.MaxPages == 0 {
		li.MaxPages = dl.MaxPages
	}
	if li.MaxJobs == 0 {
		li.MaxJobs = dl.MaxJobs
	}
	if li.BreakInterval == 0 {
		li.BreakInterval = dl.BreakInterval
	}
	for _, pair := range []struct {
		dst **DelayRange
		src *DelayRange
	}{
		{&li.BreakDuration, dl.BreakDuration},
		{&li.BetweenApplications, dl.BetweenApplications},
		{&li.BetweenSearches, dl.BetweenSearches},
	} {
		if *pair.dst == nil {
			*pair.dst = pair.src
		}
	}
	if li.Outreach.Personalized == nil {
		li.Outreach.Personalized = dl.Outreach.Personalized
	}
	if li.Outreach.ConnectionProbability == nil {
		li.Outreach.ConnectionProbability = dl.Outreach.ConnectionProbability
	}
	if li.Outreach.MaxContacts == 0 {
		li.Outreach.MaxContacts = dl.Outreach.MaxContacts
	}

	// Bool fields other than Headless cannot distinguish unset from false,
	// so CLI flags always win for them.

	return result
}

// ResolveAPIKey returns the configured API key, falling back to the environment.
func (c *Config) ResolveAPIKey() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	return os.Getenv(APIKeyEnv)
}

// IsHeadless reports whether Chrome should run without a window. Defaults to true.
func (c *Config) IsHeadless() bool {
	return c.Headless == nil || *c.Headless
}

// Timeout returns the per-operation browser timeout, or zero for the default.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.BrowserTimeout) * time.Second
}

// FillerDelays overlays the configured ranges on formfill.DefaultDelays.
func (c *Config) FillerDelays() formfill.Delays {
	out := formfill.DefaultDelays()
	apply := func(dst *formfill.Range, r *DelayRange) {
		if r != nil {
			*dst = formfill.Seconds(r.Min, r.Max)
		}
	}
	apply(&out.Keystroke, c.Delays.Keystroke)
	apply(&out.Clear, c.Delays.Clear)
	apply(&out.AfterType, c.Delays.AfterType)
	apply(&out.Select, c.Delays.Select)
	apply(&out.Upload, c.Delays.Upload)
	apply(&out.Submit, c.Delays.Submit)
	apply(&out.PageLoad, c.Delays.PageLoad)
	return out
}

// LinkedInCredentials returns the configured sign-in, with each empty part
// taken from the environment.
func (c *Config) LinkedInCredentials() linkedin.Credentials {
	creds := linkedin.Credentials{Email: c.LinkedIn.Email, Password: c.LinkedIn.Password}
	if creds.Email == "" {
		creds.Email = os.Getenv(LinkedInEmailEnv)
	}
	if creds.Password == "" {
		creds.Password = os.Getenv(LinkedInPasswordEnv)
	}
	return creds
}

// SessionOptions overlays the configured search settings on
// linkedin.DefaultSessionOptions.
func (c *Config) SessionOptions() linkedin.SessionOptions {
	li := c.LinkedIn
	out := linkedin.DefaultSessionOptions()
	if len(li.Keywords) > 0 {
		out.Keywords = li.Keywords
	}
	if len(li.Locations) > 0 {
		out.Locations = li.Locations
	}
	if li.MaxApplications > 0 {
		out.MaxApplications = li.MaxApplications
	}
	if li.MaxPages > 0 {
		out.MaxPages = li.MaxPages
	}
	if li.MaxJobs > 0 {
		out.MaxJobs = li.MaxJobs
	}
	if li.BreakInterval > 0 {
		out.BreakInterval = li.BreakInterval
	}
	apply := func(dst *formfill.Range, r *DelayRange) {
		if r != nil {
			*dst = formfill.Seconds(r.Min, r.Max)
		}
	}
	apply(&out.Break, li.BreakDuration)
	apply(&out.BetweenApplications, li.BetweenApplications)
	apply(&out.BetweenSearches, li.BetweenSearches)
	if !li.Outreach.Enabled {
		out.OutreachChance = 0
	}
	return out
}

// OutreachOptions overlays the configured outreach settings on
// linkedin.DefaultOutreachOptions.
func (c *Config) OutreachOptions() linkedin.OutreachOptions {
	o := c.LinkedIn.Outreach
	out := linkedin.DefaultOutreachOptions()
	if o.Personalized != nil {
		out.Personalized = *o.Personalized
	}
	if o.ConnectionProbability != nil {
		out.ConnectionProbability = *o.ConnectionProbability
	}
	if o.MaxContacts > 0 {
		out.MaxContacts = o.MaxContacts
	}
	return out
}
