package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonathan/apply-agent/internal/formfill"
	"github.com/jonathan/apply-agent/internal/linkedin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"profile": "profile.json",
		"resume": "resume.pdf",
		"headless": false,
		"browser_timeout": 45,
		"verbose": true,
		"delays": {
			"keystroke": {"min": 0, "max": 0},
			"upload": {"min": 1, "max": 2.5}
		}
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "profile.json", cfg.Profile)
	assert.Equal(t, "resume.pdf", cfg.Resume)
	assert.False(t, cfg.IsHeadless())
	assert.Equal(t, 45*time.Second, cfg.Timeout())
	assert.True(t, cfg.Verbose)
	require.NotNil(t, cfg.Delays.Upload)
	assert.Equal(t, 2.5, cfg.Delays.Upload.Max)
	assert.Nil(t, cfg.Delays.Submit)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	content := `{ invalid json }`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate(t *testing.T) {
	existing := filepath.Join(t.TempDir(), "profile.json")
	require.NoError(t, os.WriteFile(existing, []byte("{}"), 0644))

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"empty", Config{}, ""},
		{"valid", Config{Profile: existing, BrowserTimeout: 10, Delays: Delays{Submit: &DelayRange{Min: 1, Max: 2}}}, ""},
		{"zero range", Config{Delays: Delays{Keystroke: &DelayRange{}}}, ""},
		{"negative timeout", Config{BrowserTimeout: -1}, "BrowserTimeout"},
		{"negative min", Config{Delays: Delays{Clear: &DelayRange{Min: -1, Max: 1}}}, "Clear.Min"},
		{"max below min", Config{Delays: Delays{Upload: &DelayRange{Min: 3, Max: 1}}}, "Upload.Max"},
		{"negative max pages", Config{LinkedIn: LinkedIn{MaxPages: -1}}, "LinkedIn.MaxPages"},
		{"break range inverted", Config{LinkedIn: LinkedIn{BreakDuration: &DelayRange{Min: 60, Max: 30}}}, "BreakDuration.Max"},
		{"probability above one", Config{LinkedIn: LinkedIn{Outreach: Outreach{ConnectionProbability: ptr(1.5)}}}, "ConnectionProbability"},
		{"probability zero", Config{LinkedIn: LinkedIn{Outreach: Outreach{ConnectionProbability: ptr(0.0)}}}, ""},
		{"missing profile", Config{Profile: "/nonexistent/profile.json"}, "profile file not found"},
		{"missing resume", Config{Resume: "/nonexistent/resume.pdf"}, "resume file not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	headless := false
	defaults := Config{
		Profile:        "default.json",
		Resume:         "default.pdf",
		APIKey:         "default-key",
		Headless:       &headless,
		BrowserTimeout: 30,
		Delays:         Delays{Upload: &DelayRange{Min: 1, Max: 2}, Submit: &DelayRange{Min: 5, Max: 6}},
	}

	partial := Config{
		Profile: "custom.md",
		Delays:  Delays{Submit: &DelayRange{Min: 0, Max: 0}},
	}

	merged := partial.MergeWithDefaults(defaults)

	// Custom values should be preserved
	assert.Equal(t, "custom.md", merged.Profile)
	assert.Equal(t, 0.0, merged.Delays.Submit.Max)

	// Default values should fill in empty fields
	assert.Equal(t, "default.pdf", merged.Resume)
	assert.Equal(t, "default-key", merged.APIKey)
	assert.False(t, merged.IsHeadless())
	assert.Equal(t, 30, merged.BrowserTimeout)
	assert.Equal(t, 2.0, merged.Delays.Upload.Max)
	assert.Nil(t, merged.Delays.Keystroke)
}

func TestMergeWithDefaults_EmptyDefaults(t *testing.T) {
	cfg := Config{Profile: "p.json"}

	merged := cfg.MergeWithDefaults(Config{})

	assert.Equal(t, "p.json", merged.Profile)
	assert.True(t, merged.IsHeadless())
	assert.Zero(t, merged.Timeout())
}

func TestResolveAPIKey(t *testing.T) {
	t.Setenv(APIKeyEnv, "from-env")

	assert.Equal(t, "from-env", (&Config{}).ResolveAPIKey())
	assert.Equal(t, "from-file", (&Config{APIKey: "from-file"}).ResolveAPIKey())
}

func TestFillerDelays(t *testing.T) {
	cfg := Config{Delays: Delays{
		Keystroke: &DelayRange{},
		Upload:    &DelayRange{Min: 1, Max: 1.5},
	}}

	d := cfg.FillerDelays()
	defaults := formfill.DefaultDelays()

	assert.Equal(t, formfill.Range{}, d.Keystroke)
	assert.Equal(t, time.Second, d.Upload.Min)
	assert.Equal(t, 1500*time.Millisecond, d.Upload.Max)
	assert.Equal(t, defaults.Submit, d.Submit)
	assert.Equal(t, defaults.PageLoad, d.PageLoad)
}

func TestLoadConfig_LinkedIn(t *testing.T) {
	content := `{
		"linkedin": {
			"email": "jane@example.org",
			"keywords": ["data engineer"],
			"locations": ["Singapore"],
			"max_applications_per_session": 10,
			"break_duration": {"min": 60, "max": 90},
			"outreach": {"enabled": true, "connection_request_probability": 0.5}
		}
	}`
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "jane@example.org", cfg.LinkedIn.Email)
	assert.Equal(t, []string{"data engineer"}, cfg.LinkedIn.Keywords)
	assert.True(t, cfg.LinkedIn.Outreach.Enabled)
	require.NotNil(t, cfg.LinkedIn.Outreach.ConnectionProbability)
	assert.Equal(t, 0.5, *cfg.LinkedIn.Outreach.ConnectionProbability)
}

func TestMergeWithDefaults_LinkedIn(t *testing.T) {
	defaults := Config{LinkedIn: LinkedIn{
		Email:           "default@example.org",
		Password:        "secret",
		Locations:       []string{"Hong Kong"},
		MaxApplications: 20,
		BetweenSearches: &DelayRange{Min: 1, Max: 2},
		Outreach:        Outreach{Personalized: ptr(false), MaxContacts: 2},
	}}
	partial := Config{LinkedIn: LinkedIn{
		Email:     "jane@example.org",
		Locations: []string{"Singapore"},
		Outreach:  Outreach{MaxContacts: 5},
	}}

	merged := partial.MergeWithDefaults(defaults).LinkedIn

	assert.Equal(t, "jane@example.org", merged.Email)
	assert.Equal(t, "secret", merged.Password)
	assert.Equal(t, []string{"Singapore"}, merged.Locations)
	assert.Equal(t, 20, merged.MaxApplications)
	assert.Equal(t, 2.0, merged.BetweenSearches.Max)
	assert.Nil(t, merged.BreakDuration)
	assert.Equal(t, 5, merged.Outreach.MaxContacts)
	require.NotNil(t, merged.Outreach.Personalized)
	assert.False(t, *merged.Outreach.Personalized)
}

func TestLinkedInCredentials(t *testing.T) {
	t.Setenv(LinkedInEmailEnv, "env@example.org")
	t.Setenv(LinkedInPasswordEnv, "env-pass")

	tests := []struct {
		name string
		cfg  LinkedIn
		want linkedin.Credentials
	}{
		{"environment only", LinkedIn{}, linkedin.Credentials{Email: "env@example.org", Password: "env-pass"}},
		{"file wins", LinkedIn{Email: "file@example.org", Password: "file-pass"}, linkedin.Credentials{Email: "file@example.org", Password: "file-pass"}},
		{"mixed", LinkedIn{Email: "file@example.org"}, linkedin.Credentials{Email: "file@example.org", Password: "env-pass"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{LinkedIn: tt.cfg}
			assert.Equal(t, tt.want, cfg.LinkedInCredentials())
		})
	}
}

func TestSessionOptions(t *testing.T) {
	defaults := linkedin.DefaultSessionOptions()

	t.Run("defaults", func(t *testing.T) {
		opts := (&Config{}).SessionOptions()

		assert.Equal(t, defaults.Keywords, opts.Keywords)
		assert.Equal(t, defaults.MaxApplications, opts.MaxApplications)
		assert.Equal(t, defaults.Break, opts.Break)
		assert.Zero(t, opts.OutreachChance, "outreach is off unless enabled")
	})

	t.Run("overrides", func(t *testing.T) {
		cfg := Config{LinkedIn: LinkedIn{
			Keywords:            []string{"bi developer"},
			Locations:           []string{"Tokyo"},
			MaxApplications:     5,
			MaxPages:            2,
			MaxJobs:             8,
			BreakInterval:       3,
			BetweenApplications: &DelayRange{Min: 1, Max: 1},
			Outreach:            Outreach{Enabled: true},
		}}

		opts := cfg.SessionOptions()

		assert.Equal(t, []string{"bi developer"}, opts.Keywords)
		assert.Equal(t, []string{"Tokyo"}, opts.Locations)
		assert.Equal(t, 5, opts.MaxApplications)
		assert.Equal(t, 2, opts.MaxPages)
		assert.Equal(t, 8, opts.MaxJobs)
		assert.Equal(t, 3, opts.BreakInterval)
		assert.Equal(t, formfill.Range{Min: time.Second, Max: time.Second}, opts.BetweenApplications)
		assert.Equal(t, defaults.BetweenSearches, opts.BetweenSearches)
		assert.Equal(t, defaults.OutreachChance, opts.OutreachChance)
	})
}

func TestOutreachOptions(t *testing.T) {
	assert.Equal(t, linkedin.DefaultOutreachOptions(), (&Config{}).OutreachOptions())

	cfg := Config{LinkedIn: LinkedIn{Outreach: Outreach{
		Personalized:          ptr(false),
		ConnectionProbability: ptr(0.0),
		MaxContacts:           1,
	}}}
	assert.Equal(t, linkedin.OutreachOptions{Personalized: false, ConnectionProbability: 0, MaxContacts: 1}, cfg.OutreachOptions())
}
