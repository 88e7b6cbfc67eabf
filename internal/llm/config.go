// Package llm wraps the text-generation provider behind a small client interface.
package llm

// ModelTier represents the capability level of a model.
type ModelTier string

const (
	// TierLite is for short, formulaic text.
	TierLite ModelTier = "lite"
	// TierStandard is for cover letters and other single-page prose.
	TierStandard ModelTier = "standard"
	// TierAdvanced is for tailoring a full résumé to a posting.
	TierAdvanced ModelTier = "advanced"
)

// tierOrder runs from most to least capable. Resolve walks down it.
var tierOrder = []ModelTier{TierAdvanced, TierStandard, TierLite}

// Provider represents an LLM provider.
type Provider string

// ProviderGemini is the Google Gemini provider.
const ProviderGemini Provider = "gemini"

// TierSettings is the model and sampling defaults used for one tier.
// Zero sampling values leave the provider default in place.
type TierSettings struct {
	Model       string
	Temperature float32
	MaxTokens   int32
}

// Config maps tiers to models.
type Config struct {
	Provider Provider
	Tiers    map[ModelTier]TierSettings
}

// DefaultConfig returns the default Gemini configuration.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Tiers: map[ModelTier]TierSettings{
			TierLite:     {Model: "gemini-2.5-flash-lite", Temperature: 0.3, MaxTokens: 512},
			TierStandard: {Model: "gemini-2.5-flash", Temperature: 0.8, MaxTokens: 1000},
			TierAdvanced: {Model: "gemini-2.5-pro", Temperature: 0.7, MaxTokens: 2500},
		},
	}
}

// Resolve returns the settings for tier. A tier with no model falls back to
// the next less capable configured tier; an unknown tier starts at standard.
func (c *Config) Resolve(tier ModelTier) (TierSettings, bool) {
	start := 1
	for i, t := range tierOrder {
		if t == tier {
			start = i
			break
		}
	}
	for _, t := range tierOrder[start:] {
		if s, ok := c.Tiers[t]; ok && s.Model != "" {
			return s, true
		}
	}
	return TierSettings{}, false
}

// GetModel returns the model name used for tier, or "" if none is configured.
func (c *Config) GetModel(tier ModelTier) string {
	s, _ := c.Resolve(tier)
	return s.Model
}

// WithOverride returns a copy with every tier pinned to model, keeping each
// tier's sampling settings. An empty model returns c unchanged.
func (c *Config) WithOverride(model string) *Config {
	if model == "" {
		return c
	}
	out := &Config{Provider: c.Provider, Tiers: make(map[ModelTier]TierSettings, len(tierOrder))}
	for _, t := range tierOrder {
		s := c.Tiers[t]
		s.Model = model
		out.Tiers[t] = s
	}
	return out
}
