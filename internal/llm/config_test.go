package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderGemini, config.Provider)
	assert.Equal(t, "gemini-2.5-flash-lite", config.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-flash", config.GetModel(TierStandard))
	assert.Equal(t, "gemini-2.5-pro", config.GetModel(TierAdvanced))
}

func TestConfig_Resolve(t *testing.T) {
	tests := []struct {
		name      string
		tiers     map[ModelTier]TierSettings
		tier      ModelTier
		wantModel string
		wantOK    bool
	}{
		{
			name:      "exact tier",
			tiers:     DefaultConfig().Tiers,
			tier:      TierAdvanced,
			wantModel: "gemini-2.5-pro",
			wantOK:    true,
		},
		{
			name:      "advanced falls back to standard",
			tiers:     map[ModelTier]TierSettings{TierStandard: {Model: "std"}, TierLite: {Model: "lite"}},
			tier:      TierAdvanced,
			wantModel: "std",
			wantOK:    true,
		},
		{
			name:      "unknown tier starts at standard",
			tiers:     map[ModelTier]TierSettings{TierAdvanced: {Model: "adv"}, TierLite: {Model: "lite"}},
			tier:      "unknown",
			wantModel: "lite",
			wantOK:    true,
		},
		{
			name:   "never falls back upwards",
			tiers:  map[ModelTier]TierSettings{TierAdvanced: {Model: "adv"}},
			tier:   TierLite,
			wantOK: false,
		},
		{
			name:   "empty model is skipped",
			tiers:  map[ModelTier]TierSettings{TierStandard: {Temperature: 0.5}},
			tier:   TierStandard,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{Provider: ProviderGemini, Tiers: tt.tiers}
			got, ok := config.Resolve(tt.tier)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantModel, got.Model)
			assert.Equal(t, tt.wantModel, config.GetModel(tt.tier))
		})
	}
}

func TestConfig_WithOverride(t *testing.T) {
	config := DefaultConfig()

	assert.Same(t, config, config.WithOverride(""))

	pinned := config.WithOverride("gemini-exp")
	for _, tier := range tierOrder {
		assert.Equal(t, "gemini-exp", pinned.GetModel(tier))
	}
	adv, _ := pinned.Resolve(TierAdvanced)
	assert.Equal(t, int32(2500), adv.MaxTokens)
	assert.Equal(t, "gemini-2.5-pro", config.GetModel(TierAdvanced))
}

func TestNewGeminiClient_RequiresKey(t *testing.T) {
	_, err := NewGeminiClient(t.Context(), DefaultConfig(), "", nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}
