package formfill

import (
	"testing"

	"github.com/jonathan/apply-agent/internal/ats"
	"github.com/jonathan/apply-agent/internal/profile"
	"github.com/stretchr/testify/assert"
)

func TestProfileValue(t *testing.T) {
	p := &profile.Profile{Name: "Jane Roe", Email: "jane@example.org", YearsExperience: "8+"}

	tests := []struct {
		attr   string
		want   string
		wantOK bool
	}{
		{AttrName, "Jane Roe", true},
		{AttrEmail, "jane@example.org", true},
		{AttrPhone, DefaultPhone, true},
		{AttrExperience, "8+", true},
		{AttrLocation, DefaultLocation, true},
		{"salary", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.attr, func(t *testing.T) {
			got, ok := ProfileValue(tt.attr, p)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProfileValue_NilProfile(t *testing.T) {
	got, ok := ProfileValue(AttrName, nil)
	assert.True(t, ok)
	assert.Equal(t, DefaultName, got)
}

func TestResolveValue(t *testing.T) {
	p := &profile.Profile{Name: "Jane Roe", Email: "jane@example.org", Phone: "+1 555 0100"}

	tests := []struct {
		name   string
		field  DiscoveredField
		want   string
		wantOK bool
	}{
		{"canonical name", DiscoveredField{Kind: ats.FieldName, Name: "years"}, "Jane Roe", true},
		{"canonical email", DiscoveredField{Kind: ats.FieldEmail}, "jane@example.org", true},
		{"canonical phone", DiscoveredField{Kind: ats.FieldPhone}, "+1 555 0100", true},
		{"upload never typed", DiscoveredField{Kind: ats.FieldResumeUpload, RawType: "file"}, "", false},
		{"submit never typed", DiscoveredField{Kind: ats.FieldSubmitButton, RawType: "submit"}, "", false},
		{"years of experience", DiscoveredField{Kind: ats.FieldAdditional, Name: "years_of_experience", RawType: "text"}, "5", true},
		{"skills in placeholder", DiscoveredField{Kind: ats.FieldAdditional, Placeholder: "Key technologies", RawType: "textarea"}, "Python, SQL, Data Engineering, AWS, Apache Spark", true},
		{"degree", DiscoveredField{Kind: ats.FieldAdditional, Name: "highest_degree", RawType: "text"}, "Bachelor's Degree in Computer Science", true},
		{"city", DiscoveredField{Kind: ats.FieldAdditional, Name: "City", RawType: "text"}, "Singapore", true},
		{"salary", DiscoveredField{Kind: ats.FieldAdditional, Name: "expected_compensation", RawType: "number"}, "Negotiable", true},
		{"start date", DiscoveredField{Kind: ats.FieldAdditional, Placeholder: "Earliest start date", RawType: "text"}, "Immediate", true},
		{"github", DiscoveredField{Kind: ats.FieldAdditional, Name: "github_url", RawType: "url"}, "https://github.com/username", true},
		{"experience beats skills", DiscoveredField{Kind: ats.FieldAdditional, Name: "skills_experience", RawType: "text"}, "5", true},
		{"plain text", DiscoveredField{Kind: ats.FieldAdditional, Name: "referrer", RawType: "text"}, "See resume for details", true},
		{"plain number", DiscoveredField{Kind: ats.FieldAdditional, Name: "count", RawType: "number"}, "5", true},
		{"plain email", DiscoveredField{Kind: ats.FieldAdditional, Name: "contact", RawType: "email"}, DefaultEmail, true},
		{"unanswerable tel", DiscoveredField{Kind: ats.FieldAdditional, Name: "alt", RawType: "tel"}, "", false},
		{"unanswerable textarea", DiscoveredField{Kind: ats.FieldAdditional, Name: "notes", RawType: "textarea"}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveValue(tt.field, p)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveValue_PopulatedProfileAnswersAdditional(t *testing.T) {
	p := &profile.Profile{Location: "Berlin", YearsExperience: "12"}

	tests := []struct {
		name  string
		field DiscoveredField
		want  string
	}{
		{"city", DiscoveredField{Kind: ats.FieldAdditional, Name: "city", RawType: "text"}, "Berlin"},
		{"location placeholder", DiscoveredField{Kind: ats.FieldAdditional, Placeholder: "Current location", RawType: "text"}, "Berlin"},
		{"years", DiscoveredField{Kind: ats.FieldAdditional, Name: "years_experience", RawType: "number"}, "12"},
		{"keyword table still used", DiscoveredField{Kind: ats.FieldAdditional, Name: "highest_degree", RawType: "text"}, "Bachelor's Degree in Computer Science"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveValue(tt.field, p)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveValue_PartialProfileFallsBack(t *testing.T) {
	p := &profile.Profile{Location: "Berlin"}

	got, ok := ResolveValue(DiscoveredField{Kind: ats.FieldAdditional, Name: "years_of_experience", RawType: "text"}, p)
	assert.True(t, ok)
	assert.Equal(t, DefaultExperience, got)

	got, ok = ResolveValue(DiscoveredField{Kind: ats.FieldAdditional, Name: "city", RawType: "text"}, nil)
	assert.True(t, ok)
	assert.Equal(t, DefaultLocation, got)
}

func TestChooseOption(t *testing.T) {
	tests := []struct {
		name      string
		options   []string
		wantIndex int
		wantOK    bool
	}{
		{"preferred answer", []string{"Select...", "No", "Yes, immediately available"}, 2, true},
		{"case insensitive", []string{"--", "BACHELOR'S"}, 1, true},
		{"first preferred wins", []string{"Available now", "Yes"}, 0, true},
		{"five plus years", []string{"Choose", "0-2", "3-4", "5+"}, 3, true},
		{"fallback skips placeholder", []string{"Select one", "Red", "Blue"}, 1, true},
		{"single preferred option", []string{"Yes"}, 0, true},
		{"single unknown option", []string{"Select"}, 0, false},
		{"no options", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, ok := ChooseOption(tt.options)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantIndex, idx)
			}
		})
	}
}
