// Package profile loads the applicant data used to answer application forms
// and to prompt résumé and cover-letter generation.
package profile

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jonathan/apply-agent/internal/schemas"
)

//go:embed profile.schema.json
var schemaJSON string

var profileSchema = schemas.MustCompile("profile", schemaJSON)

// Profile holds the applicant's semantic attributes. It is read-only to the
// components that consume it.
type Profile struct {
	Name            string              `json:"name,omitempty"`
	Email           string              `json:"email,omitempty"`
	Phone           string              `json:"phone,omitempty"`
	Location        string              `json:"location,omitempty"`
	CurrentRole     string              `json:"current_role,omitempty"`
	YearsExperience string              `json:"years_experience,omitempty"`
	Skills          map[string][]string `json:"skills,omitempty"`
	Experience      []Experience        `json:"experience,omitempty"`
	Education       []Education         `json:"education,omitempty"`
	Certifications  []string            `json:"certifications,omitempty"`
	PersonalNotes   string              `json:"personal_notes,omitempty"`
}

// Experience is one position held.
type Experience struct {
	Company  string `json:"company"`
	Position string `json:"position"`
	Period   string `json:"period,omitempty"`
	Details  string `json:"details,omitempty"`
}

// Education is one degree.
type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution,omitempty"`
	Year        string `json:"year,omitempty"`
}

// SkillCategories is the order skill groups are read and listed in.
var SkillCategories = []string{
	"Data Engineering",
	"Data Analysis",
	"AI Engineering",
	"Business Intelligence",
	"AI Prototyping",
}

// AllSkills flattens the skill groups, known categories first, without duplicates.
func (p *Profile) AllSkills() []string {
	if p == nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	add := func(skills []string) {
		for _, s := range skills {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	for _, cat := range SkillCategories {
		add(p.Skills[cat])
	}
	var extra []string
	for cat := range p.Skills {
		if !isKnownCategory(cat) {
			extra = append(extra, cat)
		}
	}
	sort.Strings(extra)
	for _, cat := range extra {
		add(p.Skills[cat])
	}
	return out
}

func isKnownCategory(cat string) bool {
	for _, c := range SkillCategories {
		if c == cat {
			return true
		}
	}
	return false
}

// Load reads a profile from path. Files ending in .md are parsed as the
// markdown profile format; anything else is JSON validated against the
// profile schema.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile %s: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".md") {
		return ParseMarkdown(string(data)), nil
	}
	return ParseJSON(data)
}

// ParseJSON validates data against the profile schema and decodes it.
func ParseJSON(data []byte) (*Profile, error) {
	if err := profileSchema.Validate(data); err != nil {
		return nil, fmt.Errorf("invalid profile: %w", err)
	}
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile JSON: %w", err)
	}
	return &p, nil
}
