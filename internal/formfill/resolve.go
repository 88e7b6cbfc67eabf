package formfill

import (
	"strings"

	"github.com/jonathan/apply-agent/internal/ats"
	"github.com/jonathan/apply-agent/internal/profile"
)

// Profile attributes resolvable on the canonical path.
const (
	AttrName       = "name"
	AttrEmail      = "email"
	AttrPhone      = "phone"
	AttrExperience = "experience"
	AttrLocation   = "location"
)

// Fallbacks used when the profile lacks an attribute.
const (
	DefaultName       = "John Doe"
	DefaultEmail      = "john.doe@example.com"
	DefaultPhone      = "+65 9123 4567"
	DefaultExperience = "5"
	DefaultLocation   = "Singapore"
)

// ProfileValue resolves a canonical attribute from the profile, falling back
// to a literal default. Unknown attributes resolve to nothing.
func ProfileValue(attr string, p *profile.Profile) (string, bool) {
	if p == nil {
		p = &profile.Profile{}
	}
	pick := func(v, fallback string) (string, bool) {
		if v != "" {
			return v, true
		}
		return fallback, true
	}
	switch attr {
	case AttrName:
		return pick(p.Name, DefaultName)
	case AttrEmail:
		return pick(p.Email, DefaultEmail)
	case AttrPhone:
		return pick(p.Phone, DefaultPhone)
	case AttrExperience:
		return pick(p.YearsExperience, DefaultExperience)
	case AttrLocation:
		return pick(p.Location, DefaultLocation)
	default:
		return "", false
	}
}

type answerRule struct {
	keywords []string
	value    string
}

// additionalAnswers is evaluated in order; the first rule with a keyword
// present in "name placeholder" wins.
var additionalAnswers = []answerRule{
	{[]string{"experience", "years"}, "5"},
	{[]string{"skills", "technologies"}, "Python, SQL, Data Engineering, AWS, Apache Spark"},
	{[]string{"education", "degree"}, "Bachelor's Degree in Computer Science"},
	{[]string{"location", "city"}, "Singapore"},
	{[]string{"salary", "compensation"}, "Negotiable"},
	{[]string{"availability", "start date"}, "Immediate"},
	{[]string{"portfolio", "github", "website"}, "https://github.com/username"},
}

// typeAnswers apply when no keyword rule matched.
var typeAnswers = map[string]string{
	"text":   "See resume for details",
	"number": "5",
	"email":  DefaultEmail,
}

// AdditionalValue answers an uncategorized control from its name and
// placeholder, then from its declared type.
func AdditionalValue(f DiscoveredField) (string, bool) {
	text := strings.ToLower(f.Name + " " + f.Placeholder)
	for _, rule := range additionalAnswers {
		if containsAny(text, rule.keywords) {
			return rule.value, true
		}
	}
	v, ok := typeAnswers[f.RawType]
	return v, ok
}

// profileQuestions map additional controls onto profile attributes. They are
// consulted only when the profile actually carries the attribute.
var profileQuestions = []struct {
	attr     string
	keywords []string
}{
	{AttrExperience, []string{"experience", "years"}},
	{AttrLocation, []string{"location", "city"}},
}

// profileAnswer answers an additional control from a populated profile
// attribute. Empty attributes are left to the keyword table.
func profileAnswer(f DiscoveredField, p *profile.Profile) (string, bool) {
	if p == nil {
		return "", false
	}
	text := strings.ToLower(f.Name + " " + f.Placeholder)
	for _, q := range profileQuestions {
		if !containsAny(text, q.keywords) {
			continue
		}
		var v string
		switch q.attr {
		case AttrExperience:
			v = p.YearsExperience
		case AttrLocation:
			v = p.Location
		}
		if v != "" {
			return v, true
		}
	}
	return "", false
}

// ResolveValue picks the text for a control. Canonical kinds come from the
// profile. Additional controls take a populated profile attribute first, then
// the keyword table, then a type default.
func ResolveValue(f DiscoveredField, p *profile.Profile) (string, bool) {
	switch f.Kind {
	case ats.FieldName:
		return ProfileValue(AttrName, p)
	case ats.FieldEmail:
		return ProfileValue(AttrEmail, p)
	case ats.FieldPhone:
		return ProfileValue(AttrPhone, p)
	case ats.FieldResumeUpload, ats.FieldSubmitButton:
		return "", false
	default:
		if v, ok := profileAnswer(f, p); ok {
			return v, true
		}
		return AdditionalValue(f)
	}
}

// preferredOptions mark dropdown answers that favour the applicant.
var preferredOptions = []string{"yes", "available", "immediate", "bachelor", "5+"}

// ChooseOption returns the index of the first option whose text contains a
// preferred keyword. Without a match it skips the assumed placeholder at
// index 0 and picks index 1, if there is one.
func ChooseOption(options []string) (int, bool) {
	for i, opt := range options {
		if containsAny(strings.ToLower(opt), preferredOptions) {
			return i, true
		}
	}
	if len(options) > 1 {
		return 1, true
	}
	return 0, false
}
