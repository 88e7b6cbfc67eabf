package formfill

import "strings"

// fillableTypes are input types worth answering even when optional.
var fillableTypes = map[string]bool{
	"text":   true,
	"email":  true,
	"tel":    true,
	"number": true,
	"url":    true,
}

// relevantKeywords mark optional controls that ask something the applicant can answer.
var relevantKeywords = []string{
	"experience",
	"years",
	"skills",
	"education",
	"location",
	"salary",
	"availability",
}

// ShouldFill decides whether a control gets a value. Hidden, disabled and
// already-answered controls are never touched; required controls always are.
func ShouldFill(f DiscoveredField) bool {
	if !f.Visible || !f.Enabled {
		return false
	}
	if f.CurrentValue != "" {
		return false
	}
	if f.Required {
		return true
	}
	if fillableTypes[f.RawType] {
		return true
	}
	return containsAny(strings.ToLower(f.Name), relevantKeywords) ||
		containsAny(strings.ToLower(f.Placeholder), relevantKeywords)
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
