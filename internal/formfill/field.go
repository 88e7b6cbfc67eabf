package formfill

import (
	"context"
	"strings"

	"github.com/jonathan/apply-agent/internal/ats"
	"github.com/jonathan/apply-agent/internal/browser"
)

// DiscoveredField is a live control plus the attributes read when it was
// found. It is only meaningful for the page load it was found on.
type DiscoveredField struct {
	Element      browser.Element
	Kind         ats.FieldKind
	Tag          string
	RawType      string
	Name         string
	Placeholder  string
	CurrentValue string
	Required     bool
	Visible      bool
	Enabled      bool
}

// IsSelect reports whether the control is a selection list.
func (f DiscoveredField) IsSelect() bool {
	return f.Tag == "select"
}

// Inspect reads the attributes of el the classifier and resolver need.
func Inspect(ctx context.Context, el browser.Element, kind ats.FieldKind) (DiscoveredField, error) {
	f := DiscoveredField{Element: el, Kind: kind, Tag: el.TagName()}

	var err error
	if f.Visible, err = el.IsVisible(ctx); err != nil {
		return f, err
	}
	if f.Enabled, err = el.IsEnabled(ctx); err != nil {
		return f, err
	}

	attr := func(name string) (string, bool) {
		if err != nil {
			return "", false
		}
		var v string
		var ok bool
		v, ok, err = el.Attribute(ctx, name)
		return v, ok
	}

	declaredType, _ := attr("type")
	f.RawType = controlType(f.Tag, declaredType, hasAttr(attr("multiple")))
	if name, _ := attr("name"); name != "" {
		f.Name = name
	} else {
		f.Name, _ = attr("id")
	}
	f.Placeholder, _ = attr("placeholder")
	f.CurrentValue, _ = attr("value")
	_, required := attr("required")
	aria, _ := attr("aria-required")
	f.Required = required || (aria != "" && !strings.EqualFold(aria, "false"))

	return f, err
}

func hasAttr(_ string, ok bool) bool {
	return ok
}

// controlType mirrors the DOM "type" property: inputs default to text and
// non-input controls report their own kind.
func controlType(tag, declared string, multiple bool) string {
	declared = strings.ToLower(strings.TrimSpace(declared))
	switch tag {
	case "input":
		if declared == "" {
			return "text"
		}
		return declared
	case "textarea":
		return "textarea"
	case "select":
		if multiple {
			return "select-multiple"
		}
		return "select-one"
	case "button":
		if declared == "" {
			return "submit"
		}
		return declared
	default:
		return declared
	}
}
