package ats

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jonathan/apply-agent/internal/browser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectVendor_ByURL(t *testing.T) {
	tests := []struct {
		url      string
		expected Vendor
	}{
		{"https://acme.wd5.myworkdayjobs.com/en-US/External", VendorWorkday},
		{"https://jobs.lever.co/acme/123", VendorLever},
		{"https://boards.greenhouse.io/acme/jobs/456", VendorGreenhouse},
		{"https://acme.bamboohr.com/careers/7", VendorBambooHR},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectVendor(tt.url, "<html></html>"))
		})
	}
}

func TestDetectVendor_URLBeatsMarkup(t *testing.T) {
	markup := `<html><body>Powered by Workday</body></html>`
	assert.Equal(t, VendorLever, DetectVendor("https://jobs.lever.co/acme", markup))
}

func TestDetectVendor_PriorityOrder(t *testing.T) {
	// Workday outranks Greenhouse even though Greenhouse appears first in the text.
	markup := `<html><body>greenhouse embed, workday fallback</body></html>`
	assert.Equal(t, VendorWorkday, DetectVendor("https://careers.acme.com", markup))

	markup = `<html><body>bamboohr and lever</body></html>`
	assert.Equal(t, VendorLever, DetectVendor("https://careers.acme.com", markup))
}

func TestDetectVendor_ByMarkup(t *testing.T) {
	markup := `<html><head><script src="https://boards.greenhouse.io/embed/job_board/js"></script></head></html>`
	assert.Equal(t, VendorGreenhouse, DetectVendor("https://careers.acme.com/jobs/1", markup))
}

func TestDetectVendor_GenericAndUnknown(t *testing.T) {
	generic := `<html><body><form><input name="q"></form></body></html>`
	assert.Equal(t, VendorGeneric, DetectVendor("https://careers.acme.com/jobs/1", generic))

	plain := `<html><body><p>About us</p></body></html>`
	assert.Equal(t, VendorUnknown, DetectVendor("https://acme.com/about", plain))
}

func TestLooksLikeApplicationForm(t *testing.T) {
	sixInputs := "<html><body>" + strings.Repeat("<input>", 6) + "</body></html>"
	fiveInputs := "<html><body>" + strings.Repeat("<input>", 5) + "</body></html>"

	tests := []struct {
		name     string
		markup   string
		expected bool
	}{
		{"three keywords, no elements", "<p>Apply now: upload your resume</p>", true},
		{"two keywords, no elements", "<p>Upload your resume</p>", false},
		{"six blank inputs, no keywords", sixInputs, true},
		{"five blank inputs, no keywords", fiveInputs, false},
		{"empty form element", "<html><body><form></form></body></html>", true},
		{"nothing", "<html><body><p>hello</p></body></html>", false},
		{"cover letter counts once", "<p>cover letter, cover letter, cover letter</p>", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, LooksLikeApplicationForm(tt.markup))
		})
	}
}

func TestLookup_FallsBackToGeneric(t *testing.T) {
	assert.Equal(t, VendorGeneric, Lookup(VendorUnknown).Vendor)
	assert.Equal(t, VendorGeneric, Lookup(Vendor("taleo")).Vendor)
	assert.Equal(t, "Lever", Lookup(VendorLever).DisplayName)
	assert.False(t, Known(Vendor("taleo")))
}

func TestSignatures_CoverEveryKind(t *testing.T) {
	for vendor, sig := range signatures {
		for _, kind := range FieldKinds {
			assert.NotEmpty(t, sig.SelectorsFor(kind), "%s has no selectors for %s", vendor, kind)
		}
	}
}

func TestSelectorsFor_ReturnsCopy(t *testing.T) {
	sel := Lookup(VendorLever).SelectorsFor(FieldEmail)
	sel[0] = "mutated"
	assert.Equal(t, `input[name="email"]`, Lookup(VendorLever).SelectorsFor(FieldEmail)[0])
}

type brokenPage struct {
	browser.Page
}

func (brokenPage) URL(context.Context) (string, error) {
	return "", &browser.Error{Op: "location", Cause: errors.New("target closed")}
}

func TestDetector_DegradesToUnknown(t *testing.T) {
	d := NewDetector(nil)
	assert.Equal(t, VendorUnknown, d.Detect(context.Background(), brokenPage{}))
}

func TestDetector_StaticPage(t *testing.T) {
	page, err := browser.NewStatic("https://jobs.lever.co/acme/42/apply", "<html><body><form></form></body></html>")
	require.NoError(t, err)

	d := NewDetector(nil)
	assert.Equal(t, VendorLever, d.Detect(context.Background(), page))
}
