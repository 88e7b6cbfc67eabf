// Package ats - detect.go chooses a vendor for the page currently loaded.
package ats

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/apply-agent/internal/browser"
	"go.uber.org/zap"
)

// formKeywords are counted (presence, not frequency) by LooksLikeApplicationForm.
var formKeywords = []string{
	"form",
	"application",
	"apply",
	"submit",
	"upload",
	"resume",
	"cover letter",
}

const (
	minFormKeywords = 3
	maxPlainInputs  = 5
)

// DetectVendor picks a vendor by scanning the lower-cased address, then the
// markup, for each vendor keyword in fixed priority order. When nothing matches
// it returns VendorGeneric if the markup looks like an application form and
// VendorUnknown otherwise.
func DetectVendor(pageURL, markup string) Vendor {
	if v, ok := matchKeyword(strings.ToLower(pageURL)); ok {
		return v
	}
	if v, ok := matchKeyword(strings.ToLower(markup)); ok {
		return v
	}
	if LooksLikeApplicationForm(markup) {
		return VendorGeneric
	}
	return VendorUnknown
}

func matchKeyword(text string) (Vendor, bool) {
	for _, v := range detectionOrder {
		if strings.Contains(text, signatures[v].Keyword) {
			return v, true
		}
	}
	return "", false
}

// LooksLikeApplicationForm reports whether at least three form keywords appear
// in the markup, any <form> element exists, or more than five <input>
// elements exist.
func LooksLikeApplicationForm(markup string) bool {
	lower := strings.ToLower(markup)
	count := 0
	for _, kw := range formKeywords {
		if strings.Contains(lower, kw) {
			count++
		}
	}
	if count >= minFormKeywords {
		return true
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return false
	}
	return doc.Find("form").Length() > 0 || doc.Find("input").Length() > maxPlainInputs
}

// Detector reads the current page from the browser and classifies it.
type Detector struct {
	log *zap.Logger
}

// NewDetector creates a Detector. A nil logger discards output.
func NewDetector(log *zap.Logger) *Detector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Detector{log: log}
}

// Detect classifies the page. DOM access failures degrade to VendorUnknown.
func (d *Detector) Detect(ctx context.Context, page browser.Page) Vendor {
	pageURL, err := page.URL(ctx)
	if err != nil {
		d.log.Error("failed to read page address", zap.Error(err))
		return VendorUnknown
	}
	markup, err := page.Markup(ctx)
	if err != nil {
		d.log.Error("failed to read page markup", zap.Error(err))
		return VendorUnknown
	}

	vendor := DetectVendor(pageURL, markup)
	d.log.Info("application system detected",
		zap.String("vendor", string(vendor)),
		zap.String("url", pageURL),
	)
	return vendor
}
