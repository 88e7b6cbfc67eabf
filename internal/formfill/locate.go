package formfill

import (
	"context"

	"github.com/jonathan/apply-agent/internal/ats"
	"github.com/jonathan/apply-agent/internal/browser"
	"go.uber.org/zap"
)

// Locator resolves a vendor's selector lists to live, interactable controls.
type Locator struct {
	page browser.Page
	log  *zap.Logger
}

// NewLocator creates a Locator over page.
func NewLocator(page browser.Page, log *zap.Logger) *Locator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Locator{page: page, log: log}
}

// Locate returns the visible, enabled controls matched by each of the
// vendor's selectors for kind, in selector order. A control matched by two
// selectors appears twice. Selectors that fail are skipped.
func (l *Locator) Locate(ctx context.Context, vendor ats.Vendor, kind ats.FieldKind) []DiscoveredField {
	sig := ats.Lookup(vendor)
	var fields []DiscoveredField

	for _, selector := range sig.SelectorsFor(kind) {
		elems, err := l.page.FindElements(ctx, selector)
		if err != nil {
			l.log.Warn("failed to find fields with selector",
				zap.String("selector", selector),
				zap.Error(err),
			)
			continue
		}
		for _, el := range elems {
			f, err := Inspect(ctx, el, kind)
			if err != nil {
				l.log.Warn("skipping unreadable field",
					zap.String("selector", selector),
					zap.Error(err),
				)
				continue
			}
			if f.Visible && f.Enabled {
				fields = append(fields, f)
			}
		}
	}
	return fields
}

// LocateAll runs Locate for every canonical field kind.
func (l *Locator) LocateAll(ctx context.Context, vendor ats.Vendor) map[ats.FieldKind][]DiscoveredField {
	mapped := make(map[ats.FieldKind][]DiscoveredField, len(ats.FieldKinds))
	for _, kind := range ats.FieldKinds {
		mapped[kind] = l.Locate(ctx, vendor, kind)
	}
	l.log.Info("mapped form fields",
		zap.String("system", ats.Lookup(vendor).DisplayName),
		zap.Int("name", len(mapped[ats.FieldName])),
		zap.Int("email", len(mapped[ats.FieldEmail])),
		zap.Int("phone", len(mapped[ats.FieldPhone])),
		zap.Int("resume_upload", len(mapped[ats.FieldResumeUpload])),
		zap.Int("submit_button", len(mapped[ats.FieldSubmitButton])),
	)
	return mapped
}
