package formfill

import (
	"context"

	"github.com/google/uuid"
	"github.com/jonathan/apply-agent/internal/ats"
	"github.com/jonathan/apply-agent/internal/browser"
	"github.com/jonathan/apply-agent/internal/profile"
	"go.uber.org/zap"
)

// Outcome summarizes one form-fill attempt.
type Outcome struct {
	AttemptID              uuid.UUID
	Vendor                 ats.Vendor
	ResumeUploaded         bool
	AdditionalFieldsFilled int
	CoverLetterAdded       bool
	Submitted              bool
	SuccessDetected        bool
	Submission             SubmissionResult
}

// Succeeded reports whether the form was submitted and not rejected.
func (o Outcome) Succeeded() bool {
	return o.Submitted && o.SuccessDetected
}

// coverLetterSelectors are tried in order; the first visible, enabled match is used.
var coverLetterSelectors = []string{
	`textarea[name*="cover"]`,
	`textarea[name*="letter"]`,
	`textarea[placeholder*="cover"]`,
	`textarea[placeholder*="letter"]`,
	`textarea[name*="message"]`,
	`textarea[name*="additional"]`,
	`[data-test-id="cover-letter-input"]`,
}

// scanTags are swept for additional questions regardless of vendor.
var scanTags = []string{"input", "textarea", "select"}

// pass carries the state of one Fill call. A control is written at most once per pass.
type pass struct {
	log     *zap.Logger
	profile *profile.Profile
	filled  map[string]bool
}

func (p *pass) done(field DiscoveredField) bool {
	return p.filled[field.Element.Key()]
}

func (p *pass) mark(field DiscoveredField) {
	p.filled[field.Element.Key()] = true
}

// Filler fills and submits application forms on a single page.
type Filler struct {
	page    browser.Page
	locator *Locator
	pacer   *Pacer
	log     *zap.Logger
}

// NewFiller creates a Filler. A nil pacer uses DefaultDelays; a nil logger discards output.
func NewFiller(page browser.Page, pacer *Pacer, log *zap.Logger) *Filler {
	if log == nil {
		log = zap.NewNop()
	}
	if pacer == nil {
		pacer = NewPacer(DefaultDelays())
	}
	return &Filler{
		page:    page,
		locator: NewLocator(page, log),
		pacer:   pacer,
		log:     log,
	}
}

// Fill answers the form on the current page and submits it when the résumé
// was uploaded. It never returns an error: browser failures are logged and
// the affected step is skipped, except that a failed upload ends the attempt
// before any further step.
func (f *Filler) Fill(ctx context.Context, vendor ats.Vendor, p *profile.Profile, resumePath, coverLetter string) Outcome {
	out := Outcome{
		AttemptID:  uuid.New(),
		Vendor:     vendor,
		Submission: SubmissionNotAttempted,
	}
	log := f.log.With(zap.String("attempt_id", out.AttemptID.String()), zap.String("vendor", string(vendor)))
	log.Info("starting to fill application form")
	ps := &pass{log: log, profile: p, filled: make(map[string]bool)}

	mapped := f.locator.LocateAll(ctx, vendor)

	f.fillBasicFields(ctx, ps, mapped)

	if !f.uploadResume(ctx, ps, mapped[ats.FieldResumeUpload], resumePath) {
		log.Warn("resume upload failed, cannot submit")
		return out
	}
	out.ResumeUploaded = true

	out.AdditionalFieldsFilled = f.fillAdditionalQuestions(ctx, ps)
	out.CoverLetterAdded = f.addCoverLetter(ctx, ps, coverLetter)

	out.Submission = f.Submit(ctx, mapped[ats.FieldSubmitButton])
	out.Submitted = out.Submission != SubmissionNotAttempted
	out.SuccessDetected = out.Submission.Success()

	log.Info("application form finished",
		zap.Bool("resume_uploaded", out.ResumeUploaded),
		zap.Int("additional_fields", out.AdditionalFieldsFilled),
		zap.Bool("cover_letter", out.CoverLetterAdded),
		zap.String("submission", string(out.Submission)),
	)
	return out
}

// fillBasicFields touches at most one empty control per canonical text kind.
func (f *Filler) fillBasicFields(ctx context.Context, ps *pass, mapped map[ats.FieldKind][]DiscoveredField) {
	for _, kind := range []ats.FieldKind{ats.FieldName, ats.FieldEmail, ats.FieldPhone} {
		for _, field := range mapped[kind] {
			if field.CurrentValue != "" || ps.done(field) {
				continue
			}
			if value, ok := ResolveValue(field, ps.profile); ok {
				f.fillText(ctx, ps, field, value)
			}
			break
		}
	}
	ps.log.Debug("basic fields filled")
}

func (f *Filler) uploadResume(ctx context.Context, ps *pass, candidates []DiscoveredField, path string) bool {
	if len(candidates) == 0 {
		ps.log.Warn("no resume upload fields found")
		return false
	}
	if err := candidates[0].Element.UploadFile(ctx, path); err != nil {
		ps.log.Error("resume upload failed", zap.Error(err))
		return false
	}
	ps.mark(candidates[0])
	ps.log.Info("resume file uploaded", zap.String("path", path))

	if err := f.pacer.Pause(ctx, f.pacer.Delays.Upload); err != nil {
		ps.log.Error("interrupted while waiting for upload", zap.Error(err))
		return false
	}
	return true
}

// fillAdditionalQuestions sweeps every input, textarea and select on the page.
func (f *Filler) fillAdditionalQuestions(ctx context.Context, ps *pass) int {
	log := ps.log
	filled := 0
	for _, tag := range scanTags {
		elems, err := f.page.FindElements(ctx, tag)
		if err != nil {
			log.Warn("failed to scan form controls", zap.String("tag", tag), zap.Error(err))
			continue
		}
		for _, el := range elems {
			field, err := Inspect(ctx, el, ats.FieldAdditional)
			if err != nil {
				log.Debug("skipping unreadable control", zap.String("tag", tag), zap.Error(err))
				continue
			}
			if ps.done(field) || !ShouldFill(field) {
				continue
			}
			var ok bool
			if field.IsSelect() {
				ok = f.fillSelect(ctx, ps, field)
			} else if value, found := ResolveValue(field, ps.profile); found {
				ok = f.fillText(ctx, ps, field, value)
			}
			if ok {
				filled++
			}
		}
	}
	log.Info("filled additional questions", zap.Int("count", filled))
	return filled
}

func (f *Filler) fillText(ctx context.Context, ps *pass, field DiscoveredField, value string) bool {
	log := ps.log
	el := field.Element
	ps.mark(field)
	if err := el.Clear(ctx); err != nil {
		log.Warn("failed to clear field", zap.String("field", field.Name), zap.Error(err))
		return false
	}
	if err := f.pacer.Pause(ctx, f.pacer.Delays.Clear); err != nil {
		return false
	}
	if err := f.pacer.Type(ctx, el, value); err != nil {
		log.Warn("failed to fill field", zap.String("field", field.Name), zap.Error(err))
		return false
	}
	return f.pacer.Pause(ctx, f.pacer.Delays.AfterType) == nil
}

func (f *Filler) fillSelect(ctx context.Context, ps *pass, field DiscoveredField) bool {
	log := ps.log
	ps.mark(field)
	options, err := field.Element.Options(ctx)
	if err != nil {
		log.Warn("failed to read select options", zap.String("field", field.Name), zap.Error(err))
		return false
	}
	index, ok := ChooseOption(options)
	if !ok {
		return false
	}
	if err := field.Element.SelectIndex(ctx, index); err != nil {
		log.Warn("failed to fill select field", zap.String("field", field.Name), zap.Error(err))
		return false
	}
	return f.pacer.Pause(ctx, f.pacer.Delays.Select) == nil
}

func (f *Filler) addCoverLetter(ctx context.Context, ps *pass, text string) bool {
	log := ps.log
	if text == "" {
		log.Debug("no cover letter provided")
		return false
	}
	for _, selector := range coverLetterSelectors {
		el, err := f.page.FindElement(ctx, selector)
		if err != nil {
			continue
		}
		field, err := Inspect(ctx, el, ats.FieldAdditional)
		if err != nil || !field.Visible || !field.Enabled || ps.done(field) {
			continue
		}
		ps.mark(field)
		if err := el.Clear(ctx); err != nil {
			log.Warn("failed to clear cover letter field", zap.Error(err))
			continue
		}
		if err := f.pacer.Pause(ctx, f.pacer.Delays.Clear); err != nil {
			return false
		}
		if err := f.pacer.Type(ctx, el, text); err != nil {
			log.Warn("failed to type cover letter", zap.Error(err))
			return false
		}
		log.Info("cover letter added to form", zap.String("selector", selector))
		return true
	}
	log.Info("no cover letter field found")
	return false
}
