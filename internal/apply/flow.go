// Package apply drives a job posting from its LinkedIn page to a submitted
// form, either through Easy Apply or through the employer's own site.
package apply

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/jonathan/apply-agent/internal/ats"
	"github.com/jonathan/apply-agent/internal/browser"
	"github.com/jonathan/apply-agent/internal/formfill"
	"github.com/jonathan/apply-agent/internal/profile"
	"go.uber.org/zap"
)

// Route is how the flow reached (or failed to reach) an application form.
type Route string

const (
	RouteNoApplyButton Route = "no_apply_button"
	RouteEasyApply     Route = "easy_apply"
	RouteExternal      Route = "external"
	RouteNoForm        Route = "no_form"
)

var applyButtonSelectors = []string{
	`button[data-control-name="jobdetails_topcard_inapply"]`,
	`button[data-control-name="jobdetails_topcard_apply"]`,
	`button[aria-label*="Apply"]`,
	`button[aria-label*="Easy Apply"]`,
	`.apply-button`,
	`.job-apply-button`,
}

var easyApplyIndicators = []string{
	`.jobs-easy-apply-content`,
	`.jobs-easy-apply-form`,
	`[data-test-id="easy-apply-form"]`,
	`.jobs-easy-apply-modal`,
}

var externalLinkSelectors = []string{
	`a[href*="apply"]`,
	`a[href*="career"]`,
	`a[href*="jobs"]`,
	`button[data-control-name="external_apply"]`,
}

// Result reports the route taken and, when a form was filled, its outcome.
type Result struct {
	Route   Route
	Vendor  ats.Vendor
	URL     string
	Outcome *formfill.Outcome
}

// Succeeded reports whether a form was submitted and not rejected.
func (r Result) Succeeded() bool {
	return r.Outcome != nil && r.Outcome.Succeeded()
}

// Flow applies to a single posting on one page.
type Flow struct {
	page     browser.Page
	pacer    *formfill.Pacer
	filler   *formfill.Filler
	detector *ats.Detector
	log      *zap.Logger
}

// NewFlow creates a Flow. A nil pacer uses formfill.DefaultDelays.
func NewFlow(page browser.Page, pacer *formfill.Pacer, log *zap.Logger) *Flow {
	if log == nil {
		log = zap.NewNop()
	}
	if pacer == nil {
		pacer = formfill.NewPacer(formfill.DefaultDelays())
	}
	return &Flow{
		page:     page,
		pacer:    pacer,
		filler:   formfill.NewFiller(page, pacer, log),
		detector: ats.NewDetector(log),
		log:      log,
	}
}

// Apply opens jobURL, presses the apply button and fills whichever form
// appears. Only navigation to jobURL returns an error; every later failure
// is reported through the Result.
func (f *Flow) Apply(ctx context.Context, jobURL string, p *profile.Profile, resumePath, coverLetter string) (Result, error) {
	log := f.log.With(zap.String("job_url", jobURL))

	if err := f.page.Navigate(ctx, jobURL); err != nil {
		return Result{}, fmt.Errorf("failed to open job page: %w", err)
	}
	if err := f.pacer.Pause(ctx, f.pacer.Delays.PageLoad); err != nil {
		return Result{}, err
	}

	if !f.clickApplyButton(ctx, log) {
		log.Warn("apply button not found")
		return Result{Route: RouteNoApplyButton, URL: jobURL}, nil
	}

	if f.isEasyApply(ctx) {
		log.Info("handling LinkedIn Easy Apply form")
		out := f.filler.Fill(ctx, ats.VendorLinkedIn, p, resumePath, coverLetter)
		return Result{Route: RouteEasyApply, Vendor: ats.VendorLinkedIn, URL: f.currentURL(ctx), Outcome: &out}, nil
	}

	return f.applyExternally(ctx, log, p, resumePath, coverLetter), nil
}

func (f *Flow) clickApplyButton(ctx context.Context, log *zap.Logger) bool {
	for _, selector := range applyButtonSelectors {
		elems, err := f.page.FindElements(ctx, selector)
		if err != nil {
			log.Debug("apply button selector failed", zap.String("selector", selector), zap.Error(err))
			continue
		}
		for _, el := range elems {
			if f.clickIfInteractable(ctx, el) {
				log.Info("apply button clicked", zap.String("selector", selector))
				return true
			}
		}
	}

	buttons, err := f.page.FindElements(ctx, "button")
	if err != nil {
		return false
	}
	for _, el := range buttons {
		text, err := el.Text(ctx)
		if err != nil || !strings.Contains(strings.ToLower(text), "apply") {
			continue
		}
		if f.clickIfInteractable(ctx, el) {
			log.Info("apply button found by text content", zap.String("text", text))
			return true
		}
	}
	return false
}

// clickIfInteractable clicks el when it is visible and enabled, then waits for the page.
func (f *Flow) clickIfInteractable(ctx context.Context, el browser.Element) bool {
	if visible, err := el.IsVisible(ctx); err != nil || !visible {
		return false
	}
	if enabled, err := el.IsEnabled(ctx); err != nil || !enabled {
		return false
	}
	if err := el.Click(ctx); err != nil {
		f.log.Debug("click failed", zap.Error(err))
		return false
	}
	return f.pacer.Pause(ctx, f.pacer.Delays.PageLoad) == nil
}

func (f *Flow) isEasyApply(ctx context.Context) bool {
	for _, selector := range easyApplyIndicators {
		el, err := f.page.FindElement(ctx, selector)
		if err != nil {
			continue
		}
		if visible, err := el.IsVisible(ctx); err == nil && visible {
			return true
		}
	}
	return false
}

func (f *Flow) applyExternally(ctx context.Context, log *zap.Logger, p *profile.Profile, resumePath, coverLetter string) Result {
	current := f.currentURL(ctx)
	if onLinkedIn(current) {
		if !f.followExternalLink(ctx, log) {
			log.Warn("no external application link found")
			return Result{Route: RouteNoForm, URL: current}
		}
		current = f.currentURL(ctx)
	}
	log.Info("handling external application", zap.String("url", current))

	vendor := f.detector.Detect(ctx, f.page)
	if vendor == ats.VendorUnknown {
		log.Warn("no application form detected on external site", zap.String("url", current))
		return Result{Route: RouteNoForm, Vendor: vendor, URL: current}
	}

	out := f.filler.Fill(ctx, vendor, p, resumePath, coverLetter)
	return Result{Route: RouteExternal, Vendor: vendor, URL: current, Outcome: &out}
}

func (f *Flow) followExternalLink(ctx context.Context, log *zap.Logger) bool {
	for _, selector := range externalLinkSelectors {
		el, err := f.page.FindElement(ctx, selector)
		if err != nil {
			continue
		}
		if f.clickIfInteractable(ctx, el) {
			log.Info("clicked external application link", zap.String("selector", selector))
			return true
		}
	}
	return false
}

func (f *Flow) currentURL(ctx context.Context) string {
	u, err := f.page.URL(ctx)
	if err != nil {
		f.log.Debug("failed to read current URL", zap.Error(err))
		return ""
	}
	return u
}

// onLinkedIn reports whether raw points at linkedin.com or a subdomain.
func onLinkedIn(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return strings.Contains(strings.ToLower(raw), "linkedin.com")
	}
	host := strings.ToLower(u.Hostname())
	return host == "linkedin.com" || strings.HasSuffix(host, ".linkedin.com")
}
