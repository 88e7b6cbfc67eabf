package formfill

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// SubmissionResult is what the post-submit page says about the attempt.
type SubmissionResult string

const (
	// SubmissionSucceeded means a success phrase was found.
	SubmissionSucceeded SubmissionResult = "succeeded"
	// SubmissionFailed means an error phrase was found, or the page could not be read.
	SubmissionFailed SubmissionResult = "failed"
	// SubmissionAmbiguous means neither kind of phrase was found.
	SubmissionAmbiguous SubmissionResult = "ambiguous"
	// SubmissionNotAttempted means no submit control was clicked.
	SubmissionNotAttempted SubmissionResult = "not_attempted"
)

// Success reports whether the result counts as a successful submission.
// Ambiguous pages count as success: a page with no signal cannot be told
// apart from one that accepted the application silently.
func (r SubmissionResult) Success() bool {
	return r == SubmissionSucceeded || r == SubmissionAmbiguous
}

var successPhrases = []string{
	"thank you",
	"application submitted",
	"application received",
	"successfully applied",
	"application complete",
	"confirmation",
}

var errorPhrases = []string{
	"error occurred",
	"application failed",
	"please try again",
	"something went wrong",
	"validation error",
}

// ClassifySubmission reads post-submit markup. Success phrases are checked
// before error phrases. The matched phrase is returned for logging.
func ClassifySubmission(markup string) (SubmissionResult, string) {
	lower := strings.ToLower(markup)
	for _, phrase := range successPhrases {
		if strings.Contains(lower, phrase) {
			return SubmissionSucceeded, phrase
		}
	}
	for _, phrase := range errorPhrases {
		if strings.Contains(lower, phrase) {
			return SubmissionFailed, phrase
		}
	}
	return SubmissionAmbiguous, ""
}

// Submit clicks the first enabled candidate that accepts the click, waits
// for the page to settle, and classifies the result.
func (f *Filler) Submit(ctx context.Context, candidates []DiscoveredField) SubmissionResult {
	if len(candidates) == 0 {
		f.log.Warn("no submit button found")
		return SubmissionNotAttempted
	}

	for _, c := range candidates {
		enabled, err := c.Element.IsEnabled(ctx)
		if err != nil {
			f.log.Warn("failed to read submit button state", zap.Error(err))
			continue
		}
		if !enabled {
			continue
		}
		if err := c.Element.Click(ctx); err != nil {
			f.log.Warn("failed to click submit button", zap.Error(err))
			continue
		}
		f.log.Info("form submitted")

		if err := f.pacer.Pause(ctx, f.pacer.Delays.Submit); err != nil {
			f.log.Error("interrupted while waiting for submission", zap.Error(err))
			return SubmissionFailed
		}
		return f.checkSubmission(ctx)
	}

	f.log.Error("no working submit button found")
	return SubmissionNotAttempted
}

func (f *Filler) checkSubmission(ctx context.Context) SubmissionResult {
	markup, err := f.page.Markup(ctx)
	if err != nil {
		f.log.Error("failed to check submission success", zap.Error(err))
		return SubmissionFailed
	}

	result, phrase := ClassifySubmission(markup)
	switch result {
	case SubmissionSucceeded:
		f.log.Info("success indicator found", zap.String("indicator", phrase))
	case SubmissionFailed:
		f.log.Warn("error indicator found", zap.String("indicator", phrase))
	default:
		f.log.Warn("no success or error indicator after submit, assuming success")
	}
	return result
}
