package formfill

import (
	"context"
	"testing"
	"time"

	"github.com/jonathan/apply-agent/internal/ats"
	"github.com/jonathan/apply-agent/internal/browser"
	"github.com/jonathan/apply-agent/internal/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const applyURL = "https://careers.example.com/apply"

func newTestFiller(t *testing.T, markup string) (*browser.Static, *Filler) {
	t.Helper()
	page, err := browser.NewStatic(applyURL, markup)
	require.NoError(t, err)
	return page, NewFiller(page, NewPacer(Delays{}), nil)
}

func valueOf(t *testing.T, page browser.Page, selector string) string {
	t.Helper()
	el, err := page.FindElement(context.Background(), selector)
	require.NoError(t, err)
	v, _, err := el.Attribute(context.Background(), "value")
	require.NoError(t, err)
	return v
}

func testProfile() *profile.Profile {
	return &profile.Profile{
		Name:  "Jane Roe",
		Email: "jane@example.org",
		Phone: "+1 555 0100",
	}
}

func TestFill_RoundTrip(t *testing.T) {
	page, f := newTestFiller(t, `<html><body><form>
<input type="email" name="email">
<input type="file" name="resume">
<button type="submit">Submit</button>
</form></body></html>`)
	require.NoError(t, page.OnClick(`button[type="submit"]`, "", `<html><body><h1>Thank you for your application</h1></body></html>`))

	out := f.Fill(context.Background(), ats.VendorGeneric, testProfile(), "/tmp/resume.pdf", "")

	assert.NotEmpty(t, out.AttemptID.String())
	assert.Equal(t, ats.VendorGeneric, out.Vendor)
	assert.True(t, out.ResumeUploaded)
	assert.True(t, out.Submitted)
	assert.True(t, out.SuccessDetected)
	assert.Equal(t, SubmissionSucceeded, out.Submission)
	assert.True(t, out.Succeeded())
	assert.False(t, out.CoverLetterAdded)
	assert.Equal(t, []string{"/tmp/resume.pdf"}, page.Uploaded)
	assert.Equal(t, 1, page.Clicked)
}

func TestFill_FillsBasicAndAdditionalFields(t *testing.T) {
	page, f := newTestFiller(t, `<form>
<input name="full_name">
<input type="email" name="email">
<input type="tel" name="phone" value="+44 20 7946 0000">
<input name="years_of_experience">
<input name="referral" value="friend">
<input type="hidden" name="token">
<input name="disabled_note" disabled>
<textarea name="notes"></textarea>
<select name="work_authorization" required>
  <option value="">Select...</option>
  <option>No</option>
  <option>Yes, immediately available</option>
</select>
<input type="file" name="cv">
<button type="submit">Apply</button>
</form>`)

	out := f.Fill(context.Background(), ats.VendorGeneric, testProfile(), "/tmp/cv.pdf", "")

	assert.True(t, out.ResumeUploaded)
	assert.Equal(t, 2, out.AdditionalFieldsFilled)
	assert.Equal(t, SubmissionAmbiguous, out.Submission)
	assert.True(t, out.SuccessDetected)

	assert.Equal(t, "Jane Roe", valueOf(t, page, `input[name="full_name"]`))
	assert.Equal(t, "jane@example.org", valueOf(t, page, `input[name="email"]`))
	assert.Equal(t, "+44 20 7946 0000", valueOf(t, page, `input[name="phone"]`), "prefilled values are kept")
	assert.Equal(t, "5", valueOf(t, page, `input[name="years_of_experience"]`))
	assert.Equal(t, "friend", valueOf(t, page, `input[name="referral"]`))
	assert.Empty(t, valueOf(t, page, `input[name="token"]`))
	assert.Empty(t, valueOf(t, page, `input[name="disabled_note"]`))
	assert.Empty(t, valueOf(t, page, "textarea"))
	assert.Equal(t, "Yes, immediately available", valueOf(t, page, "select"))
}

func TestFill_AmbiguousCountsAsSuccess(t *testing.T) {
	page, f := newTestFiller(t, `<form><input type="file"><input type="submit" value="Send"></form>`)
	require.NoError(t, page.OnClick(`input[type="submit"]`, "https://careers.example.com/next", `<p>We will be in touch.</p>`))

	out := f.Fill(context.Background(), ats.VendorWorkday, nil, "/tmp/r.pdf", "")

	assert.True(t, out.Submitted)
	assert.True(t, out.SuccessDetected)
	assert.Equal(t, SubmissionAmbiguous, out.Submission)
}

func TestFill_ErrorPhraseIsFailure(t *testing.T) {
	page, f := newTestFiller(t, `<form><input type="file"><button type="submit">Go</button></form>`)
	require.NoError(t, page.OnClick("button", "", `<div class="alert">An error occurred while saving.</div>`))

	out := f.Fill(context.Background(), ats.VendorGreenhouse, nil, "/tmp/r.pdf", "")

	assert.True(t, out.Submitted)
	assert.False(t, out.SuccessDetected)
	assert.Equal(t, SubmissionFailed, out.Submission)
	assert.False(t, out.Succeeded())
}

func TestFill_NoUploadControlStopsBeforeSubmit(t *testing.T) {
	page, f := newTestFiller(t, `<form>
<input type="email" name="email">
<input name="years_of_experience">
<textarea name="cover_letter"></textarea>
<button type="submit">Submit</button>
</form>`)

	out := f.Fill(context.Background(), ats.VendorGeneric, testProfile(), "/tmp/r.pdf", "Dear team")

	assert.False(t, out.ResumeUploaded)
	assert.False(t, out.Submitted)
	assert.False(t, out.SuccessDetected)
	assert.Equal(t, SubmissionNotAttempted, out.Submission)
	assert.Zero(t, out.AdditionalFieldsFilled)
	assert.False(t, out.CoverLetterAdded)
	assert.Zero(t, page.Clicked)

	assert.Equal(t, "jane@example.org", valueOf(t, page, `input[name="email"]`), "basic fields run before upload")
	assert.Empty(t, valueOf(t, page, `input[name="years_of_experience"]`))
	assert.Empty(t, valueOf(t, page, "textarea"))
}

func TestFill_NoSubmitControl(t *testing.T) {
	page, f := newTestFiller(t, `<form><input type="file"><a href="#">Continue</a></form>`)

	out := f.Fill(context.Background(), ats.VendorLever, nil, "/tmp/r.pdf", "")

	assert.True(t, out.ResumeUploaded)
	assert.False(t, out.Submitted)
	assert.Equal(t, SubmissionNotAttempted, out.Submission)
	assert.Zero(t, page.Clicked)
}

func TestFill_DisabledSubmitSkipped(t *testing.T) {
	page, f := newTestFiller(t, `<form><input type="file">
<button type="submit" disabled>Submit</button>
<input type="submit" value="Submit">
</form>`)
	require.NoError(t, page.OnClick(`input[type="submit"]`, "", `<p>Application submitted</p>`))

	out := f.Fill(context.Background(), ats.VendorWorkday, nil, "/tmp/r.pdf", "")

	assert.Equal(t, SubmissionSucceeded, out.Submission)
	assert.Equal(t, 1, page.Clicked)
}

func TestFill_CoverLetter(t *testing.T) {
	page, f := newTestFiller(t, `<form>
<input type="file">
<textarea name="message" style="display:none"></textarea>
<textarea placeholder="Paste your cover letter"></textarea>
</form>`)

	out := f.Fill(context.Background(), ats.VendorGeneric, nil, "/tmp/r.pdf", "Dear team")

	assert.True(t, out.CoverLetterAdded)
	assert.Equal(t, "Dear team", valueOf(t, page, `textarea[placeholder*="cover"]`))
	assert.Empty(t, valueOf(t, page, `textarea[name="message"]`))
}

func TestFill_CoverLetterNeverOverwritesSweptField(t *testing.T) {
	page, f := newTestFiller(t, `<form>
<input type="file">
<textarea name="cover_years" required></textarea>
</form>`)

	out := f.Fill(context.Background(), ats.VendorGeneric, nil, "/tmp/r.pdf", "Dear team")

	assert.Equal(t, 1, out.AdditionalFieldsFilled)
	assert.False(t, out.CoverLetterAdded)
	assert.Equal(t, "5", valueOf(t, page, "textarea"))
}

func TestFill_CoverLetterPausesAfterClear(t *testing.T) {
	_, f := newTestFiller(t, `<form><input type="file"><textarea name="cover_letter"></textarea></form>`)
	f.pacer = NewPacer(Delays{
		Clear:     Range{Min: 7 * time.Millisecond, Max: 7 * time.Millisecond},
		AfterType: Range{Min: 9 * time.Millisecond, Max: 9 * time.Millisecond},
	})
	var slept []time.Duration
	f.pacer.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}

	out := f.Fill(context.Background(), ats.VendorGeneric, nil, "/tmp/r.pdf", "Hi")

	assert.True(t, out.CoverLetterAdded)
	assert.Equal(t, []time.Duration{7 * time.Millisecond}, slept)
}

func TestFill_ProfileAnswersAdditionalQuestions(t *testing.T) {
	markup := `<form>
<input name="city">
<input name="years_experience">
<input type="file">
</form>`

	t.Run("populated profile", func(t *testing.T) {
		page, f := newTestFiller(t, markup)
		p := &profile.Profile{Location: "Berlin", YearsExperience: "12"}

		out := f.Fill(context.Background(), ats.VendorGeneric, p, "/tmp/r.pdf", "")

		assert.Equal(t, 2, out.AdditionalFieldsFilled)
		assert.Equal(t, "Berlin", valueOf(t, page, `input[name="city"]`))
		assert.Equal(t, "12", valueOf(t, page, `input[name="years_experience"]`))
	})

	t.Run("empty profile keeps literals", func(t *testing.T) {
		page, f := newTestFiller(t, markup)

		f.Fill(context.Background(), ats.VendorGeneric, &profile.Profile{}, "/tmp/r.pdf", "")

		assert.Equal(t, DefaultLocation, valueOf(t, page, `input[name="city"]`))
		assert.Equal(t, DefaultExperience, valueOf(t, page, `input[name="years_experience"]`))
	})
}

func TestFill_EmptyCoverLetterSkipped(t *testing.T) {
	page, f := newTestFiller(t, `<form><input type="file"><textarea name="cover_letter"></textarea></form>`)

	out := f.Fill(context.Background(), ats.VendorGeneric, nil, "/tmp/r.pdf", "")

	assert.False(t, out.CoverLetterAdded)
	assert.Empty(t, valueOf(t, page, "textarea"))
}

func TestFill_DistinctAttemptIDs(t *testing.T) {
	_, f := newTestFiller(t, `<form></form>`)
	a := f.Fill(context.Background(), ats.VendorGeneric, nil, "/tmp/r.pdf", "")
	b := f.Fill(context.Background(), ats.VendorGeneric, nil, "/tmp/r.pdf", "")
	assert.NotEqual(t, a.AttemptID, b.AttemptID)
}

func TestFill_CancelledContext(t *testing.T) {
	page, f := newTestFiller(t, `<form><input type="file"><button type="submit">Submit</button></form>`)
	f.pacer = NewPacer(DefaultDelays())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := f.Fill(ctx, ats.VendorGeneric, nil, "/tmp/r.pdf", "")

	assert.False(t, out.ResumeUploaded, "interrupted upload wait ends the attempt")
	assert.False(t, out.Submitted)
	assert.Zero(t, page.Clicked)
}
