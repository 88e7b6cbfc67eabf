package apply

import (
	"context"
	"testing"

	"github.com/jonathan/apply-agent/internal/ats"
	"github.com/jonathan/apply-agent/internal/browser"
	"github.com/jonathan/apply-agent/internal/formfill"
	"github.com/jonathan/apply-agent/internal/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jobURL = "https://www.linkedin.com/jobs/view/4001"

const easyApplyForm = `<html><body>
<div class="jobs-easy-apply-content">
  <input type="email" name="email">
  <input type="file" accept=".pdf">
  <button aria-label="Submit application">Submit</button>
</div>
</body></html>`

const externalForm = `<html><body><form>
<input type="email" name="email">
<input type="file">
<button type="submit">Submit</button>
</form></body></html>`

const thankYou = `<html><body><h1>Thank you for your application</h1></body></html>`

func newPage(t *testing.T, jobMarkup string) *browser.Static {
	t.Helper()
	page, err := browser.NewStatic("about:blank", "<html></html>")
	require.NoError(t, err)
	page.AddRoute(jobURL, jobMarkup)
	return page
}

func newFlow(page browser.Page) *Flow {
	return NewFlow(page, formfill.NewPacer(formfill.Delays{}), nil)
}

func applicant() *profile.Profile {
	return &profile.Profile{Name: "Jane Roe", Email: "jane@example.org"}
}

func TestApply_EasyApply(t *testing.T) {
	page := newPage(t, `<html><body><button aria-label="Easy Apply to Data Engineer">Easy Apply</button></body></html>`)
	require.NoError(t, page.OnClick(`button[aria-label*="Easy Apply"]`, "", easyApplyForm))
	require.NoError(t, page.OnClick(`button[aria-label="Submit application"]`, "", thankYou))

	res, err := newFlow(page).Apply(context.Background(), jobURL, applicant(), "/tmp/resume.pdf", "")
	require.NoError(t, err)

	assert.Equal(t, RouteEasyApply, res.Route)
	assert.Equal(t, ats.VendorLinkedIn, res.Vendor)
	require.NotNil(t, res.Outcome)
	assert.True(t, res.Outcome.ResumeUploaded)
	assert.Equal(t, formfill.SubmissionSucceeded, res.Outcome.Submission)
	assert.True(t, res.Succeeded())
	assert.Equal(t, []string{"/tmp/resume.pdf"}, page.Uploaded)
}

func TestApply_RedirectToExternalSite(t *testing.T) {
	page := newPage(t, `<html><body><button data-control-name="jobdetails_topcard_apply">Apply</button></body></html>`)
	require.NoError(t, page.OnClick(`button[data-control-name="jobdetails_topcard_apply"]`, "https://boards.greenhouse.io/acme/jobs/1", externalForm))
	require.NoError(t, page.OnClick(`button[type="submit"]`, "", thankYou))

	res, err := newFlow(page).Apply(context.Background(), jobURL, applicant(), "/tmp/resume.pdf", "")
	require.NoError(t, err)

	assert.Equal(t, RouteExternal, res.Route)
	assert.Equal(t, ats.VendorGreenhouse, res.Vendor)
	assert.Equal(t, "https://boards.greenhouse.io/acme/jobs/1", res.URL)
	require.NotNil(t, res.Outcome)
	assert.True(t, res.Succeeded())
}

func TestApply_FollowsExternalLink(t *testing.T) {
	page := newPage(t, `<html><body>
<button aria-label="Apply on company website">Apply</button>
<a href="https://careers.acme.com/apply/1">Continue to company site</a>
</body></html>`)
	require.NoError(t, page.OnClick(`a[href*="apply"]`, "https://careers.acme.com/apply/1", externalForm))
	require.NoError(t, page.OnClick(`button[type="submit"]`, "", thankYou))

	res, err := newFlow(page).Apply(context.Background(), jobURL, applicant(), "/tmp/resume.pdf", "Dear Acme")
	require.NoError(t, err)

	assert.Equal(t, RouteExternal, res.Route)
	assert.Equal(t, ats.VendorGeneric, res.Vendor)
	assert.Equal(t, "https://careers.acme.com/apply/1", res.URL)
	assert.True(t, res.Succeeded())
	assert.Equal(t, 3, page.Clicked)
}

func TestApply_NoApplyButton(t *testing.T) {
	page := newPage(t, `<html><body><p>This job is no longer accepting applications</p></body></html>`)

	res, err := newFlow(page).Apply(context.Background(), jobURL, applicant(), "/tmp/resume.pdf", "")
	require.NoError(t, err)

	assert.Equal(t, RouteNoApplyButton, res.Route)
	assert.Nil(t, res.Outcome)
	assert.False(t, res.Succeeded())
	assert.Zero(t, page.Clicked)
}

func TestApply_ButtonFoundByText(t *testing.T) {
	page := newPage(t, `<html><body>
<button>Save</button>
<button disabled>Apply (closed)</button>
<button>Apply now</button>
</body></html>`)

	res, err := newFlow(page).Apply(context.Background(), jobURL, applicant(), "/tmp/resume.pdf", "")
	require.NoError(t, err)

	assert.Equal(t, 1, page.Clicked, "only the enabled apply button is clicked")
	assert.Equal(t, RouteNoForm, res.Route)
	assert.Equal(t, jobURL, res.URL)
	assert.Nil(t, res.Outcome)
}

func TestApply_HiddenEasyApplyIgnored(t *testing.T) {
	page := newPage(t, `<html><body><button class="apply-button">Apply</button></body></html>`)
	require.NoError(t, page.OnClick(".apply-button", "https://jobs.example.org/listing", `<html><body>
<div class="jobs-easy-apply-modal" style="display:none"></div>
<p>Please sign in</p>
</body></html>`))

	res, err := newFlow(page).Apply(context.Background(), jobURL, applicant(), "/tmp/resume.pdf", "")
	require.NoError(t, err)

	assert.Equal(t, RouteNoForm, res.Route)
	assert.Equal(t, ats.VendorUnknown, res.Vendor)
	assert.Nil(t, res.Outcome)
}

func TestApply_NavigationError(t *testing.T) {
	page, err := browser.NewStatic("about:blank", "<html></html>")
	require.NoError(t, err)

	_, err = newFlow(page).Apply(context.Background(), jobURL, applicant(), "/tmp/resume.pdf", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, browser.ErrNotFound)
}

func TestOnLinkedIn(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://www.linkedin.com/jobs/view/1", true},
		{"https://linkedin.com/", true},
		{"https://LinkedIn.com/jobs", true},
		{"https://boards.greenhouse.io/acme", false},
		{"https://notlinkedin.com.example.org/", false},
		{"https://example.org/?ref=linkedin.com", false},
		{"linkedin.com/jobs", true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, onLinkedIn(tt.url))
		})
	}
}
