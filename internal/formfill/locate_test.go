package formfill

import (
	"context"
	"testing"

	"github.com/jonathan/apply-agent/internal/ats"
	"github.com/jonathan/apply-agent/internal/browser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const locatorForm = `<html><body><form>
<input type="email" name="email">
<input type="email" name="backup_email" disabled>
<input type="tel" name="phone" style="display: none">
<div hidden><input name="full_name"></div>
<input type="file" name="resume" accept=".pdf">
<button type="submit">Submit</button>
</form></body></html>`

func TestLocator_Locate(t *testing.T) {
	page, err := browser.NewStatic("https://example.com/apply", locatorForm)
	require.NoError(t, err)
	l := NewLocator(page, nil)
	ctx := context.Background()

	t.Run("duplicates kept in selector order", func(t *testing.T) {
		fields := l.Locate(ctx, ats.VendorGeneric, ats.FieldEmail)
		require.Len(t, fields, 2)
		assert.Equal(t, fields[0].Element.Key(), fields[1].Element.Key())
		assert.Equal(t, "email", fields[0].Name)
		assert.Equal(t, ats.FieldEmail, fields[0].Kind)
	})

	t.Run("hidden and disabled dropped", func(t *testing.T) {
		assert.Empty(t, l.Locate(ctx, ats.VendorGeneric, ats.FieldPhone))
		assert.Empty(t, l.Locate(ctx, ats.VendorGeneric, ats.FieldName))
	})

	t.Run("upload matched by type and accept", func(t *testing.T) {
		fields := l.Locate(ctx, ats.VendorGeneric, ats.FieldResumeUpload)
		require.Len(t, fields, 2)
		assert.Equal(t, "file", fields[0].RawType)
	})

	t.Run("submit matched by type and text", func(t *testing.T) {
		fields := l.Locate(ctx, ats.VendorGeneric, ats.FieldSubmitButton)
		require.Len(t, fields, 2)
		assert.Equal(t, "submit", fields[0].RawType)
	})

	t.Run("unknown vendor uses generic selectors", func(t *testing.T) {
		assert.Len(t, l.Locate(ctx, ats.VendorUnknown, ats.FieldEmail), 2)
	})
}

func TestLocator_LocateAll(t *testing.T) {
	page, err := browser.NewStatic("https://jobs.lever.co/acme/apply", locatorForm)
	require.NoError(t, err)

	mapped := NewLocator(page, nil).LocateAll(context.Background(), ats.VendorLever)
	for _, kind := range ats.FieldKinds {
		assert.Contains(t, mapped, kind)
	}
	assert.Len(t, mapped[ats.FieldEmail], 2)
	assert.Len(t, mapped[ats.FieldSubmitButton], 1)
	assert.Empty(t, mapped[ats.FieldAdditional])
}

// selectorFailingPage rejects one selector and defers the rest.
type selectorFailingPage struct {
	browser.Page
	bad string
}

func (p selectorFailingPage) FindElements(ctx context.Context, selector string) ([]browser.Element, error) {
	if selector == p.bad {
		return nil, &browser.Error{Op: "find", Selector: selector, Cause: assert.AnError}
	}
	return p.Page.FindElements(ctx, selector)
}

func TestLocator_SkipsFailingSelector(t *testing.T) {
	static, err := browser.NewStatic("https://example.com", locatorForm)
	require.NoError(t, err)
	page := selectorFailingPage{Page: static, bad: `input[type="email"]`}

	fields := NewLocator(page, nil).Locate(context.Background(), ats.VendorGeneric, ats.FieldEmail)
	require.Len(t, fields, 1)
	assert.Equal(t, "email", fields[0].Name)
}

func TestInspect(t *testing.T) {
	page, err := browser.NewStatic("https://example.com", `<form>
<input id="city" placeholder="Your city" aria-required="true" value="Paris">
<select name="auth" multiple><option>A</option></select>
<textarea name="why" aria-required="false"></textarea>
</form>`)
	require.NoError(t, err)
	ctx := context.Background()

	input, err := page.FindElement(ctx, "input")
	require.NoError(t, err)
	f, err := Inspect(ctx, input, ats.FieldAdditional)
	require.NoError(t, err)
	assert.Equal(t, "city", f.Name, "falls back to id")
	assert.Equal(t, "text", f.RawType)
	assert.Equal(t, "Your city", f.Placeholder)
	assert.Equal(t, "Paris", f.CurrentValue)
	assert.True(t, f.Required)

	sel, err := page.FindElement(ctx, "select")
	require.NoError(t, err)
	f, err = Inspect(ctx, sel, ats.FieldAdditional)
	require.NoError(t, err)
	assert.Equal(t, "select-multiple", f.RawType)
	assert.True(t, f.IsSelect())

	ta, err := page.FindElement(ctx, "textarea")
	require.NoError(t, err)
	f, err = Inspect(ctx, ta, ats.FieldAdditional)
	require.NoError(t, err)
	assert.Equal(t, "textarea", f.RawType)
	assert.False(t, f.Required)
	assert.Empty(t, f.CurrentValue)
}

func TestInspect_Stale(t *testing.T) {
	page, err := browser.NewStatic("https://example.com", `<input name="a">`)
	require.NoError(t, err)
	page.AddRoute("https://example.com/next", `<input name="b">`)
	ctx := context.Background()

	el, err := page.FindElement(ctx, "input")
	require.NoError(t, err)
	require.NoError(t, page.Navigate(ctx, "https://example.com/next"))

	_, err = Inspect(ctx, el, ats.FieldAdditional)
	assert.ErrorIs(t, err, browser.ErrStale)
}
