// Package browser defines the DOM automation surface the form filler drives.
// Two implementations are provided: Chrome (a live chromedp session) and
// Static (a goquery document over saved markup, used offline and in tests).
package browser

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a selector matches nothing.
var ErrNotFound = errors.New("element not found")

// ErrStale is returned when an element no longer belongs to the current page.
var ErrStale = errors.New("stale element reference")

// Error wraps a failed DOM operation with the selector involved.
type Error struct {
	Op       string
	Selector string
	Cause    error
}

func (e *Error) Error() string {
	if e.Selector != "" {
		return fmt.Sprintf("browser %s %q: %v", e.Op, e.Selector, e.Cause)
	}
	return fmt.Sprintf("browser %s: %v", e.Op, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Page is a loaded document in the browser session.
type Page interface {
	// Navigate loads url and waits for the body to be ready.
	Navigate(ctx context.Context, url string) error
	// URL returns the current address.
	URL(ctx context.Context) (string, error)
	// Markup returns the rendered document markup.
	Markup(ctx context.Context) (string, error)
	// FindElements returns every element matching selector. No match is not an error.
	FindElements(ctx context.Context, selector string) ([]Element, error)
	// FindElement returns the first match or ErrNotFound.
	FindElement(ctx context.Context, selector string) (Element, error)
}

// Element is a live reference to a form control or other node.
// References are invalidated by navigation.
type Element interface {
	// Key identifies the underlying node within the current page load.
	Key() string
	TagName() string
	IsVisible(ctx context.Context) (bool, error)
	IsEnabled(ctx context.Context) (bool, error)
	// Attribute returns the named attribute. For "value" the live property is returned.
	Attribute(ctx context.Context, name string) (string, bool, error)
	Text(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
	SendKeys(ctx context.Context, text string) error
	Click(ctx context.Context) error
	// Options returns the visible text of each option of a select element.
	Options(ctx context.Context) ([]string, error)
	SelectIndex(ctx context.Context, index int) error
	UploadFile(ctx context.Context, path string) error
}

// FindFirst is FindElements reduced to its first match.
func FindFirst(ctx context.Context, p Page, selector string) (Element, error) {
	elems, err := p.FindElements(ctx, selector)
	if err != nil {
		return nil, err
	}
	if len(elems) == 0 {
		return nil, &Error{Op: "find", Selector: selector, Cause: ErrNotFound}
	}
	return elems[0], nil
}
