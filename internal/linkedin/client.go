// Package linkedin signs in to LinkedIn, searches and scrapes job postings,
// ranks them for a session, and reaches out to people at hiring companies.
// Every page interaction goes through a browser.Page, so the same code runs
// against Chrome and against saved markup.
package linkedin

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonathan/apply-agent/internal/browser"
	"github.com/jonathan/apply-agent/internal/formfill"
	"go.uber.org/zap"
)

// BaseURL is the LinkedIn origin every derived URL starts from.
const BaseURL = "https://www.linkedin.com"

var (
	// ErrMissingCredentials is returned when an operation needs a signed-in
	// session and no email or password was supplied.
	ErrMissingCredentials = errors.New("linkedin email and password are required")
	// ErrLoginFailed is returned when the credentials were submitted but no
	// signed-in page appeared.
	ErrLoginFailed = errors.New("linkedin login failed")
)

// Credentials sign in to LinkedIn.
type Credentials struct {
	Email    string
	Password string
}

// Complete reports whether both parts are present.
func (c Credentials) Complete() bool {
	return c.Email != "" && c.Password != ""
}

// Client performs LinkedIn page operations on a single browser page.
type Client struct {
	page  browser.Page
	pacer *formfill.Pacer
	log   *zap.Logger
}

// NewClient creates a Client. A nil pacer uses formfill.DefaultDelays.
func NewClient(page browser.Page, pacer *formfill.Pacer, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	if pacer == nil {
		pacer = formfill.NewPacer(formfill.DefaultDelays())
	}
	return &Client{page: page, pacer: pacer, log: log}
}

// open navigates to url and waits for the page to settle.
func (c *Client) open(ctx context.Context, url string) error {
	if err := c.page.Navigate(ctx, url); err != nil {
		return fmt.Errorf("failed to open %s: %w", url, err)
	}
	return c.pacer.Pause(ctx, c.pacer.Delays.PageLoad)
}

// interactable returns the first visible, enabled element matching selector.
func (c *Client) interactable(ctx context.Context, selector string) (browser.Element, error) {
	elems, err := c.page.FindElements(ctx, selector)
	if err != nil {
		return nil, err
	}
	for _, el := range elems {
		if visible, err := el.IsVisible(ctx); err != nil || !visible {
			continue
		}
		if enabled, err := el.IsEnabled(ctx); err != nil || !enabled {
			continue
		}
		return el, nil
	}
	return nil, &browser.Error{Op: "find", Selector: selector, Cause: browser.ErrNotFound}
}

// click presses the first interactable element matching selector.
func (c *Client) click(ctx context.Context, selector string, pause formfill.Range) error {
	el, err := c.interactable(ctx, selector)
	if err != nil {
		return err
	}
	if err := el.Click(ctx); err != nil {
		return err
	}
	return c.pacer.Pause(ctx, pause)
}

// typeInto replaces the value of the element matching selector with text.
func (c *Client) typeInto(ctx context.Context, selector, text string) error {
	el, err := c.interactable(ctx, selector)
	if err != nil {
		return err
	}
	if err := el.Clear(ctx); err != nil {
		return err
	}
	if err := c.pacer.Pause(ctx, c.pacer.Delays.Clear); err != nil {
		return err
	}
	if err := c.pacer.Type(ctx, el, text); err != nil {
		return err
	}
	return c.pacer.Pause(ctx, c.pacer.Delays.AfterType)
}

func (c *Client) currentURL(ctx context.Context) string {
	u, err := c.page.URL(ctx)
	if err != nil {
		c.log.Debug("failed to read current URL", zap.Error(err))
		return ""
	}
	return u
}

// exists reports whether any element matches one of selectors.
func (c *Client) exists(ctx context.Context, selectors ...string) bool {
	for _, selector := range selectors {
		if elems, err := c.page.FindElements(ctx, selector); err == nil && len(elems) > 0 {
			return true
		}
	}
	return false
}
