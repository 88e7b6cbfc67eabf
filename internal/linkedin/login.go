package linkedin

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// LoginURL is the sign-in form.
const LoginURL = BaseURL + "/login"

// loginChecks is how many page-load pauses Login waits for the feed.
const loginChecks = 5

var signedInIndicators = []string{".global-nav", "#global-nav", "[data-test-global-nav]"}

// Login signs in with creds and waits for the signed-in navigation bar.
// A security checkpoint or a page without the navigation bar is reported as
// ErrLoginFailed.
func (c *Client) Login(ctx context.Context, creds Credentials) error {
	if !creds.Complete() {
		return ErrMissingCredentials
	}
	c.log.Info("logging in to LinkedIn")

	if err := c.open(ctx, LoginURL); err != nil {
		return err
	}
	if err := c.typeInto(ctx, "#username", creds.Email); err != nil {
		return fmt.Errorf("%w: username field: %v", ErrLoginFailed, err)
	}
	if err := c.typeInto(ctx, "#password", creds.Password); err != nil {
		return fmt.Errorf("%w: password field: %v", ErrLoginFailed, err)
	}
	if err := c.click(ctx, `button[type="submit"]`, c.pacer.Delays.PageLoad); err != nil {
		return fmt.Errorf("%w: sign-in button: %v", ErrLoginFailed, err)
	}

	for range loginChecks {
		if c.exists(ctx, signedInIndicators...) {
			c.log.Info("logged in to LinkedIn")
			return nil
		}
		if url := c.currentURL(ctx); strings.Contains(url, "/checkpoint") {
			return fmt.Errorf("%w: security checkpoint at %s", ErrLoginFailed, url)
		}
		if err := c.pacer.Pause(ctx, c.pacer.Delays.PageLoad); err != nil {
			return err
		}
	}
	c.log.Warn("signed-in page did not appear", zap.String("url", c.currentURL(ctx)))
	return fmt.Errorf("%w: no signed-in page after submitting credentials", ErrLoginFailed)
}
