// Package browser - chrome.go drives a live Chrome session through chromedp.
package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// DefaultTimeout bounds a single DOM operation.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is presented by the browser session.
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"

// ChromeOptions configures the browser session.
type ChromeOptions struct {
	Headless  bool
	Timeout   time.Duration
	UserAgent string
}

// DefaultChromeOptions returns sensible defaults.
func DefaultChromeOptions() *ChromeOptions {
	return &ChromeOptions{
		Headless:  true,
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// Chrome is a Page backed by a single chromedp browser tab.
// Requires Chrome/Chromium to be installed on the system.
type Chrome struct {
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration
	log     *zap.Logger
}

// NewChrome starts a browser session. Close must be called to release it.
func NewChrome(ctx context.Context, opts *ChromeOptions, log *zap.Logger) (*Chrome, error) {
	if opts == nil {
		opts = DefaultChromeOptions()
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if log == nil {
		log = zap.NewNop()
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", opts.Headless),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.Flag("disable-blink-features", "AutomationControlled"),
			chromedp.UserAgent(opts.UserAgent),
		)...,
	)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Start the browser now so launch failures surface here.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	log.Debug("browser started", zap.Bool("headless", opts.Headless))

	return &Chrome{
		ctx: browserCtx,
		cancel: func() {
			browserCancel()
			allocCancel()
		},
		timeout: opts.Timeout,
		log:     log,
	}, nil
}

// Close shuts the browser down.
func (c *Chrome) Close() {
	c.cancel()
}

// run executes actions on the tab, bounded by the per-operation timeout and
// the caller's context.
func (c *Chrome) run(ctx context.Context, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	runCtx, cancel := context.WithTimeout(c.ctx, c.timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(runCtx, actions...)
}

func (c *Chrome) Navigate(ctx context.Context, url string) error {
	if err := c.run(ctx, chromedp.Navigate(url), chromedp.WaitReady("body")); err != nil {
		return &Error{Op: "navigate", Selector: url, Cause: err}
	}
	return nil
}

func (c *Chrome) URL(ctx context.Context) (string, error) {
	var loc string
	if err := c.run(ctx, chromedp.Location(&loc)); err != nil {
		return "", &Error{Op: "location", Cause: err}
	}
	return loc, nil
}

func (c *Chrome) Markup(ctx context.Context) (string, error) {
	var html string
	if err := c.run(ctx, chromedp.OuterHTML("html", &html)); err != nil {
		return "", &Error{Op: "markup", Cause: err}
	}
	return html, nil
}

func (c *Chrome) FindElements(ctx context.Context, selector string) ([]Element, error) {
	var nodes []*cdp.Node
	err := c.run(ctx, chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0)))
	if err != nil {
		return nil, &Error{Op: "find", Selector: selector, Cause: classify(err)}
	}
	out := make([]Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, &chromeElement{tab: c, node: n})
	}
	return out, nil
}

func (c *Chrome) FindElement(ctx context.Context, selector string) (Element, error) {
	return FindFirst(ctx, c, selector)
}

// classify maps CDP failures about vanished nodes onto ErrStale.
func classify(err error) error {
	msg := err.Error()
	if strings.Contains(msg, "No node with given id") || strings.Contains(msg, "Could not find node") {
		return fmt.Errorf("%w: %v", ErrStale, err)
	}
	return err
}

type chromeElement struct {
	tab  *Chrome
	node *cdp.Node
}

func (e *chromeElement) ids() []cdp.NodeID {
	return []cdp.NodeID{e.node.NodeID}
}

// callArguments JSON-encodes each argument for Runtime.callFunctionOn.
func callArguments(args []interface{}) ([]*runtime.CallArgument, error) {
	out := make([]*runtime.CallArgument, 0, len(args))
	for _, a := range args {
		raw, err := json.Marshal(a)
		if err != nil {
			return nil, fmt.Errorf("encode argument: %w", err)
		}
		out = append(out, &runtime.CallArgument{Value: raw})
	}
	return out, nil
}

// call runs fn with the element bound to this and decodes the returned
// value into res. res may be nil when the result is not needed.
func (e *chromeElement) call(ctx context.Context, op, fn string, res interface{}, args ...interface{}) error {
	params, err := callArguments(args)
	if err != nil {
		return &Error{Op: op, Cause: err}
	}
	err = e.tab.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		obj, err := dom.ResolveNode().WithNodeID(e.node.NodeID).Do(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = runtime.ReleaseObject(obj.ObjectID).Do(ctx) }()

		out, exc, err := runtime.CallFunctionOn(fn).
			WithObjectID(obj.ObjectID).
			WithArguments(params).
			WithReturnByValue(true).
			Do(ctx)
		if err != nil {
			return err
		}
		if exc != nil {
			return exc
		}
		if res == nil || out == nil || len(out.Value) == 0 {
			return nil
		}
		return json.Unmarshal(out.Value, res)
	}))
	if err != nil {
		return &Error{Op: op, Cause: classify(err)}
	}
	return nil
}

func (e *chromeElement) Key() string {
	return fmt.Sprintf("%d", e.node.NodeID)
}

func (e *chromeElement) TagName() string {
	return strings.ToLower(e.node.LocalName)
}

const jsVisible = `function() {
	const s = window.getComputedStyle(this);
	if (s.visibility === 'hidden' || s.display === 'none') return false;
	return !!(this.offsetWidth || this.offsetHeight || this.getClientRects().length);
}`

func (e *chromeElement) IsVisible(ctx context.Context) (bool, error) {
	var visible bool
	err := e.call(ctx, "visible", jsVisible, &visible)
	return visible, err
}

func (e *chromeElement) IsEnabled(ctx context.Context) (bool, error) {
	var enabled bool
	err := e.call(ctx, "enabled", `function() { return !this.disabled; }`, &enabled)
	return enabled, err
}

func (e *chromeElement) Attribute(ctx context.Context, name string) (string, bool, error) {
	var res *string
	fn := `function(n) { const v = this.getAttribute(n); return v === null ? null : String(v); }`
	if name == "value" {
		fn = `function() { return this.value === undefined ? null : String(this.value); }`
	}
	if err := e.call(ctx, "attribute", fn, &res, name); err != nil {
		return "", false, err
	}
	if res == nil {
		return "", false, nil
	}
	return *res, true, nil
}

func (e *chromeElement) Text(ctx context.Context) (string, error) {
	var text string
	err := e.call(ctx, "text", `function() { return (this.innerText || this.textContent || '').trim(); }`, &text)
	return text, err
}

func (e *chromeElement) Clear(ctx context.Context) error {
	if err := e.tab.run(ctx, chromedp.Clear(e.ids(), chromedp.ByNodeID)); err != nil {
		return &Error{Op: "clear", Cause: classify(err)}
	}
	return nil
}

func (e *chromeElement) SendKeys(ctx context.Context, text string) error {
	if err := e.tab.run(ctx, chromedp.SendKeys(e.ids(), text, chromedp.ByNodeID)); err != nil {
		return &Error{Op: "send keys", Cause: classify(err)}
	}
	return nil
}

func (e *chromeElement) Click(ctx context.Context) error {
	if err := e.tab.run(ctx, chromedp.Click(e.ids(), chromedp.ByNodeID)); err != nil {
		return &Error{Op: "click", Cause: classify(err)}
	}
	return nil
}

func (e *chromeElement) Options(ctx context.Context) ([]string, error) {
	var texts []string
	err := e.call(ctx, "options", `function() { return Array.from(this.options || []).map(o => o.text.trim()); }`, &texts)
	return texts, err
}

const jsSelectIndex = `function(i) {
	this.selectedIndex = i;
	this.dispatchEvent(new Event('input', { bubbles: true }));
	this.dispatchEvent(new Event('change', { bubbles: true }));
	return this.selectedIndex === i;
}`

func (e *chromeElement) SelectIndex(ctx context.Context, index int) error {
	var ok bool
	if err := e.call(ctx, "select", jsSelectIndex, &ok, index); err != nil {
		return err
	}
	if !ok {
		return &Error{Op: "select", Cause: fmt.Errorf("option index %d not selectable", index)}
	}
	return nil
}

func (e *chromeElement) UploadFile(ctx context.Context, path string) error {
	if err := e.tab.run(ctx, chromedp.SetUploadFiles(e.ids(), []string{path}, chromedp.ByNodeID)); err != nil {
		return &Error{Op: "upload", Cause: classify(err)}
	}
	return nil
}
