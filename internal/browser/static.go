// Package browser - static.go provides an in-memory Page over saved markup.
package browser

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// Static is a Page backed by a goquery document. Form mutations (typing,
// selecting, uploading) are applied to the document so the rendered markup
// reflects them. Clicking an element that matches a registered transition
// replaces the document, which invalidates every previously returned Element.
type Static struct {
	mu          sync.Mutex
	url         string
	doc         *goquery.Document
	gen         int
	routes      map[string]string
	transitions []transition

	// Uploaded records every path handed to UploadFile.
	Uploaded []string
	// Clicked counts successful clicks.
	Clicked int
}

type transition struct {
	selector cascadia.Selector
	url      string
	markup   string
}

// NewStatic parses markup as the document loaded at url.
func NewStatic(url, markup string) (*Static, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return &Static{
		url:    url,
		doc:    doc,
		routes: make(map[string]string),
	}, nil
}

// AddRoute registers markup served when Navigate is called with url.
func (s *Static) AddRoute(url, markup string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[url] = markup
}

// OnClick registers the document that replaces the current one when an element
// matching selector is clicked. An empty url keeps the current address.
func (s *Static) OnClick(selector, url, markup string) error {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return fmt.Errorf("invalid selector %q: %w", selector, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transitions = append(s.transitions, transition{selector: sel, url: url, markup: markup})
	return nil
}

// Navigate loads a registered route.
func (s *Static) Navigate(_ context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	markup, ok := s.routes[url]
	if !ok {
		return &Error{Op: "navigate", Selector: url, Cause: ErrNotFound}
	}
	return s.load(url, markup)
}

// load replaces the document. Caller holds mu.
func (s *Static) load(url, markup string) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return &Error{Op: "load", Selector: url, Cause: err}
	}
	if url != "" {
		s.url = url
	}
	s.doc = doc
	s.gen++
	return nil
}

func (s *Static) URL(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.url, nil
}

func (s *Static) Markup(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	html, err := s.doc.Html()
	if err != nil {
		return "", &Error{Op: "markup", Cause: err}
	}
	return html, nil
}

func (s *Static) FindElements(_ context.Context, selector string) ([]Element, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, &Error{Op: "find", Selector: selector, Cause: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Element
	s.doc.FindMatcher(sel).Each(func(_ int, node *goquery.Selection) {
		out = append(out, &staticElement{page: s, sel: node, gen: s.gen})
	})
	return out, nil
}

func (s *Static) FindElement(ctx context.Context, selector string) (Element, error) {
	return FindFirst(ctx, s, selector)
}

type staticElement struct {
	page *Static
	sel  *goquery.Selection
	gen  int
}

// live locks the page and reports whether the element still belongs to it.
// On success the caller must unlock page.mu.
func (e *staticElement) live(op string) error {
	e.page.mu.Lock()
	if e.gen != e.page.gen {
		e.page.mu.Unlock()
		return &Error{Op: op, Cause: ErrStale}
	}
	return nil
}

func (e *staticElement) Key() string {
	return fmt.Sprintf("%d:%p", e.gen, e.sel.Get(0))
}

func (e *staticElement) TagName() string {
	return strings.ToLower(goquery.NodeName(e.sel))
}

func (e *staticElement) IsVisible(_ context.Context) (bool, error) {
	if err := e.live("visible"); err != nil {
		return false, err
	}
	defer e.page.mu.Unlock()

	if t, _ := e.sel.Attr("type"); strings.EqualFold(t, "hidden") {
		return false, nil
	}
	for node := e.sel; node.Length() > 0; node = node.Parent() {
		if _, hidden := node.Attr("hidden"); hidden {
			return false, nil
		}
		style, _ := node.Attr("style")
		style = strings.ReplaceAll(strings.ToLower(style), " ", "")
		if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
			return false, nil
		}
	}
	return true, nil
}

func (e *staticElement) IsEnabled(_ context.Context) (bool, error) {
	if err := e.live("enabled"); err != nil {
		return false, err
	}
	defer e.page.mu.Unlock()
	_, disabled := e.sel.Attr("disabled")
	return !disabled, nil
}

func (e *staticElement) Attribute(_ context.Context, name string) (string, bool, error) {
	if err := e.live("attribute"); err != nil {
		return "", false, err
	}
	defer e.page.mu.Unlock()

	if name == "value" {
		switch e.TagName() {
		case "textarea":
			return e.sel.Text(), true, nil
		case "select":
			opt := e.sel.Find("option[selected]").First()
			if opt.Length() == 0 {
				opt = e.sel.Find("option").First()
			}
			if opt.Length() == 0 {
				return "", false, nil
			}
			if v, ok := opt.Attr("value"); ok {
				return v, true, nil
			}
			return strings.TrimSpace(opt.Text()), true, nil
		}
	}
	v, ok := e.sel.Attr(name)
	return v, ok, nil
}

func (e *staticElement) Text(_ context.Context) (string, error) {
	if err := e.live("text"); err != nil {
		return "", err
	}
	defer e.page.mu.Unlock()
	return strings.TrimSpace(e.sel.Text()), nil
}

func (e *staticElement) Clear(_ context.Context) error {
	if err := e.live("clear"); err != nil {
		return err
	}
	defer e.page.mu.Unlock()
	if e.TagName() == "textarea" {
		e.sel.SetText("")
		return nil
	}
	e.sel.SetAttr("value", "")
	return nil
}

func (e *staticElement) SendKeys(_ context.Context, text string) error {
	if err := e.live("send keys"); err != nil {
		return err
	}
	defer e.page.mu.Unlock()
	if e.TagName() == "textarea" {
		e.sel.SetText(e.sel.Text() + text)
		return nil
	}
	current, _ := e.sel.Attr("value")
	e.sel.SetAttr("value", current+text)
	return nil
}

func (e *staticElement) Click(_ context.Context) error {
	if err := e.live("click"); err != nil {
		return err
	}
	defer e.page.mu.Unlock()
	e.page.Clicked++
	node := e.sel.Get(0)
	for _, t := range e.page.transitions {
		if t.selector.Match(node) {
			return e.page.load(t.url, t.markup)
		}
	}
	return nil
}

func (e *staticElement) Options(_ context.Context) ([]string, error) {
	if err := e.live("options"); err != nil {
		return nil, err
	}
	defer e.page.mu.Unlock()
	var texts []string
	e.sel.Find("option").Each(func(_ int, opt *goquery.Selection) {
		texts = append(texts, strings.TrimSpace(opt.Text()))
	})
	return texts, nil
}

func (e *staticElement) SelectIndex(_ context.Context, index int) error {
	if err := e.live("select"); err != nil {
		return err
	}
	defer e.page.mu.Unlock()
	opts := e.sel.Find("option")
	if index < 0 || index >= opts.Length() {
		return &Error{Op: "select", Cause: fmt.Errorf("option index %d out of range (%d options)", index, opts.Length())}
	}
	opts.RemoveAttr("selected")
	opts.Eq(index).SetAttr("selected", "selected")
	return nil
}

func (e *staticElement) UploadFile(_ context.Context, path string) error {
	if err := e.live("upload"); err != nil {
		return err
	}
	defer e.page.mu.Unlock()
	if t, _ := e.sel.Attr("type"); !strings.EqualFold(t, "file") {
		return &Error{Op: "upload", Cause: fmt.Errorf("element is not a file input")}
	}
	e.sel.SetAttr("value", filepath.Base(path))
	e.page.Uploaded = append(e.page.Uploaded, path)
	return nil
}
