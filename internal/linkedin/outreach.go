package linkedin

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/apply-agent/internal/generation"
	"github.com/jonathan/apply-agent/internal/profile"
	"go.uber.org/zap"
)

// maxPeopleResults caps how many search results are inspected per company.
const maxPeopleResults = 10

// hiringTitleKeywords mark people likely to influence a hire.
var hiringTitleKeywords = []string{
	"hiring manager", "recruiter", "talent acquisition", "hr manager",
	"senior manager", "director", "head of", "lead", "principal",
}

// Outreach record types.
const (
	RecordConnection = "connection_request"
	RecordFollowUp   = "follow_up_message"
)

// HiringManager is a person at the hiring company found through people search.
type HiringManager struct {
	Name       string `json:"name"`
	Title      string `json:"title"`
	ProfileURL string `json:"profile_url"`
	Company    string `json:"company"`
}

func (h HiringManager) contact() generation.Contact {
	return generation.Contact{Name: h.Name, Title: h.Title, Company: h.Company}
}

// OutreachOptions tunes how many people are contacted and how.
type OutreachOptions struct {
	// Personalized attaches a generated note to each connection request.
	Personalized bool
	// ConnectionProbability is the chance each found person is sent a request.
	ConnectionProbability float64
	// MaxContacts caps connection requests per posting.
	MaxContacts int
}

// DefaultOutreachOptions sends personalized requests to up to three people.
func DefaultOutreachOptions() OutreachOptions {
	return OutreachOptions{Personalized: true, ConnectionProbability: 0.7, MaxContacts: 3}
}

// OutreachRecord is one message sent.
type OutreachRecord struct {
	Person    HiringManager `json:"person"`
	JobTitle  string        `json:"job_title"`
	JobURL    string        `json:"job_url,omitempty"`
	Type      string        `json:"type"`
	Content   string        `json:"content,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// OutreachResult summarizes outreach for a single posting.
type OutreachResult struct {
	Success             bool   `json:"success"`
	Reason              string `json:"reason,omitempty"`
	HiringManagersFound int    `json:"hiring_managers_found"`
	ConnectionsSent     int    `json:"connections_sent"`
	MessagesSent        int    `json:"messages_sent,omitempty"`
}

// OutreachSummary totals everything sent by an Outreach.
type OutreachSummary struct {
	ConnectionsSent int              `json:"connections_sent"`
	MessagesSent    int              `json:"messages_sent"`
	TotalOutreach   int              `json:"total_outreach"`
	Connections     []OutreachRecord `json:"connections"`
	Messages        []OutreachRecord `json:"messages"`
}

// Outreach finds people at a hiring company and contacts them on the
// candidate's behalf.
type Outreach struct {
	client  *Client
	gen     *generation.Generator
	profile *profile.Profile
	opts    OutreachOptions
	log     *zap.Logger

	rand func() float64
	now  func() time.Time

	connections []OutreachRecord
	messages    []OutreachRecord
}

// NewOutreach creates an Outreach that writes notes with gen for candidate p.
func NewOutreach(client *Client, gen *generation.Generator, p *profile.Profile, opts OutreachOptions, log *zap.Logger) *Outreach {
	if log == nil {
		log = zap.NewNop()
	}
	if gen == nil {
		gen = generation.New(nil, log)
	}
	if opts.MaxContacts <= 0 {
		opts.MaxContacts = DefaultOutreachOptions().MaxContacts
	}
	return &Outreach{
		client:  client,
		gen:     gen,
		profile: p,
		opts:    opts,
		log:     log,
		rand:    rand.Float64,
		now:     time.Now,
	}
}

// PeopleSearchURL builds the people search address for a company and role.
func PeopleSearchURL(company, title string) string {
	q := url.Values{}
	q.Set("company", company)
	q.Set("title", title)
	return BaseURL + "/search/results/people/?" + q.Encode()
}

// ParseHiringManagers extracts people whose headline suggests they take part
// in hiring from a people search results page. Titles are lowercased.
func ParseHiringManagers(markup, pageURL, company string) ([]HiringManager, error) {
	doc, err := parseMarkup(markup)
	if err != nil {
		return nil, err
	}
	var people []HiringManager
	doc.Find(".entity-result__item").EachWithBreak(func(i int, card *goquery.Selection) bool {
		if i >= maxPeopleResults {
			return false
		}
		nameEl := card.Find(".entity-result__title-text").First()
		name := inlineText(nameEl.Find(`span[aria-hidden="true"]`).First())
		if name == "" {
			name = inlineText(nameEl)
		}
		title := strings.ToLower(inlineText(card.Find(".entity-result__primary-subtitle").First()))
		href, ok := nameEl.Find("a[href]").First().Attr("href")
		if !ok {
			href, ok = nameEl.Attr("href")
		}
		if name != "" && ok && containsAny(title, hiringTitleKeywords) {
			people = append(people, HiringManager{
				Name:       name,
				Title:      title,
				ProfileURL: resolveLink(pageURL, href),
				Company:    company,
			})
		}
		return true
	})
	return people, nil
}

// FindHiringManagers searches the company's people for hiring roles.
func (o *Outreach) FindHiringManagers(ctx context.Context, company, title string) ([]HiringManager, error) {
	o.log.Info("searching for hiring managers", zap.String("company", company))
	c := o.client
	if err := c.open(ctx, PeopleSearchURL(company, title)); err != nil {
		return nil, err
	}
	markup, err := c.page.Markup(ctx)
	if err != nil {
		return nil, err
	}
	people, err := ParseHiringManagers(markup, c.currentURL(ctx), company)
	if err != nil {
		return nil, err
	}
	o.log.Info("found potential hiring managers", zap.Int("count", len(people)))
	return people, nil
}

// SendConnectionRequest opens person's profile and sends a connection
// request, with a generated note when personalization is on and LinkedIn
// offers the option.
func (o *Outreach) SendConnectionRequest(ctx context.Context, person HiringManager, job Job) error {
	c := o.client
	log := o.log.With(zap.String("recipient", person.Name))
	if err := c.open(ctx, person.ProfileURL); err != nil {
		return err
	}
	if err := c.click(ctx, `button[aria-label*="Connect"]`, c.pacer.Delays.AfterType); err != nil {
		return fmt.Errorf("connect button not found for %s: %w", person.Name, err)
	}

	var note string
	if o.opts.Personalized {
		note = o.addNote(ctx, log, person, job)
	}

	if err := c.click(ctx, `button[aria-label="Send now"]`, c.pacer.Delays.Submit); err != nil {
		return fmt.Errorf("send button not found for %s: %w", person.Name, err)
	}
	o.connections = append(o.connections, o.record(person, job, RecordConnection, note))
	log.Info("connection request sent")
	return nil
}

// addNote returns the note typed into the request, or "" when none was added.
func (o *Outreach) addNote(ctx context.Context, log *zap.Logger, person HiringManager, job Job) string {
	c := o.client
	if err := c.click(ctx, `button[aria-label="Add a note"]`, c.pacer.Delays.AfterType); err != nil {
		log.Info("no note option available for this connection request")
		return ""
	}
	note := o.gen.ConnectionNote(ctx, o.profile, job.Posting(), person.contact())
	if err := c.typeInto(ctx, `textarea[name="message"]`, note); err != nil {
		log.Warn("failed to add connection note", zap.Error(err))
		return ""
	}
	return note
}

// SendFollowUp messages an existing connection about job.
func (o *Outreach) SendFollowUp(ctx context.Context, person HiringManager, job Job) error {
	c := o.client
	if err := c.open(ctx, person.ProfileURL); err != nil {
		return err
	}
	if err := c.click(ctx, `button[aria-label*="Message"]`, c.pacer.Delays.AfterType); err != nil {
		return fmt.Errorf("message button not found for %s: %w", person.Name, err)
	}
	message := o.gen.FollowUpMessage(ctx, o.profile, job.Posting(), person.contact())
	if err := c.typeInto(ctx, `textarea[placeholder*="Write a message"]`, message); err != nil {
		return fmt.Errorf("failed to write message to %s: %w", person.Name, err)
	}
	if err := c.click(ctx, `button[aria-label="Send"]`, c.pacer.Delays.Submit); err != nil {
		return fmt.Errorf("send button not found for %s: %w", person.Name, err)
	}
	o.messages = append(o.messages, o.record(person, job, RecordFollowUp, message))
	o.log.Info("follow-up message sent", zap.String("recipient", person.Name))
	return nil
}

// Execute finds hiring managers for job and sends connection requests to
// the first few, each with ConnectionProbability.
func (o *Outreach) Execute(ctx context.Context, job Job) OutreachResult {
	log := o.log.With(zap.String("company", job.Company), zap.String("job", job.Title))
	log.Info("starting outreach")

	people, err := o.FindHiringManagers(ctx, job.Company, job.Title)
	if err != nil {
		log.Warn("hiring manager search failed", zap.Error(err))
		return OutreachResult{Reason: err.Error()}
	}
	if len(people) == 0 {
		return OutreachResult{Reason: "no hiring managers found"}
	}

	sent := 0
	for _, person := range people[:min(len(people), o.opts.MaxContacts)] {
		if ctx.Err() != nil {
			break
		}
		if o.rand() >= o.opts.ConnectionProbability {
			continue
		}
		if err := o.SendConnectionRequest(ctx, person, job); err != nil {
			log.Warn("connection request failed", zap.String("recipient", person.Name), zap.Error(err))
			continue
		}
		sent++
	}
	return OutreachResult{Success: true, HiringManagersFound: len(people), ConnectionsSent: sent}
}

// FollowUp finds hiring managers for job and messages the first few. It is
// meant for people who already accepted a connection request.
func (o *Outreach) FollowUp(ctx context.Context, job Job) OutreachResult {
	log := o.log.With(zap.String("company", job.Company), zap.String("job", job.Title))

	people, err := o.FindHiringManagers(ctx, job.Company, job.Title)
	if err != nil {
		log.Warn("hiring manager search failed", zap.Error(err))
		return OutreachResult{Reason: err.Error()}
	}
	if len(people) == 0 {
		return OutreachResult{Reason: "no hiring managers found"}
	}

	sent := 0
	for _, person := range people[:min(len(people), o.opts.MaxContacts)] {
		if ctx.Err() != nil {
			break
		}
		if err := o.SendFollowUp(ctx, person, job); err != nil {
			log.Warn("follow-up message failed", zap.String("recipient", person.Name), zap.Error(err))
			continue
		}
		sent++
	}
	return OutreachResult{Success: true, HiringManagersFound: len(people), MessagesSent: sent}
}

// Summary totals the requests and messages sent so far.
func (o *Outreach) Summary() OutreachSummary {
	return OutreachSummary{
		ConnectionsSent: len(o.connections),
		MessagesSent:    len(o.messages),
		TotalOutreach:   len(o.connections) + len(o.messages),
		Connections:     o.connections,
		Messages:        o.messages,
	}
}

func (o *Outreach) record(person HiringManager, job Job, kind, content string) OutreachRecord {
	return OutreachRecord{
		Person:    person,
		JobTitle:  job.Title,
		JobURL:    job.URL,
		Type:      kind,
		Content:   content,
		Timestamp: o.now(),
	}
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
