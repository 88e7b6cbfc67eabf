package linkedin

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/apply-agent/internal/generation"
)

// Scraping limits.
const (
	bodyTextLimit           = 5000
	companyDescriptionLimit = 500
	maxRequirements         = 20
	minRequirementLen       = 5
	maxRequirementLen       = 200
)

var (
	cardTitleSelectors    = []string{".job-search-card__title", ".base-search-card__title"}
	cardCompanySelectors  = []string{".job-search-card__subtitle", ".base-search-card__subtitle"}
	cardLocationSelectors = []string{".job-search-card__location"}

	descriptionSelectors = []string{
		".job-description",
		".description__text",
		".show-more-less-html__markup",
		"[data-job-description]",
	}
	requirementSelectors = []string{
		".job-criteria-item__text",
		".description__job-criteria-text",
		".job-criteria-item",
		`[data-test-id="job-criteria-item"]`,
	}
	criteriaSelectors = []string{".job-criteria-item", ".description__job-criteria-item"}

	topCardTitleSelectors   = []string{".top-card-layout__title", ".jobs-unified-top-card__job-title", ".topcard__title", "h1"}
	topCardCompanySelectors = []string{".topcard__org-name-link", ".jobs-unified-top-card__company-name", ".topcard__flavor"}
	topCardPlaceSelectors   = []string{".topcard__flavor--bullet", ".jobs-unified-top-card__bullet"}
)

// requirementPatterns pull requirement phrases out of free-text descriptions
// when the posting has no structured criteria.
var requirementPatterns = []*regexp.Regexp{
	regexp.MustCompile(`requirements?:?\s*([^.]*)`),
	regexp.MustCompile(`qualifications?:?\s*([^.]*)`),
	regexp.MustCompile(`skills?:?\s*([^.]*)`),
	regexp.MustCompile(`experience?:?\s*([^.]*)`),
	regexp.MustCompile(`knowledge of\s*([^.]*)`),
	regexp.MustCompile(`proficiency in\s*([^.]*)`),
	regexp.MustCompile(`familiarity with\s*([^.]*)`),
}

func parseMarkup(markup string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}
	return doc, nil
}

// ParseJobCards extracts the postings listed on a search results page. Cards
// without a title or link are skipped. Relative links resolve against pageURL.
func ParseJobCards(markup, pageURL string) ([]Job, error) {
	doc, err := parseMarkup(markup)
	if err != nil {
		return nil, err
	}
	var jobs []Job
	doc.Find(".job-search-card").Each(func(_ int, card *goquery.Selection) {
		title := firstText(card, cardTitleSelectors)
		href, _ := card.Find("a[href]").First().Attr("href")
		if title == "" || href == "" {
			return
		}
		link := resolveLink(pageURL, href)
		id := jobIDFromURN(card)
		if id == "" {
			id = JobIDFromURL(link)
		}
		jobs = append(jobs, Job{
			ID:       id,
			Title:    title,
			Company:  firstText(card, cardCompanySelectors),
			Location: firstText(card, cardLocationSelectors),
			URL:      link,
			Category: generation.CategorizeJob(title),
		})
	})
	return jobs, nil
}

// ApplyJobPage fills job with what its posting page shows: description,
// requirements, company information and the criteria list. Title, company and
// location are taken from the page only when job lacks them.
func ApplyJobPage(job Job, markup string) (Job, error) {
	doc, err := parseMarkup(markup)
	if err != nil {
		return job, err
	}
	if job.Title == "" {
		job.Title = firstText(doc.Selection, topCardTitleSelectors)
		job.Category = generation.CategorizeJob(job.Title)
	}
	if job.Company == "" {
		job.Company = firstText(doc.Selection, topCardCompanySelectors)
	}
	if job.Location == "" {
		job.Location = firstText(doc.Selection, topCardPlaceSelectors)
	}
	job.Description = ExtractDescription(doc)
	job.Requirements = ExtractRequirements(doc)
	job.CompanyInfo = ExtractCompanyInfo(doc)
	job.Details = ExtractJobDetails(doc)
	return job, nil
}

// ExtractDescription returns the posting text, or the start of the page body
// when no description container is present.
func ExtractDescription(doc *goquery.Document) string {
	for _, selector := range descriptionSelectors {
		if text := blockText(doc.Find(selector).First()); text != "" {
			return text
		}
	}
	return truncate(blockText(doc.Find("body")), bodyTextLimit)
}

// ExtractRequirements returns up to 20 requirement phrases. Structured
// criteria win; otherwise phrases are mined from the description text.
func ExtractRequirements(doc *goquery.Document) []string {
	var reqs []string
	for _, selector := range requirementSelectors {
		doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			if text := inlineText(s); len(text) > 3 {
				reqs = append(reqs, text)
			}
		})
		if len(reqs) > 0 {
			return capList(reqs, maxRequirements)
		}
	}

	desc := doc.Find(".job-description, .description__text").First()
	if desc.Length() == 0 {
		return nil
	}
	text := strings.ToLower(blockText(desc))
	seen := make(map[string]bool)
	for _, re := range requirementPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			phrase := strings.TrimSpace(m[1])
			if len(phrase) <= minRequirementLen || len(phrase) >= maxRequirementLen || seen[phrase] {
				continue
			}
			seen[phrase] = true
			reqs = append(reqs, phrase)
		}
	}
	return capList(reqs, maxRequirements)
}

// ExtractCompanyInfo reads company size, industry and the about text.
func ExtractCompanyInfo(doc *goquery.Document) CompanyInfo {
	return CompanyInfo{
		Size:        inlineText(doc.Find(`[data-test-id="company-size"]`).First()),
		Industry:    inlineText(doc.Find(`[data-test-id="company-industry"]`).First()),
		Description: truncate(blockText(doc.Find(".company-description, .about-us__description").First()), companyDescriptionLimit),
	}
}

// ExtractJobDetails maps each criteria label, lowercased, to its value, e.g.
// "seniority level" to "Mid-Senior level".
func ExtractJobDetails(doc *goquery.Document) map[string]string {
	details := make(map[string]string)
	for _, selector := range criteriaSelectors {
		doc.Find(selector).Each(func(_ int, item *goquery.Selection) {
			label := strings.ToLower(inlineText(item.Find(".job-criteria-item__label, .description__job-criteria-subheader").First()))
			value := inlineText(item.Find(".job-criteria-item__text, .description__job-criteria-text").First())
			if label != "" && value != "" {
				details[label] = value
			}
		})
	}
	if len(details) == 0 {
		return nil
	}
	return details
}

// JobIDFromURL returns the numeric posting ID from a job link such as
// /jobs/view/4012345678/ or /jobs/view/data-engineer-at-acme-4012345678.
func JobIDFromURL(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	if id := u.Query().Get("currentJobId"); id != "" {
		return id
	}
	segments := strings.FieldsFunc(u.Path, func(r rune) bool { return r == '/' })
	if len(segments) == 0 {
		return ""
	}
	last := segments[len(segments)-1]
	if i := strings.LastIndexByte(last, '-'); i >= 0 && isDigits(last[i+1:]) {
		return last[i+1:]
	}
	return last
}

func jobIDFromURN(card *goquery.Selection) string {
	urn, ok := card.Attr("data-entity-urn")
	if !ok {
		urn, ok = card.Find("[data-entity-urn]").First().Attr("data-entity-urn")
	}
	if !ok {
		return ""
	}
	if i := strings.LastIndexByte(urn, ':'); i >= 0 {
		return urn[i+1:]
	}
	return urn
}

func firstText(s *goquery.Selection, selectors []string) string {
	for _, selector := range selectors {
		if text := inlineText(s.Find(selector).First()); text != "" {
			return text
		}
	}
	return ""
}

// inlineText collapses all whitespace to single spaces.
func inlineText(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}

// blockText keeps line structure but drops blank lines and indentation.
func blockText(s *goquery.Selection) string {
	var lines []string
	for _, line := range strings.Split(s.Text(), "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func resolveLink(pageURL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	base, err := url.Parse(pageURL)
	if err != nil || base.Scheme == "" {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func capList(items []string, limit int) []string {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
