package linkedin

import (
	"context"
	"net/url"

	"go.uber.org/zap"
)

// Search limits used when a Query leaves them at zero.
const (
	DefaultMaxPages = 5
	DefaultMaxJobs  = 20
)

// experienceFilter restricts results to entry level, associate and
// mid-senior postings.
const experienceFilter = "2,3,4"

// Query is one keyword and location search.
type Query struct {
	Keyword  string
	Location string
	MaxPages int
	MaxJobs  int
	// SkipDetails keeps the card-level fields only and never opens postings.
	SkipDetails bool
}

func (q Query) limits() (pages, jobs int) {
	pages, jobs = q.MaxPages, q.MaxJobs
	if pages <= 0 {
		pages = DefaultMaxPages
	}
	if jobs <= 0 {
		jobs = DefaultMaxJobs
	}
	return pages, jobs
}

// SearchURL builds the job search address for keyword and location.
func SearchURL(keyword, location string) string {
	q := url.Values{}
	q.Set("keywords", keyword)
	q.Set("location", location)
	q.Set("f_E", experienceFilter)
	return BaseURL + "/jobs/search/?" + q.Encode()
}

// SearchJobs walks the result pages for q and returns the postings keep
// accepts, each enriched from its own page unless q.SkipDetails is set. A nil
// keep accepts every posting. Only failing to open the first results page is
// an error; later failures end the walk with what was collected.
func (c *Client) SearchJobs(ctx context.Context, q Query, keep func(Job) bool) ([]Job, error) {
	maxPages, maxJobs := q.limits()
	log := c.log.With(zap.String("keyword", q.Keyword), zap.String("location", q.Location))
	log.Info("searching for jobs")

	if err := c.open(ctx, SearchURL(q.Keyword, q.Location)); err != nil {
		return nil, err
	}

	var jobs []Job
	seen := make(map[string]bool)
	for page := 1; page <= maxPages && len(jobs) < maxJobs; page++ {
		markup, err := c.page.Markup(ctx)
		if err != nil {
			log.Warn("failed to read results page", zap.Int("page", page), zap.Error(err))
			break
		}
		cards, err := ParseJobCards(markup, c.currentURL(ctx))
		if err != nil {
			log.Warn("failed to parse results page", zap.Int("page", page), zap.Error(err))
			break
		}
		for _, job := range cards {
			if len(jobs) >= maxJobs {
				break
			}
			if seen[job.key()] || (keep != nil && !keep(job)) {
				continue
			}
			seen[job.key()] = true
			jobs = append(jobs, job)
		}
		if page == maxPages || len(jobs) >= maxJobs || !c.nextPage(ctx) {
			break
		}
	}

	if !q.SkipDetails {
		for i := range jobs {
			if ctx.Err() != nil {
				break
			}
			detailed, err := c.JobDescription(ctx, jobs[i])
			if err != nil {
				log.Warn("failed to extract job description", zap.String("job_url", jobs[i].URL), zap.Error(err))
				continue
			}
			jobs[i] = detailed
		}
	}

	log.Info("search finished", zap.Int("jobs", len(jobs)))
	return jobs, nil
}

// nextPage advances to the following results page when the pager allows it.
func (c *Client) nextPage(ctx context.Context) bool {
	if err := c.click(ctx, `button[aria-label="Next"]`, c.pacer.Delays.PageLoad); err != nil {
		c.log.Debug("no further results page", zap.Error(err))
		return false
	}
	return true
}

// JobDescription opens job's page and fills in its description, requirements,
// company information and criteria. On failure job is returned unchanged with
// the error.
func (c *Client) JobDescription(ctx context.Context, job Job) (Job, error) {
	log := c.log.With(zap.String("job_url", job.URL))
	if err := c.open(ctx, job.URL); err != nil {
		return job, err
	}
	markup, err := c.page.Markup(ctx)
	if err != nil {
		return job, err
	}
	detailed, err := ApplyJobPage(job, markup)
	if err != nil {
		return job, err
	}
	log.Info("extracted job description",
		zap.Int("description_chars", len(detailed.Description)),
		zap.Int("requirements", len(detailed.Requirements)))
	return detailed, nil
}
