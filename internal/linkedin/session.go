package linkedin

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/jonathan/apply-agent/internal/apply"
	"github.com/jonathan/apply-agent/internal/artifact"
	"github.com/jonathan/apply-agent/internal/formfill"
	"github.com/jonathan/apply-agent/internal/generation"
	"github.com/jonathan/apply-agent/internal/profile"
	"go.uber.org/zap"
)

// Applier submits one application. apply.Flow is the production implementation.
type Applier interface {
	Apply(ctx context.Context, jobURL string, p *profile.Profile, resumePath, coverLetter string) (apply.Result, error)
}

// ResumeSource supplies the résumé file for a posting. release is called once
// the application is finished.
type ResumeSource func(ctx context.Context, job generation.Job) (path string, release func(), err error)

// StaticResume uploads the same file for every posting.
func StaticResume(path string) ResumeSource {
	return func(context.Context, generation.Job) (string, func(), error) {
		return path, func() {}, nil
	}
}

// GeneratedResumes writes a tailored résumé PDF under dir for each posting and
// deletes it after the application.
func GeneratedResumes(gen *generation.Generator, p *profile.Profile, dir string, log *zap.Logger) ResumeSource {
	return func(ctx context.Context, job generation.Job) (string, func(), error) {
		file, err := artifact.WriteResumePDF(dir, job.Company, job.Title, gen.Resume(ctx, p, job))
		if err != nil {
			return "", nil, err
		}
		return file.Path, func() {
			if err := file.Remove(); err != nil {
				log.Warn("failed to clean up resume artifact", zap.Error(err))
			}
		}, nil
	}
}

// SessionOptions bounds a search-and-apply session.
type SessionOptions struct {
	Keywords        []string
	Locations       []string
	MaxApplications int
	MaxPages        int
	MaxJobs         int
	// SkipDetails keeps card-level fields and never opens individual postings.
	SkipDetails bool
	// BreakInterval is how many applications pass between long breaks.
	BreakInterval int
	Break         formfill.Range
	// BetweenApplications follows every successful application.
	BetweenApplications formfill.Range
	BetweenSearches     formfill.Range
	// Idle is an occasional extra pause taken with IdleChance after an attempt.
	Idle       formfill.Range
	IdleChance float64
	// OutreachChance is the probability of contacting hiring managers after
	// a successful application. It has no effect without an Outreach.
	OutreachChance float64
	// DryRun searches and ranks without applying.
	DryRun bool
}

// DefaultSessionOptions returns the pacing used against the live site.
func DefaultSessionOptions() SessionOptions {
	return SessionOptions{
		Keywords:            DefaultKeywords,
		Locations:           DefaultLocations,
		MaxApplications:     50,
		MaxPages:            DefaultMaxPages,
		MaxJobs:             DefaultMaxJobs,
		BreakInterval:       15,
		Break:               formfill.Seconds(30, 120),
		BetweenApplications: formfill.Seconds(3, 8),
		BetweenSearches:     formfill.Seconds(5, 10),
		Idle:                formfill.Seconds(15, 30),
		IdleChance:          0.1,
		OutreachChance:      0.3,
	}
}

// Attempt is the record of one application.
type Attempt struct {
	Job        Job                       `json:"job"`
	Route      apply.Route               `json:"route,omitempty"`
	Submission formfill.SubmissionResult `json:"submission,omitempty"`
	Succeeded  bool                      `json:"succeeded"`
	Error      string                    `json:"error,omitempty"`
	Outreach   *OutreachResult           `json:"outreach,omitempty"`
}

// Summary is what a session did. It is written to disk by SaveResults.
type Summary struct {
	SessionDate       time.Time        `json:"session_date"`
	Duration          string           `json:"session_duration"`
	JobsFound         []Job            `json:"jobs_found"`
	JobsApplied       []Job            `json:"jobs_applied"`
	TotalApplications int              `json:"total_applications"`
	Attempts          []Attempt        `json:"attempts"`
	Outreach          *OutreachSummary `json:"outreach,omitempty"`
}

// Session searches every keyword in every location, ranks the postings and
// applies to the best of them.
type Session struct {
	client   *Client
	ranker   *Ranker
	applier  Applier
	gen      *generation.Generator
	outreach *Outreach
	opts     SessionOptions
	log      *zap.Logger

	rand func() float64
	now  func() time.Time
}

// NewSession creates a Session. Empty keyword or location lists and a zero
// application cap use the defaults. applier may be nil for dry runs.
func NewSession(client *Client, applier Applier, gen *generation.Generator, opts SessionOptions, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	if gen == nil {
		gen = generation.New(nil, log)
	}
	if len(opts.Keywords) == 0 {
		opts.Keywords = DefaultKeywords
	}
	if len(opts.Locations) == 0 {
		opts.Locations = DefaultLocations
	}
	if opts.MaxApplications <= 0 {
		opts.MaxApplications = DefaultSessionOptions().MaxApplications
	}
	return &Session{
		client:  client,
		ranker:  NewRanker(opts.Locations),
		applier: applier,
		gen:     gen,
		opts:    opts,
		log:     log,
		rand:    rand.Float64,
		now:     time.Now,
	}
}

// WithOutreach enables hiring manager outreach after successful applications.
func (s *Session) WithOutreach(o *Outreach) *Session {
	s.outreach = o
	return s
}

// Search logs in when creds are complete, then searches and ranks. Without
// credentials the public search pages are used.
func (s *Session) Search(ctx context.Context, creds Credentials) ([]Job, error) {
	if creds.Complete() {
		if err := s.client.Login(ctx, creds); err != nil {
			return nil, err
		}
	}

	var all []Job
	for _, location := range s.opts.Locations {
		for _, keyword := range s.opts.Keywords {
			jobs, err := s.client.SearchJobs(ctx, Query{
				Keyword:     keyword,
				Location:    location,
				MaxPages:    s.opts.MaxPages,
				MaxJobs:     s.opts.MaxJobs,
				SkipDetails: s.opts.SkipDetails,
			}, func(j Job) bool { return s.ranker.IsSuitable(j, nil) })
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				s.log.Warn("job search failed", zap.String("keyword", keyword), zap.String("location", location), zap.Error(err))
				continue
			}
			all = append(all, jobs...)
			if err := s.client.pacer.Pause(ctx, s.opts.BetweenSearches); err != nil {
				return nil, err
			}
		}
	}

	ranked := s.ranker.Sort(RemoveDuplicates(all))
	s.log.Info("found unique suitable jobs", zap.Int("count", len(ranked)))
	return ranked, nil
}

// Run searches, ranks and applies to at most MaxApplications postings. A
// cancelled context ends the session early with the work done so far.
func (s *Session) Run(ctx context.Context, creds Credentials, p *profile.Profile, resumes ResumeSource) (*Summary, error) {
	if !s.opts.DryRun {
		if !creds.Complete() {
			return nil, ErrMissingCredentials
		}
		if s.applier == nil || resumes == nil {
			return nil, errors.New("an applier and a resume source are required unless dry run is set")
		}
	}
	start := s.now()
	summary := &Summary{SessionDate: start}
	s.log.Info("starting LinkedIn job search session")

	jobs, err := s.Search(ctx, creds)
	if err != nil {
		return nil, err
	}
	summary.JobsFound = jobs

	if !s.opts.DryRun {
		s.applyAll(ctx, summary, p, resumes)
	}

	if s.outreach != nil {
		out := s.outreach.Summary()
		summary.Outreach = &out
	}
	summary.Duration = s.now().Sub(start).Round(time.Second).String()
	s.log.Info("session completed", zap.Int("applications", summary.TotalApplications))
	return summary, nil
}

func (s *Session) applyAll(ctx context.Context, summary *Summary, p *profile.Profile, resumes ResumeSource) {
	lastBreak := 0
	for _, job := range summary.JobsFound {
		if summary.TotalApplications >= s.opts.MaxApplications || ctx.Err() != nil {
			return
		}
		count := summary.TotalApplications
		if s.opts.BreakInterval > 0 && count > 0 && count%s.opts.BreakInterval == 0 && count != lastBreak {
			lastBreak = count
			s.log.Info("taking a break", zap.Int("applications", count))
			if s.client.pacer.Pause(ctx, s.opts.Break) != nil {
				return
			}
		}

		attempt := s.applyTo(ctx, job, p, resumes)
		if attempt.Succeeded {
			summary.TotalApplications++
			summary.JobsApplied = append(summary.JobsApplied, job)
			if s.outreach != nil && s.rand() < s.opts.OutreachChance {
				res := s.outreach.Execute(ctx, job)
				attempt.Outreach = &res
			}
			if s.client.pacer.Pause(ctx, s.opts.BetweenApplications) != nil {
				summary.Attempts = append(summary.Attempts, attempt)
				return
			}
		}
		summary.Attempts = append(summary.Attempts, attempt)

		if s.rand() < s.opts.IdleChance && s.client.pacer.Pause(ctx, s.opts.Idle) != nil {
			return
		}
	}
}

func (s *Session) applyTo(ctx context.Context, job Job, p *profile.Profile, resumes ResumeSource) Attempt {
	log := s.log.With(zap.String("job", job.Title), zap.String("company", job.Company))
	log.Info("applying to job")
	attempt := Attempt{Job: job}

	posting := job.Posting()
	path, release, err := resumes(ctx, posting)
	if err != nil {
		attempt.Error = fmt.Sprintf("resume: %v", err)
		log.Warn("failed to prepare resume", zap.Error(err))
		return attempt
	}
	defer release()

	res, err := s.applier.Apply(ctx, job.URL, p, path, s.gen.CoverLetter(ctx, p, posting))
	if err != nil {
		attempt.Error = err.Error()
		log.Warn("application failed", zap.Error(err))
		return attempt
	}
	attempt.Route = res.Route
	if res.Outcome != nil {
		attempt.Submission = res.Outcome.Submission
	}
	attempt.Succeeded = res.Succeeded()
	if attempt.Succeeded {
		log.Info("successfully applied")
	} else {
		log.Warn("application not completed", zap.String("route", string(res.Route)))
	}
	return attempt
}
