package linkedin

import (
	"cmp"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/jonathan/apply-agent/internal/generation"
)

// Defaults for a search session.
var (
	DefaultKeywords  = []string{"data engineer", "data analyst", "ai engineer", "business intelligence developer", "ai prototyper"}
	DefaultLocations = []string{"Singapore", "Hong Kong"}
)

// Score weights.
const (
	topLocationScore   = 10.0
	locationStep       = 2.0
	minLocationScore   = 2.0
	categoryMatchBonus = 5.0
	maxJitter          = 2.0
)

// Ranker filters and orders postings for a session. Locations are in
// preference order: the first scores highest.
type Ranker struct {
	Locations []string
	// jitter breaks ties between otherwise equal postings.
	jitter func() float64
}

// NewRanker creates a Ranker. No locations means DefaultLocations.
func NewRanker(locations []string) *Ranker {
	if len(locations) == 0 {
		locations = DefaultLocations
	}
	return &Ranker{
		Locations: locations,
		jitter:    func() float64 { return rand.Float64() * maxJitter },
	}
}

// locationRank returns the index of the first preferred location job is in.
func (r *Ranker) locationRank(job Job) (int, bool) {
	loc := strings.ToLower(job.Location)
	for i, want := range r.Locations {
		if strings.Contains(loc, strings.ToLower(want)) {
			return i, true
		}
	}
	return 0, false
}

// IsSuitable reports whether job is in a preferred location, belongs to a
// known job family, and has not been applied to.
func (r *Ranker) IsSuitable(job Job, applied map[string]bool) bool {
	if applied[job.key()] {
		return false
	}
	if _, ok := r.locationRank(job); !ok {
		return false
	}
	return job.Category != generation.CategoryGeneral && job.Category != ""
}

// Score rates job: location preference, a bonus for a known job family, and
// a small random factor.
func (r *Ranker) Score(job Job) float64 {
	var score float64
	if i, ok := r.locationRank(job); ok {
		score += max(topLocationScore-locationStep*float64(i), minLocationScore)
	}
	if job.Category != generation.CategoryGeneral && job.Category != "" {
		score += categoryMatchBonus
	}
	return score + r.jitter()
}

// Sort scores every job and returns them best first. The input is not modified.
func (r *Ranker) Sort(jobs []Job) []Job {
	out := slices.Clone(jobs)
	for i := range out {
		out[i].Score = r.Score(out[i])
	}
	slices.SortStableFunc(out, func(a, b Job) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return out
}

// RemoveDuplicates keeps the first occurrence of each posting ID, or of each
// URL for postings without one.
func RemoveDuplicates(jobs []Job) []Job {
	seen := make(map[string]bool, len(jobs))
	out := make([]Job, 0, len(jobs))
	for _, job := range jobs {
		if seen[job.key()] {
			continue
		}
		seen[job.key()] = true
		out = append(out, job)
	}
	return out
}
