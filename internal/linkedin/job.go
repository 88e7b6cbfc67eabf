package linkedin

import (
	"strings"

	"github.com/jonathan/apply-agent/internal/generation"
)

// Job is a posting found through search, enriched from its own page.
type Job struct {
	ID           string              `json:"job_id"`
	Title        string              `json:"title"`
	Company      string              `json:"company"`
	Location     string              `json:"location"`
	URL          string              `json:"job_url"`
	Category     generation.Category `json:"keyword_matched"`
	Description  string              `json:"description,omitempty"`
	Requirements []string            `json:"requirements,omitempty"`
	CompanyInfo  CompanyInfo         `json:"company_info,omitzero"`
	Details      map[string]string   `json:"job_details,omitempty"`
	Score        float64             `json:"relevance_score"`
}

// CompanyInfo is what a posting says about its employer.
type CompanyInfo struct {
	Size        string `json:"size,omitempty"`
	Industry    string `json:"industry,omitempty"`
	Description string `json:"description,omitempty"`
}

// key identifies a posting for de-duplication.
func (j Job) key() string {
	if j.ID != "" {
		return j.ID
	}
	return j.URL
}

// Posting converts the job into the input used for document generation.
// Scraped requirements and employer details are appended to the description.
func (j Job) Posting() generation.Job {
	var sb strings.Builder
	sb.WriteString(strings.TrimSpace(j.Description))
	if len(j.Requirements) > 0 {
		sb.WriteString("\n\nRequirements:\n")
		for _, r := range j.Requirements {
			sb.WriteString("- " + r + "\n")
		}
	}
	for _, kv := range [][2]string{
		{"Company size", j.CompanyInfo.Size},
		{"Industry", j.CompanyInfo.Industry},
		{"Seniority level", j.Details["seniority level"]},
		{"Employment type", j.Details["employment type"]},
	} {
		if kv[1] != "" {
			sb.WriteString("\n" + kv[0] + ": " + kv[1])
		}
	}
	return generation.Job{
		Title:       j.Title,
		Company:     j.Company,
		Description: strings.TrimSpace(sb.String()),
		URL:         j.URL,
	}
}
