package generation

import (
	"fmt"
	"strings"

	"github.com/jonathan/apply-agent/internal/profile"
)

// FallbackResume builds a plain résumé from the profile alone.
func FallbackResume(p *profile.Profile, job Job) string {
	if p == nil {
		p = &profile.Profile{}
	}
	var sb strings.Builder

	sb.WriteString(orPlaceholder(p.Name, "[Your Name]") + "\n")
	contact := []string{
		orPlaceholder(p.Location, "[Your Location]"),
		orPlaceholder(p.Email, "[Your Email]"),
		orPlaceholder(p.Phone, "[Your Phone]"),
	}
	sb.WriteString(strings.Join(contact, " | ") + "\n")

	section := func(title, body string) {
		if strings.TrimSpace(body) == "" {
			return
		}
		fmt.Fprintf(&sb, "\n%s\n%s\n", title, body)
	}

	section("PROFESSIONAL SUMMARY", fmt.Sprintf(
		"Experienced %s applying for the %s role. Focused on solving business problems with data and technology.",
		orPlaceholder(p.CurrentRole, "data professional"),
		orPlaceholder(job.Title, "advertised"),
	))
	section("SKILLS", strings.Join(RelevantSkills(p, CategorizeJob(job.Title)), ", "))
	section("EXPERIENCE", formatExperience(p))
	section("EDUCATION", formatEducation(p))
	section("CERTIFICATIONS", strings.Join(p.Certifications, "\n"))

	return sb.String()
}

// FallbackCoverLetter builds a short generic letter addressed to job.
func FallbackCoverLetter(p *profile.Profile, job Job) string {
	if p == nil {
		p = &profile.Profile{}
	}
	company := orPlaceholder(job.Company, "your company")
	return fmt.Sprintf(`Dear Hiring Manager,

I am writing to express my strong interest in the %s position at %s. With my background as %s, I am excited about the opportunity to contribute to your team.

I look forward to discussing how my skills and experience can benefit %s.

Best regards,
%s`,
		orPlaceholder(job.Title, "advertised"),
		company,
		article(orPlaceholder(p.CurrentRole, "data professional")),
		company,
		orPlaceholder(p.Name, "[Your Name]"),
	)
}

// article prefixes role with "a" or "an".
func article(role string) string {
	if role == "" {
		return role
	}
	switch strings.ToLower(role[:1]) {
	case "a", "e", "i", "o", "u":
		return "an " + role
	default:
		return "a " + role
	}
}
