// Package profile - markdown.go parses the hand-written profile.md format.
package profile

import (
	"regexp"
	"strings"
)

var (
	experienceHeading = regexp.MustCompile(`^### \[(.*?)\] - \[(.*?)\] \((.*?)\)`)
	bracketValue      = regexp.MustCompile(`^\[(.*?)\]$`)
)

// personal fields are written as "**Label**: [value]".
var personalFields = map[string]func(*Profile, string){
	"Name":                func(p *Profile, v string) { p.Name = v },
	"Email":               func(p *Profile, v string) { p.Email = v },
	"Phone":               func(p *Profile, v string) { p.Phone = v },
	"Location":            func(p *Profile, v string) { p.Location = v },
	"Current Role":        func(p *Profile, v string) { p.CurrentRole = v },
	"Years of Experience": func(p *Profile, v string) { p.YearsExperience = v },
}

// ParseMarkdown extracts a Profile from markdown. Unrecognized content is
// ignored; a document with none of the expected sections yields an empty Profile.
func ParseMarkdown(content string) *Profile {
	p := &Profile{Skills: make(map[string][]string)}
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")

	for label, set := range personalFields {
		prefix := "**" + label + "**: ["
		for _, line := range lines {
			line = strings.TrimLeft(strings.TrimSpace(line), "- ")
			if strings.HasPrefix(line, prefix) {
				if m := bracketValue.FindStringSubmatch(strings.TrimPrefix(line, "**"+label+"**: ")); m != nil {
					set(p, m[1])
				}
				break
			}
		}
	}

	for _, cat := range SkillCategories {
		if body, ok := section(lines, "### "+cat, "###"); ok {
			if skills := extractSkills(body); len(skills) > 0 {
				p.Skills[cat] = skills
			}
		}
	}

	for i, line := range lines {
		m := experienceHeading.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		p.Experience = append(p.Experience, Experience{
			Company:  m[1],
			Position: m[2],
			Period:   m[3],
			Details:  strings.TrimSpace(strings.Join(until(lines[i+1:], "##"), "\n")),
		})
	}

	if body, ok := section(lines, "## Education", "## "); ok {
		p.Education = extractEducation(body)
	}
	if body, ok := section(lines, "## Certifications", "## "); ok {
		for _, line := range body {
			if strings.HasPrefix(line, "- ") && strings.Contains(line, " - ") {
				cert := strings.TrimSpace(line[2:])
				if cert != "" && !strings.HasPrefix(cert, "[") {
					p.Certifications = append(p.Certifications, cert)
				}
			}
		}
	}
	if body, ok := section(lines, "### Personal Notes for Cover Letters", "##"); ok {
		p.PersonalNotes = strings.TrimSpace(strings.Join(body, "\n"))
	}

	if len(p.Skills) == 0 {
		p.Skills = nil
	}
	return p
}

// section returns the lines after the first line starting with heading, up to
// the next line starting with stop.
func section(lines []string, heading, stop string) ([]string, bool) {
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), heading) {
			return until(lines[i+1:], stop), true
		}
	}
	return nil, false
}

func until(lines []string, stop string) []string {
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), stop) {
			return lines[:i]
		}
	}
	return lines
}

// extractSkills reads "- **Label**: value" lines, skipping template placeholders.
func extractSkills(lines []string) []string {
	var skills []string
	for _, line := range lines {
		if !strings.Contains(line, "**") || !strings.Contains(line, ":") {
			continue
		}
		parts := strings.SplitN(line, ":", 2)
		skill := strings.TrimSpace(parts[1])
		if skill == "" || strings.HasPrefix(skill, "[") {
			continue
		}
		skills = append(skills, skill)
	}
	return skills
}

func extractEducation(lines []string) []Education {
	var out []Education
	var cur *Education
	value := func(line string) string {
		return strings.TrimSpace(strings.SplitN(line, ":", 2)[1])
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "- **Degree**:"):
			if cur != nil {
				out = append(out, *cur)
			}
			cur = &Education{Degree: value(line)}
		case cur == nil:
		case strings.HasPrefix(line, "- **Institution**:"):
			cur.Institution = value(line)
		case strings.HasPrefix(line, "- **Year**:"):
			cur.Year = value(line)
		}
	}
	if cur != nil {
		out = append(out, *cur)
	}
	return out
}
