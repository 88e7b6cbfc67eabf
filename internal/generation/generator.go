package generation

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/apply-agent/internal/llm"
	"github.com/jonathan/apply-agent/internal/logger"
	"github.com/jonathan/apply-agent/internal/profile"
	"github.com/jonathan/apply-agent/internal/prompts"
	"go.uber.org/zap"
)

var generationPrompts = prompts.MustLoad("generation.json")

// Description limits, in runes, applied before prompting.
const (
	resumeDescriptionLimit = 2000
	letterDescriptionLimit = 1500
)

// Job is the posting an application targets.
type Job struct {
	Title       string
	Company     string
	Description string
	URL         string
}

// Generator writes application documents with an LLM client.
type Generator struct {
	client llm.Client
	log    *zap.Logger
}

// New creates a Generator. A nil client always produces the fallback texts.
func New(client llm.Client, log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{client: client, log: log}
}

// Resume returns a résumé tailored to job.
func (g *Generator) Resume(ctx context.Context, p *profile.Profile, job Job) string {
	if p == nil {
		p = &profile.Profile{}
	}
	category := CategorizeJob(job.Title)
	log := g.log.With(zap.String(logger.FieldJob, job.Title), zap.String("category", string(category)))

	prompt, err := generationPrompts.Render("resume", map[string]string{
		"Title":          job.Title,
		"Company":        job.Company,
		"Requirements":   Requirements(category),
		"Description":    describe(job.Description, resumeDescriptionLimit),
		"Name":           orPlaceholder(p.Name, "[Your Name]"),
		"CurrentRole":    orPlaceholder(p.CurrentRole, "[Current Position]"),
		"Years":          orPlaceholder(p.YearsExperience, "[X]"),
		"Location":       orPlaceholder(p.Location, "[Your Location]"),
		"Skills":         strings.Join(RelevantSkills(p, category), ", "),
		"Experience":     formatExperience(p),
		"Education":      formatEducation(p),
		"Certifications": strings.Join(p.Certifications, ", "),
	})
	if err != nil {
		log.Error("failed to build resume prompt", zap.Error(err))
		return FallbackResume(p, job)
	}

	text, err := g.generate(ctx, llm.Request{
		System: systemPrompt("resume"),
		Prompt: prompt,
		Tier:   llm.TierAdvanced,
	})
	if err != nil {
		log.Warn("failed to generate customized resume, using fallback", zap.Error(err))
		return FallbackResume(p, job)
	}
	log.Info("generated customized resume")
	return text
}

// CoverLetter returns a cover letter for job.
func (g *Generator) CoverLetter(ctx context.Context, p *profile.Profile, job Job) string {
	if p == nil {
		p = &profile.Profile{}
	}
	category := CategorizeJob(job.Title)
	log := g.log.With(zap.String(logger.FieldJob, job.Title))

	prompt, err := generationPrompts.Render("cover-letter", map[string]string{
		"Title":       job.Title,
		"Company":     job.Company,
		"Description": describe(job.Description, letterDescriptionLimit),
		"Name":        orPlaceholder(p.Name, "[Your Name]"),
		"CurrentRole": orPlaceholder(p.CurrentRole, "[Current Position]"),
		"Skills":      strings.Join(RelevantSkills(p, category), ", "),
		"Notes":       orPlaceholder(p.PersonalNotes, "None provided"),
	})
	if err != nil {
		log.Error("failed to build cover letter prompt", zap.Error(err))
		return FallbackCoverLetter(p, job)
	}

	text, err := g.generate(ctx, llm.Request{
		System: systemPrompt("cover-letter"),
		Prompt: prompt,
		Tier:   llm.TierStandard,
	})
	if err != nil {
		log.Warn("failed to generate cover letter, using fallback", zap.Error(err))
		return FallbackCoverLetter(p, job)
	}
	log.Info("generated cover letter")
	return text
}

func systemPrompt(task string) string {
	if p, err := generationPrompts.Get(task); err == nil {
		return p.System
	}
	return ""
}

func (g *Generator) generate(ctx context.Context, req llm.Request) (string, error) {
	if g.client == nil {
		return "", fmt.Errorf("no LLM client configured")
	}
	text, err := g.client.Generate(ctx, req)
	if err != nil {
		return "", err
	}
	text = llm.CleanText(text)
	if text == "" {
		return "", fmt.Errorf("model returned empty text")
	}
	return text, nil
}

func describe(description string, limit int) string {
	description = strings.TrimSpace(description)
	if description == "" {
		return "No detailed description available"
	}
	runes := []rune(description)
	if len(runes) > limit {
		return string(runes[:limit])
	}
	return description
}

func orPlaceholder(v, placeholder string) string {
	if strings.TrimSpace(v) == "" {
		return placeholder
	}
	return v
}

func formatExperience(p *profile.Profile) string {
	var sb strings.Builder
	for _, exp := range p.Experience {
		fmt.Fprintf(&sb, "%s at %s", exp.Position, exp.Company)
		if exp.Period != "" {
			fmt.Fprintf(&sb, " (%s)", exp.Period)
		}
		if exp.Details != "" {
			fmt.Fprintf(&sb, ": %s", exp.Details)
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatEducation(p *profile.Profile) string {
	var lines []string
	for _, edu := range p.Education {
		line := edu.Degree
		if edu.Institution != "" {
			line += " from " + edu.Institution
		}
		if edu.Year != "" {
			line += " (" + edu.Year + ")"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
