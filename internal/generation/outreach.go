package generation

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/apply-agent/internal/llm"
	"github.com/jonathan/apply-agent/internal/logger"
	"github.com/jonathan/apply-agent/internal/profile"
	"go.uber.org/zap"
)

// ConnectionNoteLimit is the longest note LinkedIn accepts on a connection request.
const ConnectionNoteLimit = 300

// Contact is the person an outreach message is addressed to.
type Contact struct {
	Name    string
	Title   string
	Company string
}

// ConnectionNote writes the note attached to a connection request. The result
// never exceeds ConnectionNoteLimit runes.
func (g *Generator) ConnectionNote(ctx context.Context, p *profile.Profile, job Job, c Contact) string {
	text := g.outreach(ctx, "connection-note", p, job, c)
	if text == "" {
		text = FallbackConnectionNote(job, c)
	}
	return truncateRunes(text, ConnectionNoteLimit)
}

// FollowUpMessage writes the message sent once a connection is accepted.
func (g *Generator) FollowUpMessage(ctx context.Context, p *profile.Profile, job Job, c Contact) string {
	if text := g.outreach(ctx, "follow-up", p, job, c); text != "" {
		return text
	}
	return FallbackFollowUp(job, c)
}

// outreach returns the generated text for task, or "" when the caller should
// fall back.
func (g *Generator) outreach(ctx context.Context, task string, p *profile.Profile, job Job, c Contact) string {
	if p == nil {
		p = &profile.Profile{}
	}
	log := g.log.With(zap.String(logger.FieldJob, job.Title), zap.String("recipient", c.Name))

	prompt, err := generationPrompts.Render(task, map[string]string{
		"Recipient":      orPlaceholder(c.Name, "the recipient"),
		"RecipientTitle": orPlaceholder(c.Title, "team member"),
		"Company":        orPlaceholder(firstNonEmpty(c.Company, job.Company), "the company"),
		"Title":          orPlaceholder(job.Title, "open"),
		"Name":           orPlaceholder(p.Name, "[Your Name]"),
		"CurrentRole":    orPlaceholder(p.CurrentRole, "data professional"),
		"Skills":         strings.Join(RelevantSkills(p, CategorizeJob(job.Title)), ", "),
		"Limit":          strconv.Itoa(ConnectionNoteLimit),
	})
	if err != nil {
		log.Error("failed to build outreach prompt", zap.String("task", task), zap.Error(err))
		return ""
	}

	text, err := g.generate(ctx, llm.Request{
		System: systemPrompt(task),
		Prompt: prompt,
		Tier:   llm.TierLite,
	})
	if err != nil {
		log.Warn("failed to generate outreach text, using fallback", zap.String("task", task), zap.Error(err))
		return ""
	}
	return strings.Trim(text, "\"")
}

// FallbackConnectionNote is a short generic note naming the role.
func FallbackConnectionNote(job Job, c Contact) string {
	return fmt.Sprintf("Hi %s, I'm interested in the %s position at %s. Would love to connect and learn more about your team!",
		orPlaceholder(c.Name, "there"),
		orPlaceholder(job.Title, "open"),
		orPlaceholder(firstNonEmpty(job.Company, c.Company), "your company"),
	)
}

// FallbackFollowUp is a generic thank-you message asking for a conversation.
func FallbackFollowUp(job Job, c Contact) string {
	company := orPlaceholder(firstNonEmpty(job.Company, c.Company), "your company")
	return fmt.Sprintf(`Hi %s, thank you for connecting!

I'm very interested in the %s position at %s. I'd love to learn more about the role and your team's work.

Would you be open to a brief conversation about the position? I'd like to understand how I could contribute.

Thanks for your time!`,
		orPlaceholder(c.Name, "there"),
		orPlaceholder(job.Title, "open"),
		company,
	)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimSpace(string(runes[:limit]))
}
