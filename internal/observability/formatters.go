// Package observability formats detection and submission results for the terminal.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/jonathan/apply-agent/internal/apply"
	"github.com/jonathan/apply-agent/internal/ats"
	"github.com/jonathan/apply-agent/internal/formfill"
	"github.com/jonathan/apply-agent/internal/linkedin"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of controls listed per field kind
	maxItemsToShow = 3
)

// Printer handles formatted command output.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(line))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad fits line to the box interior, truncating long lines.
func pad(line string) string {
	width := boxWidth - 4
	if utf8.RuneCountInString(line) > width {
		line = string([]rune(line)[:width-3]) + "..."
	}
	return line + strings.Repeat(" ", width-utf8.RuneCountInString(line))
}

// PrintDetection summarizes the detected vendor and the controls found for each field kind.
func (p *Printer) PrintDetection(url string, vendor ats.Vendor, mapped map[ats.FieldKind][]formfill.DiscoveredField) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("URL:     %s\n", url))
	sb.WriteString(fmt.Sprintf("System:  %s (%s)\n", displayName(vendor), vendor))

	if vendor != ats.VendorUnknown {
		sb.WriteString("\n")
		for _, kind := range ats.FieldKinds {
			if kind == ats.FieldAdditional {
				continue
			}
			fields := mapped[kind]
			sb.WriteString(fmt.Sprintf("%-14s %d\n", string(kind)+":", len(fields)))
			count := min(len(fields), maxItemsToShow)
			for i := 0; i < count; i++ {
				sb.WriteString(fmt.Sprintf("  • %s\n", describeField(fields[i])))
			}
			if len(fields) > maxItemsToShow {
				sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(fields)-maxItemsToShow))
			}
		}
	}

	p.printBox("FORM DETECTION", sb.String())
}

func describeField(f formfill.DiscoveredField) string {
	name := f.Name
	if name == "" {
		name = "(unnamed)"
	}
	desc := fmt.Sprintf("<%s type=%s> %s", f.Tag, f.RawType, name)
	if f.Required {
		desc += " *"
	}
	if f.CurrentValue != "" {
		desc += " [filled]"
	}
	return desc
}

// PrintOutcome outputs a fill attempt and a colored status line.
func (p *Printer) PrintOutcome(out *formfill.Outcome) {
	if out == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Attempt:      %s\n", out.AttemptID))
	sb.WriteString(fmt.Sprintf("System:       %s\n", displayName(out.Vendor)))
	sb.WriteString(fmt.Sprintf("Resume:       %s\n", yesNo(out.ResumeUploaded, "uploaded", "not uploaded")))
	sb.WriteString(fmt.Sprintf("Questions:    %d answered\n", out.AdditionalFieldsFilled))
	sb.WriteString(fmt.Sprintf("Cover letter: %s\n", yesNo(out.CoverLetterAdded, "added", "not added")))
	sb.WriteString(fmt.Sprintf("Submission:   %s\n", out.Submission))

	p.printBox("APPLICATION OUTCOME", sb.String())
	p.status(out.Submission)
}

// PrintApplyResult outputs the route an application took and its outcome.
func (p *Printer) PrintApplyResult(res apply.Result) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Route:  %s\n", res.Route))
	if res.URL != "" {
		sb.WriteString(fmt.Sprintf("URL:    %s\n", res.URL))
	}
	if res.Vendor != "" {
		sb.WriteString(fmt.Sprintf("System: %s\n", displayName(res.Vendor)))
	}
	p.printBox("APPLICATION ROUTE", sb.String())

	if res.Outcome != nil {
		p.PrintOutcome(res.Outcome)
		return
	}
	fmt.Fprintf(p.out, "%s No application form was filled\n", color.YellowString("⚠")) //nolint:errcheck
}

// PrintJobs lists search results in ranked order.
func (p *Printer) PrintJobs(jobs []linkedin.Job) {
	if len(jobs) == 0 {
		fmt.Fprintf(p.out, "%s No suitable jobs found\n", color.YellowString("⚠")) //nolint:errcheck
		return
	}
	var sb strings.Builder
	for i, job := range jobs {
		sb.WriteString(fmt.Sprintf("%2d. %s\n", i+1, job.Title))
		sb.WriteString(fmt.Sprintf("    %s · %s\n", job.Company, job.Location))
		if job.Score > 0 {
			sb.WriteString(fmt.Sprintf("    score %.1f · %s\n", job.Score, job.Category))
		}
	}
	p.printBox(fmt.Sprintf("JOB SEARCH (%d found)", len(jobs)), sb.String())
}

// PrintSession summarizes a search-and-apply session.
func (p *Printer) PrintSession(s *linkedin.Summary) {
	if s == nil {
		return
	}
	failed := 0
	for _, a := range s.Attempts {
		if !a.Succeeded {
			failed++
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Started:      %s\n", s.SessionDate.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("Duration:     %s\n", s.Duration))
	sb.WriteString(fmt.Sprintf("Jobs found:   %d\n", len(s.JobsFound)))
	sb.WriteString(fmt.Sprintf("Applied:      %d\n", s.TotalApplications))
	sb.WriteString(fmt.Sprintf("Not applied:  %d\n", failed))
	if s.Outreach != nil {
		sb.WriteString(fmt.Sprintf("Connections:  %d\n", s.Outreach.ConnectionsSent))
		sb.WriteString(fmt.Sprintf("Messages:     %d\n", s.Outreach.MessagesSent))
	}
	if len(s.JobsApplied) > 0 {
		sb.WriteString("\n")
		for _, job := range s.JobsApplied {
			sb.WriteString(fmt.Sprintf("  • %s at %s\n", job.Title, job.Company))
		}
	}
	p.printBox("SESSION SUMMARY", sb.String())

	if s.TotalApplications > 0 {
		fmt.Fprintf(p.out, "%s %d applications submitted\n", color.GreenString("✓"), s.TotalApplications) //nolint:errcheck
		return
	}
	fmt.Fprintf(p.out, "%s No applications submitted\n", color.YellowString("⚠")) //nolint:errcheck
}

// PrintOutreach outputs the result of contacting people about one posting.
func (p *Printer) PrintOutreach(job linkedin.Job, res linkedin.OutreachResult) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Job:          %s\n", job.Title))
	sb.WriteString(fmt.Sprintf("Company:      %s\n", job.Company))
	sb.WriteString(fmt.Sprintf("People found: %d\n", res.HiringManagersFound))
	sb.WriteString(fmt.Sprintf("Requests:     %d sent\n", res.ConnectionsSent))
	if res.MessagesSent > 0 {
		sb.WriteString(fmt.Sprintf("Messages:     %d sent\n", res.MessagesSent))
	}
	if res.Reason != "" {
		sb.WriteString(fmt.Sprintf("Note:         %s\n", res.Reason))
	}
	p.printBox("OUTREACH", sb.String())
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) status(result formfill.SubmissionResult) {
	switch result {
	case formfill.SubmissionSucceeded:
		fmt.Fprintf(p.out, "%s Application submitted\n", color.GreenString("✓"))
	case formfill.SubmissionAmbiguous:
		fmt.Fprintf(p.out, "%s Submitted, but the page gave no confirmation\n", color.YellowString("⚠"))
	case formfill.SubmissionFailed:
		fmt.Fprintf(p.out, "%s Submission failed\n", color.RedString("✗"))
	default:
		fmt.Fprintf(p.out, "%s Form was not submitted\n", color.RedString("✗"))
	}
}

func displayName(v ats.Vendor) string {
	if !ats.Known(v) {
		return "Unknown"
	}
	return ats.Lookup(v).DisplayName
}

func yesNo(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}
