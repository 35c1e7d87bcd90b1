package prompt

import (
	"fmt"
	"strings"
	"time"

	"github.com/Aleqsd/github-codex-bot/internal/model"
)

// Render formats p as the plain-text block pasted into the code-generation CLI.
func Render(p model.Prompt) string {
	var b strings.Builder

	b.WriteString(p.Header)
	b.WriteString("\n\n")

	b.WriteString(SectionSource + "\n")
	fmt.Fprintf(&b, "- Repository: %s\n", p.Context.Repository)
	fmt.Fprintf(&b, "- Author: %s\n", p.Context.Actor)
	fmt.Fprintf(&b, "- Issue: #%d", p.Context.IssueNumber)
	if p.Context.IssueURL != "" {
		fmt.Fprintf(&b, " (%s)", p.Context.IssueURL)
	}
	b.WriteString("\n")
	if p.Context.CommentURL != "" {
		fmt.Fprintf(&b, "- Comment: %s\n", p.Context.CommentURL)
	}
	if !p.Context.ReceivedAt.IsZero() {
		fmt.Fprintf(&b, "- Received: %s\n", p.Context.ReceivedAt.UTC().Format(time.RFC3339))
	}
	b.WriteString("\n")

	b.WriteString(SectionRequirements + "\n")
	if len(p.Requirements) == 0 {
		b.WriteString("- (none detected, use the original message below)\n")
	}
	for _, r := range p.Requirements {
		fmt.Fprintf(&b, "- %s\n", r)
	}
	b.WriteString("\n")

	b.WriteString(SectionOriginal + "\n")
	b.WriteString(p.RawBody)
	if !strings.HasSuffix(p.RawBody, "\n") {
		b.WriteString("\n")
	}

	return b.String()
}
