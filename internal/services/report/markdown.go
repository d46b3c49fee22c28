// Package report renders an assembled report snapshot to its output
// formats. Markdown is the canonical composition; HTML and PDF are derived
// from it, and JSON serialises the snapshot directly.
package report

import (
	"fmt"
	"strings"

	"github.com/ternarybob/censeo/internal/models"
	"github.com/ternarybob/censeo/internal/risk"
)

// ComposeMarkdown renders the full committee report as markdown. Section
// order mirrors how the committee reads: decision view first, then the
// dashboard, fact sheet, per-domain detail and obligations.
func ComposeMarkdown(snap *models.ReportSnapshot) string {
	var b strings.Builder

	name := snap.TokenFactSheet.Asset.Name
	if name == "" {
		name = "Unknown token"
	}
	title := name
	if ticker := snap.TokenFactSheet.Asset.Ticker; ticker != "" {
		title = fmt.Sprintf("%s (%s)", name, strings.ToUpper(ticker))
	}
	fmt.Fprintf(&b, "# %s – Listing Risk Report\n\n", title)

	writeExecutiveSummary(&b, snap.ExecutiveSummary)
	writeDashboard(&b, snap.RiskDashboard)
	writeFactSheet(&b, snap.TokenFactSheet)
	writeRiskTags(&b, snap.RiskTags, snap.TagEvidence)
	writeDomainFindings(&b, snap.DomainFindings)
	writeEscalations(&b, snap.BoardEscalations)
	writeRequirements(&b, snap.ListingRequirements)

	fmt.Fprintf(&b, "---\n\nReport %s, generated %s by %s.\n",
		snap.ReportID, snap.ExecutiveSummary.GeneratedAt, snap.ExecutiveSummary.GeneratedBy)

	return b.String()
}

func writeExecutiveSummary(b *strings.Builder, s models.ExecutiveSummary) {
	b.WriteString("## Executive Summary\n\n")
	if s.HeadlineDecisionView != "" {
		fmt.Fprintf(b, "**%s**\n\n", s.HeadlineDecisionView)
	}
	if s.Narrative != "" {
		fmt.Fprintf(b, "%s\n\n", s.Narrative)
	}

	writeBulletGroup(b, "Key positives", s.KeyPositives)

	if len(s.RisksAndMitigations) > 0 {
		b.WriteString("**Risks and mitigations:**\n\n")
		for _, rm := range s.RisksAndMitigations {
			fmt.Fprintf(b, "- **%s** – %s\n", rm.Risk, rm.Mitigation)
		}
		b.WriteString("\n")
	}

	if len(s.NotableEscalations) > 0 {
		b.WriteString("**Notable escalations:**\n\n")
		for _, ne := range s.NotableEscalations {
			fmt.Fprintf(b, "- %s: %s\n", ne.Domain, ne.Issue)
		}
		b.WriteString("\n")
	}

	writeBulletGroup(b, "Open questions", s.OpenQuestions)
}

func writeDashboard(b *strings.Builder, d models.RiskDashboard) {
	b.WriteString("## Risk Dashboard\n\n")
	fmt.Fprintf(b, "Overall risk band: **%s (%d/5)**\n\n", d.OverallBand.Name, d.OverallBand.Numeric)

	if len(d.Domains) == 0 {
		return
	}

	b.WriteString("| Domain | Weight | Band | Avg Score | Board Escalations |\n")
	b.WriteString("|--------|--------|------|-----------|-------------------|\n")
	for _, dom := range d.Domains {
		fmt.Fprintf(b, "| %s | %.0f%% | %s (%d) | %.2f | %d |\n",
			dom.Name, dom.Weight*100, dom.BandName, dom.BandNumeric, dom.AvgScore, dom.BoardEscalationCount)
	}
	b.WriteString("\n")
}

func writeFactSheet(b *strings.Builder, fs models.TokenFactSheet) {
	b.WriteString("## Token Fact Sheet\n\n")

	fmt.Fprintf(b, "| | |\n|---|---|\n")
	fmt.Fprintf(b, "| Token type | %s |\n", fs.Asset.TokenType)
	if fs.Asset.PrimaryChain != "" {
		fmt.Fprintf(b, "| Primary chain | %s |\n", fs.Asset.PrimaryChain)
	}
	if fs.Asset.Website != "" {
		fmt.Fprintf(b, "| Website | %s |\n", fs.Asset.Website)
	}
	fmt.Fprintf(b, "| Posture | %s |\n", fs.Classification.Posture)
	fmt.Fprintf(b, "| Board escalations | %d |\n", fs.Classification.BoardEscalationCount)
	fmt.Fprintf(b, "| Disclosure quality | %s |\n", fs.DisclosureQualityFlag)
	if fs.ExternalMetadataSource != "" {
		fmt.Fprintf(b, "| Metadata source | %s |\n", fs.ExternalMetadataSource)
	}
	b.WriteString("\n")

	if fs.Asset.Description != "" {
		fmt.Fprintf(b, "%s\n\n", fs.Asset.Description)
	}

	if len(fs.ControlSignals) > 0 {
		b.WriteString("**Control signals:**\n\n")
		for _, cs := range fs.ControlSignals {
			marker := "clear"
			if cs.Present {
				marker = "flagged"
			}
			fmt.Fprintf(b, "- %s: %s\n", cs.Label, marker)
		}
		b.WriteString("\n")
	}
}

func writeRiskTags(b *strings.Builder, tags []models.RefinedTag, evidence map[string][]models.TagEvidence) {
	included := make([]models.RefinedTag, 0, len(tags))
	for _, t := range tags {
		if t.Include {
			included = append(included, t)
		}
	}
	if len(included) == 0 {
		return
	}

	b.WriteString("## Risk Tags\n\n")
	for _, t := range included {
		fmt.Fprintf(b, "### %s\n\n", risk.TagLabel(t.ID))
		if t.Reason != "" {
			fmt.Fprintf(b, "%s\n\n", t.Reason)
		}
		for _, ev := range evidence[t.ID] {
			line := fmt.Sprintf("- %s %s: %s", ev.Sheet, ev.QuestionID, ev.RawResponse)
			if ev.Note != "" {
				line += fmt.Sprintf(" (%s)", ev.Note)
			}
			b.WriteString(line + "\n")
		}
		if len(evidence[t.ID]) > 0 {
			b.WriteString("\n")
		}
	}
}

func writeDomainFindings(b *strings.Builder, findings []models.DomainFinding) {
	if len(findings) == 0 {
		return
	}

	b.WriteString("## Domain Findings\n\n")
	for _, f := range findings {
		fmt.Fprintf(b, "### %s – %s (%d/5)\n\n", f.DomainName, f.BandName, f.BandNumeric)
		if f.OneLine != "" {
			fmt.Fprintf(b, "%s\n\n", f.OneLine)
		}
		writeBulletGroup(b, "Strengths", f.Strengths)
		writeBulletGroup(b, "Risks", f.Risks)
		writeBulletGroup(b, "Watchpoints", f.Watchpoints)
	}
}

func writeEscalations(b *strings.Builder, escalations []models.BoardEscalation) {
	if len(escalations) == 0 {
		return
	}

	b.WriteString("## Board Escalations\n\n")
	b.WriteString("| Domain | Question | Flag | Narrative |\n")
	b.WriteString("|--------|----------|------|----------|\n")
	for _, esc := range escalations {
		narrative := strings.ReplaceAll(esc.RawNarrative, "\n", " ")
		if runes := []rune(narrative); len(runes) > 160 {
			narrative = string(runes[:157]) + "..."
		}
		fmt.Fprintf(b, "| %s | %s %s | %s | %s |\n",
			esc.DomainName, esc.QuestionID, esc.QuestionText, esc.Flag, narrative)
	}
	b.WriteString("\n")
}

func writeRequirements(b *strings.Builder, requirements []models.Requirement) {
	b.WriteString("## Listing Requirements\n\n")
	if len(requirements) == 0 {
		b.WriteString("No listing requirements triggered.\n\n")
		return
	}

	for _, req := range requirements {
		fmt.Fprintf(b, "- **[%s] %s**: %s\n", req.Severity, req.Title, req.Text)
	}
	b.WriteString("\n")
}

func writeBulletGroup(b *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "**%s:**\n\n", label)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}
