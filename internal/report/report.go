// Package report renders a completed analysis as a human-readable
// document: markdown for terminals and tooling, HTML for browser
// preview.
package report

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/redhat-ai-americas/xml-analysis-framework-sub001/internal/chunk"
	"github.com/redhat-ai-americas/xml-analysis-framework-sub001/internal/pipeline"
)

// Markdown renders the analysis as a markdown report.
func Markdown(title string, a *pipeline.Analysis) string {
	var sb strings.Builder

	if title == "" {
		title = "XML Analysis"
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)

	if c := a.Classification; c != nil {
		if c.DocType != "" {
			fmt.Fprintf(&sb, "**Document type:** `%s` (confidence %.3f)\n\n", c.DocType, c.Confidence)
		} else {
			sb.WriteString("**Document type:** unclassified\n\n")
		}
		if len(c.Ranked) > 0 {
			sb.WriteString("## Handler scores\n\n")
			sb.WriteString("| Handler | Score | Evidence |\n|---|---|---|\n")
			for _, s := range c.Ranked {
				if s.Score <= 0 {
					continue
				}
				fmt.Fprintf(&sb, "| %s | %.3f | %s |\n", s.ID, s.Score, strings.Join(s.Evidence, "; "))
			}
			sb.WriteString("\n")
		}
	}

	if a.Summary != nil && len(a.Summary.Fields) > 0 {
		sb.WriteString("## Summary\n\n")
		keys := make([]string, 0, len(a.Summary.Fields))
		for k := range a.Summary.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&sb, "- **%s:** %v\n", k, a.Summary.Fields[k])
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "## Chunks (%d)\n\n", len(a.Chunks))
	if len(a.Chunks) > 0 {
		sb.WriteString("| # | Kind | Path | Size | ID | Refs |\n|---|---|---|---|---|---|\n")
		for _, c := range a.Chunks {
			fmt.Fprintf(&sb, "| %d | %s | %s | %d | %s | %s |\n",
				c.Index, c.Kind, c.Path, len(c.Text), c.ID, refSummary(c))
		}
		sb.WriteString("\n")
	}

	if len(a.Diagnostics) > 0 {
		sb.WriteString("## Diagnostics\n\n")
		for _, d := range a.Diagnostics {
			fmt.Fprintf(&sb, "- %s\n", d)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// HTML renders the markdown report to HTML.
func HTML(title string, a *pipeline.Analysis) ([]byte, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	var buf bytes.Buffer
	if err := md.Convert([]byte(Markdown(title, a)), &buf); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}

// refSummary compacts a chunk's links into one table cell.
func refSummary(c chunk.Chunk) string {
	var parts []string
	if len(c.Refs) > 0 {
		ids := make([]string, 0, len(c.Refs))
		for id := range c.Refs {
			ids = append(ids, fmt.Sprintf("%s→%d", id, c.Refs[id]))
		}
		sort.Strings(ids)
		parts = append(parts, strings.Join(ids, ", "))
	}
	if len(c.BackRefs) > 0 {
		refs := make([]string, len(c.BackRefs))
		for i, idx := range c.BackRefs {
			refs[i] = fmt.Sprintf("%d", idx)
		}
		parts = append(parts, "from "+strings.Join(refs, ","))
	}
	if len(c.ExternalRefs) > 0 {
		parts = append(parts, "external: "+strings.Join(c.ExternalRefs, ","))
	}
	return strings.Join(parts, "; ")
}
