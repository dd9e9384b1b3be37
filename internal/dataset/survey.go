package dataset

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Survey is a markdown-friendly summary of a loaded detection export.
type Survey struct {
	Name       string
	Counters   Counters
	ByCategory []CategoryCount
	Warnings   []string
}

// CategoryCount is a per-category row tally split by role.
type CategoryCount struct {
	Category   string
	Problems   int
	References int
}

// Summarize builds a Survey from a loaded table.
func Summarize(t *Table) *Survey {
	s := &Survey{Name: filepath.Base(t.Source), Counters: t.Counters}
	byCat := map[string]*CategoryCount{}
	for _, d := range t.Detections {
		c := byCat[d.Category]
		if c == nil {
			c = &CategoryCount{Category: d.Category}
			byCat[d.Category] = c
		}
		if d.Role == RoleProblem {
			c.Problems++
		} else {
			c.References++
		}
	}
	for _, c := range byCat {
		s.ByCategory = append(s.ByCategory, *c)
	}
	sort.Slice(s.ByCategory, func(i, j int) bool {
		return s.ByCategory[i].Category < s.ByCategory[j].Category
	})
	if t.Counters.InvalidRole > 0 {
		s.Warnings = append(s.Warnings, fmt.Sprintf("%d rows discarded: Prob/Ref not 'problem' or 'reference'", t.Counters.InvalidRole))
	}
	if t.Counters.InvalidArea > 0 {
		s.Warnings = append(s.Warnings, fmt.Sprintf("%d rows with unparsable or non-positive Area (kept in raw sheet only)", t.Counters.InvalidArea))
	}
	if len(t.Detections) == 0 {
		s.Warnings = append(s.Warnings, "no usable detections after validation")
	}
	return s
}

// Markdown renders a compact survey suitable for the terminal or a doc.
func (s *Survey) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if s.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", s.Name))
	}
	c := s.Counters
	b.WriteString(fmt.Sprintf("Rows: %d (usable %d)\n", c.RowsRead, c.ProblemRows+c.ReferenceRows))
	b.WriteString(fmt.Sprintf("Images: %d\n", c.Images))
	b.WriteString(fmt.Sprintf("Categories: %d\n", c.Categories))
	b.WriteString(fmt.Sprintf("Problem SKUs: %d\n", c.ProblemRows))
	b.WriteString(fmt.Sprintf("Reference SKUs: %d\n", c.ReferenceRows))

	if len(s.ByCategory) > 0 {
		b.WriteString("\n[PER-CATEGORY BREAKDOWN]\n")
		for _, cc := range s.ByCategory {
			b.WriteString(fmt.Sprintf("- %s: %d problem, %d reference\n", cc.Category, cc.Problems, cc.References))
		}
	}
	if len(s.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range s.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}
