package output

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/gonvenience/ytbx"
	"github.com/homeport/dyff/pkg/dyff"
)

// DiffResult describes the difference between two keyed document sets.
type DiffResult struct {
	Added    []string
	Removed  []string
	Modified []ModifiedItem
}

// ModifiedItem is an entry present on both sides with differing content.
type ModifiedItem struct {
	Name string
	Diff string
}

// IsEmpty returns true if there are no changes.
func (r *DiffResult) IsEmpty() bool {
	return len(r.Added) == 0 && len(r.Removed) == 0 && len(r.Modified) == 0
}

// Summary returns a summary string of changes.
func (r *DiffResult) Summary() string {
	if r.IsEmpty() {
		return "No changes"
	}

	parts := make([]string, 0, 3)
	if len(r.Added) > 0 {
		parts = append(parts, fmt.Sprintf("%d added", len(r.Added)))
	}
	if len(r.Removed) > 0 {
		parts = append(parts, fmt.Sprintf("%d removed", len(r.Removed)))
	}
	if len(r.Modified) > 0 {
		parts = append(parts, fmt.Sprintf("%d modified", len(r.Modified)))
	}
	return strings.Join(parts, ", ")
}

// RenderDiff renders a diff result with styles.
func RenderDiff(r *DiffResult) string {
	if r.IsEmpty() {
		return "No changes detected."
	}

	styles := GetStyles()
	var sb strings.Builder

	section := func(header string, style func(...string) string, marker string, names []string) {
		if len(names) == 0 {
			return
		}
		sb.WriteString(style(header))
		sb.WriteString("\n")
		for _, name := range names {
			sb.WriteString("  " + marker + " ")
			sb.WriteString(style(name))
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	section("Added:", styles.Success.Render, "+", r.Added)
	section("Removed:", styles.Error.Render, "-", r.Removed)

	if len(r.Modified) > 0 {
		sb.WriteString(styles.Warning.Render("Modified:"))
		sb.WriteString("\n")
		for _, mod := range r.Modified {
			sb.WriteString("  ~ ")
			sb.WriteString(styles.Warning.Render(mod.Name))
			sb.WriteString("\n")
			for _, line := range strings.Split(mod.Diff, "\n") {
				if line != "" {
					sb.WriteString("    ")
					sb.WriteString(line)
					sb.WriteString("\n")
				}
			}
			sb.WriteString("\n")
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

// DiffYAML computes a YAML-aware diff between two documents using dyff.
// Returns an empty string when the documents are equivalent.
func DiffYAML(left, right []byte, useColor bool) (string, error) {
	if len(bytes.TrimSpace(left)) == 0 && len(bytes.TrimSpace(right)) == 0 {
		return "", nil
	}

	leftInput, err := parseYAMLInput("left", left)
	if err != nil {
		return "", fmt.Errorf("parsing left YAML: %w", err)
	}
	rightInput, err := parseYAMLInput("right", right)
	if err != nil {
		return "", fmt.Errorf("parsing right YAML: %w", err)
	}

	report, err := dyff.CompareInputFiles(leftInput, rightInput)
	if err != nil {
		return "", fmt.Errorf("comparing YAML: %w", err)
	}
	if len(report.Diffs) == 0 {
		return "", nil
	}

	var buf bytes.Buffer
	reportWriter := &dyff.HumanReport{
		Report:            report,
		DoNotInspectCerts: true,
		NoTableStyle:      !useColor,
		OmitHeader:        true,
	}
	if err := reportWriter.WriteReport(io.Writer(&buf)); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}

	lines := strings.Split(buf.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

// parseYAMLInput parses YAML bytes into a dyff input file.
func parseYAMLInput(name string, data []byte) (ytbx.InputFile, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ytbx.InputFile{Location: name}, nil
	}

	docs, err := ytbx.LoadYAMLDocuments(data)
	if err != nil {
		return ytbx.InputFile{}, err
	}
	return ytbx.InputFile{Location: name, Documents: docs}, nil
}
