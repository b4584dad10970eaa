package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sdejongh/dircompare/pkg/models"
)

const (
	sectionRule = 40
	flatRule    = 50
	shortHash   = 16
)

// TextFormatter renders reports as plain text
type TextFormatter struct {
	// Verbose adds a header with roots, method and scan statistics
	Verbose bool
}

// Name returns the formatter name
func (f *TextFormatter) Name() string {
	return "text"
}

// Format writes the report
func (f *TextFormatter) Format(w io.Writer, report *models.Report) error {
	bw := bufio.NewWriter(w)

	if f.Verbose {
		writeHeader(bw, report)
	}

	switch {
	case report.Result != nil:
		writeHierarchy(bw, report.Result)
	case report.Flat != nil:
		writeFlat(bw, report.Flat)
	}

	writeWarnings(bw, report.Warnings())
	return bw.Flush()
}

func writeHeader(w io.Writer, report *models.Report) {
	fmt.Fprintf(w, "Comparing %s and %s\n", report.RootA, report.RootB)
	fmt.Fprintf(w, "Mode: %s, method: %s\n", report.Mode, report.Method)
	fmt.Fprintf(w, "  A: %d files, %d dirs, %s\n", report.Stats.FilesA, report.Stats.DirsA, formatBytes(report.Stats.BytesA))
	fmt.Fprintf(w, "  B: %d files, %d dirs, %s\n", report.Stats.FilesB, report.Stats.DirsB, formatBytes(report.Stats.BytesB))
	fmt.Fprintf(w, "Completed in %s (%d signatures computed)\n\n", report.Duration.Round(time.Millisecond), report.Stats.Hashed)
}

func writeHierarchy(w io.Writer, result *models.ComparisonResult) {
	writeEntries(w, "A-only", result.AOnly)
	fmt.Fprintln(w)
	writeEntries(w, "B-only", result.BOnly)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Both (%d entries):\n", len(result.Both))
	fmt.Fprintln(w, strings.Repeat("-", sectionRule))
	for _, pair := range result.Both {
		fmt.Fprintf(w, "  %s == %s\n", displayPath(pair.A), displayPath(pair.B))
	}
}

func writeEntries(w io.Writer, title string, entries []models.Entry) {
	fmt.Fprintf(w, "%s (%d entries):\n", title, len(entries))
	fmt.Fprintln(w, strings.Repeat("-", sectionRule))
	for _, e := range entries {
		fmt.Fprintf(w, "  %s\n", displayPath(e))
	}
}

// displayPath suffixes directories with a slash
func displayPath(e models.Entry) string {
	if e.IsDir() {
		return e.RelativePath + "/"
	}
	return e.RelativePath
}

func writeFlat(w io.Writer, result *models.FlatResult) {
	fmt.Fprintln(w, "Flat Mode Comparison Summary")
	fmt.Fprintln(w, strings.Repeat("=", flatRule))
	fmt.Fprintf(w, "Files in directory A: %d\n", result.TotalFilesA)
	fmt.Fprintf(w, "Files in directory B: %d\n", result.TotalFilesB)
	fmt.Fprintf(w, "Unique content hashes: %d\n", result.UniqueSignatures)
	fmt.Fprintf(w, "Duplicate content groups: %d\n", result.DuplicateGroups)
	fmt.Fprintln(w)

	for _, g := range result.Groups {
		inA, inB := g.InA(), g.InB()

		hash := g.Signature
		if len(hash) > shortHash {
			hash = hash[:shortHash]
		}
		fmt.Fprintf(w, "Hash: %s [%s] (%d bytes, %d files)\n", hash, groupLabel(g), g.Size, len(g.Occurrences))
		fmt.Fprintln(w, strings.Repeat("-", flatRule))

		for _, p := range g.FilesInA() {
			if inB {
				fmt.Fprintf(w, "  [A] %s -> (moved/copied to B)\n", p)
			} else {
				fmt.Fprintf(w, "  [A] %s\n", p)
			}
		}
		for _, p := range g.FilesInB() {
			if inA {
				fmt.Fprintf(w, "  [B] %s <- (moved/copied from A)\n", p)
			} else {
				fmt.Fprintf(w, "  [B] %s\n", p)
			}
		}
		fmt.Fprintln(w)
	}
}

func groupLabel(g models.FlatGroup) string {
	var label string
	switch g.Class() {
	case models.ClassMatched:
		label = "MATCHED"
	case models.ClassAOnly:
		label = "A-ONLY"
	default:
		label = "B-ONLY"
	}
	if g.IsDuplicate() {
		label += ", DUPLICATE"
	}
	return label
}

func writeWarnings(w io.Writer, warnings []models.Warning) {
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintf(w, "\nWarnings (%d):\n", len(warnings))
	for _, warn := range warnings {
		fmt.Fprintf(w, "  [%s] %s: %s\n", strings.ToUpper(string(warn.Root)), warn.Path, warn.Message)
	}
}

// formatBytes formats bytes in human-readable format
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
