package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sdejongh/dircompare/pkg/models"
)

func hierarchyReport() *models.Report {
	return &models.Report{
		OperationID: "op-1",
		RootA:       "/a",
		RootB:       "/b",
		Mode:        models.ModeHierarchy,
		Method:      "hash",
		StartTime:   time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Duration:    1500 * time.Millisecond,
		Status:      models.StatusSuccess,
		Result: &models.ComparisonResult{
			AOnly: []models.Entry{
				{RelativePath: "docs", Kind: models.KindDirectory},
				{RelativePath: "docs/a.md", Kind: models.KindFile, Size: 1},
			},
			BOnly: []models.Entry{{RelativePath: "extra", Kind: models.KindFile}},
			Both: []models.EntryPair{{
				A: models.Entry{RelativePath: "common.txt", Kind: models.KindFile},
				B: models.Entry{RelativePath: "common.txt", Kind: models.KindFile},
			}},
		},
	}
}

func flatReport() *models.Report {
	return &models.Report{
		Mode:   models.ModeFlat,
		Status: models.StatusSuccess,
		Flat: &models.FlatResult{
			TotalFilesA:      3,
			TotalFilesB:      1,
			UniqueSignatures: 2,
			DuplicateGroups:  1,
			Groups: []models.FlatGroup{
				{
					Signature: "0123456789abcdef0123456789abcdef",
					Algorithm: "sampled-sha256",
					Size:      6,
					Occurrences: []models.Occurrence{
						{Root: models.RootA, RelativePath: "docs/r.txt", Size: 6},
						{Root: models.RootB, RelativePath: "archive/r.txt", Size: 6},
					},
				},
				{
					Signature: "fedcba9876543210fedcba9876543210",
					Algorithm: "sampled-sha256",
					Size:      1,
					Occurrences: []models.Occurrence{
						{Root: models.RootA, RelativePath: "dup1", Size: 1},
						{Root: models.RootA, RelativePath: "dup2", Size: 1},
					},
				},
			},
		},
	}
}

func TestTextFormatterHierarchy(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TextFormatter{}).Format(&buf, hierarchyReport()); err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	rule := strings.Repeat("-", 40)
	want := "A-only (2 entries):\n" + rule + "\n  docs/\n  docs/a.md\n\n" +
		"B-only (1 entries):\n" + rule + "\n  extra\n\n" +
		"Both (1 entries):\n" + rule + "\n  common.txt == common.txt\n"
	if got := buf.String(); got != want {
		t.Errorf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestTextFormatterFlat(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TextFormatter{}).Format(&buf, flatReport()); err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Flat Mode Comparison Summary\n" + strings.Repeat("=", 50) + "\n",
		"Files in directory A: 3\n",
		"Unique content hashes: 2\n",
		"Duplicate content groups: 1\n",
		"Hash: 0123456789abcdef [MATCHED] (6 bytes, 2 files)\n",
		"  [A] docs/r.txt -> (moved/copied to B)\n",
		"  [B] archive/r.txt <- (moved/copied from A)\n",
		"Hash: fedcba9876543210 [A-ONLY, DUPLICATE] (1 bytes, 2 files)\n",
		"  [A] dup1\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}

func TestGroupLabel(t *testing.T) {
	tests := []struct {
		name  string
		occ   []models.Occurrence
		label string
	}{
		{"Matched", []models.Occurrence{{Root: models.RootA}, {Root: models.RootB}}, "MATCHED"},
		{"MatchedDuplicate", []models.Occurrence{{Root: models.RootA}, {Root: models.RootA}, {Root: models.RootB}}, "MATCHED, DUPLICATE"},
		{"AOnly", []models.Occurrence{{Root: models.RootA}}, "A-ONLY"},
		{"BOnlyDuplicate", []models.Occurrence{{Root: models.RootB}, {Root: models.RootB}}, "B-ONLY, DUPLICATE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := groupLabel(models.FlatGroup{Occurrences: tt.occ}); got != tt.label {
				t.Errorf("groupLabel = %q, want %q", got, tt.label)
			}
		})
	}
}

func TestTextFormatterWarningsAndHeader(t *testing.T) {
	report := hierarchyReport()
	report.Result.Warnings = []models.Warning{{Root: models.RootB, Path: "locked", Kind: "permission", Message: "permission denied"}}

	var buf bytes.Buffer
	if err := (&TextFormatter{Verbose: true}).Format(&buf, report); err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "Comparing /a and /b\n") {
		t.Errorf("verbose output should start with header, got %q", out)
	}
	if !strings.Contains(out, "Warnings (1):\n  [B] locked: permission denied\n") {
		t.Errorf("warnings section missing:\n%s", out)
	}
}

func TestJSONFormatterHierarchy(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONFormatter{}).Format(&buf, hierarchyReport()); err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	var doc JSONReport
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if doc.OperationID != "op-1" || doc.Mode != "hierarchy" || doc.DurationMs != 1500 {
		t.Errorf("unexpected header fields: %+v", doc)
	}
	if doc.Flat != nil {
		t.Error("flat section should be omitted")
	}
	if doc.Hierarchy == nil || len(doc.Hierarchy.AOnly) != 2 || doc.Hierarchy.AOnly[0].Kind != "directory" {
		t.Errorf("unexpected hierarchy: %+v", doc.Hierarchy)
	}
	if doc.Warnings == nil {
		t.Error("warnings should encode as an empty list")
	}
}

func TestJSONFormatterFlat(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONFormatter{}).Format(&buf, flatReport()); err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	var doc JSONReport
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if doc.Flat == nil || len(doc.Flat.Groups) != 2 {
		t.Fatalf("unexpected flat section: %+v", doc.Flat)
	}
	first := doc.Flat.Groups[0]
	if first.Class != "matched" || first.Duplicate {
		t.Errorf("first group = %+v", first)
	}
	if first.Occurrences[1].Root != models.RootB {
		t.Errorf("occurrence root = %s, want b", first.Occurrences[1].Root)
	}
	if !doc.Flat.Groups[1].Duplicate {
		t.Error("second group should be a duplicate")
	}
}

func TestNew(t *testing.T) {
	for _, format := range []string{"text", "json", ""} {
		f, err := New(format, false)
		if err != nil {
			t.Errorf("New(%q) failed: %v", format, err)
			continue
		}
		if format != "" && f.Name() != format {
			t.Errorf("Name() = %s, want %s", f.Name(), format)
		}
	}

	if _, err := New("html", false); !errors.Is(err, models.ErrInvalidStrategy) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestProgressBarDisabledOffTerminal(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgressBar(&buf, true)
	if bar.Enabled() {
		t.Error("progress bar should be disabled for non-terminal writers")
	}
	bar.Update(1, 10)
	bar.Finish()
	if buf.Len() != 0 {
		t.Errorf("disabled bar wrote %q", buf.String())
	}

	var nilBar *ProgressBar
	nilBar.Update(1, 1)
	nilBar.Finish()
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1 << 20, "1.0 MiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
