package output

import (
	"encoding/json"
	"io"
	"time"

	"github.com/sdejongh/dircompare/pkg/models"
)

// JSONFormatter formats reports as JSON for automation and scripting
type JSONFormatter struct{}

// JSONReport is the top-level JSON document
type JSONReport struct {
	OperationID string           `json:"operation_id"`
	Status      string           `json:"status"`
	Mode        string           `json:"mode"`
	Method      string           `json:"method"`
	RootA       string           `json:"root_a"`
	RootB       string           `json:"root_b"`
	StartTime   string           `json:"start_time"`
	Duration    string           `json:"duration"`
	DurationMs  int64            `json:"duration_ms"`
	Stats       JSONStatsData    `json:"stats"`
	Hierarchy   *JSONHierarchy   `json:"hierarchy,omitempty"`
	Flat        *JSONFlat        `json:"flat,omitempty"`
	Warnings    []models.Warning `json:"warnings"`
}

// JSONStatsData represents scan statistics
type JSONStatsData struct {
	FilesA   int   `json:"files_a"`
	DirsA    int   `json:"dirs_a"`
	BytesA   int64 `json:"bytes_a"`
	FilesB   int   `json:"files_b"`
	DirsB    int   `json:"dirs_b"`
	BytesB   int64 `json:"bytes_b"`
	Hashed   int   `json:"hashed"`
	Warnings int   `json:"warnings"`
}

// JSONEntry is one entry of a hierarchy list
type JSONEntry struct {
	Path      string `json:"path"`
	Kind      string `json:"kind"`
	Size      int64  `json:"size"`
	IsSymlink bool   `json:"symlink,omitempty"`
}

// JSONPair is a path present in both roots
type JSONPair struct {
	A JSONEntry `json:"a"`
	B JSONEntry `json:"b"`
}

// JSONHierarchy is the path-keyed result
type JSONHierarchy struct {
	AOnly []JSONEntry `json:"a_only"`
	BOnly []JSONEntry `json:"b_only"`
	Both  []JSONPair  `json:"both"`
}

// JSONGroup is one content group
type JSONGroup struct {
	Signature   string              `json:"signature"`
	Algorithm   string              `json:"algorithm"`
	Size        int64               `json:"size"`
	Class       string              `json:"class"`
	Duplicate   bool                `json:"duplicate"`
	Occurrences []models.Occurrence `json:"occurrences"`
}

// JSONFlat is the content-keyed result
type JSONFlat struct {
	TotalFilesA      int         `json:"total_files_a"`
	TotalFilesB      int         `json:"total_files_b"`
	UniqueSignatures int         `json:"unique_signatures"`
	DuplicateGroups  int         `json:"duplicate_groups"`
	Groups           []JSONGroup `json:"groups"`
}

// Name returns the formatter name
func (f *JSONFormatter) Name() string {
	return "json"
}

// Format writes the report as indented JSON
func (f *JSONFormatter) Format(w io.Writer, report *models.Report) error {
	doc := JSONReport{
		OperationID: report.OperationID,
		Status:      string(report.Status),
		Mode:        string(report.Mode),
		Method:      report.Method,
		RootA:       report.RootA,
		RootB:       report.RootB,
		StartTime:   report.StartTime.Format(time.RFC3339),
		Duration:    report.Duration.Round(time.Millisecond).String(),
		DurationMs:  report.Duration.Milliseconds(),
		Stats: JSONStatsData{
			FilesA:   report.Stats.FilesA,
			DirsA:    report.Stats.DirsA,
			BytesA:   report.Stats.BytesA,
			FilesB:   report.Stats.FilesB,
			DirsB:    report.Stats.DirsB,
			BytesB:   report.Stats.BytesB,
			Hashed:   report.Stats.Hashed,
			Warnings: report.Stats.Warnings,
		},
		Warnings: report.Warnings(),
	}
	if doc.Warnings == nil {
		doc.Warnings = []models.Warning{}
	}

	if r := report.Result; r != nil {
		h := &JSONHierarchy{
			AOnly: jsonEntries(r.AOnly),
			BOnly: jsonEntries(r.BOnly),
			Both:  make([]JSONPair, 0, len(r.Both)),
		}
		for _, p := range r.Both {
			h.Both = append(h.Both, JSONPair{A: jsonEntry(p.A), B: jsonEntry(p.B)})
		}
		doc.Hierarchy = h
	}

	if r := report.Flat; r != nil {
		fl := &JSONFlat{
			TotalFilesA:      r.TotalFilesA,
			TotalFilesB:      r.TotalFilesB,
			UniqueSignatures: r.UniqueSignatures,
			DuplicateGroups:  r.DuplicateGroups,
			Groups:           make([]JSONGroup, 0, len(r.Groups)),
		}
		for _, g := range r.Groups {
			fl.Groups = append(fl.Groups, JSONGroup{
				Signature:   g.Signature,
				Algorithm:   g.Algorithm,
				Size:        g.Size,
				Class:       string(g.Class()),
				Duplicate:   g.IsDuplicate(),
				Occurrences: g.Occurrences,
			})
		}
		doc.Flat = fl
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}

func jsonEntries(entries []models.Entry) []JSONEntry {
	out := make([]JSONEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, jsonEntry(e))
	}
	return out
}

func jsonEntry(e models.Entry) JSONEntry {
	return JSONEntry{Path: e.RelativePath, Kind: string(e.Kind), Size: e.Size, IsSymlink: e.IsSymlink}
}
