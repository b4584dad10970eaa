// Package output renders comparison reports for people and for scripts.
package output

import (
	"fmt"
	"io"

	"github.com/sdejongh/dircompare/pkg/models"
)

// Formatter defines the interface for report rendering
// Implementations include text and JSON formatters
type Formatter interface {
	// Format writes the report, whichever result shape it carries
	Format(w io.Writer, report *models.Report) error

	// Name returns the formatter name
	Name() string
}

// New returns the formatter for a format token ("text" or "json")
func New(format string, verbose bool) (Formatter, error) {
	switch format {
	case "text", "":
		return &TextFormatter{Verbose: verbose}, nil
	case "json":
		return &JSONFormatter{}, nil
	default:
		return nil, &models.ValidationError{
			Field:   "output.format",
			Message: fmt.Sprintf("unknown format %q (valid: text, json)", format),
		}
	}
}
