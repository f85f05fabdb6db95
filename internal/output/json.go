package output

import (
	"encoding/json"
	"fmt"

	"github.com/ariel-frischer/changelog-checker/internal/report"
)

// JSONFormatter writes a report.Document as indented JSON.
type JSONFormatter struct {
	statusPrinter
	opts Options
}

// NewJSONFormatter creates a JSONFormatter.
func NewJSONFormatter(opts Options) *JSONFormatter {
	opts = opts.withDefaults()
	return &JSONFormatter{statusPrinter: statusPrinter{w: opts.Status}, opts: opts}
}

// DisplayResults implements Formatter.
func (j *JSONFormatter) DisplayResults(reports []report.PackageReport) error {
	data, err := json.MarshalIndent(report.NewDocument(reports, j.opts.Now().UTC()), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}

	w, closeFn, err := writeTo(j.opts)
	if err != nil {
		return err
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		closeFn()
		return fmt.Errorf("writing report: %w", err)
	}
	return closeFn()
}
