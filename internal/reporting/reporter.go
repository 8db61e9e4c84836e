// File: internal/reporting/reporter.go

// Package reporting renders assessment reports as JSON, CSV or HTML.
package reporting

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/sa-gridsec/gridrisk/api/schemas"
)

// Reporter defines the interface for writing an assessment report to an
// output.
type Reporter interface {
	// Write renders a single assessment report.
	Write(report *schemas.AssessmentReport) error
	// Close finalizes the report and closes any underlying resources (e.g., file handles).
	Close() error
}

// nopWriteCloser wraps an io.Writer and provides a no-op Close method.
type nopWriteCloser struct {
	io.Writer
}

func (nwc *nopWriteCloser) Close() error {
	return nil
}

// New creates a new reporter based on the specified format and output path.
// An empty or "stdout" path writes to standard output.
func New(format, outputPath string, logger *zap.Logger) (Reporter, error) {
	var writer io.WriteCloser
	isStdOut := outputPath == "" || outputPath == "stdout"

	if isStdOut {
		// Wrap Stdout so Close() is a no-op.
		writer = &nopWriteCloser{os.Stdout}
	} else {
		f, err := os.Create(outputPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create output file %s: %w", outputPath, err)
		}
		writer = f
	}

	cleanup := func() {
		if !isStdOut {
			writer.Close()
		}
	}

	switch format {
	case "json":
		return NewJSONReporter(writer, logger), nil
	case "csv":
		return NewCSVReporter(writer, logger), nil
	case "html":
		return NewHTMLReporter(writer, logger), nil
	default:
		cleanup()
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}
