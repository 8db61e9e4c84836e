// File: internal/reporting/json_reporter.go
package reporting

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/sa-gridsec/gridrisk/api/schemas"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// JSONReporter writes the full report envelope as indented JSON.
type JSONReporter struct {
	writer io.WriteCloser
	logger *zap.Logger
}

// NewJSONReporter takes ownership of the writer.
func NewJSONReporter(writer io.WriteCloser, logger *zap.Logger) *JSONReporter {
	return &JSONReporter{
		writer: writer,
		logger: logger.Named("reporting.json"),
	}
}

func (r *JSONReporter) Write(report *schemas.AssessmentReport) error {
	enc := json.NewEncoder(r.writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	r.logger.Debug("report encoded", zap.String("assessment_id", report.AssessmentID))
	return nil
}

func (r *JSONReporter) Close() error {
	return r.writer.Close()
}
