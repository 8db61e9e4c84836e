// File: internal/store/store.go

// Package store persists assessment runs to PostgreSQL. Persistence is
// optional; the CLI only constructs a Store when a database URL is
// configured.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/sa-gridsec/gridrisk/api/schemas"
)

// DBPool is an interface that abstracts the pgxpool.Pool to allow for mocking in tests.
type DBPool interface {
	Ping(ctx context.Context) error
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// Store provides a PostgreSQL implementation of assessment persistence.
type Store struct {
	pool DBPool
	log  *zap.Logger
}

// New creates a new store instance and verifies the connection.
func New(ctx context.Context, pool DBPool, logger *zap.Logger) (*Store, error) {
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{
		pool: pool,
		log:  logger.Named("store"),
	}, nil
}

// SaveAssessment records one assessment run: a summary row in `assessments`
// and the flattened findings in bulk. Both land in one transaction so a
// partial save never surfaces in queries.
func (s *Store) SaveAssessment(ctx context.Context, report *schemas.AssessmentReport, findings []schemas.Finding) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		// Use errors.Is so Rollback on an already committed transaction stays quiet.
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			s.log.Error("Failed to rollback transaction", zap.Error(rollbackErr))
		}
	}()

	if err := s.insertAssessment(ctx, tx, report); err != nil {
		return err
	}

	if len(findings) > 0 {
		if err := s.persistFindings(ctx, tx, report.AssessmentID, findings); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	s.log.Info("assessment persisted",
		zap.String("assessment_id", report.AssessmentID),
		zap.Int("findings", len(findings)))
	return nil
}

func (s *Store) insertAssessment(ctx context.Context, tx pgx.Tx, report *schemas.AssessmentReport) error {
	metrics, err := json.Marshal(assessmentMetrics(report))
	if err != nil {
		return fmt.Errorf("failed to marshal assessment metrics: %w", err)
	}

	sql := `
        INSERT INTO assessments (id, system_name, location, tool_version, generated_at, metrics)
        VALUES ($1, $2, $3, $4, $5, $6);
    `
	_, err = tx.Exec(ctx, sql,
		report.AssessmentID, report.System.Name, report.System.Location,
		report.ToolVersion, report.GeneratedAt.UTC(), metrics,
	)
	if err != nil {
		return fmt.Errorf("failed to insert assessment: %w", err)
	}
	return nil
}

// assessmentMetrics distills the headline numbers for the JSONB metrics
// column; the full report stays in the generated artifacts, not the
// database.
func assessmentMetrics(report *schemas.AssessmentReport) map[string]any {
	metrics := map[string]any{
		"total_capacity_kw": report.System.TotalCapacityKW,
		"component_count":   report.System.ComponentCount,
	}
	if v := report.Vulnerabilities; v != nil {
		metrics["cve_matches"] = v.TotalMatches
		metrics["highest_cvss_score"] = v.HighestCVSSScore
	}
	if s := report.Stride; s != nil {
		metrics["total_threats"] = s.TotalThreats
	}
	if d := report.Dread; d != nil {
		metrics["average_risk_score"] = d.AverageRiskScore
		metrics["critical_threats"] = d.CriticalThreats
	}
	if c := report.Compliance; c != nil {
		metrics["compliance_status"] = string(c.Summary.OverallStatus)
		metrics["compliance_score"] = c.Summary.AverageScore
	}
	if e := report.Economic; e != nil {
		metrics["expected_annual_loss_aud"] = e.ExpectedAnnualLoss
	}
	return metrics
}

func (s *Store) persistFindings(ctx context.Context, tx pgx.Tx, assessmentID string, findings []schemas.Finding) error {
	rows := make([][]interface{}, len(findings))
	for i, f := range findings {
		evidence := f.Evidence
		if len(evidence) == 0 || string(evidence) == "null" {
			evidence = []byte("{}")
		}

		// Timestamps go in as UTC to prevent ambiguity.
		observedAtUTC := f.ObservedAt.UTC()

		rows[i] = []interface{}{
			f.ID, assessmentID,
			f.Component, f.Module, f.Title,
			string(f.Severity), f.Description,
			evidence,
			f.Recommendation, f.CWE,
			observedAtUTC,
		}
	}

	copyCount, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"findings"},
		[]string{"id", "assessment_id", "component", "module", "title", "severity", "description", "evidence", "recommendation", "cwe", "observed_at"},
		pgx.CopyFromRows(rows),
	)

	if err != nil {
		return fmt.Errorf("failed to copy findings: %w", err)
	}
	if int(copyCount) != len(findings) {
		return fmt.Errorf("mismatch in copied findings count: expected %d, got %d", len(findings), copyCount)
	}

	return nil
}

// GetFindingsByAssessmentID returns the stored findings for one run, oldest
// first.
func (s *Store) GetFindingsByAssessmentID(ctx context.Context, assessmentID string) ([]schemas.Finding, error) {
	query := `
        SELECT id, observed_at, component, module, title, severity, description, evidence, recommendation, cwe
        FROM findings
        WHERE assessment_id = $1
        ORDER BY observed_at ASC;
    `
	rows, err := s.pool.Query(ctx, query, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query findings: %w", err)
	}
	defer rows.Close()

	var findings []schemas.Finding
	for rows.Next() {
		var f schemas.Finding
		var severityStr string

		err := rows.Scan(
			&f.ID, &f.ObservedAt, &f.Component, &f.Module,
			&f.Title,
			&severityStr,
			&f.Description, &f.Evidence, &f.Recommendation,
			&f.CWE,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan finding row: %w", err)
		}

		f.Severity = schemas.Severity(severityStr)
		f.AssessmentID = assessmentID
		findings = append(findings, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}

	return findings, nil
}
