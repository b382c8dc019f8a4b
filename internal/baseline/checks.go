package baseline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Check is the outcome of comparing one new run against a baseline.
type Check struct {
	ID          string    `json:"id"`
	BaselineID  string    `json:"baselineId"`
	CreatedAt   time.Time `json:"createdAt"`
	Passed      bool      `json:"passed"`
	Differences int       `json:"differences"`
	Report      []string  `json:"report,omitempty"`
}

// RecordCheck stores c, assigning its ID and timestamp when unset.
func (s *Store) RecordCheck(ctx context.Context, c *Check) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	report, err := json.Marshal(c.Report)
	if err != nil {
		return fmt.Errorf("failed to encode check report: %w", err)
	}

	_, err = s.conn.ExecContext(ctx, `
		INSERT INTO checks (id, baseline_id, created_at, passed, differences, report)
		VALUES (?, ?, ?, ?, ?, ?)
	`, c.ID, c.BaselineID, formatTime(c.CreatedAt), c.Passed, c.Differences, string(report))
	if err != nil {
		return fmt.Errorf("failed to record check: %w", err)
	}

	s.logger.Debug("Recorded check", "checkId", c.ID, "baselineId", c.BaselineID, "passed", c.Passed)
	return nil
}

// ListChecks returns the most recent checks of a baseline, newest first.
// A non-positive limit defaults to 20.
func (s *Store) ListChecks(ctx context.Context, baselineID string, limit int) ([]Check, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, baseline_id, created_at, passed, differences, report
		FROM checks WHERE baseline_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, baselineID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list checks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var checks []Check
	for rows.Next() {
		var c Check
		var createdAt, report string
		if err := rows.Scan(&c.ID, &c.BaselineID, &createdAt, &c.Passed, &c.Differences, &report); err != nil {
			return nil, fmt.Errorf("failed to scan check: %w", err)
		}
		c.CreatedAt = parseTime(createdAt)
		if err := json.Unmarshal([]byte(report), &c.Report); err != nil {
			return nil, fmt.Errorf("failed to decode check report: %w", err)
		}
		checks = append(checks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating checks: %w", err)
	}
	return checks, nil
}
