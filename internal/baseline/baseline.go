package baseline

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/hex"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	"dpcheck/internal/document"
	"dpcheck/internal/errors"
	"dpcheck/internal/paths"
)

// Record is one stored baseline. Document holds the canonical JSON form of the
// sweep; it is empty in List results.
type Record struct {
	ID        string    `json:"id"`
	Feature   string    `json:"feature"`
	Name      string    `json:"name"`
	Mode      string    `json:"mode"`
	Entries   int       `json:"entries"`
	Digest    string    `json:"digest"`
	CreatedAt time.Time `json:"createdAt"`
	Document  []byte    `json:"-"`
}

// Sweep decodes the stored document.
func (r *Record) Sweep() (*document.Sweep, error) {
	if len(r.Document) == 0 {
		return nil, errors.Newf(errors.InternalError, "baseline %s/%s was loaded without its document", r.Feature, r.Name)
	}
	return document.DecodeSweep(bytes.NewReader(r.Document), document.JSON)
}

// Digest returns the hex blake2b-256 digest of data.
func Digest(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func notFound(feature, name string) error {
	return errors.Newf(errors.BaselineNotFound, "no baseline %q for feature %q", name, feature).
		WithDetails(map[string]string{"feature": feature, "name": name})
}

// Put stores s as the baseline for feature under the sweep's name, replacing any
// previous baseline. Storing an identical sweep again changes nothing.
func (s *Store) Put(ctx context.Context, feature string, sw *document.Sweep) (*Record, error) {
	if !paths.ValidName(feature) {
		return nil, errors.Newf(errors.PayloadInvalid, "invalid feature name %q", feature)
	}
	if !paths.ValidName(sw.Name()) {
		return nil, errors.Newf(errors.PayloadInvalid, "sweep name %q cannot name a baseline", sw.Name())
	}

	doc, err := document.MarshalSweep(sw, document.JSON)
	if err != nil {
		return nil, fmt.Errorf("failed to encode sweep: %w", err)
	}
	rec := &Record{
		ID:        uuid.New().String(),
		Feature:   feature,
		Name:      sw.Name(),
		Mode:      sw.Mode().String(),
		Entries:   sw.Len(),
		Digest:    Digest(doc),
		CreatedAt: time.Now().UTC(),
		Document:  doc,
	}

	existing, err := s.Get(ctx, feature, rec.Name)
	if err == nil && existing.Digest == rec.Digest {
		s.logger.Debug("Baseline unchanged", "feature", feature, "name", rec.Name, "digest", rec.Digest)
		return existing, nil
	}
	if err != nil && !errors.HasCode(err, errors.BaselineNotFound) && !errors.HasCode(err, errors.BaselineCorrupt) {
		return nil, err
	}

	stored := doc
	if s.opts.Compress {
		if stored, err = document.Compress(doc); err != nil {
			return nil, err
		}
	}

	_, err = s.conn.ExecContext(ctx, `
		INSERT INTO baselines (id, feature, name, mode, entries, digest, created_at, compressed, document)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(feature, name) DO UPDATE SET
			mode = excluded.mode,
			entries = excluded.entries,
			digest = excluded.digest,
			created_at = excluded.created_at,
			compressed = excluded.compressed,
			document = excluded.document
	`,
		rec.ID, rec.Feature, rec.Name, rec.Mode, rec.Entries, rec.Digest,
		formatTime(rec.CreatedAt), s.opts.Compress, stored,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to store baseline: %w", err)
	}
	// A replaced row keeps its original id, which checks reference.
	if err := s.conn.QueryRowContext(ctx, `SELECT id FROM baselines WHERE feature = ? AND name = ?`,
		feature, rec.Name).Scan(&rec.ID); err != nil {
		return nil, fmt.Errorf("failed to read back baseline id: %w", err)
	}

	s.logger.Info("Stored baseline",
		"feature", feature,
		"name", rec.Name,
		"entries", rec.Entries,
		"digest", rec.Digest[:12],
	)
	return rec, nil
}

// Get loads a baseline with its document and verifies the stored digest.
func (s *Store) Get(ctx context.Context, feature, name string) (*Record, error) {
	row := s.conn.QueryRowContext(ctx, `
		SELECT id, feature, name, mode, entries, digest, created_at, compressed, document
		FROM baselines WHERE feature = ? AND name = ?
	`, feature, name)

	var rec Record
	var createdAt string
	var compressed bool
	var stored []byte
	err := row.Scan(&rec.ID, &rec.Feature, &rec.Name, &rec.Mode, &rec.Entries, &rec.Digest,
		&createdAt, &compressed, &stored)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, notFound(feature, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load baseline: %w", err)
	}
	rec.CreatedAt = parseTime(createdAt)

	if compressed {
		if stored, err = document.Decompress(stored); err != nil {
			return nil, errors.New(errors.BaselineCorrupt,
				fmt.Sprintf("baseline %s/%s cannot be decompressed", feature, name), err)
		}
	}
	if got := Digest(stored); got != rec.Digest {
		s.logger.Warn("Baseline digest mismatch", "feature", feature, "name", name, "want", rec.Digest, "got", got)
		return nil, errors.Newf(errors.BaselineCorrupt, "baseline %s/%s does not match its digest", feature, name)
	}
	rec.Document = stored
	return &rec, nil
}

// List returns baselines without their documents, ordered by feature and name.
// An empty feature lists every feature.
func (s *Store) List(ctx context.Context, feature string) ([]Record, error) {
	query := `SELECT id, feature, name, mode, entries, digest, created_at FROM baselines`
	var args []interface{}
	if feature != "" {
		query += ` WHERE feature = ?`
		args = append(args, feature)
	}
	query += ` ORDER BY feature, name`

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list baselines: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []Record
	for rows.Next() {
		var rec Record
		var createdAt string
		if err := rows.Scan(&rec.ID, &rec.Feature, &rec.Name, &rec.Mode, &rec.Entries, &rec.Digest, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan baseline: %w", err)
		}
		rec.CreatedAt = parseTime(createdAt)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating baselines: %w", err)
	}
	return records, nil
}

// Delete removes a baseline and its check history.
func (s *Store) Delete(ctx context.Context, feature, name string) error {
	result, err := s.conn.ExecContext(ctx, `DELETE FROM baselines WHERE feature = ? AND name = ?`, feature, name)
	if err != nil {
		return fmt.Errorf("failed to delete baseline: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return notFound(feature, name)
	}
	s.logger.Info("Deleted baseline", "feature", feature, "name", name)
	return nil
}
