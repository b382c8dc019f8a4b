package baseline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"dpcheck/internal/document"
	"dpcheck/internal/errors"
	"dpcheck/internal/paths"
)

// ManifestFile is the name of the index written by Export.
const ManifestFile = "manifest.toml"

const manifestVersion = 1

// Manifest indexes an exported baseline directory.
type Manifest struct {
	Version    int             `toml:"version"`
	ExportedAt time.Time       `toml:"exported_at"`
	Baselines  []ManifestEntry `toml:"baseline"`
}

// ManifestEntry describes one exported baseline. File is relative to the manifest
// and Digest covers the uncompressed document.
type ManifestEntry struct {
	Feature string `toml:"feature"`
	Name    string `toml:"name"`
	Mode    string `toml:"mode"`
	Entries int    `toml:"entries"`
	Digest  string `toml:"digest"`
	File    string `toml:"file"`
}

// Export writes every baseline to dir as <feature>/<name>.json.zst and indexes
// them in manifest.toml.
func (s *Store) Export(ctx context.Context, dir string) (*Manifest, error) {
	records, err := s.List(ctx, "")
	if err != nil {
		return nil, err
	}

	m := &Manifest{Version: manifestVersion, ExportedAt: time.Now().UTC()}
	for _, summary := range records {
		rec, err := s.Get(ctx, summary.Feature, summary.Name)
		if err != nil {
			return nil, err
		}
		path, err := paths.BaselineFile(dir, rec.Feature, rec.Name, ".json.zst")
		if err != nil {
			return nil, err
		}
		data, err := document.Compress(rec.Document)
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create export directory: %w", err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}

		rel, err := paths.RelativeTo(path, dir)
		if err != nil {
			return nil, err
		}
		m.Baselines = append(m.Baselines, ManifestEntry{
			Feature: rec.Feature,
			Name:    rec.Name,
			Mode:    rec.Mode,
			Entries: rec.Entries,
			Digest:  rec.Digest,
			File:    rel,
		})
	}

	f, err := os.Create(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create manifest: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(m); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to write manifest: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close manifest: %w", err)
	}

	s.logger.Info("Exported baselines", "dir", dir, "count", len(m.Baselines))
	return m, nil
}

// ReadManifest loads the manifest of an export directory.
func ReadManifest(dir string) (*Manifest, error) {
	var m Manifest
	if _, err := toml.DecodeFile(filepath.Join(dir, ManifestFile), &m); err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	if m.Version != manifestVersion {
		return nil, errors.Newf(errors.UnsupportedFormat, "unsupported manifest version %d", m.Version)
	}
	return &m, nil
}

// Import stores every baseline listed in dir's manifest. Each file is checked
// against its manifest digest before anything is written; a mismatch aborts the
// import with BASELINE_CORRUPT. Import is not atomic: if a Put fails, the
// baselines stored before it stay stored and are returned with the error.
func (s *Store) Import(ctx context.Context, dir string) ([]*Record, error) {
	m, err := ReadManifest(dir)
	if err != nil {
		return nil, err
	}

	sweeps := make([]*document.Sweep, 0, len(m.Baselines))
	for _, e := range m.Baselines {
		path := filepath.Join(dir, filepath.FromSlash(e.File))
		if !paths.IsWithin(path, dir) {
			return nil, errors.Newf(errors.BaselineCorrupt, "manifest entry %s/%s points outside %s", e.Feature, e.Name, dir)
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		doc, err := document.Decompress(raw)
		if err != nil {
			return nil, errors.New(errors.BaselineCorrupt, fmt.Sprintf("%s cannot be decompressed", e.File), err)
		}
		if got := Digest(doc); got != e.Digest {
			return nil, errors.Newf(errors.BaselineCorrupt, "%s does not match its manifest digest", e.File).
				WithDetails(map[string]string{"feature": e.Feature, "name": e.Name})
		}
		sw, err := document.DecodeSweep(bytes.NewReader(doc), document.JSON)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.File, err)
		}
		if sw.Name() != e.Name {
			return nil, errors.Newf(errors.BaselineCorrupt, "%s holds sweep %q, manifest says %q", e.File, sw.Name(), e.Name)
		}
		sweeps = append(sweeps, sw)
	}

	records := make([]*Record, 0, len(sweeps))
	for i, sw := range sweeps {
		rec, err := s.Put(ctx, m.Baselines[i].Feature, sw)
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}

	s.logger.Info("Imported baselines", "dir", dir, "count", len(records))
	return records, nil
}
