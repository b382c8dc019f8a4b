// Package document reads and writes pattern and sweep documents.
//
// A document is JSON, YAML or TOML, optionally zstd-compressed (a trailing ".zst"
// on the file name). All three decode to the same generic map, which is then
// validated into pattern and sweep values.
package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"dpcheck/internal/errors"
	"dpcheck/internal/output"
	"dpcheck/internal/pattern"
)

// Format is the syntax of a document.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	TOML Format = "toml"
)

// ParseFormat accepts a format name or file extension without the dot.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "toml":
		return TOML, nil
	default:
		return "", errors.Newf(errors.UnsupportedFormat, "unsupported document format %q (want json, yaml or toml)", s)
	}
}

// FormatFromPath infers the format from a file name and reports whether the file
// is zstd-compressed.
func FormatFromPath(path string) (Format, bool, error) {
	base := strings.ToLower(filepath.Base(path))
	compressed := strings.HasSuffix(base, ".zst")
	base = strings.TrimSuffix(base, ".zst")

	ext := strings.TrimPrefix(filepath.Ext(base), ".")
	if ext == "" {
		return "", false, errors.Newf(errors.UnsupportedFormat, "cannot infer document format of %s", path)
	}
	f, err := ParseFormat(ext)
	if err != nil {
		return "", false, err
	}
	return f, compressed, nil
}

// Decode reads one document into a generic map.
func Decode(r io.Reader, f Format) (map[string]any, error) {
	var doc map[string]any
	var err error
	switch f {
	case JSON:
		dec := json.NewDecoder(r)
		dec.UseNumber()
		err = dec.Decode(&doc)
	case YAML:
		err = yaml.NewDecoder(r).Decode(&doc)
	case TOML:
		err = toml.NewDecoder(r).Decode(&doc)
	default:
		return nil, errors.Newf(errors.UnsupportedFormat, "unsupported document format %q", f)
	}
	if err != nil {
		return nil, errors.New(errors.PayloadInvalid, fmt.Sprintf("decoding %s document", f), err)
	}
	if doc == nil {
		return nil, errors.Newf(errors.PayloadInvalid, "empty %s document", f)
	}
	return doc, nil
}

// Encode writes doc in the given format.
func Encode(w io.Writer, doc map[string]any, f Format) error {
	switch f {
	case JSON:
		data, err := output.EncodeJSON(doc)
		if err != nil {
			return err
		}
		_, err = w.Write(append(data, '\n'))
		return err
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case TOML:
		return toml.NewEncoder(w).Encode(doc)
	default:
		return errors.Newf(errors.UnsupportedFormat, "unsupported document format %q", f)
	}
}

// DecodePattern reads a pattern document.
func DecodePattern(r io.Reader, f Format) (*pattern.Pattern, error) {
	doc, err := Decode(r, f)
	if err != nil {
		return nil, err
	}
	return DecodePatternMap(doc)
}

// DecodeSweep reads a sweep document.
func DecodeSweep(r io.Reader, f Format) (*Sweep, error) {
	doc, err := Decode(r, f)
	if err != nil {
		return nil, err
	}
	return DecodeSweepMap(doc)
}

// MarshalSweep encodes s in the given format.
func MarshalSweep(s *Sweep, f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, EncodeSweepMap(s), f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalPattern encodes p in the given format.
func MarshalPattern(p *pattern.Pattern, f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, EncodePattern(p), f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// IsSweep reports whether doc is a sweep rather than a single pattern.
func IsSweep(doc map[string]any) bool {
	_, ok := doc["entries"]
	return ok
}

// ReadFile decodes the document at path into a generic map, decompressing .zst files.
func ReadFile(path string) (map[string]any, error) {
	f, compressed, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if compressed {
		if data, err = Decompress(data); err != nil {
			return nil, fmt.Errorf("failed to decompress %s: %w", path, err)
		}
	}
	doc, err := Decode(bytes.NewReader(data), f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// ReadPattern reads a pattern document from path.
func ReadPattern(path string) (*pattern.Pattern, error) {
	doc, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := DecodePatternMap(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// ReadSweep reads a sweep document from path.
func ReadSweep(path string) (*Sweep, error) {
	doc, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := DecodeSweepMap(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// WriteSweep writes s to path in the format its name implies.
func WriteSweep(path string, s *Sweep) error {
	f, compressed, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := MarshalSweep(s, f)
	if err != nil {
		return err
	}
	if compressed {
		if data, err = Compress(data); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

var (
	zstdOnce sync.Once
	zstdEnc  *zstd.Encoder
	zstdDec  *zstd.Decoder
	zstdErr  error
)

func zstdCodec() (*zstd.Encoder, *zstd.Decoder, error) {
	zstdOnce.Do(func() {
		zstdEnc, zstdErr = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if zstdErr != nil {
			return
		}
		zstdDec, zstdErr = zstd.NewReader(nil)
	})
	return zstdEnc, zstdDec, zstdErr
}

// Compress zstd-compresses data.
func Compress(data []byte) ([]byte, error) {
	enc, _, err := zstdCodec()
	if err != nil {
		return nil, fmt.Errorf("zstd: %w", err)
	}
	return enc.EncodeAll(data, nil), nil
}

// Decompress reverses Compress.
func Decompress(data []byte) ([]byte, error) {
	_, dec, err := zstdCodec()
	if err != nil {
		return nil, fmt.Errorf("zstd: %w", err)
	}
	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd: %w", err)
	}
	return out, nil
}
