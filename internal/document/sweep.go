package document

import (
	"fmt"

	"dpcheck/internal/controls"
	"dpcheck/internal/pattern"
	"dpcheck/internal/sweep"
)

// Sweep is a sweep keyed by microscope controls, the only kind documents carry.
type Sweep = sweep.Collection[controls.EMControl]

// DecodeSweepMap builds a sweep from its document form:
//
//	{name, mode: normal|cbed (or 1|2), entries: [{controls: {...}, pattern: {...}}]}
//
// An entry without controls uses controls.Default.
func DecodeSweepMap(doc map[string]any) (*Sweep, error) {
	name, ok := doc["name"].(string)
	if !ok || name == "" {
		return nil, invalid("name", "want a non-empty string, got %v", doc["name"])
	}
	mode, err := decodeMode(doc["mode"])
	if err != nil {
		return nil, err
	}

	s, err := sweep.New[controls.EMControl](name, mode)
	if err != nil {
		return nil, err
	}

	entries, err := requiredList(doc, "entries")
	if err != nil {
		return nil, err
	}
	for i, item := range entries {
		path := fmt.Sprintf("entries[%d]", i)
		m, ok := asMap(item)
		if !ok {
			return nil, invalid(path, "want a table with controls and pattern, got %T", item)
		}

		c := controls.Default()
		if raw, present := m["controls"]; present {
			cm, ok := asMap(raw)
			if !ok {
				return nil, invalid(path+".controls", "want a table, got %T", raw)
			}
			if c, err = DecodeControls(cm); err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
		}

		pm, ok := asMap(m["pattern"])
		if !ok {
			return nil, invalid(path+".pattern", "want a table, got %T", m["pattern"])
		}
		p, err := DecodePatternMap(pm)
		if err != nil {
			return nil, fmt.Errorf("%s.pattern: %w", path, err)
		}
		if err := s.Add(c, p); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return s, nil
}

func decodeMode(v any) (sweep.Mode, error) {
	switch m := v.(type) {
	case string:
		return sweep.ParseMode(m)
	case nil:
		return 0, invalid("mode", "missing")
	default:
		n, ok := asInt(v)
		if !ok {
			return 0, invalid("mode", "want normal, cbed, 1 or 2, got %v", v)
		}
		return sweep.ParseMode(fmt.Sprint(n))
	}
}

// DecodePatternMap builds a pattern from its decoded document form.
func DecodePatternMap(doc map[string]any) (*pattern.Pattern, error) {
	payload, err := DecodePayload(doc)
	if err != nil {
		return nil, err
	}
	return pattern.New(payload)
}

// EncodeSweepMap returns the document form of s in entry order.
func EncodeSweepMap(s *Sweep) map[string]any {
	entries := make([]any, 0, s.Len())
	for _, e := range s.Entries() {
		entries = append(entries, map[string]any{
			"controls": e.Controls.ToMap(),
			"pattern":  EncodePattern(e.Pattern),
		})
	}
	return map[string]any{
		"name":    s.Name(),
		"mode":    s.Mode().String(),
		"entries": entries,
	}
}
