package document

import (
	"fmt"

	"dpcheck/internal/pattern"
)

// DecodePayload converts a generic document map into a pattern payload. Errors name
// the offending path, e.g. "disks[3].idx". Keys the payload does not use are ignored.
//
// Lines may be written nested, [[x1, y1], [x2, y2]], or flat, [x1, y1, x2, y2]; either
// form may carry an intensity as its last element.
func DecodePayload(doc map[string]any) (pattern.Payload, error) {
	var p pattern.Payload

	name, ok := doc["name"].(string)
	if !ok || name == "" {
		return p, invalid("name", "want a non-empty string, got %v", doc["name"])
	}
	p.Name = name

	nums, ok := asMap(doc["nums"])
	if !ok {
		return p, invalid("nums", "want a table of counts, got %T", doc["nums"])
	}
	for _, c := range []struct {
		key string
		dst *int
	}{
		{"nklines", &p.Nums.NKLines},
		{"ndisks", &p.Nums.NDisks},
		{"nhlines", &p.Nums.NHLines},
	} {
		n, ok := asInt(nums[c.key])
		if !ok || n < 0 {
			return p, invalid("nums."+c.key, "want a non-negative integer, got %v", nums[c.key])
		}
		*c.dst = n
	}

	var err error
	if p.KLines, err = decodeLines("klines", doc); err != nil {
		return p, err
	}
	if p.HLines, err = decodeLines("hlines", doc); err != nil {
		return p, err
	}
	if p.Disks, err = decodeDisks(doc); err != nil {
		return p, err
	}

	if b, ok := doc["bounds"]; ok && b != nil {
		xy, err := floats("bounds", b, 2)
		if err != nil {
			return p, err
		}
		p.Bounds = [2]float64{xy[0], xy[1]}
	}
	return p, nil
}

func requiredList(doc map[string]any, key string) ([]any, error) {
	v, present := doc[key]
	if !present {
		return nil, invalid(key, "missing")
	}
	if v == nil {
		return nil, nil
	}
	l, ok := asList(v)
	if !ok {
		return nil, invalid(key, "want a list, got %T", v)
	}
	return l, nil
}

func decodeLines(key string, doc map[string]any) ([]pattern.RawLine, error) {
	items, err := requiredList(doc, key)
	if err != nil {
		return nil, err
	}
	lines := make([]pattern.RawLine, 0, len(items))
	for i, item := range items {
		l, err := decodeLine(fmt.Sprintf("%s[%d]", key, i), item)
		if err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, nil
}

func decodeLine(path string, v any) (pattern.RawLine, error) {
	var l pattern.RawLine
	parts, ok := asList(v)
	if !ok {
		return l, invalid(path, "want a list, got %T", v)
	}

	var values []float64
	if len(parts) > 0 {
		if _, nested := asList(parts[0]); nested {
			if len(parts) != 2 && len(parts) != 3 {
				return l, invalid(path, "want two endpoints and an optional intensity, got %d elements", len(parts))
			}
			p1, err := floats(path+"[0]", parts[0], 2)
			if err != nil {
				return l, err
			}
			p2, err := floats(path+"[1]", parts[1], 2)
			if err != nil {
				return l, err
			}
			values = append(p1, p2...)
			if len(parts) == 3 {
				in, ok := asFloat(parts[2])
				if !ok {
					return l, invalid(path+"[2]", "want an intensity, got %T", parts[2])
				}
				values = append(values, in)
			}
		}
	}
	if values == nil {
		if len(parts) != 4 && len(parts) != 5 {
			return l, invalid(path, "want [x1, y1, x2, y2] with an optional intensity, got %d elements", len(parts))
		}
		var err error
		if values, err = floats(path, v, len(parts)); err != nil {
			return l, err
		}
	}

	l = pattern.RawLine{X1: values[0], Y1: values[1], X2: values[2], Y2: values[3]}
	if len(values) == 5 {
		l.Intensity = values[4]
	}
	return l, nil
}

func decodeDisks(doc map[string]any) ([]pattern.RawDisk, error) {
	items, err := requiredList(doc, "disks")
	if err != nil {
		return nil, err
	}
	disks := make([]pattern.RawDisk, 0, len(items))
	for i, item := range items {
		path := fmt.Sprintf("disks[%d]", i)
		m, ok := asMap(item)
		if !ok {
			return nil, invalid(path, "want a table with c, r and idx, got %T", item)
		}
		c, err := floats(path+".c", m["c"], 2)
		if err != nil {
			return nil, err
		}
		r, ok := asFloat(m["r"])
		if !ok {
			return nil, invalid(path+".r", "want a number, got %v", m["r"])
		}
		idx, err := ints(path+".idx", m["idx"], 3)
		if err != nil {
			return nil, err
		}
		disks = append(disks, pattern.RawDisk{
			C:   [2]float64{c[0], c[1]},
			R:   r,
			Idx: [3]int{idx[0], idx[1], idx[2]},
		})
	}
	return disks, nil
}

// EncodePayload returns the nested document form of p. Intensity is written only
// when nonzero and bounds only when set.
func EncodePayload(p pattern.Payload) map[string]any {
	doc := map[string]any{
		"name": p.Name,
		"nums": map[string]any{
			"nklines": p.Nums.NKLines,
			"ndisks":  p.Nums.NDisks,
			"nhlines": p.Nums.NHLines,
		},
		"klines": encodeLines(p.KLines),
		"hlines": encodeLines(p.HLines),
	}
	disks := make([]any, 0, len(p.Disks))
	for _, d := range p.Disks {
		disks = append(disks, map[string]any{
			"c":   []any{d.C[0], d.C[1]},
			"r":   d.R,
			"idx": []any{d.Idx[0], d.Idx[1], d.Idx[2]},
		})
	}
	doc["disks"] = disks
	if p.Bounds != [2]float64{} {
		doc["bounds"] = []any{p.Bounds[0], p.Bounds[1]}
	}
	return doc
}

// EncodePattern returns the document form of a constructed pattern.
func EncodePattern(p *pattern.Pattern) map[string]any {
	return EncodePayload(p.Payload())
}

func encodeLines(lines []pattern.RawLine) []any {
	out := make([]any, 0, len(lines))
	for _, l := range lines {
		line := []any{[]any{l.X1, l.Y1}, []any{l.X2, l.Y2}}
		if l.Intensity != 0 {
			line = append(line, l.Intensity)
		}
		out = append(out, line)
	}
	return out
}
