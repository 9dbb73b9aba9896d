package services

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/yourusername/reserved/metrics"
)

type Format string

const (
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
	FormatTXT   Format = "txt"
	FormatArray Format = "array"
)

const csvHeader = "name"

// ParseFormat maps a format name to a Format, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatCSV, FormatTXT, FormatArray:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Export encodes the sorted set. Text formats return a string; FormatArray
// returns a []string. CSV writes one name per line after a "name" header;
// names holding a comma, a double quote or a line break are quoted per
// RFC 4180, and Import reads them back unchanged.
func (r *Registry) Export(format Format) (any, error) {
	f, err := ParseFormat(string(format))
	if err != nil {
		return nil, err
	}
	names := r.GetAll()
	if f == FormatArray {
		return names, nil
	}
	b, err := encodeNames(names, f)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Import merges names from data into the set and returns how many non-empty
// names the payload held. Text formats accept a string or []byte; FormatArray
// accepts a []string.
func (r *Registry) Import(data any, format Format) (int, error) {
	f, err := ParseFormat(string(format))
	if err != nil {
		return 0, err
	}

	var names []string
	if f == FormatArray {
		list, ok := data.([]string)
		if !ok {
			return 0, fmt.Errorf("%w: array import expects []string, got %T", ErrInvalidArgument, data)
		}
		names = normalizeAll(list, r.caseSensitive)
	} else {
		var raw []byte
		switch v := data.(type) {
		case string:
			raw = []byte(v)
		case []byte:
			raw = v
		default:
			return 0, fmt.Errorf("%w: %s import expects text, got %T", ErrInvalidArgument, f, data)
		}
		parsed, err := parseNames(raw, f)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		names = normalizeAll(parsed, r.caseSensitive)
	}

	r.Add(names...)
	metrics.Imports.WithLabelValues(string(f)).Add(float64(len(names)))
	r.log.Infow("imported reserved names", "format", f, "count", len(names))
	return len(names), nil
}

func encodeNames(names []string, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		return json.Marshal(names)
	case FormatCSV:
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		if err := w.Write([]string{csvHeader}); err != nil {
			return nil, err
		}
		for _, n := range names {
			if err := w.Write([]string{n}); err != nil {
				return nil, err
			}
		}
		w.Flush()
		return bytes.TrimRight(buf.Bytes(), "\n"), w.Error()
	case FormatTXT:
		return []byte(strings.Join(names, "\n")), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
}

// parseNames decodes one of the text encodings. Blank entries are dropped
// and a leading "name" header is skipped for CSV.
func parseNames(data []byte, f Format) ([]string, error) {
	var out []string
	switch f {
	case FormatJSON:
		var names []string
		if err := json.Unmarshal(data, &names); err != nil {
			return nil, fmt.Errorf("decode json list: %w", err)
		}
		for _, n := range names {
			if n = strings.TrimSpace(n); n != "" {
				out = append(out, n)
			}
		}
	case FormatTXT:
		for _, line := range strings.Split(string(data), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				out = append(out, line)
			}
		}
	case FormatCSV:
		cr := csv.NewReader(bytes.NewReader(data))
		cr.FieldsPerRecord = -1
		cr.TrimLeadingSpace = true
		for first := true; ; first = false {
			rec, err := cr.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, fmt.Errorf("decode csv list: %w", err)
			}
			if len(rec) == 0 {
				continue
			}
			v := strings.TrimSpace(rec[0])
			if first && strings.EqualFold(v, csvHeader) {
				continue
			}
			if v != "" {
				out = append(out, v)
			}
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
	return out, nil
}
