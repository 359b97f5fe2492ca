package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// Output formats. Everything except pretty goes through emit.
const (
	formatPretty = "pretty"
	formatJSON   = "json"
	formatJSONL  = "jsonl"
	formatTSV    = "tsv"
)

func validFormat(format string) bool {
	switch format {
	case formatPretty, formatJSON, formatJSONL, formatTSV:
		return true
	}
	return false
}

// humanOutput reports whether the run renders pretty text instead of
// structured data.
func humanOutput() bool {
	return outputFormat == formatPretty
}

// selectedFields returns the --fields projection, nil when unset.
func selectedFields() []string {
	raw := strings.TrimSpace(fieldsFlag)
	if raw == "" {
		return nil
	}
	var fields []string
	for _, piece := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(piece); trimmed != "" {
			fields = append(fields, trimmed)
		}
	}
	return fields
}

// emit writes payload to stdout in the selected structured format.
// defaultFields is the projection applied when --fields is not set;
// pass nil to emit the payload unprojected. Projection order follows
// the field list, and a field missing from a row emits null.
func emit(payload any, defaultFields []string) error {
	fields := selectedFields()
	if fields == nil {
		fields = defaultFields
	}
	switch outputFormat {
	case formatJSON:
		return emitJSON(os.Stdout, payload, fields)
	case formatJSONL:
		return emitJSONL(os.Stdout, payload, fields)
	case formatTSV:
		return emitTSV(os.Stdout, payload, fields)
	}
	return fmt.Errorf("unsupported output format: %s", outputFormat)
}

// row is one output record: the original bytes, the key order as
// marshaled, and the per-key raw values.
type row struct {
	raw    json.RawMessage
	keys   []string
	values map[string]json.RawMessage
}

func buildRows(raw []byte) ([]row, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, false, fmt.Errorf("decoding output rows: %w", err)
		}
		rows := make([]row, 0, len(items))
		for _, item := range items {
			rows = append(rows, decodeRow(item))
		}
		return rows, true, nil
	}
	return []row{decodeRow(trimmed)}, false, nil
}

func decodeRow(raw json.RawMessage) row {
	var values map[string]json.RawMessage
	_ = json.Unmarshal(raw, &values)
	return row{raw: raw, keys: orderedKeys(raw), values: values}
}

// orderedKeys walks the top-level object tokens so key order survives;
// unmarshaling into a map would lose it.
func orderedKeys(raw json.RawMessage) []string {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil
	}
	var keys []string
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil
		}
		keys = append(keys, key)
		if err := skipValue(dec); err != nil {
			return nil
		}
	}
	return keys
}

func skipValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	delim, ok := tok.(json.Delim)
	if !ok || (delim != '{' && delim != '[') {
		return nil
	}
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if delim, ok := tok.(json.Delim); ok {
			switch delim {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	return nil
}

// projectRow builds a compact object holding exactly fields, in order.
func projectRow(r row, fields []string) []byte {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(field)
		buf.Write(key)
		buf.WriteByte(':')
		if value, ok := r.values[field]; ok && value != nil {
			buf.Write(value)
		} else {
			buf.WriteString("null")
		}
	}
	buf.WriteByte('}')
	return buf.Bytes()
}

func emitJSON(w io.Writer, payload any, fields []string) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	body := json.RawMessage(raw)
	if fields != nil {
		rows, isList, err := buildRows(raw)
		if err != nil {
			return err
		}
		var compact bytes.Buffer
		if isList {
			compact.WriteByte('[')
			for i, r := range rows {
				if i > 0 {
					compact.WriteByte(',')
				}
				compact.Write(projectRow(r, fields))
			}
			compact.WriteByte(']')
		} else {
			compact.Write(projectRow(rows[0], fields))
		}
		body = compact.Bytes()
	}
	var indented bytes.Buffer
	if err := json.Indent(&indented, body, "", "  "); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}
	_, err = fmt.Fprintln(w, indented.String())
	return err
}

func emitJSONL(w io.Writer, payload any, fields []string) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	rows, _, err := buildRows(raw)
	if err != nil {
		return err
	}
	for _, r := range rows {
		line := []byte(nil)
		if fields != nil {
			line = projectRow(r, fields)
		} else {
			var compact bytes.Buffer
			if err := json.Compact(&compact, r.raw); err != nil {
				return fmt.Errorf("formatting output: %w", err)
			}
			line = compact.Bytes()
		}
		if _, err := fmt.Fprintln(w, string(line)); err != nil {
			return err
		}
	}
	return nil
}

func emitTSV(w io.Writer, payload any, fields []string) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	rows, _, err := buildRows(raw)
	if err != nil {
		return err
	}
	header := fields
	if header == nil && len(rows) > 0 {
		header = rows[0].keys
	}
	if len(header) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, strings.Join(header, "\t")); err != nil {
		return err
	}
	for _, r := range rows {
		cells := make([]string, len(header))
		for i, field := range header {
			cells[i] = tsvCell(r.values[field])
		}
		if _, err := fmt.Fprintln(w, strings.Join(cells, "\t")); err != nil {
			return err
		}
	}
	return nil
}

var cellSanitizer = strings.NewReplacer("\t", " ", "\n", " ")

// tsvCell renders a raw JSON value as a single TSV-safe cell. Nulls
// become empty, strings are unquoted, and nested values stay compact
// JSON.
func tsvCell(raw json.RawMessage) string {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var value string
		if err := json.Unmarshal(raw, &value); err == nil {
			return cellSanitizer.Replace(value)
		}
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return cellSanitizer.Replace(string(raw))
	}
	return cellSanitizer.Replace(compact.String())
}
