package format

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Write writes command output in the requested format.
//
// Supported formats:
// - json (default)
// - text: flattened "path: value" lines, for reading in a terminal
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch format {
	case "", "json":
		return WriteJSON(w, v, pretty)
	case "text":
		return WriteText(w, v)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteJSON writes strict JSON output for CLI commands.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))
	return err
}

// WriteText flattens v (via its JSON form) into sorted "a.b[0].c: value" lines.
func WriteText(w io.Writer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var x any
	if err := json.Unmarshal(b, &x); err != nil {
		return err
	}
	var lines []string
	flatten("", x, &lines)
	for _, ln := range lines {
		if _, err := fmt.Fprintln(w, ln); err != nil {
			return err
		}
	}
	return nil
}

func flatten(prefix string, v any, out *[]string) {
	switch t := v.(type) {
	case map[string]any:
		if len(t) == 0 {
			*out = append(*out, prefix+": {}")
			return
		}
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			p := k
			if prefix != "" {
				p = prefix + "." + k
			}
			flatten(p, t[k], out)
		}
	case []any:
		if len(t) == 0 {
			*out = append(*out, prefix+": []")
			return
		}
		for i, it := range t {
			flatten(fmt.Sprintf("%s[%d]", prefix, i), it, out)
		}
	case nil:
		*out = append(*out, prefix+": null")
	case string:
		*out = append(*out, prefix+": "+strings.ReplaceAll(t, "\n", `\n`))
	default:
		*out = append(*out, fmt.Sprintf("%s: %v", prefix, t))
	}
}
