package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	apperrors "tabscope/internal/errors"
)

// readJSON accepts an array of flat objects. Column order follows first
// appearance across records.
func readJSON(path string) ([]string, [][]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, "read JSON file")
	}

	var objects []map[string]any
	if err := json.Unmarshal(raw, &objects); err != nil {
		return nil, nil, apperrors.Wrap(err, "parse JSON file: expected an array of objects")
	}
	if len(objects) == 0 {
		return nil, nil, apperrors.InvalidInput("JSON file has no records")
	}

	headers := []string{}
	seen := map[string]bool{}
	for _, obj := range objects {
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				headers = append(headers, k)
			}
		}
	}

	records := make([][]string, len(objects))
	for i, obj := range objects {
		rec := make([]string, len(headers))
		for j, h := range headers {
			rec[j] = stringify(obj[h])
		}
		records[i] = rec
	}
	return headers, records, nil
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	case bool:
		return fmt.Sprintf("%t", t)
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}
