package extract

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
)

// Parse interprets a raw model completion according to the requested
// format. It is total: every decode problem is converted into the Failure
// shape carrying the completion verbatim, and nothing is ever raised to
// the caller. Backend failures never reach this function.
func Parse(raw string, format Format) Result {
	switch format {
	case FormatJSON:
		return parseJSON(raw)
	case FormatCSV:
		return parseCSV(raw)
	default:
		return failure(format, fmt.Sprintf("unsupported output format %q", format), raw)
	}
}

// parseJSON decodes the completion as a single JSON value. Surrounding
// whitespace is tolerated; surrounding prose is not. If the model wrapped
// the payload in explanatory text the decode fails on purpose: the prompt
// instruction is the mitigation, not parser leniency.
func parseJSON(raw string) Result {
	var value any
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &value); err != nil {
		return failure(FormatJSON, err.Error(), raw)
	}
	return Result{Format: FormatJSON, Value: value}
}

// parseCSV decodes the completion as a comma-delimited table. The first
// non-blank line is the header; its column names must be unique and
// non-empty. A row whose field count differs from the header width fails
// the whole table, never a partially populated one.
func parseCSV(raw string) Result {
	cr := csv.NewReader(strings.NewReader(raw))

	header, err := cr.Read()
	if err != nil {
		return failure(FormatCSV, fmt.Sprintf("read header: %v", err), raw)
	}

	columns := make([]string, len(header))
	seen := make(map[string]struct{}, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			return failure(FormatCSV, fmt.Sprintf("header column %d is empty", i+1), raw)
		}
		if _, dup := seen[name]; dup {
			return failure(FormatCSV, fmt.Sprintf("duplicate header column %q", name), raw)
		}
		seen[name] = struct{}{}
		columns[i] = name
	}

	rows, err := cr.ReadAll()
	if err != nil {
		return failure(FormatCSV, fmt.Sprintf("read rows: %v", err), raw)
	}

	return Result{
		Format: FormatCSV,
		Table:  &RecordTable{Columns: columns, Rows: rows},
	}
}
