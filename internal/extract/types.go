package extract

import (
	"fmt"
	"strings"
)

// Format selects the shape the model is asked for and the parse strategy
// applied to its reply. The two always travel together: a JSON request can
// never produce a record table, and vice versa.
type Format string

const (
	FormatJSON Format = "JSON"
	FormatCSV  Format = "CSV"
)

// ParseFormat normalizes a user-supplied format name.
func ParseFormat(raw string) (Format, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "JSON":
		return FormatJSON, nil
	case "CSV":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want json or csv)", raw)
	}
}

// Request is a single extraction request. Immutable once constructed;
// nothing about it outlives the call it is passed to.
type Request struct {
	Prompt string
	Format Format
}

// RecordTable is an ordered set of named-column rows. Column order and row
// order are preserved exactly as they appeared in the model output. All
// field values stay strings; numeric coercion is a presentation concern.
type RecordTable struct {
	Columns []string
	Rows    [][]string
}

// Field returns the value of the named column in row i, or "" if the
// column does not exist.
func (t *RecordTable) Field(i int, column string) string {
	for c, name := range t.Columns {
		if name == column {
			return t.Rows[i][c]
		}
	}
	return ""
}

// ParseFailure reports that the model responded but its text could not be
// interpreted in the requested format. RawText is the completion verbatim
// so the caller can inspect it and adjust the prompt.
type ParseFailure struct {
	Reason  string
	RawText string
}

// Result is the outcome of interpreting one completion. Exactly one of the
// three shapes is populated per request:
//
//   - Value    when Format is JSON and decoding succeeded
//   - Table    when Format is CSV and decoding succeeded
//   - Failure  when the completion could not be interpreted
type Result struct {
	Format  Format
	Value   any
	Table   *RecordTable
	Failure *ParseFailure
}

// Ok reports whether the completion parsed successfully.
func (r Result) Ok() bool {
	return r.Failure == nil
}

func failure(format Format, reason, raw string) Result {
	return Result{
		Format:  format,
		Failure: &ParseFailure{Reason: reason, RawText: raw},
	}
}
