package render_test

import (
	"strings"
	"testing"

	"github.com/shpitdev/llm-data-extract/internal/extract"
	"github.com/shpitdev/llm-data-extract/internal/render"
)

func TestJSONPrettyPrints(t *testing.T) {
	out := render.JSON(map[string]any{
		"full_name":    "Jane Doe",
		"order_amount": 149.99,
	})
	if !strings.Contains(out, "\n  \"full_name\": \"Jane Doe\"") {
		t.Fatalf("expected indented output, got:\n%s", out)
	}
	if !strings.Contains(out, "149.99") {
		t.Fatalf("missing numeric field:\n%s", out)
	}
}

func TestTableContainsHeaderAndCells(t *testing.T) {
	out := render.Table(&extract.RecordTable{
		Columns: []string{"Product Name", "Price"},
		Rows: [][]string{
			{"A-series laptop", "1200"},
			{"B-series monitor", "400"},
		},
	})
	for _, want := range []string{"Product Name", "Price", "A-series laptop", "B-series monitor", "400"} {
		if !strings.Contains(out, want) {
			t.Fatalf("grid missing %q:\n%s", want, out)
		}
	}
}

func TestFailureShowsReasonAndRawText(t *testing.T) {
	raw := `Sorry, here is your data: {"a":1}`
	out := render.Failure(extract.FormatJSON, &extract.ParseFailure{
		Reason:  "invalid character 'S' looking for beginning of value",
		RawText: raw,
	})
	if !strings.Contains(out, "invalid character 'S'") {
		t.Fatalf("missing reason:\n%s", out)
	}
	if !strings.Contains(out, raw) {
		t.Fatalf("missing verbatim raw text:\n%s", out)
	}
}

func TestResultDispatchesOnShape(t *testing.T) {
	jsonRes := extract.Parse(`{"a":1}`, extract.FormatJSON)
	if out := render.Result(jsonRes); !strings.Contains(out, `"a": 1`) {
		t.Fatalf("json dispatch:\n%s", out)
	}

	csvRes := extract.Parse("a,b\n1,2", extract.FormatCSV)
	if out := render.Result(csvRes); !strings.Contains(out, "1") || !strings.Contains(out, "b") {
		t.Fatalf("csv dispatch:\n%s", out)
	}

	failRes := extract.Parse("nope", extract.FormatJSON)
	if out := render.Result(failRes); !strings.Contains(out, "nope") {
		t.Fatalf("failure dispatch:\n%s", out)
	}
}
