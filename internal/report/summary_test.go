package report

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopmigrate/internal/ingest"
	"shopmigrate/internal/models"
	"shopmigrate/internal/telemetry"
)

func TestSummary_Render(t *testing.T) {
	stats := models.NewStatistics(2)
	stats.Record(models.Created(0, "LEU.1", "gid://p/1"))
	stats.Record(models.Skipped(1, "OTH.1", "vendor not allowed"))
	stats.Finish()

	s := &Summary{
		RunID:  "run-1",
		Entity: "products",
		Source: "products.csv",
		Stats:  stats,
		DryRun: true,
		Counters: map[string]int64{
			telemetry.RemoteCalls:                               3,
			telemetry.RemoteCalls + "{operation=createProduct}": 2,
			telemetry.Throttles:                                 1,
			telemetry.Outcomes:                                  2,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, s.Render(&buf))
	out := buf.String()

	assert.Contains(t, out, "Run run-1: products from products.csv (dry run)")
	assert.Regexp(t, `\| total +\| +2 \|`, out)
	assert.Regexp(t, `\| created +\| +1 \|`, out)
	assert.Regexp(t, `\| skipped +\| +1 \|`, out)
	assert.Regexp(t, `\| failed +\| +0 \|`, out)
	assert.NotContains(t, out, "deleted")

	assert.Regexp(t, `\| shopmigrate\.remote\.calls +\| +3 \|`, out)
	assert.Contains(t, out, "operation=createProduct")
	assert.Regexp(t, `\| shopmigrate\.throttle\.pauses +\| +1 \|`, out)
	assert.NotContains(t, out, telemetry.Outcomes)
	assert.NotContains(t, out, "Failures")
}

func TestSummary_RenderFailuresLimited(t *testing.T) {
	stats := models.NewStatistics(3)

	var failures []models.Outcome

	for i := range 3 {
		f := models.Failed(i, fmt.Sprintf("SKU-%d", i), errors.New("price missing"))
		stats.Record(f)
		failures = append(failures, f)
	}

	s := &Summary{RunID: "r", Entity: "products", Stats: stats, Failures: failures, FailureLimit: 2}

	var buf bytes.Buffer
	require.NoError(t, s.Render(&buf))
	out := buf.String()

	assert.Contains(t, out, "Failures (3):")
	assert.Contains(t, out, "SKU-0")
	assert.Contains(t, out, "SKU-1")
	assert.NotContains(t, out, "SKU-2")
	assert.Contains(t, out, "... and 1 more")
	assert.NotContains(t, out, "Counter")
}

func TestInspect(t *testing.T) {
	tbl := &ingest.Table{
		Path:      "export.csv",
		Header:    []string{"sku", "store"},
		Delimiter: ';',
		Rows:      [][]string{{"1", "it"}, {"2", ""}},
	}

	var buf bytes.Buffer
	require.NoError(t, Columns(&buf, tbl))
	assert.Contains(t, buf.String(), "export.csv: 2 rows, delimiter ';'")
	assert.Regexp(t, `\| +1 \| store +\|`, buf.String())

	values, err := tbl.Distinct("store")
	require.NoError(t, err)

	buf.Reset()
	require.NoError(t, Distinct(&buf, "store", values))
	assert.Contains(t, buf.String(), "store: 2 distinct values")
	assert.Contains(t, buf.String(), "(empty)")
}
