package migrate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopmigrate/internal/commerce"
	"shopmigrate/internal/ingest"
	"shopmigrate/internal/journal"
	"shopmigrate/internal/models"
	"shopmigrate/internal/telemetry"
)

// fakeStorefront answers the product operations of an empty store.
type fakeStorefront struct {
	mu  sync.Mutex
	ops []string
	t   *testing.T
}

var storefrontResponses = map[string]string{
	commerce.FindProductBySKUQuery: `{"variants": {"nodes": []}}`,
	commerce.CreateProductMutation: `{"createProduct": {"product": {"id": "gid://Product/1",
		"variants": {"nodes": [{"id": "gid://Variant/2", "inventoryItem": {"id": "gid://Item/3"}}]}}, "userErrors": []}}`,
	commerce.UpdateVariantMutation:  `{"updateVariant": {"variant": {"id": "gid://Variant/2"}, "userErrors": []}}`,
	commerce.SetOnHandMutation:      `{"setOnHand": {"inventoryItem": {"id": "gid://Item/3"}, "userErrors": []}}`,
	commerce.PublishProductMutation: `{"publishProduct": {"product": {"id": "gid://Product/1"}, "userErrors": []}}`,
}

var storefrontOps = map[string]string{
	commerce.FindProductBySKUQuery:  "find",
	commerce.CreateProductMutation:  "create",
	commerce.UpdateVariantMutation:  "variant",
	commerce.SetOnHandMutation:      "on-hand",
	commerce.PublishProductMutation: "publish",
}

func (f *fakeStorefront) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	assert.Equal(f.t, "Bearer secret", r.Header.Get("Authorization"))

	var req commerce.GraphQLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	data, ok := storefrontResponses[req.Query]
	if !ok {
		http.Error(w, "unexpected operation", http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.ops = append(f.ops, storefrontOps[req.Query])
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"data": ` + data + `,
		"extensions": {"cost": {"throttleStatus": {"maximumAvailable": 1000, "currentlyAvailable": 990, "restoreRate": 50}}}}`))
}

func TestProductImporter_SingleVendorFeedEndToEnd(t *testing.T) {
	ctx := context.Background()

	front := &fakeStorefront{t: t}
	server := httptest.NewServer(front)
	defer server.Close()

	metrics, err := telemetry.New()
	require.NoError(t, err)

	j, err := journal.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })

	client := commerce.NewGraphQLClient(server.URL, "secret", commerce.Options{Metrics: metrics}, nil)
	store := commerce.NewStore(client, "gid://Location/1", nil)

	csv := "Marca;Codice;Descrizione;Prezzo;Prezzo offerta;Disponibilita;Categoria\n" +
		"LEUPOLD;90011;PRESSA LEE LOAD ALL II COMPLETA CAL.12 90011;66,70;50,00;B;Default Category/Ricarica/Presse\n" +
		"\n" +
		"OtherBrand;123;Something else;;;A;Varie\n"

	table, err := ingest.ReadCSV(strings.NewReader(csv), 0)
	require.NoError(t, err)

	imp := newProductImporter(t, "leupold", store, Options{
		RunID:         "e2e",
		Journal:       j,
		Metrics:       metrics,
		MaxConcurrent: 3,
	})

	report, err := imp.Import(ctx, table)
	require.NoError(t, err)

	assert.Equal(t, int64(2), report.Stats.Total())
	assert.Equal(t, int64(1), report.Stats.Created())
	assert.Equal(t, int64(1), report.Stats.Skipped())
	assert.Equal(t, int64(0), report.Stats.Failed())
	assert.Equal(t, int64(0), report.Stats.Updated())

	// the skipped vendor never reaches the remote store
	assert.Equal(t, []string{"find", "create", "variant", "on-hand", "publish"}, front.ops)

	remaining, ok := client.Budget()
	assert.True(t, ok)
	assert.Equal(t, 990, remaining)

	snap, err := metrics.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), snap[telemetry.RemoteCalls])
	assert.Equal(t, int64(1), snap[telemetry.Outcomes+"{entity=products,kind=created}"])
	assert.Equal(t, int64(1), snap[telemetry.Outcomes+"{entity=products,kind=skipped}"])

	entries, err := j.Outcomes(ctx, "e2e")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, models.OutcomeCreated, entries[0].Kind)
	assert.Equal(t, "LEU.90011", entries[0].Key)
	assert.Equal(t, "gid://Product/1", entries[0].RemoteID)
	assert.Equal(t, models.OutcomeSkipped, entries[1].Kind)
	assert.Contains(t, entries[1].Reason, "OtherBrand")
}
