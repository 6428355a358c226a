package httpd

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stromabio/stroma/pkg/core"
	"github.com/stromabio/stroma/pkg/payments"
)

func newTestServer(t *testing.T, mutate func(*Config)) (*httptest.Server, string) {
	t.Helper()
	dataDir := t.TempDir()
	cfg := Config{
		Token:        "hub-token",
		DataDir:      dataDir,
		ContentTypes: []string{"blog", "products"},
	}
	if mutate != nil {
		mutate(&cfg)
	}
	srv, err := NewServer(cfg)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, dataDir
}

func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestServerRequiresContentTypes(t *testing.T) {
	_, err := NewServer(Config{DataDir: t.TempDir()})
	require.Error(t, err)
}

func TestHealthz(t *testing.T) {
	ts, _ := newTestServer(t, nil)
	resp := doJSON(t, http.MethodGet, ts.URL+"/healthz", "", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestFetchEmptySlot(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/content/blog/public", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, "an empty slot is not 404")
	snap := decode[core.Snapshot](t, resp)
	assert.Empty(t, snap.Version)
	assert.Empty(t, snap.Saved)
}

func TestFetchUnknownContentType(t *testing.T) {
	ts, _ := newTestServer(t, nil)
	resp := doJSON(t, http.MethodGet, ts.URL+"/api/content/pages/public", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPushRequiresToken(t *testing.T) {
	ts, _ := newTestServer(t, nil)
	snap := core.Snapshot{Version: "v1"}

	resp := doJSON(t, http.MethodPut, ts.URL+"/api/content/blog", "", snap)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, http.MethodPut, ts.URL+"/api/content/blog", "wrong", snap)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPushDisabledWithoutConfiguredToken(t *testing.T) {
	ts, _ := newTestServer(t, func(cfg *Config) { cfg.Token = "" })
	resp := doJSON(t, http.MethodPut, ts.URL+"/api/content/blog", "anything", core.Snapshot{})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestPushThenFetchRoundTrip(t *testing.T) {
	ts, _ := newTestServer(t, nil)
	snap := core.Snapshot{
		Version: "v7",
		Saved:   []core.Record{{ID: 100, Slug: "draft", Title: "Draft"}},
		Hidden:  []int64{2},
	}

	resp := doJSON(t, http.MethodPut, ts.URL+"/api/content/blog", "hub-token", snap)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ack := decode[map[string]string](t, resp)
	assert.Equal(t, "v7", ack["version"])

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/content/blog/public", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[core.Snapshot](t, resp)
	assert.Equal(t, "v7", got.Version)
	require.Len(t, got.Saved, 1)
	assert.Equal(t, "draft", got.Saved[0].Slug)
	assert.Equal(t, []int64{2}, got.Hidden)

	// Slots are independent per content type.
	resp = doJSON(t, http.MethodGet, ts.URL+"/api/content/products/public", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	other := decode[core.Snapshot](t, resp)
	assert.Empty(t, other.Version)
}

func TestSyncSourceWritesDurableCopy(t *testing.T) {
	ts, dataDir := newTestServer(t, nil)
	payload := map[string][]core.Record{
		"posts": {{ID: 1, Slug: "a", Title: "A"}},
	}

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/content/blog/source", "hub-token", payload)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	data, err := os.ReadFile(filepath.Join(dataDir, "source", "blog.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"slug": "a"`)
}

func TestQuoteSubmitAndList(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/quotes", "", QuoteRequest{
		Name:    "Dana Vance",
		Email:   "dana@lab.example",
		Product: "STR-PB-001",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	ack := decode[map[string]string](t, resp)
	assert.NotEmpty(t, ack["id"])

	// Listing requires the token.
	resp = doJSON(t, http.MethodGet, ts.URL+"/api/quotes", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/quotes", "hub-token", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	quotes := decode[[]QuoteRequest](t, resp)
	require.Len(t, quotes, 1)
	assert.Equal(t, ack["id"], quotes[0].ID)
	assert.Equal(t, "dana@lab.example", quotes[0].Email)
	assert.False(t, quotes[0].ReceivedAt.IsZero())
}

func TestQuoteValidation(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	cases := []QuoteRequest{
		{Email: "a@b.example"},
		{Name: "No Email"},
		{Name: "Bad Email", Email: "not-an-email"},
		{Name: "Bad Email", Email: "@example.com"},
	}
	for i, q := range cases {
		resp := doJSON(t, http.MethodPost, ts.URL+"/api/quotes", "", q)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, "case %d", i)
	}
}

func TestQuoteListEmpty(t *testing.T) {
	ts, _ := newTestServer(t, nil)
	resp := doJSON(t, http.MethodGet, ts.URL+"/api/quotes", "hub-token", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	quotes := decode[[]QuoteRequest](t, resp)
	assert.Empty(t, quotes)
}

func TestCheckoutSession(t *testing.T) {
	processor := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(payments.Session{ID: "cs_9", URL: "https://pay.example/cs_9"})
	}))
	defer processor.Close()

	ts, _ := newTestServer(t, func(cfg *Config) {
		cfg.Payments = payments.NewClient(payments.Config{
			Endpoint:  processor.URL,
			SecretKey: "sk_test",
		})
	})

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/checkout/session", "", payments.SessionRequest{
		Items: []payments.LineItem{
			{Name: "Collagen Scaffold, 6mm", Amount: 18900, Currency: "usd", Quantity: 1},
		},
		SuccessURL: "https://stroma.example/thanks",
		CancelURL:  "https://stroma.example/cart",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	session := decode[payments.Session](t, resp)
	assert.Equal(t, "https://pay.example/cs_9", session.URL)
}

func TestCheckoutValidation(t *testing.T) {
	ts, _ := newTestServer(t, func(cfg *Config) {
		cfg.Payments = payments.NewClient(payments.Config{Endpoint: "http://127.0.0.1:0", SecretKey: "sk"})
	})

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/checkout/session", "", payments.SessionRequest{})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode,
		"empty carts are rejected before the processor is called")
}

func TestCheckoutDisabledWithoutProcessor(t *testing.T) {
	ts, _ := newTestServer(t, nil)
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/checkout/session", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStaticFiles(t *testing.T) {
	staticDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "index.html"), []byte("<h1>Stroma</h1>"), 0644))

	ts, _ := newTestServer(t, func(cfg *Config) { cfg.StaticDir = staticDir })

	resp := doJSON(t, http.MethodGet, ts.URL+"/", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Stroma")
}
