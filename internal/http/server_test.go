package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/asterhomes/preference-matching/internal/cache"
	"github.com/asterhomes/preference-matching/internal/config"
	"github.com/asterhomes/preference-matching/internal/matching"
	"github.com/asterhomes/preference-matching/internal/storage"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if err := store.EnsureSchema(); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}

	cfg := &config.Config{
		Server: config.ServerConfig{
			RateLimitReqs:   1000,
			RateLimitWindow: time.Minute,
		},
		API: config.APIConfig{DefaultPageSize: 20, MaxPageSize: 100},
	}

	engine := matching.NewEngine(store, store, cfg.API.DefaultPageSize)
	srv := NewServer(store, engine, cache.NewMemoryCache(time.Minute), cfg)

	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, payload any, wantStatus int) map[string]any {
	t.Helper()
	b, _ := json.Marshal(payload)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("POST %s status=%d want=%d", url, resp.StatusCode, wantStatus)
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return body
}

func listingPayload(title, state, lga string, price float64, bedrooms int) map[string]any {
	return map[string]any{
		"title":      title,
		"brief_type": "Outright Sales",
		"state":      state,
		"lga":        lga,
		"price":      price,
		"bedrooms":   bedrooms,
		"bathrooms":  2,
	}
}

func TestMatchEndToEnd(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	postJSON(t, ts.URL+"/api/v1/listings", listingPayload("L1", "Lagos", "Ikeja", 65_000_000, 3), http.StatusCreated)
	postJSON(t, ts.URL+"/api/v1/listings", listingPayload("L2", "Lagos", "Lekki", 60_000_000, 4), http.StatusCreated)
	postJSON(t, ts.URL+"/api/v1/listings", listingPayload("L3", "Ogun", "Abeokuta South", 60_000_000, 3), http.StatusCreated)

	pref := postJSON(t, ts.URL+"/api/v1/preferences", map[string]any{
		"mode":     "buy",
		"location": map[string]any{"state": "Lagos"},
		"budget":   map[string]any{"min": 50_000_000, "max": 80_000_000},
		"contact":  map[string]any{"full_name": "Ada O.", "email": "ada@example.com"},
		"property_details": map[string]any{
			"min_bedrooms": 3,
		},
	}, http.StatusCreated)
	prefID, _ := pref["id"].(string)
	if prefID == "" {
		t.Fatalf("preference id missing in %v", pref)
	}

	resp, err := http.Get(ts.URL + "/api/v1/preferences/" + prefID + "/matches?page=1&limit=10")
	if err != nil {
		t.Fatalf("GET matches: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET matches status=%d", resp.StatusCode)
	}

	var got struct {
		Data []struct {
			Listing struct {
				Title string `json:"title"`
			} `json:"listing"`
			MatchScore int  `json:"match_score"`
			IsPriority bool `json:"is_priority"`
		} `json:"data"`
		Pagination struct {
			Total      int `json:"total"`
			TotalPages int `json:"total_pages"`
		} `json:"pagination"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if got.Pagination.Total != 2 {
		t.Fatalf("total=%d want=2 (Ogun listing must be excluded)", got.Pagination.Total)
	}
	for i, m := range got.Data {
		if m.Listing.Title == "L3" {
			t.Fatalf("hard-filtered listing L3 appeared in results")
		}
		if m.MatchScore < 50 || m.MatchScore > 100 {
			t.Fatalf("score %d out of [50,100]", m.MatchScore)
		}
		if i > 0 && got.Data[i-1].MatchScore < m.MatchScore {
			t.Fatalf("ranking not descending at index %d", i)
		}
	}

	// A repeated call is served from cache with an identical body.
	resp2, err := http.Get(ts.URL + "/api/v1/preferences/" + prefID + "/matches?page=1&limit=10")
	if err != nil {
		t.Fatalf("GET matches (cached): %v", err)
	}
	defer resp2.Body.Close()
	if resp2.Header.Get("X-Cache") != "hit" {
		t.Fatalf("expected cache hit on second call")
	}
}

func TestMatchUnknownPreference(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/v1/preferences/does-not-exist/matches")
	if err != nil {
		t.Fatalf("GET matches: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status=%d want=404", resp.StatusCode)
	}
}

func TestCreatePreferenceRejectsIncoherentBag(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	b, _ := json.Marshal(map[string]any{
		"mode":    "buy",
		"contact": map[string]any{"full_name": "Ada O.", "email": "ada@example.com"},
		// buy mode but shortlet bag
		"booking_details": map[string]any{"guests": 2, "check_in": "2024-06-01", "check_out": "2024-06-05"},
	})
	resp, err := http.Post(ts.URL+"/api/v1/preferences", "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("POST preference: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status=%d want=422", resp.StatusCode)
	}
}

func TestCreateListingValidation(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	b, _ := json.Marshal(map[string]any{
		"title":      "",
		"brief_type": "Outright Sales",
		"state":      "Lagos",
		"price":      0,
	})
	resp, err := http.Post(ts.URL+"/api/v1/listings", "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("POST listing: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status=%d want=400", resp.StatusCode)
	}
}

func TestListingsCatalog(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	created := postJSON(t, ts.URL+"/api/v1/listings", listingPayload("A", "Lagos", "Ikeja", 32_000_000, 3), http.StatusCreated)
	id, _ := created["id"].(string)

	resp, err := http.Get(ts.URL + "/api/v1/listings?state=lagos&min_bedrooms=3")
	if err != nil {
		t.Fatalf("GET listings: %v", err)
	}
	defer resp.Body.Close()
	var got struct {
		Total int `json:"total"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Total != 1 {
		t.Fatalf("total=%d want=1", got.Total)
	}

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/v1/listings/"+id, nil)
	delResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE listing: %v", err)
	}
	defer delResp.Body.Close()
	if delResp.StatusCode != http.StatusOK {
		t.Fatalf("DELETE status=%d", delResp.StatusCode)
	}

	getResp, err := http.Get(ts.URL + "/api/v1/listings/" + id)
	if err != nil {
		t.Fatalf("GET listing: %v", err)
	}
	defer getResp.Body.Close()
	if getResp.StatusCode != http.StatusNotFound {
		t.Fatalf("deleted listing status=%d want=404", getResp.StatusCode)
	}
}
