// ABOUTME: Tests for the search commands
// ABOUTME: Verifies paging, output formatting, and auth failure handling

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"testing"

	"github.com/MarvinLeRouge/geochallenge-cli/internal/api"
	"github.com/MarvinLeRouge/geochallenge-cli/internal/auth"
	"github.com/MarvinLeRouge/geochallenge-cli/internal/cache"
	"github.com/MarvinLeRouge/geochallenge-cli/internal/geo"
)

// radiusHandler serves two pages of one cache each
func radiusHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /caches/within-radius", func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page < 1 {
			page = 1
		}
		items := []map[string]interface{}{}
		if page <= 2 {
			items = append(items, map[string]interface{}{
				"_id": "c" + strconv.Itoa(page), "GC": "GC" + strconv.Itoa(page),
				"title": "Cache " + strconv.Itoa(page),
				"lat":   43.1, "lon": 5.9, "difficulty": 2.0, "terrain": 1.5,
			})
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"items": items, "total": 2, "page": page, "nb_pages": 2, "page_size": 1,
		})
	})
	return mux
}

func testRegion() geo.Region {
	return geo.Circle{Center: geo.Point{Lat: 43.1, Lon: 5.9}, RadiusKm: 10}
}

func TestRunSearch_SinglePage(t *testing.T) {
	client := newLoggedInClient(t, radiusHandler())

	var buf bytes.Buffer
	code := runSearch(context.Background(), &buf, client, testRegion(), 1)

	if code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	out := buf.String()
	if !bytes.Contains(buf.Bytes(), []byte("GC1")) {
		t.Errorf("expected first page result, got %q", out)
	}
	if bytes.Contains(buf.Bytes(), []byte("GC2")) {
		t.Errorf("expected only one page, got %q", out)
	}
	if !bytes.Contains(buf.Bytes(), []byte("1 of 2 caches")) {
		t.Errorf("expected progress line, got %q", out)
	}
	if !bytes.Contains(buf.Bytes(), []byte("More available")) {
		t.Errorf("expected more-available hint, got %q", out)
	}
}

func TestRunSearch_AllPages(t *testing.T) {
	client := newLoggedInClient(t, radiusHandler())

	var buf bytes.Buffer
	code := runSearch(context.Background(), &buf, client, testRegion(), 0)

	if code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("GC1")) || !bytes.Contains(buf.Bytes(), []byte("GC2")) {
		t.Errorf("expected both pages, got %q", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("2 of 2 caches")) {
		t.Errorf("expected full progress line, got %q", buf.String())
	}
	if bytes.Contains(buf.Bytes(), []byte("More available")) {
		t.Errorf("expected no more-available hint after the last page, got %q", buf.String())
	}
}

func TestRunSearch_JSON(t *testing.T) {
	client := newLoggedInClient(t, radiusHandler())
	jsonOutput = true
	defer func() { jsonOutput = false }()

	var buf bytes.Buffer
	code := runSearch(context.Background(), &buf, client, testRegion(), 0)

	if code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	var items []api.Cache
	if err := json.Unmarshal(buf.Bytes(), &items); err != nil {
		t.Fatalf("expected valid JSON output: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("expected 2 items, got %d", len(items))
	}
}

func TestRunSearch_NotLoggedIn(t *testing.T) {
	store := auth.NewStore(auth.NewMemoryStorage(), auth.NewMemoryStorage())
	client := api.New(api.Config{BaseURL: "http://localhost:8000"}, store, cache.New(0))

	var buf bytes.Buffer
	code := runSearch(context.Background(), &buf, client, testRegion(), 1)

	if code != 1 {
		t.Errorf("expected exit code 1 when logged out, got %d", code)
	}
}
