package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testClient(t *testing.T, handler http.HandlerFunc) (*Client, string) {
	t.Helper()
	srv := httptest.NewTLSServer(handler)
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := NewClient("2024-10", 5*time.Second, logger)
	c.httpClient = srv.Client()
	return c, strings.TrimPrefix(srv.URL, "https://")
}

func pageResponse(hasNext bool, cursor string, titles ...string) string {
	edges := make([]map[string]interface{}, 0, len(titles))
	for i, title := range titles {
		edges = append(edges, map[string]interface{}{
			"node": map[string]interface{}{
				"id":     fmt.Sprintf("gid://shopify/Product/%d", i+1),
				"title":  title,
				"status": "ACTIVE",
			},
		})
	}
	body, _ := json.Marshal(map[string]interface{}{
		"data": map[string]interface{}{
			"products": map[string]interface{}{
				"pageInfo": map[string]interface{}{"hasNextPage": hasNext, "endCursor": cursor},
				"edges":    edges,
			},
		},
	})
	return string(body)
}

func TestFetchAllFollowsCursor(t *testing.T) {
	var cursors []string
	handler := func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Shopify-Access-Token"); got != "token-123" {
			t.Errorf("missing access token header, got %q", got)
		}
		if !strings.HasSuffix(r.URL.Path, "/admin/api/2024-10/graphql.json") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}

		var req graphqlRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		cursors = append(cursors, req.Variables["cursor"])

		if req.Variables["cursor"] == "" {
			fmt.Fprint(w, pageResponse(true, "cursor-1", "First"))
			return
		}
		fmt.Fprint(w, pageResponse(false, "", "Second"))
	}

	client, shop := testClient(t, handler)
	pages, err := client.FetchAll(context.Background(), shop, "token-123")
	if err != nil {
		t.Fatalf("FetchAll returned error: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	if len(cursors) != 2 || cursors[0] != "" || cursors[1] != "cursor-1" {
		t.Errorf("cursor sequence = %v", cursors)
	}

	products, err := Normalize(pages)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if len(products) != 2 || products[0].Title != "First" || products[1].Title != "Second" {
		t.Errorf("unexpected products: %+v", products)
	}
}

func TestFetchAllUpstreamStatusError(t *testing.T) {
	client, shop := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.FetchAll(context.Background(), shop, "token")
	if err == nil || !strings.Contains(err.Error(), "502") {
		t.Errorf("expected a status error, got %v", err)
	}
}

func TestFetchAllGraphQLError(t *testing.T) {
	client, shop := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"errors":[{"message":"throttled"}]}`)
	})

	_, err := client.FetchAll(context.Background(), shop, "token")
	if err == nil || !strings.Contains(err.Error(), "throttled") {
		t.Errorf("expected the upstream message to surface, got %v", err)
	}
}

func TestFetchAllMissingData(t *testing.T) {
	client, shop := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	})

	_, err := client.FetchAll(context.Background(), shop, "token")
	var formatErr *FormatError
	if !errors.As(err, &formatErr) {
		t.Errorf("missing data should be a *FormatError, got %v", err)
	}
}
