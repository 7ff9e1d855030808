package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/joseph-ayodele/resume-tracker/internal/llm"
)

func completion(content string) []byte {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{{"message": map[string]any{"content": content}}},
	})
	return b
}

func newServer(t *testing.T, content string, status int) (*httptest.Server, *[]map[string]any) {
	t.Helper()
	var seen []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q, want /chat/completions", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		b, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = json.Unmarshal(b, &body)
		seen = append(seen, body)
		w.WriteHeader(status)
		_, _ = w.Write(completion(content))
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

func newTestClient(t *testing.T, url string, strict bool) *Client {
	t.Helper()
	c, err := NewClient(Config{APIKey: "test-key", BaseURL: url, Model: "test-model", Strict: strict}, nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestEntities(t *testing.T) {
	srv, seen := newServer(t, `{"entities":[{"text":"Youssef El Amrani","label":"PERSON"}]}`, http.StatusOK)
	c := newTestClient(t, srv.URL, false)

	es, err := c.Entities(context.Background(), "YOUSSEF EL AMRANI\nIngénieur logiciel")
	if err != nil {
		t.Fatalf("Entities: %v", err)
	}
	if len(es) != 1 || es[0].Text != "Youssef El Amrani" || es[0].Label != llm.LabelPerson {
		t.Fatalf("Entities = %+v", es)
	}
	if len(*seen) != 1 || (*seen)[0]["model"] != "test-model" {
		t.Fatalf("request body = %+v", *seen)
	}
}

func TestEntitiesLenientRepair(t *testing.T) {
	srv, _ := newServer(t, `[{"name":"Sara Benali","type":"per"}]`, http.StatusOK)
	c := newTestClient(t, srv.URL, false)

	es, err := c.Entities(context.Background(), "Sara Benali")
	if err != nil {
		t.Fatalf("Entities: %v", err)
	}
	if len(es) != 1 || es[0].Label != llm.LabelPerson {
		t.Fatalf("Entities = %+v", es)
	}
}

func TestEntitiesStrictRejects(t *testing.T) {
	srv, _ := newServer(t, `[{"name":"Sara Benali","type":"per"}]`, http.StatusOK)
	c := newTestClient(t, srv.URL, true)

	if _, err := c.Entities(context.Background(), "Sara Benali"); err == nil {
		t.Fatalf("expected schema validation error")
	}
}

func TestEntitiesHTTPError(t *testing.T) {
	srv, _ := newServer(t, `{}`, http.StatusTooManyRequests)
	c := newTestClient(t, srv.URL, false)

	if _, err := c.Entities(context.Background(), "Sara Benali"); err == nil {
		t.Fatalf("expected error for 429")
	}
}

func TestEntitiesEmptyTextSkipsCall(t *testing.T) {
	srv, seen := newServer(t, `{"entities":[]}`, http.StatusOK)
	c := newTestClient(t, srv.URL, false)

	es, err := c.Entities(context.Background(), "   ")
	if err != nil || es != nil {
		t.Fatalf("Entities(blank) = %v, %v", es, err)
	}
	if len(*seen) != 0 {
		t.Fatalf("server called %d times, want 0", len(*seen))
	}
}

func TestEntitiesNoKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	c, err := NewClient(Config{BaseURL: "http://127.0.0.1:1"}, nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := c.Entities(context.Background(), "Sara"); err != ErrNoAPIKey {
		t.Fatalf("err = %v, want ErrNoAPIKey", err)
	}
}
