package llm

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/joseph-ayodele/resume-tracker/internal/common"
)

func TestEntitySchemaValidation(t *testing.T) {
	schema := BuildEntityJSONSchema(DefaultLabels)
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{"valid", `{"entities":[{"text":"Youssef El Amrani","label":"PERSON","score":0.9}]}`, false},
		{"empty list", `{"entities":[]}`, false},
		{"unknown label", `{"entities":[{"text":"x","label":"DATE"}]}`, true},
		{"missing entities", `{}`, true},
		{"extra key", `{"entities":[],"note":"hi"}`, true},
		{"not json", `nope`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJSONAgainstSchema(schema, []byte(tt.doc))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateJSONAgainstSchema(%s) err = %v, wantErr %v", tt.doc, err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeEntitiesJSON(t *testing.T) {
	raw := `[{"entity":" Sara Benali ","type":"per"},{"text":"Rabat","label":"city"},{"text":"2020","label":"DATE"},{"text":"","label":"PERSON"}]`
	out, changes, err := NormalizeEntitiesJSON([]byte(raw), nil)
	if err != nil {
		t.Fatalf("NormalizeEntitiesJSON: %v", err)
	}
	want := `{"entities":[{"label":"PERSON","text":"Sara Benali"},{"label":"GPE","text":"Rabat"}]}`
	if string(out) != want {
		t.Fatalf("NormalizeEntitiesJSON = %s, want %s", out, want)
	}
	if len(changes) != 3 {
		t.Fatalf("changes = %v, want 3 entries", changes)
	}
	if err := ValidateJSONAgainstSchema(BuildEntityJSONSchema(DefaultLabels), out); err != nil {
		t.Fatalf("normalized doc does not validate: %v", err)
	}
}

func TestNormalizeEntitiesJSONRejectsScalars(t *testing.T) {
	if _, _, err := NormalizeEntitiesJSON([]byte(`"PERSON"`), nil); err == nil {
		t.Fatalf("expected error for scalar document")
	}
}

func TestFirstOf(t *testing.T) {
	es := []Entity{{Text: "Casablanca", Label: LabelLocation}, {Text: "Omar Idrissi", Label: LabelPerson}}
	e, ok := FirstOf(es, LabelPerson)
	if !ok || e.Text != "Omar Idrissi" {
		t.Fatalf("FirstOf = %+v, %v", e, ok)
	}
	if _, ok := FirstOf(es, LabelOrg); ok {
		t.Fatalf("FirstOf(ORG) found an entity")
	}
}

func TestBuildUserPromptTruncates(t *testing.T) {
	long := strings.Repeat("é", MaxPromptChars)
	p := BuildUserPrompt(long)
	if !strings.HasSuffix(p, "(truncated)") {
		t.Fatalf("prompt not truncated")
	}
	body := strings.TrimSuffix(strings.TrimPrefix(p, "Text:\n"), "\n…(truncated)")
	if len(body) > MaxPromptChars || !strings.HasPrefix(body, "é") || strings.ContainsRune(body, '�') {
		t.Fatalf("truncated body is not valid utf-8 prefix (len %d)", len(body))
	}
}

func TestSendJSONLogsDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" || r.Header.Get("X-Test") != "yes" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if r.URL.Path == "/fail" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := common.WithDocument(common.WithRequestID(context.Background(), "req-7"), "/cv/salma.pdf")
	headers := map[string]string{"X-Test": "yes"}

	raw, status, err := SendJSON(ctx, srv.Client(), srv.URL+"/ok", map[string]string{"text": "hi"}, headers, logger)
	if err != nil {
		t.Fatalf("SendJSON: %v", err)
	}
	if status != http.StatusOK || string(raw) != `{"ok":true}` {
		t.Fatalf("SendJSON = %d %q", status, raw)
	}
	for _, want := range []string{"document=/cv/salma.pdf", "req_id=req-7"} {
		if !strings.Contains(logs.String(), want) {
			t.Fatalf("logs missing %q:\n%s", want, logs.String())
		}
	}

	if _, status, err = SendJSON(ctx, srv.Client(), srv.URL+"/fail", nil, headers, logger); err == nil || status != http.StatusInternalServerError {
		t.Fatalf("SendJSON(/fail) = %d, %v, want 500 error", status, err)
	}
}
