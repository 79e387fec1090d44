package generate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/davern/profilerelay/internal/profile"
	"github.com/davern/profilerelay/internal/render"
)

func TestTemplatedStructuredMarshalsPayload(t *testing.T) {
	g := NewTemplated(nil)
	p := profile.Profile{
		UserID: "U001", Name: "Alice Johnson", Email: "a@b.c", Role: "r",
		Department: "d", Skills: []string{"s1"}, Projects: []string{"p1"},
		Status: "active", JoinedDate: "2022-03-15", LastLogin: "2025-10-02T09:15:00Z",
	}
	res, err := g.Generate(context.Background(), Request{Mode: ModeStructured, Payload: p})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(res.Text), &decoded); err != nil {
		t.Fatalf("structured output is not json: %v", err)
	}
	if decoded["user_id"] != "U001" {
		t.Fatalf("unexpected structured output: %v", decoded)
	}
}

func TestTemplatedTextRendersTemplate(t *testing.T) {
	g := NewTemplated(render.NewRegistry())
	res, err := g.Generate(context.Background(), Request{
		Mode:     ModeText,
		Template: render.TemplateHolding,
		Payload:  render.Data{},
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(res.Text, "moment") {
		t.Fatalf("unexpected holding text: %q", res.Text)
	}
}

func TestTemplatedRejectsBadRequests(t *testing.T) {
	g := NewTemplated(nil)
	var gerr *Error
	if _, err := g.Generate(context.Background(), Request{Mode: "weird"}); !errors.As(err, &gerr) {
		t.Fatalf("expected *Error for bad mode, got %v", err)
	}
	if _, err := g.Generate(context.Background(), Request{Mode: ModeText, Template: render.TemplateHolding, Payload: 42}); !errors.As(err, &gerr) {
		t.Fatalf("expected *Error for bad payload, got %v", err)
	}
}

func TestTemplatedHonorsCancelledContext(t *testing.T) {
	g := NewTemplated(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := g.Generate(ctx, Request{Mode: ModeStructured, Payload: profile.Unknown()}); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestOpenRouterGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("missing auth header: %q", got)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if body["model"] != "test-model" {
			t.Errorf("unexpected model: %v", body["model"])
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": `{"user_id":"U001"}`}},
			},
		})
	}))
	defer server.Close()

	g := NewOpenRouter("test-token", "test-model", WithBaseURL(server.URL))
	res, err := g.Generate(context.Background(), Request{Mode: ModeStructured, Instruction: "emit json", Payload: map[string]any{"q": "U001"}})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(res.Text, "U001") {
		t.Fatalf("unexpected response: %q", res.Text)
	}
}

func TestOpenRouterSurfacesHTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	g := NewOpenRouter("t", "m", WithBaseURL(server.URL))
	_, err := g.Generate(context.Background(), Request{Mode: ModeText})
	var gerr *Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if !strings.Contains(gerr.Error(), "openrouter") {
		t.Fatalf("error does not name backend: %v", gerr)
	}
}
