package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"PilatesStudioManager/internal/models"
)

func TestSystemInstructionNoStudio(t *testing.T) {
	got := SystemInstruction(nil)
	if !strings.Contains(got, "O usuário é um dono de estúdio de Pilates.") {
		t.Fatalf("missing generic owner sentence: %q", got)
	}
}

func TestSystemInstructionWithStudio(t *testing.T) {
	got := SystemInstruction(&models.Studio{Name: "Estúdio A", Address: "Rua X"})
	if !strings.Contains(got, "Estúdio A") || !strings.Contains(got, "Rua X") {
		t.Fatalf("studio context not embedded: %q", got)
	}
}

func TestSystemInstructionBlankFields(t *testing.T) {
	got := SystemInstruction(&models.Studio{})
	if !strings.Contains(got, "Sem nome") {
		t.Fatalf("missing name fallback: %q", got)
	}
	if !strings.Contains(got, "Local não informado") {
		t.Fatalf("missing address fallback: %q", got)
	}
}

func TestAskSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "gemini-2.5-flash") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Dica: "},{"text":"divulgue aulas experimentais."}]}}]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL})
	got := c.Ask(context.Background(), "Como atrair alunos?", nil)
	if got != "Dica: divulgue aulas experimentais." {
		t.Fatalf("unexpected reply %q", got)
	}
}

func TestAskTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL})
	got := c.Ask(context.Background(), "Qualquer pergunta", nil)
	if got != FallbackUnavailable {
		t.Fatalf("expected fixed fallback, got %q", got)
	}
}

func TestAskErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL})
	if got := c.Ask(context.Background(), "Qualquer pergunta", nil); got != FallbackUnavailable {
		t.Fatalf("expected fixed fallback, got %q", got)
	}
}

func TestAskEmptyReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL})
	if got := c.Ask(context.Background(), "Qualquer pergunta", nil); got != FallbackEmpty {
		t.Fatalf("expected empty-reply fallback, got %q", got)
	}
}
