package channel

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/williamvp10/chatbot-nasa/internal/domain"
)

func textEnvelope(from, body string) []byte {
	return []byte(`{"entry":[{"changes":[{"value":{"messages":[{"from":"` + from + `","type":"text","text":{"body":"` + body + `"}}]}}]}]}`)
}

func TestWhatsAppNormalizeText(t *testing.T) {
	a := NewWhatsAppAdapter(GraphAPIBaseURL, "token", "12345", time.Second)

	msg, err := a.NormalizeInbound(textEnvelope("+57999", "hola"))
	if err != nil {
		t.Fatalf("NormalizeInbound failed: %v", err)
	}
	if msg.UserID != "+57999" || msg.Text != "hola" {
		t.Fatalf("unexpected message: %+v", msg)
	}
}

func TestWhatsAppNormalizeLocation(t *testing.T) {
	a := NewWhatsAppAdapter(GraphAPIBaseURL, "token", "12345", time.Second)

	payload := []byte(`{"entry":[{"changes":[{"value":{"messages":[{"from":"+57999","type":"location","location":{"latitude":4.6,"longitude":-74.08}}]}}]}]}`)
	msg, err := a.NormalizeInbound(payload)
	if err != nil {
		t.Fatalf("NormalizeInbound failed: %v", err)
	}
	want := "Location received: latitude 4.6, longitude -74.08"
	if msg.Text != want {
		t.Fatalf("expected %q, got %q", want, msg.Text)
	}
}

func TestWhatsAppNormalizeMalformed(t *testing.T) {
	a := NewWhatsAppAdapter(GraphAPIBaseURL, "token", "12345", time.Second)

	cases := map[string][]byte{
		"not json":    []byte(`{{`),
		"no entries":  []byte(`{"entry":[]}`),
		"no messages": []byte(`{"entry":[{"changes":[{"value":{"messages":[]}}]}]}`),
		"no sender":   []byte(`{"entry":[{"changes":[{"value":{"messages":[{"type":"text","text":{"body":"hi"}}]}}]}]}`),
		"no body":     []byte(`{"entry":[{"changes":[{"value":{"messages":[{"from":"+57999","type":"image"}]}}]}]}`),
	}
	for name, payload := range cases {
		if _, err := a.NormalizeInbound(payload); !errors.Is(err, domain.ErrMalformedPayload) {
			t.Fatalf("%s: expected ErrMalformedPayload, got %v", name, err)
		}
	}
}

func TestWhatsAppDeliverOutbound(t *testing.T) {
	var gotPath, gotAuth, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		buf := make([]byte, r.ContentLength)
		r.Body.Read(buf)
		gotBody = string(buf)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	a := NewWhatsAppAdapter(srv.URL, "token", "12345", time.Second)
	if err := a.DeliverOutbound(context.Background(), "+57999", "hola!"); err != nil {
		t.Fatalf("DeliverOutbound failed: %v", err)
	}
	if gotPath != "/12345/messages" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if gotAuth != "Bearer token" {
		t.Fatalf("unexpected auth header: %s", gotAuth)
	}
	for _, want := range []string{`"messaging_product":"whatsapp"`, `"to":"+57999"`, `"body":"hola!"`} {
		if !strings.Contains(gotBody, want) {
			t.Fatalf("body missing %s: %s", want, gotBody)
		}
	}
}

func TestWhatsAppDeliverOutboundFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	a := NewWhatsAppAdapter(srv.URL, "bad-token", "12345", time.Second)
	err := a.DeliverOutbound(context.Background(), "+57999", "hola!")
	if !errors.Is(err, domain.ErrDelivery) {
		t.Fatalf("expected ErrDelivery, got %v", err)
	}
}
