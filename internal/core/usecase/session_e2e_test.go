package usecase

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kirillkom/zero-shot-classifier/internal/core/domain"
	"github.com/kirillkom/zero-shot-classifier/internal/core/ports"
	"github.com/kirillkom/zero-shot-classifier/internal/infrastructure/hub"
	"github.com/kirillkom/zero-shot-classifier/internal/presenter"
)

func TestPredictEndToEndThroughHubAndPresenter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"body":{"output":[["Science",0.8],["Business",0.3],["Finance",0.5]]}}`))
	}))
	defer server.Close()

	session := NewSession(hub.New(hub.Options{}), SessionConfig{
		Variant: domain.VariantDirect,
		BaseURL: server.URL + "/",
	})
	snap, err := session.Predict(context.Background(), ports.Form{
		EndpointSuffix: "demo/zero-shot",
		Text:           "Deep Learning is very powerful",
		Classes:        "Science,Business,Finance",
	})
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if snap.Alert != "" {
		t.Fatalf("unexpected alert %q", snap.Alert)
	}

	units := presenter.New(nil, func(int) int { return 0 }).Present(snap.Variant, snap.Result)
	want := []string{"Science: 80.00%", "Business: 30.00%", "Finance: 50.00%"}
	if len(units) != len(want) {
		t.Fatalf("expected %d units, got %d", len(want), len(units))
	}
	for i, u := range units {
		if u.Badge != want[i] {
			t.Fatalf("unit %d = %q, want %q", i, u.Badge, want[i])
		}
	}
}

func TestPredictEndToEndFailureRaisesAlert(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer server.Close()

	session := NewSession(hub.New(hub.Options{}), SessionConfig{
		Variant: domain.VariantDirect,
		BaseURL: server.URL + "/",
	})
	snap, err := session.Predict(context.Background(), ports.Form{Classes: "A"})
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if snap.Alert != "Something went wrong! Please try again." || snap.Loading || snap.Result != nil {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}
