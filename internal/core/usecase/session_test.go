package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kirillkom/zero-shot-classifier/internal/core/domain"
	"github.com/kirillkom/zero-shot-classifier/internal/core/ports"
)

type classifierFake struct {
	mu       sync.Mutex
	result   domain.Result
	err      error
	loadErr  error
	requests []domain.ClassificationRequest
	loads    []string

	started chan struct{}
	release chan struct{}
}

func (f *classifierFake) Predict(_ context.Context, req domain.ClassificationRequest) (domain.Result, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	if f.started != nil {
		f.started <- struct{}{}
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *classifierFake) LoadModel(_ context.Context, endpoint, _ string) error {
	f.mu.Lock()
	f.loads = append(f.loads, endpoint)
	f.mu.Unlock()
	return f.loadErr
}

func (f *classifierFake) predictCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

type publisherFake struct {
	events []domain.PredictionEvent
	err    error
}

func (f *publisherFake) PublishPrediction(_ context.Context, event domain.PredictionEvent) error {
	f.events = append(f.events, event)
	return f.err
}

type recorderFake struct {
	predictions []string
	loads       []string
}

func (f *recorderFake) RecordPrediction(_ domain.Variant, status string, _ float64) {
	f.predictions = append(f.predictions, status)
}

func (f *recorderFake) RecordLoadModel(_ domain.Variant, status string) {
	f.loads = append(f.loads, status)
}

func TestPredictStoresResultAndResetsLoading(t *testing.T) {
	classifier := &classifierFake{result: domain.Result{{Label: "Science", Probability: 0.8}}}
	recorder := &recorderFake{}
	session := NewSession(classifier, SessionConfig{Variant: domain.VariantDirect, Recorder: recorder})

	snap, err := session.Predict(context.Background(), ports.Form{
		EndpointSuffix: "user/zero-shot",
		APIKey:         "key",
		Text:           "Deep Learning is very powerful",
		Classes:        "Science, Business",
	})
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if snap.Loading {
		t.Fatalf("expected loading=false after predict")
	}
	if snap.Status != StatusReady {
		t.Fatalf("unexpected status %q", snap.Status)
	}
	if len(snap.Result) != 1 || snap.Result[0].Label != "Science" {
		t.Fatalf("unexpected result %+v", snap.Result)
	}
	if snap.Endpoint != "https://api.cellstrathub.com/user/zero-shot" {
		t.Fatalf("unexpected endpoint %q", snap.Endpoint)
	}

	req := classifier.requests[0]
	if req.APIKey != "key" || len(req.Classes) != 2 || req.Classes[1] != " Business" {
		t.Fatalf("unexpected request %+v", req)
	}
	if len(recorder.predictions) != 1 || recorder.predictions[0] != "ok" {
		t.Fatalf("unexpected recorder calls %v", recorder.predictions)
	}
}

func TestPredictFailureKeepsPreviousResult(t *testing.T) {
	classifier := &classifierFake{result: domain.Result{{Label: "Finance", Probability: 0.63}}}
	session := NewSession(classifier, SessionConfig{Variant: domain.VariantSynchronous})

	if _, err := session.Predict(context.Background(), ports.Form{Text: "t", Classes: "Finance"}); err != nil {
		t.Fatalf("first Predict() error = %v", err)
	}

	classifier.err = errors.New("connection refused")
	snap, err := session.Predict(context.Background(), ports.Form{Text: "t", Classes: "Finance"})
	if err != nil {
		t.Fatalf("failed predict must not return an error, got %v", err)
	}
	if snap.Loading {
		t.Fatalf("expected loading=false after failure")
	}
	if snap.Alert != "Please Retry!" {
		t.Fatalf("unexpected alert %q", snap.Alert)
	}
	if len(snap.Result) != 1 || snap.Result[0].Label != "Finance" {
		t.Fatalf("previous result must be kept, got %+v", snap.Result)
	}
	if snap.Endpoint != domain.SynchronousURL {
		t.Fatalf("unexpected endpoint %q", snap.Endpoint)
	}

	if stored := session.Snapshot(); stored.Alert != "" {
		t.Fatalf("alert must be delivered once, stored snapshot has %q", stored.Alert)
	}

	classifier.err = nil
	snap, _ = session.Predict(context.Background(), ports.Form{Text: "t", Classes: "Finance"})
	if snap.Alert != "" {
		t.Fatalf("alert should clear on the next attempt, got %q", snap.Alert)
	}
}

func TestPredictFallsBackToConfiguredAPIKey(t *testing.T) {
	classifier := &classifierFake{result: domain.Result{{Label: "A", Probability: 1}}}
	session := NewSession(classifier, SessionConfig{APIKey: "from-env"})

	if _, err := session.Predict(context.Background(), ports.Form{Classes: "A"}); err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if _, err := session.Predict(context.Background(), ports.Form{APIKey: "typed", Classes: "A"}); err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if got := classifier.requests[0].APIKey; got != "from-env" {
		t.Fatalf("expected configured key for empty form key, got %q", got)
	}
	if got := classifier.requests[1].APIKey; got != "typed" {
		t.Fatalf("typed key must win, got %q", got)
	}
}

func TestPredictSendsEmptyKeyWithoutDefault(t *testing.T) {
	classifier := &classifierFake{result: domain.Result{{Label: "A", Probability: 1}}}
	session := NewSession(classifier, SessionConfig{})

	if _, err := session.Predict(context.Background(), ports.Form{Classes: "A"}); err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if got := classifier.requests[0].APIKey; got != "" {
		t.Fatalf("expected empty key, got %q", got)
	}
}

func TestPredictRejectsConcurrentCall(t *testing.T) {
	classifier := &classifierFake{
		result:  domain.Result{{Label: "A", Probability: 1}},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	session := NewSession(classifier, SessionConfig{})

	done := make(chan error, 1)
	go func() {
		_, err := session.Predict(context.Background(), ports.Form{Classes: "A"})
		done <- err
	}()
	<-classifier.started

	snap, err := session.Predict(context.Background(), ports.Form{Classes: "A"})
	if !domain.IsKind(err, domain.ErrBusy) {
		t.Fatalf("expected busy error, got %v", err)
	}
	if !snap.Loading || snap.Status != StatusInference {
		t.Fatalf("expected in-flight snapshot, got %+v", snap)
	}
	if _, err := session.LoadModel(context.Background(), ports.Form{}); !domain.IsKind(err, domain.ErrBusy) {
		t.Fatalf("expected busy error for load model, got %v", err)
	}

	close(classifier.release)
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("first Predict() error = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for first predict")
	}
	if calls := classifier.predictCalls(); calls != 1 {
		t.Fatalf("expected one hub call, got %d", calls)
	}
	if session.Snapshot().Loading {
		t.Fatalf("expected loading=false after completion")
	}
}

func TestPredictIgnoresCallerCancellation(t *testing.T) {
	classifier := &classifierFake{result: domain.Result{{Label: "A", Probability: 1}}}
	session := NewSession(classifier, SessionConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	snap, err := session.Predict(ctx, ports.Form{Classes: "A"})
	if err != nil || len(snap.Result) != 1 {
		t.Fatalf("expected completed predict, got %+v, %v", snap, err)
	}
}

func TestPredictPublishesEventWithoutSecrets(t *testing.T) {
	classifier := &classifierFake{result: domain.Result{{Label: "Science", Probability: 0.8}}}
	publisher := &publisherFake{err: errors.New("nats down")}
	session := NewSession(classifier, SessionConfig{Publisher: publisher})

	snap, err := session.Predict(context.Background(), ports.Form{APIKey: "secret", Text: "private text", Classes: "Science"})
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if snap.Alert != "" {
		t.Fatalf("publish failure must not raise an alert, got %q", snap.Alert)
	}
	if len(publisher.events) != 1 {
		t.Fatalf("expected one event, got %d", len(publisher.events))
	}
	event := publisher.events[0]
	if event.ID == "" || event.Result[0].Label != "Science" || event.Classes[0] != "Science" {
		t.Fatalf("unexpected event %+v", event)
	}
}

func TestPredictFailureDoesNotPublish(t *testing.T) {
	publisher := &publisherFake{}
	session := NewSession(&classifierFake{err: errors.New("boom")}, SessionConfig{Publisher: publisher})

	if _, err := session.Predict(context.Background(), ports.Form{}); err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if len(publisher.events) != 0 {
		t.Fatalf("expected no events, got %d", len(publisher.events))
	}
}

func TestLoadModelFailureIsOnlyLogged(t *testing.T) {
	classifier := &classifierFake{loadErr: errors.New("timeout")}
	recorder := &recorderFake{}
	session := NewSession(classifier, SessionConfig{Variant: domain.VariantDirect, Recorder: recorder})

	snap, err := session.LoadModel(context.Background(), ports.Form{EndpointSuffix: "u/api", APIKey: "k"})
	if err != nil {
		t.Fatalf("LoadModel() error = %v", err)
	}
	if snap.Alert != "" || snap.Loading || snap.Status != StatusReady {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if len(classifier.loads) != 1 || classifier.loads[0] != "https://api.cellstrathub.com/u/api" {
		t.Fatalf("unexpected load calls %v", classifier.loads)
	}
	if len(recorder.loads) != 1 || recorder.loads[0] != "error" {
		t.Fatalf("unexpected recorder calls %v", recorder.loads)
	}
}

func TestSnapshotReturnsCopy(t *testing.T) {
	classifier := &classifierFake{result: domain.Result{{Label: "A", Probability: 0.1}}}
	session := NewSession(classifier, SessionConfig{})
	_, _ = session.Predict(context.Background(), ports.Form{Classes: "A"})

	snap := session.Snapshot()
	snap.Result[0].Label = "mutated"
	if session.Snapshot().Result[0].Label != "A" {
		t.Fatalf("snapshot must not alias session state")
	}
}
