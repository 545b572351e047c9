package prediction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/Skufu/heartcheck/internal/assessment"
	"github.com/Skufu/heartcheck/internal/history"
	"github.com/Skufu/heartcheck/internal/upstream"
)

type fakePredictor struct {
	mu      sync.Mutex
	calls   int
	result  Result
	err     error
	release chan struct{}
	started chan struct{}
}

func (f *fakePredictor) Predict(ctx context.Context, in assessment.ClinicalInput) (Result, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	return f.result, f.err
}

func (f *fakePredictor) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newTestSubmitter(t *testing.T, p Predictor) (*Submitter, *history.Store) {
	t.Helper()
	store := history.NewStore(history.Seed{})
	s := NewSubmitter(p, store, zaptest.NewLogger(t))
	s.now = func() time.Time { return time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC) }
	n := 0
	s.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return s, store
}

func TestResultRiskLevel(t *testing.T) {
	tests := []struct {
		category string
		high     bool
		level    history.RiskLevel
	}{
		{"Heart Risk", true, history.RiskHigh},
		{"No Heart Risk", false, history.RiskLow},
		{"No Risk", false, history.RiskLow},
		{"", false, history.RiskLow},
	}
	for _, tt := range tests {
		r := Result{RiskCategory: tt.category}
		if r.HeartRiskDetected() != tt.high || r.RiskLevel() != tt.level {
			t.Errorf("category %q: got detected=%v level=%s", tt.category, r.HeartRiskDetected(), r.RiskLevel())
		}
	}
}

func TestSubmitSuccessAppendsOneRecord(t *testing.T) {
	p := &fakePredictor{result: Result{RiskScore: 1, RiskCategory: "Heart Risk", Confidence: 91.2}}
	s, store := newTestSubmitter(t, p)

	out, err := s.Submit(context.Background(), "form-1", "1", assessment.DefaultInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.callCount() != 1 {
		t.Fatalf("expected one predictor call, got %d", p.callCount())
	}
	records := store.Records()
	if len(records) != 1 {
		t.Fatalf("expected exactly one record, got %d", len(records))
	}
	if records[0].RiskLevel != history.RiskHigh || records[0].UserID != "1" {
		t.Fatalf("unexpected record %+v", records[0])
	}
	if records[0].HealthDataID != out.HealthData.ID {
		t.Fatalf("record not linked to health data: %+v", records[0])
	}
	hd, ok := store.HealthData(out.HealthData.ID)
	if !ok || hd.Age != 40 || hd.Sex != "male" || hd.BloodPressure.Systolic != 120 {
		t.Fatalf("unexpected health data %+v", hd)
	}
	last, ok := s.Last("form-1")
	if !ok || last.Confidence != 91.2 {
		t.Fatalf("expected last result to be stored, got %+v", last)
	}
	if s.InFlight("form-1") {
		t.Fatal("form should not be in flight after completion")
	}
}

func TestSubmitInvalidInputSkipsNetwork(t *testing.T) {
	p := &fakePredictor{}
	s, store := newTestSubmitter(t, p)

	in := assessment.DefaultInput()
	in.Age = 17
	_, err := s.Submit(context.Background(), "form-1", "1", in)

	var vErr *assessment.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, ok := vErr.Fields[assessment.FieldAge]; !ok {
		t.Fatalf("expected Age to be reported, got %v", vErr.Fields)
	}
	if p.callCount() != 0 {
		t.Fatal("predictor must not be called for invalid input")
	}
	if len(store.Records()) != 0 {
		t.Fatal("history must not change on invalid input")
	}
}

func TestSubmitFailureKeepsPriorState(t *testing.T) {
	p := &fakePredictor{result: Result{RiskScore: 0, RiskCategory: "No Risk", Confidence: 88}}
	s, store := newTestSubmitter(t, p)

	if _, err := s.Submit(context.Background(), "form-1", "1", assessment.DefaultInput()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p.err = &upstream.APIError{Method: http.MethodPost, Path: "/predict", StatusCode: 500, Detail: "Model is not initialized"}
	_, err := s.Submit(context.Background(), "form-1", "1", assessment.DefaultInput())
	if upstream.Classify(err) != upstream.KindServer {
		t.Fatalf("expected server error, got %v", err)
	}
	if got := len(store.Records()); got != 1 {
		t.Fatalf("expected history to keep 1 record, got %d", got)
	}
	last, ok := s.Last("form-1")
	if !ok || last.RiskCategory != "No Risk" {
		t.Fatalf("expected previous result to survive, got %+v", last)
	}
	if s.InFlight("form-1") {
		t.Fatal("failed submission must clear the in-flight flag")
	}
}

func TestSubmitRejectsConcurrentResubmission(t *testing.T) {
	p := &fakePredictor{
		result:  Result{RiskCategory: "No Risk"},
		release: make(chan struct{}),
		started: make(chan struct{}, 1),
	}
	s, store := newTestSubmitter(t, p)

	done := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background(), "form-1", "1", assessment.DefaultInput())
		done <- err
	}()
	<-p.started

	if !s.InFlight("form-1") {
		t.Fatal("expected form to be in flight")
	}
	if _, err := s.Submit(context.Background(), "form-1", "1", assessment.DefaultInput()); !errors.Is(err, ErrSubmissionInFlight) {
		t.Fatalf("expected ErrSubmissionInFlight, got %v", err)
	}

	close(p.release)
	if err := <-done; err != nil {
		t.Fatalf("first submission failed: %v", err)
	}
	if p.callCount() != 1 {
		t.Fatalf("expected one predictor call, got %d", p.callCount())
	}
	if len(store.Records()) != 1 {
		t.Fatalf("expected one record, got %d", len(store.Records()))
	}
}

func TestResetDropsLateResponse(t *testing.T) {
	p := &fakePredictor{
		result:  Result{RiskCategory: "Heart Risk"},
		release: make(chan struct{}),
		started: make(chan struct{}, 1),
	}
	s, store := newTestSubmitter(t, p)

	done := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background(), "form-1", "1", assessment.DefaultInput())
		done <- err
	}()
	<-p.started
	s.Reset("form-1")

	if !s.InFlight("form-1") {
		t.Fatal("form must stay in flight until the superseded request returns")
	}
	if _, err := s.Submit(context.Background(), "form-1", "1", assessment.DefaultInput()); !errors.Is(err, ErrSubmissionInFlight) {
		t.Fatalf("expected ErrSubmissionInFlight after reset, got %v", err)
	}
	close(p.release)

	if err := <-done; !errors.Is(err, ErrSuperseded) {
		t.Fatalf("expected ErrSuperseded, got %v", err)
	}
	if p.callCount() != 1 {
		t.Fatalf("expected one predictor call, got %d", p.callCount())
	}
	if len(store.Records()) != 0 {
		t.Fatal("superseded response must not be recorded")
	}
	if _, ok := s.Last("form-1"); ok {
		t.Fatal("superseded response must not become the last result")
	}

	p.started = nil
	p.release = nil
	if _, err := s.Submit(context.Background(), "form-1", "1", assessment.DefaultInput()); err != nil {
		t.Fatalf("submit after superseded request returned: %v", err)
	}
}

func formCount(s *Submitter) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.forms)
}

func TestIdleFormsHoldNoState(t *testing.T) {
	p := &fakePredictor{err: errors.New("model unavailable")}
	s, _ := newTestSubmitter(t, p)

	for i := 0; i < 5; i++ {
		if _, err := s.Submit(context.Background(), fmt.Sprintf("form-%d", i), "1", assessment.DefaultInput()); err == nil {
			t.Fatal("expected predictor error")
		}
	}
	s.Reset("never-submitted")
	if n := formCount(s); n != 0 {
		t.Fatalf("expected failed and unknown forms to leave no state, got %d", n)
	}

	p.err = nil
	p.result = Result{RiskCategory: "No Risk"}
	if _, err := s.Submit(context.Background(), "form-ok", "1", assessment.DefaultInput()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := formCount(s); n != 1 {
		t.Fatalf("expected the form with a result to be kept, got %d", n)
	}
	s.Reset("form-ok")
	if n := formCount(s); n != 0 {
		t.Fatalf("expected reset to drop the form, got %d", n)
	}
}

func TestFormsAreIndependent(t *testing.T) {
	p := &fakePredictor{result: Result{RiskCategory: "No Risk"}}
	s, _ := newTestSubmitter(t, p)

	if _, err := s.Submit(context.Background(), "form-a", "1", assessment.DefaultInput()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := s.Last("form-b"); ok {
		t.Fatal("form-b must not see form-a's result")
	}
}

func TestClientPredict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/predict" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var in assessment.ClinicalInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if in.ChestPainType != assessment.ChestPainTypical {
			t.Errorf("unexpected chest pain type %q", in.ChestPainType)
		}
		_, _ = w.Write([]byte(`{"risk_score":1,"risk_category":"Heart Risk","confidence":91.2,"explanations":[]}`))
	}))
	defer srv.Close()

	c := NewClient(upstream.New(srv.URL, time.Second, zaptest.NewLogger(t)))
	res, err := c.Predict(context.Background(), assessment.DefaultInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.HeartRiskDetected() || res.RiskScore != 1 || res.Confidence != 91.2 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestClientPredictServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"detail":"Model is not initialized"}`))
	}))
	defer srv.Close()

	_, err := NewClient(upstream.New(srv.URL, time.Second, nil)).Predict(context.Background(), assessment.DefaultInput())
	if got := upstream.Detail(err); got != "Model is not initialized" {
		t.Fatalf("expected backend detail, got %q (%v)", got, err)
	}
}

func TestClientListPredictions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/predictions/predictions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("skip") != "0" || r.URL.Query().Get("limit") != "10" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`[{"id":7,"risk_score":0,"risk_category":"No Heart Risk","confidence":77.5,"created_at":"2024-01-02T03:04:05"}]`))
	}))
	defer srv.Close()

	c := NewClient(upstream.New(srv.URL, time.Second, nil))
	got, err := c.ListPredictions(context.Background(), -1, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].RiskCategory != "No Heart Risk" || got[0].Confidence != 77.5 {
		t.Fatalf("unexpected predictions %+v", got)
	}
	if fmt.Sprint(got[0].ID) != "7" {
		t.Fatalf("unexpected id %v", got[0].ID)
	}
}
