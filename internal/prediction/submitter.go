package prediction

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Skufu/heartcheck/internal/assessment"
	"github.com/Skufu/heartcheck/internal/history"
)

var (
	// ErrSubmissionInFlight rejects a submit while the same form still waits
	// for its previous request.
	ErrSubmissionInFlight = errors.New("prediction: submission already in flight")
	// ErrSuperseded means the form was reset while its request was out; the
	// late response was dropped.
	ErrSuperseded = errors.New("prediction: response superseded by a newer form state")
)

// Predictor scores one clinical input.
type Predictor interface {
	Predict(ctx context.Context, in assessment.ClinicalInput) (Result, error)
}

// Recorder receives completed predictions.
type Recorder interface {
	Append(rec history.Record, hd *history.HealthData)
}

// Outcome is what a successful submission produced.
type Outcome struct {
	Result     Result
	Record     history.Record
	HealthData history.HealthData
}

// formState is kept only while a form has a request out or a result to show.
type formState struct {
	inFlight   bool
	generation uint64
	last       *Result
}

func (st *formState) idle() bool {
	return !st.inFlight && st.last == nil
}

// Submitter runs submissions for many form instances, one at a time per form.
type Submitter struct {
	predictor Predictor
	recorder  Recorder
	log       *zap.Logger

	now   func() time.Time
	newID func() string

	mu    sync.Mutex
	forms map[string]*formState
}

// NewSubmitter returns a Submitter that records into recorder.
func NewSubmitter(p Predictor, recorder Recorder, log *zap.Logger) *Submitter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Submitter{
		predictor: p,
		recorder:  recorder,
		log:       log,
		now:       time.Now,
		newID:     uuid.NewString,
		forms:     make(map[string]*formState),
	}
}

func (s *Submitter) form(formID string) *formState {
	st, ok := s.forms[formID]
	if !ok {
		st = &formState{}
		s.forms[formID] = st
	}
	return st
}

// Submit validates in and, when valid, sends it to the predictor. Invalid
// input returns *assessment.ValidationError without any network call. On
// failure the form's last result and the history stay as they were.
func (s *Submitter) Submit(ctx context.Context, formID, userID string, in assessment.ClinicalInput) (Outcome, error) {
	if res := assessment.Validate(in); !res.Valid() {
		return Outcome{}, &assessment.ValidationError{Fields: res}
	}

	s.mu.Lock()
	st := s.form(formID)
	if st.inFlight {
		s.mu.Unlock()
		return Outcome{}, ErrSubmissionInFlight
	}
	st.inFlight = true
	st.generation++
	gen := st.generation
	s.mu.Unlock()

	start := s.now()
	result, err := s.predictor.Predict(ctx, in)

	s.mu.Lock()
	defer s.mu.Unlock()
	st.inFlight = false
	defer s.release(formID, st)
	if err != nil {
		s.log.Warn("Risk assessment failed",
			zap.String("form_id", formID),
			zap.Error(err),
		)
		return Outcome{}, fmt.Errorf("submit assessment: %w", err)
	}
	if st.generation != gen {
		s.log.Info("Dropping superseded prediction", zap.String("form_id", formID))
		return Outcome{}, ErrSuperseded
	}

	now := s.now()
	hd := healthDataFrom(s.newID(), userID, in, now)
	rec := history.Record{
		ID:           s.newID(),
		UserID:       userID,
		RiskLevel:    result.RiskLevel(),
		Date:         now,
		HealthDataID: hd.ID,
	}
	s.recorder.Append(rec, &hd)

	r := result
	st.last = &r

	s.log.Info("Risk assessment completed",
		zap.String("form_id", formID),
		zap.String("record_id", rec.ID),
		zap.String("risk_category", result.RiskCategory),
		zap.Float64("confidence", result.Confidence),
		zap.Duration("latency", now.Sub(start)),
	)
	return Outcome{Result: result, Record: rec, HealthData: hd}, nil
}

// Last returns the result of the form's most recent successful submission.
func (s *Submitter) Last(formID string) (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.forms[formID]
	if !ok || st.last == nil {
		return Result{}, false
	}
	return *st.last, true
}

// InFlight reports whether the form has an outstanding request.
func (s *Submitter) InFlight(formID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.forms[formID]
	return ok && st.inFlight
}

// Reset clears the form's result. A request still in flight for the form is
// superseded and its response will be dropped; the form stays in flight
// until that request returns.
func (s *Submitter) Reset(formID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.forms[formID]
	if !ok {
		return
	}
	st.generation++
	st.last = nil
	s.release(formID, st)
}

// release drops the form's state once it holds nothing. Callers hold s.mu.
func (s *Submitter) release(formID string, st *formState) {
	if st.idle() && s.forms[formID] == st {
		delete(s.forms, formID)
	}
}

func healthDataFrom(id, userID string, in assessment.ClinicalInput, at time.Time) history.HealthData {
	sex := "female"
	if in.Sex == 1 {
		sex = "male"
	}
	return history.HealthData{
		ID:            id,
		UserID:        userID,
		Age:           in.Age,
		Sex:           sex,
		BloodPressure: history.BloodPressure{Systolic: in.RestingBloodPressure},
		Cholesterol:   in.SerumCholesterol,
		HeartRate:     in.MaxHeartRate,
		Date:          at,
	}
}
