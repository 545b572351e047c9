package history

import (
	"sync"
)

// Seed is the data a Store starts with.
type Seed struct {
	Records    []Record
	HealthData []HealthData
	Symptoms   []Symptom
	Statistics Statistics
}

// Store keeps prediction history in memory for the lifetime of the process.
// Records are only ever appended.
type Store struct {
	mu       sync.RWMutex
	records  []Record
	health   map[string]HealthData
	symptoms []Symptom
	baseline Statistics
	added    []Record
}

// NewStore returns a store holding a copy of seed.
func NewStore(seed Seed) *Store {
	s := &Store{
		records:  append([]Record(nil), seed.Records...),
		health:   make(map[string]HealthData, len(seed.HealthData)),
		symptoms: append([]Symptom(nil), seed.Symptoms...),
		baseline: seed.Statistics,
	}
	for _, hd := range seed.HealthData {
		s.health[hd.ID] = hd
	}
	return s
}

// Append adds a completed prediction and, when hd is non-nil, the health data
// it was computed from.
func (s *Store) Append(rec Record, hd *HealthData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if hd != nil {
		s.health[hd.ID] = *hd
		rec.HealthDataID = hd.ID
	}
	s.records = append(s.records, rec)
	s.added = append(s.added, rec)
}

// AppendSymptom adds a logged symptom.
func (s *Store) AppendSymptom(sym Symptom) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.symptoms = append(s.symptoms, sym)
}

// Records returns a snapshot of all records in insertion order.
func (s *Store) Records() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Record(nil), s.records...)
}

// RecordsFor returns the records of one user.
func (s *Store) RecordsFor(userID string) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Record
	for _, r := range s.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out
}

// HealthData looks up a health data row by id.
func (s *Store) HealthData(id string) (HealthData, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	hd, ok := s.health[id]
	return hd, ok
}

// Symptoms returns the symptoms logged by a user, newest first.
func (s *Store) Symptoms(userID string) []Symptom {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Symptom
	for i := len(s.symptoms) - 1; i >= 0; i-- {
		if s.symptoms[i].UserID == userID {
			out = append(out, s.symptoms[i])
		}
	}
	return out
}

// Statistics returns the seeded statistics with every appended record folded in.
func (s *Store) Statistics() Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Aggregate(s.baseline, s.added)
}
