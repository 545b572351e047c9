package assessment

import (
	"sync"
	"time"
)

// DraftTTL is how long an untouched draft is kept.
const DraftTTL = 2 * time.Hour

type draft struct {
	input   ClinicalInput
	touched time.Time
}

// Drafts keeps the in-progress input of each form instance. A form starts
// from DefaultInput and its draft is discarded after a successful submit or
// once it has been idle for DraftTTL.
type Drafts struct {
	now func() time.Time

	mu     sync.Mutex
	drafts map[string]draft
}

func NewDrafts() *Drafts {
	return &Drafts{now: time.Now, drafts: make(map[string]draft)}
}

// Get returns the form's draft, or the defaults when it has none.
func (d *Drafts) Get(formID string) ClinicalInput {
	d.mu.Lock()
	defer d.mu.Unlock()
	if dr, ok := d.drafts[formID]; ok && d.now().Sub(dr.touched) < DraftTTL {
		return dr.input
	}
	return DefaultInput()
}

// Put stores the form's draft and drops drafts that have expired.
func (d *Drafts) Put(formID string, in ClinicalInput) {
	d.mu.Lock()
	defer d.mu.Unlock()
	now := d.now()
	for id, dr := range d.drafts {
		if now.Sub(dr.touched) >= DraftTTL {
			delete(d.drafts, id)
		}
	}
	d.drafts[formID] = draft{input: in, touched: now}
}

func (d *Drafts) Discard(formID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.drafts, formID)
}
