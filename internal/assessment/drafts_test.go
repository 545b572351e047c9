package assessment

import (
	"testing"
	"time"
)

func TestDrafts(t *testing.T) {
	d := NewDrafts()
	if got := d.Get("f"); got != DefaultInput() {
		t.Fatalf("expected defaults for a fresh form, got %+v", got)
	}

	in := DefaultInput()
	in.Age = 63
	d.Put("f", in)
	if got := d.Get("f"); got.Age != 63 {
		t.Fatalf("expected stored draft, got %+v", got)
	}
	if got := d.Get("other"); got.Age != 40 {
		t.Fatalf("drafts must not leak across forms, got %+v", got)
	}

	d.Discard("f")
	if got := d.Get("f"); got != DefaultInput() {
		t.Fatalf("expected defaults after discard, got %+v", got)
	}
}

func TestDraftsExpire(t *testing.T) {
	now := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	d := NewDrafts()
	d.now = func() time.Time { return now }

	in := DefaultInput()
	in.Age = 63
	d.Put("old", in)

	now = now.Add(DraftTTL)
	if got := d.Get("old"); got != DefaultInput() {
		t.Fatalf("expected expired draft to read as defaults, got %+v", got)
	}

	d.Put("new", in)
	if len(d.drafts) != 1 {
		t.Fatalf("expected expired drafts to be dropped, got %d", len(d.drafts))
	}
	if got := d.Get("new"); got.Age != 63 {
		t.Fatalf("expected fresh draft, got %+v", got)
	}
}
