package tactile

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestPointerTrackLifecycle(t *testing.T) {
	rec := newRecorder(DetailsNone)
	tester := newFixedHitTester()
	tester.owners[1] = rec.ID()
	r := NewRouter(tester)
	if err := r.Register(rec); err != nil {
		t.Fatal(err)
	}
	src := NewPointerSource(r)

	// Press, move, hold still, release.
	if err := src.track(0, 10, 20, true); err != nil {
		t.Fatal(err)
	}
	if err := src.track(0, 15, 20, true); err != nil {
		t.Fatal(err)
	}
	if err := src.track(0, 15, 20, true); err != nil { // unchanged position
		t.Fatal(err)
	}
	if err := src.track(0, 15, 20, false); err != nil {
		t.Fatal(err)
	}
	update(t, r)

	// The motionless frame produces no Changed.
	want := "Enter(1) Added(1) Changed(1) Removed(1) Leave(1)"
	if got := rec.logString(); got != want {
		t.Errorf("log = %q, want %q", got, want)
	}
}

func TestPointerTrackInactiveIdleSlot(t *testing.T) {
	r := NewRouter(nil)
	src := NewPointerSource(r)

	if err := src.track(0, 10, 20, false); err != nil {
		t.Fatal(err)
	}
	if got := r.Pending(); got != 0 {
		t.Errorf("Pending = %d, want 0 for an idle slot going nowhere", got)
	}
}

func TestPointerTrackFreshIDPerPress(t *testing.T) {
	rec := newRecorder(DetailsNone)
	tester := newFixedHitTester()
	tester.owners[1] = rec.ID()
	tester.owners[2] = rec.ID()
	r := NewRouter(tester)
	if err := r.Register(rec); err != nil {
		t.Fatal(err)
	}
	src := NewPointerSource(r)

	// Two presses on the same slot get distinct contact ids.
	if err := src.track(0, 10, 10, true); err != nil {
		t.Fatal(err)
	}
	if err := src.track(0, 10, 10, false); err != nil {
		t.Fatal(err)
	}
	if err := src.track(0, 10, 10, true); err != nil {
		t.Fatal(err)
	}
	if err := src.track(0, 10, 10, false); err != nil {
		t.Fatal(err)
	}
	update(t, r)

	want := "Enter(1) Added(1) Removed(1) Leave(1) Enter(2) Added(2) Removed(2) Leave(2)"
	if got := rec.logString(); got != want {
		t.Errorf("log = %q, want %q", got, want)
	}
}

func TestPointerSlotsIndependent(t *testing.T) {
	rec := newRecorder(DetailsNone)
	tester := newFixedHitTester()
	tester.owners[1] = rec.ID()
	tester.owners[2] = rec.ID()
	r := NewRouter(tester)
	if err := r.Register(rec); err != nil {
		t.Fatal(err)
	}
	src := NewPointerSource(r)

	if err := src.track(0, 10, 10, true); err != nil {
		t.Fatal(err)
	}
	if err := src.track(1, 50, 50, true); err != nil {
		t.Fatal(err)
	}
	// Releasing slot 1 leaves slot 0's contact alive.
	if err := src.track(1, 50, 50, false); err != nil {
		t.Fatal(err)
	}
	if err := src.track(0, 20, 10, true); err != nil {
		t.Fatal(err)
	}
	update(t, r)

	want := "Enter(1) Added(1) Enter(2) Added(2) Removed(2) Leave(2) Changed(1)"
	if got := rec.logString(); got != want {
		t.Errorf("log = %q, want %q", got, want)
	}
}

func TestTouchSlotAllocation(t *testing.T) {
	src := NewPointerSource(NewRouter(nil))

	s1 := src.touchSlot(ebiten.TouchID(100))
	s2 := src.touchSlot(ebiten.TouchID(200))
	if s1 == s2 {
		t.Fatalf("distinct touches share slot %d", s1)
	}
	if s1 < 1 || s1 >= maxPointers || s2 < 1 || s2 >= maxPointers {
		t.Fatalf("slots %d, %d outside touch range", s1, s2)
	}

	// The same touch id maps back to its slot.
	if got := src.touchSlot(ebiten.TouchID(100)); got != s1 {
		t.Errorf("touchSlot(100) = %d, want %d", got, s1)
	}

	// Freeing a slot makes it reusable.
	src.touchUsed[s1] = false
	src.touchMap[s1] = 0
	if got := src.touchSlot(ebiten.TouchID(300)); got != s1 {
		t.Errorf("touchSlot(300) = %d, want freed slot %d", got, s1)
	}
}

func TestTouchSlotExhaustion(t *testing.T) {
	src := NewPointerSource(NewRouter(nil))

	for i := 0; i < maxPointers-1; i++ {
		if slot := src.touchSlot(ebiten.TouchID(i)); slot < 0 {
			t.Fatalf("touch %d rejected with slots free", i)
		}
	}
	if slot := src.touchSlot(ebiten.TouchID(999)); slot != -1 {
		t.Errorf("touchSlot past capacity = %d, want -1", slot)
	}
}
