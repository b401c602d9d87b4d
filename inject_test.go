package tactile

import "testing"

func TestInjectorTapClicksButton(t *testing.T) {
	r, b := buttonFixture(t)
	in := NewInjector(r)

	var clicks int
	b.OnClick = func(c Contact) { clicks++ }

	in.InjectTap(50, 50)
	if got := in.PendingEvents(); got != 2 {
		t.Fatalf("PendingEvents = %d, want 2", got)
	}

	// Frame 1: press.
	if err := in.Step(); err != nil {
		t.Fatal(err)
	}
	update(t, r)
	if !b.Pressed() {
		t.Error("button should be pressed after the press frame")
	}

	// Frame 2: release.
	if err := in.Step(); err != nil {
		t.Fatal(err)
	}
	update(t, r)
	if clicks != 1 {
		t.Errorf("clicks = %d, want 1", clicks)
	}
	if got := in.PendingEvents(); got != 0 {
		t.Errorf("PendingEvents = %d, want 0", got)
	}
}

func TestInjectorDragInterpolation(t *testing.T) {
	rec := newRecorder(DetailsNone)
	tester := newFixedHitTester()
	tester.owners[1] = rec.ID()
	r := NewRouter(tester)
	if err := r.Register(rec); err != nil {
		t.Fatal(err)
	}

	var xs []float64
	rec.MachineBase.OnChanged(func(ev ContactEvent) { xs = append(xs, ev.Contact.X) })

	in := NewInjector(r)
	in.InjectDrag(0, 0, 100, 0, 5)
	if got := in.PendingEvents(); got != 5 {
		t.Fatalf("PendingEvents = %d, want 5 (press + 3 moves + release)", got)
	}
	for in.PendingEvents() > 0 {
		if err := in.Step(); err != nil {
			t.Fatal(err)
		}
		update(t, r)
	}

	want := []float64{25, 50, 75}
	if len(xs) != len(want) {
		t.Fatalf("move xs = %v, want %v", xs, want)
	}
	for i := range want {
		if !approx(xs[i], want[i]) {
			t.Fatalf("move xs = %v, want %v", xs, want)
		}
	}
}

func TestInjectorDragMinimumFrames(t *testing.T) {
	r := NewRouter(nil)
	in := NewInjector(r)
	in.InjectDrag(0, 0, 10, 10, 0)
	if got := in.PendingEvents(); got != 2 {
		t.Errorf("PendingEvents = %d, want 2 (press + release)", got)
	}
}

func TestInjectorAllocatesFreshIDs(t *testing.T) {
	rec := newRecorder(DetailsNone)
	tester := newFixedHitTester()
	tester.owners[1] = rec.ID()
	tester.owners[2] = rec.ID()
	r := NewRouter(tester)
	if err := r.Register(rec); err != nil {
		t.Fatal(err)
	}

	in := NewInjector(r)
	in.InjectTap(10, 10)
	in.InjectTap(20, 20)
	for in.PendingEvents() > 0 {
		if err := in.Step(); err != nil {
			t.Fatal(err)
		}
		update(t, r)
	}

	want := "Enter(1) Added(1) Removed(1) Leave(1) Enter(2) Added(2) Removed(2) Leave(2)"
	if got := rec.logString(); got != want {
		t.Errorf("log = %q, want %q", got, want)
	}
}

func TestInjectorMoveWithoutPressDropped(t *testing.T) {
	r := NewRouter(nil)
	in := NewInjector(r)

	in.InjectMove(10, 10)
	if err := in.Step(); err != nil {
		t.Fatal(err)
	}
	if got := r.Pending(); got != 0 {
		t.Errorf("Pending = %d, want 0: move with no gesture in flight must be dropped", got)
	}
}

func TestInjectorStepEmptyQueue(t *testing.T) {
	in := NewInjector(NewRouter(nil))
	if err := in.Step(); err != nil {
		t.Errorf("Step on empty queue: %v", err)
	}
}
