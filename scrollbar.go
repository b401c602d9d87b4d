package tactile

// Scrollbar is a machine that maps contact positions along its track to
// a clamped [0, 1] value. It declares ScrollDetails: the hit tester is
// responsible for projecting a contact's position onto the track and
// reporting the normalized coordinate.
//
// The first contact down grabs the thumb (capturing the contact); its
// Changed events drive the value until release.
type Scrollbar struct {
	*MachineBase

	value       float64
	dragContact int64 // id of the contact dragging the thumb, 0 = none

	// OnValueChanged fires whenever the value moves, including the
	// initial jump on Down. Nil callbacks cost nothing.
	OnValueChanged func(value float64)
}

// NewScrollbar creates a scrollbar machine with value 0.
func NewScrollbar() *Scrollbar {
	s := &Scrollbar{MachineBase: NewMachineBase(DetailsScroll)}
	s.MachineBase.OnDown(s.handleDown)
	s.MachineBase.OnChanged(s.handleChanged)
	s.MachineBase.OnUp(s.handleUp)
	s.MachineBase.OnLostCapture(s.handleLostCapture)
	return s
}

// Value returns the current position in [0, 1].
func (s *Scrollbar) Value() float64 { return s.value }

// SetValue moves the scrollbar programmatically. Clamped to [0, 1];
// fires OnValueChanged if the value moves.
func (s *Scrollbar) SetValue(v float64) {
	s.setValue(v)
}

// Dragging reports whether a contact currently drives the thumb.
func (s *Scrollbar) Dragging() bool { return s.dragContact != 0 }

func (s *Scrollbar) handleDown(ev ContactEvent) {
	if s.dragContact != 0 {
		return
	}
	r := s.Router()
	if r == nil {
		return
	}
	if err := r.Capture(ev.Contact, s); err != nil {
		return
	}
	s.dragContact = ev.Contact.ID
	if d, ok := ev.Details.(ScrollDetails); ok {
		s.setValue(d.Along)
	}
}

func (s *Scrollbar) handleChanged(ev ContactEvent) {
	if ev.Contact.ID != s.dragContact {
		return
	}
	// Details are absent while the captured contact is off the track;
	// the value holds until it returns.
	if d, ok := ev.Details.(ScrollDetails); ok {
		s.setValue(d.Along)
	}
}

func (s *Scrollbar) handleUp(ev ContactEvent) {
	if ev.Contact.ID == s.dragContact {
		s.dragContact = 0
	}
}

func (s *Scrollbar) handleLostCapture(c Contact) {
	if c.ID == s.dragContact {
		s.dragContact = 0
	}
}

func (s *Scrollbar) setValue(v float64) {
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	if v == s.value {
		return
	}
	s.value = v
	if s.OnValueChanged != nil {
		s.OnValueChanged(v)
	}
}
