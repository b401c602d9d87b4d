package tactile

// Button is a machine that turns a press-and-release over itself into a
// click. It captures the pressing contact on Down so drag-off/drag-back
// behaves like a hardware button: the visual pressed state follows the
// hit tester's verdict on whether the captured contact is still over
// the button, and the click only fires if the release happens there.
//
// Additional contacts pressing while one is held are tracked but do not
// press or click.
type Button struct {
	*MachineBase

	pressContact int64 // id of the contact holding the press, 0 = none
	pressed      bool
	clicked      bool // cleared each tick by the reset broadcast

	// OnClick fires on release over the button. OnPressedChanged fires
	// whenever the visual pressed state flips. Nil callbacks cost nothing.
	OnClick          func(c Contact)
	OnPressedChanged func(pressed bool)
}

// NewButton creates a button machine. Register it with a router and add
// a region for it to a hit tester.
func NewButton() *Button {
	b := &Button{MachineBase: NewMachineBase(DetailsNone)}
	b.MachineBase.OnDown(b.handleDown)
	b.MachineBase.OnChanged(b.handleChanged)
	b.MachineBase.OnUp(b.handleUp)
	b.MachineBase.OnLostCapture(b.handleLostCapture)
	return b
}

// Pressed reports the current visual pressed state.
func (b *Button) Pressed() bool { return b.pressed }

// Clicked reports whether the button was clicked during the current
// tick. Cleared at the start of every tick.
func (b *Button) Clicked() bool { return b.clicked }

// ResetTick clears the clicked-this-tick flag.
func (b *Button) ResetTick() { b.clicked = false }

func (b *Button) handleDown(ev ContactEvent) {
	if b.pressContact != 0 {
		return
	}
	r := b.Router()
	if r == nil {
		return
	}
	if err := r.Capture(ev.Contact, b); err != nil {
		return
	}
	b.pressContact = ev.Contact.ID
	b.setPressed(true)
}

func (b *Button) handleChanged(ev ContactEvent) {
	if ev.Contact.ID != b.pressContact {
		return
	}
	if r := b.Router(); r != nil {
		b.setPressed(r.HitTestMatchesCapture(ev.Contact))
	}
}

func (b *Button) handleUp(ev ContactEvent) {
	if ev.Contact.ID != b.pressContact {
		return
	}
	if r := b.Router(); r != nil && r.HitTestMatchesCapture(ev.Contact) {
		b.clicked = true
		if b.OnClick != nil {
			b.OnClick(ev.Contact)
		}
	}
	// The capture itself is torn down by the router's implicit release
	// after this tick's queue is dispatched.
	b.pressContact = 0
	b.setPressed(false)
}

func (b *Button) handleLostCapture(c Contact) {
	if c.ID == b.pressContact {
		b.pressContact = 0
		b.setPressed(false)
	}
}

func (b *Button) setPressed(v bool) {
	if b.pressed == v {
		return
	}
	b.pressed = v
	if b.OnPressedChanged != nil {
		b.OnPressedChanged(v)
	}
}
