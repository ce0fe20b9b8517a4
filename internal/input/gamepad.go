// Package input describes gamepad state independent of the backend reading it.
package input

// MaxSlots is the number of gamepad slots polled each frame.
const MaxSlots = 4

// Buttons is a bit set using the XInput layout.
type Buttons uint16

const (
	DPadUp        Buttons = 0x0001
	DPadDown      Buttons = 0x0002
	DPadLeft      Buttons = 0x0004
	DPadRight     Buttons = 0x0008
	Start         Buttons = 0x0010
	Back          Buttons = 0x0020
	LeftThumb     Buttons = 0x0040
	RightThumb    Buttons = 0x0080
	LeftShoulder  Buttons = 0x0100
	RightShoulder Buttons = 0x0200
	A             Buttons = 0x1000
	B             Buttons = 0x2000
	X             Buttons = 0x4000
	Y             Buttons = 0x8000
)

// Has reports whether every button in mask is held.
func (b Buttons) Has(mask Buttons) bool { return b&mask == mask }

// PadState is one controller's reading for a frame. Stick Y is positive up.
type PadState struct {
	Buttons Buttons
	StickX  int16
	StickY  int16
}

// Provider polls a slot. ok is false when nothing is plugged into it.
type Provider interface {
	Poll(slot int) (state PadState, ok bool)
}

// Absent is the provider used when no gamepad support is available.
type Absent struct{}

func (Absent) Poll(int) (PadState, bool) { return PadState{}, false }

// AxisToStick converts a normalized axis value to the signed 16-bit range.
// Values outside [-1, 1] are clamped.
func AxisToStick(v float64) int16 {
	v = clampUnit(v)
	if v < 0 {
		return int16(v * 32768)
	}
	return int16(v * 32767)
}

func clampUnit(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
