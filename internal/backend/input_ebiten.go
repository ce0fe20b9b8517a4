package backend

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/gradient-tone/internal/input"
)

var padButtons = []struct {
	button ebiten.StandardGamepadButton
	flag   input.Buttons
}{
	{ebiten.StandardGamepadButtonLeftTop, input.DPadUp},
	{ebiten.StandardGamepadButtonLeftBottom, input.DPadDown},
	{ebiten.StandardGamepadButtonLeftLeft, input.DPadLeft},
	{ebiten.StandardGamepadButtonLeftRight, input.DPadRight},
	{ebiten.StandardGamepadButtonCenterRight, input.Start},
	{ebiten.StandardGamepadButtonCenterLeft, input.Back},
	{ebiten.StandardGamepadButtonLeftStick, input.LeftThumb},
	{ebiten.StandardGamepadButtonRightStick, input.RightThumb},
	{ebiten.StandardGamepadButtonFrontTopLeft, input.LeftShoulder},
	{ebiten.StandardGamepadButtonFrontTopRight, input.RightShoulder},
	{ebiten.StandardGamepadButtonRightBottom, input.A},
	{ebiten.StandardGamepadButtonRightRight, input.B},
	{ebiten.StandardGamepadButtonRightLeft, input.X},
	{ebiten.StandardGamepadButtonRightTop, input.Y},
}

// Poll maps the slot-th connected gamepad onto the XInput layout. Pads
// without a standard mapping report as connected with no input.
func (w *Window) Poll(slot int) (input.PadState, bool) {
	if slot < 0 || slot >= len(w.gamepadIDs) {
		return input.PadState{}, false
	}
	id := w.gamepadIDs[slot]
	if !ebiten.IsStandardGamepadLayoutAvailable(id) {
		return input.PadState{}, true
	}

	var state input.PadState
	for _, b := range padButtons {
		if ebiten.IsStandardGamepadButtonPressed(id, b.button) {
			state.Buttons |= b.flag
		}
	}
	state.StickX = input.AxisToStick(ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal))
	// ebiten's vertical axis grows downwards.
	state.StickY = input.AxisToStick(-ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical))
	return state, true
}
