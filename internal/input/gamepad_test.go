package input

import "testing"

func TestAbsentHasNoPads(t *testing.T) {
	var p Provider = Absent{}
	for slot := 0; slot < MaxSlots; slot++ {
		if _, ok := p.Poll(slot); ok {
			t.Fatalf("slot %d reported connected", slot)
		}
	}
}

func TestButtonsHas(t *testing.T) {
	b := A | DPadUp
	if !b.Has(A) || !b.Has(DPadUp) || !b.Has(A|DPadUp) {
		t.Fatal("missing held button")
	}
	if b.Has(B) || b.Has(A|B) {
		t.Fatal("reported a button that is not held")
	}
}

func TestAxisToStick(t *testing.T) {
	tests := []struct {
		in   float64
		want int16
	}{
		{0, 0},
		{1, 32767},
		{-1, -32768},
		{2, 32767},
		{-3, -32768},
		{0.5, 16383},
	}
	for _, tt := range tests {
		if got := AxisToStick(tt.in); got != tt.want {
			t.Fatalf("AxisToStick(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
