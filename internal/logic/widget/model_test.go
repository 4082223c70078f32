package widget

import (
	"testing"

	"github.com/cjeanneret/HexPad/internal/hw/display"
)

func newDefaultModel(t *testing.T) *Model {
	t.Helper()
	m, err := NewModel(DefaultLayout())
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	return m
}

func TestDefaultLayout_InitialSelection(t *testing.T) {
	m := newDefaultModel(t)
	want := map[ButtonID]bool{
		WalkMode: true, TripodGait: true, LowBody: true,
		LowStep: true, LongStep: true, GreenEyes: true,
	}
	for _, b := range m.Buttons() {
		if b.Selected != want[b.ID] {
			t.Errorf("%v selected = %v, want %v", b.ID, b.Selected, want[b.ID])
		}
		if !b.Dirty {
			t.Errorf("%v should start dirty", b.ID)
		}
	}
	for _, s := range m.Sliders() {
		if s.Value != TrimDefault || s.LastRendered != -1 {
			t.Errorf("%v value=%d last=%d, want %d and -1", s.ID, s.Value, s.LastRendered, TrimDefault)
		}
	}
}

func TestNewModel_RejectsBadLayout(t *testing.T) {
	l := DefaultLayout()
	l.Buttons[0], l.Buttons[1] = l.Buttons[1], l.Buttons[0]
	if _, err := NewModel(l); err == nil {
		t.Error("expected error for out-of-order buttons")
	}

	l = DefaultLayout()
	l.Sliders[0].Width = 16
	if _, err := NewModel(l); err == nil {
		t.Error("expected error for slider without usable width")
	}
}

func TestTap_WalkModeCentre(t *testing.T) {
	m := newDefaultModel(t)
	m.OnTapDown(140, 30)
	if b, _ := m.Captured(); b != WalkMode {
		t.Fatalf("captured = %v, want walk", b)
	}
	id, ok := m.OnTapUp(140, 30)
	if !ok || id != WalkMode {
		t.Errorf("OnTapUp = (%v,%v), want (walk,true)", id, ok)
	}
	if b, s := m.Captured(); b != NoButton || s != NoSlider {
		t.Errorf("captures not cleared: %v %v", b, s)
	}
}

func TestHitBox_Edges(t *testing.T) {
	// Walk: [90,190] x [30,62]
	tests := []struct {
		name string
		x, y int
		want ButtonID
	}{
		{"left edge", 90, 40, WalkMode},
		{"right edge", 190, 40, WalkMode},
		{"bottom of touch area", 140, 62, WalkMode},
		{"just left", 89, 40, NoButton},
		{"just below", 140, 63, NoButton},
		{"label column", 20, 40, NoButton},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newDefaultModel(t)
			m.OnTapDown(tt.x, tt.y)
			if got, _ := m.Captured(); got != tt.want {
				t.Errorf("captured = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTapUp_OutsideCapturedButtonIsDropped(t *testing.T) {
	m := newDefaultModel(t)
	m.OnTapDown(260, 40)
	id, ok := m.OnTapUp(260, 100)
	if ok || id != NoButton {
		t.Errorf("OnTapUp outside = (%v,%v), want (none,false)", id, ok)
	}
	if b, _ := m.Captured(); b != NoButton {
		t.Errorf("capture not cleared")
	}
}

func TestTapUp_WithoutCapture(t *testing.T) {
	m := newDefaultModel(t)
	m.OnTapDown(5, 300)
	if id, ok := m.OnTapUp(5, 300); ok {
		t.Errorf("OnTapUp = %v, want no press", id)
	}
}

func TestOverlappingButtons_LastMatchWins(t *testing.T) {
	l := DefaultLayout()
	// Stretch Wiggle over Walk so both contain (180, 40).
	l.Buttons[WiggleMode].X = 200
	m, err := NewModel(l)
	if err != nil {
		t.Fatal(err)
	}
	m.OnTapDown(180, 40)
	if b, _ := m.Captured(); b != WiggleMode {
		t.Errorf("captured = %v, want wiggle", b)
	}
}

func TestButtonAndSlider_BothCaptured(t *testing.T) {
	l := DefaultLayout()
	l.Sliders[FrontTrim].X = 140
	l.Sliders[FrontTrim].Y = 30
	m, err := NewModel(l)
	if err != nil {
		t.Fatal(err)
	}
	m.OnTapDown(140, 40)
	b, s := m.Captured()
	if b != WalkMode || s != FrontTrim {
		t.Errorf("captured = (%v,%v), want (walk,front-trim)", b, s)
	}
}

func TestDrag_SliderValue(t *testing.T) {
	// FrontTrim: centre 400, width 140, usable 124, track starts at 338.
	tests := []struct {
		name string
		x    int
		want int
	}{
		{"track start", 338, 0},
		{"track middle", 400, 50},
		{"track end", 462, 100},
		{"quarter", 369, 25},
		{"left margin clamps", 331, 0},
		{"right margin clamps", 470, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newDefaultModel(t)
			m.OnTapDown(400, 70)
			m.OnDragUpdate(tt.x, 70)
			if got := m.Slider(FrontTrim).Value; got != tt.want {
				t.Errorf("value = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDrag_OutsideBoxIsIgnored(t *testing.T) {
	m := newDefaultModel(t)
	m.OnTapDown(400, 70)
	m.OnDragUpdate(350, 70)
	before := m.Slider(FrontTrim).Value
	m.OnDragUpdate(450, 120)
	if got := m.Slider(FrontTrim).Value; got != before {
		t.Errorf("value changed outside box: %d -> %d", before, got)
	}
}

func TestDrag_WithoutCaptureIsIgnored(t *testing.T) {
	m := newDefaultModel(t)
	m.OnTapDown(140, 30)
	m.OnDragUpdate(400, 70)
	if got := m.Slider(FrontTrim).Value; got != TrimDefault {
		t.Errorf("uncaptured slider moved to %d", got)
	}
}

func TestDrag_OnlyCapturedSliderMoves(t *testing.T) {
	m := newDefaultModel(t)
	m.OnTapDown(400, 140)
	m.OnDragUpdate(338, 70)
	m.OnDragUpdate(338, 140)
	if got := m.Slider(FrontTrim).Value; got != TrimDefault {
		t.Errorf("front trim moved to %d", got)
	}
	if got := m.Slider(BackTrim).Value; got != 0 {
		t.Errorf("back trim = %d, want 0", got)
	}
}

func TestSliderValuesStayInRange(t *testing.T) {
	m := newDefaultModel(t)
	m.OnTapDown(400, 70)
	for x := 300; x < 500; x += 3 {
		m.OnDragUpdate(x, 80)
		if v := m.Slider(FrontTrim).Value; v < 0 || v > 100 {
			t.Fatalf("value %d out of range at x=%d", v, x)
		}
	}
}

func TestRefreshHighlights(t *testing.T) {
	m := newDefaultModel(t)
	m.TakeRedraws(false)

	m.OnTapDown(260, 40)
	m.RefreshHighlights(260, 40, true)
	if !m.Button(WiggleMode).Highlighted || !m.Button(WiggleMode).Dirty {
		t.Fatal("captured button under finger should be highlighted and dirty")
	}
	if m.Button(WalkMode).Highlighted {
		t.Error("uncaptured button highlighted")
	}

	m.TakeRedraws(false)
	m.RefreshHighlights(262, 41, true)
	if m.Button(WiggleMode).Dirty {
		t.Error("unchanged highlight should not mark dirty")
	}

	// Finger slides off the button.
	m.RefreshHighlights(260, 120, true)
	if m.Button(WiggleMode).Highlighted {
		t.Error("highlight should drop when finger leaves the box")
	}

	m.RefreshHighlights(260, 40, true)
	m.OnTapUp(260, 40)
	m.RefreshHighlights(260, 40, false)
	if m.Button(WiggleMode).Highlighted {
		t.Error("highlight should drop after release")
	}
}

func TestSelect(t *testing.T) {
	m := newDefaultModel(t)
	m.TakeRedraws(false)

	m.Select(BlueEyes, RedEyes, GreenEyes)
	if !m.Button(BlueEyes).Selected || m.Button(GreenEyes).Selected || m.Button(RedEyes).Selected {
		t.Error("eye selection not exclusive")
	}
	for _, id := range []ButtonID{BlueEyes, RedEyes, GreenEyes} {
		if !m.Button(id).Dirty {
			t.Errorf("%v should be dirty", id)
		}
	}
	if m.Button(WalkMode).Dirty {
		t.Error("unrelated button marked dirty")
	}

	m.Select(WiggleMode, WalkMode, NoButton)
	if !m.Button(WiggleMode).Selected || m.Button(WalkMode).Selected {
		t.Error("mode selection wrong")
	}
}

func TestTakeRedraws(t *testing.T) {
	m := newDefaultModel(t)
	buttons, sliders := m.TakeRedraws(false)
	if len(buttons) != int(NumButtons) || len(sliders) != int(NumSliders) {
		t.Fatalf("first pass = %d buttons %d sliders, want all", len(buttons), len(sliders))
	}

	buttons, sliders = m.TakeRedraws(false)
	if len(buttons) != 0 || len(sliders) != 0 {
		t.Fatalf("second pass = %d buttons %d sliders, want none", len(buttons), len(sliders))
	}

	m.SetSlider(BackTrim, 80)
	m.Select(HighBody, LowBody)
	buttons, sliders = m.TakeRedraws(false)
	if len(buttons) != 2 || buttons[0].ID != LowBody || buttons[1].ID != HighBody {
		t.Errorf("buttons = %v, want low-body and high-body", buttons)
	}
	if len(sliders) != 1 || sliders[0].ID != BackTrim || sliders[0].LastRendered != 80 {
		t.Errorf("sliders = %+v, want back-trim at 80", sliders)
	}

	buttons, sliders = m.TakeRedraws(true)
	if len(buttons) != int(NumButtons) || len(sliders) != int(NumSliders) {
		t.Errorf("full pass = %d buttons %d sliders, want all", len(buttons), len(sliders))
	}
}

func TestTakeRedraws_SkipsOtherPages(t *testing.T) {
	l := DefaultLayout()
	l.Buttons[BlueEyes].Page = 1
	m, err := NewModel(l)
	if err != nil {
		t.Fatal(err)
	}
	buttons, _ := m.TakeRedraws(true)
	for _, b := range buttons {
		if b.ID == BlueEyes {
			t.Error("off-page button returned")
		}
	}
	m.OnTapDown(278, 210)
	if b, _ := m.Captured(); b == BlueEyes {
		t.Error("off-page button captured")
	}
}

func TestSetSlider_Clamps(t *testing.T) {
	m := newDefaultModel(t)
	m.SetSlider(FrontTrim, 150)
	m.SetSlider(BackTrim, -3)
	m.SetSlider(SliderID(9), 10)
	if m.Slider(FrontTrim).Value != 100 || m.Slider(BackTrim).Value != 0 {
		t.Errorf("values = %d, %d, want 100, 0", m.Slider(FrontTrim).Value, m.Slider(BackTrim).Value)
	}
}

func TestSlider_ThumbX(t *testing.T) {
	s := Slider{X: 400, Width: 140, Value: 0, Colour: display.Cyan}
	if got := s.ThumbX(); got != 338 {
		t.Errorf("ThumbX(0) = %d, want 338", got)
	}
	s.Value = 100
	if got := s.ThumbX(); got != 462 {
		t.Errorf("ThumbX(100) = %d, want 462", got)
	}
}

func TestIDStrings(t *testing.T) {
	if WalkMode.String() != "walk" || BlueEyes.String() != "blue-eyes" || NoButton.String() != "none" {
		t.Error("unexpected button names")
	}
	if FrontTrim.String() != "front-trim" || NoSlider.String() != "none" {
		t.Error("unexpected slider names")
	}
}
