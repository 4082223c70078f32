package remote

import (
	"github.com/cjeanneret/HexPad/internal/logic/telemetry"
)

// ButtonState is a button as seen from outside.
type ButtonState struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Selected    bool   `json:"selected"`
	Highlighted bool   `json:"highlighted"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Width       int    `json:"width"`
}

// SliderState is a slider as seen from outside.
type SliderState struct {
	ID    string `json:"id"`
	Value int    `json:"value"`
}

// Snapshot is a consistent copy of the remote's state.
type Snapshot struct {
	Bits              uint8           `json:"bits"`
	Buttons           []ButtonState   `json:"buttons"`
	Sliders           []SliderState   `json:"sliders"`
	HexapodPercent    int             `json:"hexapod_percent"`
	ControllerPercent int             `json:"controller_percent"`
	Brightness        int             `json:"brightness"`
	Frames            uint64          `json:"frames"`
	LastFrame         telemetry.Frame `json:"last_frame"`
	TouchX            int             `json:"touch_x"`
	TouchY            int             `json:"touch_y"`
	Touching          bool            `json:"touching"`
}

// Snapshot copies the current state.
func (c *Controller) Snapshot() Snapshot {
	x, y, touching := c.shared.Touch()
	s := Snapshot{
		Brightness: c.Brightness(),
		Frames:     c.Frames(),
		TouchX:     x,
		TouchY:     y,
		Touching:   touching,
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	s.Bits = c.sm.Bits()
	s.HexapodPercent = c.hexapod.Percent()
	s.ControllerPercent = c.controller.Percent()
	s.LastFrame = c.lastFrame
	for _, b := range c.model.Buttons() {
		s.Buttons = append(s.Buttons, ButtonState{
			ID:          b.ID.String(),
			Label:       b.Label,
			Selected:    b.Selected,
			Highlighted: b.Highlighted,
			X:           b.X,
			Y:           b.Y,
			Width:       b.Width,
		})
	}
	for _, sl := range c.model.Sliders() {
		s.Sliders = append(s.Sliders, SliderState{ID: sl.ID.String(), Value: sl.Value})
	}
	return s
}

// Selected returns the IDs of the selected buttons.
func (s Snapshot) Selected() []string {
	var ids []string
	for _, b := range s.Buttons {
		if b.Selected {
			ids = append(ids, b.ID)
		}
	}
	return ids
}
