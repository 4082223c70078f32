package widget

// ButtonID indexes the button table.
type ButtonID int

// NoButton means no button is captured or pressed.
const NoButton ButtonID = -1

const (
	WalkMode ButtonID = iota
	WiggleMode
	TripodGait
	RippleGait
	LowBody
	HighBody
	LowStep
	HighStep
	LongStep
	QuickStep
	RedEyes
	GreenEyes
	BlueEyes
	NumButtons
)

var buttonNames = [NumButtons]string{
	WalkMode:   "walk",
	WiggleMode: "wiggle",
	TripodGait: "tripod",
	RippleGait: "ripple",
	LowBody:    "low-body",
	HighBody:   "high-body",
	LowStep:    "low-step",
	HighStep:   "high-step",
	LongStep:   "long-step",
	QuickStep:  "quick-step",
	RedEyes:    "red-eyes",
	GreenEyes:  "green-eyes",
	BlueEyes:   "blue-eyes",
}

func (id ButtonID) String() string {
	if id < 0 || id >= NumButtons {
		return "none"
	}
	return buttonNames[id]
}

// SliderID indexes the slider table.
type SliderID int

// NoSlider means no slider is captured.
const NoSlider SliderID = -1

const (
	FrontTrim SliderID = iota
	BackTrim
	NumSliders
)

func (id SliderID) String() string {
	switch id {
	case FrontTrim:
		return "front-trim"
	case BackTrim:
		return "back-trim"
	default:
		return "none"
	}
}

// Page identifies a screen of widgets. The remote has one.
type Page uint8

const MainPage Page = 0
