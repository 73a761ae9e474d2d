package lights

// Color is one lamp of a tower light
type Color string

const (
	Red    Color = "red"
	Yellow Color = "yellow"
	Green  Color = "green"
	Off    Color = "off"
)

// Light defines the interface for different light implementations
type Light interface {
	// On turns on a single color, switching the others off
	On(c Color) error
	// Blink makes a color blink
	Blink(c Color) error
	// Clear turns off all lights
	Clear() error
}

// State is what the light shows for a connectivity status
type State struct {
	Color    Color
	Blinking bool
}

var (
	StateUnknown  = State{Color: Yellow, Blinking: true}
	StateUp       = State{Color: Green}
	StateDegraded = State{Color: Yellow}
	StateDown     = State{Color: Red}
)

// Apply drives light into s.
func (s State) Apply(light Light) error {
	switch {
	case s.Color == Off:
		return light.Clear()
	case s.Blinking:
		return light.Blink(s.Color)
	default:
		return light.On(s.Color)
	}
}

func (s State) String() string {
	if s.Blinking {
		return "blinking " + string(s.Color)
	}
	return string(s.Color)
}
