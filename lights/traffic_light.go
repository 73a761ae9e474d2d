package lights

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/tarm/serial"
)

// Command bytes understood by the USB tower light
const (
	cmdRedOn    byte = 0x11
	cmdRedOff   byte = 0x21
	cmdRedBlink byte = 0x41

	cmdYellowOn    byte = 0x12
	cmdYellowOff   byte = 0x22
	cmdYellowBlink byte = 0x42

	cmdGreenOn    byte = 0x14
	cmdGreenOff   byte = 0x24
	cmdGreenBlink byte = 0x44

	cmdBuzzerOff byte = 0x28
)

var (
	onCommands    = map[Color]byte{Red: cmdRedOn, Yellow: cmdYellowOn, Green: cmdGreenOn}
	blinkCommands = map[Color]byte{Red: cmdRedBlink, Yellow: cmdYellowBlink, Green: cmdGreenBlink}
	clearCommands = []byte{cmdBuzzerOff, cmdRedOff, cmdYellowOff, cmdGreenOff}
)

// TrafficLight implements Light for serial tower lights. The port is
// opened for every command so a replugged device keeps working.
type TrafficLight struct {
	port     string
	baudRate int
	mu       sync.Mutex
}

// NewTrafficLight creates a new TrafficLight instance
func NewTrafficLight(port string, baudRate int) *TrafficLight {
	return &TrafficLight{
		port:     port,
		baudRate: baudRate,
	}
}

func (l *TrafficLight) On(c Color) error {
	cmd, ok := onCommands[c]
	if !ok {
		return fmt.Errorf("unsupported color: %s", c)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.send(withClear(cmd)...)
}

func (l *TrafficLight) Blink(c Color) error {
	cmd, ok := blinkCommands[c]
	if !ok {
		return fmt.Errorf("unsupported color: %s", c)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.send(withClear(cmd)...)
}

func (l *TrafficLight) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.send(clearCommands...)
}

// send writes cmds in order on a freshly opened port.
func (l *TrafficLight) send(cmds ...byte) error {
	s, err := serial.OpenPort(&serial.Config{Name: l.port, Baud: l.baudRate})
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", l.port, err)
	}
	defer func() {
		if err := s.Close(); err != nil {
			log.Warn().Err(err).Str("port", l.port).Msg("Error closing serial port")
		}
	}()

	for _, cmd := range cmds {
		if _, err := s.Write([]byte{cmd}); err != nil {
			return fmt.Errorf("failed to send command: %w", err)
		}
	}
	return nil
}

// withClear prefixes cmd with the commands switching everything off.
func withClear(cmd byte) []byte {
	cmds := make([]byte, 0, len(clearCommands)+1)
	cmds = append(cmds, clearCommands...)
	return append(cmds, cmd)
}
