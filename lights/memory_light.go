package lights

import "sync"

// MemoryLight keeps the last state in memory. It stands in for a
// device when none is configured and is handy in tests.
type MemoryLight struct {
	mu      sync.Mutex
	current State
	changes int
}

func NewMemoryLight() *MemoryLight {
	return &MemoryLight{current: State{Color: Off}}
}

func (l *MemoryLight) On(c Color) error {
	l.set(State{Color: c})
	return nil
}

func (l *MemoryLight) Blink(c Color) error {
	l.set(State{Color: c, Blinking: true})
	return nil
}

func (l *MemoryLight) Clear() error {
	l.set(State{Color: Off})
	return nil
}

// Current returns the state last applied.
func (l *MemoryLight) Current() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

// Changes counts how many commands reached the light.
func (l *MemoryLight) Changes() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.changes
}

func (l *MemoryLight) set(s State) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.current = s
	l.changes++
}
