package machine

import "github.com/loamvm/loam/fault"

// Limits caps the work one evaluation may perform. A zero field disables
// that limit.
type Limits struct {
	// MaxSteps is the execution step budget.
	MaxSteps uint64
	// MaxFrames is the stack depth budget.
	MaxFrames uint64
}

// CountStep charges one execution step against the budget.
func (m *Machine) CountStep() fault.Fault {
	m.steps++
	if m.limits.MaxSteps != 0 && m.steps > m.limits.MaxSteps {
		return fault.StepLimitReached{}
	}
	return nil
}

// PushFrame charges one stack frame against the budget.
func (m *Machine) PushFrame() fault.Fault {
	m.frames++
	if m.limits.MaxFrames != 0 && m.frames > m.limits.MaxFrames {
		return fault.FrameLimitReached{}
	}
	return nil
}

// PopFrame releases the innermost stack frame.
func (m *Machine) PopFrame() {
	if m.frames == 0 {
		bugf("PopFrame with no live frames")
	}
	m.frames--
}

// Steps returns the number of steps charged so far.
func (m *Machine) Steps() uint64 { return m.steps }

// Frames returns the current stack depth.
func (m *Machine) Frames() uint64 { return m.frames }
