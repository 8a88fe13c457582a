package upload

import (
	"fmt"
	"sync"
)

// Phase is the explicit state of an upload.
type Phase string

const (
	// PhaseIdle means no upload is in progress.
	PhaseIdle Phase = "idle"
	// PhaseCompressing means the compression stage is running.
	PhaseCompressing Phase = "compressing"
	// PhaseUploading means the artifact is being pushed to the object store.
	PhaseUploading Phase = "uploading"
	// PhaseSucceeded means the pipeline completed and a result is available.
	PhaseSucceeded Phase = "succeeded"
	// PhaseFailed means the pipeline aborted with an error.
	PhaseFailed Phase = "failed"
)

// ErrInvalidTransition is returned when a state change violates the
// idle -> compressing -> uploading -> succeeded lifecycle.
var ErrInvalidTransition = fmt.Errorf("invalid upload state transition")

var validTransitions = map[Phase][]Phase{
	PhaseIdle:        {PhaseCompressing},
	PhaseCompressing: {PhaseUploading, PhaseFailed},
	PhaseUploading:   {PhaseSucceeded, PhaseFailed},
	PhaseSucceeded:   {PhaseIdle},
	PhaseFailed:      {PhaseIdle},
}

// State is an immutable snapshot of a Machine.
type State struct {
	Phase    Phase   `json:"phase"`
	Progress float64 `json:"progress"` // combined scalar, 0-100
	Result   *Result `json:"result,omitempty"`
	Error    string  `json:"error,omitempty"`
}

// Machine tracks a single upload through its lifecycle. All transitions are
// validated centrally; progress from the two stages is combined into one
// 0-100 scalar using the machine's compression weight.
type Machine struct {
	mu sync.Mutex

	phase      Phase
	compFrac   float64 // 0-1, compression stage
	uploadFrac float64 // 0-1, upload stage
	compWeight float64 // share of the combined scalar given to compression
	result     *Result
	err        error
}

// NewMachine creates a Machine in the idle phase. compressionWeight is the
// share (0-1) of the combined progress scalar occupied by the compression
// stage: 0.6 for video uploads, 0 for images (image compression is
// synchronous and reports no intermediate progress).
func NewMachine(compressionWeight float64) *Machine {
	if compressionWeight < 0 {
		compressionWeight = 0
	}
	if compressionWeight > 1 {
		compressionWeight = 1
	}
	return &Machine{
		phase:      PhaseIdle,
		compWeight: compressionWeight,
	}
}

func (m *Machine) transition(to Phase) error {
	for _, allowed := range validTransitions[m.phase] {
		if allowed == to {
			m.phase = to
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, m.phase, to)
}

// StartCompressing moves the machine from idle to compressing.
func (m *Machine) StartCompressing() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.transition(PhaseCompressing)
}

// SetCompressionProgress records compression stage progress as a 0-1 fraction.
// Out-of-phase updates are ignored; a late callback from an abandoned stage
// must not corrupt the current state.
func (m *Machine) SetCompressionProgress(frac float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase != PhaseCompressing {
		return
	}
	m.compFrac = clampFrac(frac)
}

// StartUploading moves the machine from compressing to uploading. The
// compression stage is considered fully complete from this point.
func (m *Machine) StartUploading() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.transition(PhaseUploading); err != nil {
		return err
	}
	m.compFrac = 1
	return nil
}

// SetUploadProgress records upload stage progress as a 0-1 fraction.
func (m *Machine) SetUploadProgress(frac float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase != PhaseUploading {
		return
	}
	m.uploadFrac = clampFrac(frac)
}

// Succeed moves the machine to the succeeded phase with the given result.
func (m *Machine) Succeed(result Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.transition(PhaseSucceeded); err != nil {
		return err
	}
	m.uploadFrac = 1
	m.result = &result
	return nil
}

// Fail moves the machine to the failed phase. Failing is allowed from any
// in-flight phase but not from idle or a terminal phase.
func (m *Machine) Fail(cause error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.transition(PhaseFailed); err != nil {
		return err
	}
	m.err = cause
	return nil
}

// Reset returns a terminal machine to idle so a new file can be selected.
func (m *Machine) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.transition(PhaseIdle); err != nil {
		return err
	}
	m.compFrac = 0
	m.uploadFrac = 0
	m.result = nil
	m.err = nil
	return nil
}

// Snapshot returns the current state with the combined progress scalar.
func (m *Machine) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := State{
		Phase:    m.phase,
		Progress: m.combinedLocked(),
		Result:   m.result,
	}
	if m.err != nil {
		s.Error = m.err.Error()
	}
	return s
}

// combinedLocked maps the two stage fractions onto a single 0-100 scalar.
// Compression occupies [0, compWeight*100], upload the remaining range.
func (m *Machine) combinedLocked() float64 {
	switch m.phase {
	case PhaseIdle:
		return 0
	case PhaseSucceeded:
		return 100
	default:
		return (m.compWeight*m.compFrac + (1-m.compWeight)*m.uploadFrac) * 100
	}
}

func clampFrac(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
