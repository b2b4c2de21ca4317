package capture

// Status is the orchestrator's externally visible state.
type Status int

const (
	StatusStarting Status = iota
	StatusCapturing
	StatusAnalyzing
	StatusIdle
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusStarting:
		return "STARTING"
	case StatusCapturing:
		return "CAPTURING"
	case StatusAnalyzing:
		return "ANALYZING"
	case StatusIdle:
		return "IDLE"
	case StatusError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Event is delivered to the Reporter on every state transition and on every
// completed (successful or failed) transmission.
type Event struct {
	Status     Status
	Label      string  // verdict label, set on a successful exchange
	Confidence float64 // verdict confidence in [0,1]
	Err        string  // human-readable cause, set on failures
	Simulated  bool    // session is running on fallback capture
}

// Reporter receives orchestrator status transitions and verdicts. The
// overlay/UI collaborator implements this.
type Reporter interface {
	Report(Event)
}
