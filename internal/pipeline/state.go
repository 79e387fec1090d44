package pipeline

// State enumerates the orchestrator's run states. Within one run the states
// only move forward; no terminal state re-enters StateFetchRunning, so there
// is no orchestrator-level retry.
type State string

const (
	StateNotStarted     State = "not-started"
	StateFetchRunning   State = "fetch-running"
	StateFetchDone      State = "fetch-done"
	StatePresentRunning State = "present-running"
	StateCompleted      State = "completed"
)

// Transition records one state change during a run.
type Transition struct {
	From State
	To   State
	// Note qualifies the transition, e.g. "success" or "failed" on
	// StateFetchDone.
	Note string
}

// run tracks the state machine for a single pipeline execution.
type run struct {
	id          string
	state       State
	transitions []Transition
	observer    func(Transition)
}

func newRun(id string, observer func(Transition)) *run {
	return &run{id: id, state: StateNotStarted, observer: observer}
}

func (r *run) to(next State, note string) {
	t := Transition{From: r.state, To: next, Note: note}
	r.state = next
	r.transitions = append(r.transitions, t)
	r.observer(t)
}
