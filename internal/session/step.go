package session

// StepKind classifies trace entries.
type StepKind string

const (
	StepStart   StepKind = "start"
	StepChoose  StepKind = "choose"
	StepReject  StepKind = "reject"
	StepRestart StepKind = "restart"
)

// Step is one entry of the session trace.
//
// Category and Offered describe a prompt: for choose and reject the category
// being chosen and the ids that were offered for it; for start and restart
// the first category and its candidates, if the session is not Failed.
type Step struct {
	Seq      int64    `json:"seq"`
	Kind     StepKind `json:"kind"`
	Category string   `json:"category,omitempty"`
	ID       string   `json:"id,omitempty"`
	Offered  []string `json:"offered,omitempty"`
	State    string   `json:"state"`
	Total    string   `json:"total"`
	Error    string   `json:"error,omitempty"`
}

// record stamps step with the next seq and the session's state and total,
// then appends it.
func (s *Session) record(step Step) {
	step.Seq = s.clock.Next()
	step.State = s.state.String()
	step.Total = s.Total().String()
	s.steps = append(s.steps, step)
}

// Steps returns the trace so far.
func (s *Session) Steps() []Step {
	out := make([]Step, len(s.steps))
	copy(out, s.steps)
	return out
}
