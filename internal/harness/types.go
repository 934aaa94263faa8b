package harness

import "github.com/roach88/pcconf/internal/session"

// TraceEvent is one session step as recorded in a result.
type TraceEvent struct {
	Seq      int64    `json:"seq"`
	Kind     string   `json:"kind"`
	Category string   `json:"category,omitempty"`
	ID       string   `json:"id,omitempty"`
	Offered  []string `json:"offered,omitempty"`
	State    string   `json:"state"`
	Total    string   `json:"total"`
	Error    string   `json:"error,omitempty"`
}

// traceFromSteps converts a session trace.
func traceFromSteps(steps []session.Step) []TraceEvent {
	out := make([]TraceEvent, len(steps))
	for i, st := range steps {
		out[i] = TraceEvent{
			Seq:      st.Seq,
			Kind:     string(st.Kind),
			Category: st.Category,
			ID:       st.ID,
			Offered:  st.Offered,
			State:    st.State,
			Total:    st.Total,
			Error:    st.Error,
		}
	}
	return out
}

// FinalState is where the session ended up.
type FinalState struct {
	State string `json:"state"`
	Total string `json:"total"`

	// Parts maps category keys ("cpu", "motherboard", ...) to chosen ids.
	Parts map[string]string `json:"parts,omitempty"`

	// ConfigurationID is set once the session completed and was stored.
	ConfigurationID string `json:"configuration_id,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every expect clause and assertion matched.
	Pass bool `json:"pass"`

	SessionID string `json:"session_id"`

	// Trace contains every session step in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	Final FinalState `json:"final"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
