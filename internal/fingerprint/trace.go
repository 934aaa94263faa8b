package fingerprint

import (
	"github.com/roach88/pcconf/internal/session"
)

// TraceID digests a session trace: every step's kind, category, chosen id,
// offered set, resulting state, total and error, in seq order. The session
// id is left out, so two sessions that walked the same path share a digest.
func TraceID(steps []session.Step) (string, error) {
	items := make([]any, 0, len(steps))
	for _, st := range steps {
		offered := st.Offered
		if offered == nil {
			offered = []string{}
		}
		items = append(items, map[string]any{
			"seq":      st.Seq,
			"kind":     string(st.Kind),
			"category": st.Category,
			"id":       st.ID,
			"offered":  offered,
			"state":    st.State,
			"total":    st.Total,
			"error":    st.Error,
		})
	}
	return Hash(DomainTrace, items)
}
