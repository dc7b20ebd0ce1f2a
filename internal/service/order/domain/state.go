package domain

// Status is the order lifecycle state.
type Status string

const (
	StatusCreated   Status = "CREATED"   // persisted, inventory reserved, payment pending
	StatusPaid      Status = "PAID"      // payment accepted
	StatusCompleted Status = "COMPLETED" // fulfilled and closed
	StatusCancelled Status = "CANCELLED" // terminal; stock restored
)

// transitions is the explicit state machine: CANCELLED is terminal and
// nothing ever returns to CREATED.
var transitions = map[Status][]Status{
	StatusCreated:   {StatusPaid, StatusCancelled},
	StatusPaid:      {StatusCompleted, StatusCancelled},
	StatusCompleted: {StatusCancelled},
	StatusCancelled: {},
}

// CanTransition reports whether moving from s to next is a legal lifecycle step.
func (s Status) CanTransition(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
