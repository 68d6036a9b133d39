package entity

import (
	"fmt"

	"github.com/qmuntal/stateless"
)

// ErrLeadStatusTransition is returned when a manual status edit is not allowed.
type ErrLeadStatusTransition struct {
	From LeadStatus
	To   LeadStatus
}

func (e *ErrLeadStatusTransition) Error() string {
	return fmt.Sprintf("lead status cannot change from %s to %s", e.From, e.To)
}

// manual edits; converted is entered only by the conversion workflow and is terminal.
var editableLeadStatuses = []LeadStatus{
	LeadStatusNew,
	LeadStatusContacted,
	LeadStatusQualified,
	LeadStatusLost,
}

func newLeadStatusMachine(current LeadStatus) *stateless.StateMachine {
	sm := stateless.NewStateMachine(current)

	for _, from := range editableLeadStatuses {
		cfg := sm.Configure(from)
		for _, to := range editableLeadStatuses {
			if to == from {
				continue
			}
			cfg.Permit(to, to)
		}
	}

	sm.Configure(LeadStatusConverted)

	return sm
}

// TransitionLeadStatus validates a manual status edit and returns the resulting status.
func TransitionLeadStatus(from, to LeadStatus) (LeadStatus, error) {
	if !to.Valid() {
		return from, fmt.Errorf("unknown lead status %q", to)
	}
	if from == to {
		return from, nil
	}

	sm := newLeadStatusMachine(from)
	if err := sm.Fire(to); err != nil {
		return from, &ErrLeadStatusTransition{From: from, To: to}
	}
	return sm.MustState().(LeadStatus), nil
}
