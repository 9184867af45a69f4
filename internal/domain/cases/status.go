package cases

import "drmp-backend/internal/domain/apperr"

// allowedTransitions is the whole lifecycle: a flat lookup, no guards beyond
// current/target state. States absent as keys accept no outbound transition.
var allowedTransitions = map[Status][]Status{
	StatusPendingAssignment: {StatusAssigned, StatusClosed},
	StatusAssigned:          {StatusProcessing, StatusClosed},
	StatusProcessing:        {StatusSettled, StatusLitigation, StatusClosed},
	StatusSettled:           {StatusClosed},
	StatusLitigation:        {StatusClosed},
}

// CheckTransition reports whether from → to is a legal status change.
// CLOSED is terminal and gets its own error so callers can distinguish it.
func CheckTransition(from, to Status) error {
	if from == StatusClosed {
		return apperr.ErrCaseAlreadyClosed
	}
	for _, t := range allowedTransitions[from] {
		if t == to {
			return nil
		}
	}
	return apperr.ErrInvalidTransition
}
