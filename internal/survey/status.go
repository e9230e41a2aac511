package survey

import "errors"

// Status is the JSON status payload returned by both operations when the
// result is not a submission list.
type Status struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Status values.
const (
	StatusOK            = "ok"
	StatusDuplicate     = "duplicate"
	StatusError         = "error"
	StatusUnknownAction = "unknown action"
)

// StatusFor converts an operation error to its JSON status payload.
// Unknown-action errors map to {status:"unknown action"}; everything else
// becomes {status:"error"} with the stringified error as the message.
func StatusFor(err error) Status {
	var oe *OpError
	if errors.As(err, &oe) && oe.Code == ErrCodeUnknownAction {
		return Status{Status: StatusUnknownAction}
	}
	return Status{Status: StatusError, Message: err.Error()}
}

// StatusForOutcome converts an ingest outcome to its JSON status payload.
func StatusForOutcome(out Outcome) Status {
	return Status{Status: string(out)}
}
