package upload

import (
	"fmt"
	"html"
)

type OutcomeKind string

const (
	OutcomeRejected       OutcomeKind = "rejected"
	OutcomeTransferFailed OutcomeKind = "transfer_failed"
	OutcomeAlreadyExists  OutcomeKind = "already_exists"
	OutcomeStored         OutcomeKind = "stored"
)

const (
	ReasonInvalid    = "file invalid"
	ReasonUnsafeName = "unsafe file name"
)

// Outcome is the terminal state reached while handling one attempt.
// Only the field matching Kind is set.
type Outcome struct {
	Kind   OutcomeKind  `json:"kind"`
	Reason string       `json:"reason,omitempty"`
	Code   TransferCode `json:"code,omitempty"`
	Name   string       `json:"name,omitempty"`
	Path   string       `json:"path,omitempty"`
}

func Rejected(reason string) *Outcome {
	return &Outcome{Kind: OutcomeRejected, Reason: reason}
}

func TransferFailed(code TransferCode) *Outcome {
	return &Outcome{Kind: OutcomeTransferFailed, Code: code}
}

func AlreadyExists(name string) *Outcome {
	return &Outcome{Kind: OutcomeAlreadyExists, Name: name}
}

func Stored(path string) *Outcome {
	return &Outcome{Kind: OutcomeStored, Path: path}
}

// String returns the outcome as a plain-text line.
func (o *Outcome) String() string {
	switch o.Kind {
	case OutcomeRejected:
		return o.Reason
	case OutcomeTransferFailed:
		return fmt.Sprintf("Return Code: %d", o.Code)
	case OutcomeAlreadyExists:
		return o.Name + " already exists."
	case OutcomeStored:
		return "Stored in: " + o.Path
	default:
		return string(o.Kind)
	}
}

// HTML renders the outcome as the fragment the upload page responds with.
// Client-supplied names are escaped.
func (o *Outcome) HTML() string {
	switch o.Kind {
	case OutcomeRejected:
		return html.EscapeString(o.Reason)
	case OutcomeTransferFailed:
		return fmt.Sprintf("Return Code: %d<br />", o.Code)
	case OutcomeAlreadyExists:
		return html.EscapeString(o.Name) + " already exists. <br>"
	case OutcomeStored:
		return "Stored in: " + html.EscapeString(o.Path) + "<br>"
	default:
		return html.EscapeString(string(o.Kind))
	}
}
