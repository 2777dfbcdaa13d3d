package codeblock

// Status classifies what happened to one directory entry.
type Status int

const (
	StatusOK Status = iota
	StatusSkipped
	StatusWarning
)

func (s Status) String() string {
	switch s {
	case StatusSkipped:
		return "skipped"
	case StatusWarning:
		return "warning"
	default:
		return "ok"
	}
}

// Reasons attached to skipped and warning outcomes.
const (
	ReasonSourceCreated   = "source directory did not exist and was created"
	ReasonDepthExceeded   = "directory nesting exceeds supported depth"
	ReasonNotIncluded     = "file type is not in the include list"
	ReasonExcluded        = "matches an exclude pattern"
	ReasonUnknownLanguage = "no language mapping, rendered as plain text"
)

// Outcome records the result for one directory or file.
type Outcome struct {
	Path   string
	Status Status
	Reason string
}

// Result is the output of one Generate call.
type Result struct {
	Markup   string
	Outcomes []Outcome
}

// Count returns the number of outcomes with the given status.
func (r *Result) Count(status Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}
