package controller

import "fmt"

// Step is one of the four progress stages, numbered from 1.
type Step int

const (
	StepGaps Step = iota + 1
	StepQuestions
	StepMethodology
	StepBlog
)

// Steps lists every stage in display order.
var Steps = []Step{StepGaps, StepQuestions, StepMethodology, StepBlog}

func (s Step) String() string {
	switch s {
	case StepGaps:
		return "Research Gaps"
	case StepQuestions:
		return "Research Questions"
	case StepMethodology:
		return "Methodology"
	case StepBlog:
		return "Blog Generation"
	default:
		return fmt.Sprintf("Step(%d)", int(s))
	}
}

// Key is the path segment used for progress notifications.
func (s Step) Key() string { return fmt.Sprintf("step%d", int(s)) }

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// Label is the badge text for a status.
func (s Status) Label() string {
	switch s {
	case StatusProcessing:
		return "Processing"
	case StatusCompleted:
		return "Completed"
	case StatusError:
		return "Error"
	default:
		return "Pending"
	}
}
