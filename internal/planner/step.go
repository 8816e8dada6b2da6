package planner

import "fmt"

// Step is a wizard step. Only the six declared values are valid.
type Step int

const (
	StepBasics Step = iota + 1
	StepPoints
	StepTransport
	StepStay
	StepOverview
	StepExport
)

const (
	FirstStep = StepBasics
	LastStep  = StepExport
)

type transition struct {
	next, prev Step
	title      string
}

var transitions = map[Step]transition{
	StepBasics:    {next: StepPoints, prev: StepBasics, title: "Step 1. Basics"},
	StepPoints:    {next: StepTransport, prev: StepBasics, title: "Step 2. Route points"},
	StepTransport: {next: StepStay, prev: StepPoints, title: "Step 3. Transport"},
	StepStay:      {next: StepOverview, prev: StepTransport, title: "Step 4. Accommodation"},
	StepOverview:  {next: StepExport, prev: StepStay, title: "Step 5. Overview and schedule"},
	StepExport:    {next: StepExport, prev: StepOverview, title: "Step 6. Export and sharing"},
}

// ParseStep converts an integer into a Step.
func ParseStep(n int) (Step, error) {
	s := Step(n)
	if !s.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidStep, n)
	}
	return s, nil
}

func (s Step) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Next is the step after s; the last step is its own successor.
func (s Step) Next() Step {
	if t, ok := transitions[s]; ok {
		return t.next
	}
	return FirstStep
}

// Prev is the step before s; the first step is its own predecessor.
func (s Step) Prev() Step {
	if t, ok := transitions[s]; ok {
		return t.prev
	}
	return FirstStep
}

// CanJumpTo reports whether target has already been reached from s.
func (s Step) CanJumpTo(target Step) bool {
	return target.Valid() && target <= s
}

func (s Step) Title() string {
	return transitions[s].title
}

func (s Step) String() string {
	return fmt.Sprintf("step %d", int(s))
}

// StepInfo describes one entry of the progress indicator.
type StepInfo struct {
	Step      Step   `json:"step"`
	Title     string `json:"title"`
	Current   bool   `json:"current"`
	Reachable bool   `json:"reachable"`
}

// Progress lists every step with its state relative to current.
func Progress(current Step) []StepInfo {
	out := make([]StepInfo, 0, int(LastStep))
	for s := FirstStep; s <= LastStep; s++ {
		out = append(out, StepInfo{
			Step:      s,
			Title:     s.Title(),
			Current:   s == current,
			Reachable: current.CanJumpTo(s),
		})
	}
	return out
}
