package report

import (
	"errors"
	"fmt"
)

// ErrTemplateLayout is returned when the source workbook does not have the
// cells a step expects
var ErrTemplateLayout = errors.New("unexpected template layout")

// StepError records which report step failed and on which sheet
type StepError struct {
	Step  int
	Sheet string
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%q): %v", e.Step, e.Sheet, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
