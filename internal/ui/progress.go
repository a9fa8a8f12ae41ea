package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// ProgressBar wraps the progressbar library with our custom styling
type ProgressBar struct {
	bar   *progressbar.ProgressBar
	phase string
}

// Phase represents a step of report generation
type Phase string

const (
	PhaseLoading Phase = "Loading"
	PhaseVersion Phase = "Version"
	PhaseHistory Phase = "History"
	PhaseCSVLog  Phase = "CSV Log"
	PhaseUARTLog Phase = "UART Log"
	PhaseCSVFile Phase = "CSV File"
	PhaseSaving  Phase = "Saving"
	PhaseNotice  Phase = "Notice"
)

// ReportPhases lists the phases of one report run in order
func ReportPhases(withNotice bool) []Phase {
	phases := []Phase{
		PhaseLoading,
		PhaseVersion,
		PhaseHistory,
		PhaseCSVLog,
		PhaseUARTLog,
		PhaseCSVFile,
		PhaseSaving,
	}
	if withNotice {
		phases = append(phases, PhaseNotice)
	}
	return phases
}

// NewProgressBarWithOutput creates a progress bar for a phase writing to output
func NewProgressBarWithOutput(phase Phase, total int, output io.Writer) *ProgressBar {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(output),
		progressbar.OptionSetDescription(fmt.Sprintf("[%s]", phase)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionEnableColorCodes(true),
	)

	return &ProgressBar{bar: bar, phase: string(phase)}
}

// Add increments the progress bar by n
func (pb *ProgressBar) Add(n int) error {
	return pb.bar.Add(n)
}

// Increment increments the progress bar by 1
func (pb *ProgressBar) Increment() error {
	return pb.bar.Add(1)
}

// SetTotal updates the total count of the progress bar
func (pb *ProgressBar) SetTotal(total int) {
	pb.bar.ChangeMax(total)
}

// Finish completes the progress bar
func (pb *ProgressBar) Finish() error {
	return pb.bar.Finish()
}

// Describe updates the description of the progress bar
func (pb *ProgressBar) Describe(description string) {
	pb.bar.Describe(fmt.Sprintf("[%s] %s", pb.phase, description))
}

// Pipeline tracks progress over consecutive phases
type Pipeline struct {
	phases   []Phase
	current  int
	bar      *ProgressBar
	disabled bool
	output   io.Writer
}

// NewPipeline creates a new pipeline progress tracker on stdout
func NewPipeline(phases []Phase) *Pipeline {
	return NewPipelineWithOutput(phases, os.Stdout)
}

// NewPipelineWithOutput creates a new pipeline with custom output
func NewPipelineWithOutput(phases []Phase, output io.Writer) *Pipeline {
	return &Pipeline{
		phases:  phases,
		current: -1,
		output:  output,
	}
}

// Disable disables the progress bar output
func (p *Pipeline) Disable() {
	p.disabled = true
}

// Current returns the phase in progress, or "" before the first phase
func (p *Pipeline) Current() Phase {
	if p.current < 0 || p.current >= len(p.phases) {
		return ""
	}
	return p.phases[p.current]
}

// NextPhase finishes the current phase and starts the next one
// It returns nil once all phases are done
func (p *Pipeline) NextPhase(total int) *ProgressBar {
	if p.bar != nil {
		p.bar.Finish()
		p.bar = nil
	}

	p.current++
	if p.current >= len(p.phases) {
		return nil
	}

	output := p.output
	if p.disabled {
		output = io.Discard
	}
	p.bar = NewProgressBarWithOutput(p.phases[p.current], total, output)
	return p.bar
}

// Finish completes the last phase
func (p *Pipeline) Finish() {
	if p.bar != nil {
		p.bar.Finish()
		p.bar = nil
	}
}
