package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/Veraticus/taxonomist/internal/engine"
	"github.com/schollz/progressbar/v3"
)

// Ensure ProgressObserver implements engine.Observer.
var _ engine.Observer = (*ProgressObserver)(nil)

// ProgressObserver draws a progress bar for a batch run.
type ProgressObserver struct {
	writer io.Writer
	bar    *progressbar.ProgressBar
	mu     sync.Mutex
}

// NewProgressObserver creates an observer writing to writer (stderr when nil).
func NewProgressObserver(writer io.Writer) *ProgressObserver {
	if writer == nil {
		writer = os.Stderr
	}
	return &ProgressObserver{writer: writer}
}

// RunStarted implements engine.Observer.
func (p *ProgressObserver) RunStarted(procedure engine.Procedure, loaded int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.bar = progressbar.NewOptions(loaded,
		progressbar.OptionSetWriter(p.writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(fmt.Sprintf("[cyan][bold]%s[reset]", describe(procedure))),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(p.writer); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}

// RowProcessed implements engine.Observer.
func (p *ProgressObserver) RowProcessed(engine.Procedure, engine.RowResult) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar == nil {
		return
	}
	if err := p.bar.Add(1); err != nil {
		slog.Warn("Failed to update progress bar", "error", err)
	}
}

// RunFinished implements engine.Observer.
func (p *ProgressObserver) RunFinished(*engine.Report) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar == nil {
		return
	}
	if err := p.bar.Finish(); err != nil {
		slog.Warn("Failed to finish progress bar", "error", err)
	}
	p.bar = nil
}

func describe(procedure engine.Procedure) string {
	switch procedure {
	case engine.ProcedureClassify:
		return "Classifying videos..."
	case engine.ProcedureBackfill:
		return "Backfilling subcategories..."
	}
	return string(procedure)
}
