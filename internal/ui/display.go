package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Spinner frames using braille characters
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Display handles terminal output for the interview loop: status
// lines, boxed questions, and a waiting spinner while the provider
// thinks.
type Display struct {
	out io.Writer
	in  *bufio.Reader

	spinMu   sync.Mutex
	spinning bool
	spinStop chan struct{}
	spinDone chan struct{}
}

// NewDisplay creates a display over the given streams.
func NewDisplay(out io.Writer, in io.Reader) *Display {
	return &Display{out: out, in: bufio.NewReader(in)}
}

// StartSpinner begins the waiting spinner with a message.
func (d *Display) StartSpinner(msg string) {
	d.spinMu.Lock()
	if d.spinning {
		d.spinMu.Unlock()
		return
	}
	d.spinning = true
	d.spinStop = make(chan struct{})
	d.spinDone = make(chan struct{})
	stop, done := d.spinStop, d.spinDone
	d.spinMu.Unlock()

	start := time.Now()
	go func() {
		defer close(done)
		frame := 0
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				fmt.Fprintf(d.out, "\r\033[K")
				return
			case <-ticker.C:
				elapsed := time.Since(start).Round(time.Second)
				fmt.Fprintf(d.out, "\r\033[K  %s %s (%s)", spinnerFrames[frame], msg, elapsed)
				frame = (frame + 1) % len(spinnerFrames)
			}
		}
	}()
}

// StopSpinner stops the waiting spinner and clears its line.
func (d *Display) StopSpinner() {
	d.spinMu.Lock()
	if !d.spinning {
		d.spinMu.Unlock()
		return
	}
	d.spinning = false
	close(d.spinStop)
	d.spinMu.Unlock()
	<-d.spinDone
}

// Info prints an informational status line.
func (d *Display) Info(msg string) {
	fmt.Fprintln(d.out, StyleInfo.Render(msg))
}

// Success prints a success status line.
func (d *Display) Success(msg string) {
	fmt.Fprintln(d.out, StyleSuccess.Render("✓ ")+msg)
}

// Error prints an error message in the error box.
func (d *Display) Error(msg string) {
	fmt.Fprintln(d.out, ErrorBox().Render(msg))
}

// Print writes raw text followed by a newline.
func (d *Display) Print(text string) {
	fmt.Fprintln(d.out, text)
}

// ReadLine prompts and reads one trimmed line of input.
func (d *Display) ReadLine(prompt string) (string, error) {
	fmt.Fprint(d.out, prompt)
	line, err := d.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
