package provider

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wrenlabs/specwright/internal/errs"
)

// Process owns one provider child process and exposes the uniform
// conversation contract: Spawn, Send, Receive, Cleanup. At most one
// Receive call may be outstanding at a time; events that arrive with no
// outstanding call stay buffered until the next one.
type Process struct {
	spec Spec
	cfg  Config

	mu      sync.Mutex
	proc    *child
	running bool
	cleaned bool

	events    chan Response
	fail      chan error
	cleanupCh chan struct{}
	receiving atomic.Bool
}

// child tracks one started CLI process. Per-turn providers go through
// several of these over a Process's lifetime.
type child struct {
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	stderr  *bytes.Buffer
	discard atomic.Bool
	failed  atomic.Bool
}

// NewProcess creates a provider process for the given spec. Nothing is
// started until Spawn.
func NewProcess(spec Spec, cfg Config) *Process {
	return &Process{
		spec:      spec,
		cfg:       cfg,
		events:    make(chan Response, 64),
		fail:      make(chan error, 4),
		cleanupCh: make(chan struct{}),
	}
}

// Name returns the provider name.
func (p *Process) Name() string {
	return p.spec.Name
}

// IsAvailable reports whether the provider CLI resolves on PATH. It
// never returns an error.
func (p *Process) IsAvailable() bool {
	_, err := exec.LookPath(p.spec.Command)
	return err == nil
}

// Version probes the CLI for a version string. Failures are swallowed;
// the second return reports whether a version was obtained.
func (p *Process) Version() (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	args := p.spec.VersionArgs
	if len(args) == 0 {
		args = []string{"--version"}
	}
	out, err := exec.CommandContext(ctx, p.spec.Command, args...).Output()
	if err != nil {
		return "", false
	}
	version, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	if version == "" {
		return "", false
	}
	return version, true
}

// Spawn starts the provider conversation with the given system prompt.
// Persistent providers start their long-lived process and receive the
// prompt on stdin; per-turn providers start their first process with
// the prompt as an argument.
func (p *Process) Spawn(systemPrompt string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cleaned {
		return errs.New(errs.Process, "provider already cleaned up")
	}
	if p.running {
		return errs.New(errs.Process, "provider already running")
	}
	if !p.IsAvailable() {
		return errs.New(errs.Process, fmt.Sprintf("provider %q not available: %q not found on PATH", p.spec.Name, p.spec.Command))
	}

	if p.spec.Mode == SessionPerTurn {
		return p.startLocked(append(p.baseArgs(), systemPrompt), false)
	}

	if err := p.startLocked(p.baseArgs(), true); err != nil {
		return err
	}
	return p.writeLocked(systemPrompt)
}

// Send forwards one turn's message. Persistent providers write to the
// live process's stdin; per-turn providers tear down any running
// process and start a new one with the message as the prompt argument.
func (p *Process) Send(msg Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cleaned {
		return errs.New(errs.Process, "provider already cleaned up")
	}

	if p.spec.Mode == SessionPerTurn {
		if p.running {
			p.teardownLocked()
		}
		return p.startLocked(append(p.baseArgs(), msg.Content), false)
	}

	if !p.running {
		return errs.New(errs.Process, "provider not running")
	}
	return p.writeLocked(msg.Content)
}

// Receive blocks until the next normalized response, a provider or
// process failure, cleanup, or the receive timeout. Events buffered
// while no call was outstanding are served first.
func (p *Process) Receive(ctx context.Context) (Response, error) {
	if !p.receiving.CompareAndSwap(false, true) {
		return Response{}, errs.New(errs.Validation, "a receive is already in progress")
	}
	defer p.receiving.Store(false)

	// Serve still-buffered data before waiting on new input. A buffered
	// failure outranks buffered content.
	select {
	case err := <-p.fail:
		return Response{}, errs.Classify(err)
	default:
	}
	select {
	case resp := <-p.events:
		return resp, nil
	case err := <-p.fail:
		return Response{}, errs.Classify(err)
	default:
	}

	select {
	case <-p.cleanupCh:
		return Response{}, errs.New(errs.UserCancelled, "cleanup initiated")
	default:
	}

	p.mu.Lock()
	running := p.running
	p.mu.Unlock()
	if !running {
		return Response{}, errs.New(errs.Process, "provider not running")
	}

	timeout := p.cfg.ReceiveTimeout
	if timeout <= 0 {
		timeout = DefaultReceiveTimeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case resp := <-p.events:
		return resp, nil
	case err := <-p.fail:
		return Response{}, errs.Classify(err)
	case <-p.cleanupCh:
		return Response{}, errs.New(errs.UserCancelled, "cleanup initiated")
	case <-timer.C:
		e := errs.New(errs.Timeout, fmt.Sprintf("receive timed out after %d ms", timeout.Milliseconds()))
		e.Duration = timeout
		return Response{}, e
	case <-ctx.Done():
		return Response{}, errs.Classify(ctx.Err())
	}
}

// Cleanup terminates the child process if alive and rejects any
// in-flight Receive. Safe to call repeatedly.
func (p *Process) Cleanup() error {
	p.mu.Lock()
	if p.cleaned {
		p.mu.Unlock()
		return nil
	}
	p.cleaned = true
	if p.proc != nil {
		p.teardownLocked()
	}
	p.mu.Unlock()

	close(p.cleanupCh)
	return nil
}

func (p *Process) baseArgs() []string {
	args := append([]string(nil), p.spec.BaseArgs...)
	return append(args, p.cfg.Args...)
}

// startLocked launches a new child and its pump goroutine. Callers hold p.mu.
func (p *Process) startLocked(args []string, withStdin bool) error {
	cmd := exec.Command(p.spec.Command, args...)
	cmd.Env = append(os.Environ(), p.cfg.Env...)
	cmd.SysProcAttr = newSysProcAttr()

	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr

	rp := &child{cmd: cmd, stderr: stderr}

	if withStdin {
		stdin, err := cmd.StdinPipe()
		if err != nil {
			return errs.Wrap(errs.Process, "failed to open stdin pipe", err)
		}
		rp.stdin = stdin
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return errs.Wrap(errs.Process, "failed to open stdout pipe", err)
	}

	if err := cmd.Start(); err != nil {
		return errs.Wrap(errs.Process, fmt.Sprintf("failed to spawn %s", p.spec.Command), err)
	}

	p.proc = rp
	p.running = true
	go p.pump(rp, stdout)
	return nil
}

// writeLocked writes one prompt line to the live process. Callers hold p.mu.
func (p *Process) writeLocked(content string) error {
	if p.proc == nil || p.proc.stdin == nil {
		return errs.New(errs.Process, "provider has no input stream")
	}
	if _, err := io.WriteString(p.proc.stdin, content+"\n"); err != nil {
		return errs.Wrap(errs.Process, "failed to write to provider stdin", err)
	}
	return nil
}

// teardownLocked kills the current child without reporting its exit as
// a failure. Callers hold p.mu.
func (p *Process) teardownLocked() {
	rp := p.proc
	rp.discard.Store(true)
	if rp.stdin != nil {
		rp.stdin.Close()
	}
	if rp.cmd.Process != nil {
		rp.cmd.Process.Kill()
	}
	p.proc = nil
	p.running = false
}

// pump reads the child's stdout, decodes it, and delivers normalized
// responses. On stream end it waits for the process: exit code 0 is a
// second source of completion, anything else a process error.
func (p *Process) pump(rp *child, stdout io.Reader) {
	st := &DecodeState{}
	buf := make([]byte, 4096)
	sawTerminal := false

	for {
		n, readErr := stdout.Read(buf)
		// Once an error event has rejected the turn, nothing later on
		// this stream may resolve a receive.
		if n > 0 && !rp.failed.Load() {
			responses, decErr := p.spec.Vocab.Decode(st, buf[:n])
			for _, resp := range responses {
				if resp.IsComplete {
					sawTerminal = true
				}
				p.push(resp)
			}
			if decErr != nil {
				rp.failed.Store(true)
				if !rp.discard.Load() {
					p.pushFail(decErr)
				}
			}
		}
		if readErr != nil {
			break
		}
	}

	if flushed, flushErr := p.spec.Vocab.Flush(st); flushErr != nil {
		rp.failed.Store(true)
		if !rp.discard.Load() {
			p.pushFail(flushErr)
		}
	} else if flushed != nil && !rp.failed.Load() {
		if flushed.IsComplete {
			sawTerminal = true
		}
		p.push(*flushed)
	}

	waitErr := rp.cmd.Wait()

	// Deliver the exit outcome before clearing the running flag so a
	// concurrent Receive never sees "not running" with a result still
	// on the way.
	if !rp.discard.Load() && !rp.failed.Load() {
		if waitErr != nil {
			msg := waitErr.Error()
			if s := strings.TrimSpace(rp.stderr.String()); s != "" {
				msg = fmt.Sprintf("%s (stderr: %s)", msg, s)
			}
			p.pushFail(errs.Wrap(errs.Process, fmt.Sprintf("provider process failed: %s", msg), waitErr))
		} else if !sawTerminal {
			// Natural exit with code 0 completes the turn with
			// whatever was accumulated, unless a terminal event
			// already did.
			p.push(Response{Content: st.AccumulatedContent(), IsComplete: true})
		}
	}

	p.mu.Lock()
	if p.proc == rp {
		p.proc = nil
		p.running = false
	}
	p.mu.Unlock()
}

func (p *Process) push(resp Response) {
	select {
	case p.events <- resp:
	case <-p.cleanupCh:
	}
}

func (p *Process) pushFail(err error) {
	select {
	case p.fail <- err:
	case <-p.cleanupCh:
	}
}
