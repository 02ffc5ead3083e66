package provider

import (
	"context"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/wrenlabs/specwright/internal/errs"
)

// shellSpec builds a per-turn spec that runs the prompt as a shell
// script, so tests can script arbitrary provider behavior.
func shellSpec() Spec {
	return Spec{
		Name:     "fake",
		Command:  "sh",
		Mode:     SessionPerTurn,
		BaseArgs: []string{"-c"},
		Vocab: Vocabulary{
			Partial:  map[string][]string{"delta": {"text"}},
			Terminal: map[string][]string{"result": {"result"}},
			Errors:   map[string][]string{"error": {"message"}},
		},
	}
}

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell-scripted provider tests need sh")
	}
}

func receiveTerminal(t *testing.T, p *Process) Response {
	t.Helper()
	ctx := context.Background()
	for {
		resp, err := p.Receive(ctx)
		if err != nil {
			t.Fatalf("Receive: %v", err)
		}
		if resp.IsComplete {
			return resp
		}
	}
}

func TestPerTurnSpawnTerminalEvent(t *testing.T) {
	requireShell(t)
	p := NewProcess(shellSpec(), Config{ReceiveTimeout: 5 * time.Second})
	defer p.Cleanup()

	script := `printf '{"type":"delta","text":"thinking"}\n{"type":"result","result":"answer"}\n'`
	if err := p.Spawn(script); err != nil {
		t.Fatalf("Spawn: %v", err)
	}

	resp := receiveTerminal(t, p)
	if want := "thinking\nanswer"; resp.Content != want {
		t.Errorf("content = %q, want %q", resp.Content, want)
	}
}

func TestPerTurnExitZeroCompletes(t *testing.T) {
	requireShell(t)
	p := NewProcess(shellSpec(), Config{ReceiveTimeout: 5 * time.Second})
	defer p.Cleanup()

	if err := p.Spawn(`printf 'plain output\n'`); err != nil {
		t.Fatalf("Spawn: %v", err)
	}

	resp := receiveTerminal(t, p)
	if resp.Content != "plain output" {
		t.Errorf("content = %q, want %q", resp.Content, "plain output")
	}
}

func TestPerTurnNonZeroExitRejects(t *testing.T) {
	requireShell(t)
	p := NewProcess(shellSpec(), Config{ReceiveTimeout: 5 * time.Second})
	defer p.Cleanup()

	if err := p.Spawn(`exit 3`); err != nil {
		t.Fatalf("Spawn: %v", err)
	}

	_, err := p.Receive(context.Background())
	if err == nil {
		t.Fatal("nonzero exit should reject Receive")
	}
	if errs.Classify(err).Category != errs.Process {
		t.Errorf("category = %s, want process", errs.Classify(err).Category)
	}
}

func TestErrorEventRejects(t *testing.T) {
	requireShell(t)
	p := NewProcess(shellSpec(), Config{ReceiveTimeout: 5 * time.Second})
	defer p.Cleanup()

	if err := p.Spawn(`printf '{"type":"error","message":"quota exhausted"}\n'`); err != nil {
		t.Fatalf("Spawn: %v", err)
	}

	_, err := p.Receive(context.Background())
	if err == nil {
		t.Fatal("error event should reject Receive")
	}
	typed := errs.Classify(err)
	if typed.Category != errs.Provider {
		t.Errorf("category = %s, want provider", typed.Category)
	}
	if !strings.Contains(typed.Message, "quota exhausted") {
		t.Errorf("message = %q, want the event message", typed.Message)
	}
}

func TestErrorEventThenLateTerminalStillRejects(t *testing.T) {
	requireShell(t)
	p := NewProcess(shellSpec(), Config{ReceiveTimeout: 5 * time.Second})
	defer p.Cleanup()

	// The error and the terminal event arrive in separate chunks, both
	// before anyone receives. The turn must still reject.
	script := `printf '{"type":"error","message":"quota exhausted"}\n'; sleep 0.3; printf '{"type":"result","result":"too late"}\n'`
	if err := p.Spawn(script); err != nil {
		t.Fatalf("Spawn: %v", err)
	}

	// Let both chunks land and the process exit.
	time.Sleep(700 * time.Millisecond)

	for i := 0; i < 2; i++ {
		resp, err := p.Receive(context.Background())
		if err == nil {
			t.Fatalf("Receive resolved with %+v, want rejection after an error event", resp)
		}
		typed := errs.Classify(err)
		if i == 0 && typed.Category != errs.Provider {
			t.Errorf("category = %s, want provider", typed.Category)
		}
		if i == 0 && !strings.Contains(typed.Message, "quota exhausted") {
			t.Errorf("message = %q, want the error event's message", typed.Message)
		}
	}
}

func TestPerTurnSendStartsFreshProcess(t *testing.T) {
	requireShell(t)
	p := NewProcess(shellSpec(), Config{ReceiveTimeout: 5 * time.Second})
	defer p.Cleanup()

	if err := p.Spawn(`printf '{"type":"result","result":"first"}\n'`); err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if resp := receiveTerminal(t, p); resp.Content != "first" {
		t.Fatalf("first turn content = %q", resp.Content)
	}

	if err := p.Send(Message{Content: `printf '{"type":"result","result":"second"}\n'`}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if resp := receiveTerminal(t, p); resp.Content != "second" {
		t.Errorf("second turn content = %q, want %q", resp.Content, "second")
	}
}

func TestBufferedEventServedAfterExit(t *testing.T) {
	requireShell(t)
	p := NewProcess(shellSpec(), Config{ReceiveTimeout: 5 * time.Second})
	defer p.Cleanup()

	if err := p.Spawn(`printf '{"type":"result","result":"waiting"}\n'`); err != nil {
		t.Fatalf("Spawn: %v", err)
	}

	// Give the process time to exit before anyone receives.
	time.Sleep(200 * time.Millisecond)

	resp := receiveTerminal(t, p)
	if resp.Content != "waiting" {
		t.Errorf("content = %q, want %q", resp.Content, "waiting")
	}
}

func TestReceiveTimeout(t *testing.T) {
	requireShell(t)
	p := NewProcess(shellSpec(), Config{ReceiveTimeout: 100 * time.Millisecond})
	defer p.Cleanup()

	if err := p.Spawn(`sleep 5`); err != nil {
		t.Fatalf("Spawn: %v", err)
	}

	_, err := p.Receive(context.Background())
	if err == nil {
		t.Fatal("Receive should time out")
	}
	typed := errs.Classify(err)
	if typed.Category != errs.Timeout {
		t.Errorf("category = %s, want timeout", typed.Category)
	}
	if typed.Duration != 100*time.Millisecond {
		t.Errorf("duration = %s, want 100ms", typed.Duration)
	}
}

func TestCleanupRejectsInFlightReceive(t *testing.T) {
	requireShell(t)
	p := NewProcess(shellSpec(), Config{ReceiveTimeout: 10 * time.Second})

	if err := p.Spawn(`sleep 5`); err != nil {
		t.Fatalf("Spawn: %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		_, err := p.Receive(context.Background())
		errCh <- err
	}()

	time.Sleep(100 * time.Millisecond)
	if err := p.Cleanup(); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}

	select {
	case err := <-errCh:
		if err == nil {
			t.Fatal("in-flight Receive should fail after Cleanup")
		}
		if errs.Classify(err).Category != errs.UserCancelled {
			t.Errorf("category = %s, want user_cancelled", errs.Classify(err).Category)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Receive did not resolve after Cleanup")
	}
}

func TestCleanupIdempotent(t *testing.T) {
	p := NewProcess(shellSpec(), Config{})
	if err := p.Cleanup(); err != nil {
		t.Fatalf("first Cleanup: %v", err)
	}
	if err := p.Cleanup(); err != nil {
		t.Fatalf("second Cleanup: %v", err)
	}
}

func TestSpawnTwiceFails(t *testing.T) {
	requireShell(t)
	spec := shellSpec()
	spec.Mode = SessionPersistent
	spec.Command = "cat"
	spec.BaseArgs = nil

	p := NewProcess(spec, Config{ReceiveTimeout: 5 * time.Second})
	defer p.Cleanup()

	if err := p.Spawn(`{"type":"delta","text":"hi"}`); err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if err := p.Spawn("again"); err == nil {
		t.Fatal("second Spawn without cleanup should fail")
	}
}

func TestPersistentSessionEcho(t *testing.T) {
	requireShell(t)
	// cat echoes stdin back, so prompts written to the session come
	// back as decodable events.
	spec := shellSpec()
	spec.Mode = SessionPersistent
	spec.Command = "cat"
	spec.BaseArgs = nil

	p := NewProcess(spec, Config{ReceiveTimeout: 5 * time.Second})
	defer p.Cleanup()

	if err := p.Spawn(`{"type":"result","result":"system ack"}`); err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if resp := receiveTerminal(t, p); resp.Content != "system ack" {
		t.Fatalf("spawn response = %q", resp.Content)
	}

	if err := p.Send(Message{Content: `{"type":"result","result":"turn ack"}`}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if resp := receiveTerminal(t, p); resp.Content != "turn ack" {
		t.Errorf("send response = %q, want %q", resp.Content, "turn ack")
	}
}

func TestSpawnMissingBinary(t *testing.T) {
	spec := shellSpec()
	spec.Command = "specwright-test-no-such-binary"

	p := NewProcess(spec, Config{})
	if p.IsAvailable() {
		t.Fatal("IsAvailable should be false for a missing binary")
	}
	err := p.Spawn("hello")
	if err == nil {
		t.Fatal("Spawn should fail for a missing binary")
	}
	if errs.Classify(err).Category != errs.Process {
		t.Errorf("category = %s, want process", errs.Classify(err).Category)
	}
}

func TestSingleOutstandingReceive(t *testing.T) {
	requireShell(t)
	p := NewProcess(shellSpec(), Config{ReceiveTimeout: 10 * time.Second})
	defer p.Cleanup()

	if err := p.Spawn(`sleep 5`); err != nil {
		t.Fatalf("Spawn: %v", err)
	}

	go p.Receive(context.Background())
	time.Sleep(100 * time.Millisecond)

	_, err := p.Receive(context.Background())
	if err == nil {
		t.Fatal("second concurrent Receive should fail")
	}
	if errs.Classify(err).Category != errs.Validation {
		t.Errorf("category = %s, want validation", errs.Classify(err).Category)
	}
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry()

	names := registry.Names()
	if len(names) != 5 {
		t.Fatalf("got %d providers, want 5", len(names))
	}

	if _, err := registry.Resolve("claude"); err != nil {
		t.Errorf("Resolve(claude): %v", err)
	}
	if _, err := registry.Resolve("CLAUDE"); err != nil {
		t.Errorf("Resolve is case-insensitive: %v", err)
	}
	if _, err := registry.Resolve("bard"); err == nil {
		t.Error("Resolve(bard) should fail")
	}

	p, err := registry.New("codex", Config{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if p.Name() != "codex" {
		t.Errorf("Name = %s, want codex", p.Name())
	}
}
