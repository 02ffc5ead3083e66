package interview

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/wrenlabs/specwright/internal/errs"
	"github.com/wrenlabs/specwright/internal/provider"
	"github.com/wrenlabs/specwright/internal/recovery"
	"github.com/wrenlabs/specwright/internal/session"
)

// Status is the orchestrator's coarse state machine.
type Status int

const (
	StatusUninitialized Status = iota
	StatusQuestioning
	StatusGenerating
	StatusCompleted
)

// Conversation is the provider surface the orchestrator drives.
// *provider.Process satisfies it.
type Conversation interface {
	Spawn(systemPrompt string) error
	Send(msg provider.Message) error
	Receive(ctx context.Context) (provider.Response, error)
	Cleanup() error
}

// Config sets up one interview.
type Config struct {
	Feature         string
	Provider        string
	FirstPrinciples bool
	CodebaseSummary string
	ContextFiles    []ContextFile

	// Retry governs provider turns; zero value uses the defaults.
	Retry recovery.RetryOptions

	// Logger receives checkpoint failures (nil for none).
	Logger io.Writer
}

// TurnResult is what one provider exchange produced.
type TurnResult struct {
	Text      string
	Question  *Question
	Completed bool
}

// Orchestrator drives the interview: it owns one provider conversation
// and one interview state value, runs strictly sequential turns, and
// checkpoints around every provider call.
type Orchestrator struct {
	cfg   Config
	conv  Conversation
	store *session.Store

	status       Status
	state        session.State
	lastQuestion string
	completion   *Completion
	handlers     []Handler
}

// New creates an orchestrator. Nothing runs until Initialize.
func New(cfg Config, conv Conversation, store *session.Store) *Orchestrator {
	return &Orchestrator{
		cfg:   cfg,
		conv:  conv,
		store: store,
	}
}

// State returns the current interview state value.
func (o *Orchestrator) State() session.State {
	return o.state
}

// Status returns the orchestrator's state-machine position.
func (o *Orchestrator) Status() Status {
	return o.status
}

// Subscribe registers a handler for orchestrator events.
func (o *Orchestrator) Subscribe(h Handler) {
	o.handlers = append(o.handlers, h)
}

// Initialize builds the system prompt, spawns the provider, and awaits
// the first response. The recovery wrapper checkpoints before the spawn
// and again on failure; checkpoint failures are logged and never fail
// the turn.
func (o *Orchestrator) Initialize(ctx context.Context) (*TurnResult, error) {
	if o.status != StatusUninitialized {
		o.checkpoint()
		return nil, o.fail(errs.New(errs.Validation, "interview already initialized"))
	}

	o.state = session.NewState(uuid.NewString(), o.cfg.Feature, o.cfg.Provider, o.cfg.FirstPrinciples, contextPaths(o.cfg.ContextFiles))
	systemPrompt := BuildSystemPrompt(o.cfg.Feature, o.cfg.FirstPrinciples, o.cfg.CodebaseSummary, o.cfg.ContextFiles)

	var resp provider.Response
	outcome := recovery.Run(ctx, o.recoveryOptions(), func(ctx context.Context) error {
		if err := o.conv.Spawn(systemPrompt); err != nil {
			return err
		}

		o.status = StatusQuestioning
		o.state = o.state.WithPhase(session.PhaseQuestioning)
		o.emit(Event{Kind: EventPhaseChange, Phase: o.state.Phase})
		o.checkpoint()

		var err error
		resp, err = o.awaitTurn(ctx)
		return err
	})
	o.emitSaved(outcome)
	if !outcome.Success {
		return nil, o.fail(outcome.Err)
	}

	return o.absorb(resp), nil
}

// Resume restarts an interview from a saved checkpoint. The provider
// gets a fresh conversation whose system prompt replays the recorded
// exchanges and accumulated context, so the next question picks up
// where the interview left off.
func (o *Orchestrator) Resume(ctx context.Context, saved session.State) (*TurnResult, error) {
	if o.status != StatusUninitialized {
		return nil, o.fail(errs.New(errs.Validation, "interview already initialized"))
	}

	o.state = saved
	systemPrompt := BuildSystemPrompt(saved.Feature, saved.FirstPrinciples, o.cfg.CodebaseSummary, o.cfg.ContextFiles)
	systemPrompt += resumeTranscript(saved)

	var resp provider.Response
	outcome := recovery.Run(ctx, o.recoveryOptions(), func(ctx context.Context) error {
		if err := o.conv.Spawn(systemPrompt); err != nil {
			return err
		}

		o.status = StatusQuestioning
		o.state = o.state.WithPhase(session.PhaseQuestioning)
		o.emit(Event{Kind: EventPhaseChange, Phase: o.state.Phase})
		o.checkpoint()

		var err error
		resp, err = o.awaitTurn(ctx)
		return err
	})
	o.emitSaved(outcome)
	if !outcome.Success {
		return nil, o.fail(outcome.Err)
	}

	return o.absorb(resp), nil
}

// SendUserResponse records the answer against the previous question,
// checkpoints, forwards it to the provider, and parses the next
// response. The history append happens before any provider call so a
// crash afterward still preserves the user's input.
func (o *Orchestrator) SendUserResponse(ctx context.Context, answer string) (*TurnResult, error) {
	if o.status == StatusUninitialized {
		return nil, o.fail(errs.New(errs.Validation, "interview not initialized"))
	}

	o.state = o.state.WithHistory(o.lastQuestion, answer)

	var resp provider.Response
	outcome := recovery.Run(ctx, o.recoveryOptions(), func(ctx context.Context) error {
		return recovery.Retry(ctx, o.cfg.Retry, func(ctx context.Context) error {
			if err := o.conv.Send(provider.Message{Content: answer}); err != nil {
				return err
			}
			o.checkpoint()
			var recvErr error
			resp, recvErr = o.awaitTurn(ctx)
			return recvErr
		})
	})
	o.emitSaved(outcome)
	if !outcome.Success {
		return nil, o.fail(outcome.Err)
	}

	return o.absorb(resp), nil
}

// Complete returns the interview's completion payload. A payload cached
// from an earlier turn is returned directly; otherwise the accumulated
// AI context is rescanned for a completion block as a fallback.
func (o *Orchestrator) Complete() (*Completion, error) {
	if o.completion != nil {
		o.status = StatusCompleted
		return o.completion, nil
	}

	c, err := ScanCompletion(o.state.AIContext)
	if err != nil {
		return nil, errs.Wrap(errs.Validation, err.Error(), err)
	}

	o.completion = c
	o.status = StatusCompleted
	return c, nil
}

// Cleanup releases the provider conversation.
func (o *Orchestrator) Cleanup() error {
	return o.conv.Cleanup()
}

// awaitTurn receives until the turn's terminal response.
func (o *Orchestrator) awaitTurn(ctx context.Context) (provider.Response, error) {
	for {
		resp, err := o.conv.Receive(ctx)
		if err != nil {
			return provider.Response{}, err
		}
		if resp.IsComplete {
			return resp, nil
		}
	}
}

// absorb folds a terminal response into the interview state: block
// extraction, AI-context accumulation, phase transition on completion,
// and the turn-end checkpoint.
func (o *Orchestrator) absorb(resp provider.Response) *TurnResult {
	result := &TurnResult{Text: resp.Content}

	// Both scans run independently; either, both, or neither may match.
	if q, ok := ExtractQuestion(resp.Content); ok {
		if err := ValidateQuestion(*q); err == nil {
			result.Question = q
			o.lastQuestion = q.Question
		}
	}
	if result.Question == nil {
		o.lastQuestion = resp.Content
	}

	if c, ok := ExtractCompletion(resp.Content); ok {
		o.completion = c
		o.status = StatusGenerating
		o.state = o.state.WithPhase(session.PhaseGenerating)
		o.emit(Event{Kind: EventPhaseChange, Phase: o.state.Phase})
		result.Completed = true
	}

	o.state = o.state.WithAIContext(resp.Content)
	o.checkpoint()
	o.emit(Event{Kind: EventAIResponse, Response: resp.Content, Question: result.Question})

	return result
}

// recoveryOptions builds the checkpoint-around-operation options for
// one provider turn: save before, save again on failure.
func (o *Orchestrator) recoveryOptions() recovery.Options {
	opts := recovery.Options{
		State:       &o.state,
		SaveBefore:  true,
		SaveOnError: true,
		Logger:      o.cfg.Logger,
	}
	if o.store != nil {
		opts.Store = o.store
	}
	return opts
}

// emitSaved reports the wrapper's checkpoint writes to subscribers.
func (o *Orchestrator) emitSaved(outcome recovery.Outcome) {
	if outcome.SavedBefore || outcome.SavedAfter {
		o.emit(Event{Kind: EventStateSaved, Path: outcome.CheckpointPath})
	}
}

// checkpoint writes a mid-turn recovery checkpoint. Failures are logged
// and swallowed; they never fail the turn.
func (o *Orchestrator) checkpoint() {
	if o.store == nil {
		return
	}
	path, err := o.store.Save(o.state)
	if err != nil {
		if o.cfg.Logger != nil {
			fmt.Fprintf(o.cfg.Logger, "checkpoint failed: %v\n", err)
		}
		return
	}
	o.emit(Event{Kind: EventStateSaved, Path: path})
}

// fail emits an error event and returns the classified error.
func (o *Orchestrator) fail(e *errs.Error) error {
	o.emit(Event{Kind: EventError, Err: e})
	return e
}

// emit delivers an event to every subscriber, discarding panics so one
// bad handler cannot break the turn loop.
func (o *Orchestrator) emit(event Event) {
	for _, h := range o.handlers {
		func() {
			defer func() { recover() }()
			h(event)
		}()
	}
}

func contextPaths(files []ContextFile) []string {
	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	return paths
}
