// Package session wires the core pipeline together for one learner: a
// validated command line flows through grammar validation, privilege
// resolution, the state engine's check-then-act pair, and finally the
// progress tracker. Each session owns its own simulated state; nothing is
// shared across sessions.
package session

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"labsim/internal/catalog"
	"labsim/internal/grammar"
	"labsim/internal/logging"
	"labsim/internal/privilege"
	"labsim/internal/progress"
	"labsim/internal/simstate"
)

// Status classifies the outcome of one submitted command line.
type Status string

const (
	StatusExecuted          Status = "executed"
	StatusDenied            Status = "denied"
	StatusUnknownCommand    Status = "unknown_command"
	StatusInvalidFlag       Status = "invalid_flag"
	StatusInvalidSubcommand Status = "invalid_subcommand"
)

// Parsed is a command line already split into tokens by the caller's
// tokenizer. Flags carry their raw spelling; the session normalizes.
type Parsed struct {
	Raw        string
	Command    string
	Subcommand string
	Flags      []string
	// Values carries simulated field values for write effects, when the
	// caller has them (scenario content may supply these).
	Values map[string]any
}

// Outcome is the learner-facing result of one submitted command line.
// Every rejection carries the specifics the UI needs: suggestions for a
// typo, a reason code for a denial.
type Outcome struct {
	Status      Status
	BadToken    string
	Suggestions []string
	Decision    simstate.Decision
	Result      *simstate.ExecResult
}

// Message renders the outcome the way the simulated terminal shows it.
func (o Outcome) Message() string {
	switch o.Status {
	case StatusExecuted:
		return ""
	case StatusDenied:
		return o.Decision.Message
	case StatusUnknownCommand:
		return fmt.Sprintf("%s: command not found", o.BadToken)
	case StatusInvalidFlag, StatusInvalidSubcommand:
		if len(o.Suggestions) > 0 {
			return fmt.Sprintf("unrecognized option '%s' - did you mean '%s'?", o.BadToken, o.Suggestions[0])
		}
		return fmt.Sprintf("unrecognized option '%s'", o.BadToken)
	}
	return ""
}

// AttemptSink receives a record of every submitted command line. The
// sqlite attempt store satisfies it; a nil sink disables recording.
type AttemptSink interface {
	RecordAttempt(sessionID, command, status, reason string) error
}

// Session is one learner's simulated terminal session.
type Session struct {
	mu sync.Mutex

	id        string
	registry  *catalog.Registry
	validator *grammar.Validator
	engine    *simstate.Engine
	tracker   *progress.Tracker
	sink      AttemptSink

	failedAttempts int
}

// New creates a session over a loaded registry. initial seeds the
// simulated state domains; sink may be nil.
func New(loader *catalog.Loader, initial simstate.Snapshot, sink AttemptSink) (*Session, error) {
	registry, ok := loader.Registry()
	if !ok {
		return nil, catalog.ErrNotLoaded
	}

	return &Session{
		id:        uuid.NewString(),
		registry:  registry,
		validator: grammar.NewValidator(loader),
		engine:    simstate.NewEngine(registry, privilege.NewResolver(), simstate.NewContext(), initial),
		tracker:   progress.NewTracker(),
		sink:      sink,
	}, nil
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Tracker returns the session's command tracker.
func (s *Session) Tracker() *progress.Tracker { return s.tracker }

// State returns the current simulated state snapshot.
func (s *Session) State() simstate.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.State()
}

// Context returns the current execution context.
func (s *Session) Context() simstate.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Context()
}

// FailedAttempts returns how many submitted lines did not execute. The
// hint evaluator consumes this counter.
func (s *Session) FailedAttempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failedAttempts
}

// Run processes one submitted command line: validate every flag and the
// subcommand, check preconditions, then execute and record. The
// check-then-act pair runs under the session mutex, so no other submission
// can interleave between CanExecute and Execute.
func (s *Session) Run(p Parsed) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := logging.L(logging.CategorySession)

	if !s.registry.Has(p.Command) {
		return s.finish(p, Outcome{Status: StatusUnknownCommand, BadToken: p.Command})
	}

	for _, flag := range p.Flags {
		res := s.validator.ValidateFlag(p.Command, flag)
		if !res.Valid() {
			return s.finish(p, Outcome{
				Status:      StatusInvalidFlag,
				BadToken:    flag,
				Suggestions: res.Suggestions,
			})
		}
	}

	if p.Subcommand != "" {
		res := s.validator.ValidateSubcommand(p.Command, p.Subcommand)
		if !res.Valid() {
			return s.finish(p, Outcome{
				Status:      StatusInvalidSubcommand,
				BadToken:    p.Subcommand,
				Suggestions: res.Suggestions,
			})
		}
	}

	inv := simstate.Invocation{
		Command:    p.Command,
		Subcommand: p.Subcommand,
		Flags:      p.Flags,
		Values:     p.Values,
	}

	decision := s.engine.CanExecute(inv)
	if !decision.Allowed {
		log.Debug("execution denied",
			logging.String("command", p.Command),
			logging.String("reason", string(decision.Reason)))
		return s.finish(p, Outcome{Status: StatusDenied, Decision: decision})
	}

	result := s.engine.Execute(inv)
	s.tracker.RecordExecution(p.Raw)

	return s.finish(p, Outcome{Status: StatusExecuted, Decision: decision, Result: &result})
}

// finish applies bookkeeping common to every outcome: the failed-attempt
// counter and the attempt sink.
func (s *Session) finish(p Parsed, o Outcome) Outcome {
	if o.Status != StatusExecuted {
		s.failedAttempts++
	}
	if s.sink != nil {
		reason := ""
		if o.Status == StatusDenied {
			reason = string(o.Decision.Reason)
		}
		if err := s.sink.RecordAttempt(s.id, p.Raw, string(o.Status), reason); err != nil {
			logging.L(logging.CategorySession).Warn("failed to record attempt", logging.Err(err))
		}
	}
	return o
}
