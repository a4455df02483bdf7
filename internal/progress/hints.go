package progress

// Hint is one pedagogical hint attached to a lab step. Level 1 hints are
// gentle nudges, level 3 hints spell out the command.
type Hint struct {
	ID    string `yaml:"id" json:"id"`
	Level int    `yaml:"level" json:"level"`
	Text  string `yaml:"text" json:"text"`
}

// HintThreshold gates one reveal level. A level unlocks once the learner
// has either spent MinElapsedSeconds on the step or failed MinFailedAttempts
// times; crossing either counter is sufficient.
type HintThreshold struct {
	Level             int `yaml:"level" json:"level"`
	MinElapsedSeconds int `yaml:"min_elapsed_seconds" json:"min_elapsed_seconds"`
	MinFailedAttempts int `yaml:"min_failed_attempts" json:"min_failed_attempts"`
}

// DefaultHintThresholds is the standard three-level ladder.
var DefaultHintThresholds = []HintThreshold{
	{Level: 1, MinElapsedSeconds: 60, MinFailedAttempts: 2},
	{Level: 2, MinElapsedSeconds: 180, MinFailedAttempts: 4},
	{Level: 3, MinElapsedSeconds: 360, MinFailedAttempts: 6},
}

// StepState is the caller-maintained progress record for one step. The
// core exposes no timers: ElapsedSeconds is supplied by the caller's clock.
type StepState struct {
	ElapsedSeconds int
	FailedAttempts int
	revealed       map[string]bool
}

// NewStepState creates an empty step-progress record.
func NewStepState() *StepState {
	return &StepState{revealed: make(map[string]bool)}
}

// Reveal marks a hint as revealed. Once revealed, a hint stays revealed
// for the life of the step; there is no way to re-hide it.
func (s *StepState) Reveal(hintID string) {
	s.revealed[hintID] = true
}

// Revealed reports whether the hint has been revealed.
func (s *StepState) Revealed(hintID string) bool {
	return s.revealed[hintID]
}

// RevealedCount returns how many hints have been revealed.
func (s *StepState) RevealedCount() int {
	return len(s.revealed)
}

// Evaluation is the outcome of a hint evaluation pass.
type Evaluation struct {
	Revealed int
	Total    int
	// Next is the next hint eligible for reveal under the current
	// thresholds, or nil when every eligible hint is already revealed --
	// even if higher-level hints exist whose thresholds are unmet.
	Next *Hint
}

// HintEvaluator applies a threshold ladder to a step's hints. Stateless.
type HintEvaluator struct {
	thresholds []HintThreshold
}

// NewHintEvaluator creates an evaluator; nil thresholds selects the
// default ladder.
func NewHintEvaluator(thresholds []HintThreshold) *HintEvaluator {
	if thresholds == nil {
		thresholds = DefaultHintThresholds
	}
	return &HintEvaluator{thresholds: thresholds}
}

// levelUnlocked reports whether the given reveal level is open under the
// step's elapsed-time and failed-attempt counters. Levels without a
// configured threshold stay locked.
func (e *HintEvaluator) levelUnlocked(level int, state *StepState) bool {
	for _, t := range e.thresholds {
		if t.Level != level {
			continue
		}
		return state.ElapsedSeconds >= t.MinElapsedSeconds ||
			state.FailedAttempts >= t.MinFailedAttempts
	}
	return false
}

// Evaluate computes the reveal status of an ordered hint list. Hints
// unlock monotonically by level; within the eligible set, hints are
// offered in list order.
func (e *HintEvaluator) Evaluate(hints []Hint, state *StepState) Evaluation {
	eval := Evaluation{Total: len(hints)}
	for i := range hints {
		hint := &hints[i]
		if state.Revealed(hint.ID) {
			eval.Revealed++
			continue
		}
		if eval.Next == nil && e.levelUnlocked(hint.Level, state) {
			eval.Next = hint
		}
	}
	return eval
}
