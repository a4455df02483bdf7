package progress

// Tier numbers. Tier 1 is always open; higher tiers gate harder scenarios
// behind demonstrated tool usage and quiz performance.
const (
	Tier1 = 1
	Tier2 = 2
	Tier3 = 3
)

// DefaultQuizPassScore is the quiz score (percent) required for tier 2.
const DefaultQuizPassScore = 75.0

// Family is a group of related tools that unlock together, e.g. the
// gpu-monitoring family covering nvidia-smi and dcgmi.
type Family struct {
	ID    string   `yaml:"id" json:"id"`
	Tools []string `yaml:"tools" json:"tools"`
}

// FamilyProgress is the recorded learner progress for one family. Scores
// and usage only ever increase; the unlocked set only ever grows.
type FamilyProgress struct {
	QuizScore         float64
	ToolsUsed         map[string]bool
	ExplanationPassed bool
	unlocked          map[int]bool
}

// NewFamilyProgress creates an empty progress record.
func NewFamilyProgress() *FamilyProgress {
	return &FamilyProgress{
		ToolsUsed: make(map[string]bool),
		unlocked:  make(map[int]bool),
	}
}

// RecordToolUse marks a tool as exercised at least once.
func (p *FamilyProgress) RecordToolUse(tool string) {
	p.ToolsUsed[tool] = true
}

// RecordQuizScore records a quiz result, keeping the best score.
func (p *FamilyProgress) RecordQuizScore(score float64) {
	if score > p.QuizScore {
		p.QuizScore = score
	}
}

// TierEvaluator decides tier unlocks. Unlock is monotonic and sticky: once
// a tier is recorded unlocked for a family it is never re-locked, even if
// later state would no longer satisfy the requirements.
type TierEvaluator struct {
	quizPassScore float64
}

// NewTierEvaluator creates an evaluator; passScore <= 0 selects the default.
func NewTierEvaluator(passScore float64) *TierEvaluator {
	if passScore <= 0 {
		passScore = DefaultQuizPassScore
	}
	return &TierEvaluator{quizPassScore: passScore}
}

// IsUnlocked evaluates whether the tier is open for the family, recording
// a fresh unlock into the progress state so it sticks.
//
//   - Tier 1 is always unlocked.
//   - Tier 2 requires the family quiz score to have passed AND every tool
//     in the family to have been exercised at least once.
//   - Tier 3 additionally requires the tier-2 explanation gate to be
//     recorded as passed.
func (e *TierEvaluator) IsUnlocked(family Family, tier int, p *FamilyProgress) bool {
	if tier <= Tier1 {
		return true
	}
	if p == nil {
		return false
	}
	if p.unlocked[tier] {
		return true
	}

	unlocked := false
	switch tier {
	case Tier2:
		unlocked = e.tier2Satisfied(family, p)
	case Tier3:
		unlocked = e.tier2Satisfied(family, p) && p.ExplanationPassed
	}

	if unlocked {
		p.unlocked[tier] = true
	}
	return unlocked
}

func (e *TierEvaluator) tier2Satisfied(family Family, p *FamilyProgress) bool {
	if p.QuizScore < e.quizPassScore {
		return false
	}
	for _, tool := range family.Tools {
		if !p.ToolsUsed[tool] {
			return false
		}
	}
	return true
}
