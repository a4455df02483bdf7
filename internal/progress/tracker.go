// Package progress turns engine outcomes into learner-visible progress:
// which expected commands of a lab step have been run, step completion
// percentages, graduated hint reveals, and tier unlocks.
package progress

import "strings"

// Tracker records the commands a learner has executed during a session and
// matches them against a step's expected-command rules. Matching is exact
// string comparison after whitespace normalization.
type Tracker struct {
	executed []string
	seen     map[string]bool
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{seen: make(map[string]bool)}
}

// normalizeCommand collapses runs of whitespace to single spaces and trims
// the ends, so "nvidia-smi   -q" and "nvidia-smi -q " match.
func normalizeCommand(command string) string {
	return strings.Join(strings.Fields(command), " ")
}

// RecordExecution records one executed command string.
func (t *Tracker) RecordExecution(command string) {
	normalized := normalizeCommand(command)
	if normalized == "" {
		return
	}
	if !t.seen[normalized] {
		t.seen[normalized] = true
		t.executed = append(t.executed, normalized)
	}
}

// Matches returns the subset of expected commands seen so far, in the
// order they appear in expected.
func (t *Tracker) Matches(expected []string) []string {
	var matches []string
	for _, rule := range expected {
		if t.seen[normalizeCommand(rule)] {
			matches = append(matches, rule)
		}
	}
	return matches
}

// Executed returns every recorded command in execution order.
func (t *Tracker) Executed() []string {
	out := make([]string, len(t.executed))
	copy(out, t.executed)
	return out
}

// StepScore computes a step's completion percentage: matched rules over
// total rules, scaled to 0..100 and rounded down. An empty rule set scores
// 100 (nothing left to do).
func (t *Tracker) StepScore(expected []string) int {
	if len(expected) == 0 {
		return 100
	}
	return len(t.Matches(expected)) * 100 / len(expected)
}

// Passed reports whether the step's score has reached the pass threshold.
// Rule sets commonly require 100 but may define partial-credit passing.
func (t *Tracker) Passed(expected []string, threshold int) bool {
	return t.StepScore(expected) >= threshold
}
