package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrackerRecordAndMatch(t *testing.T) {
	tr := NewTracker()
	tr.RecordExecution("nvidia-smi -q")
	tr.RecordExecution("ibstat")

	expected := []string{"nvidia-smi -q", "ibstat", "sinfo"}
	assert.Equal(t, []string{"nvidia-smi -q", "ibstat"}, tr.Matches(expected))
	assert.Equal(t, 66, tr.StepScore(expected), "two of three, rounded down")
	assert.False(t, tr.Passed(expected, 100))
	assert.True(t, tr.Passed(expected, 66))
}

func TestTrackerWhitespaceNormalization(t *testing.T) {
	tr := NewTracker()
	tr.RecordExecution("  nvidia-smi    -q  ")

	assert.Equal(t, []string{"nvidia-smi -q"}, tr.Matches([]string{"nvidia-smi -q"}))
	assert.Equal(t, []string{"nvidia-smi -q"}, tr.Matches([]string{" nvidia-smi  -q "}))
}

func TestTrackerExactMatchOnly(t *testing.T) {
	tr := NewTracker()
	tr.RecordExecution("nvidia-smi -q -i 0")

	// A different flag order is a different command string.
	assert.Empty(t, tr.Matches([]string{"nvidia-smi -i 0 -q"}))
}

func TestTrackerDeduplicates(t *testing.T) {
	tr := NewTracker()
	tr.RecordExecution("ibstat")
	tr.RecordExecution("ibstat")
	tr.RecordExecution("")

	assert.Equal(t, []string{"ibstat"}, tr.Executed())
}

func TestTrackerEmptyRuleSet(t *testing.T) {
	tr := NewTracker()

	assert.Equal(t, 100, tr.StepScore(nil))
	assert.True(t, tr.Passed(nil, 100))
}

func TestTrackerFullCompletion(t *testing.T) {
	tr := NewTracker()
	expected := []string{"sinfo", "scontrol show node node01"}

	tr.RecordExecution("sinfo")
	assert.Equal(t, 50, tr.StepScore(expected))

	tr.RecordExecution("scontrol   show node node01")
	assert.Equal(t, 100, tr.StepScore(expected))
	assert.True(t, tr.Passed(expected, 100))
}
