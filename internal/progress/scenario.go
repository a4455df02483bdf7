package progress

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is a lab scenario: an ordered list of steps the learner works
// through in the simulated terminal. Scenario content is authored in YAML
// and supplied by external content packs; the core only interprets it.
type Scenario struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Family      string `yaml:"family"`
	Tier        int    `yaml:"tier"`
	Steps       []Step `yaml:"steps"`
}

// Step is one exercise within a scenario. PassThreshold is the completion
// percentage required to pass; zero means the common full-completion rule.
type Step struct {
	ID               string                    `yaml:"id"`
	Prompt           string                    `yaml:"prompt"`
	ExpectedCommands []string                  `yaml:"expected_commands"`
	PassThreshold    int                       `yaml:"pass_threshold,omitempty"`
	Hints            []Hint                    `yaml:"hints,omitempty"`
	HintThresholds   []HintThreshold           `yaml:"hint_thresholds,omitempty"`
	InitialState     map[string]map[string]any `yaml:"initial_state,omitempty"`
}

// EffectiveThreshold returns the step's pass threshold, defaulting to 100.
func (s *Step) EffectiveThreshold() int {
	if s.PassThreshold <= 0 {
		return 100
	}
	return s.PassThreshold
}

// LoadScenario parses a YAML scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses YAML scenario content and checks the minimum shape
// a runnable scenario needs.
func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if sc.ID == "" {
		return nil, fmt.Errorf("scenario has no id")
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", sc.ID)
	}
	for i := range sc.Steps {
		if len(sc.Steps[i].ExpectedCommands) == 0 {
			return nil, fmt.Errorf("scenario %s step %s has no expected commands", sc.ID, sc.Steps[i].ID)
		}
	}
	return &sc, nil
}
