package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"labsim/internal/catalog"
	"labsim/internal/progress"
	"labsim/internal/session"
	"labsim/internal/simstate"
)

var labCmd = &cobra.Command{
	Use:   "lab [scenario.yaml]",
	Short: "Run a lab scenario in the simulated terminal",
	Long: `Loads a YAML scenario and walks through its steps. Each step seeds
the simulated state, shows the prompt, and accepts command lines until
the step's expected commands are covered. Type 'hint' for the next
available hint and 'skip' to abandon a step.`,
	Args: cobra.ExactArgs(1),
	RunE: runLab,
}

func init() {
	rootCmd.AddCommand(labCmd)
}

func runLab(cmd *cobra.Command, args []string) error {
	scenario, err := progress.LoadScenario(args[0])
	if err != nil {
		return err
	}

	loader := newLoader()
	if _, err := loader.LoadAll(cmd.Context()); err != nil {
		return err
	}
	registry, _ := loader.Registry()

	fmt.Printf("=== %s ===\n%s\n\n", scenario.Title, scenario.Description)

	scanner := bufio.NewScanner(os.Stdin)
	passed := 0
	for i := range scenario.Steps {
		step := &scenario.Steps[i]
		if runStep(scanner, loader, registry, step) {
			passed++
		}
	}

	fmt.Printf("\nScenario complete: %d/%d steps passed.\n", passed, len(scenario.Steps))
	return nil
}

func runStep(scanner *bufio.Scanner, loader *catalog.Loader, registry *catalog.Registry, step *progress.Step) bool {
	sess, err := session.New(loader, simstate.NewSnapshot(step.InitialState), nil)
	if err != nil {
		fmt.Println("step setup failed:", err)
		return false
	}

	thresholds := step.HintThresholds
	evaluator := progress.NewHintEvaluator(thresholds)
	hintState := progress.NewStepState()
	started := time.Now()

	fmt.Printf("--- Step %s ---\n%s\n", step.ID, step.Prompt)

	for {
		if sess.Tracker().Passed(step.ExpectedCommands, step.EffectiveThreshold()) {
			fmt.Printf("Step passed (%d%%).\n\n", sess.Tracker().StepScore(step.ExpectedCommands))
			return true
		}

		fmt.Print(prompt(sess))
		if !scanner.Scan() {
			return false
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "skip":
			fmt.Printf("Step skipped (%d%%).\n\n", sess.Tracker().StepScore(step.ExpectedCommands))
			return false
		case "hint":
			offerHint(evaluator, hintState, step.Hints, started, sess.FailedAttempts())
			continue
		}
		runLine(sess, registry, line)
	}
}

func offerHint(evaluator *progress.HintEvaluator, state *progress.StepState, hints []progress.Hint, started time.Time, failedAttempts int) {
	state.ElapsedSeconds = int(time.Since(started).Seconds())
	state.FailedAttempts = failedAttempts

	eval := evaluator.Evaluate(hints, state)
	if eval.Next == nil {
		if eval.Revealed == eval.Total {
			fmt.Println("No more hints for this step.")
		} else {
			fmt.Println("No hint available yet. Keep trying.")
		}
		return
	}
	state.Reveal(eval.Next.ID)
	fmt.Printf("Hint (level %d): %s\n", eval.Next.Level, eval.Next.Text)
}
