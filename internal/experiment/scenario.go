package experiment

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is a scripted sequence of evaluation steps loaded from YAML.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep evaluates one preset across a seed ensemble.
type ScenarioStep struct {
	Preset   string  `yaml:"preset"`
	Duration float64 `yaml:"duration"`
	Dt       float64 `yaml:"dt"`
	Seed     int64   `yaml:"seed"`
	Runs     int     `yaml:"runs"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}

	return &scenario, nil
}

// StepOutcome pairs a step with its ensemble summary.
type StepOutcome struct {
	Step    ScenarioStep
	Summary Summary
}

// RunScenario executes all steps in order.
func RunScenario(ctx context.Context, scenario *Scenario) ([]StepOutcome, error) {
	outcomes := make([]StepOutcome, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		if step.Dt <= 0 {
			step.Dt = 1.0 / 60
		}
		if step.Duration <= 0 {
			step.Duration = 120
		}
		if step.Runs <= 0 {
			step.Runs = 1
		}
		fmt.Printf("step %d/%d: %s x%d\n", i+1, len(scenario.Steps), step.Preset, step.Runs)

		base := Config{
			Preset:   step.Preset,
			Dt:       step.Dt,
			Duration: step.Duration,
		}
		results, err := NewEnsemble(base, step.Runs, step.Seed).Run(ctx)
		if err != nil {
			return outcomes, fmt.Errorf("step %d: %w", i+1, err)
		}

		outcomes = append(outcomes, StepOutcome{Step: step, Summary: Summarize(results)})
	}

	return outcomes, nil
}
