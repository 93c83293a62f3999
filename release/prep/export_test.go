package prep

import "context"

// Exported aliases for testing internal types and
// functions from the prep_test package.

// Step is an alias for step.
type Step = step

// MakeStepForTest builds a step from a name and run
// function.
func MakeStepForTest(
	name string,
	run func(ctx context.Context) error,
) Step {
	return step{name: name, run: run}
}

// RunStepsForTest exposes runSteps.
var RunStepsForTest = runSteps

// StepsForTest exposes steps.
func StepsForTest(cfg Config) []Step {
	return steps(cfg, &state{})
}

// StepNameForTest returns the name of a step.
func StepNameForTest(st Step) string {
	return st.name
}

// ValidateForTest exposes Config.validate.
func ValidateForTest(cfg Config) error {
	return cfg.validate()
}
