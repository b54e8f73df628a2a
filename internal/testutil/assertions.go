package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// AssertIterationCount checks the log output for the number of completed
// iterations.
func AssertIterationCount(t *testing.T, result *HarnessResult, want int) {
	t.Helper()
	got := strings.Count(result.LogOutput, "✅ Iteration finished.")
	require.Equal(t, want, got, "completed iteration count mismatch")
}

// AssertStepRan checks the log output to confirm that a specific step
// executed at least once.
func AssertStepRan(t *testing.T, result *HarnessResult, runnerType, stepName string) {
	t.Helper()
	expected := fmt.Sprintf("step=step.%s.%s", runnerType, stepName)
	require.True(t,
		strings.Contains(result.LogOutput, expected),
		"expected log output for step %s.%s was not found", runnerType, stepName,
	)
}
