package gate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorize_ObserveAlwaysAllowed(t *testing.T) {
	decision := Authorize(Request{Target: "./bin", Class: ClassObserve})

	assert.True(t, decision.Allowed)
	assert.False(t, decision.ForcedDryRun)
}

func TestAuthorize_SimulateAlwaysAllowed(t *testing.T) {
	decision := Authorize(Request{Target: "./bin", Class: ClassSimulate})

	assert.True(t, decision.Allowed)
}

func TestAuthorize_ExecuteWithoutForceBlocked(t *testing.T) {
	decision := Authorize(Request{Target: "./suspect", Class: ClassExecute})

	require.False(t, decision.Allowed)
	// The rejection must teach the reader the way out, not just say no.
	assert.Contains(t, decision.Reason, "--force")
	assert.Contains(t, decision.Reason, "--dry-run")
	assert.Contains(t, decision.Reason, "scan")
}

func TestAuthorize_ExecuteWithForceAllowed(t *testing.T) {
	decision := Authorize(Request{Target: "./suspect", Class: ClassExecute, Force: true})

	assert.True(t, decision.Allowed)
	assert.False(t, decision.ForcedDryRun)
}

func TestAuthorize_DryRunBeatsForce(t *testing.T) {
	req := Request{Target: "./suspect", Class: ClassExecute, Force: true, DryRun: true}

	decision := Authorize(req)

	require.True(t, decision.Allowed)
	assert.True(t, decision.ForcedDryRun)
	assert.Equal(t, ClassSimulate, req.Effective())
}

func TestAuthorize_SafeModeDemotesExecute(t *testing.T) {
	req := Request{Target: "./suspect", Class: ClassExecute, Force: true, SafeMode: true}

	decision := Authorize(req)

	assert.True(t, decision.Allowed)
	assert.Equal(t, ClassSimulate, req.Effective())
}

func TestAuthorize_UnknownClassBlocked(t *testing.T) {
	decision := Authorize(Request{Target: "./bin", Class: Class("compile")})

	require.False(t, decision.Allowed)
	assert.NotEmpty(t, decision.Reason)
}

func TestAuthorize_IsTotal(t *testing.T) {
	// Every input yields a decision with a reason when blocked; no case
	// panics or returns an empty rejection.
	requests := []Request{
		{},
		{Class: ClassExecute},
		{Class: ClassExecute, DryRun: true},
		{Class: Class("???"), Force: true},
		{Target: strings.Repeat("x", 10_000), Class: ClassObserve},
	}

	for _, req := range requests {
		decision := Authorize(req)
		if !decision.Allowed {
			assert.NotEmpty(t, decision.Reason)
		}
	}
}

func TestEffective_ExecuteStaysExecuteWhenUnconstrained(t *testing.T) {
	req := Request{Class: ClassExecute, Force: true}

	assert.Equal(t, ClassExecute, req.Effective())
}
