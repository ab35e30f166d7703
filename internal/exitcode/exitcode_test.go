package exitcode

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	runeerrors "github.com/michkochris/rune-analyze/internal/errors"
)

func TestDetermineExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, Success},
		{"plain error", errors.New("boom"), GeneralError},
		{"gate rejection", runeerrors.NewExecutionBlockedError("blocked"), GeneralError},
		{"missing target", runeerrors.New(runeerrors.ErrCodeTargetMissing, "no target"), UsageError},
		{"oversized argument", runeerrors.NewArgumentTooLongError(1, 4096), UsageError},
		{"wrapped usage error", fmt.Errorf("context: %w", runeerrors.NewArgumentTooLongError(0, 4096)), UsageError},
		{"child failure", &ChildExitError{Code: 3}, 3},
		{"signalled child", &ChildExitError{Code: 139}, 139},
		{"wrapped child failure", fmt.Errorf("run: %w", &ChildExitError{Code: 7}), 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetermineExitCode(tt.err))
		})
	}
}

func TestFromChild(t *testing.T) {
	assert.Equal(t, Success, FromChild(0))
	assert.Equal(t, 3, FromChild(3))
	assert.Equal(t, 139, FromChild(139))
}

func TestChildExitError_Message(t *testing.T) {
	err := &ChildExitError{Code: 139}

	assert.Equal(t, "target exited with status 139", err.Error())
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "Success", Describe(Success))
	assert.Equal(t, "Unknown error", Describe(42))
}
