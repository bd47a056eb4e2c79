package log

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnsureRunID(t *testing.T) {
	ctx, runID := WithRunID(context.Background())
	assert.Len(t, runID, runIDSize)

	same, reused := EnsureRunID(ctx)
	assert.Equal(t, runID, reused)
	assert.Equal(t, runID, GetRunID(same))

	_, fresh := EnsureRunID(context.Background())
	assert.Len(t, fresh, runIDSize)
	assert.NotEqual(t, runID, fresh)
}
