package lifetimer

import (
	"github.com/stretchr/testify/require"
	"testing"
)

// TestNoOpLifetimer_Metrics returns zero values.
func TestNoOpLifetimer_Metrics(t *testing.T) {
	var lt NoOpLifetimer

	sweeps, removed := lt.LifetimerMetrics()
	require.Equal(t, int64(0), sweeps)
	require.Equal(t, int64(0), removed)
}

// TestNoOpLifetimer_Close returns nil.
func TestNoOpLifetimer_Close(t *testing.T) {
	var lt NoOpLifetimer

	require.NoError(t, lt.Close())
}
