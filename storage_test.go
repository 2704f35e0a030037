package droneod

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchiveRoundTrip(t *testing.T) {
	db, err := OpenDB(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer db.Close()

	tj := genTraj(5, 0.05)
	report := ErrorReport{
		AbsX: 0.1, AbsZ: 0.2, AbsPhi: 0.3, AbsDist: 0.4,
		RelX: 0.5, RelZ: 0.6, RelPhi: 0.7, RelDist: 0.8,
	}
	runID, err := db.SaveRun("ekf-noisy", "extended_kalman_filter", "noisy_data.csv", tj.Dt(), 42*time.Microsecond, report)
	require.NoError(t, err)
	require.NoError(t, db.SaveEstimates(runID, tj.T, tj.X))

	got, err := db.RunReport(runID)
	require.NoError(t, err)
	assert.Equal(t, report, got)

	ts, estimates, err := db.RunEstimates(runID)
	require.NoError(t, err)
	require.Len(t, estimates, tj.Len())
	for i := range estimates {
		assert.InDelta(t, tj.T[i], ts[i], 1e-12)
		for j := 0; j < 6; j++ {
			assert.InDelta(t, tj.X[i].AtVec(j), estimates[i].AtVec(j), 1e-12)
		}
	}
}

func TestArchiveTwoRuns(t *testing.T) {
	db, err := OpenDB(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer db.Close()

	first, err := db.SaveRun("a", "oracle_observer", "data.csv", 0.05, time.Microsecond, ErrorReport{})
	require.NoError(t, err)
	second, err := db.SaveRun("b", "dead_reckoning", "data.csv", 0.05, time.Microsecond, ErrorReport{AbsX: 1})
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	got, err := db.RunReport(second)
	require.NoError(t, err)
	assert.Equal(t, 1.0, got.AbsX)
}
