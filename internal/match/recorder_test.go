package match

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vicathor/PM-ABMS/internal/pitch"
)

func testRecorder() *Recorder {
	kickoff := time.Date(2024, 1, 1, 15, 0, 0, 0, time.UTC)
	return NewRecorder(kickoff, 0.066)
}

func TestTimestampArithmetic(t *testing.T) {
	r := testRecorder()
	assert.Equal(t, r.At(0).Add(660*time.Millisecond), r.At(10))
}

func TestCaseLifecycle(t *testing.T) {
	r := testRecorder()
	require.Nil(t, r.ActiveCase())

	r.OpenCase(0, 0)
	c := r.ActiveCase()
	require.NotNil(t, c)
	assert.Equal(t, 0, c.TeamID)
	assert.Equal(t, -1, c.CloseTick)
	assert.Contains(t, c.ID, "team0_")

	// Opening for the other side closes the first case.
	r.OpenCase(1, 40)
	cases := r.Cases()
	require.Len(t, cases, 2)
	assert.Equal(t, 40, cases[0].CloseTick)
	assert.Equal(t, -1, cases[1].CloseTick)
	assert.Greater(t, cases[1].OpenTick, cases[0].OpenTick)

	r.CloseActive(80)
	assert.Nil(t, r.ActiveCase())
	assert.Equal(t, 80, r.Cases()[1].CloseTick)

	// Closing again is a no-op.
	r.CloseActive(99)
	assert.Equal(t, 80, r.Cases()[1].CloseTick)
}

func TestRecordStampsActiveCase(t *testing.T) {
	r := testRecorder()
	r.OpenCase(1, 7)
	r.Record(3, 1, EvPass, pitch.Vec2{X: 10, Y: 20}, 0.05, 7)

	evs := r.Snapshot()
	require.Len(t, evs, 1)
	assert.Equal(t, r.ActiveCase().ID, evs[0].CaseID)
	assert.Equal(t, r.At(7), evs[0].Timestamp)
	assert.Equal(t, EvPass, evs[0].Action)
	assert.Equal(t, 10.0, evs[0].DestX)
	assert.Equal(t, 7, evs[0].Tick)
}

func TestSnapshotIsACopy(t *testing.T) {
	r := testRecorder()
	r.OpenCase(0, 0)
	r.Record(1, 0, EvPossession, pitch.Vec2{}, 0, 0)

	snap := r.Snapshot()
	snap[0].Action = "TAMPERED"
	assert.Equal(t, EvPossession, r.Snapshot()[0].Action)

	cases := r.Cases()
	cases[0].TeamID = 9
	assert.Equal(t, 0, r.Cases()[0].TeamID)
}
