package output_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/bushbuckridge-sim/entity"
	"github.com/tsinghua-fib-lab/bushbuckridge-sim/output"
	"github.com/tsinghua-fib-lab/bushbuckridge-sim/utils/config"
)

var t0 = time.Date(2020, 1, 1, 10, 0, 0, 0, time.UTC)

type resident struct {
	id   uuid.UUID
	home orb.Point
}

func (r resident) ID() uuid.UUID                     { return r.id }
func (r resident) Kind() entity.ActivityKind         { return entity.ActivityKindPicnic }
func (r resident) Position() orb.Point               { return r.home }
func (r resident) Home() orb.Point                   { return r.home }
func (r resident) Capabilities() entity.Capabilities { return entity.NewCapabilities(entity.TravelModeWalking) }
func (r resident) GoalReached() bool                 { return true }
func (r resident) String() string                    { return r.id.String() }

func TestSQLite(t *testing.T) {
	db, err := output.OpenSQLite(filepath.Join(t.TempDir(), "run.db"))
	require.NoError(t, err)
	defer db.Close()

	a, b := uuid.New(), uuid.New()
	require.NoError(t, db.RecordResidents([]entity.IResident{
		resident{id: a, home: orb.Point{31.2, -24.8}},
		resident{id: b, home: orb.Point{31.3, -24.9}},
	}))
	// 整表替换
	require.NoError(t, db.RecordResidents([]entity.IResident{resident{id: a, home: orb.Point{31.2, -24.8}}}))
	n, err := db.CountResidents()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, db.RecordEvents([]entity.Event{
		{Time: t0, ResidentID: a, Kind: entity.EventPlanned, State: "going_to_place", Position: orb.Point{31.2, -24.8}},
		{Time: t0.Add(time.Minute), ResidentID: a, Kind: entity.EventArrived, State: "going_to_place", Position: orb.Point{31.21, -24.8}},
		{Time: t0.Add(time.Hour), ResidentID: a, Kind: entity.EventStranded, State: "going_home", Detail: "no route"},
	}))
	events, err := db.Events("")
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, a.String(), events[0].ResidentID)
	assert.Equal(t, "2020-01-01T10:01:00Z", events[1].Time)
	assert.Equal(t, 31.21, events[1].Lon)

	stranded, err := db.Events(entity.EventStranded)
	require.NoError(t, err)
	require.Len(t, stranded, 1)
	assert.Equal(t, "no route", stranded[0].Detail)

	for step := range int32(3) {
		require.NoError(t, db.RecordSummary(entity.Summary{
			Step:              step,
			Time:              t0.Add(time.Duration(step) * time.Second),
			NumResidents:      1,
			NumCompletedTrips: step,
			TravelDistance:    float64(step) * 10,
			Precipitation:     100,
		}))
	}
	last, err := db.LastSummary()
	require.NoError(t, err)
	assert.Equal(t, int32(2), last.Step)
	assert.Equal(t, int32(2), last.NumCompletedTrips)
	assert.Equal(t, 20., last.TravelDistance)
	assert.Equal(t, 100., last.Precipitation)
}

func TestTrajectory(t *testing.T) {
	path := output.TrajectoryPath(t.TempDir(), "job0")
	traj, err := output.OpenTrajectory(path)
	require.NoError(t, err)

	id := uuid.New()
	for step := range int32(5) {
		require.NoError(t, traj.RecordPositions(step, t0.Add(time.Duration(step)*time.Second), []entity.Snapshot{
			{ID: id, Position: orb.Point{31.2 + float64(step)*0.001, -24.8}, State: "going_to_place", Moving: true},
		}))
	}
	require.NoError(t, traj.Close())
	assert.Error(t, traj.RecordPositions(5, t0, nil))

	frames, err := output.ReadTrajectory(path)
	require.NoError(t, err)
	require.Len(t, frames, 5)
	assert.Equal(t, int32(4), frames[4].Step)
	assert.True(t, frames[4].Time.Equal(t0.Add(4*time.Second)))
	require.Len(t, frames[4].Residents, 1)
	assert.Equal(t, id, frames[4].Residents[0].ID)
	assert.InDelta(t, 31.204, frames[4].Residents[0].Position.Lon(), 1e-9)
}

func TestNew(t *testing.T) {
	r, err := output.New(config.Output{}, "job0")
	require.NoError(t, err)
	assert.Nil(t, r)

	dir := t.TempDir()
	r, err = output.New(config.Output{DB: filepath.Join(dir, "run.db"), Trajectory: dir}, "job0")
	require.NoError(t, err)
	require.IsType(t, output.Multi{}, r)
	assert.Len(t, r.(output.Multi), 2)

	require.NoError(t, r.RecordEvents([]entity.Event{{Time: t0, ResidentID: uuid.New(), Kind: entity.EventNoGoal}}))
	require.NoError(t, r.RecordPositions(0, t0, nil))
	require.NoError(t, r.RecordSummary(entity.Summary{Time: t0}))
	require.NoError(t, r.Close())

	frames, err := output.ReadTrajectory(output.TrajectoryPath(dir, "job0"))
	require.NoError(t, err)
	assert.Len(t, frames, 1)
}
