package scheduler

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	runs atomic.Int64
	err  error
}

func (j *countingJob) Run() error {
	j.runs.Add(1)
	return j.err
}

func (j *countingJob) Name() string { return "counting" }

func TestAddJobRejectsBadSchedule(t *testing.T) {
	s := New(zerolog.New(nil).Level(zerolog.Disabled))
	assert.Error(t, s.AddJob("not a schedule", &countingJob{}))
	assert.NoError(t, s.AddJob("@every 1h", &countingJob{}))
}

func TestScheduledJobRuns(t *testing.T) {
	s := New(zerolog.New(nil).Level(zerolog.Disabled))

	job := &countingJob{}
	require.NoError(t, s.AddJob("@every 10ms", job))

	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return job.runs.Load() >= 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRunNowPropagatesError(t *testing.T) {
	s := New(zerolog.New(nil).Level(zerolog.Disabled))

	ok := &countingJob{}
	require.NoError(t, s.RunNow(ok))
	assert.Equal(t, int64(1), ok.runs.Load())

	failing := &countingJob{err: errors.New("boom")}
	assert.Error(t, s.RunNow(failing))
}
