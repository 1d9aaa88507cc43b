package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wonny/siphon/pkg/logger"
)

type testJob struct {
	name     string
	schedule string
	ran      chan struct{}
	err      error
}

func (j *testJob) Name() string     { return j.name }
func (j *testJob) Schedule() string { return j.schedule }
func (j *testJob) Run(context.Context) error {
	select {
	case j.ran <- struct{}{}:
	default:
	}
	return j.err
}

func newTestJob(name string) *testJob {
	return &testJob{
		name:     name,
		schedule: "0 0 9 * * 1-5",
		ran:      make(chan struct{}, 1),
	}
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: "console"})
}

func TestAddJobRejectsDuplicates(t *testing.T) {
	s := New(testLogger())

	require.NoError(t, s.AddJob(newTestJob("scan")))
	assert.Error(t, s.AddJob(newTestJob("scan")))
}

func TestAddJobRejectsBadSchedule(t *testing.T) {
	s := New(testLogger())

	job := newTestJob("broken")
	job.schedule = "not a cron expression"
	assert.Error(t, s.AddJob(job))
}

func TestRunJobImmediately(t *testing.T) {
	s := New(testLogger())

	job := newTestJob("scan")
	require.NoError(t, s.AddJob(job))

	require.NoError(t, s.RunJob("scan"))

	select {
	case <-job.ran:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run")
	}

	// History is written after Run returns
	require.Eventually(t, func() bool {
		h, err := s.GetJobHistory("scan")
		return err == nil && len(h.Results) == 1
	}, 2*time.Second, 10*time.Millisecond)

	h, _ := s.GetJobHistory("scan")
	assert.True(t, h.Results[0].Success)

	stats := s.GetJobStats()
	assert.Equal(t, 1, stats["scan"].TotalRuns)
	assert.Equal(t, 1.0, stats["scan"].SuccessRate)
}

func TestRunJobUnknownName(t *testing.T) {
	s := New(testLogger())
	assert.Error(t, s.RunJob("missing"))
}

func TestJobHistoryBookkeeping(t *testing.T) {
	h := &JobHistory{}

	for i := 0; i < 105; i++ {
		h.AddResult(JobResult{JobName: "scan", Success: i%2 == 0})
	}

	assert.Len(t, h.Results, 100, "history is capped")
	assert.Len(t, h.GetLatestResults(10), 10)
	assert.InDelta(t, 0.5, h.GetSuccessRate(), 0.05)
	assert.NotEmpty(t, h.GetFailedResults())
}

func TestGetAllJobs(t *testing.T) {
	s := New(testLogger())
	require.NoError(t, s.AddJob(newTestJob("scan")))
	require.NoError(t, s.AddJob(newTestJob("tracking")))

	jobs := s.GetAllJobs()
	assert.Len(t, jobs, 2)

	// Failed lookups are errors, not nils
	_, err := s.GetJobHistory("missing")
	assert.Error(t, err)
}
