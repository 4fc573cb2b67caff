package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/riskval/pkg/config"
	"github.com/wonny/riskval/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})
}

// fakeJob 테스트용 작업: 지정 횟수만큼 실패 후 성공
type fakeJob struct {
	name     string
	schedule string
	failures int32
	runs     int32
}

func (f *fakeJob) Name() string     { return f.name }
func (f *fakeJob) Schedule() string { return f.schedule }

func (f *fakeJob) Run(ctx context.Context) error {
	n := atomic.AddInt32(&f.runs, 1)
	if n <= atomic.LoadInt32(&f.failures) {
		return errors.New("transient failure")
	}
	return nil
}

func TestScheduler_AddJob(t *testing.T) {
	s := New(testLogger())

	job := &fakeJob{name: "gate", schedule: "0 30 17 * * 1-5"}
	require.NoError(t, s.AddJob(job))

	// 같은 이름은 거부
	assert.Error(t, s.AddJob(&fakeJob{name: "gate", schedule: "@daily"}))
	assert.Contains(t, s.GetAllJobs(), "gate")
}

func TestScheduler_AddJob_InvalidSchedule(t *testing.T) {
	s := New(testLogger())
	err := s.AddJob(&fakeJob{name: "bad", schedule: "not a cron expr"})
	assert.Error(t, err)
}

func TestScheduler_RunJob_RetriesUntilSuccess(t *testing.T) {
	s := New(testLogger(), WithRetry(3, time.Millisecond))

	job := &fakeJob{name: "flaky", schedule: "@daily", failures: 2}
	require.NoError(t, s.AddJob(job))

	s.runJob(job)

	assert.Equal(t, int32(3), atomic.LoadInt32(&job.runs))

	history, err := s.GetJobHistory("flaky")
	require.NoError(t, err)
	require.Len(t, history.Results, 1)
	assert.True(t, history.Results[0].Success)
}

func TestScheduler_RunJob_FailureRecorded(t *testing.T) {
	s := New(testLogger(), WithRetry(1, time.Millisecond))

	job := &fakeJob{name: "broken", schedule: "@daily", failures: 99}
	require.NoError(t, s.AddJob(job))

	s.runJob(job)

	history, err := s.GetJobHistory("broken")
	require.NoError(t, err)
	require.Len(t, history.Results, 1)
	assert.False(t, history.Results[0].Success)
	assert.Contains(t, history.Results[0].Error, "transient failure")

	stats := s.GetJobStats()
	assert.Equal(t, 1, stats["broken"].FailureCount)
	assert.Equal(t, 0.0, stats["broken"].SuccessRate)
}

func TestScheduler_RunJob_Unknown(t *testing.T) {
	s := New(testLogger())
	assert.Error(t, s.RunJob("ghost"))
}

func TestJobHistory_Bounded(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < 150; i++ {
		h.AddResult(JobResult{JobName: "x", Success: true})
	}
	assert.Len(t, h.Results, 100)
}
