package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"bench-match-go/pkg/tasks"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProcessor struct {
	// errs 依次作为每次调用的返回值，用完后返回 err。
	errs  []error
	err   error
	tasks []tasks.CorpusSyncTask
}

func (f *fakeProcessor) Process(_ context.Context, t tasks.CorpusSyncTask) error {
	f.tasks = append(f.tasks, t)
	if n := len(f.tasks); n <= len(f.errs) {
		return f.errs[n-1]
	}
	return f.err
}

type fakeAttempts struct {
	counts map[string]int64
	err    error
}

func (f *fakeAttempts) Incr(_ context.Context, id string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.counts[id]++
	return f.counts[id], nil
}

func (f *fakeAttempts) Reset(_ context.Context, id string) error {
	delete(f.counts, id)
	return nil
}

func TestHandleRetriesUntilSuccess(t *testing.T) {
	down := errors.New("embedding down")
	proc := &fakeProcessor{errs: []error{down, down}}
	attempts := &fakeAttempts{counts: map[string]int64{}}
	c := &Consumer{processor: proc, attempts: attempts, maxAttempts: 3}

	assert.True(t, c.handle(context.Background(), []byte(`{"task_id":"t1","employee_ids":["E1"]}`)))
	require.Len(t, proc.tasks, 3)
	assert.Equal(t, []string{"E1"}, proc.tasks[2].EmployeeIDs)
	assert.NotContains(t, attempts.counts, "t1")
}

func TestHandleCommitsAfterMaxAttempts(t *testing.T) {
	proc := &fakeProcessor{err: errors.New("embedding down")}
	attempts := &fakeAttempts{counts: map[string]int64{}}
	c := &Consumer{processor: proc, attempts: attempts, maxAttempts: 3}

	assert.True(t, c.handle(context.Background(), []byte(`{"task_id":"t1"}`)))
	assert.Len(t, proc.tasks, 3)
	assert.EqualValues(t, 3, attempts.counts["t1"])
}

func TestHandleContinuesCountAfterRedelivery(t *testing.T) {
	proc := &fakeProcessor{err: errors.New("embedding down")}
	attempts := &fakeAttempts{counts: map[string]int64{"t1": 2}}
	c := &Consumer{processor: proc, attempts: attempts, maxAttempts: 3}

	assert.True(t, c.handle(context.Background(), []byte(`{"task_id":"t1"}`)))
	assert.Len(t, proc.tasks, 1)
}

func TestHandleMalformedAndCounterFailure(t *testing.T) {
	proc := &fakeProcessor{err: errors.New("boom")}
	c := &Consumer{processor: proc, attempts: &fakeAttempts{err: errors.New("redis down")}, maxAttempts: 3}

	assert.True(t, c.handle(context.Background(), []byte("not json")))
	assert.Empty(t, proc.tasks)

	// Redis 不可用时按本地次数重试
	assert.True(t, c.handle(context.Background(), []byte(`{"task_id":"t2"}`)))
	assert.Len(t, proc.tasks, 3)
}

func TestHandleStopsOnCancel(t *testing.T) {
	proc := &fakeProcessor{err: errors.New("boom")}
	c := &Consumer{processor: proc, attempts: &fakeAttempts{counts: map[string]int64{}}, maxAttempts: 3, backoff: time.Hour}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, c.handle(ctx, []byte(`{"task_id":"t3"}`)))
	assert.Len(t, proc.tasks, 1)
}

func TestBrokerList(t *testing.T) {
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, brokerList(" k1:9092, ,k2:9092"))
	assert.Nil(t, brokerList(""))
}

func TestRedisAttemptCounter(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	counter := NewRedisAttemptCounter(rdb)
	ctx := context.Background()

	n, err := counter.Incr(ctx, "t1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	n, err = counter.Incr(ctx, "t1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	assert.Equal(t, 24*time.Hour, mr.TTL("kafka:attempts:t1"))

	require.NoError(t, counter.Reset(ctx, "t1"))
	assert.False(t, mr.Exists("kafka:attempts:t1"))
}
