// append_log_test.go — Tests for the session append log.
package buffers

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendLogKeepsArrivalOrder(t *testing.T) {
	t.Parallel()

	l := NewAppendLog[string]()
	for _, s := range []string{"a", "b", "c"} {
		require.True(t, l.Append(s))
	}

	assert.Equal(t, 3, l.Len())
	assert.Equal(t, []string{"a", "b", "c"}, l.ReadAll())
}

func TestAppendLogReadAllIsCopy(t *testing.T) {
	t.Parallel()

	l := NewAppendLog[int]()
	l.Append(1)
	got := l.ReadAll()
	got[0] = 99

	assert.Equal(t, []int{1}, l.ReadAll())
}

func TestAppendLogSealDropsLateWrites(t *testing.T) {
	t.Parallel()

	l := NewAppendLog[int]()
	l.Append(1)
	l.Append(2)

	final := l.Seal()
	assert.Equal(t, []int{1, 2}, final)

	assert.False(t, l.Append(3), "append after seal should be rejected")
	assert.Equal(t, []int{1, 2}, l.Seal(), "second seal returns same contents")
	assert.Equal(t, 2, l.Len())
}

func TestAppendLogEmptySeal(t *testing.T) {
	t.Parallel()

	l := NewAppendLog[int]()
	final := l.Seal()
	require.NotNil(t, final)
	assert.Empty(t, final)
}

// TestAppendLogConcurrentWriters is meant to be run with -race.
func TestAppendLogConcurrentWriters(t *testing.T) {
	t.Parallel()

	const (
		numWriters      = 20
		writesPerWriter = 200
	)

	l := NewAppendLog[int]()
	var wg sync.WaitGroup
	for w := 0; w < numWriters; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; i < writesPerWriter; i++ {
				l.Append(id*1000 + i)
				if i%50 == 0 {
					_ = l.ReadAll()
				}
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, numWriters*writesPerWriter, l.Len())
}
