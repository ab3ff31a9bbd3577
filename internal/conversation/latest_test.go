package conversation

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuardLatestIssuedWins(t *testing.T) {
	var g Guard

	first := g.Begin()
	second := g.Begin()

	// The later-issued fetch resolves first and commits.
	assert.True(t, g.Commit(second))
	// The earlier fetch resolving afterwards must be dropped.
	assert.False(t, g.Commit(first))
}

func TestGuardStaleAfterNewerBegin(t *testing.T) {
	var g Guard

	seq := g.Begin()
	assert.True(t, g.Commit(seq))

	g.Begin()
	assert.False(t, g.Commit(seq))
}

func TestGuardConcurrent(t *testing.T) {
	var g Guard
	var wg sync.WaitGroup

	results := make([]bool, 50)
	seqs := make([]uint64, 50)
	for i := 0; i < 50; i++ {
		seqs[i] = g.Begin()
	}
	for i := 0; i < 50; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = g.Commit(seqs[i])
		}()
	}
	wg.Wait()

	committed := 0
	for i, ok := range results {
		if ok {
			committed++
			assert.Equal(t, uint64(50), seqs[i])
		}
	}
	assert.Equal(t, 1, committed)
}
