package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikeleany/vapor-go/internal/board"
)

// TestTTReplacementEvictsMaxDraft seeds a single-bucket table with four
// entries of strictly increasing depth+when and checks that storing a
// fifth, absent key evicts the entry with the largest draft.
func TestTTReplacementEvictsMaxDraft(t *testing.T) {
	tt := NewTranspositionTable(64) // bucketSize*1 == one bucket
	require.Len(t, tt.buckets, 1)

	tt.buckets[0].entries[0] = ttEntry{key: 0x1111, depth: 1, when: 1}
	tt.buckets[0].entries[1] = ttEntry{key: 0x2222, depth: 2, when: 2}
	tt.buckets[0].entries[2] = ttEntry{key: 0x3333, depth: 3, when: 3}
	tt.buckets[0].entries[3] = ttEntry{key: 0x4444, depth: 4, when: 4} // draft 8, the max
	tt.when = 5

	newKey := uint64(0x5555) << 32
	tt.Store(newKey, board.NoHashMove, 0, 1, BoundExact)

	assert.Equal(t, uint32(0x1111), tt.buckets[0].entries[0].key, "lowest-draft entries must survive")
	assert.Equal(t, uint32(0x2222), tt.buckets[0].entries[1].key)
	assert.Equal(t, uint32(0x3333), tt.buckets[0].entries[2].key)
	assert.Equal(t, uint32(0x5555), tt.buckets[0].entries[3].key, "max-draft entry (key 0x4444) must be evicted")
}

// TestTTReplacementOverwritesMatchingKey checks that a store whose key
// already has a slot in the bucket overwrites that slot even when other
// slots in the bucket have a strictly lower draft.
func TestTTReplacementOverwritesMatchingKey(t *testing.T) {
	tt := NewTranspositionTable(64)
	require.Len(t, tt.buckets, 1)

	tt.buckets[0].entries[0] = ttEntry{key: 0x1111, depth: 1, when: 1} // draft 2, lowest
	tt.buckets[0].entries[1] = ttEntry{key: 0x2222, depth: 9, when: 9} // draft 18, highest
	tt.buckets[0].entries[2] = ttEntry{key: 0x3333, depth: 3, when: 3}
	tt.buckets[0].entries[3] = ttEntry{key: 0x4444, depth: 4, when: 4}
	tt.when = 10

	matchingKey := uint64(0x2222) << 32
	tt.Store(matchingKey, board.NoHashMove, 77, 1, BoundLower)

	assert.Equal(t, uint32(0x1111), tt.buckets[0].entries[0].key, "lower-draft entries must be left alone")
	assert.Equal(t, int16(77), tt.buckets[0].entries[1].score, "the matching-key entry must be overwritten")
	assert.Equal(t, uint32(0x3333), tt.buckets[0].entries[2].key)
	assert.Equal(t, uint32(0x4444), tt.buckets[0].entries[3].key)
}

func TestMateScoreHashingRoundTrip(t *testing.T) {
	scores := []int{
		LongMate, LongMate + 1, LongMate + 50, Infinity,
		-LongMate, -LongMate - 1, -LongMate - 50, -Infinity,
	}
	for _, s := range scores {
		for ply := 0; ply <= 20; ply++ {
			got := unhashScore(hashScore(s, ply), ply)
			assert.Equalf(t, s, got, "unhashScore(hashScore(%d, %d), %d)", s, ply, ply)
		}
	}
}

func TestNonMateScoreUnaffectedByHashing(t *testing.T) {
	for ply := 0; ply <= 10; ply++ {
		assert.Equal(t, 123, hashScore(123, ply))
		assert.Equal(t, -123, hashScore(-123, ply))
	}
}
