package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequenceStartsAtOne(t *testing.T) {
	t.Parallel()

	seq := NewSequence()
	assert.Equal(t, 1, seq.Next())
	assert.Equal(t, 2, seq.Next())
	assert.Equal(t, 3, seq.Next())
}

func TestSequencesAreIndependent(t *testing.T) {
	t.Parallel()

	a, b := NewSequence(), NewSequence()
	a.Next()
	a.Next()
	assert.Equal(t, 1, b.Next(), "one run's IDs never bleed into another")
}

func TestNewRunIsUniqueAndSortable(t *testing.T) {
	t.Parallel()

	x, y := NewRun(), NewRun()
	assert.Len(t, x, 26)
	assert.NotEqual(t, x, y)
}
