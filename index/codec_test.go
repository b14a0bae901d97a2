package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorTableRoundTrip(t *testing.T) {
	table := vectorTable{
		Dim: 3,
		Vectors: [][]float32{
			{1.0, 0.0, 0.0},
			{0.5, 0.5, 0.70710678},
			{-0.25, 0.75, 0.1},
		},
	}

	data := marshalVectorTable(table)
	got, err := unmarshalVectorTable(data)
	require.NoError(t, err)

	assert.Equal(t, table.Dim, got.Dim)
	require.Len(t, got.Vectors, len(table.Vectors))
	for i := range table.Vectors {
		assert.Equal(t, table.Vectors[i], got.Vectors[i], "row %d", i)
	}
}

func TestVectorTableEmpty(t *testing.T) {
	data := marshalVectorTable(vectorTable{Dim: 0, Vectors: [][]float32{}})
	got, err := unmarshalVectorTable(data)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Dim)
	assert.Empty(t, got.Vectors)
}

func TestVectorTableDimensionCheck(t *testing.T) {
	// A row whose length disagrees with the declared dimension must fail
	// to decode rather than silently produce a ragged table.
	table := vectorTable{
		Dim:     4,
		Vectors: [][]float32{{1.0, 0.0}},
	}
	data := marshalVectorTable(table)
	_, err := unmarshalVectorTable(data)
	assert.ErrorIs(t, err, ErrCorruptArtifact)
}

func TestVectorTableTruncatedData(t *testing.T) {
	table := vectorTable{Dim: 2, Vectors: [][]float32{{1, 0}, {0, 1}}}
	data := marshalVectorTable(table)
	_, err := unmarshalVectorTable(data[:len(data)-3])
	assert.Error(t, err)
}
