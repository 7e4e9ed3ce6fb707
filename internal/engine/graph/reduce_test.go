package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransitiveReduction_Diamond(t *testing.T) {
	// 0 -> 1 -> 3, 0 -> 2 -> 3, 0 -> 3
	in := ComponentGraph{
		0: {1: true, 2: true, 3: true},
		1: {3: true},
		2: {3: true},
		3: {},
	}
	out := TransitiveReduction(in)

	assert.Equal(t, ComponentGraph{
		0: {1: true, 2: true},
		1: {3: true},
		2: {3: true},
		3: {},
	}, out)
	assert.True(t, in[0][3], "input must not be modified")
}

func TestTransitiveReduction_UsesOriginalEdges(t *testing.T) {
	// 0 -> {1, 2, 3}, 1 -> {2, 3}, 2 -> 3: only the chain survives
	in := ComponentGraph{
		0: {1: true, 2: true, 3: true},
		1: {2: true, 3: true},
		2: {3: true},
		3: {},
	}
	out := TransitiveReduction(in)

	assert.Equal(t, ComponentGraph{
		0: {1: true},
		1: {2: true},
		2: {3: true},
		3: {},
	}, out)
	assert.True(t, TransitiveReduction(out).Equal(out))
}

func TestTransitiveReduction_Empty(t *testing.T) {
	assert.Empty(t, TransitiveReduction(ComponentGraph{}))
}

func TestComponentGraph_HasPath(t *testing.T) {
	g := ComponentGraph{0: {1: true}, 1: {2: true}, 2: {}, 3: {}}

	assert.True(t, g.HasPath(0, 2))
	assert.False(t, g.HasPath(2, 0))
	assert.False(t, g.HasPath(0, 3))
	assert.False(t, g.HasPath(0, 0))
}
