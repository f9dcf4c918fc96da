package uniflow

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReducerFunc_Deterministic(t *testing.T) {
	first := addReducer.Reduce(counterState{N: 2}, addIntent{Delta: 3})
	second := addReducer.Reduce(counterState{N: 2}, addIntent{Delta: 3})
	require.Equal(t, first, second)
	require.Equal(t, 5, first.N)
}

func TestTypeName(t *testing.T) {
	require.Equal(t, "uniflow.addIntent", TypeName(addIntent{}))
	require.Equal(t, "uniflow.counterState", TypeName(&counterState{}))
	require.Equal(t, "<nil>", TypeName(nil))
}
