package dgemm

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"op and cause", NewMemoryError("NewMatrix", "", nil), "dgemm: NewMatrix: out of memory"},
		{"op, detail and cause", NewExecutionError("Record", "step03 at size 50", errors.New("disk full")),
			"dgemm: Record: step03 at size 50: disk full"},
		{"detail only", NewInvalidArgError("Validate", "sizes must not be empty"),
			"dgemm: Validate: sizes must not be empty"},
		{"contract violation", contractError("Tiled", ErrBadTile, Operands{N: 4, Tile: 9}, "T=9, n=4"),
			"dgemm: Tiled: T=9, n=4: tile size outside [1, n]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestNewMatrixErrorsWrapSentinels(t *testing.T) {
	_, err := NewMatrix(0)
	assert.ErrorIs(t, err, ErrInvalidSize)
	assert.True(t, IsInvalidArgError(err))
	assert.False(t, IsMemoryError(err))

	for _, n := range []int{23171, 1 << 40} {
		_, err := NewMatrix(n)
		assert.ErrorIs(t, err, ErrOutOfMemory, "n=%d", n)
		assert.True(t, IsMemoryError(err), "n=%d", n)

		wrapped := fmt.Errorf("sweep stopped: %w", err)
		assert.ErrorIs(t, wrapped, ErrOutOfMemory)
		assert.True(t, IsMemoryError(wrapped))
		assert.False(t, IsInvalidArgError(wrapped))
	}
}

func TestContractViolationCarriesOperands(t *testing.T) {
	const n = 4
	a, b := operands(t, n, 0)
	small, err := NewMatrix(3)
	require.NoError(t, err)

	tests := []struct {
		name  string
		k     Kernel
		a, c  *Matrix
		tile  int
		cause error
		op    string
		want  Operands
	}{
		{
			name: "nil C", k: Naive{}, a: a, c: nil, tile: 2, cause: ErrNilMatrix, op: "Naive",
			want: Operands{N: n, A: Shape{n, n * n}, B: Shape{n, n * n}, C: Shape{Order: -1}},
		},
		{
			name: "C too small", k: Reordered{}, a: a, c: small, tile: 2, cause: ErrBadShape, op: "Reordered",
			want: Operands{N: n, A: Shape{n, n * n}, B: Shape{n, n * n}, C: Shape{3, 9}},
		},
		{
			name: "C is A", k: Reference{}, a: a, c: a, tile: 2, cause: ErrAliasedOutput, op: "Reference",
			want: Operands{N: n, A: Shape{n, n * n}, B: Shape{n, n * n}, C: Shape{n, n * n}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.k.Multiply(n, tt.a, b, tt.c, tt.tile)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.cause)

			var e *Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, tt.op, e.Op)

			got, ok := OperandsOf(err)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTileViolationCarriesTile(t *testing.T) {
	const n = 6
	a, b := operands(t, n, 0)
	c, err := NewMatrix(n)
	require.NoError(t, err)

	_, err = TiledUnrolled{}.Multiply(n, a, b, c, n+1)
	assert.ErrorIs(t, err, ErrBadTile)
	ops, ok := OperandsOf(err)
	require.True(t, ok)
	assert.Equal(t, n+1, ops.Tile)
	assert.Equal(t, n, ops.N)
	assert.Equal(t, Shape{n, n * n}, ops.C)
}

func TestOperandsOfOtherErrors(t *testing.T) {
	_, ok := OperandsOf(NewExecutionError("Record", "", errors.New("closed")))
	assert.False(t, ok)
	_, ok = OperandsOf(errors.New("plain"))
	assert.False(t, ok)
}

func TestErrorTypeString(t *testing.T) {
	assert.Equal(t, "Unknown", ErrorType(99).String())
	assert.Equal(t, "InvalidArgument", ErrTypeInvalidArg.String())
	assert.Equal(t, "Memory", ErrTypeMemory.String())
}
