package amf3

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestU29RoundTrip(t *testing.T) {
	cases := []uint32{
		0, 1, 0x7F, 0x80, 0x3FFF, 0x4000, 0x1FFFFF, 0x200000,
		0x0FFFFFFF, 0x1FFFFFFF,
	}
	for _, v := range cases {
		w := NewWriter()
		require.NoError(t, w.WriteU29(v))
		got, err := NewReader(w.Bytes()).U29()
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestU29FormLength(t *testing.T) {
	cases := []struct {
		value uint32
		bytes int
	}{
		{0x00, 1},
		{0x7F, 1},
		{0x80, 2},
		{0x3FFF, 2},
		{0x4000, 3},
		{0x1FFFFF, 3},
		{0x200000, 4},
		{0x1FFFFFFF, 4},
	}
	for _, c := range cases {
		w := NewWriter()
		require.NoError(t, w.WriteU29(c.value))
		require.Lenf(t, w.Bytes(), c.bytes, "value 0x%x", c.value)
	}
}

func TestI29RoundTrip(t *testing.T) {
	cases := []int32{0, 1, -1, int28Max, int28Min, -100, 100}
	for _, v := range cases {
		w := NewWriter()
		require.NoError(t, w.WriteI29(v))
		got, err := NewReader(w.Bytes()).I29()
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestI29OutOfRange(t *testing.T) {
	w := NewWriter()
	require.ErrorIs(t, w.WriteI29(int28Max+1), ErrOutOfRange)

	w = NewWriter()
	require.ErrorIs(t, w.WriteI29(int28Min-1), ErrOutOfRange)
}

func TestReaderUnexpectedEnd(t *testing.T) {
	r := NewReader([]byte{0x80})
	_, err := r.U29()
	require.ErrorIs(t, err, ErrUnexpectedEnd)
}
