package number

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShort(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1K+"},
		{2143, "2K+"},
		{999_999, "999K+"},
		{1_500_000, "1M+"},
		{3_000_000_000, "3B+"},
		{4_200_000_000_000, "4T+"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Short(tt.in), "Short(%d)", tt.in)
	}
}

func TestFull(t *testing.T) {
	assert.Equal(t, "2,143", Full(2143))
	assert.Equal(t, "12", Full(12))
	assert.Equal(t, "1,000,000", Full(1_000_000))
}
