package display

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1048576, "1.0 MiB"},
		{1073741824, "1.0 GiB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatBytes(tt.in), "input %d", tt.in)
	}
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0:00"},
		{59.4, "0:59"},
		{61, "1:01"},
		{3600, "1:00:00"},
		{3725, "1:02:05"},
		{-5, "0:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatSeconds(tt.in), "input %g", tt.in)
	}
}

func TestFormatOffset(t *testing.T) {
	assert.Equal(t, "12.480s", FormatOffset(12.48))
	assert.Equal(t, "0.000s", FormatOffset(0))
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "250ms", FormatElapsed(250*time.Millisecond))
	assert.Equal(t, "2.5s", FormatElapsed(2500*time.Millisecond))
}
