package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRational(t *testing.T) {
	tests := []struct {
		in      string
		want    Rational
		wantErr bool
	}{
		{"30000/1001", Rational{30000, 1001}, false},
		{"25", Rational{25, 1}, false},
		{"24000/1001", Rational{24000, 1001}, false},
		{" 30/1 ", Rational{30, 1}, false},
		{"", Rational{}, true},
		{"0/0", Rational{}, true},
		{"30/0", Rational{}, true},
		{"-25", Rational{}, true},
		{"abc", Rational{}, true},
		{"30/abc", Rational{}, true},
	}
	for _, tt := range tests {
		got, err := ParseRational(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestRationalSecondsExactAtIntegerRates(t *testing.T) {
	r := Rational{Num: 30, Den: 1}
	assert.Equal(t, 10.0, r.Seconds(300))
	assert.Equal(t, int64(300), r.Frames(10.0))
}

func TestRationalNTSCRoundTrip(t *testing.T) {
	// 30000/1001: 300 frames is 10.01 seconds exactly.
	r := Rational{Num: 30000, Den: 1001}
	assert.InDelta(t, 10.01, r.Seconds(300), 1e-9)
	assert.Equal(t, int64(300), r.Frames(r.Seconds(300)))
}

func TestRationalZero(t *testing.T) {
	var r Rational
	assert.True(t, r.IsZero())
	assert.Equal(t, 0.0, r.Float())
	assert.Equal(t, 0.0, r.Seconds(100))
	assert.Equal(t, int64(0), r.Frames(5))
	assert.False(t, Rational{25, 1}.IsZero())
}

func TestRationalString(t *testing.T) {
	assert.Equal(t, "30000/1001", Rational{30000, 1001}.String())
}
