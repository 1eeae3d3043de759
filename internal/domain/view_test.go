package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatTime(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0:00"},
		{5.9, "0:05"},
		{65, "1:05"},
		{600, "10:00"},
		{3725.4, "62:05"},
		{-3, "0:00"},
		{math.NaN(), "0:00"},
		{1e300, "150119987579016:32"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatTime(tt.in), "input %v", tt.in)
	}
}

func TestProgressPercent(t *testing.T) {
	assert.Equal(t, 25.0, ProgressPercent(25, 100))
	assert.Equal(t, 0.0, ProgressPercent(25, 0))
	assert.Equal(t, 100.0, ProgressPercent(120, 100))
}

func TestNewPlayerView(t *testing.T) {
	p := NewPlayer("src")
	p.SetDuration(200)
	p.SetCurrentTime(50)

	v := NewPlayerView(p)
	assert.Equal(t, 25.0, v.Progress)
	assert.Equal(t, "0:50", v.Elapsed)
	assert.Equal(t, "3:20", v.Total)
	assert.Equal(t, "src", v.SourceURL)
}
