package guard

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampSeek(t *testing.T) {
	tests := []struct {
		name      string
		requested float64
		furthest  float64
		duration  float64
		want      float64
	}{
		{"past furthest", 50, 20, 100, 20},
		{"far past furthest", math.Inf(1), 20, 100, 20},
		{"negative", -3, 20, 100, 0},
		{"negative infinity", math.Inf(-1), 20, 100, 0},
		{"nan", math.NaN(), 20, 100, 0},
		{"within range", 12.5, 20, 100, 12.5},
		{"exactly furthest", 20, 20, 100, 20},
		{"zero", 0, 20, 100, 0},
		{"unknown duration", 15, 20, 0, 15},
		{"furthest beyond duration", 90, 120, 60, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampSeek(tt.requested, tt.furthest, tt.duration))
		})
	}
}

func TestClampSeekIdempotent(t *testing.T) {
	for _, requested := range []float64{-5, 0, 3.3, 19.99, 20, 21, 500} {
		once := ClampSeek(requested, 20, 100)
		assert.Equal(t, once, ClampSeek(once, 20, 100), "requested %v", requested)
	}
}

func TestCheckTimeUpdateRejectsSkip(t *testing.T) {
	d := CheckTimeUpdate(45, 20.1)

	assert.False(t, d.Accepted)
	assert.Equal(t, 20.1, d.ResetTo)
	assert.Equal(t, 20.1, d.Furthest)
}

func TestCheckTimeUpdateAcceptsDrift(t *testing.T) {
	d := CheckTimeUpdate(20.4, 20.1)

	assert.True(t, d.Accepted)
	assert.Equal(t, 20.4, d.Furthest)
}

func TestCheckTimeUpdateToleranceBoundary(t *testing.T) {
	assert.True(t, CheckTimeUpdate(10.5, 10).Accepted)
	assert.False(t, CheckTimeUpdate(10.51, 10).Accepted)
}

func TestCheckTimeUpdateBehindFurthestKeepsFurthest(t *testing.T) {
	d := CheckTimeUpdate(5, 30)

	assert.True(t, d.Accepted)
	assert.Equal(t, 30.0, d.Furthest)
}

func TestCheckTimeUpdateMonotonic(t *testing.T) {
	reports := []float64{0.25, 0.5, 0.75, 3, 1, 1.25, 1.5, 40, 1.75, 2.0, 2.2}
	furthest := 0.0

	for _, r := range reports {
		d := CheckTimeUpdate(r, furthest)
		assert.GreaterOrEqual(t, d.Furthest, furthest, "report %v", r)
		furthest = d.Furthest
	}

	assert.Equal(t, 2.2, furthest)
}

func TestCheckSeek(t *testing.T) {
	target, corrected := CheckSeek(45, 20)
	assert.Equal(t, 20.0, target)
	assert.True(t, corrected)

	target, corrected = CheckSeek(12, 20)
	assert.Equal(t, 12.0, target)
	assert.False(t, corrected)
}

func TestRewind(t *testing.T) {
	assert.Equal(t, 20.0, Rewind(30))
	assert.Equal(t, 0.0, Rewind(4))
	assert.Equal(t, 0.0, Rewind(0))
	assert.Equal(t, 0.0, Rewind(10))
}

func TestDragCandidate(t *testing.T) {
	candidate, ok := DragCandidate(250, 50, 400, 100)
	assert.True(t, ok)
	assert.Equal(t, 50.0, candidate)

	_, ok = DragCandidate(250, 50, 0, 100)
	assert.False(t, ok)

	_, ok = DragCandidate(250, 50, 400, 0)
	assert.False(t, ok)

	_, ok = DragCandidate(1e308, -1e308, 1, 100)
	assert.False(t, ok)

	_, ok = DragCandidate(1e308, 0, 1e-300, 100)
	assert.False(t, ok)

	_, ok = DragCandidate(math.Inf(1), 0, 400, 100)
	assert.False(t, ok)
}

func TestAllowDrag(t *testing.T) {
	assert.False(t, AllowDrag(50, 20))
	assert.True(t, AllowDrag(20, 20))
	assert.True(t, AllowDrag(5, 20))
	assert.False(t, AllowDrag(math.NaN(), 20))
}

func TestIsPreventedKey(t *testing.T) {
	for _, key := range []string{"ArrowRight", "L", "l", ">", "."} {
		assert.True(t, IsPreventedKey(key), key)
	}

	for _, key := range []string{"ArrowLeft", "j", " ", "k", "Enter"} {
		assert.False(t, IsPreventedKey(key), key)
	}
}

func TestEnforceRate(t *testing.T) {
	rate, revert := EnforceRate(2)
	assert.Equal(t, 1.0, rate)
	assert.True(t, revert)

	_, revert = EnforceRate(1)
	assert.False(t, revert)
}
