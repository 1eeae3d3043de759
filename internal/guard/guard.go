// Package guard holds the backward-only seek policy. Every function here is
// pure: callers load the player state, ask the guard, then apply the answer.
package guard

import (
	"math"
	"slices"
)

const (
	// DriftTolerance is the largest forward delta between the furthest reached
	// position and a position report that still counts as normal playback.
	DriftTolerance = 0.5
	// RewindInterval is how far a single rewind moves back, in seconds.
	RewindInterval = 10.0
	// PlaybackRate is the only rate a guarded player may run at.
	PlaybackRate = 1.0
)

// PreventedKeys are key identifiers whose default action could skip forward
// or change speed.
var PreventedKeys = []string{"ArrowRight", "L", "l", ">", "."}

// ClampSeek caps requested to [0, furthest]. A request past furthest is
// answered with furthest, never with an error. NaN is treated as 0. A known
// duration (> 0) also bounds the cap.
func ClampSeek(requested, furthest, duration float64) float64 {
	ceiling := furthest
	if duration > 0 && ceiling > duration {
		ceiling = duration
	}

	switch {
	case math.IsNaN(requested), requested < 0:
		return 0
	case requested > ceiling:
		return ceiling
	default:
		return requested
	}
}

type TimeUpdateDecision struct {
	// Accepted is false when the report jumped past the drift tolerance.
	Accepted bool
	// Furthest is the furthest reached position after the report.
	Furthest float64
	// ResetTo is the position the native player must be moved back to
	// when the report was rejected.
	ResetTo float64
}

// CheckTimeUpdate classifies a periodic position report as either normal
// playback or a skip. Only the delta against furthest is available to tell
// them apart.
func CheckTimeUpdate(reported, furthest float64) TimeUpdateDecision {
	if math.IsNaN(reported) || reported-furthest > DriftTolerance {
		return TimeUpdateDecision{
			Accepted: false,
			Furthest: furthest,
			ResetTo:  furthest,
		}
	}

	return TimeUpdateDecision{
		Accepted: true,
		Furthest: math.Max(furthest, reported),
	}
}

// CheckSeek reports where a native seek must land and whether the native
// player has to be moved there.
func CheckSeek(requested, furthest float64) (target float64, corrected bool) {
	target = ClampSeek(requested, furthest, 0)
	return target, target != requested
}

// Rewind returns the position one RewindInterval back, floored at 0. The
// caller sets both the current time and the furthest reached position to it.
func Rewind(current float64) float64 {
	return math.Max(current-RewindInterval, 0)
}

// DragCandidate maps a pointer position on the progress bar to a media time.
// ok is false while the bar or the media has no measurable size, and when
// the pointer maps to no finite time.
func DragCandidate(pointerX, barLeft, barWidth, duration float64) (float64, bool) {
	if !(barWidth > 0) || !(duration > 0) {
		return 0, false
	}

	candidate := (pointerX - barLeft) / barWidth * duration
	if math.IsNaN(candidate) || math.IsInf(candidate, 0) {
		return 0, false
	}

	return candidate, true
}

// AllowDrag reports whether a drag may move the player to candidate. Drags
// past furthest are rejected outright instead of being clamped.
func AllowDrag(candidate, furthest float64) bool {
	return !math.IsNaN(candidate) && candidate <= furthest
}

// IsPreventedKey reports whether key is on the forward-seek denylist.
func IsPreventedKey(key string) bool {
	return slices.Contains(PreventedKeys, key)
}

// EnforceRate returns the rate the player must run at and whether rate
// differs from it.
func EnforceRate(rate float64) (float64, bool) {
	return PlaybackRate, rate != PlaybackRate
}
