package domain

import (
	"fmt"
	"math"
)

// PlayerView is what the render surface draws from. It is a read-only copy.
type PlayerView struct {
	PlayerState
	Progress float64 `json:"progress"`
	Elapsed  string  `json:"elapsed"`
	Total    string  `json:"total"`
}

func NewPlayerView(p *Player) PlayerView {
	state := p.State()

	return PlayerView{
		PlayerState: state,
		Progress:    ProgressPercent(state.CurrentTime, state.Duration),
		Elapsed:     FormatTime(state.CurrentTime),
		Total:       FormatTime(state.Duration),
	}
}

// ProgressPercent is the progress bar fill, 0 while the duration is unknown.
func ProgressPercent(current, duration float64) float64 {
	if !(duration > 0) {
		return 0
	}

	return math.Min(math.Max(current/duration*100, 0), 100)
}

// maxFormattedSeconds keeps the conversion to int64 exact.
const maxFormattedSeconds = 1 << 53

// FormatTime renders seconds as m:ss.
func FormatTime(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		seconds = 0
	}

	total := int64(math.Min(seconds, maxFormattedSeconds))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
