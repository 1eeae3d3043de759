package domain

import "math"

// MaxDuration is the longest media duration accepted, in seconds.
const MaxDuration = 7 * 24 * 60 * 60

// PlayerState is the serialisable form of a Player.
type PlayerState struct {
	SourceURL         string  `json:"source_url"`
	IsPlaying         bool    `json:"is_playing"`
	IsMuted           bool    `json:"is_muted"`
	IsFullscreen      bool    `json:"is_fullscreen"`
	FullscreenPending bool    `json:"fullscreen_pending"`
	IsDragging        bool    `json:"is_dragging"`
	CurrentTime       float64 `json:"current_time"`
	Duration          float64 `json:"duration"`
	FurthestReached   float64 `json:"furthest_reached"`
}

// Player is the playback state of one mounted player. Its setters keep the
// values well formed but never apply seek policy; callers route every time
// change through the guard first.
type Player struct {
	state PlayerState
}

func NewPlayer(sourceURL string) *Player {
	return &Player{state: PlayerState{SourceURL: sourceURL}}
}

func RestorePlayer(state PlayerState) *Player {
	return &Player{state: state}
}

func (p *Player) State() PlayerState {
	return p.state
}

func (p *Player) SourceURL() string        { return p.state.SourceURL }
func (p *Player) IsPlaying() bool          { return p.state.IsPlaying }
func (p *Player) IsMuted() bool            { return p.state.IsMuted }
func (p *Player) IsFullscreen() bool       { return p.state.IsFullscreen }
func (p *Player) FullscreenPending() bool  { return p.state.FullscreenPending }
func (p *Player) IsDragging() bool         { return p.state.IsDragging }
func (p *Player) CurrentTime() float64     { return p.state.CurrentTime }
func (p *Player) Duration() float64        { return p.state.Duration }
func (p *Player) FurthestReached() float64 { return p.state.FurthestReached }

func (p *Player) SetPlaying(isPlaying bool) {
	p.state.IsPlaying = isPlaying
}

func (p *Player) SetMuted(isMuted bool) {
	p.state.IsMuted = isMuted
}

func (p *Player) SetFullscreen(isFullscreen bool) {
	p.state.IsFullscreen = isFullscreen
	p.state.FullscreenPending = false
}

func (p *Player) SetFullscreenPending(pending bool) {
	p.state.FullscreenPending = pending
}

func (p *Player) SetDragging(isDragging bool) {
	p.state.IsDragging = isDragging
}

// SetCurrentTime stores t bounded to [0, duration]. Until the duration is
// known only the lower bound applies.
func (p *Player) SetCurrentTime(t float64) {
	p.state.CurrentTime = p.bound(t)
}

// SetDuration stores the media duration. It is ignored once a duration is
// set; a new source resets it through Reset.
func (p *Player) SetDuration(d float64) bool {
	if p.state.Duration > 0 || !(d > 0) || d > MaxDuration {
		return false
	}

	p.state.Duration = d
	p.state.CurrentTime = p.bound(p.state.CurrentTime)
	p.state.FurthestReached = p.bound(p.state.FurthestReached)
	return true
}

// AdvanceFurthestReached raises the furthest reached position to t. Lower
// values are ignored.
func (p *Player) AdvanceFurthestReached(t float64) {
	if t > p.state.FurthestReached {
		p.state.FurthestReached = p.bound(t)
	}
}

// SetFurthestReached overrides the furthest reached position. Only rewind
// may lower it.
func (p *Player) SetFurthestReached(t float64) {
	p.state.FurthestReached = p.bound(t)
}

// Reset loads a new source: positions, duration and transient flags start over.
// Mute and fullscreen belong to the surface and survive a source change.
func (p *Player) Reset(sourceURL string) {
	p.state = PlayerState{
		SourceURL:    sourceURL,
		IsMuted:      p.state.IsMuted,
		IsFullscreen: p.state.IsFullscreen,
	}
}

func (p *Player) bound(t float64) float64 {
	if math.IsNaN(t) || t < 0 {
		return 0
	}

	if p.state.Duration > 0 && t > p.state.Duration {
		return p.state.Duration
	}

	return t
}
