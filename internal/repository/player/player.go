package player

import "errors"

var (
	ErrPlayerNotFound      = errors.New("player not found")
	ErrPlayerAlreadyExists = errors.New("player already exists")
)

type Player struct {
	SourceURL         string  `redis:"source_url"`
	IsPlaying         bool    `redis:"is_playing"`
	IsMuted           bool    `redis:"is_muted"`
	IsFullscreen      bool    `redis:"is_fullscreen"`
	FullscreenPending bool    `redis:"fullscreen_pending"`
	IsDragging        bool    `redis:"is_dragging"`
	CurrentTime       float64 `redis:"current_time"`
	Duration          float64 `redis:"duration"`
	FurthestReached   float64 `redis:"furthest_reached"`
	UpdatedAt         int64   `redis:"updated_at"`
}

type SetPlayerParams struct {
	SessionID string
	Player    Player
}

type UpdatePlayerParams struct {
	SessionID string
	Player    Player
}
