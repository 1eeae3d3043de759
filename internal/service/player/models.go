package player

import (
	"github.com/gorilla/websocket"
	"github.com/sharetube/seekguard/internal/domain"
)

const (
	CommandSeekTo            = "SEEK_TO"
	CommandSetPlaybackRate   = "SET_PLAYBACK_RATE"
	CommandPreventDefault    = "PREVENT_DEFAULT"
	CommandPlay              = "PLAY"
	CommandPause             = "PAUSE"
	CommandSetMuted          = "SET_MUTED"
	CommandRequestFullscreen = "REQUEST_FULLSCREEN"
	CommandExitFullscreen    = "EXIT_FULLSCREEN"
	CommandLoadSource        = "LOAD_SOURCE"
	CommandDragRejected      = "DRAG_REJECTED"
)

// Command is an instruction for the client-side media element.
type Command struct {
	Type    string
	Payload any
}

type SeekTo struct {
	Time float64 `json:"time"`
}

type SetPlaybackRate struct {
	PlaybackRate float64 `json:"playback_rate"`
}

type PreventDefault struct {
	Event string `json:"event"`
	Key   string `json:"key,omitempty"`
}

type SetMuted struct {
	IsMuted bool `json:"is_muted"`
}

type LoadSource struct {
	SourceURL string `json:"source_url"`
}

type DragRejected struct {
	RequestedTime   float64 `json:"requested_time"`
	FurthestReached float64 `json:"furthest_reached"`
}

// EventResponse is the outcome of one client event.
type EventResponse struct {
	Player   domain.PlayerView
	Changed  bool
	Commands []Command
}

type MountParams struct {
	Source string
}

type MountResponse struct {
	SessionID string
	ViewToken string
	Player    domain.PlayerView
}

type ConnectPlayerParams struct {
	Conn      *websocket.Conn
	SessionID string
}

type ChangeSourceParams struct {
	SessionID string
	Source    string
}

type LoadedMetadataParams struct {
	SessionID string
	Duration  float64
}

type TimeUpdateParams struct {
	SessionID   string
	CurrentTime float64
}

type SeekingParams struct {
	SessionID   string
	CurrentTime float64
}

type RateChangeParams struct {
	SessionID    string
	PlaybackRate float64
}

type KeyDownParams struct {
	SessionID string
	Key       string
}

type DragParams struct {
	SessionID string
	PointerX  float64
	BarLeft   float64
	BarWidth  float64
}

type FullscreenChangedParams struct {
	SessionID    string
	IsFullscreen bool
	Failed       bool
}
