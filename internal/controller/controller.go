package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sharetube/seekguard/internal/domain"
	"github.com/sharetube/seekguard/internal/service/player"
	"github.com/sharetube/seekguard/pkg/validator"
)

type iPlayerService interface {
	Mount(context.Context, *player.MountParams) (player.MountResponse, error)
	ConnectPlayer(context.Context, *player.ConnectPlayerParams) error
	Unmount(context.Context, string) error
	GetView(ctx context.Context, sessionID, viewToken string) (domain.PlayerView, error)
	ChangeSource(context.Context, *player.ChangeSourceParams) (player.EventResponse, error)
	LoadedMetadata(context.Context, *player.LoadedMetadataParams) (player.EventResponse, error)
	TimeUpdate(context.Context, *player.TimeUpdateParams) (player.EventResponse, error)
	Seeking(context.Context, *player.SeekingParams) (player.EventResponse, error)
	RateChange(context.Context, *player.RateChangeParams) (player.EventResponse, error)
	KeyDown(context.Context, *player.KeyDownParams) (player.EventResponse, error)
	VideoClick(context.Context, string) (player.EventResponse, error)
	ContextMenu(context.Context, string) (player.EventResponse, error)
	TogglePlay(context.Context, string) (player.EventResponse, error)
	Rewind(context.Context, string) (player.EventResponse, error)
	ToggleMute(context.Context, string) (player.EventResponse, error)
	ToggleFullscreen(context.Context, string) (player.EventResponse, error)
	FullscreenChanged(context.Context, *player.FullscreenChangedParams) (player.EventResponse, error)
	BeginDrag(context.Context, *player.DragParams) (player.EventResponse, error)
	DragMove(context.Context, *player.DragParams) (player.EventResponse, error)
	EndDrag(context.Context, string) (player.EventResponse, error)
}

type controller struct {
	playerService iPlayerService
	upgrader      websocket.Upgrader
	validate      *validator.Validator
	logger        *slog.Logger
}

func NewController(playerService iPlayerService, logger *slog.Logger) *controller {
	return &controller{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		playerService: playerService,
		validate:      validator.NewValidator(),
		logger:        logger,
	}
}
