package controller

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/sharetube/seekguard/internal/service/player"
	"github.com/sharetube/seekguard/pkg/wsrouter"
)

const (
	dragMoveType = "DRAG_MOVE"
	dragEndType  = "DRAG_END"
)

type EmptyInput struct{}

// getWSRouter builds the listeners of one mounted player. The drag pair is
// not registered here: it is attached by an accepted BEGIN_DRAG and detached
// when the drag ends.
func (c controller) getWSRouter() *wsrouter.WSRouter {
	mux := wsrouter.New()
	mux.Use(c.wsRequestIdWSMw(), c.loggerWSMw())
	mux.OnError(c.handleWSError)

	wsrouter.Handle(mux, "ALIVE", c.handleAlive)

	// media element
	wsrouter.Handle(mux, "LOADED_METADATA", c.handleLoadedMetadata)
	wsrouter.Handle(mux, "TIME_UPDATE", c.handleTimeUpdate)
	wsrouter.Handle(mux, "SEEKING", c.handleSeeking)
	wsrouter.Handle(mux, "RATE_CHANGE", c.handleRateChange)
	wsrouter.Handle(mux, "VIDEO_CLICK", c.handleVideoClick)
	wsrouter.Handle(mux, "CONTEXT_MENU", c.handleContextMenu)
	wsrouter.Handle(mux, "CHANGE_SOURCE", c.handleChangeSource)

	// document
	wsrouter.Handle(mux, "KEY_DOWN", c.handleKeyDown)
	wsrouter.Handle(mux, "FULLSCREEN_CHANGED", c.handleFullscreenChanged)

	// controls
	wsrouter.Handle(mux, "TOGGLE_PLAY", c.handleTogglePlay)
	wsrouter.Handle(mux, "REWIND", c.handleRewind)
	wsrouter.Handle(mux, "TOGGLE_MUTE", c.handleToggleMute)
	wsrouter.Handle(mux, "TOGGLE_FULLSCREEN", c.handleToggleFullscreen)
	wsrouter.Handle(mux, "BEGIN_DRAG", c.handleBeginDrag)

	return mux
}

func (c controller) syncDragListeners(ctx context.Context, isDragging bool) {
	mux := c.getWSRouterFromCtx(ctx)
	if mux == nil {
		return
	}

	if !isDragging {
		mux.Remove(dragMoveType)
		mux.Remove(dragEndType)
		return
	}

	if !mux.Has(dragMoveType) {
		wsrouter.Handle(mux, dragMoveType, c.handleDragMove)
		wsrouter.Handle(mux, dragEndType, c.handleDragEnd)
	}
}

func (c controller) handleAlive(_ context.Context, _ *websocket.Conn, _ EmptyInput) error {
	return nil
}

type LoadedMetadataInput struct {
	Duration float64 `json:"duration" validate:"gte=0,lte=604800"`
}

func (c controller) handleLoadedMetadata(ctx context.Context, conn *websocket.Conn, input LoadedMetadataInput) error {
	if err := c.validateInput(input); err != nil {
		return err
	}

	resp, err := c.playerService.LoadedMetadata(ctx, &player.LoadedMetadataParams{
		SessionID: c.getSessionIdFromCtx(ctx),
		Duration:  input.Duration,
	})
	if err != nil {
		return fmt.Errorf("failed to handle loaded metadata: %w", err)
	}

	return c.respond(ctx, conn, &resp)
}

type TimeInput struct {
	CurrentTime float64 `json:"current_time"`
}

func (c controller) handleTimeUpdate(ctx context.Context, conn *websocket.Conn, input TimeInput) error {
	resp, err := c.playerService.TimeUpdate(ctx, &player.TimeUpdateParams{
		SessionID:   c.getSessionIdFromCtx(ctx),
		CurrentTime: input.CurrentTime,
	})
	if err != nil {
		return fmt.Errorf("failed to handle time update: %w", err)
	}

	return c.respond(ctx, conn, &resp)
}

func (c controller) handleSeeking(ctx context.Context, conn *websocket.Conn, input TimeInput) error {
	resp, err := c.playerService.Seeking(ctx, &player.SeekingParams{
		SessionID:   c.getSessionIdFromCtx(ctx),
		CurrentTime: input.CurrentTime,
	})
	if err != nil {
		return fmt.Errorf("failed to handle seeking: %w", err)
	}

	return c.respond(ctx, conn, &resp)
}

type RateChangeInput struct {
	PlaybackRate float64 `json:"playback_rate"`
}

func (c controller) handleRateChange(ctx context.Context, conn *websocket.Conn, input RateChangeInput) error {
	resp, err := c.playerService.RateChange(ctx, &player.RateChangeParams{
		SessionID:    c.getSessionIdFromCtx(ctx),
		PlaybackRate: input.PlaybackRate,
	})
	if err != nil {
		return fmt.Errorf("failed to handle rate change: %w", err)
	}

	return c.respond(ctx, conn, &resp)
}

func (c controller) handleVideoClick(ctx context.Context, conn *websocket.Conn, _ EmptyInput) error {
	resp, err := c.playerService.VideoClick(ctx, c.getSessionIdFromCtx(ctx))
	if err != nil {
		return fmt.Errorf("failed to handle video click: %w", err)
	}

	return c.respond(ctx, conn, &resp)
}

func (c controller) handleContextMenu(ctx context.Context, conn *websocket.Conn, _ EmptyInput) error {
	resp, err := c.playerService.ContextMenu(ctx, c.getSessionIdFromCtx(ctx))
	if err != nil {
		return fmt.Errorf("failed to handle context menu: %w", err)
	}

	return c.respond(ctx, conn, &resp)
}

type ChangeSourceInput struct {
	Source string `json:"source" validate:"required,max=2048"`
}

func (c controller) handleChangeSource(ctx context.Context, conn *websocket.Conn, input ChangeSourceInput) error {
	if err := c.validateInput(input); err != nil {
		return err
	}

	resp, err := c.playerService.ChangeSource(ctx, &player.ChangeSourceParams{
		SessionID: c.getSessionIdFromCtx(ctx),
		Source:    input.Source,
	})
	if err != nil {
		return fmt.Errorf("failed to change source: %w", err)
	}

	return c.respond(ctx, conn, &resp)
}

type KeyDownInput struct {
	Key string `json:"key" validate:"required,max=32"`
}

func (c controller) handleKeyDown(ctx context.Context, conn *websocket.Conn, input KeyDownInput) error {
	if err := c.validateInput(input); err != nil {
		return err
	}

	resp, err := c.playerService.KeyDown(ctx, &player.KeyDownParams{
		SessionID: c.getSessionIdFromCtx(ctx),
		Key:       input.Key,
	})
	if err != nil {
		return fmt.Errorf("failed to handle key down: %w", err)
	}

	return c.respond(ctx, conn, &resp)
}

type FullscreenChangedInput struct {
	IsFullscreen bool `json:"is_fullscreen"`
	Failed       bool `json:"failed"`
}

func (c controller) handleFullscreenChanged(ctx context.Context, conn *websocket.Conn, input FullscreenChangedInput) error {
	resp, err := c.playerService.FullscreenChanged(ctx, &player.FullscreenChangedParams{
		SessionID:    c.getSessionIdFromCtx(ctx),
		IsFullscreen: input.IsFullscreen,
		Failed:       input.Failed,
	})
	if err != nil {
		return fmt.Errorf("failed to handle fullscreen change: %w", err)
	}

	return c.respond(ctx, conn, &resp)
}

func (c controller) handleTogglePlay(ctx context.Context, conn *websocket.Conn, _ EmptyInput) error {
	resp, err := c.playerService.TogglePlay(ctx, c.getSessionIdFromCtx(ctx))
	if err != nil {
		return fmt.Errorf("failed to toggle play: %w", err)
	}

	return c.respond(ctx, conn, &resp)
}

func (c controller) handleRewind(ctx context.Context, conn *websocket.Conn, _ EmptyInput) error {
	resp, err := c.playerService.Rewind(ctx, c.getSessionIdFromCtx(ctx))
	if err != nil {
		return fmt.Errorf("failed to rewind: %w", err)
	}

	return c.respond(ctx, conn, &resp)
}

func (c controller) handleToggleMute(ctx context.Context, conn *websocket.Conn, _ EmptyInput) error {
	resp, err := c.playerService.ToggleMute(ctx, c.getSessionIdFromCtx(ctx))
	if err != nil {
		return fmt.Errorf("failed to toggle mute: %w", err)
	}

	return c.respond(ctx, conn, &resp)
}

func (c controller) handleToggleFullscreen(ctx context.Context, conn *websocket.Conn, _ EmptyInput) error {
	resp, err := c.playerService.ToggleFullscreen(ctx, c.getSessionIdFromCtx(ctx))
	if err != nil {
		return fmt.Errorf("failed to toggle fullscreen: %w", err)
	}

	return c.respond(ctx, conn, &resp)
}

type DragInput struct {
	PointerX float64 `json:"pointer_x"`
	BarLeft  float64 `json:"bar_left"`
	BarWidth float64 `json:"bar_width"`
}

func (input DragInput) params(sessionID string) *player.DragParams {
	return &player.DragParams{
		SessionID: sessionID,
		PointerX:  input.PointerX,
		BarLeft:   input.BarLeft,
		BarWidth:  input.BarWidth,
	}
}

func (c controller) handleBeginDrag(ctx context.Context, conn *websocket.Conn, input DragInput) error {
	resp, err := c.playerService.BeginDrag(ctx, input.params(c.getSessionIdFromCtx(ctx)))
	if err != nil {
		return fmt.Errorf("failed to begin drag: %w", err)
	}

	return c.respond(ctx, conn, &resp)
}

func (c controller) handleDragMove(ctx context.Context, conn *websocket.Conn, input DragInput) error {
	resp, err := c.playerService.DragMove(ctx, input.params(c.getSessionIdFromCtx(ctx)))
	if err != nil {
		return fmt.Errorf("failed to move drag: %w", err)
	}

	return c.respond(ctx, conn, &resp)
}

func (c controller) handleDragEnd(ctx context.Context, conn *websocket.Conn, _ EmptyInput) error {
	resp, err := c.playerService.EndDrag(ctx, c.getSessionIdFromCtx(ctx))
	if err != nil {
		return fmt.Errorf("failed to end drag: %w", err)
	}

	return c.respond(ctx, conn, &resp)
}
