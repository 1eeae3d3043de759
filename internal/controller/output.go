package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/sharetube/seekguard/internal/domain"
	"github.com/sharetube/seekguard/internal/service/player"
	"github.com/sharetube/seekguard/internal/source"
	"github.com/sharetube/seekguard/pkg/validator"
	"github.com/sharetube/seekguard/pkg/wsrouter"
)

type Output struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type errorPayload struct {
	Message string                      `json:"message"`
	Errors  []validator.ValidationError `json:"errors,omitempty"`
}

type validationError struct {
	errors []validator.ValidationError
}

func (e *validationError) Error() string {
	messages := make([]string, 0, len(e.errors))
	for _, err := range e.errors {
		messages = append(messages, err.Message)
	}

	return "validation failed: " + strings.Join(messages, "; ")
}

func (c controller) validateInput(input any) error {
	if errs, ok := c.validate.Validate(input); !ok {
		return &validationError{errors: errs}
	}

	return nil
}

func (c controller) writeToConn(_ context.Context, conn *websocket.Conn, output *Output) error {
	if err := conn.WriteJSON(output); err != nil {
		return fmt.Errorf("failed to write %s: %w", output.Type, err)
	}

	return nil
}

func (c controller) writePlayerUpdated(ctx context.Context, conn *websocket.Conn, view *domain.PlayerView) error {
	return c.writeToConn(ctx, conn, &Output{
		Type: "PLAYER_UPDATED",
		Payload: map[string]any{
			"player": view,
		},
	})
}

// respond writes the commands produced by an event followed by the new state
// when it changed, then syncs the drag listeners with the drag state.
func (c controller) respond(ctx context.Context, conn *websocket.Conn, resp *player.EventResponse) error {
	for _, command := range resp.Commands {
		if err := c.writeToConn(ctx, conn, &Output{
			Type:    command.Type,
			Payload: command.Payload,
		}); err != nil {
			return err
		}
	}

	c.syncDragListeners(ctx, resp.Player.IsDragging)

	if !resp.Changed {
		return nil
	}

	return c.writePlayerUpdated(ctx, conn, &resp.Player)
}

func (c controller) handleWSError(ctx context.Context, conn *websocket.Conn, err error) {
	var (
		decodeErr     *wsrouter.DecodeError
		validationErr *validationError
		payload       errorPayload
	)

	switch {
	case errors.Is(err, player.ErrPlayerNotFound):
		// the session went away while the event was in flight
		c.logger.DebugContext(ctx, "event for unmounted player dropped", "error", err)
		return
	case errors.Is(err, wsrouter.ErrUnknownMessageType):
		messageType := wsrouter.GetMessageTypeFromCtx(ctx)
		if messageType == dragMoveType || messageType == dragEndType {
			c.logger.DebugContext(ctx, "drag event outside of a drag dropped", "message_type", messageType)
			return
		}
		payload.Message = err.Error()
	case errors.As(err, &decodeErr):
		payload.Message = decodeErr.Error()
	case errors.As(err, &validationErr):
		payload.Message = "validation failed"
		payload.Errors = validationErr.errors
	case errors.Is(err, source.ErrInvalidSource),
		errors.Is(err, source.ErrUnsupportedScheme),
		errors.Is(err, source.ErrStorageDisabled):
		payload.Message = err.Error()
	default:
		c.logger.WarnContext(ctx, "failed to handle websocket message", "error", err)
		payload.Message = "internal error"
	}

	if err := c.writeToConn(ctx, conn, &Output{Type: "ERROR", Payload: payload}); err != nil {
		c.logger.InfoContext(ctx, "failed to write error", "error", err)
	}
}
