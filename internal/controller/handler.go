package controller

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sharetube/seekguard/internal/guard"
	"github.com/sharetube/seekguard/internal/service/player"
	"github.com/sharetube/seekguard/internal/source"
	"github.com/sharetube/seekguard/pkg/ctxlogger"
	"github.com/sharetube/seekguard/pkg/rest"
)

func (c controller) mountPlayer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	mediaSource := r.URL.Query().Get("source")
	if mediaSource == "" {
		c.logger.DebugContext(ctx, "empty source")
		rest.WriteError(w, http.StatusBadRequest, "source is required")
		return
	}

	mountResp, err := c.playerService.Mount(ctx, &player.MountParams{Source: mediaSource})
	if err != nil {
		if errors.Is(err, source.ErrInvalidSource) ||
			errors.Is(err, source.ErrUnsupportedScheme) ||
			errors.Is(err, source.ErrStorageDisabled) {
			c.logger.DebugContext(ctx, "invalid source", "error", err)
			rest.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}

		c.logger.WarnContext(ctx, "failed to mount player", "error", err)
		rest.WriteError(w, http.StatusInternalServerError, "failed to mount player")
		return
	}

	ctx = ctxlogger.AppendCtx(ctx, slog.String("session_id", mountResp.SessionID))
	defer c.unmount(context.WithoutCancel(ctx), mountResp.SessionID)

	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.WarnContext(ctx, "failed to upgrade to websocket", "error", err)
		return
	}
	defer conn.Close()

	if err := c.playerService.ConnectPlayer(ctx, &player.ConnectPlayerParams{
		Conn:      conn,
		SessionID: mountResp.SessionID,
	}); err != nil {
		c.logger.WarnContext(ctx, "failed to connect player", "error", err)
		return
	}

	if err := c.writeToConn(ctx, conn, &Output{
		Type: "PLAYER_MOUNTED",
		Payload: map[string]any{
			"session_id":      mountResp.SessionID,
			"view_token":      mountResp.ViewToken,
			"player":          mountResp.Player,
			"prevented_keys":  guard.PreventedKeys,
			"drift_tolerance": guard.DriftTolerance,
			"rewind_interval": guard.RewindInterval,
		},
	}); err != nil {
		c.logger.WarnContext(ctx, "failed to write mounted", "error", err)
		return
	}

	mux := c.getWSRouter()
	ctx = context.WithValue(ctx, sessionIdCtxKey, mountResp.SessionID)
	ctx = context.WithValue(ctx, wsRouterCtxKey, mux)

	if err := mux.ServeConn(ctx, conn); err != nil {
		c.logger.InfoContext(ctx, "connection closed", "error", err)
	}
}

func (c controller) unmount(ctx context.Context, sessionID string) {
	if err := c.playerService.Unmount(ctx, sessionID); err != nil {
		c.logger.InfoContext(ctx, "failed to unmount player", "error", err)
	}
}

func (c controller) getPlayer(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session-id")

	viewToken := c.getBearerToken(r)
	if viewToken == "" {
		rest.WriteError(w, http.StatusUnauthorized, "view token is required")
		return
	}

	view, err := c.playerService.GetView(r.Context(), sessionID, viewToken)
	if err != nil {
		switch {
		case errors.Is(err, player.ErrInvalidToken):
			rest.WriteError(w, http.StatusUnauthorized, "invalid view token")
		case errors.Is(err, player.ErrPlayerNotFound):
			rest.WriteError(w, http.StatusNotFound, "player not found")
		default:
			c.logger.WarnContext(r.Context(), "failed to get player view", "error", err)
			rest.WriteError(w, http.StatusInternalServerError, "failed to get player")
		}
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"player": view})
}
