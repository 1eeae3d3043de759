package player

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sharetube/seekguard/internal/domain"
	"github.com/sharetube/seekguard/internal/repository/connection"
	"github.com/sharetube/seekguard/internal/repository/player"
)

const closeWriteTimeout = time.Second

// Mount creates the playback state for a new player session.
func (s service) Mount(ctx context.Context, params *MountParams) (MountResponse, error) {
	sourceURL, err := s.resolver.Resolve(ctx, params.Source)
	if err != nil {
		return MountResponse{}, fmt.Errorf("failed to resolve source: %w", err)
	}

	sessionID := uuid.NewString()
	p := domain.NewPlayer(sourceURL)

	if err := s.playerRepo.SetPlayer(ctx, &player.SetPlayerParams{
		SessionID: sessionID,
		Player:    s.toRepo(p),
	}); err != nil {
		return MountResponse{}, fmt.Errorf("failed to set player: %w", err)
	}

	viewToken, err := s.generateJWT(sessionID)
	if err != nil {
		return MountResponse{}, fmt.Errorf("failed to generate view token: %w", err)
	}

	s.logger.InfoContext(ctx, "player mounted", "session_id", sessionID, "source_url", sourceURL)

	return MountResponse{
		SessionID: sessionID,
		ViewToken: viewToken,
		Player:    domain.NewPlayerView(p),
	}, nil
}

func (s service) ConnectPlayer(ctx context.Context, params *ConnectPlayerParams) error {
	if err := s.connRepo.Add(params.Conn, params.SessionID); err != nil {
		return fmt.Errorf("failed to add connection: %w", err)
	}

	return nil
}

// Unmount releases everything the session holds. It is safe to call more
// than once.
func (s service) Unmount(ctx context.Context, sessionID string) error {
	var errs []error

	if err := s.connRepo.RemoveBySessionID(sessionID); err != nil && !errors.Is(err, connection.ErrNotFound) {
		errs = append(errs, fmt.Errorf("failed to remove connection: %w", err))
	}

	if err := s.playerRepo.RemovePlayer(ctx, sessionID); err != nil && !errors.Is(err, player.ErrPlayerNotFound) {
		errs = append(errs, fmt.Errorf("failed to remove player: %w", err))
	}

	s.logger.InfoContext(ctx, "player unmounted", "session_id", sessionID)

	return errors.Join(errs...)
}

// CloseAll sends a going-away close frame to every live player connection
// and closes it. Each connection's read loop then ends and unmounts its
// session.
func (s service) CloseAll(ctx context.Context) {
	sessionIDs := s.connRepo.SessionIDs()
	s.logger.InfoContext(ctx, "closing player connections", "count", len(sessionIDs))

	closeMessage := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	for _, sessionID := range sessionIDs {
		conn, err := s.connRepo.GetConn(sessionID)
		if err != nil {
			continue
		}

		if err := conn.WriteControl(websocket.CloseMessage, closeMessage, s.now().Add(closeWriteTimeout)); err != nil {
			s.logger.DebugContext(ctx, "failed to write close message", "session_id", sessionID, "error", err)
		}
		conn.Close()
	}
}

// GetView returns the read-only view of a session. The token must have been
// issued for that session.
func (s service) GetView(ctx context.Context, sessionID, viewToken string) (domain.PlayerView, error) {
	subject, err := s.parseJWT(viewToken)
	if err != nil {
		return domain.PlayerView{}, err
	}

	if subject != sessionID {
		return domain.PlayerView{}, ErrInvalidToken
	}

	p, err := s.getPlayer(ctx, sessionID)
	if err != nil {
		return domain.PlayerView{}, err
	}

	return domain.NewPlayerView(p), nil
}

// ChangeSource loads a new media source; positions start over from zero.
func (s service) ChangeSource(ctx context.Context, params *ChangeSourceParams) (EventResponse, error) {
	sourceURL, err := s.resolver.Resolve(ctx, params.Source)
	if err != nil {
		return EventResponse{}, fmt.Errorf("failed to resolve source: %w", err)
	}

	return s.update(ctx, params.SessionID, func(p *domain.Player) []Command {
		p.Reset(sourceURL)
		return []Command{{Type: CommandLoadSource, Payload: LoadSource{SourceURL: sourceURL}}}
	})
}
