package player

import (
	"context"
	"errors"
	"fmt"

	"github.com/sharetube/seekguard/internal/domain"
	"github.com/sharetube/seekguard/internal/repository/player"
)

func toDomain(p player.Player) *domain.Player {
	return domain.RestorePlayer(domain.PlayerState{
		SourceURL:         p.SourceURL,
		IsPlaying:         p.IsPlaying,
		IsMuted:           p.IsMuted,
		IsFullscreen:      p.IsFullscreen,
		FullscreenPending: p.FullscreenPending,
		IsDragging:        p.IsDragging,
		CurrentTime:       p.CurrentTime,
		Duration:          p.Duration,
		FurthestReached:   p.FurthestReached,
	})
}

func (s service) toRepo(p *domain.Player) player.Player {
	state := p.State()

	return player.Player{
		SourceURL:         state.SourceURL,
		IsPlaying:         state.IsPlaying,
		IsMuted:           state.IsMuted,
		IsFullscreen:      state.IsFullscreen,
		FullscreenPending: state.FullscreenPending,
		IsDragging:        state.IsDragging,
		CurrentTime:       state.CurrentTime,
		Duration:          state.Duration,
		FurthestReached:   state.FurthestReached,
		UpdatedAt:         s.now().UnixMilli(),
	}
}

func (s service) getPlayer(ctx context.Context, sessionID string) (*domain.Player, error) {
	p, err := s.playerRepo.GetPlayer(ctx, sessionID)
	if err != nil {
		if errors.Is(err, player.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}

		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	return toDomain(p), nil
}

// update runs fn against the session's player and stores the result when
// the state changed. Events for unmounted sessions return ErrPlayerNotFound.
func (s service) update(ctx context.Context, sessionID string, fn func(p *domain.Player) []Command) (EventResponse, error) {
	p, err := s.getPlayer(ctx, sessionID)
	if err != nil {
		return EventResponse{}, err
	}

	before := p.State()
	commands := fn(p)
	changed := p.State() != before

	if changed {
		if err := s.playerRepo.UpdatePlayer(ctx, &player.UpdatePlayerParams{
			SessionID: sessionID,
			Player:    s.toRepo(p),
		}); err != nil {
			if errors.Is(err, player.ErrPlayerNotFound) {
				return EventResponse{}, ErrPlayerNotFound
			}

			return EventResponse{}, fmt.Errorf("failed to update player: %w", err)
		}
	}

	return EventResponse{
		Player:   domain.NewPlayerView(p),
		Changed:  changed,
		Commands: commands,
	}, nil
}

func seekTo(t float64) Command {
	return Command{Type: CommandSeekTo, Payload: SeekTo{Time: t}}
}
