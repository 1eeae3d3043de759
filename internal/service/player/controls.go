package player

import (
	"context"

	"github.com/sharetube/seekguard/internal/domain"
	"github.com/sharetube/seekguard/internal/guard"
)

func (s service) TogglePlay(ctx context.Context, sessionID string) (EventResponse, error) {
	return s.update(ctx, sessionID, func(p *domain.Player) []Command {
		if p.IsPlaying() {
			p.SetPlaying(false)
			return []Command{{Type: CommandPause}}
		}

		p.SetPlaying(true)
		return []Command{{Type: CommandPlay}}
	})
}

// Rewind moves back one interval and gives up the progress past the new
// position: furthest reached becomes the rewound-to time.
func (s service) Rewind(ctx context.Context, sessionID string) (EventResponse, error) {
	return s.update(ctx, sessionID, func(p *domain.Player) []Command {
		t := guard.Rewind(p.CurrentTime())
		p.SetCurrentTime(t)
		p.SetFurthestReached(t)
		return []Command{seekTo(t)}
	})
}

func (s service) ToggleMute(ctx context.Context, sessionID string) (EventResponse, error) {
	return s.update(ctx, sessionID, func(p *domain.Player) []Command {
		p.SetMuted(!p.IsMuted())
		return []Command{{Type: CommandSetMuted, Payload: SetMuted{IsMuted: p.IsMuted()}}}
	})
}

// ToggleFullscreen asks the client to enter or leave fullscreen. The flag
// only flips once the client reports the outcome through FullscreenChanged.
func (s service) ToggleFullscreen(ctx context.Context, sessionID string) (EventResponse, error) {
	return s.update(ctx, sessionID, func(p *domain.Player) []Command {
		if p.FullscreenPending() {
			return nil
		}

		p.SetFullscreenPending(true)
		if p.IsFullscreen() {
			return []Command{{Type: CommandExitFullscreen}}
		}

		return []Command{{Type: CommandRequestFullscreen}}
	})
}

// FullscreenChanged applies the outcome of a fullscreen transition. A failed
// transition leaves the flag untouched.
func (s service) FullscreenChanged(ctx context.Context, params *FullscreenChangedParams) (EventResponse, error) {
	return s.update(ctx, params.SessionID, func(p *domain.Player) []Command {
		if params.Failed {
			s.logger.WarnContext(ctx, "fullscreen transition failed", "is_fullscreen", p.IsFullscreen())
			p.SetFullscreenPending(false)
			return nil
		}

		p.SetFullscreen(params.IsFullscreen)
		return nil
	})
}
