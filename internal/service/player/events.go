package player

import (
	"context"

	"github.com/sharetube/seekguard/internal/domain"
	"github.com/sharetube/seekguard/internal/guard"
)

func (s service) LoadedMetadata(ctx context.Context, params *LoadedMetadataParams) (EventResponse, error) {
	return s.update(ctx, params.SessionID, func(p *domain.Player) []Command {
		if !p.SetDuration(params.Duration) {
			s.logger.DebugContext(ctx, "duration ignored", "duration", params.Duration, "current_duration", p.Duration())
		}
		return nil
	})
}

// TimeUpdate handles the periodic position report of normal playback.
// Reports are ignored while a drag owns the position.
func (s service) TimeUpdate(ctx context.Context, params *TimeUpdateParams) (EventResponse, error) {
	return s.update(ctx, params.SessionID, func(p *domain.Player) []Command {
		if p.IsDragging() {
			return nil
		}

		decision := guard.CheckTimeUpdate(params.CurrentTime, p.FurthestReached())
		if !decision.Accepted {
			s.logger.InfoContext(ctx, "forward skip rejected",
				"reported_time", params.CurrentTime,
				"furthest_reached", p.FurthestReached(),
			)
			p.SetCurrentTime(decision.ResetTo)
			return []Command{seekTo(p.CurrentTime())}
		}

		p.AdvanceFurthestReached(decision.Furthest)
		p.SetCurrentTime(params.CurrentTime)
		return nil
	})
}

// Seeking re-clamps a native seek that landed past the furthest reached position.
func (s service) Seeking(ctx context.Context, params *SeekingParams) (EventResponse, error) {
	return s.update(ctx, params.SessionID, func(p *domain.Player) []Command {
		target, corrected := guard.CheckSeek(params.CurrentTime, p.FurthestReached())
		p.SetCurrentTime(target)

		if !corrected {
			return nil
		}

		s.logger.InfoContext(ctx, "seek clamped",
			"requested_time", params.CurrentTime,
			"furthest_reached", p.FurthestReached(),
		)
		return []Command{seekTo(p.CurrentTime())}
	})
}

func (s service) RateChange(ctx context.Context, params *RateChangeParams) (EventResponse, error) {
	return s.update(ctx, params.SessionID, func(p *domain.Player) []Command {
		rate, revert := guard.EnforceRate(params.PlaybackRate)
		if !revert {
			return nil
		}

		s.logger.InfoContext(ctx, "playback rate reverted", "playback_rate", params.PlaybackRate)
		return []Command{{Type: CommandSetPlaybackRate, Payload: SetPlaybackRate{PlaybackRate: rate}}}
	})
}

func (s service) KeyDown(ctx context.Context, params *KeyDownParams) (EventResponse, error) {
	return s.update(ctx, params.SessionID, func(p *domain.Player) []Command {
		if !guard.IsPreventedKey(params.Key) {
			return nil
		}

		return []Command{{Type: CommandPreventDefault, Payload: PreventDefault{Event: "keydown", Key: params.Key}}}
	})
}

// VideoClick suppresses clicks on the media surface. Only the controls may
// change playback.
func (s service) VideoClick(ctx context.Context, sessionID string) (EventResponse, error) {
	return s.preventDefault(ctx, sessionID, "click")
}

func (s service) ContextMenu(ctx context.Context, sessionID string) (EventResponse, error) {
	return s.preventDefault(ctx, sessionID, "contextmenu")
}

func (s service) preventDefault(ctx context.Context, sessionID, event string) (EventResponse, error) {
	return s.update(ctx, sessionID, func(*domain.Player) []Command {
		return []Command{{Type: CommandPreventDefault, Payload: PreventDefault{Event: event}}}
	})
}
