package player

import (
	"context"

	"github.com/sharetube/seekguard/internal/domain"
	"github.com/sharetube/seekguard/internal/guard"
)

// BeginDrag starts a progress bar drag. A drag whose first position lies past
// the furthest reached time never starts.
func (s service) BeginDrag(ctx context.Context, params *DragParams) (EventResponse, error) {
	return s.update(ctx, params.SessionID, func(p *domain.Player) []Command {
		candidate, ok := guard.DragCandidate(params.PointerX, params.BarLeft, params.BarWidth, p.Duration())
		if !ok {
			return nil
		}

		if !guard.AllowDrag(candidate, p.FurthestReached()) {
			s.logger.InfoContext(ctx, "drag rejected",
				"requested_time", candidate,
				"furthest_reached", p.FurthestReached(),
			)
			return []Command{{Type: CommandDragRejected, Payload: DragRejected{
				RequestedTime:   candidate,
				FurthestReached: p.FurthestReached(),
			}}}
		}

		p.SetDragging(true)
		p.SetCurrentTime(guard.ClampSeek(candidate, p.FurthestReached(), p.Duration()))
		return []Command{seekTo(p.CurrentTime())}
	})
}

// DragMove re-validates every pointer move of an active drag. Moves past the
// furthest reached time are dropped.
func (s service) DragMove(ctx context.Context, params *DragParams) (EventResponse, error) {
	return s.update(ctx, params.SessionID, func(p *domain.Player) []Command {
		if !p.IsDragging() {
			return nil
		}

		candidate, ok := guard.DragCandidate(params.PointerX, params.BarLeft, params.BarWidth, p.Duration())
		if !ok || !guard.AllowDrag(candidate, p.FurthestReached()) {
			return nil
		}

		p.SetCurrentTime(guard.ClampSeek(candidate, p.FurthestReached(), p.Duration()))
		return []Command{seekTo(p.CurrentTime())}
	})
}

// EndDrag clears the drag state whether or not the pointer moved.
func (s service) EndDrag(ctx context.Context, sessionID string) (EventResponse, error) {
	return s.update(ctx, sessionID, func(p *domain.Player) []Command {
		p.SetDragging(false)
		return nil
	})
}
