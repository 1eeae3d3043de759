package redis

import (
	"context"
	"fmt"

	"github.com/sharetube/seekguard/internal/repository/player"
)

func (r repo) getPlayerKey(sessionID string) string {
	return "player:" + sessionID
}

func (r repo) SetPlayer(ctx context.Context, params *player.SetPlayerParams) error {
	playerKey := r.getPlayerKey(params.SessionID)

	exists, err := r.rc.Exists(ctx, playerKey).Result()
	if err != nil {
		return fmt.Errorf("failed to check if player exists: %w", err)
	}

	if exists > 0 {
		return player.ErrPlayerAlreadyExists
	}

	pipe := r.rc.TxPipeline()
	pipe.HSet(ctx, playerKey, params.Player)
	pipe.Expire(ctx, playerKey, r.expireDuration)

	if err := r.executePipe(ctx, pipe); err != nil {
		return fmt.Errorf("failed to set player: %w", err)
	}

	return nil
}

func (r repo) GetPlayer(ctx context.Context, sessionID string) (player.Player, error) {
	playerKey := r.getPlayerKey(sessionID)

	cmd := r.rc.HGetAll(ctx, playerKey)
	fields, err := cmd.Result()
	if err != nil {
		return player.Player{}, fmt.Errorf("failed to get player: %w", err)
	}

	if len(fields) == 0 {
		return player.Player{}, player.ErrPlayerNotFound
	}

	var p player.Player
	if err := cmd.Scan(&p); err != nil {
		return player.Player{}, fmt.Errorf("failed to scan player: %w", err)
	}

	if err := r.rc.Expire(ctx, playerKey, r.expireDuration).Err(); err != nil {
		return player.Player{}, fmt.Errorf("failed to refresh player expiry: %w", err)
	}

	return p, nil
}

func (r repo) UpdatePlayer(ctx context.Context, params *player.UpdatePlayerParams) error {
	playerKey := r.getPlayerKey(params.SessionID)

	exists, err := r.rc.Exists(ctx, playerKey).Result()
	if err != nil {
		return fmt.Errorf("failed to check if player exists: %w", err)
	}

	if exists == 0 {
		return player.ErrPlayerNotFound
	}

	pipe := r.rc.TxPipeline()
	pipe.HSet(ctx, playerKey, params.Player)
	pipe.Expire(ctx, playerKey, r.expireDuration)

	if err := r.executePipe(ctx, pipe); err != nil {
		return fmt.Errorf("failed to update player: %w", err)
	}

	return nil
}

func (r repo) RemovePlayer(ctx context.Context, sessionID string) error {
	res, err := r.rc.Del(ctx, r.getPlayerKey(sessionID)).Result()
	if err != nil {
		return fmt.Errorf("failed to remove player: %w", err)
	}

	if res == 0 {
		return player.ErrPlayerNotFound
	}

	return nil
}
