package player

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sharetube/seekguard/internal/repository/player"
)

var (
	ErrPlayerNotFound = errors.New("player not found")
	ErrInvalidToken   = errors.New("invalid view token")
)

type iPlayerRepo interface {
	SetPlayer(context.Context, *player.SetPlayerParams) error
	GetPlayer(context.Context, string) (player.Player, error)
	UpdatePlayer(context.Context, *player.UpdatePlayerParams) error
	RemovePlayer(context.Context, string) error
}

type iConnRepo interface {
	Add(*websocket.Conn, string) error
	RemoveBySessionID(string) error
	GetConn(string) (*websocket.Conn, error)
	SessionIDs() []string
}

type iSourceResolver interface {
	Resolve(ctx context.Context, source string) (string, error)
}

type Config struct {
	Secret   string
	TokenTTL time.Duration
}

type service struct {
	playerRepo iPlayerRepo
	connRepo   iConnRepo
	resolver   iSourceResolver
	secret     []byte
	tokenTTL   time.Duration
	now        func() time.Time
	logger     *slog.Logger
}

func NewService(playerRepo iPlayerRepo, connRepo iConnRepo, resolver iSourceResolver, cfg *Config, logger *slog.Logger) *service {
	tokenTTL := cfg.TokenTTL
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}

	return &service{
		playerRepo: playerRepo,
		connRepo:   connRepo,
		resolver:   resolver,
		secret:     []byte(cfg.Secret),
		tokenTTL:   tokenTTL,
		now:        time.Now,
		logger:     logger,
	}
}
