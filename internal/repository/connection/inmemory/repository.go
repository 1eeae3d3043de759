package inmemory

import (
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sharetube/seekguard/internal/repository/connection"
)

type repo struct {
	connList map[*websocket.Conn]string
	idList   map[string]*websocket.Conn
	mu       sync.RWMutex
	logger   *slog.Logger
}

func NewRepo(logger *slog.Logger) *repo {
	return &repo{
		connList: make(map[*websocket.Conn]string),
		idList:   make(map[string]*websocket.Conn),
		logger:   logger,
	}
}

func (r *repo) Add(conn *websocket.Conn, sessionID string) error {
	funcName := "connection.inmemory.Add"
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.Debug(funcName, "session_id", sessionID)
	if _, ok := r.connList[conn]; ok || r.idList[sessionID] != nil {
		r.logger.Info(funcName, "error", connection.ErrAlreadyExists)
		return connection.ErrAlreadyExists
	}

	r.connList[conn] = sessionID
	r.idList[sessionID] = conn

	return nil
}

// RemoveBySessionID forgets the session's connection. Closing it is left to
// whoever serves it.
func (r *repo) RemoveBySessionID(sessionID string) error {
	funcName := "connection.inmemory.RemoveBySessionID"
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.Debug(funcName, "session_id", sessionID)
	conn, ok := r.idList[sessionID]
	if !ok {
		r.logger.Debug(funcName, "error", connection.ErrNotFound)
		return connection.ErrNotFound
	}

	delete(r.connList, conn)
	delete(r.idList, sessionID)

	return nil
}

func (r *repo) GetConn(sessionID string) (*websocket.Conn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.idList[sessionID]
	if !ok {
		return nil, connection.ErrNotFound
	}

	return conn, nil
}

// SessionIDs lists the sessions that currently have a live connection.
func (r *repo) SessionIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sessionIDs := make([]string, 0, len(r.idList))
	for sessionID := range r.idList {
		sessionIDs = append(sessionIDs, sessionID)
	}

	return sessionIDs
}
