package wsrouter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
)

var ErrUnknownMessageType = errors.New("unknown message type")

type message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type HandlerFunc[T any] func(ctx context.Context, conn *websocket.Conn, payload T) error

type Middleware func(next HandlerFunc[any]) HandlerFunc[any]

type ErrorHandler func(ctx context.Context, conn *websocket.Conn, err error)

// DecodeError is passed to the error handler when a payload does not match the route's input type.
type DecodeError struct {
	MessageType string
	Err         error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s payload: %s", e.MessageType, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

type route func(ctx context.Context, conn *websocket.Conn, raw json.RawMessage) error

// WSRouter dispatches typed JSON messages read from a single connection.
// Routes may be attached and detached while ServeConn is running.
type WSRouter struct {
	mu           sync.RWMutex
	routes       map[string]route
	middlewares  []Middleware
	errorHandler ErrorHandler
}

func New() *WSRouter {
	return &WSRouter{
		routes:       make(map[string]route),
		errorHandler: func(context.Context, *websocket.Conn, error) {},
	}
}

func (r *WSRouter) Use(middlewares ...Middleware) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.middlewares = append(r.middlewares, middlewares...)
}

func (r *WSRouter) OnError(handler ErrorHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.errorHandler = handler
}

// Handle registers handler for messageType, replacing any previous route.
func Handle[T any](r *WSRouter, messageType string, handler HandlerFunc[T]) {
	wrapped := func(ctx context.Context, conn *websocket.Conn, payload any) error {
		return handler(ctx, conn, payload.(T))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var h HandlerFunc[any] = wrapped
	for i := len(r.middlewares) - 1; i >= 0; i-- {
		h = r.middlewares[i](h)
	}

	r.routes[messageType] = func(ctx context.Context, conn *websocket.Conn, raw json.RawMessage) error {
		var payload T
		if len(raw) > 0 && string(raw) != "null" {
			if err := json.Unmarshal(raw, &payload); err != nil {
				return &DecodeError{MessageType: messageType, Err: err}
			}
		}

		return h(ctx, conn, payload)
	}
}

// Remove detaches the route for messageType. Removing a missing route is a no-op.
func (r *WSRouter) Remove(messageType string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.routes, messageType)
}

func (r *WSRouter) Has(messageType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.routes[messageType]
	return ok
}

func (r *WSRouter) ServeConn(ctx context.Context, conn *websocket.Conn) error {
	defer conn.Close()

	for {
		var msg message
		if err := conn.ReadJSON(&msg); err != nil {
			return err
		}

		r.mu.RLock()
		handler, exists := r.routes[msg.Type]
		errorHandler := r.errorHandler
		r.mu.RUnlock()

		msgCtx := context.WithValue(ctx, messageTypeKey, msg.Type)
		if !exists {
			errorHandler(msgCtx, conn, fmt.Errorf("%w: %q", ErrUnknownMessageType, msg.Type))
			continue
		}

		if err := handler(msgCtx, conn, msg.Payload); err != nil {
			errorHandler(msgCtx, conn, err)
		}
	}
}
