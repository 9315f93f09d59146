package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"nhooyr.io/websocket"

	"github.com/rocketscienceinc/tictactoe-timeline/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-timeline/internal/entity"
	"github.com/rocketscienceinc/tictactoe-timeline/internal/timeline"
)

const (
	sendBuffer   = 64
	pingInterval = 15 * time.Second
	writeTimeout = 10 * time.Second
)

type gameUseCase interface {
	NewGame(ctx context.Context) (string, entity.Snapshot, error)
	State(ctx context.Context, gameID string) (entity.Snapshot, error)
	ApplyMove(ctx context.Context, gameID string, cell int) (timeline.MoveResult, entity.Snapshot, error)
	GoTo(ctx context.Context, gameID string, index int) (entity.Snapshot, error)
	Reset(ctx context.Context, gameID string) (entity.Snapshot, error)
	Subscribe(ctx context.Context, gameID string, fn timeline.Observer) (func(), error)
}

type handlerFunc func(ctx context.Context, client *client, payload *RequestPayload) error

type Server struct {
	logger *slog.Logger
	games  gameUseCase

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, games gameUseCase) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),
		games:  games,

		handlers: make(map[string]handlerFunc),
	}

	server.handlers[actionNewGame] = server.handleNewGame
	server.handlers[actionState] = server.handleState
	server.handlers[actionTurn] = server.handleTurn
	server.handlers[actionGoTo] = server.handleGoTo
	server.handlers[actionReset] = server.handleReset

	return server
}

// Start - starts WebSocket server and stops it when ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", that)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// ServeHTTP upgrades the request and serves the connection until it closes.
func (that *Server) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "ServeHTTP")

	conn, err := websocket.Accept(writer, req, nil)
	if err != nil {
		log.Error("failed to accept connection", "error", err)
		return
	}

	ctx, cancel := context.WithCancel(req.Context())
	defer cancel()

	current := newClient(conn)
	defer current.close()

	log.Info("WebSocket connection established", "client", current.id)

	go current.writeLoop(ctx, log)

	if err = that.handleMessages(ctx, current); err != nil {
		status := websocket.CloseStatus(err)
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			log.Info("WebSocket connection closed", "client", current.id)
			return
		}

		log.Error("error handling messages", "client", current.id, "error", err)
	}
}

// handleMessages - processes messages from the client.
func (that *Server) handleMessages(ctx context.Context, current *client) error {
	log := that.logger.With("method", "handleMessages", "client", current.id)

	for {
		_, data, err := current.conn.Read(ctx)
		if err != nil {
			return err
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Warn("failed to unmarshal message", "error", err)
			current.sendError(actionError, "malformed message")
			continue
		}

		if err = that.processMessage(ctx, current, &message); err != nil {
			log.Warn("error processing message", "action", message.Action, "error", err)
			current.sendError(message.Action, errorText(err))
		}
	}
}

func (that *Server) processMessage(ctx context.Context, current *client, message *Message) error {
	handler, ok := that.handlers[message.Action]
	if !ok {
		return fmt.Errorf("%w: %s", apperror.ErrUnknownAction, message.Action)
	}

	var payload RequestPayload
	if len(message.Payload) > 0 {
		if err := json.Unmarshal(message.Payload, &payload); err != nil {
			return fmt.Errorf("%w: %w", apperror.ErrInvalidRequest, err)
		}
	}

	return handler(ctx, current, &payload)
}

func errorText(err error) string {
	switch {
	case errors.Is(err, apperror.ErrGameNotFound):
		return "game not found"
	case errors.Is(err, timeline.ErrIndexOutOfRange):
		return "index out of range"
	case errors.Is(err, apperror.ErrUnknownAction):
		return "unknown action"
	case errors.Is(err, apperror.ErrInvalidRequest):
		return err.Error()
	default:
		return "internal error"
	}
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	done chan struct{}

	mu   sync.Mutex
	subs map[string]func()
}

func newClient(conn *websocket.Conn) *client {
	return &client{
		id:   randID(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
		subs: make(map[string]func()),
	}
}

// enqueue drops the message when the client cannot keep up.
func (that *client) enqueue(message []byte) bool {
	select {
	case <-that.done:
		return false
	case that.send <- message:
		return true
	default:
		return false
	}
}

func (that *client) sendMessage(action string, payload ResponsePayload) {
	message, err := newMessage(action, payload)
	if err != nil {
		return
	}

	that.enqueue(message)
}

func (that *client) sendError(action, text string) {
	that.sendMessage(action, ResponsePayload{Error: text})
}

func (that *client) writeLoop(ctx context.Context, log *slog.Logger) {
	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-that.done:
			return
		case message := <-that.send:
			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := that.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()

			if err != nil {
				log.Warn("failed to write message", "client", that.id, "error", err)
				return
			}
		case <-ping.C:
			if err := that.conn.Ping(ctx); err != nil {
				return
			}
		}
	}
}

// watch subscribes the client to a game once.
func (that *client) watch(gameID string, subscribe func() (func(), error)) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.subs[gameID]; ok {
		return nil
	}

	unsubscribe, err := subscribe()
	if err != nil {
		return err
	}

	that.subs[gameID] = unsubscribe

	return nil
}

func (that *client) close() {
	that.mu.Lock()
	for gameID, unsubscribe := range that.subs {
		unsubscribe()
		delete(that.subs, gameID)
	}
	that.mu.Unlock()

	close(that.done)
	_ = that.conn.Close(websocket.StatusNormalClosure, "bye")
}
