package websocket

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/rivalplay/arena-backend/internal/entity"
	"github.com/rivalplay/arena-backend/internal/pkg"
)

type matchmaker interface {
	RequestToPlay(ctx context.Context, connID, token string) error
}

type roomManager interface {
	SubmitMove(ctx context.Context, connID string, cell int)
	Disconnect(ctx context.Context, connID string)
}

type registry interface {
	Register(connID string) *entity.Connection
	Get(connID string) (*entity.Connection, bool)
}

type presence interface {
	CreateOrUpdate(ctx context.Context, conn *entity.Connection) error
	DeleteByID(ctx context.Context, id string) error
}

// clientConn is one hijacked socket; the mutex serializes frame writes from
// the relay goroutines of other connections.
type clientConn struct {
	mu    sync.Mutex
	bufrw *bufio.ReadWriter
}

type Server struct {
	logger   *slog.Logger
	registry registry
	presence presence

	matchmaker matchmaker
	rooms      roomManager

	handlers map[string]func(ctx context.Context, connID string, message *Message) error

	connectionsMutex sync.RWMutex
	connections      map[string]*clientConn
}

func New(logger *slog.Logger, registry registry, presence presence) *Server {
	return &Server{
		logger:   logger,
		registry: registry,
		presence: presence,

		handlers:    make(map[string]func(context.Context, string, *Message) error),
		connections: make(map[string]*clientConn),
	}
}

// Bind - attaches the services and registers the protocol handlers.
func (that *Server) Bind(matchmaker matchmaker, rooms roomManager) {
	that.matchmaker = matchmaker
	that.rooms = rooms

	that.handlers[actionRequestToPlay] = that.handleRequestToPlay
	that.handlers[actionMove] = that.handleMove
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	})

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// upgradeToWebSocket - upgrades the connection to WebSocket and runs the
// read loop until the socket closes.
func (that *Server) upgradeToWebSocket(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	if req.Header.Get("Upgrade") != "websocket" {
		http.Error(writer, "not a websocket upgrade", http.StatusBadRequest)
		return
	}

	key := req.Header.Get("Sec-WebSocket-Key")
	acceptKey := pkg.GenerateAcceptKey(key)

	writer.Header().Set("Upgrade", "websocket")
	writer.Header().Set("Connection", "Upgrade")
	writer.Header().Set("Sec-WebSocket-Accept", acceptKey)
	writer.WriteHeader(http.StatusSwitchingProtocols)

	hijacker, ok := writer.(http.Hijacker)
	if !ok {
		log.Error("web server does not support hijacking", "error", http.StatusText(http.StatusInternalServerError))
		return
	}

	conn, bufrw, err := hijacker.Hijack()
	if err != nil {
		log.Error("failed to hijack connection", "error", err)
		return
	}

	defer conn.Close()

	connID := pkg.GenerateNewSessionID()
	log = log.With("connID", connID)

	registered := that.registry.Register(connID)
	if err = that.presence.CreateOrUpdate(ctx, registered); err != nil {
		log.Warn("failed to store presence snapshot", "error", err)
	}

	that.connectionsMutex.Lock()
	that.connections[connID] = &clientConn{bufrw: bufrw}
	that.connectionsMutex.Unlock()

	log.Info("WebSocket connection established")

	if err = that.handleMessages(ctx, connID, bufrw); err != nil {
		log.Debug("connection read loop ended", "error", err)
	}

	that.closeConnection(ctx, connID)
}

// handleMessages - processes messages from the client.
func (that *Server) handleMessages(ctx context.Context, connID string, bufrw *bufio.ReadWriter) error {
	log := that.logger.With("method", "handleMessages", "connID", connID)

	for {
		reqBody, opCode, err := readRequest(bufrw)
		if err != nil {
			return err
		}

		if opCode == opCodeClose {
			return nil
		}

		var message Message
		if err = json.Unmarshal(reqBody, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			that.sendError(connID, "invalid message format")
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Error("unknown action", "action", message.Action)
			that.sendError(connID, "unknown action")
			continue
		}

		if err = handler(ctx, connID, &message); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

// closeConnection - removes the socket and lets the room manager settle any
// game the connection was part of.
func (that *Server) closeConnection(ctx context.Context, connID string) {
	log := that.logger.With("method", "closeConnection", "connID", connID)

	that.connectionsMutex.Lock()
	delete(that.connections, connID)
	that.connectionsMutex.Unlock()

	that.rooms.Disconnect(ctx, connID)

	if err := that.presence.DeleteByID(ctx, connID); err != nil {
		log.Warn("failed to delete presence snapshot", "error", err)
	}

	log.Info("player disconnected")
}

func (that *Server) client(connID string) (*clientConn, bool) {
	that.connectionsMutex.RLock()
	defer that.connectionsMutex.RUnlock()

	client, ok := that.connections[connID]

	return client, ok
}
