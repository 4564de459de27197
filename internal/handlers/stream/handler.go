package stream

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/KirkDiggler/rpg-dungeon/internal/engine/simulation"
	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
	"github.com/KirkDiggler/rpg-dungeon/internal/orchestrators/run"
	"github.com/KirkDiggler/rpg-dungeon/internal/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// HandlerConfig holds dependencies for the stream handler
type HandlerConfig struct {
	Hub        *Hub
	RunService run.Service
	Logger     logrus.FieldLogger
	// CheckOrigin defaults to allowing every origin
	CheckOrigin func(r *http.Request) bool
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Hub == nil {
		vb.RequiredField("Hub")
	}
	if c.RunService == nil {
		vb.RequiredField("RunService")
	}

	return vb.Build()
}

// Handler upgrades GET /runs/stream?run=<id> to a websocket that receives
// the run's current snapshot and then one JSON snapshot per tick. The
// socket is closed after the final snapshot.
type Handler struct {
	hub      *Hub
	runs     run.Service
	log      logrus.FieldLogger
	upgrader websocket.Upgrader
}

// NewHandler creates a stream handler
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	checkOrigin := cfg.CheckOrigin
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}

	return &Handler{
		hub:  cfg.Hub,
		runs: cfg.RunService,
		log:  logger.OrDiscard(cfg.Logger).WithField("component", "stream"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     checkOrigin,
		},
	}, nil
}

// ServeHTTP implements http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	runID := r.URL.Query().Get("run")
	if runID == "" {
		http.Error(w, "run query parameter is required", http.StatusBadRequest)
		return
	}

	// subscribe first so no tick falls between the initial read and the feed
	updates, cancel := h.hub.Subscribe(runID)

	current, err := h.runs.Get(r.Context(), &run.GetInput{RunID: runID})
	if err != nil {
		cancel()
		if errors.IsNotFound(err) {
			http.Error(w, errors.GetMessage(err), http.StatusNotFound)
			return
		}
		h.log.WithError(err).WithField("run_id", runID).Error("failed to read run")
		http.Error(w, "failed to read run", http.StatusInternalServerError)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		cancel()
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	v := &viewer{conn: conn, log: h.log.WithField("run_id", runID)}
	v.log.Info("viewer connected")

	done := make(chan struct{})
	go v.readPump(done)
	go func() {
		v.writePump(current.Snapshot, updates, done)
		cancel()
	}()
}

// viewer is one websocket connection watching a run
type viewer struct {
	conn *websocket.Conn
	log  logrus.FieldLogger
}

// readPump discards client frames and notices disconnects
func (v *viewer) readPump(done chan<- struct{}) {
	defer close(done)

	v.conn.SetReadLimit(maxMessageSize)
	if err := v.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		v.log.WithError(err).Warn("failed to set read deadline")
	}
	v.conn.SetPongHandler(func(string) error {
		return v.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := v.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				v.log.WithError(err).Debug("viewer read failed")
			}
			return
		}
	}
}

func (v *viewer) writePump(first *simulation.Snapshot, updates <-chan *simulation.Snapshot, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := v.conn.Close(); err != nil {
			v.log.WithError(err).Debug("failed to close websocket connection")
		}
		v.log.Info("viewer disconnected")
	}()

	if !v.write(first) {
		return
	}

	for {
		select {
		case snap, ok := <-updates:
			if !ok {
				v.closeFrame()
				return
			}
			if !v.write(snap) {
				return
			}
		case <-ticker.C:
			if err := v.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				v.log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := v.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				v.log.WithError(err).Debug("ping failed")
				return
			}
		case <-done:
			return
		}
	}
}

func (v *viewer) write(snap *simulation.Snapshot) bool {
	if err := v.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		v.log.WithError(err).Warn("failed to set write deadline")
	}
	if err := v.conn.WriteJSON(snap); err != nil {
		v.log.WithError(err).Debug("write snapshot failed")
		return false
	}
	return true
}

func (v *viewer) closeFrame() {
	if err := v.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		v.log.WithError(err).Warn("failed to set write deadline")
	}
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "run ended")
	if err := v.conn.WriteMessage(websocket.CloseMessage, msg); err != nil {
		v.log.WithError(err).Debug("write close message failed")
	}
}
