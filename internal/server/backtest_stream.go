package server

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/aristath/megafacil/internal/modules/backtest"
	"github.com/aristath/megafacil/internal/services"
)

const streamWriteTimeout = 10 * time.Second

// streamMessage is one frame sent over the backtest stream
type streamMessage struct {
	Type     string                   `json:"type"` // progress, result or error
	Progress *backtest.Progress       `json:"progress,omitempty"`
	Result   *services.BacktestResult `json:"result,omitempty"`
	Error    string                   `json:"error,omitempty"`
}

// handleBacktestStream upgrades to a websocket, reads one BacktestRequest,
// then pushes a progress frame per replayed draw and a final result frame.
func (s *Server) handleBacktestStream(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: originPatterns(s.cfg.AllowedOrigins),
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("Websocket upgrade failed")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "unexpected close")

	ctx := r.Context()

	var req services.BacktestRequest
	if err := wsjson.Read(ctx, conn, &req); err != nil {
		s.log.Debug().Err(err).Msg("Failed to read backtest request")
		conn.Close(websocket.StatusUnsupportedData, "expected a JSON backtest request")
		return
	}

	// Nothing more is expected from the client. CloseRead answers its close
	// frame and cancels ctx so the remaining frames are skipped.
	ctx = conn.CloseRead(ctx)

	var writeErr error
	progress := func(p backtest.Progress) {
		if writeErr != nil {
			return
		}
		if err := ctx.Err(); err != nil {
			writeErr = err
			return
		}
		writeErr = s.writeFrame(ctx, conn, streamMessage{Type: "progress", Progress: &p})
	}

	result, err := s.engine.Backtest(req, progress)
	if writeErr != nil {
		s.log.Debug().Err(writeErr).Msg("Backtest stream client went away")
		return
	}
	if err != nil {
		if status := statusFor(err); status == http.StatusInternalServerError {
			s.log.Error().Err(err).Msg("Streamed backtest failed")
		}
		_ = s.writeFrame(ctx, conn, streamMessage{Type: "error", Error: err.Error()})
		conn.Close(websocket.StatusNormalClosure, "")
		return
	}

	if err := s.writeFrame(ctx, conn, streamMessage{Type: "result", Result: result}); err != nil {
		s.log.Debug().Err(err).Msg("Failed to send backtest result")
		return
	}
	conn.Close(websocket.StatusNormalClosure, "")
}

func (s *Server) writeFrame(ctx context.Context, conn *websocket.Conn, msg streamMessage) error {
	writeCtx, cancel := context.WithTimeout(ctx, streamWriteTimeout)
	defer cancel()
	return wsjson.Write(writeCtx, conn, msg)
}

// originPatterns converts CORS origins into the host patterns the websocket
// handshake matches against.
func originPatterns(origins []string) []string {
	patterns := make([]string, 0, len(origins))
	for _, origin := range origins {
		if origin == "*" {
			return []string{"*"}
		}
		u, err := url.Parse(origin)
		if err != nil || u.Host == "" {
			patterns = append(patterns, origin)
			continue
		}
		patterns = append(patterns, u.Host)
	}
	return patterns
}
