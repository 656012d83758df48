// Package handler はアシスタントのwebsocketハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"wealth_backend/internal/api"
	"wealth_backend/internal/feature/assistant/domain/entity"
)

const (
	writeWait = 10 * time.Second
	// maxMessageBytes はクライアントから受け付けるメッセージの最大サイズです。
	maxMessageBytes = 64 << 10
)

// AssistantUsecase はアシスタント実行のユースケースインターフェースです。
type AssistantUsecase interface {
	Run(ctx context.Context, message string) <-chan entity.Event
}

// AssistantHandler は GET /assistant/ws を処理します。
type AssistantHandler struct {
	uc       AssistantUsecase
	upgrader websocket.Upgrader
}

// NewAssistantHandler は AssistantHandler を生成します。
// allowedOrigins が空の場合はすべてのOriginを許可します。
func NewAssistantHandler(uc AssistantUsecase, allowedOrigins []string) *AssistantHandler {
	return &AssistantHandler{
		uc: uc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		if len(allowed) == 0 {
			return true
		}
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}
}

// Serve はwebsocketに昇格し、受け取った {"type":"user"} メッセージごとに
// アシスタントを実行してイベントをJSONで送ります。接続が閉じると実行中の処理もキャンセルされます。
func (h *AssistantHandler) Serve(c *gin.Context) {
	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("failed to upgrade the websocket", "error", err, "remote_addr", c.ClientIP())
		return
	}
	defer func() { _ = ws.Close() }()
	ws.SetReadLimit(maxMessageBytes)

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	slog.Info("assistant client connected", "remote_addr", c.ClientIP())

	// 読み取りは別goroutineで行い、切断を検知したら実行をキャンセルする
	incoming := make(chan api.AssistantMessage)
	go func() {
		defer cancel()
		defer close(incoming)
		for {
			var msg api.AssistantMessage
			if err := ws.ReadJSON(&msg); err != nil {
				slog.Info("assistant client disconnected", "error", err.Error())
				return
			}
			select {
			case incoming <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-incoming:
			if !ok {
				return
			}
			if msg.Type != "user" || strings.TrimSpace(msg.Content) == "" {
				if err := h.send(ws, entity.Event{Type: entity.EventError, Message: `expected {"type":"user","content":"..."}`, At: time.Now()}); err != nil {
					return
				}
				continue
			}
			for ev := range h.uc.Run(ctx, msg.Content) {
				if err := h.send(ws, ev); err != nil {
					cancel()
					return
				}
			}
		}
	}
}

func (h *AssistantHandler) send(ws *websocket.Conn, ev entity.Event) error {
	_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
	if err := ws.WriteJSON(ev); err != nil {
		slog.Warn("failed to write websocket json", "error", err)
		return err
	}
	return nil
}
