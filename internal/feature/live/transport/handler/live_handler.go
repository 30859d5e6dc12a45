// Package handler はライブティッカーのHTTP/WebSocketハンドラーを提供します。
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"stock_dashboard/internal/feature/live/domain/entity"
	"stock_dashboard/internal/feature/live/transport/http/dto"
	"stock_dashboard/internal/feature/live/usecase"
)

const (
	pingInterval = 30 * time.Second
	readTimeout  = 60 * time.Second
	writeTimeout = 10 * time.Second
	outboxSize   = 32
)

// LiveSession は1接続分のライブティッカーのセッションです。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type LiveSession interface {
	Start(ctx context.Context) error
	Stop()
	Select(symbol string) error
	SelectRange(r string) error
	Snapshot() usecase.Snapshot
}

// SessionFactory は onTick をティックごとに呼ぶ新しいセッションを作ります。
type SessionFactory func(onTick func(usecase.Snapshot)) LiveSession

// LiveHandler はライブティッカーに関するリクエストを処理します。
type LiveHandler struct {
	newSession SessionFactory
	quotes     func() []entity.Quote
	upgrader   websocket.Upgrader
}

// NewLiveHandler は新しい LiveHandler を作成します。quotes は初期表示銘柄の取得元です。
func NewLiveHandler(newSession SessionFactory, quotes func() []entity.Quote) *LiveHandler {
	if quotes == nil {
		quotes = entity.DefaultQuotes
	}
	return &LiveHandler{
		newSession: newSession,
		quotes:     quotes,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// CORSと同じく全オリジンを許可する
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Quotes はライブ画面の初期銘柄一覧を返すAPIです。
//
// エンドポイント例:
// GET /api/live/quotes
func (h *LiveHandler) Quotes(c *gin.Context) {
	c.JSON(http.StatusOK, h.quotes())
}

// Stream は接続ごとにセッションを開始し、ティックのたびにスナップショットを送信します。
// クライアントは {"symbol":"TCS"} や {"range":"5D"} を送って選択を変更できます。
//
// エンドポイント例:
// GET /ws/live?symbol=RELIANCE&range=1D
func (h *LiveHandler) Stream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade がエラーレスポンスを書き込み済み
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	outbox := make(chan any, outboxSize)
	send := func(v any) {
		select {
		case outbox <- v:
		default:
			// 送信が詰まっている場合は古い状態を捨てて次のティックを待つ
		}
	}

	sess := h.newSession(func(s usecase.Snapshot) { send(dto.NewSnapshotMessage(s)) })
	defer sess.Stop()

	if sym := c.Query("symbol"); sym != "" {
		if err := sess.Select(sym); err != nil {
			send(dto.NewErrorMessage(err))
		}
	}
	if r := c.Query("range"); r != "" {
		if err := sess.SelectRange(r); err != nil {
			send(dto.NewErrorMessage(err))
		}
	}
	send(dto.NewSnapshotMessage(sess.Snapshot()))

	if err := sess.Start(ctx); err != nil {
		slog.Error("failed to start live session", "error", err)
		return
	}

	go h.writeLoop(ctx, cancel, conn, outbox)
	h.readLoop(conn, sess, send)
}

// writeLoop は outbox の内容と定期的なPingを書き込みます。書き込みは常にこのゴルーチンだけが行います。
func (h *LiveHandler) writeLoop(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, outbox <-chan any) {
	ping := time.NewTicker(pingInterval)
	defer ping.Stop()
	defer cancel()
	// 読み込み側の ReadMessage を解放する
	defer conn.Close()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeTimeout))
			return
		case v := <-outbox:
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(v); err != nil {
				slog.Debug("websocket write failed", "error", err)
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}

// readLoop はクライアントからの選択変更を処理し、切断されるまで戻りません。
func (h *LiveHandler) readLoop(conn *websocket.Conn, sess LiveSession, send func(any)) {
	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Debug("websocket closed", "error", err)
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))

		var msg dto.ControlMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			send(dto.NewErrorMessage(err))
			continue
		}

		if msg.Symbol != "" {
			if err := sess.Select(msg.Symbol); err != nil {
				send(dto.NewErrorMessage(err))
				continue
			}
		}
		if msg.Range != "" {
			if err := sess.SelectRange(msg.Range); err != nil {
				send(dto.NewErrorMessage(err))
				continue
			}
		}
		send(dto.NewSnapshotMessage(sess.Snapshot()))
	}
}
