package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"stock_dashboard/internal/feature/live/domain/entity"
	"stock_dashboard/internal/feature/live/usecase"
)

// messageWriter は kafka-go の Writer のうち送信で使う部分です。
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// QuotePublisher は1ティックの気配を銘柄ごとのメッセージとして送信します。
// メッセージキーは銘柄コードなので、同じ銘柄は同じパーティションに入ります。
type QuotePublisher struct {
	writer messageWriter
	topic  string
}

var _ usecase.Publisher = (*QuotePublisher)(nil)

// NewQuotePublisher は cfg のブローカーへ送信する QuotePublisher を生成します。
func NewQuotePublisher(cfg Config) *QuotePublisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}
	return &QuotePublisher{writer: w, topic: cfg.Topic}
}

// QuoteMessage はKafkaに送るメッセージ本文です。
type QuoteMessage struct {
	SessionID string       `json:"sessionId"`
	Time      time.Time    `json:"time"`
	Quote     entity.Quote `json:"quote"`
}

// Publish implements usecase.Publisher.
func (p *QuotePublisher) Publish(ctx context.Context, tick usecase.Tick) error {
	msgs, err := EncodeTick(tick)
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		return nil
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("kafka write %s: %w", p.topic, err)
	}
	return nil
}

// Close は送信中のメッセージを書き出して接続を閉じます。
func (p *QuotePublisher) Close() error {
	return p.writer.Close()
}

// EncodeTick は tick を銘柄ごとのKafkaメッセージに変換します。
func EncodeTick(tick usecase.Tick) ([]kafkago.Message, error) {
	msgs := make([]kafkago.Message, 0, len(tick.Quotes))
	for _, q := range tick.Quotes {
		body, err := json.Marshal(QuoteMessage{SessionID: tick.SessionID, Time: tick.Time, Quote: q})
		if err != nil {
			return nil, fmt.Errorf("encode quote %s: %w", q.Symbol, err)
		}
		msgs = append(msgs, kafkago.Message{
			Key:   []byte(q.Symbol),
			Value: body,
			Time:  tick.Time,
		})
	}
	return msgs, nil
}

// EnsureTopic はコントローラーブローカー経由でトピックを作成します。既存の場合も成功します。
func EnsureTopic(cfg Config) error {
	if !cfg.Enabled() {
		return nil
	}
	conn, err := kafkago.Dial("tcp", cfg.Brokers[0])
	if err != nil {
		return fmt.Errorf("dial kafka: %w", err)
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return fmt.Errorf("get kafka controller: %w", err)
	}

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		return fmt.Errorf("dial kafka controller: %w", err)
	}
	defer controllerConn.Close()

	if err := controllerConn.CreateTopics(kafkago.TopicConfig{
		Topic:             cfg.Topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}); err != nil {
		return fmt.Errorf("create topic %s: %w", cfg.Topic, err)
	}
	slog.Info("kafka topic is ready", "topic", cfg.Topic)
	return nil
}
