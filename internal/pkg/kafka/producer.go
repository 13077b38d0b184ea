package kafka

import (
	"Blogstone/internal/api/config"
	"context"
	log "log/slog"
	"sync"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// Producer 互动事件发布，发布失败只记录日志
type Producer interface {
	Publish(ctx context.Context, evt *EngagementEvent)
	Close() error
}

// NoopProducer 未启用 Kafka 时使用
type NoopProducer struct{}

func (NoopProducer) Publish(context.Context, *EngagementEvent) {}

func (NoopProducer) Close() error { return nil }

// EngagementProducer 基于 sarama 异步生产者
type EngagementProducer struct {
	producer sarama.AsyncProducer
	topic    string
	wg       sync.WaitGroup
}

// NewProducer 根据配置返回可用的生产者
func NewProducer(cfg config.KafkaConfig) (Producer, error) {
	if !cfg.Enable {
		log.Info("Kafka disabled, engagement events will not be published")
		return NoopProducer{}, nil
	}

	producer, err := sarama.NewAsyncProducer(cfg.Brokers, newSaramaConfig(cfg))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create kafka producer")
	}
	return NewEngagementProducer(producer, cfg.Topic), nil
}

func NewEngagementProducer(producer sarama.AsyncProducer, topic string) *EngagementProducer {
	p := &EngagementProducer{
		producer: producer,
		topic:    topic,
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		for perr := range producer.Errors() {
			log.Error("kafka publish failed", "topic", perr.Msg.Topic, "err", perr.Err)
		}
	}()
	return p
}

func (s *EngagementProducer) Publish(ctx context.Context, evt *EngagementEvent) {
	payload, err := json.Marshal(evt)
	if err != nil {
		log.ErrorContext(ctx, "encode engagement event failed", "err", err)
		return
	}

	msg := &sarama.ProducerMessage{
		Topic: s.topic,
		Key:   sarama.StringEncoder(evt.PostID),
		Value: sarama.ByteEncoder(payload),
	}

	select {
	case s.producer.Input() <- msg:
	case <-ctx.Done():
		log.WarnContext(ctx, "engagement event dropped", "type", evt.Type, "post_id", evt.PostID, "err", ctx.Err())
	}
}

// Close 刷新缓冲并等待错误通道消费完毕
func (s *EngagementProducer) Close() error {
	err := s.producer.Close()
	s.wg.Wait()
	if err != nil {
		return errors.Wrap(err, "failed to close kafka producer")
	}
	return nil
}
