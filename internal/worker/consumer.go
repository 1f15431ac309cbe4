package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"github.com/spigell/jobfit/internal/utils"
)

type Config struct {
	URL          string `mapstructure:"url"`
	Queue        string `mapstructure:"queue"`
	Exchange     string `mapstructure:"exchange"`
	Workers      int    `mapstructure:"workers"`
	DialAttempts int    `mapstructure:"dial_attempts"`
}

const (
	defaultQueue        = "resume_optimize"
	defaultExchange     = "resume_updates"
	defaultWorkers      = 3
	defaultDialAttempts = 5

	dialBackoffBase  = time.Second
	dialBackoffLimit = 30 * time.Second
)

func (c Config) withDefaults() Config {
	if c.Queue == "" {
		c.Queue = defaultQueue
	}
	if c.Exchange == "" {
		c.Exchange = defaultExchange
	}
	if c.Workers <= 0 {
		c.Workers = defaultWorkers
	}
	if c.DialAttempts <= 0 {
		c.DialAttempts = defaultDialAttempts
	}
	return c
}

// RoutingKey is the topic results for a request are published under.
func RoutingKey(requestID string) string {
	return "resume." + requestID
}

type Consumer struct {
	cfg       Config
	processor *Processor
	logger    *zap.Logger
	dial      func(url string) (*amqp.Connection, error)
}

func NewConsumer(cfg Config, processor *Processor, log *zap.Logger) *Consumer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Consumer{cfg: cfg.withDefaults(), processor: processor, logger: log, dial: amqp.Dial}
}

// Run consumes until ctx is cancelled or the broker connection drops.
func (c *Consumer) Run(ctx context.Context) error {
	conn, err := c.connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := c.declareExchange(conn); err != nil {
		return err
	}

	closed := conn.NotifyClose(make(chan *amqp.Error, 1))
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	wg.Add(c.cfg.Workers)
	for i := range c.cfg.Workers {
		go func(id int) {
			defer wg.Done()
			if err := c.work(ctx, id, conn); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				cancel()
			}
		}(i + 1)
	}
	c.logger.Info("worker pool started", zap.Int("workers", c.cfg.Workers), zap.String("queue", c.cfg.Queue))

	var connErr error
	select {
	case <-ctx.Done():
	case amqpErr, ok := <-closed:
		if ok && amqpErr != nil {
			connErr = fmt.Errorf("broker connection closed: %w", amqpErr)
		}
		cancel()
	}
	wg.Wait()

	return errors.Join(append(errs, connErr)...)
}

func (c *Consumer) connect(ctx context.Context) (*amqp.Connection, error) {
	var lastErr error
	for attempt := 1; attempt <= c.cfg.DialAttempts; attempt++ {
		conn, err := c.dial(c.cfg.URL)
		if err == nil {
			return conn, nil
		}
		lastErr = err

		delay := utils.Backoff(attempt, dialBackoffBase, dialBackoffLimit)
		c.logger.Warn("broker dial failed",
			zap.Int("attempt", attempt),
			zap.Duration("retry_in", delay),
			zap.Error(err),
		)
		if attempt == c.cfg.DialAttempts {
			break
		}
		if err := utils.WaitFor(ctx, delay); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("error dialling rabbitmq after %d attempts: %w", c.cfg.DialAttempts, lastErr)
}

func (c *Consumer) declareExchange(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(c.cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", c.cfg.Exchange, err)
	}
	return nil
}

func (c *Consumer) work(ctx context.Context, id int, conn *amqp.Connection) error {
	log := c.logger.With(zap.Int("worker", id))

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("worker %d: open channel: %w", id, err)
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(c.cfg.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("worker %d: declare queue: %w", id, err)
	}
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("worker %d: set qos: %w", id, err)
	}

	msgs, err := ch.Consume(c.cfg.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("worker %d: consume: %w", id, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			result := c.processor.Process(ctx, msg.Body)
			if err := c.publish(ch, result); err != nil {
				log.Error("failed to publish result", zap.String("request_id", result.RequestID), zap.Error(err))
				_ = msg.Nack(false, true)
				continue
			}
			if err := msg.Ack(false); err != nil {
				log.Warn("failed to ack message", zap.Error(err))
			}
		}
	}
}

func (c *Consumer) publish(ch *amqp.Channel, result OptimizeResult) error {
	body, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return ch.Publish(c.cfg.Exchange, RoutingKey(result.RequestID), false, false, amqp.Publishing{
		ContentType: "application/json",
		MessageId:   result.RequestID,
		Timestamp:   result.Timestamp,
		Body:        body,
	})
}
