// Package kafka 提供了与 Kafka 消息队列交互的功能。
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"bench-match-go/internal/config"
	"bench-match-go/pkg/log"
	"bench-match-go/pkg/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/segmentio/kafka-go"
)

// TaskProcessor 定义了处理语料同步任务的接口，使消费者与具体的管道实现解耦。
type TaskProcessor interface {
	Process(ctx context.Context, task tasks.CorpusSyncTask) error
}

// AttemptCounter 记录任务的失败次数。
type AttemptCounter interface {
	Incr(ctx context.Context, taskID string) (int64, error)
	Reset(ctx context.Context, taskID string) error
}

// RedisAttemptCounter 使用 Redis 计数失败次数，计数 24 小时后过期。
type RedisAttemptCounter struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisAttemptCounter 创建一个 RedisAttemptCounter。
func NewRedisAttemptCounter(rdb *redis.Client) *RedisAttemptCounter {
	return &RedisAttemptCounter{rdb: rdb, ttl: 24 * time.Hour}
}

func attemptsKey(taskID string) string {
	return fmt.Sprintf("kafka:attempts:%s", taskID)
}

func (c *RedisAttemptCounter) Incr(ctx context.Context, taskID string) (int64, error) {
	key := attemptsKey(taskID)
	attempts, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	_ = c.rdb.Expire(ctx, key, c.ttl).Err()
	return attempts, nil
}

func (c *RedisAttemptCounter) Reset(ctx context.Context, taskID string) error {
	return c.rdb.Del(ctx, attemptsKey(taskID)).Err()
}

func brokerList(brokers string) []string {
	var out []string
	for _, b := range strings.Split(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

// Producer 发送语料同步任务。
type Producer struct {
	writer *kafka.Writer
}

// NewProducer 初始化 Kafka 生产者。
func NewProducer(cfg config.KafkaConfig) *Producer {
	w := &kafka.Writer{
		Addr:     kafka.TCP(brokerList(cfg.Brokers)...),
		Topic:    cfg.Topic,
		Balancer: &kafka.LeastBytes{},
	}
	log.Info("Kafka 生产者初始化成功")
	return &Producer{writer: w}
}

// PublishCorpusSync 发送一个语料同步任务到 Kafka。
func (p *Producer) PublishCorpusSync(ctx context.Context, task tasks.CorpusSyncTask) error {
	taskBytes, err := json.Marshal(task)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(task.TaskID),
		Value: taskBytes,
	})
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

// Consumer 消费语料同步任务。失败的任务在同一条消息内重试，直到成功或达到最大次数后才提交 offset。
// 次数记录在 Redis 中，进程重启后重新投递的消息会继续之前的计数。
type Consumer struct {
	reader      *kafka.Reader
	processor   TaskProcessor
	attempts    AttemptCounter
	maxAttempts int64
	backoff     time.Duration
}

// NewConsumer 创建一个 Kafka 消费者。
func NewConsumer(cfg config.KafkaConfig, processor TaskProcessor, attempts AttemptCounter) *Consumer {
	maxAttempts := int64(cfg.MaxAttempts)
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokerList(cfg.Brokers),
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{
		reader:      r,
		processor:   processor,
		attempts:    attempts,
		maxAttempts: maxAttempts,
		backoff:     time.Duration(cfg.RetryBackoffMs) * time.Millisecond,
	}
}

// Run 阻塞消费消息，直到 ctx 被取消或读取失败。
func (c *Consumer) Run(ctx context.Context) error {
	log.Infof("Kafka 消费者已启动，正在监听主题 '%s'", c.reader.Config().Topic)
	defer func() {
		if err := c.reader.Close(); err != nil {
			log.Errorf("关闭 Kafka 消费者失败: %v", err)
		}
	}()

	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			log.Error("从 Kafka 读取消息失败", err)
			return err
		}

		log.Infof("收到 Kafka 消息: offset %d", m.Offset)
		if !c.handle(ctx, m.Value) {
			// 只有停机时才会不提交，消息在重启后重新投递
			return nil
		}
		if err := c.reader.CommitMessages(ctx, m); err != nil {
			log.Errorf("提交 Kafka 消息 offset 失败: %v", err)
		}
	}
}

// handle 处理一条消息并返回是否应提交 offset。
// 失败时在本条消息内重试，不会越过它去处理后续消息；只有 ctx 被取消时返回 false。
func (c *Consumer) handle(ctx context.Context, value []byte) bool {
	var task tasks.CorpusSyncTask
	if err := json.Unmarshal(value, &task); err != nil {
		// 消息格式错误，直接提交，避免阻塞队列
		log.Errorf("无法解析 Kafka 消息: %v, value: %s", err, string(value))
		return true
	}

	log.Infof("开始处理语料同步任务: TaskID=%s, 员工数=%d", task.TaskID, len(task.EmployeeIDs))
	var local int64
	for {
		err := c.processor.Process(ctx, task)
		if err == nil {
			log.Infof("语料同步任务处理成功: TaskID=%s", task.TaskID)
			if resetErr := c.attempts.Reset(ctx, task.TaskID); resetErr != nil {
				log.Warnf("清除任务重试计数失败: TaskID=%s, Error: %v", task.TaskID, resetErr)
			}
			return true
		}

		local++
		attempts, incErr := c.attempts.Incr(ctx, task.TaskID)
		if incErr != nil {
			// Redis 异常时退回本地计数
			log.Warnf("记录任务重试次数失败，使用本地计数: %v", incErr)
			attempts = local
		}
		log.Errorf("处理语料同步任务失败: TaskID=%s, 第 %d 次, Error: %v", task.TaskID, attempts, err)
		if attempts >= c.maxAttempts {
			log.Errorf("语料同步任务多次失败(>=%d)，提交 offset 终止重试: TaskID=%s", c.maxAttempts, task.TaskID)
			return true
		}

		select {
		case <-ctx.Done():
			return false
		case <-time.After(c.backoff):
		}
	}
}
