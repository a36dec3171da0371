// Package bootstrap 负责按配置组装所有依赖，供 HTTP 服务与命令行工具共用。
package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bench-match-go/internal/config"
	"bench-match-go/internal/pipeline"
	"bench-match-go/internal/repository"
	"bench-match-go/internal/service"
	"bench-match-go/pkg/database"
	"bench-match-go/pkg/embedding"
	"bench-match-go/pkg/es"
	"bench-match-go/pkg/kafka"
	"bench-match-go/pkg/llm"
	"bench-match-go/pkg/log"
	"bench-match-go/pkg/metrics"
	"bench-match-go/pkg/storage"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

// App 持有组装完成的服务与需要关闭的底层连接。
type App struct {
	Config   *config.Config
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics

	Requirements service.RequirementService
	Matcher      service.MatchService
	Shortlists   service.ShortlistService
	Search       service.SearchService
	Dashboard    service.DashboardService
	Corpus       *pipeline.CorpusBuilder

	// Producer 与 Consumer 仅在配置了 Kafka 时非 nil。
	Producer *kafka.Producer
	Consumer *kafka.Consumer

	db  *gorm.DB
	rdb *redis.Client
}

// New 按配置建立连接并组装服务。Redis、MinIO 与 Kafka 不可用时降级运行。
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{Config: cfg, Registry: prometheus.NewRegistry()}
	if cfg.Metrics.Enabled {
		app.Metrics = metrics.New(app.Registry, cfg.Metrics.Namespace)
	}

	db, err := database.OpenMySQL(cfg.Database.MySQL.DSN)
	if err != nil {
		return nil, err
	}
	app.db = db
	if err := database.AutoMigrate(db); err != nil {
		app.Close()
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	var cache repository.ShortlistCache
	rdb, err := database.OpenRedis(ctx, cfg.Database.Redis.Addr, cfg.Database.Redis.Password, cfg.Database.Redis.DB)
	if err != nil {
		log.Warnf("Redis 不可用，shortlist 缓存与任务重试计数将被禁用: %v", err)
	} else {
		app.rdb = rdb
		cache = repository.NewShortlistCache(rdb, time.Duration(cfg.Database.Redis.ShortlistTTLMinutes)*time.Minute)
	}

	esClient, err := es.NewClient(cfg.Elasticsearch)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("es 初始化失败: %w", err)
	}
	embedder := embedding.NewClient(cfg.Embedding)
	index := es.NewIndex(esClient, cfg.Elasticsearch.IndexName, cfg.Embedding.Dimensions, embedder.Model())
	if err := index.EnsureIndex(ctx); err != nil {
		app.Close()
		return nil, err
	}

	// 大模型不可用时，理由退回模板文本。
	completion, err := llm.NewClient(ctx, cfg.LLM)
	if err != nil {
		log.Warnf("LLM 客户端初始化失败，将使用模板理由: %v", err)
	}

	var archiver service.ShortlistArchiver
	if cfg.MinIO.Enabled {
		minioClient, err := storage.NewMinIOClient(ctx, cfg.MinIO)
		if err != nil {
			log.Warnf("MinIO 不可用，shortlist 快照不会归档: %v", err)
		} else {
			archiver = storage.NewArchiver(minioClient, cfg.MinIO.BucketName)
		}
	}

	employees := repository.NewEmployeeRepository(db)
	requirements := repository.NewRequirementRepository(db)
	app.Requirements = service.NewRequirementService(requirements)
	app.Matcher = service.NewMatchService(embedder, index, employees, completion, cfg.Matching, cfg.LLM.Timeout(), app.Metrics)
	app.Shortlists = service.NewShortlistService(repository.NewShortlistRepository(db), cache, archiver)
	app.Search = service.NewSearchService(app.Requirements, app.Matcher, app.Shortlists)
	app.Dashboard = service.NewDashboardService(repository.NewDashboardRepository(db), requirements, cfg.Matching.EligibleStatus)
	app.Corpus = pipeline.NewCorpusBuilder(employees, repository.NewCorpusEntryRepository(db), embedder, index, app.Metrics)

	if strings.TrimSpace(cfg.Kafka.Brokers) != "" {
		app.Producer = kafka.NewProducer(cfg.Kafka)
		if rdb != nil {
			app.Consumer = kafka.NewConsumer(cfg.Kafka, app.Corpus, kafka.NewRedisAttemptCounter(rdb))
		} else {
			log.Warnf("Redis 不可用，不启动 Kafka 消费者")
		}
	}
	return app, nil
}

// Close 释放所有连接。
func (a *App) Close() {
	if a.Producer != nil {
		if err := a.Producer.Close(); err != nil {
			log.Errorf("关闭 Kafka 生产者失败: %v", err)
		}
	}
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			log.Errorf("关闭 Redis 失败: %v", err)
		}
	}
	database.Close(a.db)
}
