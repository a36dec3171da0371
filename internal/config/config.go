// Package config 负责加载和管理应用程序的配置。
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// 环境变量前缀，例如 BENCHMATCH_LLM_API_KEY 覆盖 llm.api_key。
const envPrefix = "BENCHMATCH"

// Config 是整个应用程序的配置结构体，与 config.yaml 文件结构对应。
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Log           LogConfig           `mapstructure:"log"`
	Kafka         KafkaConfig         `mapstructure:"kafka"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	MinIO         MinIOConfig         `mapstructure:"minio"`
	Embedding     EmbeddingConfig     `mapstructure:"embedding"`
	LLM           LLMConfig           `mapstructure:"llm"`
	Matching      MatchingConfig      `mapstructure:"matching"`
	Metrics       MetricsConfig       `mapstructure:"metrics"`
}

// ServerConfig 存储服务器相关的配置。
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// DatabaseConfig 存储所有数据库连接的配置。
type DatabaseConfig struct {
	MySQL MySQLConfig `mapstructure:"mysql"`
	Redis RedisConfig `mapstructure:"redis"`
}

// MySQLConfig 存储 MySQL 数据库的配置。
type MySQLConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig 存储 Redis 的配置。
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	// ShortlistTTLMinutes 控制 shortlist 缓存的过期时间。
	ShortlistTTLMinutes int `mapstructure:"shortlist_ttl_minutes"`
}

// LogConfig 存储日志相关的配置。
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// KafkaConfig 存储 Kafka 相关的配置。
type KafkaConfig struct {
	Brokers     string `mapstructure:"brokers"`
	Topic       string `mapstructure:"topic"`
	GroupID     string `mapstructure:"group_id"`
	MaxAttempts int    `mapstructure:"max_attempts"`
	// RetryBackoffMs 是同一任务两次重试之间的等待时间。
	RetryBackoffMs int `mapstructure:"retry_backoff_ms"`
}

// ElasticsearchConfig 存储 Elasticsearch 相关的配置。
type ElasticsearchConfig struct {
	Addresses string `mapstructure:"addresses"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	IndexName string `mapstructure:"index_name"`
}

// MinIOConfig 存储 MinIO 对象存储的配置。
type MinIOConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	BucketName      string `mapstructure:"bucket_name"`
	Enabled         bool   `mapstructure:"enabled"`
}

// EmbeddingConfig 存储 Embedding 模型相关的配置。
type EmbeddingConfig struct {
	APIKey     string `mapstructure:"api_key"`
	BaseURL    string `mapstructure:"base_url"`
	Model      string `mapstructure:"model"`
	Dimensions int    `mapstructure:"dimensions"`
}

// LLMConfig 存储大语言模型相关的配置。
type LLMConfig struct {
	// Provider 取值 openai（OpenAI 兼容接口）或 gemini。
	Provider       string              `mapstructure:"provider"`
	APIKey         string              `mapstructure:"api_key"`
	BaseURL        string              `mapstructure:"base_url"`
	Model          string              `mapstructure:"model"`
	TimeoutSeconds int                 `mapstructure:"timeout_seconds"`
	Generation     LLMGenerationConfig `mapstructure:"generation"`
}

// Timeout 返回单次补全调用的超时时间。
func (c LLMConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LLMGenerationConfig 配置生成相关参数（可选）。
type LLMGenerationConfig struct {
	Temperature float64 `mapstructure:"temperature"`
	TopP        float64 `mapstructure:"top_p"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// MatchingConfig 存储匹配引擎的可调参数。
type MatchingConfig struct {
	DefaultTopN         int    `mapstructure:"default_top_n"`
	MaxTopN             int    `mapstructure:"max_top_n"`
	RetrievalMultiplier int    `mapstructure:"retrieval_multiplier"`
	RetrievalFloor      int    `mapstructure:"retrieval_floor"`
	EligibleStatus      string `mapstructure:"eligible_status"`
	PartialStatus       string `mapstructure:"partial_status"`
	PrimarySkillScope   string `mapstructure:"primary_skill_scope"`
	NormalizeShortQuery bool   `mapstructure:"normalize_short_query"`
	RationaleWorkers    int    `mapstructure:"rationale_workers"`
}

// MetricsConfig 存储 Prometheus 指标相关的配置。
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

// setDefaults 注册所有默认值，使缺省的配置文件也能启动。
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8001")
	v.SetDefault("server.mode", "release")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("database.redis.shortlist_ttl_minutes", 60)
	v.SetDefault("kafka.topic", "corpus-sync")
	v.SetDefault("kafka.group_id", "bench-match-corpus-consumer")
	v.SetDefault("kafka.max_attempts", 3)
	v.SetDefault("kafka.retry_backoff_ms", 2000)
	v.SetDefault("elasticsearch.index_name", "employees")
	v.SetDefault("minio.bucket_name", "shortlists")
	v.SetDefault("embedding.dimensions", 768)
	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.timeout_seconds", 15)
	v.SetDefault("llm.generation.max_tokens", 160)
	v.SetDefault("matching.default_top_n", 5)
	v.SetDefault("matching.max_top_n", 20)
	v.SetDefault("matching.retrieval_multiplier", 6)
	v.SetDefault("matching.retrieval_floor", 35)
	v.SetDefault("matching.eligible_status", "inactive")
	v.SetDefault("matching.partial_status", "Partial")
	v.SetDefault("matching.primary_skill_scope", "required_skills")
	v.SetDefault("matching.normalize_short_query", true)
	v.SetDefault("matching.rationale_workers", 4)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.namespace", "benchmatch")
}

// Load 从指定的路径读取 YAML 文件并叠加环境变量，解析为 Config。
// configPath 为空时只使用默认值与环境变量。
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("无法将配置解析到结构体中: %w", err)
	}
	if err := conf.Matching.Validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}

// Validate 检查匹配参数是否合法。
func (m MatchingConfig) Validate() error {
	switch m.PrimarySkillScope {
	case PrimarySkillScopeRequiredSkills, PrimarySkillScopeQueryText:
	default:
		return fmt.Errorf("matching.primary_skill_scope 取值非法: %q", m.PrimarySkillScope)
	}
	if m.RetrievalMultiplier <= 0 || m.RetrievalFloor < 0 {
		return fmt.Errorf("matching.retrieval_multiplier 必须为正数, retrieval_floor 不能为负")
	}
	if m.EligibleStatus == "" {
		return fmt.Errorf("matching.eligible_status 不能为空")
	}
	return nil
}

// primary skill 加权规则的两种比较范围。
const (
	PrimarySkillScopeRequiredSkills = "required_skills"
	PrimarySkillScopeQueryText      = "query_text"
)
