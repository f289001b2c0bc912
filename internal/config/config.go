package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "QUIZGEN"

type Config struct {
	Server     ServerConfig
	Logger     LoggerConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Session    SessionConfig
	Export     ExportConfig
	Generation GenerationConfig
	Embedding  EmbeddingConfig
	Batch      BatchConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	BodyLimit    int
}

type LoggerConfig struct {
	Level string
	Env   string
}

type RedisConfig struct {
	Address     string `yaml:"address"`
	Password    string `yaml:"password"`
	DB          int    `yaml:"db"`
	SnapshotTTL time.Duration
}

type JWTConfig struct {
	SecretKey  string
	SessionTTL time.Duration
}

type SessionConfig struct {
	TTL           time.Duration
	SweepInterval time.Duration
}

type ExportConfig struct {
	Dir string
}

// GenerationConfig holds the knobs of the extraction and synthesis pipeline.
type GenerationConfig struct {
	KeywordPool      int
	TopicPool        int
	AnalysisKeywords int
	AnalysisEntities int
	AnalysisTopics   int
	TopicTerms       int
	MaxFeatures      int
	LDAMaxIter       int
	MaxQuestions     int
	Seed             int64
	GazetteerPath    string
}

type EmbeddingConfig struct {
	VectorSize   int
	Window       int
	Epochs       int
	Negative     int
	LearningRate float64
	Seed         int64
}

type BatchConfig struct {
	Concurrency int
	Format      string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", "20s")
	v.SetDefault("server.write_timeout", "20s")
	v.SetDefault("server.idle_timeout", "20s")
	v.SetDefault("server.body_limit", 10*1024*1024)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.env", "development")

	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.snapshot_ttl", "30m")

	v.SetDefault("jwt.secret_key", "")
	v.SetDefault("jwt.session_ttl", "24h")

	v.SetDefault("session.ttl", "2h")
	v.SetDefault("session.sweep_interval", "5m")

	v.SetDefault("export.dir", ".")

	v.SetDefault("generation.keyword_pool", 20)
	v.SetDefault("generation.topic_pool", 5)
	v.SetDefault("generation.analysis_keywords", 10)
	v.SetDefault("generation.analysis_entities", 10)
	v.SetDefault("generation.analysis_topics", 3)
	v.SetDefault("generation.topic_terms", 5)
	v.SetDefault("generation.max_features", 100)
	v.SetDefault("generation.lda_max_iter", 10)
	v.SetDefault("generation.max_questions", 100)
	v.SetDefault("generation.seed", 42)
	v.SetDefault("generation.gazetteer_path", "")

	v.SetDefault("embedding.vector_size", 50)
	v.SetDefault("embedding.window", 5)
	v.SetDefault("embedding.epochs", 5)
	v.SetDefault("embedding.negative", 5)
	v.SetDefault("embedding.learning_rate", 0.025)
	v.SetDefault("embedding.seed", 42)

	v.SetDefault("batch.concurrency", 4)
	v.SetDefault("batch.format", "native")
}

// LoadConfig searches the usual locations for config.yaml. A missing file is not
// an error: defaults and QUIZGEN_* environment variables still apply.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		v.AddConfigPath("../../configs")
		v.AddConfigPath("../../")
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	return load(v, false)
}

// LoadConfigFrom reads the configuration from an explicit file path.
func LoadConfigFrom(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return load(v, true)
}

func load(v *viper.Viper, required bool) (*Config, error) {
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if required || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", absPath)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
			IdleTimeout:  v.GetDuration("server.idle_timeout"),
			BodyLimit:    v.GetInt("server.body_limit"),
		},
		Logger: LoggerConfig{
			Level: v.GetString("logger.level"),
			Env:   v.GetString("logger.env"),
		},
		Redis: RedisConfig{
			Address:     v.GetString("redis.address"),
			Password:    v.GetString("redis.password"),
			DB:          v.GetInt("redis.db"),
			SnapshotTTL: v.GetDuration("redis.snapshot_ttl"),
		},
		JWT: JWTConfig{
			SecretKey:  v.GetString("jwt.secret_key"),
			SessionTTL: v.GetDuration("jwt.session_ttl"),
		},
		Session: SessionConfig{
			TTL:           v.GetDuration("session.ttl"),
			SweepInterval: v.GetDuration("session.sweep_interval"),
		},
		Export: ExportConfig{
			Dir: v.GetString("export.dir"),
		},
		Generation: GenerationConfig{
			KeywordPool:      v.GetInt("generation.keyword_pool"),
			TopicPool:        v.GetInt("generation.topic_pool"),
			AnalysisKeywords: v.GetInt("generation.analysis_keywords"),
			AnalysisEntities: v.GetInt("generation.analysis_entities"),
			AnalysisTopics:   v.GetInt("generation.analysis_topics"),
			TopicTerms:       v.GetInt("generation.topic_terms"),
			MaxFeatures:      v.GetInt("generation.max_features"),
			LDAMaxIter:       v.GetInt("generation.lda_max_iter"),
			MaxQuestions:     v.GetInt("generation.max_questions"),
			Seed:             v.GetInt64("generation.seed"),
			GazetteerPath:    v.GetString("generation.gazetteer_path"),
		},
		Embedding: EmbeddingConfig{
			VectorSize:   v.GetInt("embedding.vector_size"),
			Window:       v.GetInt("embedding.window"),
			Epochs:       v.GetInt("embedding.epochs"),
			Negative:     v.GetInt("embedding.negative"),
			LearningRate: v.GetFloat64("embedding.learning_rate"),
			Seed:         v.GetInt64("embedding.seed"),
		},
		Batch: BatchConfig{
			Concurrency: v.GetInt("batch.concurrency"),
			Format:      v.GetString("batch.format"),
		},
	}

	return cfg, nil
}

// Default returns the configuration built from defaults only.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg, _ := load(v, false)
	return cfg
}
