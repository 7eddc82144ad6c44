package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/yungbote/oncograph-backend/internal/http/middleware"
	"github.com/yungbote/oncograph-backend/internal/observability"
	"github.com/yungbote/oncograph-backend/internal/platform/neo4jdb"
)

const (
	StoreDriverNeo4j  = "neo4j"
	StoreDriverMemory = "memory"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Store     StoreConfig     `mapstructure:"store"`
	Neo4j     Neo4jConfig     `mapstructure:"neo4j"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Otel      OtelConfig      `mapstructure:"otel"`
}

type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type LogConfig struct {
	Mode  string `mapstructure:"mode"`
	Level string `mapstructure:"level"`
}

type StoreConfig struct {
	Driver string `mapstructure:"driver"`
}

type Neo4jConfig struct {
	URI            string `mapstructure:"uri"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	Database       string `mapstructure:"database"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	MaxPoolSize    int    `mapstructure:"max_pool_size"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	ImportPerMinute int     `mapstructure:"import_per_minute"`
	ImportBurst     int     `mapstructure:"import_burst"`
}

type OtelConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	ServiceName string  `mapstructure:"service_name"`
	Environment string  `mapstructure:"environment"`
	Version     string  `mapstructure:"version"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
	Endpoint    string  `mapstructure:"endpoint"`
	Insecure    bool    `mapstructure:"insecure"`
	// Headers uses the OTLP "k1=v1,k2=v2" form.
	Headers string `mapstructure:"headers"`
}

// LoadConfig reads config.yaml (optional) and ONCOGRAPH_* env vars on top of defaults.
// configFile overrides the search path when non-empty.
func LoadConfig(configFile string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("ONCOGRAPH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.CORS.AllowedOrigins = splitOrigins(cfg.CORS.AllowedOrigins)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")

	v.SetDefault("log.mode", "development")
	v.SetDefault("log.level", "info")

	v.SetDefault("store.driver", StoreDriverNeo4j)

	v.SetDefault("neo4j.uri", "bolt://localhost:7687")
	v.SetDefault("neo4j.user", "neo4j")
	v.SetDefault("neo4j.password", "")
	v.SetDefault("neo4j.database", "")
	v.SetDefault("neo4j.timeout_seconds", 10)
	v.SetDefault("neo4j.max_pool_size", 50)

	v.SetDefault("cors.allowed_origins", middleware.DefaultAllowedOrigins)

	v.SetDefault("ratelimit.import_per_minute", 10)
	v.SetDefault("ratelimit.import_burst", 2)

	v.SetDefault("otel.enabled", false)
	v.SetDefault("otel.service_name", "oncograph")
	v.SetDefault("otel.environment", "")
	v.SetDefault("otel.version", "")
	v.SetDefault("otel.sample_ratio", 1.0)
	v.SetDefault("otel.endpoint", "")
	v.SetDefault("otel.insecure", false)
	v.SetDefault("otel.headers", "")
}

func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	switch c.Server.Mode {
	case "", "debug", "release", "test":
	default:
		return fmt.Errorf("invalid server mode %q", c.Server.Mode)
	}
	switch c.Store.Driver {
	case StoreDriverNeo4j:
		if strings.TrimSpace(c.Neo4j.URI) == "" {
			return fmt.Errorf("neo4j.uri is required for the neo4j store driver")
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.Otel.SampleRatio < 0 || c.Otel.SampleRatio > 1 {
		return fmt.Errorf("otel.sample_ratio must be within [0,1], got %v", c.Otel.SampleRatio)
	}
	return nil
}

func (c Config) Addr() string { return fmt.Sprintf(":%d", c.Server.Port) }

func (c Config) Neo4jClientConfig() neo4jdb.Config {
	return neo4jdb.Config{
		URI:            c.Neo4j.URI,
		User:           c.Neo4j.User,
		Password:       c.Neo4j.Password,
		Database:       c.Neo4j.Database,
		TimeoutSeconds: c.Neo4j.TimeoutSeconds,
		MaxPoolSize:    c.Neo4j.MaxPoolSize,
	}
}

func (c Config) OtelSettings() observability.OtelConfig {
	return observability.OtelConfig{
		Enabled:     c.Otel.Enabled,
		ServiceName: c.Otel.ServiceName,
		Environment: c.Otel.Environment,
		Version:     c.Otel.Version,
		SampleRatio: c.Otel.SampleRatio,
		Endpoint:    c.Otel.Endpoint,
		Insecure:    c.Otel.Insecure,
		Headers:     observability.ParseHeaders(c.Otel.Headers),
	}
}

// splitOrigins accepts both list values and a single comma-separated env string.
func splitOrigins(in []string) []string {
	out := make([]string, 0, len(in))
	for _, raw := range in {
		for _, part := range strings.Split(raw, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
