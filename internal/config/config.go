package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Ingest    IngestConfig    `yaml:"ingest"`
	Analytics AnalyticsConfig `yaml:"analytics"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// GetHost returns the server host, with container detection
func (c ServerConfig) GetHost() string {
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return "0.0.0.0"
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	return c.Host
}

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	URL     string `yaml:"url"`
	Enabled bool   `yaml:"enabled"`
}

// RedisConfig holds result-cache settings
type RedisConfig struct {
	Addr       string `yaml:"addr"`
	Password   string `yaml:"password"`
	DB         int    `yaml:"db"`
	TTLSeconds int    `yaml:"ttl_seconds"`
	Enabled    bool   `yaml:"enabled"`
}

// IngestConfig holds order-file ingestion settings. Orders load either from
// a local CSV path or from an S3 object, whichever is configured.
type IngestConfig struct {
	CSVPath    string `yaml:"csv_path"`
	S3Bucket   string `yaml:"s3_bucket"`
	S3Key      string `yaml:"s3_key"`
	S3Region   string `yaml:"s3_region"`
	AWSProfile string `yaml:"aws_profile"`
}

// AnalyticsConfig holds the knobs of the analytics pipeline. Every value has
// a default so an empty block runs the standard analysis.
type AnalyticsConfig struct {
	QuintileCount         int     `yaml:"quintile_count"`
	ClusterCount          int     `yaml:"cluster_count"`
	RandomSeed            int64   `yaml:"random_seed"`
	MaxClusterIterations  int     `yaml:"max_cluster_iterations"`
	DiscountThreshold     float64 `yaml:"discount_threshold"`
	DiscountCap           float64 `yaml:"discount_cap"`
	ElasticityCoefficient float64 `yaml:"elasticity_coefficient"`
	ForecastHorizon       int     `yaml:"forecast_horizon"`
	SeasonalPeriod        int     `yaml:"seasonal_period"`
	ForecastGranularity   string  `yaml:"forecast_granularity"`

	// Zero is a valid value for these four knobs, so decoding records which
	// keys the file actually set and defaulting skips them.
	seedSet       bool
	thresholdSet  bool
	capSet        bool
	elasticitySet bool
}

// UnmarshalYAML distinguishes keys explicitly set to zero from keys absent
// from the file. A zero seed, threshold, cap, or elasticity coefficient is
// legitimate configuration and must survive defaulting.
func (a *AnalyticsConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		QuintileCount         int      `yaml:"quintile_count"`
		ClusterCount          int      `yaml:"cluster_count"`
		RandomSeed            *int64   `yaml:"random_seed"`
		MaxClusterIterations  int      `yaml:"max_cluster_iterations"`
		DiscountThreshold     *float64 `yaml:"discount_threshold"`
		DiscountCap           *float64 `yaml:"discount_cap"`
		ElasticityCoefficient *float64 `yaml:"elasticity_coefficient"`
		ForecastHorizon       int      `yaml:"forecast_horizon"`
		SeasonalPeriod        int      `yaml:"seasonal_period"`
		ForecastGranularity   string   `yaml:"forecast_granularity"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	a.QuintileCount = raw.QuintileCount
	a.ClusterCount = raw.ClusterCount
	a.MaxClusterIterations = raw.MaxClusterIterations
	a.ForecastHorizon = raw.ForecastHorizon
	a.SeasonalPeriod = raw.SeasonalPeriod
	a.ForecastGranularity = raw.ForecastGranularity

	if raw.RandomSeed != nil {
		a.RandomSeed = *raw.RandomSeed
		a.seedSet = true
	}
	if raw.DiscountThreshold != nil {
		a.DiscountThreshold = *raw.DiscountThreshold
		a.thresholdSet = true
	}
	if raw.DiscountCap != nil {
		a.DiscountCap = *raw.DiscountCap
		a.capSet = true
	}
	if raw.ElasticityCoefficient != nil {
		a.ElasticityCoefficient = *raw.ElasticityCoefficient
		a.elasticitySet = true
	}
	return nil
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Redis.TTLSeconds == 0 {
		cfg.Redis.TTLSeconds = 300
	}
	if cfg.Ingest.S3Region == "" {
		cfg.Ingest.S3Region = "us-east-1"
	}
	applyAnalyticsDefaults(&cfg.Analytics)

	return &cfg, nil
}

func applyAnalyticsDefaults(a *AnalyticsConfig) {
	if a.QuintileCount == 0 {
		a.QuintileCount = 5
	}
	if a.ClusterCount == 0 {
		a.ClusterCount = 4
	}
	if a.RandomSeed == 0 && !a.seedSet {
		a.RandomSeed = 42
	}
	if a.MaxClusterIterations == 0 {
		a.MaxClusterIterations = 300
	}
	if a.DiscountThreshold == 0 && !a.thresholdSet {
		a.DiscountThreshold = 0.30
	}
	if a.DiscountCap == 0 && !a.capSet {
		a.DiscountCap = 0.20
	}
	if a.ElasticityCoefficient == 0 && !a.elasticitySet {
		a.ElasticityCoefficient = 0.5
	}
	if a.ForecastHorizon == 0 {
		a.ForecastHorizon = 3
	}
	if a.ForecastGranularity == "" {
		a.ForecastGranularity = "month"
	}
	// The seasonal period default depends on the granularity, so it resolves
	// after the granularity has.
	if a.SeasonalPeriod == 0 {
		if a.ForecastGranularity == "quarter" {
			a.SeasonalPeriod = 4
		} else {
			a.SeasonalPeriod = 12
		}
	}
}

// Default returns a config with every analytics default applied, for callers
// that run the pipeline without a config file (tests, library use).
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Port = 8080
	cfg.Server.Host = "localhost"
	cfg.Redis.Addr = "localhost:6379"
	cfg.Redis.TTLSeconds = 300
	cfg.Ingest.S3Region = "us-east-1"
	applyAnalyticsDefaults(&cfg.Analytics)
	return cfg
}

// LoadFromEnv loads configuration with environment variable overrides.
// It loads a .env file (if present) before reading env vars, so secrets can
// live in .env locally and in real env vars on ECS.
func LoadFromEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.Database.URL = dbURL
		cfg.Database.Enabled = true
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
		cfg.Redis.Enabled = true
	}
	if pw := os.Getenv("REDIS_PASSWORD"); pw != "" {
		cfg.Redis.Password = pw
	}
	if v := os.Getenv("ORDERS_CSV_PATH"); v != "" {
		cfg.Ingest.CSVPath = v
	}
	if v := os.Getenv("ORDERS_S3_BUCKET"); v != "" {
		cfg.Ingest.S3Bucket = v
	}
	if v := os.Getenv("ORDERS_S3_KEY"); v != "" {
		cfg.Ingest.S3Key = v
	}
	if v := os.Getenv("ORDERS_S3_REGION"); v != "" {
		cfg.Ingest.S3Region = v
	}
	if v := os.Getenv("ANALYTICS_RANDOM_SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Analytics.RandomSeed = seed
		}
	}

	return cfg, nil
}
