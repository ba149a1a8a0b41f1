package main

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"

	qhttp "teamscore/http"
	"teamscore/logging"
	"teamscore/ml"
	"teamscore/monitoring"
)

type Config struct {
	Http struct {
		Host         string        `yaml:"host"`
		Port         int           `yaml:"port"`
		Timeout      time.Duration `yaml:"timeout"`
		MaxBodyBytes int64         `yaml:"max_body_bytes"`
	} `yaml:"http"`
	Model struct {
		Type                  string   `yaml:"type"`
		Path                  string   `yaml:"path"`
		UnknownCategoryPolicy string   `yaml:"unknown_category_policy"`
		CacheSize             int      `yaml:"cache_size"`
		FeatureColumns        []string `yaml:"feature_columns"`
	} `yaml:"model"`
	Log struct {
		Level      string `yaml:"level"`
		File       string `yaml:"file"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
	} `yaml:"log"`
}

func defaultConfig() *Config {
	server := qhttp.DefaultServerConfig()

	var config Config
	config.Http.Host = server.Host
	config.Http.Port = server.Port
	config.Http.Timeout = server.Timeout
	config.Http.MaxBodyBytes = server.MaxBodyBytes
	config.Model.Path = "model/toxic_teammate_model.json"
	config.Model.UnknownCategoryPolicy = ml.ZeroFill.String()
	config.Model.CacheSize = 256
	config.Log.Level = "info"
	config.Log.MaxSizeMB = 50
	config.Log.MaxBackups = 3
	config.Log.MaxAgeDays = 28
	return &config
}

func main() {
	// 1. Load config
	config, err := loadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Logger
	logger, closeLogs, err := logging.New(logging.Config{
		Level:      config.Log.Level,
		File:       config.Log.File,
		MaxSizeMB:  config.Log.MaxSizeMB,
		MaxBackups: config.Log.MaxBackups,
		MaxAgeDays: config.Log.MaxAgeDays,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer closeLogs()

	// 3. Load the model and build the server
	server, err := newServer(config, logger)
	if err != nil {
		logger.Fatal("failed to build server", zap.Error(err))
	}

	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// 4. Handle graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	if err := server.Stop(); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	logger.Info("exiting")
}

// loadConfig reads path over the defaults. A missing file is not an error.
func loadConfig(path string) (*Config, error) {
	config := defaultConfig()

	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(config); err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	return config, nil
}

// newServer loads the classifier once and wires it into the HTTP handler.
// A model that fails to load leaves the server running without a predictor.
func newServer(config *Config, logger *zap.Logger) (*qhttp.Server, error) {
	schema := ml.DefaultFeatureSchema()
	if len(config.Model.FeatureColumns) > 0 {
		custom, err := ml.NewFeatureSchema(config.Model.FeatureColumns)
		if err != nil {
			return nil, errors.Wrap(err, "feature columns")
		}
		schema = custom
	}
	policy, err := ml.ParseUnknownCategoryPolicy(config.Model.UnknownCategoryPolicy)
	if err != nil {
		return nil, err
	}

	var predictor ml.Predictor
	logger.Info("loading model", zap.String("path", config.Model.Path))
	model, err := ml.LoadModelForSchema(config.Model.Type, config.Model.Path, schema)
	if err != nil {
		logger.Error("model not loaded, predictions will fail", zap.String("error", fmt.Sprintf("%+v", err)))
	} else {
		logger.Info("model loaded",
			zap.Int("features", model.NumFeatures()),
			zap.Strings("classes", model.Classes()),
		)
		var base ml.Predictor = ml.NewModelPredictor(model)
		if config.Model.CacheSize > 0 {
			cached, err := ml.NewCachedPredictor(base, config.Model.CacheSize)
			if err != nil {
				return nil, err
			}
			base = cached
		}
		predictor = base
	}

	handler := qhttp.NewHandler(qhttp.HandlerConfig{
		Predictor: predictor,
		Encoder:   ml.NewEncoder(schema, policy),
		Metrics:   monitoring.NewMetricsCollector(),
		Logger:    logger,
	})

	serverConfig := qhttp.DefaultServerConfig()
	serverConfig.Host = config.Http.Host
	serverConfig.Port = config.Http.Port
	serverConfig.Timeout = config.Http.Timeout
	serverConfig.MaxBodyBytes = config.Http.MaxBodyBytes
	return qhttp.NewServer(serverConfig, handler, logger), nil
}
