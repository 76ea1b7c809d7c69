package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"investlab/internal/crisis"
	"investlab/internal/decision"
	"investlab/internal/options"
	"investlab/internal/pricepath"
	"investlab/internal/scoring"
	"investlab/internal/startup"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const EnvVar = "INVESTLAB_ENV"

type Config struct {
	Port int `json:"port" validate:"gte=0,lte=65535"`
	// empty means the embedded catalog
	CatalogDir string `json:"catalogDir"`

	PriceFloor float64 `json:"priceFloor" validate:"gt=0"`
	FloorTick  float64 `json:"floorTick" validate:"gt=0"`

	RetentionFactor float64 `json:"retentionFactor" validate:"gt=0,lte=1"`
	StartingCash    float64 `json:"startingCash" validate:"gte=0"`

	PartialEffect float64 `json:"partialEffect" validate:"gte=0,lte=1"`

	CrisisInitialValue float64 `json:"crisisInitialValue" validate:"gt=0"`
	CrisisMarketStart  float64 `json:"crisisMarketStart" validate:"gt=0"`
	TrackingNoise      float64 `json:"trackingNoise" validate:"gte=0,lt=1"`

	ScoringWeights scoring.Weights `json:"scoringWeights"`
	Budget         float64         `json:"budget" validate:"gt=0"`
}

func Default() Config {
	return Config{
		Port:               3009,
		PriceFloor:         pricepath.DefaultFloor,
		FloorTick:          pricepath.DefaultTick,
		RetentionFactor:    options.DefaultRetentionFactor,
		StartingCash:       10_000,
		PartialEffect:      decision.DefaultPartialEffect,
		CrisisInitialValue: 1_000_000,
		CrisisMarketStart:  100,
		TrackingNoise:      0.005,
		ScoringWeights:     scoring.DefaultWeights(),
		Budget:             100_000,
	}
}

func fileForEnv(env string) string {
	switch strings.ToLower(env) {
	case "dev":
		return "config-dev.json"
	case "test":
		return "config-test.json"
	default:
		return "config.json"
	}
}

// Load reads .env, then the json file for INVESTLAB_ENV over the
// defaults. a missing file is fine, PORT in the environment wins
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg, err := LoadFile(fileForEnv(os.Getenv(EnvVar)))
	if err != nil {
		return nil, err
	}

	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", port, err)
		}
		cfg.Port = p
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func LoadFile(path string) (*Config, error) {
	cfg := Default()

	f, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", path, err)
	}

	err = json.Unmarshal(f, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return &cfg, nil
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c Config) PricePath() pricepath.Config {
	cfg := pricepath.DefaultConfig()
	cfg.Floor = c.PriceFloor
	cfg.Tick = c.FloorTick
	return cfg
}

func (c Config) Engine() decision.Config {
	return decision.Config{PartialEffect: c.PartialEffect}
}

func (c Config) Crisis() crisis.Config {
	return crisis.Config{
		InitialValue:  decimal.NewFromFloat(c.CrisisInitialValue),
		MarketStart:   c.CrisisMarketStart,
		TrackingNoise: c.TrackingNoise,
		PricePath:     c.PricePath(),
		Engine:        c.Engine(),
	}
}

func (c Config) Startup() startup.Config {
	cfg := startup.DefaultConfig()
	cfg.Engine = c.Engine()
	return cfg
}
