package main

import (
	"io/fs"
	"os"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	envWorkers   = "PARKFEE_WORKERS"
	envUnitPrice = "PARKFEE_UNIT_PRICE"
)

// config holds runtime options. Flags override values read from the
// environment.
type config struct {
	Workers   int             // stays billed concurrently
	UnitPrice decimal.Decimal // price of one fee unit in the output currency
}

// loadConfig reads the given .env files (default ./.env) into the
// environment and builds a config from it. A missing file is not an error.
func loadConfig(logger *zap.Logger, envFiles ...string) (config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("error loading .env file", zap.Error(err))
	}

	return configFromEnv(os.Getenv)
}

func configFromEnv(getenv func(string) string) (config, error) {
	cfg := config{
		Workers:   runtime.NumCPU(),
		UnitPrice: decimal.NewFromInt(1),
	}

	if v := getenv(envWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, errors.Wrapf(err, "invalid %s", envWorkers)
		}

		cfg.Workers = n
	}

	if v := getenv(envUnitPrice); v != "" {
		price, err := decimal.NewFromString(v)
		if err != nil {
			return cfg, errors.Wrapf(err, "invalid %s", envUnitPrice)
		}

		cfg.UnitPrice = price
	}

	return cfg, cfg.validate()
}

func (c config) validate() error {
	switch {
	case c.Workers < 1:
		return errors.New("workers should be greater than 0")
	case c.UnitPrice.IsNegative():
		return errors.New("unit price should not be negative")
	}

	return nil
}
