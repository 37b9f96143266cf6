package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/Fepozopo/tonyscale/pkg/tonyscale"
	"github.com/joho/godotenv"
)

// Environment variables read by LoadConfig.
const (
	EnvBins   = "TONYSCALE_N_BINS"
	EnvColors = "TONYSCALE_N_COLORS"
	EnvDebug  = "TONYSCALE_DEBUG"
)

// Config holds the defaults a run starts from before flags are applied.
type Config struct {
	Bins   int
	Colors int
	Debug  bool
}

// LoadConfig loads the optional dotenv files (".env" when none are given)
// and then reads the TONYSCALE_* variables. Variables already present in the
// environment win over dotenv entries.
func LoadConfig(envFiles ...string) (Config, error) {
	cfg := Config{Bins: tonyscale.DefaultBins, Colors: tonyscale.DefaultColors}
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	var err error
	if cfg.Bins, err = envInt(EnvBins, cfg.Bins); err != nil {
		return cfg, err
	}
	if cfg.Colors, err = envInt(EnvColors, cfg.Colors); err != nil {
		return cfg, err
	}
	if v := os.Getenv(EnvDebug); v != "" {
		cfg.Debug, err = strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return cfg, fmt.Errorf("invalid %s: %q", EnvDebug, v)
		}
	}
	return cfg, nil
}

func envInt(name string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("invalid %s: %w", name, err)
	}
	return n, nil
}
