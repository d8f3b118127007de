package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

var (
	ErrConfigFileNotFound    = errors.New("could not find config file in any config path")
	ErrConfigVersionMissing  = errors.New("config file is missing version field")
	ErrConfigVersionMismatch = errors.New("config file version mismatch")
	ErrRankTableEmpty        = errors.New("rank table must define at least one tier")
	ErrRankTableOrder        = errors.New("rank table thresholds must be strictly increasing")
)

// CurrentVersion is the supported engine config file version.
const CurrentVersion = 1

// Config represents the entire engine configuration.
type Config struct {
	// Version of the config file.
	Version     int         `koanf:"version"`
	Debug       Debug       `koanf:"debug"`
	PostgreSQL  PostgreSQL  `koanf:"postgresql"`
	Redis       Redis       `koanf:"redis"`
	Points      Points      `koanf:"points"`
	Ranks       []RankTier  `koanf:"ranks"`
	Leaderboard Leaderboard `koanf:"leaderboard"`
	Worker      Worker      `koanf:"worker"`
}

// Debug contains debug-related configuration.
type Debug struct {
	// Log level (debug, info, warn, error).
	LogLevel string `koanf:"log_level"`
}

// PostgreSQL contains database connection configuration.
type PostgreSQL struct {
	Host         string `koanf:"host"`
	Port         int    `koanf:"port"`
	User         string `koanf:"user"`
	Password     string `koanf:"password"`
	DBName       string `koanf:"db_name"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	// Connection lifetime limits in minutes.
	MaxLifetime int `koanf:"max_lifetime"`
	MaxIdleTime int `koanf:"max_idle_time"`
}

// Redis contains Redis connection configuration.
type Redis struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
}

// Points is the point economy: the base delta awarded per event kind.
// The ledger and the recalculation service share these weights so the
// incremental and rebuilt totals cannot drift apart.
type Points struct {
	Post          int64 `koanf:"post"`
	Thread        int64 `koanf:"thread"`
	Vote          int64 `koanf:"vote"`
	Solution      int64 `koanf:"solution"`
	DailyActivity int64 `koanf:"daily_activity"`
	StreakBonus   int64 `koanf:"streak_bonus"`
	// StreakLength is the streak interval that triggers the bonus award.
	StreakLength int `koanf:"streak_length"`
}

// RankTier is one row of the ordered rank threshold table.
type RankTier struct {
	Name string `koanf:"name"`
	// Level is the 1-based rank level.
	Level int `koanf:"level"`
	// MinPoints is the lowest total that qualifies for this tier.
	MinPoints int64 `koanf:"min_points"`
}

// Leaderboard contains leaderboard cache configuration.
type Leaderboard struct {
	// SnapshotSize is the number of rows cached per snapshot.
	SnapshotSize int `koanf:"snapshot_size"`
	// CacheTTL is the snapshot lifetime in seconds.
	CacheTTL int `koanf:"cache_ttl"`
}

// Worker contains streak sweep worker configuration.
type Worker struct {
	// SweepHourUTC is the hour of day (UTC) the streak sweep runs.
	SweepHourUTC int `koanf:"sweep_hour_utc"`
	// BatchSize is the number of accounts reset per query.
	BatchSize int `koanf:"batch_size"`
}

// DefaultPoints returns the standard point economy. Values match the forum's
// published reward table.
func DefaultPoints() Points {
	return Points{
		Post:          5,
		Thread:        10,
		Vote:          2,
		Solution:      25,
		DailyActivity: 1,
		StreakBonus:   5,
		StreakLength:  7,
	}
}

// DefaultRanks returns the standard rank threshold table, lowest tier first.
func DefaultRanks() []RankTier {
	return []RankTier{
		{Name: "Newcomer", Level: 1, MinPoints: 0},
		{Name: "Contributor", Level: 2, MinPoints: 100},
		{Name: "Regular", Level: 3, MinPoints: 500},
		{Name: "Veteran", Level: 4, MinPoints: 1500},
		{Name: "Expert", Level: 5, MinPoints: 4000},
		{Name: "Legend", Level: 6, MinPoints: 10000},
	}
}

// LoadConfig loads the engine configuration file from the search paths and
// returns the config along with the directory it was loaded from.
func LoadConfig() (*Config, string, error) {
	k := koanf.New(".")

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get home directory: %w", err)
	}

	configPaths := []string{
		".reputation",
		homeDir + "/.reputation/config",
		"/etc/reputation/config",
		"/app/config",
		"config",
		".",
	}

	var usedConfigPath string

	for _, path := range configPaths {
		configPath := fmt.Sprintf("%s/engine.toml", path)
		if err := k.Load(file.Provider(configPath), toml.Parser()); err == nil {
			usedConfigPath = path
			break
		}
	}

	if usedConfigPath == "" {
		return nil, "", fmt.Errorf("%w: engine.toml", ErrConfigFileNotFound)
	}

	config := Config{
		Points: DefaultPoints(),
	}
	if err := k.Unmarshal("", &config); err != nil {
		return nil, "", fmt.Errorf("error unmarshaling config: %w", err)
	}

	if len(config.Ranks) == 0 {
		config.Ranks = DefaultRanks()
	}

	if config.Version == 0 {
		return nil, "", fmt.Errorf("%w: engine.toml", ErrConfigVersionMissing)
	}

	if config.Version != CurrentVersion {
		return nil, "", fmt.Errorf("%w: engine.toml has version %d, expected %d",
			ErrConfigVersionMismatch, config.Version, CurrentVersion)
	}

	if err := validateRanks(config.Ranks); err != nil {
		return nil, "", err
	}

	return &config, usedConfigPath, nil
}

// validateRanks ensures the threshold table is usable: non-empty, starting at
// zero, with strictly increasing thresholds.
func validateRanks(ranks []RankTier) error {
	if len(ranks) == 0 {
		return ErrRankTableEmpty
	}

	if ranks[0].MinPoints != 0 {
		return fmt.Errorf("%w: first tier must start at 0 points", ErrRankTableOrder)
	}

	for i := 1; i < len(ranks); i++ {
		if ranks[i].MinPoints <= ranks[i-1].MinPoints {
			return fmt.Errorf("%w: tier %q does not exceed tier %q",
				ErrRankTableOrder, ranks[i].Name, ranks[i-1].Name)
		}
	}

	return nil
}
