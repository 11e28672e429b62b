package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/alimgiray/coursescope/internal/stats"
	"github.com/alimgiray/coursescope/pkg/logger"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	GitHub     GitHubConfig
	Statistics StatisticsConfig
	Collection CollectionConfig
}

type ServerConfig struct {
	Port         string
	Mode         string
	ReadTimeout  int
	WriteTimeout int
	// APIToken guards the API when set
	APIToken     string
}

type DatabaseConfig struct {
	Path string
}

type GitHubConfig struct {
	Token             string
	RequestsPerSecond int
	// ClonePath is where repositories without a local path are cloned
	ClonePath         string
}

type StatisticsConfig struct {
	// IgnoredExtensions applies to every repository on top of per-project exclusions
	IgnoredExtensions []string
	GroupsFile        string
	Groups            []stats.GroupDefinition
}

type CollectionConfig struct {
	Workers         int
	// IntervalMinutes is how long a repository rests between two refreshes
	IntervalMinutes int
}

// groupsFile is the on-disk layout of STATS_GROUPS_FILE
type groupsFile struct {
	Groups []stats.GroupDefinition `yaml:"groups"`
}

var AppConfig *Config

// Load loads configuration from .env file and environment variables
func Load() error {
	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Mode:         getEnv("GIN_MODE", "release"),
			ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 15),
			APIToken:     getEnv("API_TOKEN", ""),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./coursescope.db"),
		},
		GitHub: GitHubConfig{
			Token:             getEnv("GITHUB_TOKEN", ""),
			RequestsPerSecond: getEnvAsInt("GITHUB_REQUESTS_PER_SECOND", 10),
			ClonePath:         getEnv("CLONE_BASE_PATH", "./clones"),
		},
		Statistics: StatisticsConfig{
			IgnoredExtensions: getEnvAsList("STATS_IGNORED_EXTENSIONS", stats.DefaultIgnoredExtensions),
			GroupsFile:        getEnv("STATS_GROUPS_FILE", ""),
		},
		Collection: CollectionConfig{
			Workers:         getEnvAsInt("COLLECTION_WORKERS", 1),
			IntervalMinutes: getEnvAsInt("COLLECTION_INTERVAL_MINUTES", 60),
		},
	}

	groups, err := LoadGroups(cfg.Statistics.GroupsFile)
	if err != nil {
		return err
	}
	cfg.Statistics.Groups = groups

	AppConfig = cfg
	return nil
}

// LoadGroups reads category definitions from a YAML file. An empty path returns the
// built-in categories.
func LoadGroups(path string) ([]stats.GroupDefinition, error) {
	if path == "" {
		return stats.DefaultGroupDefinitions(), nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read groups file: %w", err)
	}

	var file groupsFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("failed to parse groups file: %w", err)
	}
	if len(file.Groups) == 0 {
		return nil, fmt.Errorf("groups file %s defines no groups", path)
	}

	// validate now so a bad file fails at startup
	if _, err := stats.NewGroups(file.Groups...); err != nil {
		return nil, fmt.Errorf("invalid groups file %s: %w", path, err)
	}
	return file.Groups, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma separated variable, dropping blanks
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
