package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

var ErrConfigPath = errors.New("config path is empty")

type Config struct {
	Env      string         `yaml:"env"`      // Env is the current environment: local, development, production.
	Postgres PostgresConfig `yaml:"postgres"` // Postgres holds the database configuration
	HTTP     HTTPConfig     `yaml:"http"`     // HTTP holds listen addresses of the servers
	Board    BoardConfig    `yaml:"board"`    // Board holds the task board configuration
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string `yaml:"host"`     // Host is the database server address.
	Port     string `yaml:"port"`     // Port is the database server port.
	User     string `yaml:"user"`     // User is the database user.
	Password string `yaml:"password"` // Password is the database user's password.
	Dbname   string `yaml:"db_name"`  // Dbname is the name of the database.
}

// HTTPConfig struct holds the listen addresses of the task API, the board and the monitoring server.
type HTTPConfig struct {
	APIAddress     string `yaml:"api_address"`     // APIAddress is where the task REST API listens, e.g. `:8000`.
	BoardAddress   string `yaml:"board_address"`   // BoardAddress is where the rendered board page is served.
	MonitoringPort int    `yaml:"monitoring_port"` // MonitoringPort serves /metrics and /healthz.
}

// BoardConfig struct holds the configuration of the task board.
type BoardConfig struct {
	TasksURL   string        `yaml:"tasks_url"`   // TasksURL is the endpoint the board reads tasks from.
	PagePath   string        `yaml:"page_path"`   // PagePath is an optional HTML page to mount into; empty means the built-in page.
	StartDelay time.Duration `yaml:"start_delay"` // StartDelay is how long the board waits for the API before fetching.
}

const (
	defaultPostgresPort   = "5432"
	defaultAPIAddress     = ":8000"
	defaultBoardAddress   = ":8081"
	defaultMonitoringPort = 8080
	defaultTasksURL       = "http://localhost:8000/tasks/"
	defaultStartDelay     = 3 * time.Second
)

// MustLoad loads the configuration from the YAML file named by CONFIG_PATH and returns a Config struct.
// It panics when the file is missing or cannot be parsed.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		panic(ErrConfigPath.Error())
	}

	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		panic("config error: " + err.Error())
	}

	return cfg
}

// LoadFromFile reads the configuration from the given YAML file, applying defaults for missing keys.
func LoadFromFile(configPath string) (*Config, error) {
	vpr := viper.New()
	vpr.SetConfigFile(configPath)

	vpr.SetDefault("env", "local")
	vpr.SetDefault("postgres.port", defaultPostgresPort)
	vpr.SetDefault("http.api_address", defaultAPIAddress)
	vpr.SetDefault("http.board_address", defaultBoardAddress)
	vpr.SetDefault("http.monitoring_port", defaultMonitoringPort)
	vpr.SetDefault("board.tasks_url", defaultTasksURL)
	vpr.SetDefault("board.start_delay", defaultStartDelay)

	if err := vpr.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	return &Config{
		Env: vpr.GetString("env"),
		Postgres: PostgresConfig{
			Host:     vpr.GetString("postgres.host"),
			Port:     vpr.GetString("postgres.port"),
			User:     vpr.GetString("postgres.user"),
			Password: vpr.GetString("postgres.password"),
			Dbname:   vpr.GetString("postgres.db_name"),
		},
		HTTP: HTTPConfig{
			APIAddress:     vpr.GetString("http.api_address"),
			BoardAddress:   vpr.GetString("http.board_address"),
			MonitoringPort: vpr.GetInt("http.monitoring_port"),
		},
		Board: BoardConfig{
			TasksURL:   vpr.GetString("board.tasks_url"),
			PagePath:   vpr.GetString("board.page_path"),
			StartDelay: vpr.GetDuration("board.start_delay"),
		},
	}, nil
}
