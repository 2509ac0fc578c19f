package config

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/ccoveille/go-safecast"
)

const (
	DefaultGreengrassV1Config = "/greengrass/config/config.json"
	DefaultGreengrassV2Config = "/greengrass/v2/init_config/config.yaml"
	DefaultAWSProfileInfo     = "/opt/ota/iot-logger/aws_profile_info.yaml"
	DefaultECUInfoYAML        = "/boot/ota/ecu_info.yaml"

	DefaultListenAddress = "127.0.0.1"
	DefaultListenPort    = 8083

	// DefaultMaxLogsBacklog is the queue capacity; a full queue rejects
	// new records rather than displacing old ones.
	DefaultMaxLogsBacklog = 4096
	// DefaultMaxLogsPerMerge caps how many records one upload cycle drains.
	DefaultMaxLogsPerMerge = 512
	// DefaultUploadInterval is the pause between two upload cycles.
	DefaultUploadInterval = 60 * time.Second

	DefaultServerLogstreamSuffix = "iot_logging_server"
	DefaultServerLoggingLevel    = "info"
)

type Config struct {
	// GreengrassV1Config is the path of the Greengrass V1 config JSON
	GreengrassV1Config string `json:"greengrassV1Config"`
	// GreengrassV2Config is the path of the Greengrass V2 config YAML, preferred over V1 when present
	GreengrassV2Config string `json:"greengrassV2Config"`
	// AWSProfileInfo is the path of the profile table YAML
	AWSProfileInfo string `json:"awsProfileInfo"`
	// ECUInfoYAML is the path of the optional ECU allow-list file
	ECUInfoYAML string `json:"ecuInfoYAML"`
	// ListenAddress is the address both ingress servers bind to
	ListenAddress string `json:"listenAddress"`
	// ListenPort is the HTTP ingress port; the gRPC ingress binds to ListenPort+1
	ListenPort uint16 `json:"listenPort"`
	// ServerLoggingLevel is the level name for the server's own logs
	ServerLoggingLevel string `json:"serverLoggingLevel"`
	// UploadLoggingServerLogs tees the server's own logs into the upload queue
	UploadLoggingServerLogs bool `json:"uploadLoggingServerLogs"`
	// ServerLogstreamSuffix is the stream suffix used for teed server logs
	ServerLogstreamSuffix string `json:"serverLogstreamSuffix"`
	// MaxLogsBacklog is the queue capacity
	MaxLogsBacklog int `json:"maxLogsBacklog"`
	// MaxLogsPerMerge caps the records drained per upload cycle
	MaxLogsPerMerge int `json:"maxLogsPerMerge"`
	// UploadInterval is the pause between upload cycles; the env var is in seconds
	UploadInterval time.Duration `json:"uploadInterval"`
	// ExitOnConfigChange requests a process restart when a watched config file changes
	ExitOnConfigChange bool `json:"exitOnConfigChange"`
	// MetricsListenAddress serves prometheus metrics when non-empty
	MetricsListenAddress string `json:"metricsListenAddress,omitempty"`
}

func NewDefault() *Config {
	return &Config{
		GreengrassV1Config:    DefaultGreengrassV1Config,
		GreengrassV2Config:    DefaultGreengrassV2Config,
		AWSProfileInfo:        DefaultAWSProfileInfo,
		ECUInfoYAML:           DefaultECUInfoYAML,
		ListenAddress:         DefaultListenAddress,
		ListenPort:            DefaultListenPort,
		ServerLoggingLevel:    DefaultServerLoggingLevel,
		ServerLogstreamSuffix: DefaultServerLogstreamSuffix,
		MaxLogsBacklog:        DefaultMaxLogsBacklog,
		MaxLogsPerMerge:       DefaultMaxLogsPerMerge,
		UploadInterval:        DefaultUploadInterval,
		ExitOnConfigChange:    true,
	}
}

// NewFromEnv returns the default config with environment overrides applied.
func NewFromEnv() (*Config, error) {
	cfg := NewDefault()

	if v := os.Getenv("GREENGRASS_V1_CONFIG"); v != "" {
		cfg.GreengrassV1Config = v
	}
	if v := os.Getenv("GREENGRASS_V2_CONFIG"); v != "" {
		cfg.GreengrassV2Config = v
	}
	if v := os.Getenv("AWS_PROFILE_INFO"); v != "" {
		cfg.AWSProfileInfo = v
	}
	if v := os.Getenv("ECU_INFO_YAML"); v != "" {
		cfg.ECUInfoYAML = v
	}
	if v := os.Getenv("LISTEN_ADDRESS"); v != "" {
		cfg.ListenAddress = v
	}
	if v := os.Getenv("LISTEN_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parsing LISTEN_PORT: %w", err)
		}
		cfg.ListenPort, err = safecast.ToUint16(port)
		if err != nil {
			return nil, fmt.Errorf("parsing LISTEN_PORT: %w", err)
		}
	}
	if v := os.Getenv("SERVER_LOGGING_LEVEL"); v != "" {
		cfg.ServerLoggingLevel = v
	}
	if v := os.Getenv("UPLOAD_LOGGING_SERVER_LOGS"); v != "" {
		upload, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("parsing UPLOAD_LOGGING_SERVER_LOGS: %w", err)
		}
		cfg.UploadLoggingServerLogs = upload
	}
	if v := os.Getenv("SERVER_LOGSTREAM_SUFFIX"); v != "" {
		cfg.ServerLogstreamSuffix = v
	}
	if v := os.Getenv("MAX_LOGS_BACKLOG"); v != "" {
		n, err := parsePositiveInt(v)
		if err != nil {
			return nil, fmt.Errorf("parsing MAX_LOGS_BACKLOG: %w", err)
		}
		cfg.MaxLogsBacklog = n
	}
	if v := os.Getenv("MAX_LOGS_PER_MERGE"); v != "" {
		n, err := parsePositiveInt(v)
		if err != nil {
			return nil, fmt.Errorf("parsing MAX_LOGS_PER_MERGE: %w", err)
		}
		cfg.MaxLogsPerMerge = n
	}
	if v := os.Getenv("UPLOAD_INTERVAL"); v != "" {
		secs, err := parsePositiveInt(v)
		if err != nil {
			return nil, fmt.Errorf("parsing UPLOAD_INTERVAL: %w", err)
		}
		cfg.UploadInterval = time.Duration(secs) * time.Second
	}
	if v := os.Getenv("EXIT_ON_CONFIG_CHANGE"); v != "" {
		exit, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("parsing EXIT_ON_CONFIG_CHANGE: %w", err)
		}
		cfg.ExitOnConfigChange = exit
	}
	if v := os.Getenv("METRICS_LISTEN_ADDRESS"); v != "" {
		cfg.MetricsListenAddress = v
	}

	return cfg, nil
}

func parsePositiveInt(v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("value must be > 0, got %d", n)
	}
	return n, nil
}

// ListenAddr is the HTTP ingress host:port.
func (cfg *Config) ListenAddr() string {
	return net.JoinHostPort(cfg.ListenAddress, strconv.Itoa(int(cfg.ListenPort)))
}

// GRPCListenAddr is the gRPC ingress host:port, one port above the HTTP one.
func (cfg *Config) GRPCListenAddr() string {
	return net.JoinHostPort(cfg.ListenAddress, strconv.Itoa(int(cfg.ListenPort)+1))
}

func (cfg *Config) String() string {
	contents, err := json.Marshal(cfg)
	if err != nil {
		return "<error>"
	}
	return string(contents)
}
