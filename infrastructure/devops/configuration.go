package devops

import (
	"context"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

type ServerConfig struct {
	Address string `yaml:"address"`
}

type DatabaseConfig struct {
	DSN            string `yaml:"dsn"`
	MaxConnections int    `yaml:"maxConnections"`
}

type AuthConfig struct {
	// SigningSecret is the base64-encoded HMAC secret shared with the
	// identity provider.
	SigningSecret string `yaml:"signingSecret"`
}

type SlackConfig struct {
	Token          string `yaml:"token"`
	InfoChannelID  string `yaml:"infoChannel"`
	ErrorChannelID string `yaml:"errorChannel"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"maxSizeMB"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
	Console    bool   `yaml:"console"`
}

type Configuration struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Slack    SlackConfig    `yaml:"slack"`
	Log      LogConfig      `yaml:"log"`
}

var (
	once    sync.Once
	loaded  *Configuration
	loadErr error
)

// Load reads the configuration once per process. The BACKOFFICE_CONFIG_SSM
// parameter takes precedence; otherwise the yaml file at
// BACKOFFICE_CONFIG (default config.yaml) is used. Environment variables
// override the secrets so deployments never need them on disk.
func Load(ctx context.Context) (*Configuration, error) {
	once.Do(func() {
		loaded, loadErr = load(ctx)
	})
	return loaded, loadErr
}

func load(ctx context.Context) (*Configuration, error) {
	var raw []byte

	if paramName := os.Getenv("BACKOFFICE_CONFIG_SSM"); paramName != "" {
		value, err := fetchSSMParameter(ctx, paramName)
		if err != nil {
			return nil, err
		}
		raw = []byte(value)
	} else {
		path := os.Getenv("BACKOFFICE_CONFIG")
		if path == "" {
			path = "config.yaml"
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		raw = data
	}

	cfg := &Configuration{}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}

	if dsn := os.Getenv("DSN"); dsn != "" {
		cfg.Database.DSN = dsn
	}
	if secret := os.Getenv("BACKOFFICE_SIGNING_SECRET"); secret != "" {
		cfg.Auth.SigningSecret = secret
	}
	if token := os.Getenv("SLACK_BOT_TOKEN"); token != "" {
		cfg.Slack.Token = token
	}

	if cfg.Server.Address == "" {
		cfg.Server.Address = "0.0.0.0:8090"
	}
	if cfg.Database.MaxConnections <= 0 {
		cfg.Database.MaxConnections = 10
	}
	return cfg, nil
}

func fetchSSMParameter(ctx context.Context, paramName string) (string, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return "", fmt.Errorf("load aws config: %w", err)
	}

	client := ssm.NewFromConfig(awsCfg)

	out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(paramName),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("get parameter: %w", err)
	}
	return *out.Parameter.Value, nil
}
