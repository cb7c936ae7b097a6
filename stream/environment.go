package stream

import (
	"errors"
	"fmt"

	"github.com/rabbitmq/rabbitmq-stream-go-client/pkg/stream"
)

type EnvironmentConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Url      string
}

func (cfg EnvironmentConfig) Validate() error {
	if cfg.Url != "" {
		return nil
	}
	if cfg.Host == "" {
		return errors.New("host is required")
	}
	if cfg.Port == 0 {
		return errors.New("port is required")
	}
	return nil
}

// NewEnvironment connects to the stream plugin. Url wins over the discrete
// host settings.
func NewEnvironment(cfg EnvironmentConfig) (*stream.Environment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := stream.NewEnvironmentOptions()
	if cfg.Url != "" {
		opts = opts.SetUri(cfg.Url)
	} else {
		opts = opts.
			SetHost(cfg.Host).
			SetPort(cfg.Port).
			SetUser(cfg.User).
			SetPassword(cfg.Password)
	}

	env, err := stream.NewEnvironment(opts)
	if err != nil {
		return nil, fmt.Errorf("stream environment: %w", err)
	}
	return env, nil
}

// DeclareStream creates the stream when missing, capped at maxBytes.
func DeclareStream(env *stream.Environment, name string, maxBytes int64) error {
	err := env.DeclareStream(name, stream.NewStreamOptions().
		SetMaxLengthBytes(stream.ByteCapacity{}.B(maxBytes)))
	if err != nil && !errors.Is(err, stream.StreamAlreadyExists) {
		return fmt.Errorf("declare stream %s: %w", name, err)
	}
	return nil
}
