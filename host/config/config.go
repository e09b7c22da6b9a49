// Package config loads pwmctl settings from YAML.
package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"pwmnode/protocol"
)

const (
	TransportI2C    = "i2c"
	TransportSerial = "serial"
)

type Config struct {
	Transport string       `yaml:"transport"`
	I2C       I2CConfig    `yaml:"i2c"`
	Serial    SerialConfig `yaml:"serial"`
}

type I2CConfig struct {
	Bus     string `yaml:"bus"`
	Address uint16 `yaml:"address"`
}

type SerialConfig struct {
	Device      string        `yaml:"device"`
	Baud        int           `yaml:"baud"`
	ReadTimeout time.Duration `yaml:"read_timeout"`
}

// Default returns the configuration used when no file is given
func Default() Config {
	var cfg Config
	cfg.applyDefaults()
	return cfg
}

// Load reads a YAML file, fills in defaults and validates the result
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "read config")
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "parse config")
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Transport == "" {
		c.Transport = TransportI2C
	}
	if c.I2C.Bus == "" {
		c.I2C.Bus = "/dev/i2c-1"
	}
	if c.I2C.Address == 0 {
		c.I2C.Address = protocol.DefaultAddress
	}
	if c.Serial.Device == "" {
		c.Serial.Device = "/dev/ttyACM0"
	}
	if c.Serial.Baud <= 0 {
		c.Serial.Baud = 115200
	}
	if c.Serial.ReadTimeout <= 0 {
		c.Serial.ReadTimeout = 200 * time.Millisecond
	}
}

// Validate checks a configuration after defaults and overrides
func (c Config) Validate() error {
	switch c.Transport {
	case TransportI2C:
		if c.I2C.Address < 0x08 || c.I2C.Address > 0x77 {
			return errors.Errorf("i2c.address 0x%X out of range", c.I2C.Address)
		}
	case TransportSerial:
	default:
		return errors.Errorf("transport must be %q or %q, got %q", TransportI2C, TransportSerial, c.Transport)
	}
	return nil
}
