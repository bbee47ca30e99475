// Package config loads the host tool configuration from YAML with environment overrides
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/calvinmclean/servospeed"
	"github.com/calvinmclean/servospeed/sim"
	"github.com/calvinmclean/servospeed/trial"
)

// SerialConfig selects the port the device console is attached to. Port "none" runs the simulator
type SerialConfig struct {
	Port     string `yaml:"port"`
	BaudRate int    `yaml:"baud_rate"`
}

// ReportConfig is the babyapi server that measurements are posted to
type ReportConfig struct {
	Addr    string `yaml:"addr"`
	Session string `yaml:"session"`
}

// MQTTConfig publishes measurements to a broker when Broker is set
type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
	Topic    string `yaml:"topic"`
}

type PCA9685Config struct {
	Enabled bool   `yaml:"enabled"`
	Bus     string `yaml:"bus"`
	Address uint16 `yaml:"address"`
	Channel int    `yaml:"channel"`
}

// BoardConfig names the pins used when the console runs directly on a Linux board
type BoardConfig struct {
	PWMPin          string        `yaml:"pwm_pin"`
	SensorPin       string        `yaml:"sensor_pin"`
	SensorActiveLow bool          `yaml:"sensor_active_low"`
	SensorPull      string        `yaml:"sensor_pull"`
	LEDPin          string        `yaml:"led_pin"`
	LEDActiveLow    bool          `yaml:"led_active_low"`
	ClockResolution time.Duration `yaml:"clock_resolution"`
	PCA9685         PCA9685Config `yaml:"pca9685"`
}

// Sensor pin bias values for BoardConfig.SensorPull
const (
	PullUp   = "up"
	PullDown = "down"
	PullNone = "none"
)

type Config struct {
	Serial  SerialConfig       `yaml:"serial"`
	Report  ReportConfig       `yaml:"report"`
	MQTT    MQTTConfig         `yaml:"mqtt"`
	Board   BoardConfig        `yaml:"board"`
	Trial   trial.Config       `yaml:"trial"`
	Profile servospeed.Profile `yaml:"profile"`
	Sim     sim.Config         `yaml:"sim"`
}

// Default returns the configuration used when no file is provided
func Default() Config {
	return Config{
		Serial: SerialConfig{
			BaudRate: 115200,
		},
		MQTT: MQTTConfig{
			ClientID: "servospeed",
			Topic:    "servospeed/measurements",
		},
		Board: BoardConfig{
			PWMPin:          "GPIO18",
			SensorPin:       "GPIO17",
			SensorActiveLow: false,
			SensorPull:      PullUp,
			LEDPin:          "GPIO27",
			ClockResolution: time.Microsecond,
			PCA9685: PCA9685Config{
				Address: 0x40,
			},
		},
		Trial:   trial.DefaultConfig(),
		Profile: servospeed.DefaultProfile(),
		Sim:     sim.DefaultConfig(),
	}
}

// Load reads the YAML file at path on top of the defaults and applies environment overrides. An
// empty path only applies the overrides
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("error reading config: %w", err)
		}

		err = yaml.Unmarshal(data, &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("error parsing config: %w", err)
		}
	}

	err := cfg.ApplyEnv()
	if err != nil {
		return Config{}, err
	}

	return cfg, cfg.Validate()
}

// ApplyEnv overrides values from SERVOSPEED_* environment variables
func (c *Config) ApplyEnv() error {
	if v, ok := os.LookupEnv("SERVOSPEED_SERIAL_PORT"); ok {
		c.Serial.Port = v
	}
	if v, ok := os.LookupEnv("SERVOSPEED_BAUD_RATE"); ok {
		baud, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SERVOSPEED_BAUD_RATE %q: %w", v, err)
		}
		c.Serial.BaudRate = baud
	}
	if v, ok := os.LookupEnv("SERVOSPEED_REPORT_ADDR"); ok {
		c.Report.Addr = v
	}
	if v, ok := os.LookupEnv("SERVOSPEED_SESSION"); ok {
		c.Report.Session = v
	}
	if v, ok := os.LookupEnv("SERVOSPEED_MQTT_BROKER"); ok {
		c.MQTT.Broker = v
	}
	return nil
}

// Validate checks the values that would otherwise fail later on the device
func (c Config) Validate() error {
	if c.Serial.BaudRate <= 0 {
		return fmt.Errorf("invalid baud rate: %d", c.Serial.BaudRate)
	}
	if c.Profile.RateHz <= 0 {
		return fmt.Errorf("invalid refresh rate: %dHz", c.Profile.RateHz)
	}
	switch c.Board.SensorPull {
	case PullUp, PullDown, PullNone:
	default:
		return fmt.Errorf("invalid sensor pull: %q", c.Board.SensorPull)
	}
	if c.Sim.TicksPerPoll == 0 {
		return fmt.Errorf("sim ticks_per_poll must be positive")
	}
	if c.Trial.SettleFactor < 0 {
		return fmt.Errorf("invalid settle factor: %v", c.Trial.SettleFactor)
	}
	if c.MQTT.Broker != "" && c.MQTT.Topic == "" {
		return fmt.Errorf("mqtt topic is required")
	}
	return nil
}
