package config

import (
	"fmt"
	"net"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/denwilliams/go-yeelight-mqtt/internal/logging"
	"github.com/denwilliams/go-yeelight-mqtt/internal/yeelight"
	"github.com/joho/godotenv"
)

// DefaultBulb names the bulb configured through YEELIGHT_HOST.
const DefaultBulb = "default"

type Config struct {
	// Bulbs maps a bulb name, used in MQTT topics, to its address.
	Bulbs       map[string]yeelight.Config
	DialTimeout time.Duration
	IOTimeout   time.Duration

	MQTTURI     string
	TopicPrefix string
	HTTPPort    int
	LogLevel    string
}

func Default() Config {
	return Config{
		Bulbs:       map[string]yeelight.Config{},
		DialTimeout: 5 * time.Second,
		IOTimeout:   5 * time.Second,
		TopicPrefix: "yeelight",
		LogLevel:    "info",
	}
}

// Bulb returns the named bulb with the shared timeouts applied.
func (c Config) Bulb(name string) (yeelight.Config, bool) {
	b, ok := c.Bulbs[name]
	if !ok {
		return yeelight.Config{}, false
	}
	if b.DialTimeout == 0 {
		b.DialTimeout = c.DialTimeout
	}
	if b.IOTimeout == 0 {
		b.IOTimeout = c.IOTimeout
	}
	return b, true
}

// BulbNames lists configured bulbs in sorted order.
func (c Config) BulbNames() []string {
	names := make([]string, 0, len(c.Bulbs))
	for n := range c.Bulbs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Load reads envFile into the environment, then builds the config from the
// defaults, the TOML file named by YEELIGHT_CONFIG and finally the
// environment, each layer overriding the previous one.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			logging.Warn("Unable to load %s", envFile)
		}
	}

	cfg := Default()
	if path := os.Getenv("YEELIGHT_CONFIG"); path != "" {
		var err error
		if cfg, err = LoadFile(path, cfg); err != nil {
			return Config{}, err
		}
	}
	return FromEnv(cfg, os.Getenv)
}

type fileBulb struct {
	Name string `toml:"name"`
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

type fileConfig struct {
	Host        string     `toml:"host"`
	Port        int        `toml:"port"`
	DialTimeout string     `toml:"dial_timeout"`
	IOTimeout   string     `toml:"io_timeout"`
	MQTTURI     string     `toml:"mqtt_uri"`
	TopicPrefix string     `toml:"mqtt_topic_prefix"`
	HTTPPort    int        `toml:"http_port"`
	LogLevel    string     `toml:"log_level"`
	Bulbs       []fileBulb `toml:"bulb"`
}

// LoadFile overlays the keys present in a TOML file on cfg.
func LoadFile(path string, cfg Config) (Config, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	cfg.Bulbs = cloneBulbs(cfg.Bulbs)

	if meta.IsDefined("host") {
		cfg.Bulbs[DefaultBulb] = yeelight.Config{Host: strings.TrimSpace(raw.Host), Port: raw.Port}
	}
	if meta.IsDefined("dial_timeout") {
		if cfg.DialTimeout, err = time.ParseDuration(strings.TrimSpace(raw.DialTimeout)); err != nil {
			return Config{}, fmt.Errorf("parse dial_timeout: %w", err)
		}
	}
	if meta.IsDefined("io_timeout") {
		if cfg.IOTimeout, err = time.ParseDuration(strings.TrimSpace(raw.IOTimeout)); err != nil {
			return Config{}, fmt.Errorf("parse io_timeout: %w", err)
		}
	}
	if meta.IsDefined("mqtt_uri") {
		cfg.MQTTURI = strings.TrimSpace(raw.MQTTURI)
	}
	if meta.IsDefined("mqtt_topic_prefix") {
		cfg.TopicPrefix = strings.Trim(strings.TrimSpace(raw.TopicPrefix), "/")
	}
	if meta.IsDefined("http_port") {
		cfg.HTTPPort = raw.HTTPPort
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	for _, b := range raw.Bulbs {
		name := strings.TrimSpace(b.Name)
		if name == "" || strings.ContainsAny(name, "/+#") {
			return Config{}, fmt.Errorf("invalid bulb name %q", b.Name)
		}
		cfg.Bulbs[name] = yeelight.Config{Host: strings.TrimSpace(b.Host), Port: b.Port}
	}
	return cfg, nil
}

// FromEnv overlays the YEELIGHT_*, MQTT_*, PORT and LOG_LEVEL variables
// that are set.
func FromEnv(cfg Config, getenv func(string) string) (Config, error) {
	cfg.Bulbs = cloneBulbs(cfg.Bulbs)

	if host := getenv("YEELIGHT_HOST"); host != "" {
		b := yeelight.Config{Host: host}
		if p := getenv("YEELIGHT_PORT"); p != "" {
			port, err := strconv.Atoi(p)
			if err != nil {
				return Config{}, fmt.Errorf("parse YEELIGHT_PORT: %w", err)
			}
			b.Port = port
		}
		cfg.Bulbs[DefaultBulb] = b
	}
	if list := getenv("YEELIGHT_BULBS"); list != "" {
		if err := parseBulbList(list, cfg.Bulbs); err != nil {
			return Config{}, err
		}
	}
	if v := getenv("YEELIGHT_DIAL_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse YEELIGHT_DIAL_TIMEOUT: %w", err)
		}
		cfg.DialTimeout = d
	}
	if v := getenv("YEELIGHT_IO_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse YEELIGHT_IO_TIMEOUT: %w", err)
		}
		cfg.IOTimeout = d
	}
	if v := getenv("MQTT_URI"); v != "" {
		cfg.MQTTURI = v
	}
	if v := getenv("MQTT_TOPIC_PREFIX"); v != "" {
		cfg.TopicPrefix = strings.Trim(v, "/")
	}
	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse PORT: %w", err)
		}
		cfg.HTTPPort = port
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	return cfg, nil
}

// parseBulbList reads "name=host[:port],..." pairs.
func parseBulbList(list string, bulbs map[string]yeelight.Config) error {
	for _, entry := range strings.Split(list, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, addr, ok := strings.Cut(entry, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" || strings.ContainsAny(name, "/+#") {
			return fmt.Errorf("invalid YEELIGHT_BULBS entry %q", entry)
		}
		b, err := parseAddr(strings.TrimSpace(addr))
		if err != nil {
			return fmt.Errorf("invalid YEELIGHT_BULBS entry %q: %w", entry, err)
		}
		bulbs[name] = b
	}
	return nil
}

func parseAddr(addr string) (yeelight.Config, error) {
	if addr == "" {
		return yeelight.Config{}, fmt.Errorf("empty address")
	}
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		// No port given.
		return yeelight.Config{Host: addr}, nil
	}
	p, err := strconv.Atoi(port)
	if err != nil {
		return yeelight.Config{}, err
	}
	return yeelight.Config{Host: host, Port: p}, nil
}

func cloneBulbs(in map[string]yeelight.Config) map[string]yeelight.Config {
	out := make(map[string]yeelight.Config, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
