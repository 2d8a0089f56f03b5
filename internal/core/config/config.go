package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"shipment-tracker/internal/core/proxy"

	"github.com/spf13/viper"
)

// Store drivers accepted by STORE_DRIVER.
const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`
	// StoreDriver selects the shipment store: "mongo" or "memory".
	StoreDriver string `mapstructure:"STORE_DRIVER" default:"mongo"`

	Mongo MongoConfig `mapstructure:",squash"`
	Redis RedisConfig `mapstructure:",squash"`
	SMS   SMSConfig   `mapstructure:",squash"`
	Kafka KafkaConfig `mapstructure:",squash"`
	Proxy ProxyConfig `mapstructure:",squash"`
}

// MongoConfig holds the MongoDB connection details.
type MongoConfig struct {
	URI            string        `mapstructure:"MONGO_URI" default:"mongodb://localhost:27017"`
	Database       string        `mapstructure:"MONGO_DATABASE" default:"logistics"`
	ConnectTimeout time.Duration `mapstructure:"MONGO_CONNECT_TIMEOUT" default:"10s"`
}

// RedisConfig holds the Redis connection used for waybill sequences.
type RedisConfig struct {
	// URL has the form redis://[:password@]host[:port][/database].
	URL string `mapstructure:"REDIS_URL" required:"true"`
}

// SMSConfig holds the SMS provider credentials.
// An empty APIKey switches notifications to log-only mode.
type SMSConfig struct {
	BaseURL  string        `mapstructure:"SMS_BASE_URL" default:"https://api.ng.termii.com"`
	APIKey   string        `mapstructure:"SMS_API_KEY"`
	SenderID string        `mapstructure:"SMS_SENDER_ID" default:"FirstLine"`
	Timeout  time.Duration `mapstructure:"SMS_TIMEOUT" default:"5s"`
}

// KafkaConfig holds the lifecycle event stream settings.
// Publishing is disabled when Brokers is empty.
type KafkaConfig struct {
	// Brokers is a comma-separated list of host:port pairs.
	Brokers        string        `mapstructure:"KAFKA_BROKERS"`
	Topic          string        `mapstructure:"KAFKA_TOPIC" default:"shipment-events"`
	PublishTimeout time.Duration `mapstructure:"KAFKA_PUBLISH_TIMEOUT" default:"3s"`
}

// BrokerList splits Brokers, dropping blanks.
func (k KafkaConfig) BrokerList() []string {
	var brokers []string
	for _, b := range strings.Split(k.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// ProxyConfig holds the optional outbound proxy for provider calls.
type ProxyConfig struct {
	Enabled  bool   `mapstructure:"OUTBOUND_PROXY_ENABLED" default:"false"`
	Host     string `mapstructure:"OUTBOUND_PROXY_HOST"`
	Port     int    `mapstructure:"OUTBOUND_PROXY_PORT"`
	Username string `mapstructure:"OUTBOUND_PROXY_USERNAME"`
	Password string `mapstructure:"OUTBOUND_PROXY_PASSWORD"`
}

// Settings converts the config into proxy.Settings.
func (p ProxyConfig) Settings() proxy.Settings {
	return proxy.Settings{
		Enabled:  p.Enabled,
		Hostname: p.Host,
		Port:     p.Port,
		Username: p.Username,
		Password: p.Password,
	}
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *AppConfig) validate() error {
	switch c.StoreDriver {
	case StoreMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("missing required configuration: MONGO_URI")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("invalid STORE_DRIVER %q: expected %q or %q", c.StoreDriver, StoreMongo, StoreMemory)
	}
	if c.Proxy.Enabled && (c.Proxy.Host == "" || c.Proxy.Port <= 0) {
		return fmt.Errorf("OUTBOUND_PROXY_ENABLED requires OUTBOUND_PROXY_HOST and OUTBOUND_PROXY_PORT")
	}
	return nil
}

// processTags iterates over the struct fields and sets default values in Viper.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key != "" {
			v.BindEnv(key)
		}

		if key != "" && defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		required := field.Tag.Get("required")
		if required == "true" {
			value := val.Field(i)
			if isZero(value) {
				key := field.Tag.Get("mapstructure")
				return fmt.Errorf("missing required configuration: %s", key)
			}
		}
	}
	return nil
}

// isZero checks if a reflect.Value is the zero value for its type.
func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}
