package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configFileEnvName = "FURNISTORE_CONFIG_FILE"

const (
	SourceAPI    = "api"
	SourceMirror = "mirror"
)

type consumers struct {
	ContentSyncGroup string `mapstructure:"content_sync_group"`
}

type topics struct {
	ContentDocuments string `mapstructure:"content_documents"`
}

// brokerTLS enables mutual TLS for brokers and the schema registry when
// the files are set.
type brokerTLS struct {
	CAFile   string `mapstructure:"ca_file"`
	CertFile string `mapstructure:"cert_file"`
	KeyFile  string `mapstructure:"key_file"`
}

type broker struct {
	SeedBrokers        []string  `mapstructure:"seed_brokers"`
	SchemaRegistryURLs []string  `mapstructure:"schema_registry_urls"`
	Topics             topics    `mapstructure:"topics"`
	Consumers          consumers `mapstructure:"consumers"`
	TLS                brokerTLS `mapstructure:"tls"`
}

type content struct {
	Source     string        `mapstructure:"source"`
	ProjectID  string        `mapstructure:"project_id"`
	Dataset    string        `mapstructure:"dataset"`
	APIVersion string        `mapstructure:"api_version"`
	UseCDN     bool          `mapstructure:"use_cdn"`
	Token      string        `mapstructure:"token"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type cart struct {
	MaxAge time.Duration `mapstructure:"max_age"`
	Secure bool          `mapstructure:"secure"`
}

type Config struct {
	LogLevel       slog.Level `mapstructure:"log_level"`
	HTTPServerAddr string     `mapstructure:"http_server_addr"`
	SQLDB          string     `mapstructure:"sql_db"`
	Content        content    `mapstructure:"content"`
	Cart           cart       `mapstructure:"cart"`
	Broker         broker     `mapstructure:"broker"`
}

// Load reads the config file named by the FURNISTORE_CONFIG_FILE env or
// the --config flag. Any failure ends the process.
func Load() Config {
	viper.SetConfigFile(getConfigFilepath())
	setDefaults()

	err := viper.ReadInConfig()
	if err != nil {
		die(err)
	}

	var cfg Config
	err = viper.UnmarshalExact(&cfg, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		die(err)
	}

	if err := cfg.validate(); err != nil {
		die(err)
	}

	return cfg
}

func setDefaults() {
	viper.SetDefault("log_level", "info")
	viper.SetDefault("http_server_addr", ":8080")
	viper.SetDefault("content.source", SourceAPI)
	viper.SetDefault("content.api_version", "2024-01-01")
	viper.SetDefault("content.timeout", 10*time.Second)
	viper.SetDefault("cart.max_age", 30*24*time.Hour)
	viper.SetDefault("broker.topics.content_documents", "content_documents")
	viper.SetDefault("broker.consumers.content_sync_group", "content_sync")
}

func (c Config) validate() error {
	switch c.Content.Source {
	case SourceAPI:
	case SourceMirror:
		if c.SQLDB == "" {
			return fmt.Errorf("content.source %q requires sql_db", SourceMirror)
		}
	default:
		return fmt.Errorf("content.source %q: want %q or %q",
			c.Content.Source, SourceAPI, SourceMirror)
	}
	return nil
}

func getConfigFilepath() string {
	cmdLine := pflag.NewFlagSet(os.Args[0], pflag.ContinueOnError)
	cmdLine.ParseErrorsWhitelist.UnknownFlags = true
	arg := cmdLine.String("config", "/config.yaml", "config file")
	_ = cmdLine.Parse(os.Args[1:])
	env, ok := os.LookupEnv(configFileEnvName)
	if ok {
		return env
	}
	return *arg
}

func die(err error) {
	fmt.Printf("failed to load config file: %v\n", err)
	os.Exit(2)
}

func (c Config) Print() {
	tamplate := `
	General:
	LogLevel=%q
	HTTPServerAddr=%q
	SQLDB=%q

	Content:
	Source=%q
	ProjectID=%q
	Dataset=%q
	APIVersion=%q
	UseCDN=%t
	Token=%q
	Timeout=%s

	Cart:
	MaxAge=%s
	Secure=%t

	BrokerConfig:
	SeedBrokers=%q
	SchemaRegistryURLs=%q
	Topics:
		ContentDocuments=%q
	Consumers:
		ContentSyncGroup=%q
	TLS:
		CAFile=%q
		CertFile=%q
		KeyFile=%q

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(tamplate, "\n"),
		c.LogLevel,
		c.HTTPServerAddr,
		mask(c.SQLDB),
		c.Content.Source,
		c.Content.ProjectID,
		c.Content.Dataset,
		c.Content.APIVersion,
		c.Content.UseCDN,
		mask(c.Content.Token),
		c.Content.Timeout,
		c.Cart.MaxAge,
		c.Cart.Secure,
		c.Broker.SeedBrokers,
		c.Broker.SchemaRegistryURLs,
		c.Broker.Topics.ContentDocuments,
		c.Broker.Consumers.ContentSyncGroup,
		c.Broker.TLS.CAFile,
		c.Broker.TLS.CertFile,
		c.Broker.TLS.KeyFile,
	)
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "***"
}
