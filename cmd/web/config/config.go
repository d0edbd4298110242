package config

import (
	"encoding"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

var (
	LFJSON LogFormat = "json"
	LGText LogFormat = "text"

	BackendMemory   BackendDriver = "memory"
	BackendPostgres BackendDriver = "postgres"
)

// EnvPrefix is the prefix of all environment variables that override the configuration file
const EnvPrefix = "MXPROBE_"

// NewConfig reads the TOML configuration, then applies the environment. Variables from an optional .env file (in
// the working directory) are loaded into the environment first, without overriding what's already set.
func NewConfig(fileName string) (Config, error) {
	c := Default()

	b, err := os.ReadFile(fileName)
	if err != nil {
		return c, fmt.Errorf("unable to open %q, reason: %w", fileName, err)
	}

	_, err = toml.Decode(string(b), &c)
	if err != nil {
		return c, fmt.Errorf("unable to unmarshal %q, reason: %w", fileName, err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return c, fmt.Errorf("unable to load .env, reason: %w", err)
	}

	if err := c.ApplyEnv(os.LookupEnv); err != nil {
		return c, err
	}

	return c, nil
}

// Default returns the configuration used for everything the file doesn't mention
func Default() Config {
	c := Config{}
	c.Client.InputLengthMax = 1 << 20
	c.Client.BatchSizeMax = 1000
	c.Server.ListenOn = "localhost:1338"
	c.Server.Log.Level = "info"
	c.Server.Log.Format = LGText
	c.Probe.Port = "25"
	c.Probe.Timeout = Duration{duration: 10 * time.Second}
	c.Probe.Workers = 10
	c.Probe.Backoff = Duration{duration: time.Second}
	c.Backend.Driver = BackendMemory

	return c
}

// Config holds central config parameters
type Config struct {
	Client struct {
		InputLengthMax uint64 `toml:"inputLengthMax" usage:"The maximum amount of bytes allowed, for any request body"`
		BatchSizeMax   uint64 `toml:"batchSizeMax" usage:"The maximum amount of addresses in a single batch request"`
	} `toml:"client"`
	Server struct {
		ListenOn        string `toml:"listenOn"`
		ConnectionLimit uint   `toml:"connectionLimit"`
		CORS            struct {
			AllowedOrigins []string `toml:"allowedOrigins"`
			AllowedHeaders []string `toml:"allowedHeaders"`
		} `toml:"CORS"`
		Headers Headers `toml:"headers"`
		Log     struct {
			Level  string    `toml:"level"`
			Format LogFormat `toml:"format" usage:"The log output format \"json\" or \"text\""`
		} `toml:"log"`
		Hash struct {
			Key string `toml:"key" usage:"32 bytes key, used to hash local parts before they're stored"`
		} `toml:"hash"`
		Profiler struct {
			Enable bool   `toml:"enable" default:"false"`
			Prefix string `toml:"prefix"`
		} `toml:"profiler"`
		GraphQL struct {
			PrettyOutput bool `toml:"prettyOutput"`
			GraphiQL     bool `toml:"graphiQL"`
			Playground   bool `toml:"playground"`
		} `toml:"graphql"`
		RateLimiter struct {
			Rate      uint     `toml:"rate"`
			Capacity  uint     `toml:"capacity"`
			ParkedTTL Duration `toml:"parkedTTL"`
		} `toml:"rateLimiter"`
		PathStrip string `toml:"pathStrip"`
	} `toml:"server"`
	Probe struct {
		Sender   string   `toml:"sender" usage:"Address used in MAIL FROM"`
		Helo     string   `toml:"helo" usage:"Identity presented in HELO, defaults to the host name"`
		Port     string   `toml:"port"`
		Timeout  Duration `toml:"timeout" usage:"Timeout of the connect and of every SMTP round-trip"`
		Workers  int      `toml:"workers" usage:"Addresses checked simultaneously, per batch"`
		Retries  int      `toml:"retries"`
		Backoff  Duration `toml:"backoff"`
		Resolver string   `toml:"resolver" usage:"Name server for MX lookups (ip[:port]), otherwise system default is used"`
		Proxy    struct {
			Address  string `toml:"address"`
			User     string `toml:"user"`
			Password string `toml:"password"`
		} `toml:"proxy"`
	} `toml:"probe"`
	Backend struct {
		Driver         BackendDriver `toml:"driver"`
		URL            string        `toml:"url"`
		MaxConnections uint          `toml:"maxConnections"`
	} `toml:"backend"`
	GCP struct {
		ProjectID       string `toml:"projectID"`
		PubSubTopic     string `toml:"pubSubTopic"`
		CredentialsFile string `toml:"credentialsFile"`
	} `toml:"GCP"`
}

// LookupEnvFn matches os.LookupEnv
type LookupEnvFn func(key string) (string, bool)

// ApplyEnv overrides values with those from the environment, e.g. MXPROBE_PROBE_SENDER
func (c *Config) ApplyEnv(lookup LookupEnvFn) error {
	setters := map[string]func(v string) error{
		"LISTEN_ON":             setString(&c.Server.ListenOn),
		"LOG_LEVEL":             setString(&c.Server.Log.Level),
		"LOG_FORMAT":            c.Server.Log.Format.Set,
		"HASH_KEY":              setString(&c.Server.Hash.Key),
		"PROBE_SENDER":          setString(&c.Probe.Sender),
		"PROBE_HELO":            setString(&c.Probe.Helo),
		"PROBE_PORT":            setString(&c.Probe.Port),
		"PROBE_TIMEOUT":         c.Probe.Timeout.Set,
		"PROBE_WORKERS":         setInt(&c.Probe.Workers),
		"PROBE_RETRIES":         setInt(&c.Probe.Retries),
		"PROBE_RESOLVER":        setString(&c.Probe.Resolver),
		"PROBE_PROXY_ADDRESS":   setString(&c.Probe.Proxy.Address),
		"PROBE_PROXY_USER":      setString(&c.Probe.Proxy.User),
		"PROBE_PROXY_PASSWORD":  setString(&c.Probe.Proxy.Password),
		"BACKEND_DRIVER":        c.Backend.Driver.Set,
		"BACKEND_URL":           setString(&c.Backend.URL),
		"GCP_PROJECT_ID":        setString(&c.GCP.ProjectID),
		"GCP_PUBSUB_TOPIC":      setString(&c.GCP.PubSubTopic),
		"GCP_CREDENTIALS_FILE":  setString(&c.GCP.CredentialsFile),
		"CLIENT_BATCH_SIZE_MAX": setUint(&c.Client.BatchSizeMax),
	}

	for name, set := range setters {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			continue
		}

		if err := set(v); err != nil {
			return fmt.Errorf("invalid value for %s%s, reason: %w", EnvPrefix, name, err)
		}
	}

	return nil
}

func setString(dst *string) func(v string) error {
	return func(v string) error {
		*dst = v
		return nil
	}
}

func setInt(dst *int) func(v string) error {
	return func(v string) error {
		i, err := strconv.Atoi(v)
		if err != nil {
			return err
		}

		*dst = i
		return nil
	}
}

func setUint(dst *uint64) func(v string) error {
	return func(v string) error {
		i, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return err
		}

		*dst = i
		return nil
	}
}

type Headers map[string]string

func (h Headers) String() string {
	var v string
	for header, value := range h {
		v += `"` + header + `:` + value + `",`
	}

	if len(v) > 0 {
		v = v[0 : len(v)-1]
	}

	return v
}

func (h *Headers) Set(v string) error {
	s := strings.SplitN(v, `:`, 2)
	if len(s) != 2 {
		return fmt.Errorf("invalid Header argument %q, expecting <header name>:<header value>", v)
	}

	if *h == nil {
		*h = make(map[string]string, 1)
	}

	(*h)[s[0]] = s[1]

	return nil
}

var (
	_ encoding.TextUnmarshaler = &Duration{}
	_ encoding.TextUnmarshaler = new(LogFormat)
	_ encoding.TextUnmarshaler = new(BackendDriver)
)

type Duration struct {
	duration time.Duration
}

func (d Duration) String() string {
	return d.duration.String()
}

func (d *Duration) Set(v string) error {
	var err error
	d.duration, err = time.ParseDuration(v)
	return err
}

func (d Duration) AsDuration() time.Duration {
	return d.duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	return d.Set(string(text))
}

type LogFormat string

func (vt LogFormat) String() string {
	return string(vt)
}

func (vt *LogFormat) Set(v string) error {
	return vt.UnmarshalText([]byte(v))
}

func (vt *LogFormat) UnmarshalText(value []byte) error {
	return unmarshalOneOf(value, []string{string(LFJSON), string(LGText)}, "log format", func(v string) {
		*vt = LogFormat(v)
	})
}

type BackendDriver string

func (bd BackendDriver) String() string {
	return string(bd)
}

func (bd *BackendDriver) Set(v string) error {
	return bd.UnmarshalText([]byte(v))
}

func (bd *BackendDriver) UnmarshalText(value []byte) error {
	return unmarshalOneOf(value, []string{string(BackendMemory), string(BackendPostgres)}, "backend driver", func(v string) {
		*bd = BackendDriver(v)
	})
}

func unmarshalOneOf(value []byte, validTypes []string, name string, set func(v string)) error {
	v := string(value)
	for _, t := range validTypes {
		if t == v {
			set(v)
			return nil
		}
	}

	expected := strings.Join(validTypes, ", ")
	return fmt.Errorf("unsupported value %q for %s. Expected one of: %q", value, name, expected)
}
