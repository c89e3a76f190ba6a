package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

const (
	defaultRPC             = "http://127.0.0.1:8545"
	defaultAlgorithm       = "fastest"
	defaultRefreshInterval = 15

	configFile = "config.json"
	envPrefix  = "TOKENDESK"
)

// Load reads config from dir (or creates defaults). dir defaults to ~/.tokendesk.
// Every key can be overridden by a TOKENDESK_<KEY> environment variable,
// e.g. TOKENDESK_TOKEN_ADDRESS or TOKENDESK_RPC_URLS="http://a,http://b".
func Load(dir string) (*Config, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("could not determine home dir: %w", err)
		}
		dir = filepath.Join(home, ".tokendesk")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("could not create config dir: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := filepath.Join(dir, configFile)
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.configDir = dir
	return cfg, nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.configDir, 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.configDir, configFile), data, 0o600)
}

// Dir returns the config directory.
func (c *Config) Dir() string {
	return c.configDir
}

// Set updates a single key from its string form.
func (c *Config) Set(key, value string) error {
	switch key {
	case "token_address":
		c.TokenAddress = value
	case "chain_id":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid chain_id %q", value)
		}
		c.ChainID = n
	case "rpc_urls":
		var urls []string
		for _, u := range strings.Split(value, ",") {
			if u = strings.TrimSpace(u); u != "" {
				urls = append(urls, u)
			}
		}
		c.RPCURLs = urls
	case "rpc_algorithm":
		switch value {
		case "fastest", "round-robin", "failover":
			c.RPCAlgorithm = value
		default:
			return fmt.Errorf("unknown rpc_algorithm %q (fastest | round-robin | failover)", value)
		}
	case "default_wallet":
		c.DefaultWallet = value
	case "max_concurrent_reads":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid max_concurrent_reads %q", value)
		}
		c.MaxConcurrentReads = n
	case "refresh_interval":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid refresh_interval %q", value)
		}
		c.RefreshInterval = n
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

// Get returns the string form of a single key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "token_address":
		return c.TokenAddress, nil
	case "chain_id":
		return strconv.FormatInt(c.ChainID, 10), nil
	case "rpc_urls":
		return strings.Join(c.RPCURLs, ","), nil
	case "rpc_algorithm":
		return c.RPCAlgorithm, nil
	case "default_wallet":
		return c.DefaultWallet, nil
	case "max_concurrent_reads":
		return strconv.Itoa(c.MaxConcurrentReads), nil
	case "refresh_interval":
		return strconv.Itoa(c.RefreshInterval), nil
	}
	return "", fmt.Errorf("unknown config key %q", key)
}

// AddRPC adds an RPC URL.
func (c *Config) AddRPC(url string) error {
	if slices.Contains(c.RPCURLs, url) {
		return fmt.Errorf("RPC %s already configured", url)
	}
	c.RPCURLs = append(c.RPCURLs, url)
	return nil
}

// RemoveRPC removes an RPC URL.
func (c *Config) RemoveRPC(url string) error {
	idx := slices.Index(c.RPCURLs, url)
	if idx == -1 {
		return fmt.Errorf("RPC %s not found", url)
	}
	c.RPCURLs = slices.Delete(c.RPCURLs, idx, idx+1)
	return nil
}

// --- helpers ---

func setDefaults(v *viper.Viper) {
	v.SetDefault("token_address", "")
	v.SetDefault("chain_id", 0)
	v.SetDefault("rpc_urls", []string{defaultRPC})
	v.SetDefault("rpc_algorithm", defaultAlgorithm)
	v.SetDefault("default_wallet", "")
	v.SetDefault("max_concurrent_reads", 0)
	v.SetDefault("refresh_interval", defaultRefreshInterval)
}
