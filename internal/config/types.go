package config

// Config holds all tokendesk configuration.
type Config struct {
	TokenAddress       string   `json:"token_address"        mapstructure:"token_address"`
	ChainID            int64    `json:"chain_id"             mapstructure:"chain_id"` // 0 = ask the node
	RPCURLs            []string `json:"rpc_urls"             mapstructure:"rpc_urls"`
	RPCAlgorithm       string   `json:"rpc_algorithm"        mapstructure:"rpc_algorithm"` // "fastest" | "round-robin" | "failover"
	DefaultWallet      string   `json:"default_wallet"       mapstructure:"default_wallet"`
	MaxConcurrentReads int      `json:"max_concurrent_reads" mapstructure:"max_concurrent_reads"` // 0 = unlimited
	RefreshInterval    int      `json:"refresh_interval"     mapstructure:"refresh_interval"`     // seconds

	// internal: config dir path used for Save()
	configDir string
}

// Keys lists the settable config keys in display order.
var Keys = []string{
	"token_address",
	"chain_id",
	"rpc_urls",
	"rpc_algorithm",
	"default_wallet",
	"max_concurrent_reads",
	"refresh_interval",
}
