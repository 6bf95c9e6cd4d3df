package journal

import (
	"context"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Config controls commodity classification and the accounts that receive
// synthetic gain and loss postings during replay.
type Config struct {
	// CashCommodities are the fiat currency tickers.
	CashCommodities []Commodity `yaml:"cash_commodities"`
	// CryptoCommodities are the known cryptocurrency tickers.
	CryptoCommodities []Commodity `yaml:"crypto_commodities"`
	// DefaultCurrency is the currency assumed when a value has to be
	// synthesized without an explicit one, e.g. the zero cost basis of
	// an equity grant.
	DefaultCurrency Commodity `yaml:"default_currency"`
	// GainsAccount receives the synthetic posting for a net realized gain.
	GainsAccount AccountName `yaml:"gains_account"`
	// LossesAccount receives the synthetic posting for a net realized loss.
	LossesAccount AccountName `yaml:"losses_account"`
	// ConversionAccount absorbs currency conversion residue.
	ConversionAccount AccountName `yaml:"conversion_account"`
	// ShortTag marks postings that open a short position, as name:value.
	ShortTag Tag `yaml:"short_tag"`

	cash   map[Commodity]bool
	crypto map[Commodity]bool
}

var (
	stockPattern  = regexp.MustCompile(`^[A-Z\.]{1,7}$`)
	optionPattern = regexp.MustCompile(`^[A-Z]+(?:\d{6})?[CPcp]\d+(\.\d+)?$`)
)

// DefaultConfig returns the built-in classification lists and accounts.
func DefaultConfig() *Config {
	cfg := &Config{
		CashCommodities: []Commodity{"USD", "PLN", "EUR"},
		CryptoCommodities: []Commodity{
			"BTC", "ETH", "XRP", "LTC", "BCH", "ADA", "DOT", "UNI", "LINK",
			"SOL", "PseudoUSD", "BUSD", "FDUSD", "USDT", "USDC", "FTM", "ALGO",
		},
		DefaultCurrency:   "USD",
		GainsAccount:      "income:capital_gains",
		LossesAccount:     "expenses:capital_losses",
		ConversionAccount: "equity:conversion",
		ShortTag:          Tag{Name: "type", Value: "short"},
	}
	cfg.buildIndexes()
	return cfg
}

// LoadConfig reads a YAML config file, overlaying the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig parses YAML config data, overlaying the defaults.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.buildIndexes()
	return cfg, nil
}

func (c *Config) buildIndexes() {
	c.cash = make(map[Commodity]bool, len(c.CashCommodities))
	for _, t := range c.CashCommodities {
		c.cash[t] = true
	}
	c.crypto = make(map[Commodity]bool, len(c.CryptoCommodities))
	for _, t := range c.CryptoCommodities {
		c.crypto[t] = true
	}
}

// IsCash reports whether the commodity is a fiat currency.
func (c *Config) IsCash(commodity Commodity) bool {
	if c.cash == nil {
		c.buildIndexes()
	}
	return c.cash[commodity]
}

// IsCrypto reports whether the commodity is a known cryptocurrency.
func (c *Config) IsCrypto(commodity Commodity) bool {
	if c.crypto == nil {
		c.buildIndexes()
	}
	return c.crypto[commodity]
}

// IsOption reports whether the ticker looks like an option contract,
// e.g. "TSLA260116C200".
func (c *Config) IsOption(commodity Commodity) bool {
	return !c.IsCash(commodity) && !c.IsCrypto(commodity) &&
		optionPattern.MatchString(string(commodity))
}

// IsStock reports whether the ticker looks like an equity symbol.
func (c *Config) IsStock(commodity Commodity) bool {
	return !c.IsCash(commodity) && !c.IsCrypto(commodity) && !c.IsOption(commodity) &&
		stockPattern.MatchString(string(commodity))
}

// Kind classifies the commodity. Cash and crypto lists take precedence
// over the option and stock patterns.
func (c *Config) Kind(commodity Commodity) CommodityKind {
	switch {
	case c.IsCash(commodity):
		return KindCash
	case c.IsCrypto(commodity):
		return KindCrypto
	case c.IsOption(commodity):
		return KindOption
	case c.IsStock(commodity):
		return KindStock
	default:
		return KindUnknown
	}
}

// IsShortOpen reports whether the posting is tagged as opening a short
// position.
func (c *Config) IsShortOpen(p *Posting) bool {
	return p.HasTag(c.ShortTag.Name, c.ShortTag.Value)
}

// contextKey is a private type for context keys to avoid collisions.
type contextKey struct{}

var configKey = contextKey{}

// WithContext returns a context carrying the config.
func (c *Config) WithContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, configKey, c)
}

// ConfigFromContext extracts the config from the context, falling back
// to the defaults when none is present.
func ConfigFromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey).(*Config); ok {
		return cfg
	}
	return DefaultConfig()
}
