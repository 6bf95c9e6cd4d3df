package journal

// Commodity is a currency or instrument ticker, e.g. "USD", "AAPL", "BTC".
type Commodity string

func (c Commodity) String() string { return string(c) }

// CommodityKind classifies a commodity for position tracking.
type CommodityKind int

const (
	// KindUnknown marks tickers that match no known classification.
	KindUnknown CommodityKind = iota
	// KindCash marks fiat currencies. Cash legs settle trades and are
	// never tracked as lots.
	KindCash
	// KindCrypto marks cryptocurrency tickers.
	KindCrypto
	// KindStock marks equity tickers.
	KindStock
	// KindOption marks option contract tickers such as "TSLA240119C250".
	KindOption
)

func (k CommodityKind) String() string {
	switch k {
	case KindCash:
		return "cash"
	case KindCrypto:
		return "crypto"
	case KindStock:
		return "stock"
	case KindOption:
		return "option"
	default:
		return "unknown"
	}
}

// Status is the clearing status of a transaction or posting.
type Status int

const (
	Unmarked Status = iota
	Pending
	Cleared
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "!"
	case Cleared:
		return "*"
	default:
		return ""
	}
}

// Tag is a key or key:value marker attached to a transaction or posting,
// e.g. "type:short" on a short-sale posting.
type Tag struct {
	Name  string
	Value string
}

func (t Tag) String() string {
	if t.Value == "" {
		return t.Name + ":"
	}
	return t.Name + ":" + t.Value
}
