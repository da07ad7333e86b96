package model

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// Token base token descriptor
type Token struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

type TxnCount struct {
	Buys  Number `json:"buys"`
	Sells Number `json:"sells"`
}

type Txns struct {
	M5  *TxnCount `json:"m5"`
	H1  *TxnCount `json:"h1"`
	H6  *TxnCount `json:"h6"`
	H24 *TxnCount `json:"h24"`
}

type Volume struct {
	M5  Number `json:"m5"`
	H1  Number `json:"h1"`
	H6  Number `json:"h6"`
	H24 Number `json:"h24"`
}

type Liquidity struct {
	Usd   Number `json:"usd"`
	Base  Number `json:"base"`
	Quote Number `json:"quote"`
}

// PriceChange keeps the upstream object verbatim for clients alongside the
// parsed windows used for filtering.
type PriceChange struct {
	M5  Number
	H1  Number
	H6  Number
	H24 Number
	Raw json.RawMessage
}

func (p *PriceChange) UnmarshalJSON(data []byte) error {
	*p = PriceChange{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, nullLiteral) {
		return nil
	}
	p.Raw = append(json.RawMessage(nil), data...)

	var windows struct {
		M5  Number `json:"m5"`
		H1  Number `json:"h1"`
		H6  Number `json:"h6"`
		H24 Number `json:"h24"`
	}
	if err := json.Unmarshal(data, &windows); err != nil {
		// not an object, passthrough only
		return nil
	}
	p.M5, p.H1, p.H6, p.H24 = windows.M5, windows.H1, windows.H6, windows.H24
	return nil
}

func (p PriceChange) MarshalJSON() ([]byte, error) {
	if len(p.Raw) == 0 {
		return nullLiteral, nil
	}
	return p.Raw, nil
}

// DexPair is one entry of the DexScreener pairs response.
type DexPair struct {
	ChainID       string      `json:"chainId"`
	DexID         string      `json:"dexId"`
	URL           string      `json:"url"`
	PairAddress   string      `json:"pairAddress"`
	BaseToken     Token       `json:"baseToken"`
	QuoteToken    Token       `json:"quoteToken"`
	PriceNative   Number      `json:"priceNative"`
	PriceUsd      Number      `json:"priceUsd"`
	Txns          *Txns       `json:"txns"`
	Volume        *Volume     `json:"volume"`
	PriceChange   PriceChange `json:"priceChange"`
	Liquidity     *Liquidity  `json:"liquidity"`
	Fdv           Number      `json:"fdv"`
	MarketCap     Number      `json:"marketCap"`
	PairCreatedAt Number      `json:"pairCreatedAt"`
}

// EnrichedPair is a DexPair with every optional field resolved to its
// default. Build it with NewEnrichedPair only.
type EnrichedPair struct {
	ChainID     string
	PairAddress string
	BaseToken   Token
	QuoteSymbol string
	DexID       *string

	PriceUsd     float64
	LiquidityUSD float64
	Fdv          *float64

	Volume5m  float64
	Volume1h  float64
	Volume24h float64

	Buys5m  float64
	Sells5m float64
	Buys1h  float64
	Sells1h float64

	PriceChange5m  float64
	PriceChange1h  float64
	PriceChange6h  float64
	PriceChange24h float64
	PriceChangeRaw json.RawMessage

	// CreatedAt nil means unknown, treated as infinitely old
	CreatedAt *time.Time
}

// NewEnrichedPair fills defaults for a raw pair. network is used when the
// upstream omits chainId.
func NewEnrichedPair(network string, raw DexPair) EnrichedPair {
	p := EnrichedPair{
		ChainID:        raw.ChainID,
		PairAddress:    raw.PairAddress,
		BaseToken:      raw.BaseToken,
		QuoteSymbol:    raw.QuoteToken.Symbol,
		PriceUsd:       raw.PriceUsd.Or(0),
		Fdv:            raw.Fdv.Ptr(),
		PriceChange5m:  raw.PriceChange.M5.Or(0),
		PriceChange1h:  raw.PriceChange.H1.Or(0),
		PriceChange6h:  raw.PriceChange.H6.Or(0),
		PriceChange24h: raw.PriceChange.H24.Or(0),
		PriceChangeRaw: raw.PriceChange.Raw,
	}
	if p.ChainID == "" {
		p.ChainID = network
	}
	if dex := strings.TrimSpace(raw.DexID); dex != "" {
		p.DexID = &dex
	}
	if raw.Liquidity != nil {
		p.LiquidityUSD = raw.Liquidity.Usd.Or(0)
	}
	if raw.Volume != nil {
		p.Volume5m = raw.Volume.M5.Or(0)
		p.Volume1h = raw.Volume.H1.Or(0)
		p.Volume24h = raw.Volume.H24.Or(0)
	}
	if raw.Txns != nil {
		if raw.Txns.M5 != nil {
			p.Buys5m = raw.Txns.M5.Buys.Or(0)
			p.Sells5m = raw.Txns.M5.Sells.Or(0)
		}
		if raw.Txns.H1 != nil {
			p.Buys1h = raw.Txns.H1.Buys.Or(0)
			p.Sells1h = raw.Txns.H1.Sells.Or(0)
		}
	}
	if ms := raw.PairCreatedAt.Or(0); ms > 0 {
		t := time.UnixMilli(int64(ms))
		p.CreatedAt = &t
	}
	return p
}
