package currency

// Pair is an ordered (base, quote) currency pair, e.g. ETH/BTC.
type Pair struct {
	Base  Code
	Quote Code
}

// EMPTYPAIR is the zero Pair.
var EMPTYPAIR = Pair{}

// NewPair builds a Pair from two currency codes.
func NewPair(base, quote Code) Pair {
	return Pair{Base: base, Quote: quote}
}

// String renders the pair as "BASE/QUOTE".
func (p Pair) String() string {
	return p.Base.String() + "/" + p.Quote.String()
}

// IsEmpty reports whether p is the zero Pair.
func (p Pair) IsEmpty() bool {
	return p.Base.IsEmpty() && p.Quote.IsEmpty()
}

// Contains reports whether code is either leg of the pair.
func (p Pair) Contains(code Code) bool {
	return p.Base.Equal(code) || p.Quote.Equal(code)
}
