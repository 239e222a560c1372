package ledger

import "fmt"

// Code classifies an expected business failure. These are the only reasons
// an order can be refused or an execution can fail; anything else is an
// infrastructure error.
type Code string

const (
	InvalidMarketData     Code = "INVALID_MARKET_DATA"
	InsufficientFunds     Code = "INSUFFICIENT_FUNDS"
	InsufficientPosition  Code = "INSUFFICIENT_POSITION"
	RiskLimitExceeded     Code = "RISK_LIMIT_EXCEEDED"
	PriceOutOfBand        Code = "EXECUTION_PRICE_OUT_OF_BAND"
	InsufficientLiquidity Code = "INSUFFICIENT_LIQUIDITY"
)

// Reject carries a typed rejection reason so callers and tests can assert
// on why an operation failed, not just that it failed.
type Reject struct {
	Code Code
	Msg  string
}

func Rejectf(code Code, format string, args ...any) *Reject {
	return &Reject{Code: code, Msg: fmt.Sprintf(format, args...)}
}

func (r *Reject) Error() string {
	return string(r.Code) + ": " + r.Msg
}
