package order

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"pinguinamart/internal/repository"
)

// gatewayStatusComplete is the status eSewa reports on a successful
// payment.
const gatewayStatusComplete = "COMPLETE"

// GatewayResult is the decoded body of the opaque "data" parameter the
// gateway appends to the success redirect.
type GatewayResult struct {
	TransactionCode string `json:"transaction_code"`
	Status          string `json:"status"`
	TotalAmount     string `json:"total_amount"`
	TransactionUUID string `json:"transaction_uuid"`
	ProductCode     string `json:"product_code"`
	Signature       string `json:"signature"`
}

// Amount parses the gateway's amount string, which uses comma grouping
// ("1,234.5").
func (g GatewayResult) Amount() (decimal.Decimal, error) {
	raw := strings.ReplaceAll(g.TotalAmount, ",", "")
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: bad gateway amount %q", repository.ErrInvalidInput, g.TotalAmount)
	}
	return amount, nil
}

// DecodeGatewayToken decodes the base64-encoded JSON callback token. A
// missing or malformed token is a validation error, never a crash.
func DecodeGatewayToken(encoded string) (GatewayResult, error) {
	var result GatewayResult

	if encoded == "" {
		return result, fmt.Errorf("%w: no payment data received", repository.ErrInvalidInput)
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		// The gateway URL-encodes the token; some clients hand it over
		// with the padding stripped.
		raw, err = base64.RawStdEncoding.DecodeString(encoded)
		if err != nil {
			return result, fmt.Errorf("%w: malformed payment token", repository.ErrInvalidInput)
		}
	}

	if err := json.Unmarshal(raw, &result); err != nil {
		return result, fmt.Errorf("%w: malformed payment token", repository.ErrInvalidInput)
	}

	if result.TransactionUUID == "" {
		return result, fmt.Errorf("%w: payment token has no transaction id", repository.ErrInvalidInput)
	}

	return result, nil
}
