package order

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pinguinamart/internal/repository"
)

func encodeToken(t *testing.T, payload string) string {
	t.Helper()
	return base64.StdEncoding.EncodeToString([]byte(payload))
}

func TestDecodeGatewayToken(t *testing.T) {
	token := encodeToken(t, `{
		"transaction_code": "000ABC",
		"status": "COMPLETE",
		"total_amount": "2,980.0",
		"transaction_uuid": "tx-123",
		"product_code": "EPAYTEST",
		"signature": "sig"
	}`)

	result, err := DecodeGatewayToken(token)
	require.NoError(t, err)
	assert.Equal(t, "tx-123", result.TransactionUUID)
	assert.Equal(t, "COMPLETE", result.Status)

	amount, err := result.Amount()
	require.NoError(t, err)
	assert.True(t, amount.Equal(decimalFromString(t, "2980")), "got %s", amount)
}

func TestDecodeGatewayToken_MissingToken(t *testing.T) {
	_, err := DecodeGatewayToken("")
	assert.ErrorIs(t, err, repository.ErrInvalidInput)
}

func TestDecodeGatewayToken_NotBase64(t *testing.T) {
	_, err := DecodeGatewayToken("%%%not-base64%%%")
	assert.ErrorIs(t, err, repository.ErrInvalidInput)
}

func TestDecodeGatewayToken_NotJSON(t *testing.T) {
	_, err := DecodeGatewayToken(encodeToken(t, "just some text"))
	assert.ErrorIs(t, err, repository.ErrInvalidInput)
}

func TestDecodeGatewayToken_MissingTransactionID(t *testing.T) {
	_, err := DecodeGatewayToken(encodeToken(t, `{"status": "COMPLETE"}`))
	assert.ErrorIs(t, err, repository.ErrInvalidInput)
}

func TestGatewayResult_BadAmount(t *testing.T) {
	result := GatewayResult{TotalAmount: "not-a-number"}
	_, err := result.Amount()
	assert.ErrorIs(t, err, repository.ErrInvalidInput)
}
