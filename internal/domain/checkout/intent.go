// internal/domain/checkout/intent.go
package checkout

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/domain/payment"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/pkg/money"
)

// clientSecretKeys lists, in priority order, the intent response fields that may carry the secret
var clientSecretKeys = []string{"clientSecret", "client_secret", "client_secret_value", "id"}

// Amount converts a cart total to minor units, rounding half away from zero
func Amount(total decimal.Decimal) int64 {
	return money.MinorUnits(total)
}

// ExtractClientSecret returns the first non-empty string alias of the intent
// response. It fails with ErrMissingClientSecret when none is present and
// with payment.ErrInvalidClientSecret when the value is a bare intent ID.
func ExtractClientSecret(resp map[string]any) (string, error) {
	for _, key := range clientSecretKeys {
		s, ok := resp[key].(string)
		if !ok || strings.TrimSpace(s) == "" {
			continue
		}
		if !strings.Contains(s, payment.SecretMarker) {
			return s, payment.ErrInvalidClientSecret
		}
		return s, nil
	}
	return "", ErrMissingClientSecret
}
