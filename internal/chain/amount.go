// Package chain provides base-unit amount conversion and request pacing
// shared by every component that talks to the chain.
package chain

import (
	"math/big"
	"strings"
)

// TokenDecimals is the fixed decimal exponent used by the token contract
// and the native currency. All on-chain amounts are integers scaled by
// 10^TokenDecimals.
const TokenDecimals = 18

// ParseDecimalAmount parses a decimal amount string to big.Int with the given
// decimal places. For example, "1.5" with 18 decimals returns
// 1500000000000000000.
//
//nolint:gocognit,gocyclo // Decimal parsing requires sequential validation steps
func ParseDecimalAmount(amount string, decimalPlaces int, invalidAmountErr error) (*big.Int, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return nil, invalidAmountErr
	}

	// Check for negative amounts
	if strings.HasPrefix(amount, "-") {
		return nil, invalidAmountErr
	}

	// Split by decimal point
	parts := strings.Split(amount, ".")
	if len(parts) > 2 {
		return nil, invalidAmountErr
	}

	intPart := parts[0]
	decPart := ""
	if len(parts) == 2 {
		decPart = parts[1]
	}
	if intPart == "" && decPart == "" {
		return nil, invalidAmountErr
	}

	// Validate integer part
	if intPart == "" {
		intPart = "0"
	}
	for _, c := range intPart {
		if c < '0' || c > '9' {
			return nil, invalidAmountErr
		}
	}
	intVal, ok := new(big.Int).SetString(intPart, 10)
	if !ok {
		return nil, invalidAmountErr
	}

	// Scale integer part
	multiplier := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimalPlaces)), nil)
	result := new(big.Int).Mul(intVal, multiplier)

	// Handle decimal part
	if decPart != "" {
		// Validate decimal characters
		for _, c := range decPart {
			if c < '0' || c > '9' {
				return nil, invalidAmountErr
			}
		}

		// Pad or truncate decimal part
		for len(decPart) < decimalPlaces {
			decPart += "0"
		}
		decPart = decPart[:decimalPlaces]

		decVal, ok := new(big.Int).SetString(decPart, 10)
		if !ok {
			return nil, invalidAmountErr
		}

		result = result.Add(result, decVal)
	}

	return result, nil
}

// FormatDecimalAmount converts a big.Int to a human-readable string with the
// given decimal places. Trailing zeros after the decimal point are removed.
// For example, 1500000000000000000 with 18 decimals returns "1.5".
func FormatDecimalAmount(amount *big.Int, decimalPlaces int) string {
	if amount == nil {
		return "0"
	}

	str := amount.String()

	// Pad with leading zeros if necessary
	for len(str) <= decimalPlaces {
		str = "0" + str
	}

	// Insert decimal point
	decimalPos := len(str) - decimalPlaces

	result := str[:decimalPos] + "." + str[decimalPos:]

	// Remove unnecessary trailing zeros
	for len(result) > 1 && result[len(result)-1] == '0' && result[len(result)-2] != '.' {
		result = result[:len(result)-1]
	}

	return result
}

// ParseTokenAmount parses a decimal string using the fixed token exponent.
func ParseTokenAmount(amount string, invalidAmountErr error) (*big.Int, error) {
	return ParseDecimalAmount(amount, TokenDecimals, invalidAmountErr)
}

// FormatTokenAmount formats base units using the fixed token exponent.
func FormatTokenAmount(amount *big.Int) string {
	return FormatDecimalAmount(amount, TokenDecimals)
}
