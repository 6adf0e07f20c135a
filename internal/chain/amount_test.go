package chain

import (
	"errors"
	"math/big"
	"testing"
)

var errInvalidAmount = errors.New("invalid amount")

func TestParseDecimalAmount_ValidAmounts(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		decimals int
		want     string
	}{
		{"1.5 with 18 decimals", "1.5", 18, "1500000000000000000"},
		{"12.5 with 18 decimals", "12.5", 18, "12500000000000000000"},
		{"100 no decimal", "100", 18, "100000000000000000000"},
		{".5 no integer", ".5", 18, "500000000000000000"},
		{"0 value", "0", 18, "0"},
		{"0.0 value", "0.0", 8, "0"},
		{"many decimals truncated", "1.123456789012345678901234", 18, "1123456789012345678"},
		{"fewer decimals padded", "1.1", 8, "110000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDecimalAmount(tt.amount, tt.decimals, errInvalidAmount)
			if err != nil {
				t.Fatalf("ParseDecimalAmount() unexpected error = %v", err)
			}
			if got.String() != tt.want {
				t.Errorf("ParseDecimalAmount() = %s, want %s", got.String(), tt.want)
			}
		})
	}
}

func TestParseDecimalAmount_InvalidAmounts(t *testing.T) {
	invalidCases := []struct {
		name     string
		amount   string
		decimals int
	}{
		{"empty string", "", 18},
		{"negative", "-1", 18},
		{"multiple decimals", "1.2.3", 18},
		{"letters", "abc", 18},
		{"letters in decimal", "1.abc", 18},
		{"letters in integer", "abc.1", 18},
		{"bare dot", ".", 18},
	}

	for _, tt := range invalidCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDecimalAmount(tt.amount, tt.decimals, errInvalidAmount)
			if err == nil {
				t.Error("ParseDecimalAmount() expected error, got nil")
			}
			if !errors.Is(err, errInvalidAmount) {
				t.Errorf("ParseDecimalAmount() error = %v, want %v", err, errInvalidAmount)
			}
		})
	}
}

func TestFormatDecimalAmount(t *testing.T) {
	tests := []struct {
		name     string
		amount   *big.Int
		decimals int
		want     string
	}{
		{"1.5 tokens", big.NewInt(0).SetUint64(1500000000000000000), 18, "1.5"},
		{"whole amount keeps .0", big.NewInt(0).SetUint64(1000000000000000000), 18, "1.0"},
		{"nil amount", nil, 18, "0"},
		{"zero", big.NewInt(0), 18, "0.0"},
		{"small value", big.NewInt(1), 18, "0.000000000000000001"},
		{"trailing zeros trimmed", big.NewInt(0).SetUint64(1230000000000000000), 18, "1.23"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatDecimalAmount(tt.amount, tt.decimals)
			if got != tt.want {
				t.Errorf("FormatDecimalAmount() = %s, want %s", got, tt.want)
			}
		})
	}
}

// A balance formatted for display must parse back to the identical base-unit
// integer: transferring the displayed "full balance" drains the account
// exactly, with no dust left behind.
func TestTokenAmount_RoundTripExact(t *testing.T) {
	// 12.5, one base unit, all decimals significant, 100.0, large uneven.
	balances := []string{
		"12500000000000000000",
		"1",
		"999999999999999999",
		"100000000000000000000",
		"123456789123456789123456",
	}

	for _, raw := range balances {
		bal, ok := new(big.Int).SetString(raw, 10)
		if !ok {
			t.Fatalf("bad test input %q", raw)
		}

		display := FormatTokenAmount(bal)
		back, err := ParseTokenAmount(display, errInvalidAmount)
		if err != nil {
			t.Fatalf("ParseTokenAmount(%q) error = %v", display, err)
		}
		if back.Cmp(bal) != 0 {
			t.Errorf("round trip %s -> %q -> %s, want exact", raw, display, back.String())
		}
	}
}
