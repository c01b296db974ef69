package validation

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
	"unicode/utf8"
)

const (
	// ContentMaxRunes is the upper bound on wish content, counted in code
	// points after trimming.
	ContentMaxRunes = 500
	// NicknameMaxRunes is the upper bound on the display name.
	NicknameMaxRunes = 64
	// Decimals is the number of fractional digits of the native unit.
	Decimals = 18
)

// unit is 10^Decimals, one whole native coin in base units.
var unit = new(big.Int).Exp(big.NewInt(10), big.NewInt(Decimals), nil)

// Unit returns one whole native coin expressed in base units.
func Unit() *big.Int { return new(big.Int).Set(unit) }

// ValidateAddress validates a 20-byte hex account address.
func ValidateAddress(addr string) error {
	if addr == "" {
		return fmt.Errorf("address cannot be empty")
	}

	normalized := strings.TrimPrefix(addr, "0x")
	normalized = strings.TrimPrefix(normalized, "0X")

	if len(normalized) != 40 {
		return fmt.Errorf("invalid address length: expected 40 characters (without 0x), got %d", len(normalized))
	}

	if _, err := hex.DecodeString(normalized); err != nil {
		return fmt.Errorf("invalid hex address: %w", err)
	}

	return nil
}

// NormalizeAddress converts an address to its canonical form: lowercase hex
// with the 0x prefix.
func NormalizeAddress(addr string) string {
	addr = strings.TrimPrefix(addr, "0x")
	addr = strings.TrimPrefix(addr, "0X")
	return "0x" + strings.ToLower(addr)
}

// ValidateAndNormalizeAddress validates an address and returns its canonical
// form.
func ValidateAndNormalizeAddress(addr string) (string, error) {
	if err := ValidateAddress(addr); err != nil {
		return "", err
	}
	return NormalizeAddress(addr), nil
}

// ValidateContent trims the wish text and checks its code point length.
// Returns the trimmed content.
func ValidateContent(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	n := utf8.RuneCountInString(trimmed)
	if n == 0 {
		return "", fmt.Errorf("content cannot be empty")
	}
	if n > ContentMaxRunes {
		return "", fmt.Errorf("content too long: %d code points, maximum %d", n, ContentMaxRunes)
	}
	return trimmed, nil
}

// ValidateNickname checks the display name length. The empty string is valid
// and means anonymous.
func ValidateNickname(nickname string) error {
	if n := utf8.RuneCountInString(nickname); n > NicknameMaxRunes {
		return fmt.Errorf("nickname too long: %d code points, maximum %d", n, NicknameMaxRunes)
	}
	return nil
}

// ParseAmount converts a decimal amount string ("0.015") into base units.
// Only big integer arithmetic is used so no precision is ever lost.
func ParseAmount(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("amount cannot be empty")
	}
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return nil, fmt.Errorf("amount must be an unsigned decimal number")
	}

	intPart, fracPart, _ := strings.Cut(s, ".")
	if intPart == "" {
		intPart = "0"
	}
	if len(fracPart) > Decimals {
		return nil, fmt.Errorf("amount has more than %d fractional digits", Decimals)
	}
	// SetString accepts an embedded sign, so the fraction must be checked
	// digit by digit before padding.
	for _, r := range fracPart {
		if r < '0' || r > '9' {
			return nil, fmt.Errorf("invalid amount %q", s)
		}
	}

	whole, ok := new(big.Int).SetString(intPart, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	frac := big.NewInt(0)
	if fracPart != "" {
		frac, ok = new(big.Int).SetString(fracPart+strings.Repeat("0", Decimals-len(fracPart)), 10)
		if !ok {
			return nil, fmt.Errorf("invalid amount %q", s)
		}
	}

	return whole.Mul(whole, unit).Add(whole, frac), nil
}

// FormatAmount renders base units as a decimal string with trailing zeros
// stripped ("15000000000000000" -> "0.015").
func FormatAmount(baseUnits *big.Int) string {
	if baseUnits == nil || baseUnits.Sign() == 0 {
		return "0"
	}
	whole, frac := new(big.Int).QuoRem(baseUnits, unit, new(big.Int))
	if frac.Sign() == 0 {
		return whole.String()
	}
	digits := strings.TrimRight(fmt.Sprintf("%018s", frac.String()), "0")
	return whole.String() + "." + digits
}
