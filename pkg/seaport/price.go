package seaport

import (
	"fmt"
	"math/big"
	"strings"
)

const etherDecimals = 18

var weiPerEther = new(big.Int).Exp(big.NewInt(10), big.NewInt(etherDecimals), nil)

// ParseEther converts a decimal ETH string ("0.05", "1", "1.5") to wei with
// no loss of precision. More than 18 fractional digits is an error, never a
// silent truncation.
func ParseEther(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty price")
	}
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return nil, fmt.Errorf("price %q must be an unsigned decimal", s)
	}

	intPart := s
	fracPart := ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		intPart, fracPart = s[:dot], s[dot+1:]
		if strings.IndexByte(fracPart, '.') >= 0 {
			return nil, fmt.Errorf("price %q has multiple decimal points", s)
		}
	}
	if intPart == "" && fracPart == "" {
		return nil, fmt.Errorf("price %q has no digits", s)
	}
	if intPart == "" {
		intPart = "0"
	}
	if len(fracPart) > etherDecimals {
		return nil, fmt.Errorf("price %q exceeds %d decimal places", s, etherDecimals)
	}

	whole, ok := new(big.Int).SetString(intPart, 10)
	if !ok {
		return nil, fmt.Errorf("price %q is not a decimal number", s)
	}
	wei := whole.Mul(whole, weiPerEther)

	if fracPart != "" {
		frac, ok := new(big.Int).SetString(fracPart, 10)
		if !ok {
			return nil, fmt.Errorf("price %q is not a decimal number", s)
		}
		scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(etherDecimals-len(fracPart))), nil)
		wei.Add(wei, frac.Mul(frac, scale))
	}
	return wei, nil
}

// FormatEther renders wei as a canonical decimal ETH string with trailing
// zeros trimmed, so ParseEther(FormatEther(w)) == w.
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	whole, frac := new(big.Int).QuoRem(wei, weiPerEther, new(big.Int))
	if frac.Sign() == 0 {
		return whole.String()
	}
	digits := strings.TrimRight(fmt.Sprintf("%018s", frac.String()), "0")
	return whole.String() + "." + digits
}
