package cep

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// CodeLength is the number of digits in a canonical CEP.
	CodeLength = 8

	// MinCode and MaxCode bound the numeric range of assignable CEPs.
	// Codes below 01000000 are rejected even though they pad to 8 digits.
	MinCode = 1000000
	MaxCode = 99999999
)

// Code is a canonical, zero-padded 8-digit CEP.
type Code string

// ParseCode strips every non-digit from raw, left-pads the result with
// zeros to 8 characters and checks it is in the assignable range.
func ParseCode(raw string) (Code, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)

	padded := digits
	if len(padded) < CodeLength {
		padded = strings.Repeat("0", CodeLength-len(padded)) + padded
	}
	if len(padded) != CodeLength {
		return "", newError(ErrInvalidInput, "CEP deve ter 8 dígitos")
	}

	n, err := strconv.Atoi(padded)
	if err != nil {
		return "", newError(ErrInvalidInput, "CEP deve ter 8 dígitos")
	}
	if n < MinCode || n > MaxCode {
		return "", newError(ErrInvalidInput, "CEP fora da faixa válida (01000-000 a 99999-999)")
	}
	return Code(padded), nil
}

// MustParseCode is ParseCode for literals known to be valid.
func MustParseCode(raw string) Code {
	c, err := ParseCode(raw)
	if err != nil {
		panic(err)
	}
	return c
}

// String returns the bare 8-digit form.
func (c Code) String() string {
	return string(c)
}

// Formatted renders the code as NNNNN-NNN.
func (c Code) Formatted() string {
	if len(c) != CodeLength {
		return string(c)
	}
	return string(c[:5]) + "-" + string(c[5:])
}

// Int returns the numeric value of the code.
func (c Code) Int() int {
	n, _ := strconv.Atoi(string(c))
	return n
}

// Previous returns the numerically preceding code while it is still inside
// [MinCode, MaxCode].
func (c Code) Previous() (Code, bool) {
	n := c.Int() - 1
	if n < MinCode {
		return "", false
	}
	return fromInt(n), true
}

// Next returns the numerically following code while it is still inside
// [MinCode, MaxCode].
func (c Code) Next() (Code, bool) {
	n := c.Int() + 1
	if n > MaxCode {
		return "", false
	}
	return fromInt(n), true
}

func fromInt(n int) Code {
	return Code(fmt.Sprintf("%08d", n))
}
