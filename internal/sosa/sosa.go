// Package sosa implements Sosa-Stradonitz (Ahnentafel) ancestor numbering.
//
// The root subject of an ancestor tree is number 1; a person numbered n has
// a father numbered 2n and a mother numbered 2n+1. Numbers grow with the
// generation depth and exceed 64 bits beyond roughly 64 generations, so the
// representation is an arbitrary-precision integer, never a machine word.
//
// A Sosa value is immutable: every operation returns a fresh value and no
// operation performs I/O or touches shared state, so values are safe to use
// concurrently without coordination.
package sosa

import (
	"errors"
	"math/big"
	"strings"
)

// Sentinel errors for Sosa number operations.
var (
	// ErrInvalidValue is returned for negative construction values, for
	// negative multipliers/divisors, and when generation or branch-path
	// decomposition is requested for the zero sentinel.
	ErrInvalidValue = errors.New("invalid sosa value")

	// ErrParse is returned when a decimal string is empty or contains
	// anything other than ASCII digits.
	ErrParse = errors.New("malformed sosa number")

	// ErrDivisionByZero is returned when dividing by zero.
	ErrDivisionByZero = errors.New("division by zero")
)

// Branch is a single step in an ancestor path.
type Branch uint8

const (
	// Father is the paternal branch (the step that doubled the number).
	Father Branch = 0
	// Mother is the maternal branch (the step that doubled and added one).
	Mother Branch = 1
)

// String returns "father" or "mother".
func (b Branch) String() string {
	if b == Mother {
		return "mother"
	}
	return "father"
}

// Sosa is a non-negative ancestor number of unbounded magnitude.
// The zero value is the distinguished "unknown ancestor" sentinel,
// which is distinct from the root subject (number 1).
type Sosa struct {
	v big.Int
}

// Zero returns the unknown-ancestor sentinel (value 0).
func Zero() Sosa {
	return Sosa{}
}

// Root returns the root subject of the tree (value 1).
func Root() Sosa {
	var v big.Int
	v.SetInt64(1)
	return Sosa{v: v}
}

// New wraps a non-negative integer as a Sosa number.
// Returns ErrInvalidValue for negative input.
func New(n int64) (Sosa, error) {
	if n < 0 {
		return Sosa{}, ErrInvalidValue
	}
	var v big.Int
	v.SetInt64(n)
	return Sosa{v: v}, nil
}

// Parse converts a plain decimal string into a Sosa number.
// No sign, no whitespace and no group separators are accepted;
// anything else fails with ErrParse.
func Parse(s string) (Sosa, error) {
	if s == "" {
		return Sosa{}, ErrParse
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return Sosa{}, ErrParse
		}
	}
	var v big.Int
	if _, ok := v.SetString(s, 10); !ok {
		return Sosa{}, ErrParse
	}
	return Sosa{v: v}, nil
}

// IsZero reports whether s is the unknown-ancestor sentinel.
func (s Sosa) IsZero() bool {
	return s.v.Sign() == 0
}

// Equal reports whether two Sosa numbers have the same value.
// Values are the only identity a Sosa number has.
func (s Sosa) Equal(o Sosa) bool {
	return s.v.Cmp(&o.v) == 0
}

// String returns the canonical decimal rendering ("0" for the sentinel).
func (s Sosa) String() string {
	return s.v.String()
}

// StringSep renders the number in decimal with sep inserted every three
// digits counting from the right: 1 -> "1", 1000 -> "1<sep>000".
func (s Sosa) StringSep(sep string) string {
	digits := s.v.String()
	if sep == "" || len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head == 0 {
		head = 3
	}
	b.WriteString(digits[:head])
	for i := head; i < len(digits); i += 3 {
		b.WriteString(sep)
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// Generation returns the 1-based generation of the ancestor: 1 for the
// root, 2 for the parents (2-3), g for numbers in [2^(g-1), 2^g - 1].
// This is exactly the bit length of the value.
// Returns ErrInvalidValue for the zero sentinel.
func (s Sosa) Generation() (int, error) {
	if s.IsZero() {
		return 0, ErrInvalidValue
	}
	return s.v.BitLen(), nil
}

// BranchPath decomposes the number into the father/mother choices taken
// from the root down to this ancestor, in root-to-leaf order. The binary
// representation is read most-significant-first with the leading bit
// (always 1, the root itself) dropped; a 0 bit is a Father step and a
// 1 bit a Mother step. The root has an empty path.
// Returns ErrInvalidValue for the zero sentinel.
func (s Sosa) BranchPath() ([]Branch, error) {
	if s.IsZero() {
		return nil, ErrInvalidValue
	}
	bits := s.v.BitLen()
	path := make([]Branch, 0, bits-1)
	for i := bits - 2; i >= 0; i-- {
		path = append(path, Branch(s.v.Bit(i)))
	}
	return path, nil
}

// Add returns s + o. Addition is total over valid values.
func (s Sosa) Add(o Sosa) Sosa {
	var r big.Int
	r.Add(&s.v, &o.v)
	return Sosa{v: r}
}

// Mul scales the number by a non-negative factor.
// Returns ErrInvalidValue for a negative factor.
func (s Sosa) Mul(k int64) (Sosa, error) {
	if k < 0 {
		return Sosa{}, ErrInvalidValue
	}
	var r big.Int
	r.Mul(&s.v, big.NewInt(k))
	return Sosa{v: r}, nil
}

// Div returns the truncating integer quotient s / k.
// Returns ErrDivisionByZero for k = 0 and ErrInvalidValue for k < 0.
func (s Sosa) Div(k int64) (Sosa, error) {
	if k == 0 {
		return Sosa{}, ErrDivisionByZero
	}
	if k < 0 {
		return Sosa{}, ErrInvalidValue
	}
	var r big.Int
	r.Quo(&s.v, big.NewInt(k))
	return Sosa{v: r}, nil
}

// Father returns the number of this ancestor's father (2n).
// The sentinel's father is the sentinel.
func (s Sosa) Father() Sosa {
	var r big.Int
	r.Lsh(&s.v, 1)
	return Sosa{v: r}
}

// Mother returns the number of this ancestor's mother (2n + 1).
// The sentinel has no mother and maps to the sentinel.
func (s Sosa) Mother() Sosa {
	if s.IsZero() {
		return Sosa{}
	}
	var r big.Int
	r.Lsh(&s.v, 1)
	r.Add(&r, big.NewInt(1))
	return Sosa{v: r}
}

// Child returns the number of the person this ancestor is a parent of
// (n / 2, truncating). The root's child is the sentinel.
func (s Sosa) Child() Sosa {
	var r big.Int
	r.Rsh(&s.v, 1)
	return Sosa{v: r}
}
