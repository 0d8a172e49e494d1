// Copyright (C) 2025 Logical Mechanism LLC
// SPDX-License-Identifier: GPL-3.0-only

// Package field implements prime field arithmetic over a runtime-supplied
// modulus. It exists because the two BN moduli this module targets (a
// standard 254-bit curve and a non-standard 446-bit curve) can't both be
// served by a single fixed-width generated field type: every concrete field
// package in the ecosystem (gnark-crypto's included) hard-codes one modulus
// per package. Field instead takes the modulus as a value, matching the
// "configuration record" shape the encoder is built around.
package field

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

// Field is a prime field descriptor: the modulus plus a few values derived
// from it that every Element operation needs. It is immutable after
// construction and safe for concurrent use by value-receiver methods on
// Element, which only ever read it.
type Field struct {
	q           *big.Int
	qMinus1Div2 *big.Int
	byteLen     int // ceil(bitlen(q) / 8), the canonical fixed-width encoding size
	bitLen      int
}

// New builds a Field for modulus q. q must be an odd prime; New does not
// verify primality (the caller is expected to pass a known-good curve
// modulus), but it does reject q <= 0.
func New(q *big.Int) (*Field, error) {
	if q == nil || q.Sign() <= 0 {
		return nil, fmt.Errorf("field: modulus must be positive")
	}
	qCopy := new(big.Int).Set(q)
	qm1 := new(big.Int).Sub(qCopy, big.NewInt(1))
	qm1Div2 := new(big.Int).Rsh(qm1, 1)
	bitLen := qCopy.BitLen()
	return &Field{
		q:           qCopy,
		qMinus1Div2: qm1Div2,
		byteLen:     (bitLen + 7) / 8,
		bitLen:      bitLen,
	}, nil
}

// Modulus returns a defensive copy of q.
func (f *Field) Modulus() *big.Int { return new(big.Int).Set(f.q) }

// BitLen is ceil(log2(q)) as reported by math/big (the minimal bit width of q).
func (f *Field) BitLen() int { return f.bitLen }

// ByteLen is the canonical fixed-width encoding size, ceil(BitLen/8).
func (f *Field) ByteLen() int { return f.byteLen }

// QMinus1Div2 is the canonical representative of (q-1)/2, used throughout
// the encoder as the character-sign threshold.
func (f *Field) QMinus1Div2() *big.Int { return new(big.Int).Set(f.qMinus1Div2) }

// IsCongruentTo3Mod4 reports whether q == 3 (mod 4), the condition the
// encoder's square-root-by-exponentiation shortcut depends on.
func (f *Field) IsCongruentTo3Mod4() bool {
	var m big.Int
	m.Mod(f.q, big.NewInt(4))
	return m.Cmp(big.NewInt(3)) == 0
}

// Element is a residue mod q, held in canonical representative form
// ([0, q)). The zero value is not valid; always obtain elements through a
// Field's constructors.
type Element struct {
	f *Field
	v *big.Int
}

func (f *Field) elem(v *big.Int) Element {
	r := new(big.Int).Mod(v, f.q)
	return Element{f: f, v: r}
}

// Zero returns the additive identity.
func (f *Field) Zero() Element { return Element{f: f, v: big.NewInt(0)} }

// One returns the multiplicative identity.
func (f *Field) One() Element { return Element{f: f, v: big.NewInt(1)} }

// FromUint64 reduces a small constant into the field.
func (f *Field) FromUint64(u uint64) Element {
	return f.elem(new(big.Int).SetUint64(u))
}

// FromBigInt reduces an arbitrary big.Int into the field.
func (f *Field) FromBigInt(v *big.Int) Element {
	return f.elem(v)
}

// FromLEBytesModOrder interprets b as a little-endian unsigned integer and
// reduces it mod q. This is the chunk-to-field-element step used by the
// hybrid packer.
func (f *Field) FromLEBytesModOrder(b []byte) Element {
	be := make([]byte, len(b))
	for i, c := range b {
		be[len(b)-1-i] = c
	}
	v := new(big.Int).SetBytes(be)
	return f.elem(v)
}

// RandomElement draws a uniform element of the field from r, rejecting and
// retrying on any sample that lands outside [0, q) (rejection sampling
// over byte-length-aligned randomness, so the number of bytes read from r
// varies from call to call).
func (f *Field) RandomElement(r io.Reader) (Element, error) {
	if r == nil {
		r = rand.Reader
	}
	buf := make([]byte, f.byteLen)
	for {
		if _, err := io.ReadFull(r, buf); err != nil {
			return Element{}, fmt.Errorf("field: reading randomness: %w", err)
		}
		v := new(big.Int).SetBytes(buf)
		if v.Cmp(f.q) < 0 {
			return Element{f: f, v: v}, nil
		}
	}
}

// Field reports the element's owning field.
func (a Element) Field() *Field { return a.f }

func (a Element) requireSameField(b Element) {
	if a.f != b.f {
		panic("field: mismatched field elements")
	}
}

// Add returns a + b.
func (a Element) Add(b Element) Element {
	a.requireSameField(b)
	return a.f.elem(new(big.Int).Add(a.v, b.v))
}

// Sub returns a - b.
func (a Element) Sub(b Element) Element {
	a.requireSameField(b)
	return a.f.elem(new(big.Int).Sub(a.v, b.v))
}

// Mul returns a * b.
func (a Element) Mul(b Element) Element {
	a.requireSameField(b)
	return a.f.elem(new(big.Int).Mul(a.v, b.v))
}

// Neg returns -a.
func (a Element) Neg() Element {
	return a.f.elem(new(big.Int).Neg(a.v))
}

// Square returns a * a.
func (a Element) Square() Element {
	return a.f.elem(new(big.Int).Mul(a.v, a.v))
}

// Inverse returns a^-1, or (zero, false) if a is zero.
func (a Element) Inverse() (Element, bool) {
	if a.v.Sign() == 0 {
		return Element{}, false
	}
	inv := new(big.Int).ModInverse(a.v, a.f.q)
	if inv == nil {
		return Element{}, false
	}
	return Element{f: a.f, v: inv}, true
}

// Pow raises a to exp, exp treated as a nonnegative exponent.
func (a Element) Pow(exp *big.Int) Element {
	return a.f.elem(new(big.Int).Exp(a.v, exp, a.f.q))
}

// Legendre computes the Legendre symbol of a with respect to q via
// math/big's Jacobi routine (valid for prime q, which the BN base fields
// here always are).
func (a Element) Legendre() int {
	return big.Jacobi(a.v, a.f.q)
}

// Sqrt returns a square root of a (one of the two, arbitrarily), and true,
// if one exists; otherwise (zero, false). It self-verifies the candidate
// rather than trusting the Legendre symbol, so it never returns a wrong
// root. It only handles q == 3 (mod 4): for any other modulus it returns
// (zero, false) for every nonzero input.
func (a Element) Sqrt() (Element, bool) {
	if a.v.Sign() == 0 {
		return a.f.Zero(), true
	}
	if !a.f.IsCongruentTo3Mod4() {
		// Tonelli-Shanks is out of scope: every supported BN base field is
		// 3 (mod 4), so the encoder never needs the general case.
		return Element{}, false
	}
	exp := new(big.Int).Add(a.f.q, big.NewInt(1))
	exp.Rsh(exp, 2)
	cand := a.Pow(exp)
	if cand.Square().Equal(a) {
		return cand, true
	}
	return Element{}, false
}

// IsZero reports whether a is the additive identity.
func (a Element) IsZero() bool { return a.v.Sign() == 0 }

// Equal reports value equality (both operands already canonical).
func (a Element) Equal(b Element) bool {
	a.requireSameField(b)
	return a.v.Cmp(b.v) == 0
}

// Cmp performs lexicographic comparison of canonical representatives.
func (a Element) Cmp(b Element) int {
	a.requireSameField(b)
	return a.v.Cmp(b.v)
}

// LessThan is shorthand for Cmp(b) < 0, the comparison the FT encoding uses
// everywhere to pick a sign ("character").
func (a Element) LessThan(b Element) bool { return a.Cmp(b) < 0 }

// BigInt returns a defensive copy of the canonical representative.
func (a Element) BigInt() *big.Int { return new(big.Int).Set(a.v) }

// BitLen is the bit length of the canonical representative, i.e. the
// smallest size (in bytes, via (BitLen()+7)/8) that ToLEBytes can be
// called with without panicking.
func (a Element) BitLen() int { return a.v.BitLen() }

// ToLEBytes serialises a as a little-endian canonical representative
// padded to size bytes. size must be at least (a.BitLen()+7)/8; FillBytes
// panics otherwise, so callers serialising a candidate of unknown
// magnitude (e.g. a decode_without_hints preimage) must check BitLen first.
func (a Element) ToLEBytes(size int) []byte {
	be := a.v.FillBytes(make([]byte, size))
	out := make([]byte, size)
	for i, c := range be {
		out[size-1-i] = c
	}
	return out
}

// String renders the canonical decimal representative, for debugging.
func (a Element) String() string { return a.v.String() }
