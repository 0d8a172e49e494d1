// Copyright (C) 2025 Logical Mechanism LLC
// SPDX-License-Identifier: GPL-3.0-only

// Package precompute builds and owns the field constants the
// Fouque-Tibouchi encoder needs on every call: square roots of -3, the
// modular inverse of 2, the Legendre symbol of 2, and the exponent used
// to take square roots by exponentiation. All of it is derivable purely
// from a curve's (q, b), so it is computed exactly once and reused for
// the lifetime of the owning encoder.
package precompute

import (
	"fmt"
	"math/big"

	"github.com/logical-mechanism/ftencode/bnparams"
	"github.com/logical-mechanism/ftencode/field"
)

// Table holds every constant the encoder derives from a curve's (q, b) at
// construction time. Two tables built from descriptors with the same
// (q, b) are, by construction, structurally identical.
type Table struct {
	Params *bnparams.Params

	BPlusOne            field.Element
	MinusOne            field.Element
	MinusThree          field.Element
	MinusFourTimesBPlus1 field.Element

	Inv2      field.Element
	Legendre2 int

	SqrtMinus3             field.Element
	MinusSqrtMinus3        field.Element
	SqrtMinus3MinusOneDiv2 field.Element
	MinusSqrtMinus3Div2    field.Element

	QMinus1Div2 field.Element

	// SqrtExponent is (q+1)/4, valid because every supported curve has
	// q == 3 (mod 4). Raising a quadratic residue to this power yields one
	// of its two square roots.
	SqrtExponent *big.Int
}

// New computes a Table for the given curve descriptor. It fails if -3 has
// no square root in the base field, if 2 is not invertible (impossible
// for an odd-characteristic field, kept as a defensive check), or if the
// modulus is not congruent to 3 mod 4.
func New(p *bnparams.Params) (*Table, error) {
	f := p.Field

	if !f.IsCongruentTo3Mod4() {
		return nil, fmt.Errorf("precompute: modulus of %s is not congruent to 3 mod 4", p.Name)
	}

	one := f.One()
	bPlusOne := p.B.Add(one)
	minusOne := one.Neg()
	minusThree := f.FromUint64(3).Neg()
	minusFourTimesBPlus1 := f.FromUint64(4).Neg().Mul(bPlusOne)

	inv2, ok := f.FromUint64(2).Inverse()
	if !ok {
		return nil, fmt.Errorf("precompute: 2 is not invertible mod q for %s", p.Name)
	}
	legendre2 := f.FromUint64(2).Legendre()

	sqrtMinus3, ok := minusThree.Sqrt()
	if !ok {
		return nil, fmt.Errorf("precompute: -3 has no square root mod q for %s", p.Name)
	}
	minusSqrtMinus3 := sqrtMinus3.Neg()
	sqrtMinus3MinusOneDiv2 := minusOne.Add(sqrtMinus3).Mul(inv2)
	minusSqrtMinus3Div2 := inv2.Mul(minusSqrtMinus3)

	qMinus1Div2 := f.FromBigInt(f.QMinus1Div2())

	sqrtExponent := new(big.Int).Add(f.Modulus(), big.NewInt(1))
	sqrtExponent.Rsh(sqrtExponent, 2)

	return &Table{
		Params: p,

		BPlusOne:             bPlusOne,
		MinusOne:             minusOne,
		MinusThree:           minusThree,
		MinusFourTimesBPlus1: minusFourTimesBPlus1,

		Inv2:      inv2,
		Legendre2: legendre2,

		SqrtMinus3:             sqrtMinus3,
		MinusSqrtMinus3:        minusSqrtMinus3,
		SqrtMinus3MinusOneDiv2: sqrtMinus3MinusOneDiv2,
		MinusSqrtMinus3Div2:    minusSqrtMinus3Div2,

		QMinus1Div2: qMinus1Div2,

		SqrtExponent: sqrtExponent,
	}, nil
}

// SqrtByExponent computes a^((q+1)/4). For a quadratic residue this is one
// of its two square roots; for a non-residue the result is meaningless
// and callers must check the Legendre symbol first. It trades the
// verify-by-squaring safety of field.Element.Sqrt for a single
// exponentiation on the hot path, where the branch structure already
// guarantees the input is a square.
func (t *Table) SqrtByExponent(a field.Element) field.Element {
	return a.Pow(t.SqrtExponent)
}
