// Copyright (C) 2025 Logical Mechanism LLC
// SPDX-License-Identifier: GPL-3.0-only

// Package glv implements the GLV endomorphism helper for curves with an
// efficiently computable endomorphism phi(x, y) = (beta*x, y), beta a
// primitive cube root of unity in the base field. It is not wired into
// the encoder or the hybrid packer -- nothing in this module's
// verification path needs faster scalar multiplication -- but is
// provided standalone, as a self-contained helper ready for a caller
// doing many scalar multiplications (for instance a batched
// group-hashing check) to adopt.
package glv

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/logical-mechanism/ftencode/bnparams"
	"github.com/logical-mechanism/ftencode/curve"
	"github.com/logical-mechanism/ftencode/field"
)

// Params is a curve descriptor extended with the GLV endomorphism
// constant beta. Beta must be a primitive cube root of unity in the base
// field for Apply to compute a genuine curve endomorphism.
type Params struct {
	*bnparams.Params
	Beta field.Element
}

// Apply computes the endomorphism phi(P) = (beta*x, y), a curve
// automorphism that can be evaluated without any field inversion.
func Apply(g curve.G1Affine, p Params) curve.G1Affine {
	if g.Infinity {
		return g
	}
	return curve.NewAffine(p.Beta.Mul(g.X), g.Y)
}

// RandPair draws a pair of scalars intended for use as GLV-split
// coefficients in a randomised linear combination (for instance a
// batched pairing check). This does not attempt to produce
// subgroup-uniform scalars -- only enough entropy, spread over roughly
// half the usual bit width each, to make a random linear combination
// sound; callers needing uniform scalars over the curve's actual
// subgroup order should sample those separately.
func RandPair(p Params, r io.Reader) (*big.Int, *big.Int, error) {
	if r == nil {
		r = rand.Reader
	}
	halfBits := (p.Field.BitLen() + 1) / 2
	halfBytes := (halfBits + 7) / 8

	left := make([]byte, halfBytes)
	right := make([]byte, halfBytes)
	if _, err := io.ReadFull(r, left); err != nil {
		return nil, nil, fmt.Errorf("glv: sampling left half: %w", err)
	}
	if _, err := io.ReadFull(r, right); err != nil {
		return nil, nil, fmt.Errorf("glv: sampling right half: %w", err)
	}
	return new(big.Int).SetBytes(left), new(big.Int).SetBytes(right), nil
}

// Mul computes [left]P + [right]phi(P), the GLV-accelerated scalar
// multiplication building block: a genuine full-width scalar
// multiplication on an ordinary curve can be rewritten this way using
// two half-width scalars, because phi acts as multiplication by a
// fixed scalar lambda on the prime-order subgroup. This module does not
// carry lambda (no routine here needs the shortcut badly enough to
// justify deriving it per curve), so Mul takes the split scalars
// directly rather than splitting a single input scalar itself.
func Mul(g curve.G1Affine, left, right *big.Int, p Params) curve.G1Affine {
	res1 := g.ScalarMul(left, p.Params)
	res2 := Apply(g, p).ScalarMul(right, p.Params)
	return res1.Add(res2, p.Params)
}
