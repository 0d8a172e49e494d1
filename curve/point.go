// Copyright (C) 2025 Logical Mechanism LLC
// SPDX-License-Identifier: GPL-3.0-only

// Package curve provides the short Weierstrass affine point type the
// encoder produces and consumes, G1Affine: (x, y, infinity) satisfying
// y^2 = x^3 + b. Full group arithmetic (the Miller loop, pairing,
// subgroup checks against a cofactor) is explicitly out of scope for this
// module -- it is the "external curve library" contract the encoder is
// written against. The point addition and scalar multiplication here
// exist only to give the toy PKE schemes in package pke and the GLV
// helper in package glv something to multiply and add; they are not
// exercised by the encoder itself.
package curve

import (
	"math/big"

	"github.com/logical-mechanism/ftencode/bnparams"
	"github.com/logical-mechanism/ftencode/field"
)

// G1Affine is a point on y^2 = x^3 + b in affine coordinates, or the point
// at infinity.
type G1Affine struct {
	X, Y     field.Element
	Infinity bool
}

// NewAffine builds a non-infinity point from coordinates.
func NewAffine(x, y field.Element) G1Affine {
	return G1Affine{X: x, Y: y}
}

// Infinity returns the identity element for the given curve's field.
func Infinity(p *bnparams.Params) G1Affine {
	return G1Affine{X: p.Field.Zero(), Y: p.Field.Zero(), Infinity: true}
}

// IsOnCurve reports whether the point satisfies y^2 = x^3 + b. The point
// at infinity is always considered on-curve.
func (g G1Affine) IsOnCurve(p *bnparams.Params) bool {
	if g.Infinity {
		return true
	}
	lhs := g.Y.Square()
	rhs := g.X.Square().Mul(g.X).Add(p.B)
	return lhs.Equal(rhs)
}

// Neg returns the point reflected across the x-axis.
func (g G1Affine) Neg() G1Affine {
	if g.Infinity {
		return g
	}
	return G1Affine{X: g.X, Y: g.Y.Neg()}
}

// Equal reports whether two points have the same coordinates (both
// assumed to lie on the same curve).
func (g G1Affine) Equal(o G1Affine) bool {
	if g.Infinity || o.Infinity {
		return g.Infinity == o.Infinity
	}
	return g.X.Equal(o.X) && g.Y.Equal(o.Y)
}

// Add computes g + o using the textbook affine chord-and-tangent rule.
// Full-featured curve libraries implement this with Jacobian coordinates
// to avoid the field inversion per addition; since this helper only
// backs the toy PKE schemes' and the GLV helper's small, infrequent group
// operations (not the
// hot path of the encoder), the simpler affine formulas are preferred.
func (g G1Affine) Add(o G1Affine, p *bnparams.Params) G1Affine {
	if g.Infinity {
		return o
	}
	if o.Infinity {
		return g
	}
	if g.X.Equal(o.X) {
		if g.Y.Equal(o.Y) && !g.Y.IsZero() {
			return g.double(p)
		}
		// g == -o
		return Infinity(p)
	}

	num := o.Y.Sub(g.Y)
	den := o.X.Sub(g.X)
	denInv, ok := den.Inverse()
	if !ok {
		return Infinity(p)
	}
	lambda := num.Mul(denInv)

	x3 := lambda.Square().Sub(g.X).Sub(o.X)
	y3 := lambda.Mul(g.X.Sub(x3)).Sub(g.Y)
	return G1Affine{X: x3, Y: y3}
}

func (g G1Affine) double(p *bnparams.Params) G1Affine {
	if g.Infinity || g.Y.IsZero() {
		return Infinity(p)
	}
	f := p.Field
	three := f.FromUint64(3)
	two := f.FromUint64(2)

	num := three.Mul(g.X.Square())
	den := two.Mul(g.Y)
	denInv, ok := den.Inverse()
	if !ok {
		return Infinity(p)
	}
	lambda := num.Mul(denInv)

	x3 := lambda.Square().Sub(two.Mul(g.X))
	y3 := lambda.Mul(g.X.Sub(x3)).Sub(g.Y)
	return G1Affine{X: x3, Y: y3}
}

// ScalarMul computes [k]g via right-to-left (least-significant bit first)
// double-and-add. k is used as given; it is not reduced modulo any group
// order here.
func (g G1Affine) ScalarMul(k *big.Int, p *bnparams.Params) G1Affine {
	if k.Sign() == 0 || g.Infinity {
		return Infinity(p)
	}
	if k.Sign() < 0 {
		return g.Neg().ScalarMul(new(big.Int).Neg(k), p)
	}

	acc := Infinity(p)
	base := g
	bits := k.BitLen()
	for i := 0; i < bits; i++ {
		if k.Bit(i) == 1 {
			acc = acc.Add(base, p)
		}
		base = base.double(p)
	}
	return acc
}
