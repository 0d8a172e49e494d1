// Copyright (C) 2025 Logical Mechanism LLC
// SPDX-License-Identifier: GPL-3.0-only

// Package encode implements the single-point Fouque-Tibouchi encoder and
// decoder: the map from a base-field element to a curve point (with a
// branch hint), and its inverse in both hinted and unhinted forms. This
// is the core of the module; the hybrid packer and the ftencode CLI are
// built on top of it.
package encode

import (
	"errors"
	"fmt"
	"io"

	"github.com/logical-mechanism/ftencode/bnparams"
	"github.com/logical-mechanism/ftencode/curve"
	"github.com/logical-mechanism/ftencode/field"
	"github.com/logical-mechanism/ftencode/precompute"
)

// Hint identifies which of the four Fouque-Tibouchi branches (three
// candidate x-coordinates, with the third split into two by the sign of
// an auxiliary value u) an Encode call used, so Decode can invert it in
// constant branches instead of enumerating all four.
type Hint uint8

const (
	// Hint1 selects x1, the first rational candidate.
	Hint1 Hint = 1
	// Hint2 selects x2 = -1 - x1.
	Hint2 Hint = 2
	// Hint3 selects x3 = 1 + u^2 with u the lesser of {u, -u}.
	Hint3 Hint = 3
	// Hint4 selects x3 with u the greater of {u, -u}.
	Hint4 Hint = 4
)

func (h Hint) String() string {
	switch h {
	case Hint1:
		return "branch-1"
	case Hint2:
		return "branch-2"
	case Hint3:
		return "branch-3/u-low"
	case Hint4:
		return "branch-3/u-high"
	default:
		return fmt.Sprintf("hint(%d)", uint8(h))
	}
}

// ErrDomain is returned when Encode is given one of the construction's
// measure-zero singular inputs (1 + b + v^2 = 0, or w = 0). It never
// occurs for a uniformly random field element.
var ErrDomain = errors.New("encode: input is a singular point of the FT map")

// ErrBadHint is returned by DecodeWithHints when the indicated branch has
// no valid preimage -- only possible for an adversarially constructed
// point that was never produced by Encode.
var ErrBadHint = errors.New("encode: hinted branch has no preimage for this point")

// ErrOffCurve guards an internal invariant: Encode is expected to always
// produce a point satisfying the curve equation.
var ErrOffCurve = errors.New("encode: internal error, encoded point is not on curve")

// Encoder implements the Fouque-Tibouchi encoding for one BN curve. It is
// immutable after New returns and safe to share across goroutines; the
// only mutable state in an Encode call is the caller-supplied
// io.Reader, which callers fanning out across goroutines must not share.
type Encoder struct {
	Params *bnparams.Params
	Table  *precompute.Table
}

// New builds an Encoder for the given curve descriptor, computing its
// precomputation table. It fails exactly when precompute.New fails.
func New(p *bnparams.Params) (*Encoder, error) {
	t, err := precompute.New(p)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return &Encoder{Params: p, Table: t}, nil
}

// field is a small convenience accessor.
func (e *Encoder) field() *field.Field { return e.Params.Field }

// selectField returns a if cond else b, expressed as arithmetic rather
// than a branch on cond, even though cond (derived from which FT branch
// a public point belongs to) ends up reflected in the returned Hint
// regardless.
func selectField(f *field.Field, cond bool, a, b field.Element) field.Element {
	one := f.One()
	var mask field.Element
	if cond {
		mask = one
	} else {
		mask = f.Zero()
	}
	return a.Mul(mask).Add(b.Mul(one.Sub(mask)))
}

func signOf(v, threshold field.Element) int {
	if v.LessThan(threshold) {
		return 1
	}
	return -1
}

// Encode maps v to a curve point via the Fouque-Tibouchi construction,
// returning the point and the branch hint needed to invert it in
// constant branches. rand supplies the two masking field elements r1, r2
// the construction draws to keep the Legendre-symbol computation's
// timing profile independent of which branch is taken; per the
// construction, they do not influence the returned point, only the
// number of random bytes Encode consumes, so Encode is deterministic
// given a deterministic rand.
func (e *Encoder) Encode(v field.Element, rand io.Reader) (curve.G1Affine, Hint, error) {
	f := e.field()
	t := e.Table

	denom := t.BPlusOne.Add(v.Square())
	denomInv, ok := denom.Inverse()
	if !ok {
		return curve.G1Affine{}, 0, ErrDomain
	}
	w := t.MinusSqrtMinus3.Mul(v).Mul(denomInv)
	if w.IsZero() {
		return curve.G1Affine{}, 0, ErrDomain
	}

	x1 := t.SqrtMinus3MinusOneDiv2.Add(v.Mul(w))
	x2 := t.MinusOne.Sub(x1)

	u, ok := w.Inverse()
	if !ok {
		return curve.G1Affine{}, 0, ErrDomain
	}
	x3 := f.One().Add(u.Square())

	r1, err := f.RandomElement(rand)
	if err != nil {
		return curve.G1Affine{}, 0, fmt.Errorf("encode: %w", err)
	}
	r2, err := f.RandomElement(rand)
	if err != nil {
		return curve.G1Affine{}, 0, fmt.Errorf("encode: %w", err)
	}

	alpha := r1.Square().Mul(x1.Square().Mul(x1).Add(e.Params.B)).Legendre()
	beta := r2.Square().Mul(x2.Square().Mul(x2).Add(e.Params.B)).Legendre()

	idx := uint8((((alpha-1)*beta+3)%3)+1) //nolint:gomnd // direct transcription of the FT branch-selection formula

	x := selectField(f, idx == 2, x2, x1)
	x = selectField(f, idx == 3, x3, x)

	y := t.SqrtByExponent(x.Square().Mul(x).Add(e.Params.B))

	sgnExpected := e.computeCharacter(idx, v, u)
	if signOf(y, t.QMinus1Div2) != sgnExpected {
		y = y.Neg()
	}

	point := curve.NewAffine(x, y)
	if !point.IsOnCurve(e.Params) {
		return curve.G1Affine{}, 0, ErrOffCurve
	}

	var hint Hint
	switch {
	case idx == 1:
		hint = Hint1
	case idx == 2:
		hint = Hint2
	default:
		if signOf(u, t.QMinus1Div2) == 1 {
			hint = Hint3
		} else {
			hint = Hint4
		}
	}

	return point, hint, nil
}

// computeCharacter decides the sign ("character") y must carry so that
// Encode is injective across the union of branches. Branches 1 and 2
// share a criterion on v; branch 3 uses an equality test against a
// specific field element derived from u. The canonical formula for that
// element is c = u*(-sqrt(-3)/2) - sqrt(-3u^2 - 4(b+1))/2; an earlier
// draft used a less-than comparison instead of this equality and is
// known to be wrong.
func (e *Encoder) computeCharacter(idx uint8, v, u field.Element) int {
	t := e.Table
	if idx == 1 || idx == 2 {
		return signOf(v, t.QMinus1Div2)
	}
	deltaSqrt := t.SqrtByExponent(t.MinusThree.Mul(u.Square()).Add(t.MinusFourTimesBPlus1))
	c := u.Mul(t.MinusSqrtMinus3Div2).Sub(deltaSqrt.Mul(t.Inv2))
	if v.Equal(c) {
		return 1
	}
	return -1
}

// decodeAttempt12 inverts branch 1 (x = x1) or, with x already negated
// and shifted by the caller, branch 2 (x = x2 = -1 - x1). It returns
// (value, true) if the chain of field operations succeeds and the
// resulting candidate's sign matches y; (zero, false) otherwise.
func (e *Encoder) decodeAttempt12(x, y field.Element) (field.Element, bool) {
	t := e.Table
	step1, ok := x.Sub(t.SqrtMinus3MinusOneDiv2).Neg().Inverse()
	if !ok {
		return field.Element{}, false
	}
	step2, ok := step1.Mul(t.SqrtMinus3).Add(t.MinusOne).Inverse()
	if !ok {
		return field.Element{}, false
	}
	step3 := step2.Mul(t.BPlusOne)
	if step3.Legendre() == -1 {
		return field.Element{}, false
	}
	step4 := t.SqrtByExponent(step3)

	if signOf(step4, t.QMinus1Div2) != signOf(y, t.QMinus1Div2) {
		step4 = step4.Neg()
	}
	return step4, true
}

// decodeAttempt34 inverts branch 3 for a chosen sign of u (the caller
// picks which of {u, -u} to pass in for attempts 3 and 4 respectively).
func (e *Encoder) decodeAttempt34(u, y field.Element) (field.Element, bool) {
	t := e.Table
	step1 := u.Square().Mul(t.MinusThree).Add(t.MinusFourTimesBPlus1)
	if step1.Legendre() == -1 {
		return field.Element{}, false
	}
	mid := t.MinusSqrtMinus3Div2.Mul(u)
	step2 := t.SqrtByExponent(step1).Mul(t.Inv2)

	if signOf(y, t.QMinus1Div2) == 1 {
		return mid.Sub(step2), true
	}
	return mid.Add(step2), true
}

// DecodeWithoutHints enumerates all (up to four) field-element preimages
// of p, one per branch/sign combination. A nil entry means that branch's
// inverse does not exist for this point (the required field square root
// does not exist there).
func (e *Encoder) DecodeWithoutHints(p curve.G1Affine) [4]*field.Element {
	f := e.field()
	t := e.Table
	var res [4]*field.Element

	if v, ok := e.decodeAttempt12(p.X, p.Y); ok {
		res[0] = &v
	}

	xNeg := p.X.Add(f.One()).Neg()
	if v, ok := e.decodeAttempt12(xNeg, p.Y); ok {
		res[1] = &v
	}

	xMinusOne := p.X.Sub(f.One())
	if xMinusOne.Legendre() != -1 {
		sqrtXMinusOne := t.SqrtByExponent(xMinusOne)
		lo, hi := sqrtXMinusOne, sqrtXMinusOne.Neg()
		if !lo.LessThan(hi) {
			lo, hi = hi, lo
		}
		if v, ok := e.decodeAttempt34(lo, p.Y); ok {
			res[2] = &v
		}
		if v, ok := e.decodeAttempt34(hi, p.Y); ok {
			res[3] = &v
		}
	}

	return res
}

// DecodeWithHints recovers the unique preimage indicated by hint. It
// never fails for a point honestly produced by Encode; on an
// adversarially chosen point it may return ErrBadHint.
func (e *Encoder) DecodeWithHints(p curve.G1Affine, hint Hint) (field.Element, error) {
	f := e.field()
	t := e.Table

	switch hint {
	case Hint1:
		v, ok := e.decodeAttempt12(p.X, p.Y)
		if !ok {
			return field.Element{}, ErrBadHint
		}
		return v, nil
	case Hint2:
		xNeg := p.X.Add(f.One()).Neg()
		v, ok := e.decodeAttempt12(xNeg, p.Y)
		if !ok {
			return field.Element{}, ErrBadHint
		}
		return v, nil
	case Hint3, Hint4:
		xMinusOne := p.X.Sub(f.One())
		sqrtXMinusOne := t.SqrtByExponent(xMinusOne)
		lo, hi := sqrtXMinusOne, sqrtXMinusOne.Neg()
		if !lo.LessThan(hi) {
			lo, hi = hi, lo
		}
		u := lo
		if hint == Hint4 {
			u = hi
		}
		v, ok := e.decodeAttempt34(u, p.Y)
		if !ok {
			return field.Element{}, ErrBadHint
		}
		return v, nil
	default:
		return field.Element{}, fmt.Errorf("encode: %w: %d", ErrBadHint, uint8(hint))
	}
}
