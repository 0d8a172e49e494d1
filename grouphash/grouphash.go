// Copyright (C) 2025 Logical Mechanism LLC
// SPDX-License-Identifier: GPL-3.0-only

// Package grouphash sketches pairing-product group hashing over tuples
// of G1 points: a Hasher interface (setup, eval, check, and a batched
// check left for a caller with enough volume to want it), with an
// XDH-style hasher backed by a real pairing. Pairing itself -- the
// Miller loop and final exponentiation -- is outside this module's core
// scope (see package curve's doc comment); XDHBN254 borrows
// gnark-crypto's BN254 pairing to give the one curve this module's core
// also targets a genuine, runnable implementation, while BatchCheck
// remains an unfinished sketch.
package grouphash

import (
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"

	"github.com/logical-mechanism/ftencode/curve"
)

// ErrNotImplemented marks the batched-check routines, left as an
// unfinished sketch: randomising several (message, hash) pairs together
// into one batched pairing check via GLV-split scalars, rather than
// checking each individually.
var ErrNotImplemented = errors.New("grouphash: batch_check is not implemented")

// Hasher is a pairing-product hash of an L-tuple of G1 points into some
// hash type, with a public-parameter setup, per-tuple evaluation and
// verification, and a batched verification left to concrete
// implementations.
type Hasher[PubParam, Hash any] interface {
	Setup(l int, r io.Reader) (PubParam, error)
	Eval(pp PubParam, m []curve.G1Affine) (Hash, error)
	Check(pp PubParam, m []curve.G1Affine, h Hash) (bool, error)
	BatchCheck(pp PubParam, m [][]curve.G1Affine, h []Hash, r io.Reader) (bool, error)
}

// XDHBN254 evaluates the hash of m as the product of pairings
// e(m[i], pp[i]) for a fixed sequence of random G2 points pp, using
// gnark-crypto's BN254 pairing.
type XDHBN254 struct{}

func toGnarkG1(g curve.G1Affine) (bn254.G1Affine, error) {
	if g.Infinity {
		var zero bn254.G1Affine
		return zero, nil
	}
	var out bn254.G1Affine
	out.X.SetBigInt(g.X.BigInt())
	out.Y.SetBigInt(g.Y.BigInt())
	if !out.IsOnCurve() {
		return bn254.G1Affine{}, fmt.Errorf("grouphash: point is not on the BN254 curve")
	}
	return out, nil
}

// Setup samples l random G2 points by scalar-multiplying the G2
// generator with fresh random scalars.
func (XDHBN254) Setup(l int, r io.Reader) ([]bn254.G2Affine, error) {
	_, _, _, g2Gen := bn254.Generators()
	pp := make([]bn254.G2Affine, l)
	for i := 0; i < l; i++ {
		var scalarBytes [32]byte
		if _, err := io.ReadFull(r, scalarBytes[:]); err != nil {
			return nil, fmt.Errorf("grouphash: sampling G2 scalar: %w", err)
		}
		s := new(big.Int).SetBytes(scalarBytes[:])
		pp[i].ScalarMultiplication(&g2Gen, s)
	}
	return pp, nil
}

// Eval computes prod_i e(m[i], pp[i]).
func (XDHBN254) Eval(pp []bn254.G2Affine, m []curve.G1Affine) (bn254.GT, error) {
	if len(m) != len(pp) {
		return bn254.GT{}, fmt.Errorf("grouphash: message has %d elements, public parameters have %d", len(m), len(pp))
	}
	g1s := make([]bn254.G1Affine, len(m))
	for i, p := range m {
		g1, err := toGnarkG1(p)
		if err != nil {
			return bn254.GT{}, err
		}
		g1s[i] = g1
	}
	return bn254.Pair(g1s, pp)
}

// Check reports whether h is the hash of m under pp.
func (x XDHBN254) Check(pp []bn254.G2Affine, m []curve.G1Affine, h bn254.GT) (bool, error) {
	got, err := x.Eval(pp, m)
	if err != nil {
		return false, err
	}
	return got.Equal(&h), nil
}

// BatchCheck is left unimplemented: a sound batched check would
// randomise each (m, h) pair with independent GLV-split scalars (see
// package glv) before combining them into one pairing computation,
// which needs the per-curve GLV lambda this module does not carry (see
// glv.Mul's doc comment).
func (XDHBN254) BatchCheck(pp []bn254.G2Affine, m [][]curve.G1Affine, h []bn254.GT, r io.Reader) (bool, error) {
	return false, ErrNotImplemented
}
