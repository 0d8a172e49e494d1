// Copyright (C) 2025 Logical Mechanism LLC
// SPDX-License-Identifier: GPL-3.0-only

// Package bnparams supplies the per-curve descriptors the rest of this
// module is parameterized over: the base-field modulus q and the short
// Weierstrass coefficient b of y^2 = x^3 + b. Everything downstream (field
// constants, the encoder, the hybrid packer) is derived once from a
// Params value rather than hard-coded per curve, per the "configuration
// record, not trait dispatch" guidance this design follows.
package bnparams

import (
	"math/big"

	"github.com/logical-mechanism/ftencode/field"

	bn254fp "github.com/consensys/gnark-crypto/ecc/bn254/fp"
)

// Params describes one BN-family curve's base field and short
// Weierstrass coefficient.
type Params struct {
	Name  string
	Field *field.Field
	B     field.Element
}

func mustField(q *big.Int) *field.Field {
	f, err := field.New(q)
	if err != nil {
		panic(err)
	}
	return f
}

// BN254 returns the descriptor for the standard 254-bit Barreto-Naehrig
// curve (the "alt_bn128" curve used by gnark-crypto, among others):
// y^2 = x^3 + 3. The modulus is pulled from gnark-crypto's bn254/fp
// package rather than copied as a decimal literal, so this descriptor and
// gnark-crypto's own field element type are guaranteed to agree on q.
func BN254() *Params {
	q := bn254fp.Modulus()
	f := mustField(q)
	return &Params{
		Name:  "BN254",
		Field: f,
		B:     f.FromUint64(3),
	}
}

// BN446 returns the descriptor for the non-standard 446-bit BN curve used
// in the message-encoding construction this module implements:
// y^2 = x^3 + 257. No general-purpose field or curve library in the wider
// ecosystem is parameterized over this modulus, which is exactly why
// Params/field.Field exist: the 446-bit curve is supported the same way
// BN254 is, by value rather than by a generated, modulus-specific type.
func BN446() *Params {
	q, ok := new(big.Int).SetString(
		"102211695604069718983520304652693874995639508460729604902280098199792736381528662976886082950231100101353700265360419596271313339023463",
		10,
	)
	if !ok {
		panic("bnparams: malformed BN446 modulus literal")
	}
	f := mustField(q)
	return &Params{
		Name:  "BN446",
		Field: f,
		B:     f.FromUint64(257),
	}
}
