// Copyright (C) 2025 Logical Mechanism LLC
// SPDX-License-Identifier: GPL-3.0-only

package pke

import (
	"fmt"
	"io"
	"math/big"

	"github.com/logical-mechanism/ftencode/bnparams"
	"github.com/logical-mechanism/ftencode/curve"
)

// ShachamParams holds the scheme's three independent generators
// (Shacham-Waters-style "linear encryption": two independent masks
// combined through a shared scalar-pair so the scheme remains secure
// under a weaker, DLIN-style assumption than plain ElGamal).
type ShachamParams struct {
	Curve   *bnparams.Params
	U, V, W curve.G1Affine
}

// ShachamSecretKey holds three scalars per message slot.
type ShachamSecretKey struct {
	X, Y, Z []*big.Int
}

// ShachamPublicKey holds the two derived point sequences.
type ShachamPublicKey struct {
	PP   ShachamParams
	Y, Z []curve.G1Affine
}

// ShachamCiphertext carries three randomising elements and one masked
// point per message slot.
type ShachamCiphertext struct {
	R1, R2, R3 curve.G1Affine
	E          []curve.G1Affine
}

// ShachamSetup builds the scheme's public parameters from the three given
// generators u, v, w; it does not sample them.
func ShachamSetup(c *bnparams.Params, u, v, w curve.G1Affine) ShachamParams {
	return ShachamParams{Curve: c, U: u, V: v, W: w}
}

// ShachamKeyGen samples count independent scalar triples and derives the
// corresponding public points.
func ShachamKeyGen(pp ShachamParams, count int, r io.Reader) (ShachamSecretKey, ShachamPublicKey, error) {
	sk := ShachamSecretKey{
		X: make([]*big.Int, count),
		Y: make([]*big.Int, count),
		Z: make([]*big.Int, count),
	}
	pk := ShachamPublicKey{PP: pp, Y: make([]curve.G1Affine, count), Z: make([]curve.G1Affine, count)}

	for i := 0; i < count; i++ {
		x, err := randomScalar(pp.Curve, r)
		if err != nil {
			return ShachamSecretKey{}, ShachamPublicKey{}, err
		}
		y, err := randomScalar(pp.Curve, r)
		if err != nil {
			return ShachamSecretKey{}, ShachamPublicKey{}, err
		}
		z, err := randomScalar(pp.Curve, r)
		if err != nil {
			return ShachamSecretKey{}, ShachamPublicKey{}, err
		}
		sk.X[i], sk.Y[i], sk.Z[i] = x, y, z

		pk.Y[i] = pp.U.ScalarMul(x, pp.Curve).Add(pp.W.ScalarMul(z, pp.Curve), pp.Curve)
		pk.Z[i] = pp.V.ScalarMul(y, pp.Curve).Add(pp.W.ScalarMul(z, pp.Curve), pp.Curve)
	}
	return sk, pk, nil
}

// ShachamEncrypt masks each plaintext[i] with [a]pk.Y[i] + [b]pk.Z[i]
// for freshly sampled a, b.
func ShachamEncrypt(pk ShachamPublicKey, plaintext []curve.G1Affine, r io.Reader) (ShachamCiphertext, error) {
	if len(plaintext) > len(pk.Y) {
		return ShachamCiphertext{}, fmt.Errorf("pke: plaintext has %d slots, key only supports %d", len(plaintext), len(pk.Y))
	}
	c := pk.PP.Curve
	a, err := randomScalar(c, r)
	if err != nil {
		return ShachamCiphertext{}, err
	}
	b, err := randomScalar(c, r)
	if err != nil {
		return ShachamCiphertext{}, err
	}
	aPlusB := new(big.Int).Add(a, b)

	r1 := pk.PP.U.ScalarMul(a, c)
	r2 := pk.PP.V.ScalarMul(b, c)
	r3 := pk.PP.W.ScalarMul(aPlusB, c)

	e := make([]curve.G1Affine, len(plaintext))
	for i, m := range plaintext {
		e[i] = m.Add(pk.Y[i].ScalarMul(a, c), c).Add(pk.Z[i].ScalarMul(b, c), c)
	}
	return ShachamCiphertext{R1: r1, R2: r2, R3: r3, E: e}, nil
}

// ShachamDecrypt recovers plaintext[i] = ct.E[i] - [x_i]ct.R1 - [y_i]ct.R2 - [z_i]ct.R3.
func ShachamDecrypt(c *bnparams.Params, sk ShachamSecretKey, ct ShachamCiphertext) []curve.G1Affine {
	out := make([]curve.G1Affine, len(sk.X))
	for i := range sk.X {
		p := ct.E[i]
		p = p.Add(ct.R1.ScalarMul(sk.X[i], c).Neg(), c)
		p = p.Add(ct.R2.ScalarMul(sk.Y[i], c).Neg(), c)
		p = p.Add(ct.R3.ScalarMul(sk.Z[i], c).Neg(), c)
		out[i] = p
	}
	return out
}

// ShachamRerand re-randomises a ciphertext under a fresh scalar pair.
func ShachamRerand(pk ShachamPublicKey, ct ShachamCiphertext, r io.Reader) (ShachamCiphertext, error) {
	c := pk.PP.Curve
	aNew, err := randomScalar(c, r)
	if err != nil {
		return ShachamCiphertext{}, err
	}
	bNew, err := randomScalar(c, r)
	if err != nil {
		return ShachamCiphertext{}, err
	}
	aPlusBNew := new(big.Int).Add(aNew, bNew)

	r1New := ct.R1.Add(pk.PP.U.ScalarMul(aNew, c), c)
	r2New := ct.R2.Add(pk.PP.V.ScalarMul(bNew, c), c)
	r3New := ct.R3.Add(pk.PP.W.ScalarMul(aPlusBNew, c), c)

	eNew := make([]curve.G1Affine, len(ct.E))
	for i := range ct.E {
		eNew[i] = ct.E[i].Add(pk.Y[i].ScalarMul(aNew, c), c).Add(pk.Z[i].ScalarMul(bNew, c), c)
	}
	return ShachamCiphertext{R1: r1New, R2: r2New, R3: r3New, E: eNew}, nil
}
