// Copyright (C) 2025 Logical Mechanism LLC
// SPDX-License-Identifier: GPL-3.0-only

// Package pke implements two toy group-element public-key encryption
// schemes -- textbook ElGamal and a Shacham-Waters-style triple-ElGamal
// variant -- that exist purely to consume and produce the G1Affine
// points package encode/hybrid deal in. Neither scheme is the
// interesting part of this module: they are the straightforward
// "external collaborator" consumers the encoding exists to serve,
// carrying application payloads (via the hybrid packer) as ciphertext
// components instead of as padded plaintext.
package pke

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/logical-mechanism/ftencode/bnparams"
	"github.com/logical-mechanism/ftencode/curve"
)

// ElGamalParams is the scheme's single public generator.
type ElGamalParams struct {
	Curve *bnparams.Params
	G     curve.G1Affine
}

// ElGamalSecretKey holds one scalar per message slot.
type ElGamalSecretKey struct {
	X []*big.Int
}

// ElGamalPublicKey holds pp.G raised to each secret scalar.
type ElGamalPublicKey struct {
	PP ElGamalParams
	Y  []curve.G1Affine
}

// ElGamalCiphertext is the randomising element r = [s]G alongside one
// masked point per message slot.
type ElGamalCiphertext struct {
	R curve.G1Affine
	E []curve.G1Affine
}

func randomScalar(c *bnparams.Params, r io.Reader) (*big.Int, error) {
	if r == nil {
		r = rand.Reader
	}
	e, err := c.Field.RandomElement(r)
	if err != nil {
		return nil, fmt.Errorf("pke: sampling scalar: %w", err)
	}
	return e.BigInt(), nil
}

// ElGamalSetup builds the scheme's public parameters from the given
// generator g; it does not sample one.
func ElGamalSetup(c *bnparams.Params, g curve.G1Affine) ElGamalParams {
	return ElGamalParams{Curve: c, G: g}
}

// ElGamalKeyGen samples count independent scalar/point keypairs.
func ElGamalKeyGen(pp ElGamalParams, count int, r io.Reader) (ElGamalSecretKey, ElGamalPublicKey, error) {
	sk := ElGamalSecretKey{X: make([]*big.Int, count)}
	pk := ElGamalPublicKey{PP: pp, Y: make([]curve.G1Affine, count)}

	for i := 0; i < count; i++ {
		x, err := randomScalar(pp.Curve, r)
		if err != nil {
			return ElGamalSecretKey{}, ElGamalPublicKey{}, err
		}
		sk.X[i] = x
		pk.Y[i] = pp.G.ScalarMul(x, pp.Curve)
	}
	return sk, pk, nil
}

// ElGamalEncrypt masks each plaintext[i] with [s]pk.Y[i] for a freshly
// sampled s, and publishes r = [s]G alongside the masked points.
func ElGamalEncrypt(pk ElGamalPublicKey, plaintext []curve.G1Affine, r io.Reader) (ElGamalCiphertext, error) {
	if len(plaintext) > len(pk.Y) {
		return ElGamalCiphertext{}, fmt.Errorf("pke: plaintext has %d slots, key only supports %d", len(plaintext), len(pk.Y))
	}
	s, err := randomScalar(pk.PP.Curve, r)
	if err != nil {
		return ElGamalCiphertext{}, err
	}

	rPoint := pk.PP.G.ScalarMul(s, pk.PP.Curve)
	e := make([]curve.G1Affine, len(plaintext))
	for i, m := range plaintext {
		e[i] = m.Add(pk.Y[i].ScalarMul(s, pk.PP.Curve), pk.PP.Curve)
	}
	return ElGamalCiphertext{R: rPoint, E: e}, nil
}

// ElGamalDecrypt recovers plaintext[i] = ct.E[i] - [sk.X[i]]ct.R.
func ElGamalDecrypt(c *bnparams.Params, sk ElGamalSecretKey, ct ElGamalCiphertext) []curve.G1Affine {
	out := make([]curve.G1Affine, len(sk.X))
	for i, x := range sk.X {
		out[i] = ct.E[i].Add(ct.R.ScalarMul(x, c).Neg(), c)
	}
	return out
}

// ElGamalRerand re-randomises a ciphertext under a fresh scalar, so that
// it is unlinkable to the original while decrypting to the same
// plaintext under the same secret key.
func ElGamalRerand(pk ElGamalPublicKey, ct ElGamalCiphertext, r io.Reader) (ElGamalCiphertext, error) {
	sNew, err := randomScalar(pk.PP.Curve, r)
	if err != nil {
		return ElGamalCiphertext{}, err
	}
	rNew := ct.R.Add(pk.PP.G.ScalarMul(sNew, pk.PP.Curve), pk.PP.Curve)
	eNew := make([]curve.G1Affine, len(ct.E))
	for i := range ct.E {
		eNew[i] = ct.E[i].Add(pk.Y[i].ScalarMul(sNew, pk.PP.Curve), pk.PP.Curve)
	}
	return ElGamalCiphertext{R: rNew, E: eNew}, nil
}
