// Copyright (C) 2025 Logical Mechanism LLC
// SPDX-License-Identifier: GPL-3.0-only

package pke

import (
	"crypto/rand"
	"testing"

	"github.com/logical-mechanism/ftencode/bnparams"
	"github.com/logical-mechanism/ftencode/curve"
)

// findGenerator returns a small on-curve point to use as a PKE generator
// or plaintext value without depending on package encode.
func findGenerator(t *testing.T, p *bnparams.Params, skip uint64) curve.G1Affine {
	t.Helper()
	f := p.Field
	for i := uint64(1) + skip; i < 1000+skip; i++ {
		x := f.FromUint64(i)
		rhs := x.Square().Mul(x).Add(p.B)
		if y, ok := rhs.Sqrt(); ok {
			pt := curve.NewAffine(x, y)
			if pt.IsOnCurve(p) {
				return pt
			}
		}
	}
	t.Fatal("no small on-curve point found")
	return curve.G1Affine{}
}

func TestElGamal_EncryptDecrypt_RoundTrip(t *testing.T) {
	c := bnparams.BN254()
	g := findGenerator(t, c, 0)
	pp := ElGamalSetup(c, g)

	sk, pk, err := ElGamalKeyGen(pp, 3, rand.Reader)
	if err != nil {
		t.Fatalf("ElGamalKeyGen: %v", err)
	}

	plaintext := []curve.G1Affine{
		findGenerator(t, c, 10),
		findGenerator(t, c, 20),
		findGenerator(t, c, 30),
	}

	ct, err := ElGamalEncrypt(pk, plaintext, rand.Reader)
	if err != nil {
		t.Fatalf("ElGamalEncrypt: %v", err)
	}

	got := ElGamalDecrypt(c, sk, ct)
	for i := range plaintext {
		if !got[i].Equal(plaintext[i]) {
			t.Fatalf("slot %d: got %v, want %v", i, got[i], plaintext[i])
		}
	}
}

func TestElGamal_Rerand_PreservesPlaintext(t *testing.T) {
	c := bnparams.BN254()
	g := findGenerator(t, c, 0)
	pp := ElGamalSetup(c, g)

	sk, pk, err := ElGamalKeyGen(pp, 1, rand.Reader)
	if err != nil {
		t.Fatalf("ElGamalKeyGen: %v", err)
	}

	plaintext := []curve.G1Affine{findGenerator(t, c, 40)}
	ct, err := ElGamalEncrypt(pk, plaintext, rand.Reader)
	if err != nil {
		t.Fatalf("ElGamalEncrypt: %v", err)
	}

	rerand, err := ElGamalRerand(pk, ct, rand.Reader)
	if err != nil {
		t.Fatalf("ElGamalRerand: %v", err)
	}
	if rerand.R.Equal(ct.R) {
		t.Fatal("rerandomised ciphertext should have a fresh R with overwhelming probability")
	}

	got := ElGamalDecrypt(c, sk, rerand)
	if !got[0].Equal(plaintext[0]) {
		t.Fatalf("rerandomised ciphertext should still decrypt to the original plaintext")
	}
}

func TestElGamal_TooManySlots(t *testing.T) {
	c := bnparams.BN254()
	g := findGenerator(t, c, 0)
	pp := ElGamalSetup(c, g)

	_, pk, err := ElGamalKeyGen(pp, 1, rand.Reader)
	if err != nil {
		t.Fatalf("ElGamalKeyGen: %v", err)
	}

	plaintext := []curve.G1Affine{findGenerator(t, c, 1), findGenerator(t, c, 2)}
	if _, err := ElGamalEncrypt(pk, plaintext, rand.Reader); err == nil {
		t.Fatal("want an error when plaintext exceeds the key's slot count")
	}
}

func TestShacham_EncryptDecrypt_RoundTrip(t *testing.T) {
	c := bnparams.BN254()
	pp := ShachamSetup(c, findGenerator(t, c, 0), findGenerator(t, c, 100), findGenerator(t, c, 200))

	sk, pk, err := ShachamKeyGen(pp, 2, rand.Reader)
	if err != nil {
		t.Fatalf("ShachamKeyGen: %v", err)
	}

	plaintext := []curve.G1Affine{findGenerator(t, c, 300), findGenerator(t, c, 400)}
	ct, err := ShachamEncrypt(pk, plaintext, rand.Reader)
	if err != nil {
		t.Fatalf("ShachamEncrypt: %v", err)
	}

	got := ShachamDecrypt(c, sk, ct)
	for i := range plaintext {
		if !got[i].Equal(plaintext[i]) {
			t.Fatalf("slot %d: got %v, want %v", i, got[i], plaintext[i])
		}
	}
}

func TestShacham_Rerand_PreservesPlaintext(t *testing.T) {
	c := bnparams.BN254()
	pp := ShachamSetup(c, findGenerator(t, c, 0), findGenerator(t, c, 100), findGenerator(t, c, 200))

	sk, pk, err := ShachamKeyGen(pp, 1, rand.Reader)
	if err != nil {
		t.Fatalf("ShachamKeyGen: %v", err)
	}

	plaintext := []curve.G1Affine{findGenerator(t, c, 500)}
	ct, err := ShachamEncrypt(pk, plaintext, rand.Reader)
	if err != nil {
		t.Fatalf("ShachamEncrypt: %v", err)
	}

	rerand, err := ShachamRerand(pk, ct, rand.Reader)
	if err != nil {
		t.Fatalf("ShachamRerand: %v", err)
	}
	if rerand.R1.Equal(ct.R1) {
		t.Fatal("rerandomised ciphertext should have a fresh R1 with overwhelming probability")
	}

	got := ShachamDecrypt(c, sk, rerand)
	if !got[0].Equal(plaintext[0]) {
		t.Fatal("rerandomised ciphertext should still decrypt to the original plaintext")
	}
}

func TestShacham_TooManySlots(t *testing.T) {
	c := bnparams.BN254()
	pp := ShachamSetup(c, findGenerator(t, c, 0), findGenerator(t, c, 100), findGenerator(t, c, 200))

	_, pk, err := ShachamKeyGen(pp, 1, rand.Reader)
	if err != nil {
		t.Fatalf("ShachamKeyGen: %v", err)
	}

	plaintext := []curve.G1Affine{findGenerator(t, c, 1), findGenerator(t, c, 2)}
	if _, err := ShachamEncrypt(pk, plaintext, rand.Reader); err == nil {
		t.Fatal("want an error when plaintext exceeds the key's slot count")
	}
}
