// Copyright (C) 2025 Logical Mechanism LLC
// SPDX-License-Identifier: GPL-3.0-only

package precompute

import (
	"testing"

	"github.com/logical-mechanism/ftencode/bnparams"
)

func TestNew_BN254(t *testing.T) {
	p := bnparams.BN254()
	tbl, err := New(p)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	f := p.Field
	if !tbl.SqrtMinus3.Square().Equal(f.FromUint64(3).Neg()) {
		t.Fatal("SqrtMinus3^2 should equal -3")
	}
	if !tbl.MinusSqrtMinus3.Equal(tbl.SqrtMinus3.Neg()) {
		t.Fatal("MinusSqrtMinus3 should be the negation of SqrtMinus3")
	}
	if !f.FromUint64(2).Mul(tbl.Inv2).Equal(f.One()) {
		t.Fatal("2 * Inv2 should equal 1")
	}
	if tbl.SqrtExponent.Sign() <= 0 {
		t.Fatal("SqrtExponent should be a positive exponent")
	}
}

func TestNew_BN446(t *testing.T) {
	p := bnparams.BN446()
	tbl, err := New(p)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !tbl.SqrtMinus3.Square().Equal(p.Field.FromUint64(3).Neg()) {
		t.Fatal("SqrtMinus3^2 should equal -3 for BN446")
	}
}

func TestSqrtByExponent_MatchesVerifiedSqrt(t *testing.T) {
	p := bnparams.BN254()
	tbl, err := New(p)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	f := p.Field

	v := f.FromUint64(25)
	square := v.Square()

	want, ok := square.Sqrt()
	if !ok {
		t.Fatal("25^2 should have a verified square root")
	}
	got := tbl.SqrtByExponent(square)
	if !got.Equal(want) && !got.Equal(want.Neg()) {
		t.Fatal("SqrtByExponent should return one of the two square roots")
	}
}
