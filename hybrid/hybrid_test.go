// Copyright (C) 2025 Logical Mechanism LLC
// SPDX-License-Identifier: GPL-3.0-only

package hybrid

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/logical-mechanism/ftencode/bnparams"
	"github.com/logical-mechanism/ftencode/curve"
	"github.com/logical-mechanism/ftencode/encode"
)

func newTestEncoder(t *testing.T, p *bnparams.Params) *Encoder {
	t.Helper()
	e, err := encode.New(p)
	if err != nil {
		t.Fatalf("encode.New: %v", err)
	}
	h, err := New(e)
	if err != nil {
		t.Fatalf("hybrid.New: %v", err)
	}
	return h
}

func TestNew_BN254_Dimensions(t *testing.T) {
	p := bnparams.BN254()
	h := newTestEncoder(t, p)

	if h.NumPoints() != 84 {
		t.Fatalf("want 84 data points for BN254, got %d", h.NumPoints())
	}
	if h.Capacity() != 31*84 {
		t.Fatalf("want capacity %d, got %d", 31*84, h.Capacity())
	}
}

func TestNew_BN446_Dimensions(t *testing.T) {
	p := bnparams.BN446()
	h := newTestEncoder(t, p)

	if h.NumPoints() != 180 {
		t.Fatalf("want 180 data points for BN446, got %d", h.NumPoints())
	}
	if h.Capacity() != 55*180 {
		t.Fatalf("want capacity %d, got %d", 55*180, h.Capacity())
	}
}

func TestEncodeDecode_RoundTrip_BN254(t *testing.T) {
	p := bnparams.BN254()
	h := newTestEncoder(t, p)

	payload := make([]byte, h.Capacity())
	if _, err := rand.Read(payload); err != nil {
		t.Fatalf("rand.Read: %v", err)
	}

	points, err := h.Encode(payload, rand.Reader)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(points) != h.NumPoints()+1 {
		t.Fatalf("want %d points, got %d", h.NumPoints()+1, len(points))
	}

	got, err := h.Decode(points)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatal("round trip mismatch")
	}
}

func TestEncode_WrongLength(t *testing.T) {
	p := bnparams.BN254()
	h := newTestEncoder(t, p)

	_, err := h.Encode(make([]byte, h.Capacity()-1), rand.Reader)
	if err == nil {
		t.Fatal("want ErrLength for a too-short payload")
	}
}

func TestDecode_WrongPointCount(t *testing.T) {
	p := bnparams.BN254()
	h := newTestEncoder(t, p)

	_, err := h.Decode(make([]curve.G1Affine, h.NumPoints()))
	if err == nil {
		t.Fatal("want ErrLength for a short point list")
	}
}

func TestDecode_TamperedTagPoint_FailsIntegrity(t *testing.T) {
	p := bnparams.BN254()
	h := newTestEncoder(t, p)

	payload := make([]byte, h.Capacity())
	points, err := h.Encode(payload, rand.Reader)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	// Replace the tag point with the point at infinity, whose coordinates
	// are (0, 0): decode_without_hints yields at most two candidates for
	// it (attempts 1 and 2; attempts 3 and 4 need x-1 = -1 to be a square,
	// which it is not when q == 3 mod 4), none of which is a tag buffer
	// carrying a matching Blake2s tag, so the substitution is expected to
	// fail integrity rather than silently decode.
	points[len(points)-1] = curve.Infinity(p)

	if _, err := h.Decode(points); err != ErrIntegrity {
		t.Fatalf("want ErrIntegrity after substituting the tag point, got %v", err)
	}
}

func TestPackUnpackHints_RoundTrip(t *testing.T) {
	hints := []encode.Hint{encode.Hint1, encode.Hint2, encode.Hint3, encode.Hint4, encode.Hint1, encode.Hint4, encode.Hint2, encode.Hint3}
	packed := packHints(hints)
	unpacked := unpackHints(packed, len(hints))
	for i := range hints {
		if unpacked[i] != hints[i] {
			t.Fatalf("hint %d: got %v, want %v", i, unpacked[i], hints[i])
		}
	}
}

func TestPackHints_BitOrder(t *testing.T) {
	// hint=1 contributes bits (0,0); hint=4 contributes bits (1,1); bits are
	// packed LSB-first, so two hints {4, 1} should produce byte 0b00000011.
	packed := packHints([]encode.Hint{encode.Hint4, encode.Hint1})
	if len(packed) != 1 || packed[0] != 0b00000011 {
		t.Fatalf("packHints({4,1}) = %08b, want 00000011", packed[0])
	}
}
