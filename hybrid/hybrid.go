// Copyright (C) 2025 Logical Mechanism LLC
// SPDX-License-Identifier: GPL-3.0-only

// Package hybrid implements the bundle-level packing protocol built on
// top of package encode: a fixed-length byte payload is chunked into N
// field elements, each encoded to a curve point with a 2-bit branch
// hint, and the 2N hint bits plus an 80-bit integrity tag are packed into
// one further field element and encoded as a trailing point. Decoding
// recovers the hints from the trailing point by enumeration (checking
// the tag against each candidate), then decodes the remaining N points
// with hints in constant branches each.
package hybrid

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/bits-and-blooms/bitset"
	"golang.org/x/crypto/blake2s"

	"github.com/logical-mechanism/ftencode/curve"
	"github.com/logical-mechanism/ftencode/encode"
)

// tagBytes is the length, in bytes, of the integrity tag (80 bits).
const tagBytes = 10

// ErrConfig signals that the owning curve's field is too small to host a
// hybrid bundle (fewer than 11 direct-embed bytes per point).
var ErrConfig = errors.New("hybrid: field element too small for hybrid packing")

// ErrLength is returned when Encode receives a payload of the wrong
// length, or Decode receives the wrong number of points.
var ErrLength = errors.New("hybrid: wrong input length")

// ErrIntegrity is returned when no candidate preimage of the trailing
// point reproduces its own integrity tag.
var ErrIntegrity = errors.New("hybrid: no candidate matches the integrity tag")

// ErrAmbiguity is returned when more than one candidate preimage matches
// the integrity tag -- a measure-zero coincidence that, in practice,
// indicates a forged or corrupted bundle.
var ErrAmbiguity = errors.New("hybrid: multiple candidates match the integrity tag")

// Encoder packs and unpacks byte payloads into bundles of curve points,
// built on a single-point encode.Encoder. It is immutable after New and
// safe to share across goroutines under the same conditions as the
// underlying Encoder.
type Encoder struct {
	enc *encode.Encoder

	bytesPerPoint int // C
	numPoints     int // N
}

// New derives the hybrid parameters (C, N) from enc's field size and
// builds an Encoder. It fails with ErrConfig if the field is too small
// to carry even one data chunk alongside the tag.
func New(enc *encode.Encoder) (*Encoder, error) {
	bitsPerFE := enc.Params.Field.BitLen() - 1
	bytesPerPoint := bitsPerFE / 8
	if bytesPerPoint <= tagBytes {
		return nil, fmt.Errorf("%w: %d bytes per point, need > %d", ErrConfig, bytesPerPoint, tagBytes)
	}
	numPoints := (bytesPerPoint*8 - tagBytes*8) / 2
	if (numPoints*2)%8 != 0 {
		return nil, fmt.Errorf("%w: derived N=%d does not pack to a whole number of hint bytes", ErrConfig, numPoints)
	}
	return &Encoder{enc: enc, bytesPerPoint: bytesPerPoint, numPoints: numPoints}, nil
}

// Capacity is the number of payload bytes one bundle carries.
func (h *Encoder) Capacity() int { return h.bytesPerPoint * h.numPoints }

// NumPoints is N, the number of data-carrying points in a bundle
// (one further trailing point carries the hints and tag).
func (h *Encoder) NumPoints() int { return h.numPoints }

func tagOf(b []byte) ([]byte, error) {
	hasher, err := blake2s.New(tagBytes, nil)
	if err != nil {
		return nil, fmt.Errorf("hybrid: building blake2s hasher: %w", err)
	}
	if _, err := hasher.Write(b); err != nil {
		return nil, fmt.Errorf("hybrid: hashing: %w", err)
	}
	return hasher.Sum(nil), nil
}

// packHints serialises N two-bit hints into ceil(2N/8) bytes. Hint h
// contributes the two bits (h-1) as bit 2i (LSB of the hint, at position
// i) and bit 2i+1 (MSB), both packed LSB-first within their byte -- the
// bit-exact layout fixed so independently-written encoders and decoders
// agree on the wire format.
func packHints(hints []encode.Hint) []byte {
	bs := bitset.New(uint(len(hints) * 2))
	for i, h := range hints {
		val := uint8(h - 1) // 0..3
		if val&0b01 != 0 {
			bs.Set(uint(2 * i))
		}
		if val&0b10 != 0 {
			bs.Set(uint(2*i + 1))
		}
	}
	n := len(hints) * 2
	out := make([]byte, (n+7)/8)
	for i := 0; i < n; i++ {
		if bs.Test(uint(i)) {
			out[i/8] |= 1 << uint(i%8)
		}
	}
	return out
}

// unpackHints inverts packHints for exactly numPoints hints.
func unpackHints(buf []byte, numPoints int) []encode.Hint {
	bs := bitset.New(uint(numPoints * 2))
	for i := 0; i < numPoints*2; i++ {
		if buf[i/8]&(1<<uint(i%8)) != 0 {
			bs.Set(uint(i))
		}
	}
	hints := make([]encode.Hint, numPoints)
	for i := 0; i < numPoints; i++ {
		var val uint8
		if bs.Test(uint(2 * i)) {
			val |= 0b01
		}
		if bs.Test(uint(2*i + 1)) {
			val |= 0b10
		}
		hints[i] = encode.Hint(val + 1)
	}
	return hints
}

// Encode chunks payload into NumPoints() field elements, encodes each to
// a point, and appends one further point carrying the packed hints and
// their integrity tag. len(payload) must equal Capacity().
func (h *Encoder) Encode(payload []byte, rand io.Reader) ([]curve.G1Affine, error) {
	if len(payload) != h.Capacity() {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrLength, len(payload), h.Capacity())
	}

	f := h.enc.Params.Field
	points := make([]curve.G1Affine, h.numPoints+1)
	hints := make([]encode.Hint, h.numPoints)

	for i := 0; i < h.numPoints; i++ {
		chunk := payload[i*h.bytesPerPoint : (i+1)*h.bytesPerPoint]
		v := f.FromLEBytesModOrder(chunk)
		p, hint, err := h.enc.Encode(v, rand)
		if err != nil {
			return nil, fmt.Errorf("hybrid: encoding chunk %d: %w", i, err)
		}
		points[i] = p
		hints[i] = hint
	}

	hintBytes := packHints(hints)
	tag, err := tagOf(hintBytes)
	if err != nil {
		return nil, err
	}
	tagBuf := append(append([]byte{}, hintBytes...), tag...)
	if len(tagBuf) != h.bytesPerPoint {
		return nil, fmt.Errorf("hybrid: internal error, tag buffer is %d bytes, want %d", len(tagBuf), h.bytesPerPoint)
	}

	vTag := f.FromLEBytesModOrder(tagBuf)
	pTag, _, err := h.enc.Encode(vTag, rand)
	if err != nil {
		return nil, fmt.Errorf("hybrid: encoding tag point: %w", err)
	}
	points[h.numPoints] = pTag

	return points, nil
}

// Decode inverts Encode: it recovers the hints and tag from the trailing
// point by enumeration, verifies the tag, then decodes the remaining
// points with hints in constant branches each.
func (h *Encoder) Decode(points []curve.G1Affine) ([]byte, error) {
	if len(points) != h.numPoints+1 {
		return nil, fmt.Errorf("%w: got %d points, want %d", ErrLength, len(points), h.numPoints+1)
	}

	tagPoint := points[h.numPoints]
	candidates := h.enc.DecodeWithoutHints(tagPoint)

	var matched []byte
	matches := 0
	hintPayloadLen := h.bytesPerPoint - tagBytes
	for _, c := range candidates {
		if c == nil {
			continue
		}
		if c.BitLen() > h.bytesPerPoint*8 {
			// Can't have come from a real tag buffer, which is exactly
			// bytesPerPoint bytes wide; ToLEBytes would panic on this size.
			continue
		}
		buf := c.ToLEBytes(h.bytesPerPoint)
		hintPayload := buf[:hintPayloadLen]
		claimedTag := buf[hintPayloadLen:]
		recomputed, err := tagOf(hintPayload)
		if err != nil {
			return nil, err
		}
		if bytes.Equal(recomputed, claimedTag) {
			matched = hintPayload
			matches++
		}
	}
	if matches == 0 {
		return nil, ErrIntegrity
	}
	if matches > 1 {
		return nil, ErrAmbiguity
	}

	hints := unpackHints(matched, h.numPoints)

	out := make([]byte, 0, h.Capacity())
	for i := 0; i < h.numPoints; i++ {
		v, err := h.enc.DecodeWithHints(points[i], hints[i])
		if err != nil {
			return nil, fmt.Errorf("hybrid: decoding chunk %d: %w", i, err)
		}
		out = append(out, v.ToLEBytes(h.bytesPerPoint)...)
	}
	return out, nil
}
