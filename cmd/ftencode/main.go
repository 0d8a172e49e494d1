// Copyright (C) 2025 Logical Mechanism LLC
// SPDX-License-Identifier: GPL-3.0-only

// main.go
package main

import (
	"bufio"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"

	"github.com/logical-mechanism/ftencode/bnparams"
	"github.com/logical-mechanism/ftencode/curve"
	"github.com/logical-mechanism/ftencode/encode"
	"github.com/logical-mechanism/ftencode/field"
	"github.com/logical-mechanism/ftencode/hybrid"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		fmt.Fprintln(stderr, "usage: ftencode <encode|decode|capacity|pack|unpack> [flags]")
		return 2
	}

	switch args[0] {
	case "encode":
		return runEncode(args[1:], stdout, stderr)
	case "decode":
		return runDecode(args[1:], stdout, stderr)
	case "capacity":
		return runCapacity(args[1:], stdout, stderr)
	case "pack":
		return runPack(args[1:], stdout, stderr)
	case "unpack":
		return runUnpack(args[1:], stdout, stderr)
	default:
		fmt.Fprintf(stderr, "error: unknown command %q\n", args[0])
		return 2
	}
}

func curveByName(name string) (*bnparams.Params, error) {
	switch strings.ToLower(name) {
	case "bn254":
		return bnparams.BN254(), nil
	case "bn446":
		return bnparams.BN446(), nil
	default:
		return nil, fmt.Errorf("unknown curve %q (want bn254 or bn446)", name)
	}
}

// seededReader expands a fixed seed into an arbitrarily long byte stream via
// repeated SHA-256 block hashing, so a CLI caller can request deterministic
// output for test vectors without needing crypto/rand.
type seededReader struct {
	seed    []byte
	counter uint64
	buf     []byte
}

func newSeededReader(seed []byte) *seededReader {
	return &seededReader{seed: seed}
}

func (s *seededReader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if len(s.buf) == 0 {
			var ctr [8]byte
			for i := range ctr {
				ctr[i] = byte(s.counter >> (8 * uint(i)))
			}
			s.counter++
			h := sha256.Sum256(append(append([]byte{}, s.seed...), ctr[:]...))
			s.buf = h[:]
		}
		c := copy(p[n:], s.buf)
		s.buf = s.buf[c:]
		n += c
	}
	return n, nil
}

func parseBigInt(s string) (*big.Int, error) {
	v := new(big.Int)
	if _, ok := v.SetString(s, 0); !ok {
		return nil, fmt.Errorf("could not parse %q as an integer (decimal or 0x.. hex)", s)
	}
	return v, nil
}

func pointToHex(p curve.G1Affine, size int) string {
	if p.Infinity {
		return "inf"
	}
	return fmt.Sprintf("%x:%x", p.X.ToLEBytes(size), p.Y.ToLEBytes(size))
}

func pointFromHex(s string, f *field.Field) (curve.G1Affine, error) {
	if s == "inf" {
		return curve.G1Affine{X: f.Zero(), Y: f.Zero(), Infinity: true}, nil
	}
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return curve.G1Affine{}, fmt.Errorf("malformed point %q, want <x-hex>:<y-hex>", s)
	}
	// pointToHex renders each coordinate little-endian via ToLEBytes, so
	// the bytes here must be fed through FromLEBytesModOrder, not parsed
	// as a big-endian integer.
	xBytes, err := hex.DecodeString(parts[0])
	if err != nil {
		return curve.G1Affine{}, fmt.Errorf("parsing x: %w", err)
	}
	yBytes, err := hex.DecodeString(parts[1])
	if err != nil {
		return curve.G1Affine{}, fmt.Errorf("parsing y: %w", err)
	}
	return curve.NewAffine(f.FromLEBytesModOrder(xBytes), f.FromLEBytesModOrder(yBytes)), nil
}

func runEncode(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("encode", flag.ContinueOnError)
	cmd.SetOutput(stderr)

	var curveName, vStr, seedHex string
	cmd.StringVar(&curveName, "curve", "bn254", "curve to use (bn254 or bn446)")
	cmd.StringVar(&vStr, "v", "", "field element to encode (decimal by default; or 0x... hex)")
	cmd.StringVar(&seedHex, "seed", "", "optional hex seed for deterministic output (default: crypto/rand)")
	if err := cmd.Parse(args); err != nil {
		return 2
	}

	if vStr == "" {
		fmt.Fprintln(stderr, "error: -v is required")
		cmd.Usage()
		return 2
	}

	p, err := curveByName(curveName)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 2
	}
	enc, err := encode.New(p)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	vInt, err := parseBigInt(vStr)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 2
	}
	v := p.Field.FromBigInt(vInt)

	r, err := randSource(seedHex)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 2
	}

	point, hint, err := enc.Encode(v, r)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	fmt.Fprintf(stdout, "point=%s hint=%d (%s)\n", pointToHex(point, p.Field.ByteLen()), uint8(hint), hint)
	return 0
}

func runDecode(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("decode", flag.ContinueOnError)
	cmd.SetOutput(stderr)

	var curveName, pointStr string
	var hintInt int
	cmd.StringVar(&curveName, "curve", "bn254", "curve to use (bn254 or bn446)")
	cmd.StringVar(&pointStr, "point", "", "point to decode, as <x-hex>:<y-hex>")
	cmd.IntVar(&hintInt, "hint", 0, "branch hint (1-4); omit or 0 to enumerate all candidates")
	if err := cmd.Parse(args); err != nil {
		return 2
	}

	if pointStr == "" {
		fmt.Fprintln(stderr, "error: -point is required")
		cmd.Usage()
		return 2
	}

	p, err := curveByName(curveName)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 2
	}
	enc, err := encode.New(p)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	point, err := pointFromHex(pointStr, p.Field)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 2
	}

	if hintInt == 0 {
		candidates := enc.DecodeWithoutHints(point)
		for i, c := range candidates {
			if c == nil {
				continue
			}
			fmt.Fprintf(stdout, "attempt %d: v=%s\n", i+1, c.String())
		}
		return 0
	}

	v, err := enc.DecodeWithHints(point, encode.Hint(hintInt))
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	fmt.Fprintln(stdout, v.String())
	return 0
}

func runCapacity(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("capacity", flag.ContinueOnError)
	cmd.SetOutput(stderr)

	var curveName string
	cmd.StringVar(&curveName, "curve", "bn254", "curve to use (bn254 or bn446)")
	if err := cmd.Parse(args); err != nil {
		return 2
	}

	h, err := hybridEncoder(curveName)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	fmt.Fprintf(stdout, "points=%d capacity_bytes=%d\n", h.NumPoints()+1, h.Capacity())
	return 0
}

func runPack(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("pack", flag.ContinueOnError)
	cmd.SetOutput(stderr)

	var curveName, inPath, seedHex string
	cmd.StringVar(&curveName, "curve", "bn254", "curve to use (bn254 or bn446)")
	cmd.StringVar(&inPath, "in", "-", "input file carrying exactly Capacity() bytes ('-' for stdin)")
	cmd.StringVar(&seedHex, "seed", "", "optional hex seed for deterministic output (default: crypto/rand)")
	if err := cmd.Parse(args); err != nil {
		return 2
	}

	h, err := hybridEncoder(curveName)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	payload, err := readAll(inPath)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	r, err := randSource(seedHex)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 2
	}

	points, err := h.Encode(payload, r)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	size := h.ByteLen()
	for _, p := range points {
		fmt.Fprintln(stdout, pointToHex(p, size))
	}
	return 0
}

func runUnpack(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("unpack", flag.ContinueOnError)
	cmd.SetOutput(stderr)

	var curveName, inPath string
	cmd.StringVar(&curveName, "curve", "bn254", "curve to use (bn254 or bn446)")
	cmd.StringVar(&inPath, "in", "-", "input file carrying one hex point per line ('-' for stdin)")
	if err := cmd.Parse(args); err != nil {
		return 2
	}

	p, err := curveByName(curveName)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 2
	}
	h, err := hybridEncoder(curveName)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	lines, err := readLines(inPath)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	points := make([]curve.G1Affine, len(lines))
	for i, l := range lines {
		pt, err := pointFromHex(l, p.Field)
		if err != nil {
			fmt.Fprintf(stderr, "error: line %d: %v\n", i+1, err)
			return 2
		}
		points[i] = pt
	}

	payload, err := h.Decode(points)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	if _, err := stdout.Write(payload); err != nil {
		fmt.Fprintln(stderr, "error: writing payload:", err)
		return 1
	}
	return 0
}

func hybridEncoder(curveName string) (*hybridWithByteLen, error) {
	p, err := curveByName(curveName)
	if err != nil {
		return nil, err
	}
	enc, err := encode.New(p)
	if err != nil {
		return nil, err
	}
	h, err := hybrid.New(enc)
	if err != nil {
		return nil, err
	}
	return &hybridWithByteLen{Encoder: h, byteLen: p.Field.ByteLen()}, nil
}

// hybridWithByteLen adds the point serialisation width the CLI needs for
// hex rendering, without hybrid.Encoder itself needing to expose it.
type hybridWithByteLen struct {
	*hybrid.Encoder
	byteLen int
}

func (h *hybridWithByteLen) ByteLen() int { return h.byteLen }

func randSource(seedHex string) (io.Reader, error) {
	if seedHex == "" {
		return rand.Reader, nil
	}
	seed, err := parseBigInt("0x" + seedHex)
	if err != nil {
		return nil, fmt.Errorf("parsing -seed: %w", err)
	}
	return newSeededReader(seed.Bytes()), nil
}

func readAll(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return io.ReadAll(f)
}

func readLines(path string) ([]string, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading lines: %w", err)
	}
	return lines, nil
}
