// Copyright (C) 2025 Logical Mechanism LLC
// SPDX-License-Identifier: GPL-3.0-only

// main_test.go
package main

import (
	"bytes"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRun_NoArgs(t *testing.T) {
	var out, errBuf bytes.Buffer
	code := run([]string{}, &out, &errBuf)
	if code != 2 {
		t.Fatalf("want 2 got %d", code)
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	var out, errBuf bytes.Buffer
	code := run([]string{"wat"}, &out, &errBuf)
	if code != 2 {
		t.Fatalf("want 2 got %d", code)
	}
}

func TestRun_Encode_MissingV(t *testing.T) {
	var out, errBuf bytes.Buffer
	code := run([]string{"encode"}, &out, &errBuf)
	if code != 2 {
		t.Fatalf("want 2 got %d", code)
	}
	if !strings.Contains(errBuf.String(), "-v is required") {
		t.Fatalf("unexpected stderr: %q", errBuf.String())
	}
}

func TestRun_Encode_UnknownCurve(t *testing.T) {
	var out, errBuf bytes.Buffer
	code := run([]string{"encode", "-curve", "bn999", "-v", "3"}, &out, &errBuf)
	if code != 2 {
		t.Fatalf("want 2 got %d", code)
	}
}

// parseEncodeOutput splits a line of the form
// "point=<hex> hint=<n> (<label>)" into its point and hint fields.
func parseEncodeOutput(t *testing.T, line string) (point string, hint string) {
	t.Helper()
	fields := strings.Fields(line)
	if len(fields) < 2 {
		t.Fatalf("unexpected encode output: %q", line)
	}
	point = strings.TrimPrefix(fields[0], "point=")
	hint = strings.TrimPrefix(fields[1], "hint=")
	if point == fields[0] || hint == fields[1] {
		t.Fatalf("unexpected encode output: %q", line)
	}
	return point, hint
}

func TestRun_EncodeDecode_RoundTrip(t *testing.T) {
	var encOut, encErr bytes.Buffer
	code := run([]string{"encode", "-curve", "bn254", "-v", "3", "-seed", "01"}, &encOut, &encErr)
	if code != 0 {
		t.Fatalf("encode failed: %d, stderr=%s", code, encErr.String())
	}

	point, hint := parseEncodeOutput(t, strings.TrimSpace(encOut.String()))

	var decOut, decErr bytes.Buffer
	code = run([]string{"decode", "-curve", "bn254", "-point", point, "-hint", hint}, &decOut, &decErr)
	if code != 0 {
		t.Fatalf("decode failed: %d, stderr=%s", code, decErr.String())
	}
	if strings.TrimSpace(decOut.String()) != "3" {
		t.Fatalf("want decoded v=3, got %q", decOut.String())
	}
}

func TestRun_Decode_WithoutHint_FindsAttempt(t *testing.T) {
	var encOut, encErr bytes.Buffer
	code := run([]string{"encode", "-curve", "bn254", "-v", "3", "-seed", "02"}, &encOut, &encErr)
	if code != 0 {
		t.Fatalf("encode failed: %d, stderr=%s", code, encErr.String())
	}
	point, _ := parseEncodeOutput(t, strings.TrimSpace(encOut.String()))

	var decOut, decErr bytes.Buffer
	code = run([]string{"decode", "-curve", "bn254", "-point", point}, &decOut, &decErr)
	if code != 0 {
		t.Fatalf("decode failed: %d, stderr=%s", code, decErr.String())
	}
	if !strings.Contains(decOut.String(), "v=3") {
		t.Fatalf("want an attempt recovering v=3, got %q", decOut.String())
	}
}

func TestRun_Capacity_Bn254(t *testing.T) {
	var out, errBuf bytes.Buffer
	code := run([]string{"capacity", "-curve", "bn254"}, &out, &errBuf)
	if code != 0 {
		t.Fatalf("capacity failed: %d, stderr=%s", code, errBuf.String())
	}
	if !strings.Contains(out.String(), "points=85") {
		t.Fatalf("unexpected capacity output: %q", out.String())
	}
}

func TestRun_PackUnpack_RoundTrip(t *testing.T) {
	dir := t.TempDir()

	h, err := hybridEncoder("bn254")
	if err != nil {
		t.Fatalf("hybridEncoder: %v", err)
	}
	payload := bytes.Repeat([]byte{0xAB}, h.Capacity())

	payloadPath := filepath.Join(dir, "payload.bin")
	if err := os.WriteFile(payloadPath, payload, 0o600); err != nil {
		t.Fatalf("writing payload: %v", err)
	}

	var packOut, packErr bytes.Buffer
	code := run([]string{"pack", "-curve", "bn254", "-in", payloadPath, "-seed", "03"}, &packOut, &packErr)
	if code != 0 {
		t.Fatalf("pack failed: %d, stderr=%s", code, packErr.String())
	}

	pointsPath := filepath.Join(dir, "points.txt")
	if err := os.WriteFile(pointsPath, packOut.Bytes(), 0o600); err != nil {
		t.Fatalf("writing points: %v", err)
	}

	var unpackOut, unpackErr bytes.Buffer
	code = run([]string{"unpack", "-curve", "bn254", "-in", pointsPath}, &unpackOut, &unpackErr)
	if code != 0 {
		t.Fatalf("unpack failed: %d, stderr=%s", code, unpackErr.String())
	}
	if !bytes.Equal(unpackOut.Bytes(), payload) {
		t.Fatalf("round trip mismatch: got %d bytes, want %d", unpackOut.Len(), len(payload))
	}
}

func TestParseBigInt(t *testing.T) {
	v, err := parseBigInt("0x10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Cmp(big.NewInt(16)) != 0 {
		t.Fatalf("want 16, got %s", v.String())
	}

	if _, err := parseBigInt("not-a-number"); err == nil {
		t.Fatalf("want error for malformed input")
	}
}
