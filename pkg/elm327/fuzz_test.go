// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package elm327

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"
)

// getFuzzRounds returns the number of fuzz rounds from FUZZ_ROUNDS env var, default 1000
func getFuzzRounds() int {
	if envRounds := os.Getenv("FUZZ_ROUNDS"); envRounds != "" {
		if rounds, err := strconv.Atoi(envRounds); err == nil && rounds > 0 {
			return rounds
		}
	}
	return 1000
}

// getFuzzSeed returns the seed from FUZZ_SEED env var, or generates one from current time
func getFuzzSeed() int64 {
	if envSeed := os.Getenv("FUZZ_SEED"); envSeed != "" {
		if seed, err := strconv.ParseInt(envSeed, 10, 64); err == nil {
			return seed
		}
	}
	return time.Now().UnixNano()
}

// newFuzzRng creates a new random number generator and logs the seed for reproducibility
func newFuzzRng(t *testing.T) *rand.Rand {
	seed := getFuzzSeed()
	t.Logf("Seed: %d (reproduce with FUZZ_SEED=%d)", seed, seed)
	return rand.New(rand.NewSource(seed))
}

// buildNoisyReply renders hex payload bytes the way an adapter might:
// random spacing, line breaks, optional banners and line offsets. Returns
// the wire text without the trailing prompt.
func buildNoisyReply(rng *rand.Rand, payload []byte) string {
	var sb strings.Builder

	if rng.Intn(2) == 0 {
		sb.WriteString("SEARCHING...\r")
	}
	if rng.Intn(4) == 0 {
		sb.WriteString("BUS INIT: ...")
	}

	for i, b := range payload {
		if i > 0 {
			switch rng.Intn(4) {
			case 0:
				sb.WriteString(" ")
			case 1:
				sb.WriteString("\r")
			case 2:
				sb.WriteString(" \r\n")
			}
		}
		fmt.Fprintf(&sb, "%02X", b)
	}
	return sb.String()
}

func TestFuzzNormalizeRecoversPayload(t *testing.T) {
	rng := newFuzzRng(t)
	rounds := getFuzzRounds()

	for round := 0; round < rounds; round++ {
		payload := make([]byte, 1+rng.Intn(24))
		rng.Read(payload)

		noisy := buildNoisyReply(rng, payload)
		norm := Normalize(noisy)

		// Banners may leave "OK" behind; this generator never emits it,
		// so normalization must yield pure hex.
		if err := ValidateHex("01 0C", norm); err != nil {
			t.Fatalf("round %d: ValidateHex(%q) failed: %v (wire %q)", round, norm, err, noisy)
		}

		got := DecodePairs(norm)
		want := fmt.Sprintf("% X", payload)
		if fmt.Sprintf("% X", got) != want {
			t.Fatalf("round %d: decoded % X, want %s (wire %q)", round, got, want, noisy)
		}
	}
}

func TestFuzzNormalizeIdempotent(t *testing.T) {
	rng := newFuzzRng(t)
	rounds := getFuzzRounds()

	chars := []byte("0123456789ABCDEF .:?\r\nSEARCHINGBUSINITERROR")
	for round := 0; round < rounds; round++ {
		raw := make([]byte, rng.Intn(64))
		for i := range raw {
			raw[i] = chars[rng.Intn(len(chars))]
		}

		once := Normalize(string(raw))
		twice := Normalize(once)
		if once != twice {
			t.Fatalf("round %d: Normalize not idempotent: %q -> %q -> %q", round, raw, once, twice)
		}
	}
}

func TestFuzzReadRawFraming(t *testing.T) {
	rng := newFuzzRng(t)
	rounds := getFuzzRounds()

	for round := 0; round < rounds; round++ {
		raw := make([]byte, rng.Intn(128))
		rng.Read(raw)
		if rng.Intn(2) == 0 {
			raw = append(raw, PromptByte)
		}

		text, err := ReadRaw(context.Background(), strings.NewReader(string(raw)))
		if err != nil {
			t.Fatalf("round %d: ReadRaw error = %v", round, err)
		}
		// Framing stops at the first prompt, so it never appears in the text.
		if strings.ContainsRune(text, rune(PromptByte)) {
			t.Fatalf("round %d: prompt leaked into framed text %q", round, text)
		}
	}
}
