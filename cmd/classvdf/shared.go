package main

import (
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/spf13/viper"

	"github.com/mlaurent/classvdf/discriminant"
	"github.com/mlaurent/classvdf/internal/telemetry"
	"github.com/mlaurent/classvdf/vdf"
)

var log = telemetry.WithComponent("cmd")

// constructionFlags resolves the --construction and --bits persistent flags
// shared by every subcommand.
func constructionFlags() (vdf.Kind, int, error) {
	kind := vdf.Kind(viper.GetString("construction"))
	switch kind {
	case vdf.KindPietrzak, vdf.KindWesolowski:
	default:
		return "", 0, fmt.Errorf("%w: %q", vdf.ErrUnknownKind, kind)
	}
	bits := viper.GetInt("bits")
	if bits <= 0 {
		return "", 0, fmt.Errorf("--bits must be positive, got %d", bits)
	}
	return kind, bits, nil
}

// discriminantFromFlags builds the discriminant a subcommand passes to
// Solve/Verify. A --discriminant-seed flag overrides the challenge as the
// seed; with no override, the challenge itself is the seed, so solve and
// verify always agree on D without either depending on the other's
// in-process derivation.
func discriminantFromFlags(challenge []byte, bits int) (*big.Int, error) {
	seed := challenge
	if seedHex := viper.GetString("discriminant-seed"); seedHex != "" {
		decoded, err := hex.DecodeString(seedHex)
		if err != nil {
			return nil, fmt.Errorf("decoding discriminant-seed: %w", err)
		}
		seed = decoded
	}
	return discriminant.Create(seed, bits)
}
