package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mlaurent/classvdf/vdf"
)

var solveCmd = &cobra.Command{
	Use:   "solve CHALLENGE_HEX",
	Short: "Run a VDF solve and print the resulting proof as hex",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, bits, err := constructionFlags()
		if err != nil {
			return err
		}

		challenge, err := hex.DecodeString(args[0])
		if err != nil {
			return fmt.Errorf("decoding challenge: %w", err)
		}

		difficulty := viper.GetUint64("difficulty")

		D, err := discriminantFromFlags(challenge, bits)
		if err != nil {
			return err
		}

		construction, err := vdf.New(kind, bits)
		if err != nil {
			return err
		}
		if err := construction.CheckDifficulty(difficulty); err != nil {
			return err
		}

		start := time.Now()
		proof, err := construction.Solve(context.Background(), challenge, difficulty, D)
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		report := vdf.SolveReport{
			Construction:       kind,
			Difficulty:         difficulty,
			DiscriminantBits:   bits,
			Duration:           elapsed,
			ProofElementCount:  len(proof) / (2 * ((bits + 16) >> 4)),
			ProofLengthInBytes: len(proof),
		}
		log.Info().
			Str("construction", string(report.Construction)).
			Uint64("difficulty", report.Difficulty).
			Dur("duration", report.Duration).
			Int("proof_bytes", report.ProofLengthInBytes).
			Msg("solve complete")

		fmt.Println(hex.EncodeToString(proof))
		return nil
	},
}

func init() {
	solveCmd.Flags().Uint64("difficulty", 66, "number of sequential squarings")
	solveCmd.Flags().String("discriminant-seed", "", "hex seed for the discriminant builder (default: the challenge itself)")
}
