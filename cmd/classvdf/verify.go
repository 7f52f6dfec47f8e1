package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mlaurent/classvdf/vdf"
)

var verifyCmd = &cobra.Command{
	Use:   "verify CHALLENGE_HEX",
	Short: "Verify a VDF proof against a challenge and difficulty",
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

		proofHex := viper.GetString("proof")
		if proofHex == "" {
			return fmt.Errorf("--proof is required")
		}
		proof, err := hex.DecodeString(proofHex)
		if err != nil {
			return fmt.Errorf("decoding proof: %w", err)
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

		if err := construction.Verify(challenge, difficulty, proof, D); err != nil {
			log.Error().Str("construction", string(kind)).Msg("proof rejected")
			return err
		}

		log.Info().Str("construction", string(kind)).Msg("proof accepted")
		fmt.Println("ok")
		return nil
	},
}

func init() {
	verifyCmd.Flags().Uint64("difficulty", 66, "number of sequential squarings")
	verifyCmd.Flags().String("discriminant-seed", "", "hex seed for the discriminant builder (default: the challenge itself)")
	verifyCmd.Flags().String("proof", "", "hex-encoded proof produced by solve")
}
