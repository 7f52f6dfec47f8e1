package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mlaurent/classvdf/discriminant"
)

var discriminantCmd = &cobra.Command{
	Use:   "discriminant",
	Short: "Derive and print a class-group discriminant from a seed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		bits := viper.GetInt("bits")
		if bits <= 0 {
			return fmt.Errorf("--bits must be positive, got %d", bits)
		}

		seedHex := viper.GetString("seed")
		seed, err := hex.DecodeString(seedHex)
		if err != nil {
			return fmt.Errorf("decoding seed: %w", err)
		}

		D, err := discriminant.Create(seed, bits)
		if err != nil {
			return err
		}

		fmt.Println(D.String())
		return nil
	},
}

func init() {
	discriminantCmd.Flags().String("seed", "00", "hex seed for the discriminant builder")
}
