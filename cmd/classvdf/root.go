package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mlaurent/classvdf/internal/telemetry"
)

var rootCmd = &cobra.Command{
	Use:   "classvdf",
	Short: "Verifiable delay functions over binary quadratic form class groups",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := viper.BindPFlags(cmd.Flags()); err != nil {
			return err
		}
		if viper.GetBool("verbose") {
			telemetry.SetLevel(zerolog.DebugLevel)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (classvdf.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug-level logging")
	rootCmd.PersistentFlags().String("construction", "wesolowski", "VDF construction: pietrzak or wesolowski")
	rootCmd.PersistentFlags().Int("bits", 256, "class-group integer size in bits")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))

	viper.SetEnvPrefix("CLASSVDF")
	viper.AutomaticEnv()

	cobra.OnInitialize(func() {
		if cfg := viper.GetString("config"); cfg != "" {
			viper.SetConfigFile(cfg)
			_ = viper.ReadInConfig() // absent or malformed config file is not fatal; flags/env still apply
		}
	})

	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(discriminantCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
