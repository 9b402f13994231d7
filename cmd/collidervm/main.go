// Command collidervm is a toolbox around the toy ColliderVM core:
// nonce search, stage-program compilation, an end-to-end simulation
// and hash-rate calibration.
package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "collidervm",
	Short: "Hash-prefix flow selection and verification-script tooling.",
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// routingParams reads the shared --b/--l flags.
func routingParams(cmd *cobra.Command) (b, l int) {
	b, _ = cmd.Flags().GetInt("b")
	l, _ = cmd.Flags().GetInt("l")
	return b, l
}
