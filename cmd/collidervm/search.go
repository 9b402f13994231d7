package main

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/trungnotchung/collidervm-toy/progress"
	"github.com/trungnotchung/collidervm-toy/protocol/collider"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Find a routing nonce for an input value.",
	Run: func(cmd *cobra.Command, _ []string) {
		x, _ := cmd.Flags().GetUint32("x")
		workers, _ := cmd.Flags().GetInt("workers")
		b, l := routingParams(cmd)

		params := collider.DefaultParams()
		params.B, params.L = b, l

		log.WithFields(log.Fields{
			"x": x, "b": b, "l": l,
			"expected": params.ExpectedAttempts(),
		}).Info("searching for routing nonce")

		reporter := progress.NewReporter()
		s := &collider.Search{
			Params:   params,
			X:        x,
			Observer: reporter.Observe,
			Workers:  workers,
		}
		res, err := s.Run(context.Background())
		reporter.Done()
		if err != nil {
			log.Fatal(err)
		}

		fmt.Printf("nonce=%d flow=%d attempts=%d digest=%x\n",
			res.Nonce, res.FlowID, res.Attempts, res.Digest)
	},
}

func init() {
	searchCmd.Flags().Uint32("x", 123, "input value to route")
	searchCmd.Flags().Int("b", 16, "hash prefix width in bits")
	searchCmd.Flags().Int("l", 4, "log2 of the accepted flow set")
	searchCmd.Flags().Int("workers", 1, "parallel search workers")
	rootCmd.AddCommand(searchCmd)
}
