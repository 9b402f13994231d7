package main

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/trungnotchung/collidervm-toy/progress"
	"github.com/trungnotchung/collidervm-toy/protocol/collider"
	"github.com/trungnotchung/collidervm-toy/protocol/flow"
	"github.com/trungnotchung/collidervm-toy/protocol/vm"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the whole protocol end to end in memory.",
	Long: "Generate a signing committee, presign every flow, search a routing " +
		"nonce for the input, then execute both stage programs of the selected " +
		"flow on the stack machine with a real witness.",
	Run: func(cmd *cobra.Command, _ []string) {
		x, _ := cmd.Flags().GetUint32("x")
		workers, _ := cmd.Flags().GetInt("workers")
		b, l := routingParams(cmd)

		params := collider.DefaultParams()
		params.B, params.L = b, l

		// offline phase: committee keys and presigned flows
		signers := make([]*flow.SignerInfo, params.Signers)
		for i := range signers {
			s, err := flow.NewSigner(i)
			if err != nil {
				log.Fatal(err)
			}
			signers[i] = s
		}
		flows, err := flow.BuildPresignedFlows(params, signers)
		if err != nil {
			log.Fatal(err)
		}
		log.WithField("flows", len(flows)).Info("presigned all flows")

		// online phase: route the input
		reporter := progress.NewReporter()
		search := &collider.Search{
			Params:   params,
			X:        x,
			Observer: reporter.Observe,
			Workers:  workers,
		}
		res, err := search.Run(context.Background())
		reporter.Done()
		if err != nil {
			log.Fatal(err)
		}
		log.WithFields(log.Fields{
			"nonce": res.Nonce, "flow": res.FlowID, "attempts": res.Attempts,
		}).Info("found routing nonce")

		// execution phase: both stages of the selected flow
		for _, step := range flows[res.FlowID].Steps {
			args, err := collider.WitnessArgs(step.Sigs[signers[0].ID], x, res.Nonce)
			if err != nil {
				log.Fatal(err)
			}
			ok, err := vm.Verify(step.Program, args)
			if err != nil {
				log.WithError(err).Errorf("%s execution failed", step.Stage)
				continue
			}
			fmt.Printf("%s: accepted=%v\n", step.Stage, ok)
		}
	},
}

func init() {
	simulateCmd.Flags().Uint32("x", 123, "input value to route")
	simulateCmd.Flags().Int("b", 16, "hash prefix width in bits")
	simulateCmd.Flags().Int("l", 4, "log2 of the accepted flow set")
	simulateCmd.Flags().Int("workers", 1, "parallel search workers")
	rootCmd.AddCommand(simulateCmd)
}
