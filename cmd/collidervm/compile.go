package main

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/trungnotchung/collidervm-toy/protocol/collider"
	"github.com/trungnotchung/collidervm-toy/protocol/flow"
	"github.com/trungnotchung/collidervm-toy/protocol/vm"
)

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compile the stage programs for a flow id.",
	Long: "Compile both verification-stage programs for a flow id, locked on a " +
		"freshly generated signer key, and print them as hex or disassembly.",
	Run: func(cmd *cobra.Command, _ []string) {
		flowID, _ := cmd.Flags().GetUint32("flow")
		disasm, _ := cmd.Flags().GetBool("disasm")
		b, l := routingParams(cmd)

		params := collider.DefaultParams()
		params.B, params.L = b, l
		if err := params.Validate(); err != nil {
			log.Fatal(err)
		}
		if uint64(flowID) >= params.FlowCount() {
			log.Fatalf("flow %d out of range [0, %d)", flowID, params.FlowCount())
		}

		prefix, err := collider.PrefixNibbles(flowID, params.B)
		if err != nil {
			log.Fatal(err)
		}
		signer, err := flow.NewSigner(0)
		if err != nil {
			log.Fatal(err)
		}
		log.WithField("pubkey", fmt.Sprintf("%x", signer.PubKey)).Debug("generated signer key")

		for _, stage := range []collider.Stage{collider.StageF1, collider.StageF2} {
			challenge := flow.ChallengeMessage(flowID, stage, prefix)
			prog, err := collider.CompileStage(stage, signer.PubKey, challenge, prefix, params)
			if err != nil {
				log.Fatal(err)
			}

			if disasm {
				dis, err := vm.Disassemble(prog)
				if err != nil {
					log.Fatal(err)
				}
				fmt.Printf("%s (%d bytes):\n%s\n", stage, len(prog), dis)
			} else {
				fmt.Printf("%s (%d bytes): %x\n", stage, len(prog), prog)
			}
		}
	},
}

func init() {
	compileCmd.Flags().Uint32("flow", 0, "flow id to compile for")
	compileCmd.Flags().Int("b", 16, "hash prefix width in bits")
	compileCmd.Flags().Int("l", 4, "log2 of the accepted flow set")
	compileCmd.Flags().Bool("disasm", false, "print disassembly instead of hex")
	rootCmd.AddCommand(compileCmd)
}
