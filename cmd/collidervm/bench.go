package main

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/trungnotchung/collidervm-toy/bench"
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Calibrate the local hash rate.",
	Run: func(cmd *cobra.Command, _ []string) {
		duration, _ := cmd.Flags().GetDuration("duration")
		chart, _ := cmd.Flags().GetString("chart")

		log.WithField("duration", duration).Info("calibrating")
		res := bench.Calibrate(duration)

		fmt.Printf("%d hashes in %s: %.2f H/s\n", res.Attempts, res.Duration.Truncate(time.Millisecond), res.Rate)

		if chart != "" {
			if err := bench.WriteChart(res, chart); err != nil {
				log.Fatal(err)
			}
			log.WithField("path", chart).Info("wrote rate chart")
		}
	},
}

func init() {
	benchCmd.Flags().Duration("duration", 3*time.Second, "how long to calibrate")
	benchCmd.Flags().String("chart", "", "write an HTML rate chart to this path")
	rootCmd.AddCommand(benchCmd)
}
