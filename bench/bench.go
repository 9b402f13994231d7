// Package bench calibrates the local hash rate, the figure that
// predicts how long a nonce search will take for a given (B, L) pair.
package bench

import (
	"os"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"

	"github.com/trungnotchung/collidervm-toy/protocol/collider"
)

// Sample is one point of the measured rate curve.
type Sample struct {
	Elapsed time.Duration
	Rate    float64 // hashes per second
}

type Result struct {
	Attempts uint64
	Duration time.Duration
	Rate     float64 // overall hashes per second
	Samples  []Sample
}

// Calibrate hashes candidate messages for roughly d, measuring the
// sustained rate. The preimages match the selector's, so the figure
// transfers directly to search-time estimates.
func Calibrate(d time.Duration) Result {
	const sampleEvery = 10000

	start := time.Now()
	deadline := start.Add(d)

	var res Result
	var nonce uint64
	for {
		blake2b.Sum256(collider.Message(123, nonce))
		nonce++
		res.Attempts++

		if res.Attempts%sampleEvery == 0 {
			elapsed := time.Since(start)
			res.Samples = append(res.Samples, Sample{
				Elapsed: elapsed,
				Rate:    float64(res.Attempts) / elapsed.Seconds(),
			})
			if elapsed >= d {
				break
			}
		}
		if time.Now().After(deadline) {
			break
		}
	}

	res.Duration = time.Since(start)
	if secs := res.Duration.Seconds(); secs > 0 {
		res.Rate = float64(res.Attempts) / secs
	}
	return res
}

// WriteChart renders the sampled rate curve as a standalone HTML line
// chart.
func WriteChart(res Result, path string) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Hash-rate calibration",
			Subtitle: "BLAKE2b-256 over 12-byte candidate messages",
		}),
		charts.WithYAxisOpts(opts.YAxis{Name: "H/s"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "elapsed (s)"}),
	)

	xs := make([]string, len(res.Samples))
	ys := make([]opts.LineData, len(res.Samples))
	for i, s := range res.Samples {
		xs[i] = s.Elapsed.Truncate(time.Millisecond).String()
		ys[i] = opts.LineData{Value: s.Rate}
	}
	line.SetXAxis(xs).AddSeries("hash rate", ys)

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating chart file")
	}
	defer f.Close()
	return errors.Wrap(line.Render(f), "rendering chart")
}
