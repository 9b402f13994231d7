// Package progress renders nonce-search progress. On a terminal it
// maintains a single overwritten status line; otherwise it emits
// periodic log lines. Either way it only observes the search.
package progress

import (
	"fmt"
	"io"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/term"
)

type Reporter struct {
	out   io.Writer
	isTTY bool
	dirty bool // a status line is on screen
}

// NewReporter reports to stderr, detecting whether it is a terminal.
func NewReporter() *Reporter {
	return &Reporter{
		out:   os.Stderr,
		isTTY: term.IsTerminal(int(os.Stderr.Fd())),
	}
}

// Observe is compatible with the search observer callback.
func (r *Reporter) Observe(attempts uint64, elapsed time.Duration, expected uint64) {
	rate := float64(attempts)
	if secs := elapsed.Seconds(); secs > 0 {
		rate = float64(attempts) / secs
	}
	pct := 100 * float64(attempts) / float64(expected)

	if r.isTTY {
		fmt.Fprintf(r.out, "\r%d/%d attempts (%.1f%%) @ %.2f kH/s   ", attempts, expected, pct, rate/1000)
		r.dirty = true
		return
	}
	log.WithFields(log.Fields{
		"attempts": attempts,
		"expected": expected,
		"rate":     fmt.Sprintf("%.0f H/s", rate),
	}).Info("searching for routing nonce")
}

// Done ends the status line, if one is showing.
func (r *Reporter) Done() {
	if r.isTTY && r.dirty {
		fmt.Fprintln(r.out)
		r.dirty = false
	}
}
