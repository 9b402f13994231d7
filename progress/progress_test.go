package progress

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestReporterTTY(t *testing.T) {
	var buf bytes.Buffer
	r := &Reporter{out: &buf, isTTY: true}

	r.Observe(1000, time.Second, 4096)
	r.Observe(2000, 2*time.Second, 4096)
	r.Done()

	out := buf.String()
	if !strings.Contains(out, "\r") {
		t.Error("status line is not overwritten in place")
	}
	if !strings.Contains(out, "2000/4096") {
		t.Errorf("missing attempt counts: %q", out)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("Done did not end the status line")
	}
}

func TestReporterDoneWithoutObserve(t *testing.T) {
	var buf bytes.Buffer
	r := &Reporter{out: &buf, isTTY: true}
	r.Done()
	if buf.Len() != 0 {
		t.Errorf("unexpected output: %q", buf.String())
	}
}
