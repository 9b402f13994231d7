package bench

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestCalibrate(t *testing.T) {
	res := Calibrate(50 * time.Millisecond)

	if res.Attempts == 0 {
		t.Fatal("no attempts recorded")
	}
	if res.Rate <= 0 {
		t.Errorf("rate = %f", res.Rate)
	}
	if res.Duration <= 0 {
		t.Errorf("duration = %s", res.Duration)
	}
	for i, s := range res.Samples {
		if s.Rate <= 0 {
			t.Errorf("sample %d: rate = %f", i, s.Rate)
		}
	}
}

func TestWriteChart(t *testing.T) {
	res := Calibrate(20 * time.Millisecond)

	path := filepath.Join(t.TempDir(), "rate.html")
	if err := WriteChart(res, path); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Hash-rate calibration") {
		t.Error("chart title missing from output")
	}
}
