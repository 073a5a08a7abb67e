package rotatelog

import (
	"os"
	"testing"
	"time"

	"github.com/baselinefix/rtcm3decode/rtcmlogger/clock"
)

func TestWriteCreatesDailyFile(t *testing.T) {
	dir := t.TempDir()
	clk := clock.NewStoppedClock(2026, time.January, 15, 10, 0, 0, 0, time.UTC)
	w := newWithClock(dir, clk)

	n, err := w.Write([]byte("message 1074 OK\n"))
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if n != len("message 1074 OK\n") {
		t.Errorf("Write returned n=%d, want %d", n, len("message 1074 OK\n"))
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) == 0 {
		t.Error("expected dailylogger to have created a log file, found none")
	}
}

func TestWriteNearMidnightIsDropped(t *testing.T) {
	dir := t.TempDir()
	clk := clock.NewStoppedClock(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
	w := newWithClock(dir, clk)

	n, err := w.Write([]byte("x"))
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if n != 1 {
		t.Errorf("Write should report the buffer length even when dropped, got %d", n)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("expected no log file to be created during the blackout window, got %v", entries)
	}
}
