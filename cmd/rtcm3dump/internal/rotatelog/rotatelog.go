// Package rotatelog provides a daily-rotating io.Writer for rtcm3dump's
// per-message summary log. It combines the teacher's two parallel logger
// designs: rtcmlogger/logger.Writer's direct use of dailylogger.Writer for
// the log file itself, and rtcmlogger/log.Writer's mutex-protected,
// switchwriter-backed blackout window around UTC midnight.
package rotatelog

import (
	"io"
	"sync"
	"time"

	"github.com/baselinefix/rtcm3decode/rtcmlogger/clock"
	"github.com/goblimey/go-tools/dailylogger"
	"github.com/goblimey/go-tools/switchwriter"
	"github.com/robfig/cron"
)

const logFilePrefix = "rtcm3dump."
const logFileSuffix = ".log"

// Writer satisfies io.Writer and writes decoded-message summary lines to
// a dailylogger-managed file. Calls within one minute either side of UTC
// midnight are dropped, as rtcmlogger/log.Writer does, so rollover always
// has a clean window; a cron job disables the underlying dailylogger.Writer
// at 23:59 UTC and re-enables it at 00:01 UTC.
type Writer struct {
	logMutex     sync.Mutex
	clock        clock.Clock
	dailyWriter  *dailylogger.Writer
	switchWriter *switchwriter.Writer
	cronjob      *cron.Cron
}

const endOfDayHour = 23
const endOfDayMinute = 59

var _ io.Writer = (*Writer)(nil)

// New creates a Writer rooted at baseDir and starts its midnight
// enable/disable cron schedule.
func New(baseDir string) io.Writer {
	writer := newWithClock(baseDir, clock.NewSystemClock())

	cr := cron.NewWithLocation(time.UTC)
	cr.AddFunc("0 59 23 * * *", writer.disable)
	cr.AddFunc("0 1 0 * * *", writer.enable)
	cr.Start()
	writer.cronjob = cr

	return writer
}

// newWithClock creates a Writer with a supplied clock and no cron job, for
// use in tests: the blackout window is driven by clock, while the
// underlying dailylogger.Writer rotates on its own schedule.
func newWithClock(baseDir string, clk clock.Clock) *Writer {
	dw := dailylogger.New(baseDir, logFilePrefix, logFileSuffix)
	sw := switchwriter.New()
	sw.SwitchTo(dw)
	return &Writer{
		clock:        clk,
		dailyWriter:  dw,
		switchWriter: sw,
	}
}

// Write writes buffer to today's log file via the underlying
// dailylogger.Writer, unless the clock falls within the blackout window
// around UTC midnight, in which case the write is dropped.
func (w *Writer) Write(buffer []byte) (int, error) {
	w.logMutex.Lock()
	defer w.logMutex.Unlock()

	if !w.loggingAllowed() {
		return len(buffer), nil
	}
	return w.switchWriter.Write(buffer)
}

func (w *Writer) loggingAllowed() bool {
	now := w.clock.Now().In(time.UTC)
	if now.Hour() == 0 && now.Minute() == 0 {
		return false
	}
	if now.Hour() == endOfDayHour && now.Minute() == endOfDayMinute {
		return false
	}
	return true
}

// disable stops the underlying dailylogger.Writer from accepting writes,
// run by cron just before UTC midnight.
func (w *Writer) disable() {
	w.logMutex.Lock()
	defer w.logMutex.Unlock()
	w.dailyWriter.DisableLogging()
}

// enable resumes writes to the underlying dailylogger.Writer, run by cron
// just after UTC midnight once the new day's file name is stable.
func (w *Writer) enable() {
	w.logMutex.Lock()
	defer w.logMutex.Unlock()
	w.dailyWriter.EnableLogging()
}
