// Command rtcm3dump reads a stream of framed RTCM3 messages from a file
// (or stdin), verifies each frame's CRC-24Q trailer, decodes the payload
// and writes one summary line per message to a daily-rotating log. It is
// the external collaborator spec.md places outside the decoder's scope:
// outer framing, byte-stream I/O and logging all live here, never in the
// bitstream/legacy/station/proprietary/msm/dispatch packages.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/baselinefix/rtcm3decode/cmd/rtcm3dump/internal/frame"
	"github.com/baselinefix/rtcm3decode/cmd/rtcm3dump/internal/rotatelog"
	"github.com/baselinefix/rtcm3decode/dispatch"
)

func main() {
	inputPath := flag.String("input", "-", "path to a file of framed RTCM3 messages, or - for stdin")
	baseDir := flag.String("base-dir", ".", "directory for the daily-rotating summary log")
	verbose := flag.Bool("v", false, "log every message, not just errors")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	in, err := openInput(*inputPath)
	if err != nil {
		logger.Error("cannot open input", "path", *inputPath, "error", err)
		os.Exit(1)
	}
	defer in.Close()

	summaryLog := rotatelog.New(*baseDir)

	buf, err := io.ReadAll(in)
	if err != nil {
		logger.Error("cannot read input", "error", err)
		os.Exit(1)
	}

	count, errCount := run(buf, summaryLog, logger, *verbose)
	logger.Info("done", "messages", count, "errors", errCount)
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

// run splits buf into frames, decodes each one and writes a summary line
// to summaryLog. It returns the number of messages successfully decoded
// and the number that failed framing or decoding.
func run(buf []byte, summaryLog io.Writer, logger *slog.Logger, verbose bool) (count, errCount int) {
	for len(buf) > 0 {
		payload, consumed, err := frame.Split(buf)
		if err != nil {
			errCount++
			logger.Warn("framing error", "error", err)
			break
		}
		buf = buf[consumed:]

		message, result := dispatch.Decode(payload)
		if result != 0 {
			errCount++
			fmt.Fprintf(summaryLog, "error %s\n", result)
			continue
		}

		count++
		line := fmt.Sprintf("type %d kind %d\n", message.MessageType, message.Kind)
		fmt.Fprint(summaryLog, line)
		if verbose {
			logger.Info("decoded", "type", message.MessageType, "kind", message.Kind)
		}
	}
	return count, errCount
}
