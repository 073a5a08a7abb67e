// Package frame strips the RTCM3 outer framing (preamble, 10-bit length,
// CRC-24Q trailer) from a byte stream, yielding the data portion that
// github.com/baselinefix/rtcm3decode/dispatch.Decode expects. This is the
// "external collaborator" spec.md places out of scope for the decoder
// itself; it is grounded on the CRC check in the teacher's rtcm/handler
// package.
package frame

import (
	"errors"

	"github.com/baselinefix/rtcm3decode/bitstream"
	"github.com/goblimey/go-crc24q/crc24q"
)

const preamble = 0xD3
const leaderLengthBytes = 3
const crcLengthBytes = 3
const lenReservedBits = 6
const lenPayloadLength = 10

// ErrShortFrame is returned when buf does not hold a complete frame.
var ErrShortFrame = errors.New("frame: buffer too short for a complete RTCM3 frame")

// ErrBadPreamble is returned when buf does not begin with the RTCM3
// preamble byte.
var ErrBadPreamble = errors.New("frame: buffer does not start with the RTCM3 preamble byte")

// ErrBadCRC is returned when the trailing CRC-24Q does not match the
// frame's leader and payload.
var ErrBadCRC = errors.New("frame: CRC-24Q mismatch")

// Split reads one RTCM3 frame from the start of buf. It returns the data
// portion (message number at bit 0, ready for dispatch.Decode), the
// number of bytes of buf consumed, and an error if the frame is
// incomplete, malformed, or fails its CRC check.
func Split(buf []byte) (payload []byte, consumed int, err error) {
	if len(buf) < leaderLengthBytes+crcLengthBytes {
		return nil, 0, ErrShortFrame
	}
	if buf[0] != preamble {
		return nil, 0, ErrBadPreamble
	}

	payloadLength := int(bitstream.GetUnsigned(buf, lenReservedBits, lenPayloadLength))
	frameLength := leaderLengthBytes + payloadLength + crcLengthBytes
	if len(buf) < frameLength {
		return nil, 0, ErrShortFrame
	}

	frame := buf[:frameLength]
	headerAndPayload := frame[:leaderLengthBytes+payloadLength]
	crcBytes := frame[leaderLengthBytes+payloadLength:]

	computed := crc24q.Hash(headerAndPayload)
	if crc24q.HiByte(computed) != crcBytes[0] ||
		crc24q.MiByte(computed) != crcBytes[1] ||
		crc24q.LoByte(computed) != crcBytes[2] {
		return nil, frameLength, ErrBadCRC
	}

	return frame[leaderLengthBytes : leaderLengthBytes+payloadLength], frameLength, nil
}
