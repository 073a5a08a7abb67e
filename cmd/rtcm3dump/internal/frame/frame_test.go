package frame

import (
	"testing"

	"github.com/baselinefix/rtcm3decode/bitstream"
	"github.com/goblimey/go-crc24q/crc24q"
)

func buildFrame(payload []byte) []byte {
	header := make([]byte, 3)
	header[0] = preamble
	// 6 reserved bits (zero) + 10-bit payload length, packed into the
	// remaining 2 bytes of the 3-byte leader.
	length := uint64(len(payload))
	header[1] = byte(length >> 8 & 0x03)
	header[2] = byte(length & 0xFF)

	headerAndPayload := append(append([]byte{}, header...), payload...)
	crc := crc24q.Hash(headerAndPayload)
	frame := append(headerAndPayload, crc24q.HiByte(crc), crc24q.MiByte(crc), crc24q.LoByte(crc))
	return frame
}

func TestSplitValidFrame(t *testing.T) {
	payload := []byte{0x3F, 0xD0, 0x12, 0x34}
	buf := buildFrame(payload)

	got, consumed, err := Split(buf)
	if err != nil {
		t.Fatalf("Split returned error: %v", err)
	}
	if consumed != len(buf) {
		t.Errorf("consumed = %d, want %d", consumed, len(buf))
	}
	if len(got) != len(payload) {
		t.Fatalf("len(payload) = %d, want %d", len(got), len(payload))
	}
	for i := range payload {
		if got[i] != payload[i] {
			t.Errorf("payload[%d] = %#x, want %#x", i, got[i], payload[i])
		}
	}
}

func TestSplitRejectsBadCRC(t *testing.T) {
	buf := buildFrame([]byte{0x01, 0x02})
	buf[len(buf)-1] ^= 0xFF

	_, _, err := Split(buf)
	if err != ErrBadCRC {
		t.Errorf("err = %v, want ErrBadCRC", err)
	}
}

func TestSplitRejectsBadPreamble(t *testing.T) {
	buf := buildFrame([]byte{0x01})
	buf[0] = 0x00

	_, _, err := Split(buf)
	if err != ErrBadPreamble {
		t.Errorf("err = %v, want ErrBadPreamble", err)
	}
}

func TestSplitRejectsShortBuffer(t *testing.T) {
	_, _, err := Split([]byte{preamble, 0, 1})
	if err != ErrShortFrame {
		t.Errorf("err = %v, want ErrShortFrame", err)
	}
}

func TestBitstreamLengthFieldMatchesPayload(t *testing.T) {
	buf := buildFrame([]byte{0xAA, 0xBB, 0xCC})
	length := bitstream.GetUnsigned(buf, lenReservedBits, lenPayloadLength)
	if length != 3 {
		t.Errorf("decoded length = %d, want 3", length)
	}
}
