package proprietary

import (
	"testing"

	"github.com/baselinefix/rtcm3decode/rtcm3type"
)

type bitWriter struct {
	bits []byte
}

func (w *bitWriter) put(value uint64, width uint) {
	for i := int(width) - 1; i >= 0; i-- {
		w.bits = append(w.bits, byte((value>>uint(i))&1))
	}
}

func (w *bitWriter) bytes() []byte {
	out := make([]byte, (len(w.bits)+7)/8)
	for i, bit := range w.bits {
		if bit == 1 {
			out[i/8] |= 1 << uint(7-i%8)
		}
	}
	return out
}

func TestDecodeSwiftMessage(t *testing.T) {
	w := &bitWriter{}
	w.put(uint64(rtcm3type.MessageTypeSwiftProprietary), 12)
	w.put(0, 4) // reserved
	w.put(0x4005, 16)
	w.put(0xBEEF, 16)
	payload := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	w.put(uint64(len(payload)), 8)
	for _, b := range payload {
		w.put(uint64(b), 8)
	}

	msg, result := Decode(w.bytes())
	if result != rtcm3type.OK {
		t.Fatalf("result = %v, want OK", result)
	}
	if msg.MsgType != 0x4005 {
		t.Errorf("MsgType = %#x, want 0x4005", msg.MsgType)
	}
	if msg.SenderID != 0xBEEF {
		t.Errorf("SenderID = %#x, want 0xBEEF", msg.SenderID)
	}
	if len(msg.Payload) != len(payload) {
		t.Fatalf("len(Payload) = %d, want %d", len(msg.Payload), len(payload))
	}
	for i, b := range payload {
		if msg.Payload[i] != b {
			t.Errorf("Payload[%d] = %#x, want %#x", i, msg.Payload[i], b)
		}
	}
}

func TestDecodeSwiftMessageRejectsNonZeroReserved(t *testing.T) {
	w := &bitWriter{}
	w.put(uint64(rtcm3type.MessageTypeSwiftProprietary), 12)
	w.put(1, 4) // reserved, must be zero
	w.put(0, 16)
	w.put(0, 16)
	w.put(0, 8)

	_, result := Decode(w.bytes())
	if result != rtcm3type.InvalidMessage {
		t.Errorf("result = %v, want InvalidMessage", result)
	}
}

func TestDecodeSwiftMessageTypeMismatch(t *testing.T) {
	w := &bitWriter{}
	w.put(1005, 12)
	buf := append(w.bytes(), make([]byte, 8)...)
	_, result := Decode(buf)
	if result != rtcm3type.MessageTypeMismatch {
		t.Errorf("result = %v, want MessageTypeMismatch", result)
	}
}
