package dispatch

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

func TestDecodeRoutesSwiftProprietary(t *testing.T) {
	w := &bitWriter{}
	w.put(uint64(rtcm3type.MessageTypeSwiftProprietary), 12)
	w.put(0, 4)
	w.put(1, 16)
	w.put(2, 16)
	w.put(0, 8)

	msg, result := Decode(w.bytes())
	if result != rtcm3type.OK {
		t.Fatalf("result = %v, want OK", result)
	}
	if msg.Kind != KindSwiftProprietary || msg.Swift == nil {
		t.Fatalf("expected KindSwiftProprietary, got %+v", msg)
	}
}

func TestDecodeRoutesUnknownMessageType(t *testing.T) {
	w := &bitWriter{}
	w.put(9999, 12)
	buf := append(w.bytes(), make([]byte, 8)...)
	_, result := Decode(buf)
	if result != rtcm3type.MessageTypeMismatch {
		t.Errorf("result = %v, want MessageTypeMismatch", result)
	}
}

func TestDecodeRoutesTooShortBuffer(t *testing.T) {
	_, result := Decode([]byte{})
	if result != rtcm3type.InvalidMessage {
		t.Errorf("result = %v, want InvalidMessage", result)
	}
}

func TestDecodeRoutesStationARP(t *testing.T) {
	w := &bitWriter{}
	w.put(uint64(rtcm3type.MessageTypeStationARP), 12)
	w.put(1, 12)  // station id
	w.put(0, 6)   // ITRF year
	w.put(0, 1)
	w.put(0, 1)
	w.put(0, 1)
	w.put(0, 1)
	w.put(0, 38)
	w.put(0, 1)
	w.put(0, 1)
	w.put(0, 38)
	w.put(0, 2)
	w.put(0, 38)

	msg, result := Decode(w.bytes())
	if result != rtcm3type.OK {
		t.Fatalf("result = %v, want OK", result)
	}
	if msg.Kind != KindReferencePoint || msg.ReferencePoint == nil {
		t.Fatalf("expected KindReferencePoint, got %+v", msg)
	}
}
