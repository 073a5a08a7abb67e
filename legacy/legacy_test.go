package legacy

import (
	"testing"

	"github.com/baselinefix/rtcm3decode/bitstream"
	"github.com/baselinefix/rtcm3decode/rtcm3type"
)

// bitWriter is a tiny test-only helper that packs a sequence of
// (value, width) fields MSB-first into a byte slice, mirroring how the
// satellite fixtures below are assembled.
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

func TestDecodeGPSL1OnlySingleSatellite(t *testing.T) {
	w := &bitWriter{}
	w.put(rtcm3type.MessageTypeGPSL1Only, 12)
	w.put(1234, 12) // station ID
	w.put(100000, 30) // tow ms
	w.put(0, 1)       // sync
	w.put(1, 5)       // nsat
	w.put(0, 1)       // divergence-free smoothing
	w.put(0, 3)       // smoothing interval

	// satellite 1
	w.put(5, 6)       // sv id
	w.put(0, 1)       // code indicator
	w.put(10000000, 24) // pr raw
	w.put(0xFFFFF, 20) // phr-pr diff raw = -1 as 20-bit two's complement
	w.put(50, 7)      // lock

	buf := w.bytes()
	msg, result := Decode(buf, rtcm3type.MessageTypeGPSL1Only)
	if result != rtcm3type.OK {
		t.Fatalf("Decode result = %v, want OK", result)
	}
	if msg.StationID != 1234 {
		t.Errorf("StationID = %d, want 1234", msg.StationID)
	}
	if msg.TowMs != 100000 {
		t.Errorf("TowMs = %d, want 100000", msg.TowMs)
	}
	if len(msg.Satellites) != 1 {
		t.Fatalf("len(Satellites) = %d, want 1", len(msg.Satellites))
	}
	sat := msg.Satellites[0]
	if sat.SVID != 5 {
		t.Errorf("SVID = %d, want 5", sat.SVID)
	}
	if !sat.L1.Flags.ValidPR {
		t.Fatalf("L1 PR should be valid")
	}
	wantPR := 0.02 * 10000000
	if sat.L1.PseudorangeM != wantPR {
		t.Errorf("PseudorangeM = %v, want %v", sat.L1.PseudorangeM, wantPR)
	}
	if sat.HasL2 {
		t.Errorf("HasL2 should be false for message type 1001")
	}
}

func TestDecodeMessageTypeMismatch(t *testing.T) {
	w := &bitWriter{}
	w.put(rtcm3type.MessageTypeGPSL1Only, 12)
	buf := w.bytes()
	buf = append(buf, make([]byte, 8)...)
	_, result := Decode(buf, rtcm3type.MessageTypeGPSL1L2)
	if result != rtcm3type.MessageTypeMismatch {
		t.Errorf("result = %v, want MessageTypeMismatch", result)
	}
}

func TestDecodeGlonassTowOutOfRangeIsInvalid(t *testing.T) {
	w := &bitWriter{}
	w.put(rtcm3type.MessageTypeGlonassL1Only, 12)
	w.put(1, 12)
	w.put(rtcm3type.MaxTowMsGlonass+1, 27)
	w.put(0, 1)
	w.put(0, 5)
	w.put(0, 1)
	w.put(0, 3)
	buf := w.bytes()
	_, result := Decode(buf, rtcm3type.MessageTypeGlonassL1Only)
	if result != rtcm3type.InvalidMessage {
		t.Errorf("result = %v, want InvalidMessage", result)
	}
}

func TestDecodeGPS1004DualFrequencyExtended(t *testing.T) {
	w := &bitWriter{}
	w.put(rtcm3type.MessageTypeGPSL1L2Extended, 12)
	w.put(1234, 12)    // station ID
	w.put(100000, 30)  // tow ms
	w.put(0, 1)        // sync
	w.put(1, 5)        // nsat
	w.put(0, 1)        // divergence-free smoothing
	w.put(0, 3)        // smoothing interval

	// satellite 1
	w.put(3, 6)          // sv id
	w.put(0, 1)          // code indicator
	w.put(20000000, 24)  // pr raw
	w.put(1234, 20)      // phr-pr diff raw
	w.put(50, 7)         // lock
	w.put(80, 8)         // ambiguity
	w.put(140, 8)        // cnr raw
	// L2 block
	w.put(0, 2)   // code indicator L2
	w.put(0, 14)  // pr diff L2
	w.put(0, 20)  // phr-pr diff L2
	w.put(0, 7)   // lock L2
	w.put(0, 8)   // cnr raw L2

	buf := w.bytes()
	msg, result := Decode(buf, rtcm3type.MessageTypeGPSL1L2Extended)
	if result != rtcm3type.OK {
		t.Fatalf("Decode result = %v, want OK", result)
	}
	if len(msg.Satellites) != 1 {
		t.Fatalf("len(Satellites) = %d, want 1", len(msg.Satellites))
	}
	sat := msg.Satellites[0]
	if !sat.HasL2 {
		t.Fatalf("HasL2 should be true for message type 1004")
	}
	wantPR := 24383396.64
	if diff := sat.L1.PseudorangeM - wantPR; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("PseudorangeM = %v, want %v", sat.L1.PseudorangeM, wantPR)
	}
	if !sat.L1.Flags.ValidCNR || sat.L1.CNRDBHz != 35.0 {
		t.Errorf("CNRDBHz = %v (valid=%v), want 35.0", sat.L1.CNRDBHz, sat.L1.Flags.ValidCNR)
	}
}

func TestDecodeGlonassL2InvalidAboveMaxFCN(t *testing.T) {
	w := &bitWriter{}
	w.put(rtcm3type.MessageTypeGlonassL1L2Extended, 12)
	w.put(1234, 12)   // station ID
	w.put(100000, 27) // tow ms
	w.put(0, 1)       // sync
	w.put(1, 5)       // nsat
	w.put(0, 1)       // divergence-free smoothing
	w.put(0, 3)       // smoothing interval

	// satellite 1, FCN wire value 21 (> GlonassMaxFCN = 20)
	w.put(9, 6)         // sv id
	w.put(0, 1)         // code indicator
	w.put(21, 5)        // fcn
	w.put(20000000, 25) // pr raw
	w.put(1234, 20)     // phr-pr diff raw
	w.put(50, 7)        // lock
	w.put(10, 8)        // ambiguity
	w.put(140, 8)       // cnr raw
	// L2 block
	w.put(0, 2)   // code indicator L2
	w.put(0, 14)  // pr diff L2
	w.put(0, 20)  // phr-pr diff L2
	w.put(0, 7)   // lock L2
	w.put(0, 8)   // cnr raw L2

	buf := w.bytes()
	msg, result := Decode(buf, rtcm3type.MessageTypeGlonassL1L2Extended)
	if result != rtcm3type.OK {
		t.Fatalf("Decode result = %v, want OK", result)
	}
	sat := msg.Satellites[0]
	if !sat.L1.Flags.ValidPR {
		t.Errorf("L1 PR should still be valid when FCN exceeds the L2 cap")
	}
	if sat.L2.Flags.ValidPR || sat.L2.Flags.ValidCP {
		t.Errorf("L2 should be invalid when FCN (%d) exceeds GlonassMaxFCN", 21)
	}
}

func TestBitWriterRoundTripsThroughBitstream(t *testing.T) {
	w := &bitWriter{}
	w.put(0x1AB, 9)
	buf := w.bytes()
	got := bitstream.GetUnsigned(buf, 0, 9)
	if got != 0x1AB {
		t.Fatalf("round trip = %#x, want %#x", got, 0x1AB)
	}
}
