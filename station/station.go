// Package station decodes the RTCM3 station-metadata message family:
// 1005/1006 (antenna reference point), 1007/1008 (antenna descriptor and
// serial number), 1029 (Unicode text string), 1033 (receiver and antenna
// descriptors) and 1230 (GLONASS code-phase biases).  Field layouts are
// grounded bit-exact on rtcm3_decode_1005_base, rtcm3_decode_1006,
// rtcm3_decode_1007, rtcm3_decode_1008, rtcm3_decode_1029, rtcm3_decode_1033
// and rtcm3_decode_1230 in the reference decoder, superseding the opaque
// Ignored1/Ignored2/Ignored3 fields the teacher's type1005 package carried.
package station

import (
	"github.com/baselinefix/rtcm3decode/bitstream"
	"github.com/baselinefix/rtcm3decode/rtcm3type"
)

// antennaScale converts a raw 38-bit signed ARP coordinate to metres.
const antennaScale = 0.0001

// ReferencePoint is the common content of messages 1005 and 1006: the
// antenna reference point in ECEF coordinates plus the GNSS and receiver
// indicators carried alongside it.
type ReferencePoint struct {
	StationID             uint
	ITRFRealisationYear   uint
	GPSIndicator          bool
	GlonassIndicator      bool
	GalileoIndicator      bool
	RefStationIndicator   bool
	AntennaRefX           float64
	AntennaRefY           float64
	AntennaRefZ           float64
	SingleOscillator      bool
	QuarterCycleIndicator uint
	// AntennaHeightM is only populated for message 1006; Has1006Height
	// reports whether it was decoded.
	AntennaHeightM float64
	Has1006Height  bool
}

const (
	lenMessageType    = 12
	lenStationID      = 12
	lenITRFYear       = 6
	lenGNSSIndicator  = 1
	lenARPCoordinate  = 38
	lenOscIndicator   = 1
	lenReservedBit    = 1
	lenQuarterCycle   = 2
	lenAntennaHeight  = 16
	lenDescriptorLen  = 8
	lenSetupID        = 8
)

// DecodeReferencePoint decodes message 1005 or 1006 from bitStream, which
// must hold exactly the RTCM3 data portion.
func DecodeReferencePoint(bitStream []byte, expectedMessageType int) (*ReferencePoint, rtcm3type.Result) {
	var pos uint = 0
	messageType := int(bitstream.GetUnsigned(bitStream, pos, lenMessageType))
	pos += lenMessageType
	if messageType != expectedMessageType {
		return nil, rtcm3type.MessageTypeMismatch
	}

	point := &ReferencePoint{}
	point.StationID = uint(bitstream.GetUnsigned(bitStream, pos, lenStationID))
	pos += lenStationID

	point.ITRFRealisationYear = uint(bitstream.GetUnsigned(bitStream, pos, lenITRFYear))
	pos += lenITRFYear

	point.GPSIndicator = bitstream.GetUnsigned(bitStream, pos, lenGNSSIndicator) == 1
	pos += lenGNSSIndicator
	point.GlonassIndicator = bitstream.GetUnsigned(bitStream, pos, lenGNSSIndicator) == 1
	pos += lenGNSSIndicator
	point.GalileoIndicator = bitstream.GetUnsigned(bitStream, pos, lenGNSSIndicator) == 1
	pos += lenGNSSIndicator
	point.RefStationIndicator = bitstream.GetUnsigned(bitStream, pos, lenGNSSIndicator) == 1
	pos += lenGNSSIndicator

	point.AntennaRefX = float64(bitstream.GetSigned(bitStream, pos, lenARPCoordinate)) * antennaScale
	pos += lenARPCoordinate

	point.SingleOscillator = bitstream.GetUnsigned(bitStream, pos, lenOscIndicator) == 1
	pos += lenOscIndicator
	// Unnamed reserved bit: consumed, never validated.
	pos += lenReservedBit

	point.AntennaRefY = float64(bitstream.GetSigned(bitStream, pos, lenARPCoordinate)) * antennaScale
	pos += lenARPCoordinate

	point.QuarterCycleIndicator = uint(bitstream.GetUnsigned(bitStream, pos, lenQuarterCycle))
	pos += lenQuarterCycle

	point.AntennaRefZ = float64(bitstream.GetSigned(bitStream, pos, lenARPCoordinate)) * antennaScale
	pos += lenARPCoordinate

	if expectedMessageType == rtcm3type.MessageTypeStationARPHeight {
		point.AntennaHeightM = float64(bitstream.GetUnsigned(bitStream, pos, lenAntennaHeight)) / 10000
		point.Has1006Height = true
	}

	return point, rtcm3type.OK
}

// readString reads an 8-bit length prefix followed by that many raw bytes,
// returning the string and the new bit position.  It rejects lengths above
// rtcm3type.MaxDescriptorLength as a content invariant violation, matching
// the wire format's practical upper bound on descriptor strings.
func readString(bitStream []byte, pos uint) (string, uint, rtcm3type.Result) {
	length := uint(bitstream.GetUnsigned(bitStream, pos, lenDescriptorLen))
	pos += lenDescriptorLen
	if length > rtcm3type.MaxDescriptorLength {
		return "", pos, rtcm3type.InvalidMessage
	}
	raw := make([]byte, length)
	for i := uint(0); i < length; i++ {
		raw[i] = byte(bitstream.GetUnsigned(bitStream, pos, 8))
		pos += 8
	}
	return string(raw), pos, rtcm3type.OK
}

// AntennaDescriptor is the decoded content of message 1007 (descriptor
// only) or 1008 (descriptor plus serial number).
type AntennaDescriptor struct {
	StationID      uint
	Descriptor     string
	SetupID        uint
	SerialNumber   string
	HasSerialNumber bool
}

// DecodeAntennaDescriptor decodes message 1007 or 1008.
func DecodeAntennaDescriptor(bitStream []byte, expectedMessageType int) (*AntennaDescriptor, rtcm3type.Result) {
	var pos uint = 0
	messageType := int(bitstream.GetUnsigned(bitStream, pos, lenMessageType))
	pos += lenMessageType
	if messageType != expectedMessageType {
		return nil, rtcm3type.MessageTypeMismatch
	}

	desc := &AntennaDescriptor{}
	desc.StationID = uint(bitstream.GetUnsigned(bitStream, pos, lenStationID))
	pos += lenStationID

	var descriptor string
	var result rtcm3type.Result
	descriptor, pos, result = readString(bitStream, pos)
	if result != rtcm3type.OK {
		return nil, result
	}
	desc.Descriptor = descriptor

	desc.SetupID = uint(bitstream.GetUnsigned(bitStream, pos, lenSetupID))
	pos += lenSetupID

	if expectedMessageType == rtcm3type.MessageTypeAntennaDescriptorSN {
		var serial string
		serial, pos, result = readString(bitStream, pos)
		if result != rtcm3type.OK {
			return nil, result
		}
		desc.SerialNumber = serial
		desc.HasSerialNumber = true
	}

	return desc, rtcm3type.OK
}

// UnicodeText is the decoded content of message 1029.
type UnicodeText struct {
	StationID      uint
	ModifiedJulianDay uint
	UTCSecOfDay    uint
	CharacterCount uint
	Text           string
}

const (
	lenMJD          = 16
	lenUTCSecOfDay  = 17
	lenCharCount    = 7
	lenUTF8CodeUnits = 8
)

// DecodeUnicodeText decodes message 1029.
func DecodeUnicodeText(bitStream []byte) (*UnicodeText, rtcm3type.Result) {
	var pos uint = 0
	messageType := int(bitstream.GetUnsigned(bitStream, pos, lenMessageType))
	pos += lenMessageType
	if messageType != rtcm3type.MessageTypeUnicodeText {
		return nil, rtcm3type.MessageTypeMismatch
	}

	text := &UnicodeText{}
	text.StationID = uint(bitstream.GetUnsigned(bitStream, pos, lenStationID))
	pos += lenStationID
	text.ModifiedJulianDay = uint(bitstream.GetUnsigned(bitStream, pos, lenMJD))
	pos += lenMJD
	text.UTCSecOfDay = uint(bitstream.GetUnsigned(bitStream, pos, lenUTCSecOfDay))
	pos += lenUTCSecOfDay
	text.CharacterCount = uint(bitstream.GetUnsigned(bitStream, pos, lenCharCount))
	pos += lenCharCount
	codeUnits := uint(bitstream.GetUnsigned(bitStream, pos, lenUTF8CodeUnits))
	pos += lenUTF8CodeUnits

	raw := make([]byte, codeUnits)
	for i := uint(0); i < codeUnits; i++ {
		raw[i] = byte(bitstream.GetUnsigned(bitStream, pos, 8))
		pos += 8
	}
	text.Text = string(raw)

	return text, rtcm3type.OK
}

// ReceiverAntenna is the decoded content of message 1033: antenna
// descriptor, setup ID, antenna serial number, receiver type descriptor,
// receiver firmware version and receiver serial number.
type ReceiverAntenna struct {
	StationID              uint
	AntennaDescriptor      string
	SetupID                uint
	AntennaSerialNumber    string
	ReceiverTypeDescriptor string
	ReceiverFirmwareVersion string
	ReceiverSerialNumber   string
}

// DecodeReceiverAntenna decodes message 1033.  The output record starts
// zero-filled; every string and the setup ID are then read unconditionally,
// so no field is left at its zero value on a successful decode unless the
// message carries an empty string or zero there.
func DecodeReceiverAntenna(bitStream []byte) (*ReceiverAntenna, rtcm3type.Result) {
	var pos uint = 0
	messageType := int(bitstream.GetUnsigned(bitStream, pos, lenMessageType))
	pos += lenMessageType
	if messageType != rtcm3type.MessageTypeReceiverAntenna {
		return nil, rtcm3type.MessageTypeMismatch
	}

	recv := &ReceiverAntenna{}
	recv.StationID = uint(bitstream.GetUnsigned(bitStream, pos, lenStationID))
	pos += lenStationID

	var s string
	var result rtcm3type.Result

	s, pos, result = readString(bitStream, pos)
	if result != rtcm3type.OK {
		return nil, result
	}
	recv.AntennaDescriptor = s

	recv.SetupID = uint(bitstream.GetUnsigned(bitStream, pos, lenSetupID))
	pos += lenSetupID

	s, pos, result = readString(bitStream, pos)
	if result != rtcm3type.OK {
		return nil, result
	}
	recv.AntennaSerialNumber = s

	s, pos, result = readString(bitStream, pos)
	if result != rtcm3type.OK {
		return nil, result
	}
	recv.ReceiverTypeDescriptor = s

	s, pos, result = readString(bitStream, pos)
	if result != rtcm3type.OK {
		return nil, result
	}
	recv.ReceiverFirmwareVersion = s

	s, pos, result = readString(bitStream, pos)
	if result != rtcm3type.OK {
		return nil, result
	}
	recv.ReceiverSerialNumber = s

	return recv, rtcm3type.OK
}

// GlonassCodePhaseBias is the decoded content of message 1230.
type GlonassCodePhaseBias struct {
	StationID      uint
	BiasIndicator  bool
	FDMASignalMask uint
	L1CABiasM      float64
	HasL1CABias    bool
	L1PBiasM       float64
	HasL1PBias     bool
	L2CABiasM      float64
	HasL2CABias    bool
	L2PBiasM       float64
	HasL2PBias     bool
}

const (
	lenBiasIndicator  = 1
	lenReservedBits1230 = 3
	lenFDMASignalMask = 4
	lenCodePhaseBias  = 16
)

const (
	fdmaMaskL1CA = 0x08
	fdmaMaskL1P  = 0x04
	fdmaMaskL2CA = 0x02
	fdmaMaskL2P  = 0x01
)

const codePhaseBiasScale = 0.02

// DecodeGlonassCodePhaseBias decodes message 1230.  The three reserved
// bits between the bias indicator and the FDMA signal mask are skipped,
// never validated.
func DecodeGlonassCodePhaseBias(bitStream []byte) (*GlonassCodePhaseBias, rtcm3type.Result) {
	var pos uint = 0
	messageType := int(bitstream.GetUnsigned(bitStream, pos, lenMessageType))
	pos += lenMessageType
	if messageType != rtcm3type.MessageTypeGlonassCodePhaseBias {
		return nil, rtcm3type.MessageTypeMismatch
	}

	bias := &GlonassCodePhaseBias{}
	bias.StationID = uint(bitstream.GetUnsigned(bitStream, pos, lenStationID))
	pos += lenStationID

	bias.BiasIndicator = bitstream.GetUnsigned(bitStream, pos, lenBiasIndicator) == 1
	pos += lenBiasIndicator

	pos += lenReservedBits1230

	bias.FDMASignalMask = uint(bitstream.GetUnsigned(bitStream, pos, lenFDMASignalMask))
	pos += lenFDMASignalMask

	if bias.FDMASignalMask&fdmaMaskL1CA != 0 {
		bias.L1CABiasM = float64(bitstream.GetSigned(bitStream, pos, lenCodePhaseBias)) * codePhaseBiasScale
		bias.HasL1CABias = true
		pos += lenCodePhaseBias
	}
	if bias.FDMASignalMask&fdmaMaskL1P != 0 {
		bias.L1PBiasM = float64(bitstream.GetSigned(bitStream, pos, lenCodePhaseBias)) * codePhaseBiasScale
		bias.HasL1PBias = true
		pos += lenCodePhaseBias
	}
	if bias.FDMASignalMask&fdmaMaskL2CA != 0 {
		bias.L2CABiasM = float64(bitstream.GetSigned(bitStream, pos, lenCodePhaseBias)) * codePhaseBiasScale
		bias.HasL2CABias = true
		pos += lenCodePhaseBias
	}
	if bias.FDMASignalMask&fdmaMaskL2P != 0 {
		bias.L2PBiasM = float64(bitstream.GetSigned(bitStream, pos, lenCodePhaseBias)) * codePhaseBiasScale
		bias.HasL2PBias = true
		pos += lenCodePhaseBias
	}

	return bias, rtcm3type.OK
}
