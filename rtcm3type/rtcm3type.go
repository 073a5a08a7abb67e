// Package rtcm3type holds the constants, status codes and message-number to
// constellation mapping shared by every decoder in this module.  It plays
// the role that utils.go plays in the teacher decoder, generalised to cover
// the full set of message types named in this implementation rather than
// just the MSM4/MSM7 pair the teacher recognised.
package rtcm3type

// Result is the outcome of a decode call.  Per-field validity within a
// successfully decoded record is carried in that record's flag fields, not
// in Result - an observation with a cleared valid_pr flag is not an error.
type Result int

const (
	// OK means the output record was fully populated.
	OK Result = iota
	// MessageTypeMismatch means the message number in the buffer does not
	// match the decoder that was invoked, or its constellation could not
	// be classified.
	MessageTypeMismatch
	// InvalidMessage means the buffer was structurally well-formed but
	// violated a content invariant (TOW out of range, cell mask too
	// large, non-zero reserved bits, a string longer than the standard
	// allows).
	InvalidMessage
)

func (r Result) String() string {
	switch r {
	case OK:
		return "OK"
	case MessageTypeMismatch:
		return "MESSAGE_TYPE_MISMATCH"
	case InvalidMessage:
		return "INVALID_MESSAGE"
	default:
		return "UNKNOWN_RESULT"
	}
}

// Legacy observation message numbers.
const (
	MessageTypeGPSL1Only            = 1001
	MessageTypeGPSL1Extended        = 1002
	MessageTypeGPSL1L2              = 1003
	MessageTypeGPSL1L2Extended      = 1004
	MessageTypeStationARP           = 1005
	MessageTypeStationARPHeight     = 1006
	MessageTypeAntennaDescriptor    = 1007
	MessageTypeAntennaDescriptorSN  = 1008
	MessageTypeGlonassL1Only        = 1009
	MessageTypeGlonassL1Extended    = 1010
	MessageTypeGlonassL1L2          = 1011
	MessageTypeGlonassL1L2Extended  = 1012
	MessageTypeUnicodeText          = 1029
	MessageTypeReceiverAntenna      = 1033
	MessageTypeGlonassCodePhaseBias = 1230
)

// MessageTypeSwiftProprietary is the Swift Navigation vendor envelope.
const MessageTypeSwiftProprietary = 4062

// MSM message types, four per constellation (MSM4, MSM5, MSM6, MSM7). Only
// MSM4 and MSM7 were present in the teacher's constants; the intervening
// MSM5/MSM6 numbers are filled in here so the unified engine can dispatch
// the whole family.
const (
	MessageTypeMSM4GPS = 1074
	MessageTypeMSM5GPS = 1075
	MessageTypeMSM6GPS = 1076
	MessageTypeMSM7GPS = 1077

	MessageTypeMSM4Glonass = 1084
	MessageTypeMSM5Glonass = 1085
	MessageTypeMSM6Glonass = 1086
	MessageTypeMSM7Glonass = 1087

	MessageTypeMSM4Galileo = 1094
	MessageTypeMSM5Galileo = 1095
	MessageTypeMSM6Galileo = 1096
	MessageTypeMSM7Galileo = 1097

	MessageTypeMSM4SBAS = 1104
	MessageTypeMSM5SBAS = 1105
	MessageTypeMSM6SBAS = 1106
	MessageTypeMSM7SBAS = 1107

	MessageTypeMSM4QZSS = 1114
	MessageTypeMSM5QZSS = 1115
	MessageTypeMSM6QZSS = 1116
	MessageTypeMSM7QZSS = 1117

	MessageTypeMSM4Beidou = 1124
	MessageTypeMSM5Beidou = 1125
	MessageTypeMSM6Beidou = 1126
	MessageTypeMSM7Beidou = 1127

	MessageTypeMSM4NavicIrnss = 1134
	MessageTypeMSM5NavicIrnss = 1135
	MessageTypeMSM6NavicIrnss = 1136
	MessageTypeMSM7NavicIrnss = 1137
)

// MSMType identifies which of the four MSM field-width regimes a message
// uses.  The original decoder implements all four via one internal function
// parameterised by this kind of value (see rtcm3_decode_msm_internal in the
// reference source); msm.Decode follows the same shape in Go.
type MSMType int

const (
	MSMUnknown MSMType = iota
	MSM4
	MSM5
	MSM6
	MSM7
)

// Constellation identifies a GNSS.
type Constellation int

const (
	ConstellationInvalid Constellation = iota
	GPS
	Glonass
	Galileo
	SBAS
	QZSS
	Beidou
	NavicIrnss
)

func (c Constellation) String() string {
	switch c {
	case GPS:
		return "GPS"
	case Glonass:
		return "GLONASS"
	case Galileo:
		return "Galileo"
	case SBAS:
		return "SBAS"
	case QZSS:
		return "QZSS"
	case Beidou:
		return "BeiDou"
	case NavicIrnss:
		return "NavIC/IRNSS"
	default:
		return "unknown constellation"
	}
}

// msmClass describes one constellation's MSM message-number block: the
// lowest number (MSM1) and the constellation it carries.  MSM4..MSM7 are at
// offsets 3..6 from that base, following the layout common to every
// constellation's RTCM MSM assignment (1071-1077 GPS, 1081-1087 GLONASS,
// 1091-1097 Galileo, 1101-1107 SBAS, 1111-1117 QZSS, 1121-1127 BeiDou,
// 1131-1137 NavIC/IRNSS).
type msmClass struct {
	base          int
	constellation Constellation
}

var msmClasses = []msmClass{
	{1071, GPS},
	{1081, Glonass},
	{1091, Galileo},
	{1101, SBAS},
	{1111, QZSS},
	{1121, Beidou},
	{1131, NavicIrnss},
}

// ClassifyMSM maps a 12-bit MSM message number to its type (MSM4-7) and
// constellation.  It returns MSMUnknown/ConstellationInvalid if the number
// does not fall in one of the seven MSM blocks or is not MSM4-7.
func ClassifyMSM(messageType int) (MSMType, Constellation) {
	for _, class := range msmClasses {
		if messageType < class.base || messageType > class.base+6 {
			continue
		}
		offset := messageType - class.base
		switch offset {
		case 3:
			return MSM4, class.constellation
		case 4:
			return MSM5, class.constellation
		case 5:
			return MSM6, class.constellation
		case 6:
			return MSM7, class.constellation
		default:
			return MSMUnknown, ConstellationInvalid
		}
	}
	return MSMUnknown, ConstellationInvalid
}

// Timing and scaling constants used across the legacy and MSM decoders.

const (
	// MaxTowMs is the largest legal millisecond-of-week value for GPS,
	// Galileo, BeiDou and SBAS/QZSS (30-bit field, but bounded to under
	// seven days' worth of milliseconds).
	MaxTowMs = 7*24*3600*1000 - 1
	// MaxTowMsGlonass is the largest legal millisecond-of-day value for
	// GLONASS (27-bit field).
	MaxTowMsGlonass = 24*3600*1000 + 999

	// TwoPow30 is used to normalize BeiDou's underflowed TOW encoding.
	TwoPow30 = 1 << 30
	// BeidouToGPSSecondOffset is BeiDou time's lead over GPS time, in
	// seconds.
	BeidouToGPSSecondOffset = 14

	// PRUnitGPS is the one-millisecond pseudorange ambiguity unit for
	// GPS/Galileo/BeiDou/SBAS/QZSS, in metres (speed of light x 1ms).
	PRUnitGPS = 299792.458
	// PRUnitGlonass is the equivalent unit for GLONASS, which (per the
	// standard) doubles the GPS unit.
	PRUnitGlonass = 599584.916

	// SpeedOfLightMS is the speed of light in metres per second.
	SpeedOfLightMS = 299792458.0

	// FreqL1GPS and FreqL2GPS are the GPS/Galileo L1 and L2 carrier
	// frequencies in Hz.
	FreqL1GPS = 1575.42e6
	FreqL2GPS = 1227.60e6

	// FreqL1Glonass and FreqL1GlonassDelta give the GLONASS G1 carrier
	// frequency and its per-channel offset, in Hz.
	FreqL1Glonass      = 1602.0e6
	FreqL1GlonassDelta = 0.5625e6
	// FreqL2Glonass and FreqL2GlonassDelta are the G2 equivalents.
	FreqL2Glonass      = 1246.0e6
	FreqL2GlonassDelta = 0.4375e6

	// GlonassFCNOffset is added to the wire FCN value so that it can be
	// carried in an unsigned field; subtract it to recover the true
	// channel number (-7..+6).
	GlonassFCNOffset = 7
	// GlonassMaxFCN is the largest FCN value (after adding the offset)
	// for which L2 carrier-phase reconstruction is considered valid.
	GlonassMaxFCN = 20

	// MSMSatelliteMaskBits and MSMSignalMaskBits are the widths of the
	// two top-level MSM bitmaps.
	MSMSatelliteMaskBits = 64
	MSMSignalMaskBits    = 32
	// MSMMaxCells bounds num_sats * num_sigs; above this the cell mask
	// cannot be represented and the message is rejected.
	MSMMaxCells = 64

	// MSMGLOFCNUnknown is the sat_info sentinel used for GLONASS
	// satellites when the FCN was not delivered (MSM4/MSM6).
	MSMGLOFCNUnknown = 0xF

	// InvalidRoughRange is the sentinel whole-millisecond rough-range
	// value (MSM satellite row).
	InvalidRoughRange = 0xff
	// InvalidRoughRate is the sentinel 14-bit rough phase-range-rate
	// value (MSM5/MSM7 satellite row).
	InvalidRoughRate = -8192

	// InvalidPRDelta and InvalidPRDeltaExtended are the fine-pseudorange
	// sentinels for MSM4/5 and MSM6/7 respectively.
	InvalidPRDelta         = -16384
	InvalidPRDeltaExtended = -524288
	// InvalidCPDelta and InvalidCPDeltaExtended are the fine-carrier-phase
	// sentinels.
	InvalidCPDelta         = -2097152
	InvalidCPDeltaExtended = -8388608
	// InvalidRateDelta is the fine phase-range-rate sentinel (MSM5/MSM7).
	InvalidRateDelta = -16384

	// Scale factors applied to the fine MSM fields, expressed as the
	// reciprocal powers of two used in the reference source (C_1_2P24
	// etc).
	ScaleFinePR         = 1.0 / (1 << 24)
	ScaleFinePRExtended = 1.0 / (1 << 29)
	ScaleFineCP         = 1.0 / (1 << 29)
	ScaleFineCPExtended = 1.0 / (1 << 31)
	ScaleCNRExtended    = 1.0 / (1 << 4)

	// PRInvalidLegacy, CPInvalidLegacy and PRL2InvalidLegacy are the
	// sentinels for the legacy (1001-1004, 1010, 1012) observable
	// fields.  The header files that define these in the reference
	// source were not available; these are the maximum/minimum
	// representable values of the corresponding wire fields (24-bit
	// unsigned pr, 20-bit signed phase delta, 14-bit signed L2 pr
	// delta), which is the standard RTKLIB/RTCM convention.
	PRInvalidLegacy   = 0xFFFFFF
	CPInvalidLegacy   = -(1 << 19)
	PRL2InvalidLegacy = -(1 << 13)

	// MaxDescriptorLength is the maximum byte length of a 1007/1008/1033
	// descriptor or serial-number string; the 8-bit length prefix can
	// carry larger values, which are rejected.
	MaxDescriptorLength = 31
)
