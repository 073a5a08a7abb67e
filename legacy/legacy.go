// Package legacy decodes the pre-MSM GPS and GLONASS observation message
// types: 1001-1004 (GPS L1, optionally L1+L2) and 1009-1012 (the GLONASS
// equivalents).  Each message carries a common header followed by one block
// of fields per satellite; the L1 and L2 blocks and observable
// reconstruction formulas are grounded on rtcm3_decode_1001..1004,
// rtcm3_decode_1010 and rtcm3_decode_1012 in the reference decoder.
package legacy

import (
	"github.com/baselinefix/rtcm3decode/bitstream"
	"github.com/baselinefix/rtcm3decode/locktime"
	"github.com/baselinefix/rtcm3decode/rtcm3type"
)

// Flags carries the per-field validity bits for one frequency observation.
// Downstream code must only read the associated value when its flag is
// set - an unset flag is the expected encoding for "not present", not an
// error.
type Flags struct {
	ValidPR   bool
	ValidCP   bool
	ValidLock bool
	ValidCNR  bool
}

// FrequencyObservation holds the reconstructed pseudorange, carrier phase,
// lock time and CNR for one (satellite, band) pair.
type FrequencyObservation struct {
	CodeIndicator       uint
	PseudorangeM        float64
	CarrierPhaseCycles  float64
	LockTimeS           uint32
	CNRDBHz             float64
	Flags               Flags
}

// SatelliteObservation holds the decoded data for one satellite: its ID,
// GLONASS frequency channel number (when applicable), and one frequency
// observation per band present in the message.
type SatelliteObservation struct {
	SVID uint
	// FCN is the GLONASS frequency channel number plus
	// rtcm3type.GlonassFCNOffset, as carried on the wire. It is zero
	// (meaningless) for non-GLONASS messages.
	FCN uint
	L1  FrequencyObservation
	L2  FrequencyObservation
	// HasL2 is true for message types 1003/1004/1012, which carry an L2
	// block; false for 1001/1002/1010.
	HasL2 bool
}

// Message is a decoded legacy observation message (1001-1004, 1010, 1012).
type Message struct {
	MessageType int
	StationID   uint
	TowMs       uint
	Synchronous bool
	DivergenceFreeSmoothing bool
	SmoothingInterval       uint
	Satellites  []SatelliteObservation
}

const lenMessageType = 12
const lenStationID = 12
const lenTowMsGPS = 30
const lenTowMsGlonass = 27
const lenSync = 1
const lenNSat = 5
const lenSmoothFlag = 1
const lenSmoothInterval = 3
const lenSVID = 6

const headerLenGPS = lenMessageType + lenStationID + lenTowMsGPS + lenSync +
	lenNSat + lenSmoothFlag + lenSmoothInterval
const headerLenGlonass = lenMessageType + lenStationID + lenTowMsGlonass + lenSync +
	lenNSat + lenSmoothFlag + lenSmoothInterval

// isGlonass reports whether a legacy message type is one of the GLONASS
// observation types (1009-1012).
func isGlonass(messageType int) bool {
	switch messageType {
	case rtcm3type.MessageTypeGlonassL1Only, rtcm3type.MessageTypeGlonassL1Extended,
		rtcm3type.MessageTypeGlonassL1L2, rtcm3type.MessageTypeGlonassL1L2Extended:
		return true
	default:
		return false
	}
}

// isExtended reports whether a message type carries the ambiguity and CNR
// fields (1002, 1004, 1010, 1012) as opposed to the minimal variants
// (1001, 1003, 1009, 1011).
func isExtended(messageType int) bool {
	switch messageType {
	case rtcm3type.MessageTypeGPSL1Extended, rtcm3type.MessageTypeGPSL1L2Extended,
		rtcm3type.MessageTypeGlonassL1Extended, rtcm3type.MessageTypeGlonassL1L2Extended:
		return true
	default:
		return false
	}
}

// isDualFrequency reports whether a message type carries an L2 block
// (1003, 1004, 1011, 1012).
func isDualFrequency(messageType int) bool {
	switch messageType {
	case rtcm3type.MessageTypeGPSL1L2, rtcm3type.MessageTypeGPSL1L2Extended,
		rtcm3type.MessageTypeGlonassL1L2, rtcm3type.MessageTypeGlonassL1L2Extended:
		return true
	default:
		return false
	}
}

// Decode decodes a legacy observation message of the given type from
// bitStream, which must hold exactly the RTCM3 data portion (message
// number at bit offset zero, no preamble/length/CRC).
func Decode(bitStream []byte, expectedMessageType int) (*Message, rtcm3type.Result) {
	glonass := isGlonass(expectedMessageType)

	var pos uint = 0
	messageType := int(bitstream.GetUnsigned(bitStream, pos, lenMessageType))
	pos += lenMessageType
	if messageType != expectedMessageType {
		return nil, rtcm3type.MessageTypeMismatch
	}

	stationID := uint(bitstream.GetUnsigned(bitStream, pos, lenStationID))
	pos += lenStationID

	var towMs uint
	if glonass {
		towMs = uint(bitstream.GetUnsigned(bitStream, pos, lenTowMsGlonass))
		pos += lenTowMsGlonass
	} else {
		towMs = uint(bitstream.GetUnsigned(bitStream, pos, lenTowMsGPS))
		pos += lenTowMsGPS
	}

	maxTow := uint(rtcm3type.MaxTowMs)
	if glonass {
		maxTow = uint(rtcm3type.MaxTowMsGlonass)
	}
	if towMs > maxTow {
		return nil, rtcm3type.InvalidMessage
	}

	synchronous := bitstream.GetUnsigned(bitStream, pos, lenSync) == 1
	pos += lenSync

	nSat := uint(bitstream.GetUnsigned(bitStream, pos, lenNSat))
	pos += lenNSat

	divFree := bitstream.GetUnsigned(bitStream, pos, lenSmoothFlag) == 1
	pos += lenSmoothFlag

	smoothInterval := uint(bitstream.GetUnsigned(bitStream, pos, lenSmoothInterval))
	pos += lenSmoothInterval

	extended := isExtended(expectedMessageType)
	dualFreq := isDualFrequency(expectedMessageType)

	sats := make([]SatelliteObservation, 0, nSat)
	for i := uint(0); i < nSat; i++ {
		sat, newPos := decodeSatellite(bitStream, pos, glonass, extended, dualFreq)
		pos = newPos
		sats = append(sats, sat)
	}

	message := &Message{
		MessageType:             messageType,
		StationID:                stationID,
		TowMs:                    towMs,
		Synchronous:              synchronous,
		DivergenceFreeSmoothing:  divFree,
		SmoothingInterval:        smoothInterval,
		Satellites:               sats,
	}
	return message, rtcm3type.OK
}

func decodeSatellite(bitStream []byte, pos uint, glonass, extended, dualFreq bool) (SatelliteObservation, uint) {
	sat := SatelliteObservation{HasL2: dualFreq}

	sat.SVID = uint(bitstream.GetUnsigned(bitStream, pos, lenSVID))
	pos += lenSVID

	// Basic L1 block.
	pos += 1 // code indicator, bit(1) - carried in CodeIndicator below.
	codeL1 := bitstream.GetUnsigned(bitStream, pos-1, 1)

	var fcn uint
	var lenPR uint = 24
	if glonass {
		fcn = uint(bitstream.GetUnsigned(bitStream, pos, 5))
		pos += 5
		lenPR = 25
	}
	prRaw := bitstream.GetUnsigned(bitStream, pos, lenPR)
	pos += lenPR
	phrPRDiffRaw := bitstream.GetSigned(bitStream, pos, 20)
	pos += 20
	lockRaw := bitstream.GetUnsigned(bitStream, pos, 7)
	pos += 7

	sat.FCN = fcn

	var amb uint
	var cnrRaw uint
	if extended {
		amb = uint(bitstream.GetUnsigned(bitStream, pos, 8))
		pos += 8
		cnrRaw = uint(bitstream.GetUnsigned(bitStream, pos, 8))
		pos += 8
	}

	prUnit := rtcm3type.PRUnitGPS
	freqL1 := rtcm3type.FreqL1GPS
	if glonass {
		prUnit = rtcm3type.PRUnitGlonass
		glofcn := int(fcn) - rtcm3type.GlonassFCNOffset
		freqL1 = rtcm3type.FreqL1Glonass + float64(glofcn)*rtcm3type.FreqL1GlonassDelta
	}

	sat.L1 = buildFrequencyObservation(uint(codeL1), prRaw, rtcm3type.PRInvalidLegacy,
		phrPRDiffRaw, amb, prUnit, freqL1, uint(lockRaw), cnrRaw)
	sat.L1.Flags.ValidLock = sat.L1.Flags.ValidCP

	if dualFreq {
		codeL2 := uint(bitstream.GetUnsigned(bitStream, pos, 2))
		pos += 2
		prDiffL2 := bitstream.GetSigned(bitStream, pos, 14)
		pos += 14
		phrPRDiffL2 := bitstream.GetSigned(bitStream, pos, 20)
		pos += 20
		lockL2Raw := bitstream.GetUnsigned(bitStream, pos, 7)
		pos += 7

		var cnrL2Raw uint
		if extended {
			cnrL2Raw = uint(bitstream.GetUnsigned(bitStream, pos, 8))
			pos += 8
		}

		freqL2 := rtcm3type.FreqL2GPS
		if glonass {
			glofcn := int(fcn) - rtcm3type.GlonassFCNOffset
			freqL2 = rtcm3type.FreqL2Glonass + float64(glofcn)*rtcm3type.FreqL2GlonassDelta
		}

		sat.L2 = buildL2FrequencyObservation(codeL2, prDiffL2, sat.L1.PseudorangeM,
			sat.L1.Flags.ValidPR, phrPRDiffL2, sat.L1.CarrierPhaseCycles, freqL2,
			uint(lockL2Raw), cnrL2Raw)
		if glonass && int(fcn) > rtcm3type.GlonassMaxFCN {
			sat.L2.Flags.ValidPR = false
			sat.L2.Flags.ValidCP = false
		}
		sat.L2.Flags.ValidLock = sat.L2.Flags.ValidCP
	}

	return sat, pos
}

func buildFrequencyObservation(code uint, prRaw uint64, invalidPR uint64,
	phrPRDiffRaw int64, amb uint, prUnit, freqHz float64, lockRaw uint, cnrRaw uint) FrequencyObservation {

	obs := FrequencyObservation{CodeIndicator: code}

	validPR := prRaw != invalidPR
	obs.Flags.ValidPR = validPR
	if validPR {
		obs.PseudorangeM = 0.02*float64(prRaw) + float64(amb)*prUnit
	}

	validCP := phrPRDiffRaw != rtcm3type.CPInvalidLegacy
	obs.Flags.ValidCP = validCP
	if validCP && validPR && freqHz != 0 {
		wavelengthCycles := 0.0005 * float64(phrPRDiffRaw)
		obs.CarrierPhaseCycles = (obs.PseudorangeM + wavelengthCycles) / (rtcm3type.SpeedOfLightMS / freqHz)
	}

	obs.LockTimeS = locktime.FromLegacy(uint(lockRaw))

	obs.Flags.ValidCNR = cnrRaw != 0
	if obs.Flags.ValidCNR {
		obs.CNRDBHz = 0.25 * float64(cnrRaw)
	}

	return obs
}

func buildL2FrequencyObservation(code uint, prDiffRaw int64, pseudorangeL1 float64,
	validL1PR bool, phrPRDiffRaw int64, carrierPhaseL1 float64, freqHz float64,
	lockRaw uint, cnrRaw uint) FrequencyObservation {

	obs := FrequencyObservation{CodeIndicator: code}

	validPR := validL1PR && prDiffRaw != rtcm3type.PRL2InvalidLegacy
	obs.Flags.ValidPR = validPR
	if validPR {
		obs.PseudorangeM = 0.02*float64(prDiffRaw) + pseudorangeL1
	}

	validCP := validL1PR && phrPRDiffRaw != rtcm3type.CPInvalidLegacy
	obs.Flags.ValidCP = validCP
	if validCP && freqHz != 0 {
		wavelengthCycles := 0.0005 * float64(phrPRDiffRaw)
		obs.CarrierPhaseCycles = (pseudorangeL1 + wavelengthCycles) / (rtcm3type.SpeedOfLightMS / freqHz)
	}

	obs.LockTimeS = locktime.FromLegacy(uint(lockRaw))

	obs.Flags.ValidCNR = cnrRaw != 0
	if obs.Flags.ValidCNR {
		obs.CNRDBHz = 0.25 * float64(cnrRaw)
	}

	return obs
}
