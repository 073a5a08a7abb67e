// Package msm decodes the Multiple Signal Message family (message types
// 1074-1137): MSM4 and MSM5 at standard precision, MSM6 and MSM7 at
// extended precision, across all seven RTCM constellations.  The four
// message kinds share one wire layout parameterised by field width, so
// this package implements them with one decode engine rather than one
// package per kind, following the reference decoder's single
// rtcm3_decode_msm_internal function.
package msm

import (
	"github.com/baselinefix/rtcm3decode/bitstream"
	"github.com/baselinefix/rtcm3decode/locktime"
	"github.com/baselinefix/rtcm3decode/rtcm3type"
)

const (
	lenMessageType                           = 12
	lenStationID                             = 12
	lenEpochTime                             = 30
	lenGlonassDayOfWeek                      = 3
	lenGlonassTowMs                          = 27
	lenMultipleMessageFlag                   = 1
	lenIssueOfDataStation                    = 3
	lenSessionTransmissionTime               = 7
	lenClockSteeringIndicator                = 2
	lenExternalClockIndicator                = 2
	lenGNSSDivergenceFreeSmoothingIndicator  = 1
	lenGNSSSmoothingInterval                 = 3
	lenSatelliteMask                         = rtcm3type.MSMSatelliteMaskBits
	lenSignalMask                            = rtcm3type.MSMSignalMaskBits

	lenRoughRangeWholeMillis = 8
	lenSatelliteInfo         = 4
	lenRoughRangeFractional  = 10
	lenRoughRangeRate        = 14

	lenFinePRStandard  = 15
	lenFinePRExtended  = 20
	lenFineCPStandard  = 22
	lenFineCPExtended  = 24
	lenLockStandard    = 4
	lenLockExtended    = 10
	lenHalfCycleAmbiguity = 1
	lenCNRStandard     = 6
	lenCNRExtended     = 10
	lenFineRangeRate   = 15
)

// Header is the fixed-format part of an MSM message that precedes the
// satellite and signal data.
type Header struct {
	MessageType             int
	MSMType                 rtcm3type.MSMType
	Constellation           rtcm3type.Constellation
	StationID               uint
	TowMs                   uint
	GlonassDayOfWeek        uint
	MultipleMessage         bool
	IssueOfDataStation      uint
	SessionTransmissionTime uint
	ClockSteeringIndicator  uint
	ExternalClockIndicator  uint
	DivergenceFreeSmoothing bool
	SmoothingInterval       uint
	SatelliteMask           uint64
	SignalMask              uint32
	CellMask                uint64
	Satellites              []uint
	Signals                 []uint
	// Cells[i][j] is true if Satellites[i] sent Signals[j].
	Cells [][]bool
}

// SatelliteRow holds the per-satellite data that precedes the signal
// cells: the rough range (as whole and fractional milliseconds), and, for
// MSM5/MSM7, the GLONASS frequency channel number and rough phase range
// rate.
type SatelliteRow struct {
	ID                    uint
	RoughRangeWholeMillis uint
	RoughRangeFractional  uint
	ValidRoughRange       bool
	GlonassFCN            uint
	HasGlonassFCN         bool
	RoughRangeRateMS      int
	ValidRoughRangeRate   bool
}

// SignalCell holds the decoded and reconstructed data for one (satellite,
// signal) pair.
type SignalCell struct {
	SatelliteID        uint
	SignalID           uint
	WavelengthM        float64
	PseudorangeM       float64
	ValidPseudorange   bool
	CarrierPhaseCycles float64
	ValidCarrierPhase  bool
	LockTimeS          float64
	HalfCycleAmbiguity bool
	CNRDBHz            float64
	ValidCNR           bool
	PhaseRangeRateMS   float64
	ValidRangeRate     bool
	HasRangeRate       bool
}

// Message is a fully decoded MSM message.
type Message struct {
	Header     Header
	Satellites []SatelliteRow
	Signals    [][]SignalCell
}

// DecodeHeader extracts the MSM header from bitStream, which must hold
// exactly the RTCM3 data portion, and returns the header plus the bit
// position of the satellite data that follows it.
func DecodeHeader(bitStream []byte) (*Header, uint, rtcm3type.Result) {
	var pos uint = 0
	messageType := int(bitstream.GetUnsigned(bitStream, pos, lenMessageType))
	pos += lenMessageType

	msmType, constellation := rtcm3type.ClassifyMSM(messageType)
	if msmType == rtcm3type.MSMUnknown {
		return nil, 0, rtcm3type.MessageTypeMismatch
	}

	header := &Header{MessageType: messageType, MSMType: msmType, Constellation: constellation}

	header.StationID = uint(bitstream.GetUnsigned(bitStream, pos, lenStationID))
	pos += lenStationID

	if constellation == rtcm3type.Glonass {
		header.GlonassDayOfWeek = uint(bitstream.GetUnsigned(bitStream, pos, lenGlonassDayOfWeek))
		pos += lenGlonassDayOfWeek
		header.TowMs = uint(bitstream.GetUnsigned(bitStream, pos, lenGlonassTowMs))
		pos += lenGlonassTowMs
		if header.TowMs > rtcm3type.MaxTowMsGlonass {
			return nil, 0, rtcm3type.InvalidMessage
		}
	} else if constellation == rtcm3type.Beidou {
		raw := uint(bitstream.GetUnsigned(bitStream, pos, lenEpochTime))
		pos += lenEpochTime
		if raw >= rtcm3type.TwoPow30-14000 {
			header.TowMs = rtcm3type.MaxTowMs + 1 - (rtcm3type.TwoPow30 - raw)
		} else {
			header.TowMs = raw
		}
		if header.TowMs > rtcm3type.MaxTowMs {
			return nil, 0, rtcm3type.InvalidMessage
		}
	} else {
		header.TowMs = uint(bitstream.GetUnsigned(bitStream, pos, lenEpochTime))
		pos += lenEpochTime
		if header.TowMs > rtcm3type.MaxTowMs {
			return nil, 0, rtcm3type.InvalidMessage
		}
	}

	header.MultipleMessage = bitstream.GetUnsigned(bitStream, pos, lenMultipleMessageFlag) == 1
	pos += lenMultipleMessageFlag

	header.IssueOfDataStation = uint(bitstream.GetUnsigned(bitStream, pos, lenIssueOfDataStation))
	pos += lenIssueOfDataStation

	header.SessionTransmissionTime = uint(bitstream.GetUnsigned(bitStream, pos, lenSessionTransmissionTime))
	pos += lenSessionTransmissionTime

	header.ClockSteeringIndicator = uint(bitstream.GetUnsigned(bitStream, pos, lenClockSteeringIndicator))
	pos += lenClockSteeringIndicator

	header.ExternalClockIndicator = uint(bitstream.GetUnsigned(bitStream, pos, lenExternalClockIndicator))
	pos += lenExternalClockIndicator

	header.DivergenceFreeSmoothing = bitstream.GetUnsigned(bitStream, pos, lenGNSSDivergenceFreeSmoothingIndicator) == 1
	pos += lenGNSSDivergenceFreeSmoothingIndicator

	header.SmoothingInterval = uint(bitstream.GetUnsigned(bitStream, pos, lenGNSSSmoothingInterval))
	pos += lenGNSSSmoothingInterval

	header.SatelliteMask = bitstream.GetUnsigned(bitStream, pos, lenSatelliteMask)
	pos += lenSatelliteMask
	header.Satellites = bitsToIDs(header.SatelliteMask, lenSatelliteMask)

	header.SignalMask = uint32(bitstream.GetUnsigned(bitStream, pos, lenSignalMask))
	pos += lenSignalMask
	header.Signals = bitsToIDs(uint64(header.SignalMask), lenSignalMask)

	numCells := len(header.Satellites) * len(header.Signals)
	if numCells > rtcm3type.MSMMaxCells {
		return nil, 0, rtcm3type.InvalidMessage
	}

	header.CellMask = bitstream.GetUnsigned(bitStream, pos, uint(numCells))
	pos += uint(numCells)
	header.Cells = expandCellMask(header.CellMask, len(header.Satellites), len(header.Signals))

	return header, pos, rtcm3type.OK
}

func bitsToIDs(mask uint64, width uint) []uint {
	ids := make([]uint, 0)
	for n := uint(1); n <= width; n++ {
		bitPosition := width - n
		if (mask>>bitPosition)&1 == 1 {
			ids = append(ids, n)
		}
	}
	return ids
}

func expandCellMask(mask uint64, numSats, numSigs int) [][]bool {
	numCells := numSats * numSigs
	cellNumber := 0
	cells := make([][]bool, 0, numSats)
	for i := 0; i < numSats; i++ {
		row := make([]bool, 0, numSigs)
		for j := 0; j < numSigs; j++ {
			cellNumber++
			bitPosition := numCells - cellNumber
			row = append(row, (mask>>bitPosition)&1 == 1)
		}
		cells = append(cells, row)
	}
	return cells
}

func isExtended(msmType rtcm3type.MSMType) bool {
	return msmType == rtcm3type.MSM6 || msmType == rtcm3type.MSM7
}

func hasRangeRate(msmType rtcm3type.MSMType) bool {
	return msmType == rtcm3type.MSM5 || msmType == rtcm3type.MSM7
}

// Decode decodes a full MSM message (header, satellite rows and signal
// cells) from bitStream, which must hold exactly the RTCM3 data portion.
func Decode(bitStream []byte) (*Message, rtcm3type.Result) {
	header, pos, result := DecodeHeader(bitStream)
	if result != rtcm3type.OK {
		return nil, result
	}

	numSats := len(header.Satellites)
	numSigs := len(header.Signals)
	numCells := 0
	for _, row := range header.Cells {
		for _, present := range row {
			if present {
				numCells++
			}
		}
	}

	extended := isExtended(header.MSMType)
	withRate := hasRangeRate(header.MSMType)

	wholeMillis := make([]uint, numSats)
	for i := range wholeMillis {
		wholeMillis[i] = uint(bitstream.GetUnsigned(bitStream, pos, lenRoughRangeWholeMillis))
		pos += lenRoughRangeWholeMillis
	}

	satInfo := make([]uint, numSats)
	if withRate {
		for i := range satInfo {
			satInfo[i] = uint(bitstream.GetUnsigned(bitStream, pos, lenSatelliteInfo))
			pos += lenSatelliteInfo
		}
	}

	fractionalMillis := make([]uint, numSats)
	for i := range fractionalMillis {
		fractionalMillis[i] = uint(bitstream.GetUnsigned(bitStream, pos, lenRoughRangeFractional))
		pos += lenRoughRangeFractional
	}

	roughRate := make([]int, numSats)
	if withRate {
		for i := range roughRate {
			roughRate[i] = int(bitstream.GetSigned(bitStream, pos, lenRoughRangeRate))
			pos += lenRoughRangeRate
		}
	}

	satellites := make([]SatelliteRow, numSats)
	for i := 0; i < numSats; i++ {
		row := SatelliteRow{ID: header.Satellites[i]}
		row.RoughRangeWholeMillis = wholeMillis[i]
		row.ValidRoughRange = wholeMillis[i] != rtcm3type.InvalidRoughRange
		row.RoughRangeFractional = fractionalMillis[i]
		if withRate {
			if header.Constellation == rtcm3type.Glonass {
				row.GlonassFCN = satInfo[i]
				row.HasGlonassFCN = satInfo[i] != rtcm3type.MSMGLOFCNUnknown
			}
			row.RoughRangeRateMS = roughRate[i]
			row.ValidRoughRangeRate = roughRate[i] != rtcm3type.InvalidRoughRate
		} else if header.Constellation == rtcm3type.Glonass {
			row.GlonassFCN = rtcm3type.MSMGLOFCNUnknown
		}
		satellites[i] = row
	}

	lenPR := uint(lenFinePRStandard)
	scalePR := rtcm3type.ScaleFinePR
	invalidPR := int64(rtcm3type.InvalidPRDelta)
	lenCP := uint(lenFineCPStandard)
	scaleCP := rtcm3type.ScaleFineCP
	invalidCP := int64(rtcm3type.InvalidCPDelta)
	lenLock := uint(lenLockStandard)
	lenCNR := uint(lenCNRStandard)
	scaleCNR := 1.0
	if extended {
		lenPR = lenFinePRExtended
		scalePR = rtcm3type.ScaleFinePRExtended
		invalidPR = rtcm3type.InvalidPRDeltaExtended
		lenCP = lenFineCPExtended
		scaleCP = rtcm3type.ScaleFineCPExtended
		invalidCP = rtcm3type.InvalidCPDeltaExtended
		lenLock = lenLockExtended
		lenCNR = lenCNRExtended
		scaleCNR = rtcm3type.ScaleCNRExtended
	}

	prDelta := make([]int64, numCells)
	for i := range prDelta {
		prDelta[i] = bitstream.GetSigned(bitStream, pos, lenPR)
		pos += lenPR
	}

	cpDelta := make([]int64, numCells)
	for i := range cpDelta {
		cpDelta[i] = bitstream.GetSigned(bitStream, pos, lenCP)
		pos += lenCP
	}

	lockRaw := make([]uint, numCells)
	for i := range lockRaw {
		lockRaw[i] = uint(bitstream.GetUnsigned(bitStream, pos, lenLock))
		pos += lenLock
	}

	hca := make([]bool, numCells)
	for i := range hca {
		hca[i] = bitstream.GetUnsigned(bitStream, pos, lenHalfCycleAmbiguity) == 1
		pos += lenHalfCycleAmbiguity
	}

	cnrRaw := make([]uint, numCells)
	for i := range cnrRaw {
		cnrRaw[i] = uint(bitstream.GetUnsigned(bitStream, pos, lenCNR))
		pos += lenCNR
	}

	rateDelta := make([]int64, numCells)
	if withRate {
		for i := range rateDelta {
			rateDelta[i] = bitstream.GetSigned(bitStream, pos, lenFineRangeRate)
			pos += lenFineRangeRate
		}
	}

	signals := make([][]SignalCell, numSats)
	cellIndex := 0
	for i := 0; i < numSats; i++ {
		row := make([]SignalCell, 0, numSigs)
		for j := 0; j < numSigs; j++ {
			if !header.Cells[i][j] {
				continue
			}

			signalID := header.Signals[j]
			sat := satellites[i]
			cell := SignalCell{
				SatelliteID:        sat.ID,
				SignalID:           signalID,
				WavelengthM:        signalWavelength(header.Constellation, signalID, sat),
				HalfCycleAmbiguity: hca[cellIndex],
			}

			if sat.ValidRoughRange {
				roughRangeMs := float64(sat.RoughRangeWholeMillis) + float64(sat.RoughRangeFractional)/1024.0

				if prDelta[cellIndex] != invalidPR {
					rangeMs := roughRangeMs + float64(prDelta[cellIndex])*scalePR
					cell.PseudorangeM = rangeMs * rtcm3type.PRUnitGPS
					cell.ValidPseudorange = true
				}

				if cpDelta[cellIndex] != invalidCP && cell.WavelengthM > 0 {
					phaseRangeMs := roughRangeMs + float64(cpDelta[cellIndex])*scaleCP
					phaseRangeM := phaseRangeMs * rtcm3type.PRUnitGPS
					cell.CarrierPhaseCycles = phaseRangeM / cell.WavelengthM
					cell.ValidCarrierPhase = true
				}
			}

			if extended {
				cell.LockTimeS = locktime.FromMSMExtendedSeconds(lockRaw[cellIndex])
			} else {
				cell.LockTimeS = locktime.FromMSMStandard(lockRaw[cellIndex])
			}

			cell.ValidCNR = cnrRaw[cellIndex] != 0
			if cell.ValidCNR {
				cell.CNRDBHz = float64(cnrRaw[cellIndex]) * scaleCNR
			}

			if withRate {
				cell.HasRangeRate = true
				if sat.ValidRoughRangeRate && rateDelta[cellIndex] != rtcm3type.InvalidRateDelta {
					cell.PhaseRangeRateMS = float64(sat.RoughRangeRateMS) + float64(rateDelta[cellIndex])*0.0001
					cell.ValidRangeRate = true
				}
			}

			row = append(row, cell)
			cellIndex++
		}
		signals[i] = row
	}

	return &Message{Header: *header, Satellites: satellites, Signals: signals}, rtcm3type.OK
}

// signalWavelength returns the carrier wavelength in metres for the given
// constellation and signal ID.  For GLONASS, the wavelength depends on the
// satellite's frequency channel number; other constellations use a fixed
// frequency plan independent of the satellite.
func signalWavelength(constellation rtcm3type.Constellation, signalID uint, sat SatelliteRow) float64 {
	freqHz := gnssSignalFrequency(constellation, signalID)
	if freqHz == 0 {
		return 0
	}
	if constellation == rtcm3type.Glonass && sat.HasGlonassFCN {
		glofcn := int(sat.GlonassFCN) - rtcm3type.GlonassFCNOffset
		if isL2Signal(signalID) {
			freqHz += float64(glofcn) * rtcm3type.FreqL2GlonassDelta
		} else {
			freqHz += float64(glofcn) * rtcm3type.FreqL1GlonassDelta
		}
	}
	return rtcm3type.SpeedOfLightMS / freqHz
}

// gnssSignalFrequency maps a constellation and MSM signal ID to its
// nominal carrier frequency.  For GPS/QZSS/SBAS and GLONASS, signal IDs
// 8-14 map to the L2/G2 frequency and every other ID to L1/G1; every other
// constellation gets the GPS L1 frequency for all signal IDs.  It never
// returns 0.
func gnssSignalFrequency(constellation rtcm3type.Constellation, signalID uint) float64 {
	switch constellation {
	case rtcm3type.GPS, rtcm3type.QZSS, rtcm3type.SBAS:
		if isL2Signal(signalID) {
			return rtcm3type.FreqL2GPS
		}
		return rtcm3type.FreqL1GPS
	case rtcm3type.Glonass:
		if isL2Signal(signalID) {
			return rtcm3type.FreqL2Glonass
		}
		return rtcm3type.FreqL1Glonass
	default:
		// Galileo, BeiDou and NavIC/IRNSS share the GPS L1 band closely
		// enough for signal IDs 2 and 3 (their primary civil bands); a
		// full per-constellation frequency plan is out of scope here.
		return rtcm3type.FreqL1GPS
	}
}

// isL2Signal reports whether an MSM signal ID falls in the conventional
// "second band" range used by the RTCM signal tables.
func isL2Signal(signalID uint) bool {
	return signalID >= 8 && signalID <= 14
}
