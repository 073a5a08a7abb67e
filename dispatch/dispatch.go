// Package dispatch is the single entry point for decoding an RTCM3
// message body.  It reads the 12-bit message number and routes to the
// legacy, station, proprietary or msm package that understands it,
// mirroring the top-level switch in the reference decoder's
// input_rtcm3 dispatcher.
package dispatch

import (
	"github.com/baselinefix/rtcm3decode/bitstream"
	"github.com/baselinefix/rtcm3decode/legacy"
	"github.com/baselinefix/rtcm3decode/msm"
	"github.com/baselinefix/rtcm3decode/proprietary"
	"github.com/baselinefix/rtcm3decode/rtcm3type"
	"github.com/baselinefix/rtcm3decode/station"
)

// Kind identifies which decoder produced a Message's payload.
type Kind int

const (
	KindUnknown Kind = iota
	KindLegacyObservation
	KindReferencePoint
	KindAntennaDescriptor
	KindUnicodeText
	KindReceiverAntenna
	KindGlonassCodePhaseBias
	KindSwiftProprietary
	KindMSM
)

// Message wraps a decoded payload together with the message number and
// the decoder that produced it.  Exactly one of the typed fields is
// populated, selected by Kind.
type Message struct {
	MessageType int
	Kind        Kind

	Legacy               *legacy.Message
	ReferencePoint       *station.ReferencePoint
	AntennaDescriptor    *station.AntennaDescriptor
	UnicodeText          *station.UnicodeText
	ReceiverAntenna      *station.ReceiverAntenna
	GlonassCodePhaseBias *station.GlonassCodePhaseBias
	Swift                *proprietary.SwiftMessage
	MSM                  *msm.Message
}

const lenMessageType = 12

// peekMessageType reads the 12-bit message number without otherwise
// interpreting the buffer.
func peekMessageType(bitStream []byte) int {
	return int(bitstream.GetUnsigned(bitStream, 0, lenMessageType))
}

// Decode routes bitStream - the RTCM3 data portion of one message, with
// no leader, length or CRC - to the decoder for its message type and
// returns the result wrapped in a Message.  It returns MessageTypeMismatch
// if the message number does not correspond to any supported message
// type.
func Decode(bitStream []byte) (*Message, rtcm3type.Result) {
	if uint(len(bitStream))*8 < lenMessageType {
		return nil, rtcm3type.InvalidMessage
	}

	messageType := peekMessageType(bitStream)

	switch messageType {
	case rtcm3type.MessageTypeGPSL1Only, rtcm3type.MessageTypeGPSL1Extended,
		rtcm3type.MessageTypeGPSL1L2, rtcm3type.MessageTypeGPSL1L2Extended,
		rtcm3type.MessageTypeGlonassL1Only, rtcm3type.MessageTypeGlonassL1Extended,
		rtcm3type.MessageTypeGlonassL1L2, rtcm3type.MessageTypeGlonassL1L2Extended:
		decoded, result := legacy.Decode(bitStream, messageType)
		if result != rtcm3type.OK {
			return nil, result
		}
		return &Message{MessageType: messageType, Kind: KindLegacyObservation, Legacy: decoded}, rtcm3type.OK

	case rtcm3type.MessageTypeStationARP, rtcm3type.MessageTypeStationARPHeight:
		decoded, result := station.DecodeReferencePoint(bitStream, messageType)
		if result != rtcm3type.OK {
			return nil, result
		}
		return &Message{MessageType: messageType, Kind: KindReferencePoint, ReferencePoint: decoded}, rtcm3type.OK

	case rtcm3type.MessageTypeAntennaDescriptor, rtcm3type.MessageTypeAntennaDescriptorSN:
		decoded, result := station.DecodeAntennaDescriptor(bitStream, messageType)
		if result != rtcm3type.OK {
			return nil, result
		}
		return &Message{MessageType: messageType, Kind: KindAntennaDescriptor, AntennaDescriptor: decoded}, rtcm3type.OK

	case rtcm3type.MessageTypeUnicodeText:
		decoded, result := station.DecodeUnicodeText(bitStream)
		if result != rtcm3type.OK {
			return nil, result
		}
		return &Message{MessageType: messageType, Kind: KindUnicodeText, UnicodeText: decoded}, rtcm3type.OK

	case rtcm3type.MessageTypeReceiverAntenna:
		decoded, result := station.DecodeReceiverAntenna(bitStream)
		if result != rtcm3type.OK {
			return nil, result
		}
		return &Message{MessageType: messageType, Kind: KindReceiverAntenna, ReceiverAntenna: decoded}, rtcm3type.OK

	case rtcm3type.MessageTypeGlonassCodePhaseBias:
		decoded, result := station.DecodeGlonassCodePhaseBias(bitStream)
		if result != rtcm3type.OK {
			return nil, result
		}
		return &Message{MessageType: messageType, Kind: KindGlonassCodePhaseBias, GlonassCodePhaseBias: decoded}, rtcm3type.OK

	case rtcm3type.MessageTypeSwiftProprietary:
		decoded, result := proprietary.Decode(bitStream)
		if result != rtcm3type.OK {
			return nil, result
		}
		return &Message{MessageType: messageType, Kind: KindSwiftProprietary, Swift: decoded}, rtcm3type.OK

	default:
		if msmType, _ := rtcm3type.ClassifyMSM(messageType); msmType != rtcm3type.MSMUnknown {
			decoded, result := msm.Decode(bitStream)
			if result != rtcm3type.OK {
				return nil, result
			}
			return &Message{MessageType: messageType, Kind: KindMSM, MSM: decoded}, rtcm3type.OK
		}
		return nil, rtcm3type.MessageTypeMismatch
	}
}
