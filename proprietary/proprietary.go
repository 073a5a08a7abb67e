// Package proprietary decodes the Swift Navigation vendor envelope, message
// 4062.  It carries an opaque proprietary payload behind a small fixed
// header; the header layout is grounded on the reference decoder's
// handling of the Swift message family, which rejects any message whose
// reserved nibble is non-zero rather than silently ignoring it.
package proprietary

import (
	"github.com/baselinefix/rtcm3decode/bitstream"
	"github.com/baselinefix/rtcm3decode/rtcm3type"
)

const (
	lenMessageType = 12
	lenReserved    = 4
	lenSwiftMsgType = 16
	lenSenderID    = 16
	lenPayloadLen  = 8
)

// SwiftMessage is the decoded envelope of message 4062.  Payload is the
// opaque vendor-specific body; this package does not interpret it.
type SwiftMessage struct {
	SenderID uint
	MsgType  uint
	Payload  []byte
}

// Decode decodes message 4062 from bitStream, which must hold exactly the
// RTCM3 data portion.  A non-zero reserved nibble is a content invariant
// violation and yields InvalidMessage.
func Decode(bitStream []byte) (*SwiftMessage, rtcm3type.Result) {
	var pos uint = 0
	messageType := int(bitstream.GetUnsigned(bitStream, pos, lenMessageType))
	pos += lenMessageType
	if messageType != rtcm3type.MessageTypeSwiftProprietary {
		return nil, rtcm3type.MessageTypeMismatch
	}

	reserved := bitstream.GetUnsigned(bitStream, pos, lenReserved)
	pos += lenReserved
	if reserved != 0 {
		return nil, rtcm3type.InvalidMessage
	}

	msg := &SwiftMessage{}
	msg.MsgType = uint(bitstream.GetUnsigned(bitStream, pos, lenSwiftMsgType))
	pos += lenSwiftMsgType

	msg.SenderID = uint(bitstream.GetUnsigned(bitStream, pos, lenSenderID))
	pos += lenSenderID

	length := uint(bitstream.GetUnsigned(bitStream, pos, lenPayloadLen))
	pos += lenPayloadLen

	msg.Payload = make([]byte, length)
	for i := uint(0); i < length; i++ {
		msg.Payload[i] = byte(bitstream.GetUnsigned(bitStream, pos, 8))
		pos += 8
	}

	return msg, rtcm3type.OK
}
