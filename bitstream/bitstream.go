// Package bitstream extracts big-endian, MSB-first bit fields of arbitrary
// width from a byte buffer.  It mirrors RTKLIB's getbitu/getbits (and the
// goblimey rtcm decoder's GetBitsAsUint64/GetBitsAsInt64) - every RTCM3
// message is a sequence of such fields packed with no byte alignment, so
// every decoder in this module is built on these two functions.
package bitstream

// GetUnsigned extracts width bits (1-64) from buf starting at bit offset
// pos and returns them as an unsigned integer, most significant bit first.
// It does not advance pos - callers track their own cursor and add width
// to it between calls.
func GetUnsigned(buf []byte, pos uint, width uint) uint64 {
	var result uint64
	for i := pos; i < pos+width; i++ {
		byteIndex := i / 8
		shiftBy := 7 - i%8
		bit := (uint64(buf[byteIndex]) >> shiftBy) & 1
		result = (result << 1) | bit
	}
	return result
}

// GetSigned extracts width bits (1-64) from buf starting at bit offset pos,
// interprets them as two's complement and sign-extends from the high bit.
func GetSigned(buf []byte, pos uint, width uint) int64 {
	uval := GetUnsigned(buf, pos, width)
	if width == 64 {
		return int64(uval)
	}
	signBit := uint64(1) << (width - 1)
	if uval&signBit == 0 {
		return int64(uval)
	}
	// Sign-extend: fill everything above the field with ones.
	return int64(uval | ^(signBit<<1 - 1))
}

// Len is the number of bits in buf, for range checks before extraction.
func Len(buf []byte) uint {
	return uint(len(buf)) * 8
}
