package blackbox

// Encoding identifies one of the wire codecs used to pack one or more raw
// field values. The discriminants match the firmware's own numbering so
// that header "Field <K> encoding" tokens parse directly into this type.
type Encoding int

const (
	EncodingVariableSigned Encoding = 0
	EncodingVariable       Encoding = 1
	EncodingNegative14Bit  Encoding = 3
	EncodingTaggedVariable Encoding = 6
	EncodingTagged32       Encoding = 7
	EncodingTagged16       Encoding = 8
	EncodingNull           Encoding = 9
)

func (e Encoding) String() string {
	switch e {
	case EncodingVariableSigned:
		return "VariableSigned"
	case EncodingVariable:
		return "Variable"
	case EncodingNegative14Bit:
		return "Negative14Bit"
	case EncodingTaggedVariable:
		return "TaggedVariable"
	case EncodingTagged32:
		return "Tagged32"
	case EncodingTagged16:
		return "Tagged16"
	case EncodingNull:
		return "Null"
	default:
		return "Unknown"
	}
}

// encodingFromToken parses one header token (a small decimal integer) into
// an Encoding, rejecting anything not in the known set.
func encodingFromToken(tok string) (Encoding, error) {
	n, err := parseSmallUint(tok)
	if err != nil {
		return 0, err
	}
	switch Encoding(n) {
	case EncodingVariableSigned, EncodingVariable, EncodingNegative14Bit,
		EncodingTaggedVariable, EncodingTagged32, EncodingTagged16, EncodingNull:
		return Encoding(n), nil
	default:
		return 0, &internalError{kind: errRetry}
	}
}

// IsSigned reports whether this codec's values should be read as two's
// complement at the predictor/consumer boundary.
func (e Encoding) IsSigned() bool {
	switch e {
	case EncodingVariableSigned, EncodingNegative14Bit, EncodingTaggedVariable,
		EncodingTagged32, EncodingTagged16:
		return true
	default:
		return false
	}
}

// MaxChunkSize is the number of consecutive same-encoding fields one
// invocation of this codec can satisfy.
func (e Encoding) MaxChunkSize() int {
	switch e {
	case EncodingTaggedVariable:
		return 8
	case EncodingTagged32:
		return 3
	case EncodingTagged16:
		return 4
	default:
		return 1
	}
}

// decodeInto runs the codec for e, consuming bytes from data and appending
// exactly extra+1 raw u32 values to out. extra is the 0-based count of
// successor fields sharing this encoding that were pre-peeled by the
// caller; it is always < MaxChunkSize().
func (e Encoding) decodeInto(data *Reader, extra int, out *[]uint32) error {
	switch e {
	case EncodingVariableSigned:
		v, err := decodeVariableSigned(data)
		if err != nil {
			return err
		}
		*out = append(*out, uint32(v))
		return nil

	case EncodingVariable:
		v, err := decodeVariable(data)
		if err != nil {
			return err
		}
		*out = append(*out, v)
		return nil

	case EncodingNegative14Bit:
		v, err := decodeVariable(data)
		if err != nil {
			return err
		}
		// Negate, then keep only the low 14 bits' worth of signed range,
		// reinterpreted bit-preservingly as u32.
		neg := signExtend(uint32(-int32(v)), 14)
		*out = append(*out, uint32(neg))
		return nil

	case EncodingTaggedVariable:
		return decodeTaggedVariable(data, extra, out)

	case EncodingTagged32, EncodingTagged16:
		// Both codecs always produce a full block (3 or 4 values); only
		// the first extra+1 belong to fields of this frame.
		var block []uint32
		var err error
		if e == EncodingTagged32 {
			err = decodeTagged32(data, &block)
		} else {
			err = decodeTagged16(data, &block)
		}
		if err != nil {
			return err
		}
		*out = append(*out, block[:extra+1]...)
		return nil

	case EncodingNull:
		*out = append(*out, 0)
		return nil

	default:
		return &internalError{kind: errRetry}
	}
}

// decodeVariable reads an unsigned LEB128-style varint: 7 bits per byte,
// little-endian, MSB=1 continues. Rejects runs that would overflow 32 bits
// without terminating.
func decodeVariable(data *Reader) (uint32, error) {
	var uvar uint32
	var offset uint32
	for {
		b, ok := data.ReadU8()
		if !ok {
			return 0, errEofSentinel
		}
		isLast := b&0x80 == 0
		chunk := uint32(b &^ 0x80)
		uvar |= chunk << offset
		offset += 7

		if !isLast && offset >= 32 {
			return 0, errRetrySentinel
		}
		if isLast {
			break
		}
	}
	return uvar, nil
}

func decodeVariableSigned(data *Reader) (int32, error) {
	v, err := decodeVariable(data)
	if err != nil {
		return 0, err
	}
	return zigZagDecode(v), nil
}

// zigZagDecode maps an unsigned value back to a signed one such that small
// magnitudes of either sign stay small on the wire: (v>>1) ^ -(v&1).
func zigZagDecode(v uint32) int32 {
	return int32(v>>1) ^ -int32(v&1)
}

// zigZagEncode is the inverse of zigZagDecode; kept for round-trip tests
// and for any future encoder.
func zigZagEncode(v int32) uint32 {
	return (uint32(v) << 1) ^ uint32(v>>31)
}

// signExtend sign-extends the low `bits` bits of v (an N-bit two's
// complement integer held in the low bits of a uint32) to a full int32.
func signExtend(v uint32, bits uint) int32 {
	shift := 32 - bits
	return int32(v<<shift) >> shift
}
