package blackbox

// decodeTagged16 reads one tag byte holding four 2-bit tags, least-
// significant first. Tag 0 -> literal 0; 1 -> signed nibble; 2 -> signed
// byte; 3 -> signed 16-bit big-endian. Nibble and byte payloads share a
// nibble-aligned cursor: a nibble payload can leave the byte cursor
// unaligned, and a byte payload read while unaligned straddles two bytes
// (high nibble of one, low nibble of the next).
func decodeTagged16(data *Reader, out *[]uint32) error {
	tagByte, ok := data.ReadU8()
	if !ok {
		return errEofSentinel
	}

	// The byte-oriented reader is viewed through a nibble cursor: each new
	// byte yields its high nibble immediately and buffers its low nibble
	// for the next request. A nibble payload consumes one nibble; a byte
	// or 16-bit payload consumes 2 or 4 nibbles respectively, assembled
	// most-significant-nibble first -- which is exactly big-endian once
	// the cursor happens to be byte-aligned, and straddles two bytes when
	// it isn't.
	havePending := false
	var pendingLow byte

	nextNibble := func() (byte, error) {
		if havePending {
			havePending = false
			return pendingLow, nil
		}
		b, ok := data.ReadU8()
		if !ok {
			return 0, errEofSentinel
		}
		pendingLow = b & 0x0F
		havePending = true
		return b >> 4, nil
	}

	readNibbles := func(n int) (uint32, error) {
		var v uint32
		for i := 0; i < n; i++ {
			nib, err := nextNibble()
			if err != nil {
				return 0, err
			}
			v = v<<4 | uint32(nib)
		}
		return v, nil
	}

	for i := 0; i < 4; i++ {
		tag := (tagByte >> (uint(i) * 2)) & 0x3
		switch tag {
		case 0:
			*out = append(*out, 0)
		case 1:
			v, err := readNibbles(1)
			if err != nil {
				return err
			}
			*out = append(*out, uint32(signExtend(v, 4)))
		case 2:
			v, err := readNibbles(2)
			if err != nil {
				return err
			}
			*out = append(*out, uint32(signExtend(v, 8)))
		case 3:
			v, err := readNibbles(4)
			if err != nil {
				return err
			}
			*out = append(*out, uint32(signExtend(v, 16)))
		}
	}
	return nil
}

// decodeTagged32 reads one header byte whose top 2 bits select a packed
// layout for three fields.
func decodeTagged32(data *Reader, out *[]uint32) error {
	header, ok := data.ReadU8()
	if !ok {
		return errEofSentinel
	}

	switch header >> 6 {
	case 0: // three signed 2-bit fields packed in the low 6 bits
		f0 := (header >> 4) & 0x3
		f1 := (header >> 2) & 0x3
		f2 := header & 0x3
		*out = append(*out,
			uint32(signExtend(uint32(f0), 2)),
			uint32(signExtend(uint32(f1), 2)),
			uint32(signExtend(uint32(f2), 2)))
		return nil

	case 1: // three signed 4-bit fields: low nibble of header, then a byte
		f0 := header & 0x0F
		b, ok := data.ReadU8()
		if !ok {
			return errEofSentinel
		}
		f1 := b >> 4
		f2 := b & 0x0F
		*out = append(*out,
			uint32(signExtend(uint32(f0), 4)),
			uint32(signExtend(uint32(f1), 4)),
			uint32(signExtend(uint32(f2), 4)))
		return nil

	case 2: // three signed 6-bit fields: the header's own low 6 bits are
		// field 0, then one subsequent byte each for fields 1 and 2
		*out = append(*out, uint32(signExtend(uint32(header&0x3F), 6)))
		for i := 0; i < 2; i++ {
			b, ok := data.ReadU8()
			if !ok {
				return errEofSentinel
			}
			*out = append(*out, uint32(signExtend(uint32(b&0x3F), 6)))
		}
		return nil

	default: // 3: the low 6 bits are three independent 2-bit width tags,
		// field 0 in the lowest 2 bits
		w0 := header & 0x3
		w1 := (header >> 2) & 0x3
		w2 := (header >> 4) & 0x3
		for _, w := range [3]byte{w0, w1, w2} {
			v, err := readTagged32Field(data, w)
			if err != nil {
				return err
			}
			*out = append(*out, v)
		}
		return nil
	}
}

// readTagged32Field reads one field of tag-3 layout: width selects signed
// 8/16/24/32-bit, little-endian for anything wider than a byte.
func readTagged32Field(data *Reader, width byte) (uint32, error) {
	switch width {
	case 0:
		b, ok := data.ReadU8()
		if !ok {
			return 0, errEofSentinel
		}
		return uint32(signExtend(uint32(b), 8)), nil
	case 1:
		v, ok := data.ReadU16()
		if !ok {
			return 0, errEofSentinel
		}
		return uint32(signExtend(uint32(v), 16)), nil
	case 2:
		v, ok := data.ReadU24()
		if !ok {
			return 0, errEofSentinel
		}
		return uint32(signExtend(v, 24)), nil
	default:
		v, ok := data.ReadU32()
		if !ok {
			return 0, errEofSentinel
		}
		return v, nil
	}
}

// decodeTaggedVariable packs up to 8 fields, each either a literal 0 or one
// VariableSigned value, selected by a single tag byte (one bit per slot).
// With extra==0 there is no tag byte: the lone value is just a
// VariableSigned. The codec always computes a fixed 8-slot result (slots
// at and beyond extra+1 are zero padding) and appends only the first
// extra+1, so that, as with every codec run through decodeInto, a uniform
// extra+1 values reach the running output, matching the field kernel's
// bookkeeping.
func decodeTaggedVariable(data *Reader, extra int, out *[]uint32) error {
	var values [8]uint32

	if extra == 0 {
		v, err := decodeVariableSigned(data)
		if err != nil {
			return err
		}
		values[0] = uint32(v)
		*out = append(*out, values[0])
		return nil
	}

	tag, ok := data.ReadU8()
	if !ok {
		return errEofSentinel
	}

	count := extra + 1
	for i := 0; i < count; i++ {
		if tag&1 == 1 {
			v, err := decodeVariableSigned(data)
			if err != nil {
				return err
			}
			values[i] = uint32(v)
		}
		tag >>= 1
	}

	if tag != 0 {
		return errRetrySentinel
	}

	*out = append(*out, values[:count]...)
	return nil
}
