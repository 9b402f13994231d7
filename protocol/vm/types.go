package vm

import "encoding/binary"

// BoolBytes encodes a boolean as a stack item: true is {1}, false is
// the empty string.
func BoolBytes(b bool) []byte {
	if b {
		return []byte{1}
	}
	return []byte{}
}

// AsBool interprets a stack item as a boolean: anything with a
// nonzero byte is true.
func AsBool(bytes []byte) bool {
	for _, b := range bytes {
		if b != 0 {
			return true
		}
	}
	return false
}

// Int64Bytes encodes n as a stack item: little-endian bytes with
// trailing zeros trimmed, so that zero is the empty string. Negative
// numbers occupy the full eight bytes.
func Int64Bytes(n int64) []byte {
	if n == 0 {
		return []byte{}
	}
	res := make([]byte, 8)
	binary.LittleEndian.PutUint64(res, uint64(n))
	if n > 0 {
		for len(res) > 0 && res[len(res)-1] == 0 {
			res = res[:len(res)-1]
		}
	}
	return res
}

// AsInt64 interprets a stack item as a number, zero-extending items
// shorter than eight bytes. Items longer than eight bytes are not
// valid numbers.
func AsInt64(b []byte) (int64, error) {
	if len(b) == 0 {
		return 0, nil
	}
	if len(b) > 8 {
		return 0, ErrBadValue
	}

	var padded [8]byte
	copy(padded[:], b)

	res := binary.LittleEndian.Uint64(padded[:])
	return int64(res), nil
}
