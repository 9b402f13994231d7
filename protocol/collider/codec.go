package collider

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

// The digest preimage is LE32(x) followed by LE64(r), hashed with
// 4-byte limbs inside the machine. Changing either constant requires
// re-deriving the witness nibble layout and the discard count in the
// compiler.
const (
	MessageLen = 12
	LimbWidth  = 4
)

// ErrOutOfRange reports a candidate nonce whose derived flow id falls
// outside the accepted set. The selector treats it as a rejected
// nonce, not a failure.
var ErrOutOfRange = errors.New("flow id out of range")

// Message is the digest preimage for a candidate pair.
func Message(x uint32, r uint64) []byte {
	msg := make([]byte, MessageLen)
	binary.LittleEndian.PutUint32(msg[0:4], x)
	binary.LittleEndian.PutUint64(msg[4:12], r)
	return msg
}

// DeriveFlowID hashes (x, r) and interprets the low b bits of the
// digest's first four little-endian bytes as a flow id. The pair is
// accepted iff the id lands below 2^l.
func DeriveFlowID(x uint32, r uint64, b, l int) (uint32, [32]byte, error) {
	digest := blake2b.Sum256(Message(x, r))

	candidate := binary.LittleEndian.Uint32(digest[0:4])
	if b < 32 {
		candidate &= 1<<uint(b) - 1
	}

	if uint64(candidate) >= 1<<uint(l) {
		return 0, digest, errors.Wrapf(ErrOutOfRange, "prefix %d >= %d", candidate, uint64(1)<<uint(l))
	}
	return candidate, digest, nil
}

// PrefixNibbles encodes a flow id as the nibble sequence the compiled
// prefix check expects: the low b/8 little-endian bytes of the id,
// each split high nibble first.
func PrefixNibbles(flowID uint32, b int) ([]byte, error) {
	if b <= 0 || b > 32 || b%8 != 0 {
		return nil, errors.Wrapf(ErrInvalidParams, "b = %d", b)
	}
	var le [4]byte
	binary.LittleEndian.PutUint32(le[:], flowID)

	nibbles := make([]byte, 0, b/4)
	for _, by := range le[:b/8] {
		nibbles = append(nibbles, by>>4, by&0x0f)
	}
	return nibbles, nil
}
