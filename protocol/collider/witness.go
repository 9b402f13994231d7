package collider

import (
	"github.com/trungnotchung/collidervm-toy/protocol/vm"
	"github.com/trungnotchung/collidervm-toy/protocol/vmhash"
)

// WitnessArgs lays out the witness a compiled stage program expects:
// the 24 message nibbles (value, nonce low half, nonce high half, each
// limb most significant digit deepest) followed by the signature on
// top.
func WitnessArgs(sig []byte, x uint32, r uint64) ([][]byte, error) {
	nibbles, err := vmhash.MessageNibbles(Message(x, r), LimbWidth)
	if err != nil {
		return nil, err
	}
	args := make([][]byte, 0, len(nibbles)+1)
	for _, n := range nibbles {
		args = append(args, vm.Int64Bytes(int64(n)))
	}
	return append(args, sig), nil
}
