// Package vmhash generates program fragments that hash a witness
// message inside the stack machine.
//
// The witness supplies the message as nibbles, limb by limb: each limb
// is pushed as 2*limbWidth items with the most significant digit
// deepest. ComputeProgram reassembles the bytes, hashes them with
// BLAKE2B256 and leaves the digest back on the stack as 64 nibbles
// (byte 0's high nibble deepest), so later fragments can compare or
// discard digest digits individually.
package vmhash

import (
	"github.com/pkg/errors"

	"github.com/trungnotchung/collidervm-toy/protocol/vm"
	"github.com/trungnotchung/collidervm-toy/protocol/vmutil"
)

// DigestNibbles is the number of stack items ComputeProgram leaves
// behind: two per byte of a BLAKE2b-256 digest.
const DigestNibbles = 64

var ErrBadMessage = errors.New("message length is not a positive multiple of the limb width")

// MessageNibbles splits msg into the witness nibble sequence, in push
// order (first nibble ends up deepest on the stack).
func MessageNibbles(msg []byte, limbWidth int) ([]byte, error) {
	if limbWidth <= 0 || len(msg) == 0 || len(msg)%limbWidth != 0 {
		return nil, errors.Wrapf(ErrBadMessage, "len %d, limb width %d", len(msg), limbWidth)
	}
	nibbles := make([]byte, 0, 2*len(msg))
	for q := 0; q*limbWidth < len(msg); q++ {
		limb := msg[q*limbWidth : (q+1)*limbWidth]
		for j := limbWidth - 1; j >= 0; j-- {
			nibbles = append(nibbles, limb[j]>>4, limb[j]&0x0f)
		}
	}
	return nibbles, nil
}

// PushMessageProgram is the witness-side fragment: it pushes msg as
// nibbles in the order ComputeProgram expects.
func PushMessageProgram(msg []byte, limbWidth int) ([]byte, error) {
	nibbles, err := MessageNibbles(msg, limbWidth)
	if err != nil {
		return nil, err
	}
	b := vmutil.NewBuilder()
	for _, n := range nibbles {
		b.AddInt64(int64(n))
	}
	return b.Build(), nil
}

// pickFromBottom copies the item idx positions above the stack bottom,
// whatever the current depth.
func pickFromBottom(b *vmutil.Builder, idx int64) {
	b.AddOp(vm.OP_DEPTH).
		AddOp(vm.OP_1SUB).
		AddInt64(idx).
		AddOp(vm.OP_SUB).
		AddOp(vm.OP_PICK)
}

// ComputeProgram builds the fragment that consumes 2*msgLen witness
// nibbles and replaces them with the 64 nibbles of the message's
// BLAKE2b-256 digest. It assumes the witness nibbles are the only
// items on the stack when it starts.
func ComputeProgram(msgLen, limbWidth int) ([]byte, error) {
	if limbWidth <= 0 || msgLen <= 0 || msgLen%limbWidth != 0 {
		return nil, errors.Wrapf(ErrBadMessage, "len %d, limb width %d", msgLen, limbWidth)
	}
	b := vmutil.NewBuilder()

	// Reassemble the message, byte by byte. The accumulating string
	// lives on the altstack so the depth-relative fetches see only the
	// witness nibbles plus at most one transient item.
	for k := 0; k < msgLen; k++ {
		q, j := k/limbWidth, k%limbWidth
		hiIdx := 2*limbWidth*q + 2*(limbWidth-1-j)

		pickFromBottom(b, int64(hiIdx))
		for i := 0; i < 4; i++ {
			b.AddOp(vm.OP_DUP).AddOp(vm.OP_ADD)
		}
		pickFromBottom(b, int64(hiIdx+1))
		b.AddOp(vm.OP_ADD)

		// 16*hi+lo is a number; adding 256 and keeping the low byte
		// turns it into a one-byte string even when the byte is zero.
		b.AddInt64(256).AddOp(vm.OP_ADD)
		b.AddInt64(1).AddOp(vm.OP_LEFT)

		if k == 0 {
			b.AddOp(vm.OP_TOALTSTACK)
		} else {
			b.AddOp(vm.OP_FROMALTSTACK).
				AddOp(vm.OP_SWAP).
				AddOp(vm.OP_CAT).
				AddOp(vm.OP_TOALTSTACK)
		}
	}
	b.AddOp(vm.OP_FROMALTSTACK)
	b.AddOp(vm.OP_BLAKE2B256)

	// The witness nibbles are spent: park the digest and clear them.
	b.AddOp(vm.OP_TOALTSTACK)
	for i := 0; i < msgLen; i++ {
		b.AddOp(vm.OP_2DROP)
	}
	b.AddOp(vm.OP_FROMALTSTACK)

	// Explode the digest. Working from byte 31 down to byte 0 and
	// parking low nibble then high nibble on the altstack means the
	// final unload leaves byte 0's high nibble deepest.
	for i := 31; i >= 0; i-- {
		b.AddOp(vm.OP_DUP).AddInt64(int64(i)).AddInt64(1).AddOp(vm.OP_SUBSTR)
		b.AddOp(vm.OP_DUP)
		for n := 0; n < 4; n++ {
			b.AddOp(vm.OP_2DIV)
		}
		b.AddOp(vm.OP_DUP)
		for n := 0; n < 4; n++ {
			b.AddOp(vm.OP_DUP).AddOp(vm.OP_ADD)
		}
		// stack: digest byte hi hi*16 -> digest hi lo
		b.AddOp(vm.OP_ROT).AddOp(vm.OP_SWAP).AddOp(vm.OP_SUB)
		b.AddOp(vm.OP_TOALTSTACK).AddOp(vm.OP_TOALTSTACK)
	}
	b.AddOp(vm.OP_DROP)
	for i := 0; i < DigestNibbles; i++ {
		b.AddOp(vm.OP_FROMALTSTACK)
	}
	return b.Build(), nil
}

// DropNibblesProgram discards the top n digest nibbles.
func DropNibblesProgram(n int) []byte {
	b := vmutil.NewBuilder()
	for i := 0; i < n; i++ {
		b.AddOp(vm.OP_DROP)
	}
	return b.Build()
}

// VerifyOutputProgram consumes all 64 digest nibbles, asserting they
// match the given digest, and leaves TRUE on success.
func VerifyOutputProgram(digest [32]byte) []byte {
	nibbles := make([]byte, 0, DigestNibbles)
	for _, by := range digest {
		nibbles = append(nibbles, by>>4, by&0x0f)
	}
	b := vmutil.NewBuilder()
	for i := len(nibbles) - 1; i >= 0; i-- {
		b.AddInt64(int64(nibbles[i]))
		b.AddOp(vm.OP_EQUALVERIFY)
	}
	b.AddOp(vm.OP_TRUE)
	return b.Build()
}
