package collider

import (
	"github.com/pkg/errors"

	"github.com/trungnotchung/collidervm-toy/protocol/vm"
	"github.com/trungnotchung/collidervm-toy/protocol/vmhash"
	"github.com/trungnotchung/collidervm-toy/protocol/vmutil"
)

// Stage selects which threshold predicate a compiled program
// enforces.
type Stage int

const (
	// StageF1 requires the reconstructed value to exceed F1Threshold.
	StageF1 Stage = iota + 1
	// StageF2 requires the reconstructed value to fall below
	// F2Threshold.
	StageF2
)

func (s Stage) String() string {
	switch s {
	case StageF1:
		return "f1"
	case StageF2:
		return "f2"
	}
	return "unknown"
}

var (
	ErrBadStage  = errors.New("unknown stage")
	ErrBadPrefix = errors.New("bad prefix nibbles")
)

// checkSigFragment pushes the precomputed challenge digest and the
// signer key and verifies the witness signature on top of the stack.
func checkSigFragment(signerPubKey []byte, challenge [32]byte) []byte {
	return vmutil.NewBuilder().
		AddData(challenge[:]).
		AddData(signerPubKey).
		AddOp(vm.OP_CHECKSIG).
		AddOp(vm.OP_VERIFY).
		Build()
}

// reconstructValueFragment rebuilds the 32-bit value from the eight
// witness nibbles at the bottom of the stack, accumulating
// acc = acc*16 + nibble on the altstack. The machine has no multiply,
// so *16 is four doublings; the nibbles are addressed depth-relative
// and left in place for the hash fragment.
func reconstructValueFragment() []byte {
	b := vmutil.NewBuilder().
		AddInt64(0).
		AddOp(vm.OP_TOALTSTACK)

	for i := 0; i < 8; i++ {
		b.AddOp(vm.OP_DEPTH).
			AddOp(vm.OP_1SUB).
			AddInt64(int64(i)).
			AddOp(vm.OP_SUB).
			AddOp(vm.OP_PICK).
			AddOp(vm.OP_FROMALTSTACK)
		for j := 0; j < 4; j++ {
			b.AddOp(vm.OP_DUP).AddOp(vm.OP_ADD)
		}
		b.AddOp(vm.OP_SWAP).
			AddOp(vm.OP_ADD).
			AddOp(vm.OP_TOALTSTACK)
	}
	return b.AddOp(vm.OP_FROMALTSTACK).Build()
}

// greaterThanFragment consumes the reconstructed value, failing
// unless it is strictly greater than the threshold.
func greaterThanFragment(threshold int64) []byte {
	return vmutil.NewBuilder().
		AddInt64(threshold).
		AddOp(vm.OP_GREATERTHAN).
		AddOp(vm.OP_VERIFY).
		Build()
}

// lessThanFragment is the strict upper-bound counterpart.
func lessThanFragment(threshold int64) []byte {
	return vmutil.NewBuilder().
		AddInt64(threshold).
		AddOp(vm.OP_LESSTHAN).
		AddOp(vm.OP_VERIFY).
		Build()
}

// prefixEqualFragment asserts the remaining digest nibbles equal the
// expected prefix. The expected sequence is defined first byte first,
// but the machine pops last pushed first, so the checks are emitted
// in reverse.
func prefixEqualFragment(prefix []byte) ([]byte, error) {
	b := vmutil.NewBuilder()
	for i := len(prefix) - 1; i >= 0; i-- {
		if prefix[i] > 0x0f {
			return nil, errors.Wrapf(ErrBadPrefix, "nibble %d = %#x", i, prefix[i])
		}
		b.AddInt64(int64(prefix[i]))
		b.AddOp(vm.OP_EQUALVERIFY)
	}
	return b.Build(), nil
}

// successFragment leaves the accepting value.
func successFragment() []byte {
	return vmutil.NewBuilder().AddOp(vm.OP_TRUE).Build()
}

// CompileStage produces the locking program for one (flow, stage)
// pair. The fragments compose by concatenation and each assumes the
// stack state the previous one leaves:
//
//	witness: value nibbles, nonce-low nibbles, nonce-high nibbles, sig
//	1. signature check (consumes sig)
//	2. value reconstruction (copies the first 8 nibbles into x)
//	3. stage threshold (consumes x)
//	4. hash sub-program (consumes all 24 nibbles, leaves 64 digest nibbles)
//	5. discard down to the committed B/4 nibbles
//	6. prefix equality
//	7. success marker
//
// Any assertion failure rejects the whole program; there is no
// partial acceptance.
func CompileStage(stage Stage, signerPubKey []byte, challenge [32]byte, prefix []byte, params Params) ([]byte, error) {
	err := params.Validate()
	if err != nil {
		return nil, err
	}
	if len(prefix) != params.B/4 {
		return nil, errors.Wrapf(ErrBadPrefix, "%d nibbles, want %d for b = %d", len(prefix), params.B/4, params.B)
	}

	var threshold []byte
	switch stage {
	case StageF1:
		threshold = greaterThanFragment(params.F1Threshold)
	case StageF2:
		threshold = lessThanFragment(params.F2Threshold)
	default:
		return nil, errors.Wrapf(ErrBadStage, "%d", stage)
	}

	compute, err := vmhash.ComputeProgram(MessageLen, LimbWidth)
	if err != nil {
		return nil, err
	}
	prefixCheck, err := prefixEqualFragment(prefix)
	if err != nil {
		return nil, err
	}

	return vmutil.Concat(
		checkSigFragment(signerPubKey, challenge),
		reconstructValueFragment(),
		threshold,
		compute,
		vmhash.DropNibblesProgram(vmhash.DigestNibbles-len(prefix)),
		prefixCheck,
		successFragment(),
	), nil
}
