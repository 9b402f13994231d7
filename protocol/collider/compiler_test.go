package collider

import (
	"context"
	"crypto/sha256"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/schnorr"
	"github.com/pkg/errors"

	"github.com/trungnotchung/collidervm-toy/protocol/vm"
	"github.com/trungnotchung/collidervm-toy/protocol/vmutil"
)

type stageCase struct {
	params    Params
	x         uint32
	nonce     uint64
	flowID    uint32
	prefix    []byte
	pubkey    []byte
	challenge [32]byte
	sig       []byte
}

func newStageCase(t *testing.T, b, l int, x uint32) *stageCase {
	t.Helper()

	params := DefaultParams()
	params.B = b
	params.L = l

	res, err := FindNonce(context.Background(), params, x)
	if err != nil {
		t.Fatal(err)
	}
	prefix, err := PrefixNibbles(res.FlowID, b)
	if err != nil {
		t.Fatal(err)
	}

	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		t.Fatal(err)
	}
	challenge := sha256.Sum256(prefix)
	sig, err := schnorr.Sign(priv, challenge[:])
	if err != nil {
		t.Fatal(err)
	}

	return &stageCase{
		params:    params,
		x:         x,
		nonce:     res.Nonce,
		flowID:    res.FlowID,
		prefix:    prefix,
		pubkey:    priv.PubKey().SerializeCompressed(),
		challenge: challenge,
		sig:       sig.Serialize(),
	}
}

func (c *stageCase) verify(t *testing.T, stage Stage) (bool, error) {
	t.Helper()
	prog, err := CompileStage(stage, c.pubkey, c.challenge, c.prefix, c.params)
	if err != nil {
		t.Fatal(err)
	}
	args, err := WitnessArgs(c.sig, c.x, c.nonce)
	if err != nil {
		t.Fatal(err)
	}
	return vm.Verify(prog, args)
}

func TestF1AcceptsValidInput(t *testing.T) {
	c := newStageCase(t, 16, 4, 123) // 123 > 100
	ok, err := c.verify(t, StageF1)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("valid f1 witness rejected")
	}
}

func TestF1RejectsSmallInput(t *testing.T) {
	c := newStageCase(t, 16, 4, 100) // not > 100
	ok, _ := c.verify(t, StageF1)
	if ok {
		t.Error("f1 accepted x = 100")
	}
}

func TestF2AcceptsValidInput(t *testing.T) {
	c := newStageCase(t, 16, 4, 123) // 123 < 200
	ok, err := c.verify(t, StageF2)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("valid f2 witness rejected")
	}
}

func TestF2RejectsLargeInput(t *testing.T) {
	c := newStageCase(t, 16, 4, 200) // not < 200
	ok, _ := c.verify(t, StageF2)
	if ok {
		t.Error("f2 accepted x = 200")
	}
}

// A witness whose (x, r) hash to a different prefix must fail at the
// equality step even though the threshold passes.
func TestPrefixMismatchRejected(t *testing.T) {
	c := newStageCase(t, 16, 4, 123)

	other, err := PrefixNibbles(c.flowID^1, c.params.B)
	if err != nil {
		t.Fatal(err)
	}
	c.prefix = other
	c.challenge = sha256.Sum256(other)
	// challenge changed; the old signature would fail first
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		t.Fatal(err)
	}
	sig, err := schnorr.Sign(priv, c.challenge[:])
	if err != nil {
		t.Fatal(err)
	}
	c.pubkey = priv.PubKey().SerializeCompressed()
	c.sig = sig.Serialize()

	ok, _ := c.verify(t, StageF1)
	if ok {
		t.Error("mismatched prefix accepted")
	}
}

func TestBadSignatureRejected(t *testing.T) {
	c := newStageCase(t, 8, 2, 123)
	c.sig[10] ^= 0x01
	ok, _ := c.verify(t, StageF1)
	if ok {
		t.Error("tampered signature accepted")
	}
}

func TestSmallerPrefixWidth(t *testing.T) {
	c := newStageCase(t, 8, 2, 123)
	ok, err := c.verify(t, StageF1)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("valid witness rejected at b = 8")
	}
}

func TestCompileStageErrors(t *testing.T) {
	params := DefaultParams()
	var challenge [32]byte
	pubkey := make([]byte, 33)

	// prefix length must be B/4
	_, err := CompileStage(StageF1, pubkey, challenge, []byte{1, 2}, params)
	if errors.Cause(err) != ErrBadPrefix {
		t.Errorf("got %v want %v", err, ErrBadPrefix)
	}

	// nibbles must be in [0, 15]
	_, err = CompileStage(StageF1, pubkey, challenge, []byte{1, 2, 3, 16}, params)
	if errors.Cause(err) != ErrBadPrefix {
		t.Errorf("got %v want %v", err, ErrBadPrefix)
	}

	_, err = CompileStage(Stage(9), pubkey, challenge, []byte{1, 2, 3, 4}, params)
	if errors.Cause(err) != ErrBadStage {
		t.Errorf("got %v want %v", err, ErrBadStage)
	}

	bad := params
	bad.B = 12
	_, err = CompileStage(StageF1, pubkey, challenge, []byte{1, 2, 3}, bad)
	if errors.Cause(err) != ErrInvalidParams {
		t.Errorf("got %v want %v", err, ErrInvalidParams)
	}
}

func TestReconstructValueFragment(t *testing.T) {
	for _, x := range []uint32{0, 1, 123, 0x12345678, 0xffffffff} {
		args, err := WitnessArgs(nil, x, 0x1122334455667788)
		if err != nil {
			t.Fatal(err)
		}
		args = args[:len(args)-1] // no signature needed here

		check := vmutil.NewBuilder().
			AddInt64(int64(x)).
			AddOp(vm.OP_NUMEQUAL).
			Build()
		ok, err := vm.Verify(vmutil.Concat(reconstructValueFragment(), check), args)
		if err != nil {
			t.Fatalf("x=%d: %s", x, err)
		}
		if !ok {
			t.Errorf("x=%d: reconstructed value mismatch", x)
		}
	}
}

// Pinned vector from the nibble-encoding contract: prefix bytes
// 0x00 0x0d encode as nibbles 0, 13, 0, 0 and the check program
// accepts exactly that witness.
func TestPrefixEncoding(t *testing.T) {
	prefix := []byte{0x0, 0xd, 0x0, 0x0}
	check, err := prefixEqualFragment(prefix)
	if err != nil {
		t.Fatal(err)
	}
	prog := vmutil.Concat(check, successFragment())

	args := [][]byte{
		vm.Int64Bytes(0x0),
		vm.Int64Bytes(0xd),
		vm.Int64Bytes(0x0),
		vm.Int64Bytes(0x0),
	}
	ok, err := vm.Verify(prog, args)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("pinned prefix witness rejected")
	}

	// any reordering of a non-uniform witness must fail
	bad := [][]byte{
		vm.Int64Bytes(0xd),
		vm.Int64Bytes(0x0),
		vm.Int64Bytes(0x0),
		vm.Int64Bytes(0x0),
	}
	ok, _ = vm.Verify(prog, bad)
	if ok {
		t.Error("reordered prefix witness accepted")
	}
}
