package vm

import (
	"crypto/sha256"
	"hash"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/schnorr"
	"golang.org/x/crypto/blake2b"
)

func opSha256(vm *virtualMachine) error {
	return doHash(vm, sha256.New)
}

func opBlake2b256(vm *virtualMachine) error {
	return doHash(vm, func() hash.Hash {
		h, err := blake2b.New256(nil)
		if err != nil {
			panic(err)
		}
		return h
	})
}

func doHash(vm *virtualMachine, hashFactory func() hash.Hash) error {
	x, err := vm.pop(false)
	if err != nil {
		return err
	}
	cost := int64(len(x))
	if cost < 64 {
		cost = 64
	}
	err = vm.applyCost(cost)
	if err != nil {
		return err
	}
	h := hashFactory()
	_, err = h.Write(x)
	if err != nil {
		return err
	}
	return vm.push(h.Sum(nil), false)
}

func opCheckSig(vm *virtualMachine) error {
	err := vm.applyCost(1024)
	if err != nil {
		return err
	}
	pubkeyBytes, err := vm.pop(true)
	if err != nil {
		return err
	}
	msg, err := vm.pop(true)
	if err != nil {
		return err
	}
	sigBytes, err := vm.pop(true)
	if err != nil {
		return err
	}
	if len(msg) != 32 {
		return ErrBadValue
	}
	pubkey, err := secp256k1.ParsePubKey(pubkeyBytes)
	if err != nil {
		return vm.pushBool(false, true)
	}
	sig, err := schnorr.ParseSignature(sigBytes)
	if err != nil {
		return vm.pushBool(false, true)
	}
	return vm.pushBool(sig.Verify(msg, pubkey), true)
}
