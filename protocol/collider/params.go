// Package collider implements hash-prefix flow selection and the
// compiler that turns the routing predicate into stack-machine
// programs.
//
// An input x is routed to one of 2^L flows by searching for a nonce r
// such that the low B bits of BLAKE2b-256(LE32(x) ‖ LE64(r)) fall
// below 2^L. Each flow gets two stage programs that re-derive the
// routing condition on chain: both reconstruct x from the witness
// nibbles, check a numeric threshold, recompute the digest inside the
// machine and compare its prefix against the committed flow id.
package collider

import "github.com/pkg/errors"

var ErrInvalidParams = errors.New("invalid collider parameters")

// Params carries the committee and routing configuration. Only L and
// B shape the search and the compiled programs; the committee fields
// are configuration for the presigning layer.
type Params struct {
	Signers   int // committee size (n)
	Operators int // operator count (m)
	L         int // log2 of the accepted flow set
	B         int // hash prefix width in bits
	K         int // signature threshold (k)

	// Stage thresholds for the reference predicate pair: stage one
	// requires x > F1Threshold, stage two requires x < F2Threshold.
	F1Threshold int64
	F2Threshold int64
}

// DefaultParams returns the reference configuration: a single signer
// and operator, a 16-bit prefix routing into 16 flows, and the 100/200
// threshold pair.
func DefaultParams() Params {
	return Params{
		Signers:     1,
		Operators:   1,
		L:           4,
		B:           16,
		K:           1,
		F1Threshold: 100,
		F2Threshold: 200,
	}
}

// Validate rejects parameter sets before any search or compile work
// begins.
func (p Params) Validate() error {
	if p.B <= 0 || p.B > 32 {
		return errors.Wrapf(ErrInvalidParams, "b = %d, want 0 < b <= 32", p.B)
	}
	if p.B%8 != 0 {
		return errors.Wrapf(ErrInvalidParams, "b = %d, want a multiple of 8", p.B)
	}
	if p.L < 0 || p.L > p.B {
		return errors.Wrapf(ErrInvalidParams, "l = %d, want 0 <= l <= b = %d", p.L, p.B)
	}
	if p.Signers < 1 || p.Operators < 1 {
		return errors.Wrapf(ErrInvalidParams, "%d signers, %d operators", p.Signers, p.Operators)
	}
	if p.K < 1 || p.K > p.Signers {
		return errors.Wrapf(ErrInvalidParams, "k = %d, want 1 <= k <= %d", p.K, p.Signers)
	}
	return nil
}

// FlowCount is the size of the accepted routing set, 2^L.
func (p Params) FlowCount() uint64 {
	return 1 << uint(p.L)
}

// ExpectedAttempts is the expected number of nonce trials before one
// routes into the accepted set, 2^(B-L).
func (p Params) ExpectedAttempts() uint64 {
	return 1 << uint(p.B-p.L)
}
