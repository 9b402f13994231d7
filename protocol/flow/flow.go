// Package flow builds presigned flows: for every flow id in the
// accepted set and both verification stages, the compiled stage
// program together with the challenge message the signing committee
// commits to and each signer's signature over it. Aggregating the
// committee signatures into a single spendable one is the transaction
// layer's concern.
package flow

import (
	"encoding/binary"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/schnorr"
	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"

	"github.com/trungnotchung/collidervm-toy/protocol/collider"
)

var ErrSignerCount = errors.New("signer count does not match parameters")

// SignerInfo is one member of the signing committee.
type SignerInfo struct {
	ID      int
	PrivKey *secp256k1.PrivateKey
	PubKey  []byte // compressed
}

// NewSigner generates a fresh committee key.
func NewSigner(id int) (*SignerInfo, error) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, errors.Wrap(err, "generating signer key")
	}
	return &SignerInfo{
		ID:      id,
		PrivKey: priv,
		PubKey:  priv.PubKey().SerializeCompressed(),
	}, nil
}

// Sign produces the signer's schnorr signature over a challenge.
func (s *SignerInfo) Sign(challenge [32]byte) ([]byte, error) {
	sig, err := schnorr.Sign(s.PrivKey, challenge[:])
	if err != nil {
		return nil, errors.Wrapf(err, "signer %d", s.ID)
	}
	return sig.Serialize(), nil
}

// OperatorInfo identifies an operator, the party that later searches
// for a routing nonce and executes a flow.
type OperatorInfo struct {
	ID      int
	PrivKey *secp256k1.PrivateKey
	PubKey  []byte
}

// NewOperator generates a fresh operator key.
func NewOperator(id int) (*OperatorInfo, error) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, errors.Wrap(err, "generating operator key")
	}
	return &OperatorInfo{
		ID:      id,
		PrivKey: priv,
		PubKey:  priv.PubKey().SerializeCompressed(),
	}, nil
}

const challengeTag = "collidervm/step/v1"

// ChallengeMessage is the digest a stage program's signature check
// commits to. It binds the flow id, the stage and the routing prefix,
// so a signature for one step cannot unlock another.
func ChallengeMessage(flowID uint32, stage collider.Stage, prefix []byte) [32]byte {
	h := sha3.New256()
	h.Write([]byte(challengeTag))

	var buf [5]byte
	binary.LittleEndian.PutUint32(buf[0:4], flowID)
	buf[4] = byte(stage)
	h.Write(buf[:])
	h.Write(prefix)

	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// PresignedStep is one stage of one flow, ready for the transaction
// layer.
type PresignedStep struct {
	Stage     collider.Stage
	Program   []byte
	Challenge [32]byte
	Sigs      map[int][]byte // signer id -> signature
}

// PresignedFlow bundles both steps of a flow.
type PresignedFlow struct {
	FlowID uint32
	Steps  []PresignedStep
}

// BuildPresignedFlows compiles both stage programs for every flow in
// the accepted set, locked on the first signer's key, and collects
// every signer's signature over each step's challenge.
func BuildPresignedFlows(params collider.Params, signers []*SignerInfo) ([]*PresignedFlow, error) {
	err := params.Validate()
	if err != nil {
		return nil, err
	}
	if len(signers) != params.Signers {
		return nil, errors.Wrapf(ErrSignerCount, "%d signers, params want %d", len(signers), params.Signers)
	}

	flows := make([]*PresignedFlow, 0, params.FlowCount())
	for flowID := uint64(0); flowID < params.FlowCount(); flowID++ {
		prefix, err := collider.PrefixNibbles(uint32(flowID), params.B)
		if err != nil {
			return nil, err
		}

		f := &PresignedFlow{FlowID: uint32(flowID)}
		for _, stage := range []collider.Stage{collider.StageF1, collider.StageF2} {
			challenge := ChallengeMessage(f.FlowID, stage, prefix)
			prog, err := collider.CompileStage(stage, signers[0].PubKey, challenge, prefix, params)
			if err != nil {
				return nil, err
			}

			step := PresignedStep{
				Stage:     stage,
				Program:   prog,
				Challenge: challenge,
				Sigs:      make(map[int][]byte, len(signers)),
			}
			for _, s := range signers {
				sig, err := s.Sign(challenge)
				if err != nil {
					return nil, err
				}
				step.Sigs[s.ID] = sig
			}
			f.Steps = append(f.Steps, step)
		}
		flows = append(flows, f)
	}
	return flows, nil
}
