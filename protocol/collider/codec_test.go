package collider

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

func TestMessage(t *testing.T) {
	got := Message(123, 3545)
	want := []byte{0x7b, 0x00, 0x00, 0x00, 0xd9, 0x0d, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	if !bytes.Equal(got, want) {
		t.Errorf("Message(123, 3545) = %x want %x", got, want)
	}
}

func TestDeriveFlowID(t *testing.T) {
	// the digest is the plain hash of the message regardless of
	// acceptance
	for _, r := range []uint64{0, 1, 77, 1 << 40} {
		_, digest, _ := DeriveFlowID(123, r, 16, 4)
		want := blake2b.Sum256(Message(123, r))
		if digest != want {
			t.Errorf("r=%d: digest %x want %x", r, digest, want)
		}
	}

	// accepted ids land in [0, 2^l); at b=8 l=4 every 16th nonce hits
	// on average
	var accepted int
	for r := uint64(0); r < 1000; r++ {
		flowID, _, err := DeriveFlowID(123, r, 8, 4)
		if err != nil {
			if errors.Cause(err) != ErrOutOfRange {
				t.Fatalf("r=%d: %s", r, err)
			}
			continue
		}
		accepted++
		if flowID >= 16 {
			t.Errorf("r=%d: flow id %d out of range", r, flowID)
		}
	}
	if accepted == 0 {
		t.Error("no nonce accepted in 1000 tries at b=8 l=4")
	}

	// l = b accepts everything
	flowID, _, err := DeriveFlowID(7, 0, 8, 8)
	if err != nil {
		t.Fatal(err)
	}
	if flowID > 0xff {
		t.Errorf("flow id %d exceeds 8 bits", flowID)
	}

	// determinism
	id1, d1, err1 := DeriveFlowID(123, 3545, 16, 4)
	id2, d2, err2 := DeriveFlowID(123, 3545, 16, 4)
	if id1 != id2 || d1 != d2 || (err1 == nil) != (err2 == nil) {
		t.Error("DeriveFlowID is not deterministic")
	}
}

func TestPrefixNibbles(t *testing.T) {
	cases := []struct {
		flowID  uint32
		b       int
		want    []byte
		wantErr bool
	}{
		{flowID: 0x0d, b: 16, want: []byte{0x0, 0xd, 0x0, 0x0}},
		{flowID: 0x3412, b: 16, want: []byte{0x1, 0x2, 0x3, 0x4}},
		{flowID: 0xab, b: 8, want: []byte{0xa, 0xb}},
		{flowID: 0xdeadbeef, b: 32, want: []byte{0xe, 0xf, 0xb, 0xe, 0xa, 0xd, 0xd, 0xe}},
		{flowID: 1, b: 0, wantErr: true},
		{flowID: 1, b: 12, wantErr: true},
		{flowID: 1, b: 40, wantErr: true},
	}

	for _, c := range cases {
		got, err := PrefixNibbles(c.flowID, c.b)
		if c.wantErr {
			if errors.Cause(err) != ErrInvalidParams {
				t.Errorf("PrefixNibbles(%#x, %d) err = %v want %v", c.flowID, c.b, err, ErrInvalidParams)
			}
			continue
		}
		if err != nil {
			t.Errorf("PrefixNibbles(%#x, %d): %s", c.flowID, c.b, err)
			continue
		}
		if !bytes.Equal(got, c.want) {
			t.Errorf("PrefixNibbles(%#x, %d) = %v want %v", c.flowID, c.b, got, c.want)
		}
	}
}

// Recombining the nibbles must reconstruct the flow id's low b bits.
func TestPrefixRoundTrip(t *testing.T) {
	for _, b := range []int{8, 16, 24, 32} {
		for _, flowID := range []uint32{0, 1, 0x0d, 0xff, 0x1234, 0xdeadbeef} {
			nibbles, err := PrefixNibbles(flowID, b)
			if err != nil {
				t.Fatal(err)
			}
			var le [4]byte
			for i := 0; i < len(nibbles); i += 2 {
				le[i/2] = nibbles[i]<<4 | nibbles[i+1]
			}
			got := binary.LittleEndian.Uint32(le[:])
			want := flowID
			if b < 32 {
				want &= 1<<uint(b) - 1
			}
			if got != want {
				t.Errorf("b=%d flowID=%#x: round trip = %#x want %#x", b, flowID, got, want)
			}
		}
	}
}

func TestParamsValidate(t *testing.T) {
	if err := DefaultParams().Validate(); err != nil {
		t.Errorf("default params invalid: %s", err)
	}

	cases := []Params{
		{Signers: 1, Operators: 1, K: 1, B: 0, L: 0},
		{Signers: 1, Operators: 1, K: 1, B: 40, L: 4},
		{Signers: 1, Operators: 1, K: 1, B: 12, L: 4},
		{Signers: 1, Operators: 1, K: 1, B: 16, L: 17},
		{Signers: 1, Operators: 1, K: 1, B: 16, L: -1},
		{Signers: 0, Operators: 1, K: 1, B: 16, L: 4},
		{Signers: 1, Operators: 0, K: 1, B: 16, L: 4},
		{Signers: 1, Operators: 1, K: 0, B: 16, L: 4},
		{Signers: 1, Operators: 1, K: 2, B: 16, L: 4},
	}
	for _, p := range cases {
		if errors.Cause(p.Validate()) != ErrInvalidParams {
			t.Errorf("Validate(%+v): expected ErrInvalidParams", p)
		}
	}
}
