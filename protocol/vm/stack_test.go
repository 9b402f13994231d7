package vm

import "testing"

func TestStackOps(t *testing.T) {
	cases := []struct {
		prog    string
		want    bool
		wantErr error
	}{
		{prog: "1 2 TOALTSTACK 1 NUMEQUAL", want: true},
		{prog: "1 TOALTSTACK FROMALTSTACK 1 NUMEQUAL", want: true},
		{prog: "FROMALTSTACK", wantErr: ErrAltStackUnderflow},
		{prog: "TOALTSTACK TRUE", wantErr: ErrDataStackUnderflow},
		{prog: "1 2 2DROP DEPTH 0 NUMEQUAL", want: true},
		{prog: "1 2DROP", wantErr: ErrDataStackUnderflow},
		{prog: "1 2 2DUP DEPTH 4 NUMEQUAL", want: true},
		{prog: "1 2 2DUP DROP 1 NUMEQUAL", want: true},
		{prog: "1 2 3 3DUP DEPTH 6 NUMEQUAL", want: true},
		{prog: "1 2 3 4 2OVER 2 NUMEQUAL", want: true},
		{prog: "1 2 3 2OVER", wantErr: ErrDataStackUnderflow},
		{prog: "1 2 3 4 5 6 2ROT 2 NUMEQUAL", want: true},
		{prog: "1 2 3 4 5 2ROT", wantErr: ErrDataStackUnderflow},
		{prog: "1 2 3 4 2SWAP 2 NUMEQUAL", want: true},
		{prog: "1 IFDUP DEPTH 2 NUMEQUAL", want: true},
		{prog: "0 IFDUP DEPTH 1 NUMEQUAL", want: true},
		{prog: "DEPTH 0 NUMEQUAL", want: true},
		{prog: "1 2 DROP 1 NUMEQUAL", want: true},
		{prog: "1 DUP NUMEQUAL", want: true},
		{prog: "1 2 NIP DEPTH 1 NUMEQUAL", want: true},
		{prog: "1 2 NIP 2 NUMEQUAL", want: true},
		{prog: "1 2 OVER 1 NUMEQUAL", want: true},
		{prog: "5 6 7 2 PICK 5 NUMEQUAL", want: true},
		{prog: "5 6 7 0 PICK 7 NUMEQUAL", want: true},
		{prog: "5 6 7 2 PICK DEPTH 4 NUMEQUAL", want: true},
		{prog: "5 -1 PICK", wantErr: ErrBadValue},
		{prog: "5 1 PICK", wantErr: ErrDataStackUnderflow},
		{prog: "5 6 7 2 ROLL 5 NUMEQUAL", want: true},
		{prog: "5 6 7 2 ROLL DEPTH 3 NUMEQUAL", want: true},
		{prog: "5 -1 ROLL", wantErr: ErrBadValue},
		{prog: "5 6 1 ROLL 5 NUMEQUAL", want: true},
		{prog: "1 2 3 ROT 1 NUMEQUAL", want: true},
		{prog: "1 2 ROT", wantErr: ErrDataStackUnderflow},
		{prog: "1 2 SWAP 1 NUMEQUAL", want: true},
		{prog: "1 SWAP", wantErr: ErrDataStackUnderflow},
		{prog: "1 2 TUCK 2 NUMEQUAL", want: true},
		{prog: "1 2 TUCK DEPTH 3 NUMEQUAL", want: true},
		{prog: "1 TUCK", wantErr: ErrDataStackUnderflow},
	}

	for _, c := range cases {
		prog := mustAssemble(t, c.prog)
		got, err := Verify(prog, nil)
		if rootErr(err) != c.wantErr {
			t.Errorf("Verify(%s) err = %v want %v", c.prog, err, c.wantErr)
			continue
		}
		if got != c.want {
			t.Errorf("Verify(%s) = %v want %v", c.prog, got, c.want)
		}
	}
}

// Copies made by PICK must not alias the original item.
func TestPickNoAlias(t *testing.T) {
	prog := mustAssemble(t, "'ab' 0 PICK 'c' CAT SWAP 'ab' EQUAL VERIFY 'abc' EQUAL")
	ok, err := Verify(prog, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("picked item aliases its source")
	}
}
