package vm

import "testing"

func TestSpliceOps(t *testing.T) {
	cases := []struct {
		prog    string
		want    bool
		wantErr error
	}{
		{prog: "'abc' 'def' CAT 'abcdef' EQUAL", want: true},
		{prog: "'abc' 0x CAT 'abc' EQUAL", want: true},
		{prog: "'abc' CAT", wantErr: ErrDataStackUnderflow},
		{prog: "'abcdef' 1 3 SUBSTR 'bcd' EQUAL", want: true},
		{prog: "'abcdef' 0 6 SUBSTR 'abcdef' EQUAL", want: true},
		{prog: "'abcdef' 4 4 SUBSTR", wantErr: ErrBadValue},
		{prog: "'abcdef' -1 2 SUBSTR", wantErr: ErrBadValue},
		{prog: "'abcdef' 1 -2 SUBSTR", wantErr: ErrBadValue},
		{prog: "'abcdef' 2 LEFT 'ab' EQUAL", want: true},
		{prog: "'abcdef' 0 LEFT 0x EQUAL", want: true},
		{prog: "'abc' 4 LEFT", wantErr: ErrBadValue},
		{prog: "'abcdef' 2 RIGHT 'ef' EQUAL", want: true},
		{prog: "'abc' 4 RIGHT", wantErr: ErrBadValue},
		{prog: "'abc' SIZE 3 NUMEQUAL", want: true},
		{prog: "0x SIZE 0 NUMEQUAL", want: true},
		{prog: "0x01 0x0203 CATPUSHDATA 0x01020203 EQUAL", want: true},
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

// CAT must not grow one operand's backing array in place.
func TestCatNoAlias(t *testing.T) {
	prog := mustAssemble(t, "'ab' DUP 'c' CAT SWAP 'd' CAT CAT 'abcabd' EQUAL")
	ok, err := Verify(prog, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("concatenation mutated a shared operand")
	}
}
