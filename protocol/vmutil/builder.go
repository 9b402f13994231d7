// Package vmutil assembles programs for the stack machine in
// protocol/vm. The machine has no control flow, so a builder is just
// an append-only byte buffer with pushdata helpers.
package vmutil

import "github.com/trungnotchung/collidervm-toy/protocol/vm"

type Builder struct {
	program []byte
}

func NewBuilder() *Builder {
	return &Builder{}
}

// AddInt64 adds a pushdata instruction for an integer value.
func (b *Builder) AddInt64(n int64) *Builder {
	b.program = append(b.program, vm.PushdataInt64(n)...)
	return b
}

// AddData adds a pushdata instruction for a given byte string.
func (b *Builder) AddData(data []byte) *Builder {
	b.program = append(b.program, vm.PushdataBytes(data)...)
	return b
}

// AddRawBytes simply appends the given bytes to the program. (It does
// not introduce a pushdata opcode.)
func (b *Builder) AddRawBytes(data []byte) *Builder {
	b.program = append(b.program, data...)
	return b
}

// AddOp adds the given opcode to the program.
func (b *Builder) AddOp(op vm.Op) *Builder {
	b.program = append(b.program, byte(op))
	return b
}

// Build produces the bytecode of the program.
func (b *Builder) Build() []byte {
	return b.program
}

// Concat joins program fragments into a single program.
func Concat(frags ...[]byte) []byte {
	var n int
	for _, f := range frags {
		n += len(f)
	}
	res := make([]byte, 0, n)
	for _, f := range frags {
		res = append(res, f...)
	}
	return res
}
