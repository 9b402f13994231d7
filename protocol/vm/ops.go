package vm

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/pkg/errors"

	"github.com/trungnotchung/collidervm-toy/math/checked"
)

type Op uint8

func (op Op) String() string {
	return ops[op].name
}

type Instruction struct {
	Op   Op
	Len  uint32
	Data []byte
}

// The machine's fixed opcode set. There is no control flow and no
// general multiply, divide, modulo or shift: programs are straight
// lines of data pushes, stack shuffles, splices, comparisons,
// doubling/halving arithmetic and hashing. Unassigned opcode values
// are reserved and fail verification.
const (
	OP_FALSE Op = 0x00
	OP_0     Op = 0x00 // synonym

	OP_1    Op = 0x51
	OP_TRUE Op = 0x51 // synonym

	OP_2  Op = 0x52
	OP_3  Op = 0x53
	OP_4  Op = 0x54
	OP_5  Op = 0x55
	OP_6  Op = 0x56
	OP_7  Op = 0x57
	OP_8  Op = 0x58
	OP_9  Op = 0x59
	OP_10 Op = 0x5a
	OP_11 Op = 0x5b
	OP_12 Op = 0x5c
	OP_13 Op = 0x5d
	OP_14 Op = 0x5e
	OP_15 Op = 0x5f
	OP_16 Op = 0x60

	OP_DATA_1  Op = 0x01
	OP_DATA_75 Op = 0x4b

	OP_PUSHDATA1 Op = 0x4c
	OP_PUSHDATA2 Op = 0x4d
	OP_PUSHDATA4 Op = 0x4e
	OP_1NEGATE   Op = 0x4f
	OP_NOP       Op = 0x61

	OP_VERIFY Op = 0x69
	OP_FAIL   Op = 0x6a

	OP_TOALTSTACK   Op = 0x6b
	OP_FROMALTSTACK Op = 0x6c
	OP_2DROP        Op = 0x6d
	OP_2DUP         Op = 0x6e
	OP_3DUP         Op = 0x6f
	OP_2OVER        Op = 0x70
	OP_2ROT         Op = 0x71
	OP_2SWAP        Op = 0x72
	OP_IFDUP        Op = 0x73
	OP_DEPTH        Op = 0x74
	OP_DROP         Op = 0x75
	OP_DUP          Op = 0x76
	OP_NIP          Op = 0x77
	OP_OVER         Op = 0x78
	OP_PICK         Op = 0x79
	OP_ROLL         Op = 0x7a
	OP_ROT          Op = 0x7b
	OP_SWAP         Op = 0x7c
	OP_TUCK         Op = 0x7d

	OP_CAT         Op = 0x7e
	OP_SUBSTR      Op = 0x7f
	OP_LEFT        Op = 0x80
	OP_RIGHT       Op = 0x81
	OP_SIZE        Op = 0x82
	OP_CATPUSHDATA Op = 0x89

	OP_EQUAL       Op = 0x87
	OP_EQUALVERIFY Op = 0x88

	OP_1ADD               Op = 0x8b
	OP_1SUB               Op = 0x8c
	OP_2MUL               Op = 0x8d
	OP_2DIV               Op = 0x8e
	OP_NEGATE             Op = 0x8f
	OP_ABS                Op = 0x90
	OP_NOT                Op = 0x91
	OP_0NOTEQUAL          Op = 0x92
	OP_ADD                Op = 0x93
	OP_SUB                Op = 0x94
	OP_BOOLAND            Op = 0x9a
	OP_BOOLOR             Op = 0x9b
	OP_NUMEQUAL           Op = 0x9c
	OP_NUMEQUALVERIFY     Op = 0x9d
	OP_NUMNOTEQUAL        Op = 0x9e
	OP_LESSTHAN           Op = 0x9f
	OP_GREATERTHAN        Op = 0xa0
	OP_LESSTHANOREQUAL    Op = 0xa1
	OP_GREATERTHANOREQUAL Op = 0xa2
	OP_MIN                Op = 0xa3
	OP_MAX                Op = 0xa4
	OP_WITHIN             Op = 0xa5

	OP_SHA256     Op = 0xa8
	OP_BLAKE2B256 Op = 0xaa
	OP_CHECKSIG   Op = 0xac
)

type opInfo struct {
	op   Op
	name string
	fn   func(*virtualMachine) error
}

var (
	ops = [256]opInfo{
		// data pushing
		OP_FALSE: {OP_FALSE, "FALSE", opFalse},

		// sic: the PUSHDATA ops all share an implementation
		OP_PUSHDATA1: {OP_PUSHDATA1, "PUSHDATA1", opPushdata},
		OP_PUSHDATA2: {OP_PUSHDATA2, "PUSHDATA2", opPushdata},
		OP_PUSHDATA4: {OP_PUSHDATA4, "PUSHDATA4", opPushdata},

		OP_1NEGATE: {OP_1NEGATE, "1NEGATE", op1Negate},

		OP_NOP: {OP_NOP, "NOP", opNop},

		OP_VERIFY: {OP_VERIFY, "VERIFY", opVerify},
		OP_FAIL:   {OP_FAIL, "FAIL", opFail},

		OP_TOALTSTACK:   {OP_TOALTSTACK, "TOALTSTACK", opToAltStack},
		OP_FROMALTSTACK: {OP_FROMALTSTACK, "FROMALTSTACK", opFromAltStack},
		OP_2DROP:        {OP_2DROP, "2DROP", op2Drop},
		OP_2DUP:         {OP_2DUP, "2DUP", op2Dup},
		OP_3DUP:         {OP_3DUP, "3DUP", op3Dup},
		OP_2OVER:        {OP_2OVER, "2OVER", op2Over},
		OP_2ROT:         {OP_2ROT, "2ROT", op2Rot},
		OP_2SWAP:        {OP_2SWAP, "2SWAP", op2Swap},
		OP_IFDUP:        {OP_IFDUP, "IFDUP", opIfDup},
		OP_DEPTH:        {OP_DEPTH, "DEPTH", opDepth},
		OP_DROP:         {OP_DROP, "DROP", opDrop},
		OP_DUP:          {OP_DUP, "DUP", opDup},
		OP_NIP:          {OP_NIP, "NIP", opNip},
		OP_OVER:         {OP_OVER, "OVER", opOver},
		OP_PICK:         {OP_PICK, "PICK", opPick},
		OP_ROLL:         {OP_ROLL, "ROLL", opRoll},
		OP_ROT:          {OP_ROT, "ROT", opRot},
		OP_SWAP:         {OP_SWAP, "SWAP", opSwap},
		OP_TUCK:         {OP_TUCK, "TUCK", opTuck},

		OP_CAT:         {OP_CAT, "CAT", opCat},
		OP_SUBSTR:      {OP_SUBSTR, "SUBSTR", opSubstr},
		OP_LEFT:        {OP_LEFT, "LEFT", opLeft},
		OP_RIGHT:       {OP_RIGHT, "RIGHT", opRight},
		OP_SIZE:        {OP_SIZE, "SIZE", opSize},
		OP_CATPUSHDATA: {OP_CATPUSHDATA, "CATPUSHDATA", opCatpushdata},

		OP_EQUAL:       {OP_EQUAL, "EQUAL", opEqual},
		OP_EQUALVERIFY: {OP_EQUALVERIFY, "EQUALVERIFY", opEqualVerify},

		OP_1ADD:               {OP_1ADD, "1ADD", op1Add},
		OP_1SUB:               {OP_1SUB, "1SUB", op1Sub},
		OP_2MUL:               {OP_2MUL, "2MUL", op2Mul},
		OP_2DIV:               {OP_2DIV, "2DIV", op2Div},
		OP_NEGATE:             {OP_NEGATE, "NEGATE", opNegate},
		OP_ABS:                {OP_ABS, "ABS", opAbs},
		OP_NOT:                {OP_NOT, "NOT", opNot},
		OP_0NOTEQUAL:          {OP_0NOTEQUAL, "0NOTEQUAL", op0NotEqual},
		OP_ADD:                {OP_ADD, "ADD", opAdd},
		OP_SUB:                {OP_SUB, "SUB", opSub},
		OP_BOOLAND:            {OP_BOOLAND, "BOOLAND", opBoolAnd},
		OP_BOOLOR:             {OP_BOOLOR, "BOOLOR", opBoolOr},
		OP_NUMEQUAL:           {OP_NUMEQUAL, "NUMEQUAL", opNumEqual},
		OP_NUMEQUALVERIFY:     {OP_NUMEQUALVERIFY, "NUMEQUALVERIFY", opNumEqualVerify},
		OP_NUMNOTEQUAL:        {OP_NUMNOTEQUAL, "NUMNOTEQUAL", opNumNotEqual},
		OP_LESSTHAN:           {OP_LESSTHAN, "LESSTHAN", opLessThan},
		OP_GREATERTHAN:        {OP_GREATERTHAN, "GREATERTHAN", opGreaterThan},
		OP_LESSTHANOREQUAL:    {OP_LESSTHANOREQUAL, "LESSTHANOREQUAL", opLessThanOrEqual},
		OP_GREATERTHANOREQUAL: {OP_GREATERTHANOREQUAL, "GREATERTHANOREQUAL", opGreaterThanOrEqual},
		OP_MIN:                {OP_MIN, "MIN", opMin},
		OP_MAX:                {OP_MAX, "MAX", opMax},
		OP_WITHIN:             {OP_WITHIN, "WITHIN", opWithin},

		OP_SHA256:     {OP_SHA256, "SHA256", opSha256},
		OP_BLAKE2B256: {OP_BLAKE2B256, "BLAKE2B256", opBlake2b256},
		OP_CHECKSIG:   {OP_CHECKSIG, "CHECKSIG", opCheckSig},
	}

	opsByName map[string]opInfo
)

// ParseOp parses the op at position pc in prog, returning the parsed
// instruction (opcode plus any associated data).
func ParseOp(prog []byte, pc uint32) (inst Instruction, err error) {
	if len(prog) > math.MaxInt32 {
		err = ErrLongProgram
	}
	l := uint32(len(prog))
	if pc >= l {
		err = ErrShortProgram
		return
	}
	opcode := Op(prog[pc])
	inst.Op = opcode
	inst.Len = 1
	if opcode >= OP_1 && opcode <= OP_16 {
		inst.Data = []byte{uint8(opcode-OP_1) + 1}
		return
	}
	if opcode >= OP_DATA_1 && opcode <= OP_DATA_75 {
		inst.Len += uint32(opcode - OP_DATA_1 + 1)
		end, ok := checked.AddUint32(pc, inst.Len)
		if !ok {
			err = errors.WithMessage(checked.ErrOverflow, "data length exceeds max program size")
			return
		}
		if end > l {
			err = ErrShortProgram
			return
		}
		inst.Data = prog[pc+1 : end]
		return
	}
	if opcode == OP_PUSHDATA1 {
		if pc == l-1 {
			err = ErrShortProgram
			return
		}
		n := prog[pc+1]
		inst.Len += uint32(n) + 1
		end, ok := checked.AddUint32(pc, inst.Len)
		if !ok {
			err = errors.WithMessage(checked.ErrOverflow, "data length exceeds max program size")
			return
		}
		if end > l {
			err = ErrShortProgram
			return
		}
		inst.Data = prog[pc+2 : end]
		return
	}
	if opcode == OP_PUSHDATA2 {
		if len(prog) < 3 || pc > l-3 {
			err = ErrShortProgram
			return
		}
		n := binary.LittleEndian.Uint16(prog[pc+1 : pc+3])
		inst.Len += uint32(n) + 2
		end, ok := checked.AddUint32(pc, inst.Len)
		if !ok {
			err = errors.WithMessage(checked.ErrOverflow, "data length exceeds max program size")
			return
		}
		if end > l {
			err = ErrShortProgram
			return
		}
		inst.Data = prog[pc+3 : end]
		return
	}
	if opcode == OP_PUSHDATA4 {
		if len(prog) < 5 || pc > l-5 {
			err = ErrShortProgram
			return
		}
		inst.Len += 4

		n := binary.LittleEndian.Uint32(prog[pc+1 : pc+5])
		var ok bool
		inst.Len, ok = checked.AddUint32(inst.Len, n)
		if !ok {
			err = errors.WithMessage(checked.ErrOverflow, "data length exceeds max program size")
			return
		}
		end, ok := checked.AddUint32(pc, inst.Len)
		if !ok {
			err = errors.WithMessage(checked.ErrOverflow, "data length exceeds max program size")
			return
		}
		if end > l {
			err = ErrShortProgram
			return
		}
		inst.Data = prog[pc+5 : end]
		return
	}
	return
}

// ParseProgram parses prog into its instruction sequence.
func ParseProgram(prog []byte) ([]Instruction, error) {
	var result []Instruction
	for pc := uint32(0); pc < uint32(len(prog)); { // update pc inside the loop
		inst, err := ParseOp(prog, pc)
		if err != nil {
			return nil, err
		}
		result = append(result, inst)
		var ok bool
		pc, ok = checked.AddUint32(pc, inst.Len)
		if !ok {
			return nil, errors.WithMessage(checked.ErrOverflow, "program counter exceeds max program size")
		}
	}
	return result, nil
}

var isReserved [256]bool

func init() {
	for i := 1; i <= 75; i++ {
		ops[i] = opInfo{Op(i), fmt.Sprintf("DATA_%d", i), opPushdata}
	}
	for i := uint8(0); i <= 15; i++ {
		op := uint8(OP_1) + i
		ops[op] = opInfo{Op(op), fmt.Sprintf("%d", i+1), opPushdata}
	}

	opsByName = make(map[string]opInfo)
	for _, info := range ops {
		opsByName[info.name] = info
	}
	opsByName["0"] = ops[OP_FALSE]
	opsByName["TRUE"] = ops[OP_1]

	for i := 0; i <= 255; i++ {
		if ops[i].name == "" {
			ops[i] = opInfo{Op(i), fmt.Sprintf("RESERVEDx%02x", i), opNop}
			isReserved[i] = true
		}
	}
}
