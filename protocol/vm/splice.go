package vm

import "github.com/trungnotchung/collidervm-toy/math/checked"

func opCat(vm *virtualMachine) error {
	err := vm.applyCost(4)
	if err != nil {
		return err
	}
	b, err := vm.pop(true)
	if err != nil {
		return err
	}
	a, err := vm.pop(true)
	if err != nil {
		return err
	}
	lens := int64(len(a) + len(b))
	err = vm.applyCost(lens)
	if err != nil {
		return err
	}
	vm.deferCost(-lens)
	res := make([]byte, 0, lens)
	res = append(res, a...)
	res = append(res, b...)
	return vm.push(res, true)
}

func opSubstr(vm *virtualMachine) error {
	err := vm.applyCost(4)
	if err != nil {
		return err
	}
	size, err := vm.popInt64(true)
	if err != nil {
		return err
	}
	if size < 0 {
		return ErrBadValue
	}
	err = vm.applyCost(size)
	if err != nil {
		return err
	}
	vm.deferCost(-size)
	offset, err := vm.popInt64(true)
	if err != nil {
		return err
	}
	if offset < 0 {
		return ErrBadValue
	}
	str, err := vm.pop(true)
	if err != nil {
		return err
	}
	end, ok := checked.AddInt64(offset, size)
	if !ok || end > int64(len(str)) {
		return ErrBadValue
	}
	return vm.push(str[offset:end], true)
}

func opLeft(vm *virtualMachine) error {
	err := vm.applyCost(4)
	if err != nil {
		return err
	}
	size, err := vm.popInt64(true)
	if err != nil {
		return err
	}
	if size < 0 {
		return ErrBadValue
	}
	err = vm.applyCost(size)
	if err != nil {
		return err
	}
	vm.deferCost(-size)
	str, err := vm.pop(true)
	if err != nil {
		return err
	}
	if size > int64(len(str)) {
		return ErrBadValue
	}
	return vm.push(str[:size], true)
}

func opRight(vm *virtualMachine) error {
	err := vm.applyCost(4)
	if err != nil {
		return err
	}
	size, err := vm.popInt64(true)
	if err != nil {
		return err
	}
	if size < 0 {
		return ErrBadValue
	}
	err = vm.applyCost(size)
	if err != nil {
		return err
	}
	vm.deferCost(-size)
	str, err := vm.pop(true)
	if err != nil {
		return err
	}
	lstr := int64(len(str))
	if size > lstr {
		return ErrBadValue
	}
	return vm.push(str[lstr-size:], true)
}

func opSize(vm *virtualMachine) error {
	err := vm.applyCost(1)
	if err != nil {
		return err
	}
	str, err := vm.top()
	if err != nil {
		return err
	}
	return vm.pushInt64(int64(len(str)), true)
}

func opCatpushdata(vm *virtualMachine) error {
	err := vm.applyCost(4)
	if err != nil {
		return err
	}
	b, err := vm.pop(true)
	if err != nil {
		return err
	}
	a, err := vm.pop(true)
	if err != nil {
		return err
	}
	lens := int64(len(a) + len(b))
	err = vm.applyCost(lens)
	if err != nil {
		return err
	}
	vm.deferCost(-lens)
	res := make([]byte, 0, lens+5)
	res = append(res, a...)
	return vm.push(append(res, PushdataBytes(b)...), true)
}
