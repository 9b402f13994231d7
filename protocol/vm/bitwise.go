package vm

import "bytes"

func opEqual(vm *virtualMachine) error {
	res, err := doEqual(vm)
	if err != nil {
		return err
	}
	return vm.pushBool(res, true)
}

func opEqualVerify(vm *virtualMachine) error {
	res, err := doEqual(vm)
	if err != nil {
		return err
	}
	if res {
		return nil
	}
	return ErrVerifyFailed
}

func doEqual(vm *virtualMachine) (bool, error) {
	err := vm.applyCost(1)
	if err != nil {
		return false, err
	}
	b, err := vm.pop(true)
	if err != nil {
		return false, err
	}
	a, err := vm.pop(true)
	if err != nil {
		return false, err
	}
	return bytes.Equal(a, b), nil
}
