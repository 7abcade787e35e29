// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package contract

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/core/types"
)

const (
	MethodGetInfo = "getInfo"
	MethodSetInfo = "setInfo"
)

// ErrUnexpectedABI is returned when an ABI does not match the InfoContract interface
var ErrUnexpectedABI = errors.New("ABI does not match InfoContract")

// Info is the record stored by InfoContract
type Info struct {
	Name string `json:"name"`
	Age  uint64 `json:"age"`
}

func (i Info) String() string {
	return fmt.Sprintf("%s (%d years old)", i.Name, i.Age)
}

// InfoContract is a typed binding for:
//
//	function setInfo(string _fName, uint _age)
//	function getInfo() view returns (string, uint)
type InfoContract struct {
	instance *Instance
}

// NewInfoContract wraps an instance after checking that its ABI has the expected methods
func NewInfoContract(instance *Instance) (*InfoContract, error) {
	if err := CheckInfoABI(instance.ABI()); err != nil {
		return nil, err
	}
	return &InfoContract{instance: instance}, nil
}

// CheckInfoABI verifies that the ABI exposes getInfo() -> (string, uint256) and
// setInfo(string, uint256)
func CheckInfoABI(a abi.ABI) error {
	getInfo, ok := a.Methods[MethodGetInfo]
	if !ok {
		return fmt.Errorf("%w: missing %s", ErrUnexpectedABI, MethodGetInfo)
	}
	if len(getInfo.Inputs) != 0 ||
		len(getInfo.Outputs) != 2 ||
		getInfo.Outputs[0].Type.T != abi.StringTy ||
		!isUint256(getInfo.Outputs[1].Type) {
		return fmt.Errorf("%w: unexpected signature for %s", ErrUnexpectedABI, MethodGetInfo)
	}
	setInfo, ok := a.Methods[MethodSetInfo]
	if !ok {
		return fmt.Errorf("%w: missing %s", ErrUnexpectedABI, MethodSetInfo)
	}
	if len(setInfo.Inputs) != 2 ||
		setInfo.Inputs[0].Type.T != abi.StringTy ||
		!isUint256(setInfo.Inputs[1].Type) {
		return fmt.Errorf("%w: unexpected signature for %s", ErrUnexpectedABI, MethodSetInfo)
	}
	return nil
}

// isUint256 reports whether t is uint256, which SetInfo packs the age as
func isUint256(t abi.Type) bool {
	return t.T == abi.UintTy && t.Size == 256
}

// Instance returns the underlying instance
func (c *InfoContract) Instance() *Instance {
	return c.instance
}

// GetInfo reads the stored record
func (c *InfoContract) GetInfo(ctx context.Context) (Info, error) {
	out, err := c.instance.Call(ctx, MethodGetInfo)
	if err != nil {
		return Info{}, err
	}
	if len(out) != 2 {
		return Info{}, fmt.Errorf("%s: expected 2 outputs, got %d", MethodGetInfo, len(out))
	}
	name, ok := out[0].(string)
	if !ok {
		return Info{}, fmt.Errorf("%s: unexpected type %T for name", MethodGetInfo, out[0])
	}
	age, err := toUint64(out[1])
	if err != nil {
		return Info{}, fmt.Errorf("%s: %w", MethodGetInfo, err)
	}
	return Info{Name: name, Age: age}, nil
}

// SetInfo stores a new record and waits for the transaction to be mined
func (c *InfoContract) SetInfo(ctx context.Context, opts TransactOpts, name string, age uint64) (*types.Receipt, error) {
	return c.instance.Transact(ctx, opts, MethodSetInfo, name, new(big.Int).SetUint64(age))
}

func toUint64(v any) (uint64, error) {
	switch n := v.(type) {
	case *big.Int:
		if !n.IsUint64() {
			return 0, fmt.Errorf("age %s does not fit in uint64", n)
		}
		return n.Uint64(), nil
	case uint64:
		return n, nil
	case uint32:
		return uint64(n), nil
	case uint16:
		return uint64(n), nil
	case uint8:
		return uint64(n), nil
	default:
		return 0, fmt.Errorf("unexpected type %T for age", v)
	}
}
