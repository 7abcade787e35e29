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

package artifact

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"
)

var (
	// ErrNoCode is returned when there is no contract code at a deployment address
	ErrNoCode = errors.New("no code at address")
	// ErrCodeMismatch is returned when on-chain code differs from the artifact
	ErrCodeMismatch = errors.New("on-chain code does not match artifact")
)

// CodeHash returns the keccak-256 hash of the given code, which is what EXTCODEHASH reports
func CodeHash(code []byte) common.Hash {
	h := sha3.NewLegacyKeccak256()
	h.Write(code)
	var ret common.Hash
	h.Sum(ret[:0])
	return ret
}

// VerifyCode compares on-chain runtime code with the artifact's deployedBytecode. The solc
// metadata trailer is ignored, since it only changes with source paths and comments
func (a *Artifact) VerifyCode(onchain []byte) error {
	if len(onchain) == 0 {
		return ErrNoCode
	}
	expected, err := a.RuntimeCode()
	if err != nil {
		return err
	}
	if len(expected) == 0 {
		return fmt.Errorf("%s: artifact has no deployedBytecode", a.Name())
	}
	if bytes.Equal(expected, onchain) {
		return nil
	}
	expectedHash := CodeHash(StripMetadata(expected))
	onchainHash := CodeHash(StripMetadata(onchain))
	if expectedHash != onchainHash {
		return fmt.Errorf(
			"%w: expected code hash %s, got %s",
			ErrCodeMismatch,
			expectedHash.Hex(),
			onchainHash.Hex(),
		)
	}
	return nil
}
