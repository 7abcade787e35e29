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

package infocontract

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInitialized is returned when an operation needs a provider and Initialize has not succeeded
	ErrNotInitialized = errors.New("provider not initialized")
	// ErrContractNotLoaded is returned when an operation needs the contract and LoadArtifact has not succeeded
	ErrContractNotLoaded = errors.New("contract artifact not loaded")
	// ErrSubmitInFlight is returned by SubmitInfo when the submit guard is enabled and another
	// submission has not finished yet
	ErrSubmitInFlight = errors.New("a submission is already in flight")
)

// Stage identifies the step of the client flow where a failure happened
type Stage uint8

const (
	StageNone Stage = iota
	StageProvider
	StageArtifact
	StageResolve
	StageCall
	StageTransaction
)

func (s Stage) String() string {
	tmp := map[Stage]string{
		StageProvider:    "provider",
		StageArtifact:    "artifact",
		StageResolve:     "resolve",
		StageCall:        "call",
		StageTransaction: "transaction",
	}
	ret, ok := tmp[s]
	if !ok {
		return "unknown"
	}
	return ret
}

// StageError wraps a failure with the stage it happened in
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %s", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// StageOf returns the stage recorded in err, or StageNone
func StageOf(err error) Stage {
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return stageErr.Stage
	}
	return StageNone
}
