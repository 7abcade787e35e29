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

// State is the lifecycle state of a Client. It only moves forward
type State uint8

const (
	StateUninitialized State = iota
	StateProviderReady
	StateContractReady
	StateInfoDisplayed
)

func (s State) String() string {
	tmp := map[State]string{
		StateUninitialized: "Uninitialized",
		StateProviderReady: "ProviderReady",
		StateContractReady: "ContractReady",
		StateInfoDisplayed: "InfoDisplayed",
	}
	ret, ok := tmp[s]
	if !ok {
		return "Unknown"
	}
	return ret
}
