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

// Network definitions
var (
	NetworkGanache = Network{
		Id:       5777,
		Name:     "ganache",
		Endpoint: "http://127.0.0.1:7545",
	}
	NetworkHardhat = Network{
		Id:       31337,
		ChainId:  31337,
		Name:     "hardhat",
		Endpoint: "http://127.0.0.1:8545",
	}
	NetworkTruffle = Network{
		Id:       5777,
		Name:     "truffle",
		Endpoint: "http://127.0.0.1:9545",
	}
	NetworkMainnet = Network{
		Id:      1,
		ChainId: 1,
		Name:    "mainnet",
	}
	NetworkSepolia = Network{
		Id:      11155111,
		ChainId: 11155111,
		Name:    "sepolia",
	}
	NetworkHolesky = Network{
		Id:      17000,
		ChainId: 17000,
		Name:    "holesky",
	}

	NetworkInvalid = Network{
		Id:   0,
		Name: "invalid",
	} // NetworkInvalid is used as a return value for lookup functions when a network isn't found
)

// List of valid networks for use in lookup functions
var networks = []Network{
	NetworkGanache,
	NetworkHardhat,
	NetworkTruffle,
	NetworkMainnet,
	NetworkSepolia,
	NetworkHolesky,
}

// Networks returns the predefined networks
func Networks() []Network {
	ret := make([]Network, len(networks))
	copy(ret, networks)
	return ret
}

// NetworkByName returns a predefined network by name
func NetworkByName(name string) Network {
	for _, network := range networks {
		if network.Name == name {
			return network
		}
	}
	return NetworkInvalid
}

// NetworkById returns a predefined network by network ID (net_version). Ganache and a Truffle
// development node share 5777, in which case Ganache is returned
func NetworkById(id uint64) Network {
	for _, network := range networks {
		if network.Id == id {
			return network
		}
	}
	return NetworkInvalid
}

// Network represents an Ethereum network
type Network struct {
	Id       uint64 // network ID reported by net_version and used as the key in artifact networks
	ChainId  uint64 // EIP-155 chain ID, zero if it varies per node
	Name     string
	Endpoint string // default local endpoint, if any
}

func (n Network) String() string {
	return n.Name
}
