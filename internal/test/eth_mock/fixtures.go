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

package eth_mock

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/blinklabs-io/infocontract/artifact"
)

const (
	// MockNetworkId is the network ID used by default, which matches a local Ganache node
	MockNetworkId = 5777
	// MockChainId is the chain ID used by default
	MockChainId = 1337
	// MockContractName is the contract name in the generated artifact
	MockContractName = "InfoContract"
)

var (
	// MockContractAddress is the address InfoContract is deployed at
	MockContractAddress = common.HexToAddress("0xCfEB869F69431e42cdB54A4F4f105C19C080A601")
	// MockAccount is the first unlocked account on the mock node
	MockAccount = common.HexToAddress("0x90F8bf6A479f320ead074411a4B0e7944Ea8c9C1")
	// MockSolcVersion is recorded in the metadata trailer of the generated runtime code
	MockSolcVersion = []byte{0, 8, 19}
)

// InfoContractABI is the ABI produced by compiling:
//
//	contract InfoContract {
//	    string fName;
//	    uint age;
//	    function setInfo(string memory _fName, uint _age) public { ... }
//	    function getInfo() public view returns (string memory, uint) { ... }
//	}
const InfoContractABI = `[
  {
    "inputs": [
      {"internalType": "string", "name": "_fName", "type": "string"},
      {"internalType": "uint256", "name": "_age", "type": "uint256"}
    ],
    "name": "setInfo",
    "outputs": [],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [],
    "name": "getInfo",
    "outputs": [
      {"internalType": "string", "name": "", "type": "string"},
      {"internalType": "uint256", "name": "", "type": "uint256"}
    ],
    "stateMutability": "view",
    "type": "function"
  }
]`

var (
	infoABI     abi.ABI
	infoABIOnce sync.Once
)

// InfoABI returns the parsed InfoContractABI
func InfoABI() abi.ABI {
	infoABIOnce.Do(func() {
		parsed, err := abi.JSON(strings.NewReader(InfoContractABI))
		if err != nil {
			panic(fmt.Sprintf("parse InfoContract ABI: %s", err))
		}
		infoABI = parsed
	})
	return infoABI
}

// RuntimeCode returns stand-in runtime code for InfoContract, ending with a metadata trailer
// that records the given IPFS hash
func RuntimeCode(ipfsHash []byte) []byte {
	trailer, err := artifact.EncodeMetadata(&artifact.Metadata{
		IPFS: ipfsHash,
		Solc: MockSolcVersion,
	})
	if err != nil {
		panic(fmt.Sprintf("encode metadata: %s", err))
	}
	// PUSH1 0x80 PUSH1 0x40 MSTORE CALLVALUE ... INVALID
	body := []byte{0x60, 0x80, 0x60, 0x40, 0x52, 0x34, 0x80, 0x15, 0x61, 0x00, 0x10, 0x57, 0xfe}
	return append(body, trailer...)
}

// DeployedCode returns the runtime code served at MockContractAddress
func DeployedCode() []byte {
	return RuntimeCode([]byte("mock-ipfs-hash-of-source-metadata"))
}

// ArtifactJSON returns a Truffle artifact for InfoContract with the given deployments, keyed by
// network ID
func ArtifactJSON(deployments map[uint64]common.Address) []byte {
	networks := make(map[string]artifact.Deployment, len(deployments))
	for networkId, address := range deployments {
		networks[fmt.Sprintf("%d", networkId)] = artifact.Deployment{
			Address:         address.Hex(),
			TransactionHash: common.BytesToHash(address.Bytes()).Hex(),
		}
	}
	a := artifact.Artifact{
		ContractName:     MockContractName,
		ABI:              json.RawMessage(InfoContractABI),
		Bytecode:         hexutil.Encode(append([]byte{0x60, 0x80}, DeployedCode()...)),
		DeployedBytecode: hexutil.Encode(DeployedCode()),
		Networks:         networks,
		Compiler: artifact.Compiler{
			Name:    "solc",
			Version: "0.8.19+commit.7dd6d404.Emscripten.clang",
		},
		SchemaVersion: "3.4.16",
		UpdatedAt:     "2026-01-01T00:00:00.000Z",
	}
	data, err := json.Marshal(a)
	if err != nil {
		panic(fmt.Sprintf("marshal artifact: %s", err))
	}
	return data
}

// DefaultArtifactJSON returns an artifact with InfoContract deployed at MockContractAddress on
// MockNetworkId
func DefaultArtifactJSON() []byte {
	return ArtifactJSON(map[uint64]common.Address{
		MockNetworkId: MockContractAddress,
	})
}
