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
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// ErrNoMetadata is returned when runtime code does not end with a solc metadata trailer
var ErrNoMetadata = errors.New("no metadata trailer found")

// Metadata is the CBOR map solc appends to runtime bytecode
type Metadata struct {
	IPFS         []byte `cbor:"ipfs,omitempty"`
	Bzzr0        []byte `cbor:"bzzr0,omitempty"`
	Bzzr1        []byte `cbor:"bzzr1,omitempty"`
	Solc         any    `cbor:"solc,omitempty"`
	Experimental bool   `cbor:"experimental,omitempty"`
}

// SolcVersion returns the compiler version recorded in the metadata. Release builds store
// three bytes (major, minor, patch) and prerelease builds store the full version string
func (m *Metadata) SolcVersion() string {
	switch v := m.Solc.(type) {
	case []byte:
		if len(v) == 3 {
			return fmt.Sprintf("%d.%d.%d", v[0], v[1], v[2])
		}
		return fmt.Sprintf("%x", v)
	case string:
		return v
	default:
		return ""
	}
}

var (
	metadataDecMode     cbor.DecMode
	metadataDecModeErr  error
	metadataDecModeOnce sync.Once
)

func getMetadataDecMode() (cbor.DecMode, error) {
	metadataDecModeOnce.Do(func() {
		decOptions := cbor.DecOptions{
			MaxNestedLevels: 4,
		}
		metadataDecMode, metadataDecModeErr = decOptions.DecMode()
	})
	return metadataDecMode, metadataDecModeErr
}

// metadataBounds returns the offset where the metadata trailer starts
func metadataBounds(code []byte) (int, error) {
	if len(code) < 2 {
		return 0, ErrNoMetadata
	}
	cborLen := int(binary.BigEndian.Uint16(code[len(code)-2:]))
	start := len(code) - 2 - cborLen
	if cborLen == 0 || start < 0 {
		return 0, ErrNoMetadata
	}
	// solc emits a definite-length CBOR map with fewer than 24 entries (0xa0-0xb7)
	if code[start] < 0xa0 || code[start] > 0xb7 {
		return 0, ErrNoMetadata
	}
	return start, nil
}

// ParseMetadata decodes the metadata trailer from runtime bytecode
func ParseMetadata(code []byte) (*Metadata, error) {
	start, err := metadataBounds(code)
	if err != nil {
		return nil, err
	}
	decMode, err := getMetadataDecMode()
	if err != nil {
		return nil, err
	}
	m := &Metadata{}
	if err := decMode.Unmarshal(code[start:len(code)-2], m); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoMetadata, err)
	}
	return m, nil
}

// RawMetadata returns the CBOR encoded metadata trailer of runtime bytecode, without its length
func RawMetadata(code []byte) ([]byte, error) {
	start, err := metadataBounds(code)
	if err != nil {
		return nil, err
	}
	return code[start : len(code)-2], nil
}

// DecodeRawMetadata decodes the metadata trailer of runtime bytecode without a fixed schema,
// keeping keys that Metadata does not know about
func DecodeRawMetadata(code []byte) (any, error) {
	raw, err := RawMetadata(code)
	if err != nil {
		return nil, err
	}
	decMode, err := getMetadataDecMode()
	if err != nil {
		return nil, err
	}
	var ret any
	if err := decMode.Unmarshal(raw, &ret); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoMetadata, err)
	}
	return ret, nil
}

// StripMetadata returns runtime bytecode without its metadata trailer. Code without a
// decodable trailer is returned unchanged
func StripMetadata(code []byte) []byte {
	start, err := metadataBounds(code)
	if err != nil {
		return code
	}
	if _, err := ParseMetadata(code); err != nil {
		return code
	}
	return code[:start]
}

// EncodeMetadata builds a metadata trailer (CBOR map followed by its 2-byte length), as solc does
func EncodeMetadata(m *Metadata) ([]byte, error) {
	data, err := cbor.Marshal(m)
	if err != nil {
		return nil, err
	}
	if len(data) > 0xffff {
		return nil, fmt.Errorf("metadata too large: %d bytes", len(data))
	}
	ret := make([]byte, len(data)+2)
	copy(ret, data)
	binary.BigEndian.PutUint16(ret[len(data):], uint16(len(data)))
	return ret, nil
}
