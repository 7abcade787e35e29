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

// Package utils provides helpers for inspecting decoded CBOR data, such as the metadata trailer
// of Solidity runtime code
package utils

import (
	"bytes"
	"fmt"
	"sort"
)

// DumpCborStructure renders decoded CBOR data as an indented tree. Byte strings are shown in hex
func DumpCborStructure(data any, prefix string) string {
	var ret bytes.Buffer
	switch v := data.(type) {
	case int, uint, int16, uint16, int32, uint32, int64, uint64:
		return fmt.Sprintf("%s0x%x (%d),\n", prefix, v, v)
	case []byte:
		return fmt.Sprintf("%s<bytes> 0x%x (length %d),\n", prefix, v, len(v))
	case []any:
		ret.WriteString(fmt.Sprintf("%s[\n", prefix))
		for _, val := range v {
			ret.WriteString(DumpCborStructure(val, "  "+prefix))
		}
		ret.WriteString(fmt.Sprintf("%s],\n", prefix))
	case map[any]any:
		ret.WriteString(fmt.Sprintf("%s{\n", prefix))
		// Sort keys for stable output
		keys := make([]string, 0, len(v))
		byKey := make(map[string]any, len(v))
		for key, val := range v {
			k := fmt.Sprintf("%#v", key)
			keys = append(keys, k)
			byKey[k] = val
		}
		sort.Strings(keys)
		for _, k := range keys {
			ret.WriteString(fmt.Sprintf("  %s%s =>\n", prefix, k))
			ret.WriteString(DumpCborStructure(byKey[k], "    "+prefix))
		}
		ret.WriteString(fmt.Sprintf("%s}\n", prefix))
	default:
		return fmt.Sprintf("%s%#v,\n", prefix, v)
	}
	return ret.String()
}
