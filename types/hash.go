// Copyright 2026 Critterworks Software
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

package types

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/fxamacker/cbor/v2"
)

// HashSize is the size of all ledger hashes in bytes
const HashSize = sha256.Size

// Hash is a fixed-size ledger hash with hex encoding for display
type Hash [HashSize]byte

// HashEmpty returns the all-zero hash. It doubles as the genesis
// previous-hash sentinel
func HashEmpty() Hash {
	return Hash{}
}

// HashBytes computes the hash of arbitrary bytes
func HashBytes(data []byte) Hash {
	return sha256.Sum256(data)
}

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

func (h Hash) Bytes() []byte {
	return h[:]
}

// IsEmpty returns true for the all-zero hash
func (h Hash) IsEmpty() bool {
	return h == Hash{}
}

// Signable encodings use deterministic CBOR so that hash and signature
// validity depend only on field values, never on encoding order
var signableEncMode cbor.EncMode

func init() {
	var err error
	signableEncMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("types: failed to create deterministic CBOR encoder: " + err.Error())
	}
}

func marshalSignable(v any) ([]byte, error) {
	return signableEncMode.Marshal(v)
}
