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

import "time"

// AssetKind distinguishes the two ownable asset families
type AssetKind string

const (
	AssetKindCritter AssetKind = "critter"
	AssetKindGear    AssetKind = "gear"
)

// Valid returns true if the AssetKind is a known kind
func (k AssetKind) Valid() bool {
	switch k {
	case AssetKindCritter, AssetKindGear:
		return true
	default:
		return false
	}
}

// Evolution is a single entry in an asset's append-only evolution log
type Evolution struct {
	Stage     uint64
	Note      string
	Timestamp time.Time
}

// Asset is an ownable token. An asset has exactly one owner at all
// times; ownership changes only through transfer transactions
type Asset struct {
	TokenID    string
	Kind       AssetKind
	OwnerDID   DID
	Name       string
	CreatedAt  time.Time
	Evolutions []Evolution
}

// Evolve appends an evolution record. The log is append-only; prior
// entries are never rewritten
func (a *Asset) Evolve(note string, now time.Time) Evolution {
	evo := Evolution{
		Stage:     uint64(len(a.Evolutions)) + 1,
		Note:      note,
		Timestamp: now,
	}
	a.Evolutions = append(a.Evolutions, evo)
	return evo
}

// Stage returns the asset's current evolution stage (0 = never evolved)
func (a *Asset) Stage() uint64 {
	return uint64(len(a.Evolutions))
}
