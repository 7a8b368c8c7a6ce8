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

// DID is the unique identifier for a participant identity
type DID string

// Identity level tiers. Gear minting is restricted to the top tier
const (
	LevelHatchling int = 1
	LevelJuvenile  int = 2
	LevelAlpha     int = 3

	MaxLevel = LevelAlpha
)

// Identity is a participant record. Identities are created lazily the
// first time any transaction references an unseen DID and are never
// deleted
type Identity struct {
	DID               DID
	Level             int
	Reputation        int64
	EvolvedAssetCount uint64
	CreatedAt         time.Time
}

// NewIdentity creates an identity at the starting tier
func NewIdentity(did DID) *Identity {
	return &Identity{
		DID:       did,
		Level:     LevelHatchling,
		CreatedAt: time.Now(),
	}
}

// VotingPower derives the identity's voting power from its level,
// evolved-asset count, and reputation. The reputation contribution is
// clamped to [0, 100] so a deeply negative reputation cannot drive the
// power below the level floor
func (i *Identity) VotingPower() uint64 {
	power := int64(i.Level)*10 + int64(i.EvolvedAssetCount)*5 //nolint:gosec
	repBonus := i.Reputation / 10
	if repBonus < 0 {
		repBonus = 0
	}
	if repBonus > 100 {
		repBonus = 100
	}
	power += repBonus
	if power < 0 {
		return 0
	}
	return uint64(power)
}
