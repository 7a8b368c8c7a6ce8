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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIdentity(t *testing.T) {
	identity := NewIdentity("did:critter:alice")
	assert.Equal(t, DID("did:critter:alice"), identity.DID)
	assert.Equal(t, LevelHatchling, identity.Level)
	assert.Equal(t, int64(0), identity.Reputation)
	assert.Equal(t, uint64(0), identity.EvolvedAssetCount)
	assert.False(t, identity.CreatedAt.IsZero())
}

func TestVotingPower(t *testing.T) {
	tests := []struct {
		name       string
		level      int
		evolved    uint64
		reputation int64
		expected   uint64
	}{
		{"fresh identity", LevelHatchling, 0, 0, 10},
		{"juvenile", LevelJuvenile, 0, 0, 20},
		{"alpha", LevelAlpha, 0, 0, 30},
		{"evolutions add five each", LevelHatchling, 3, 0, 25},
		{"reputation adds tenth", LevelHatchling, 0, 50, 15},
		{"reputation bonus capped at 100", LevelHatchling, 0, 5000, 110},
		{"negative reputation contributes nothing", LevelHatchling, 0, -500, 10},
		{"all components", LevelAlpha, 4, 70, 57},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity := &Identity{
				DID:               "did:critter:test",
				Level:             tt.level,
				EvolvedAssetCount: tt.evolved,
				Reputation:        tt.reputation,
			}
			assert.Equal(t, tt.expected, identity.VotingPower())
		})
	}
}
