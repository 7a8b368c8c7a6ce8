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
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAssetKindValid(t *testing.T) {
	tests := []struct {
		kind  AssetKind
		valid bool
	}{
		{AssetKindCritter, true},
		{AssetKindGear, true},
		{"", false},
		{"potion", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.valid, tt.kind.Valid(), "kind=%q", tt.kind)
	}
}

func TestAssetEvolve(t *testing.T) {
	asset := &Asset{
		TokenID:  "token-1",
		Kind:     AssetKindCritter,
		OwnerDID: "did:critter:alice",
		Name:     "Sparky",
	}
	assert.Equal(t, uint64(0), asset.Stage())
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	evo := asset.Evolve("first molt", now)
	assert.Equal(t, uint64(1), evo.Stage)
	assert.Equal(t, "first molt", evo.Note)
	assert.Equal(t, now, evo.Timestamp)
	asset.Evolve("second molt", now.Add(time.Hour))
	assert.Equal(t, uint64(2), asset.Stage())
	// The log is append-only: earlier entries are untouched
	assert.Equal(t, uint64(1), asset.Evolutions[0].Stage)
	assert.Equal(t, "first molt", asset.Evolutions[0].Note)
}

func TestVoteDirectionValid(t *testing.T) {
	tests := []struct {
		direction VoteDirection
		valid     bool
	}{
		{VoteFor, true},
		{VoteAgainst, true},
		{VoteAbstain, true},
		{"", false},
		{"maybe", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.valid, tt.direction.Valid(), "direction=%q", tt.direction)
	}
}

func TestProposalExpired(t *testing.T) {
	deadline := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	proposal := &Proposal{VotingDeadline: deadline}
	assert.False(t, proposal.Expired(deadline.Add(-time.Second)))
	// The deadline instant itself counts as expired
	assert.True(t, proposal.Expired(deadline))
	assert.True(t, proposal.Expired(deadline.Add(time.Second)))
}
