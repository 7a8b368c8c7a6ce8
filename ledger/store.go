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

package ledger

import (
	"sort"

	"github.com/critterworks/critterchain/types"
)

// Entity stores are small repository interfaces so the in-memory
// backing can later be swapped for a persistent one without touching
// transition logic. Implementations are not internally synchronized:
// every call happens under the ledger's own lock

type IdentityStore interface {
	Get(did types.DID) (*types.Identity, bool)
	Put(identity *types.Identity)
	All() []*types.Identity
}

type AssetStore interface {
	Get(tokenId string) (*types.Asset, bool)
	Put(asset *types.Asset)
	ByOwner(did types.DID) []*types.Asset
}

type ProposalStore interface {
	Get(id string) (*types.Proposal, bool)
	Put(proposal *types.Proposal)
	All() []*types.Proposal
}

type VoteStore interface {
	Put(vote *types.Vote)
	ByProposal(proposalId string) []*types.Vote
}

// BalanceStore tracks free balances and staked amounts per DID.
// Invariant: a STAKE moves value from balance to stake and an UNSTAKE
// moves it back, so balance+staked is conserved across the pair
type BalanceStore interface {
	Balance(did types.DID) uint64
	SetBalance(did types.DID, amount uint64)
	Staked(did types.DID) uint64
	SetStaked(did types.DID, amount uint64)
}

type memIdentityStore struct {
	identities map[types.DID]*types.Identity
}

func newMemIdentityStore() *memIdentityStore {
	return &memIdentityStore{
		identities: make(map[types.DID]*types.Identity),
	}
}

func (s *memIdentityStore) Get(did types.DID) (*types.Identity, bool) {
	identity, ok := s.identities[did]
	return identity, ok
}

func (s *memIdentityStore) Put(identity *types.Identity) {
	s.identities[identity.DID] = identity
}

func (s *memIdentityStore) All() []*types.Identity {
	ret := make([]*types.Identity, 0, len(s.identities))
	for _, identity := range s.identities {
		ret = append(ret, identity)
	}
	sort.Slice(ret, func(i, j int) bool {
		return ret[i].DID < ret[j].DID
	})
	return ret
}

type memAssetStore struct {
	assets map[string]*types.Asset
}

func newMemAssetStore() *memAssetStore {
	return &memAssetStore{
		assets: make(map[string]*types.Asset),
	}
}

func (s *memAssetStore) Get(tokenId string) (*types.Asset, bool) {
	asset, ok := s.assets[tokenId]
	return asset, ok
}

func (s *memAssetStore) Put(asset *types.Asset) {
	s.assets[asset.TokenID] = asset
}

func (s *memAssetStore) ByOwner(did types.DID) []*types.Asset {
	var ret []*types.Asset
	for _, asset := range s.assets {
		if asset.OwnerDID == did {
			ret = append(ret, asset)
		}
	}
	sort.Slice(ret, func(i, j int) bool {
		return ret[i].TokenID < ret[j].TokenID
	})
	return ret
}

type memProposalStore struct {
	proposals map[string]*types.Proposal
}

func newMemProposalStore() *memProposalStore {
	return &memProposalStore{
		proposals: make(map[string]*types.Proposal),
	}
}

func (s *memProposalStore) Get(id string) (*types.Proposal, bool) {
	proposal, ok := s.proposals[id]
	return proposal, ok
}

func (s *memProposalStore) Put(proposal *types.Proposal) {
	s.proposals[proposal.ID] = proposal
}

func (s *memProposalStore) All() []*types.Proposal {
	ret := make([]*types.Proposal, 0, len(s.proposals))
	for _, proposal := range s.proposals {
		ret = append(ret, proposal)
	}
	sort.Slice(ret, func(i, j int) bool {
		return ret[i].ID < ret[j].ID
	})
	return ret
}

type memVoteStore struct {
	votesByProposal map[string][]*types.Vote
}

func newMemVoteStore() *memVoteStore {
	return &memVoteStore{
		votesByProposal: make(map[string][]*types.Vote),
	}
}

func (s *memVoteStore) Put(vote *types.Vote) {
	s.votesByProposal[vote.ProposalID] = append(
		s.votesByProposal[vote.ProposalID],
		vote,
	)
}

func (s *memVoteStore) ByProposal(proposalId string) []*types.Vote {
	return s.votesByProposal[proposalId]
}

type memBalanceStore struct {
	balances map[types.DID]uint64
	staked   map[types.DID]uint64
}

func newMemBalanceStore() *memBalanceStore {
	return &memBalanceStore{
		balances: make(map[types.DID]uint64),
		staked:   make(map[types.DID]uint64),
	}
}

func (s *memBalanceStore) Balance(did types.DID) uint64 {
	return s.balances[did]
}

func (s *memBalanceStore) SetBalance(did types.DID, amount uint64) {
	s.balances[did] = amount
}

func (s *memBalanceStore) Staked(did types.DID) uint64 {
	return s.staked[did]
}

func (s *memBalanceStore) SetStaked(did types.DID, amount uint64) {
	s.staked[did] = amount
}
