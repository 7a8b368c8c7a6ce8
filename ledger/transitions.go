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
	"fmt"

	"github.com/critterworks/critterchain/types"
)

// Per-kind state transitions. Every handler follows the same shape:
// read and validate all payload fields, check every precondition
// against current state, and only then mutate. A handler that returns
// an error must not have touched any ledger field.

// evolutionsPerLevel is the number of asset evolutions required to
// raise the owner's identity by one level tier
const evolutionsPerLevel = 2

// applyMintAsset creates a new asset owned by the sender. Gear minting
// is restricted to top-tier identities
func (l *Ledger) applyMintAsset(tx *types.Transaction) error {
	kindStr, err := tx.PayloadString("asset_kind")
	if err != nil {
		return err
	}
	name, err := tx.PayloadString("name")
	if err != nil {
		return err
	}
	assetKind := types.AssetKind(kindStr)
	if !assetKind.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidAssetKind, kindStr)
	}
	sender := l.identityView(tx.SenderDID)
	if assetKind == types.AssetKindGear && sender.Level < types.MaxLevel {
		return fmt.Errorf(
			"%w: level %d, need %d",
			ErrLevelTooLow,
			sender.Level,
			types.MaxLevel,
		)
	}
	l.ensureIdentity(tx.SenderDID)
	l.assets.Put(&types.Asset{
		TokenID:   tx.ID,
		Kind:      assetKind,
		OwnerDID:  tx.SenderDID,
		Name:      name,
		CreatedAt: tx.Timestamp,
	})
	return nil
}

// applyEvolveAsset appends an evolution record to a sender-owned asset
// and advances the sender's evolved-asset counter and level tier
func (l *Ledger) applyEvolveAsset(tx *types.Transaction) error {
	tokenId, err := tx.PayloadString("token_id")
	if err != nil {
		return err
	}
	note, err := tx.PayloadString("note")
	if err != nil {
		return err
	}
	asset, ok := l.assets.Get(tokenId)
	if !ok {
		return fmt.Errorf("%w: %s", ErrAssetNotFound, tokenId)
	}
	if asset.OwnerDID != tx.SenderDID {
		return fmt.Errorf(
			"%w: %s owned by %s",
			ErrNotAssetOwner,
			tokenId,
			asset.OwnerDID,
		)
	}
	asset.Evolve(note, tx.Timestamp)
	sender := l.ensureIdentity(tx.SenderDID)
	sender.EvolvedAssetCount++
	// Level tier tracks evolution experience, capped at the top tier
	level := types.LevelHatchling + int(sender.EvolvedAssetCount)/evolutionsPerLevel //nolint:gosec
	if level > types.MaxLevel {
		level = types.MaxLevel
	}
	if level > sender.Level {
		sender.Level = level
	}
	return nil
}

// applyTransferAsset reassigns asset ownership. A never-seen recipient
// identity is created as part of the transfer
func (l *Ledger) applyTransferAsset(tx *types.Transaction) error {
	tokenId, err := tx.PayloadString("token_id")
	if err != nil {
		return err
	}
	toDid, err := tx.PayloadString("to_did")
	if err != nil {
		return err
	}
	asset, ok := l.assets.Get(tokenId)
	if !ok {
		return fmt.Errorf("%w: %s", ErrAssetNotFound, tokenId)
	}
	if asset.OwnerDID != tx.SenderDID {
		return fmt.Errorf(
			"%w: %s owned by %s",
			ErrNotAssetOwner,
			tokenId,
			asset.OwnerDID,
		)
	}
	l.ensureIdentity(tx.SenderDID)
	l.ensureIdentity(types.DID(toDid))
	asset.OwnerDID = types.DID(toDid)
	return nil
}

// applyVoteCast records a vote with its weight frozen at cast time.
// The proposal must be active with an open deadline, and the voter's
// current voting power must cover the requested weight
func (l *Ledger) applyVoteCast(tx *types.Transaction) error {
	proposalId, err := tx.PayloadString("proposal_id")
	if err != nil {
		return err
	}
	directionStr, err := tx.PayloadString("direction")
	if err != nil {
		return err
	}
	weight, err := tx.PayloadUint64("weight")
	if err != nil {
		return err
	}
	direction := types.VoteDirection(directionStr)
	if !direction.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidVoteDirection, directionStr)
	}
	if weight == 0 {
		return ErrZeroVoteWeight
	}
	proposal, ok := l.proposals.Get(proposalId)
	if !ok {
		return fmt.Errorf("%w: %s", ErrProposalNotFound, proposalId)
	}
	if proposal.Status != types.ProposalActive {
		return fmt.Errorf(
			"%w: %s is %s",
			ErrProposalNotActive,
			proposalId,
			proposal.Status,
		)
	}
	if proposal.Expired(l.now()) {
		return fmt.Errorf("%w: %s", ErrVotingClosed, proposalId)
	}
	voter := l.identityView(tx.SenderDID)
	if power := voter.VotingPower(); power < weight {
		return fmt.Errorf(
			"%w: power %d, requested %d",
			ErrInsufficientVotingPower,
			power,
			weight,
		)
	}
	l.ensureIdentity(tx.SenderDID)
	l.votes.Put(&types.Vote{
		ID:         tx.ID,
		ProposalID: proposalId,
		VoterDID:   tx.SenderDID,
		Direction:  direction,
		Weight:     weight,
		Timestamp:  tx.Timestamp,
	})
	switch direction {
	case types.VoteFor:
		proposal.VotesFor += weight
	case types.VoteAgainst:
		proposal.VotesAgainst += weight
	case types.VoteAbstain:
		proposal.VotesAbstain += weight
	}
	return nil
}

// applyReputationUpdate applies a signed delta to the target identity.
// A target that is a registered validator has its registry entry
// refreshed so selection weight tracks the new reputation
func (l *Ledger) applyReputationUpdate(tx *types.Transaction) error {
	targetDid, err := tx.PayloadString("target_did")
	if err != nil {
		return err
	}
	delta, err := tx.PayloadInt64("delta")
	if err != nil {
		return err
	}
	target := l.ensureIdentity(types.DID(targetDid))
	target.Reputation += delta
	if entry, ok := l.consensus.Validator(target.DID); ok {
		l.consensus.RegisterValidator(
			target.DID,
			entry.Stake,
			target.Reputation,
		)
	}
	return nil
}

// applyTokenTransfer moves free balance between two DIDs
func (l *Ledger) applyTokenTransfer(tx *types.Transaction) error {
	toDid, err := tx.PayloadString("to_did")
	if err != nil {
		return err
	}
	amount, err := tx.PayloadUint64("amount")
	if err != nil {
		return err
	}
	if amount == 0 {
		return ErrZeroAmount
	}
	senderBalance := l.balances.Balance(tx.SenderDID)
	if senderBalance < amount {
		return fmt.Errorf(
			"%w: balance %d, need %d",
			ErrInsufficientBalance,
			senderBalance,
			amount,
		)
	}
	recipient := types.DID(toDid)
	l.ensureIdentity(tx.SenderDID)
	l.ensureIdentity(recipient)
	l.balances.SetBalance(tx.SenderDID, senderBalance-amount)
	l.balances.SetBalance(recipient, l.balances.Balance(recipient)+amount)
	return nil
}

// applyStake moves balance into the stake pool and (re-)registers the
// sender as a validator with its full staked amount and current
// reputation. Registration uses replace semantics so repeated staking
// cannot drift the consensus total
func (l *Ledger) applyStake(tx *types.Transaction) error {
	amount, err := tx.PayloadUint64("amount")
	if err != nil {
		return err
	}
	if amount == 0 {
		return ErrZeroAmount
	}
	senderBalance := l.balances.Balance(tx.SenderDID)
	if senderBalance < amount {
		return fmt.Errorf(
			"%w: balance %d, need %d",
			ErrInsufficientBalance,
			senderBalance,
			amount,
		)
	}
	sender := l.ensureIdentity(tx.SenderDID)
	newStaked := l.balances.Staked(tx.SenderDID) + amount
	l.balances.SetBalance(tx.SenderDID, senderBalance-amount)
	l.balances.SetStaked(tx.SenderDID, newStaked)
	l.consensus.RegisterValidator(tx.SenderDID, newStaked, sender.Reputation)
	return nil
}

// applyUnstake moves staked tokens back to balance. Reaching zero
// stake removes the validator registration entirely; otherwise the
// sender is re-registered with the reduced stake
func (l *Ledger) applyUnstake(tx *types.Transaction) error {
	amount, err := tx.PayloadUint64("amount")
	if err != nil {
		return err
	}
	if amount == 0 {
		return ErrZeroAmount
	}
	staked := l.balances.Staked(tx.SenderDID)
	if staked < amount {
		return fmt.Errorf(
			"%w: staked %d, requested %d",
			ErrInsufficientStake,
			staked,
			amount,
		)
	}
	sender := l.ensureIdentity(tx.SenderDID)
	newStaked := staked - amount
	l.balances.SetStaked(tx.SenderDID, newStaked)
	l.balances.SetBalance(
		tx.SenderDID,
		l.balances.Balance(tx.SenderDID)+amount,
	)
	if newStaked == 0 {
		l.consensus.UnregisterValidator(tx.SenderDID)
	} else {
		l.consensus.RegisterValidator(tx.SenderDID, newStaked, sender.Reputation)
	}
	return nil
}
