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
	"time"

	"github.com/critterworks/critterchain/event"
	"github.com/critterworks/critterchain/types"
)

// Governance lifecycle: a proposal is created Active, moves to Passed
// or Rejected exactly once at or after its voting deadline, and may
// move from Passed to Implemented by an explicit call. Deadlines are
// evaluated lazily against the ledger clock at finalize call sites;
// there are no timers.

// CreateProposal opens a new Active proposal with the given voting
// period. The proposer identity is created lazily if unseen
func (l *Ledger) CreateProposal(
	proposerDid types.DID,
	kind string,
	description string,
	votingPeriod time.Duration,
) *types.Proposal {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.ensureIdentity(proposerDid)
	l.lastProposalSeq++
	now := l.now()
	proposal := &types.Proposal{
		ID:             fmt.Sprintf("proposal-%d", l.lastProposalSeq),
		ProposerDID:    proposerDid,
		Kind:           kind,
		Description:    description,
		Status:         types.ProposalActive,
		VotingDeadline: now.Add(votingPeriod),
		CreatedAt:      now,
	}
	l.proposals.Put(proposal)
	l.logger.Info(
		"created proposal",
		"component", "ledger",
		"proposal_id", proposal.ID,
		"proposer", proposerDid,
		"kind", kind,
		"deadline", proposal.VotingDeadline,
	)
	ret := *proposal
	return &ret
}

// FinalizeProposal decides an Active proposal once its deadline has
// been reached: more FOR weight than AGAINST passes, anything else
// (ties included) rejects
func (l *Ledger) FinalizeProposal(proposalId string) (types.ProposalStatus, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return l.finalizeProposal(proposalId)
}

func (l *Ledger) finalizeProposal(proposalId string) (types.ProposalStatus, error) {
	proposal, ok := l.proposals.Get(proposalId)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrProposalNotFound, proposalId)
	}
	if proposal.Status != types.ProposalActive {
		return "", fmt.Errorf(
			"%w: %s is %s",
			ErrProposalNotActive,
			proposalId,
			proposal.Status,
		)
	}
	if !proposal.Expired(l.now()) {
		return "", fmt.Errorf("%w: %s", ErrVotingStillOpen, proposalId)
	}
	if proposal.VotesFor > proposal.VotesAgainst {
		proposal.Status = types.ProposalPassed
	} else {
		proposal.Status = types.ProposalRejected
	}
	l.metrics.proposalsFinalized.WithLabelValues(string(proposal.Status)).Inc()
	l.logger.Info(
		"finalized proposal",
		"component", "ledger",
		"proposal_id", proposalId,
		"status", proposal.Status,
		"votes_for", proposal.VotesFor,
		"votes_against", proposal.VotesAgainst,
		"votes_abstain", proposal.VotesAbstain,
	)
	if l.eventBus != nil {
		l.eventBus.Publish(
			ProposalFinalizedEventType,
			event.NewEvent(
				ProposalFinalizedEventType,
				ProposalFinalizedEvent{
					ID:     proposalId,
					Status: proposal.Status,
				},
			),
		)
	}
	return proposal.Status, nil
}

// FinalizeExpiredProposals sweeps every expired Active proposal and
// finalizes it, returning the ids it decided. The sweep is safely
// re-callable: proposals finalized earlier are no longer Active and
// are skipped
func (l *Ledger) FinalizeExpiredProposals() []string {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	now := l.now()
	var finalized []string
	for _, proposal := range l.proposals.All() {
		if proposal.Status != types.ProposalActive {
			continue
		}
		if !proposal.Expired(now) {
			continue
		}
		if _, err := l.finalizeProposal(proposal.ID); err != nil {
			l.logger.Error(
				"failed to finalize expired proposal",
				"component", "ledger",
				"proposal_id", proposal.ID,
				"error", err,
			)
			continue
		}
		finalized = append(finalized, proposal.ID)
	}
	return finalized
}

// ImplementProposal marks a Passed proposal as Implemented. Any other
// status is rejected
func (l *Ledger) ImplementProposal(proposalId string) error {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	proposal, ok := l.proposals.Get(proposalId)
	if !ok {
		return fmt.Errorf("%w: %s", ErrProposalNotFound, proposalId)
	}
	if proposal.Status != types.ProposalPassed {
		return fmt.Errorf(
			"%w: %s is %s",
			ErrProposalNotPassed,
			proposalId,
			proposal.Status,
		)
	}
	proposal.Status = types.ProposalImplemented
	l.logger.Info(
		"implemented proposal",
		"component", "ledger",
		"proposal_id", proposalId,
	)
	return nil
}
