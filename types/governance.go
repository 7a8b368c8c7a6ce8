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

// ProposalStatus is the governance proposal lifecycle state
type ProposalStatus string

const (
	ProposalActive      ProposalStatus = "active"
	ProposalPassed      ProposalStatus = "passed"
	ProposalRejected    ProposalStatus = "rejected"
	ProposalImplemented ProposalStatus = "implemented"
)

// VoteDirection is the choice carried by a cast vote
type VoteDirection string

const (
	VoteFor     VoteDirection = "for"
	VoteAgainst VoteDirection = "against"
	VoteAbstain VoteDirection = "abstain"
)

// Valid returns true if the VoteDirection is a known direction
func (d VoteDirection) Valid() bool {
	switch d {
	case VoteFor, VoteAgainst, VoteAbstain:
		return true
	default:
		return false
	}
}

// Proposal is a governance item subject to timed voting. It is created
// Active, transitions to Passed or Rejected exactly once at or after
// its deadline, and may move from Passed to Implemented by an explicit
// call
type Proposal struct {
	ID             string
	ProposerDID    DID
	Kind           string
	Description    string
	VotesFor       uint64
	VotesAgainst   uint64
	VotesAbstain   uint64
	Status         ProposalStatus
	VotingDeadline time.Time
	CreatedAt      time.Time
}

// Expired returns true once the voting deadline has been reached
func (p *Proposal) Expired(now time.Time) bool {
	return !now.Before(p.VotingDeadline)
}

// Vote records a single cast vote. Weight is frozen at cast time and
// never recomputed from the voter's later voting power
type Vote struct {
	ID         string
	ProposalID string
	VoterDID   DID
	Direction  VoteDirection
	Weight     uint64
	Timestamp  time.Time
}
