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
	"errors"
	"fmt"
)

var (
	ErrInvalidSignature        = errors.New("transaction signature invalid")
	ErrUnknownSender           = errors.New("no key registered for sender")
	ErrDuplicateTransaction    = errors.New("transaction already seen")
	ErrUnknownTransactionKind  = errors.New("unknown transaction kind")
	ErrInsufficientBalance     = errors.New("insufficient balance")
	ErrInsufficientStake       = errors.New("insufficient staked amount")
	ErrAssetNotFound           = errors.New("asset not found")
	ErrNotAssetOwner           = errors.New("sender does not own asset")
	ErrInvalidAssetKind        = errors.New("invalid asset kind")
	ErrLevelTooLow             = errors.New("identity level too low for gear minting")
	ErrProposalNotFound        = errors.New("proposal not found")
	ErrProposalNotActive       = errors.New("proposal is not active")
	ErrProposalNotPassed       = errors.New("proposal has not passed")
	ErrVotingClosed            = errors.New("voting deadline has passed")
	ErrVotingStillOpen         = errors.New("voting deadline has not been reached")
	ErrInvalidVoteDirection    = errors.New("invalid vote direction")
	ErrZeroVoteWeight          = errors.New("vote weight must be positive")
	ErrInsufficientVotingPower = errors.New("requested weight exceeds voting power")
	ErrZeroAmount              = errors.New("amount must be positive")
	ErrEmptyMempool            = errors.New("no pending transactions")
)

// ValidationError marks a transaction rejected before dispatch: a bad
// signature, unknown sender, or malformed payload. Zero state change
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// PreconditionError marks a transaction whose signature verified but
// whose per-kind preconditions failed. Rejection is atomic: no field
// is mutated
type PreconditionError struct {
	Err error
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("precondition: %s", e.Err)
}

func (e *PreconditionError) Unwrap() error {
	return e.Err
}
