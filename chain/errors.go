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

package chain

import (
	"errors"
	"fmt"
)

var (
	ErrBlockNotFound = errors.New("block not found")
)

type BlockNotFitChainTipError struct {
	blockHash     string
	blockPrevHash string
	tipHash       string
}

func NewBlockNotFitChainTipError(
	blockHash string,
	blockPrevHash string,
	tipHash string,
) BlockNotFitChainTipError {
	return BlockNotFitChainTipError{
		blockHash:     blockHash,
		blockPrevHash: blockPrevHash,
		tipHash:       tipHash,
	}
}

func (e BlockNotFitChainTipError) BlockHash() string {
	return e.blockHash
}

func (e BlockNotFitChainTipError) BlockPrevHash() string {
	return e.blockPrevHash
}

func (e BlockNotFitChainTipError) TipHash() string {
	return e.tipHash
}

func (e BlockNotFitChainTipError) Error() string {
	return fmt.Sprintf(
		"block %s with prev hash %s does not fit on current chain tip %s",
		e.blockHash,
		e.blockPrevHash,
		e.tipHash,
	)
}

type BlockNumberMismatchError struct {
	blockNumber uint64
	chainHeight uint64
}

func NewBlockNumberMismatchError(
	blockNumber uint64,
	chainHeight uint64,
) BlockNumberMismatchError {
	return BlockNumberMismatchError{
		blockNumber: blockNumber,
		chainHeight: chainHeight,
	}
}

func (e BlockNumberMismatchError) Error() string {
	return fmt.Sprintf(
		"block number %d does not match chain height %d",
		e.blockNumber,
		e.chainHeight,
	)
}
