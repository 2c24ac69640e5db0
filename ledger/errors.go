// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package ledger

import (
	"github.com/0xsoniclabs/ballot/auth"
	"github.com/0xsoniclabs/ballot/common"
)

const (
	ErrInvalidWeight             = common.ConstError("invalid weight")
	ErrExpired                   = common.ConstError("delegation statement expired")
	ErrNonceMismatch             = common.ConstError("invalid nonce for delegator")
	ErrSignatureInvalid          = auth.ErrSignatureInvalid
	ErrNotDelegator              = common.ConstError("signer is not the delegator")
	ErrCycleDetected             = common.ConstError("delegation would create a cycle")
	ErrDuplicateProposal         = common.ConstError("proposal already exists")
	ErrInvalidClosingTime        = common.ConstError("closing time must be in the future")
	ErrUnknownProposal           = common.ConstError("unknown proposal")
	ErrInvalidChoice             = common.ConstError("invalid choice")
	ErrVotingClosed              = common.ConstError("voting closed")
	ErrDelegatedVoterCannotVote  = common.ConstError("delegated voters cannot cast a direct vote")
	ErrAlreadyVoted              = common.ConstError("already voted for this proposal")
	ErrNoVotingPower             = common.ConstError("no voting power")
	ErrCorruptSnapshot           = common.ConstError("corrupt ledger snapshot")
	ErrDomainMismatch            = common.ConstError("ledger was created for a different domain")
	ErrMissingDirectory          = common.ConstError("persistent backend requires a directory")
	ErrInconsistentDelegation    = common.ConstError("delegation graph is inconsistent")
	ErrWeightConservationFailure = common.ConstError("effective power does not match total weight")
)
