// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package auth

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/0xsoniclabs/ballot/common"
	geth "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

//go:generate mockgen -source authenticator.go -destination authenticator_mocks.go -package auth

const (
	// ErrSignatureInvalid is returned if a signature is malformed or no
	// signer can be recovered from it.
	ErrSignatureInvalid = common.ConstError("invalid signature")

	DefaultName    = "XterioVoting"
	DefaultVersion = "1"

	// SignatureLength is the length of a [R || S || V] encoded signature.
	SignatureLength = crypto.SignatureLength
)

// Statement is the payload signed by a delegator to assign its voting weight
// to a delegatee. Statements are values and are never modified after
// construction.
type Statement struct {
	Delegator geth.Address
	Delegatee geth.Address
	Nonce     uint64
	Deadline  uint64
}

func (s Statement) String() string {
	return fmt.Sprintf("%v->%v (nonce %d, deadline %d)", s.Delegator, s.Delegatee, s.Nonce, s.Deadline)
}

// Domain are the parameters bound into every digest such that signatures for
// one ledger can not be replayed on another one.
type Domain struct {
	Name              string
	Version           string
	ChainID           uint64
	VerifyingContract geth.Address
}

// NewDomain creates a domain with the default name and version.
func NewDomain(chainID uint64, verifyingContract geth.Address) Domain {
	return Domain{
		Name:              DefaultName,
		Version:           DefaultVersion,
		ChainID:           chainID,
		VerifyingContract: verifyingContract,
	}
}

// Authenticator recovers the address that signed a delegation statement.
// Implementations must be pure functions of their inputs.
type Authenticator interface {
	RecoverSigner(statement Statement, signature []byte) (geth.Address, error)
}

// EIP712 is an Authenticator verifying EIP-712 typed data signatures of
// Delegation statements.
type EIP712 struct {
	domain Domain
}

func NewEIP712(domain Domain) *EIP712 {
	return &EIP712{domain: domain}
}

func (a *EIP712) Domain() Domain {
	return a.domain
}

// TypedData builds the EIP-712 typed data document for the given statement.
func (a *EIP712) TypedData(statement Statement) apitypes.TypedData {
	return apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": []apitypes.Type{
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
				{Name: "chainId", Type: "uint256"},
				{Name: "verifyingContract", Type: "address"},
			},
			"Delegation": []apitypes.Type{
				{Name: "delegator", Type: "address"},
				{Name: "delegatee", Type: "address"},
				{Name: "nonce", Type: "uint256"},
				{Name: "deadline", Type: "uint256"},
			},
		},
		PrimaryType: "Delegation",
		Domain: apitypes.TypedDataDomain{
			Name:              a.domain.Name,
			Version:           a.domain.Version,
			ChainId:           (*math.HexOrDecimal256)(new(big.Int).SetUint64(a.domain.ChainID)),
			VerifyingContract: a.domain.VerifyingContract.Hex(),
		},
		Message: apitypes.TypedDataMessage{
			"delegator": statement.Delegator.Hex(),
			"delegatee": statement.Delegatee.Hex(),
			"nonce":     new(big.Int).SetUint64(statement.Nonce),
			"deadline":  new(big.Int).SetUint64(statement.Deadline),
		},
	}
}

// Digest computes the EIP-712 hash signed for the given statement.
func (a *EIP712) Digest(statement Statement) (geth.Hash, error) {
	hash, _, err := apitypes.TypedDataAndHash(a.TypedData(statement))
	if err != nil {
		return geth.Hash{}, fmt.Errorf("failed to hash delegation statement: %w", err)
	}
	return geth.BytesToHash(hash), nil
}

func (a *EIP712) RecoverSigner(statement Statement, signature []byte) (geth.Address, error) {
	if len(signature) != SignatureLength {
		return geth.Address{}, fmt.Errorf("%w: expected %d bytes, got %d", ErrSignatureInvalid, SignatureLength, len(signature))
	}
	sig := make([]byte, SignatureLength)
	copy(sig, signature)
	if sig[64] >= 27 {
		sig[64] -= 27
	}
	r := new(big.Int).SetBytes(sig[:32])
	s := new(big.Int).SetBytes(sig[32:64])
	if !crypto.ValidateSignatureValues(sig[64], r, s, true) {
		return geth.Address{}, fmt.Errorf("%w: signature values out of range", ErrSignatureInvalid)
	}

	digest, err := a.Digest(statement)
	if err != nil {
		return geth.Address{}, fmt.Errorf("%w: %w", ErrSignatureInvalid, err)
	}
	key, err := crypto.SigToPub(digest[:], sig)
	if err != nil {
		return geth.Address{}, fmt.Errorf("%w: %w", ErrSignatureInvalid, err)
	}
	return crypto.PubkeyToAddress(*key), nil
}

// Sign produces a [R || S || V] signature of the given statement with V in
// {27, 28}, as produced by common wallets.
func (a *EIP712) Sign(statement Statement, key *ecdsa.PrivateKey) ([]byte, error) {
	digest, err := a.Digest(statement)
	if err != nil {
		return nil, err
	}
	sig, err := crypto.Sign(digest[:], key)
	if err != nil {
		return nil, err
	}
	sig[64] += 27
	return sig, nil
}
