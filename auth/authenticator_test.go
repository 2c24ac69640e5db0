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
	"testing"

	geth "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

var _ Authenticator = (*EIP712)(nil)

func newKey(t *testing.T) (*ecdsa.PrivateKey, geth.Address) {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return key, crypto.PubkeyToAddress(key.PublicKey)
}

func TestEIP712_SignedStatementRecoversSigner(t *testing.T) {
	require := require.New(t)
	key, addr := newKey(t)
	auth := NewEIP712(NewDomain(1, geth.Address{0xc0}))

	statement := Statement{Delegator: addr, Delegatee: geth.Address{2}, Nonce: 0, Deadline: 1_000}
	sig, err := auth.Sign(statement, key)
	require.NoError(err)
	require.Len(sig, SignatureLength)

	signer, err := auth.RecoverSigner(statement, sig)
	require.NoError(err)
	require.Equal(addr, signer)
}

func TestEIP712_AcceptsRecoveryIdsWithAndWithoutOffset(t *testing.T) {
	require := require.New(t)
	key, addr := newKey(t)
	auth := NewEIP712(NewDomain(1, geth.Address{0xc0}))
	statement := Statement{Delegator: addr, Delegatee: geth.Address{2}, Deadline: 1}

	sig, err := auth.Sign(statement, key)
	require.NoError(err)
	require.Contains([]byte{27, 28}, sig[64])

	raw := append([]byte{}, sig...)
	raw[64] -= 27
	signer, err := auth.RecoverSigner(statement, raw)
	require.NoError(err)
	require.Equal(addr, signer)

	// the caller's signature must not be modified
	require.Contains([]byte{0, 1}, raw[64])
}

func TestEIP712_DigestIsDeterministic(t *testing.T) {
	require := require.New(t)
	auth := NewEIP712(NewDomain(1, geth.Address{0xc0}))
	statement := Statement{Delegator: geth.Address{1}, Delegatee: geth.Address{2}, Nonce: 3, Deadline: 4}

	a, err := auth.Digest(statement)
	require.NoError(err)
	_, err = auth.Digest(Statement{Delegator: geth.Address{5}})
	require.NoError(err)
	b, err := NewEIP712(NewDomain(1, geth.Address{0xc0})).Digest(statement)
	require.NoError(err)
	require.Equal(a, b)
}

func TestEIP712_DigestCoversAllFields(t *testing.T) {
	require := require.New(t)
	base := Statement{Delegator: geth.Address{1}, Delegatee: geth.Address{2}, Nonce: 3, Deadline: 4}
	domain := NewDomain(1, geth.Address{0xc0})

	variants := map[string]struct {
		domain    Domain
		statement Statement
	}{
		"delegator": {domain, Statement{Delegator: geth.Address{9}, Delegatee: base.Delegatee, Nonce: base.Nonce, Deadline: base.Deadline}},
		"delegatee": {domain, Statement{Delegator: base.Delegator, Delegatee: geth.Address{9}, Nonce: base.Nonce, Deadline: base.Deadline}},
		"nonce":     {domain, Statement{Delegator: base.Delegator, Delegatee: base.Delegatee, Nonce: 9, Deadline: base.Deadline}},
		"deadline":  {domain, Statement{Delegator: base.Delegator, Delegatee: base.Delegatee, Nonce: base.Nonce, Deadline: 9}},
		"chain":     {NewDomain(2, geth.Address{0xc0}), base},
		"contract":  {NewDomain(1, geth.Address{0xc1}), base},
		"name":      {Domain{Name: "Other", Version: DefaultVersion, ChainID: 1, VerifyingContract: geth.Address{0xc0}}, base},
		"version":   {Domain{Name: DefaultName, Version: "2", ChainID: 1, VerifyingContract: geth.Address{0xc0}}, base},
	}

	want, err := NewEIP712(domain).Digest(base)
	require.NoError(err)
	for name, variant := range variants {
		got, err := NewEIP712(variant.domain).Digest(variant.statement)
		require.NoError(err)
		require.NotEqual(want, got, "digest does not depend on %s", name)
	}
}

func TestEIP712_SignatureOfOtherDomainDoesNotRecoverSigner(t *testing.T) {
	require := require.New(t)
	key, addr := newKey(t)
	statement := Statement{Delegator: addr, Delegatee: geth.Address{2}, Deadline: 10}

	sig, err := NewEIP712(NewDomain(1, geth.Address{0xc0})).Sign(statement, key)
	require.NoError(err)

	signer, err := NewEIP712(NewDomain(250, geth.Address{0xc0})).RecoverSigner(statement, sig)
	if err == nil {
		require.NotEqual(addr, signer)
	}
}

func TestEIP712_MalformedSignaturesAreRejected(t *testing.T) {
	auth := NewEIP712(NewDomain(1, geth.Address{0xc0}))
	statement := Statement{Delegator: geth.Address{1}, Delegatee: geth.Address{2}}

	tooHighV := make([]byte, SignatureLength)
	tooHighV[31] = 1
	tooHighV[63] = 1
	tooHighV[64] = 35

	tests := map[string][]byte{
		"nil":        nil,
		"short":      make([]byte, 64),
		"long":       make([]byte, 66),
		"zero":       make([]byte, SignatureLength),
		"invalid v":  tooHighV,
		"all ones s": append(append(make([]byte, 31), 1), append(bytesOf(0xff, 32), 0)...),
	}
	for name, sig := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := auth.RecoverSigner(statement, sig)
			require.ErrorIs(t, err, ErrSignatureInvalid)
		})
	}
}

func bytesOf(b byte, n int) []byte {
	res := make([]byte, n)
	for i := range res {
		res[i] = b
	}
	return res
}
