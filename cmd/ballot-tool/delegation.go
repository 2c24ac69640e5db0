// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"fmt"
	"time"

	"github.com/0xsoniclabs/ballot/auth"
	"github.com/0xsoniclabs/ballot/ledger"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/urfave/cli/v2"
)

var Statement = cli.Command{
	Action:    withLedger(statement),
	Name:      "statement",
	Usage:     "prints the statement and digest a delegator has to sign",
	ArgsUsage: "<delegator> <delegatee> <deadline>",
}

var Sign = cli.Command{
	Action:    withLedger(sign),
	Name:      "sign",
	Usage:     "signs a delegation statement for the address of the given key",
	ArgsUsage: "<hex-key> <delegatee> <deadline>",
}

var Delegate = cli.Command{
	Action:    withLedger(delegate),
	Name:      "delegate",
	Usage:     "applies a signed delegation update",
	ArgsUsage: "<signature> <delegator> <delegatee> <nonce> <deadline>",
}

func authenticator(context *cli.Context) (*auth.EIP712, error) {
	params, err := parameters(context)
	if err != nil {
		return nil, err
	}
	return auth.NewEIP712(params.Domain()), nil
}

func statement(context *cli.Context, l *ledger.Ledger) error {
	if err := expectArgs(context, 3); err != nil {
		return err
	}
	delegator, err := parseAddressArg(context, 0)
	if err != nil {
		return err
	}
	delegatee, err := parseAddressArg(context, 1)
	if err != nil {
		return err
	}
	deadline, err := parseTime(context.Args().Get(2), time.Now())
	if err != nil {
		return err
	}
	signer, err := authenticator(context)
	if err != nil {
		return err
	}

	stmt := l.BuildDelegationStatement(delegator, delegatee, deadline)
	digest, err := signer.Digest(stmt)
	if err != nil {
		return err
	}
	fmt.Fprintf(context.App.Writer, "statement: %v\n", stmt)
	fmt.Fprintf(context.App.Writer, "nonce: %d\n", stmt.Nonce)
	fmt.Fprintf(context.App.Writer, "deadline: %d\n", stmt.Deadline)
	fmt.Fprintf(context.App.Writer, "digest: %v\n", digest.Hex())
	return nil
}

func sign(context *cli.Context, l *ledger.Ledger) error {
	if err := expectArgs(context, 3); err != nil {
		return err
	}
	key, err := crypto.HexToECDSA(context.Args().Get(0))
	if err != nil {
		return fmt.Errorf("invalid key: %w", err)
	}
	delegatee, err := parseAddressArg(context, 1)
	if err != nil {
		return err
	}
	deadline, err := parseTime(context.Args().Get(2), time.Now())
	if err != nil {
		return err
	}
	signer, err := authenticator(context)
	if err != nil {
		return err
	}

	delegator := crypto.PubkeyToAddress(key.PublicKey)
	stmt := l.BuildDelegationStatement(delegator, delegatee, deadline)
	signature, err := signer.Sign(stmt, key)
	if err != nil {
		return err
	}
	fmt.Fprintf(context.App.Writer, "delegator: %v\n", delegator)
	fmt.Fprintf(context.App.Writer, "nonce: %d\n", stmt.Nonce)
	fmt.Fprintf(context.App.Writer, "deadline: %d\n", stmt.Deadline)
	fmt.Fprintf(context.App.Writer, "signature: %s\n", hexutil.Encode(signature))
	return nil
}

func delegate(context *cli.Context, l *ledger.Ledger) error {
	if err := expectArgs(context, 5); err != nil {
		return err
	}
	signature, err := hexutil.Decode(context.Args().Get(0))
	if err != nil {
		return fmt.Errorf("invalid signature: %w", err)
	}
	delegator, err := parseAddressArg(context, 1)
	if err != nil {
		return err
	}
	delegatee, err := parseAddressArg(context, 2)
	if err != nil {
		return err
	}
	nonce, err := parseUint(context.Args().Get(3))
	if err != nil {
		return err
	}
	deadline, err := parseUint(context.Args().Get(4))
	if err != nil {
		return err
	}
	if err := l.ApplyDelegationUpdate(signature, delegator, delegatee, nonce, deadline); err != nil {
		return err
	}
	if delegatee, found := l.DelegateOf(delegator); found {
		fmt.Fprintf(context.App.Writer, "%v delegates to %v, final delegate %v\n", delegator, delegatee, l.FinalDelegate(delegator))
	} else {
		fmt.Fprintf(context.App.Writer, "%v votes directly\n", delegator)
	}
	return nil
}
