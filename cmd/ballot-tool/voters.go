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
	"slices"

	"github.com/0xsoniclabs/ballot/ledger"
	geth "github.com/ethereum/go-ethereum/common"
	"github.com/urfave/cli/v2"
)

var AddVoter = cli.Command{
	Action:    withLedger(addVoter),
	Name:      "add-voter",
	Usage:     "registers a voter or increases its weight",
	ArgsUsage: "<address> <weight>",
}

var Power = cli.Command{
	Action:    withLedger(power),
	Name:      "power",
	Usage:     "prints the effective voting power of one or all holders",
	ArgsUsage: "[<address>]",
}

var Nonce = cli.Command{
	Action:    withLedger(nonce),
	Name:      "nonce",
	Usage:     "prints the nonce the next delegation of an address must carry",
	ArgsUsage: "<address>",
}

func addVoter(context *cli.Context, l *ledger.Ledger) error {
	if err := expectArgs(context, 2); err != nil {
		return err
	}
	addr, err := parseAddressArg(context, 0)
	if err != nil {
		return err
	}
	weight, err := parseWeight(context.Args().Get(1))
	if err != nil {
		return err
	}
	if err := l.AddVoter(addr, weight); err != nil {
		return err
	}
	fmt.Fprintf(context.App.Writer, "%v: weight %v\n", addr, l.DirectWeight(addr))
	return nil
}

func power(context *cli.Context, l *ledger.Ledger) error {
	if context.Args().Len() > 1 {
		return expectArgs(context, 1)
	}
	if context.Args().Len() == 1 {
		addr, err := parseAddressArg(context, 0)
		if err != nil {
			return err
		}
		fmt.Fprintf(context.App.Writer, "%v: %v\n", addr, l.EffectivePower(addr))
		return nil
	}

	powers := l.EffectivePowerMap()
	holders := make([]geth.Address, 0, len(powers))
	for addr := range powers {
		holders = append(holders, addr)
	}
	slices.SortFunc(holders, geth.Address.Cmp)
	for _, holder := range holders {
		fmt.Fprintf(context.App.Writer, "%v: %v\n", holder, powers[holder])
	}
	fmt.Fprintf(context.App.Writer, "total: %v\n", l.TotalWeight())
	return nil
}

func nonce(context *cli.Context, l *ledger.Ledger) error {
	if err := expectArgs(context, 1); err != nil {
		return err
	}
	addr, err := parseAddressArg(context, 0)
	if err != nil {
		return err
	}
	fmt.Fprintf(context.App.Writer, "%d\n", l.CurrentNonce(addr))
	return nil
}
