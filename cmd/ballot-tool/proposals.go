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

	"github.com/0xsoniclabs/ballot/ledger"
	"github.com/urfave/cli/v2"
)

var (
	titleFlag = cli.StringFlag{
		Name:  "title",
		Usage: "title of the proposal",
	}
	descriptionFlag = cli.StringFlag{
		Name:  "description",
		Usage: "description of the proposal",
	}
)

var Propose = cli.Command{
	Action:    withLedger(propose),
	Name:      "propose",
	Usage:     "creates a proposal open for voting until the given time",
	ArgsUsage: "<id> <closes-at>",
	Flags: []cli.Flag{
		&titleFlag,
		&descriptionFlag,
	},
}

var Vote = cli.Command{
	Action:    withLedger(vote),
	Name:      "vote",
	Usage:     "casts the effective power of a voter on a proposal",
	ArgsUsage: "<id> <voter> <yes|no|abstain>",
}

var Results = cli.Command{
	Action:    withLedger(results),
	Name:      "results",
	Usage:     "prints the tally of one or all proposals",
	ArgsUsage: "[<id>]",
}

func propose(context *cli.Context, l *ledger.Ledger) error {
	if err := expectArgs(context, 2); err != nil {
		return err
	}
	id := context.Args().Get(0)
	closesAt, err := parseTime(context.Args().Get(1), time.Now())
	if err != nil {
		return err
	}
	if err := l.CreateProposal(id, context.String(titleFlag.Name), context.String(descriptionFlag.Name), closesAt); err != nil {
		return err
	}
	fmt.Fprintf(context.App.Writer, "created proposal %q closing at %d\n", id, closesAt)
	return nil
}

func vote(context *cli.Context, l *ledger.Ledger) error {
	if err := expectArgs(context, 3); err != nil {
		return err
	}
	id := context.Args().Get(0)
	voter, err := parseAddressArg(context, 1)
	if err != nil {
		return err
	}
	choice, err := ledger.ParseChoice(context.Args().Get(2))
	if err != nil {
		return err
	}
	power, tally, err := l.Vote(id, voter, choice)
	if err != nil {
		return err
	}
	fmt.Fprintf(context.App.Writer, "%v voted %s with power %v\n", voter, choice, power)
	fmt.Fprintf(context.App.Writer, "%s\n", tally.String())
	return nil
}

func results(context *cli.Context, l *ledger.Ledger) error {
	if context.Args().Len() > 1 {
		return expectArgs(context, 1)
	}
	ids := l.Proposals()
	if context.Args().Len() == 1 {
		ids = []string{context.Args().Get(0)}
	}
	for _, id := range ids {
		info, err := l.Proposal(id)
		if err != nil {
			return err
		}
		state := "closed"
		if open, err := l.IsOpen(id); err == nil && open {
			state = "open"
		}
		fmt.Fprintf(context.App.Writer, "%s (%s, closes at %d): %s\n", id, state, info.ClosesAt, info.Tally.String())
	}
	return nil
}
