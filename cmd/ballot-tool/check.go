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

	"github.com/0xsoniclabs/ballot/ledger"
	"github.com/urfave/cli/v2"
)

var Check = cli.Command{
	Action: withLedger(check),
	Name:   "check",
	Usage:  "performs extensive invariants checks",
}

func check(context *cli.Context, l *ledger.Ledger) error {
	fmt.Fprintf(context.App.Writer, "Checking ledger in %s ...\n", context.String(dataDirFlag.Name))
	if err := l.Check(); err != nil {
		return err
	}
	hash, err := l.Hash()
	if err != nil {
		return err
	}
	fmt.Fprintf(context.App.Writer, "State hash: %v\n", hash)
	fmt.Fprintf(context.App.Writer, "All checks passed!\n")
	return nil
}
