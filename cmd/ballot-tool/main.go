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
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "ballot-tool",
		Usage: "manages a ledger of delegated voting weight",
		Flags: []cli.Flag{
			&dataDirFlag,
			&backendFlag,
			&chainIdFlag,
			&contractFlag,
			&verbosityFlag,
		},
		Before: func(context *cli.Context) error {
			level := log.FromLegacyLevel(context.Int(verbosityFlag.Name))
			log.SetDefault(log.NewLogger(log.NewTerminalHandlerWithLevel(context.App.ErrWriter, level, false)))
			return nil
		},
		Commands: []*cli.Command{
			&AddVoter,
			&Power,
			&Nonce,
			&Statement,
			&Sign,
			&Delegate,
			&Propose,
			&Vote,
			&Results,
			&Check,
		},
	}
}
