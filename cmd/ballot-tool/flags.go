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
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/0xsoniclabs/ballot/common"
	"github.com/0xsoniclabs/ballot/database/store"
	"github.com/0xsoniclabs/ballot/ledger"
	geth "github.com/ethereum/go-ethereum/common"
	"github.com/urfave/cli/v2"
)

var (
	dataDirFlag = cli.StringFlag{
		Name:  "datadir",
		Usage: "directory storing the ledger",
		Value: "ballot-data",
	}
	backendFlag = cli.StringFlag{
		Name:  "backend",
		Usage: "storage backend of the ledger (leveldb, sqlite, memory)",
		Value: string(store.LevelDb),
	}
	chainIdFlag = cli.Uint64Flag{
		Name:  "chain-id",
		Usage: "chain id bound into delegation signatures",
		Value: 1,
	}
	contractFlag = cli.StringFlag{
		Name:  "contract",
		Usage: "verifying contract bound into delegation signatures",
		Value: geth.Address{}.Hex(),
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Usage: "log level (0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=trace)",
		Value: 2,
	}
)

func parameters(context *cli.Context) (ledger.Parameters, error) {
	contract, err := common.ParseAddress(context.String(contractFlag.Name))
	if err != nil {
		return ledger.Parameters{}, fmt.Errorf("invalid --%s: %w", contractFlag.Name, err)
	}
	return ledger.Parameters{
		ChainID:           context.Uint64(chainIdFlag.Name),
		VerifyingContract: contract,
		Directory:         context.String(dataDirFlag.Name),
		Backend:           store.Backend(context.String(backendFlag.Name)),
	}, nil
}

// withLedger wraps a command action such that it operates on the ledger
// configured by the global flags. The ledger is flushed and closed when the
// action is done, also if it failed.
func withLedger(action func(*cli.Context, *ledger.Ledger) error) cli.ActionFunc {
	return func(context *cli.Context) error {
		params, err := parameters(context)
		if err != nil {
			return err
		}
		l, err := ledger.Open(params)
		if err != nil {
			return err
		}
		return errors.Join(
			action(context, l),
			l.Close(),
		)
	}
}

func expectArgs(context *cli.Context, n int) error {
	if got := context.Args().Len(); got != n {
		return fmt.Errorf("expected %d arguments, got %d; usage: %s %s", n, got, context.Command.Name, context.Command.ArgsUsage)
	}
	return nil
}

func parseAddressArg(context *cli.Context, i int) (geth.Address, error) {
	return common.ParseAddress(context.Args().Get(i))
}

func parseWeight(s string) (*big.Int, error) {
	weight, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return nil, fmt.Errorf("invalid weight %q", s)
	}
	return weight, nil
}

// parseTime parses a Unix timestamp in seconds or, if prefixed by '+', a
// duration relative to the current time.
func parseTime(s string, now time.Time) (uint64, error) {
	if rel, found := strings.CutPrefix(s, "+"); found {
		d, err := time.ParseDuration(rel)
		if err != nil {
			return 0, fmt.Errorf("invalid relative time %q: %w", s, err)
		}
		secs := now.Add(d).Unix()
		if secs < 0 {
			return 0, fmt.Errorf("relative time %q is before the Unix epoch", s)
		}
		return uint64(secs), nil
	}
	res, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return res, nil
}

func parseUint(s string) (uint64, error) {
	res, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return res, nil
}
