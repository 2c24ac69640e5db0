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
	"bytes"
	"encoding/hex"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/0xsoniclabs/ballot/ledger"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

func runTool(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	app := newApp()
	var out bytes.Buffer
	app.Writer = &out
	app.ErrWriter = io.Discard
	global := []string{"ballot-tool", "--datadir", dir, "--chain-id", "146", "--verbosity", "0"}
	err := app.Run(append(global, args...))
	return out.String(), err
}

func mustRun(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, err := runTool(t, dir, args...)
	require.NoError(t, err, "command %v failed", args)
	return out
}

// field extracts the value of a "<name>: <value>" line of the tool's output.
func field(t *testing.T, out, name string) string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		if value, found := strings.CutPrefix(line, name+": "); found {
			return value
		}
	}
	t.Fatalf("no field %q in output %q", name, out)
	return ""
}

func TestTool_DelegateAndVote(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()

	key, err := crypto.GenerateKey()
	require.NoError(err)
	alice := crypto.PubkeyToAddress(key.PublicKey).Hex()
	bob := "0x000000000000000000000000000000000000b0b0"

	mustRun(t, dir, "add-voter", alice, "10")
	mustRun(t, dir, "add-voter", bob, "0x5")

	out := mustRun(t, dir, "nonce", alice)
	require.Equal("0\n", out)

	out = mustRun(t, dir, "sign", hex.EncodeToString(crypto.FromECDSA(key)), bob, "+1h")
	require.Equal(alice, field(t, out, "delegator"))
	require.Equal("0", field(t, out, "nonce"))
	signature := field(t, out, "signature")
	deadline := field(t, out, "deadline")

	out = mustRun(t, dir, "statement", alice, bob, deadline)
	require.Equal("0", field(t, out, "nonce"))
	require.True(strings.HasPrefix(field(t, out, "digest"), "0x"))

	mustRun(t, dir, "delegate", signature, alice, bob, "0", deadline)
	require.Equal("1\n", mustRun(t, dir, "nonce", alice))

	// replaying the same update is rejected
	_, err = runTool(t, dir, "delegate", signature, alice, bob, "0", deadline)
	require.ErrorIs(err, ledger.ErrNonceMismatch)

	out = mustRun(t, dir, "power", bob)
	require.Contains(out, ": 15")
	out = mustRun(t, dir, "power")
	require.Contains(out, "total: 15")

	mustRun(t, dir, "propose", "--title", "budget", "p1", "+1h")
	_, err = runTool(t, dir, "vote", "p1", alice, "yes")
	require.ErrorIs(err, ledger.ErrDelegatedVoterCannotVote)

	out = mustRun(t, dir, "vote", "p1", bob, "yes")
	require.Contains(out, "with power 15")

	out = mustRun(t, dir, "results", "p1")
	require.Contains(out, "p1 (open")
	require.Contains(out, "yes: 15, no: 0, abstain: 0")

	out = mustRun(t, dir, "check")
	require.Contains(out, "All checks passed!")
}

func TestTool_SignatureOfOtherChainIsRejected(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()

	key, err := crypto.GenerateKey()
	require.NoError(err)
	alice := crypto.PubkeyToAddress(key.PublicKey).Hex()
	bob := "0x000000000000000000000000000000000000b0b0"
	mustRun(t, dir, "add-voter", alice, "1")

	// sign against a ledger bound to another chain
	out := mustRun(t, t.TempDir(), "--chain-id", "1", "sign", hex.EncodeToString(crypto.FromECDSA(key)), bob, "+1h")
	_, err = runTool(t, dir, "delegate", field(t, out, "signature"), alice, bob, "0", field(t, out, "deadline"))
	require.ErrorIs(err, ledger.ErrNotDelegator)
}

func TestTool_InvalidArgumentsAreRejected(t *testing.T) {
	dir := t.TempDir()
	tests := map[string][]string{
		"missing weight":    {"add-voter", "0x000000000000000000000000000000000000b0b0"},
		"invalid address":   {"add-voter", "0x12", "1"},
		"invalid weight":    {"add-voter", "0x000000000000000000000000000000000000b0b0", "ten"},
		"negative weight":   {"add-voter", "0x000000000000000000000000000000000000b0b0", "-1"},
		"invalid choice":    {"vote", "p1", "0x000000000000000000000000000000000000b0b0", "maybe"},
		"unknown proposal":  {"results", "p1"},
		"invalid signature": {"delegate", "zz", "0x000000000000000000000000000000000000b0b0", "0x000000000000000000000000000000000000b0b1", "0", "1"},
		"invalid deadline":  {"propose", "p1", "tomorrow"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := runTool(t, dir, args...)
			require.Error(t, err)
		})
	}
}

func TestTool_InvalidContractIsRejected(t *testing.T) {
	_, err := runTool(t, t.TempDir(), "--contract", "nope", "check")
	require.Error(t, err)
}

func TestParseTime_AcceptsAbsoluteAndRelativeTimes(t *testing.T) {
	require := require.New(t)
	now := time.Unix(1000, 0)

	got, err := parseTime("12", now)
	require.NoError(err)
	require.Equal(uint64(12), got)

	got, err = parseTime("+1m", now)
	require.NoError(err)
	require.Equal(uint64(1060), got)

	got, err = parseTime("+-1000s", now)
	require.NoError(err)
	require.Equal(uint64(0), got)

	_, err = parseTime("+-100000h", now)
	require.Error(err)
	_, err = parseTime("+soon", now)
	require.Error(err)
	_, err = parseTime("-1", now)
	require.Error(err)
}
