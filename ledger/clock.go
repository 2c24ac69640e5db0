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

import "time"

//go:generate mockgen -source clock.go -destination clock_mocks.go -package ledger

// Clock is the source of wall-clock time of a ledger. Each ledger operation
// reads the clock at most once.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// SystemClock returns a clock reporting the local system time.
func SystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

// unixSeconds converts the given time into the timestamp format used for
// deadlines and closing times. Times before the epoch map to 0.
func unixSeconds(t time.Time) uint64 {
	if secs := t.Unix(); secs > 0 {
		return uint64(secs)
	}
	return 0
}
