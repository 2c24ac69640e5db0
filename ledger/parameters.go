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

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/0xsoniclabs/ballot/auth"
	"github.com/0xsoniclabs/ballot/database/store"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
)

// Parameters configure a ledger created through Open.
type Parameters struct {
	// Domain bound into every signed delegation statement.
	ChainID           uint64
	VerifyingContract common.Address
	Name              string // < defaults to auth.DefaultName
	Version           string // < defaults to auth.DefaultVersion

	// Persistence; an empty backend is a transient in-memory ledger.
	Directory string
	Backend   store.Backend
}

// Domain returns the signing domain described by the parameters.
func (p Parameters) Domain() auth.Domain {
	domain := auth.NewDomain(p.ChainID, p.VerifyingContract)
	if p.Name != "" {
		domain.Name = p.Name
	}
	if p.Version != "" {
		domain.Version = p.Version
	}
	return domain
}

func (p Parameters) storePath() string {
	if p.Backend == store.Sqlite {
		return filepath.Join(p.Directory, "ledger.sqlite")
	}
	return filepath.Join(p.Directory, "ledger")
}

// Open creates a ledger verifying EIP-712 signed delegations for the
// configured domain. If the configured store already contains a ledger, its
// state is loaded; it must have been created for the same domain.
func Open(params Parameters) (_ *Ledger, err error) {
	domain := params.Domain()
	res := NewCustom(auth.NewEIP712(domain), SystemClock())
	res.domain = domain

	backend := params.Backend
	if backend == "" {
		backend = store.Memory
	}
	if backend != store.Memory && params.Directory == "" {
		return nil, fmt.Errorf("%w: backend %q", ErrMissingDirectory, backend)
	}

	db, err := store.Open(backend, params.storePath())
	if err != nil {
		return nil, err
	}
	success := false
	defer func() {
		if !success {
			err = errors.Join(err, db.Close())
		}
	}()

	snapshot, err := loadSnapshot(db)
	if err != nil {
		return nil, err
	}
	if snapshot != nil {
		if got := snapshot.Domain.domain(); got != domain {
			return nil, fmt.Errorf("%w: stored %+v, configured %+v", ErrDomainMismatch, got, domain)
		}
		if err := res.restore(snapshot); err != nil {
			return nil, err
		}
		log.Debug("Ledger loaded", "directory", params.Directory, "voters", len(res.weights), "proposals", len(res.proposals))
	}

	res.store = db
	success = true
	return res, nil
}
