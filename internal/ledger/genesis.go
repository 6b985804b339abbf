package ledger

import (
	"github.com/duskchain/duskchain/internal/log"
	"github.com/duskchain/duskchain/pkg/block"
	"github.com/duskchain/duskchain/pkg/types"
)

// EnsureGenesis writes headers[0] if the store is fresh. prevMain pins the
// parent-chain block the sidechain activates on; callers re-running
// against an existing store pass it again, but it is only ever consulted
// the first time (§6 "Genesis").
func (s *Store) EnsureGenesis(prevMain types.ParentBlockHash) error {
	w := s.BeginWrite()
	defer w.Abort()

	_, _, found, err := w.AsRead().Tip()
	if err != nil {
		return err
	}
	if found {
		return nil
	}

	genesis := block.Genesis(prevMain)
	if err := w.PutHeader(0, genesis); err != nil {
		return err
	}
	if err := w.Commit(); err != nil {
		return err
	}
	log.Ledger.Info().Str("hash", genesis.Hash().String()).Msg("genesis header written")
	return nil
}
