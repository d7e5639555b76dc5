package blockbuilder

import (
	"math"
	"time"

	"github.com/btcsuite/btcd/wire"
	"github.com/pkg/errors"
	"github.com/regtestkit/blockforge/domain/consensus/ruleerrors"
	"github.com/regtestkit/blockforge/domain/consensus/utils/pow"
)

func (bb *BlockBuilder) mineWithTimestampBumps(header *wire.BlockHeader) error {
	for bumps := 0; ; bumps++ {
		err := pow.SolveWithMaxNonce(header, bb.maxNonce)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ruleerrors.ErrProofOfWorkExhausted) || bumps >= bb.maxTimestampBumps {
			return err
		}

		bumped := header.Timestamp.Add(time.Second)
		if bumped.Unix() > math.MaxUint32 {
			return ruleerrors.Wrapf(ruleerrors.ErrProofOfWorkExhausted, err,
				"can't move timestamp %d forward", header.Timestamp.Unix())
		}
		log.Warnf("Nonce space exhausted with timestamp %d, retrying with %d (attempt %d of %d)",
			header.Timestamp.Unix(), bumped.Unix(), bumps+1, bb.maxTimestampBumps)
		header.Timestamp = bumped
		header.Nonce = 0
	}
}
