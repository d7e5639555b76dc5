package pow

import (
	"math"
	"math/big"

	"github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/wire"
	"github.com/regtestkit/blockforge/domain/consensus/ruleerrors"
	"github.com/regtestkit/blockforge/infrastructure/logger"
)

// DefaultMaxNonce is the last nonce Solve tries before giving up.
const DefaultMaxNonce = math.MaxUint32

// Target returns the target encoded by bits. It fails if the target is not
// positive, or if powLimit is non-nil and the target exceeds it.
func Target(bits uint32, powLimit *big.Int) (*big.Int, error) {
	target := blockchain.CompactToBig(bits)
	if target.Sign() <= 0 {
		return nil, ruleerrors.Errorf(ruleerrors.ErrInvalidTemplateField,
			"bits %08x encode the non-positive target %s", bits, target)
	}
	if powLimit != nil && target.Cmp(powLimit) > 0 {
		return nil, ruleerrors.Errorf(ruleerrors.ErrInvalidTemplateField,
			"bits %08x encode a target higher than the pow limit %064x", bits, powLimit)
	}
	return target, nil
}

// CheckProofOfWorkWithTarget check's if the header hash, read as a little
// endian number, is lower than or equal to target.
// It does not check if the target itself is valid for any network.
func CheckProofOfWorkWithTarget(header *wire.BlockHeader, target *big.Int) bool {
	hash := header.BlockHash()
	return blockchain.HashToBig(&hash).Cmp(target) <= 0
}

// CheckProofOfWorkByBits check's if the block has a valid PoW according to its Bits field
// it does not check if the difficulty itself is valid or less than the maximum for the appropriate network
func CheckProofOfWorkByBits(header *wire.BlockHeader) bool {
	target := blockchain.CompactToBig(header.Bits)
	if target.Sign() <= 0 {
		return false
	}
	return CheckProofOfWorkWithTarget(header, target)
}

// Solve searches the nonce space of header for a hash meeting the target
// encoded in header.Bits. See SolveWithMaxNonce.
func Solve(header *wire.BlockHeader) error {
	return SolveWithMaxNonce(header, DefaultMaxNonce)
}

// SolveWithMaxNonce tries nonces from 0 through maxNonce in order and sets
// header.Nonce to the first one whose header hash meets the target. If none
// does, header is left unchanged and an ErrProofOfWorkExhausted error is
// returned. All other header fields are left untouched.
func SolveWithMaxNonce(header *wire.BlockHeader, maxNonce uint32) error {
	onEnd := logger.LogAndMeasureExecutionTime(log, "SolveWithMaxNonce")
	defer onEnd()

	target, err := Target(header.Bits, nil)
	if err != nil {
		return err
	}

	// Work on a copy so a failed search doesn't leave a stray nonce behind.
	candidate := *header
	for nonce := uint32(0); ; nonce++ {
		candidate.Nonce = nonce
		if CheckProofOfWorkWithTarget(&candidate, target) {
			header.Nonce = nonce
			log.Tracef("Found nonce %d for target %064x", nonce, target)
			return nil
		}
		if nonce == maxNonce {
			break
		}
	}

	return ruleerrors.Errorf(ruleerrors.ErrProofOfWorkExhausted,
		"no nonce in [0, %d] meets the target %064x with timestamp %s",
		maxNonce, target, header.Timestamp)
}
