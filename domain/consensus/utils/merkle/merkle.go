package merkle

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// hashMerkleBranches takes two hashes, treated as the left and right tree
// nodes, and returns the hash of their concatenation.
func hashMerkleBranches(left, right *chainhash.Hash) chainhash.Hash {
	var buf [chainhash.HashSize * 2]byte
	copy(buf[:chainhash.HashSize], left[:])
	copy(buf[chainhash.HashSize:], right[:])

	return chainhash.DoubleHashH(buf[:])
}

// CalculateMerkleRoot returns the root of the merkle tree whose bottom level
// is hashes, in order.
//
// Whenever a level has an odd number of nodes the last node is paired with
// itself. A consequence is that a list with an odd count and the same list
// with its last element appended again have the same root, which is why
// nodes must reject blocks with duplicate transactions on their own.
//
// An empty list has the zero hash as its root.
func CalculateMerkleRoot(hashes []chainhash.Hash) chainhash.Hash {
	if len(hashes) == 0 {
		return chainhash.Hash{}
	}

	level := make([]chainhash.Hash, len(hashes))
	copy(level, hashes)
	for len(level) > 1 {
		if len(level)%2 != 0 {
			level = append(level, level[len(level)-1])
		}
		next := make([]chainhash.Hash, 0, len(level)/2)
		for i := 0; i < len(level); i += 2 {
			next = append(next, hashMerkleBranches(&level[i], &level[i+1]))
		}
		level = next
	}
	return level[0]
}

// CalculateHashMerkleRoot calculates the merkle root of a tree consisted of
// the given transaction ids.
func CalculateHashMerkleRoot(transactions []*wire.MsgTx) chainhash.Hash {
	hashes := make([]chainhash.Hash, len(transactions))
	for i, tx := range transactions {
		hashes[i] = tx.TxHash()
	}
	return CalculateMerkleRoot(hashes)
}

// CalculateWitnessMerkleRoot calculates the merkle root of a tree consisted
// of the given transaction witness ids. The first transaction is the coinbase,
// whose witness id is taken to be the zero hash since its witness carries
// the reserved value the commitment to this very root is built from.
func CalculateWitnessMerkleRoot(transactions []*wire.MsgTx) chainhash.Hash {
	hashes := make([]chainhash.Hash, len(transactions))
	for i, tx := range transactions {
		if i == 0 {
			continue
		}
		hashes[i] = tx.WitnessHash()
	}
	return CalculateMerkleRoot(hashes)
}
