package merkle

import (
	"testing"

	"github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/btcsuite/btcutil"
	"github.com/regtestkit/blockforge/domain/consensus/utils/testutils"
)

func btcdMerkleRoot(transactions []*wire.MsgTx, witness bool) chainhash.Hash {
	utilTxs := make([]*btcutil.Tx, len(transactions))
	for i, tx := range transactions {
		utilTxs[i] = btcutil.NewTx(tx)
	}
	merkles := blockchain.BuildMerkleTreeStore(utilTxs, witness)
	return *merkles[len(merkles)-1]
}

func TestCalculateMerkleRootEmpty(t *testing.T) {
	root := CalculateMerkleRoot(nil)
	if root != (chainhash.Hash{}) {
		t.Fatalf("TestCalculateMerkleRootEmpty: expected the zero hash, got %s", root)
	}
}

func TestCalculateMerkleRootSingle(t *testing.T) {
	tx := testutils.CreateTransaction(1, false)
	root := CalculateHashMerkleRoot([]*wire.MsgTx{tx})
	if root != tx.TxHash() {
		t.Fatalf("TestCalculateMerkleRootSingle: expected the transaction id %s, got %s", tx.TxHash(), root)
	}
}

func TestCalculateMerkleRootTwo(t *testing.T) {
	first := chainhash.DoubleHashH([]byte{1})
	second := chainhash.DoubleHashH([]byte{2})

	var concatenated []byte
	concatenated = append(concatenated, first[:]...)
	concatenated = append(concatenated, second[:]...)
	expected := chainhash.DoubleHashH(concatenated)

	root := CalculateMerkleRoot([]chainhash.Hash{first, second})
	if root != expected {
		t.Fatalf("TestCalculateMerkleRootTwo: expected %s, got %s", expected, root)
	}
}

func TestCalculateHashMerkleRootMatchesBtcd(t *testing.T) {
	for count := 1; count <= 17; count++ {
		transactions := testutils.CreateTransactions(count, true)
		root := CalculateHashMerkleRoot(transactions)
		expected := btcdMerkleRoot(transactions, false)
		if root != expected {
			t.Errorf("TestCalculateHashMerkleRootMatchesBtcd: %d transactions: expected %s, got %s",
				count, expected, root)
		}
	}
}

func TestCalculateWitnessMerkleRootMatchesBtcd(t *testing.T) {
	for count := 1; count <= 9; count++ {
		transactions := testutils.CreateTransactions(count, true)
		root := CalculateWitnessMerkleRoot(transactions)
		expected := btcdMerkleRoot(transactions, true)
		if root != expected {
			t.Errorf("TestCalculateWitnessMerkleRootMatchesBtcd: %d transactions: expected %s, got %s",
				count, expected, root)
		}
	}
}

func TestCalculateWitnessMerkleRootIgnoresCoinbaseWitness(t *testing.T) {
	transactions := testutils.CreateTransactions(3, true)
	before := CalculateWitnessMerkleRoot(transactions)

	transactions[0].TxIn[0].Witness = append(transactions[0].TxIn[0].Witness, []byte{0xff})
	after := CalculateWitnessMerkleRoot(transactions)
	if before != after {
		t.Fatalf("TestCalculateWitnessMerkleRootIgnoresCoinbaseWitness: root changed from %s to %s", before, after)
	}

	transactions[1].TxIn[0].Witness = append(transactions[1].TxIn[0].Witness, []byte{0xff})
	if CalculateWitnessMerkleRoot(transactions) == before {
		t.Fatalf("TestCalculateWitnessMerkleRootIgnoresCoinbaseWitness: root didn't change when a " +
			"non-coinbase witness changed")
	}
}

// TestDuplicateLastTransaction checks that for odd counts, appending the
// last transaction again doesn't change the root, and that for even counts
// it does.
func TestDuplicateLastTransaction(t *testing.T) {
	for count := 1; count <= 16; count++ {
		transactions := testutils.CreateTransactions(count, false)
		withDuplicate := append(append([]*wire.MsgTx(nil), transactions...), transactions[count-1])

		root := CalculateHashMerkleRoot(transactions)
		duplicateRoot := CalculateHashMerkleRoot(withDuplicate)
		isOdd := count%2 != 0
		if count > 1 && isOdd && root != duplicateRoot {
			t.Errorf("TestDuplicateLastTransaction: %d transactions: expected equal roots, got %s and %s",
				count, root, duplicateRoot)
		}
		if !isOdd && root == duplicateRoot {
			t.Errorf("TestDuplicateLastTransaction: %d transactions: expected different roots, got %s twice",
				count, root)
		}
	}
}
