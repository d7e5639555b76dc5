package netparams

import (
	"testing"

	"github.com/btcsuite/btcd/blockchain"
)

func TestRegressionPowLimitBitsWithinLimit(t *testing.T) {
	target := blockchain.CompactToBig(RegressionNetParams.PowLimitBits)
	if target.Sign() <= 0 {
		t.Fatalf("TestRegressionPowLimitBitsWithinLimit: target %064x is not positive", target)
	}
	if target.Cmp(RegressionNetParams.PowLimit) > 0 {
		t.Fatalf("TestRegressionPowLimitBitsWithinLimit: target %064x is above the pow limit %064x",
			target, RegressionNetParams.PowLimit)
	}
}

func TestCopyIsIndependent(t *testing.T) {
	clone := RegressionNetParams.Copy()
	clone.SubsidyReductionInterval = MainnetSubsidyReductionInterval
	clone.PowLimit.SetInt64(1)

	if RegressionNetParams.SubsidyReductionInterval != RegressionSubsidyReductionInterval {
		t.Fatalf("TestCopyIsIndependent: original interval changed to %d",
			RegressionNetParams.SubsidyReductionInterval)
	}
	if RegressionNetParams.PowLimit.Cmp(regressionPowLimit) != 0 || regressionPowLimit.BitLen() != 255 {
		t.Fatalf("TestCopyIsIndependent: original pow limit changed to %064x", RegressionNetParams.PowLimit)
	}
}
