package testutils

import (
	"testing"

	"github.com/regtestkit/blockforge/domain/netparams"
)

// ForAllSubsidySchedules runs the passed testFunc with the regtest params
// and with a copy of them using the production halving interval.
func ForAllSubsidySchedules(t *testing.T, testFunc func(*testing.T, *netparams.Params)) {
	regtest := netparams.RegressionNetParams.Copy()
	productionSchedule := netparams.RegressionNetParams.Copy()
	productionSchedule.Name = "regtest-production-schedule"
	productionSchedule.SubsidyReductionInterval = netparams.MainnetSubsidyReductionInterval

	for _, params := range []*netparams.Params{regtest, productionSchedule} {
		params := params
		t.Run(params.Name, func(t *testing.T) {
			t.Parallel()
			testFunc(t, params)
		})
	}
}
