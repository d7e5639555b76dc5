package util

import (
	"github.com/btcsuite/btcutil"
)

// FormatAmount formats an amount of satoshi in whole coins, e.g.
// 5000000000 becomes "50 BTC".
func FormatAmount(satoshi int64) string {
	return btcutil.Amount(satoshi).String()
}
