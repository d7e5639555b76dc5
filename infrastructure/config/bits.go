package config

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

func parseBits(s string) (uint32, error) {
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	bits, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid compact bits %q", s)
	}
	return uint32(bits), nil
}
