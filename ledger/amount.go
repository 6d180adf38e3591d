// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ledger

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/blinklabs-io/ledgerquery/cbor"
)

// UnitsPerWhole is the number of smallest monetary units in one whole unit
const UnitsPerWhole int64 = 100_000_000

// MaxAmount is the largest amount representable on the wire
const MaxAmount Amount = math.MaxInt64

// Amount is a non-negative monetary value in the ledger's smallest unit
type Amount int64

// NewAmount returns an Amount for the provided number of smallest units
func NewAmount(units int64) (Amount, error) {
	if units < 0 {
		return 0, fmt.Errorf("%w: %d", ErrNegativeAmount, units)
	}
	return Amount(units), nil
}

// NewAmountFromWhole returns an Amount for the provided number of whole units
func NewAmountFromWhole(whole int64) (Amount, error) {
	if whole < 0 {
		return 0, fmt.Errorf("%w: %d", ErrNegativeAmount, whole)
	}
	if whole > math.MaxInt64/UnitsPerWhole {
		return 0, fmt.Errorf("%w: %d whole units", ErrAmountOverflow, whole)
	}
	return Amount(whole * UnitsPerWhole), nil
}

// MustAmount is like NewAmount but panics on invalid input. It is meant for
// constants and tests
func MustAmount(units int64) Amount {
	a, err := NewAmount(units)
	if err != nil {
		panic(err)
	}
	return a
}

// ParseAmount parses either a decimal number of whole units ("1.5") or a whole
// number of smallest units with a "u" suffix ("150000000u")
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("invalid amount: empty string")
	}
	if units, ok := strings.CutSuffix(s, "u"); ok {
		val, err := strconv.ParseInt(units, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid amount %q: %w", s, err)
		}
		return NewAmount(val)
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	if r.Sign() < 0 {
		return 0, fmt.Errorf("%w: %s", ErrNegativeAmount, s)
	}
	r.Mul(r, new(big.Rat).SetInt64(UnitsPerWhole))
	if !r.IsInt() {
		return 0, fmt.Errorf(
			"invalid amount %q: more precision than the smallest unit",
			s,
		)
	}
	units := r.Num()
	if !units.IsInt64() {
		return 0, fmt.Errorf("%w: %s", ErrAmountOverflow, s)
	}
	return Amount(units.Int64()), nil
}

// Units returns the amount in smallest units
func (a Amount) Units() int64 {
	return int64(a)
}

// Whole returns the amount in whole units
func (a Amount) Whole() float64 {
	return float64(a) / float64(UnitsPerWhole)
}

// Cmp compares two amounts and returns -1, 0 or +1
func (a Amount) Cmp(other Amount) int {
	switch {
	case a < other:
		return -1
	case a > other:
		return 1
	default:
		return 0
	}
}

// GreaterThan returns true if a is strictly larger than other
func (a Amount) GreaterThan(other Amount) bool {
	return a.Cmp(other) > 0
}

// String returns the amount in whole units with full precision. Negative
// values only arise from raw conversions and are printed with a leading sign
func (a Amount) String() string {
	sign := ""
	units := uint64(a) // #nosec G115
	if a < 0 {
		sign = "-"
		units = -units
	}
	return fmt.Sprintf(
		"%s%d.%08d",
		sign,
		units/uint64(UnitsPerWhole),
		units%uint64(UnitsPerWhole),
	)
}

func (a Amount) MarshalCBOR() ([]byte, error) {
	if a < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeAmount, int64(a))
	}
	return cbor.Encode(uint64(a))
}

func (a *Amount) UnmarshalCBOR(data []byte) error {
	var tmp uint64
	if _, err := cbor.Decode(data, &tmp); err != nil {
		return err
	}
	if tmp > uint64(MaxAmount) {
		return fmt.Errorf("%w: %d", ErrAmountOverflow, tmp)
	}
	*a = Amount(tmp)
	return nil
}
