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
	"strconv"
	"strings"

	"github.com/blinklabs-io/ledgerquery/cbor"
)

// AccountID identifies an account (or a node's account) as shard.realm.num
type AccountID struct {
	cbor.StructAsArray
	Shard uint64
	Realm uint64
	Num   uint64
}

// NewAccountID returns an AccountID in shard 0, realm 0
func NewAccountID(num uint64) AccountID {
	return AccountID{Num: num}
}

// ParseAccountID parses an account ID in "shard.realm.num" form. A bare number
// is accepted as shorthand for "0.0.num"
func ParseAccountID(s string) (AccountID, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	var vals [3]uint64
	switch len(parts) {
	case 1:
		num, err := strconv.ParseUint(parts[0], 10, 64)
		if err != nil {
			return AccountID{}, fmt.Errorf("invalid account ID %q: %w", s, err)
		}
		vals[2] = num
	case 3:
		for idx, part := range parts {
			val, err := strconv.ParseUint(part, 10, 64)
			if err != nil {
				return AccountID{}, fmt.Errorf(
					"invalid account ID %q: %w",
					s,
					err,
				)
			}
			vals[idx] = val
		}
	default:
		return AccountID{}, fmt.Errorf(
			"invalid account ID %q: expected shard.realm.num",
			s,
		)
	}
	return AccountID{
		Shard: vals[0],
		Realm: vals[1],
		Num:   vals[2],
	}, nil
}

func (a AccountID) String() string {
	return fmt.Sprintf("%d.%d.%d", a.Shard, a.Realm, a.Num)
}

// IsZero returns true for the zero-valued account ID 0.0.0
func (a AccountID) IsZero() bool {
	return a.Shard == 0 && a.Realm == 0 && a.Num == 0
}
