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


package ledgerquery

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/blinklabs-io/ledgerquery/ledger"
	"github.com/blinklabs-io/ledgerquery/query"
)

// AddressBook lists the nodes of a network and the accounts that they are paid through
type AddressBook struct {
	Network string             `json:"network"`
	Nodes   []AddressBookEntry `json:"nodes"`
}

type AddressBookEntry struct {
	AccountID string `json:"accountId"`
	Address   string `json:"address"`
}

func NewAddressBookFromFile(path string) (*AddressBook, error) {
	dataFile, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer dataFile.Close()
	return NewAddressBookFromReader(dataFile)
}

func NewAddressBookFromReader(r io.Reader) (*AddressBook, error) {
	a := &AddressBook{}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, a); err != nil {
		return nil, err
	}
	return a, nil
}

// QueryNodes returns the address book entries as nodes
func (a *AddressBook) QueryNodes() ([]query.Node, error) {
	ret := make([]query.Node, 0, len(a.Nodes))
	for idx, entry := range a.Nodes {
		accountID, err := ledger.ParseAccountID(entry.AccountID)
		if err != nil {
			return nil, fmt.Errorf("address book entry %d: %w", idx, err)
		}
		if entry.Address == "" {
			return nil, fmt.Errorf(
				"address book entry %d: node %s has no address",
				idx,
				accountID.String(),
			)
		}
		ret = append(
			ret,
			query.Node{
				AccountID: accountID,
				Address:   entry.Address,
			},
		)
	}
	return ret, nil
}
