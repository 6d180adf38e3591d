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

package query

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/blinklabs-io/ledgerquery/ledger"
)

// Node is a network node that answers queries
type Node struct {
	AccountID ledger.AccountID
	Address   string
}

func (n Node) String() string {
	return fmt.Sprintf("%s (%s)", n.AccountID.String(), n.Address)
}

// Operator is the account that pays for queries and the key that signs for it
type Operator struct {
	AccountID ledger.AccountID
	Signer    ledger.Signer
}

// Channel submits a serialized query to a node and returns the serialized
// response. Implementations must be safe for concurrent use
type Channel interface {
	Submit(
		ctx context.Context,
		address string,
		request []byte,
		method string,
	) ([]byte, error)
}

// PaymentBuilder builds signed query payments and reads them back
type PaymentBuilder interface {
	BuildPayment(
		from ledger.AccountID,
		node ledger.AccountID,
		amount ledger.Amount,
		maxFee ledger.Amount,
		signer ledger.Signer,
	) (*ledger.SignedTransaction, error)
	PaymentNodeAccountID(tx *ledger.SignedTransaction) (ledger.AccountID, error)
}

// Client provides the shared, read-mostly resources a query needs to run
type Client interface {
	// RandomNode returns a node chosen at random from the configured set
	RandomNode() (Node, error)
	// NodeByAccountID returns the configured node with the given account
	NodeByAccountID(id ledger.AccountID) (Node, error)
	// Operator returns the paying account and its signer
	Operator() (Operator, error)
	// MaxQueryPayment returns the client-wide payment ceiling, if any
	MaxQueryPayment() (ledger.Amount, bool)
	Channel() Channel
	PaymentBuilder() PaymentBuilder
	Logger() *slog.Logger
}
