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
	"crypto/tls"
	"log/slog"

	"github.com/blinklabs-io/ledgerquery/ledger"
	"github.com/blinklabs-io/ledgerquery/query"
)

// ClientOptionFunc is a type that represents functions that modify the Client config
type ClientOptionFunc func(*Client)

// WithNetwork specifies a predefined network whose nodes are used when no
// other nodes are provided
func WithNetwork(network Network) ClientOptionFunc {
	return func(c *Client) {
		c.network = network
	}
}

// WithNodes specifies the nodes to send queries to
func WithNodes(nodes ...query.Node) ClientOptionFunc {
	return func(c *Client) {
		c.nodes = append(c.nodes, nodes...)
	}
}

// WithAddressBook specifies an address book to load nodes from
func WithAddressBook(addressBook *AddressBook) ClientOptionFunc {
	return func(c *Client) {
		c.addressBook = addressBook
	}
}

// WithOperator specifies the account that pays for queries and its signer
func WithOperator(accountID ledger.AccountID, signer ledger.Signer) ClientOptionFunc {
	return func(c *Client) {
		c.operator = &query.Operator{
			AccountID: accountID,
			Signer:    signer,
		}
	}
}

// WithMaxQueryPayment specifies the most the client will pay for any single
// query. Queries can override it with their own ceiling
func WithMaxQueryPayment(amount ledger.Amount) ClientOptionFunc {
	return func(c *Client) {
		c.maxQueryPayment = &amount
	}
}

// WithChannel specifies the RPC channel to use. If none is provided, a gRPC
// channel is created and closed along with the client
func WithChannel(channel query.Channel) ClientOptionFunc {
	return func(c *Client) {
		c.channel = channel
	}
}

// WithTLSConfig enables TLS on the default gRPC channel
func WithTLSConfig(cfg *tls.Config) ClientOptionFunc {
	return func(c *Client) {
		c.tlsConfig = cfg
	}
}

// WithPaymentBuilder specifies how query payments are built. The default is
// a ledger.TransferPaymentBuilder
func WithPaymentBuilder(paymentBuilder query.PaymentBuilder) ClientOptionFunc {
	return func(c *Client) {
		c.paymentBuilder = paymentBuilder
	}
}

// WithLogger specifies the logger to use. The default is slog.Default()
func WithLogger(logger *slog.Logger) ClientOptionFunc {
	return func(c *Client) {
		c.logger = logger
	}
}
