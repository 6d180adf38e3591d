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


// Package ledgerquery is the main entry point for querying ledger network
// nodes. A Client holds the node set, the paying operator and the RPC channel
// shared by every query, and is passed to the query builders in the query
// package.
package ledgerquery

import (
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"

	"github.com/blinklabs-io/ledgerquery/ledger"
	"github.com/blinklabs-io/ledgerquery/query"
	"github.com/blinklabs-io/ledgerquery/transport"
)

var _ query.Client = (*Client)(nil)

// Client provides the node set, operator and RPC channel used to run queries.
// It is safe for concurrent use once created
type Client struct {
	network         Network
	nodes           []query.Node
	nodesByAccount  map[ledger.AccountID]query.Node
	addressBook     *AddressBook
	operator        *query.Operator
	maxQueryPayment *ledger.Amount
	channel         query.Channel
	ownsChannel     bool
	tlsConfig       *tls.Config
	paymentBuilder  query.PaymentBuilder
	logger          *slog.Logger
}

// New returns a new Client object with the specified options
func New(options ...ClientOptionFunc) (*Client, error) {
	c := &Client{}
	for _, option := range options {
		option(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.addressBook != nil {
		nodes, err := c.addressBook.QueryNodes()
		if err != nil {
			return nil, err
		}
		c.nodes = append(c.nodes, nodes...)
	}
	if len(c.nodes) == 0 {
		c.nodes = append(c.nodes, c.network.Nodes...)
	}
	c.nodesByAccount = make(map[ledger.AccountID]query.Node, len(c.nodes))
	for _, node := range c.nodes {
		if node.Address == "" {
			return nil, fmt.Errorf("node %s has no address", node.AccountID.String())
		}
		if _, ok := c.nodesByAccount[node.AccountID]; ok {
			return nil, fmt.Errorf("duplicate node account %s", node.AccountID.String())
		}
		c.nodesByAccount[node.AccountID] = node
	}
	if c.operator != nil && c.operator.Signer == nil {
		return nil, errors.New("operator requires a signer")
	}
	if c.paymentBuilder == nil {
		c.paymentBuilder = ledger.NewTransferPaymentBuilder()
	}
	if c.channel == nil {
		opts := []transport.GrpcChannelOptionFunc{
			transport.WithLogger(c.logger),
		}
		if c.tlsConfig != nil {
			opts = append(opts, transport.WithTLSConfig(c.tlsConfig))
		}
		c.channel = transport.NewGrpcChannel(opts...)
		c.ownsChannel = true
	}
	c.logger.Debug(
		"created client",
		"component", "client",
		"network", c.network.Name,
		"nodes", len(c.nodes),
	)
	return c, nil
}

// RandomNode returns a node chosen uniformly at random
func (c *Client) RandomNode() (query.Node, error) {
	if len(c.nodes) == 0 {
		return query.Node{}, query.ErrNoNodes
	}
	return c.nodes[rand.IntN(len(c.nodes))], nil // #nosec G404
}

// NodeByAccountID returns the node paid through the provided account
func (c *Client) NodeByAccountID(id ledger.AccountID) (query.Node, error) {
	node, ok := c.nodesByAccount[id]
	if !ok {
		return query.Node{}, fmt.Errorf("%w: %s", query.ErrNodeNotFound, id.String())
	}
	return node, nil
}

// Nodes returns the configured nodes
func (c *Client) Nodes() []query.Node {
	ret := make([]query.Node, len(c.nodes))
	copy(ret, c.nodes)
	return ret
}

func (c *Client) Operator() (query.Operator, error) {
	if c.operator == nil {
		return query.Operator{}, query.ErrNoOperator
	}
	return *c.operator, nil
}

func (c *Client) MaxQueryPayment() (ledger.Amount, bool) {
	if c.maxQueryPayment == nil {
		return 0, false
	}
	return *c.maxQueryPayment, true
}

func (c *Client) Channel() query.Channel {
	return c.channel
}

func (c *Client) PaymentBuilder() query.PaymentBuilder {
	return c.paymentBuilder
}

func (c *Client) Logger() *slog.Logger {
	return c.logger
}

// Close releases the RPC channel if the client created it
func (c *Client) Close() error {
	if !c.ownsChannel {
		return nil
	}
	if closer, ok := c.channel.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
