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
	"time"

	"github.com/blinklabs-io/ledgerquery/ledger"
)

const (
	// DefaultExecuteTimeout bounds Execute for kinds that do not override it
	DefaultExecuteTimeout = 10 * time.Second
	// DefaultPaymentMaxFee is the max transaction fee on synthesized payments
	DefaultPaymentMaxFee = ledger.Amount(ledger.UnitsPerWhole)
)

// Builder configures and runs a single query of kind T. A builder is meant for
// one Execute call and must not be used from multiple goroutines
type Builder[T any] struct {
	kind     Kind[T]
	query    *Query
	settings builderSettings
	node     *Node
}

type builderSettings struct {
	maxQueryPayment *ledger.Amount
	queryPayment    *ledger.Amount
	payment         *ledger.SignedTransaction
	timeout         time.Duration
}

// BuilderOption is a function that sets an option on a query builder
type BuilderOption func(*builderSettings)

// WithMaxQueryPayment sets the most this query is allowed to cost
func WithMaxQueryPayment(amount ledger.Amount) BuilderOption {
	return func(s *builderSettings) {
		s.maxQueryPayment = &amount
	}
}

// WithQueryPayment sets an explicit payment amount, skipping cost lookup
func WithQueryPayment(amount ledger.Amount) BuilderOption {
	return func(s *builderSettings) {
		s.queryPayment = &amount
	}
}

// WithPayment attaches a pre-built signed payment
func WithPayment(tx *ledger.SignedTransaction) BuilderOption {
	return func(s *builderSettings) {
		s.payment = tx
	}
}

// WithTimeout overrides the execute deadline
func WithTimeout(timeout time.Duration) BuilderOption {
	return func(s *builderSettings) {
		s.timeout = timeout
	}
}

// NewBuilder returns a builder for q, which must carry the body that kind expects
func NewBuilder[T any](
	kind Kind[T],
	q *Query,
	opts ...BuilderOption,
) *Builder[T] {
	b := &Builder[T]{
		kind:  kind,
		query: q,
	}
	for _, opt := range opts {
		opt(&b.settings)
	}
	if b.settings.payment != nil {
		kind.Header(q).Payment = b.settings.payment
		b.settings.payment = nil
	}
	return b
}

// SetMaxQueryPayment sets the per-query payment ceiling. It takes precedence
// over the client-wide ceiling
func (b *Builder[T]) SetMaxQueryPayment(amount ledger.Amount) {
	b.settings.maxQueryPayment = &amount
}

// SetQueryPayment sets an explicit payment amount
func (b *Builder[T]) SetQueryPayment(amount ledger.Amount) {
	b.settings.queryPayment = &amount
}

// SetPayment attaches a pre-built signed payment. The query will be sent to the
// node the payment is addressed to
func (b *Builder[T]) SetPayment(tx *ledger.SignedTransaction) {
	b.kind.Header(b.query).Payment = tx
}

// SetTimeout overrides the execute deadline
func (b *Builder[T]) SetTimeout(timeout time.Duration) {
	b.settings.timeout = timeout
}

// ToWire returns the query in its current state
func (b *Builder[T]) ToWire() *Query {
	return b.query
}

// Node returns the node the builder is pinned to, if one has been chosen
func (b *Builder[T]) Node() (Node, bool) {
	if b.node == nil {
		return Node{}, false
	}
	return *b.node, true
}

// Timeout returns the execute deadline in effect
func (b *Builder[T]) Timeout() time.Duration {
	if b.settings.timeout > 0 {
		return b.settings.timeout
	}
	if o, ok := b.kind.(TimeoutOverrider); ok {
		return o.ExecuteTimeout()
	}
	return DefaultExecuteTimeout
}

func (b *Builder[T]) paymentRequired() bool {
	if p, ok := b.kind.(PaymentOptional); ok {
		return p.PaymentRequired()
	}
	return true
}

func (b *Builder[T]) shouldRetry(status Status, resp *Response) bool {
	if r, ok := b.kind.(Retrier); ok {
		return r.ShouldRetry(status, resp)
	}
	return status == StatusBusy
}

// resolveNode picks a random node on first use and pins it
func (b *Builder[T]) resolveNode(client Client) (Node, error) {
	if b.node != nil {
		return *b.node, nil
	}
	node, err := client.RandomNode()
	if err != nil {
		return Node{}, err
	}
	b.node = &node
	return node, nil
}

// maxQueryPayment returns the per-query ceiling, falling back to the client's
func (b *Builder[T]) maxQueryPayment(client Client) (ledger.Amount, bool) {
	if b.settings.maxQueryPayment != nil {
		return *b.settings.maxQueryPayment, true
	}
	return client.MaxQueryPayment()
}
