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
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/blinklabs-io/ledgerquery/ledger"
)

var (
	// ErrNoNodes indicates that the client has no nodes to choose from
	ErrNoNodes = errors.New("no nodes configured")
	// ErrNodeNotFound indicates a node account that is not in the client's node set
	ErrNodeNotFound = errors.New("node not found")
	// ErrNoOperator indicates that the client has no operator to pay for queries
	ErrNoOperator = errors.New("no operator configured")
)

// ValidationError carries every local precondition that was not met
type ValidationError struct {
	Messages []string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf(
		"local validation failed: %s",
		strings.Join(e.Messages, "; "),
	)
}

// MaxPaymentExceededError indicates that a node quoted more than the configured ceiling
type MaxPaymentExceededError struct {
	Cost       ledger.Amount
	MaxPayment ledger.Amount
}

func (e MaxPaymentExceededError) Error() string {
	return fmt.Sprintf(
		"query cost of %s exceeds max query payment of %s",
		e.Cost.String(),
		e.MaxPayment.String(),
	)
}

// NetworkStatusError indicates a terminal exceptional precheck status.
// PaymentHash identifies the payment that was attached to the rejected query,
// and is zero when none was
type NetworkStatusError struct {
	Status      Status
	Node        ledger.AccountID
	PaymentHash ledger.Blake2b256
}

func (e NetworkStatusError) Error() string {
	return fmt.Sprintf(
		"node %s returned status %s (%d)",
		e.Node.String(),
		e.Status.String(),
		uint32(e.Status),
	)
}

// TimeoutError indicates that the overall deadline elapsed. When HasStatus is
// set, Status holds the status of the last completed attempt. PaymentHash is
// set when a payment had been attached before the deadline
type TimeoutError struct {
	Timeout     time.Duration
	Status      Status
	HasStatus   bool
	PaymentHash ledger.Blake2b256
}

func (e TimeoutError) Error() string {
	if !e.HasStatus {
		return fmt.Sprintf("query timed out after %s", e.Timeout)
	}
	return fmt.Sprintf(
		"query timed out after %s, last status %s",
		e.Timeout,
		e.Status.String(),
	)
}

func (TimeoutError) Unwrap() error { return context.DeadlineExceeded }

// TransportError indicates that the RPC channel itself failed
type TransportError struct {
	Node   Node
	Method string
	Err    error
}

func (e TransportError) Error() string {
	return fmt.Sprintf(
		"failed to submit %s to node %s: %v",
		e.Method,
		e.Node.String(),
		e.Err,
	)
}

func (e TransportError) Unwrap() error { return e.Err }

// UnexpectedResponseError indicates a response that lacks the body for the query kind
type UnexpectedResponseError struct {
	Method string
}

func (e UnexpectedResponseError) Error() string {
	return fmt.Sprintf("response to %s is missing its body", e.Method)
}
