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
	"log/slog"
	"time"

	"github.com/blinklabs-io/ledgerquery/ledger"
	"github.com/google/uuid"
)

// Execute resolves payment, validates the query and submits it to the pinned
// node, resubmitting with randomized exponential backoff while the node
// reports a retryable status. The whole operation is bounded by Timeout
func (b *Builder[T]) Execute(ctx context.Context, client Client) (T, error) {
	timeout := b.Timeout()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	logger := b.logger(client)
	start := time.Now()
	ret, err := b.execute(ctx, client, logger, timeout)
	executeDuration.WithLabelValues(
		b.kind.Method(),
		outcomeOf(err),
	).Observe(time.Since(start).Seconds())
	if err != nil {
		logger.Debug("query failed", "error", err)
	}
	return ret, err
}

func (b *Builder[T]) execute(
	ctx context.Context,
	client Client,
	logger *slog.Logger,
	timeout time.Duration,
) (T, error) {
	var ret T
	node, err := b.resolvePayment(ctx, client, logger)
	if err != nil {
		return ret, classifyContextError(ctx, timeout, err)
	}
	if err := b.validate(true); err != nil {
		return ret, err
	}
	reqData, err := b.query.Encode()
	if err != nil {
		return ret, fmt.Errorf("failed to encode query: %w", err)
	}
	paymentHash := b.paymentHash()
	logger = logger.With("node", node.String())
	var lastStatus *Status
	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			delay := backoffDelay(attempt, randFloat64())
			logger.Debug(
				"retrying query",
				"attempt", attempt,
				"delay", delay,
				"status", lastStatus,
			)
			busyRetriesTotal.WithLabelValues(b.kind.Method()).Inc()
			if err := sleep(ctx, delay); err != nil {
				return ret, contextError(ctx, timeout, lastStatus, paymentHash)
			}
		}
		respData, err := submit(ctx, client.Channel(), node, b.kind.Method(), reqData)
		if err != nil {
			if ctx.Err() != nil {
				return ret, contextError(ctx, timeout, lastStatus, paymentHash)
			}
			return ret, TransportError{
				Node:   node,
				Method: b.kind.Method(),
				Err:    err,
			}
		}
		resp, err := DecodeResponse(respData)
		if err != nil {
			return ret, err
		}
		respHeader, err := b.kind.MapResponseHeader(resp)
		if err != nil {
			return ret, err
		}
		status := respHeader.Status
		lastStatus = &status
		submissionsTotal.WithLabelValues(b.kind.Method(), status.String()).Inc()
		logger.Debug(
			"received response",
			"attempt", attempt,
			"status", status.String(),
		)
		if b.shouldRetry(status, resp) {
			continue
		}
		if status.IsExceptional() {
			return ret, NetworkStatusError{
				Status:      status,
				Node:        node.AccountID,
				PaymentHash: paymentHash,
			}
		}
		return b.kind.MapResult(resp)
	}
}

// resolvePayment settles which node the query goes to and what payment, if
// any, is attached to it
func (b *Builder[T]) resolvePayment(
	ctx context.Context,
	client Client,
	logger *slog.Logger,
) (Node, error) {
	if !b.paymentRequired() {
		return b.resolveNode(client)
	}
	header := b.kind.Header(b.query)
	// Pre-built payment: the query must go where the payment goes
	if header.Payment != nil {
		nodeID, err := client.PaymentBuilder().PaymentNodeAccountID(header.Payment)
		if err != nil {
			return Node{}, err
		}
		node, err := client.NodeByAccountID(nodeID)
		if err != nil {
			return Node{}, err
		}
		b.node = &node
		return node, nil
	}
	if b.settings.queryPayment != nil {
		node, err := b.resolveNode(client)
		if err != nil {
			return Node{}, err
		}
		if err := b.attachPayment(client, logger, node, *b.settings.queryPayment); err != nil {
			return Node{}, err
		}
		return node, nil
	}
	if maxPayment, ok := b.maxQueryPayment(client); ok {
		node, err := b.resolveNode(client)
		if err != nil {
			return Node{}, err
		}
		cost, err := b.getCost(ctx, client, logger)
		if err != nil {
			return Node{}, err
		}
		if cost.GreaterThan(maxPayment) {
			return Node{}, MaxPaymentExceededError{
				Cost:       cost,
				MaxPayment: maxPayment,
			}
		}
		logger.Debug(
			"negotiated query payment",
			"cost", cost.String(),
			"max_payment", maxPayment.String(),
		)
		if err := b.attachPayment(client, logger, node, cost); err != nil {
			return Node{}, err
		}
		return node, nil
	}
	// Validation reports the missing payment
	if b.node != nil {
		return *b.node, nil
	}
	return Node{}, nil
}

func (b *Builder[T]) attachPayment(
	client Client,
	logger *slog.Logger,
	node Node,
	amount ledger.Amount,
) error {
	operator, err := client.Operator()
	if err != nil {
		return err
	}
	payment, err := client.PaymentBuilder().BuildPayment(
		operator.AccountID,
		node.AccountID,
		amount,
		DefaultPaymentMaxFee,
		operator.Signer,
	)
	if err != nil {
		return fmt.Errorf("failed to build query payment: %w", err)
	}
	logger.Debug(
		"attached query payment",
		"node", node.String(),
		"amount", amount.String(),
		"payment_hash", payment.Hash().String(),
	)
	b.kind.Header(b.query).Payment = payment
	return nil
}

// paymentHash returns the hash of the attached payment, or the zero hash
func (b *Builder[T]) paymentHash() ledger.Blake2b256 {
	if payment := b.kind.Header(b.query).Payment; payment != nil {
		return payment.Hash()
	}
	return ledger.Blake2b256{}
}

// roundTrip submits q to node and decodes the reply
func (b *Builder[T]) roundTrip(
	ctx context.Context,
	client Client,
	node Node,
	q *Query,
) (*Response, error) {
	reqData, err := q.Encode()
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}
	respData, err := submit(ctx, client.Channel(), node, b.kind.Method(), reqData)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, TransportError{
			Node:   node,
			Method: b.kind.Method(),
			Err:    err,
		}
	}
	return DecodeResponse(respData)
}

func (b *Builder[T]) logger(client Client) *slog.Logger {
	logger := client.Logger()
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With(
		"component", "query",
		"method", b.kind.Method(),
		"query_id", uuid.NewString(),
	)
}

type submitResult struct {
	data []byte
	err  error
}

// submit calls the channel and returns as soon as either the channel answers
// or ctx is done. A late answer is discarded
func submit(
	ctx context.Context,
	channel Channel,
	node Node,
	method string,
	req []byte,
) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	resultChan := make(chan submitResult, 1)
	go func() {
		data, err := channel.Submit(ctx, node.Address, req, method)
		resultChan <- submitResult{data: data, err: err}
	}()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-resultChan:
		return res.data, res.err
	}
}

// classifyContextError converts err into the error returned to callers when it
// was caused by ctx ending. Any other error is returned unchanged, even if ctx
// has ended since
func classifyContextError(
	ctx context.Context,
	timeout time.Duration,
	err error,
) error {
	if ctx.Err() == nil {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) {
		return contextError(ctx, timeout, nil, ledger.Blake2b256{})
	}
	return err
}

// contextError converts the end of ctx into the error returned to callers
func contextError(
	ctx context.Context,
	timeout time.Duration,
	lastStatus *Status,
	paymentHash ledger.Blake2b256,
) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		ret := TimeoutError{
			Timeout:     timeout,
			PaymentHash: paymentHash,
		}
		if lastStatus != nil {
			ret.Status = *lastStatus
			ret.HasStatus = true
		}
		return ret
	}
	return fmt.Errorf("query canceled: %w", ctx.Err())
}
