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
	"math"

	"github.com/blinklabs-io/ledgerquery/ledger"
)

// GetCost asks the pinned node (choosing one if needed) what answering the
// query would cost. The builder's header is left exactly as it was found
func (b *Builder[T]) GetCost(
	ctx context.Context,
	client Client,
) (ledger.Amount, error) {
	timeout := b.Timeout()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	logger := b.logger(client)
	cost, err := b.getCost(ctx, client, logger)
	if err != nil {
		return 0, classifyContextError(ctx, timeout, err)
	}
	return cost, nil
}

func (b *Builder[T]) getCost(
	ctx context.Context,
	client Client,
	logger *slog.Logger,
) (ledger.Amount, error) {
	if err := b.validate(false); err != nil {
		return 0, err
	}
	node, err := b.resolveNode(client)
	if err != nil {
		return 0, err
	}
	operator, err := client.Operator()
	if err != nil {
		return 0, err
	}
	payment, err := client.PaymentBuilder().BuildPayment(
		operator.AccountID,
		node.AccountID,
		0,
		DefaultPaymentMaxFee,
		operator.Signer,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to build cost payment: %w", err)
	}
	var respHeader ResponseHeader
	err = withHeaderState(
		b.kind.Header(b.query),
		ResponseTypeCostAnswer,
		payment,
		func() error {
			clone, err := b.query.Clone()
			if err != nil {
				return err
			}
			resp, err := b.roundTrip(ctx, client, node, clone)
			if err != nil {
				return err
			}
			respHeader, err = b.kind.MapResponseHeader(resp)
			return err
		},
	)
	if err != nil {
		costEstimatesTotal.WithLabelValues(b.kind.Method(), outcomeError).Inc()
		return 0, err
	}
	submissionsTotal.WithLabelValues(
		b.kind.Method(),
		respHeader.Status.String(),
	).Inc()
	logger.Debug(
		"received cost answer",
		"node", node.String(),
		"status", respHeader.Status.String(),
		"cost", respHeader.Cost,
	)
	if respHeader.Status.IsExceptional() {
		costEstimatesTotal.WithLabelValues(b.kind.Method(), outcomeError).Inc()
		return 0, NetworkStatusError{
			Status: respHeader.Status,
			Node:   node.AccountID,
		}
	}
	if respHeader.Cost > math.MaxInt64 {
		costEstimatesTotal.WithLabelValues(b.kind.Method(), outcomeError).Inc()
		return 0, fmt.Errorf(
			"%w: quoted cost %d",
			ledger.ErrAmountOverflow,
			respHeader.Cost,
		)
	}
	costEstimatesTotal.WithLabelValues(b.kind.Method(), outcomeSuccess).Inc()
	return ledger.NewAmount(int64(respHeader.Cost))
}

// withHeaderState sets the response type and payment on header for the
// duration of fn and restores the previous pair on every exit path
func withHeaderState(
	header *Header,
	responseType ResponseType,
	payment *ledger.SignedTransaction,
	fn func() error,
) error {
	prevResponseType := header.ResponseType
	prevPayment := header.Payment
	defer func() {
		header.ResponseType = prevResponseType
		header.Payment = prevPayment
	}()
	header.ResponseType = responseType
	header.Payment = payment
	return fn()
}
