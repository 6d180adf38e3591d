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
	"testing"
	"time"

	"github.com/blinklabs-io/ledgerquery/internal/test/channel_mock"
	"github.com/blinklabs-io/ledgerquery/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestExecuteRequiresPayment(t *testing.T) {
	defer goleak.VerifyNone(t)
	ch := channel_mock.NewChannel()
	client := newTestClient(t, ch)
	q := NewAccountInfoQuery()
	_, err := q.Execute(context.Background(), client)
	var valErr ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(
		t,
		[]string{paymentRequiredMessage, "account ID must be set"},
		valErr.Messages,
	)
	assert.Empty(t, ch.Calls())
	assert.Equal(t, 0, client.randomNodeCalls)
}

func TestExecuteWithPrebuiltPayment(t *testing.T) {
	defer goleak.VerifyNone(t)
	info := testAccountInfo()
	ch := channel_mock.NewChannel(
		channel_mock.ConversationEntry{
			Method:   MethodAccountInfo,
			Address:  testNode4.Address,
			Response: infoResponse(t, StatusOk, 0, info),
		},
	)
	client := newTestClient(t, ch)
	payment, err := client.paymentBuilder.BuildPayment(
		testOperatorID,
		testNode4.AccountID,
		ledger.MustAmount(40),
		DefaultPaymentMaxFee,
		client.operator.Signer,
	)
	require.NoError(t, err)
	q := NewAccountInfoQuery(WithMaxQueryPayment(ledger.MustAmount(1)))
	q.SetAccountID(testTargetID)
	q.SetPayment(payment)
	result, err := q.Execute(context.Background(), client)
	require.NoError(t, err)
	assert.Equal(t, info, result)
	calls := ch.Calls()
	require.Len(t, calls, 1)
	header := decodeInfoRequest(t, calls[0].Request)
	assert.Equal(t, ResponseTypeAnswerOnly, header.ResponseType)
	requirePayment(t, header.Payment, testNode4, ledger.MustAmount(40))
	node, ok := q.Node()
	require.True(t, ok)
	assert.Equal(t, testNode4, node)
	assert.Equal(t, 0, client.randomNodeCalls)
}

func TestExecutePrebuiltPaymentUnknownNode(t *testing.T) {
	ch := channel_mock.NewChannel()
	client := newTestClient(t, ch)
	payment, err := client.paymentBuilder.BuildPayment(
		testOperatorID,
		ledger.NewAccountID(99),
		ledger.MustAmount(40),
		DefaultPaymentMaxFee,
		client.operator.Signer,
	)
	require.NoError(t, err)
	q := NewAccountInfoQuery(WithPayment(payment))
	q.SetAccountID(testTargetID)
	_, err = q.Execute(context.Background(), client)
	assert.ErrorIs(t, err, ErrNodeNotFound)
	assert.Empty(t, ch.Calls())
}

func TestExecuteExplicitQueryPayment(t *testing.T) {
	defer goleak.VerifyNone(t)
	ch := channel_mock.NewChannel(
		channel_mock.ConversationEntry{
			Method:   MethodAccountInfo,
			Address:  testNode3.Address,
			Response: infoResponse(t, StatusOk, 0, testAccountInfo()),
		},
	)
	client := newTestClient(t, ch)
	ceiling := ledger.MustAmount(10)
	client.maxQueryPayment = &ceiling
	q := NewAccountInfoQuery(WithQueryPayment(ledger.MustAmount(25)))
	q.SetAccountID(testTargetID)
	_, err := q.Execute(context.Background(), client)
	require.NoError(t, err)
	calls := ch.Calls()
	require.Len(t, calls, 1)
	header := decodeInfoRequest(t, calls[0].Request)
	assert.Equal(t, ResponseTypeAnswerOnly, header.ResponseType)
	requirePayment(t, header.Payment, testNode3, ledger.MustAmount(25))
}

func TestExecuteNegotiatesPaymentWithinCeiling(t *testing.T) {
	defer goleak.VerifyNone(t)
	info := testAccountInfo()
	ch := channel_mock.NewChannel(
		channel_mock.ConversationEntry{
			Method:   MethodAccountInfo,
			Address:  testNode3.Address,
			Response: infoResponse(t, StatusOk, 80, nil),
		},
		channel_mock.ConversationEntry{
			Method:   MethodAccountInfo,
			Address:  testNode3.Address,
			Response: infoResponse(t, StatusOk, 0, info),
		},
	)
	client := newTestClient(t, ch)
	q := NewAccountInfoQuery(WithMaxQueryPayment(ledger.MustAmount(100)))
	q.SetAccountID(testTargetID)
	result, err := q.Execute(context.Background(), client)
	require.NoError(t, err)
	assert.Equal(t, info, result)
	calls := ch.Calls()
	require.Len(t, calls, 2)
	costHeader := decodeInfoRequest(t, calls[0].Request)
	assert.Equal(t, ResponseTypeCostAnswer, costHeader.ResponseType)
	requirePayment(t, costHeader.Payment, testNode3, 0)
	header := decodeInfoRequest(t, calls[1].Request)
	assert.Equal(t, ResponseTypeAnswerOnly, header.ResponseType)
	requirePayment(t, header.Payment, testNode3, ledger.MustAmount(80))
	// The negotiated payment stays attached after execution
	requirePayment(t, q.ToWire().AccountInfo.Header.Payment, testNode3, ledger.MustAmount(80))
	assert.Equal(t, 1, client.randomNodeCalls)
}

func TestExecuteUsesClientCeiling(t *testing.T) {
	defer goleak.VerifyNone(t)
	ch := channel_mock.NewChannel(
		channel_mock.ConversationEntry{
			Response: infoResponse(t, StatusOk, 80, nil),
		},
		channel_mock.ConversationEntry{
			Response: infoResponse(t, StatusOk, 0, testAccountInfo()),
		},
	)
	client := newTestClient(t, ch)
	ceiling := ledger.MustAmount(100)
	client.maxQueryPayment = &ceiling
	q := NewAccountInfoQuery()
	q.SetAccountID(testTargetID)
	_, err := q.Execute(context.Background(), client)
	require.NoError(t, err)
	assert.Len(t, ch.Calls(), 2)
}

func TestExecuteQueryCeilingOverridesClient(t *testing.T) {
	ch := channel_mock.NewChannel(
		channel_mock.ConversationEntry{
			Response: infoResponse(t, StatusOk, 80, nil),
		},
	)
	client := newTestClient(t, ch)
	ceiling := ledger.MustAmount(1_000)
	client.maxQueryPayment = &ceiling
	q := NewAccountInfoQuery()
	q.SetAccountID(testTargetID)
	q.SetMaxQueryPayment(ledger.MustAmount(50))
	_, err := q.Execute(context.Background(), client)
	var maxErr MaxPaymentExceededError
	require.ErrorAs(t, err, &maxErr)
	assert.Equal(t, ledger.MustAmount(50), maxErr.MaxPayment)
}

func TestExecuteMaxPaymentExceeded(t *testing.T) {
	defer goleak.VerifyNone(t)
	ch := channel_mock.NewChannel(
		channel_mock.ConversationEntry{
			Method:   MethodAccountInfo,
			Response: infoResponse(t, StatusOk, 150, nil),
		},
	)
	client := newTestClient(t, ch)
	q := NewAccountInfoQuery(WithMaxQueryPayment(ledger.MustAmount(100)))
	q.SetAccountID(testTargetID)
	_, err := q.Execute(context.Background(), client)
	var maxErr MaxPaymentExceededError
	require.ErrorAs(t, err, &maxErr)
	assert.Equal(
		t,
		MaxPaymentExceededError{
			Cost:       ledger.MustAmount(150),
			MaxPayment: ledger.MustAmount(100),
		},
		maxErr,
	)
	// Only the cost lookup was sent
	calls := ch.Calls()
	require.Len(t, calls, 1)
	assert.Equal(
		t,
		ResponseTypeCostAnswer,
		decodeInfoRequest(t, calls[0].Request).ResponseType,
	)
	assert.Nil(t, q.ToWire().AccountInfo.Header.Payment)
}

func TestExecuteRetriesOnBusy(t *testing.T) {
	defer goleak.VerifyNone(t)
	delays := stubBackoff(t, 0.75)
	info := testAccountInfo()
	ch := channel_mock.NewChannel(
		channel_mock.ConversationEntry{
			Response: infoResponse(t, StatusBusy, 0, nil),
		},
		channel_mock.ConversationEntry{
			Response: infoResponse(t, StatusBusy, 0, nil),
		},
		channel_mock.ConversationEntry{
			Response: infoResponse(t, StatusOk, 0, info),
		},
	)
	client := newTestClient(t, ch)
	q := NewAccountInfoQuery(WithQueryPayment(ledger.MustAmount(5)))
	q.SetAccountID(testTargetID)
	result, err := q.Execute(context.Background(), client)
	require.NoError(t, err)
	assert.Equal(t, info, result)
	calls := ch.Calls()
	require.Len(t, calls, 3)
	// Every attempt resubmits the same query to the same node
	for _, call := range calls[1:] {
		assert.Equal(t, calls[0].Request, call.Request)
		assert.Equal(t, testNode3.Address, call.Address)
	}
	require.Len(t, *delays, 2)
	for idx, delay := range *delays {
		attempt := idx + 1
		assert.GreaterOrEqual(t, delay, time.Duration(0))
		assert.Less(t, delay, maxBackoffDelay(attempt))
		assert.Equal(t, backoffDelay(attempt, 0.75), delay)
	}
}

func TestExecuteTerminalStatus(t *testing.T) {
	statuses := []Status{
		StatusInvalidSignature,
		StatusInsufficientPayerBalance,
		StatusInvalidAccountID,
		StatusPlatformNotActive,
		StatusUnknown,
		StatusReceiptNotFound,
	}
	for _, status := range statuses {
		t.Run(status.String(), func(t *testing.T) {
			defer goleak.VerifyNone(t)
			delays := stubBackoff(t, 0.5)
			ch := channel_mock.NewChannel(
				channel_mock.ConversationEntry{
					Response: infoResponse(t, status, 0, nil),
				},
			)
			client := newTestClient(t, ch)
			q := NewAccountInfoQuery(WithQueryPayment(ledger.MustAmount(5)))
			q.SetAccountID(testTargetID)
			_, err := q.Execute(context.Background(), client)
			var statusErr NetworkStatusError
			require.ErrorAs(t, err, &statusErr)
			assert.Equal(t, status, statusErr.Status)
			assert.Equal(t, testNode3.AccountID, statusErr.Node)
			calls := ch.Calls()
			require.Len(t, calls, 1)
			sent := decodeInfoRequest(t, calls[0].Request).Payment
			require.NotNil(t, sent)
			assert.Equal(t, sent.Hash(), statusErr.PaymentHash)
			assert.False(t, statusErr.PaymentHash.IsZero())
			assert.Empty(t, *delays)
		})
	}
}

func TestExecuteBusyUntilDeadline(t *testing.T) {
	defer goleak.VerifyNone(t)
	origSleep := sleep
	sleep = func(ctx context.Context, _ time.Duration) error {
		return sleepContext(ctx, time.Millisecond)
	}
	t.Cleanup(func() { sleep = origSleep })
	ch := channel_mock.NewChannel().Repeat(
		channel_mock.ConversationEntry{
			Response: infoResponse(t, StatusBusy, 0, nil),
		},
	)
	client := newTestClient(t, ch)
	q := NewAccountInfoQuery(
		WithQueryPayment(ledger.MustAmount(5)),
		WithTimeout(100*time.Millisecond),
	)
	q.SetAccountID(testTargetID)
	_, err := q.Execute(context.Background(), client)
	var timeoutErr TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.True(t, timeoutErr.HasStatus)
	assert.Equal(t, StatusBusy, timeoutErr.Status)
	assert.Equal(t, 100*time.Millisecond, timeoutErr.Timeout)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	calls := ch.Calls()
	assert.Greater(t, len(calls), 1)
	sent := decodeInfoRequest(t, calls[0].Request).Payment
	require.NotNil(t, sent)
	assert.Equal(t, sent.Hash(), timeoutErr.PaymentHash)
}

func TestExecuteTimeoutWithoutResponse(t *testing.T) {
	defer goleak.VerifyNone(t)
	ch := channel_mock.NewChannel(
		channel_mock.ConversationEntry{Block: true},
	)
	client := newTestClient(t, ch)
	q := NewAccountInfoQuery(
		WithQueryPayment(ledger.MustAmount(5)),
		WithTimeout(20*time.Millisecond),
	)
	q.SetAccountID(testTargetID)
	_, err := q.Execute(context.Background(), client)
	var timeoutErr TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.False(t, timeoutErr.HasStatus)
	assert.Contains(t, err.Error(), "timed out")
}

func TestExecuteTransportError(t *testing.T) {
	defer goleak.VerifyNone(t)
	stubBackoff(t, 0.5)
	connErr := errors.New("connection refused")
	ch := channel_mock.NewChannel(
		channel_mock.ConversationEntry{Error: connErr},
	)
	client := newTestClient(t, ch)
	q := NewAccountInfoQuery(WithQueryPayment(ledger.MustAmount(5)))
	q.SetAccountID(testTargetID)
	_, err := q.Execute(context.Background(), client)
	var transportErr TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, testNode3, transportErr.Node)
	assert.Equal(t, MethodAccountInfo, transportErr.Method)
	assert.ErrorIs(t, err, connErr)
	assert.Len(t, ch.Calls(), 1)
}

func TestExecuteParentCanceled(t *testing.T) {
	defer goleak.VerifyNone(t)
	ch := channel_mock.NewChannel(
		channel_mock.ConversationEntry{Block: true},
	)
	client := newTestClient(t, ch)
	q := NewAccountInfoQuery(WithQueryPayment(ledger.MustAmount(5)))
	q.SetAccountID(testTargetID)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	_, err := q.Execute(ctx, client)
	assert.ErrorIs(t, err, context.Canceled)
	var timeoutErr TimeoutError
	assert.False(t, errors.As(err, &timeoutErr))
}

func TestExecuteMalformedResponse(t *testing.T) {
	ch := channel_mock.NewChannel(
		channel_mock.ConversationEntry{
			Response: balanceResponse(t, StatusOk, 0),
		},
	)
	client := newTestClient(t, ch)
	q := NewAccountInfoQuery(WithQueryPayment(ledger.MustAmount(5)))
	q.SetAccountID(testTargetID)
	_, err := q.Execute(context.Background(), client)
	var respErr UnexpectedResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, MethodAccountInfo, respErr.Method)
}

func TestExecuteNoOperator(t *testing.T) {
	ch := channel_mock.NewChannel()
	client := newTestClient(t, ch)
	client.operator = nil
	q := NewAccountInfoQuery(WithQueryPayment(ledger.MustAmount(5)))
	q.SetAccountID(testTargetID)
	_, err := q.Execute(context.Background(), client)
	assert.ErrorIs(t, err, ErrNoOperator)
	assert.Empty(t, ch.Calls())
}

func TestExecuteNoNodes(t *testing.T) {
	client := newTestClient(t, channel_mock.NewChannel())
	client.nodes = nil
	q := NewAccountBalanceQuery()
	q.SetAccountID(testTargetID)
	_, err := q.Execute(context.Background(), client)
	assert.ErrorIs(t, err, ErrNoNodes)
}

func TestExecuteStatusErrorWithoutPayment(t *testing.T) {
	ch := channel_mock.NewChannel(
		channel_mock.ConversationEntry{
			Response: balanceResponse(t, StatusInvalidAccountID, 0),
		},
	)
	client := newTestClient(t, ch)
	q := NewAccountBalanceQuery()
	q.SetAccountID(testTargetID)
	_, err := q.Execute(context.Background(), client)
	var statusErr NetworkStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.True(t, statusErr.PaymentHash.IsZero())
}

func TestExecuteRejectsInvalidPrebuiltPayment(t *testing.T) {
	testDefs := []struct {
		name    string
		corrupt func(*ledger.SignedTransaction)
		errText string
	}{
		{
			name: "bad signature",
			corrupt: func(tx *ledger.SignedTransaction) {
				tx.Signatures[0].Signature[0] ^= 0xff
			},
			errText: "signature verification failed",
		},
		{
			name: "short public key",
			corrupt: func(tx *ledger.SignedTransaction) {
				tx.Signatures[0].Signature[0] ^= 0xff
				tx.Signatures[0].PublicKey = []byte{1, 2, 3, 4, 5}
			},
			errText: "got 5 bytes, expected 32",
		},
		{
			name: "unsigned",
			corrupt: func(tx *ledger.SignedTransaction) {
				tx.Signatures = nil
			},
			errText: ledger.ErrUnsigned.Error(),
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			defer goleak.VerifyNone(t)
			ch := channel_mock.NewChannel()
			client := newTestClient(t, ch)
			payment, err := client.paymentBuilder.BuildPayment(
				testOperatorID,
				testNode4.AccountID,
				ledger.MustAmount(40),
				DefaultPaymentMaxFee,
				client.operator.Signer,
			)
			require.NoError(t, err)
			testDef.corrupt(payment)
			q := NewAccountInfoQuery()
			q.SetAccountID(testTargetID)
			q.SetPayment(payment)
			_, err = q.Execute(context.Background(), client)
			var valErr ValidationError
			require.ErrorAs(t, err, &valErr)
			require.Len(t, valErr.Messages, 1)
			assert.Contains(t, valErr.Messages[0], paymentInvalidMessage)
			assert.Contains(t, valErr.Messages[0], testDef.errText)
			assert.Empty(t, ch.Calls())
		})
	}
}

func TestClassifyContextError(t *testing.T) {
	expired, cancelExpired := context.WithDeadline(
		context.Background(),
		time.Now().Add(-time.Second),
	)
	defer cancelExpired()
	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	maxErr := MaxPaymentExceededError{
		Cost:       ledger.MustAmount(150),
		MaxPayment: ledger.MustAmount(100),
	}
	statusErr := NetworkStatusError{Status: StatusInvalidSignature}

	// Terminal errors survive a deadline that fired after they were produced
	assert.Equal(t, maxErr, classifyContextError(expired, time.Second, maxErr))
	assert.Equal(t, statusErr, classifyContextError(expired, time.Second, statusErr))

	err := classifyContextError(expired, time.Second, context.DeadlineExceeded)
	var timeoutErr TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, time.Second, timeoutErr.Timeout)
	assert.False(t, timeoutErr.HasStatus)
	assert.True(t, timeoutErr.PaymentHash.IsZero())

	err = classifyContextError(canceled, time.Second, context.Canceled)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, errors.As(err, &timeoutErr))

	// A live context leaves every error alone
	assert.Equal(
		t,
		context.Canceled,
		classifyContextError(context.Background(), time.Second, context.Canceled),
	)
}
