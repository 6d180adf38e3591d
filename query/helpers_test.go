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
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/blinklabs-io/ledgerquery/cbor"
	"github.com/blinklabs-io/ledgerquery/ledger"
	"github.com/stretchr/testify/require"
)

var (
	testNode3 = Node{
		AccountID: ledger.NewAccountID(3),
		Address:   "node3.example.com:50211",
	}
	testNode4 = Node{
		AccountID: ledger.NewAccountID(4),
		Address:   "node4.example.com:50211",
	}
	testOperatorID = ledger.NewAccountID(1001)
	testTargetID   = ledger.NewAccountID(2002)
)

type testClient struct {
	nodes           []Node
	operator        *Operator
	maxQueryPayment *ledger.Amount
	channel         Channel
	paymentBuilder  PaymentBuilder
	randomNodeCalls int
}

func newTestSigner(t *testing.T) *ledger.Ed25519Signer {
	signer, err := ledger.NewEd25519SignerFromSeed(bytes.Repeat([]byte{0x07}, 32))
	require.NoError(t, err)
	return signer
}

func newTestClient(t *testing.T, channel Channel) *testClient {
	return &testClient{
		nodes: []Node{testNode3, testNode4},
		operator: &Operator{
			AccountID: testOperatorID,
			Signer:    newTestSigner(t),
		},
		channel:        channel,
		paymentBuilder: ledger.NewTransferPaymentBuilder(),
	}
}

func (c *testClient) RandomNode() (Node, error) {
	c.randomNodeCalls++
	if len(c.nodes) == 0 {
		return Node{}, ErrNoNodes
	}
	return c.nodes[0], nil
}

func (c *testClient) NodeByAccountID(id ledger.AccountID) (Node, error) {
	for _, node := range c.nodes {
		if node.AccountID == id {
			return node, nil
		}
	}
	return Node{}, ErrNodeNotFound
}

func (c *testClient) Operator() (Operator, error) {
	if c.operator == nil {
		return Operator{}, ErrNoOperator
	}
	return *c.operator, nil
}

func (c *testClient) MaxQueryPayment() (ledger.Amount, bool) {
	if c.maxQueryPayment == nil {
		return 0, false
	}
	return *c.maxQueryPayment, true
}

func (c *testClient) Channel() Channel { return c.channel }

func (c *testClient) PaymentBuilder() PaymentBuilder { return c.paymentBuilder }

func (c *testClient) Logger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func encodeResponse(t *testing.T, resp *Response) []byte {
	data, err := resp.Encode()
	require.NoError(t, err)
	return data
}

func infoResponse(
	t *testing.T,
	status Status,
	cost uint64,
	info *AccountInfo,
) []byte {
	return encodeResponse(t, &Response{
		AccountInfo: &AccountInfoResponse{
			Header: ResponseHeader{
				Status: status,
				Cost:   cost,
			},
			Info: info,
		},
	})
}

func balanceResponse(
	t *testing.T,
	status Status,
	balance ledger.Amount,
) []byte {
	return encodeResponse(t, &Response{
		AccountBalance: &AccountBalanceResponse{
			Header: ResponseHeader{
				Status: status,
			},
			AccountID: testTargetID,
			Balance:   balance,
		},
	})
}

func receiptResponse(
	t *testing.T,
	status Status,
	receipt *TransactionReceipt,
) []byte {
	return encodeResponse(t, &Response{
		TransactionReceipt: &TransactionReceiptResponse{
			Header: ResponseHeader{
				Status: status,
			},
			Receipt: receipt,
		},
	})
}

func testAccountInfo() *AccountInfo {
	return &AccountInfo{
		AccountID:         testTargetID,
		Key:               bytes.Repeat([]byte{0xab}, 32),
		Balance:           ledger.MustAmount(12_345),
		ExpirationSeconds: 1_700_000_000,
		AutoRenewSeconds:  7_776_000,
		Memo:              "test account",
	}
}

// decodeInfoRequest returns the header of a submitted account info query
func decodeInfoRequest(t *testing.T, req []byte) Header {
	q, err := DecodeQuery(req)
	require.NoError(t, err)
	require.NotNil(t, q.AccountInfo)
	return q.AccountInfo.Header
}

// requirePayment checks that payment is a verified transfer of amount to node
func requirePayment(
	t *testing.T,
	payment *ledger.SignedTransaction,
	node Node,
	amount ledger.Amount,
) {
	t.Helper()
	require.NotNil(t, payment)
	require.NoError(t, payment.Verify())
	body, err := payment.Body()
	require.NoError(t, err)
	require.Equal(t, node.AccountID, body.NodeAccountID)
	require.Equal(t, testOperatorID, body.TransactionID.AccountID)
	require.Equal(t, DefaultPaymentMaxFee, body.TransactionFee)
	paid, err := ledger.PaymentAmount(payment)
	require.NoError(t, err)
	require.Equal(t, amount, paid)
}

func headerSnapshot(t *testing.T, h *Header) []byte {
	data, err := cbor.Encode(h)
	require.NoError(t, err)
	return data
}

// stubBackoff makes the backoff deterministic and records requested delays.
// Delays are not actually waited
func stubBackoff(t *testing.T, r float64) *[]time.Duration {
	origSleep := sleep
	origRand := randFloat64
	delays := &[]time.Duration{}
	sleep = func(ctx context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return ctx.Err()
	}
	randFloat64 = func() float64 { return r }
	t.Cleanup(func() {
		sleep = origSleep
		randFloat64 = origRand
	})
	return delays
}
