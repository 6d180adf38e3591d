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


package channel_mock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestConversationOrder(t *testing.T) {
	ch := NewChannel(
		ConversationEntry{Method: "/a", Response: []byte{1}},
		ConversationEntry{Method: "/b", Response: []byte{2}},
	)
	resp, err := ch.Submit(context.Background(), "n1", []byte{0xa}, "/a")
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, resp)
	resp, err = ch.Submit(context.Background(), "n1", []byte{0xb}, "/b")
	require.NoError(t, err)
	assert.Equal(t, []byte{2}, resp)
	_, err = ch.Submit(context.Background(), "n1", nil, "/c")
	assert.ErrorIs(t, err, ErrUnexpectedSubmission)
	calls := ch.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, "/b", calls[1].Method)
	assert.Equal(t, []byte{0xb}, calls[1].Request)
	assert.Equal(t, 0, ch.Remaining())
}

func TestMethodMismatch(t *testing.T) {
	ch := NewChannel(ConversationEntry{Method: "/a"})
	_, err := ch.Submit(context.Background(), "n1", nil, "/b")
	assert.ErrorContains(t, err, "method did not match")
}

func TestRepeat(t *testing.T) {
	ch := NewChannel().Repeat(ConversationEntry{Error: errors.New("down")})
	for range 3 {
		_, err := ch.Submit(context.Background(), "n1", nil, "/a")
		assert.EqualError(t, err, "down")
	}
	assert.Len(t, ch.Calls(), 3)
}

func TestBlockHonorsContext(t *testing.T) {
	defer goleak.VerifyNone(t)
	ch := NewChannel(ConversationEntry{Block: true})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := ch.Submit(ctx, "n1", nil, "/a")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
