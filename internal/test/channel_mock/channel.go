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
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ConversationEntry is a single expected submission and the canned reply to it
type ConversationEntry struct {
	// Method is the expected RPC method. An empty value matches any method
	Method string
	// Address is the expected node address. An empty value matches any address
	Address string
	// Request is the expected request body. A nil value matches any request
	Request []byte
	// InputFunc is called with the request before a reply is produced
	InputFunc func(request []byte) error
	// Response is returned as the reply when ResponseFunc is nil
	Response []byte
	// ResponseFunc generates the reply from the request
	ResponseFunc func(request []byte) ([]byte, error)
	// Error is returned instead of a reply
	Error error
	// Delay is waited before replying, or until the context is done
	Delay time.Duration
	// Block never replies and returns once the context is done
	Block bool
}

// Call records a submission seen by the mock channel
type Call struct {
	Address string
	Method  string
	Request []byte
}

// ErrUnexpectedSubmission is returned when the conversation has no entries left
var ErrUnexpectedSubmission = errors.New("unexpected submission")

// Channel mocks an RPC channel by replaying a conversation
type Channel struct {
	mu           sync.Mutex
	conversation []ConversationEntry
	repeat       *ConversationEntry
	calls        []Call
}

// NewChannel returns a new Channel with the provided conversation entries
func NewChannel(conversation ...ConversationEntry) *Channel {
	return &Channel{
		conversation: conversation,
	}
}

// Repeat sets an entry that answers every submission after the conversation runs out
func (c *Channel) Repeat(entry ConversationEntry) *Channel {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.repeat = &entry
	return c
}

// Submit satisfies the query.Channel interface
func (c *Channel) Submit(
	ctx context.Context,
	address string,
	request []byte,
	method string,
) ([]byte, error) {
	entry, err := c.next(address, request, method)
	if err != nil {
		return nil, err
	}
	if entry.Method != "" && entry.Method != method {
		return nil, fmt.Errorf(
			"method did not match expected value: expected %s, got %s",
			entry.Method,
			method,
		)
	}
	if entry.Address != "" && entry.Address != address {
		return nil, fmt.Errorf(
			"address did not match expected value: expected %s, got %s",
			entry.Address,
			address,
		)
	}
	if entry.Request != nil && !bytes.Equal(entry.Request, request) {
		return nil, fmt.Errorf(
			"request did not match expected value: expected %x, got %x",
			entry.Request,
			request,
		)
	}
	if entry.InputFunc != nil {
		if err := entry.InputFunc(request); err != nil {
			return nil, err
		}
	}
	if entry.Block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if entry.Delay > 0 {
		timer := time.NewTimer(entry.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	if entry.Error != nil {
		return nil, entry.Error
	}
	if entry.ResponseFunc != nil {
		return entry.ResponseFunc(request)
	}
	return entry.Response, nil
}

func (c *Channel) next(
	address string,
	request []byte,
	method string,
) (ConversationEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	reqCopy := make([]byte, len(request))
	copy(reqCopy, request)
	c.calls = append(c.calls, Call{
		Address: address,
		Method:  method,
		Request: reqCopy,
	})
	if len(c.conversation) > 0 {
		entry := c.conversation[0]
		c.conversation = c.conversation[1:]
		return entry, nil
	}
	if c.repeat != nil {
		return *c.repeat, nil
	}
	return ConversationEntry{}, fmt.Errorf(
		"%w: %s to %s",
		ErrUnexpectedSubmission,
		method,
		address,
	)
}

// Calls returns every submission seen so far
func (c *Channel) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	ret := make([]Call, len(c.calls))
	copy(ret, c.calls)
	return ret
}

// Remaining returns the number of conversation entries not yet consumed
func (c *Channel) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.conversation)
}
