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


package transport

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/encoding"
	"google.golang.org/grpc/mem"
	"google.golang.org/grpc/status"
)

// codecName is used as the gRPC content-subtype for query payloads
const codecName = "cbor"

// rawCodec passes already-serialized messages through gRPC unchanged
type rawCodec struct{}

// Codec returns the codec used on the wire. Servers answering a GrpcChannel
// install it with grpc.ForceServerCodecV2 and exchange *[]byte messages
func Codec() encoding.CodecV2 {
	return rawCodec{}
}

func (rawCodec) Marshal(v any) (mem.BufferSlice, error) {
	switch msg := v.(type) {
	case *[]byte:
		return mem.BufferSlice{mem.SliceBuffer(*msg)}, nil
	case []byte:
		return mem.BufferSlice{mem.SliceBuffer(msg)}, nil
	default:
		return nil, fmt.Errorf("raw codec cannot marshal %T", v)
	}
}

func (rawCodec) Unmarshal(data mem.BufferSlice, v any) error {
	msg, ok := v.(*[]byte)
	if !ok {
		return fmt.Errorf("raw codec cannot unmarshal into %T", v)
	}
	*msg = data.Materialize()
	return nil
}

func (rawCodec) Name() string {
	return codecName
}

// SubmitError is returned when a unary call to a node fails
type SubmitError struct {
	Address string
	Method  string
	Code    codes.Code
	Err     error
}

func (e SubmitError) Error() string {
	return fmt.Sprintf(
		"%s to %s failed with code %s: %v",
		e.Method,
		e.Address,
		e.Code.String(),
		e.Err,
	)
}

func (e SubmitError) Unwrap() error { return e.Err }

// GrpcChannel submits serialized queries to nodes as unary gRPC calls. It keeps
// one client connection per node address and is safe for concurrent use
type GrpcChannel struct {
	mu          sync.Mutex
	conns       sync.Map // map[string]*grpc.ClientConn
	tlsConfig   *tls.Config
	dialOptions []grpc.DialOption
	logger      *slog.Logger
	closed      bool
}

// GrpcChannelOptionFunc is a type that represents functions that modify the GrpcChannel config
type GrpcChannelOptionFunc func(*GrpcChannel)

// WithTLSConfig enables TLS to nodes with the provided config
func WithTLSConfig(cfg *tls.Config) GrpcChannelOptionFunc {
	return func(c *GrpcChannel) {
		c.tlsConfig = cfg
	}
}

// WithDialOptions adds extra options used when connecting to a node
func WithDialOptions(opts ...grpc.DialOption) GrpcChannelOptionFunc {
	return func(c *GrpcChannel) {
		c.dialOptions = append(c.dialOptions, opts...)
	}
}

// WithLogger specifies the logger to use
func WithLogger(logger *slog.Logger) GrpcChannelOptionFunc {
	return func(c *GrpcChannel) {
		c.logger = logger
	}
}

// NewGrpcChannel returns a new GrpcChannel with the provided options
func NewGrpcChannel(opts ...GrpcChannelOptionFunc) *GrpcChannel {
	c := &GrpcChannel{}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	c.logger = c.logger.With("component", "transport")
	return c
}

// Submit sends request to the node at address and returns the raw reply
func (c *GrpcChannel) Submit(
	ctx context.Context,
	address string,
	request []byte,
	method string,
) ([]byte, error) {
	conn, err := c.conn(address)
	if err != nil {
		return nil, err
	}
	var resp []byte
	if err := conn.Invoke(
		ctx,
		method,
		&request,
		&resp,
		grpc.ForceCodecV2(rawCodec{}),
	); err != nil {
		return nil, SubmitError{
			Address: address,
			Method:  method,
			Code:    status.Code(err),
			Err:     err,
		}
	}
	return resp, nil
}

func (c *GrpcChannel) conn(address string) (*grpc.ClientConn, error) {
	if existing, ok := c.conns.Load(address); ok {
		return existing.(*grpc.ClientConn), nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, errors.New("channel is closed")
	}
	// Another caller may have connected while we waited
	if existing, ok := c.conns.Load(address); ok {
		return existing.(*grpc.ClientConn), nil
	}
	creds := insecure.NewCredentials()
	if c.tlsConfig != nil {
		creds = credentials.NewTLS(c.tlsConfig)
	}
	opts := []grpc.DialOption{
		grpc.WithTransportCredentials(creds),
	}
	opts = append(opts, c.dialOptions...)
	conn, err := grpc.NewClient(address, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create client for %s: %w", address, err)
	}
	c.conns.Store(address, conn)
	c.logger.Debug(
		"created node connection",
		"address", address,
		"tls", c.tlsConfig != nil,
	)
	return conn, nil
}

// Close closes every node connection. The channel cannot be used afterward
func (c *GrpcChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	var errs []error
	c.conns.Range(func(key, value any) bool {
		if err := value.(*grpc.ClientConn).Close(); err != nil {
			errs = append(errs, err)
		}
		c.conns.Delete(key)
		return true
	})
	return errors.Join(errs...)
}
