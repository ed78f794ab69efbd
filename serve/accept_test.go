// Copyright 2025 The Rivaas Authors
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

package serve

import (
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChainRunsInOrder(t *testing.T) {
	var order []int
	mk := func(i int) Acceptor {
		return AcceptorFunc(func(conn net.Conn) (net.Conn, error) {
			order = append(order, i)
			return conn, nil
		})
	}

	chain := Chain(mk(1), mk(2), mk(3))
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	_, err := chain.Accept(server)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestChainStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	failing := AcceptorFunc(func(conn net.Conn) (net.Conn, error) {
		return nil, boom
	})
	ranSecond := false
	second := AcceptorFunc(func(conn net.Conn) (net.Conn, error) {
		ranSecond = true
		return conn, nil
	})

	chain := Chain(failing, second)
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	_, err := chain.Accept(server)
	assert.ErrorIs(t, err, boom)
	assert.False(t, ranSecond)
}

func TestChainEmptyIsIdentity(t *testing.T) {
	chain := Chain()
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	out, err := chain.Accept(server)
	require.NoError(t, err)
	assert.Equal(t, server, out)
}

func TestNoDelayPassesThroughNonTCPConn(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	out, err := NoDelay.Accept(server)
	require.NoError(t, err)
	assert.Equal(t, server, out)
}
