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

package corehttp

import (
	"io"
	"net/http"
)

// Sender is the write half of a channel body: a producer goroutine pushes
// chunks in and signals completion or failure, grounded on
// original_source/src/body/channel.rs's `Sender`/`channel` pair.
type Sender struct {
	chunks  chan []byte
	errs    chan error
	done    chan struct{}
	trailer *http.Header
}

// NewChannelBody creates a paired [Sender] and channel [Body]. The body's
// reader blocks until the sender sends a chunk, closes, or aborts.
func NewChannelBody() (Sender, Body) {
	s := Sender{
		chunks:  make(chan []byte, 1),
		errs:    make(chan error, 1),
		done:    make(chan struct{}),
		trailer: new(http.Header),
	}
	return s, channelBody{sender: s}
}

// Send pushes a chunk to the reader; it blocks if the reader has not yet
// consumed the previous chunk.
func (s Sender) Send(chunk []byte) {
	select {
	case s.chunks <- chunk:
	case <-s.done:
	}
}

// Close signals that no more chunks will be sent.
func (s Sender) Close() {
	close(s.chunks)
}

// CloseWithTrailer signals that no more chunks will be sent and that
// trailer should be returned from the body's Trailer once the reader has
// drained to EOF.
func (s Sender) CloseWithTrailer(trailer http.Header) {
	*s.trailer = trailer
	close(s.chunks)
}

// Abort signals the reader that producing the body failed with err; the
// reader surfaces err from its next Read call.
func (s Sender) Abort(err error) {
	s.errs <- err
	close(s.chunks)
}

type channelBody struct {
	sender Sender
}

// Channel returns the Body half of a sender/body pair created elsewhere;
// exposed for constructing a channel body from an existing Sender, e.g.
// after recovering one from an Extensions bag.
func Channel(s Sender) Body { return channelBody{sender: s} }

func (channelBody) SizeHint() SizeHint { return SizeHint{Lower: 0, Upper: nil} }

func (b channelBody) Reader() io.ReadCloser {
	return &channelReader{sender: b.sender}
}

// Trailer returns whatever was passed to CloseWithTrailer; nil before the
// sender closes or if Close was used instead.
func (b channelBody) Trailer() http.Header {
	if b.sender.trailer == nil {
		return nil
	}
	return *b.sender.trailer
}

func (channelBody) bodyMarker() {}

type channelReader struct {
	sender  Sender
	pending []byte
	err     error
	closed  bool
}

func (r *channelReader) Read(p []byte) (int, error) {
	for len(r.pending) == 0 {
		if r.closed {
			if r.err != nil {
				return 0, r.err
			}
			return 0, io.EOF
		}
		chunk, ok := <-r.sender.chunks
		if !ok {
			r.closed = true
			select {
			case err := <-r.sender.errs:
				r.err = err
			default:
			}
			continue
		}
		r.pending = chunk
	}
	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}

func (r *channelReader) Close() error {
	select {
	case <-r.sender.done:
	default:
		close(r.sender.done)
	}
	return nil
}
