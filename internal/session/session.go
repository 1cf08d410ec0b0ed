// Package session tracks the single piece of mutable protocol state
// every transport shares: whether initialize has completed, what the
// client told us about itself, and which protocol version was
// negotiated.
//
// The spec treats the initialized flag as per-logical-session, but
// notes that in this single-process implementation there is, in
// practice, exactly one such session: one per stdio connection
// (trivially, since each stdio transport instance owns the whole
// process), and one shared instance for the HTTP+SSE transport's
// request-posting endpoint. A sync.Mutex is the session lock the
// concurrency model names explicitly — it is held only long enough to
// read or flip the flag, never across a handler invocation.
package session

import (
	"sync"

	"github.com/nlpresearchai/dynamicmcp/pkg/mcp"
)

// Session is the mutable state attached to one protocol connection.
type Session struct {
	mu              sync.Mutex
	initialized     bool
	clientInfo      *mcp.ImplementationSchema
	protocolVersion string
}

// New returns a fresh, uninitialized session.
func New() *Session {
	return &Session{}
}

// Initialized reports whether initialize has already completed.
func (s *Session) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

// Initialize records the client's self-description and marks the
// session initialized. The protocol engine permits a repeat initialize
// to re-negotiate and overwrite the recorded client info — the spec
// only requires the transition happen on a successful call, not that
// later calls are rejected.
func (s *Session) Initialize(clientInfo mcp.ImplementationSchema) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initialized = true
	s.clientInfo = &clientInfo
	s.protocolVersion = mcp.LatestProtocolVersion
}

// ClientInfo returns the recorded client implementation info, or nil if
// the session has not been initialized.
func (s *Session) ClientInfo() *mcp.ImplementationSchema {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clientInfo
}

// ProtocolVersion returns the negotiated protocol version, empty if not
// yet initialized.
func (s *Session) ProtocolVersion() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.protocolVersion
}
