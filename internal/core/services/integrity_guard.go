package services

import "sync"

// IntegrityGuard tracks accounts whose cached balances were found to disagree
// with their posted lines. Postings against a held account are refused until
// an operator investigates and releases the hold. The hold list is in-process
// state; a restart clears it, and the next verification re-detects any
// unresolved mismatch.
type IntegrityGuard struct {
	mu   sync.RWMutex
	held map[string]string // accountID -> reason
}

// NewIntegrityGuard creates an empty guard.
func NewIntegrityGuard() *IntegrityGuard {
	return &IntegrityGuard{held: make(map[string]string)}
}

// Hold places an account on the hold list with a reason.
func (g *IntegrityGuard) Hold(accountID, reason string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.held[accountID] = reason
}

// Release removes an account from the hold list.
func (g *IntegrityGuard) Release(accountID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.held, accountID)
}

// IsHeld reports whether the account is on hold, with the recorded reason.
func (g *IntegrityGuard) IsHeld(accountID string) (string, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	reason, ok := g.held[accountID]
	return reason, ok
}

// AnyHeld returns the first held account among the given IDs, if any.
func (g *IntegrityGuard) AnyHeld(accountIDs []string) (accountID, reason string, held bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, id := range accountIDs {
		if r, ok := g.held[id]; ok {
			return id, r, true
		}
	}
	return "", "", false
}
