package wallet

import "sync"

// Session holds the single connected wallet of this process.
// The zero value is a disconnected session.
type Session struct {
	mu      sync.RWMutex
	current *Wallet
}

func NewSession() *Session {
	return &Session{}
}

// Connect replaces the connected wallet.
func (s *Session) Connect(w Wallet) error {
	if !IsValidAddress(w.Address) {
		return ErrInvalidWalletAddress
	}
	if len(w.Signer) == 0 {
		return ErrInvalidSigner
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := w
	s.current = &cp
	return nil
}

func (s *Session) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}

// Current returns the connected wallet, if any.
func (s *Session) Current() (Wallet, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return Wallet{}, false
	}
	return *s.current, true
}
