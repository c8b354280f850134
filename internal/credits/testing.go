package credits

// SeedAccount is a test helper that installs an account with a fixed balance
// when using the in-memory ledger.
func SeedAccount(l Ledger, userID, role string, balance int) {
	if mem, ok := l.(*inMemoryLedger); ok {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		mem.accounts[userID] = &account{role: role, balance: balance}
	}
}
