package limiter

// MockLimiter is a test double for the Limiter interface
type MockLimiter struct {
	// AllowResult is returned by every Allow call
	AllowResult bool

	// Track method calls for verification in tests
	AllowCalls  []string
	CloseCalled bool

	// CloseError is returned by Close, if set
	CloseError error
}

// NewMockLimiter creates a mock limiter that always returns allowResult
func NewMockLimiter(allowResult bool) *MockLimiter {
	return &MockLimiter{
		AllowResult: allowResult,
		AllowCalls:  []string{},
	}
}

// Allow implements the Limiter interface
func (m *MockLimiter) Allow(ip string) bool {
	m.AllowCalls = append(m.AllowCalls, ip)
	return m.AllowResult
}

// Close implements the Limiter interface
func (m *MockLimiter) Close() error {
	m.CloseCalled = true
	return m.CloseError
}
