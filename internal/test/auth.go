package test

import (
	pkgAuth "github.com/merchsys/storefront/internal/pkg/auth"
)

// StrategyStub issues and parses tokens via function overrides.
type StrategyStub struct {
	IssueFn func(pkgAuth.PrincipalKind, int64) (string, error)
	ParseFn func(string) (pkgAuth.PrincipalKind, int64, error)
	Kind    pkgAuth.PrincipalKind
	ID      int64
	Err     error
	NameVal string
}

// IssueToken returns deterministic tokens for tests.
func (s StrategyStub) IssueToken(kind pkgAuth.PrincipalKind, id int64) (string, error) {
	if s.IssueFn != nil {
		return s.IssueFn(kind, id)
	}
	return "token", nil
}

// ParseToken either delegates to an override or returns the predefined principal.
func (s StrategyStub) ParseToken(token string) (pkgAuth.PrincipalKind, int64, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	if s.Err != nil {
		return "", 0, s.Err
	}
	kind := s.Kind
	if kind == "" {
		kind = pkgAuth.PrincipalCustomer
	}
	id := s.ID
	if id == 0 {
		id = 1
	}
	return kind, id, nil
}

// Name returns the strategy identifier used in tests.
func (s StrategyStub) Name() string {
	if s.NameVal != "" {
		return s.NameVal
	}
	return "stub"
}

// VerifierStub answers credential checks with a fixed verdict.
type VerifierStub struct {
	OK bool
}

// Verify reports the configured verdict.
func (s VerifierStub) Verify(password string) bool {
	return s.OK
}

var _ pkgAuth.Strategy = StrategyStub{}
