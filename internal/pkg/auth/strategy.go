package auth

import "time"

// PrincipalKind tags who a token was issued to.
type PrincipalKind string

const (
	PrincipalCustomer PrincipalKind = "customer"
	PrincipalAdmin    PrincipalKind = "admin"
)

// Strategy issues and verifies signed bearer tokens.
type Strategy interface {
	IssueToken(kind PrincipalKind, id int64) (string, error)
	ParseToken(token string) (PrincipalKind, int64, error)
	Name() string
}

// Options tune token strategy behaviour.
type Options struct {
	TTL time.Duration
}
