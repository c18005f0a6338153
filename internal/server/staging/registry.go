package staging

import (
	"fmt"
	"sync"

	"github.com/dmitrijs2005/authority/internal/server/secrets"
)

// Registry maps verification secrets to staged operations and keeps a
// reverse index from candidate email to its live secret. Both indexes are
// only ever changed together under mu.
type Registry struct {
	mu      sync.Mutex
	gen     secrets.Generator
	bySec   map[string]Operation
	byEmail map[string]string
}

// NewRegistry returns an empty Registry drawing secrets from gen.
func NewRegistry(gen secrets.Generator) *Registry {
	return &Registry{
		gen:     gen,
		bySec:   make(map[string]Operation),
		byEmail: make(map[string]string),
	}
}

// Stage stores op under a fresh secret and returns it. A previous
// operation for the same candidate email is evicted first.
func (r *Registry) Stage(op Operation) (string, error) {
	secret, err := r.gen.Generate()
	if err != nil {
		return "", fmt.Errorf("generate secret: %w", err)
	}

	email := op.CandidateEmail()

	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.byEmail[email]; ok {
		delete(r.bySec, prev)
	}
	r.bySec[secret] = op
	r.byEmail[email] = secret

	return secret, nil
}

// IsStaged reports whether a live operation targets address.
func (r *Registry) IsStaged(address string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.byEmail[address]
	return ok
}

// Resolve consumes the operation stored under secret. On success both
// index entries are removed, so a secret resolves at most once.
func (r *Registry) Resolve(secret string) (Operation, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	op, ok := r.bySec[secret]
	if !ok {
		return nil, false
	}

	delete(r.bySec, secret)
	if cur, ok := r.byEmail[op.CandidateEmail()]; ok && cur == secret {
		delete(r.byEmail, op.CandidateEmail())
	}

	return op, true
}

// Len returns the number of live staged operations.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bySec)
}
