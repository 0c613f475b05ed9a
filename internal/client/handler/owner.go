package handler

import "sync/atomic"

// OwnerExpiry is a weak handle an owner hands to RegisterHandler. Once the
// owner calls Expire (on teardown — a closed UI panel, a torn-down scene),
// every callback holding this handle silently no-ops instead of firing
// against state that no longer exists. A nil *OwnerExpiry never expires.
type OwnerExpiry struct {
	expired atomic.Bool
}

func NewOwnerExpiry() *OwnerExpiry { return &OwnerExpiry{} }

// Expire marks every callback registered against this handle as dead.
func (o *OwnerExpiry) Expire() { o.expired.Store(true) }

func (o *OwnerExpiry) isExpired() bool {
	return o != nil && o.expired.Load()
}
