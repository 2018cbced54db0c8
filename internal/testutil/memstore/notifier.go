package memstore

import "sync"

// Notifications records uow.Notifier calls.
type Notifications struct {
	mu      sync.Mutex
	tenants []string
}

func (n *Notifications) Notify(tenantID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.tenants = append(n.tenants, tenantID)
}

func (n *Notifications) Tenants() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.tenants...)
}
