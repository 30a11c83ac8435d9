package checkout

import (
	"errors"
	"sync"

	"github.com/shopkit/storefront/internal/models"
)

// ErrWizardNotFound is returned for unknown checkout ids.
var ErrWizardNotFound = errors.New("checkout not found")

// Manager tracks in-progress checkouts by id.
type Manager struct {
	mutex   sync.RWMutex
	wizards map[string]*Wizard
	orders  OrderPlacer
}

// NewManager creates an empty checkout registry.
func NewManager(orders OrderPlacer) *Manager {
	return &Manager{
		wizards: make(map[string]*Wizard),
		orders:  orders,
	}
}

// Start opens a new checkout wizard over the given cart and session.
func (m *Manager) Start(cart Cart, session models.Session) *Wizard {
	w := NewWizard(cart, m.orders, session)

	m.mutex.Lock()
	m.wizards[w.ID] = w
	m.mutex.Unlock()

	return w
}

// Get looks up an in-progress checkout.
func (m *Manager) Get(id string) (*Wizard, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	w, ok := m.wizards[id]
	if !ok {
		return nil, ErrWizardNotFound
	}
	return w, nil
}

// Finish removes a completed or abandoned checkout.
func (m *Manager) Finish(id string) {
	m.mutex.Lock()
	delete(m.wizards, id)
	m.mutex.Unlock()
}
