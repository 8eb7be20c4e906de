package server

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/google/uuid"

	"github.com/JackieChiles/Cinch/internal/engine"
)

var anonColors = []string{
	"Amber", "Azure", "Cerulean", "Crimson", "Emerald", "Fuchsia",
	"Indigo", "Ivory", "Mauve", "Scarlet", "Teal", "Violet",
}

var anonAnimals = []string{
	"Armadillo", "Badger", "Capuchin", "Dingo", "Gecko", "Heron",
	"Ibex", "Lemur", "Marmot", "Ocelot", "Pangolin", "Wombat",
}

// UserManager issues ephemeral identities for connected clients.
type UserManager struct {
	mu    sync.Mutex
	rng   *rand.Rand
	users map[string]engine.User
}

func NewUserManager(seed int64) *UserManager {
	return &UserManager{
		rng:   rand.New(rand.NewSource(seed)),
		users: map[string]engine.User{},
	}
}

// NewUser mints a UUID identity, generating an anonymous display name
// when the client did not supply one.
func (m *UserManager) NewUser(name string) engine.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if name == "" {
		name = m.anonymousNameLocked()
	}
	u := engine.User{ID: uuid.NewString(), Name: name}
	m.users[u.ID] = u
	return u
}

func (m *UserManager) Get(id string) (engine.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	return u, ok
}

func (m *UserManager) Rename(id, name string) (engine.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return engine.User{}, false
	}
	u.Name = name
	m.users[id] = u
	return u, true
}

// Remove forgets an identity. Safe to call for unknown IDs.
func (m *UserManager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
}

func (m *UserManager) anonymousNameLocked() string {
	return fmt.Sprintf("%s %s",
		anonColors[m.rng.Intn(len(anonColors))],
		anonAnimals[m.rng.Intn(len(anonAnimals))])
}
