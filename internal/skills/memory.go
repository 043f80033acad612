package skills

import (
	"math"
	"sync"

	"github.com/google/uuid"
)

// Memory is an in-process stand-in for the external skill progression
// system. Profiles are created on first use and count as loaded unless
// marked otherwise.
type Memory struct {
	mu         sync.RWMutex
	levels     map[uuid.UUID]map[Skill]int
	unloaded   map[uuid.UUID]struct{}
	caps       map[Skill]int
	defaultCap int
}

// NewMemory returns a progression where every skill is capped at
// defaultCap. A cap <= 0 means uncapped.
func NewMemory(defaultCap int) *Memory {
	return &Memory{
		levels:     make(map[uuid.UUID]map[Skill]int),
		unloaded:   make(map[uuid.UUID]struct{}),
		caps:       make(map[Skill]int),
		defaultCap: defaultCap,
	}
}

// SetCap overrides the level cap of one skill.
func (m *Memory) SetCap(skill Skill, limit int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.caps[skill] = limit
}

// SetLevel sets a user's level in a skill.
func (m *Memory) SetLevel(id uuid.UUID, skill Skill, level int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.profile(id)[skill] = level
}

// SetProfileLoaded controls what IsProfileLoaded reports for id.
func (m *Memory) SetProfileLoaded(id uuid.UUID, loaded bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if loaded {
		delete(m.unloaded, id)
		return
	}

	m.unloaded[id] = struct{}{}
}

func (m *Memory) SkillLevel(id uuid.UUID, skill Skill) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.levels[id][skill]
}

func (m *Memory) LevelCap(skill Skill) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	limit, ok := m.caps[skill]
	if !ok {
		limit = m.defaultCap
	}

	if limit <= 0 {
		return math.MaxInt32
	}

	return limit
}

func (m *Memory) AddLevels(id uuid.UUID, skill Skill, amount int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.profile(id)[skill] += amount
}

func (m *Memory) IsProfileLoaded(id uuid.UUID) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, unloaded := m.unloaded[id]

	return !unloaded
}

// profile must be called with mu held for writing.
func (m *Memory) profile(id uuid.UUID) map[Skill]int {
	p, ok := m.levels[id]
	if !ok {
		p = make(map[Skill]int)
		m.levels[id] = p
	}

	return p
}
