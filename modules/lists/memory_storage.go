package lists

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"
)

// MemoryStorage keeps lists in process memory. A single mutex serializes
// writes, which closes the duplicate-item race.
type MemoryStorage struct {
	mu         sync.RWMutex
	lists      map[int64]*List
	lastListID int64
	lastItemID int64
	now        func() time.Time
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		lists: make(map[int64]*List),
		now:   time.Now,
	}
}

func (s *MemoryStorage) CreateList(_ context.Context, owner, firstItem string) (List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastListID++
	now := s.now()
	l := &List{ID: s.lastListID, OwnerEmail: owner, CreatedAt: now}
	s.lastItemID++
	l.Items = []Item{{ID: s.lastItemID, ListID: l.ID, Text: firstItem, CreatedAt: now}}
	s.lists[l.ID] = l
	return copyList(l), nil
}

func (s *MemoryStorage) GetList(_ context.Context, id int64) (List, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.lists[id]
	if !ok {
		return List{}, ErrListNotFound
	}
	return copyList(l), nil
}

func (s *MemoryStorage) HasItem(_ context.Context, listID int64, text string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.lists[listID]
	if !ok {
		return false, nil
	}
	return slices.ContainsFunc(l.Items, func(it Item) bool { return it.Text == text }), nil
}

func (s *MemoryStorage) AddItem(_ context.Context, listID int64, text string) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lists[listID]
	if !ok {
		return Item{}, ErrListNotFound
	}
	if slices.ContainsFunc(l.Items, func(it Item) bool { return it.Text == text }) {
		return Item{}, ErrDuplicateItem
	}
	s.lastItemID++
	it := Item{ID: s.lastItemID, ListID: listID, Text: text, CreatedAt: s.now()}
	l.Items = append(l.Items, it)
	return it, nil
}

func (s *MemoryStorage) Items(_ context.Context, listID int64) ([]Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.lists[listID]
	if !ok {
		return nil, ErrListNotFound
	}
	return slices.Clone(l.Items), nil
}

func (s *MemoryStorage) ShareList(_ context.Context, listID int64, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lists[listID]
	if !ok {
		return ErrListNotFound
	}
	if i, found := slices.BinarySearch(l.SharedWith, email); !found {
		l.SharedWith = slices.Insert(l.SharedWith, i, email)
	}
	return nil
}

func (s *MemoryStorage) ListsOwnedBy(_ context.Context, email string) ([]List, error) {
	return s.filter(func(l *List) bool { return l.OwnerEmail == email }), nil
}

func (s *MemoryStorage) ListsSharedWith(_ context.Context, email string) ([]List, error) {
	return s.filter(func(l *List) bool {
		_, found := slices.BinarySearch(l.SharedWith, email)
		return found
	}), nil
}

func (s *MemoryStorage) filter(match func(*List) bool) []List {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []List
	for _, l := range s.lists {
		if match(l) {
			out = append(out, copyList(l))
		}
	}
	slices.SortFunc(out, func(a, b List) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

func copyList(l *List) List {
	c := *l
	c.Items = slices.Clone(l.Items)
	c.SharedWith = slices.Clone(l.SharedWith)
	return c
}
