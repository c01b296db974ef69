package store

import (
	"fmt"
	"math/big"
	"sort"
	"sync"

	"github.com/wishplanet/wishplanet/internal/models"
	"github.com/wishplanet/wishplanet/pkg/logger"
)

// Store is the in-memory authoritative cache of wishes. It merges full
// on-chain reads with optimistic local mutations. Every mutation validates
// the uniqueness and monotonicity invariants and leaves the state untouched
// on violation.
//
// Optimistic entries live in a disjoint negative id space so they can never
// collide with contract-assigned ids.
type Store struct {
	logger *logger.Logger

	mu         sync.RWMutex
	generation uint64
	wishes     map[int64]*models.Wish
	bySign     map[models.Sign]map[int64]struct{}
	nextTempID int64
}

// Snapshot is an immutable view of the store at a point in time, safe to
// hand to pure derivations. Wishes are deep copies in ascending id order.
type Snapshot struct {
	Generation uint64
	Wishes     []*models.Wish

	bySign map[models.Sign][]*models.Wish
}

// ForSign returns the wishes attached to one sign, in ascending id order.
// The slice shares the snapshot's copies and must not be mutated.
func (s *Snapshot) ForSign(sign models.Sign) []*models.Wish {
	return s.bySign[sign]
}

func NewStore(logger *logger.Logger) *Store {
	return &Store{
		logger:     logger,
		wishes:     make(map[int64]*models.Wish),
		bySign:     make(map[models.Sign]map[int64]struct{}),
		nextTempID: -1,
	}
}

// ReplaceAll atomically swaps the store contents after a full read. A load
// carrying a generation older than the newest applied one is discarded; the
// bool reports whether the swap happened.
func (s *Store) ReplaceAll(wishes []*models.Wish, generation uint64) (bool, error) {
	next := make(map[int64]*models.Wish, len(wishes))
	nextBySign := make(map[models.Sign]map[int64]struct{})
	for _, w := range wishes {
		if _, dup := next[w.ID]; dup {
			return false, fmt.Errorf("duplicate wish id %d in snapshot", w.ID)
		}
		c := w.Clone()
		next[c.ID] = c
		indexSign(nextBySign, c.Sign, c.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if generation < s.generation {
		s.logger.Debugw("Discarding stale snapshot", "generation", generation, "current", s.generation)
		return false, nil
	}
	s.generation = generation
	s.wishes = next
	s.bySign = nextBySign
	return true, nil
}

// Clear empties the store, e.g. on disconnect or chain mismatch.
func (s *Store) Clear(generation uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if generation < s.generation {
		return
	}
	s.generation = generation
	s.wishes = make(map[int64]*models.Wish)
	s.bySign = make(map[models.Sign]map[int64]struct{})
}

// ApplyOptimistic inserts an unconfirmed wish under a fresh negative id and
// returns that id as the handle for confirmation or rejection.
func (s *Store) ApplyOptimistic(w *models.Wish) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	tempID := s.nextTempID
	s.nextTempID--

	c := w.Clone()
	c.ID = tempID
	c.Confirmed = false
	s.wishes[tempID] = c
	indexSign(s.bySign, c.Sign, tempID)
	return tempID
}

// ConfirmOptimistic replaces the unconfirmed entry with its confirmed form.
// If a racing reload already delivered the confirmed wish, the temp entry is
// simply dropped so the id stays unique.
func (s *Store) ConfirmOptimistic(tempID int64, confirmed *models.Wish) error {
	if confirmed.ID < 0 {
		return fmt.Errorf("confirmed wish must carry a contract-assigned id, got %d", confirmed.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	temp, ok := s.wishes[tempID]
	if !ok {
		return fmt.Errorf("no optimistic entry %d", tempID)
	}
	delete(s.wishes, tempID)
	unindexSign(s.bySign, temp.Sign, tempID)

	if _, exists := s.wishes[confirmed.ID]; exists {
		return nil
	}
	c := confirmed.Clone()
	c.Confirmed = true
	s.wishes[c.ID] = c
	indexSign(s.bySign, c.Sign, c.ID)
	return nil
}

// RejectOptimistic removes an unconfirmed entry after its transaction failed.
func (s *Store) RejectOptimistic(tempID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w, ok := s.wishes[tempID]; ok {
		delete(s.wishes, tempID)
		unindexSign(s.bySign, w.Sign, tempID)
	}
}

// BumpLikes applies a like increment. Negative deltas violate monotonicity
// and are rejected.
func (s *Store) BumpLikes(id int64, delta int64) error {
	if delta < 0 {
		return fmt.Errorf("like delta cannot be negative, got %d", delta)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wishes[id]
	if !ok {
		return fmt.Errorf("no wish %d", id)
	}
	w.Likes += uint64(delta)
	return nil
}

// BumpTips applies a tip increment in base units. Negative deltas violate
// monotonicity and are rejected.
func (s *Store) BumpTips(id int64, delta *big.Int) error {
	if delta == nil || delta.Sign() < 0 {
		return fmt.Errorf("tip delta cannot be negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wishes[id]
	if !ok {
		return fmt.Errorf("no wish %d", id)
	}
	if w.Tips == nil {
		w.Tips = new(big.Int)
	}
	w.Tips.Add(w.Tips, delta)
	return nil
}

// Get returns a copy of a single wish.
func (s *Store) Get(id int64) (*models.Wish, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.wishes[id]
	if !ok {
		return nil, false
	}
	return w.Clone(), true
}

// Len returns the number of wishes, optimistic entries included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.wishes)
}

// Generation returns the generation of the newest applied snapshot.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Snapshot returns an immutable copy of the store contents. Derivations run
// on the snapshot, never on the live store.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wishes := make([]*models.Wish, 0, len(s.wishes))
	for _, w := range s.wishes {
		wishes = append(wishes, w.Clone())
	}
	sort.Slice(wishes, func(i, j int) bool { return wishes[i].ID < wishes[j].ID })

	bySign := make(map[models.Sign][]*models.Wish, len(s.bySign))
	for _, w := range wishes {
		bySign[w.Sign] = append(bySign[w.Sign], w)
	}

	return &Snapshot{Generation: s.generation, Wishes: wishes, bySign: bySign}
}

func indexSign(bySign map[models.Sign]map[int64]struct{}, sign models.Sign, id int64) {
	ids, ok := bySign[sign]
	if !ok {
		ids = make(map[int64]struct{})
		bySign[sign] = ids
	}
	ids[id] = struct{}{}
}

func unindexSign(bySign map[models.Sign]map[int64]struct{}, sign models.Sign, id int64) {
	if ids, ok := bySign[sign]; ok {
		delete(ids, id)
		if len(ids) == 0 {
			delete(bySign, sign)
		}
	}
}
