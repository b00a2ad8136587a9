package standings

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/openplayhq/rally/internal/domain/model"
	"github.com/openplayhq/rally/pkg/metrics"
)

// Treap-based, in-memory Store implementation.
//
// Ordering: wins DESC, then player name ASC (deterministic). The BST
// comparator treats "less" as "ranks earlier", so in-order traversal
// produces the standings from best to worst.

// Default snapshot cadence and cache size.
const (
	defaultSnapshotInterval = 5 * time.Second
	defaultTopCacheSize     = 100
)

// tally stores one player's counters behind the treap.
type tally struct {
	wins  int
	games int
}

// Snapshot is an immutable copy of the standings published periodically
// for cheap concurrent reads.
type Snapshot struct {
	// Rank and wins in O(1) for reads
	RankByPlayer map[string]int
	WinsByPlayer map[string]int

	// TopCache holds the best rows, sorted, capped at the cache size.
	TopCache []Entry
}

// treap node
type node struct {
	name  string
	wins  int
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}

	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less returns true if (aWins, aName) should appear before
// (bWins, bName) in the standings (more wins first).
func less(aWins int, aName string, bWins int, bName string) bool {
	if aWins != bWins {
		return aWins > bWins // more wins ranks earlier
	}

	return aName < bName // tie-breaker by name asc
}

func rotateRight(y *node) *node {
	x := y.left
	t2 := x.right
	x.right = y
	y.left = t2
	fix(y)
	fix(x)

	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	t2 := y.left
	y.left = x
	x.right = t2
	fix(x)
	fix(y)

	return y
}

// winsToPriority keeps players with larger tallies near the root. Win
// counts are never negative, so the count itself serves as priority.
func winsToPriority(wins int) uint64 {
	return uint64(wins)
}

func insert(n *node, name string, wins int) *node {
	if n == nil {
		return &node{name: name, wins: wins, prio: winsToPriority(wins), size: 1}
	}
	if less(wins, name, n.wins, n.name) {
		n.left = insert(n.left, name, wins)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, name, wins)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)

	return n
}

func deleteNode(n *node, name string, wins int) *node {
	if n == nil {
		return nil
	}
	if wins == n.wins && name == n.name {
		// Merge children by rotating highest priority up until leaf.
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, name, wins)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, name, wins)
		}
	} else if less(wins, name, n.wins, n.name) {
		n.left = deleteNode(n.left, name, wins)
	} else {
		n.right = deleteNode(n.right, name, wins)
	}
	fix(n)

	return n
}

// collectTopN appends up to limit entries in rank order (most wins
// first), leaving ranks for the caller to assign.
func collectTopN(n *node, limit int, byName map[string]tally, out *[]Entry) {
	if n == nil || len(*out) >= limit {
		return
	}

	collectTopN(n.left, limit, byName, out)

	if len(*out) < limit {
		if t, ok := byName[n.name]; ok {
			*out = append(*out, Entry{Player: n.name, Wins: t.wins, Games: t.games})
		}
	}

	if len(*out) < limit {
		collectTopN(n.right, limit, byName, out)
	}
}

// collectAll appends all entries in rank order (most wins first).
func collectAll(n *node, byName map[string]tally, out *[]Entry) {
	if n == nil {
		return
	}
	collectAll(n.left, byName, out)
	if t, ok := byName[n.name]; ok {
		*out = append(*out, Entry{Player: n.name, Wins: t.wins, Games: t.games})
	}
	collectAll(n.right, byName, out)
}

// assignRanksWithTies assigns dense ranks: players with the same win
// count share a rank and the next distinct count takes the next rank.
func assignRanksWithTies(entries []Entry) {
	if len(entries) == 0 {
		return
	}

	currentRank := 1
	for i := 0; i < len(entries); i++ {
		entries[i].Rank = currentRank

		sameCount := 1
		for j := i + 1; j < len(entries) && entries[j].Wins == entries[i].Wins; j++ {
			entries[j].Rank = currentRank
			sameCount++
		}

		currentRank++
		i += sameCount - 1
	}
}

// TreapStore implements Store on an in-memory treap.
type TreapStore struct {
	mu     sync.RWMutex
	root   *node
	byName map[string]tally

	snapshotInterval time.Duration
	topCacheSize     int

	// snapshot is the atomically published read-optimized copy
	snapshot atomic.Pointer[Snapshot]

	wg       sync.WaitGroup
	stopChan chan struct{}
}

// NewTreapStore constructs a standings store with configuration
// options and starts its periodic snapshot publisher.
func NewTreapStore(ctx context.Context, opts ...Option) *TreapStore {
	s := &TreapStore{
		snapshotInterval: defaultSnapshotInterval,
		topCacheSize:     defaultTopCacheSize,
		byName:           make(map[string]tally),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.stopChan = make(chan struct{})
	s.startSnapshotLoop(ctx)

	return s
}

// startSnapshotLoop publishes snapshots at the configured interval
// until Close is called or ctx ends.
func (s *TreapStore) startSnapshotLoop(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.snapshotInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.publishSnapshot()
			}
		}
	}()
}

// publishSnapshot rebuilds and atomically publishes the cached view.
func (s *TreapStore) publishSnapshot() {
	s.mu.RLock()

	topCache := make([]Entry, 0, s.topCacheSize)
	collectTopN(s.root, s.topCacheSize, s.byName, &topCache)

	all := make([]Entry, 0, len(s.byName))
	collectAll(s.root, s.byName, &all)
	assignRanksWithTies(all)

	rankByPlayer := make(map[string]int, len(all))
	winsByPlayer := make(map[string]int, len(all))
	for _, e := range all {
		rankByPlayer[e.Player] = e.Rank
		winsByPlayer[e.Player] = e.Wins
	}
	for i := range topCache {
		topCache[i].Rank = rankByPlayer[topCache[i].Player]
	}

	players := len(s.byName)
	s.mu.RUnlock()

	s.snapshot.Store(&Snapshot{
		RankByPlayer: rankByPlayer,
		WinsByPlayer: winsByPlayer,
		TopCache:     topCache,
	})
	metrics.UpdateStandingsPlayers(players)
}

// Cached returns the most recently published snapshot, or nil when none
// has been published yet.
func (s *TreapStore) Cached() *Snapshot {
	return s.snapshot.Load()
}

// Close stops the snapshot publisher.
func (s *TreapStore) Close() error {
	select {
	case <-s.stopChan:
		// already closed
	default:
		close(s.stopChan)
	}
	s.wg.Wait()

	return nil
}

// Apply implements Store.Apply in O(log n) expected time per winner.
func (s *TreapStore) Apply(ctx context.Context, rec model.GameRecord) error {
	start := time.Now()
	defer func() {
		metrics.RecordStandingsUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.Lock()
	s.applyLocked(rec)
	players := len(s.byName)
	s.mu.Unlock()

	metrics.UpdateStandingsPlayers(players)

	return nil
}

// Rebuild implements Store.Rebuild by replaying history from scratch.
func (s *TreapStore) Rebuild(ctx context.Context, history []model.GameRecord) error {
	start := time.Now()
	defer func() {
		metrics.RecordStandingsUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.Lock()
	s.root = nil
	s.byName = make(map[string]tally, len(s.byName))
	for _, rec := range history {
		s.applyLocked(rec)
	}
	players := len(s.byName)
	s.mu.Unlock()

	metrics.UpdateStandingsPlayers(players)

	return nil
}

// applyLocked folds one game into the tallies. Callers hold the write
// lock.
func (s *TreapStore) applyLocked(rec model.GameRecord) {
	won := make(map[string]struct{}, model.TeamSize)
	for _, w := range rec.Winners {
		if w != "" {
			won[w] = struct{}{}
		}
	}

	for _, name := range rec.Participants() {
		t, ok := s.byName[name]
		if !ok {
			s.root = insert(s.root, name, 0)
		}
		t.games++
		if _, winner := won[name]; winner {
			s.root = deleteNode(s.root, name, t.wins)
			t.wins++
			s.root = insert(s.root, name, t.wins)
		}
		s.byName[name] = t
	}
}

// Rank returns the current rank and tallies for a player.
func (s *TreapStore) Rank(ctx context.Context, player string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.byName[player]; !ok {
		metrics.RecordErrorByComponent("standings", "not_found")

		return Entry{}, ErrNotFound
	}

	all := make([]Entry, 0, len(s.byName))
	collectAll(s.root, s.byName, &all)
	assignRanksWithTies(all)

	for _, e := range all {
		if e.Player == player {
			return e, nil
		}
	}

	return Entry{}, ErrNotFound
}

// TopN returns the top N entries ordered by wins desc.
func (s *TreapStore) TopN(ctx context.Context, n int) ([]Entry, error) {
	if n < 1 {
		metrics.RecordErrorByComponent("standings", "invalid_limit")

		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, n)
	collectTopN(s.root, n, s.byName, &out)
	assignRanksWithTies(out)

	return out, nil
}

// Count returns the number of players with recorded games.
func (s *TreapStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.byName)
}
