package radix

import (
	"cmp"

	"golang.org/x/exp/slices"
)

type (
	// BeatKey addresses one beat of an opus.
	BeatKey struct {
		Channel int `yaml:"channel"`
		Line    int `yaml:"line"`
		Beat    int `yaml:"beat"`
	}

	// LinkPools groups beats that are kept identical: an edit to one beat of a
	// pool is applied to every beat of the pool. A pool always has at least
	// two members; a pool left with one member is dissolved. The zero value is
	// an empty set of pools.
	LinkPools struct {
		pool map[BeatKey]int
		next int
	}
)

func (k BeatKey) Compare(other BeatKey) int {
	if c := cmp.Compare(k.Channel, other.Channel); c != 0 {
		return c
	}
	if c := cmp.Compare(k.Line, other.Line); c != 0 {
		return c
	}
	return cmp.Compare(k.Beat, other.Beat)
}

// IsLinked reports whether key belongs to a pool.
func (l *LinkPools) IsLinked(key BeatKey) bool {
	_, ok := l.pool[key]
	return ok
}

// Linked returns the members of the pool of key, key included, in key
// order. Returns nil if key is not linked.
func (l *LinkPools) Linked(key BeatKey) []BeatKey {
	id, ok := l.pool[key]
	if !ok {
		return nil
	}
	var ret []BeatKey
	for k, i := range l.pool {
		if i == id {
			ret = append(ret, k)
		}
	}
	slices.SortFunc(ret, BeatKey.Compare)
	return ret
}

// Link adds key to the pool of target, creating the pool if target is not
// linked yet. If key was in another pool, it leaves that pool first.
func (l *LinkPools) Link(key, target BeatKey) {
	if key == target {
		return
	}
	if l.pool == nil {
		l.pool = map[BeatKey]int{}
	}
	l.Unlink(key)
	id, ok := l.pool[target]
	if !ok {
		id = l.next
		l.next++
		l.pool[target] = id
	}
	l.pool[key] = id
}

// Unlink removes key from its pool.
func (l *LinkPools) Unlink(key BeatKey) {
	id, ok := l.pool[key]
	if !ok {
		return
	}
	delete(l.pool, key)
	l.dissolveSingleton(id)
}

// Remap moves every linked key to f(key). Keys for which f returns false
// are dropped from their pools.
func (l *LinkPools) Remap(f func(BeatKey) (BeatKey, bool)) {
	if len(l.pool) == 0 {
		return
	}
	remapped := make(map[BeatKey]int, len(l.pool))
	ids := map[int]bool{}
	for k, id := range l.pool {
		ids[id] = true
		if nk, ok := f(k); ok {
			remapped[nk] = id
		}
	}
	l.pool = remapped
	for id := range ids {
		l.dissolveSingleton(id)
	}
}

// Pools returns every pool as a sorted slice of keys, pools ordered by their
// first key.
func (l *LinkPools) Pools() [][]BeatKey {
	byID := map[int][]BeatKey{}
	for k, id := range l.pool {
		byID[id] = append(byID[id], k)
	}
	ret := make([][]BeatKey, 0, len(byID))
	for _, keys := range byID {
		slices.SortFunc(keys, BeatKey.Compare)
		ret = append(ret, keys)
	}
	slices.SortFunc(ret, func(a, b []BeatKey) int { return a[0].Compare(b[0]) })
	return ret
}

func (l *LinkPools) Copy() LinkPools {
	ret := LinkPools{next: l.next}
	if l.pool != nil {
		ret.pool = make(map[BeatKey]int, len(l.pool))
		for k, v := range l.pool {
			ret.pool[k] = v
		}
	}
	return ret
}

func (l *LinkPools) dissolveSingleton(id int) {
	var last BeatKey
	n := 0
	for k, i := range l.pool {
		if i == id {
			last = k
			n++
		}
	}
	if n == 1 {
		delete(l.pool, last)
	}
}
