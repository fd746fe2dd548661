// Package basic 以機率式 skip list 實作有序集合，作為驗證 treap 的參考實作與效能基準。
package basic

import (
	"cmp"
	"math/rand/v2"

	"github.com/Hakuto4838/Treap.git/ordset"
	"github.com/cockroachdb/errors"
)

const (
	maxLevel    = 32
	probability = 0.5
)

// ErrEmpty 對空集合呼叫 First/Last
var ErrEmpty = errors.New("basic: skip list is empty")

type basicNode[T any] struct {
	key  T
	next []*basicNode[T]
}

// BasicSkipList 允許重複 key 的 skip list
type BasicSkipList[T any] struct {
	head    *basicNode[T]
	level   int
	rand    *rand.Rand
	size    int
	compare func(a, b T) int
}

var _ ordset.OrderedSet[int64] = (*BasicSkipList[int64])(nil)

func NewBasicSkipList[T cmp.Ordered](seed uint64) *BasicSkipList[T] {
	return NewBasicSkipListFunc(cmp.Compare[T], seed)
}

func NewBasicSkipListFunc[T any](compare func(a, b T) int, seed uint64) *BasicSkipList[T] {
	return &BasicSkipList[T]{
		head:    &basicNode[T]{next: make([]*basicNode[T], maxLevel+1)},
		rand:    rand.New(rand.NewPCG(seed, 0)),
		compare: compare,
	}
}

func (sl *BasicSkipList[T]) randomLevel() int {
	lvl := 0
	for sl.rand.Float64() < probability && lvl < maxLevel {
		lvl++
	}
	return lvl
}

// descend 由最高層往下走，每層在 advance(next.key) 為 true 時往右。
// 回傳最後停留的節點（可能是 head）與每層的前驅。
func (sl *BasicSkipList[T]) descend(advance func(next T) bool) (*basicNode[T], []*basicNode[T]) {
	update := make([]*basicNode[T], sl.level+1)
	cur := sl.head
	for h := sl.level; h >= 0; h-- {
		for cur.next[h] != nil && advance(cur.next[h].key) {
			cur = cur.next[h]
		}
		update[h] = cur
	}
	return cur, update
}

func (sl *BasicSkipList[T]) less(key T) func(T) bool {
	return func(next T) bool { return sl.compare(next, key) < 0 }
}

func (sl *BasicSkipList[T]) lessOrEqual(key T) func(T) bool {
	return func(next T) bool { return sl.compare(next, key) <= 0 }
}

// Insert 新節點放在相同 key 的最前面
func (sl *BasicSkipList[T]) Insert(v T) error {
	lvl := sl.randomLevel()
	sl.level = max(sl.level, lvl)
	_, update := sl.descend(sl.less(v))
	nd := &basicNode[T]{key: v, next: make([]*basicNode[T], lvl+1)}
	for h := 0; h <= lvl; h++ {
		nd.next[h] = update[h].next[h]
		update[h].next[h] = nd
	}
	sl.size++
	return nil
}

// Remove 刪除第一個等於 key 的節點
func (sl *BasicSkipList[T]) Remove(key T) bool {
	cur, update := sl.descend(sl.less(key))
	target := cur.next[0]
	if target == nil || sl.compare(target.key, key) != 0 {
		return false
	}
	for h := 0; h <= sl.level; h++ {
		if update[h].next[h] == target {
			update[h].next[h] = target.next[h]
		}
	}
	for sl.level > 0 && sl.head.next[sl.level] == nil {
		sl.level--
	}
	sl.size--
	return true
}

func (sl *BasicSkipList[T]) Contains(key T) bool {
	cur, _ := sl.descend(sl.less(key))
	return cur.next[0] != nil && sl.compare(cur.next[0].key, key) == 0
}

func (sl *BasicSkipList[T]) Size() int {
	return sl.size
}

func (sl *BasicSkipList[T]) First() (T, error) {
	if sl.head.next[0] == nil {
		var zero T
		return zero, ErrEmpty
	}
	return sl.head.next[0].key, nil
}

func (sl *BasicSkipList[T]) Last() (T, error) {
	cur, _ := sl.descend(func(T) bool { return true })
	if cur == sl.head {
		var zero T
		return zero, ErrEmpty
	}
	return cur.key, nil
}

func (sl *BasicSkipList[T]) Floor(key T) (T, bool) {
	cur, _ := sl.descend(sl.lessOrEqual(key))
	return sl.keyOf(cur)
}

func (sl *BasicSkipList[T]) Ceiling(key T) (T, bool) {
	cur, _ := sl.descend(sl.less(key))
	return sl.keyOf(cur.next[0])
}

func (sl *BasicSkipList[T]) Higher(key T) (T, bool) {
	cur, _ := sl.descend(sl.lessOrEqual(key))
	return sl.keyOf(cur.next[0])
}

func (sl *BasicSkipList[T]) Lower(key T) (T, bool) {
	cur, _ := sl.descend(sl.less(key))
	return sl.keyOf(cur)
}

func (sl *BasicSkipList[T]) keyOf(nd *basicNode[T]) (T, bool) {
	if nd == nil || nd == sl.head {
		var zero T
		return zero, false
	}
	return nd.key, true
}

func (sl *BasicSkipList[T]) Keys() []T {
	keys := make([]T, 0, sl.size)
	for nd := sl.head.next[0]; nd != nil; nd = nd.next[0] {
		keys = append(keys, nd.key)
	}
	return keys
}

// GetMaxStats 回傳節點數與目前最高層
func (sl *BasicSkipList[T]) GetMaxStats() (int, int) {
	return sl.size, sl.level
}
