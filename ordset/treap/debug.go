package treap

import (
	"fmt"
	"math"
	"strings"

	"github.com/cockroachdb/errors"
)

// CheckInvariants 走訪整棵樹檢查 heap、BST 順序與節點數，僅供測試與除錯使用。
// 失敗時回傳包裝 ErrCorrupt 的 assertion failure。
func (t *Treap[T]) CheckInvariants() error {
	count, err := t.check(t.root, math.MaxUint64, nil, nil)
	if err == nil && count != t.size {
		err = errors.Wrapf(ErrCorrupt, "size is %d but %d nodes are reachable", t.size, count)
	}
	if err != nil {
		log.Warnf("invariant check failed: %v", err)
		return errors.WithAssertionFailure(err)
	}
	return nil
}

// check 回傳子樹節點數。左子樹允許與父節點相等的 key（重複 key 經 merge 後可能落在左邊）。
func (t *Treap[T]) check(n *node[T], parent uint64, lo, hi *T) (int, error) {
	if n == nil {
		return 0, nil
	}
	if n.priority > parent {
		return 0, errors.Wrapf(ErrCorrupt, "heap nature broken at key %v: priority %d above parent %d",
			n.key, n.priority, parent)
	}
	if lo != nil && t.compare(n.key, *lo) < 0 {
		return 0, errors.Wrapf(ErrCorrupt, "key %v is below its lower bound %v", n.key, *lo)
	}
	if hi != nil && t.compare(n.key, *hi) > 0 {
		return 0, errors.Wrapf(ErrCorrupt, "key %v is above its upper bound %v", n.key, *hi)
	}
	left, err := t.check(n.left, n.priority, lo, &n.key)
	if err != nil {
		return 0, err
	}
	right, err := t.check(n.right, n.priority, &n.key, hi)
	if err != nil {
		return 0, err
	}
	return left + right + 1, nil
}

// Priorities 依 key 順序回傳各節點的 priority
func (t *Treap[T]) Priorities() []uint64 {
	out := make([]uint64, 0, t.size)
	var walk func(n *node[T])
	walk = func(n *node[T]) {
		if n == nil {
			return
		}
		walk(n.left)
		out = append(out, n.priority)
		walk(n.right)
	}
	walk(t.root)
	return out
}

// String 依 key 順序每行輸出一個節點
func (t *Treap[T]) String() string {
	var sb strings.Builder
	var walk func(n *node[T])
	walk = func(n *node[T]) {
		if n == nil {
			return
		}
		walk(n.left)
		fmt.Fprintf(&sb, "[key = %v priority = %d left key = %s right key = %s]\n",
			n.key, n.priority, childKey(n.left), childKey(n.right))
		walk(n.right)
	}
	walk(t.root)
	return sb.String()
}

func childKey[T any](n *node[T]) string {
	if n == nil {
		return "nil"
	}
	return fmt.Sprint(n.key)
}
