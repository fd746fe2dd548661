package treap

// 以下查詢都只做一次由根往下的比較，不修改結構。
// 查詢 key 為 nil 時一律視為找不到。

// Contains 是否存在等於 key 的節點
func (t *Treap[T]) Contains(key T) bool {
	if t.isNil(key) {
		return false
	}
	n := t.root
	for n != nil {
		c := t.compare(n.key, key)
		if c == 0 {
			return true
		}
		if c < 0 {
			n = n.right
		} else {
			n = n.left
		}
	}
	return false
}

// First 最小的 key
func (t *Treap[T]) First() (T, error) {
	if t.size == 0 {
		var zero T
		return zero, ErrEmpty
	}
	n := t.root
	for n.left != nil {
		n = n.left
	}
	return n.key, nil
}

// Last 最大的 key
func (t *Treap[T]) Last() (T, error) {
	if t.size == 0 {
		var zero T
		return zero, ErrEmpty
	}
	n := t.root
	for n.right != nil {
		n = n.right
	}
	return n.key, nil
}

// Floor 小於等於 key 的最大 key
func (t *Treap[T]) Floor(key T) (T, bool) {
	if t.isNil(key) {
		return found[T](nil)
	}
	var best *node[T]
	n := t.root
	for n != nil {
		c := t.compare(n.key, key)
		if c == 0 {
			return found(n)
		}
		if c < 0 {
			// 右子樹找不到時，目前節點就是答案
			best = n
			n = n.right
		} else {
			n = n.left
		}
	}
	return found(best)
}

// Ceiling 大於等於 key 的最小 key
func (t *Treap[T]) Ceiling(key T) (T, bool) {
	if t.isNil(key) {
		return found[T](nil)
	}
	var best *node[T]
	n := t.root
	for n != nil {
		c := t.compare(n.key, key)
		if c == 0 {
			return found(n)
		}
		if c > 0 {
			best = n
			n = n.left
		} else {
			n = n.right
		}
	}
	return found(best)
}

// Higher 嚴格大於 key 的最小 key
func (t *Treap[T]) Higher(key T) (T, bool) {
	if t.isNil(key) {
		return found[T](nil)
	}
	var best *node[T]
	n := t.root
	for n != nil {
		if t.compare(n.key, key) <= 0 {
			n = n.right
		} else {
			best = n
			n = n.left
		}
	}
	return found(best)
}

// Lower 嚴格小於 key 的最大 key
func (t *Treap[T]) Lower(key T) (T, bool) {
	if t.isNil(key) {
		return found[T](nil)
	}
	var best *node[T]
	n := t.root
	for n != nil {
		if t.compare(n.key, key) < 0 {
			best = n
			n = n.right
		} else {
			n = n.left
		}
	}
	return found(best)
}

func found[T any](n *node[T]) (T, bool) {
	if n == nil {
		var zero T
		return zero, false
	}
	return n.key, true
}
