package treap

import "iter"

// frame 為中序走訪堆疊的一格，expanded 表示左子樹已經展開過
type frame[T any] struct {
	n        *node[T]
	expanded bool
}

// Iterator 由小到大走訪 key 的游標，不使用遞迴。
// 建立後修改樹的結果未定義。
//
//	it := t.Iterator()
//	for it.Next() {
//		fmt.Println(it.Key())
//	}
type Iterator[T any] struct {
	t     *Treap[T]
	stack []frame[T]
	key   T
}

// Iterator 建立新的游標
func (t *Treap[T]) Iterator() *Iterator[T] {
	it := &Iterator[T]{t: t}
	it.Reset()
	return it
}

// Reset 回到起點，堆疊容量依目前節點數配置
func (it *Iterator[T]) Reset() {
	it.stack = make([]frame[T], 0, it.t.size)
	var zero T
	it.key = zero
	if it.t.root != nil {
		it.push(it.t.root, false)
	}
}

// HasNext 是否還有下一個 key
func (it *Iterator[T]) HasNext() bool {
	return len(it.stack) > 0
}

// Next 前進到下一個 key，走訪結束時回傳 false
func (it *Iterator[T]) Next() bool {
	if len(it.stack) == 0 {
		var zero T
		it.key = zero
		return false
	}

	top := &it.stack[len(it.stack)-1]
	for !top.expanded && top.n.left != nil {
		top.expanded = true
		it.push(top.n.left, false)
		top = &it.stack[len(it.stack)-1]
	}

	n := top.n
	it.pop()
	if n.right != nil {
		it.push(n.right, false)
	}
	it.key = n.key
	return true
}

// Key 目前的 key，需在 Next 回傳 true 之後呼叫
func (it *Iterator[T]) Key() T {
	return it.key
}

func (it *Iterator[T]) push(n *node[T], expanded bool) {
	it.stack = append(it.stack, frame[T]{n: n, expanded: expanded})
}

func (it *Iterator[T]) pop() {
	last := len(it.stack) - 1
	it.stack[last] = frame[T]{}
	it.stack = it.stack[:last]
}

// All 以 range-over-func 形式走訪，每次呼叫都從頭開始
func (t *Treap[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		it := t.Iterator()
		for it.Next() {
			if !yield(it.Key()) {
				return
			}
		}
	}
}
