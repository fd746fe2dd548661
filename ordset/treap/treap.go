// Package treap 實作隨機化平衡二元搜尋樹（treap）。
//
// 每個節點帶有 key 與一個建立時抽取的隨機 priority：key 滿足 BST 順序，
// priority 滿足 max-heap。所有修改操作都由 split 與 merge 組成，
// 不需要額外的平衡資訊，期望深度為 O(log n)。
//
// Treap 不是 thread-safe，多個 goroutine 同時修改時需由呼叫端加鎖。
package treap

import (
	"cmp"
	"math/rand/v2"
	"reflect"

	"github.com/Hakuto4838/Treap.git/ordset"
	"github.com/cockroachdb/errors"
)

type node[T any] struct {
	key      T
	priority uint64
	left     *node[T]
	right    *node[T]
}

// Treap 允許重複 key 的有序集合
type Treap[T any] struct {
	root    *node[T]
	size    int
	compare func(a, b T) int
	rng     *rand.Rand
	nilable bool // T 是否可能為 nil
}

// Option 建構 Treap 時的設定
type Option func(*config)

type config struct {
	src rand.Source
}

// WithSeed 以固定種子建立 PCG 亂數來源，相同種子與相同插入順序會得到相同的樹
func WithSeed(seed uint64) Option {
	return func(c *config) {
		c.src = rand.NewPCG(seed, 0)
	}
}

// WithSource 注入 priority 使用的亂數來源
func WithSource(src rand.Source) Option {
	return func(c *config) {
		c.src = src
	}
}

// New 建立空的 Treap，以 cmp.Compare 排序
func New[T cmp.Ordered](opts ...Option) *Treap[T] {
	return NewFunc(cmp.Compare[T], opts...)
}

// NewFunc 建立空的 Treap，以 compare 排序。
// compare(a, b) 在 a < b、a == b、a > b 時分別回傳負數、0、正數。
func NewFunc[T any](compare func(a, b T) int, opts ...Option) *Treap[T] {
	c := &config{}
	for _, opt := range opts {
		opt(c)
	}
	if c.src == nil {
		c.src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Treap[T]{
		compare: compare,
		rng:     rand.New(c.src),
		nilable: isNilableType[T](),
	}
}

// NewFrom 以 values 逐一插入建立 Treap
func NewFrom[T cmp.Ordered](values []T, opts ...Option) (*Treap[T], error) {
	return NewFromFunc(values, cmp.Compare[T], opts...)
}

// NewFromFunc 同 NewFrom，使用自訂比較函式。values 中有 nil 時回傳錯誤且不建立樹。
func NewFromFunc[T any](values []T, compare func(a, b T) int, opts ...Option) (*Treap[T], error) {
	t := NewFunc(compare, opts...)
	for i, v := range values {
		if err := t.Insert(v); err != nil {
			return nil, errors.Wrapf(err, "insert value %d", i)
		}
	}
	log.Debugf("bulk loaded %d values (depth %d)", t.size, t.depth())
	return t, nil
}

func isNilableType[T any]() bool {
	switch reflect.TypeFor[T]().Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice,
		reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return true
	}
	return false
}

func (t *Treap[T]) isNil(v T) bool {
	if !t.nilable {
		return false
	}
	return reflect.ValueOf(&v).Elem().IsNil()
}

func (t *Treap[T]) newNode(key T) *node[T] {
	return &node[T]{
		key:      key,
		priority: t.rng.Uint64(),
	}
}

// split 將 n 切成 key 小於 key 的 l 與大於等於 key 的 r
func (t *Treap[T]) split(n *node[T], key T) (l, r *node[T]) {
	if n == nil {
		return nil, nil
	}
	if t.compare(n.key, key) < 0 {
		n.right, r = t.split(n.right, key)
		return n, r
	}
	l, n.left = t.split(n.left, key)
	return l, n
}

// merge 合併 l 與 r，前提是 l 的所有 key 都不大於 r 的 key。
// priority 相同時由 r 的根當 parent。
func merge[T any](l, r *node[T]) *node[T] {
	if l == nil {
		return r
	}
	if r == nil {
		return l
	}
	if l.priority > r.priority {
		l.right = merge(l.right, r)
		return l
	}
	r.left = merge(l, r.left)
	return r
}

// Insert 插入 v，允許重複
func (t *Treap[T]) Insert(v T) error {
	if t.isNil(v) {
		return ErrNilValue
	}
	n := t.newNode(v)
	t.size++
	if t.root == nil {
		t.root = n
		return nil
	}
	l, r := t.split(t.root, v)
	t.root = merge(merge(l, n), r)
	return nil
}

// Remove 刪除一個等於 key 的節點，找不到時回傳 false。
// 有重複 key 時刪除的是由根往下比較時最先遇到的那一個。
func (t *Treap[T]) Remove(key T) bool {
	if t.isNil(key) || !t.Contains(key) {
		return false
	}
	t.root = t.remove(t.root, key)
	t.size--
	return true
}

func (t *Treap[T]) remove(n *node[T], key T) *node[T] {
	c := t.compare(n.key, key)
	switch {
	case c == 0:
		return merge(n.left, n.right)
	case c < 0:
		n.right = t.remove(n.right, key)
	default:
		n.left = t.remove(n.left, key)
	}
	return n
}

// Size 回傳節點數
func (t *Treap[T]) Size() int {
	return t.size
}

// Len 同 Size
func (t *Treap[T]) Len() int {
	return t.size
}

// Clear 移除所有節點，亂數來源維持原狀
func (t *Treap[T]) Clear() {
	t.root = nil
	t.size = 0
}

// Keys 依序回傳所有 key（重複的 key 各自出現）
func (t *Treap[T]) Keys() []T {
	keys := make([]T, 0, t.size)
	it := t.Iterator()
	for it.Next() {
		keys = append(keys, it.Key())
	}
	return keys
}

func (t *Treap[T]) GetRoot() ordset.Nodelike[T] {
	if t.root == nil {
		return nil
	}
	return t.root
}

// GetMaxStats 回傳節點數與樹高（空樹為 0）
func (t *Treap[T]) GetMaxStats() (maxNodes int, maxDepth int) {
	return t.size, t.depth()
}

// depth 以迭代方式計算樹高
func (t *Treap[T]) depth() int {
	if t.root == nil {
		return 0
	}
	type item struct {
		n *node[T]
		d int
	}
	best := 0
	stack := []item{{t.root, 1}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		best = max(best, top.d)
		if top.n.left != nil {
			stack = append(stack, item{top.n.left, top.d + 1})
		}
		if top.n.right != nil {
			stack = append(stack, item{top.n.right, top.d + 1})
		}
	}
	return best
}

func (n *node[T]) GetKey() T {
	return n.key
}

func (n *node[T]) GetPriority() uint64 {
	return n.priority
}

func (n *node[T]) GetLeft() ordset.Nodelike[T] {
	if n.left == nil {
		return nil
	}
	return n.left
}

func (n *node[T]) GetRight() ordset.Nodelike[T] {
	if n.right == nil {
		return nil
	}
	return n.right
}
