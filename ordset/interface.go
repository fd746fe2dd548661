package ordset

// K 為 workload 與 benchmark 使用的 key 型別
type K = int64

// OrderedSet 有序集合（允許重複 key）的共同介面
type OrderedSet[T any] interface {
	Insert(v T) error
	Remove(key T) bool
	Contains(key T) bool
	Size() int
	First() (T, error)
	Last() (T, error)
	Floor(key T) (T, bool)
	Ceiling(key T) (T, bool)
	Higher(key T) (T, bool)
	Lower(key T) (T, bool)
	Keys() []T
}

// Analyable 提供結構分析功能的介面
type Analyable[T any] interface {
	OrderedSet[T]
	// GetRoot 取得根節點，空樹回傳 nil
	GetRoot() Nodelike[T]
	// GetMaxStats 獲取節點數與最大深度
	GetMaxStats() (maxNodes int, maxDepth int)
}

// Nodelike 唯讀的樹節點
type Nodelike[T any] interface {
	GetKey() T
	GetPriority() uint64
	GetLeft() Nodelike[T]
	GetRight() Nodelike[T]
}
