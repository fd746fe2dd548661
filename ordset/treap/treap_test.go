package treap

import (
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/Hakuto4838/Treap.git/ordset"
	"github.com/cockroachdb/errors"
	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rndSeed = 123456789123

func TestTreapInterface(t *testing.T) {
	var _ ordset.OrderedSet[int] = (*Treap[int])(nil)
	var _ ordset.Analyable[int] = (*Treap[int])(nil)
	var _ ordset.Nodelike[int] = (*node[int])(nil)
}

func randomValues(size int) []int {
	r := rand.New(rand.NewPCG(rndSeed, 0))
	values := make([]int, size)
	for i := range values {
		values[i] = r.IntN(1 << 30)
	}
	return values
}

func checkIncreasing(t *testing.T, keys []int) {
	t.Helper()
	require.True(t, slices.IsSorted(keys), "keys not sorted: %s", spew.Sdump(keys))
}

func TestSimple(t *testing.T) {
	values := randomValues(100)

	tree1 := New[int](WithSeed(rndSeed))
	for i, v := range values {
		require.NoError(t, tree1.Insert(v))
		require.NoError(t, tree1.CheckInvariants(), "after insert %d", i)
		require.Equal(t, i+1, tree1.Size())
	}
	tree2, err := NewFrom(values, WithSeed(rndSeed))
	require.NoError(t, err)

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	for _, tr := range []*Treap[int]{tree1, tree2} {
		require.NoError(t, tr.CheckInvariants())
		assert.Equal(t, sorted, tr.Keys())
		assert.Equal(t, 100, tr.Size())
		assert.Equal(t, tr.Size(), len(tr.Keys()))
	}
}

func TestDuplicateScenario(t *testing.T) {
	tr, err := NewFrom([]int{5, 3, 8, 3}, WithSeed(1))
	require.NoError(t, err)
	require.NoError(t, tr.CheckInvariants())

	assert.Equal(t, 4, tr.Size())
	assert.Equal(t, []int{3, 3, 5, 8}, tr.Keys())

	first, err := tr.First()
	require.NoError(t, err)
	assert.Equal(t, 3, first)
	last, err := tr.Last()
	require.NoError(t, err)
	assert.Equal(t, 8, last)

	cases := []struct {
		name string
		fn   func(int) (int, bool)
		arg  int
		want int
	}{
		{"floor(4)", tr.Floor, 4, 3},
		{"ceiling(4)", tr.Ceiling, 4, 5},
		{"higher(3)", tr.Higher, 3, 5},
		{"lower(5)", tr.Lower, 5, 3},
	}
	for _, c := range cases {
		got, ok := c.fn(c.arg)
		assert.True(t, ok, c.name)
		assert.Equal(t, c.want, got, c.name)
	}
}

func TestEmpty(t *testing.T) {
	tr := New[int]()

	_, err := tr.First()
	assert.ErrorIs(t, err, ErrEmpty)
	_, err = tr.Last()
	assert.ErrorIs(t, err, ErrEmpty)

	for _, k := range []int{-1, 0, 100} {
		assert.False(t, tr.Contains(k))
		assert.False(t, tr.Remove(k))
		for _, fn := range []func(int) (int, bool){tr.Floor, tr.Ceiling, tr.Higher, tr.Lower} {
			_, ok := fn(k)
			assert.False(t, ok)
		}
	}

	assert.Empty(t, tr.Keys())
	assert.False(t, tr.Iterator().HasNext())
	assert.False(t, tr.Iterator().Next())
	assert.Nil(t, tr.GetRoot())
	require.NoError(t, tr.CheckInvariants())
}

func TestContains(t *testing.T) {
	values := randomValues(100)
	tr, err := NewFrom(values, WithSeed(rndSeed))
	require.NoError(t, err)

	for _, v := range values {
		assert.True(t, tr.Contains(v))
	}
	for i := 0; i < 100; i++ {
		if !slices.Contains(values, i) {
			assert.False(t, tr.Contains(i))
		}
	}
}

func TestAllEqual(t *testing.T) {
	tr := New[int](WithSeed(rndSeed))
	for i := 0; i < 100; i++ {
		require.NoError(t, tr.Insert(100))
	}
	require.NoError(t, tr.CheckInvariants())
	checkIncreasing(t, tr.Keys())
	assert.Equal(t, 100, tr.Size())
}

func TestRemove(t *testing.T) {
	values := randomValues(100)
	tr, err := NewFrom(values, WithSeed(rndSeed))
	require.NoError(t, err)

	size := 100
	for _, v := range values {
		require.True(t, tr.Remove(v))
		// 此測試的值不重複，刪除後應找不到
		require.False(t, tr.Contains(v))
		size--
		require.NoError(t, tr.CheckInvariants())
		checkIncreasing(t, tr.Keys())
		require.Equal(t, size, tr.Size())
	}
	assert.Empty(t, tr.Keys())
}

func TestRemoveDuplicated(t *testing.T) {
	tr := New[int](WithSeed(rndSeed))
	for i := 0; i < 10; i++ {
		require.NoError(t, tr.Insert(100))
	}
	for i := 0; i < 10; i++ {
		require.True(t, tr.Contains(100))
		before := tr.Size()
		require.True(t, tr.Remove(100))
		require.Equal(t, before-1, tr.Size())
		require.NoError(t, tr.CheckInvariants())
		checkIncreasing(t, tr.Keys())
	}
	assert.False(t, tr.Contains(100))
	assert.False(t, tr.Remove(100))
	assert.Zero(t, tr.Size())
}

func TestRoundTrip(t *testing.T) {
	values := randomValues(50)
	tr, err := NewFrom(values, WithSeed(7))
	require.NoError(t, err)
	before := tr.Keys()

	const extra = -42
	require.NoError(t, tr.Insert(extra))
	require.True(t, tr.Contains(extra))
	require.True(t, tr.Remove(extra))
	require.False(t, tr.Contains(extra))
	assert.Equal(t, before, tr.Keys())
}

func intPtrCompare(a, b *int) int {
	return *a - *b
}

func TestNilValues(t *testing.T) {
	tr := NewFunc(intPtrCompare)
	one := 1
	require.NoError(t, tr.Insert(&one))

	err := tr.Insert(nil)
	require.ErrorIs(t, err, ErrNilValue)
	assert.Equal(t, 1, tr.Size())

	assert.False(t, tr.Contains(nil))
	assert.False(t, tr.Remove(nil))
	for _, fn := range []func(*int) (*int, bool){tr.Floor, tr.Ceiling, tr.Higher, tr.Lower} {
		got, ok := fn(nil)
		assert.False(t, ok)
		assert.Nil(t, got)
	}

	_, err = NewFromFunc([]*int{&one, nil}, intPtrCompare)
	require.ErrorIs(t, err, ErrNilValue)
}

func TestFirstLast(t *testing.T) {
	values := randomValues(100)
	tr, err := NewFrom(values, WithSeed(rndSeed))
	require.NoError(t, err)

	sorted := slices.Clone(values)
	slices.Sort(sorted)
	for _, v := range sorted {
		first, err := tr.First()
		require.NoError(t, err)
		require.Equal(t, v, first)
		tr.Remove(v)
	}

	tr, err = NewFrom(values, WithSeed(rndSeed))
	require.NoError(t, err)
	for i := len(sorted) - 1; i >= 0; i-- {
		last, err := tr.Last()
		require.NoError(t, err)
		require.Equal(t, sorted[i], last)
		tr.Remove(sorted[i])
	}
}

func TestDeterminism(t *testing.T) {
	values := randomValues(200)
	a, err := NewFrom(values, WithSeed(99))
	require.NoError(t, err)
	b, err := NewFrom(values, WithSeed(99))
	require.NoError(t, err)

	assert.Equal(t, a.Keys(), b.Keys())
	assert.Equal(t, a.Priorities(), b.Priorities())
	assert.Equal(t, a.String(), b.String())

	c, err := NewFrom(values, WithSeed(100))
	require.NoError(t, err)
	assert.NotEqual(t, a.Priorities(), c.Priorities())
}

// constSource 每次都回傳相同的值，所有 priority 都相等
type constSource uint64

func (s constSource) Uint64() uint64 { return uint64(s) }

func TestEqualPriorities(t *testing.T) {
	tr := New[int](WithSource(constSource(7)))
	for _, v := range []int{4, 2, 6, 1, 3, 5, 7} {
		require.NoError(t, tr.Insert(v))
	}
	require.NoError(t, tr.CheckInvariants())
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7}, tr.Keys())
	for _, v := range []int{4, 1, 7} {
		require.True(t, tr.Remove(v))
		require.NoError(t, tr.CheckInvariants())
	}
	assert.Equal(t, []int{2, 3, 5, 6}, tr.Keys())
}

func TestMergeTieBreak(t *testing.T) {
	l := &node[int]{key: 1, priority: 5}
	r := &node[int]{key: 2, priority: 5}
	root := merge(l, r)
	require.Same(t, r, root)
	assert.Same(t, l, root.left)

	l = &node[int]{key: 1, priority: 6}
	r = &node[int]{key: 2, priority: 5}
	root = merge(l, r)
	require.Same(t, l, root)
	assert.Same(t, r, root.right)

	assert.Same(t, l, merge(l, nil))
	assert.Same(t, r, merge(nil, r))
}

func TestSplit(t *testing.T) {
	tr, err := NewFrom([]int{1, 2, 3, 3, 4, 5}, WithSeed(3))
	require.NoError(t, err)

	l, r := tr.split(tr.root, 3)
	collect := func(n *node[int]) []int {
		var out []int
		var walk func(*node[int])
		walk = func(n *node[int]) {
			if n == nil {
				return
			}
			walk(n.left)
			out = append(out, n.key)
			walk(n.right)
		}
		walk(n)
		return out
	}
	assert.Equal(t, []int{1, 2}, collect(l))
	assert.Equal(t, []int{3, 3, 4, 5}, collect(r))

	l, r = tr.split(nil, 3)
	assert.Nil(t, l)
	assert.Nil(t, r)
}

func TestCheckInvariantsDetectsCorruption(t *testing.T) {
	tr, err := NewFrom(randomValues(30), WithSeed(rndSeed))
	require.NoError(t, err)
	require.NoError(t, tr.CheckInvariants())

	child := tr.root.left
	if child == nil {
		child = tr.root.right
	}
	require.NotNil(t, child)

	child.priority, tr.root.priority = tr.root.priority, child.priority
	err = tr.CheckInvariants()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCorrupt))
	assert.True(t, errors.HasAssertionFailure(err))
	assert.Contains(t, err.Error(), "heap nature broken")
	child.priority, tr.root.priority = tr.root.priority, child.priority
	require.NoError(t, tr.CheckInvariants())

	tr.size++
	err = tr.CheckInvariants()
	require.ErrorIs(t, err, ErrCorrupt)
	assert.Contains(t, err.Error(), "reachable")
	tr.size--

	tr.root.key, child.key = child.key, tr.root.key
	err = tr.CheckInvariants()
	require.ErrorIs(t, err, ErrCorrupt)
}

func TestStringAndStats(t *testing.T) {
	tr, err := NewFrom([]int{2, 1, 3}, WithSeed(5))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(tr.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "[key = 1 "))
	assert.True(t, strings.HasPrefix(lines[2], "[key = 3 "))

	nodes, depth := tr.GetMaxStats()
	assert.Equal(t, 3, nodes)
	assert.GreaterOrEqual(t, depth, 2)
	assert.LessOrEqual(t, depth, 3)

	tr.Clear()
	assert.Zero(t, tr.Size())
	assert.Empty(t, tr.String())
}

func TestCustomCompare(t *testing.T) {
	desc := func(a, b string) int { return strings.Compare(b, a) }
	tr, err := NewFromFunc([]string{"b", "d", "a", "c"}, desc, WithSeed(11))
	require.NoError(t, err)

	assert.Equal(t, []string{"d", "c", "b", "a"}, tr.Keys())
	got, ok := tr.Higher("c")
	require.True(t, ok)
	assert.Equal(t, "b", got)
	first, err := tr.First()
	require.NoError(t, err)
	assert.Equal(t, "d", first)
}

func TestDepthIsLogarithmic(t *testing.T) {
	tr := New[int](WithSeed(rndSeed))
	const n = 1 << 14
	// 依序插入是一般 BST 的最差情況
	for i := 0; i < n; i++ {
		require.NoError(t, tr.Insert(i))
	}
	_, depth := tr.GetMaxStats()
	assert.Less(t, depth, 100, "depth %d too large for %d nodes", depth, n)
}
