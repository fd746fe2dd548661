package analytool

import (
	"cmp"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"slices"
	"strings"

	"github.com/Hakuto4838/Treap.git/ordset"
)

// StepMap key -> 找到該 key 需要經過的節點數
type StepMap[T cmp.Ordered] map[T]int

// FindStep 計算由根找到 key 所經過的節點數與路徑上的 key。
// 找不到時 step 為走到空節點前的節點數。
func FindStep[T cmp.Ordered](sl ordset.Analyable[T], key T) (step int, path []T) {
	node := sl.GetRoot()
	for node != nil {
		step++
		path = append(path, node.GetKey())
		c := cmp.Compare(node.GetKey(), key)
		if c == 0 {
			return step, path
		}
		if c < 0 {
			node = node.GetRight()
		} else {
			node = node.GetLeft()
		}
	}
	return step, path
}

// AnalyzeStep 依 keys 給的出現機率計算平均搜尋步數。
// 重複的 key 以最淺的那個節點計算。
func AnalyzeStep[T cmp.Ordered](sl ordset.Analyable[T], keys map[T]float64) (float64, StepMap[T]) {
	if len(keys) == 0 {
		return 0.0, nil
	}

	step := StepMap[T]{}
	var dfs func(node ordset.Nodelike[T], depth int)
	dfs = func(node ordset.Nodelike[T], depth int) {
		if node == nil {
			return
		}
		key := node.GetKey()
		if _, ok := keys[key]; ok {
			if old, seen := step[key]; !seen || depth < old {
				step[key] = depth
			}
		} else {
			log.Warnf("key not found in keys map: %v", key)
		}
		dfs(node.GetLeft(), depth+1)
		dfs(node.GetRight(), depth+1)
	}
	dfs(sl.GetRoot(), 1)

	var totalExpectedSteps float64
	var totalProbability float64
	for k, s := range step {
		totalExpectedSteps += float64(s) * keys[k]
		totalProbability += keys[k]
	}
	if totalProbability > 0 {
		return totalExpectedSteps / totalProbability, step
	}
	return 0.0, step
}

// CountDepth 統計每個深度的節點數，index 0 為根
func CountDepth[T any](sl ordset.Analyable[T]) []int {
	_, maxDepth := sl.GetMaxStats()
	counts := make([]int, maxDepth)

	var dfs func(node ordset.Nodelike[T], depth int)
	dfs = func(node ordset.Nodelike[T], depth int) {
		if node == nil {
			return
		}
		if depth < len(counts) {
			counts[depth]++
		}
		dfs(node.GetLeft(), depth+1)
		dfs(node.GetRight(), depth+1)
	}
	dfs(sl.GetRoot(), 0)
	return counts
}

// PrintDepth 輸出 CountDepth 的結果
func PrintDepth[T any](w io.Writer, sl ordset.Analyable[T]) {
	maxNodes, maxDepth := sl.GetMaxStats()
	counts := CountDepth(sl)
	fmt.Fprintf(w, "depth statistics (nodes: %d, height: %d, log2(n): %.2f):\n",
		maxNodes, maxDepth, math.Log2(float64(max(maxNodes, 1))))
	for i, c := range counts {
		fmt.Fprintf(w, "depth %2d: %d\n", i, c)
	}
}

// PrintTree 將樹橫向印出（右子樹在上），最多 maxDepth 層、maxNodes 個節點
func PrintTree[T any](w io.Writer, sl ordset.Analyable[T], maxDepth, maxNodes int) {
	root := sl.GetRoot()
	if root == nil {
		fmt.Fprintln(w, "tree is empty")
		return
	}

	count := 0
	var dfs func(node ordset.Nodelike[T], depth int)
	dfs = func(node ordset.Nodelike[T], depth int) {
		if node == nil || depth >= maxDepth || count >= maxNodes {
			return
		}
		dfs(node.GetRight(), depth+1)
		if count >= maxNodes {
			return
		}
		count++
		fmt.Fprintf(w, "%s%v (p=%d)\n", strings.Repeat("    ", depth), node.GetKey(), node.GetPriority())
		dfs(node.GetLeft(), depth+1)
	}
	dfs(root, 0)
}

// PrintTreeToCSV 每個深度一列，欄位依中序位置排列
func PrintTreeToCSV[T any](sl ordset.Analyable[T], maxDepth int, writer *csv.Writer) error {
	_, actualDepth := sl.GetMaxStats()
	maxDepth = min(maxDepth, actualDepth)
	if maxDepth <= 0 {
		return nil
	}

	maxNodes, _ := sl.GetMaxStats()
	rows := make([][]string, maxDepth)
	for i := range rows {
		rows[i] = make([]string, maxNodes+1)
		rows[i][0] = fmt.Sprintf("depth %d", i)
	}

	pos := 0
	var dfs func(node ordset.Nodelike[T], depth int)
	dfs = func(node ordset.Nodelike[T], depth int) {
		if node == nil {
			return
		}
		dfs(node.GetLeft(), depth+1)
		pos++
		if depth < maxDepth {
			rows[depth][pos] = fmt.Sprintf("%v", node.GetKey())
		}
		dfs(node.GetRight(), depth+1)
	}
	dfs(sl.GetRoot(), 0)

	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// CheckStruct 透過 Nodelike 檢查 BST 順序與 heap 性質
func CheckStruct[T cmp.Ordered](sl ordset.Analyable[T]) bool {
	var check func(node ordset.Nodelike[T], parent uint64, lo, hi *T) int
	check = func(node ordset.Nodelike[T], parent uint64, lo, hi *T) int {
		if node == nil {
			return 0
		}
		key := node.GetKey()
		if node.GetPriority() > parent {
			log.Warnf("priority above parent at key %v", key)
			return -1
		}
		if (lo != nil && key < *lo) || (hi != nil && key > *hi) {
			log.Warnf("key %v out of range", key)
			return -1
		}
		left := check(node.GetLeft(), node.GetPriority(), lo, &key)
		right := check(node.GetRight(), node.GetPriority(), &key, hi)
		if left < 0 || right < 0 {
			return -1
		}
		return left + right + 1
	}

	nodes, _ := sl.GetMaxStats()
	count := check(sl.GetRoot(), math.MaxUint64, nil, nil)
	if count != nodes {
		log.Warnf("reachable nodes %d, size %d", count, nodes)
		return false
	}
	return true
}

func (mp StepMap[T]) sorted() []T {
	keys := make([]T, 0, len(mp))
	for k := range mp {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (mp StepMap[T]) Print(w io.Writer) {
	keys := mp.sorted()
	for _, k := range keys {
		fmt.Fprintf(w, "%2v  ", k)
	}
	fmt.Fprintln(w)
	for _, k := range keys {
		fmt.Fprintf(w, "%2d  ", mp[k])
	}
	fmt.Fprintln(w)
}

func (mp StepMap[T]) PrintToCSV(writer *csv.Writer) error {
	keys := mp.sorted()
	header := make([]string, len(keys)+1)
	steps := make([]string, len(keys)+1)
	header[0] = "key"
	steps[0] = "steps"
	for i, k := range keys {
		header[i+1] = fmt.Sprintf("%v", k)
		steps[i+1] = fmt.Sprintf("%d", mp[k])
	}
	if err := writer.Write(header); err != nil {
		return err
	}
	if err := writer.Write(steps); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}
