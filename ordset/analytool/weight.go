package analytool

import (
	"cmp"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/Hakuto4838/Treap.git/ordset"
)

// logic0 讓權重為 0 的節點在表格中仍可與空格區分
const logic0 = 0.0000001

// DominationToCSV 輸出兩張以深度為列、中序位置為欄的表：
// 第一張為每個節點子樹內 key 的總機率，
// 第二張為搜尋經過該節點後往右子樹走的條件機率 right / (left + right)。
func DominationToCSV[T cmp.Ordered](csvWriter *csv.Writer, sl ordset.Analyable[T], dist map[T]float64) error {
	maxNodes, maxDepth := sl.GetMaxStats()
	if maxDepth == 0 {
		return nil
	}
	domin := make([][]float64, maxDepth)
	right := make([][]float64, maxDepth)
	for i := range domin {
		domin[i] = make([]float64, maxNodes)
		right[i] = make([]float64, maxNodes)
	}

	pos := 0
	var countDomain func(nd ordset.Nodelike[T], depth int) float64
	countDomain = func(nd ordset.Nodelike[T], depth int) float64 {
		if nd == nil {
			return 0
		}
		l := countDomain(nd.GetLeft(), depth+1)
		at := pos
		pos++
		r := countDomain(nd.GetRight(), depth+1)

		result := l + r + dist[nd.GetKey()]
		if result == 0 {
			result = logic0
		}
		domin[depth][at] = result
		if l+r == 0 {
			right[depth][at] = logic0
		} else {
			right[depth][at] = max(r/(l+r), logic0)
		}
		return result
	}
	countDomain(sl.GetRoot(), 0)

	if err := printProbToCSV(csvWriter, domin); err != nil {
		return err
	}
	if err := csvWriter.Write([]string{"right ratio"}); err != nil {
		return err
	}
	if err := printProbToCSV(csvWriter, right); err != nil {
		return err
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

func printProbToCSV(csvWriter *csv.Writer, domin [][]float64) error {
	for i, row := range domin {
		strRow := make([]string, len(row)+1)
		strRow[0] = fmt.Sprintf("depth %d", i)
		for j, v := range row {
			if v != 0 {
				strRow[j+1] = strconv.FormatFloat(v, 'f', 4, 64)
			}
		}
		if err := csvWriter.Write(strRow); err != nil {
			return err
		}
	}
	return nil
}
