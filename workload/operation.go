package workload

import (
	"github.com/Hakuto4838/Treap.git/ordset"
	"github.com/cockroachdb/errors"
)

// OperationType 表示操作種類
type OperationType uint8

const (
	OpQuery OperationType = iota
	OpInsert
	OpDelete
	OpFloor
	OpCeiling
	OpHigher
	OpLower

	numOpTypes
)

// orderedOps 有序查詢操作，產生 workload 時從中均勻挑選
var orderedOps = [...]OperationType{OpFloor, OpCeiling, OpHigher, OpLower}

func (t OperationType) String() string {
	switch t {
	case OpQuery:
		return "Query"
	case OpInsert:
		return "Insert"
	case OpDelete:
		return "Delete"
	case OpFloor:
		return "Floor"
	case OpCeiling:
		return "Ceiling"
	case OpHigher:
		return "Higher"
	case OpLower:
		return "Lower"
	default:
		return "Unknown"
	}
}

// Valid 是否為已定義的操作
func (t OperationType) Valid() bool {
	return t < numOpTypes
}

// Operation 表示一筆操作
type Operation struct {
	Type OperationType
	Key  ordset.K
}

// Result 操作結果。Query/Insert/Delete 只使用 OK，有序查詢另外回傳找到的 Key。
type Result struct {
	OK  bool
	Key ordset.K
}

// Apply 對 set 執行一筆操作
func Apply(set ordset.OrderedSet[ordset.K], op Operation) (Result, error) {
	switch op.Type {
	case OpQuery:
		return Result{OK: set.Contains(op.Key)}, nil
	case OpInsert:
		if err := set.Insert(op.Key); err != nil {
			return Result{}, err
		}
		return Result{OK: true}, nil
	case OpDelete:
		return Result{OK: set.Remove(op.Key)}, nil
	case OpFloor:
		k, ok := set.Floor(op.Key)
		return Result{OK: ok, Key: k}, nil
	case OpCeiling:
		k, ok := set.Ceiling(op.Key)
		return Result{OK: ok, Key: k}, nil
	case OpHigher:
		k, ok := set.Higher(op.Key)
		return Result{OK: ok, Key: k}, nil
	case OpLower:
		k, ok := set.Lower(op.Key)
		return Result{OK: ok, Key: k}, nil
	}
	return Result{}, errors.Newf("unknown operation type %d", op.Type)
}

// SequenceModel 以既有的 Operation 序列提供順序重播
type SequenceModel struct {
	ops []Operation
	pos int
}

// NewSequenceModel 複製 ops 建立模型
func NewSequenceModel(ops []Operation) *SequenceModel {
	cp := make([]Operation, len(ops))
	copy(cp, ops)
	return &SequenceModel{ops: cp}
}

// Next 回傳下一筆操作，若結束則回傳零值與 false
func (m *SequenceModel) Next() (Operation, bool) {
	if m.pos >= len(m.ops) {
		return Operation{}, false
	}
	op := m.ops[m.pos]
	m.pos++
	return op, true
}

// NextN 回傳接下來 n 筆（或直到結束）的操作
func (m *SequenceModel) NextN(n int) []Operation {
	if n <= 0 || m.pos >= len(m.ops) {
		return nil
	}
	end := min(m.pos+n, len(m.ops))
	out := make([]Operation, end-m.pos)
	copy(out, m.ops[m.pos:end])
	m.pos = end
	return out
}

// Reset 游標重置到起點
func (m *SequenceModel) Reset() { m.pos = 0 }

// Len 操作總數
func (m *SequenceModel) Len() int { return len(m.ops) }
