package treap

import (
	"github.com/cockroachdb/errors"
)

var (
	// ErrNilValue 插入 nil 值（pointer、interface、map、slice 等）
	ErrNilValue = errors.New("treap: nil value")

	// ErrEmpty 對空樹呼叫 First/Last
	ErrEmpty = errors.New("treap: tree is empty")

	// ErrCorrupt 結構檢查失敗，只會由 CheckInvariants 回傳
	ErrCorrupt = errors.New("treap: invariant broken")
)
