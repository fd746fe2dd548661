package analytool

import (
	"github.com/btcsuite/btclog"
)

// log 預設關閉，由呼叫端透過 UseLogger 開啟
var log btclog.Logger

func init() {
	DisableLog()
}

// DisableLog 關閉本套件的 log 輸出
func DisableLog() {
	log = btclog.Disabled
}

// UseLogger 指定本套件使用的 logger
func UseLogger(logger btclog.Logger) {
	log = logger
}
