package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
)

// NewRouter はルーティングを組み立てる
// store が nil の場合（設定シートを読む構成）は /rows を登録しない
func NewRouter(runner Runner, store RowRepository, now func() time.Time) *gin.Engine {
	r := gin.Default()

	r.GET("/healthz", HandleHealthz)
	r.POST("/run", HandleRun(runner, now))

	if store == nil {
		return r
	}
	r.GET("/rows", HandleListRows(store))
	r.POST("/rows", HandleCreateRow(store))
	r.DELETE("/rows/:id", HandleDeleteRow(store))

	return r
}
