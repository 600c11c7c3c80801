package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github-issues-notice/services"
)

// Runner は通知ジョブを1回実行する
type Runner interface {
	Run(ctx context.Context, now time.Time) (*services.RunResult, error)
}

// HandleRun は外部スケジューラから呼ばれる実行エンドポイント
func HandleRun(runner Runner, now func() time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := runner.Run(c.Request.Context(), now())
		if err != nil {
			log.Printf("notice run error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "result": result})
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func HandleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
