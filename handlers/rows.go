package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github-issues-notice/models"
	"github-issues-notice/services"
)

// RowRepository は schedule_rows の管理操作
type RowRepository interface {
	List(ctx context.Context) ([]models.ScheduleRow, error)
	Create(ctx context.Context, row *models.ScheduleRow) error
	Delete(ctx context.Context, id string) error
}

func HandleListRows(store RowRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := store.List(c.Request.Context())
		if err != nil {
			log.Printf("schedule row list error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list rows"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"rows": rows})
	}
}

// HandleCreateRow は行を末尾に追加する
// セルの型や時刻指定に問題があれば保存せずに返す
func HandleCreateRow(store RowRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var row models.ScheduleRow
		if err := c.ShouldBindJSON(&row); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
		row.ID = ""

		_, problems, err := services.ParseScheduleRow(row.Position, row.Cells())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if len(problems) > 0 {
			messages := make([]string, 0, len(problems))
			for _, p := range problems {
				messages = append(messages, p.Error())
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid row", "problems": messages})
			return
		}

		if err := store.Create(c.Request.Context(), &row); err != nil {
			log.Printf("schedule row create error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create row"})
			return
		}

		c.JSON(http.StatusCreated, row)
	}
}

func HandleDeleteRow(store RowRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := store.Delete(c.Request.Context(), c.Param("id"))
		if errors.Is(err, services.ErrRowNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "row not found"})
			return
		}
		if err != nil {
			log.Printf("schedule row delete error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete row"})
			return
		}

		c.Status(http.StatusNoContent)
	}
}
