package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wasiqzahoor/erp-system/pkg/response"
)

// Health returns a simple status payload useful for readiness checks. When a
// database handle is supplied the check also pings it.
func Health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload := gin.H{"status": "ok"}

		if db != nil {
			sqlDB, err := db.DB()
			if err == nil {
				err = sqlDB.PingContext(requestContext(c))
			}
			if err != nil {
				payload["status"] = "degraded"
				payload["database"] = "unreachable"
				c.JSON(http.StatusServiceUnavailable, response.Response{Success: false, Data: payload})
				return
			}
			payload["database"] = "ok"
		}

		response.Success(c, http.StatusOK, payload)
	}
}
