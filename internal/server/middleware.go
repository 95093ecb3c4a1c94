package server

import (
	"crypto/subtle"
	"net/http"

	"github.com/Veraticus/taxonomist/internal/common"
	"github.com/gin-gonic/gin"
)

// CronKeyHeader carries the cron key when it is not passed as ?key=.
const CronKeyHeader = "X-Cron-Key"

// RequireCronKey rejects requests that do not present key. An empty key
// rejects everything.
func RequireCronKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		presented := c.Query("key")
		if presented == "" {
			presented = c.GetHeader(CronKeyHeader)
		}
		if key == "" || presented == "" ||
			subtle.ConstantTimeCompare([]byte(presented), []byte(key)) != 1 {
			respondError(c, http.StatusForbidden, "forbidden", common.ErrForbidden)
			return
		}
		c.Next()
	}
}
