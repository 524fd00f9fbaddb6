package middlewares

import "github.com/gin-gonic/gin"

// abortError writes the platform error envelope and stops the chain.
// Mirrors handlers.RespondError; middlewares keep their own copy so the
// dependency only points one way.
func abortError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":      code,
			"message":   message,
			"requestId": c.GetString(CtxRequestID),
		},
	})
}
