package httpx

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminHeader — заголовок с паролем администратора.
const AdminHeader = "X-Admin-Password"

// AdminGate — доступ к маршруту только по паролю администратора.
// Пароль не задан — 403 (функция отключена); неверный или пустой — 401.
// Сравнение за постоянное время.
func AdminGate(password string) gin.HandlerFunc {
	expected := []byte(password)
	return func(c *gin.Context) {
		if len(expected) == 0 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin disabled"})
			return
		}
		got := []byte(c.GetHeader(AdminHeader))
		if subtle.ConstantTimeCompare(got, expected) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid admin password"})
			return
		}
		c.Next()
	}
}
