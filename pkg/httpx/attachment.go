package httpx

import (
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Attachment — отдаёт байты как скачиваемый файл.
// Имя с не-ASCII символами кодируется по RFC 2231 (filename*=utf-8''...).
func Attachment(c *gin.Context, mediaType, fileName string, data []byte) {
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": fileName})
	if disposition == "" {
		disposition = "attachment"
	}
	c.Header("Content-Disposition", disposition)
	c.Data(http.StatusOK, mediaType, data)
}
