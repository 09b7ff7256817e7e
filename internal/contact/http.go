package contact

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lordbaah/photodrop/internal/apperr"
)

const maxBodyBytes = 64 << 10

// RegisterRoutes mounts the contact endpoint.
func RegisterRoutes(group *gin.RouterGroup, svc *Service) {
	group.POST("/contact", func(c *gin.Context) {
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": msgMissingBody, "error": err.Error()})
			return
		}
		status, resp := Response(c.Request.Context(), svc, body)
		c.JSON(status, resp)
	})
}

// Response decodes and submits body, rendering the status and JSON reply.
func Response(ctx context.Context, svc *Service, body []byte) (int, gin.H) {
	sub, received, err := Decode(body)
	if err != nil {
		return http.StatusBadRequest, gin.H{
			"message": apperr.Message(err, msgInvalidJSON),
			"error":   apperr.Detail(err),
		}
	}

	if err := svc.Submit(ctx, sub); err != nil {
		if apperr.KindOf(err) == apperr.KindValidation {
			return http.StatusBadRequest, gin.H{
				"message":        apperr.Message(err, msgMissingFields),
				"receivedFields": received,
				"fields":         apperr.Fields(err),
			}
		}
		return http.StatusInternalServerError, gin.H{
			"message": msgSendFailed,
			"error":   apperr.Detail(err),
		}
	}

	return http.StatusOK, gin.H{"message": "Email sent successfully!", "status": "success"}
}
