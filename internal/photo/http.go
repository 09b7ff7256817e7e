package photo

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lordbaah/photodrop/internal/apperr"
)

// RegisterRoutes mounts the upload, gallery and notification endpoints.
func RegisterRoutes(group *gin.RouterGroup, issuer *Issuer, recorder *Recorder, gallery *Gallery) {
	handler := &httpHandler{issuer: issuer, recorder: recorder, gallery: gallery}
	group.GET("/upload-url", handler.issueUploadURL)
	group.POST("/upload-url", handler.issueUploadURL)
	group.GET("/photos", handler.listPhotos)
	group.POST("/events/object-created", handler.objectCreated)
}

type httpHandler struct {
	issuer   *Issuer
	recorder *Recorder
	gallery  *Gallery
}

type uploadURLRequest struct {
	Filename    string `form:"filename" json:"filename"`
	ContentType string `form:"contentType" json:"contentType"`
}

func (h *httpHandler) issueUploadURL(c *gin.Context) {
	var req uploadURLRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}
	if c.Request.Method == http.MethodPost && c.Request.ContentLength > 0 && req.Filename == "" {
		var body uploadURLRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format in request body.", "details": err.Error()})
			return
		}
		// Query parameters win; the body only fills what they left empty.
		req.Filename = body.Filename
		if req.ContentType == "" {
			req.ContentType = body.ContentType
		}
	}

	status, body := UploadURLResponse(c.Request.Context(), h.issuer, req.Filename, req.ContentType)
	c.JSON(status, body)
}

func (h *httpHandler) listPhotos(c *gin.Context) {
	status, body := ListPhotosResponse(c.Request.Context(), h.gallery,
		c.Query("limit"), c.Query("generateUrls"), c.Query("cursor"))
	c.JSON(status, body)
}

func (h *httpHandler) objectCreated(c *gin.Context) {
	events, err := DecodeNotification(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification body", "details": err.Error()})
		return
	}

	status, body := RecordResponse(c.Request.Context(), h.recorder, events)
	c.JSON(status, body)
}

// UploadURLResponse issues a grant and renders the HTTP status and JSON body.
func UploadURLResponse(ctx context.Context, issuer *Issuer, filename, contentType string) (int, gin.H) {
	grant, err := issuer.Issue(ctx, filename, contentType)
	if err != nil {
		return errorResponse(err, "Failed to generate upload URL")
	}
	return http.StatusOK, gin.H{
		"uploadUrl":   grant.UploadURL,
		"key":         grant.Key,
		"contentType": grant.ContentType,
		"expiresAt":   grant.ExpiresAt,
		"message":     "Upload URL generated successfully",
	}
}

// ListPhotosResponse parses raw query values, lists one page and renders the response.
func ListPhotosResponse(ctx context.Context, gallery *Gallery, limit, generateURLs, cursor string) (int, gin.H) {
	q, err := ParseListQuery(limit, generateURLs, cursor)
	if err != nil {
		return errorResponse(err, "Failed to fetch photos")
	}

	page, err := gallery.List(ctx, q)
	if err != nil {
		return errorResponse(err, "Failed to fetch photos")
	}

	body := gin.H{
		"photos":  page.Photos,
		"count":   page.Count,
		"message": "Photos retrieved successfully",
	}
	if page.NextCursor != "" {
		body["nextCursor"] = page.NextCursor
	}
	return http.StatusOK, body
}

// RecordResponse records a batch and renders per-key outcomes. Any rejected
// write yields a 500 so the sender redelivers.
func RecordResponse(ctx context.Context, recorder *Recorder, events []ObjectCreated) (int, gin.H) {
	result, err := recorder.Record(ctx, events)
	body := gin.H{
		"recorded": result.Recorded,
		"skipped":  result.Skipped,
		"failed":   result.Failed,
	}
	if err != nil {
		status, errBody := errorResponse(err, "Failed to store metadata")
		for k, v := range errBody {
			body[k] = v
		}
		return status, body
	}
	body["message"] = "Metadata stored."
	return http.StatusOK, body
}

// ParseListQuery applies the gallery's query conventions: an unparseable limit
// means the default, and only the exact string "true" enables URLs.
func ParseListQuery(limit, generateURLs, cursor string) (ListQuery, error) {
	q := ListQuery{GenerateURLs: generateURLs == "true"}

	if n, err := strconv.Atoi(strings.TrimSpace(limit)); err == nil {
		q.Limit = n
	}

	if cursor = strings.TrimSpace(cursor); cursor != "" {
		c, err := ParseCursor(cursor)
		if err != nil {
			return ListQuery{}, apperr.Validation("list photos", "invalid cursor", err, "cursor")
		}
		q.Cursor = &c
	}
	return q, nil
}

// errorResponse renders {error, details[, fields]}. Server-side failures use
// the fixed fallback message; validation failures describe the input problem.
func errorResponse(err error, fallback string) (int, gin.H) {
	status := apperr.HTTPStatus(err)
	message := fallback
	if status < http.StatusInternalServerError {
		message = apperr.Message(err, fallback)
	}

	body := gin.H{
		"error":   message,
		"details": apperr.Detail(err),
	}
	if fields := apperr.Fields(err); len(fields) > 0 {
		body["fields"] = fields
	}
	return status, body
}
