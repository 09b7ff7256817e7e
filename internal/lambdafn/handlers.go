// Package lambdafn adapts the photo and contact services to API Gateway proxy
// and S3 notification events.
package lambdafn

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lordbaah/photodrop/internal/contact"
	"github.com/lordbaah/photodrop/internal/logger"
	"github.com/lordbaah/photodrop/internal/photo"
)

var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Methods": "GET,POST,OPTIONS",
	"Access-Control-Allow-Headers": "Content-Type,X-Amz-Date,Authorization,X-Api-Key,X-Amz-Security-Token",
	"Content-Type":                 "application/json",
}

// Handlers holds the services behind each Lambda function.
type Handlers struct {
	Issuer      *photo.Issuer
	Recorder    *photo.Recorder
	Gallery     *photo.Gallery
	ContactForm *contact.Service
}

// UploadURL serves GET or POST requests for a pre-signed upload URL.
func (h *Handlers) UploadURL(ctx context.Context, req events.APIGatewayProxyRequest) (*events.APIGatewayProxyResponse, error) {
	if req.HTTPMethod == http.MethodOptions {
		return preflight()
	}
	ctx = withRequestID(ctx, req)

	filename := req.QueryStringParameters["filename"]
	contentType := req.QueryStringParameters["contentType"]
	if filename == "" && req.Body != "" {
		var body struct {
			Filename    string `json:"filename"`
			ContentType string `json:"contentType"`
		}
		raw, err := requestBody(req)
		if err == nil {
			err = json.Unmarshal(raw, &body)
		}
		if err != nil {
			return respond(http.StatusBadRequest, gin.H{"error": "Invalid JSON format in request body.", "details": err.Error()})
		}
		filename = body.Filename
		if contentType == "" {
			contentType = body.ContentType
		}
	}

	return respond(photo.UploadURLResponse(ctx, h.Issuer, filename, contentType))
}

// ListPhotos serves a gallery page.
func (h *Handlers) ListPhotos(ctx context.Context, req events.APIGatewayProxyRequest) (*events.APIGatewayProxyResponse, error) {
	if req.HTTPMethod == http.MethodOptions {
		return preflight()
	}
	ctx = withRequestID(ctx, req)

	q := req.QueryStringParameters
	return respond(photo.ListPhotosResponse(ctx, h.Gallery, q["limit"], q["generateUrls"], q["cursor"]))
}

// Contact forwards a contact-form submission.
func (h *Handlers) Contact(ctx context.Context, req events.APIGatewayProxyRequest) (*events.APIGatewayProxyResponse, error) {
	if req.HTTPMethod == http.MethodOptions {
		return preflight()
	}
	ctx = withRequestID(ctx, req)

	raw, err := requestBody(req)
	if err != nil {
		return respond(http.StatusBadRequest, gin.H{"message": "Invalid JSON format in request body.", "error": err.Error()})
	}
	return respond(contact.Response(ctx, h.ContactForm, raw))
}

// ObjectCreated records metadata for an S3 notification. A non-nil error makes
// the platform redeliver the event.
func (h *Handlers) ObjectCreated(ctx context.Context, ev events.S3Event) error {
	result, err := h.Recorder.Record(ctx, FromS3Event(ev))
	log := logger.FromContext(ctx)
	if err != nil {
		log.Error("record s3 event",
			zap.Int("recorded", len(result.Recorded)),
			zap.Int("failed", len(result.Failed)),
			zap.Error(err),
		)
		return err
	}

	log.Info("recorded s3 event",
		zap.Int("recorded", len(result.Recorded)),
		zap.Int("skipped", len(result.Skipped)),
		zap.Int("failed", len(result.Failed)),
	)
	return nil
}

// FromS3Event converts S3 notification records. Keys stay URL-encoded.
func FromS3Event(ev events.S3Event) []photo.ObjectCreated {
	out := make([]photo.ObjectCreated, 0, len(ev.Records))
	for _, r := range ev.Records {
		out = append(out, photo.ObjectCreated{
			EventName: r.EventName,
			Bucket:    r.S3.Bucket.Name,
			Key:       r.S3.Object.Key,
			Size:      r.S3.Object.Size,
			EventTime: r.EventTime,
		})
	}
	return out
}

func requestBody(req events.APIGatewayProxyRequest) ([]byte, error) {
	if req.IsBase64Encoded {
		return base64.StdEncoding.DecodeString(req.Body)
	}
	return []byte(req.Body), nil
}

func withRequestID(ctx context.Context, req events.APIGatewayProxyRequest) context.Context {
	id := strings.TrimSpace(req.Headers[logger.CorrelationIDHeader])
	if id == "" {
		id = req.RequestContext.RequestID
	}
	if id == "" {
		return ctx
	}
	return logger.WithCorrelationID(ctx, id)
}

func preflight() (*events.APIGatewayProxyResponse, error) {
	return respond(http.StatusOK, gin.H{"message": "CORS preflight successful"})
}

func respond(status int, body gin.H) (*events.APIGatewayProxyResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	headers := make(map[string]string, len(corsHeaders))
	for k, v := range corsHeaders {
		headers[k] = v
	}
	return &events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    headers,
		Body:       string(payload),
	}, nil
}
