package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/lordbaah/photodrop/internal/apperr"
	"github.com/lordbaah/photodrop/internal/logger"
	"github.com/lordbaah/photodrop/internal/metrics"
	"github.com/lordbaah/photodrop/internal/tracing"
)

const (
	msgMissingBody   = "Request body is missing."
	msgInvalidJSON   = "Invalid JSON format in request body."
	msgMissingFields = "Name, email, and message are required fields."
	msgInvalidFields = "Name, email, or message is invalid."
	msgSendFailed    = "Failed to send email."
)

// Mailer delivers a single message.
type Mailer interface {
	Send(ctx context.Context, m Mail) error
}

// Service validates contact submissions and forwards them by mail.
type Service struct {
	mailer   Mailer
	from     string
	to       string
	validate *validator.Validate
}

// NewService constructs a Service sending from one configured address to another.
func NewService(mailer Mailer, from, to string) *Service {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &Service{mailer: mailer, from: from, to: to, validate: v}
}

// Decode parses a raw request body. It returns the top-level keys that were
// present so a rejected submission can report what it received.
func Decode(body []byte) (Submission, []string, error) {
	const op = "decode contact submission"

	received := []string{}
	if len(bytes.TrimSpace(body)) == 0 {
		return Submission{}, received, apperr.Validation(op, msgMissingBody, ErrMissingBody)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return Submission{}, received, apperr.Validation(op, msgInvalidJSON, fmt.Errorf("%w: %v", ErrInvalidJSON, err))
	}
	for k := range raw {
		received = append(received, k)
	}
	sort.Strings(received)

	var sub Submission
	if err := json.Unmarshal(body, &sub); err != nil {
		return Submission{}, received, apperr.Validation(op, msgInvalidJSON, fmt.Errorf("%w: %v", ErrInvalidJSON, err))
	}
	return sub, received, nil
}

// Submit validates the submission and mails it to the configured recipient.
func (s *Service) Submit(ctx context.Context, sub Submission) (err error) {
	const op = "submit contact form"

	ctx, span := tracing.Tracer().Start(ctx, "contact.Submit")
	defer func() { tracing.End(span, err) }()

	sub.Name = strings.TrimSpace(sub.Name)
	sub.Email = strings.TrimSpace(sub.Email)
	sub.Message = strings.TrimSpace(sub.Message)

	if err := s.validate.Struct(sub); err != nil {
		metrics.ContactEmail("invalid")
		return validationError(op, err)
	}

	mail := Mail{
		From:    s.from,
		To:      s.to,
		ReplyTo: sub.Email,
		Subject: Subject,
		Body:    fmt.Sprintf("%s\n\nName: %s\nEmail: %s\nMessage: %s", Subject, sub.Name, sub.Email, sub.Message),
	}
	if err := s.mailer.Send(ctx, mail); err != nil {
		logger.FromContext(ctx).Error("send contact email", zap.String("op", op), zap.Error(err))
		metrics.ContactEmail("failed")
		return apperr.Upstream(op, msgSendFailed, err)
	}

	logger.FromContext(ctx).Info("contact email sent")
	metrics.ContactEmail("sent")
	return nil
}

func validationError(op string, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Validation(op, msgInvalidFields, err)
	}

	fields := make([]string, 0, len(verrs))
	missing := false
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
		if fe.Tag() == "required" {
			missing = true
		}
	}

	if missing {
		return apperr.Validation(op, msgMissingFields, fmt.Errorf("%w: %v", ErrMissingFields, err), fields...)
	}
	return apperr.Validation(op, msgInvalidFields, err, fields...)
}
