// Package lead delivers submitted quotes and contact requests to the sales
// backend over HTTP.
package lead

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apperrors "github.com/Simplici0/quoteworks/internal/errors"
	"github.com/Simplici0/quoteworks/internal/pricing"
)

// Contact identifies the buyer behind a submission.
type Contact struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Company string `json:"company,omitempty" validate:"max=200"`
	Phone   string `json:"phone,omitempty" validate:"max=50"`
}

// Lead is a contact request that is not tied to a stored quote.
type Lead struct {
	Contact
	Interest pricing.ProductFamily `json:"interest,omitempty"`
	Message  string                `json:"message,omitempty" validate:"max=4000"`
}

// SubmissionResult is the sales backend's acknowledgement.
type SubmissionResult struct {
	Reference  string    `json:"reference"`
	AcceptedAt time.Time `json:"acceptedAt"`
}

const (
	kindQuote = "quote"
	kindLead  = "lead"
)

type quotePayload struct {
	Kind    string              `json:"kind"`
	Contact Contact             `json:"contact"`
	Quote   pricing.QuoteRecord `json:"quote"`
}

type leadPayload struct {
	Kind string `json:"kind"`
	Lead Lead   `json:"lead"`
}

type ackResponse struct {
	Reference string `json:"reference"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Submitter posts quotes and leads as JSON to a single endpoint. It makes
// one attempt per call; retrying is left to the caller.
type Submitter struct {
	endpoint string
	timeout  time.Duration
	client   *fasthttp.Client
	now      func() time.Time
	logger   *zap.Logger
}

// NewSubmitter returns a Submitter for endpoint. An empty endpoint yields a
// Submitter whose calls fail with a non-retryable submission error.
func NewSubmitter(endpoint string, timeout time.Duration, logger *zap.Logger) *Submitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Submitter{
		endpoint: endpoint,
		timeout:  timeout,
		client: &fasthttp.Client{
			Name:                "quoteworks",
			MaxIdleConnDuration: 30 * time.Second,
		},
		now:    time.Now,
		logger: logger,
	}
}

// Enabled reports whether an endpoint is configured.
func (s *Submitter) Enabled() bool {
	return s.endpoint != ""
}

// SubmitQuote sends a stored quote record together with the buyer's contact.
func (s *Submitter) SubmitQuote(ctx context.Context, record pricing.QuoteRecord, contact Contact) (SubmissionResult, error) {
	if err := validateInput(contact); err != nil {
		return SubmissionResult{}, err
	}
	if record.ID == "" {
		return SubmissionResult{}, apperrors.Configuration("quoteId", "is required")
	}
	return s.post(ctx, quotePayload{Kind: kindQuote, Contact: contact, Quote: record}, record.ID)
}

// SubmitLead sends a contact request.
func (s *Submitter) SubmitLead(ctx context.Context, lead Lead) (SubmissionResult, error) {
	if err := validateInput(lead); err != nil {
		return SubmissionResult{}, err
	}
	if lead.Interest != "" && !knownFamily(lead.Interest) {
		return SubmissionResult{}, apperrors.Configurationf("interest", "unknown product family %q", lead.Interest)
	}
	return s.post(ctx, leadPayload{Kind: kindLead, Lead: lead}, "")
}

func (s *Submitter) post(ctx context.Context, payload any, quoteID string) (SubmissionResult, error) {
	if s.endpoint == "" {
		return SubmissionResult{}, apperrors.Submission("submission endpoint is not configured", false, nil)
	}
	if err := ctx.Err(); err != nil {
		return SubmissionResult{}, apperrors.Submission("submission cancelled", errors.Is(err, context.DeadlineExceeded), err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return SubmissionResult{}, apperrors.Submission("encode submission", false, err)
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(s.endpoint)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("Accept", "application/json")
	req.SetBody(body)

	start := time.Now()
	if err := s.client.DoDeadline(req, resp, s.deadline(ctx, start)); err != nil {
		s.logger.Warn("submission transport failure",
			zap.String("quote_id", quoteID),
			zap.Error(err),
		)
		return SubmissionResult{}, apperrors.Submission("submission endpoint unreachable", true, err).
			WithContext("quoteId", quoteID)
	}

	status := resp.StatusCode()
	s.logger.Debug("submission response",
		zap.String("quote_id", quoteID),
		zap.Int("status", status),
		zap.Duration("elapsed", time.Since(start)),
	)

	if status < 200 || status > 299 {
		retryable := status == fasthttp.StatusTooManyRequests || status >= 500
		return SubmissionResult{}, apperrors.Submission("submission rejected", retryable, nil).
			WithContext("status", status).
			WithContext("quoteId", quoteID)
	}

	var ack ackResponse
	if err := json.Unmarshal(resp.Body(), &ack); err != nil || ack.Reference == "" {
		return SubmissionResult{}, apperrors.Submission("submission endpoint returned no reference", false, err).
			WithContext("quoteId", quoteID)
	}

	return SubmissionResult{Reference: ack.Reference, AcceptedAt: s.now().UTC()}, nil
}

// deadline is the earlier of the configured timeout and the context deadline.
func (s *Submitter) deadline(ctx context.Context, start time.Time) time.Time {
	deadline := start.Add(s.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		return d
	}
	return deadline
}

func validateInput(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apperrors.Wrap(apperrors.TypeConfiguration, "invalid contact", err)
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return apperrors.Configuration(fe.Field(), "is required")
	case "email":
		return apperrors.Configuration(fe.Field(), "must be a valid email address")
	case "max":
		return apperrors.Configurationf(fe.Field(), "must be at most %s characters", fe.Param())
	default:
		return apperrors.Configurationf(fe.Field(), "failed %s validation", fe.Tag())
	}
}

func knownFamily(family pricing.ProductFamily) bool {
	for _, info := range pricing.Families() {
		if info.Family == family {
			return true
		}
	}
	return false
}
