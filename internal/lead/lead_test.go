package lead

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Simplici0/quoteworks/internal/errors"
	"github.com/Simplici0/quoteworks/internal/pricing"
)

type captured struct {
	mu     sync.Mutex
	bodies [][]byte
}

func (c *captured) add(b []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bodies = append(c.bodies, b)
}

func (c *captured) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.bodies)
}

func newBackend(t *testing.T, status int, response string) (*httptest.Server, *captured) {
	t.Helper()
	c := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		c.add(body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	return srv, c
}

func validContact() Contact {
	return Contact{Name: "Ada Byron", Email: "ada@example.com", Company: "Analytical Labs"}
}

func testRecord(t *testing.T) pricing.QuoteRecord {
	t.Helper()
	rec, err := pricing.NewAssembler(pricing.WithIDGenerator(pricing.NewSequenceIDs("q"))).Assemble(pricing.Configuration{
		ProductFamily:       pricing.FamilyOmicsWorkflows,
		Tier:                "lab",
		UserCount:           5,
		FeatureUnitCount:    1,
		ContractLengthYears: 3,
	})
	require.NoError(t, err)
	return rec
}

func TestSubmitQuotePostsRecordAndContact(t *testing.T) {
	srv, backend := newBackend(t, http.StatusCreated, `{"reference":"SF-1001"}`)
	s := NewSubmitter(srv.URL, 2*time.Second, nil)

	rec := testRecord(t)
	result, err := s.SubmitQuote(context.Background(), rec, validContact())
	require.NoError(t, err)
	assert.Equal(t, "SF-1001", result.Reference)
	assert.False(t, result.AcceptedAt.IsZero())

	require.Equal(t, 1, backend.count())
	var got struct {
		Kind    string              `json:"kind"`
		Contact Contact             `json:"contact"`
		Quote   pricing.QuoteRecord `json:"quote"`
	}
	require.NoError(t, json.Unmarshal(backend.bodies[0], &got))
	assert.Equal(t, "quote", got.Kind)
	assert.Equal(t, "ada@example.com", got.Contact.Email)
	assert.Equal(t, rec.ID, got.Quote.ID)
	assert.True(t, rec.CostBreakdown.Total.Equal(got.Quote.CostBreakdown.Total))
}

func TestSubmitLead(t *testing.T) {
	srv, backend := newBackend(t, http.StatusOK, `{"reference":"L-7"}`)
	s := NewSubmitter(srv.URL, 2*time.Second, nil)

	result, err := s.SubmitLead(context.Background(), Lead{
		Contact:  validContact(),
		Interest: pricing.FamilySuiteTier,
		Message:  "Three sites, need SSO",
	})
	require.NoError(t, err)
	assert.Equal(t, "L-7", result.Reference)

	var got map[string]any
	require.NoError(t, json.Unmarshal(backend.bodies[0], &got))
	assert.Equal(t, "lead", got["kind"])
	lead := got["lead"].(map[string]any)
	assert.Equal(t, "Ada Byron", lead["name"])
	assert.Equal(t, "suite-tier", lead["interest"])
}

func TestSubmissionStatusClassification(t *testing.T) {
	cases := []struct {
		status    int
		retryable bool
	}{
		{http.StatusBadRequest, false},
		{http.StatusUnprocessableEntity, false},
		{http.StatusTooManyRequests, true},
		{http.StatusInternalServerError, true},
		{http.StatusServiceUnavailable, true},
	}
	for _, tc := range cases {
		srv, backend := newBackend(t, tc.status, `{}`)
		s := NewSubmitter(srv.URL, 2*time.Second, nil)

		_, err := s.SubmitQuote(context.Background(), testRecord(t), validContact())
		require.Error(t, err, "status %d", tc.status)
		assert.True(t, apperrors.IsType(err, apperrors.TypeSubmission), "status %d", tc.status)
		assert.Equal(t, tc.retryable, apperrors.IsRetryable(err), "status %d", tc.status)
		assert.Equal(t, 1, backend.count(), "no retries for status %d", tc.status)
	}
}

func TestSubmissionMissingReferenceIsNotRetryable(t *testing.T) {
	srv, _ := newBackend(t, http.StatusOK, `{"ok":true}`)
	s := NewSubmitter(srv.URL, 2*time.Second, nil)

	_, err := s.SubmitLead(context.Background(), Lead{Contact: validContact()})
	assert.True(t, apperrors.IsType(err, apperrors.TypeSubmission))
	assert.False(t, apperrors.IsRetryable(err))
}

func TestSubmissionTransportFailureIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	s := NewSubmitter(url, time.Second, nil)
	_, err := s.SubmitQuote(context.Background(), testRecord(t), validContact())
	assert.True(t, apperrors.IsType(err, apperrors.TypeSubmission))
	assert.True(t, apperrors.IsRetryable(err))
}

func TestSubmissionTimeoutIsRetryable(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	s := NewSubmitter(srv.URL, 50*time.Millisecond, nil)
	_, err := s.SubmitQuote(context.Background(), testRecord(t), validContact())
	assert.True(t, apperrors.IsType(err, apperrors.TypeSubmission))
	assert.True(t, apperrors.IsRetryable(err))
}

func TestSubmissionValidatesContactBeforeSending(t *testing.T) {
	srv, backend := newBackend(t, http.StatusOK, `{"reference":"x"}`)
	s := NewSubmitter(srv.URL, time.Second, nil)

	cases := map[string]Contact{
		"name":  {Email: "ada@example.com"},
		"email": {Name: "Ada", Email: "not-an-email"},
	}
	for field, contact := range cases {
		_, err := s.SubmitQuote(context.Background(), testRecord(t), contact)
		e, ok := apperrors.As(err)
		require.True(t, ok, field)
		assert.Equal(t, apperrors.TypeConfiguration, e.Type)
		assert.Equal(t, field, e.Field)
	}

	_, err := s.SubmitLead(context.Background(), Lead{Contact: validContact(), Interest: "hardware"})
	assert.True(t, apperrors.IsType(err, apperrors.TypeConfiguration))

	assert.Equal(t, 0, backend.count())
}

func TestSubmitterWithoutEndpoint(t *testing.T) {
	s := NewSubmitter("", time.Second, nil)
	assert.False(t, s.Enabled())

	_, err := s.SubmitLead(context.Background(), Lead{Contact: validContact()})
	assert.True(t, apperrors.IsType(err, apperrors.TypeSubmission))
	assert.False(t, apperrors.IsRetryable(err))
}

func TestSubmissionHonoursCancelledContext(t *testing.T) {
	srv, backend := newBackend(t, http.StatusOK, `{"reference":"x"}`)
	s := NewSubmitter(srv.URL, time.Second, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.SubmitLead(ctx, Lead{Contact: validContact()})
	assert.True(t, apperrors.IsType(err, apperrors.TypeSubmission))
	assert.Equal(t, 0, backend.count())
}
