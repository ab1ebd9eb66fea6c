package main

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Simplici0/quoteworks/internal/cart"
	"github.com/Simplici0/quoteworks/internal/export"
	"github.com/Simplici0/quoteworks/internal/lead"
	"github.com/Simplici0/quoteworks/internal/pricing"
)

type server struct {
	db        *sql.DB
	carts     *cart.Store
	assembler *pricing.Assembler
	submitter *lead.Submitter
	sessions  *sessionService
	metrics   *metrics
	logger    *zap.Logger
	currency  string
}

type catalogTier struct {
	Tier     string `json:"tier"`
	Label    string `json:"label"`
	Estimate bool   `json:"estimate"`
}

type catalogFamily struct {
	Family      pricing.ProductFamily `json:"family"`
	Label       string                `json:"label"`
	UnitScaling bool                  `json:"unitScaling"`
	Tiers       []catalogTier         `json:"tiers"`
}

type catalogResponse struct {
	RuleVersion   string                 `json:"ruleVersion"`
	Currency      string                 `json:"currency"`
	BillingPeriod string                 `json:"billingPeriod"`
	Families      []catalogFamily        `json:"families"`
	AddOnServices []pricing.AddOnService `json:"addOnServices"`
	TrainingRates pricing.TrainingRates  `json:"trainingRates"`
	SessionTypes  []pricing.SessionType  `json:"sessionTypes"`
	Submissions   bool                   `json:"submissionsEnabled"`
}

type previewResponse struct {
	Configuration pricing.Configuration `json:"configuration"`
	CostBreakdown pricing.CostBreakdown `json:"costBreakdown"`
}

type cartResponse struct {
	Items []pricing.QuoteRecord `json:"items"`
	Count int                   `json:"count"`
}

type submitResponse struct {
	QuoteID     string    `json:"quoteId,omitempty"`
	Reference   string    `json:"reference"`
	SubmittedAt time.Time `json:"submittedAt"`
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.middleware)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/catalog", s.handleCatalog)
		r.Post("/quotes/preview", s.handleQuotePreview)
		r.Post("/leads", s.handleLeadSubmit)

		r.Route("/cart", func(r chi.Router) {
			r.Use(s.sessions.middleware)
			r.Get("/", s.handleCartList)
			r.Post("/", s.handleCartAdd)
			r.Delete("/", s.handleCartClear)
			r.Get("/submissions", s.handleCartSubmissions)
			r.Delete("/{id}", s.handleCartRemove)
			r.Get("/{id}/document", s.handleCartDocument)
			r.Post("/{id}/submit", s.handleCartSubmit)
		})
	})

	return r
}

func (s *server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.PingContext(r.Context()); err != nil {
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	resp := catalogResponse{
		RuleVersion:   pricing.RuleTableVersion,
		Currency:      s.currency,
		BillingPeriod: pricing.BillingAnnual,
		AddOnServices: pricing.AddOnServices(),
		TrainingRates: pricing.DefaultTrainingRates(),
		SessionTypes:  []pricing.SessionType{pricing.SessionQuarter, pricing.SessionHalf, pricing.SessionFull},
		Submissions:   s.submitter.Enabled(),
	}

	for _, info := range pricing.Families() {
		family := catalogFamily{
			Family:      info.Family,
			Label:       info.Label,
			UnitScaling: info.Family.UnitScaling(),
		}
		for _, tier := range info.Tiers {
			rule, err := pricing.LookupRule(info.Family, tier)
			if err != nil {
				s.writeError(w, r, err)
				return
			}
			family.Tiers = append(family.Tiers, catalogTier{Tier: rule.Tier, Label: rule.Label, Estimate: rule.Estimate})
		}
		resp.Families = append(resp.Families, family)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleQuotePreview(w http.ResponseWriter, r *http.Request) {
	var cfg pricing.Configuration
	if err := decodeJSON(w, r, &cfg); err != nil {
		s.writeError(w, r, err)
		return
	}

	breakdown, err := s.assembler.Price(cfg)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.metrics.observeQuote(cfg.ProductFamily, "preview", breakdown)

	writeJSON(w, http.StatusOK, previewResponse{Configuration: cfg.Clone(), CostBreakdown: breakdown})
}

func (s *server) handleCartAdd(w http.ResponseWriter, r *http.Request) {
	var cfg pricing.Configuration
	if err := decodeJSON(w, r, &cfg); err != nil {
		s.writeError(w, r, err)
		return
	}

	record, err := s.assembler.Assemble(cfg)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.carts.AppendToCart(r.Context(), sessionIDFrom(r.Context()), record); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.metrics.observeQuote(cfg.ProductFamily, "cart", record.CostBreakdown)

	writeJSON(w, http.StatusCreated, record)
}

func (s *server) handleCartList(w http.ResponseWriter, r *http.Request) {
	records, err := s.carts.ReadCart(r.Context(), sessionIDFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cartResponse{Items: records, Count: len(records)})
}

func (s *server) handleCartRemove(w http.ResponseWriter, r *http.Request) {
	if err := s.carts.RemoveFromCart(r.Context(), sessionIDFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleCartClear(w http.ResponseWriter, r *http.Request) {
	if err := s.carts.ClearCart(r.Context(), sessionIDFrom(r.Context())); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleCartDocument(w http.ResponseWriter, r *http.Request) {
	exporter, err := export.ForFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	record, err := s.carts.GetQuote(r.Context(), sessionIDFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	doc, err := exporter.Render(record)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+doc.FileName+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.Body)
}

func (s *server) handleCartSubmit(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionIDFrom(r.Context())

	var contact lead.Contact
	if err := decodeJSON(w, r, &contact); err != nil {
		s.writeError(w, r, err)
		return
	}

	record, err := s.carts.GetQuote(r.Context(), sessionID, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.submitter.SubmitQuote(r.Context(), record, contact)
	s.metrics.observeSubmission("quote", err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sub, err := s.carts.RecordSubmission(r.Context(), sessionID, record.ID, result.Reference)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info("quote submitted",
		zap.String("quote_id", record.ID),
		zap.String("reference", result.Reference),
		zap.Bool("custom_quote", record.CostBreakdown.RequiresCustomQuote),
	)
	writeJSON(w, http.StatusAccepted, submitResponse{QuoteID: record.ID, Reference: sub.Reference, SubmittedAt: sub.SubmittedAt})
}

func (s *server) handleCartSubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := s.carts.Submissions(r.Context(), sessionIDFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if subs == nil {
		subs = []cart.Submission{}
	}
	writeJSON(w, http.StatusOK, subs)
}

func (s *server) handleLeadSubmit(w http.ResponseWriter, r *http.Request) {
	var l lead.Lead
	if err := decodeJSON(w, r, &l); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.submitter.SubmitLead(r.Context(), l)
	s.metrics.observeSubmission("lead", err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusAccepted, submitResponse{Reference: result.Reference, SubmittedAt: result.AcceptedAt})
}
