package server

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/iwvelando/mortgage-calc/internal/calculator"
	"github.com/iwvelando/mortgage-calc/internal/lead"
	"github.com/iwvelando/mortgage-calc/pkg/affordability"
	"github.com/iwvelando/mortgage-calc/pkg/comparison"
	"github.com/iwvelando/mortgage-calc/pkg/constants"
	"github.com/iwvelando/mortgage-calc/pkg/mathutil"
	"github.com/iwvelando/mortgage-calc/pkg/mortgage"
	"github.com/iwvelando/mortgage-calc/pkg/output"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed static/*
var staticFiles embed.FS

type handler struct {
	logger      *zap.Logger
	service     *calculator.Service
	submitter   lead.Submitter
	maxBodySize int64
	version     string
}

// NewHandler constructs the HTTP handler that serves the web page and calculator API.
func NewHandler(logger *zap.Logger, service *calculator.Service, submitter lead.Submitter, maxBodySize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if service == nil {
		service = calculator.NewService(logger, nil)
	}
	if submitter == nil {
		submitter = lead.NewLogSubmitter(logger)
	}

	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:      logger,
		service:     service,
		submitter:   submitter,
		maxBodySize: maxBodySize,
		version:     trimmedVersion,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/api/payment", h.handlePayment)
	mux.HandleFunc("/api/breakdown", h.handleBreakdown)
	mux.HandleFunc("/api/schedule", h.handleSchedule)
	mux.HandleFunc("/api/affordability", h.handleAffordability)
	mux.HandleFunc("/api/compare", h.handleCompare)
	mux.HandleFunc("/api/lead", h.handleLead)

	// Metadata for the web page
	mux.HandleFunc("/api/version", h.handleVersion)
	mux.HandleFunc("/api/policy", h.handlePolicy)

	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to prepare embedded static files: %v", err))
	}
	fileServer := http.FileServer(http.FS(sub))
	mux.Handle("/", fileServer)

	return mux
}

type paymentResponse struct {
	Frequency          string          `json:"frequency"`
	Payment            decimal.Decimal `json:"payment"`
	PaymentsPerYear    int             `json:"paymentsPerYear"`
	MonthlyPayment     decimal.Decimal `json:"monthlyPayment"`
	Principal          decimal.Decimal `json:"principal"`
	CMHCPremium        decimal.Decimal `json:"cmhcPremium"`
	DownPayment        decimal.Decimal `json:"downPayment"`
	DownPaymentPercent float64         `json:"downPaymentPercent"`
	TotalPaid          decimal.Decimal `json:"totalPaid"`
	TotalInterest      decimal.Decimal `json:"totalInterest"`
}

type breakdownResponse struct {
	MonthlyPayment               decimal.Decimal `json:"monthlyPayment"`
	PrincipalPaidOverTerm        decimal.Decimal `json:"principalPaidOverTerm"`
	InterestPaidOverTerm         decimal.Decimal `json:"interestPaidOverTerm"`
	RemainingBalanceAtTerm       decimal.Decimal `json:"remainingBalanceAtTerm"`
	EffectiveInterestCostPercent float64         `json:"effectiveInterestCostPercent"`
}

type scheduleRow struct {
	Month     int             `json:"month"`
	Date      string          `json:"date,omitempty"`
	Payment   decimal.Decimal `json:"payment"`
	Interest  decimal.Decimal `json:"interest"`
	Principal decimal.Decimal `json:"principal"`
	Balance   decimal.Decimal `json:"balance"`
}

type scheduleResponse struct {
	Rows []scheduleRow `json:"rows"`
	CSV  string        `json:"csv"`
}

type affordabilityRequest struct {
	affordability.BorrowerProfile
	RatePercent float64 `json:"ratePercent"`
}

type affordabilityResponse struct {
	MaxPurchasePrice        decimal.Decimal `json:"maxPurchasePrice"`
	MaxMortgage             decimal.Decimal `json:"maxMortgage"`
	EstimatedMonthlyPayment decimal.Decimal `json:"estimatedMonthlyPayment"`
	GDSRatioPercent         float64         `json:"gdsRatioPercent"`
	TDSRatioPercent         float64         `json:"tdsRatioPercent"`
	StressTestRatePercent   float64         `json:"stressTestRatePercent"`
	Iterations              int             `json:"iterations"`
	Converged               bool            `json:"converged"`
}

type outcomeResponse struct {
	Name               string          `json:"name"`
	RatePercent        float64         `json:"ratePercent"`
	RateType           string          `json:"rateType,omitempty"`
	AmortizationYears  int             `json:"amortizationYears"`
	TermYears          int             `json:"termYears"`
	MonthlyPayment     decimal.Decimal `json:"monthlyPayment"`
	TotalPaidTerm      decimal.Decimal `json:"totalPaidTerm"`
	TotalInterestTerm  decimal.Decimal `json:"totalInterestTerm"`
	TotalPrincipalTerm decimal.Decimal `json:"totalPrincipalTerm"`
}

type compareResponse struct {
	ScenarioA           outcomeResponse `json:"scenarioA"`
	ScenarioB           outcomeResponse `json:"scenarioB"`
	MonthlyPaymentDelta decimal.Decimal `json:"monthlyPaymentDelta"`
	InterestDelta       decimal.Decimal `json:"interestDelta"`
	BetterScenario      string          `json:"betterScenario"`
	BetterScenarioLabel string          `json:"betterScenarioLabel"`
}

type policyResponse struct {
	Policy     interface{} `json:"policy"`
	PolicyYAML string      `json:"policyYaml"`
}

func (h *handler) handlePayment(w http.ResponseWriter, r *http.Request) {
	const op = "server.handlePayment"
	var in mortgage.InsuredPaymentInput
	if !h.decodePost(w, r, &in, op) {
		return
	}

	result, err := h.service.Payment(in)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	frequency := in.Frequency
	if frequency == "" {
		frequency = mortgage.FrequencyMonthly
	}
	h.writeJSON(w, http.StatusOK, paymentResponse{
		Frequency:          frequency,
		Payment:            mathutil.Cents(result.Payment),
		PaymentsPerYear:    result.PaymentsPerYear,
		MonthlyPayment:     mathutil.Cents(result.MonthlyPayment),
		Principal:          mathutil.Cents(result.Principal),
		CMHCPremium:        mathutil.Cents(result.CMHCPremium),
		DownPayment:        mathutil.Cents(result.DownPaymentAmount),
		DownPaymentPercent: result.DownPaymentPercent,
		TotalPaid:          mathutil.Cents(result.TotalPaid),
		TotalInterest:      mathutil.Cents(result.TotalInterest),
	})
}

func (h *handler) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleBreakdown"
	var terms mortgage.LoanTerms
	if !h.decodePost(w, r, &terms, op) {
		return
	}

	breakdown, err := h.service.TermBreakdown(terms)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	h.writeJSON(w, http.StatusOK, breakdownResponse{
		MonthlyPayment:               mathutil.Cents(breakdown.MonthlyPayment),
		PrincipalPaidOverTerm:        mathutil.Cents(breakdown.PrincipalPaidOverTerm),
		InterestPaidOverTerm:         mathutil.Cents(breakdown.InterestPaidOverTerm),
		RemainingBalanceAtTerm:       mathutil.Cents(breakdown.RemainingBalanceAtTerm),
		EffectiveInterestCostPercent: breakdown.EffectiveInterestCostPercent,
	})
}

func (h *handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSchedule"
	var req calculator.ScheduleRequest
	if !h.decodePost(w, r, &req, op) {
		return
	}

	payments, err := h.service.Schedule(req)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	rows := make([]scheduleRow, 0, len(payments))
	for _, p := range payments {
		rows = append(rows, scheduleRow{
			Month:     p.Month,
			Date:      p.Date,
			Payment:   mathutil.Cents(p.Payment),
			Interest:  mathutil.Cents(p.Interest),
			Principal: mathutil.Cents(p.Principal),
			Balance:   mathutil.Cents(p.RemainingPrincipal),
		})
	}

	var csv bytes.Buffer
	output.CsvSchedule(&csv, payments)

	h.writeJSON(w, http.StatusOK, scheduleResponse{Rows: rows, CSV: csv.String()})
}

func (h *handler) handleAffordability(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAffordability"
	var req affordabilityRequest
	if !h.decodePost(w, r, &req, op) {
		return
	}

	start := time.Now()
	result, err := h.service.Affordability(req.BorrowerProfile, req.RatePercent)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	h.logger.Info("affordability computed",
		zap.String("op", op),
		zap.Int("iterations", result.Iterations),
		zap.Bool("converged", result.Converged),
		zap.Duration("duration", time.Since(start)),
	)

	h.writeJSON(w, http.StatusOK, affordabilityResponse{
		MaxPurchasePrice:        mathutil.Cents(result.MaxPurchasePrice),
		MaxMortgage:             mathutil.Cents(result.MaxMortgage),
		EstimatedMonthlyPayment: mathutil.Cents(result.EstimatedMonthlyPayment),
		GDSRatioPercent:         result.GDSRatioPercent,
		TDSRatioPercent:         result.TDSRatioPercent,
		StressTestRatePercent:   result.StressTestRatePercent,
		Iterations:              result.Iterations,
		Converged:               result.Converged,
	})
}

func (h *handler) handleCompare(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCompare"
	var req calculator.ComparisonRequest
	if !h.decodePost(w, r, &req, op) {
		return
	}

	result, err := h.service.Compare(req)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	h.writeJSON(w, http.StatusOK, compareResponse{
		ScenarioA:           buildOutcome(result.ScenarioA),
		ScenarioB:           buildOutcome(result.ScenarioB),
		MonthlyPaymentDelta: mathutil.Cents(result.MonthlyPaymentDelta),
		InterestDelta:       mathutil.Cents(result.InterestDelta),
		BetterScenario:      result.BetterScenario,
		BetterScenarioLabel: result.BetterScenarioLabel,
	})
}

func buildOutcome(o comparison.Outcome) outcomeResponse {
	return outcomeResponse{
		Name:               o.Scenario.Name,
		RatePercent:        o.Scenario.RatePercent,
		RateType:           o.Scenario.RateType,
		AmortizationYears:  o.Scenario.AmortizationYears,
		TermYears:          o.Scenario.TermYears,
		MonthlyPayment:     mathutil.Cents(o.MonthlyPayment),
		TotalPaidTerm:      mathutil.Cents(o.TotalPaidTerm),
		TotalInterestTerm:  mathutil.Cents(o.TotalInterestTerm),
		TotalPrincipalTerm: mathutil.Cents(o.TotalPrincipalTerm),
	}
}

func (h *handler) handleLead(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleLead"
	var l lead.Lead
	if !h.decodePost(w, r, &l, op) {
		return
	}

	receipt, err := h.submitter.Submit(r.Context(), l)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, lead.ErrInvalidLead) {
			status = http.StatusBadRequest
		}
		h.respondErrorWithOp(w, status, err.Error(), op)
		return
	}

	h.writeJSON(w, http.StatusAccepted, receipt)
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handlePolicy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	policy := h.service.Policy()
	policyYAML, err := yaml.Marshal(policy)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode policy: %v", err), "server.handlePolicy")
		return
	}

	h.writeJSON(w, http.StatusOK, policyResponse{
		Policy:     policy,
		PolicyYAML: string(policyYAML),
	})
}

// decodePost enforces POST and the body limit, then decodes the JSON body
// into dst. It writes the error response itself and reports whether the
// handler should continue.
func (h *handler) decodePost(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return false
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxBodySize), op)
			return false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return false
	}
	return true
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	var body bytes.Buffer
	if err := json.NewEncoder(&body).Encode(payload); err != nil {
		h.logger.Error("failed to encode JSON response",
			zap.String("op", "server.writeJSON"),
			zap.Error(err),
		)
		body.Reset()
		body.WriteString(`{"error":"failed to encode response"}` + "\n")
		status = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body.Bytes()); err != nil {
		h.logger.Error("failed to write JSON response",
			zap.String("op", "server.writeJSON"),
			zap.Error(err),
		)
	}
}
