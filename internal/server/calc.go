package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/iwvelando/calcdash/pkg/finance"
	"github.com/iwvelando/calcdash/pkg/health"
	"github.com/iwvelando/calcdash/pkg/loans"
	"github.com/iwvelando/calcdash/pkg/mortgage"
	"github.com/iwvelando/calcdash/pkg/sleep"
	"github.com/iwvelando/calcdash/pkg/task"
	"github.com/iwvelando/calcdash/pkg/tax"
)

type loanResponse struct {
	loans.Summary
	Yearly []loans.YearSummary `json:"yearly"`
}

type bmiRequest struct {
	Weight float64 `json:"weight"`
	Height float64 `json:"height"`
	Gender string  `json:"gender"`
}

type hydrationRequest struct {
	health.HydrationInput
	Glasses *int `json:"glasses,omitempty"`
}

type hydrationResponse struct {
	health.HydrationResult
	Progress *health.Progress `json:"progress,omitempty"`
}

type taskEstimateRequest struct {
	Complexity      string `json:"complexity"`
	Type            string `json:"type"`
	ExperienceLevel string `json:"experience_level"`
}

type sleepRecoveryRequest struct {
	TargetHours   float64 `json:"target_hours,omitempty"`
	MaxExtraSleep float64 `json:"max_extra_sleep,omitempty"`
}

func (h *handler) handleLoan(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleLoan"
	var loan loans.LoanConfig
	if err := h.decodeBody(w, r, &loan); err != nil {
		h.respondFailure(w, err, op)
		return
	}
	summary, err := loans.NewAmortizationScheduleGenerator(h.logger).Summarize(loan)
	if err != nil {
		h.respondFailure(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, loanResponse{Summary: summary, Yearly: loans.YearlySchedule(summary.Schedule)})
}

func (h *handler) handleInvestment(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleInvestment"
	var plan finance.InvestmentPlan
	if err := h.decodeBody(w, r, &plan); err != nil {
		h.respondFailure(w, err, op)
		return
	}
	projection, err := finance.NewInvestmentProcessor(h.logger).Project(plan)
	if err != nil {
		h.respondFailure(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, projection)
}

func (h *handler) handleAffordability(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAffordability"
	var in mortgage.AffordabilityInput
	if err := h.decodeBody(w, r, &in); err != nil {
		h.respondFailure(w, err, op)
		return
	}
	result, err := mortgage.NewCalculator(h.logger).Affordability(in)
	if err != nil {
		h.respondFailure(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

func (h *handler) handleRentVsBuy(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleRentVsBuy"
	var in mortgage.RentVsBuyInput
	if err := h.decodeBody(w, r, &in); err != nil {
		h.respondFailure(w, err, op)
		return
	}
	result, err := mortgage.NewCalculator(h.logger).RentVsBuy(in)
	if err != nil {
		h.respondFailure(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

func (h *handler) handleBMI(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleBMI"
	var req bmiRequest
	if err := h.decodeBody(w, r, &req); err != nil {
		h.respondFailure(w, err, op)
		return
	}
	result, err := health.CalculateBMI(req.Weight, req.Height, req.Gender)
	if err != nil {
		h.respondFailure(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

func (h *handler) handleCalories(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCalories"
	var in health.CalorieInput
	if err := h.decodeBody(w, r, &in); err != nil {
		h.respondFailure(w, err, op)
		return
	}
	result, err := health.CalculateCalories(in)
	if err != nil {
		h.respondFailure(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

func (h *handler) handleHydration(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleHydration"
	var req hydrationRequest
	if err := h.decodeBody(w, r, &req); err != nil {
		h.respondFailure(w, err, op)
		return
	}
	result, err := health.CalculateHydration(req.HydrationInput)
	if err != nil {
		h.respondFailure(w, err, op)
		return
	}
	resp := hydrationResponse{HydrationResult: result}
	if req.Glasses != nil {
		progress, err := health.HydrationProgress(*req.Glasses, result.Ml)
		if err != nil {
			h.respondFailure(w, err, op)
			return
		}
		resp.Progress = &progress
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleTax(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleTax"
	var in tax.Input
	if err := h.decodeBody(w, r, &in); err != nil {
		h.respondFailure(w, err, op)
		return
	}
	result, err := tax.Calculate(in)
	if err != nil {
		h.respondFailure(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

func (h *handler) handleTaskEstimate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleTaskEstimate"
	var req taskEstimateRequest
	if err := h.decodeBody(w, r, &req); err != nil {
		h.respondFailure(w, err, op)
		return
	}
	estimate, err := task.EstimateTime(req.Complexity, req.Type, req.ExperienceLevel)
	if err != nil {
		h.respondFailure(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, estimate)
}

// handleSleepRecovery plans recovery from the stored sleep log. The body is
// optional; missing values fall back to the configured defaults.
func (h *handler) handleSleepRecovery(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSleepRecovery"
	var req sleepRecoveryRequest
	if err := h.decodeBody(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.respondFailure(w, err, op)
		return
	}
	if req.TargetHours == 0 {
		req.TargetHours = h.defaults.SleepTarget
	}
	if req.MaxExtraSleep == 0 {
		req.MaxExtraSleep = h.defaults.MaxExtraSleep
	}

	records, err := h.session.Sleep.All(r.Context())
	if err != nil {
		h.respondFailure(w, err, op)
		return
	}
	plan, err := sleep.PlanRecovery(records, req.TargetHours, req.MaxExtraSleep)
	if err != nil {
		h.respondFailure(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, plan)
}
