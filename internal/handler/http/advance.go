package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/stafma/stafma-backend-go/internal/domain/advance"
	"github.com/stafma/stafma-backend-go/internal/handler/http/response"
)

type AdvanceHandler interface {
	Request(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Review(w http.ResponseWriter, r *http.Request)
}

type advanceHandlerImpl struct {
	advanceService advance.AdvanceService
}

func NewAdvanceHandler(advanceService advance.AdvanceService) AdvanceHandler {
	return &advanceHandlerImpl{advanceService: advanceService}
}

func (h *advanceHandlerImpl) Request(w http.ResponseWriter, r *http.Request) {
	var req advance.CreateAdvanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Advance request decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.advanceService.RequestAdvance(r.Context(), principalFromContext(r).CompanyID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Salary advance request submitted successfully", created)
}

func (h *advanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	advances, err := h.advanceService.List(r.Context(), principalFromContext(r).CompanyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, advances)
}

func (h *advanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", advance.ErrAdvanceNotFound)
	if !ok {
		return
	}

	found, err := h.advanceService.GetByID(r.Context(), principalFromContext(r).CompanyID, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, found)
}

// Review approves (and disburses) or rejects a pending advance.
func (h *advanceHandlerImpl) Review(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", advance.ErrAdvanceNotFound)
	if !ok {
		return
	}

	var req advance.ReviewAdvanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Advance review decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	p := principalFromContext(r)
	req.AdvanceID = id
	req.ReviewedBy = p.reviewer()

	var (
		result advance.AdvanceResponse
		err    error
	)
	if req.Status == string(advance.StatusApproved) {
		result, err = h.advanceService.ApproveAdvance(r.Context(), p.CompanyID, req)
	} else {
		result, err = h.advanceService.RejectAdvance(r.Context(), p.CompanyID, req)
	}
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary advance request "+result.Status+" successfully", result)
}
