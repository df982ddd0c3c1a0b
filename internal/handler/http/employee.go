package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/stafma/stafma-backend-go/internal/domain/employee"
	"github.com/stafma/stafma-backend-go/internal/handler/http/response"
)

type EmployeeHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	UpdateBankDetails(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	employeeService employee.EmployeeService
}

func NewEmployeeHandler(employeeService employee.EmployeeService) EmployeeHandler {
	return &employeeHandlerImpl{employeeService: employeeService}
}

func (h *employeeHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req employee.CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create employee decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.employeeService.Create(r.Context(), principalFromContext(r).CompanyID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Employee created successfully", created)
}

func (h *employeeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := employee.EmployeeFilter{
		Status:     optionalStringQueryParam(r, "status"),
		Department: optionalStringQueryParam(r, "department"),
		Search:     optionalStringQueryParam(r, "search"),
	}

	employees, err := h.employeeService.List(r.Context(), principalFromContext(r).CompanyID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, employees)
}

func (h *employeeHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", employee.ErrEmployeeNotFound)
	if !ok {
		return
	}

	found, err := h.employeeService.GetByID(r.Context(), principalFromContext(r).CompanyID, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, found)
}

func (h *employeeHandlerImpl) UpdateBankDetails(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", employee.ErrEmployeeNotFound)
	if !ok {
		return
	}

	var req employee.UpdateBankDetailsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update bank details decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = id

	updated, err := h.employeeService.UpdateBankDetails(r.Context(), principalFromContext(r).CompanyID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Bank details updated successfully", updated)
}

func (h *employeeHandlerImpl) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", employee.ErrEmployeeNotFound)
	if !ok {
		return
	}

	var req employee.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update status decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = id

	updated, err := h.employeeService.UpdateStatus(r.Context(), principalFromContext(r).CompanyID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee status updated successfully", updated)
}
