package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/stafma/stafma-backend-go/internal/domain/disbursement"
	"github.com/stafma/stafma-backend-go/internal/domain/employee"
	"github.com/stafma/stafma-backend-go/internal/domain/payroll"
	"github.com/stafma/stafma-backend-go/internal/handler/http/response"
	"github.com/stafma/stafma-backend-go/internal/pkg/validator"
)

type PayrollHandler interface {
	Process(w http.ResponseWriter, r *http.Request)
	ProcessEmployee(w http.ResponseWriter, r *http.Request)
	CheckProcessed(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
	EmployeeHistory(w http.ResponseWriter, r *http.Request)
	Payslip(w http.ResponseWriter, r *http.Request)
	TransactionStatus(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService      payroll.PayrollService
	disbursementService disbursement.DisbursementService
}

func NewPayrollHandler(payrollService payroll.PayrollService, disbursementService disbursement.DisbursementService) PayrollHandler {
	return &payrollHandlerImpl{
		payrollService:      payrollService,
		disbursementService: disbursementService,
	}
}

// Process runs payroll for every active employee of the caller's company.
func (h *payrollHandlerImpl) Process(w http.ResponseWriter, r *http.Request) {
	var req payroll.ProcessPayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Process payroll decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	p := principalFromContext(r)
	req.ProcessedBy = p.reviewer()

	result, err := h.payrollService.ProcessPayroll(r.Context(), p.CompanyID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, result.Message, result)
}

func (h *payrollHandlerImpl) ProcessEmployee(w http.ResponseWriter, r *http.Request) {
	var req payroll.ProcessEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Process employee payroll decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	record, err := h.payrollService.ProcessSingleEmployee(r.Context(), principalFromContext(r).CompanyID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee payroll processed successfully", record)
}

func (h *payrollHandlerImpl) CheckProcessed(w http.ResponseWriter, r *http.Request) {
	month, year, ok := requiredPeriod(w, r)
	if !ok {
		return
	}

	status, err := h.payrollService.CheckProcessed(r.Context(), principalFromContext(r).CompanyID, month, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, status)
}

func (h *payrollHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	month, monthOK := optionalIntQueryParam(r, "month")
	year, yearOK := optionalIntQueryParam(r, "year")
	if !monthOK || !yearOK {
		response.BadRequest(w, "month and year must be numbers", nil)
		return
	}

	records, err := h.payrollService.GetHistory(r.Context(), principalFromContext(r).CompanyID, payroll.PayrollFilter{
		Month: month,
		Year:  year,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, records)
}

func (h *payrollHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	month, year, ok := requiredPeriod(w, r)
	if !ok {
		return
	}

	summary, err := h.payrollService.GetSummary(r.Context(), principalFromContext(r).CompanyID, month, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}

func (h *payrollHandlerImpl) EmployeeHistory(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := uuidParam(w, r, "employeeId", employee.ErrEmployeeNotFound)
	if !ok {
		return
	}

	records, err := h.payrollService.GetEmployeeHistory(r.Context(), principalFromContext(r).CompanyID, employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, records)
}

func (h *payrollHandlerImpl) Payslip(w http.ResponseWriter, r *http.Request) {
	recordID, ok := uuidParam(w, r, "id", payroll.ErrPayrollRecordNotFound)
	if !ok {
		return
	}

	file, err := h.payrollService.GetPayslip(r.Context(), principalFromContext(r).CompanyID, recordID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, file.Filename, file.ContentType, file.Content)
}

func (h *payrollHandlerImpl) TransactionStatus(w http.ResponseWriter, r *http.Request) {
	reference := chi.URLParam(r, "reference")
	if validator.IsEmpty(reference) {
		response.BadRequest(w, "Transaction reference is required", nil)
		return
	}

	status, err := h.disbursementService.GetTransactionStatus(r.Context(), principalFromContext(r).CompanyID, reference)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, status)
}

func requiredPeriod(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	month := getIntQueryParam(r, "month", 0)
	year := getIntQueryParam(r, "year", 0)

	var errs validator.ValidationErrors
	if !validator.IsValidMonth(month) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "month is required and must be between 1 and 12"})
	}
	if !validator.IsValidYear(year) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "year is required and must be 2000 or later"})
	}
	if len(errs) > 0 {
		response.HandleError(w, errs)
		return 0, 0, false
	}
	return month, year, true
}
