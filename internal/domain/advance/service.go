package advance

import "context"

type AdvanceService interface {
	RequestAdvance(ctx context.Context, companyID string, req CreateAdvanceRequest) (AdvanceResponse, error)
	ApproveAdvance(ctx context.Context, companyID string, req ReviewAdvanceRequest) (AdvanceResponse, error)
	RejectAdvance(ctx context.Context, companyID string, req ReviewAdvanceRequest) (AdvanceResponse, error)
	GetByID(ctx context.Context, companyID string, id string) (AdvanceResponse, error)
	List(ctx context.Context, companyID string) ([]AdvanceResponse, error)
}
