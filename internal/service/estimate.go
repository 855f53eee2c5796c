package service

import (
	"context"
	"fmt"

	"github.com/langchou/fleetbook/internal/fare"
	"github.com/langchou/fleetbook/internal/quote"
)

// EstimateRequest 报价请求
type EstimateRequest struct {
	TripType string `json:"tripType"`
	Route    string `json:"route"`
	fare.Input
}

// Estimate 报价结果与分享内容
type Estimate struct {
	fare.Quote
	Route     string `json:"route"`
	ShareText string `json:"shareText"`
	CopyText  string `json:"copyText"`
	ShareURL  string `json:"shareUrl"`
}

// EstimateService 车费估算，使用当前保存的计价设置
type EstimateService struct {
	stores *Stores
}

// NewEstimateService 创建估算服务
func NewEstimateService(stores *Stores) *EstimateService {
	return &EstimateService{stores: stores}
}

// Share 估算并生成分享内容
func (s *EstimateService) Share(ctx context.Context, req EstimateRequest) (quote.Share, error) {
	tripType, ok := fare.ParseTripType(req.TripType)
	if !ok {
		return quote.Share{}, fmt.Errorf("%w: unknown trip type %q", ErrInvalidInput, req.TripType)
	}
	settings, err := s.stores.Settings.Get(ctx)
	if err != nil {
		return quote.Share{}, err
	}
	q := fare.Estimate(tripType, req.Input, settings.Tariffs, settings.CurrencySymbol)
	if !finite(q.Total) {
		return quote.Share{}, fmt.Errorf("%w: estimate out of range", ErrInvalidInput)
	}
	return quote.Share{Quote: q, Route: req.Route}, nil
}

// Estimate 估算车费
func (s *EstimateService) Estimate(ctx context.Context, req EstimateRequest) (Estimate, error) {
	share, err := s.Share(ctx, req)
	if err != nil {
		return Estimate{}, err
	}
	return Estimate{
		Quote:     share.Quote,
		Route:     share.Route,
		ShareText: share.Text(),
		CopyText:  share.PlainText(),
		ShareURL:  share.Link(),
	}, nil
}
