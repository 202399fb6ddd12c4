package service

import (
	"context"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/admin"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/model"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/log"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/queue"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/rule"
)

// LeadStore 线索持久化.
type LeadStore interface {
	Create(ctx context.Context, lead *model.ContactSubmission) error
	List(ctx context.Context) ([]model.ContactSubmission, error)
}

// LeadInput 联系表单.
type LeadInput struct {
	Name    string `rule:"required,notblank,max=200"`
	Email   string `rule:"required,email"`
	Phone   string `rule:"omitempty,phone,max=64"`
	Message string `rule:"required,max=5000"`
}

// LeadsService 联系表单线索.
type LeadsService struct {
	store  LeadStore
	events *queue.Events
}

// NewLeadsService 创建服务.
func NewLeadsService(store LeadStore, events *queue.Events) *LeadsService {
	return &LeadsService{store: store, events: events}
}

// Submit 保存公开联系表单.
func (s *LeadsService) Submit(ctx context.Context, in LeadInput) (*model.ContactSubmission, error) {
	if err := rule.ValidateStruct(&in); err != nil {
		return nil, invalid(err)
	}

	lead := &model.ContactSubmission{Name: in.Name, Email: in.Email, Phone: in.Phone, Message: in.Message}
	if err := s.store.Create(ctx, lead); err != nil {
		return nil, err
	}

	if err := s.events.LeadSubmitted(ctx, queue.LeadSubmittedPayload{
		LeadID: lead.ID,
		Name:   lead.Name,
		Email:  lead.Email,
	}); err != nil {
		l := log.Component("leads")
		l.Warn().Err(err).Msg("publish lead event")
	}

	return lead, nil
}

// List 管理员查看全部线索.
func (s *LeadsService) List(ctx context.Context, p admin.Principal) ([]model.ContactSubmission, error) {
	if !p.IsAdmin {
		return nil, admin.ErrForbidden
	}

	return s.store.List(ctx)
}
