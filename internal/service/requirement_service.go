package service

import (
	"context"
	"errors"
	"strings"

	"bench-match-go/internal/model"
	"bench-match-go/internal/repository"
	"bench-match-go/pkg/log"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrRequirementNotFound 表示需求不存在。
var ErrRequirementNotFound = errors.New("requirement not found")

// RequirementService 接口定义了需求的增查操作。
type RequirementService interface {
	Create(ctx context.Context, req model.Requirement) (*model.RequirementResponse, error)
	Get(ctx context.Context, requirementID string) (*model.RequirementResponse, error)
	List(ctx context.Context, limit int) ([]model.RequirementResponse, error)
}

type requirementService struct {
	repo repository.RequirementRepository
}

// NewRequirementService 创建一个新的 RequirementService 实例。
func NewRequirementService(repo repository.RequirementRepository) RequirementService {
	return &requirementService{repo: repo}
}

// Create 校验并保存需求，ID 由服务端生成。
func (s *requirementService) Create(ctx context.Context, req model.Requirement) (*model.RequirementResponse, error) {
	req = NormalizeRequirement(req)
	if err := ValidateRequirement(req); err != nil {
		return nil, err
	}
	record := &model.RequirementRecord{
		RequirementID:          uuid.NewString(),
		ClientName:             strings.TrimSpace(req.ClientName),
		RoleTitle:              req.RoleTitle,
		RequiredSkills:         req.RequiredSkills,
		RequiredCertifications: req.RequiredCertifications,
		MinExperience:          req.MinExperience,
		Summary:                req.Summary,
		AvailabilityDate:       req.AvailabilityDate,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		log.Errorf("[RequirementService] 保存需求失败: %v", err)
		return nil, err
	}
	log.Infof("[RequirementService] 需求已创建, RequirementID: %s, Role: %s", record.RequirementID, record.RoleTitle)
	resp := model.NewRequirementResponse(record)
	return &resp, nil
}

func (s *requirementService) Get(ctx context.Context, requirementID string) (*model.RequirementResponse, error) {
	record, err := s.repo.FindByID(ctx, requirementID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRequirementNotFound
	}
	if err != nil {
		return nil, err
	}
	resp := model.NewRequirementResponse(record)
	return &resp, nil
}

func (s *requirementService) List(ctx context.Context, limit int) ([]model.RequirementResponse, error) {
	records, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]model.RequirementResponse, 0, len(records))
	for i := range records {
		out = append(out, model.NewRequirementResponse(&records[i]))
	}
	return out, nil
}
