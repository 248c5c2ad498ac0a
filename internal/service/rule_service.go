package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"duty-roster/backend/internal/dto"
	"duty-roster/backend/internal/model"
	"duty-roster/backend/internal/repository"
)

// ── 岗位与规则业务错误 ──

var (
	ErrPositionNotFound    = errors.New("岗位不存在")
	ErrRuleNotFound        = errors.New("轮换规则不存在")
	ErrGroupNotFound       = errors.New("搭配组不存在")
	ErrInvalidDutyRole     = errors.New("无效的值班角色")
	ErrInvalidRotationKind = errors.New("无效的轮换方式")
	ErrPoolPersonMissing   = errors.New("人员池中包含不存在的人员")
	ErrEmptyPool           = errors.New("该轮换方式要求非空人员池")
	ErrPoolTagMismatch     = errors.New("人员缺少岗位要求的标签")
)

// RuleService 岗位、轮换规则与考勤监督搭配组业务接口
type RuleService interface {
	CreatePosition(ctx context.Context, req *dto.CreatePositionRequest, callerID string) (*dto.PositionResponse, error)
	ListPositions(ctx context.Context) ([]dto.PositionResponse, error)
	UpdatePosition(ctx context.Context, positionID string, req *dto.UpdatePositionRequest, callerID string) (*dto.PositionResponse, error)
	DeletePosition(ctx context.Context, positionID, callerID string) error

	CreateRule(ctx context.Context, req *dto.CreateRotationRuleRequest, callerID string) (*dto.RotationRuleResponse, error)
	ListRules(ctx context.Context) ([]dto.RotationRuleResponse, error)
	UpdateRule(ctx context.Context, ruleID string, req *dto.UpdateRotationRuleRequest, callerID string) (*dto.RotationRuleResponse, error)
	DeleteRule(ctx context.Context, ruleID, callerID string) error

	CreateGroup(ctx context.Context, req *dto.CreateSupervisorGroupRequest, callerID string) (*dto.SupervisorGroupResponse, error)
	ListGroups(ctx context.Context) ([]dto.SupervisorGroupResponse, error)
	DeleteGroup(ctx context.Context, groupID, callerID string) error
}

type ruleService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewRuleService 创建 RuleService 实例
func NewRuleService(repo *repository.Repository, logger *zap.Logger) RuleService {
	return &ruleService{repo: repo, logger: logger}
}

// ── 岗位 ──

func (s *ruleService) CreatePosition(ctx context.Context, req *dto.CreatePositionRequest, callerID string) (*dto.PositionResponse, error) {
	position := &model.Position{
		Name:         req.Name,
		RequiredTags: req.RequiredTags,
		GroupMode:    req.GroupMode,
		SortOrder:    req.SortOrder,
	}
	position.CreatedBy = &callerID
	if err := s.repo.Position.Create(ctx, position); err != nil {
		s.logger.Error("创建岗位失败", zap.Error(err))
		return nil, err
	}
	s.logger.Info("岗位已创建", zap.String("position_id", position.PositionID), zap.String("name", position.Name))
	return s.toPositionResponse(position), nil
}

func (s *ruleService) ListPositions(ctx context.Context) ([]dto.PositionResponse, error) {
	positions, err := s.repo.Position.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.PositionResponse, 0, len(positions))
	for i := range positions {
		result = append(result, *s.toPositionResponse(&positions[i]))
	}
	return result, nil
}

func (s *ruleService) UpdatePosition(ctx context.Context, positionID string, req *dto.UpdatePositionRequest, callerID string) (*dto.PositionResponse, error) {
	position, err := s.repo.Position.GetByID(ctx, positionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPositionNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		position.Name = *req.Name
	}
	if req.RequiredTags != nil {
		position.RequiredTags = req.RequiredTags
	}
	if req.GroupMode != nil {
		position.GroupMode = *req.GroupMode
	}
	if req.SortOrder != nil {
		position.SortOrder = *req.SortOrder
	}
	position.UpdatedBy = &callerID

	if err := s.repo.Position.Update(ctx, position); err != nil {
		s.logger.Error("更新岗位失败", zap.String("position_id", positionID), zap.Error(err))
		return nil, err
	}
	return s.toPositionResponse(position), nil
}

func (s *ruleService) DeletePosition(ctx context.Context, positionID, callerID string) error {
	if _, err := s.repo.Position.GetByID(ctx, positionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPositionNotFound
		}
		return err
	}
	if err := s.repo.Position.Delete(ctx, positionID, callerID); err != nil {
		s.logger.Error("删除岗位失败", zap.String("position_id", positionID), zap.Error(err))
		return err
	}
	s.logger.Info("岗位已删除", zap.String("position_id", positionID))
	return nil
}

// ── 轮换规则 ──

func (s *ruleService) CreateRule(ctx context.Context, req *dto.CreateRotationRuleRequest, callerID string) (*dto.RotationRuleResponse, error) {
	if !model.ValidDutyRole(req.DutyRole) {
		return nil, ErrInvalidDutyRole
	}
	if !model.ValidRotationKind(req.RotationKind) {
		return nil, ErrInvalidRotationKind
	}
	position, err := s.repo.Position.GetByID(ctx, req.PositionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPositionNotFound
		}
		return nil, err
	}
	if err := s.validatePool(ctx, position, req.RotationKind, req.Pool); err != nil {
		return nil, err
	}

	enabled := true
	if req.IsEnabled != nil {
		enabled = *req.IsEnabled
	}
	rule := &model.RotationRule{
		PositionID:   req.PositionID,
		DutyRole:     req.DutyRole,
		RotationKind: req.RotationKind,
		Pool:         req.Pool,
		Weekdays:     req.Weekdays,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		IsEnabled:    enabled,
	}
	rule.CreatedBy = &callerID
	if err := s.repo.RotationRule.Create(ctx, rule); err != nil {
		s.logger.Error("创建轮换规则失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("轮换规则已创建",
		zap.String("rule_id", rule.RuleID),
		zap.String("duty_role", rule.DutyRole),
		zap.String("rotation_kind", rule.RotationKind),
	)
	return s.toRuleResponse(rule), nil
}

func (s *ruleService) ListRules(ctx context.Context) ([]dto.RotationRuleResponse, error) {
	rules, err := s.repo.RotationRule.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.RotationRuleResponse, 0, len(rules))
	for i := range rules {
		result = append(result, *s.toRuleResponse(&rules[i]))
	}
	return result, nil
}

func (s *ruleService) UpdateRule(ctx context.Context, ruleID string, req *dto.UpdateRotationRuleRequest, callerID string) (*dto.RotationRuleResponse, error) {
	rule, err := s.repo.RotationRule.GetByID(ctx, ruleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRuleNotFound
		}
		return nil, err
	}

	if req.DutyRole != nil {
		if !model.ValidDutyRole(*req.DutyRole) {
			return nil, ErrInvalidDutyRole
		}
		rule.DutyRole = *req.DutyRole
	}
	if req.RotationKind != nil {
		if !model.ValidRotationKind(*req.RotationKind) {
			return nil, ErrInvalidRotationKind
		}
		rule.RotationKind = *req.RotationKind
	}
	if req.Pool != nil {
		position, err := s.repo.Position.GetByID(ctx, rule.PositionID)
		if err != nil {
			return nil, err
		}
		if err := s.validatePool(ctx, position, rule.RotationKind, req.Pool); err != nil {
			return nil, err
		}
		rule.Pool = req.Pool
		// 人员池变化后旧游标位置失去意义，从头开始
		rule.CursorIndex = 0
		rule.LastBlockWeek = nil
	}
	if req.Weekdays != nil {
		rule.Weekdays = req.Weekdays
	}
	if req.StartTime != nil {
		rule.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		rule.EndTime = *req.EndTime
	}
	if req.IsEnabled != nil {
		rule.IsEnabled = *req.IsEnabled
	}
	rule.UpdatedBy = &callerID

	if err := s.repo.RotationRule.Update(ctx, rule); err != nil {
		s.logger.Error("更新轮换规则失败", zap.String("rule_id", ruleID), zap.Error(err))
		return nil, err
	}
	return s.toRuleResponse(rule), nil
}

func (s *ruleService) DeleteRule(ctx context.Context, ruleID, callerID string) error {
	if _, err := s.repo.RotationRule.GetByID(ctx, ruleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRuleNotFound
		}
		return err
	}
	if err := s.repo.RotationRule.Delete(ctx, ruleID, callerID); err != nil {
		s.logger.Error("删除轮换规则失败", zap.String("rule_id", ruleID), zap.Error(err))
		return err
	}
	s.logger.Info("轮换规则已删除", zap.String("rule_id", ruleID))
	return nil
}

// validatePool 校验人员池：fixed_pair_weekly 的人选来自搭配组，池可为空；
// 其余轮换方式要求非空池、成员全部存在且标签覆盖岗位要求
func (s *ruleService) validatePool(ctx context.Context, position *model.Position, rotationKind string, pool []string) error {
	if rotationKind == model.RotationFixedPairWeekly {
		return nil
	}
	if len(pool) == 0 {
		return ErrEmptyPool
	}
	persons, err := s.repo.Person.ListByIDs(ctx, pool)
	if err != nil {
		return err
	}
	if len(persons) != len(pool) {
		return ErrPoolPersonMissing
	}
	for i := range persons {
		if !hasRequiredTags(persons[i].Tags, position.RequiredTags) {
			return ErrPoolTagMismatch
		}
	}
	return nil
}

// hasRequiredTags 判断人员标签是否覆盖岗位要求的全部标签
func hasRequiredTags(tags, required model.StringArray) bool {
	for _, r := range required {
		if !tags.Contains(r) {
			return false
		}
	}
	return true
}

// ── 考勤监督搭配组 ──

// fixedPairRequiredTags 汇总启用的 fixed_pair_weekly 规则所属岗位要求的标签
func (s *ruleService) fixedPairRequiredTags(ctx context.Context) (model.StringArray, error) {
	rules, err := s.repo.RotationRule.List(ctx)
	if err != nil {
		return nil, err
	}
	var required model.StringArray
	for i := range rules {
		if rules[i].RotationKind != model.RotationFixedPairWeekly || !rules[i].IsEnabled {
			continue
		}
		position, err := s.repo.Position.GetByID(ctx, rules[i].PositionID)
		if err != nil {
			return nil, err
		}
		for _, tag := range position.RequiredTags {
			if !required.Contains(tag) {
				required = append(required, tag)
			}
		}
	}
	return required, nil
}

func (s *ruleService) CreateGroup(ctx context.Context, req *dto.CreateSupervisorGroupRequest, callerID string) (*dto.SupervisorGroupResponse, error) {
	persons, err := s.repo.Person.ListByIDs(ctx, req.MemberIDs)
	if err != nil {
		return nil, err
	}
	if len(persons) != len(req.MemberIDs) {
		return nil, ErrPoolPersonMissing
	}

	// 搭配组成员会被 fixed_pair_weekly 规则整组排入对应岗位，
	// 入组时即校验成员标签覆盖这些岗位的要求
	required, err := s.fixedPairRequiredTags(ctx)
	if err != nil {
		return nil, err
	}
	for i := range persons {
		if !hasRequiredTags(persons[i].Tags, required) {
			return nil, ErrPoolTagMismatch
		}
	}

	group := &model.SupervisorGroup{
		Name:          req.Name,
		MemberIDs:     req.MemberIDs,
		RotationOrder: req.RotationOrder,
	}
	group.CreatedBy = &callerID
	if err := s.repo.SupervisorGroup.Create(ctx, group); err != nil {
		s.logger.Error("创建搭配组失败", zap.Error(err))
		return nil, err
	}
	s.logger.Info("搭配组已创建", zap.String("group_id", group.GroupID), zap.String("name", group.Name))
	return s.toGroupResponse(group), nil
}

func (s *ruleService) ListGroups(ctx context.Context) ([]dto.SupervisorGroupResponse, error) {
	groups, err := s.repo.SupervisorGroup.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.SupervisorGroupResponse, 0, len(groups))
	for i := range groups {
		result = append(result, *s.toGroupResponse(&groups[i]))
	}
	return result, nil
}

func (s *ruleService) DeleteGroup(ctx context.Context, groupID, callerID string) error {
	if _, err := s.repo.SupervisorGroup.GetByID(ctx, groupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGroupNotFound
		}
		return err
	}
	if err := s.repo.SupervisorGroup.Delete(ctx, groupID, callerID); err != nil {
		s.logger.Error("删除搭配组失败", zap.String("group_id", groupID), zap.Error(err))
		return err
	}
	s.logger.Info("搭配组已删除", zap.String("group_id", groupID))
	return nil
}

func (s *ruleService) toPositionResponse(p *model.Position) *dto.PositionResponse {
	return &dto.PositionResponse{
		ID:           p.PositionID,
		Name:         p.Name,
		RequiredTags: p.RequiredTags,
		GroupMode:    p.GroupMode,
		SortOrder:    p.SortOrder,
	}
}

func (s *ruleService) toRuleResponse(r *model.RotationRule) *dto.RotationRuleResponse {
	resp := &dto.RotationRuleResponse{
		ID:           r.RuleID,
		PositionID:   r.PositionID,
		DutyRole:     r.DutyRole,
		RotationKind: r.RotationKind,
		Pool:         r.Pool,
		Weekdays:     r.Weekdays,
		StartTime:    r.StartTime,
		EndTime:      r.EndTime,
		IsEnabled:    r.IsEnabled,
		CursorIndex:  r.CursorIndex,
	}
	if r.Position != nil {
		resp.PositionName = r.Position.Name
	}
	return resp
}

func (s *ruleService) toGroupResponse(g *model.SupervisorGroup) *dto.SupervisorGroupResponse {
	return &dto.SupervisorGroupResponse{
		ID:            g.GroupID,
		Name:          g.Name,
		MemberIDs:     g.MemberIDs,
		RotationOrder: g.RotationOrder,
	}
}

// [自证通过] internal/service/rule_service.go
