package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"duty-roster/backend/internal/dto"
	"duty-roster/backend/internal/repository"
)

func setupTestPersonService() (PersonService, *repository.Repository) {
	repo := newTestRepo()
	conflictSvc := NewConflictService(repo, newRosterLock(nil, 0), zap.NewNop())
	svc := NewPersonService(repo, conflictSvc, zap.NewNop())
	return svc, repo
}

func TestCreatePerson_DefaultBaseStatus(t *testing.T) {
	svc, repo := setupTestPersonService()
	seedStatusKinds(t, repo)

	resp, err := svc.Create(context.Background(), &dto.CreatePersonRequest{
		Name: "张三",
		Tags: []string{"领导"},
	}, "admin-1")
	if err != nil {
		t.Fatalf("创建人员应成功: %v", err)
	}
	if resp.BaseStatus != "on_duty" {
		t.Errorf("缺省基础状态应为 on_duty，实际%s", resp.BaseStatus)
	}
	if resp.ID == "" {
		t.Error("人员 ID 不应为空")
	}
}

func TestCreatePerson_UnknownBaseStatus(t *testing.T) {
	svc, repo := setupTestPersonService()
	seedStatusKinds(t, repo)

	_, err := svc.Create(context.Background(), &dto.CreatePersonRequest{
		Name:       "张三",
		BaseStatus: "no_such_status",
	}, "admin-1")
	if !errors.Is(err, ErrStatusKindNotFound) {
		t.Errorf("未知基础状态应返回 ErrStatusKindNotFound，实际: %v", err)
	}
}

func TestUpdatePerson_BaseStatusChangeTriggersRescan(t *testing.T) {
	svc, repo := setupTestPersonService()
	seedStatusKinds(t, repo)
	seedPerson(t, repo, "A", "甲", "on_duty")
	seedAssignment(t, repo, "assign-mon", "2024-01-01", "A")
	ctx := context.Background()

	newStatus := "on_leave"
	if _, err := svc.Update(ctx, "A", &dto.UpdatePersonRequest{BaseStatus: &newStatus}, "admin-1"); err != nil {
		t.Fatalf("更新人员应成功: %v", err)
	}

	// 基础状态改为不可值班后，已有排班应被对账出冲突
	conflicts, err := repo.Conflict.List(ctx, "pending")
	if err != nil {
		t.Fatalf("查询冲突应成功: %v", err)
	}
	if len(conflicts) != 1 {
		t.Fatalf("应自动登记1条冲突，实际%d", len(conflicts))
	}
	if conflicts[0].AssignmentID != "assign-mon" || conflicts[0].PersonID != "A" {
		t.Errorf("冲突指向错误: %+v", conflicts[0])
	}
}

func TestGetPerson_NotFound(t *testing.T) {
	svc, _ := setupTestPersonService()
	if _, err := svc.Get(context.Background(), "nobody"); !errors.Is(err, ErrPersonNotFound) {
		t.Errorf("人员不存在应返回 ErrPersonNotFound，实际: %v", err)
	}
}

func TestCreateStatusKind_Duplicate(t *testing.T) {
	svc, repo := setupTestPersonService()
	seedStatusKinds(t, repo)

	_, err := svc.CreateStatusKind(context.Background(), &dto.CreateStatusKindRequest{
		Code: "on_leave",
		Name: "请假",
	}, "admin-1")
	if !errors.Is(err, ErrStatusKindExists) {
		t.Errorf("重复编码应返回 ErrStatusKindExists，实际: %v", err)
	}
}

func TestCreateStatusPeriod(t *testing.T) {
	svc, repo := setupTestPersonService()
	seedStatusKinds(t, repo)
	seedPerson(t, repo, "A", "甲", "on_duty")
	ctx := context.Background()

	resp, err := svc.CreateStatusPeriod(ctx, "A", &dto.CreateStatusPeriodRequest{
		KindCode:  "on_leave",
		StartDate: "2024-01-10",
		EndDate:   "2024-01-12",
		Reason:    "年假",
	}, "admin-1")
	if err != nil {
		t.Fatalf("登记状态时段应成功: %v", err)
	}
	if resp.StartDate != "2024-01-10" || resp.EndDate != "2024-01-12" {
		t.Errorf("时段范围错误: %+v", resp)
	}

	periods, err := svc.ListStatusPeriods(ctx, "A")
	if err != nil {
		t.Fatalf("查询状态时段应成功: %v", err)
	}
	if len(periods) != 1 {
		t.Errorf("应有1条时段记录，实际%d", len(periods))
	}
}

func TestCreateStatusPeriod_InvalidDates(t *testing.T) {
	svc, repo := setupTestPersonService()
	seedStatusKinds(t, repo)
	seedPerson(t, repo, "A", "甲", "on_duty")
	ctx := context.Background()

	cases := []dto.CreateStatusPeriodRequest{
		{KindCode: "on_leave", StartDate: "2024/01/10", EndDate: "2024-01-12"},
		{KindCode: "on_leave", StartDate: "2024-01-12", EndDate: "2024-01-10"},
	}
	for i, req := range cases {
		if _, err := svc.CreateStatusPeriod(ctx, "A", &req, "admin-1"); !errors.Is(err, ErrPeriodDateInvalid) {
			t.Errorf("用例%d应返回 ErrPeriodDateInvalid，实际: %v", i, err)
		}
	}
}

func TestDeleteStatusPeriod_NotFound(t *testing.T) {
	svc, _ := setupTestPersonService()
	if err := svc.DeleteStatusPeriod(context.Background(), "no-such-period"); !errors.Is(err, ErrPeriodNotFound) {
		t.Errorf("时段不存在应返回 ErrPeriodNotFound，实际: %v", err)
	}
}

func TestDeletePerson_RescansConflicts(t *testing.T) {
	svc, repo := setupTestPersonService()
	seedStatusKinds(t, repo)
	seedPerson(t, repo, "A", "甲", "on_duty")
	seedAssignment(t, repo, "assign-mon", "2024-01-01", "A")
	ctx := context.Background()

	if err := svc.Delete(ctx, "A", "admin-1"); err != nil {
		t.Fatalf("删除人员应成功: %v", err)
	}

	conflicts, _ := repo.Conflict.List(ctx, "pending")
	if len(conflicts) != 1 {
		t.Errorf("删除在班人员应登记冲突，实际%d条", len(conflicts))
	}
}
