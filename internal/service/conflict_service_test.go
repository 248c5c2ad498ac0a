package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"duty-roster/backend/internal/dto"
	"duty-roster/backend/internal/model"
	"duty-roster/backend/internal/repository"
)

// ── 测试辅助 ──

func setupTestConflictService() (ConflictService, *repository.Repository) {
	repo := newTestRepo()
	svc := NewConflictService(repo, newRosterLock(nil, 0), zap.NewNop())
	return svc, repo
}

func seedAssignment(t *testing.T, repo *repository.Repository, id, date string, personIDs ...string) {
	t.Helper()
	a := model.Assignment{
		AssignmentID: id,
		DutyDate:     mustDate(t, date),
		PositionID:   "pos-officer",
		DutyRole:     model.DutyRoleOfficer,
		PersonIDs:    personIDs,
	}
	if err := repo.Assignment.BatchCreate(context.Background(), []model.Assignment{a}); err != nil {
		t.Fatalf("创建排班记录应成功: %v", err)
	}
}

func detect(t *testing.T, svc ConflictService) *dto.DetectConflictsResponse {
	t.Helper()
	resp, err := svc.Detect(context.Background())
	if err != nil {
		t.Fatalf("冲突检测应成功: %v", err)
	}
	return resp
}

// ── 冲突检测 ──

func TestDetect_RegistersConflictForUnavailableAssignee(t *testing.T) {
	svc, repo := setupTestConflictService()
	seedStatusKinds(t, repo)
	seedPerson(t, repo, "A", "甲", "on_duty")
	seedPerson(t, repo, "B", "乙", "on_duty")
	seedAssignment(t, repo, "assign-mon", "2024-01-01", "A")
	seedAssignment(t, repo, "assign-tue", "2024-01-02", "B")
	// 排班落库后 A 在周一请假
	seedPeriod(t, repo, "A", "on_leave", "2024-01-01", "2024-01-01")

	resp := detect(t, svc)
	if resp.Detected != 1 {
		t.Fatalf("应登记1条冲突，实际%d", resp.Detected)
	}
	c := resp.Conflicts[0]
	if c.AssignmentID != "assign-mon" || c.PersonID != "A" {
		t.Errorf("冲突指向错误: %+v", c)
	}
	if c.Status != model.ConflictStatusPending {
		t.Errorf("新冲突应为 pending，实际%s", c.Status)
	}
	if c.PersonName != "甲" {
		t.Errorf("冲突应带人员姓名，实际%s", c.PersonName)
	}
	if c.Reason == "" {
		t.Error("冲突原因不应为空")
	}
}

func TestDetect_Idempotent(t *testing.T) {
	svc, repo := setupTestConflictService()
	seedStatusKinds(t, repo)
	seedPerson(t, repo, "A", "甲", "on_duty")
	seedAssignment(t, repo, "assign-mon", "2024-01-01", "A")
	seedPeriod(t, repo, "A", "on_leave", "2024-01-01", "2024-01-01")

	first := detect(t, svc)
	if first.Detected != 1 {
		t.Fatalf("首次检测应登记1条冲突，实际%d", first.Detected)
	}

	// 状态未变化时重跑不产生重复记录
	second := detect(t, svc)
	if second.Detected != 0 {
		t.Errorf("重复检测不应登记新冲突，实际%d", second.Detected)
	}
}

func TestDetect_NoAssignments(t *testing.T) {
	svc, _ := setupTestConflictService()
	resp := detect(t, svc)
	if resp.Detected != 0 {
		t.Errorf("空排班不应登记冲突，实际%d", resp.Detected)
	}
}

// ── 替班解决 ──

func resolveSetup(t *testing.T) (ConflictService, *repository.Repository, string) {
	t.Helper()
	svc, repo := setupTestConflictService()
	seedStatusKinds(t, repo)
	seedPerson(t, repo, "A", "甲", "on_duty")
	seedPerson(t, repo, "B", "乙", "on_duty")
	seedAssignment(t, repo, "assign-mon", "2024-01-01", "A")
	seedPeriod(t, repo, "A", "on_leave", "2024-01-01", "2024-01-01")

	resp := detect(t, svc)
	if resp.Detected != 1 {
		t.Fatalf("应登记1条冲突，实际%d", resp.Detected)
	}
	return svc, repo, resp.Conflicts[0].ID
}

func TestResolve_Success(t *testing.T) {
	svc, repo, conflictID := resolveSetup(t)
	ctx := context.Background()

	resolved, err := svc.Resolve(ctx, conflictID, &dto.ResolveConflictRequest{
		SubstituteID: "B",
		Reason:       "甲请假，乙顶班",
	}, "admin-1")
	if err != nil {
		t.Fatalf("替班解决应成功: %v", err)
	}
	if resolved.Status != model.ConflictStatusResolved {
		t.Errorf("冲突状态应流转为 resolved，实际%s", resolved.Status)
	}

	// 排班成员已改写并留痕
	a, err := repo.Assignment.GetByID(ctx, "assign-mon")
	if err != nil {
		t.Fatalf("查询排班应成功: %v", err)
	}
	if len(a.PersonIDs) != 1 || a.PersonIDs[0] != "B" {
		t.Errorf("排班成员应替换为B，实际%v", a.PersonIDs)
	}
	if !a.IsSubstituted {
		t.Error("排班应标记为已替班")
	}
	if a.OriginalPersonID == nil || *a.OriginalPersonID != "A" {
		t.Errorf("原值班人应记录为A，实际%v", a.OriginalPersonID)
	}

	// 替班记录
	subs, total, err := svc.ListSubstitutions(ctx, 1, 10)
	if err != nil {
		t.Fatalf("查询替班记录应成功: %v", err)
	}
	if total != 1 || len(subs) != 1 {
		t.Fatalf("应有1条替班记录，实际%d", total)
	}
	if subs[0].OriginalPersonID != "A" || subs[0].SubstitutePersonID != "B" {
		t.Errorf("替班记录错误: %+v", subs[0])
	}
}

func TestResolve_Twice(t *testing.T) {
	svc, _, conflictID := resolveSetup(t)
	ctx := context.Background()
	req := &dto.ResolveConflictRequest{SubstituteID: "B", Reason: "甲请假，乙顶班"}

	if _, err := svc.Resolve(ctx, conflictID, req, "admin-1"); err != nil {
		t.Fatalf("首次替班应成功: %v", err)
	}
	if _, err := svc.Resolve(ctx, conflictID, req, "admin-1"); !errors.Is(err, ErrConflictAlreadyResolved) {
		t.Errorf("重复处理应返回 ErrConflictAlreadyResolved，实际: %v", err)
	}
}

func TestResolve_SubstituteUnavailable(t *testing.T) {
	svc, repo, conflictID := resolveSetup(t)
	// B 同一天也请假
	seedPeriod(t, repo, "B", "on_leave", "2024-01-01", "2024-01-01")

	_, err := svc.Resolve(context.Background(), conflictID, &dto.ResolveConflictRequest{
		SubstituteID: "B",
		Reason:       "甲请假，乙顶班",
	}, "admin-1")
	if !errors.Is(err, ErrSubstituteUnavailable) {
		t.Errorf("替班人不可用应返回 ErrSubstituteUnavailable，实际: %v", err)
	}
}

func TestResolve_SamePerson(t *testing.T) {
	svc, _, conflictID := resolveSetup(t)

	_, err := svc.Resolve(context.Background(), conflictID, &dto.ResolveConflictRequest{
		SubstituteID: "A",
		Reason:       "自己替自己",
	}, "admin-1")
	if !errors.Is(err, ErrSubstituteSamePerson) {
		t.Errorf("本人替班应返回 ErrSubstituteSamePerson，实际: %v", err)
	}
}

func TestResolve_NotFound(t *testing.T) {
	svc, _ := setupTestConflictService()

	_, err := svc.Resolve(context.Background(), "no-such-conflict", &dto.ResolveConflictRequest{
		SubstituteID: "B",
		Reason:       "不存在的冲突",
	}, "admin-1")
	if !errors.Is(err, ErrConflictNotFound) {
		t.Errorf("冲突不存在应返回 ErrConflictNotFound，实际: %v", err)
	}
}

func TestResolve_PreservesPairPartner(t *testing.T) {
	svc, repo := setupTestConflictService()
	seedStatusKinds(t, repo)
	seedPerson(t, repo, "A", "甲", "on_duty")
	seedPerson(t, repo, "B", "乙", "on_duty")
	seedPerson(t, repo, "C", "丙", "on_duty")
	// 搭配组排班：A+B 同日上岗，A 请假
	seedAssignment(t, repo, "assign-pair", "2024-01-01", "A", "B")
	seedPeriod(t, repo, "A", "on_leave", "2024-01-01", "2024-01-01")

	resp := detect(t, svc)
	if resp.Detected != 1 {
		t.Fatalf("应只登记A的冲突，实际%d", resp.Detected)
	}

	ctx := context.Background()
	if _, err := svc.Resolve(ctx, resp.Conflicts[0].ID, &dto.ResolveConflictRequest{
		SubstituteID: "C",
		Reason:       "甲请假，丙顶班",
	}, "admin-1"); err != nil {
		t.Fatalf("替班解决应成功: %v", err)
	}

	a, _ := repo.Assignment.GetByID(ctx, "assign-pair")
	if len(a.PersonIDs) != 2 || a.PersonIDs[0] != "C" || a.PersonIDs[1] != "B" {
		t.Errorf("应只替换冲突成员，保留搭档: 实际%v", a.PersonIDs)
	}
}
