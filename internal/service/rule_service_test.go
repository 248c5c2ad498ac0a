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

func setupTestRuleService() (RuleService, *repository.Repository) {
	repo := newTestRepo()
	svc := NewRuleService(repo, zap.NewNop())
	return svc, repo
}

func TestCreateRule(t *testing.T) {
	svc, repo := setupTestRuleService()
	seedStatusKinds(t, repo)
	seedPerson(t, repo, "A", "甲", "on_duty")
	seedPerson(t, repo, "B", "乙", "on_duty")
	seedPosition(t, repo, "pos-officer", "值班员")

	resp, err := svc.CreateRule(context.Background(), &dto.CreateRotationRuleRequest{
		PositionID:   "pos-officer",
		DutyRole:     model.DutyRoleOfficer,
		RotationKind: model.RotationDailySingle,
		Pool:         []string{"A", "B"},
		Weekdays:     []int{1, 2, 3, 4, 5},
	}, "admin-1")
	if err != nil {
		t.Fatalf("创建轮换规则应成功: %v", err)
	}
	if !resp.IsEnabled {
		t.Error("未指定 is_enabled 时应缺省启用")
	}
	if resp.CursorIndex != 0 {
		t.Errorf("新规则游标应为0，实际%d", resp.CursorIndex)
	}
}

func TestCreateRule_Validation(t *testing.T) {
	svc, repo := setupTestRuleService()
	seedStatusKinds(t, repo)
	seedPerson(t, repo, "A", "甲", "on_duty")
	seedPosition(t, repo, "pos-officer", "值班员")
	ctx := context.Background()

	cases := []struct {
		name string
		req  dto.CreateRotationRuleRequest
		want error
	}{
		{
			name: "非法值班角色",
			req: dto.CreateRotationRuleRequest{
				PositionID: "pos-officer", DutyRole: "janitor",
				RotationKind: model.RotationDailySingle, Pool: []string{"A"},
			},
			want: ErrInvalidDutyRole,
		},
		{
			name: "非法轮换方式",
			req: dto.CreateRotationRuleRequest{
				PositionID: "pos-officer", DutyRole: model.DutyRoleOfficer,
				RotationKind: "random", Pool: []string{"A"},
			},
			want: ErrInvalidRotationKind,
		},
		{
			name: "岗位不存在",
			req: dto.CreateRotationRuleRequest{
				PositionID: "no-such-pos", DutyRole: model.DutyRoleOfficer,
				RotationKind: model.RotationDailySingle, Pool: []string{"A"},
			},
			want: ErrPositionNotFound,
		},
		{
			name: "空人员池",
			req: dto.CreateRotationRuleRequest{
				PositionID: "pos-officer", DutyRole: model.DutyRoleOfficer,
				RotationKind: model.RotationDailySingle,
			},
			want: ErrEmptyPool,
		},
		{
			name: "池成员不存在",
			req: dto.CreateRotationRuleRequest{
				PositionID: "pos-officer", DutyRole: model.DutyRoleOfficer,
				RotationKind: model.RotationDailySingle, Pool: []string{"A", "ghost"},
			},
			want: ErrPoolPersonMissing,
		},
	}
	for _, c := range cases {
		if _, err := svc.CreateRule(ctx, &c.req, "admin-1"); !errors.Is(err, c.want) {
			t.Errorf("%s: 期望%v，实际%v", c.name, c.want, err)
		}
	}
}

func TestCreateRule_PoolTagMismatch(t *testing.T) {
	svc, repo := setupTestRuleService()
	seedStatusKinds(t, repo)
	seedPerson(t, repo, "A", "甲", "on_duty") // 无标签
	ctx := context.Background()
	if err := repo.Person.Create(ctx, &model.Person{
		PersonID: "B", Name: "乙", BaseStatus: "on_duty", Tags: model.StringArray{"领导"},
	}); err != nil {
		t.Fatalf("创建人员应成功: %v", err)
	}
	if err := repo.Position.Create(ctx, &model.Position{
		PositionID: "pos-leader", Name: "带班领导", RequiredTags: model.StringArray{"领导"},
	}); err != nil {
		t.Fatalf("创建岗位应成功: %v", err)
	}

	req := dto.CreateRotationRuleRequest{
		PositionID: "pos-leader", DutyRole: model.DutyRoleLeader,
		RotationKind: model.RotationWeeklySingle, Pool: []string{"A"},
	}
	if _, err := svc.CreateRule(ctx, &req, "admin-1"); !errors.Is(err, ErrPoolTagMismatch) {
		t.Errorf("缺少岗位标签应返回 ErrPoolTagMismatch，实际: %v", err)
	}

	req.Pool = []string{"B"}
	if _, err := svc.CreateRule(ctx, &req, "admin-1"); err != nil {
		t.Fatalf("标签齐全的人员池应创建成功: %v", err)
	}
}

func TestCreateGroup_TagMismatch(t *testing.T) {
	svc, repo := setupTestRuleService()
	seedStatusKinds(t, repo)
	seedPerson(t, repo, "A", "甲", "on_duty") // 无标签
	ctx := context.Background()
	if err := repo.Position.Create(ctx, &model.Position{
		PositionID: "pos-supervisor", Name: "考勤监督", RequiredTags: model.StringArray{"考勤"},
	}); err != nil {
		t.Fatalf("创建岗位应成功: %v", err)
	}
	seedRule(t, repo, &model.RotationRule{
		RuleID:       "rule-pair",
		PositionID:   "pos-supervisor",
		DutyRole:     model.DutyRoleSupervisor,
		RotationKind: model.RotationFixedPairWeekly,
	})
	for _, p := range []model.Person{
		{PersonID: "B", Name: "乙", BaseStatus: "on_duty", Tags: model.StringArray{"考勤"}},
		{PersonID: "C", Name: "丙", BaseStatus: "on_duty", Tags: model.StringArray{"考勤"}},
	} {
		pp := p
		if err := repo.Person.Create(ctx, &pp); err != nil {
			t.Fatalf("创建人员应成功: %v", err)
		}
	}

	if _, err := svc.CreateGroup(ctx, &dto.CreateSupervisorGroupRequest{
		Name: "一组", MemberIDs: []string{"A", "B"},
	}, "admin-1"); !errors.Is(err, ErrPoolTagMismatch) {
		t.Errorf("组员缺少岗位标签应返回 ErrPoolTagMismatch，实际: %v", err)
	}
	if _, err := svc.CreateGroup(ctx, &dto.CreateSupervisorGroupRequest{
		Name: "一组", MemberIDs: []string{"B", "C"},
	}, "admin-1"); err != nil {
		t.Fatalf("标签齐全的搭配组应创建成功: %v", err)
	}
}

func TestCreateRule_FixedPairAllowsEmptyPool(t *testing.T) {
	svc, repo := setupTestRuleService()
	seedPosition(t, repo, "pos-supervisor", "考勤监督")

	// 固定搭配组的人选来自搭配组，不要求池
	if _, err := svc.CreateRule(context.Background(), &dto.CreateRotationRuleRequest{
		PositionID:   "pos-supervisor",
		DutyRole:     model.DutyRoleSupervisor,
		RotationKind: model.RotationFixedPairWeekly,
	}, "admin-1"); err != nil {
		t.Fatalf("fixed_pair_weekly 空池应允许创建: %v", err)
	}
}

func TestUpdateRule_PoolChangeResetsCursor(t *testing.T) {
	svc, repo := setupTestRuleService()
	seedStatusKinds(t, repo)
	seedPerson(t, repo, "A", "甲", "on_duty")
	seedPerson(t, repo, "B", "乙", "on_duty")
	seedPerson(t, repo, "C", "丙", "on_duty")
	seedPosition(t, repo, "pos-officer", "值班员")
	seedRule(t, repo, &model.RotationRule{
		RuleID:       "rule-daily",
		PositionID:   "pos-officer",
		DutyRole:     model.DutyRoleOfficer,
		RotationKind: model.RotationDailySingle,
		Pool:         model.StringArray{"A", "B"},
		CursorIndex:  5,
	})

	resp, err := svc.UpdateRule(context.Background(), "rule-daily", &dto.UpdateRotationRuleRequest{
		Pool: []string{"A", "B", "C"},
	}, "admin-1")
	if err != nil {
		t.Fatalf("更新轮换规则应成功: %v", err)
	}
	if resp.CursorIndex != 0 {
		t.Errorf("人员池变化后游标应归零，实际%d", resp.CursorIndex)
	}
}

func TestUpdateRule_NotFound(t *testing.T) {
	svc, _ := setupTestRuleService()
	enabled := false
	_, err := svc.UpdateRule(context.Background(), "no-such-rule", &dto.UpdateRotationRuleRequest{
		IsEnabled: &enabled,
	}, "admin-1")
	if !errors.Is(err, ErrRuleNotFound) {
		t.Errorf("规则不存在应返回 ErrRuleNotFound，实际: %v", err)
	}
}

func TestCreateGroup_MemberMustExist(t *testing.T) {
	svc, repo := setupTestRuleService()
	seedStatusKinds(t, repo)
	seedPerson(t, repo, "A", "甲", "on_duty")
	ctx := context.Background()

	_, err := svc.CreateGroup(ctx, &dto.CreateSupervisorGroupRequest{
		Name:      "一组",
		MemberIDs: []string{"A", "ghost"},
	}, "admin-1")
	if !errors.Is(err, ErrPoolPersonMissing) {
		t.Errorf("组员不存在应返回 ErrPoolPersonMissing，实际: %v", err)
	}

	seedPerson(t, repo, "B", "乙", "on_duty")
	resp, err := svc.CreateGroup(ctx, &dto.CreateSupervisorGroupRequest{
		Name:          "一组",
		MemberIDs:     []string{"A", "B"},
		RotationOrder: 0,
	}, "admin-1")
	if err != nil {
		t.Fatalf("创建搭配组应成功: %v", err)
	}
	if len(resp.MemberIDs) != 2 {
		t.Errorf("搭配组应固定两人，实际%v", resp.MemberIDs)
	}
}

func TestDeletePosition_NotFound(t *testing.T) {
	svc, _ := setupTestRuleService()
	if err := svc.DeletePosition(context.Background(), "no-such-pos", "admin-1"); !errors.Is(err, ErrPositionNotFound) {
		t.Errorf("岗位不存在应返回 ErrPositionNotFound，实际: %v", err)
	}
}
