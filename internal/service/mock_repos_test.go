package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"duty-roster/backend/internal/model"
	"duty-roster/backend/internal/repository"
	pkgerrors "duty-roster/backend/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "user-" + user.Username
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock PersonRepository ──

type mockPersonRepo struct {
	persons   map[string]*model.Person
	idCounter int
}

func newMockPersonRepo() *mockPersonRepo {
	return &mockPersonRepo{persons: make(map[string]*model.Person)}
}

func (m *mockPersonRepo) Create(_ context.Context, person *model.Person) error {
	if person.PersonID == "" {
		m.idCounter++
		person.PersonID = fmt.Sprintf("person-%d", m.idCounter)
	}
	person.CreatedAt = time.Now()
	m.persons[person.PersonID] = person
	return nil
}

func (m *mockPersonRepo) GetByID(_ context.Context, id string) (*model.Person, error) {
	if p, ok := m.persons[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPersonRepo) ListByIDs(_ context.Context, ids []string) ([]model.Person, error) {
	var result []model.Person
	for _, id := range ids {
		if p, ok := m.persons[id]; ok {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (m *mockPersonRepo) List(_ context.Context, offset, limit int) ([]model.Person, int64, error) {
	var all []model.Person
	for _, p := range m.persons {
		all = append(all, *p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].PersonID < all[j].PersonID })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockPersonRepo) Update(_ context.Context, person *model.Person) error {
	if _, ok := m.persons[person.PersonID]; !ok {
		return pkgerrors.ErrOptimisticLock
	}
	person.Version++
	m.persons[person.PersonID] = person
	return nil
}

func (m *mockPersonRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.persons, id)
	return nil
}

// ── Mock StatusKindRepository ──

type mockStatusKindRepo struct {
	kinds map[string]*model.StatusKind
}

func newMockStatusKindRepo() *mockStatusKindRepo {
	return &mockStatusKindRepo{kinds: make(map[string]*model.StatusKind)}
}

func (m *mockStatusKindRepo) Create(_ context.Context, kind *model.StatusKind) error {
	if kind.KindID == "" {
		kind.KindID = "kind-" + kind.Code
	}
	m.kinds[kind.Code] = kind
	return nil
}

func (m *mockStatusKindRepo) GetByCode(_ context.Context, code string) (*model.StatusKind, error) {
	if k, ok := m.kinds[code]; ok {
		return k, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStatusKindRepo) List(_ context.Context) ([]model.StatusKind, error) {
	var result []model.StatusKind
	for _, k := range m.kinds {
		result = append(result, *k)
	}
	return result, nil
}

func (m *mockStatusKindRepo) Update(_ context.Context, kind *model.StatusKind) error {
	m.kinds[kind.Code] = kind
	return nil
}

// ── Mock StatusPeriodRepository ──

type mockStatusPeriodRepo struct {
	periods   []model.StatusPeriod
	idCounter int
}

func newMockStatusPeriodRepo() *mockStatusPeriodRepo {
	return &mockStatusPeriodRepo{}
}

func (m *mockStatusPeriodRepo) Create(_ context.Context, period *model.StatusPeriod) error {
	m.idCounter++
	if period.PeriodID == "" {
		period.PeriodID = fmt.Sprintf("period-%d", m.idCounter)
	}
	m.periods = append(m.periods, *period)
	return nil
}

func (m *mockStatusPeriodRepo) GetByID(_ context.Context, id string) (*model.StatusPeriod, error) {
	for i, p := range m.periods {
		if p.PeriodID == id {
			return &m.periods[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStatusPeriodRepo) ListByPerson(_ context.Context, personID string) ([]model.StatusPeriod, error) {
	var result []model.StatusPeriod
	for _, p := range m.periods {
		if p.PersonID == personID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *mockStatusPeriodRepo) ListOverlapping(_ context.Context, start, end time.Time) ([]model.StatusPeriod, error) {
	var result []model.StatusPeriod
	for _, p := range m.periods {
		if !p.StartDate.After(end) && !p.EndDate.Before(start) {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *mockStatusPeriodRepo) Delete(_ context.Context, id string) error {
	for i, p := range m.periods {
		if p.PeriodID == id {
			m.periods = append(m.periods[:i], m.periods[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// ── Mock PositionRepository ──

type mockPositionRepo struct {
	positions map[string]*model.Position
	idCounter int
}

func newMockPositionRepo() *mockPositionRepo {
	return &mockPositionRepo{positions: make(map[string]*model.Position)}
}

func (m *mockPositionRepo) Create(_ context.Context, position *model.Position) error {
	if position.PositionID == "" {
		m.idCounter++
		position.PositionID = fmt.Sprintf("pos-%d", m.idCounter)
	}
	m.positions[position.PositionID] = position
	return nil
}

func (m *mockPositionRepo) GetByID(_ context.Context, id string) (*model.Position, error) {
	if p, ok := m.positions[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPositionRepo) List(_ context.Context) ([]model.Position, error) {
	var result []model.Position
	for _, p := range m.positions {
		result = append(result, *p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SortOrder < result[j].SortOrder })
	return result, nil
}

func (m *mockPositionRepo) Update(_ context.Context, position *model.Position) error {
	if _, ok := m.positions[position.PositionID]; !ok {
		return pkgerrors.ErrOptimisticLock
	}
	position.Version++
	m.positions[position.PositionID] = position
	return nil
}

func (m *mockPositionRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.positions, id)
	return nil
}

// ── Mock RotationRuleRepository ──

type mockRotationRuleRepo struct {
	rules     map[string]*model.RotationRule
	idCounter int
}

func newMockRotationRuleRepo() *mockRotationRuleRepo {
	return &mockRotationRuleRepo{rules: make(map[string]*model.RotationRule)}
}

func (m *mockRotationRuleRepo) Create(_ context.Context, rule *model.RotationRule) error {
	if rule.RuleID == "" {
		m.idCounter++
		rule.RuleID = fmt.Sprintf("rule-%d", m.idCounter)
	}
	rule.CreatedAt = time.Now()
	m.rules[rule.RuleID] = rule
	return nil
}

func (m *mockRotationRuleRepo) GetByID(_ context.Context, id string) (*model.RotationRule, error) {
	if r, ok := m.rules[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRotationRuleRepo) ListByIDs(_ context.Context, ids []string) ([]model.RotationRule, error) {
	var result []model.RotationRule
	for _, id := range ids {
		if r, ok := m.rules[id]; ok {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockRotationRuleRepo) ListEnabled(_ context.Context) ([]model.RotationRule, error) {
	var result []model.RotationRule
	for _, r := range m.rules {
		if r.IsEnabled {
			result = append(result, *r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RuleID < result[j].RuleID })
	return result, nil
}

func (m *mockRotationRuleRepo) List(_ context.Context) ([]model.RotationRule, error) {
	var result []model.RotationRule
	for _, r := range m.rules {
		result = append(result, *r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RuleID < result[j].RuleID })
	return result, nil
}

func (m *mockRotationRuleRepo) Update(_ context.Context, rule *model.RotationRule) error {
	if _, ok := m.rules[rule.RuleID]; !ok {
		return pkgerrors.ErrOptimisticLock
	}
	rule.Version++
	m.rules[rule.RuleID] = rule
	return nil
}

func (m *mockRotationRuleRepo) UpdateCursor(_ context.Context, ruleID string, cursorIndex int, lastBlockWeek *int) error {
	r, ok := m.rules[ruleID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	r.CursorIndex = cursorIndex
	r.LastBlockWeek = lastBlockWeek
	return nil
}

func (m *mockRotationRuleRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.rules, id)
	return nil
}

// ── Mock SupervisorGroupRepository ──

type mockSupervisorGroupRepo struct {
	groups    map[string]*model.SupervisorGroup
	idCounter int
}

func newMockSupervisorGroupRepo() *mockSupervisorGroupRepo {
	return &mockSupervisorGroupRepo{groups: make(map[string]*model.SupervisorGroup)}
}

func (m *mockSupervisorGroupRepo) Create(_ context.Context, group *model.SupervisorGroup) error {
	if group.GroupID == "" {
		m.idCounter++
		group.GroupID = fmt.Sprintf("group-%d", m.idCounter)
	}
	m.groups[group.GroupID] = group
	return nil
}

func (m *mockSupervisorGroupRepo) GetByID(_ context.Context, id string) (*model.SupervisorGroup, error) {
	if g, ok := m.groups[id]; ok {
		return g, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSupervisorGroupRepo) List(_ context.Context) ([]model.SupervisorGroup, error) {
	var result []model.SupervisorGroup
	for _, g := range m.groups {
		result = append(result, *g)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RotationOrder < result[j].RotationOrder })
	return result, nil
}

func (m *mockSupervisorGroupRepo) Update(_ context.Context, group *model.SupervisorGroup) error {
	if _, ok := m.groups[group.GroupID]; !ok {
		return pkgerrors.ErrOptimisticLock
	}
	group.Version++
	m.groups[group.GroupID] = group
	return nil
}

func (m *mockSupervisorGroupRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.groups, id)
	return nil
}

// ── Mock AssignmentRepository ──

type mockAssignmentRepo struct {
	assignments []model.Assignment
	idCounter   int
}

func newMockAssignmentRepo() *mockAssignmentRepo {
	return &mockAssignmentRepo{}
}

func (m *mockAssignmentRepo) BatchCreate(_ context.Context, assignments []model.Assignment) error {
	for i := range assignments {
		m.idCounter++
		if assignments[i].AssignmentID == "" {
			assignments[i].AssignmentID = fmt.Sprintf("assign-%d", m.idCounter)
		}
		m.assignments = append(m.assignments, assignments[i])
	}
	return nil
}

func (m *mockAssignmentRepo) GetByID(_ context.Context, id string) (*model.Assignment, error) {
	for i, a := range m.assignments {
		if a.AssignmentID == id {
			return &m.assignments[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) ListByRange(_ context.Context, start, end time.Time) ([]model.Assignment, error) {
	var result []model.Assignment
	for _, a := range m.assignments {
		if !a.DutyDate.Before(start) && !a.DutyDate.After(end) {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DutyDate.Before(result[j].DutyDate) })
	return result, nil
}

func (m *mockAssignmentRepo) ListAll(_ context.Context) ([]model.Assignment, error) {
	result := append([]model.Assignment(nil), m.assignments...)
	sort.Slice(result, func(i, j int) bool { return result[i].DutyDate.Before(result[j].DutyDate) })
	return result, nil
}

func (m *mockAssignmentRepo) CountByRangeAndPositions(_ context.Context, start, end time.Time, positionIDs []string) (int64, error) {
	posSet := make(map[string]bool, len(positionIDs))
	for _, id := range positionIDs {
		posSet[id] = true
	}
	var count int64
	for _, a := range m.assignments {
		if posSet[a.PositionID] && !a.DutyDate.Before(start) && !a.DutyDate.After(end) {
			count++
		}
	}
	return count, nil
}

func (m *mockAssignmentRepo) Update(_ context.Context, assignment *model.Assignment) error {
	for i, a := range m.assignments {
		if a.AssignmentID == assignment.AssignmentID {
			if a.Version != assignment.Version {
				return pkgerrors.ErrOptimisticLock
			}
			assignment.Version++
			m.assignments[i] = *assignment
			return nil
		}
	}
	return pkgerrors.ErrOptimisticLock
}

func (m *mockAssignmentRepo) DeleteByRange(_ context.Context, start, end time.Time) (int64, error) {
	var remaining []model.Assignment
	var deleted int64
	for _, a := range m.assignments {
		if !a.DutyDate.Before(start) && !a.DutyDate.After(end) {
			deleted++
			continue
		}
		remaining = append(remaining, a)
	}
	m.assignments = remaining
	return deleted, nil
}

// ── Mock ConflictRepository ──

type mockConflictRepo struct {
	conflicts map[string]*model.Conflict
	idCounter int
}

func newMockConflictRepo() *mockConflictRepo {
	return &mockConflictRepo{conflicts: make(map[string]*model.Conflict)}
}

func (m *mockConflictRepo) Create(_ context.Context, conflict *model.Conflict) error {
	if conflict.ConflictID == "" {
		m.idCounter++
		conflict.ConflictID = fmt.Sprintf("conflict-%d", m.idCounter)
	}
	m.conflicts[conflict.ConflictID] = conflict
	return nil
}

func (m *mockConflictRepo) GetByID(_ context.Context, id string) (*model.Conflict, error) {
	if c, ok := m.conflicts[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockConflictRepo) List(_ context.Context, status string) ([]model.Conflict, error) {
	var result []model.Conflict
	for _, c := range m.conflicts {
		if status != "" && c.Status != status {
			continue
		}
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ConflictID < result[j].ConflictID })
	return result, nil
}

func (m *mockConflictRepo) ExistsPending(_ context.Context, assignmentID, personID string) (bool, error) {
	for _, c := range m.conflicts {
		if c.AssignmentID == assignmentID && c.PersonID == personID && c.Status == model.ConflictStatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockConflictRepo) MarkResolved(_ context.Context, conflictID, substitutionID string, _ string) error {
	c, ok := m.conflicts[conflictID]
	if !ok || c.Status != model.ConflictStatusPending {
		return pkgerrors.ErrOptimisticLock
	}
	c.Status = model.ConflictStatusResolved
	c.SubstitutionID = &substitutionID
	return nil
}

// ── Mock SubstitutionRepository ──

type mockSubstitutionRepo struct {
	substitutions []model.Substitution
	idCounter     int
}

func newMockSubstitutionRepo() *mockSubstitutionRepo {
	return &mockSubstitutionRepo{}
}

func (m *mockSubstitutionRepo) Create(_ context.Context, substitution *model.Substitution) error {
	m.idCounter++
	if substitution.SubstitutionID == "" {
		substitution.SubstitutionID = fmt.Sprintf("sub-%d", m.idCounter)
	}
	substitution.CreatedAt = time.Now()
	m.substitutions = append(m.substitutions, *substitution)
	return nil
}

func (m *mockSubstitutionRepo) ListByAssignment(_ context.Context, assignmentID string) ([]model.Substitution, error) {
	var result []model.Substitution
	for _, s := range m.substitutions {
		if s.AssignmentID == assignmentID {
			result = append(result, s)
		}
	}
	return result, nil
}

func (m *mockSubstitutionRepo) List(_ context.Context, offset, limit int) ([]model.Substitution, int64, error) {
	total := int64(len(m.substitutions))
	if offset >= len(m.substitutions) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(m.substitutions) {
		end = len(m.substitutions)
	}
	return m.substitutions[offset:end], total, nil
}

// ── Mock TxRunner ──

// mockTxRunner 直接执行回调，不做真正的事务隔离
type mockTxRunner struct {
	repo *repository.Repository
}

func (t *mockTxRunner) InTx(_ context.Context, fn func(txRepo *repository.Repository) error) error {
	return fn(t.repo)
}

// newTestRepo 构建全 mock 的 Repository 聚合
func newTestRepo() *repository.Repository {
	repo := &repository.Repository{
		User:            newMockUserRepo(),
		Person:          newMockPersonRepo(),
		StatusKind:      newMockStatusKindRepo(),
		StatusPeriod:    newMockStatusPeriodRepo(),
		Position:        newMockPositionRepo(),
		RotationRule:    newMockRotationRuleRepo(),
		SupervisorGroup: newMockSupervisorGroupRepo(),
		Assignment:      newMockAssignmentRepo(),
		Conflict:        newMockConflictRepo(),
		Substitution:    newMockSubstitutionRepo(),
	}
	repo.Tx = &mockTxRunner{repo: repo}
	return repo
}
