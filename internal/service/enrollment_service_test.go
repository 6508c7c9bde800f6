package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"sgea/backend/internal/model"
	pkgerrors "sgea/backend/pkg/errors"
)

func setupTestEnrollmentService(today string) (EnrollmentService, *testRepos, *fixedClock) {
	repo, m := newTestRepos()
	clk := newFixedClock(today)
	svc := NewEnrollmentService(repo, zap.NewNop(), clk.Now)
	return svc, m, clk
}

// ═══════════════════════════════════════════════════════════
// Enroll
// ═══════════════════════════════════════════════════════════

// 容量 2、T+10 开始：A、B 报名成功，C 因满员失败；
// T+7 取消 A 后 C 报名成功
func TestEnroll_CapacityScenario(t *testing.T) {
	svc, m, clk := setupTestEnrollmentService("2026-03-01")
	ctx := context.Background()

	seedPerson(m, "org", "org@uni.br", model.RoleOrganizer)
	seedPerson(m, "a", "a@uni.br", model.RoleParticipant)
	seedPerson(m, "b", "b@uni.br", model.RoleParticipant)
	seedPerson(m, "c", "c@uni.br", model.RoleParticipant)
	seedEvent(m, "ev", "org", "2026-03-11", "2026-03-12", 2)

	enA, err := svc.Enroll(ctx, "a", "ev")
	if err != nil {
		t.Fatalf("A 报名应成功: %v", err)
	}
	if enA.Status != string(model.EnrollmentActive) || enA.AttendanceConfirmed {
		t.Errorf("新报名应为 active 且未确认出席: %+v", enA)
	}
	if enA.EnrolledOn != "2026-03-01" {
		t.Errorf("报名日期应为今天，实际 %s", enA.EnrolledOn)
	}
	if _, err := svc.Enroll(ctx, "b", "ev"); err != nil {
		t.Fatalf("B 报名应成功: %v", err)
	}

	_, err = svc.Enroll(ctx, "c", "ev")
	if !errors.Is(err, pkgerrors.ErrCapacityExceeded) {
		t.Fatalf("C 报名期望 CapacityExceeded，实际: %v", err)
	}
	if !errors.Is(err, ErrEventFull) {
		t.Errorf("期望 ErrEventFull，实际: %v", err)
	}

	clk.Set("2026-03-08")
	if err := svc.Cancel(ctx, enA.ID, "a"); err != nil {
		t.Fatalf("截止日前取消应成功: %v", err)
	}

	if _, err := svc.Enroll(ctx, "c", "ev"); err != nil {
		t.Fatalf("有空位后 C 报名应成功: %v", err)
	}

	ev := m.event.events["ev"]
	if ev.ActiveEnrollments != 2 || m.enrollment.activeCount("ev") != 2 {
		t.Errorf("有效报名应为 2，计数=%d 实际=%d", ev.ActiveEnrollments, m.enrollment.activeCount("ev"))
	}
	// A、B 与 C 的第二次报名；C 首次因满员失败，未写入记录
	if len(m.enrollment.order) != 3 {
		t.Errorf("报名记录期望 3 条，实际 %d", len(m.enrollment.order))
	}
	if stored := m.enrollment.enrollments[enA.ID]; stored == nil || stored.Status != model.EnrollmentCancelled {
		t.Errorf("A 的报名记录应保留且为 cancelled: %+v", stored)
	}
}

func TestEnroll_NotFound(t *testing.T) {
	svc, m, _ := setupTestEnrollmentService("2026-03-01")
	ctx := context.Background()
	seedPerson(m, "org", "org@uni.br", model.RoleOrganizer)
	seedPerson(m, "a", "a@uni.br", model.RoleParticipant)
	seedEvent(m, "ev", "org", "2026-03-11", "2026-03-12", 2)

	if _, err := svc.Enroll(ctx, "ghost", "ev"); !errors.Is(err, ErrPersonNotFound) {
		t.Errorf("人员不存在期望 ErrPersonNotFound，实际: %v", err)
	}
	_, err := svc.Enroll(ctx, "a", "nope")
	if !errors.Is(err, ErrEventNotFound) || !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Errorf("活动不存在期望 ErrEventNotFound，实际: %v", err)
	}
}

func TestEnroll_DuplicateActiveThenReenrollAfterCancel(t *testing.T) {
	svc, m, _ := setupTestEnrollmentService("2026-03-01")
	ctx := context.Background()
	seedPerson(m, "org", "org@uni.br", model.RoleOrganizer)
	seedPerson(m, "a", "a@uni.br", model.RoleParticipant)
	seedEvent(m, "ev", "org", "2026-03-11", "2026-03-12", 5)

	first, err := svc.Enroll(ctx, "a", "ev")
	if err != nil {
		t.Fatalf("首次报名应成功: %v", err)
	}

	_, err = svc.Enroll(ctx, "a", "ev")
	if !errors.Is(err, pkgerrors.ErrDuplicateActiveEnrollment) {
		t.Fatalf("重复报名期望 DuplicateActiveEnrollment，实际: %v", err)
	}

	if err := svc.Cancel(ctx, first.ID, "a"); err != nil {
		t.Fatalf("取消应成功: %v", err)
	}
	second, err := svc.Enroll(ctx, "a", "ev")
	if err != nil {
		t.Fatalf("取消后重新报名应成功: %v", err)
	}
	if second.ID == first.ID {
		t.Error("重新报名应生成新记录")
	}
	if m.event.events["ev"].ActiveEnrollments != 1 {
		t.Errorf("有效报名计数应为 1，实际 %d", m.event.events["ev"].ActiveEnrollments)
	}
}

func TestEnroll_VersionConflict(t *testing.T) {
	svc, m, _ := setupTestEnrollmentService("2026-03-01")
	ctx := context.Background()
	seedPerson(m, "org", "org@uni.br", model.RoleOrganizer)
	seedPerson(m, "a", "a@uni.br", model.RoleParticipant)
	seedEvent(m, "ev", "org", "2026-03-11", "2026-03-12", 5)

	// 模拟另一请求在本次读取后抢先写入
	m.event.beforeUpdate = func(stored *model.Event) { stored.Version++ }

	_, err := svc.Enroll(ctx, "a", "ev")
	if !errors.Is(err, ErrEnrollmentConflict) {
		t.Fatalf("期望 ErrEnrollmentConflict，实际: %v", err)
	}
	if pkgerrors.Kind(err) != pkgerrors.ErrOptimisticLock {
		t.Errorf("错误类别应为 ErrOptimisticLock，实际: %v", pkgerrors.Kind(err))
	}
}

// 任意报名/取消序列后，有效报名数不超过容量
func TestEnroll_CapacityInvariant(t *testing.T) {
	svc, m, _ := setupTestEnrollmentService("2026-03-01")
	ctx := context.Background()
	seedPerson(m, "org", "org@uni.br", model.RoleOrganizer)
	seedEvent(m, "ev", "org", "2026-03-20", "2026-03-21", 3)

	ids := []string{"p1", "p2", "p3", "p4", "p5", "p6"}
	for _, id := range ids {
		seedPerson(m, id, id+"@uni.br", model.RoleParticipant)
	}

	enrolled := map[string]string{}
	for round := 0; round < 3; round++ {
		for _, id := range ids {
			if en, err := svc.Enroll(ctx, id, "ev"); err == nil {
				enrolled[id] = en.ID
			}
			if got := m.enrollment.activeCount("ev"); got > 3 {
				t.Fatalf("有效报名 %d 超过容量 3", got)
			}
		}
		for id, enID := range enrolled {
			if id == "p1" || id == "p4" {
				svc.Cancel(ctx, enID, id)
				delete(enrolled, id)
			}
		}
	}

	ev := m.event.events["ev"]
	if ev.ActiveEnrollments != m.enrollment.activeCount("ev") {
		t.Errorf("计数 %d 与实际有效报名 %d 不一致", ev.ActiveEnrollments, m.enrollment.activeCount("ev"))
	}
}

// ═══════════════════════════════════════════════════════════
// Cancel
// ═══════════════════════════════════════════════════════════

func TestCancel_Deadline(t *testing.T) {
	tests := []struct {
		name    string
		today   string
		wantErr error
	}{
		{"截止日前", "2026-03-08", nil},
		{"恰好截止日", "2026-03-09", nil},
		{"截止日后", "2026-03-10", ErrCancellationWindowClosed},
		{"开始当天", "2026-03-11", ErrCancellationWindowClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m, clk := setupTestEnrollmentService("2026-03-01")
			ctx := context.Background()
			seedPerson(m, "org", "org@uni.br", model.RoleOrganizer)
			seedPerson(m, "a", "a@uni.br", model.RoleParticipant)
			seedEvent(m, "ev", "org", "2026-03-11", "2026-03-12", 2)

			en, err := svc.Enroll(ctx, "a", "ev")
			if err != nil {
				t.Fatalf("报名应成功: %v", err)
			}

			clk.Set(tt.today)
			err = svc.Cancel(ctx, en.ID, "a")
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("取消应成功: %v", err)
				}
				if m.enrollment.enrollments[en.ID].Status != model.EnrollmentCancelled {
					t.Error("状态应为 cancelled")
				}
				return
			}
			if !errors.Is(err, tt.wantErr) || !errors.Is(err, pkgerrors.ErrWindowClosed) {
				t.Errorf("期望 %v，实际: %v", tt.wantErr, err)
			}
			if m.event.events["ev"].ActiveEnrollments != 1 {
				t.Error("取消失败时计数不应变化")
			}
		})
	}
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	svc, m, _ := setupTestEnrollmentService("2026-03-01")
	ctx := context.Background()
	seedPerson(m, "org", "org@uni.br", model.RoleOrganizer)
	seedPerson(m, "a", "a@uni.br", model.RoleParticipant)
	seedEvent(m, "ev", "org", "2026-03-11", "2026-03-12", 2)

	en, _ := svc.Enroll(ctx, "a", "ev")
	if err := svc.Cancel(ctx, en.ID, "a"); err != nil {
		t.Fatalf("首次取消应成功: %v", err)
	}
	if err := svc.Cancel(ctx, en.ID, "a"); !errors.Is(err, ErrCancellationWindowClosed) {
		t.Errorf("重复取消期望 ErrCancellationWindowClosed，实际: %v", err)
	}
	if m.event.events["ev"].ActiveEnrollments != 0 {
		t.Errorf("计数应为 0，实际 %d", m.event.events["ev"].ActiveEnrollments)
	}
}

// 读取后报名被并发取消：条件写入不命中，计数不再递减
func TestCancel_ConcurrentCancel(t *testing.T) {
	svc, m, _ := setupTestEnrollmentService("2026-03-01")
	ctx := context.Background()
	seedPerson(m, "org", "org@uni.br", model.RoleOrganizer)
	seedPerson(m, "a", "a@uni.br", model.RoleParticipant)
	seedEvent(m, "ev", "org", "2026-03-11", "2026-03-12", 2)

	en, _ := svc.Enroll(ctx, "a", "ev")
	m.enrollment.beforeWrite = func(stored *model.Enrollment) {
		stored.Status = model.EnrollmentCancelled
		m.event.events["ev"].ActiveEnrollments--
	}

	if err := svc.Cancel(ctx, en.ID, "a"); !errors.Is(err, ErrCancellationWindowClosed) {
		t.Errorf("并发取消后期望 ErrCancellationWindowClosed，实际: %v", err)
	}
	if m.event.events["ev"].ActiveEnrollments != 0 {
		t.Errorf("计数应只递减一次，实际 %d", m.event.events["ev"].ActiveEnrollments)
	}
}

func TestCancel_NotFoundAndForbidden(t *testing.T) {
	svc, m, _ := setupTestEnrollmentService("2026-03-01")
	ctx := context.Background()
	seedPerson(m, "org", "org@uni.br", model.RoleOrganizer)
	seedPerson(m, "a", "a@uni.br", model.RoleParticipant)
	seedPerson(m, "b", "b@uni.br", model.RoleParticipant)
	seedEvent(m, "ev", "org", "2026-03-11", "2026-03-12", 2)

	if err := svc.Cancel(ctx, "missing", "a"); !errors.Is(err, ErrEnrollmentNotFound) {
		t.Errorf("期望 ErrEnrollmentNotFound，实际: %v", err)
	}

	en, _ := svc.Enroll(ctx, "a", "ev")
	if err := svc.Cancel(ctx, en.ID, "b"); !errors.Is(err, pkgerrors.ErrForbidden) {
		t.Errorf("他人取消期望 Forbidden，实际: %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// ConfirmAttendance
// ═══════════════════════════════════════════════════════════

func TestConfirmAttendance(t *testing.T) {
	svc, m, clk := setupTestEnrollmentService("2026-03-01")
	ctx := context.Background()
	seedPerson(m, "org", "org@uni.br", model.RoleOrganizer)
	seedPerson(m, "other", "other@uni.br", model.RoleOrganizer)
	seedPerson(m, "a", "a@uni.br", model.RoleParticipant)
	seedPerson(m, "b", "b@uni.br", model.RoleParticipant)
	seedEvent(m, "ev", "org", "2026-03-11", "2026-03-12", 5)

	enA, _ := svc.Enroll(ctx, "a", "ev")
	enB, _ := svc.Enroll(ctx, "b", "ev")
	if err := svc.Cancel(ctx, enB.ID, "b"); err != nil {
		t.Fatalf("取消应成功: %v", err)
	}

	if _, err := svc.ConfirmAttendance(ctx, "missing", "org"); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Errorf("期望 NotFound，实际: %v", err)
	}
	if _, err := svc.ConfirmAttendance(ctx, enA.ID, "other"); !errors.Is(err, pkgerrors.ErrForbidden) {
		t.Errorf("非主办者期望 Forbidden，实际: %v", err)
	}
	if _, err := svc.ConfirmAttendance(ctx, enA.ID, "org"); !errors.Is(err, pkgerrors.ErrTooEarly) {
		t.Errorf("开始前期望 TooEarly，实际: %v", err)
	}

	clk.Set("2026-03-11")
	if _, err := svc.ConfirmAttendance(ctx, enB.ID, "org"); !errors.Is(err, pkgerrors.ErrInvalidState) {
		t.Errorf("已取消报名期望 InvalidState，实际: %v", err)
	}

	got, err := svc.ConfirmAttendance(ctx, enA.ID, "org")
	if err != nil {
		t.Fatalf("确认出席应成功: %v", err)
	}
	if !got.AttendanceConfirmed || !m.enrollment.enrollments[enA.ID].AttendanceConfirmed {
		t.Error("出席标记应为 true")
	}
}

// 确认出席读取报名后，参与者抢先取消：不得把已取消的报名改回 active
func TestConfirmAttendance_CancelledAfterRead(t *testing.T) {
	svc, m, clk := setupTestEnrollmentService("2026-03-01")
	ctx := context.Background()
	seedPerson(m, "org", "org@uni.br", model.RoleOrganizer)
	seedPerson(m, "a", "a@uni.br", model.RoleParticipant)
	seedPerson(m, "b", "b@uni.br", model.RoleParticipant)
	seedEvent(m, "ev", "org", "2026-03-11", "2026-03-12", 1)

	en, err := svc.Enroll(ctx, "a", "ev")
	if err != nil {
		t.Fatalf("报名应成功: %v", err)
	}

	clk.Set("2026-03-11")
	m.enrollment.beforeWrite = func(stored *model.Enrollment) {
		stored.Status = model.EnrollmentCancelled
		m.event.events["ev"].ActiveEnrollments = 0
	}

	_, err = svc.ConfirmAttendance(ctx, en.ID, "org")
	if !errors.Is(err, ErrEnrollmentNotActive) {
		t.Fatalf("期望 ErrEnrollmentNotActive，实际: %v", err)
	}
	stored := m.enrollment.enrollments[en.ID]
	if stored.Status != model.EnrollmentCancelled || stored.AttendanceConfirmed {
		t.Errorf("报名应保持 cancelled 且未出席: %+v", stored)
	}
	if m.enrollment.activeCount("ev") != m.event.events["ev"].ActiveEnrollments {
		t.Errorf("计数 %d 与实际有效报名 %d 不一致",
			m.event.events["ev"].ActiveEnrollments, m.enrollment.activeCount("ev"))
	}

	// 名额释放后新报名不超出容量
	m.enrollment.beforeWrite = nil
	clk.Set("2026-03-01")
	if _, err := svc.Enroll(ctx, "b", "ev"); err != nil {
		t.Fatalf("名额释放后报名应成功: %v", err)
	}
	if m.enrollment.activeCount("ev") > 1 {
		t.Errorf("有效报名 %d 超出容量 1", m.enrollment.activeCount("ev"))
	}
}

// ═══════════════════════════════════════════════════════════
// 查询
// ═══════════════════════════════════════════════════════════

func TestEnrollment_Lists(t *testing.T) {
	svc, m, _ := setupTestEnrollmentService("2026-03-01")
	ctx := context.Background()
	seedPerson(m, "org", "org@uni.br", model.RoleOrganizer)
	seedPerson(m, "a", "a@uni.br", model.RoleParticipant)
	seedEvent(m, "ev1", "org", "2026-03-11", "2026-03-12", 5)
	seedEvent(m, "ev2", "org", "2026-04-11", "2026-04-12", 5)

	svc.Enroll(ctx, "a", "ev1")
	svc.Enroll(ctx, "a", "ev2")

	roster, err := svc.ListByEvent(ctx, "ev1", "org")
	if err != nil {
		t.Fatalf("ListByEvent 失败: %v", err)
	}
	if len(roster) != 1 || roster[0].Person == nil || roster[0].Person.Email != "a@uni.br" {
		t.Errorf("名单应包含人员信息: %+v", roster)
	}
	if _, err := svc.ListByEvent(ctx, "ev1", "a"); !errors.Is(err, ErrNotEventOwner) {
		t.Errorf("非主办者期望 ErrNotEventOwner，实际: %v", err)
	}

	mine, err := svc.ListByPerson(ctx, "a")
	if err != nil || len(mine) != 2 {
		t.Errorf("ListByPerson 期望 2 条，实际 %d (err=%v)", len(mine), err)
	}
}
