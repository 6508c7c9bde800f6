package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"sgea/backend/internal/dto"
	"sgea/backend/internal/model"
	pkgerrors "sgea/backend/pkg/errors"
)

func setupTestPersonService() (PersonService, *testRepos) {
	repo, m := newTestRepos()
	return NewPersonService(repo, zap.NewNop()), m
}

func registerReq(name, email, role string) *dto.RegisterPersonRequest {
	return &dto.RegisterPersonRequest{
		FullName:    name,
		Email:       email,
		Institution: "UFAL",
		Role:        role,
		Password:    "password123",
	}
}

func TestRegister_Success(t *testing.T) {
	svc, m := setupTestPersonService()

	p, err := svc.Register(context.Background(), registerReq(" Ana Souza ", "ana@uni.br", "participant"))
	if err != nil {
		t.Fatalf("Register 应成功: %v", err)
	}
	if p.FullName != "Ana Souza" || p.Role != "participant" {
		t.Errorf("注册结果不符: %+v", p)
	}

	stored := m.person.persons[p.ID]
	if stored == nil {
		t.Fatal("人员应已持久化")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("password123")); err != nil {
		t.Error("密码应以 bcrypt 哈希保存")
	}
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     *dto.RegisterPersonRequest
		wantErr error
	}{
		{"空姓名", registerReq("  ", "a@uni.br", "participant"), ErrPersonNameRequired},
		{"邮箱缺少@", registerReq("Ana", "ana.uni.br", "participant"), ErrInvalidEmail},
		{"邮箱以@开头", registerReq("Ana", "@uni.br", "participant"), ErrInvalidEmail},
		{"未知角色", registerReq("Ana", "a@uni.br", "admin"), ErrInvalidRole},
		{"密码过短", &dto.RegisterPersonRequest{FullName: "Ana", Email: "a@uni.br", Role: "participant", Password: "123"}, ErrPasswordTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := setupTestPersonService()
			_, err := svc.Register(context.Background(), tt.req)
			if !errors.Is(err, tt.wantErr) || !errors.Is(err, pkgerrors.ErrInvalidArgument) {
				t.Errorf("期望 %v，实际: %v", tt.wantErr, err)
			}
		})
	}
}

func TestRegister_EmailTakenIgnoringCase(t *testing.T) {
	svc, _ := setupTestPersonService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerReq("Ana", "Ana@Uni.br", "participant")); err != nil {
		t.Fatalf("首次注册应成功: %v", err)
	}
	if _, err := svc.Register(ctx, registerReq("Outra", "ana@uni.BR", "evaluator")); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("期望 ErrEmailTaken，实际: %v", err)
	}
}

func TestPersonUpdate(t *testing.T) {
	svc, m := setupTestPersonService()
	ctx := context.Background()
	seedPerson(m, "a", "a@uni.br", model.RoleParticipant)
	seedPerson(m, "b", "b@uni.br", model.RoleParticipant)

	if _, err := svc.Update(ctx, "a", &dto.UpdatePersonRequest{FullName: strPtr("X")}, "b"); !errors.Is(err, pkgerrors.ErrForbidden) {
		t.Errorf("修改他人期望 Forbidden，实际: %v", err)
	}
	if _, err := svc.Update(ctx, "a", &dto.UpdatePersonRequest{Email: strPtr("B@uni.br")}, "a"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("邮箱冲突期望 ErrEmailTaken，实际: %v", err)
	}
	if _, err := svc.Update(ctx, "ghost", &dto.UpdatePersonRequest{}, "ghost"); !errors.Is(err, ErrPersonNotFound) {
		t.Errorf("期望 ErrPersonNotFound，实际: %v", err)
	}

	got, err := svc.Update(ctx, "a", &dto.UpdatePersonRequest{
		FullName:    strPtr("Ana Lima"),
		Email:       strPtr("A@uni.br"),
		Institution: strPtr("UFPE"),
		Role:        strPtr("evaluator"),
	}, "a")
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if got.FullName != "Ana Lima" || got.Email != "A@uni.br" || got.Institution != "UFPE" || got.Role != "evaluator" {
		t.Errorf("更新结果不符: %+v", got)
	}
	if m.person.persons["a"].Role != model.RoleEvaluator {
		t.Error("角色应已持久化")
	}
}

func TestPersonList(t *testing.T) {
	svc, m := setupTestPersonService()
	seedPerson(m, "a", "a@uni.br", model.RoleParticipant)
	seedPerson(m, "b", "b@uni.br", model.RoleEvaluator)

	list, err := svc.List(context.Background())
	if err != nil || len(list) != 2 {
		t.Fatalf("List 期望 2 人，实际 %d (err=%v)", len(list), err)
	}
	if _, err := svc.GetByID(context.Background(), "b"); err != nil {
		t.Errorf("GetByID 应成功: %v", err)
	}
}
