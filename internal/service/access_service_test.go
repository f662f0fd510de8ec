package service

import (
	"context"
	"errors"
	"testing"

	apperrors "talleres-api/pkg/errors"
)

func TestAuthorize_InstructorCannotEditOthersWorkshop(t *testing.T) {
	env := newTestEnv()

	err := env.acc.Authorize(context.Background(), callerI2, ActionUpdate, Resource{
		Kind:    ResourceTaller,
		OwnerID: "ip-1",
		Denied:  denyWorkshopEdit,
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("期望 ErrForbidden，实际: %v", err)
	}
	if err.Error() != denyWorkshopEdit {
		t.Errorf("期望说明=%q，实际=%q", denyWorkshopEdit, err.Error())
	}
	if apperrors.KindOf(err) != apperrors.KindForbidden {
		t.Errorf("期望 KindForbidden，实际=%v", apperrors.KindOf(err))
	}
}

func TestAuthorize_InstructorOwnWorkshop(t *testing.T) {
	env := newTestEnv()

	for _, kind := range []ResourceKind{ResourceTaller, ResourceRoster, ResourceAviso, ResourceFecha} {
		if err := env.acc.Authorize(context.Background(), callerI1, ActionUpdate, Resource{Kind: kind, OwnerID: "ip-1"}); err != nil {
			t.Errorf("kind=%d 讲师访问自己的资源应放行: %v", kind, err)
		}
	}
}

func TestAuthorize_AdminBypass(t *testing.T) {
	env := newTestEnv()

	kinds := []ResourceKind{ResourceTaller, ResourceRoster, ResourceAviso, ResourceFecha, ResourceInscripcion, ResourceEmergencia}
	actions := []Action{ActionRead, ActionCreate, ActionUpdate, ActionDelete}
	for _, k := range kinds {
		for _, a := range actions {
			if err := env.acc.Authorize(context.Background(), callerAdmin, a, Resource{Kind: k, OwnerID: "otro"}); err != nil {
				t.Errorf("管理员 kind=%d action=%d 应放行: %v", k, a, err)
			}
		}
	}
}

func TestAuthorize_WorkshopCreateDeleteAdminOnly(t *testing.T) {
	env := newTestEnv()

	for _, a := range []Action{ActionCreate, ActionDelete} {
		err := env.acc.Authorize(context.Background(), callerI1, a, Resource{Kind: ResourceTaller, OwnerID: "ip-1"})
		if !errors.Is(err, ErrForbidden) {
			t.Errorf("action=%d 讲师应被拒绝，实际: %v", a, err)
		}
	}
	if err := env.acc.Authorize(context.Background(), callerA1, ActionRead, Resource{Kind: ResourceTaller, OwnerID: "ip-1"}); err != nil {
		t.Errorf("学生读取工作坊应放行: %v", err)
	}
}

func TestAuthorize_StudentScopes(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	tests := []struct {
		name    string
		action  Action
		res     Resource
		allowed bool
	}{
		{"读取公告", ActionRead, Resource{Kind: ResourceAviso, OwnerID: "ip-1"}, true},
		{"读取日历", ActionRead, Resource{Kind: ResourceFecha, OwnerID: "ip-2"}, true},
		{"修改公告", ActionUpdate, Resource{Kind: ResourceAviso, OwnerID: "ip-1"}, false},
		{"查看名单", ActionRead, Resource{Kind: ResourceRoster, OwnerID: "ip-1"}, false},
		{"自己的报名", ActionUpdate, Resource{Kind: ResourceInscripcion, OwnerID: "sp-1"}, true},
		{"他人的报名", ActionUpdate, Resource{Kind: ResourceInscripcion, OwnerID: "sp-2"}, false},
		{"自己的紧急信息", ActionDelete, Resource{Kind: ResourceEmergencia, OwnerID: "sp-1"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := env.acc.Authorize(ctx, callerA1, tt.action, tt.res)
			if tt.allowed && err != nil {
				t.Errorf("期望放行，实际: %v", err)
			}
			if !tt.allowed && !errors.Is(err, ErrForbidden) {
				t.Errorf("期望 ErrForbidden，实际: %v", err)
			}
		})
	}
}

func TestAuthorize_InstructorWithoutProfileDenied(t *testing.T) {
	env := newTestEnv()
	ghost := Caller{UserID: "u-sin-perfil", Role: RoleInstructor}

	err := env.acc.Authorize(context.Background(), ghost, ActionUpdate, Resource{Kind: ResourceTaller, OwnerID: "ip-1"})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("档案缺失应视为拒绝，实际: %v", err)
	}

	_, err = env.acc.ResolveInstructorProfile(context.Background(), ghost.UserID)
	if !errors.Is(err, ErrInstructorProfileNotFound) {
		t.Fatalf("期望 ErrInstructorProfileNotFound，实际: %v", err)
	}
	if errors.Is(err, ErrForbidden) || errors.Is(err, ErrStudentProfileNotFound) {
		t.Error("档案缺失错误不应与授权拒绝或学生档案缺失混淆")
	}
}

func TestAuthorizeOwnership(t *testing.T) {
	tests := []struct {
		name    string
		role    Role
		owner   string
		profile string
		want    bool
	}{
		{"管理员", RoleAdmin, "", "", true},
		{"归属一致", RoleInstructor, "ip-1", "ip-1", true},
		{"归属不一致", RoleInstructor, "ip-1", "ip-2", false},
		{"资源未分配", RoleInstructor, "", "ip-1", false},
		{"调用方无档案", RoleAlumno, "sp-1", "", false},
		{"未知角色", RoleUnknown, "x", "x", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AuthorizeOwnership(tt.role, tt.owner, tt.profile); got != tt.want {
				t.Errorf("期望 %v，实际 %v", tt.want, got)
			}
		})
	}
}

func TestParseRole(t *testing.T) {
	for tipo, want := range map[string]Role{
		"admin":      RoleAdmin,
		"instructor": RoleInstructor,
		"alumno":     RoleAlumno,
		"root":       RoleUnknown,
	} {
		if got := ParseRole(tipo); got != want {
			t.Errorf("ParseRole(%q) = %v，期望 %v", tipo, got, want)
		}
	}
}
