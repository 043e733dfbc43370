package service

import (
	"context"
	"testing"

	"github.com/ayxworxfr/gestao_admin/internal/dao"
	"github.com/ayxworxfr/gestao_admin/internal/domain/models"
	"github.com/ayxworxfr/gestao_admin/internal/domain/params"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScreenParentValidationIntegration(t *testing.T) {
	permSvc := setupIntegration(t)
	svc := ScreenServiceInstance
	ctx := context.Background()

	root := mustCreate(t, dao.ScreenRepo, &models.Screen{Title: "Cadastros", Key: "registrations", Active: true})
	child := mustCreate(t, dao.ScreenRepo, &models.Screen{ParentID: root.ID, Title: "Produtos", Key: "products", Active: true})
	grandchild := mustCreate(t, dao.ScreenRepo, &models.Screen{ParentID: child.ID, Title: "Preços", Key: "prices", Active: true})

	t.Run("SelfParentRejected", func(t *testing.T) {
		_, err := svc.UpdateScreen(ctx, &params.UpdateScreenRequest{ID: root.ID, ParentID: &root.ID})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrValidation))
	})

	t.Run("ReparentOntoDescendantRejected", func(t *testing.T) {
		// 根节点挂到自己的孙子节点下会形成环
		_, err := svc.UpdateScreen(ctx, &params.UpdateScreenRequest{ID: root.ID, ParentID: &grandchild.ID})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrValidation))

		stored, err := dao.ScreenRepo.FindByID(ctx, root.ID)
		require.NoError(t, err)
		assert.Equal(t, uint64(0), stored.ParentID)
	})

	t.Run("TreeStaysResolvableAfterRejectedReparent", func(t *testing.T) {
		// 被拒绝的移动不会让可读屏幕从菜单中消失
		role := mustCreate(t, dao.RoleRepo, &models.Role{Name: "Consultor"})
		user := mustCreate(t, dao.UserRepo, &models.User{
			RoleID: role.ID, FullName: "Consultor", Email: "consultor@empresa.com", Password: "x", Active: true,
		})
		err := permSvc.ReplaceRoleGrants(ctx, &params.SetRoleGrantsRequest{
			RoleID: role.ID,
			Grants: []params.GrantRow{
				{ScreenID: root.ID, CanRead: true},
				{ScreenID: child.ID, CanRead: true},
				{ScreenID: grandchild.ID, CanRead: true},
			},
		})
		require.NoError(t, err)

		tree, err := permSvc.ResolveScreenTree(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, tree, 1)
		assert.Equal(t, root.ID, tree[0].ScreenID)
		require.Len(t, tree[0].Children, 1)
		require.Len(t, tree[0].Children[0].Children, 1)
		assert.Equal(t, grandchild.ID, tree[0].Children[0].Children[0].ScreenID)
	})

	t.Run("InactiveParentRejectedOnCreate", func(t *testing.T) {
		inactive := mustCreate(t, dao.ScreenRepo, &models.Screen{Title: "Arquivado", Key: "archived", Active: false})

		_, err := svc.CreateScreen(ctx, &params.CreateScreenRequest{
			ParentID: inactive.ID, Title: "Novo", Key: "new_screen", Active: true,
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrValidation))
	})

	t.Run("InactiveParentRejectedOnUpdate", func(t *testing.T) {
		inactive := mustCreate(t, dao.ScreenRepo, &models.Screen{Title: "Arquivado 2", Key: "archived_two", Active: false})

		_, err := svc.UpdateScreen(ctx, &params.UpdateScreenRequest{ID: grandchild.ID, ParentID: &inactive.ID})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrValidation))
	})
}
