package service

import (
	"context"
	"sync"
	"testing"

	"github.com/ayxworxfr/gestao_admin/internal/dao"
	"github.com/ayxworxfr/gestao_admin/internal/domain/models"
	"github.com/ayxworxfr/gestao_admin/internal/domain/params"
	_ "github.com/ayxworxfr/gestao_admin/pkg/tests"
	_ "github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	integrationOnce sync.Once
	integrationErr  error
)

// setupIntegration 初始化数据库仓储并清空授权相关表
func setupIntegration(t *testing.T) *PermissionService {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	integrationOnce.Do(func() {
		integrationErr = dao.InitRepo()
		if integrationErr != nil {
			return
		}
		Init()
	})
	if integrationErr != nil {
		t.Fatalf("Failed to initialize repositories: %v", integrationErr)
	}

	ctx := context.Background()
	dao.UserScreenAccessRepo.QueryBuilder().Ne("id", 0).Delete(ctx)
	dao.RoleScreenAccessRepo.QueryBuilder().Ne("id", 0).Delete(ctx)
	dao.UserBranchAccessRepo.QueryBuilder().Ne("id", 0).Delete(ctx)
	dao.UserRepo.QueryBuilder().Ne("id", 0).Delete(ctx)
	dao.RoleRepo.QueryBuilder().Ne("id", 0).Delete(ctx)
	dao.ScreenRepo.QueryBuilder().Ne("id", 0).Delete(ctx)
	dao.BranchRepo.QueryBuilder().Ne("id", 0).Delete(ctx)
	dao.CompanyRepo.QueryBuilder().Ne("id", 0).Delete(ctx)

	return PermissionServiceInstance
}

func mustCreate[T any](t *testing.T, repo interface {
	Create(ctx context.Context, entity *T) error
}, entity *T) *T {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), entity))
	return entity
}

func TestReplaceRoleGrantsIntegration(t *testing.T) {
	svc := setupIntegration(t)
	ctx := context.Background()

	role := mustCreate(t, dao.RoleRepo, &models.Role{Name: "Operador"})
	screenA := mustCreate(t, dao.ScreenRepo, &models.Screen{Title: "Usuários", Key: "users", Active: true})
	screenB := mustCreate(t, dao.ScreenRepo, &models.Screen{Title: "Perfis", Key: "roles", Active: true})

	t.Run("ReplaceAll", func(t *testing.T) {
		err := svc.ReplaceRoleGrants(ctx, &params.SetRoleGrantsRequest{
			RoleID: role.ID,
			Grants: []params.GrantRow{
				{ScreenID: screenA.ID, CanRead: true},
				{ScreenID: screenB.ID, CanRead: true, CanUpdate: true},
			},
		})
		require.NoError(t, err)

		grants, err := svc.GetRoleGrants(ctx, role.ID)
		require.NoError(t, err)
		assert.Len(t, grants, 2)

		// 再次替换为单行，旧授权应被完全移除
		err = svc.ReplaceRoleGrants(ctx, &params.SetRoleGrantsRequest{
			RoleID: role.ID,
			Grants: []params.GrantRow{{ScreenID: screenB.ID, CanRead: true}},
		})
		require.NoError(t, err)

		grants, err = svc.GetRoleGrants(ctx, role.ID)
		require.NoError(t, err)
		require.Len(t, grants, 1)
		assert.Equal(t, screenB.ID, grants[0].ScreenID)
		assert.False(t, grants[0].CanUpdate)
	})

	t.Run("InvalidRequestKeepsExistingGrants", func(t *testing.T) {
		// 未知屏幕ID的请求整体拒绝，已有授权保持不变
		err := svc.ReplaceRoleGrants(ctx, &params.SetRoleGrantsRequest{
			RoleID: role.ID,
			Grants: []params.GrantRow{
				{ScreenID: screenA.ID, CanRead: true},
				{ScreenID: 999999, CanRead: true},
			},
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrValidation))

		grants, err := svc.GetRoleGrants(ctx, role.ID)
		require.NoError(t, err)
		require.Len(t, grants, 1)
		assert.Equal(t, screenB.ID, grants[0].ScreenID)
	})

	t.Run("DuplicateScreenRejected", func(t *testing.T) {
		err := svc.ReplaceRoleGrants(ctx, &params.SetRoleGrantsRequest{
			RoleID: role.ID,
			Grants: []params.GrantRow{
				{ScreenID: screenA.ID, CanRead: true},
				{ScreenID: screenA.ID, CanUpdate: true},
			},
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrValidation))
	})

	t.Run("EmptyGrantsClearsAll", func(t *testing.T) {
		err := svc.ReplaceRoleGrants(ctx, &params.SetRoleGrantsRequest{RoleID: role.ID})
		require.NoError(t, err)

		grants, err := svc.GetRoleGrants(ctx, role.ID)
		require.NoError(t, err)
		assert.Empty(t, grants)
	})
}

func TestReplaceUserGrantsCrossCompany(t *testing.T) {
	svc := setupIntegration(t)
	ctx := context.Background()

	companyA := mustCreate(t, dao.CompanyRepo, &models.Company{TradeName: "Empresa A", LegalName: "Empresa A LTDA", TaxID: "11111111000111", Active: true})
	companyB := mustCreate(t, dao.CompanyRepo, &models.Company{TradeName: "Empresa B", LegalName: "Empresa B LTDA", TaxID: "22222222000122", Active: true})
	role := mustCreate(t, dao.RoleRepo, &models.Role{Name: "Gerente"})
	actor := mustCreate(t, dao.UserRepo, &models.User{
		CompanyID: companyA.ID, RoleID: role.ID,
		FullName: "Actor", Email: "actor@empresa-a.com", Password: "x", Active: true,
	})
	target := mustCreate(t, dao.UserRepo, &models.User{
		CompanyID: companyB.ID, RoleID: role.ID,
		FullName: "Target", Email: "target@empresa-b.com", Password: "x", Active: true,
	})
	screen := mustCreate(t, dao.ScreenRepo, &models.Screen{Title: "Relatórios", Key: "reports", Active: true})

	t.Run("CrossCompanyForbidden", func(t *testing.T) {
		err := svc.ReplaceUserGrants(ctx, actor.ID, &params.SetUserGrantsRequest{
			UserID: target.ID,
			Grants: []params.GrantRow{{ScreenID: screen.ID, CanRead: true}},
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrForbidden))
	})

	t.Run("AdminBypassesCompanyCheck", func(t *testing.T) {
		adminRole := mustCreate(t, dao.RoleRepo, &models.Role{Name: models.SystemAdminRoleName, CanSeeAllBranches: true})
		admin := mustCreate(t, dao.UserRepo, &models.User{
			CompanyID: companyA.ID, RoleID: adminRole.ID,
			FullName: "Admin", Email: "admin@empresa-a.com", Password: "x", Active: true,
		})

		err := svc.ReplaceUserGrants(ctx, admin.ID, &params.SetUserGrantsRequest{
			UserID: target.ID,
			Grants: []params.GrantRow{{ScreenID: screen.ID, CanRead: true}},
		})
		require.NoError(t, err)

		grants, err := svc.GetUserGrants(ctx, target.ID)
		require.NoError(t, err)
		require.Len(t, grants, 1)
		assert.True(t, grants[0].CanRead)
	})
}

func TestReplaceUserBranchAccessIntegration(t *testing.T) {
	svc := setupIntegration(t)
	ctx := context.Background()

	companyA := mustCreate(t, dao.CompanyRepo, &models.Company{TradeName: "Empresa A", LegalName: "Empresa A LTDA", TaxID: "33333333000133", Active: true})
	companyB := mustCreate(t, dao.CompanyRepo, &models.Company{TradeName: "Empresa B", LegalName: "Empresa B LTDA", TaxID: "44444444000144", Active: true})
	role := mustCreate(t, dao.RoleRepo, &models.Role{Name: "Vendedor"})
	user := mustCreate(t, dao.UserRepo, &models.User{
		CompanyID: companyA.ID, RoleID: role.ID,
		FullName: "Vendedor", Email: "vendedor@empresa-a.com", Password: "x", Active: true,
	})
	branchA := mustCreate(t, dao.BranchRepo, &models.Branch{CompanyID: companyA.ID, Name: "Matriz", Active: true})
	branchB := mustCreate(t, dao.BranchRepo, &models.Branch{CompanyID: companyB.ID, Name: "Filial Externa", Active: true})

	t.Run("Replace", func(t *testing.T) {
		err := svc.ReplaceUserBranchAccess(ctx, 0, &params.SetUserBranchesRequest{
			UserID:    user.ID,
			BranchIDs: []uint64{branchA.ID},
		})
		require.NoError(t, err)

		ids, err := svc.GetUserBranchIDs(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, []uint64{branchA.ID}, ids)
	})

	t.Run("BranchFromAnotherCompanyForbidden", func(t *testing.T) {
		err := svc.ReplaceUserBranchAccess(ctx, 0, &params.SetUserBranchesRequest{
			UserID:    user.ID,
			BranchIDs: []uint64{branchB.ID},
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrForbidden))

		// 失败的请求不影响已有授权
		ids, err := svc.GetUserBranchIDs(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, []uint64{branchA.ID}, ids)
	})
}

func TestResolveBranchScopeIntegration(t *testing.T) {
	svc := setupIntegration(t)
	ctx := context.Background()

	company := mustCreate(t, dao.CompanyRepo, &models.Company{TradeName: "Empresa", LegalName: "Empresa LTDA", TaxID: "55555555000155", Active: true})
	matriz := mustCreate(t, dao.BranchRepo, &models.Branch{CompanyID: company.ID, Name: "Matriz", Active: true})
	filial := mustCreate(t, dao.BranchRepo, &models.Branch{CompanyID: company.ID, Name: "Filial Sul", Active: true})
	mustCreate(t, dao.BranchRepo, &models.Branch{CompanyID: company.ID, Name: "Desativada", Active: false})

	t.Run("AllBranchesFlagReturnsEveryActiveBranch", func(t *testing.T) {
		role := mustCreate(t, dao.RoleRepo, &models.Role{Name: "Diretor", CanSeeAllBranches: true})
		user := mustCreate(t, dao.UserRepo, &models.User{
			CompanyID: company.ID, RoleID: role.ID,
			FullName: "Diretor", Email: "diretor@empresa.com", Password: "x", Active: true,
		})

		branches, err := svc.ResolveBranchScope(ctx, user, role)
		require.NoError(t, err)
		// 按名称排序，停用分支不出现
		require.Len(t, branches, 2)
		assert.Equal(t, filial.ID, branches[0].ID)
		assert.Equal(t, matriz.ID, branches[1].ID)
	})

	t.Run("RestrictedRoleSeesOnlyGrantedBranches", func(t *testing.T) {
		role := mustCreate(t, dao.RoleRepo, &models.Role{Name: "Caixa"})
		user := mustCreate(t, dao.UserRepo, &models.User{
			CompanyID: company.ID, RoleID: role.ID,
			FullName: "Caixa", Email: "caixa@empresa.com", Password: "x", Active: true,
		})
		require.NoError(t, svc.ReplaceUserBranchAccess(ctx, 0, &params.SetUserBranchesRequest{
			UserID:    user.ID,
			BranchIDs: []uint64{filial.ID},
		}))

		branches, err := svc.ResolveBranchScope(ctx, user, role)
		require.NoError(t, err)
		require.Len(t, branches, 1)
		assert.Equal(t, filial.ID, branches[0].ID)
	})

	t.Run("RestrictedRoleWithoutAccessSeesNothing", func(t *testing.T) {
		role := mustCreate(t, dao.RoleRepo, &models.Role{Name: "Estagiário"})
		user := mustCreate(t, dao.UserRepo, &models.User{
			CompanyID: company.ID, RoleID: role.ID,
			FullName: "Estagiário", Email: "estagiario@empresa.com", Password: "x", Active: true,
		})

		branches, err := svc.ResolveBranchScope(ctx, user, role)
		require.NoError(t, err)
		assert.Empty(t, branches)
	})

	t.Run("AdminRoleWithoutFlagIsRestricted", func(t *testing.T) {
		// 分支范围只看CanSeeAllBranches标志，管理员角色名不放宽
		role := mustCreate(t, dao.RoleRepo, &models.Role{Name: models.SystemAdminRoleName})
		user := mustCreate(t, dao.UserRepo, &models.User{
			CompanyID: company.ID, RoleID: role.ID,
			FullName: "Admin", Email: "admin@empresa.com", Password: "x", Active: true,
		})
		require.NoError(t, svc.ReplaceUserBranchAccess(ctx, 0, &params.SetUserBranchesRequest{
			UserID:    user.ID,
			BranchIDs: []uint64{matriz.ID},
		}))

		branches, err := svc.ResolveBranchScope(ctx, user, role)
		require.NoError(t, err)
		require.Len(t, branches, 1)
		assert.Equal(t, matriz.ID, branches[0].ID)
	})
}
