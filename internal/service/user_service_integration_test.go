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

func TestCreateUserBranchAtomicityIntegration(t *testing.T) {
	permSvc := setupIntegration(t)
	svc := UserServiceInstance
	ctx := context.Background()

	companyA := mustCreate(t, dao.CompanyRepo, &models.Company{TradeName: "Empresa A", LegalName: "Empresa A LTDA", TaxID: "66666666000166", Active: true})
	companyB := mustCreate(t, dao.CompanyRepo, &models.Company{TradeName: "Empresa B", LegalName: "Empresa B LTDA", TaxID: "77777777000177", Active: true})
	role := mustCreate(t, dao.RoleRepo, &models.Role{Name: "Vendedor"})
	branchA := mustCreate(t, dao.BranchRepo, &models.Branch{CompanyID: companyA.ID, Name: "Matriz", Active: true})
	branchB := mustCreate(t, dao.BranchRepo, &models.Branch{CompanyID: companyB.ID, Name: "Filial Externa", Active: true})

	t.Run("InvalidBranchLeavesNoUserBehind", func(t *testing.T) {
		// 分支校验失败时用户不能被持久化
		_, err := svc.CreateUser(ctx, 0, &params.CreateUserRequest{
			CompanyID: companyA.ID, RoleID: role.ID,
			FullName: "Novo Vendedor", Email: "novo@empresa-a.com", Password: "secret1", Active: true,
			BranchIDs: []uint64{branchB.ID},
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrForbidden))

		count, err := dao.UserRepo.QueryBuilder().
			Eq("email", "novo@empresa-a.com").
			Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("ValidBranchCreatesUserAndAccess", func(t *testing.T) {
		user, err := svc.CreateUser(ctx, 0, &params.CreateUserRequest{
			CompanyID: companyA.ID, RoleID: role.ID,
			FullName: "Novo Vendedor", Email: "novo@empresa-a.com", Password: "secret1", Active: true,
			BranchIDs: []uint64{branchA.ID},
		})
		require.NoError(t, err)

		ids, err := permSvc.GetUserBranchIDs(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, []uint64{branchA.ID}, ids)
	})
}
