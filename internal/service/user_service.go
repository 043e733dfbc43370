package service

import (
	"context"

	"github.com/ayxworxfr/gestao_admin/internal/dao"
	"github.com/ayxworxfr/gestao_admin/internal/domain/models"
	"github.com/ayxworxfr/gestao_admin/internal/domain/params"
	"github.com/ayxworxfr/gestao_admin/internal/domain/vo"
	"github.com/ayxworxfr/gestao_admin/pkg/logger"
	"github.com/ayxworxfr/gestao_admin/pkg/repository"
	"github.com/hashicorp/go-multierror"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// UserService 用户管理服务
type UserService struct {
	userRepo       repository.Repository[models.User]
	roleRepo       repository.Repository[models.Role]
	companyRepo    repository.Repository[models.Company]
	userAccessRepo repository.Repository[models.UserScreenAccess]
	userBranchRepo repository.Repository[models.UserBranchAccess]
	permService    *PermissionService
}

// NewUserService 创建用户服务实例
func NewUserService(permService *PermissionService) *UserService {
	return &UserService{
		userRepo:       dao.UserRepo,
		roleRepo:       dao.RoleRepo,
		companyRepo:    dao.CompanyRepo,
		userAccessRepo: dao.UserScreenAccessRepo,
		userBranchRepo: dao.UserBranchAccessRepo,
		permService:    permService,
	}
}

// CreateUser 创建用户（事务内创建用户并写入分支机构访问）
func (s *UserService) CreateUser(ctx context.Context, actorID uint64, req *params.CreateUserRequest) (*vo.User, error) {
	if err := s.checkEmailUnique(ctx, req.Email, 0); err != nil {
		return nil, err
	}
	company, err := s.companyRepo.FindByID(ctx, req.CompanyID)
	if err != nil {
		return nil, errors.Wrapf(ErrValidation, "company %d not found", req.CompanyID)
	}
	if !company.Active {
		return nil, errors.Wrapf(ErrInactive, "company %d is inactive", req.CompanyID)
	}
	if _, err := s.roleRepo.FindByID(ctx, req.RoleID); err != nil {
		return nil, errors.Wrapf(ErrValidation, "role %d not found", req.RoleID)
	}

	var user models.User
	if err := copier.Copy(&user, &req); err != nil {
		return nil, errors.Wrap(err, "failed to copy request to user")
	}
	user.EncryptPassword()

	// 分支校验先于写入，失败时不留下半创建的用户
	if len(req.BranchIDs) > 0 {
		if err := s.permService.checkSameCompany(ctx, actorID, &user); err != nil {
			return nil, err
		}
		if err := s.permService.checkBranchesInCompany(ctx, req.CompanyID, req.BranchIDs); err != nil {
			return nil, err
		}
	}

	_, err = s.userRepo.Transaction(ctx, func(txCtx context.Context) (any, error) {
		if err := s.userRepo.Create(txCtx, &user); err != nil {
			logger.Error(txCtx, "Failed to create user", zap.Error(err))
			return nil, errors.Wrap(err, "failed to create user")
		}
		if len(req.BranchIDs) > 0 {
			if err := s.permService.replaceUserBranchRows(txCtx, user.ID, req.BranchIDs); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "User created",
		zap.Uint64("user_id", user.ID), zap.String("email", user.Email))

	var result vo.User
	if err := copier.Copy(&result, &user); err != nil {
		return nil, errors.Wrap(err, "failed to copy user to result")
	}
	return &result, nil
}

// UpdateUser 更新用户，BranchIDs非空时整体替换分支机构访问
func (s *UserService) UpdateUser(ctx context.Context, actorID uint64, req *params.UpdateUserRequest) (*vo.User, error) {
	user, err := s.userRepo.FindByID(ctx, req.ID)
	if err != nil {
		return nil, errors.Wrapf(ErrNotFound, "user %d not found", req.ID)
	}

	if req.Email != "" && req.Email != user.Email {
		if err := s.checkEmailUnique(ctx, req.Email, req.ID); err != nil {
			return nil, err
		}
	}
	if req.RoleID != 0 {
		if _, err := s.roleRepo.FindByID(ctx, req.RoleID); err != nil {
			return nil, errors.Wrapf(ErrValidation, "role %d not found", req.RoleID)
		}
	}

	if err := copier.CopyWithOption(&user, &req, copier.Option{IgnoreEmpty: true}); err != nil {
		return nil, errors.Wrap(err, "failed to copy request to user")
	}
	if req.Active != nil {
		user.Active = *req.Active
	}
	if req.Password != "" {
		user.Password = models.EncryptPassword(req.Password)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		logger.Error(ctx, "Failed to update user", zap.Error(err), zap.Uint64("user_id", req.ID))
		return nil, errors.Wrap(err, "failed to update user")
	}

	if req.BranchIDs != nil {
		if err := s.permService.ReplaceUserBranchAccess(ctx, actorID, &params.SetUserBranchesRequest{
			UserID:    user.ID,
			BranchIDs: *req.BranchIDs,
		}); err != nil {
			return nil, err
		}
	}

	var result vo.User
	if err := copier.Copy(&result, &user); err != nil {
		return nil, errors.Wrap(err, "failed to copy user to result")
	}
	return &result, nil
}

// DeleteUserBatch 批量删除用户
func (s *UserService) DeleteUserBatch(ctx context.Context, ids []uint64) error {
	var errs multierror.Error
	for _, id := range ids {
		if err := s.DeleteUser(ctx, id); err != nil {
			errs = *multierror.Append(&errs, err)
		}
	}
	return errs.ErrorOrNil()
}

// DeleteUser 删除用户，直接授权与分支机构访问在事务内一并清除
func (s *UserService) DeleteUser(ctx context.Context, id uint64) error {
	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		return errors.Wrapf(ErrNotFound, "user %d not found", id)
	}

	_, err := s.userRepo.Transaction(ctx, func(txCtx context.Context) (any, error) {
		if err := s.userAccessRepo.QueryBuilder().
			Eq("user_id", id).
			Delete(txCtx); err != nil {
			return nil, errors.Wrap(err, "failed to delete user grants")
		}
		if err := s.userBranchRepo.QueryBuilder().
			Eq("user_id", id).
			Delete(txCtx); err != nil {
			return nil, errors.Wrap(err, "failed to delete user branch access")
		}
		if err := s.userRepo.DeleteByID(txCtx, id); err != nil {
			return nil, errors.Wrap(err, "failed to delete user")
		}
		return nil, nil
	})
	if err != nil {
		logger.Error(ctx, "Failed to delete user", zap.Error(err), zap.Uint64("user_id", id))
	}
	return err
}

// GetUser 获取用户详情（使用位标志控制返回内容）
func (s *UserService) GetUser(ctx context.Context, id uint64, flags int) (*vo.UserDetail, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(ErrNotFound, "user %d not found", id)
	}

	var result vo.UserDetail
	if err := copier.Copy(&result, &user); err != nil {
		return nil, errors.Wrap(err, "failed to copy user to result")
	}
	result.Grants = []vo.GrantItem{}
	result.BranchIDs = []uint64{}

	searchFlag := params.NewResponseFlags(flags)
	if searchFlag.Has(params.INCLUDE_ROLE) {
		if role, err := s.roleRepo.FindByID(ctx, user.RoleID); err == nil {
			result.RoleName = role.Name
		}
	}
	if searchFlag.Has(params.INCLUDE_GRANTS) {
		grants, err := s.permService.GetUserGrants(ctx, id)
		if err != nil {
			return nil, err
		}
		result.Grants = grants
	}
	if searchFlag.Has(params.INCLUDE_BRANCHES) {
		branchIDs, err := s.permService.GetUserBranchIDs(ctx, id)
		if err != nil {
			return nil, err
		}
		result.BranchIDs = branchIDs
	}

	return &result, nil
}

// GetUserList 获取用户列表
func (s *UserService) GetUserList(ctx context.Context, req *params.GetUserListRequest) ([]vo.User, int64, error) {
	users, total, err := s.userRepo.FindPage(ctx, req, req.Limit, req.Offset)
	if err != nil {
		logger.Error(ctx, "Failed to retrieve users", zap.Error(err))
		return nil, 0, errors.Wrap(err, "failed to retrieve users")
	}

	var result []vo.User
	if err := copier.Copy(&result, &users); err != nil {
		return nil, 0, errors.Wrap(err, "failed to copy users to result")
	}

	searchFlag := params.NewResponseFlags(req.Flags)
	if searchFlag.Has(params.INCLUDE_ROLE) {
		for i, user := range users {
			if role, err := s.roleRepo.FindByID(ctx, user.RoleID); err == nil {
				result[i].RoleName = role.Name
			}
		}
	}

	return result, total, nil
}

// checkEmailUnique 检查邮箱是否唯一
func (s *UserService) checkEmailUnique(ctx context.Context, email string, excludeID uint64) error {
	query := s.userRepo.QueryBuilder().Eq("email", email)
	if excludeID > 0 {
		query = query.Ne("id", excludeID)
	}

	count, err := query.Count(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to check email uniqueness")
	}
	if count > 0 {
		return errors.Wrapf(ErrConflict, "email %q already exists", email)
	}
	return nil
}
