package service

import (
	"context"
	"sort"

	"github.com/ayxworxfr/gestao_admin/internal/dao"
	"github.com/ayxworxfr/gestao_admin/internal/domain/models"
	"github.com/ayxworxfr/gestao_admin/internal/domain/params"
	"github.com/ayxworxfr/gestao_admin/internal/domain/vo"
	"github.com/ayxworxfr/gestao_admin/pkg/logger"
	"github.com/ayxworxfr/gestao_admin/pkg/repository"
	"github.com/hashicorp/go-multierror"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// 授权动作标识
const (
	ActionCreate = "create"
	ActionRead   = "read"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// PermissionService 权限解析与授权管理服务
// 负责合并角色/用户授权、构建菜单树、分支机构可见范围以及授权的整体替换
type PermissionService struct {
	userRepo       repository.Repository[models.User]
	roleRepo       repository.Repository[models.Role]
	screenRepo     repository.Repository[models.Screen]
	branchRepo     repository.Repository[models.Branch]
	roleAccessRepo repository.Repository[models.RoleScreenAccess]
	userAccessRepo repository.Repository[models.UserScreenAccess]
	userBranchRepo repository.Repository[models.UserBranchAccess]
}

// NewPermissionService 创建权限服务实例
func NewPermissionService() *PermissionService {
	return &PermissionService{
		userRepo:       dao.UserRepo,
		roleRepo:       dao.RoleRepo,
		screenRepo:     dao.ScreenRepo,
		branchRepo:     dao.BranchRepo,
		roleAccessRepo: dao.RoleScreenAccessRepo,
		userAccessRepo: dao.UserScreenAccessRepo,
		userBranchRepo: dao.UserBranchAccessRepo,
	}
}

// --------------------------- 权限解析 ---------------------------

// ResolvePermissions 解析用户的完整权限负载（屏幕树+分支机构范围）
func (s *PermissionService) ResolvePermissions(ctx context.Context, user *models.User, role *models.Role) (*vo.Permissions, error) {
	screens, err := s.resolveScreenTree(ctx, user, role)
	if err != nil {
		return nil, err
	}

	branches, err := s.ResolveBranchScope(ctx, user, role)
	if err != nil {
		return nil, err
	}

	return &vo.Permissions{Screens: screens, Branches: branches}, nil
}

// ResolveScreenTree 解析用户的生效屏幕权限树
func (s *PermissionService) ResolveScreenTree(ctx context.Context, userID uint64) ([]*vo.ScreenPermissionNode, error) {
	user, role, err := s.loadUserAndRole(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.resolveScreenTree(ctx, user, role)
}

func (s *PermissionService) resolveScreenTree(ctx context.Context, user *models.User, role *models.Role) ([]*vo.ScreenPermissionNode, error) {
	// 仅加载启用的屏幕，停用屏幕对解析不可见
	screens, err := s.screenRepo.QueryBuilder().
		Eq("active", true).
		Find(ctx)
	if err != nil {
		logger.Error(ctx, "Failed to retrieve screens", zap.Error(err))
		return nil, errors.Wrap(err, "failed to retrieve screens")
	}

	var effective map[uint64]vo.GrantItem
	if role.IsSystemAdmin() {
		// 系统管理员拥有全部屏幕的全部动作，跳过授权表查询
		effective = fullGrants(screens)
	} else {
		roleGrants, userGrants, err := s.loadGrants(ctx, role.ID, user.ID)
		if err != nil {
			return nil, err
		}
		effective = mergeEffectiveGrants(roleGrants, userGrants)
	}

	return buildScreenTree(screens, effective), nil
}

// fullGrants 为每个屏幕生成全动作授权，系统管理员路径使用
func fullGrants(screens []models.Screen) map[uint64]vo.GrantItem {
	effective := make(map[uint64]vo.GrantItem, len(screens))
	for _, screen := range screens {
		effective[screen.ID] = vo.GrantItem{
			ScreenID:  screen.ID,
			CanCreate: true,
			CanRead:   true,
			CanUpdate: true,
			CanDelete: true,
		}
	}
	return effective
}

// mergeEffectiveGrants 合并角色授权与用户授权
// 用户存在某屏幕的授权行时整行覆盖角色授权，否则沿用角色授权
func mergeEffectiveGrants(roleGrants []models.RoleScreenAccess, userGrants []models.UserScreenAccess) map[uint64]vo.GrantItem {
	effective := make(map[uint64]vo.GrantItem, len(roleGrants)+len(userGrants))
	for _, g := range roleGrants {
		effective[g.ScreenID] = vo.GrantItem{
			ScreenID:  g.ScreenID,
			CanCreate: g.CanCreate,
			CanRead:   g.CanRead,
			CanUpdate: g.CanUpdate,
			CanDelete: g.CanDelete,
		}
	}
	for _, g := range userGrants {
		effective[g.ScreenID] = vo.GrantItem{
			ScreenID:  g.ScreenID,
			CanCreate: g.CanCreate,
			CanRead:   g.CanRead,
			CanUpdate: g.CanUpdate,
			CanDelete: g.CanDelete,
		}
	}
	return effective
}

// buildScreenTree 根据生效授权构建剪枝后的屏幕树
// 锚点为CanRead=true的屏幕；锚点的祖先即使无授权也会以只读形式保留，
// 保证菜单路径完整。父节点缺失（或已停用）的节点提升为根节点。
func buildScreenTree(screens []models.Screen, effective map[uint64]vo.GrantItem) []*vo.ScreenPermissionNode {
	screenMap := lo.SliceToMap(screens, func(s models.Screen) (uint64, models.Screen) {
		return s.ID, s
	})

	// 1. 收集可见集合：锚点及其祖先链
	visible := make(map[uint64]*vo.ScreenPermissionNode)
	for _, screen := range screens {
		grant, ok := effective[screen.ID]
		if !ok || !grant.CanRead {
			continue
		}
		visible[screen.ID] = newScreenNode(screen, grant)

		// 沿父链向上补齐祖先，祖先强制只读（仅用于展示）
		parentID := screen.ParentID
		for parentID != 0 {
			if _, seen := visible[parentID]; seen {
				break
			}
			parent, exists := screenMap[parentID]
			if !exists {
				break
			}
			grant := effective[parentID]
			grant.ScreenID = parentID
			grant.CanRead = true
			visible[parentID] = newScreenNode(parent, grant)
			parentID = parent.ParentID
		}
	}

	// 2. 连接父子关系
	var roots []*vo.ScreenPermissionNode
	for _, node := range visible {
		parent, ok := visible[node.ParentID]
		if node.ParentID == 0 || !ok {
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	// 3. 按Order排序（同序按ID保证稳定）
	sortScreenNodes(roots)
	for _, node := range visible {
		sortScreenNodes(node.Children)
	}

	return roots
}

func newScreenNode(screen models.Screen, grant vo.GrantItem) *vo.ScreenPermissionNode {
	return &vo.ScreenPermissionNode{
		ScreenPermission: vo.ScreenPermission{
			ScreenID:    screen.ID,
			ParentID:    screen.ParentID,
			Title:       screen.Title,
			Key:         screen.Key,
			Description: screen.Description,
			Route:       screen.Route,
			Icon:        screen.Icon,
			Order:       screen.Order,
			CanCreate:   grant.CanCreate,
			CanRead:     grant.CanRead,
			CanUpdate:   grant.CanUpdate,
			CanDelete:   grant.CanDelete,
		},
		Children: []*vo.ScreenPermissionNode{},
	}
}

func sortScreenNodes(nodes []*vo.ScreenPermissionNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].Order != nodes[j].Order {
			return nodes[i].Order < nodes[j].Order
		}
		return nodes[i].ScreenID < nodes[j].ScreenID
	})
}

// ResolveBranchScope 解析用户可见的分支机构范围
// 仅由角色的CanSeeAllBranches标志决定：开启时返回本公司所有启用分支，
// 否则按用户分支授权过滤
func (s *PermissionService) ResolveBranchScope(ctx context.Context, user *models.User, role *models.Role) ([]vo.Branch, error) {
	builder := s.branchRepo.QueryBuilder().
		Eq("company_id", user.CompanyID).
		Eq("active", true)

	if !role.CanSeeAllBranches {
		accessList, err := s.userBranchRepo.QueryBuilder().
			Eq("user_id", user.ID).
			Find(ctx)
		if err != nil {
			logger.Error(ctx, "Failed to retrieve user branch access", zap.Error(err), zap.Uint64("user_id", user.ID))
			return nil, errors.Wrap(err, "failed to retrieve user branch access")
		}
		if len(accessList) == 0 {
			return []vo.Branch{}, nil
		}

		branchIDs := lo.Map(accessList, func(a models.UserBranchAccess, _ int) uint64 {
			return a.BranchID
		})
		builder = builder.In("id", branchIDs)
	}

	branches, err := builder.OrderBy("name").Find(ctx)
	if err != nil {
		logger.Error(ctx, "Failed to retrieve branches", zap.Error(err), zap.Uint64("company_id", user.CompanyID))
		return nil, errors.Wrap(err, "failed to retrieve branches")
	}

	var result []vo.Branch
	if err := copier.Copy(&result, &branches); err != nil {
		return nil, errors.Wrap(err, "failed to copy branches to result")
	}
	if result == nil {
		result = []vo.Branch{}
	}
	return result, nil
}

// CheckScreenAction 检查用户对指定屏幕动作的访问
// 访问校验使用严格合并结果，祖先的强制只读仅用于菜单展示，不在此生效
func (s *PermissionService) CheckScreenAction(ctx context.Context, userID uint64, screenKey, action string) (bool, error) {
	if action != ActionCreate && action != ActionRead && action != ActionUpdate && action != ActionDelete {
		return false, errors.Wrapf(ErrValidation, "unknown action %q", action)
	}

	user, role, err := s.loadUserAndRole(ctx, userID)
	if err != nil {
		return false, err
	}

	screen, err := s.screenRepo.Find(ctx, &models.Screen{Key: screenKey})
	if err != nil {
		return false, errors.Wrapf(ErrNotFound, "screen %q not found", screenKey)
	}
	if !screen.Active {
		return false, nil
	}

	if role.IsSystemAdmin() {
		return true, nil
	}

	roleGrants, userGrants, err := s.loadGrants(ctx, role.ID, user.ID)
	if err != nil {
		return false, err
	}
	grant, ok := mergeEffectiveGrants(roleGrants, userGrants)[screen.ID]
	if !ok {
		return false, nil
	}

	switch action {
	case ActionCreate:
		return grant.CanCreate, nil
	case ActionRead:
		return grant.CanRead, nil
	case ActionUpdate:
		return grant.CanUpdate, nil
	default:
		return grant.CanDelete, nil
	}
}

func (s *PermissionService) loadGrants(ctx context.Context, roleID, userID uint64) ([]models.RoleScreenAccess, []models.UserScreenAccess, error) {
	roleGrants, err := s.roleAccessRepo.QueryBuilder().
		Eq("role_id", roleID).
		Find(ctx)
	if err != nil {
		logger.Error(ctx, "Failed to retrieve role grants", zap.Error(err), zap.Uint64("role_id", roleID))
		return nil, nil, errors.Wrap(err, "failed to retrieve role grants")
	}

	userGrants, err := s.userAccessRepo.QueryBuilder().
		Eq("user_id", userID).
		Find(ctx)
	if err != nil {
		logger.Error(ctx, "Failed to retrieve user grants", zap.Error(err), zap.Uint64("user_id", userID))
		return nil, nil, errors.Wrap(err, "failed to retrieve user grants")
	}

	return roleGrants, userGrants, nil
}

// loadUserAndRole 加载用户及其角色，用户或角色不可用时返回业务错误
func (s *PermissionService) loadUserAndRole(ctx context.Context, userID uint64) (*models.User, *models.Role, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, nil, errors.Wrapf(ErrNotFound, "user %d not found", userID)
	}
	if !user.Active {
		return nil, nil, errors.Wrapf(ErrInactive, "user %d is inactive", userID)
	}

	role, err := s.roleRepo.FindByID(ctx, user.RoleID)
	if err != nil {
		return nil, nil, errors.Wrapf(ErrNotFound, "role %d not found", user.RoleID)
	}

	return user, role, nil
}

// --------------------------- 授权替换 ---------------------------

// ReplaceRoleGrants 整体替换角色授权（事务内先删后插）
func (s *PermissionService) ReplaceRoleGrants(ctx context.Context, req *params.SetRoleGrantsRequest) error {
	role, err := s.roleRepo.FindByID(ctx, req.RoleID)
	if err != nil {
		return errors.Wrapf(ErrNotFound, "role %d not found", req.RoleID)
	}
	if role.IsSystemAdmin() {
		// 管理员角色不走授权表
		return errors.Wrap(ErrForbidden, "cannot modify grants of the system admin role")
	}

	if err := s.validateGrantRows(ctx, req.Grants); err != nil {
		return err
	}

	rows := lo.Map(req.Grants, func(g params.GrantRow, _ int) models.RoleScreenAccess {
		return models.RoleScreenAccess{
			RoleID:    req.RoleID,
			ScreenID:  g.ScreenID,
			CanCreate: g.CanCreate,
			CanRead:   g.CanRead,
			CanUpdate: g.CanUpdate,
			CanDelete: g.CanDelete,
		}
	})

	_, err = s.roleAccessRepo.Transaction(ctx, func(txCtx context.Context) (any, error) {
		if err := s.roleAccessRepo.QueryBuilder().
			Eq("role_id", req.RoleID).
			Delete(txCtx); err != nil {
			return nil, errors.Wrap(err, "failed to delete role grants")
		}
		if len(rows) > 0 {
			if err := s.roleAccessRepo.BatchCreate(txCtx, rows); err != nil {
				return nil, errors.Wrap(err, "failed to create role grants")
			}
		}
		return nil, nil
	})
	if err != nil {
		logger.Error(ctx, "Failed to replace role grants", zap.Error(err), zap.Uint64("role_id", req.RoleID))
		return err
	}

	logger.Info(ctx, "Role grants replaced",
		zap.Uint64("role_id", req.RoleID), zap.Int("grant_count", len(rows)))
	return nil
}

// ReplaceUserGrants 整体替换用户直接授权
// actorID为发起操作的用户，跨公司操作仅系统管理员允许
func (s *PermissionService) ReplaceUserGrants(ctx context.Context, actorID uint64, req *params.SetUserGrantsRequest) error {
	target, err := s.userRepo.FindByID(ctx, req.UserID)
	if err != nil {
		return errors.Wrapf(ErrNotFound, "user %d not found", req.UserID)
	}

	if err := s.checkSameCompany(ctx, actorID, target); err != nil {
		return err
	}

	if err := s.validateGrantRows(ctx, req.Grants); err != nil {
		return err
	}

	rows := lo.Map(req.Grants, func(g params.GrantRow, _ int) models.UserScreenAccess {
		return models.UserScreenAccess{
			UserID:    req.UserID,
			ScreenID:  g.ScreenID,
			CanCreate: g.CanCreate,
			CanRead:   g.CanRead,
			CanUpdate: g.CanUpdate,
			CanDelete: g.CanDelete,
		}
	})

	_, err = s.userAccessRepo.Transaction(ctx, func(txCtx context.Context) (any, error) {
		if err := s.userAccessRepo.QueryBuilder().
			Eq("user_id", req.UserID).
			Delete(txCtx); err != nil {
			return nil, errors.Wrap(err, "failed to delete user grants")
		}
		if len(rows) > 0 {
			if err := s.userAccessRepo.BatchCreate(txCtx, rows); err != nil {
				return nil, errors.Wrap(err, "failed to create user grants")
			}
		}
		return nil, nil
	})
	if err != nil {
		logger.Error(ctx, "Failed to replace user grants", zap.Error(err), zap.Uint64("user_id", req.UserID))
		return err
	}

	logger.Info(ctx, "User grants replaced",
		zap.Uint64("user_id", req.UserID), zap.Int("grant_count", len(rows)))
	return nil
}

// ReplaceUserBranchAccess 整体替换用户分支机构访问
// 所有分支必须属于目标用户所在公司
func (s *PermissionService) ReplaceUserBranchAccess(ctx context.Context, actorID uint64, req *params.SetUserBranchesRequest) error {
	target, err := s.userRepo.FindByID(ctx, req.UserID)
	if err != nil {
		return errors.Wrapf(ErrNotFound, "user %d not found", req.UserID)
	}

	if err := s.checkSameCompany(ctx, actorID, target); err != nil {
		return err
	}

	if err := s.checkBranchesInCompany(ctx, target.CompanyID, req.BranchIDs); err != nil {
		return err
	}

	_, err = s.userBranchRepo.Transaction(ctx, func(txCtx context.Context) (any, error) {
		return nil, s.replaceUserBranchRows(txCtx, req.UserID, req.BranchIDs)
	})
	if err != nil {
		logger.Error(ctx, "Failed to replace user branch access", zap.Error(err), zap.Uint64("user_id", req.UserID))
		return err
	}

	logger.Info(ctx, "User branch access replaced",
		zap.Uint64("user_id", req.UserID), zap.Int("branch_count", len(req.BranchIDs)))
	return nil
}

// checkBranchesInCompany 校验分支ID不重复且全部属于指定公司
func (s *PermissionService) checkBranchesInCompany(ctx context.Context, companyID uint64, branchIDs []uint64) error {
	uniqueIDs := lo.Uniq(branchIDs)
	if len(uniqueIDs) != len(branchIDs) {
		return errors.Wrap(ErrValidation, "duplicate branch id in request")
	}
	if len(uniqueIDs) == 0 {
		return nil
	}

	count, err := s.branchRepo.QueryBuilder().
		In("id", uniqueIDs).
		Eq("company_id", companyID).
		Count(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to validate branches")
	}
	if count != int64(len(uniqueIDs)) {
		return errors.Wrap(ErrForbidden, "branch outside of target user company")
	}
	return nil
}

// replaceUserBranchRows 删除旧行并写入新行，在调用方事务内执行
func (s *PermissionService) replaceUserBranchRows(ctx context.Context, userID uint64, branchIDs []uint64) error {
	if err := s.userBranchRepo.QueryBuilder().
		Eq("user_id", userID).
		Delete(ctx); err != nil {
		return errors.Wrap(err, "failed to delete user branch access")
	}
	if len(branchIDs) == 0 {
		return nil
	}

	rows := lo.Map(branchIDs, func(branchID uint64, _ int) models.UserBranchAccess {
		return models.UserBranchAccess{
			UserID:   userID,
			BranchID: branchID,
		}
	})
	if err := s.userBranchRepo.BatchCreate(ctx, rows); err != nil {
		return errors.Wrap(err, "failed to create user branch access")
	}
	return nil
}

// validateGrantRows 校验授权行：屏幕ID不重复且全部存在
func (s *PermissionService) validateGrantRows(ctx context.Context, grants []params.GrantRow) error {
	if len(grants) == 0 {
		return nil
	}

	screenIDs := lo.Map(grants, func(g params.GrantRow, _ int) uint64 {
		return g.ScreenID
	})
	uniqueIDs := lo.Uniq(screenIDs)
	if len(uniqueIDs) != len(screenIDs) {
		return errors.Wrap(ErrValidation, "duplicate screen id in request")
	}

	count, err := s.screenRepo.QueryBuilder().
		In("id", uniqueIDs).
		Count(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to validate screens")
	}
	if count != int64(len(uniqueIDs)) {
		return errors.Wrap(ErrValidation, "unknown screen id in request")
	}
	return nil
}

// checkSameCompany 校验操作者与目标用户同属一个公司，系统管理员不受限
func (s *PermissionService) checkSameCompany(ctx context.Context, actorID uint64, target *models.User) error {
	if actorID == 0 {
		return nil
	}

	actor, actorRole, err := s.loadUserAndRole(ctx, actorID)
	if err != nil {
		return err
	}
	if actorRole.IsSystemAdmin() {
		return nil
	}
	if actor.CompanyID != target.CompanyID {
		return errors.Wrap(ErrForbidden, "target user belongs to another company")
	}
	return nil
}

// --------------------------- 授权查询 ---------------------------

// GetRoleGrants 获取角色授权列表
func (s *PermissionService) GetRoleGrants(ctx context.Context, roleID uint64) ([]vo.GrantItem, error) {
	if _, err := s.roleRepo.FindByID(ctx, roleID); err != nil {
		return nil, errors.Wrapf(ErrNotFound, "role %d not found", roleID)
	}

	grants, err := s.roleAccessRepo.QueryBuilder().
		Eq("role_id", roleID).
		Find(ctx)
	if err != nil {
		logger.Error(ctx, "Failed to retrieve role grants", zap.Error(err), zap.Uint64("role_id", roleID))
		return nil, errors.Wrap(err, "failed to retrieve role grants")
	}

	return lo.Map(grants, func(g models.RoleScreenAccess, _ int) vo.GrantItem {
		return vo.GrantItem{
			ScreenID:  g.ScreenID,
			CanCreate: g.CanCreate,
			CanRead:   g.CanRead,
			CanUpdate: g.CanUpdate,
			CanDelete: g.CanDelete,
		}
	}), nil
}

// GetUserGrants 获取用户直接授权列表
func (s *PermissionService) GetUserGrants(ctx context.Context, userID uint64) ([]vo.GrantItem, error) {
	grants, err := s.userAccessRepo.QueryBuilder().
		Eq("user_id", userID).
		Find(ctx)
	if err != nil {
		logger.Error(ctx, "Failed to retrieve user grants", zap.Error(err), zap.Uint64("user_id", userID))
		return nil, errors.Wrap(err, "failed to retrieve user grants")
	}

	return lo.Map(grants, func(g models.UserScreenAccess, _ int) vo.GrantItem {
		return vo.GrantItem{
			ScreenID:  g.ScreenID,
			CanCreate: g.CanCreate,
			CanRead:   g.CanRead,
			CanUpdate: g.CanUpdate,
			CanDelete: g.CanDelete,
		}
	}), nil
}

// GetUserBranchIDs 获取用户分支机构授权ID列表
func (s *PermissionService) GetUserBranchIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	accessList, err := s.userBranchRepo.QueryBuilder().
		Eq("user_id", userID).
		Find(ctx)
	if err != nil {
		logger.Error(ctx, "Failed to retrieve user branch access", zap.Error(err), zap.Uint64("user_id", userID))
		return nil, errors.Wrap(err, "failed to retrieve user branch access")
	}

	return lo.Map(accessList, func(a models.UserBranchAccess, _ int) uint64 {
		return a.BranchID
	}), nil
}

// --------------------------- 角色管理 ---------------------------

// CreateRole 创建角色（事务内创建角色并写入授权）
func (s *PermissionService) CreateRole(ctx context.Context, req *params.CreateRoleRequest) (*vo.Role, error) {
	if err := s.validateGrantRows(ctx, req.Grants); err != nil {
		return nil, err
	}

	var role models.Role
	if err := copier.Copy(&role, &req); err != nil {
		return nil, errors.Wrap(err, "failed to copy request to role")
	}

	_, err := s.roleRepo.Transaction(ctx, func(txCtx context.Context) (any, error) {
		if err := s.roleRepo.Create(txCtx, &role); err != nil {
			logger.Error(txCtx, "Failed to create role", zap.Error(err))
			return nil, errors.Wrap(err, "failed to create role")
		}

		if len(req.Grants) > 0 {
			rows := lo.Map(req.Grants, func(g params.GrantRow, _ int) models.RoleScreenAccess {
				return models.RoleScreenAccess{
					RoleID:    role.ID,
					ScreenID:  g.ScreenID,
					CanCreate: g.CanCreate,
					CanRead:   g.CanRead,
					CanUpdate: g.CanUpdate,
					CanDelete: g.CanDelete,
				}
			})
			if err := s.roleAccessRepo.BatchCreate(txCtx, rows); err != nil {
				return nil, errors.Wrap(err, "failed to create role grants")
			}
		}
		return nil, nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetRole(ctx, role.ID)
}

// UpdateRole 更新角色，Grants非空时整体替换授权
func (s *PermissionService) UpdateRole(ctx context.Context, req *params.UpdateRoleRequest) (*vo.Role, error) {
	role, err := s.roleRepo.FindByID(ctx, req.ID)
	if err != nil {
		return nil, errors.Wrapf(ErrNotFound, "role %d not found", req.ID)
	}
	if role.IsSystemAdmin() && req.Name != "" && req.Name != role.Name {
		return nil, errors.Wrap(ErrForbidden, "cannot rename the system admin role")
	}

	if err := copier.CopyWithOption(&role, &req, copier.Option{IgnoreEmpty: true}); err != nil {
		return nil, errors.Wrap(err, "failed to copy request to role")
	}
	if req.CanSeeAllBranches != nil {
		role.CanSeeAllBranches = *req.CanSeeAllBranches
	}

	if err := s.roleRepo.Update(ctx, role); err != nil {
		logger.Error(ctx, "Failed to update role", zap.Error(err), zap.Uint64("role_id", req.ID))
		return nil, errors.Wrap(err, "failed to update role")
	}

	if req.Grants != nil {
		if err := s.ReplaceRoleGrants(ctx, &params.SetRoleGrantsRequest{
			RoleID: role.ID,
			Grants: *req.Grants,
		}); err != nil {
			return nil, err
		}
	}

	return s.GetRole(ctx, role.ID)
}

func (s *PermissionService) DeleteRoleBatch(ctx context.Context, ids []uint64) error {
	var errs multierror.Error
	for _, id := range ids {
		if err := s.DeleteRole(ctx, id); err != nil {
			errs.Errors = append(errs.Errors, err)
		}
	}
	return errs.ErrorOrNil()
}

// DeleteRole 删除角色，角色仍被用户引用时拒绝
func (s *PermissionService) DeleteRole(ctx context.Context, id uint64) error {
	role, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		return errors.Wrapf(ErrNotFound, "role %d not found", id)
	}
	if role.IsSystemAdmin() {
		return errors.Wrap(ErrForbidden, "cannot delete the system admin role")
	}

	userCount, err := s.userRepo.QueryBuilder().
		Eq("role_id", id).
		Count(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to count role users")
	}
	if userCount > 0 {
		return errors.Wrapf(ErrConflict, "role %d is still assigned to %d users", id, userCount)
	}

	// 事务处理：先删除角色授权，再删除角色
	_, err = s.roleRepo.Transaction(ctx, func(txCtx context.Context) (any, error) {
		if err := s.roleAccessRepo.QueryBuilder().
			Eq("role_id", id).
			Delete(txCtx); err != nil {
			return nil, errors.Wrap(err, "failed to delete role grants")
		}
		if err := s.roleRepo.DeleteByID(txCtx, id); err != nil {
			return nil, errors.Wrap(err, "failed to delete role")
		}
		return nil, nil
	})
	return err
}

// GetRole 获取单个角色（含授权）
func (s *PermissionService) GetRole(ctx context.Context, id uint64) (*vo.Role, error) {
	role, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(ErrNotFound, "role %d not found", id)
	}

	var result vo.Role
	if err := copier.Copy(&result, &role); err != nil {
		return nil, errors.Wrap(err, "failed to copy role to result")
	}

	grants, err := s.GetRoleGrants(ctx, id)
	if err != nil {
		return nil, err
	}
	result.Grants = grants

	return &result, nil
}

// GetRoleList 获取角色列表
func (s *PermissionService) GetRoleList(ctx context.Context, req *params.GetRoleListRequest) ([]vo.Role, int64, error) {
	roles, total, err := s.roleRepo.FindPage(ctx, req, req.Limit, req.Offset)
	if err != nil {
		logger.Error(ctx, "Failed to retrieve roles", zap.Error(err))
		return nil, 0, errors.Wrap(err, "failed to retrieve roles")
	}

	var result []vo.Role
	if err := copier.Copy(&result, &roles); err != nil {
		return nil, 0, errors.Wrap(err, "failed to copy roles to result")
	}

	searchFlag := params.NewResponseFlags(req.Flags)
	if !searchFlag.Has(params.INCLUDE_GRANTS) {
		return result, total, nil
	}

	for i, role := range roles {
		grants, err := s.GetRoleGrants(ctx, role.ID)
		if err != nil {
			return nil, 0, err
		}
		result[i].Grants = grants
	}

	return result, total, nil
}
