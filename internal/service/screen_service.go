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

// ScreenService 屏幕注册表服务
type ScreenService struct {
	screenRepo     repository.Repository[models.Screen]
	roleAccessRepo repository.Repository[models.RoleScreenAccess]
	userAccessRepo repository.Repository[models.UserScreenAccess]
}

// NewScreenService 创建屏幕服务实例
func NewScreenService() *ScreenService {
	return &ScreenService{
		screenRepo:     dao.ScreenRepo,
		roleAccessRepo: dao.RoleScreenAccessRepo,
		userAccessRepo: dao.UserScreenAccessRepo,
	}
}

// CreateScreen 创建屏幕
func (s *ScreenService) CreateScreen(ctx context.Context, req *params.CreateScreenRequest) (*vo.Screen, error) {
	if err := s.checkKeyUnique(ctx, req.Key, 0); err != nil {
		return nil, err
	}
	if req.ParentID != 0 {
		if err := s.checkParent(ctx, req.ParentID, 0); err != nil {
			return nil, err
		}
	}

	var screen models.Screen
	if err := copier.Copy(&screen, &req); err != nil {
		return nil, errors.Wrap(err, "failed to copy request to screen")
	}

	if err := s.screenRepo.Create(ctx, &screen); err != nil {
		logger.Error(ctx, "Failed to create screen", zap.Error(err))
		return nil, errors.Wrap(err, "failed to create screen")
	}

	logger.Info(ctx, "Screen created",
		zap.Uint64("screen_id", screen.ID), zap.String("key", screen.Key))

	var result vo.Screen
	if err := copier.Copy(&result, &screen); err != nil {
		return nil, errors.Wrap(err, "failed to copy screen to result")
	}
	return &result, nil
}

// UpdateScreen 更新屏幕
func (s *ScreenService) UpdateScreen(ctx context.Context, req *params.UpdateScreenRequest) (*vo.Screen, error) {
	screen, err := s.screenRepo.FindByID(ctx, req.ID)
	if err != nil {
		return nil, errors.Wrapf(ErrNotFound, "screen %d not found", req.ID)
	}

	if req.Key != "" && req.Key != screen.Key {
		if err := s.checkKeyUnique(ctx, req.Key, req.ID); err != nil {
			return nil, err
		}
	}
	if req.ParentID != nil && *req.ParentID != 0 {
		if err := s.checkParent(ctx, *req.ParentID, req.ID); err != nil {
			return nil, err
		}
	}

	if err := copier.CopyWithOption(&screen, &req, copier.Option{IgnoreEmpty: true}); err != nil {
		return nil, errors.Wrap(err, "failed to copy request to screen")
	}
	if req.ParentID != nil {
		screen.ParentID = *req.ParentID
	}
	if req.Order != nil {
		screen.Order = *req.Order
	}
	if req.Active != nil {
		screen.Active = *req.Active
	}

	if err := s.screenRepo.Update(ctx, screen); err != nil {
		logger.Error(ctx, "Failed to update screen", zap.Error(err), zap.Uint64("screen_id", req.ID))
		return nil, errors.Wrap(err, "failed to update screen")
	}

	var result vo.Screen
	if err := copier.Copy(&result, &screen); err != nil {
		return nil, errors.Wrap(err, "failed to copy screen to result")
	}
	return &result, nil
}

// DeleteScreenBatch 批量删除屏幕
func (s *ScreenService) DeleteScreenBatch(ctx context.Context, ids []uint64) error {
	var errs multierror.Error
	for _, id := range ids {
		if err := s.DeleteScreen(ctx, id); err != nil {
			errs = *multierror.Append(&errs, err)
		}
	}
	return errs.ErrorOrNil()
}

// DeleteScreen 删除屏幕，存在子屏幕时拒绝；关联授权在事务内一并清除
func (s *ScreenService) DeleteScreen(ctx context.Context, id uint64) error {
	if _, err := s.screenRepo.FindByID(ctx, id); err != nil {
		return errors.Wrapf(ErrNotFound, "screen %d not found", id)
	}

	childCount, err := s.screenRepo.QueryBuilder().
		Eq("parent_id", id).
		Count(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to count child screens")
	}
	if childCount > 0 {
		return errors.Wrapf(ErrConflict, "screen %d still has %d child screens", id, childCount)
	}

	_, err = s.screenRepo.Transaction(ctx, func(txCtx context.Context) (any, error) {
		if err := s.roleAccessRepo.QueryBuilder().
			Eq("screen_id", id).
			Delete(txCtx); err != nil {
			return nil, errors.Wrap(err, "failed to delete role grants of screen")
		}
		if err := s.userAccessRepo.QueryBuilder().
			Eq("screen_id", id).
			Delete(txCtx); err != nil {
			return nil, errors.Wrap(err, "failed to delete user grants of screen")
		}
		if err := s.screenRepo.DeleteByID(txCtx, id); err != nil {
			return nil, errors.Wrap(err, "failed to delete screen")
		}
		return nil, nil
	})
	if err != nil {
		logger.Error(ctx, "Failed to delete screen", zap.Error(err), zap.Uint64("screen_id", id))
	}
	return err
}

// GetScreen 获取单个屏幕
func (s *ScreenService) GetScreen(ctx context.Context, id uint64) (*vo.Screen, error) {
	screen, err := s.screenRepo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(ErrNotFound, "screen %d not found", id)
	}

	var result vo.Screen
	if err := copier.Copy(&result, &screen); err != nil {
		return nil, errors.Wrap(err, "failed to copy screen to result")
	}
	return &result, nil
}

// GetScreenList 获取屏幕列表（平铺，含停用屏幕）
func (s *ScreenService) GetScreenList(ctx context.Context, req *params.GetScreenListRequest) ([]vo.Screen, int64, error) {
	screens, total, err := s.screenRepo.FindPage(ctx, req, req.Limit, req.Offset)
	if err != nil {
		logger.Error(ctx, "Failed to retrieve screens", zap.Error(err))
		return nil, 0, errors.Wrap(err, "failed to retrieve screens")
	}

	var result []vo.Screen
	if err := copier.Copy(&result, &screens); err != nil {
		return nil, 0, errors.Wrap(err, "failed to copy screens to result")
	}
	return result, total, nil
}

// checkParent 校验父屏幕：必须存在且启用，且祖先链不得包含selfID（避免成环）
// selfID为0表示新建屏幕，无需做环检测
func (s *ScreenService) checkParent(ctx context.Context, parentID, selfID uint64) error {
	if selfID != 0 && parentID == selfID {
		return errors.Wrap(ErrValidation, "screen cannot be its own parent")
	}

	parent, err := s.screenRepo.FindByID(ctx, parentID)
	if err != nil {
		return errors.Wrapf(ErrValidation, "parent screen %d not found", parentID)
	}
	if !parent.Active {
		return errors.Wrapf(ErrValidation, "parent screen %d is inactive", parentID)
	}

	if selfID == 0 {
		return nil
	}
	visited := map[uint64]bool{parentID: true}
	for current := parent; current.ParentID != 0; {
		if current.ParentID == selfID {
			return errors.Wrapf(ErrValidation, "screen %d is a descendant of screen %d", parentID, selfID)
		}
		if visited[current.ParentID] {
			break
		}
		visited[current.ParentID] = true

		ancestor, err := s.screenRepo.FindByID(ctx, current.ParentID)
		if err != nil {
			break
		}
		current = ancestor
	}
	return nil
}

// checkKeyUnique 检查屏幕标识是否唯一
func (s *ScreenService) checkKeyUnique(ctx context.Context, key string, excludeID uint64) error {
	query := s.screenRepo.QueryBuilder().Eq("key", key)
	if excludeID > 0 {
		query = query.Ne("id", excludeID)
	}

	count, err := query.Count(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to check screen key uniqueness")
	}
	if count > 0 {
		return errors.Wrapf(ErrConflict, "screen key %q already exists", key)
	}
	return nil
}
