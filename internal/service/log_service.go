package service

import (
	"context"
	"time"

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

// 默认登录统计窗口（天）
const defaultStatsWindowDays = 30

// LogService 审计日志服务 - 负责登录/操作日志的记录、查询、统计与清理
type LogService struct {
	loginLogRepo  repository.Repository[models.LoginLog]
	actionLogRepo repository.Repository[models.ActionLog]
}

// NewLogService 创建日志服务实例
func NewLogService() *LogService {
	return &LogService{
		loginLogRepo:  dao.LoginLogRepo,
		actionLogRepo: dao.ActionLogRepo,
	}
}

// RecordLogin 记录登录尝试，写入失败不阻断登录流程
func (s *LogService) RecordLogin(ctx context.Context, userID uint64, attempt *LoginAttempt, success bool) {
	entry := &models.LoginLog{
		UserID:         userID,
		AttemptedEmail: attempt.Email,
		IP:             attempt.IP,
		UserAgent:      attempt.UserAgent,
		Success:        success,
	}
	if err := s.loginLogRepo.Create(ctx, entry); err != nil {
		logger.Error(ctx, "Failed to record login log", zap.Error(err), zap.String("email", attempt.Email))
	}
}

// RecordAction 记录管理操作，写入失败不阻断业务流程
func (s *LogService) RecordAction(ctx context.Context, userID uint64, action, details, ip string) {
	entry := &models.ActionLog{
		UserID:  userID,
		Action:  action,
		Details: details,
		IP:      ip,
	}
	if err := s.actionLogRepo.Create(ctx, entry); err != nil {
		logger.Error(ctx, "Failed to record action log", zap.Error(err), zap.String("action", action))
	}
}

// GetLoginLogList 获取登录日志列表
func (s *LogService) GetLoginLogList(ctx context.Context, req *params.GetLoginLogListRequest) ([]vo.LoginLog, int64, error) {
	logs, total, err := s.loginLogRepo.FindPage(ctx, req, req.Limit, req.Offset)
	if err != nil {
		logger.Error(ctx, "Failed to retrieve login logs", zap.Error(err))
		return nil, 0, errors.Wrap(err, "failed to retrieve login logs")
	}

	var result []vo.LoginLog
	if err := copier.Copy(&result, &logs); err != nil {
		return nil, 0, errors.Wrap(err, "failed to copy login logs to result")
	}
	return result, total, nil
}

// GetActionLogList 获取操作日志列表
func (s *LogService) GetActionLogList(ctx context.Context, req *params.GetActionLogListRequest) ([]vo.ActionLog, int64, error) {
	logs, total, err := s.actionLogRepo.FindPage(ctx, req, req.Limit, req.Offset)
	if err != nil {
		logger.Error(ctx, "Failed to retrieve action logs", zap.Error(err))
		return nil, 0, errors.Wrap(err, "failed to retrieve action logs")
	}

	var result []vo.ActionLog
	if err := copier.Copy(&result, &logs); err != nil {
		return nil, 0, errors.Wrap(err, "failed to copy action logs to result")
	}
	return result, total, nil
}

// GetLoginStats 获取按日登录统计（原生SQL聚合）
func (s *LogService) GetLoginStats(ctx context.Context, days int) ([]vo.LoginStat, error) {
	if days <= 0 {
		days = defaultStatsWindowDays
	}
	since := time.Now().AddDate(0, 0, -days)

	query := `
	SELECT DATE_FORMAT(create_time, '%Y-%m-%d') AS day,
	       SUM(CASE WHEN success = 1 THEN 1 ELSE 0 END) AS success_count,
	       SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END) AS failure_count
	FROM login_log
	WHERE create_time >= ?
	GROUP BY day
	ORDER BY day DESC
	`

	rows, err := s.loginLogRepo.QueryRows(ctx, query, since)
	if err != nil {
		logger.Error(ctx, "Failed to query login stats", zap.Error(err))
		return nil, errors.Wrap(err, "failed to query login stats")
	}

	stats := make([]vo.LoginStat, 0, len(rows))
	for _, row := range rows {
		var stat vo.LoginStat
		if err := repository.MapToStruct(row, &stat); err != nil {
			return nil, errors.Wrap(err, "failed to map login stat row")
		}
		stats = append(stats, stat)
	}
	return stats, nil
}

// PurgeExpired 清理保留期之外的审计日志，返回删除行数
func (s *LogService) PurgeExpired(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, errors.Wrap(ErrValidation, "retention days must be positive")
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	var errs *multierror.Error
	var purged int64

	if affected, err := s.loginLogRepo.Exec(ctx,
		"DELETE FROM login_log WHERE create_time < ?", cutoff); err != nil {
		errs = multierror.Append(errs, errors.Wrap(err, "failed to purge login logs"))
	} else {
		purged += affected
	}

	if affected, err := s.actionLogRepo.Exec(ctx,
		"DELETE FROM action_log WHERE create_time < ?", cutoff); err != nil {
		errs = multierror.Append(errs, errors.Wrap(err, "failed to purge action logs"))
	} else {
		purged += affected
	}

	if err := errs.ErrorOrNil(); err != nil {
		return purged, err
	}

	logger.Info(ctx, "Audit logs purged",
		zap.Int64("purged", purged), zap.Int("retention_days", retentionDays))
	return purged, nil
}
