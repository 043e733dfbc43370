package cron

import (
	"context"

	"github.com/ayxworxfr/gestao_admin/internal/config"
	"github.com/ayxworxfr/gestao_admin/internal/service"
	"github.com/ayxworxfr/gestao_admin/pkg/logger"
)

// 审计日志清理任务，按配置的保留期删除过期的登录/操作日志
func cleanupAuditLogs() {
	ctx := context.Background()
	retentionDays := config.Get().Audit.RetentionDays

	logger.Info(ctx, "[TASK] Purging expired audit logs...")
	purged, err := service.LogServiceInstance.PurgeExpired(ctx, retentionDays)
	if err != nil {
		logger.Errorf(ctx, "[TASK] Audit log cleanup failed: %v", err)
		return
	}

	logger.Infof(ctx, "[TASK] Audit log cleanup done, purged %d rows", purged)
}
