package game

import (
	"log"

	"github.com/decker502/posetween/pkg/config"
	"github.com/quasilyte/gdata/v2"
)

// OpenStorage 按配置打开 gdata 存储
//
// 存储被禁用或打开失败时返回 nil，调用方进入降级模式（仅内存）。
func OpenStorage(cfg config.StorageConfig) *gdata.Manager {
	if cfg.Disabled {
		log.Printf("[Storage] Persistence disabled, using in-memory state")
		return nil
	}

	manager, err := gdata.Open(gdata.Config{
		AppName: cfg.AppName,
	})
	if err != nil {
		log.Printf("[Storage] Warning: Failed to open gdata storage for '%s': %v (using in-memory state)", cfg.AppName, err)
		return nil
	}
	return manager
}
