package configwatcher

import (
	"context"
	"fmt"
	"k12_kg_backend/internal/config"
	"k12_kg_backend/pkg/logger"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

type ConfigReloader func(cfg *config.Config)

// Loader 按目录重新读取配置，默认为 config.LoadConfig
type Loader func(dir string) (*config.Config, error)

// Watcher 监听配置文件所在目录；编辑器常以 rename 方式保存，只监听文件会丢事件
type Watcher struct {
	Path     string
	Debounce time.Duration
	Load     Loader
	OnReload ConfigReloader
}

func New(configPath string, onReload ConfigReloader) *Watcher {
	return &Watcher{
		Path:     configPath,
		Debounce: time.Second,
		Load:     config.LoadConfig,
		OnReload: onReload,
	}
}

// Run 阻塞直到 ctx 结束；加载失败时保留旧配置
func (w *Watcher) Run(ctx context.Context) error {
	absPath, err := filepath.Abs(w.Path)
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create config watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("watch config dir: %w", err)
	}

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	reload := func() {
		newCfg, err := w.Load(filepath.Dir(absPath))
		if err != nil {
			logger.Log.Error("Failed to reload config", zap.Error(err))
			return
		}
		logger.Log.Info("Config reloaded", zap.String("path", absPath))
		w.OnReload(newCfg)
	}
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != absPath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			// 防抖
			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.Debounce, reload)
			mu.Unlock()
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Log.Error("Config watcher error", zap.Error(err))
		}
	}
}
