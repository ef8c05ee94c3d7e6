package configwatcher

import (
	"context"
	"errors"
	"k12_kg_backend/internal/config"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  mode: debug\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	reloaded := make(chan *config.Config, 4)
	w := New(path, func(cfg *config.Config) { reloaded <- cfg })
	w.Debounce = 20 * time.Millisecond
	w.Load = func(d string) (*config.Config, error) {
		if d != dir {
			t.Errorf("load dir: want=%q got=%q", dir, d)
		}
		return &config.Config{Server: config.ServerConfig{Mode: "release"}}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// 等待 watcher 完成注册
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte("server:\n  mode: release\n"), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.Server.Mode != "release" {
			t.Fatalf("mode: want=release got=%q", cfg.Server.Mode)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("reload: callback not invoked")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: want=nil got=%v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("run: did not stop after cancel")
	}
}

func TestWatcherKeepsOldConfigOnLoadError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("a: 1\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	var loads, callbacks int32
	w := New(path, func(*config.Config) { atomic.AddInt32(&callbacks, 1) })
	w.Debounce = 10 * time.Millisecond
	w.Load = func(string) (*config.Config, error) {
		atomic.AddInt32(&loads, 1)
		return nil, errors.New("broken yaml")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte("a: [\n"), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for atomic.LoadInt32(&loads) == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if atomic.LoadInt32(&loads) == 0 {
		t.Fatalf("load: never attempted")
	}
	if got := atomic.LoadInt32(&callbacks); got != 0 {
		t.Fatalf("callbacks: want=0 got=%d", got)
	}
}

func TestWatcherIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("a: 1\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	var loads int32
	w := New(path, func(*config.Config) {})
	w.Debounce = 10 * time.Millisecond
	w.Load = func(string) (*config.Config, error) {
		atomic.AddInt32(&loads, 1)
		return &config.Config{}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("b: 2\n"), 0o644); err != nil {
		t.Fatalf("write sibling: %v", err)
	}
	time.Sleep(200 * time.Millisecond)
	if got := atomic.LoadInt32(&loads); got != 0 {
		t.Fatalf("loads: want=0 got=%d", got)
	}
}
