// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jeranaias/tatvax-tui/internal/config"
)

var (
	globalMu     sync.RWMutex
	globalLogger = zap.NewNop()
	globalLevel  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	globalClose  func() error
)

// ParseLevel maps a config level name onto a zap level. Unknown names are
// treated as info.
func ParseLevel(name string) zapcore.Level {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(name)))); err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// New builds a JSON logger that appends to cfg.File (default
// ~/.tatvax/tatvax.log). The returned close function syncs and closes the
// file. level controls filtering and may be changed later.
func New(cfg config.LogConfig, level zap.AtomicLevel) (*zap.Logger, func() error, error) {
	path := cfg.File
	if path == "" {
		p, err := config.DefaultLogPath()
		if err != nil {
			return nil, nil, err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	level.SetLevel(ParseLevel(cfg.Level))

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(f), level)

	logger := zap.New(core, zap.AddCaller(), zap.ErrorOutput(zapcore.AddSync(f)))
	closeFn := func() error {
		_ = logger.Sync()
		return f.Close()
	}
	return logger, closeFn, nil
}

// Init builds the process logger from cfg and installs it as L().
func Init(cfg config.LogConfig) error {
	logger, closeFn, err := New(cfg, globalLevel)
	if err != nil {
		return err
	}
	globalMu.Lock()
	prevClose := globalClose
	globalLogger = logger.With(zap.Int("pid", os.Getpid()))
	globalClose = closeFn
	globalMu.Unlock()

	if prevClose != nil {
		_ = prevClose()
	}
	return nil
}

// L returns the process logger. It is a no-op logger until Init succeeds.
func L() *zap.Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// SetLevel changes the level of the process logger in place.
func SetLevel(name string) {
	globalLevel.SetLevel(ParseLevel(name))
}

// Level returns the current level of the process logger.
func Level() zapcore.Level {
	return globalLevel.Level()
}

// Close flushes and closes the process log file and restores the no-op logger.
func Close() error {
	globalMu.Lock()
	closeFn := globalClose
	globalClose = nil
	globalLogger = zap.NewNop()
	globalMu.Unlock()

	if closeFn == nil {
		return nil
	}
	return closeFn()
}
