package cmd

import (
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/lmittmann/tint"
)

// 全局 logger，只会初始化一次
var (
	globalLogger *slog.Logger
	once         sync.Once
)

// Init 初始化全局 slog Logger
// 输出到 stderr（stdout 留给评测结果），如果在 systemd 下自动去掉时间戳
func Init(level string) *slog.Logger {
	once.Do(func() {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			lvl = slog.LevelInfo
		}

		opts := &tint.Options{
			Level:      lvl,
			TimeFormat: time.TimeOnly,
			NoColor:    color.NoColor,
		}
		if isRunningUnderSystemd() {
			// 去掉时间字段
			opts.NoColor = true
			opts.ReplaceAttr = removeTimeAttr
		}

		globalLogger = slog.New(tint.NewHandler(os.Stderr, opts))
		// 设置为全局默认 logger
		slog.SetDefault(globalLogger)
	})

	return globalLogger
}

// 判断是否在 systemd 下运行
func isRunningUnderSystemd() bool {
	_, ok := os.LookupEnv("INVOCATION_ID")
	return ok
}

// removeTimeAttr 用于删除时间字段
func removeTimeAttr(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey && len(groups) == 0 {
		return slog.Attr{} // 删除时间字段
	}
	return a
}
