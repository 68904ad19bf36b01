package constants

import "time"

// limit-exec 辅助进程的退出码，与 env(1)/sh(1) 的约定保持一致
const (
	ExitUsage        = 125 // 参数错误
	ExitLimitFailure = 124 // setrlimit 失败，目标程序没有被执行
	ExitExecFailure  = 126 // exec 失败
	ExitNotFound     = 127 // 目标程序不存在
)

// 状态管道固定在子进程的 fd 3 (ExtraFiles[0])
const StatusFD = 3

const (
	DefaultTimeLimit = 1.0  // 秒
	MaxMemoryMB      = 4096 // CLI 允许的最大内存限制 (MB)
	MiB              = 1 << 20

	// 子进程退出后，等待 stdout 读端排空的时间
	DrainGrace = 500 * time.Millisecond
	// exec.Cmd.WaitDelay
	WaitDelay = 200 * time.Millisecond
)

const (
	DefaultInputFilter  = "input"
	DefaultOutputFilter = "output"
	DefaultValidateExpr = ".*"
)
