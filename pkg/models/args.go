package models

// EvalArgs 是 eval 子命令的参数
type EvalArgs struct {
	In     string
	Out    string
	Time   float64
	Memory uint64
	Loose  bool
	JSON   bool
}

// ValidateArgs 是 validate 子命令的参数
type ValidateArgs struct {
	Filter string
	JSON   bool
}

// SanitizeArgs 是 sanitize 子命令的参数
type SanitizeArgs struct {
	Exts      []string
	Confirmed bool
}

// HelperArgs 是 limit-exec 辅助进程的命令行参数
type HelperArgs struct {
	TimeSec  float64
	MemoryMB uint64
	Target   []string
}
