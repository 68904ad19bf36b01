package models

// HelperFailure 是辅助进程写入状态管道的失败信息，通过 JSON 格式在进程间传递。
// exec 成功时管道被 CLOEXEC 关闭，父进程读到空内容。
type HelperFailure struct {
	// Stage 是失败的阶段: "limits" 或 "exec"
	Stage string `json:"stage"`
	Error string `json:"error"`
}

// CaseReport 存储单个测试点的评测结果。
type CaseReport struct {
	Name     string `json:"name"`
	Result   string `json:"result,omitempty"`
	Time     int64  `json:"time_ms"`
	CPUTime  int64  `json:"cpu_ms"`
	ExitCode int    `json:"exit_code"`
	Signal   string `json:"signal,omitempty"`
	// JudgeError 非空时 Result 为空
	JudgeError string `json:"judge_error,omitempty"`
}

// TotalResults 聚合所有测试点的结果。
type TotalResults struct {
	RunID       string         `json:"run_id"`
	Solution    string         `json:"solution"`
	Cases       []CaseReport   `json:"cases"`
	Good        int            `json:"good"`
	Incorrect   map[string]int `json:"incorrect"`
	JudgeErrors int            `json:"judge_errors"`
	Total       int            `json:"total"`
}

// ValidationReport 存储单个文件的校验失败信息。
type ValidationReport struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// ValidationResults 聚合校验结果。
type ValidationResults struct {
	Validator string             `json:"validator"`
	Failures  []ValidationReport `json:"failures"`
	Good      int                `json:"good"`
	Errors    int                `json:"errors"`
}
