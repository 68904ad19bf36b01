package rawtext

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// ErrNotText 表示文件中含有非 ASCII 或控制字符
var ErrNotText = errors.New("not a plain ascii text file")

// Status 是单个文件的处理结果
type Status int

const (
	Good    Status = iota // 已经是 LF 结尾的纯文本
	Changed               // 需要（或已经）转换
	Failed
)

// FileResult 存储单个文件的检查结果
type FileResult struct {
	Path   string
	Status Status
	Err    error
}

// Stats 聚合一次 Sanitize 的结果
type Stats struct {
	Good    int
	Changed int
	Errors  int
}

// Options 控制 Sanitize 的行为
type Options struct {
	// Exts 是需要处理的扩展名，不带点，例如 "in"
	Exts mapset.Set[string]
	// Confirmed 为 false 时只检查不修改
	Confirmed bool
	// Report 在每个文件处理完之后调用，可以为 nil
	Report func(FileResult)
}

// NewExtSet 把 "txt,.in, out" 这样的列表转换为集合
func NewExtSet(exts ...string) mapset.Set[string] {
	set := mapset.NewThreadUnsafeSet[string]()
	for _, list := range exts {
		for _, ext := range strings.Split(list, ",") {
			ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
			if ext != "" {
				set.Add(ext)
			}
		}
	}
	return set
}

func isTextByte(b byte) bool {
	return (b >= 32 && b < 127) || b == '\n' || b == '\r' || b == '\t'
}

// CheckFile 检查文件是否已经是规范的文本：只含可打印 ASCII，LF 换行，
// 并且以换行结尾
func CheckFile(path string) (clean bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var (
		cr     bool
		last   byte
		offset int64
	)
	for {
		b, err := r.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return false, err
		}
		if !isTextByte(b) {
			return false, fmt.Errorf("%w: byte 0x%02x at offset %d", ErrNotText, b, offset)
		}
		if b == '\r' {
			cr = true
		}
		last = b
		offset++
	}
	return !cr && last == '\n', nil
}

// Normalize 把 CRLF 和单独的 CR 转换成 LF，并补上结尾的换行
func Normalize(w io.Writer, r io.Reader) error {
	br := bufio.NewReader(r)
	bw := bufio.NewWriter(w)

	var last byte
	for {
		b, err := br.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		switch {
		case last == '\r' && b == '\n':
		case b == '\r':
			bw.WriteByte('\n')
		default:
			bw.WriteByte(b)
		}
		last = b
	}
	if last != '\r' && last != '\n' {
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// rewrite 通过临时文件 + rename 原子地替换文件内容
func rewrite(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := Normalize(tmp, src); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(fi.Mode().Perm()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// SanitizeFile 检查单个文件，confirmed 时转换它
func SanitizeFile(path string, confirmed bool) (Status, error) {
	clean, err := CheckFile(path)
	if err != nil {
		return Failed, err
	}
	if clean {
		return Good, nil
	}
	if confirmed {
		if err := rewrite(path); err != nil {
			return Failed, fmt.Errorf("rewrite: %w", err)
		}
	}
	return Changed, nil
}

// Sanitize 遍历 root 下扩展名在 opts.Exts 中的文件
func Sanitize(root string, opts Options) (Stats, error) {
	var stats Stats
	report := func(res FileResult) {
		switch res.Status {
		case Good:
			stats.Good++
		case Changed:
			stats.Changed++
		default:
			stats.Errors++
		}
		if opts.Report != nil {
			opts.Report(res)
		}
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d == nil {
				return err
			}
			report(FileResult{Path: path, Status: Failed, Err: err})
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		ext := strings.TrimPrefix(filepath.Ext(path), ".")
		if ext == "" || !opts.Exts.Contains(ext) {
			return nil
		}

		status, err := SanitizeFile(path, opts.Confirmed)
		if err != nil {
			slog.Debug("sanitize failed", "path", path, "err", err)
		}
		report(FileResult{Path: path, Status: status, Err: err})
		return nil
	})
	return stats, err
}
