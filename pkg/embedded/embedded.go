// Package embedded 提供嵌入数据文件的统一访问接口
//
// 由于 Go embed 指令只能嵌入当前包目录及其子目录的文件，
// embed.FS 变量必须声明在项目根目录（embed.go）。
// 本包提供包装函数，让其他包可以访问嵌入的关卡和参数文件。
//
// 未调用 Init() 时，ReadFile 回退到操作系统文件系统，
// 方便测试和命令行工具直接读取磁盘上的配置。
package embedded

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var (
	dataFS      fs.FS
	initialized bool
)

// Init 注册数据文件系统
// 必须在 main() 开始时、任何配置加载之前调用
func Init(data fs.FS) {
	dataFS = data
	initialized = data != nil
}

// IsInitialized 返回 embedded 包是否已初始化
func IsInitialized() bool {
	return initialized
}

// normalize 标准化路径分隔符为正斜杠并移除 "./" 前缀（embed.FS 使用正斜杠）
func normalize(path string) string {
	return strings.TrimPrefix(filepath.ToSlash(path), "./")
}

// isDataPath 路径是否位于嵌入的 data/ 目录
func isDataPath(path string) bool {
	return strings.HasPrefix(path, "data/")
}

// ReadFile 读取数据文件
// 已初始化且路径以 "data/" 开头时从嵌入文件系统读取，否则读取磁盘文件
func ReadFile(path string) ([]byte, error) {
	p := normalize(path)
	if initialized && isDataPath(p) {
		data, err := fs.ReadFile(dataFS, p)
		if err != nil {
			return nil, fmt.Errorf("failed to read embedded file %s: %w", p, err)
		}
		return data, nil
	}
	return os.ReadFile(path)
}

// Exists 检查数据文件是否存在
func Exists(path string) bool {
	p := normalize(path)
	if initialized && isDataPath(p) {
		_, err := fs.Stat(dataFS, p)
		return err == nil
	}
	_, err := os.Stat(path)
	return err == nil
}

// Glob 匹配嵌入的数据文件
// 路径模式必须以 "data/" 开头
func Glob(pattern string) ([]string, error) {
	if !initialized {
		return nil, fmt.Errorf("embedded package not initialized, call Init() first")
	}
	p := normalize(pattern)
	if !isDataPath(p) {
		return nil, fmt.Errorf("unknown resource path prefix: %s (must start with 'data/')", pattern)
	}
	return fs.Glob(dataFS, p)
}
