// Package embedded 提供数据文件的统一访问接口
//
// 以 "data/" 开头的路径优先从磁盘读取（便于用户修改配置），
// 磁盘上不存在时回退到随程序嵌入的默认文件。
package embedded

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/decker502/posetween/data"
)

// dataFS 嵌入的数据文件，测试时可替换
var dataFS fs.FS = data.FS

const dataPrefix = "data/"

// normalize 标准化路径，返回嵌入文件系统中的相对路径
func normalize(path string) (string, bool) {
	path = filepath.ToSlash(path)
	path = strings.TrimPrefix(path, "./")
	if !strings.HasPrefix(path, dataPrefix) {
		return "", false
	}
	return strings.TrimPrefix(path, dataPrefix), true
}

// ReadFile 读取数据文件
//
// 参数：
//   - path: 文件路径；磁盘上存在时直接读取，否则以 "data/" 开头的路径从嵌入文件中读取
//
// 返回：
//   - []byte: 文件内容
//   - error: 两处都不存在或读取失败时返回错误
func ReadFile(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err == nil {
		return content, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	name, ok := normalize(path)
	if !ok {
		return nil, err
	}
	content, embedErr := fs.ReadFile(dataFS, name)
	if embedErr != nil {
		return nil, fmt.Errorf("%s not found on disk or in embedded data: %w", path, embedErr)
	}
	return content, nil
}

// Exists 检查文件是否存在于嵌入数据中
func Exists(path string) bool {
	name, ok := normalize(path)
	if !ok {
		return false
	}
	_, err := fs.Stat(dataFS, name)
	return err == nil
}

// Clips 返回嵌入的示例动作片段路径（已排序，带 "data/" 前缀）
func Clips() []string {
	matches, err := fs.Glob(dataFS, "clips/*.json")
	if err != nil {
		return nil
	}
	paths := make([]string, len(matches))
	for i, m := range matches {
		paths[i] = dataPrefix + m
	}
	sort.Strings(paths)
	return paths
}
