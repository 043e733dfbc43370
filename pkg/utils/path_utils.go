package utils

import (
	"os"
	"path/filepath"
)

// GetAbsPath 将相对于项目根目录的路径转换为绝对路径
// 从当前工作目录向上查找 go.mod 来定位项目根目录，找不到时退回当前目录
func GetAbsPath(relPath string) string {
	if filepath.IsAbs(relPath) {
		return relPath
	}

	dir, err := os.Getwd()
	if err != nil {
		return relPath
	}

	root := dir
	for {
		if _, err := os.Stat(filepath.Join(root, "go.mod")); err == nil {
			return filepath.Join(root, relPath)
		}
		parent := filepath.Dir(root)
		if parent == root {
			break
		}
		root = parent
	}
	return filepath.Join(dir, relPath)
}
