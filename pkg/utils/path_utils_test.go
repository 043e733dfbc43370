package utils

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetAbsPath(t *testing.T) {
	t.Run("绝对路径原样返回", func(t *testing.T) {
		abs := filepath.Join(string(filepath.Separator), "tmp", "conf", "config.yaml")
		assert.Equal(t, abs, GetAbsPath(abs))
	})

	t.Run("相对路径转换为绝对路径", func(t *testing.T) {
		result := GetAbsPath("conf/config.yaml")
		assert.True(t, filepath.IsAbs(result))
		assert.Equal(t, "config.yaml", filepath.Base(result))
	})
}
