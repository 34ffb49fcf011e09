package cache

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	dataExt   = ".data"
	configExt = ".config"
)

// ValidKey 判断 key 是否可以用于存储。
func ValidKey(key string) bool {
	return validateKey(key) == nil
}

// validateKey 要求 key 可以直接作为根目录下的单个文件名。
func validateKey(key string) error {
	if key == "" || key == "." || key == ".." {
		return ErrInvalidKey
	}
	if strings.ContainsAny(key, "/\\\x00") {
		return ErrInvalidKey
	}
	return nil
}

func (s *Store) dataPath(key string) string {
	return filepath.Join(s.root, key+dataExt)
}

func (s *Store) configPath(key string) string {
	return filepath.Join(s.root, key+configExt)
}

// hasFiles 判断成对文件是否都存在；缺一个即视为不存在。
func (s *Store) hasFiles(key string) bool {
	return isFile(s.dataPath(key)) && isFile(s.configPath(key))
}

// dataFileSize 通过 stat 读取数据文件大小，不存在时返回 0。
func (s *Store) dataFileSize(key string) int64 {
	info, err := os.Stat(s.dataPath(key))
	if err != nil || info.IsDir() {
		return 0
	}
	return info.Size()
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// writeFileAtomic 先写入同目录临时文件再 rename，失败时清理临时文件。
func writeFileAtomic(path string, data []byte) error {
	tempFile, err := os.CreateTemp(filepath.Dir(path), ".cache-*")
	if err != nil {
		return err
	}
	tempName := tempFile.Name()

	_, err = tempFile.Write(data)
	closeErr := tempFile.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tempName)
		return err
	}

	if err := os.Rename(tempName, path); err != nil {
		os.Remove(tempName)
		return err
	}
	return nil
}

// removeFile 删除文件，文件本就不存在时视为成功。
func removeFile(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
