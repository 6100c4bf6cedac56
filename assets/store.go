// Package assets 对可选的品牌图片做显式存在性检查。
package assets

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	_ "golang.org/x/image/webp"

	"github.com/ByLCY/dinterio-brochure/layout"
)

// Store 以 baseDir 为根解析相对路径；缺失或无法解码的文件都视为不存在。
type Store struct {
	baseDir string
	miss    func(path string, err error)
}

var _ layout.AssetResolver = (*Store)(nil)

// Option 调整 Store 的行为。
type Option func(*Store)

// WithMissHook 注册资源缺失时的通知回调（用于日志），err 为 nil 表示文件不存在。
func WithMissHook(fn func(path string, err error)) Option {
	return func(s *Store) { s.miss = fn }
}

// NewStore 创建以 baseDir 为根的资源查找器。
func NewStore(baseDir string, opts ...Option) *Store {
	s := &Store{baseDir: baseDir}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resolve 返回 path 在磁盘上的实际位置。
func (s *Store) Resolve(path string) string {
	if filepath.IsAbs(path) || s.baseDir == "" {
		return path
	}
	return filepath.Join(s.baseDir, path)
}

// Lookup 检查文件是否存在并读取图片头部信息；ok 为 false 时调用方应跳过该图片。
func (s *Store) Lookup(path string) (layout.Asset, bool) {
	full := s.Resolve(path)
	file, err := os.Open(full)
	if err != nil {
		if os.IsNotExist(err) {
			s.notify(path, nil)
		} else {
			s.notify(path, err)
		}
		return layout.Asset{}, false
	}
	defer file.Close()

	cfg, format, err := image.DecodeConfig(file)
	if err != nil {
		s.notify(path, err)
		return layout.Asset{}, false
	}
	return layout.Asset{
		Path:   full,
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
	}, true
}

func (s *Store) notify(path string, err error) {
	if s.miss != nil {
		s.miss(path, err)
	}
}
