package brochure

// Config 控制输出位置与资源目录。
type Config struct {
	// OutputPath 是 PDF 输出路径，所在目录必须已存在。
	OutputPath string
	// AssetDir 是图片相对路径的根目录。
	AssetDir string
	// DebugPath 非空时额外写出布局调试 JSON。
	DebugPath string
}

// DefaultConfig 返回在仓库根目录运行时使用的配置。
func DefaultConfig() Config {
	return Config{
		OutputPath: "public/dinterio-luxury-brochure.pdf",
		AssetDir:   ".",
	}
}
