package main

import (
	"os"

	"go.uber.org/zap"

	"github.com/ByLCY/dinterio-brochure/brochure"
	canvasrenderer "github.com/ByLCY/dinterio-brochure/renderer/canvas"
)

// main 使用默认配置与 canvas 后端生成宣传册；
// 需要核心字体输出时可改传 fpdfrenderer.NewRenderer()，两者实现同一个 renderer.Backend。
func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg := brochure.DefaultConfig()
	if _, err := brochure.Generate(cfg, canvasrenderer.NewRenderer(), logger); err != nil {
		logger.Error("生成宣传册失败", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}
