package input

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tsinghua-fib-lab/bushbuckridge-sim/entity"
	"github.com/tsinghua-fib-lab/bushbuckridge-sim/utils/config"
	"gopkg.in/yaml.v2"
)

// preCheckCache 预检查缓存目录
// 返回：true表示启用缓存，false表示禁用缓存
func preCheckCache(cacheDir string) bool {
	if cacheDir == "" {
		log.Info("disable input cache")
		return false
	}
	if stat, err := os.Stat(cacheDir); err == nil && stat.IsDir() {
		log.Infof("enable input cache at %s", cacheDir)
		return true
	}
	log.Errorf("disable input cache because invalid dir %s (not exist or file)", cacheDir)
	return false
}

// cachePath 某个集合的缓存文件
func cachePath(cacheDir string, p config.InputPath) string {
	return filepath.Join(cacheDir, fmt.Sprintf("%s.%s.yaml", p.GetDb(), p.GetColl()))
}

// saveResidents 将居民写为YAML文件
func saveResidents(path string, records []*entity.ResidentRecord) error {
	data, err := yaml.Marshal(records)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
