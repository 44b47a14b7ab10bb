package input

import (
	"context"
	"fmt"
	"os"
	"time"

	"git.fiblab.net/general/common/v2/mongoutil"
	"github.com/dustin/go-humanize"
	"github.com/tsinghua-fib-lab/bushbuckridge-sim/entity"
	"github.com/tsinghua-fib-lab/bushbuckridge-sim/entity/feature"
	"github.com/tsinghua-fib-lab/bushbuckridge-sim/entity/network"
	"github.com/tsinghua-fib-lab/bushbuckridge-sim/entity/raster"
	"github.com/tsinghua-fib-lab/bushbuckridge-sim/utils/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"gopkg.in/yaml.v2"
)

// Input 输入数据
// 功能：存储仿真所需的所有输入数据
// 说明：气温栅格为可选项，未配置时为nil
type Input struct {
	Network        *network.Network
	Features       *feature.Store
	Precipitation  *raster.Field
	TemperatureMin *raster.Field
	TemperatureMax *raster.Field
	Residents      []*entity.ResidentRecord
}

// Init 加载数据
// 功能：根据配置加载出行网络、矢量要素、栅格与居民数据
// 参数：c-配置，startTime-第0步对应的时刻（噪声栅格的第一帧），cacheDir-居民数据缓存目录
// 返回：加载完成的输入数据，输入错误时panic
// 算法说明：
// 1. 读取出行网络，网络节点作为要素库的node图层
// 2. 读取机场、水系、兴趣点图层并构建空间索引
// 3. 读取或生成栅格
// 4. 从文件或MongoDB（带缓存）读取居民
func Init(c config.Config, startTime time.Time, cacheDir string) *Input {
	if c.Input.Network == "" {
		log.Panic("input.network must be specified")
	}
	res := &Input{}
	var err error
	if res.Network, err = network.LoadGeoJSON(c.Input.Network); err != nil {
		log.Panicf("failed to load network: %v", err)
	}
	log.Infof("network: %s nodes", humanize.Comma(int64(res.Network.Len())))

	res.Features = feature.NewStore()
	res.Features.Add(res.Network.Features()...)
	for _, layer := range []struct {
		path string
		t    entity.FeatureType
	}{
		{c.Input.Airports, entity.FeatureTypeAirport},
		{c.Input.Water, entity.FeatureTypeRiver},
		{c.Input.Poi, entity.FeatureTypePoi},
	} {
		if layer.path == "" {
			log.Warnf("no %s layer", layer.t)
			continue
		}
		features, err := feature.LoadGeoJSON(layer.path, layer.t)
		if err != nil {
			log.Panicf("failed to load %s layer: %v", layer.t, err)
		}
		res.Features.Add(features...)
		log.Infof("%s: %s features", layer.t, humanize.Comma(int64(res.Features.Len(layer.t))))
	}
	if err := res.Features.Build(); err != nil {
		log.Panicf("failed to index features: %v", err)
	}

	if c.Input.Precipitation.Empty() {
		log.Panic("input.precipitation must be specified")
	}
	res.Precipitation = mustLoadRaster("precipitation", c.Input.Precipitation, startTime)
	res.TemperatureMin = mustLoadRaster("temperature_min", c.Input.TemperatureMin, startTime)
	res.TemperatureMax = mustLoadRaster("temperature_max", c.Input.TemperatureMax, startTime)

	if c.Input.Residents.Empty() {
		log.Panic("input.residents must be specified")
	}
	if c.Input.Residents.File != "" {
		if res.Residents, err = LoadResidents(c.Input.Residents.File); err != nil {
			log.Panicf("failed to load residents: %v", err)
		}
	} else {
		if c.Input.URI == "" {
			log.Panic("input.uri must be specified to load residents from MongoDB")
		}
		client := mongoutil.NewClient(c.Input.URI)
		defer client.Disconnect(context.Background())
		res.Residents = mustDownloadResidents(client, c.Input.Residents, cacheDir)
	}
	if len(res.Residents) == 0 {
		log.Error("no residents to simulate")
	}
	log.Infof("residents: %s", humanize.Comma(int64(len(res.Residents))))
	return res
}

// mustLoadRaster 读取或生成栅格，未配置时返回nil
func mustLoadRaster(name string, in config.RasterInput, startTime time.Time) *raster.Field {
	var f *raster.Field
	var err error
	switch {
	case in.File != "":
		f, err = raster.Load(in.File)
	case in.Synthetic != nil:
		f, err = raster.Synthetic(name, *in.Synthetic, startTime)
	default:
		return nil
	}
	if err != nil {
		log.Panicf("failed to load raster %s: %v", name, err)
	}
	log.Infof("raster %s: %dx%d, %d frames", name, f.Rows, f.Cols, f.Len())
	return f
}

// LoadResidents 从YAML/JSON文件读取居民列表
func LoadResidents(path string) ([]*entity.ResidentRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var records []*entity.ResidentRecord
	if err := yaml.UnmarshalStrict(data, &records); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return records, nil
}

// mustDownloadResidents 从MongoDB读取居民，cacheDir有效时优先使用本地缓存
func mustDownloadResidents(client *mongo.Client, inputPath config.InputPath, cacheDir string) []*entity.ResidentRecord {
	useCache := preCheckCache(cacheDir)
	if useCache {
		if records, err := LoadResidents(cachePath(cacheDir, inputPath)); err == nil {
			log.Infof("load residents from cache %s", cachePath(cacheDir, inputPath))
			return records
		}
	}
	log.Infof("start fetching from %s.%s", inputPath.DB, inputPath.Col)
	coll := mongoutil.GetMongoColl(client, inputPath)
	ctx := context.Background()
	cursor, err := coll.Find(ctx, bson.D{})
	if err != nil {
		log.Panicf("failed to query %s.%s: %v", inputPath.DB, inputPath.Col, err)
	}
	var records []*entity.ResidentRecord
	if err := cursor.All(ctx, &records); err != nil {
		log.Panicf("failed to download %s.%s: %v", inputPath.DB, inputPath.Col, err)
	}
	log.Infof("finish fetching from %s.%s", inputPath.DB, inputPath.Col)
	if useCache {
		if err := saveResidents(cachePath(cacheDir, inputPath), records); err != nil {
			log.Errorf("failed to write cache: %v", err)
		}
	}
	return records
}
