package config

// InputPath 指定输入数据来源的配置（MongoDB、文件系统）
// 功能：定义数据输入路径的配置结构，支持多种数据源
// 说明：File优先级高于MongoDB，只有File为空时才会访问MongoDB
type InputPath struct {
	DB   string `yaml:"db,omitempty"`   // 数据库名
	Col  string `yaml:"col,omitempty"`  // 集合名
	File string `yaml:"file,omitempty"` // 文件路径（优先级高于MongoDB）
}

// GetDb 获取数据库名
func (p InputPath) GetDb() string {
	return p.DB
}

// GetColl 获取集合名
func (p InputPath) GetColl() string {
	return p.Col
}

// Empty 判断是否未配置任何数据来源
func (p InputPath) Empty() bool {
	return p.File == "" && (p.DB == "" || p.Col == "")
}

// SyntheticRaster 噪声生成的栅格配置
// 功能：在没有真实栅格数据时，用OpenSimplex噪声生成时间序列栅格
// 说明：生成范围由Bound指定，帧间隔单位为秒
type SyntheticRaster struct {
	Seed     int64      `yaml:"seed"`               // 噪声种子
	Bound    [4]float64 `yaml:"bound"`              // [minLon, minLat, maxLon, maxLat]
	Rows     int        `yaml:"rows"`               // 行数
	Cols     int        `yaml:"cols"`               // 列数
	Frames   int        `yaml:"frames"`             // 帧数
	Interval float64    `yaml:"interval"`           // 帧间隔（秒）
	Min      float64    `yaml:"min"`                // 值域下限
	Max      float64    `yaml:"max"`                // 值域上限
	Scale    float64    `yaml:"scale,omitempty"`    // 空间频率（每个格子），默认0.1
	Octaves  int        `yaml:"octaves,omitempty"`  // 叠加层数，默认3
	TimeStep float64    `yaml:"timestep,omitempty"` // 相邻帧在噪声空间中的偏移，默认0.05
}

// RasterInput 栅格输入配置
// 功能：指定栅格时间序列的来源，文件与噪声生成二选一
type RasterInput struct {
	File      string           `yaml:"file,omitempty"`      // 栅格文件（YAML/JSON）
	Synthetic *SyntheticRaster `yaml:"synthetic,omitempty"` // 噪声生成配置
}

// Empty 判断是否未配置栅格来源
func (r RasterInput) Empty() bool {
	return r.File == "" && r.Synthetic == nil
}

// Input 指定模拟器所有输入数据的配置项
// 功能：定义仿真系统的所有输入数据配置
// 说明：矢量数据均为GeoJSON文件；居民数据可以来自文件或MongoDB
type Input struct {
	URI            string      `yaml:"uri,omitempty"`             // MongoDB连接字符串
	Network        string      `yaml:"network"`                   // 出行网络（LineString）
	Airports       string      `yaml:"airports,omitempty"`        // 机场
	Water          string      `yaml:"water,omitempty"`           // 水系
	Poi            string      `yaml:"poi,omitempty"`             // 兴趣点
	Precipitation  RasterInput `yaml:"precipitation"`             // 降水
	TemperatureMin RasterInput `yaml:"temperature_min,omitempty"` // 最低气温
	TemperatureMax RasterInput `yaml:"temperature_max,omitempty"` // 最高气温
	Residents      InputPath   `yaml:"residents"`                 // 居民
}

// ControlStep 指定模拟器模拟时间范围和间隔的配置项
// 功能：定义仿真时间控制参数
// 说明：StartTime为第0步对应的时刻（RFC3339），为空时使用2020-01-01T00:00:00Z
type ControlStep struct {
	Start     int32   `yaml:"start"`                // 开始步数
	Total     int32   `yaml:"total"`                // 总步数
	Interval  float64 `yaml:"interval"`             // 每步的时间间隔（秒）
	StartTime string  `yaml:"start_time,omitempty"` // 起始时刻
}

// ResidentControl 居民行为的默认参数
// 功能：为居民数据中缺省的字段提供默认值
type ResidentControl struct {
	PicnicDuration    int     `yaml:"picnic_duration,omitempty"`     // 野餐时长（分钟）
	MaxTravelDistance float64 `yaml:"max_travel_distance,omitempty"` // 野餐最大出行距离（米）
	RiverName         string  `yaml:"river_name,omitempty"`          // 目标河流名称
	StrictDwellTimer  bool    `yaml:"strict_dwell_timer,omitempty"`  // 使用总剩余时长判断野餐结束
	WalkingSpeed      float64 `yaml:"walking_speed,omitempty"`       // 步行速度（米/秒）
	DrivingSpeed      float64 `yaml:"driving_speed,omitempty"`       // 驾车速度（米/秒）
	Seed              uint64  `yaml:"seed,omitempty"`                // 随机起点的种子
}

// Control 模拟器控制配置
// 功能：定义仿真系统的核心控制参数
type Control struct {
	Step     ControlStep     `yaml:"step"`
	Resident ResidentControl `yaml:"resident,omitempty"`
}

// Output 输出配置
// 功能：指定运行记录的输出位置，为空则不输出
type Output struct {
	DB         string `yaml:"db,omitempty"`         // SQLite文件路径
	Trajectory string `yaml:"trajectory,omitempty"` // 轨迹输出目录（zstd压缩的JSONL）
}

// Config YAML配置文件的根结构
// 功能：定义整个仿真系统的配置结构
// 说明：包含输入、控制、输出等所有配置项
type Config struct {
	Input   Input   `yaml:"input"`            // 输入
	Control Control `yaml:"control"`          // 模拟过程控制
	Output  Output  `yaml:"output,omitempty"` // 输出
}
