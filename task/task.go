package task

import (
	"sync/atomic"

	"git.fiblab.net/sim/syncer/v3"
	"github.com/tsinghua-fib-lab/bushbuckridge-sim/clock"
	"github.com/tsinghua-fib-lab/bushbuckridge-sim/entity"
	"github.com/tsinghua-fib-lab/bushbuckridge-sim/entity/network"
	"github.com/tsinghua-fib-lab/bushbuckridge-sim/entity/resident"
	"github.com/tsinghua-fib-lab/bushbuckridge-sim/output"
	"github.com/tsinghua-fib-lab/bushbuckridge-sim/utils/config"
	"github.com/tsinghua-fib-lab/bushbuckridge-sim/utils/input"
)

// Context 仿真任务上下文
// 功能：包含一次仿真任务的所有变量和状态
// 说明：持有时钟、输入数据构建出的协作者（要素库、栅格、导航）、居民管理器与运行记录
type Context struct {
	// 任务名
	job string
	// 关闭指令
	closed atomic.Bool

	// 时钟
	clock *clock.Clock

	// 辅助程序，处理分布式模式下相关调用，包括与syncer、其他服务的交互
	sidecar *syncer.Sidecar
	// sidecar close channel
	sidecarCloseCh chan struct{}
	// 是否由本任务启动了sidecar服务
	serving bool
	// 缓存文件夹
	cacheDir string

	// 居民管理器
	residentManager *resident.ResidentManager

	// 运行时配置文件
	runtimeConfig *config.RuntimeConfig
	// 导航服务
	router *network.Router
	// 运行记录，未配置输出时为nil
	recorder entity.IRecorder

	// 用于初始化的输入
	initRes *input.Input
}

// NewContext 创建新的仿真任务上下文
// 参数：
//   - job: 任务名称
//   - cacheDir: 缓存目录
//   - rc: 运行时配置
//   - sidecar: sidecar实例
//   - startSidecarServe: 是否启动sidecar服务
//
// 返回：初始化完成的Context实例
// 算法说明：
// 1. 创建时钟
// 2. 加载输入数据，构建导航服务
// 3. 创建运行记录与居民管理器
// 4. 注册RPC服务到sidecar，按需启动sidecar服务
func NewContext(
	job string,
	cacheDir string,
	rc *config.RuntimeConfig,
	sidecar *syncer.Sidecar,
	startSidecarServe bool,
) *Context {
	ctx := &Context{
		job:            job,
		cacheDir:       cacheDir,
		sidecar:        sidecar,
		sidecarCloseCh: make(chan struct{}),
		runtimeConfig:  rc,
	}
	ctx.clock = clock.New(rc.C.Step, rc.StartTime)

	// 加载所有模拟器启动所需的数据
	ctx.initRes = input.Init(rc.All, rc.StartTime, ctx.cacheDir)
	ctx.router = network.NewRouter(ctx.initRes.Network, rc.C.Resident.WalkingSpeed, rc.C.Resident.DrivingSpeed)

	recorder, err := output.New(rc.All.Output, job)
	if err != nil {
		log.Panicf("failed to open output: %v", err)
	}
	ctx.recorder = recorder

	ctx.residentManager = resident.NewManager(ctx)

	if ctx.sidecar != nil {
		ctx.clock.Register(ctx.sidecar)
	}

	// sidecar协程，用于提供gRPC服务
	if startSidecarServe {
		ctx.serving = true
		go func() {
			err := ctx.sidecar.Serve()
			if err != nil {
				log.Panicf("failed to serve: %v", err)
			}
			ctx.sidecarCloseCh <- struct{}{}
		}()
	}

	return ctx
}

func (ctx *Context) GetInput() *input.Input {
	return ctx.initRes
}

func (ctx *Context) Clock() *clock.Clock {
	return ctx.clock
}

func (ctx *Context) RuntimeConfig() *config.RuntimeConfig {
	return ctx.runtimeConfig
}

func (ctx *Context) FeatureStore() entity.IFeatureStore {
	return ctx.initRes.Features
}

func (ctx *Context) Precipitation() entity.IRasterField {
	return ctx.initRes.Precipitation
}

func (ctx *Context) TemperatureMin() entity.IRasterField {
	if ctx.initRes.TemperatureMin == nil {
		return nil
	}
	return ctx.initRes.TemperatureMin
}

func (ctx *Context) TemperatureMax() entity.IRasterField {
	if ctx.initRes.TemperatureMax == nil {
		return nil
	}
	return ctx.initRes.TemperatureMax
}

func (ctx *Context) Router() entity.IRouter {
	return ctx.router
}

func (ctx *Context) Network() entity.INetwork {
	return ctx.initRes.Network
}

func (ctx *Context) Recorder() entity.IRecorder {
	return ctx.recorder
}

func (ctx *Context) ResidentManager() entity.IResidentManager {
	return ctx.residentManager
}

// Init 创建居民并规划活动
func (ctx *Context) Init() {
	ctx.clock.Init()
	ctx.residentManager.Init(ctx.initRes.Residents)
}

// Close 关闭运行记录与sidecar
func (ctx *Context) Close() {
	if ctx.closed.Load() {
		return
	}
	if ctx.recorder != nil {
		if err := ctx.recorder.Close(); err != nil {
			log.Errorf("failed to close output: %v", err)
		}
	}
	if ctx.sidecar != nil {
		ctx.sidecar.Close()
		if ctx.serving {
			// wait for graceful stop
			<-ctx.sidecarCloseCh
		}
	}
	ctx.closed.Store(true)
}
