package task

import (
	"flag"
	"time"

	"github.com/dustin/go-humanize"
)

const (
	SelfName = "bushbuckridge" // 本程序在模拟任务集群中的名字
)

var (
	heartBeatInterval = flag.Int("log.heartbeat_interval", 100, "心跳日志间隔步数")
)

// prepare 准备阶段，每步执行一次
// 算法说明：
// 1. 居民管理器准备（更新统计快照）
// 2. 心跳日志：定期输出时间与居民统计
func (ctx *Context) prepare() {
	ctx.residentManager.Prepare()

	if *heartBeatInterval > 0 && ctx.clock.InternalStep%int32(*heartBeatInterval) == 0 {
		stats := ctx.residentManager.Stats()
		log.Infof(
			"STEP: %d(%v) trips=%s stranded=%d distance=%s",
			ctx.clock.InternalStep,
			ctx.clock.Time().Format(time.DateTime),
			humanize.Comma(int64(stats.NumCompletedTrips)),
			stats.NumStranded,
			humanize.SIWithDigits(stats.TravelDistance, 1, "m"),
		)
	}
}

// update 更新阶段，每步执行一次
func (ctx *Context) update() {
	ctx.residentManager.Update(ctx.clock.DT)
}

// Run 运行
// 功能：初始化居民后按步推进，模拟区间为[START_STEP, END_STEP)
// 说明：没有sidecar时独立运行；有sidecar时每步与syncer同步，syncer也可以要求提前关闭
func (ctx *Context) Run() {
	// 初始化
	ctx.Init()
	if ctx.sidecar != nil {
		// init syncer
		ctx.sidecar.Step(false)
	}
	for ctx.clock.InternalStep < ctx.clock.END_STEP {
		ctx.prepare()
		if ctx.sidecar != nil {
			// 通知准备阶段完成
			ctx.sidecar.NotifyStepReady()
		}
		ctx.update()
		log.Debugf("step %d: update complete", ctx.clock.InternalStep)
		ctx.clock.Next()
		close := ctx.clock.InternalStep >= ctx.clock.END_STEP
		if ctx.sidecar != nil {
			close = ctx.sidecar.Step(close) || close
		}
		if close || ctx.closed.Load() {
			break
		}
	}
	ctx.residentManager.Prepare()
	stats := ctx.residentManager.Stats()
	log.Infof("engine complete: %s trips, %d stranded, %s travelled",
		humanize.Comma(int64(stats.NumCompletedTrips)), stats.NumStranded,
		humanize.SIWithDigits(stats.TravelDistance, 1, "m"))
	ctx.Close()
}
