package clock

import (
	"fmt"
	"time"

	"git.fiblab.net/sim/protos/v2/go/city/clock/v1/clockv1connect"
	"github.com/tsinghua-fib-lab/bushbuckridge-sim/utils/config"
)

// Clock 仿真时钟
// 功能：管理仿真系统的时间推进，并把仿真秒数换算为日历时刻
// 说明：T为相对第0步的秒数，Time()=startTime+T，随步数单调不减
type Clock struct {
	clockv1connect.UnimplementedClockServiceHandler

	DT         float64 // 每步时间间隔（秒）
	START_STEP int32   // 起始步
	END_STEP   int32   // 结束步，模拟区间[START, END)

	T            float64 // 当前时间（秒）
	InternalStep int32   // 当前步数

	startTime time.Time // 第0步对应的时刻
}

// New 根据配置创建时钟
// 参数：stepConfig-步长配置，startTime-第0步对应的时刻
// 返回：初始化完成的时钟
func New(stepConfig config.ControlStep, startTime time.Time) *Clock {
	c := &Clock{
		DT:         stepConfig.Interval,
		START_STEP: stepConfig.Start,
		END_STEP:   stepConfig.Start + stepConfig.Total,
		startTime:  startTime,
	}
	c.Init()
	return c
}

// Init 重置为起始步
func (c *Clock) Init() {
	c.InternalStep = c.START_STEP
	c.T = float64(c.InternalStep) * c.DT
}

// Next 前进一步
func (c *Clock) Next() {
	c.InternalStep++
	c.T = float64(c.InternalStep) * c.DT
}

// Time 当前仿真时刻
func (c *Clock) Time() time.Time {
	return c.startTime.Add(time.Duration(c.T * float64(time.Second)))
}

// StartTime 第0步对应的时刻
func (c *Clock) StartTime() time.Time {
	return c.startTime
}

// String 当前时刻（HH:MM:SS，超过一天时小时数继续累加）
func (c *Clock) String() string {
	h, m, s := c.GetHourMinuteSecond()
	return fmt.Sprintf("%02d:%02d:%02d", h, m, int(s))
}

// GetHourMinuteSecond 获取当前时间的小时、分钟、秒
// 返回：小时、分钟、秒（秒为浮点数，支持亚秒级精度）
func (c *Clock) GetHourMinuteSecond() (int, int, float64) {
	hour := int(c.T) / 3600
	minute := int(c.T) % 3600 / 60
	second := c.T - float64(hour*3600+minute*60)
	return hour, minute, second
}
