package resident

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"git.fiblab.net/general/common/v2/parallel"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/bushbuckridge-sim/entity"
	"github.com/tsinghua-fib-lab/bushbuckridge-sim/utils/config"
	"github.com/tsinghua-fib-lab/bushbuckridge-sim/utils/randengine"
)

// GlobalRuntime 全局运行时数据
// 功能：累计已完成的行程数、被困人数、总行驶时间与总行驶距离
type GlobalRuntime struct {
	NumCompletedTrips int32   // 已完成的行程
	NumStranded       int32   // 回家导航失败的居民
	TravelTime        float64 // 总行驶时间（秒）
	TravelDistance    float64 // 总行驶距离（米）
}

// ResidentManager 居民管理器
// 功能：创建居民并规划活动，每步并行更新所有居民，收集事件与统计
type ResidentManager struct {
	ctx entity.ITaskContext

	data      map[uuid.UUID]*Resident
	residents []*Resident

	generator *randengine.Engine

	snapshot, runtime GlobalRuntime
	runtimeMtx        sync.Mutex
}

// NewManager 创建居民管理器
func NewManager(ctx entity.ITaskContext) *ResidentManager {
	return &ResidentManager{
		ctx:       ctx,
		data:      make(map[uuid.UUID]*Resident),
		residents: make([]*Resident, 0),
		generator: randengine.New(ctx.RuntimeConfig().C.Resident.Seed),
	}
}

// Init 初始化所有居民
// 功能：由初始化数据创建居民，分配起点，并行规划活动
// 参数：records-居民初始化数据
// 算法说明：
// 1. 按输入顺序串行创建居民，没有起点的居民随机选取一个网络节点，保证同一种子结果可复现
// 2. 并行调用Plan
// 3. 收集规划阶段的事件并写入运行记录
func (m *ResidentManager) Init(records []*entity.ResidentRecord) {
	defaults := m.ctx.RuntimeConfig().C.Resident
	m.residents = lo.Map(records, func(record *entity.ResidentRecord, i int) *Resident {
		r, err := m.newResident(record, defaults)
		if err != nil {
			log.Panicf("bad resident record #%d: %v", i, err)
		}
		return r
	})
	m.data = make(map[uuid.UUID]*Resident, len(m.residents))
	for _, r := range m.residents {
		if _, ok := m.data[r.id]; ok {
			log.Panicf("resident ID %v already exists", r.id)
		}
		m.data[r.id] = r
	}

	now := m.ctx.Clock().Time()
	features, field, router := m.ctx.FeatureStore(), m.ctx.Precipitation(), m.ctx.Router()
	parallel.GoFor(m.residents, func(r *Resident) {
		Plan(r, features, field, router, now)
	})

	moving := lo.CountBy(m.residents, func(r *Resident) bool { return r.route != nil })
	log.Infof("%s residents planned, %s moving", humanize.Comma(int64(len(m.residents))), humanize.Comma(int64(moving)))
	for kind, n := range lo.CountValuesBy(m.residents, func(r *Resident) entity.ActivityKind { return r.Kind() }) {
		log.Infof("  %v: %s", kind, humanize.Comma(int64(n)))
	}

	if recorder := m.ctx.Recorder(); recorder != nil {
		residents := lo.Map(m.residents, func(r *Resident, _ int) entity.IResident { return r })
		if err := recorder.RecordResidents(residents); err != nil {
			log.Errorf("record residents: %v", err)
		}
	}
	m.flushEvents()
}

// newResident 由初始化数据创建居民，缺省字段使用配置中的默认值
func (m *ResidentManager) newResident(record *entity.ResidentRecord, defaults config.ResidentControl) (*Resident, error) {
	id := uuid.New()
	if record.ID != "" {
		var err error
		if id, err = uuid.Parse(record.ID); err != nil {
			return nil, fmt.Errorf("bad id %q: %w", record.ID, err)
		}
	}
	kind, err := entity.ParseActivityKind(record.Activity)
	if err != nil {
		return nil, err
	}
	caps, err := entity.ParseCapabilities(record.Capabilities)
	if err != nil {
		return nil, err
	}
	var activity Activity
	switch kind {
	case entity.ActivityKindToAirport:
		activity = ToAirport{}
	case entity.ActivityKindToNamedRiver:
		activity = ToNamedRiver{Name: lo.CoalesceOrEmpty(record.RiverName, defaults.RiverName)}
	case entity.ActivityKindPicnic:
		if record.PicnicDuration < 0 || record.MaxTravelDistanceInMeters < 0 {
			return nil, fmt.Errorf("negative picnic duration %d or travel distance %v",
				record.PicnicDuration, record.MaxTravelDistanceInMeters)
		}
		activity = &Picnic{
			State:                   PicnicStateHome,
			DurationMinutes:         lo.CoalesceOrEmpty(record.PicnicDuration, defaults.PicnicDuration),
			MaxTravelDistanceMeters: lo.CoalesceOrEmpty(record.MaxTravelDistanceInMeters, defaults.MaxTravelDistance),
			StrictDwellTimer:        defaults.StrictDwellTimer,
		}
	}
	var home orb.Point
	switch len(record.StartPosition) {
	case 0:
		home = m.ctx.Network().RandomNode(m.generator)
	case 2:
		home = orb.Point{record.StartPosition[0], record.StartPosition[1]}
	default:
		return nil, fmt.Errorf("bad start position %v", record.StartPosition)
	}
	return New(id, activity, home, caps), nil
}

// Get 根据ID获取居民，不存在则panic
func (m *ResidentManager) Get(id uuid.UUID) entity.IResident {
	if r, ok := m.data[id]; !ok {
		log.Panicf("no id %v in resident data", id)
		return nil
	} else {
		return r
	}
}

// GetOrError 根据ID获取居民，不存在则返回错误
func (m *ResidentManager) GetOrError(id uuid.UUID) (entity.IResident, error) {
	if r, ok := m.data[id]; !ok {
		return nil, fmt.Errorf("no id %v in resident data", id)
	} else {
		return r, nil
	}
}

// Residents 全部居民，顺序为输入顺序
func (m *ResidentManager) Residents() []*Resident {
	return m.residents
}

// Stats 上一步结束时的全局统计
func (m *ResidentManager) Stats() GlobalRuntime {
	return m.snapshot
}

// Prepare 准备阶段：更新统计快照
func (m *ResidentManager) Prepare() {
	m.runtimeMtx.Lock()
	m.snapshot = m.runtime
	m.runtimeMtx.Unlock()
}

// Update 更新阶段
// 功能：并行执行所有居民的Tick，之后串行收集事件并输出
// 参数：dt-步长（秒）
func (m *ResidentManager) Update(dt float64) {
	clock := m.ctx.Clock()
	now := clock.Time()
	router := m.ctx.Router()
	parallel.GoFor(m.residents, func(r *Resident) {
		err := Tick(r, router, now, dt)
		if r.ds > 0 {
			m.recordRunning(dt, r.ds)
		}
		if err != nil {
			if errors.Is(err, entity.ErrStrandedAgent) {
				log.Warn(err)
				m.recordStranded()
			} else {
				log.Errorf("tick %v: %v", r.id, err)
			}
		}
	})
	completed := m.flushEvents()
	if completed > 0 {
		m.runtimeMtx.Lock()
		m.runtime.NumCompletedTrips += int32(completed)
		m.runtimeMtx.Unlock()
	}
	m.record(clock.InternalStep, now)
}

// flushEvents 取走所有居民的事件并写入运行记录
// 返回：本次取走的到达事件数量
func (m *ResidentManager) flushEvents() int {
	events := lo.FlatMap(m.residents, func(r *Resident, _ int) []entity.Event {
		return r.drainEvents()
	})
	if recorder := m.ctx.Recorder(); recorder != nil && len(events) > 0 {
		if err := recorder.RecordEvents(events); err != nil {
			log.Errorf("record events: %v", err)
		}
	}
	return lo.CountBy(events, func(e entity.Event) bool { return e.Kind == entity.EventArrived })
}

// record 输出本步的位置与统计
func (m *ResidentManager) record(step int32, now time.Time) {
	recorder := m.ctx.Recorder()
	if recorder == nil {
		return
	}
	snapshots := lo.Map(m.residents, func(r *Resident, _ int) entity.Snapshot { return r.snapshot() })
	if err := recorder.RecordPositions(step, now, snapshots); err != nil {
		log.Errorf("record positions: %v", err)
	}
	m.runtimeMtx.Lock()
	runtime := m.runtime
	m.runtimeMtx.Unlock()
	summary := entity.Summary{
		Step:              step,
		Time:              now,
		NumResidents:      len(m.residents),
		NumMoving:         lo.CountBy(snapshots, func(s entity.Snapshot) bool { return s.Moving }),
		NumCompletedTrips: runtime.NumCompletedTrips,
		NumStranded:       runtime.NumStranded,
		TravelDistance:    runtime.TravelDistance,
		Precipitation:     m.meanAt(m.ctx.Precipitation(), now),
		TemperatureMin:    m.meanAt(m.ctx.TemperatureMin(), now),
		TemperatureMax:    m.meanAt(m.ctx.TemperatureMax(), now),
	}
	if err := recorder.RecordSummary(summary); err != nil {
		log.Errorf("record summary: %v", err)
	}
}

// meanAt 居民所在位置栅格值的平均，没有栅格或没有居民时为0
func (m *ResidentManager) meanAt(field entity.IRasterField, now time.Time) float64 {
	if field == nil || len(m.residents) == 0 {
		return 0
	}
	return lo.MeanBy(m.residents, func(r *Resident) float64 {
		return field.ValueAt(r.position, now)
	})
}

// recordRunning 记录移动的居民
func (m *ResidentManager) recordRunning(dt float64, ds float64) {
	m.runtimeMtx.Lock()
	defer m.runtimeMtx.Unlock()
	m.runtime.TravelTime += dt
	m.runtime.TravelDistance += ds
}

// recordStranded 记录被困的居民
func (m *ResidentManager) recordStranded() {
	m.runtimeMtx.Lock()
	defer m.runtimeMtx.Unlock()
	m.runtime.NumStranded++
}
