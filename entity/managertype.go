package entity

import (
	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

// Manager依赖倒置

// entity/resident/resident.go的依赖倒置
type IResident interface {
	ID() uuid.UUID              // 获取居民ID
	Kind() ActivityKind         // 获取居民的活动类型
	Position() orb.Point        // 获取居民当前位置
	Home() orb.Point            // 获取居民家的位置
	Capabilities() Capabilities // 获取居民的出行能力
	GoalReached() bool          // 当前是否没有待完成的路线
	String() string
}

// entity/resident/manager.go的依赖倒置
type IResidentManager interface {
	// 初始化：创建居民并规划活动
	Init(records []*ResidentRecord)

	// 输入居民ID，查找居民，如果不存在则panic
	Get(id uuid.UUID) IResident
	// 输入居民ID，查找居民，如果不存在则返回error
	GetOrError(id uuid.UUID) (IResident, error)

	Prepare()          // 准备阶段
	Update(dt float64) // 更新阶段
}
