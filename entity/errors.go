package entity

import "errors"

var (
	// 查询要素时没有任何匹配
	ErrNoFeatureFound = errors.New("no feature found")
	// 无法在给定出行能力下连接两个位置
	ErrNoRouteFound = errors.New("no route found")
	// 居民需要回家但无法获得回程路线
	ErrStrandedAgent = errors.New("stranded agent")
)
