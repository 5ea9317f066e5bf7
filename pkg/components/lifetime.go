package components

// LifetimeComponent 按客户端周期管理实体的生命周期
// 用于自动清理宿主生成的独立动画物体
type LifetimeComponent struct {
	ExpireCycle int  // 到达该周期后移除
	IsExpired   bool // 是否已过期
}
