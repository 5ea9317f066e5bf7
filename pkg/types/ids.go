// Package types 定义共享的基础类型
// 这个包不依赖任何其他业务包，用于解决循环引用问题
package types

// ActorID 宿主客户端中角色（玩家/NPC）的句柄，0 表示无效
type ActorID uint64

// ProjectileHandle 宿主客户端中一个存活投射物的句柄，0 表示无效
type ProjectileHandle uint64

const (
	// WildcardItemID 触发物品通配符：总是匹配
	// 在 ModelSwaps 中同样表示"无替换"
	WildcardItemID = -1

	// NoItem 没有物品（如未设置预览物品）
	NoItem = -1

	// NoAnimation 动画集中缺失的动画 ID
	NoAnimation = -1

	// NoGraphic 无图形效果（spotanim）
	NoGraphic = -1

	// NoProjectile 无投射物
	NoProjectile = -1
)

// GameState 宿主客户端的会话状态
type GameState int

const (
	// GameStateUnknown 未知状态
	GameStateUnknown GameState = iota
	// GameStateLoginScreen 登录界面
	GameStateLoginScreen
	// GameStateLoading 加载中
	GameStateLoading
	// GameStateLoggedIn 已登录
	GameStateLoggedIn
)

// String 返回会话状态的字符串表示
func (s GameState) String() string {
	switch s {
	case GameStateLoginScreen:
		return "LoginScreen"
	case GameStateLoading:
		return "Loading"
	case GameStateLoggedIn:
		return "LoggedIn"
	default:
		return "Unknown"
	}
}
