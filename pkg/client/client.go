// Package client 定义核心与宿主游戏客户端之间的窄接口
//
// 核心只通过这些接口读取角色/投射物状态并施加外观修改，
// 宿主负责事件派发与渲染。所有调用都发生在同一个逻辑线程（游戏 tick）上。
package client

import (
	"image/color"

	"github.com/decker502/transmog/pkg/types"
)

// TileSize 一个地块在本地坐标中的长度
const TileSize = 128

// LocalPoint 场景本地坐标（TileSize 个单位为一格）
type LocalPoint struct {
	X, Y int
}

// SceneX 所在地块的 X 坐标
func (p LocalPoint) SceneX() int { return p.X / TileSize }

// SceneY 所在地块的 Y 坐标
func (p LocalPoint) SceneY() int { return p.Y / TileSize }

// LocalPointFromTile 返回地块中心的本地坐标
func LocalPointFromTile(x, y int) LocalPoint {
	return LocalPoint{X: x*TileSize + TileSize/2, Y: y*TileSize + TileSize/2}
}

// WorldPoint 世界地块坐标；对于大体型 NPC 表示其西南角地块
type WorldPoint struct {
	X, Y, Plane int
}

// Projectile 投射物参数，同时作为"投射物移动"事件的载荷
type Projectile struct {
	Handle      types.ProjectileHandle
	ID          int
	Plane       int
	Start       LocalPoint
	Height      int // 当前/起始高度
	StartCycle  int
	EndCycle    int
	Slope       int
	StartHeight int
	EndHeight   int
	Interacting types.ActorID
	Target      LocalPoint
}

// EffectObject 宿主生成的独立动画物体（如镰刀挥砍）
type EffectObject struct {
	Model     int
	Animation int
	Location  WorldPoint
	// Recolor 非 nil 时替换模型的基础颜色
	Recolor *color.RGBA
}

// World 只读查询
type World interface {
	GameState() types.GameState
	GameCycle() int

	// LocalPlayer 返回本地玩家；未登录时返回 false
	LocalPlayer() (types.ActorID, bool)
	Interacting(actor types.ActorID) (types.ActorID, bool)
	IsNPC(actor types.ActorID) bool
	// Size 角色占地边长，玩家为 1
	Size(actor types.ActorID) int
	Orientation(actor types.ActorID) int

	LocalLocation(actor types.ActorID) LocalPoint
	WorldLocation(actor types.ActorID) WorldPoint
	// TrueLocalLocation 服务器位置（投射物起点所用的位置）
	TrueLocalLocation(actor types.ActorID) LocalPoint

	Animation(actor types.ActorID) int
	Graphic(actor types.ActorID) int
	PoseAnimation(actor types.ActorID, slot types.PoseSlot) int
}

// Actuator 外观修改原语
type Actuator interface {
	SetAnimation(actor types.ActorID, animationID int)
	SetAnimationFrame(actor types.ActorID, frame int)
	SetGraphic(actor types.ActorID, graphicID int)
	SetGraphicFrame(actor types.ActorID, frame int)
	SetGraphicHeight(actor types.ActorID, height int)
	SetPoseAnimation(actor types.ActorID, slot types.PoseSlot, animationID int)

	// SetKitOverrides 用给定的槽位 -> kit 映射替换玩家外观，未列出的槽位恢复原样
	SetKitOverrides(actor types.ActorID, kits map[types.KitSlot]int)

	// CreateProjectile 创建并登记投射物
	// 宿主会在返回前同步派发一次该投射物的移动事件
	CreateProjectile(p Projectile) types.ProjectileHandle
	SetProjectileEndCycle(handle types.ProjectileHandle, cycle int)

	SpawnEffectObject(obj EffectObject)
}

// Client 宿主客户端
type Client interface {
	World
	Actuator
}

// GearProvider 当前装备快照
type GearProvider interface {
	// EquippedItems 按槽位索引的物品 ID（来自外观数据，早于背包事件更新）
	// 可能是票据/占位形态，使用方通过 ItemMetadata.Canonicalize 规范化
	EquippedItems() []int
}

// ItemMetadata 物品元数据
type ItemMetadata interface {
	// Canonicalize 返回去除票据/占位形态后的物品 ID
	Canonicalize(itemID int) int
	// EquipmentSlot 物品声明的装备槽位；不可装备时返回 false
	EquipmentSlot(itemID int) (types.KitSlot, bool)
	// Name 物品名称；未知 ID 返回 false
	Name(itemID int) (string, bool)
}
