package components

import (
	"image/color"

	"github.com/decker502/transmog/pkg/types"
)

// 模拟宿主使用的组件。真实客户端中这些状态由宿主持有，
// 模拟宿主用 ECS 存储以便测试和预览程序驱动完整的事件流。

// ActorComponent 角色基本信息
type ActorComponent struct {
	Name        string
	IsNPC       bool
	Size        int // 占地边长
	Orientation int // 0..2047，512 为西，1536 为东
	Interacting types.ActorID
}

// LocationComponent 角色位置（西南角地块）
type LocationComponent struct {
	X, Y, Plane int
	// TrueX/TrueY 服务器位置，移动插值时可能与 X/Y 不同
	TrueX, TrueY int
}

// AppearanceComponent 当前播放的动画与图形
type AppearanceComponent struct {
	Animation      int
	AnimationFrame int
	Graphic        int
	GraphicFrame   int
	GraphicHeight  int
}

// PoseComponent 姿态动画槽
// 外观变化时宿主按装备重新计算 Animations，即恢复为 Natural
type PoseComponent struct {
	Animations [types.PoseSlotCount]int
	Natural    [types.PoseSlotCount]int
}

// EquipmentComponent 装备与外观覆盖
type EquipmentComponent struct {
	// Items 按槽位索引的物品 ID，-1 表示空
	Items [types.KitSlotCount]int
	// Overrides 外观覆盖：槽位 -> kit
	Overrides map[types.KitSlot]int
}

// ProjectileComponent 存活的投射物
type ProjectileComponent struct {
	ID          int
	Plane       int
	StartX      int // 本地坐标
	StartY      int
	Height      int
	StartCycle  int
	EndCycle    int
	Slope       int
	StartHeight int
	EndHeight   int
	Interacting types.ActorID
	TargetX     int // 本地坐标
	TargetY     int
}

// EffectObjectComponent 独立动画物体
type EffectObjectComponent struct {
	Model     int
	Animation int
	X, Y      int
	Plane     int
	Recolor   *color.RGBA
}
