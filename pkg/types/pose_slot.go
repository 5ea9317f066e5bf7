package types

// PoseSlot 角色的姿态动画槽（站立/转身/行走/奔跑等）
// 宿主客户端为每个角色单独保存这些动画 ID，与当前播放的动画无关
type PoseSlot int

const (
	PoseIdle PoseSlot = iota
	PoseIdleRotateLeft
	PoseIdleRotateRight
	PoseWalk
	PoseWalkRotate180
	PoseWalkRotateLeft
	PoseWalkRotateRight
	PoseRun

	// PoseSlotCount 姿态槽总数
	PoseSlotCount
)

var poseCategories = [PoseSlotCount]AnimationCategory{
	PoseIdle:            AnimStand,
	PoseIdleRotateLeft:  AnimRotate,
	PoseIdleRotateRight: AnimRotate,
	PoseWalk:            AnimWalk,
	PoseWalkRotate180:   AnimWalkBackward,
	PoseWalkRotateLeft:  AnimShuffleLeft,
	PoseWalkRotateRight: AnimShuffleRight,
	PoseRun:             AnimRun,
}

// Category 返回驱动该姿态槽的叶子分类
func (p PoseSlot) Category() AnimationCategory {
	return poseCategories[p]
}

// AllPoseSlots 按顺序返回所有姿态槽
func AllPoseSlots() []PoseSlot {
	slots := make([]PoseSlot, PoseSlotCount)
	for i := range slots {
		slots[i] = PoseSlot(i)
	}
	return slots
}
