package systems

import (
	"github.com/decker502/transmog/pkg/components"
	"github.com/decker502/transmog/pkg/ecs"
)

// LifetimeSystem 管理实体的生命周期
type LifetimeSystem struct {
	entityManager *ecs.EntityManager
}

// NewLifetimeSystem 创建一个新的生命周期系统
func NewLifetimeSystem(em *ecs.EntityManager) *LifetimeSystem {
	return &LifetimeSystem{
		entityManager: em,
	}
}

// Update 标记并销毁到达过期周期的实体
// 实体在下一次 Flush 时真正移除
func (s *LifetimeSystem) Update(cycle int) {
	entities := ecs.Query[*components.LifetimeComponent](s.entityManager)

	for _, id := range entities {
		lifetime, ok := ecs.Get[*components.LifetimeComponent](s.entityManager, id)
		if !ok {
			continue
		}

		if cycle >= lifetime.ExpireCycle {
			lifetime.IsExpired = true
		}

		if lifetime.IsExpired {
			s.entityManager.Destroy(id)
		}
	}
}
