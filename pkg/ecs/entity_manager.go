// Package ecs 模拟宿主的实体存储
//
// 组件按类型分表存放，每张表以实体 ID 为键。
// 查询结果总是按 ID 升序返回，同一输入的模拟过程逐周期可复现。
package ecs

import "sort"

// EntityID 实体标识，0 保留为无效 ID
type EntityID uint64

// tableKey 每个组件类型对应一个不同的键
type tableKey[T any] struct{}

type table interface {
	drop(id EntityID)
}

type componentTable[T any] map[EntityID]T

func (t componentTable[T]) drop(id EntityID) { delete(t, id) }

// EntityManager 实体与组件表
type EntityManager struct {
	nextID EntityID
	alive  map[EntityID]struct{}
	tables map[any]table
	// 本周期内标记销毁的实体，Flush 时统一移除
	doomed []EntityID
}

// NewEntityManager 创建空存储
func NewEntityManager() *EntityManager {
	return &EntityManager{
		nextID: 1,
		alive:  make(map[EntityID]struct{}),
		tables: make(map[any]table),
	}
}

// Create 分配新实体
func (em *EntityManager) Create() EntityID {
	id := em.nextID
	em.nextID++
	em.alive[id] = struct{}{}
	return id
}

// Exists 实体是否存在（已标记但未 Flush 的实体仍然存在）
func (em *EntityManager) Exists(id EntityID) bool {
	_, ok := em.alive[id]
	return ok
}

// Destroy 标记实体待销毁，重复标记无副作用
func (em *EntityManager) Destroy(id EntityID) {
	if em.Exists(id) {
		em.doomed = append(em.doomed, id)
	}
}

// Flush 移除所有已标记实体及其组件
func (em *EntityManager) Flush() {
	for _, id := range em.doomed {
		if !em.Exists(id) {
			continue
		}
		delete(em.alive, id)
		for _, t := range em.tables {
			t.drop(id)
		}
	}
	em.doomed = em.doomed[:0]
}

func tableOf[T any](em *EntityManager, create bool) componentTable[T] {
	if t, ok := em.tables[tableKey[T]{}]; ok {
		return t.(componentTable[T])
	}
	if !create {
		return nil
	}
	t := make(componentTable[T])
	em.tables[tableKey[T]{}] = t
	return t
}

// Add 为实体设置 T 类型组件，已有的同类型组件被替换
// 实体不存在时忽略
//
//	ecs.Add(em, id, &components.LocationComponent{X: 10, Y: 10})
func Add[T any](em *EntityManager, id EntityID, component T) {
	if !em.Exists(id) {
		return
	}
	tableOf[T](em, true)[id] = component
}

// Get 读取实体的 T 类型组件
func Get[T any](em *EntityManager, id EntityID) (T, bool) {
	c, ok := tableOf[T](em, false)[id]
	return c, ok
}

// Query 拥有 T 类型组件的全部实体，按 ID 升序
func Query[T any](em *EntityManager) []EntityID {
	t := tableOf[T](em, false)
	ids := make([]EntityID, 0, len(t))
	for id := range t {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
