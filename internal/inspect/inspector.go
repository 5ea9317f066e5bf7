// Package inspect 通过 websocket 推送当前的解析状态，用于调试规则
//
// 游戏线程调用 Publish 投递快照（不阻塞，缓冲区满时丢弃），
// Run 所在的 goroutine 负责序列化并广播给所有连接。
package inspect

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/decker502/transmog/pkg/systems"
	"github.com/decker502/transmog/pkg/types"
	"github.com/gorilla/websocket"
)

// DefaultBuffer 快照缓冲区默认长度
const DefaultBuffer = 16

// ProjectileSwapView 法术替换的可序列化形式
type ProjectileSwapView struct {
	ToReplace     string `json:"toReplace"`
	ToReplaceWith string `json:"toReplaceWith"`
}

// Snapshot 一次解析结果的不可变副本
type Snapshot struct {
	Cycle           int                  `json:"cycle"`
	Equipped        []int                `json:"equipped"`
	ModelSwaps      map[string]int       `json:"modelSwaps"`
	Animations      map[string]int       `json:"animations"`
	ProjectileSwaps []ProjectileSwapView `json:"projectileSwaps"`
	ScytheSwing     string               `json:"scytheSwing,omitempty"` // 效果颜色，未生效时为空
}

// NewSnapshot 复制 ResolutionState
func NewSnapshot(cycle int, state *systems.ResolutionState) Snapshot {
	s := Snapshot{
		Cycle:           cycle,
		Equipped:        append([]int{}, state.Equipped...),
		ModelSwaps:      make(map[string]int, len(state.ModelSwaps)),
		Animations:      make(map[string]int),
		ProjectileSwaps: make([]ProjectileSwapView, 0, len(state.ProjectileSwaps)),
	}
	for slot, kit := range state.ModelSwaps {
		s.ModelSwaps[slot.String()] = kit
	}
	for category, id := range state.Animations.Map() {
		s.Animations[category.String()] = id
	}
	for _, swap := range state.ProjectileSwaps {
		s.ProjectileSwaps = append(s.ProjectileSwaps, ProjectileSwapView{
			ToReplace:     swap.ToReplace.Name,
			ToReplaceWith: swap.ToReplaceWith.Name,
		})
	}
	if state.ScytheSwing != nil {
		s.ScytheSwing = state.ScytheSwing.Color
		if s.ScytheSwing == "" {
			s.ScytheSwing = "default"
		}
	}
	return s
}

// Config 监视器配置
type Config struct {
	Logger *log.Logger
	// Buffer 快照缓冲区长度，<= 0 时使用 DefaultBuffer
	Buffer int
}

// Inspector 解析状态广播器
type Inspector struct {
	logger   *log.Logger
	upgrader websocket.Upgrader
	updates  chan Snapshot

	mu      sync.Mutex
	conns   map[*websocket.Conn]struct{}
	latest  []byte
	dropped int
}

// New 创建监视器，需要另外启动 Run
func New(cfg Config) *Inspector {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	buffer := cfg.Buffer
	if buffer <= 0 {
		buffer = DefaultBuffer
	}

	return &Inspector{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		updates: make(chan Snapshot, buffer),
		conns:   make(map[*websocket.Conn]struct{}),
	}
}

// Publish 投递快照，缓冲区满时丢弃并返回 false
func (i *Inspector) Publish(s Snapshot) bool {
	select {
	case i.updates <- s:
		return true
	default:
		i.mu.Lock()
		i.dropped++
		i.mu.Unlock()
		return false
	}
}

// Dropped 因缓冲区满而丢弃的快照数
func (i *Inspector) Dropped() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.dropped
}

// Observer 返回可以注册到 Replacer.Observe 的回调
// cycle 提供快照的时间戳
func (i *Inspector) Observer(cycle func() int) func(*systems.ResolutionState) {
	return func(state *systems.ResolutionState) {
		i.Publish(NewSnapshot(cycle(), state))
	}
}

// Run 广播快照直到 ctx 结束，结束时关闭所有连接
func (i *Inspector) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			i.closeAll()
			return
		case s := <-i.updates:
			data, err := json.Marshal(s)
			if err != nil {
				i.logger.Printf("[Inspector] failed to marshal snapshot: %v", err)
				continue
			}
			i.broadcast(data)
		}
	}
}

func (i *Inspector) broadcast(data []byte) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.latest = data
	for conn := range i.conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			i.logger.Printf("[Inspector] dropping connection %s: %v", conn.RemoteAddr(), err)
			delete(i.conns, conn)
			conn.Close()
		}
	}
}

func (i *Inspector) closeAll() {
	i.mu.Lock()
	defer i.mu.Unlock()

	message := websocket.FormatCloseMessage(websocket.CloseGoingAway, "inspector stopped")
	for conn := range i.conns {
		conn.WriteMessage(websocket.CloseMessage, message)
		conn.Close()
		delete(i.conns, conn)
	}
}

// Handle 升级为 websocket 连接，先发送最近一次快照，之后接收广播
func (i *Inspector) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := i.upgrader.Upgrade(w, r, nil)
	if err != nil {
		i.logger.Printf("[Inspector] upgrade failed: %v", err)
		return
	}

	i.mu.Lock()
	if i.latest != nil {
		if err := conn.WriteMessage(websocket.TextMessage, i.latest); err != nil {
			i.mu.Unlock()
			conn.Close()
			return
		}
	}
	i.conns[conn] = struct{}{}
	i.mu.Unlock()

	// 只读取控制帧；客户端断开时注销
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	i.mu.Lock()
	if _, ok := i.conns[conn]; ok {
		delete(i.conns, conn)
		conn.Close()
	}
	i.mu.Unlock()
}

// Connections 当前连接数
func (i *Inspector) Connections() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.conns)
}

// SortedSlots 按槽位顺序返回快照中有替换的槽位名称
func (s Snapshot) SortedSlots() []string {
	names := make([]string, 0, len(s.ModelSwaps))
	for _, slot := range types.AllKitSlots() {
		if _, ok := s.ModelSwaps[slot.String()]; ok {
			names = append(names, slot.String())
		}
	}
	return names
}
