package systems

import (
	"github.com/decker502/transmog/pkg/client"
	"github.com/decker502/transmog/pkg/config"
	"github.com/decker502/transmog/pkg/types"
)

// fakeActor 测试用角色状态
type fakeActor struct {
	npc         bool
	size        int
	orientation int
	world       client.WorldPoint
	local       client.LocalPoint
	trueLocal   client.LocalPoint
	interacting types.ActorID

	animation      int
	animationFrame int
	graphic        int
	graphicFrame   int
	graphicHeight  int
	poses          [types.PoseSlotCount]int
}

// fakeClient 记录所有外观修改的测试宿主
type fakeClient struct {
	state   types.GameState
	cycle   int
	player  types.ActorID
	actors  map[types.ActorID]*fakeActor
	nextID  types.ActorID
	handles types.ProjectileHandle

	created   []client.Projectile
	endCycles map[types.ProjectileHandle]int
	effects   []client.EffectObject
	kits      map[types.KitSlot]int

	// onCreate 在 CreateProjectile 返回前调用，模拟宿主同步派发投射物事件
	onCreate func(p client.Projectile)
}

func newFakeClient() *fakeClient {
	c := &fakeClient{
		state:     types.GameStateLoggedIn,
		actors:    make(map[types.ActorID]*fakeActor),
		endCycles: make(map[types.ProjectileHandle]int),
	}
	c.player = c.addActor(&fakeActor{})
	return c
}

// addActor 添加角色，未设置的字段使用默认值
func (c *fakeClient) addActor(a *fakeActor) types.ActorID {
	if a.size == 0 {
		a.size = 1
	}
	if a.animation == 0 {
		a.animation = types.NoAnimation
	}
	if a.graphic == 0 {
		a.graphic = types.NoGraphic
	}
	c.nextID++
	c.actors[c.nextID] = a
	return c.nextID
}

// placeAt 把角色放到地块上，本地坐标和服务器坐标取地块中心
func (c *fakeClient) placeAt(id types.ActorID, x, y int) {
	a := c.actors[id]
	a.world = client.WorldPoint{X: x, Y: y}
	a.local = client.LocalPointFromTile(x, y)
	a.trueLocal = a.local
}

func (c *fakeClient) actor(id types.ActorID) *fakeActor {
	if a, ok := c.actors[id]; ok {
		return a
	}
	return &fakeActor{}
}

func (c *fakeClient) GameState() types.GameState { return c.state }
func (c *fakeClient) GameCycle() int             { return c.cycle }

func (c *fakeClient) LocalPlayer() (types.ActorID, bool) {
	return c.player, c.player != 0
}

func (c *fakeClient) Interacting(actor types.ActorID) (types.ActorID, bool) {
	target := c.actor(actor).interacting
	return target, target != 0
}

func (c *fakeClient) IsNPC(actor types.ActorID) bool           { return c.actor(actor).npc }
func (c *fakeClient) Size(actor types.ActorID) int             { return c.actor(actor).size }
func (c *fakeClient) Orientation(actor types.ActorID) int      { return c.actor(actor).orientation }
func (c *fakeClient) Animation(actor types.ActorID) int        { return c.actor(actor).animation }
func (c *fakeClient) Graphic(actor types.ActorID) int          { return c.actor(actor).graphic }
func (c *fakeClient) WorldLocation(a types.ActorID) client.WorldPoint {
	return c.actor(a).world
}
func (c *fakeClient) LocalLocation(a types.ActorID) client.LocalPoint {
	return c.actor(a).local
}
func (c *fakeClient) TrueLocalLocation(a types.ActorID) client.LocalPoint {
	return c.actor(a).trueLocal
}
func (c *fakeClient) PoseAnimation(actor types.ActorID, slot types.PoseSlot) int {
	return c.actor(actor).poses[slot]
}

func (c *fakeClient) SetAnimation(actor types.ActorID, id int)     { c.actor(actor).animation = id }
func (c *fakeClient) SetAnimationFrame(actor types.ActorID, f int) { c.actor(actor).animationFrame = f }
func (c *fakeClient) SetGraphic(actor types.ActorID, id int)       { c.actor(actor).graphic = id }
func (c *fakeClient) SetGraphicFrame(actor types.ActorID, f int)   { c.actor(actor).graphicFrame = f }
func (c *fakeClient) SetGraphicHeight(actor types.ActorID, h int)  { c.actor(actor).graphicHeight = h }
func (c *fakeClient) SetPoseAnimation(actor types.ActorID, slot types.PoseSlot, id int) {
	c.actor(actor).poses[slot] = id
}

func (c *fakeClient) SetKitOverrides(actor types.ActorID, kits map[types.KitSlot]int) {
	c.kits = kits
}

func (c *fakeClient) CreateProjectile(p client.Projectile) types.ProjectileHandle {
	c.handles++
	p.Handle = c.handles
	c.created = append(c.created, p)
	if c.onCreate != nil {
		c.onCreate(p)
	}
	return p.Handle
}

func (c *fakeClient) SetProjectileEndCycle(h types.ProjectileHandle, cycle int) {
	c.endCycles[h] = cycle
}

func (c *fakeClient) SpawnEffectObject(obj client.EffectObject) {
	c.effects = append(c.effects, obj)
}

// fakeItem 测试用物品元数据
type fakeItem struct {
	name      string
	slot      types.KitSlot
	equipable bool
}

type fakeItems map[int]fakeItem

func (f fakeItems) Canonicalize(itemID int) int { return itemID }

func (f fakeItems) EquipmentSlot(itemID int) (types.KitSlot, bool) {
	item, ok := f[itemID]
	if !ok || !item.equipable {
		return 0, false
	}
	return item.slot, true
}

func (f fakeItems) Name(itemID int) (string, bool) {
	item, ok := f[itemID]
	return item.name, ok
}

const testAnimationSets = `
doNotReplaceIdles: [5160]
sets:
  - name: Unarmed
    animations: {STAND: 808, WALK: 819, RUN: 824, ROTATE: 823, ATTACK_CRUSH: 422, ATTACK_STAB: 423}
  - name: SetX
    items: [22325]
    animations: {STAND: 1, WALK: 2, ATTACK_SLASH: 500, ATTACK_CRUSH: 501}
  - name: SetY
    animations: {STAND: 3, WALK: 4, ATTACK_SLASH: 601, ATTACK_STAB: 602}
  - name: SetZ
    animations: {ATTACK_MAGIC: 700}
`

const testProjectileCasts = `
casts:
  - {name: Fire Strike, castAnimation: 1162, castGfx: 99, projectile: 100, hitGfx: 101, startMovement: 51, startHeight: 43, endHeight: 31, slope: 16}
  - {name: Smoke Rush, castAnimation: 1978, projectile: 384, hitGfx: 385, startMovement: 51, startHeight: 43, endHeight: 0, slope: 16}
  - {name: Ice Barrage, castAnimation: 1979, hitGfx: 369, barrage: true}
  - {name: Saradomin Strike, castAnimation: 811, castGfx: -1, hitGfx: 76}
  - {name: Tumeken's Shadow, castAnimation: 9493, castGfx: 2125, projectile: 2126, hitGfx: 2127, startMovement: 50, startHeight: 40, endHeight: 30, slope: 10, artificial: true}
`

// testItems 22325/11802/4151 为武器，11826 为头部，13237 不可装备
var testItems = fakeItems{
	4151:  {name: "Abyssal whip", slot: types.KitWeapon, equipable: true},
	11802: {name: "Armadyl godsword", slot: types.KitWeapon, equipable: true},
	22325: {name: "Scythe of vitur", slot: types.KitWeapon, equipable: true},
	11826: {name: "Armadyl helmet", slot: types.KitHead, equipable: true},
	13237: {name: "Pegasian boots", equipable: false},
}

func mustAnimationSets() *config.AnimationSetCatalog {
	catalog, err := config.ParseAnimationSets([]byte(testAnimationSets))
	if err != nil {
		panic(err)
	}
	return catalog
}

func mustProjectileCasts() *config.ProjectileCastCatalog {
	catalog, err := config.ParseProjectileCasts([]byte(testProjectileCasts))
	if err != nil {
		panic(err)
	}
	return catalog
}

func newTestResolver() *TransmogResolver {
	return NewTransmogResolver(mustAnimationSets(), mustProjectileCasts(), nil, testItems)
}

// mustSwap 按名称构造法术替换
func mustSwap(casts *config.ProjectileCastCatalog, from, to string) ProjectileSwap {
	a, ok1 := casts.Get(from)
	b, ok2 := casts.Get(to)
	if !ok1 || !ok2 {
		panic("unknown cast " + from + " / " + to)
	}
	return ProjectileSwap{ToReplace: a, ToReplaceWith: b}
}
