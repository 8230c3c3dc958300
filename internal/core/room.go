// internal/core/room.go

package core

import (
	"sort"
	"time"

	"hotelac/internal/db"
	"hotelac/internal/types"
)

// Room 房间的内存权威状态。所有变更都在调度器锁内进行，再写回数据库。
type Room struct {
	RoomID      int
	Status      types.RoomStatus
	DefaultTemp float32 // 无服务时回归的环境温度
	CurrentTemp float32
	TargetTemp  *float32
	ACOn        bool
	ACMode      types.Mode
	FanSpeed    types.FanSpeed

	ACSessionStart   *time.Time
	ServingStartTime *time.Time // 与 BillingStartTemp 同生同灭
	BillingStartTemp *float32
	WaitingStartTime *time.Time
	LastTempUpdate   time.Time
	CoolingPaused    bool
	PauseStartTemp   *float32

	DailyRate     float32
	ScheduleCount int
	CustomerID    *int
	CustomerName  string
	CheckInTime   *time.Time
}

// resetOnPowerOff 关机复位，字段列表即契约：
// 队列与计费锚点全部清空，温度回到环境温度，风速回中风，目标温度回模式默认。
func (r *Room) resetOnPowerOff(modeDefaultTarget float32) {
	r.ACOn = false
	r.ACSessionStart = nil
	r.ServingStartTime = nil
	r.BillingStartTemp = nil
	r.WaitingStartTime = nil
	r.CoolingPaused = false
	r.PauseStartTemp = nil
	r.CurrentTemp = r.DefaultTemp
	r.FanSpeed = types.SpeedMedium
	target := modeDefaultTarget
	r.TargetTemp = &target
}

// registry 房间注册表，内存为权威，落库是旁路
type registry struct {
	rooms    map[int]*Room
	roomRepo *db.RoomRepository
}

func newRegistry(roomRepo *db.RoomRepository, clockNow time.Time) (*registry, error) {
	rows, err := roomRepo.GetAllRooms()
	if err != nil {
		return nil, err
	}
	reg := &registry{
		rooms:    make(map[int]*Room, len(rows)),
		roomRepo: roomRepo,
	}
	for i := range rows {
		reg.rooms[rows[i].RoomID] = roomFromModel(&rows[i], clockNow)
	}
	return reg, nil
}

func (g *registry) get(roomID int) *Room {
	return g.rooms[roomID]
}

// all 按房间号升序返回全部房间，遍历顺序确定
func (g *registry) all() []*Room {
	result := make([]*Room, 0, len(g.rooms))
	for _, room := range g.rooms {
		result = append(result, room)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RoomID < result[j].RoomID })
	return result
}

func (g *registry) flush(room *Room) error {
	return g.roomRepo.SaveRoom(roomToModel(room))
}

func (g *registry) flushAll() {
	for _, room := range g.all() {
		_ = g.flush(room)
	}
}

func roomFromModel(m *db.RoomInfo, clockNow time.Time) *Room {
	room := &Room{
		RoomID:           m.RoomID,
		Status:           m.Status,
		DefaultTemp:      m.DefaultTemp,
		CurrentTemp:      m.CurrentTemp,
		TargetTemp:       m.TargetTemp,
		ACOn:             m.ACOn,
		ACMode:           m.ACMode,
		FanSpeed:         m.FanSpeed,
		ACSessionStart:   m.ACSessionStart,
		ServingStartTime: m.ServingStartTime,
		BillingStartTemp: m.BillingStartTemp,
		WaitingStartTime: m.WaitingStartTime,
		CoolingPaused:    m.CoolingPaused,
		PauseStartTemp:   m.PauseStartTemp,
		DailyRate:        m.DailyRate,
		ScheduleCount:    m.ScheduleCount,
		CustomerName:     m.CustomerName,
		CheckInTime:      m.CheckInTime,
	}
	if m.LastTempUpdate != nil {
		room.LastTempUpdate = *m.LastTempUpdate
	} else {
		room.LastTempUpdate = clockNow
	}
	if room.FanSpeed == "" {
		room.FanSpeed = types.SpeedMedium
	}
	if room.ACMode == "" {
		room.ACMode = types.ModeCooling
	}
	return room
}

func roomToModel(r *Room) *db.RoomInfo {
	lastUpdate := r.LastTempUpdate
	return &db.RoomInfo{
		RoomID:           r.RoomID,
		Status:           r.Status,
		DefaultTemp:      r.DefaultTemp,
		CurrentTemp:      r.CurrentTemp,
		TargetTemp:       r.TargetTemp,
		ACOn:             r.ACOn,
		ACMode:           r.ACMode,
		FanSpeed:         r.FanSpeed,
		ACSessionStart:   r.ACSessionStart,
		ServingStartTime: r.ServingStartTime,
		BillingStartTemp: r.BillingStartTemp,
		WaitingStartTime: r.WaitingStartTime,
		LastTempUpdate:   &lastUpdate,
		CoolingPaused:    r.CoolingPaused,
		PauseStartTemp:   r.PauseStartTemp,
		DailyRate:        r.DailyRate,
		ScheduleCount:    r.ScheduleCount,
		CustomerName:     r.CustomerName,
		CheckInTime:      r.CheckInTime,
	}
}
