package core

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"hotelac/internal/config"
	"hotelac/internal/db"
	"hotelac/internal/logger"
	"hotelac/internal/timemaster"
)

func init() {
	// 测试只关心断言，压掉调度日志
	logger.SetLevel(logger.ErrorLevel)
}

// newTestCore 独立数据库 + 暂停的时钟。时间全部用 JumpTo 推进，测试完全确定。
func newTestCore(t *testing.T) (*Core, *timemaster.TimeMaster) {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "hotel_test.db"))
	require.NoError(t, err)
	require.NoError(t, db.SeedRooms(database, 5))
	require.NoError(t, db.SeedACConfig(database))

	clock := timemaster.New(1.0)
	clock.Pause()

	cfg := &config.Config{
		ACTotalCount:         3,
		RoomCount:            5,
		DefaultTemp:          25.0,
		TimeSlice:            120,
		CoolingMinTemp:       18,
		CoolingMaxTemp:       28,
		CoolingDefaultTarget: 25,
		HeatingMinTemp:       18,
		HeatingMaxTemp:       25,
		HeatingDefaultTarget: 23,
		EnableCycleDailyFee:  false,
		BillingRoomRate:      100,
	}

	c, err := New(database, clock, cfg)
	require.NoError(t, err)
	return c, clock
}

// advance 把逻辑时钟向前拨 d
func advance(clock *timemaster.TimeMaster, d time.Duration) {
	clock.JumpTo(clock.Now().Add(d))
}

func floatPtr(v float32) *float32 {
	return &v
}

// acDetails 房间的 AC 类型详单
func acDetails(t *testing.T, c *Core, roomID int) []db.DetailRecord {
	t.Helper()
	details, err := c.detailRepo.GetDetailsByRoom(roomID)
	require.NoError(t, err)
	var result []db.DetailRecord
	for _, d := range details {
		if d.DetailType == "AC" {
			result = append(result, d)
		}
	}
	return result
}

// requireInvariants 校验核心不变量：容量上限、锚点三等价、队列互斥
func requireInvariants(t *testing.T, c *Core) {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()

	require.LessOrEqual(t, c.queue.servingCount(), c.cfg.ACTotalCount, "服务数超过容量")

	for _, room := range c.rooms.all() {
		serving := c.queue.isServing(room.RoomID)
		waiting := c.queue.isWaiting(room.RoomID)

		require.Equal(t, serving, room.ServingStartTime != nil,
			"房间 %d serving_start_time 与服务队列不一致", room.RoomID)
		require.Equal(t, serving, room.BillingStartTemp != nil,
			"房间 %d billing_start_temp 与服务队列不一致", room.RoomID)

		states := 0
		if serving {
			states++
		}
		if waiting {
			states++
		}
		if room.CoolingPaused {
			states++
		}
		require.LessOrEqual(t, states, 1, "房间 %d 同时处于多个队列状态", room.RoomID)

		if !room.ACOn {
			require.Nil(t, room.ServingStartTime, "关机房间 %d 残留服务锚点", room.RoomID)
			require.Nil(t, room.WaitingStartTime, "关机房间 %d 残留等待锚点", room.RoomID)
			require.Nil(t, room.BillingStartTemp, "关机房间 %d 残留计费锚点", room.RoomID)
			require.False(t, room.CoolingPaused, "关机房间 %d 残留暂停标记", room.RoomID)
		}
	}
}
