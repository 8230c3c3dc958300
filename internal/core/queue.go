// internal/core/queue.go

package core

import (
	"container/heap"
	"sort"
	"time"

	"hotelac/internal/types"
)

// ServiceRequest 服务请求，房间在服务队列或等待队列中各有一条。
// ServingTime 与 WaitingTime 恰有一个非空。
type ServiceRequest struct {
	RoomID      int
	FanSpeed    types.FanSpeed
	Mode        types.Mode
	TargetTemp  float32
	ServingTime *time.Time
	WaitingTime *time.Time
}

func (r *ServiceRequest) priority() int {
	return types.SpeedPriority[r.FanSpeed]
}

// priorityItem 等待队列堆节点
type priorityItem struct {
	req       *ServiceRequest
	indexHeap int
}

type priorityQueue []*priorityItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].req.priority() == pq[j].req.priority() {
		// 同优先级先到先服务
		return pq[i].req.WaitingTime.Before(*pq[j].req.WaitingTime)
	}
	return pq[i].req.priority() > pq[j].req.priority()
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].indexHeap = i
	pq[j].indexHeap = j
}

func (pq *priorityQueue) Push(x interface{}) {
	n := len(*pq)
	item := x.(*priorityItem)
	item.indexHeap = n
	*pq = append(*pq, item)
}

func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.indexHeap = -1
	*pq = old[0 : n-1]
	return item
}

// queueManager 服务队列 + 等待队列。不自带锁，由调度器锁保护。
type queueManager struct {
	serving   map[int]*ServiceRequest
	waitQueue *priorityQueue
	waitIndex map[int]*priorityItem
}

func newQueueManager() *queueManager {
	pq := make(priorityQueue, 0)
	heap.Init(&pq)
	return &queueManager{
		serving:   make(map[int]*ServiceRequest),
		waitQueue: &pq,
		waitIndex: make(map[int]*priorityItem),
	}
}

func (qm *queueManager) servingCount() int {
	return len(qm.serving)
}

func (qm *queueManager) waitingCount() int {
	return qm.waitQueue.Len()
}

func (qm *queueManager) isServing(roomID int) bool {
	_, ok := qm.serving[roomID]
	return ok
}

func (qm *queueManager) isWaiting(roomID int) bool {
	_, ok := qm.waitIndex[roomID]
	return ok
}

// getRequest 返回房间当前的服务请求，不在任一队列时返回 nil
func (qm *queueManager) getRequest(roomID int) *ServiceRequest {
	if req, ok := qm.serving[roomID]; ok {
		return req
	}
	if item, ok := qm.waitIndex[roomID]; ok {
		return item.req
	}
	return nil
}

func (qm *queueManager) addServing(req *ServiceRequest) {
	req.WaitingTime = nil
	qm.serving[req.RoomID] = req
}

func (qm *queueManager) addWaiting(req *ServiceRequest) {
	req.ServingTime = nil
	item := &priorityItem{req: req}
	heap.Push(qm.waitQueue, item)
	qm.waitIndex[req.RoomID] = item
}

func (qm *queueManager) removeServing(roomID int) *ServiceRequest {
	if req, ok := qm.serving[roomID]; ok {
		delete(qm.serving, roomID)
		return req
	}
	return nil
}

func (qm *queueManager) removeWaiting(roomID int) *ServiceRequest {
	if item, ok := qm.waitIndex[roomID]; ok {
		heap.Remove(qm.waitQueue, item.indexHeap)
		delete(qm.waitIndex, roomID)
		return item.req
	}
	return nil
}

// remove 从任意队列移除
func (qm *queueManager) remove(roomID int) *ServiceRequest {
	if req := qm.removeServing(roomID); req != nil {
		return req
	}
	return qm.removeWaiting(roomID)
}

// popWaiting 取出优先级最高、等待最久的请求
func (qm *queueManager) popWaiting() *ServiceRequest {
	if qm.waitQueue.Len() == 0 {
		return nil
	}
	item := heap.Pop(qm.waitQueue).(*priorityItem)
	delete(qm.waitIndex, item.req.RoomID)
	return item.req
}

// fixWaiting 等待项参数变化后恢复堆序
func (qm *queueManager) fixWaiting(roomID int) {
	if item, ok := qm.waitIndex[roomID]; ok {
		heap.Fix(qm.waitQueue, item.indexHeap)
	}
}

// servingRequests 服务队列快照，顺序确定（按房间号）
func (qm *queueManager) servingRequests() []*ServiceRequest {
	result := make([]*ServiceRequest, 0, len(qm.serving))
	for _, req := range qm.serving {
		result = append(result, req)
	}
	sortByRoomID(result)
	return result
}

// waitingRequests 等待队列快照，按出队顺序
func (qm *queueManager) waitingRequests() []*ServiceRequest {
	result := make([]*ServiceRequest, 0, qm.waitQueue.Len())
	for _, item := range *qm.waitQueue {
		result = append(result, item.req)
	}
	sortWaiting(result)
	return result
}

func sortByRoomID(reqs []*ServiceRequest) {
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].RoomID < reqs[j].RoomID })
}

func sortWaiting(reqs []*ServiceRequest) {
	sort.Slice(reqs, func(i, j int) bool {
		if reqs[i].priority() == reqs[j].priority() {
			return reqs[i].WaitingTime.Before(*reqs[j].WaitingTime)
		}
		return reqs[i].priority() > reqs[j].priority()
	})
}
