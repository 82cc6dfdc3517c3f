package task

import (
	"context"
	"log"
	"sync"

	"github.com/innomatricstech/sadhana-cart-seller-panel1/pkg/cache"

	"github.com/robfig/cron/v3"
)

// ==================== CacheJanitorTask 快照清理任务 ====================

// CacheJanitorTask 定期清理过期的订单快照
// 内存缓存靠惰性删除 + 定期清扫兜底；Redis 自带 TTL 时清扫是空操作。
// 任务只碰进程内/缓存层数据，不发任何远端请求。
type CacheJanitorTask struct {
	snapshots cache.SnapshotCache
	cron      *cron.Cron
	spec      string

	mutex   sync.Mutex
	running bool
}

// NewCacheJanitorTask 创建快照清理任务
// spec 为 cron 表达式（带秒），默认每 5 分钟一次
func NewCacheJanitorTask(snapshots cache.SnapshotCache, spec string) *CacheJanitorTask {
	if spec == "" {
		spec = "0 */5 * * * *"
	}
	return &CacheJanitorTask{
		snapshots: snapshots,
		cron:      cron.New(cron.WithSeconds()),
		spec:      spec,
	}
}

// Start 启动定时清扫
func (t *CacheJanitorTask) Start() error {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.running {
		return nil
	}

	if _, err := t.cron.AddFunc(t.spec, t.sweep); err != nil {
		return err
	}

	t.cron.Start()
	t.running = true
	log.Printf("[CacheJanitor] 已启动, 清扫周期 %s", t.spec)
	return nil
}

// Stop 停止任务，等待执行中的清扫结束
func (t *CacheJanitorTask) Stop() {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if !t.running {
		return
	}

	<-t.cron.Stop().Done()
	t.running = false
	log.Println("[CacheJanitor] 已停止")
}

// SweepNow 手动触发一次清扫
func (t *CacheJanitorTask) SweepNow() int {
	return t.snapshots.Sweep(context.Background())
}

func (t *CacheJanitorTask) sweep() {
	if n := t.snapshots.Sweep(context.Background()); n > 0 {
		log.Printf("[CacheJanitor] 清理了 %d 条过期快照", n)
	}
}
