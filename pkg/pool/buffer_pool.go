// Package pool 提供折线点数组的复用池
//
// 折线每帧都可能增减一个点，动画控制器通过本池借出/归还定长点数组，
// 避免逐帧分配。池是单线程使用的，不加锁。
package pool

import (
	"log"

	"github.com/gonewx/linepull/pkg/geom"
)

// 默认参数
const (
	// DefaultMaxArrayLength 单个池化数组的最大长度
	DefaultMaxArrayLength = 100
	// DefaultMaxPooled 池中最多创建的数组个数
	DefaultMaxPooled = 64
)

// buffer 池化数组的包装
type buffer struct {
	data []geom.Vec3
}

// reset 将整个底层存储清零
func (b *buffer) reset() {
	clear(b.data[:cap(b.data)])
}

// ensure 保证底层存储至少为 length，只增不减
func (b *buffer) ensure(length int) {
	if cap(b.data) < length {
		b.data = make([]geom.Vec3, length)
	}
	b.data = b.data[:length]
}

// Stats 池的运行统计
type Stats struct {
	Hits       int // 从池中借出的次数
	Misses     int // 超出容量或池已满时直接分配的次数
	Created    int // 已创建的池化数组个数
	Free       int // 当前空闲个数
	CheckedOut int // 当前借出个数
}

// BufferPool 点数组复用池
//
// 不变量：
//   - 一个池化数组要么空闲，要么被恰好一个持有者借出
//   - 归还后的数组被清零，再次借出前也会清零
//   - 超出 maxArrayLength 的请求直接分配，不被池跟踪
type BufferPool struct {
	maxArrayLength int
	maxPooled      int

	free       []*buffer
	checkedOut map[*geom.Vec3]*buffer // 以底层数组首元素地址识别借出的数组

	stats Stats
}

// NewBufferPool 创建点数组复用池
//
// 参数:
//   - maxArrayLength: 可池化的最大数组长度（<=0 时使用默认值）
//   - maxPooled: 池最多创建的数组个数（<=0 时使用默认值）
//
// 返回:
//   - *BufferPool: 池实例
func NewBufferPool(maxArrayLength, maxPooled int) *BufferPool {
	if maxArrayLength <= 0 {
		maxArrayLength = DefaultMaxArrayLength
	}
	if maxPooled <= 0 {
		maxPooled = DefaultMaxPooled
	}
	return &BufferPool{
		maxArrayLength: maxArrayLength,
		maxPooled:      maxPooled,
		free:           make([]*buffer, 0, maxPooled),
		checkedOut:     make(map[*geom.Vec3]*buffer),
	}
}

// MaxArrayLength 返回可池化的最大数组长度
func (p *BufferPool) MaxArrayLength() int {
	return p.maxArrayLength
}

// GetArray 借出长度为 length 的点数组
//
// length <= 0 或 length > maxArrayLength 时直接分配新数组（池未命中，不是错误）；
// 池中无空闲且已达到创建上限时同样直接分配。
//
// 参数:
//   - length: 需要的数组长度
//
// 返回:
//   - []geom.Vec3: 长度为 length 的清零数组
func (p *BufferPool) GetArray(length int) []geom.Vec3 {
	if length <= 0 || length > p.maxArrayLength {
		p.stats.Misses++
		if length < 0 {
			length = 0
		}
		return make([]geom.Vec3, length)
	}

	var b *buffer
	if n := len(p.free); n > 0 {
		b = p.free[n-1]
		p.free[n-1] = nil
		p.free = p.free[:n-1]
	} else if p.stats.Created < p.maxPooled {
		b = &buffer{data: make([]geom.Vec3, length)}
		p.stats.Created++
	} else {
		p.stats.Misses++
		return make([]geom.Vec3, length)
	}

	b.ensure(length)
	clear(b.data)
	p.checkedOut[key(b.data)] = b
	p.stats.Hits++
	return b.data
}

// RecycleArray 归还之前借出的数组
//
// 对非本池借出的数组（包括直接分配的溢出数组）或已归还的数组为空操作。
func (p *BufferPool) RecycleArray(array []geom.Vec3) {
	if cap(array) == 0 {
		return
	}
	k := key(array)
	b, ok := p.checkedOut[k]
	if !ok {
		return
	}
	delete(p.checkedOut, k)
	b.reset()
	p.free = append(p.free, b)
}

// Owns 判断数组当前是否为本池借出状态
func (p *BufferPool) Owns(array []geom.Vec3) bool {
	if cap(array) == 0 {
		return false
	}
	_, ok := p.checkedOut[key(array)]
	return ok
}

// Stats 返回统计快照
func (p *BufferPool) Stats() Stats {
	s := p.stats
	s.Free = len(p.free)
	s.CheckedOut = len(p.checkedOut)
	return s
}

// Reset 丢弃所有借出记录并清空空闲列表
// 仅用于关卡彻底卸载，调用后旧数组全部视为外来数组
func (p *BufferPool) Reset() {
	if n := len(p.checkedOut); n > 0 {
		log.Printf("[BufferPool] Warning: reset with %d arrays still checked out", n)
	}
	p.free = p.free[:0]
	p.checkedOut = make(map[*geom.Vec3]*buffer)
	p.stats = Stats{}
}

// key 以底层数组首元素地址作为身份
func key(array []geom.Vec3) *geom.Vec3 {
	return &array[:1][0]
}
