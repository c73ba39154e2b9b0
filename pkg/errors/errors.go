// Package errors 定义 repository 与 service 共享的跨层错误。
package errors

import "errors"

// ErrOptimisticLock 乐观锁冲突：分配记录或用户已被并发修改，
// 调用方应重新读取后重试
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")
