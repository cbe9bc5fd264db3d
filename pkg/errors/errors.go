package errors

import "errors"

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
// 典型场景：两名经理同时终审同一换班申请
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")
