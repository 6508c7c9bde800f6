package errors

import "errors"

// ── 错误类别 ──
//
// 业务模块的哨兵错误均归属于以下某一类别，Handler 按类别映射 HTTP 状态码。
// errors.Is(err, ErrNotFound) 与 errors.Is(err, service.ErrEventNotFound) 同时成立。

var (
	ErrNotFound                  = errors.New("资源不存在")
	ErrForbidden                 = errors.New("无权执行该操作")
	ErrInvalidArgument           = errors.New("参数不合法")
	ErrInvalidState              = errors.New("当前状态不允许该操作")
	ErrCapacityExceeded          = errors.New("活动名额已满")
	ErrWindowClosed              = errors.New("操作时间窗口已关闭")
	ErrDuplicateActiveEnrollment = errors.New("已存在有效报名")
	ErrAlreadyIssued             = errors.New("证书已签发")
	ErrScoreOutOfRange           = errors.New("评分超出范围")
	ErrRoleMismatch              = errors.New("角色不符")
	ErrTooEarly                  = errors.New("尚未到达可操作时间")
)

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")

// Error 归属于某一类别的业务错误
type Error struct {
	kind error
	msg  string
}

// New 创建归属于 kind 类别的业务错误
func New(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string { return e.msg }

// Unwrap 使 errors.Is 能够命中类别哨兵
func (e *Error) Unwrap() error { return e.kind }

// Kind 返回错误所属类别；非业务错误返回 nil
func Kind(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	if errors.Is(err, ErrOptimisticLock) {
		return ErrOptimisticLock
	}
	return nil
}
