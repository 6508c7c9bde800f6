package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew_IsKind(t *testing.T) {
	errEventNotFound := New(ErrNotFound, "活动不存在")

	if !errors.Is(errEventNotFound, ErrNotFound) {
		t.Error("业务错误应命中类别哨兵")
	}
	if errors.Is(errEventNotFound, ErrForbidden) {
		t.Error("业务错误不应命中其他类别")
	}

	wrapped := fmt.Errorf("查询失败: %w", errEventNotFound)
	if !errors.Is(wrapped, errEventNotFound) {
		t.Error("包装后仍应命中业务哨兵")
	}
	if Kind(wrapped) != ErrNotFound {
		t.Errorf("期望 Kind=ErrNotFound，实际=%v", Kind(wrapped))
	}
	if errEventNotFound.Error() != "活动不存在" {
		t.Errorf("错误信息不符: %s", errEventNotFound.Error())
	}
}

func TestKind_NonBusinessError(t *testing.T) {
	if Kind(errors.New("boom")) != nil {
		t.Error("非业务错误的类别应为 nil")
	}
	if Kind(fmt.Errorf("tx: %w", ErrOptimisticLock)) != ErrOptimisticLock {
		t.Error("乐观锁冲突应被识别")
	}
}
