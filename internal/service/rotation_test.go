package service

import (
	"errors"
	"testing"
)

func TestRotationCursorNext(t *testing.T) {
	c := newRotationCursor([]string{"a", "b", "c"}, 0)

	want := []string{"a", "b", "c", "a", "b"}
	for i, w := range want {
		got, err := c.next()
		if err != nil {
			t.Fatalf("next 应成功: %v", err)
		}
		if got != w {
			t.Errorf("第%d次 next: 期望%s，实际%s", i+1, w, got)
		}
	}
	if c.position() != 5 {
		t.Errorf("游标位置期望5，实际%d", c.position())
	}
}

func TestRotationCursorPeekDoesNotAdvance(t *testing.T) {
	c := newRotationCursor([]string{"a", "b", "c"}, 1)

	p0, _ := c.peek(0)
	p1, _ := c.peek(1)
	if p0 != "b" || p1 != "c" {
		t.Errorf("peek 结果错误: peek(0)=%s, peek(1)=%s", p0, p1)
	}
	if c.position() != 1 {
		t.Errorf("peek 不应推进游标: 期望1，实际%d", c.position())
	}

	got, _ := c.next()
	if got != "b" {
		t.Errorf("peek 后 next 应仍从原顺序接续: 期望b，实际%s", got)
	}
}

func TestRotationCursorResumeFromPersistedIndex(t *testing.T) {
	// 上次生成结束于 index=4，池长3 → 接续人选为 pool[4%3]=b
	c := newRotationCursor([]string{"a", "b", "c"}, 4)
	got, _ := c.next()
	if got != "b" {
		t.Errorf("持久化游标接续错误: 期望b，实际%s", got)
	}
}

func TestRotationCursorEmptyPool(t *testing.T) {
	c := newRotationCursor(nil, 0)
	if _, err := c.next(); !errors.Is(err, ErrPoolExhausted) {
		t.Errorf("空池 next 应返回 ErrPoolExhausted，实际: %v", err)
	}
	if _, err := c.peek(0); !errors.Is(err, ErrPoolExhausted) {
		t.Errorf("空池 peek 应返回 ErrPoolExhausted，实际: %v", err)
	}
}

func TestRotationCursorNegativeIndex(t *testing.T) {
	c := newRotationCursor([]string{"a", "b"}, -3)
	got, _ := c.next()
	if got != "a" {
		t.Errorf("负游标应归零: 期望a，实际%s", got)
	}
}
