package dto

import (
	"errors"
	"testing"

	apperrors "campus-gate/pkg/errors"
)

func TestDecodeBatch_RejectsNonArray(t *testing.T) {
	for _, body := range []string{``, `{"regno":"R1"}`, `"R1"`, `null`, `[`} {
		if _, err := DecodeBatch[OutingExitEntry]([]byte(body)); !errors.Is(err, apperrors.ErrInvalidShape) {
			t.Errorf("body=%q 期望 ErrInvalidShape，实际: %v", body, err)
		}
	}
}

func TestDecodeBatch_PerElementErrors(t *testing.T) {
	body := `[{"regno":"R1","rfidUID":"T1","destination":"Town"}, "oops", {"regno": 5}]`

	items, err := DecodeBatch[OutingExitEntry]([]byte(body))
	if err != nil {
		t.Fatalf("解析应成功: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("期望 3 个元素，实际 %d", len(items))
	}
	if items[0].Err != nil || items[0].Entry.RegisterNo != "R1" {
		t.Errorf("第 1 个元素应解析成功: %+v", items[0])
	}
	for _, i := range []int{1, 2} {
		if !errors.Is(items[i].Err, apperrors.ErrInvalidInput) {
			t.Errorf("第 %d 个元素期望 ErrInvalidInput，实际: %v", i+1, items[i].Err)
		}
	}
}

func TestDecodeBatch_EmptyArray(t *testing.T) {
	items, err := DecodeBatch[CheckpointEvent]([]byte(" [] "))
	if err != nil || len(items) != 0 {
		t.Errorf("空数组应合法且无元素: %v %v", items, err)
	}
}
