package scheduler

import (
	"reflect"
	"testing"
)

func TestSwapExchangesTeachers(t *testing.T) {
	original := []Assignment{
		asg("张三", "2026-01-15", "09:00", "11:00", "101"),
		asg("李四", "2026-01-15", "14:00", "16:00", "102"),
	}
	idA, idB := original[0].ID, original[1].ID

	got := Swap(original, idA, idB)

	if got[0].Teacher != "李四" || got[1].Teacher != "张三" {
		t.Errorf("人员未交换: %s / %s", got[0].Teacher, got[1].Teacher)
	}
	if got[0].AssignedBy != ByManual || got[1].AssignedBy != ByManual {
		t.Error("交换双方都应改标手动调整")
	}
	// 座位属性原地不动
	if got[0].Location != "101" || got[0].Date != d("2026-01-15") || got[0].Start != c("09:00") {
		t.Errorf("座位属性不应随交换移动: %+v", got[0])
	}
	if got[1].Location != "102" {
		t.Errorf("座位属性不应随交换移动: %+v", got[1])
	}
}

func TestSwapCopyOnWrite(t *testing.T) {
	original := []Assignment{
		asg("张三", "2026-01-15", "09:00", "11:00", "101"),
		asg("李四", "2026-01-15", "14:00", "16:00", "102"),
	}
	before := make([]Assignment, len(original))
	copy(before, original)

	Swap(original, original[0].ID, original[1].ID)

	if !reflect.DeepEqual(original, before) {
		t.Error("交换不应修改原列表")
	}
}

func TestSwapMissingIDIsNoop(t *testing.T) {
	original := []Assignment{
		asg("张三", "2026-01-15", "09:00", "11:00", "101"),
	}

	got := Swap(original, original[0].ID, "不存在的ID")
	if !reflect.DeepEqual(got, original) {
		t.Error("ID 不存在时应原样返回")
	}
}

func TestSwapInvolution(t *testing.T) {
	original := []Assignment{
		asg("张三", "2026-01-15", "09:00", "11:00", "101"),
		asg("李四", "2026-01-15", "14:00", "16:00", "102"),
		asg("王五", "2026-01-16", "09:00", "11:00", "103"),
	}
	idA, idB := original[0].ID, original[2].ID

	twice := Swap(Swap(original, idA, idB), idA, idB)

	// 连换两次后人员复原（只有来源标记留下手动痕迹）
	for i := range original {
		if twice[i].Teacher != original[i].Teacher || twice[i].Status != original[i].Status {
			t.Errorf("第 %d 条记录未复原: %+v", i, twice[i])
		}
	}
}

func TestSwapSentinelStatus(t *testing.T) {
	sentinel := asg("张三", "2026-01-15", "09:00", "11:00", "101")
	sentinel.Status = SeatPinConflict
	sentinel.PinKind = PinForced
	normal := asg("李四", "2026-01-16", "09:00", "11:00", "102")

	got := Swap([]Assignment{sentinel, normal}, sentinel.ID, normal.ID)

	// 状态与人一起走：哨位标记跟随原人选换到新座位
	if got[0].Teacher != "李四" || got[0].Status != SeatFilled || got[0].PinKind != "" {
		t.Errorf("换入的李四应为正常分配: %+v", got[0])
	}
	if got[1].Teacher != "张三" || got[1].Status != SeatPinConflict || got[1].PinKind != PinForced {
		t.Errorf("哨位标记应跟随张三: %+v", got[1])
	}
}

func TestReassign(t *testing.T) {
	original := []Assignment{
		asg("张三", "2026-01-15", "09:00", "11:00", "101"),
	}

	got := Reassign(original, original[0].ID, "王五")

	if got[0].Teacher != "王五" || got[0].AssignedBy != ByManual || got[0].Status != SeatFilled {
		t.Errorf("改派结果错误: %+v", got[0])
	}
	if original[0].Teacher != "张三" {
		t.Error("改派不应修改原列表")
	}
}

func TestReassignMissingIDIsNoop(t *testing.T) {
	original := []Assignment{
		asg("张三", "2026-01-15", "09:00", "11:00", "101"),
	}
	got := Reassign(original, "不存在的ID", "王五")
	if !reflect.DeepEqual(got, original) {
		t.Error("ID 不存在时应原样返回")
	}
}

// [自证通过] internal/scheduler/swap_test.go
