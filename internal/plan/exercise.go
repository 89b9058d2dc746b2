package plan

import (
	"fmt"

	"github.com/verte-zerg/ontap/internal/model"
	"github.com/verte-zerg/ontap/internal/syllabus"
)

// Exercise item modes.
const (
	ModeQuiz    = "quiz"
	ModeShort   = "short"
	ModeReading = "reading"
	ModeEssay   = "essay"
	ModeProject = "project"
)

type preset struct {
	name    string
	minutes int
	items   []model.ExerciseItem
	start   *model.StartParams
}

type levelPresets map[model.Level]preset

func quiz(minutes, count int, diff model.Difficulty) model.ExerciseItem {
	return model.ExerciseItem{Mode: ModeQuiz, Minutes: minutes, Count: count, Difficulty: diff}
}

func short(minutes, count int, diff model.Difficulty) model.ExerciseItem {
	return model.ExerciseItem{Mode: ModeShort, Minutes: minutes, Count: count, Difficulty: diff}
}

func note(mode string, minutes int, text string) model.ExerciseItem {
	return model.ExerciseItem{Mode: mode, Minutes: minutes, Note: text}
}

func start(num int, diff model.Difficulty) *model.StartParams {
	return &model.StartParams{Mode: ModeQuiz, Num: num, Diff: diff}
}

const (
	easy   = model.DifficultyEasy
	medium = model.DifficultyMedium
	hard   = model.DifficultyHard
)

var sciencePresets = levelPresets{
	model.LevelWeak:      {"Cơ bản", 20, []model.ExerciseItem{quiz(15, 10, easy), short(5, 2, easy)}, start(10, easy)},
	model.LevelAverage:   {"Chuẩn đề", 25, []model.ExerciseItem{quiz(18, 12, medium), short(7, 2, medium)}, start(12, medium)},
	model.LevelGood:      {"Tăng tốc", 30, []model.ExerciseItem{quiz(22, 15, medium), short(8, 2, hard)}, start(15, medium)},
	model.LevelExcellent: {"Nâng cao", 35, []model.ExerciseItem{quiz(25, 15, hard), short(10, 3, hard)}, start(15, hard)},
}

var socialPresets = levelPresets{
	model.LevelWeak:      {"Nhận biết", 20, []model.ExerciseItem{quiz(15, 10, easy), note(ModeReading, 5, "ghi nhớ mốc/khái niệm")}, start(10, easy)},
	model.LevelAverage:   {"Thông hiểu", 25, []model.ExerciseItem{quiz(18, 12, medium), short(7, 2, medium)}, start(12, medium)},
	model.LevelGood:      {"Vận dụng", 30, []model.ExerciseItem{quiz(22, 15, medium), short(8, 2, hard)}, start(15, medium)},
	model.LevelExcellent: {"Vận dụng cao", 35, []model.ExerciseItem{quiz(25, 15, hard), short(10, 3, hard)}, start(15, hard)},
}

type subjectBank struct {
	knowledge func(topic string) []string
	levels    levelPresets
	// override replaces the level preset for one task type.
	override map[model.TaskType]preset
}

var banks = map[model.Subject]subjectBank{
	model.SubjectMath: {
		knowledge: func(topic string) []string {
			return []string{"Ôn công thức cốt lõi của: " + topic, "Tập nhận dạng dạng bài", "Tối ưu bước giải & bấm máy"}
		},
		levels: levelPresets{
			model.LevelWeak:      {"Củng cố cơ bản", 20, []model.ExerciseItem{quiz(15, 10, easy), short(5, 2, easy)}, start(10, easy)},
			model.LevelAverage:   {"Luyện chuẩn", 25, []model.ExerciseItem{quiz(18, 12, medium), short(7, 2, medium)}, start(12, medium)},
			model.LevelGood:      {"Tăng tốc", 30, []model.ExerciseItem{quiz(22, 15, medium), short(8, 2, hard)}, start(15, medium)},
			model.LevelExcellent: {"Chinh phục", 35, []model.ExerciseItem{quiz(25, 12, hard), short(10, 3, hard)}, start(12, hard)},
		},
		override: map[model.TaskType]preset{
			model.TaskTheory: {"Lý thuyết nhanh", 15, []model.ExerciseItem{
				note(ModeReading, 10, "Xem công thức + ví dụ mẫu"),
				{Mode: ModeShort, Minutes: 5, Count: 3, Difficulty: easy, Note: "3 câu tự luận ngắn"},
			}, nil},
		},
	},
	model.SubjectLiterature: {
		knowledge: func(topic string) []string {
			return []string{"Đọc hiểu – nhận diện PTBĐ/biện pháp tu từ về: " + topic, "Kĩ năng đoạn NLXH 200 chữ", "Dàn ý NLVH 6–8 ý"}
		},
		levels: levelPresets{
			model.LevelWeak: {"Củng cố nền", 30, []model.ExerciseItem{
				note(ModeReading, 10, "1 bài đọc hiểu 5–7 câu"),
				note(ModeEssay, 20, "Đoạn NLXH 150–200 chữ (2–3 dẫn chứng)"),
			}, nil},
			model.LevelAverage: {"Chuẩn đề thi", 40, []model.ExerciseItem{
				note(ModeReading, 10, "1 bài đọc hiểu 7–10 câu"),
				note(ModeEssay, 30, "Đoạn NLXH 200 chữ (5 tiêu chí)"),
			}, nil},
			model.LevelGood: {"Tăng chất lượng diễn đạt", 45, []model.ExerciseItem{
				note(ModeEssay, 20, "Đoạn NLXH 200 chữ – tránh lỗi lập luận"),
				note(ModeEssay, 25, "Dàn ý Nghị luận văn học (6–8 ý)"),
			}, nil},
			model.LevelExcellent: {"Hoàn chỉnh bài thi", 60, []model.ExerciseItem{
				note(ModeEssay, 25, "Đoạn NLXH 200 chữ đạt 5/5 tiêu chí"),
				note(ModeEssay, 35, "Bài NLVH 35’ (mở/kết + liên hệ)"),
			}, nil},
		},
		override: map[model.TaskType]preset{
			model.TaskReview: {"Tổng kết nhanh", 25, []model.ExerciseItem{
				note(ModeReading, 10, "Tóm tắt tác phẩm/dẫn chứng"),
				note(ModeEssay, 15, "Viết đoạn 200 chữ (5 tiêu chí)"),
			}, nil},
		},
	},
	model.SubjectEnglish: {
		knowledge: func(topic string) []string {
			return []string{"Grammar trọng tâm của: " + topic, "Error finding", "Reading comprehension"}
		},
		levels: levelPresets{
			model.LevelWeak:      {"Basic drill", 20, []model.ExerciseItem{quiz(15, 12, easy), note(ModeReading, 5, "đoạn ngắn A1–A2")}, start(12, easy)},
			model.LevelAverage:   {"Core practice", 25, []model.ExerciseItem{quiz(18, 15, medium), short(7, 3, medium)}, start(15, medium)},
			model.LevelGood:      {"Mixed set", 30, []model.ExerciseItem{quiz(22, 18, medium), note(ModeReading, 8, "đoạn B1")}, start(18, medium)},
			model.LevelExcellent: {"Challenge", 35, []model.ExerciseItem{quiz(25, 20, hard), note(ModeReading, 10, "đoạn B1–B2")}, start(20, hard)},
		},
	},
	model.SubjectPhysics:   {knowledge: scienceKnowledge, levels: sciencePresets},
	model.SubjectChemistry: {knowledge: scienceKnowledge, levels: sciencePresets},
	model.SubjectBiology:   {knowledge: scienceKnowledge, levels: sciencePresets},
	model.SubjectHistory: {
		knowledge: func(topic string) []string {
			return []string{"Mốc thời gian/nhân vật của: " + topic, "Dạng so sánh – nguyên nhân – ý nghĩa"}
		},
		levels: socialPresets,
	},
	model.SubjectGeography: {
		knowledge: func(topic string) []string {
			return []string{"Khai thác Atlat, dạng biểu đồ: " + topic, "Nhận xét – giải thích số liệu"}
		},
		levels: socialPresets,
	},
	model.SubjectInformatics: {
		knowledge: func(topic string) []string {
			return []string{"Thao tác thực hành: " + topic, "Tư duy thuật toán cơ bản"}
		},
		levels: levelPresets{
			model.LevelWeak:      {"Thực hành cơ bản", 20, []model.ExerciseItem{note(ModeProject, 20, "Bài thực hành ngắn (Word/Excel/Scratch)")}, nil},
			model.LevelAverage:   {"Bài tập thao tác", 25, []model.ExerciseItem{note(ModeProject, 25, "Tạo bảng + hàm SUM/IF hoặc khối lệnh cơ bản")}, nil},
			model.LevelGood:      {"Ứng dụng nhỏ", 30, []model.ExerciseItem{note(ModeProject, 30, "Bài tập Excel COUNTIF/VLOOKUP hoặc mini-project Scratch")}, nil},
			model.LevelExcellent: {"Mini project", 40, []model.ExerciseItem{note(ModeProject, 40, "Bài tập tổng hợp / automation nhỏ")}, nil},
		},
	},
	model.SubjectFrench: {
		knowledge: func(topic string) []string {
			return []string{"Ngữ pháp/chủ điểm: " + topic, "Từ vựng A1–A2", "Câu hỏi – hội thoại ngắn"}
		},
		levels: levelPresets{
			model.LevelWeak:      {"Basis", 20, []model.ExerciseItem{quiz(15, 10, easy), short(5, 2, easy)}, start(10, easy)},
			model.LevelAverage:   {"Drill", 25, []model.ExerciseItem{quiz(18, 12, medium), short(7, 2, medium)}, start(12, medium)},
			model.LevelGood:      {"Mix", 30, []model.ExerciseItem{quiz(20, 16, medium), note(ModeReading, 10, "đoạn A2")}, start(16, medium)},
			model.LevelExcellent: {"Challenge", 35, []model.ExerciseItem{quiz(25, 18, hard), note(ModeReading, 10, "đoạn A2–B1")}, start(18, hard)},
		},
	},
}

func scienceKnowledge(topic string) []string {
	return []string{"Công thức/định luật của: " + topic, "Áp dụng tính toán – đơn vị – đổi đơn vị"}
}

// BuildExercisePack returns the exercise bundle for a task. Unknown subjects
// use the math bank; unknown levels use the weakest preset.
func BuildExercisePack(subject model.Subject, level model.Level, topic string, taskType model.TaskType) model.ExercisePack {
	bank, ok := banks[subject]
	if !ok {
		bank = banks[model.SubjectMath]
	}
	p, ok := bank.override[taskType]
	if !ok {
		if p, ok = bank.levels[level]; !ok {
			p = bank.levels[model.LevelWeak]
		}
	}
	pack := model.ExercisePack{
		Title:           fmt.Sprintf("%s – %s: %s", syllabus.Label(subject), p.name, topic),
		Minutes:         p.minutes,
		Items:           append([]model.ExerciseItem(nil), p.items...),
		KnowledgePoints: bank.knowledge(topic),
	}
	if p.start != nil {
		sp := *p.start
		pack.StartParams = &sp
	}
	return pack
}
