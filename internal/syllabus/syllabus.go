// Package syllabus holds the grade-10 entrance exam topic table and filter.
package syllabus

import "github.com/verte-zerg/ontap/internal/model"

var labels = map[model.Subject]string{
	model.SubjectMath:        "Toán",
	model.SubjectLiterature:  "Ngữ văn",
	model.SubjectEnglish:     "Tiếng Anh",
	model.SubjectPhysics:     "Vật lí",
	model.SubjectChemistry:   "Hoá học",
	model.SubjectBiology:     "Sinh học",
	model.SubjectHistory:     "Lịch sử",
	model.SubjectGeography:   "Địa lí",
	model.SubjectInformatics: "Tin học",
	model.SubjectFrench:      "Tiếng Pháp",
}

var topics = map[model.Subject][]string{
	model.SubjectMath: {
		"Căn bậc hai – biến đổi", "Phương trình bậc nhất", "Hệ phương trình 2 ẩn",
		"Bất phương trình đơn giản", "Hàm số y=ax+b – đồ thị", "Hàm số y=ax^2 – parabol",
		"Tam giác đồng dạng", "Hệ thức lượng trong tam giác vuông",
		"Đường tròn: góc nội tiếp – tiếp tuyến", "Bài toán thực tế (tỉ lệ, năng suất, chuyển động)",
	},
	model.SubjectLiterature: {
		"Đọc hiểu văn bản (phong cách, phương thức, biện pháp tu từ)",
		"Tiếng Việt: từ loại – câu – liên kết", "Viết đoạn NLXH 200 chữ",
		"Nghị luận văn học: thơ hiện đại", "Nghị luận văn học: truyện hiện đại",
		"Mở bài – Kết bài – Liên kết đoạn", "So sánh – liên hệ tác phẩm",
		"Chính tả – dùng từ – đặt câu", "Phong cách lập luận – dẫn chứng", "Luyện đề tổng hợp",
	},
	model.SubjectEnglish: {
		"Tenses: Present/Past/Present perfect", "Comparatives & Superlatives",
		"Passive Voice", "Reported Speech", "Conditional (Type 1–2)",
		"Relative Clauses", "Modal Verbs", "Gerund/Infinitive",
		"Vocabulary: School/Environment/Technology", "Reading & Error finding",
	},
	model.SubjectPhysics: {
		"Định luật Ôm", "Mạch nối tiếp – song song", "Công suất – điện năng – an toàn điện",
		"Từ trường – nam châm điện (cơ bản)", "Gương phẳng – gương cầu",
		"Thấu kính hội tụ/phân kì – công thức thấu kính", "Ảnh của vật qua thấu kính",
		"Khúc xạ – phản xạ ánh sáng", "Màu sắc – ứng dụng", "Tổng hợp điện – quang",
	},
	model.SubjectChemistry: {
		"Cấu tạo nguyên tử – bảng tuần hoàn", "Phản ứng hóa học – cân bằng PTHH",
		"Oxit – Axit – Bazơ – Muối", "Dung dịch – nồng độ (CM, C%)",
		"Kim loại – dãy hoạt động – phản ứng với axit", "Phi kim – halogen – oxi",
		"Tính toán mol – bảo toàn khối lượng", "Hiđrocabbon cơ bản",
		"Rượu etylic – axit axetic", "Tổng hợp vô cơ + hữu cơ cơ bản",
	},
	model.SubjectBiology: {
		"ADN – NST – Gen", "Nguyên phân – Giảm phân", "Quy luật Menđen",
		"Đột biến gen – NST", "Liên kết gen – tương tác gen (nhận biết)",
		"Quần thể – quần xã – hệ sinh thái", "Chuỗi & lưới thức ăn",
		"Vệ sinh di truyền – tư vấn", "Tiến hóa – bằng chứng", "Ôn tập tổng hợp",
	},
	model.SubjectHistory: {
		"Việt Nam 1858–1918", "Việt Nam 1919–1930", "Cách mạng 1930–1945",
		"Kháng chiến 1945–1954", "1954–1975", "1975–2000",
		"Thế giới sau 1945", "ASEAN – hội nhập", "Nhân vật & mốc thời gian", "Tổng hợp",
	},
	model.SubjectGeography: {
		"Tự nhiên Việt Nam", "Khí hậu – sông ngòi – đất – sinh vật",
		"Dân cư – đô thị – lao động", "Công nghiệp – năng lượng – chế biến",
		"Nông lâm ngư nghiệp", "Dịch vụ – du lịch – giao thông",
		"Vùng kinh tế trọng điểm", "Đọc/nhận xét biểu đồ (cột/đường/tròn/miền)",
		"Thực hành Atlat Địa lí Việt Nam", "Kinh tế vùng: ĐBSH, ĐBSCL, Đông Nam Bộ, Tây Nguyên",
	},
	model.SubjectInformatics: {
		"Hệ điều hành – tệp – thư mục", "Đường dẫn tương đối/tuyệt đối",
		"Phần mở rộng tệp – kiểu tệp", "Thiết bị vào/ra/lưu trữ",
		"Soạn thảo: định dạng – chèn hình", "Bảng tính: SUM/AVERAGE/IF/COUNTIF",
		"Internet – tìm kiếm – an toàn số", "Ứng xử mạng xã hội",
		"Thuật toán cơ bản – lưu đồ", "Lập trình nhập môn (Scratch/Python)",
	},
	model.SubjectFrench: {
		"Alphabet – chào hỏi – tự giới thiệu", "Mạo từ xác định/không xác định/partitif",
		"Giống – số – tính từ", "Thì hiện tại: -er, être, avoir, aller, faire",
		"Phủ định ne…pas", "Sở hữu (adj./pron.)", "Giới từ thường gặp",
		"Thời gian – ngày tháng – thời tiết", "Câu hỏi (est-ce que/inversion)", "Đọc hiểu A1–A2",
	},
}

// Label returns the display label for a subject, or the raw code when unknown.
func Label(subject model.Subject) string {
	if l, ok := labels[subject]; ok {
		return l
	}
	return string(subject)
}

// Subjects returns the known subjects in canonical order.
func Subjects() []model.Subject {
	out := make([]model.Subject, len(model.KnownSubjects))
	copy(out, model.KnownSubjects)
	return out
}

// Topics returns a copy of the syllabus topics for a subject.
func Topics(subject model.Subject) []string {
	list := topics[subject]
	out := make([]string, len(list))
	copy(out, list)
	return out
}

// IsSyllabusTopic reports whether topic is listed for subject. Matching is exact.
func IsSyllabusTopic(subject model.Subject, topic string) bool {
	for _, t := range topics[subject] {
		if t == topic {
			return true
		}
	}
	return false
}

// FilterResult is the syllabus-validated view of an attempt log.
type FilterResult struct {
	Included      []model.Attempt
	ExcludedCount int
}

// Filter keeps attempts whose (subject, topic) pair is in the syllabus.
func Filter(list []model.Attempt) FilterResult {
	included := make([]model.Attempt, 0, len(list))
	for _, a := range list {
		if IsSyllabusTopic(a.Subject, a.Topic) {
			included = append(included, a)
		}
	}
	return FilterResult{Included: included, ExcludedCount: len(list) - len(included)}
}
