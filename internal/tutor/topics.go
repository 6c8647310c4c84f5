package tutor

// Topic is a group of suggested prompts for one grade.
type Topic struct {
	ID      string
	Title   string
	Grade   int
	Prompts []string
}

var topics = []Topic{
	{
		ID:    "math10",
		Title: "Toán 10 (GDPT 2018)",
		Grade: 10,
		Prompts: []string{
			"Mệnh đề và Tập hợp: Cách diễn đạt toán học.",
			"Hàm số bậc hai: Ứng dụng vẽ quỹ đạo chuyển động.",
			"Vectơ: Tổng, hiệu và tích vô hướng trong thực tế.",
			"Thống kê: Số trung bình, trung vị và khoảng tứ phân vị.",
			"Bất phương trình bậc hai một ẩn và ứng dụng.",
		},
	},
	{
		ID:    "math11",
		Title: "Toán 11 (GDPT 2018)",
		Grade: 11,
		Prompts: []string{
			"Hàm số lượng giác và phương trình lượng giác cơ bản.",
			"Dãy số, Cấp số cộng và Cấp số nhân (Tài chính).",
			"Giới hạn và Hàm số liên tục.",
			"Hình học không gian: Quan hệ vuông góc.",
			"Xác suất: Biến cố hợp, biến cố giao, công thức cộng/nhân.",
		},
	},
	{
		ID:    "math12",
		Title: "Toán 12 (GDPT 2018)",
		Grade: 12,
		Prompts: []string{
			"Ứng dụng đạo hàm: Khảo sát sự biến thiên và cực trị.",
			"Nguyên hàm và Tích phân: Tính diện tích, thể tích.",
			"Phương pháp tọa độ trong không gian (Oxyz).",
			"Thống kê: Các số đặc trưng cho mẫu số liệu ghép nhóm.",
			"Xác suất có điều kiện và công thức xác suất toàn phần.",
		},
	},
}

// Topics returns the suggested prompts for grades 10 to 12. The result is a
// copy and may be modified.
func Topics() []Topic {
	out := make([]Topic, len(topics))
	for i, t := range topics {
		t.Prompts = append([]string(nil), t.Prompts...)
		out[i] = t
	}
	return out
}

// TopicForGrade returns the topic of grade, if any.
func TopicForGrade(grade int) (Topic, bool) {
	for _, t := range Topics() {
		if t.Grade == grade {
			return t, true
		}
	}
	return Topic{}, false
}
