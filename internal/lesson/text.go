package lesson

import "strings"

// Text returns the plan in the plain layout teachers paste into a document.
func (p *Plan) Text() string {
	lines := []string{
		"KẾ HOẠCH BÀI DẠY",
		"Bài: " + p.Title,
		"Lớp: " + p.Grade,
		"",
		"I. MỤC TIÊU",
		"1. Kiến thức: " + p.Objectives.Knowledge,
		"2. Năng lực: " + p.Objectives.Competence,
		"3. Phẩm chất: " + p.Objectives.Quality,
		"",
		"II. THIẾT BỊ DẠY HỌC & HỌC LIỆU",
		p.Equipment,
		"",
		"III. TIẾN TRÌNH DẠY HỌC",
	}
	for _, a := range p.Activities {
		lines = append(lines,
			"",
			a.Name,
			"a) Mục tiêu: "+a.Objective,
			"b) Nội dung: "+a.Content,
			"c) Sản phẩm: "+a.Product,
			"d) Tổ chức thực hiện: "+a.Organization,
		)
	}
	return strings.Join(lines, "\n")
}
