package lexicon

// Built-in Vietnamese financial lexicon. Weights are magnitudes in (0, 1];
// the sign comes from which table a phrase lives in. Multi-word phrases
// outrank their constituent words because the matcher prefers the longest
// phrase at any position.

var basePositive = map[string]float64{
	// Kỷ lục / vượt mục tiêu
	"kỷ lục": 0.8, "lập kỷ lục": 0.85, "phá kỷ lục": 0.85,
	"vượt kế hoạch": 0.75, "vượt mục tiêu": 0.75, "đạt mục tiêu": 0.65,
	"thắng thầu": 0.65, "trúng thầu": 0.65,

	// Tăng trưởng mạnh
	"tăng mạnh": 0.8, "bứt phá": 0.75, "đột phá": 0.75, "bullish": 0.7,
	"tăng vọt": 0.75, "tăng đột biến": 0.75, "leo thang tích cực": 0.65,

	// Phục hồi / khởi sắc
	"phục hồi mạnh": 0.7, "phục hồi": 0.6, "khởi sắc": 0.6,
	"uptrend": 0.6, "hồi phục": 0.55, "cải thiện": 0.5,

	// Hưởng lợi / lợi thế
	"hưởng lợi": 0.6, "tận dụng cơ hội": 0.55, "lợi thế cạnh tranh": 0.6,
	"ưu thế": 0.5, "thắng lợi": 0.65,

	// Tăng trưởng / doanh thu / lợi nhuận
	"tăng trưởng mạnh": 0.7, "tăng trưởng": 0.6, "tăng trưởng tốt": 0.65,
	"lãi ròng tăng": 0.7, "doanh thu tăng": 0.65, "lợi nhuận tăng": 0.7,
	"lợi nhuận cao kỷ lục": 0.85, "lợi nhuận": 0.5, "lãi": 0.5,

	// Cổ tức / chia thưởng
	"chia cổ tức": 0.6, "tăng cổ tức": 0.65, "thưởng cổ phiếu": 0.55,
	"mua lại cổ phiếu": 0.5,

	// Mở rộng / đầu tư
	"mở rộng": 0.55, "mở rộng quy mô": 0.6, "mở rộng thị trường": 0.6,
	"hợp đồng lớn": 0.65, "đầu tư mới": 0.55, "nâng hạng": 0.6,
	"nâng cấp": 0.45, "tái cơ cấu thành công": 0.6,

	// Dòng tiền / thanh khoản tốt
	"dòng tiền vào": 0.55, "ngoại tệ vào": 0.5, "mua ròng": 0.5,
	"thanh khoản tốt": 0.5, "thanh khoản cao": 0.5,

	// Thị trường / điểm số
	"điểm xanh": 0.5, "xanh": 0.4, "tích cực": 0.45,
	"tăng điểm": 0.5, "thị trường tích cực": 0.55,

	// Từ khóa tăng / lên / vượt
	"tăng": 0.45, "lên": 0.3, "vượt": 0.35, "kỳ vọng": 0.3,

	// Chất lượng / uy tín
	"được xếp hạng tốt": 0.55, "uy tín cao": 0.5, "chất lượng tốt": 0.5,
	"đánh giá cao": 0.55, "được vinh danh": 0.6, "nhận giải thưởng": 0.6,

	// Hợp tác / liên kết
	"hợp tác chiến lược": 0.55, "ký kết hợp đồng": 0.5,
	"bắt tay hợp tác": 0.45, "liên doanh": 0.45,

	// IPO / niêm yết
	"niêm yết thành công": 0.65, "ipo thành công": 0.65,
	"lên sàn": 0.5, "tăng vốn": 0.45,

	// Đỉnh cao
	"đỉnh": 0.5, "đỉnh lịch sử": 0.75, "cao nhất": 0.6, "cao kỷ lục": 0.75,
}

var baseNegative = map[string]float64{
	// Phàn nàn / yêu cầu / phản đối
	"kiến nghị khẩn": 0.55, "kiến nghị": 0.25, "kêu cứu": 0.6,
	"phản đối": 0.45, "khiếu nại": 0.4, "tố cáo": 0.5,
	"phàn nàn": 0.35, "chỉ trích": 0.4, "lên án": 0.5,
	"yêu cầu khẩn": 0.5, "đề nghị khẩn": 0.45,

	// Khẩn cấp / bức xúc
	"khẩn cấp": 0.4, "khẩn": 0.3, "gấp": 0.25,
	"bức xúc": 0.45, "lo lắng": 0.35, "lo ngại": 0.4,
	"căng thẳng": 0.4, "hoang mang": 0.45, "bất an": 0.45,

	// Phá sản / vỡ nợ / khủng hoảng
	"phá sản": 0.9, "vỡ nợ": 0.85, "khủng hoảng": 0.8, "sụp đổ": 0.8,
	"mất vốn": 0.75, "âm vốn": 0.75, "mất thanh khoản": 0.8,
	"mất khả năng thanh toán": 0.85,

	// Lao dốc / giảm mạnh
	"lao dốc": 0.75, "giảm mạnh": 0.7, "giảm sâu": 0.7,
	"lao xuống": 0.7, "rơi tự do": 0.8, "bốc hơi": 0.65,
	"bốc hơi tỷ đồng": 0.75,

	// Thua lỗ / thất bại
	"thua lỗ": 0.65, "thất bại": 0.6, "lỗ nặng": 0.75,
	"lỗ lớn": 0.7, "lỗ": 0.55, "thua": 0.45,

	// Bán tháo / tháo chạy
	"bán tháo ròng": 0.65, "bán tháo": 0.65, "tháo chạy": 0.7,
	"tháo vốn": 0.65, "rút vốn": 0.5,

	// Bearish / downtrend
	"bearish": 0.65, "downtrend": 0.55, "xu hướng giảm": 0.55,

	// Nợ xấu / nợ
	"nợ xấu": 0.7, "nợ tăng": 0.5, "gánh nặng nợ": 0.65,
	"nợ quá hạn": 0.65, "nợ khó đòi": 0.65,

	// Thị trường xấu
	"giảm điểm": 0.5, "thanh khoản thấp": 0.45, "thanh khoản cạn": 0.55,
	"tiêu cực": 0.5, "điểm đỏ": 0.5, "đỏ sàn": 0.55,

	// Hoạt động kém / trì hoãn
	"trì hoãn": 0.4, "chậm tiến độ": 0.45, "dừng hoạt động": 0.6,
	"tạm dừng": 0.45, "đình trệ": 0.55, "ngừng hoạt động": 0.6,
	"tạm hoãn": 0.4, "chậm trễ": 0.4,

	// Chi phí / gánh nặng tài chính
	"chi phí tăng": 0.4, "giá điện tăng": 0.4, "thuế tăng": 0.35,
	"gánh nặng chi phí": 0.5, "áp lực chi phí": 0.45,
	"chi phí leo thang": 0.5,

	// Điều tra / vi phạm / xử phạt
	"bị điều tra": 0.6, "vi phạm": 0.55, "bị xử phạt": 0.55,
	"bị phạt": 0.5, "khởi tố": 0.7, "bắt giữ": 0.65,
	"bị bắt": 0.65, "tạm giam": 0.6,

	// Rủi ro / cảnh báo / áp lực
	"rủi ro cao": 0.55, "rủi ro": 0.4, "áp lực": 0.4,
	"cảnh báo": 0.4, "cảnh báo nghiêm trọng": 0.6,

	// Mất / thiệt hại
	"thiệt hại": 0.55, "thiệt hại nặng": 0.7, "mất mát": 0.5,
	"suy giảm": 0.45, "sụt giảm": 0.5, "sụt": 0.45,

	// Từ khóa giảm / khó / xấu
	"giảm": 0.4, "khó khăn": 0.4, "không phanh": 0.35,
	"bán ròng": 0.4, "đỏ": 0.35,
}

// negationMarkers flip and dampen a match when one appears in the 25
// characters before it. Ordered longest first so "không hề" wins over
// "không".
var negationMarkers = []string{
	"không còn", "không hề", "chưa từng", "chẳng hề",
	"không phải", "chẳng phải",
	"không", "chưa", "chẳng", "chả",
}

// Intensity modifiers scanned in the 20 characters before a match.
// Values above 1 amplify, below 1 dampen.
var intensifiers = map[string]float64{
	"nghiêm trọng": 1.6, "cực kỳ": 1.6, "cực": 1.5,
	"rất mạnh": 1.6, "rất": 1.4, "quá": 1.3,
	"mạnh mẽ": 1.4, "mạnh": 1.3, "nặng nề": 1.4, "nặng": 1.35,
	"sâu sắc": 1.3, "sâu": 1.25, "đột ngột": 1.2,
}

var diminishers = map[string]float64{
	"một chút": 0.5, "nhẹ nhàng": 0.6, "nhẹ": 0.6,
	"hơi hơi": 0.55, "hơi": 0.65, "ít nhiều": 0.7,
	"ít": 0.65, "tương đối": 0.75,
}
