package vivader

// Tuning constants for Vietnamese financial text. The booster increments
// and negation scalar follow the VADER conventions; the ALL-CAPS increment
// is lower because Vietnamese headlines lean on caps less than English.
const (
	bIncr   = 0.30
	bDecr   = -0.30
	cIncr   = 0.50
	nScalar = -0.74
	alpha   = 15.0
)

// negate lists negation words, longest first so greedy matching never
// stops at a prefix ("không hề" before "không"). English negations appear
// because Vietnamese financial news mixes languages.
var negate = []string{
	"không phải là", "chưa bao giờ", "không phải", "chẳng phải",
	"không còn", "chưa từng", "không hề", "chẳng hề",
	"không", "never", "chẳng", "chưa", "chả", "not", "no",
}

// doubleNegate patterns flip a negation back toward positive.
var doubleNegate = []string{
	"không phải là không",
	"không phải không",
	"chẳng phải không",
	"không hề không",
}

// boosterDict maps single modifier tokens to additive scalars.
var boosterDict = map[string]float64{
	// Strong intensifiers
	"cực kỳ":          bIncr * 1.8,
	"cực":             bIncr * 1.6,
	"tuyệt đối":       bIncr * 1.6,
	"hoàn toàn":       bIncr * 1.4,
	"nghiêm trọng":    bIncr * 1.5,
	"nặng nề":         bIncr * 1.4,
	"nặng":            bIncr * 1.3,
	"rất mạnh":        bIncr * 1.5,
	"rất nhiều":       bIncr * 1.3,
	"rất":             bIncr * 1.2,
	"lớn":             bIncr * 1.0,
	"cao":             bIncr * 0.9,
	"mạnh mẽ":         bIncr * 1.3,
	"mạnh":            bIncr * 1.1,
	"đáng kể":         bIncr * 1.0,
	"đột ngột":        bIncr * 1.1,
	"bứt phá":         bIncr * 1.2,
	"quá":             bIncr * 1.1,
	"khá":             bIncr * 0.8,
	"sâu sắc":         bIncr * 1.2,
	"sâu":             bIncr * 1.0,
	"lịch sử":         bIncr * 1.3,
	"kỷ lục":          bIncr * 1.4,
	"vượt trội":       bIncr * 1.2,
	"ấn tượng":        bIncr * 1.1,
	"khá nhiều":       bIncr * 0.7,
	"tương đối nhiều": bIncr * 0.6,
	"phần nhiều":      bIncr * 0.6,
	"nhất định":       bIncr * 0.5,
	"very":            bIncr * 1.2,
	"extremely":       bIncr * 1.5,
	"significantly":   bIncr * 1.1,
	"strongly":        bIncr * 1.2,
	"hugely":          bIncr * 1.3,
	"sharply":         bIncr * 1.1,
	// Diminishers
	"một chút":      bDecr * 1.5,
	"một tí":        bDecr * 1.5,
	"nhẹ nhàng":     bDecr * 1.2,
	"nhẹ":           bDecr * 1.2,
	"hơi hơi":       bDecr * 1.3,
	"hơi":           bDecr * 1.0,
	"ít nhiều":      bDecr * 0.8,
	"ít":            bDecr * 0.9,
	"tương đối":     bDecr * 0.7,
	"chút ít":       bDecr * 1.2,
	"không đáng kể": bDecr * 1.4,
	"vừa phải":      bDecr * 0.8,
	"moderately":    bDecr * 0.8,
	"slightly":      bDecr * 1.0,
	"somewhat":      bDecr * 0.8,
	"barely":        bDecr * 1.3,
	"hardly":        bDecr * 1.3,
	"partially":     bDecr * 0.7,
}

// contrastive conjunctions split a sentence into a discounted first half
// and an emphasized second half.
var contrastive = []string{
	"mặc dù vậy", "thế nhưng", "tuy nhiên", "nhưng mà",
	"trái lại", "ngược lại", "mặc dù", "dù vậy", "dù thế",
	"tuy vậy", "tuy thế", "although", "however", "though",
	"nhưng", "song", "but", "yet",
}

var posLexicon = map[string]float64{
	// Records / targets
	"lập kỷ lục": 0.80, "phá kỷ lục": 0.80,
	"kỷ lục mọi thời đại": 0.85, "kỷ lục lịch sử": 0.85,
	"cao nhất lịch sử": 0.83, "lợi nhuận cao kỷ lục": 0.85,
	"lợi nhuận kỷ lục": 0.82, "doanh thu cao kỷ lục": 0.82,
	"doanh thu kỷ lục": 0.78, "kỷ lục doanh thu": 0.78,
	"vượt kế hoạch": 0.70, "vượt mục tiêu": 0.70, "đạt mục tiêu": 0.60,
	"hoàn thành kế hoạch": 0.65, "thắng thầu": 0.60, "trúng thầu": 0.60,
	"kỷ lục": 0.62,

	// Strong growth
	"tăng mạnh": 0.75, "tăng vọt": 0.72, "tăng đột biến": 0.72,
	"tăng cao kỷ lục": 0.80, "tăng trưởng mạnh mẽ": 0.72,
	"tăng trưởng mạnh": 0.68, "tăng trưởng vượt bậc": 0.72,
	"tăng trưởng tốt": 0.60, "tăng trưởng": 0.52,
	"bứt phá mạnh": 0.75, "bứt phá": 0.68, "đột phá": 0.68,
	"leo thang tích cực": 0.60,

	// Recovery
	"phục hồi mạnh": 0.65, "phục hồi tích cực": 0.60, "phục hồi": 0.52,
	"hồi phục mạnh": 0.65, "hồi phục": 0.50, "khởi sắc": 0.55,
	"cải thiện mạnh": 0.60, "cải thiện": 0.45, "uptrend": 0.55,

	// Benefit / advantage
	"hưởng lợi lớn": 0.65, "hưởng lợi trực tiếp": 0.60, "hưởng lợi": 0.55,
	"tận dụng cơ hội": 0.52, "lợi thế cạnh tranh": 0.58, "lợi thế": 0.45,
	"ưu thế vượt trội": 0.60, "ưu thế": 0.45, "thắng lợi": 0.60,

	// Profit / revenue
	"lợi nhuận tăng mạnh": 0.75, "lợi nhuận tăng": 0.65,
	"lợi nhuận ròng tăng": 0.68, "lãi ròng tăng": 0.68,
	"doanh thu tăng mạnh": 0.68, "doanh thu tăng": 0.60,
	"biên lợi nhuận tăng": 0.60, "lợi nhuận": 0.42, "lãi": 0.42,
	"có lãi": 0.55,

	// Dividends / buybacks
	"tăng cổ tức": 0.62, "chia cổ tức tiền mặt": 0.65, "chia cổ tức": 0.58,
	"thưởng cổ phiếu": 0.55, "mua lại cổ phiếu": 0.50,
	"phát hành cổ tức": 0.55,

	// Expansion / investment
	"mở rộng quy mô": 0.58, "mở rộng thị trường": 0.58, "mở rộng": 0.48,
	"hợp đồng lớn": 0.62, "ký hợp đồng lớn": 0.65, "đầu tư mới": 0.52,
	"nâng hạng tín nhiệm": 0.65, "nâng hạng": 0.58, "nâng cấp": 0.42,
	"tái cơ cấu thành công": 0.60, "mở rộng năng lực": 0.55,

	// Cash flow / liquidity
	"dòng tiền dương": 0.60, "dòng tiền vào": 0.52,
	"mua ròng ngoại tệ": 0.50, "mua ròng": 0.48,
	"thanh khoản tốt": 0.50, "thanh khoản cao": 0.50, "dòng vốn vào": 0.55,

	// Market tone
	"điểm xanh": 0.50, "sắc xanh": 0.48, "thị trường tích cực": 0.55,
	"tích cực": 0.40, "tăng điểm": 0.48, "xanh": 0.38,
	"tăng": 0.38, "lên": 0.28, "vượt": 0.32, "kỳ vọng": 0.28,

	// Quality / credibility
	"được xếp hạng cao": 0.58, "xếp hạng tín nhiệm cao": 0.60,
	"uy tín cao": 0.50, "chất lượng tốt": 0.50, "đánh giá cao": 0.55,
	"được vinh danh": 0.60, "nhận giải thưởng": 0.60,
	"được công nhận": 0.52, "nhận chứng nhận": 0.50,

	// Partnership / deals
	"hợp tác chiến lược": 0.55, "ký kết hợp đồng": 0.50,
	"bắt tay hợp tác": 0.45, "liên doanh": 0.45,
	"đối tác chiến lược": 0.52, "thỏa thuận lớn": 0.58,

	// IPO / listing
	"niêm yết thành công": 0.65, "ipo thành công": 0.65,
	"lên sàn": 0.48, "tăng vốn": 0.42,

	// Peaks
	"đỉnh lịch sử": 0.72, "cao kỷ lục": 0.72, "cao nhất": 0.55,
	"đỉnh cao": 0.55, "đỉnh mới": 0.60,

	// Technical / bullish signals
	"bullish": 0.65, "breakout": 0.60, "tín hiệu mua": 0.60,
	"vượt kháng cự": 0.58, "vùng hỗ trợ vững": 0.52,
	"xu hướng tăng": 0.55, "upside": 0.50, "momentum tích cực": 0.55,

	// General positive
	"khả quan": 0.48, "triển vọng tốt": 0.55, "triển vọng tích cực": 0.55,
	"triển vọng": 0.35, "tiềm năng tăng trưởng": 0.55, "tiềm năng": 0.35,
	"tự tin": 0.42, "tin tưởng": 0.38, "lạc quan": 0.50,
	"xuất sắc": 0.65, "vượt trội": 0.58, "ấn tượng": 0.55,
	"nổi bật": 0.45, "hiệu quả": 0.40, "thành công": 0.55,
	"thuận lợi": 0.45, "ổn định": 0.35, "vững chắc": 0.45, "vững": 0.35,
	"tăng tốc": 0.50, "năng động": 0.42, "cơ hội": 0.32,
}

var negLexicon = map[string]float64{
	// Complaints / opposition
	"kiến nghị khẩn": 0.50, "kêu cứu khẩn": 0.60, "kêu cứu": 0.55,
	"tố cáo": 0.50, "phản đối mạnh": 0.55, "phản đối": 0.42,
	"khiếu nại": 0.38, "lên án": 0.48, "chỉ trích": 0.40,
	"phàn nàn": 0.32,

	// Urgency / stress
	"khẩn cấp": 0.38, "bức xúc": 0.42, "lo lắng": 0.32,
	"lo ngại sâu sắc": 0.55, "lo ngại": 0.38, "căng thẳng": 0.38,
	"hoang mang": 0.42, "bất an": 0.42, "bi quan": 0.50,
	"thất vọng": 0.52,

	// Bankruptcy / crisis
	"phá sản hoàn toàn": 0.95, "tuyên bố phá sản": 0.90, "phá sản": 0.88,
	"vỡ nợ": 0.85, "khủng hoảng nghiêm trọng": 0.85, "khủng hoảng": 0.78,
	"sụp đổ hoàn toàn": 0.88, "sụp đổ": 0.78,
	"mất vốn toàn bộ": 0.88, "mất vốn": 0.72, "âm vốn": 0.72,
	"mất thanh khoản hoàn toàn": 0.85, "mất thanh khoản": 0.78,
	"mất khả năng thanh toán": 0.85,

	// Sharp decline
	"lao dốc không phanh": 0.82, "lao dốc mạnh": 0.78, "lao dốc": 0.72,
	"giảm sâu": 0.68, "giảm mạnh": 0.68, "lao xuống": 0.68,
	"rơi tự do": 0.78, "bốc hơi nghìn tỷ": 0.78,
	"bốc hơi tỷ đồng": 0.72, "bốc hơi": 0.62,
	"sụt giảm mạnh": 0.65, "suy giảm mạnh": 0.65,

	// Losses / failure
	"thua lỗ nặng": 0.78, "thua lỗ lớn": 0.72, "thua lỗ": 0.62,
	"lỗ nặng": 0.72, "lỗ lớn": 0.68, "lỗ": 0.52,
	"thất bại lớn": 0.68, "thất bại": 0.58, "thua": 0.42,
	"thua kém": 0.52,

	// Sell-off / capital flight
	"bán tháo ồ ạt": 0.78, "bán tháo ròng": 0.65, "bán tháo mạnh": 0.72,
	"bán tháo": 0.62, "tháo chạy": 0.68, "tháo vốn": 0.62,
	"rút vốn ồ ạt": 0.65, "rút vốn": 0.48, "bán ròng": 0.42,

	// Bearish signals
	"bearish": 0.62, "downtrend": 0.55, "xu hướng giảm": 0.55,
	"tín hiệu bán": 0.60, "phá hỗ trợ": 0.60, "xuyên thủng hỗ trợ": 0.62,
	"kháng cự mạnh": 0.50, "downside risk": 0.58, "đảo chiều giảm": 0.58,

	// Bad debt
	"nợ xấu tăng": 0.72, "nợ xấu cao": 0.70, "nợ xấu": 0.68,
	"nợ quá hạn": 0.62, "nợ khó đòi": 0.62, "gánh nặng nợ": 0.60,
	"nợ tăng": 0.48, "đòn bẩy cao": 0.52,

	// Market tone
	"giảm điểm": 0.50, "điểm đỏ": 0.50, "đỏ sàn": 0.55,
	"thị trường tiêu cực": 0.55, "tiêu cực": 0.48,
	"thanh khoản cạn kiệt": 0.62, "thanh khoản cạn": 0.55,
	"thanh khoản thấp": 0.45, "giảm": 0.38, "đỏ": 0.35,

	// Operations / delays
	"đình trệ hoàn toàn": 0.68, "đình trệ": 0.55,
	"ngừng hoạt động": 0.60, "dừng hoạt động": 0.60,
	"tạm dừng": 0.42, "tạm hoãn": 0.38,
	"chậm tiến độ nghiêm trọng": 0.62, "chậm tiến độ": 0.45,
	"chậm trễ": 0.40, "trì hoãn": 0.40,

	// Cost / burden
	"chi phí leo thang": 0.52, "chi phí tăng mạnh": 0.52,
	"chi phí tăng": 0.40, "gánh nặng chi phí": 0.52,
	"áp lực chi phí": 0.48, "giá điện tăng": 0.38, "thuế tăng": 0.35,
	"biên lợi nhuận giảm": 0.55, "biên lợi nhuận thu hẹp": 0.55,

	// Legal / regulatory
	"bị điều tra hình sự": 0.78, "bị điều tra": 0.60,
	"vi phạm nghiêm trọng": 0.68, "vi phạm": 0.55,
	"bị xử phạt nặng": 0.62, "bị xử phạt": 0.55, "bị phạt": 0.50,
	"khởi tố": 0.70, "bắt giữ": 0.65, "bị bắt": 0.65, "tạm giam": 0.60,
	"tước giấy phép": 0.70, "thu hồi giấy phép": 0.68,
	"đình chỉ hoạt động": 0.68,

	// Risk / warning
	"cảnh báo nghiêm trọng": 0.60, "cảnh báo khẩn": 0.58, "cảnh báo": 0.40,
	"rủi ro cao": 0.55, "rủi ro lớn": 0.55, "rủi ro": 0.40,
	"áp lực bán": 0.52, "áp lực": 0.38,

	// Losses / damage
	"thiệt hại nghiêm trọng": 0.72, "thiệt hại nặng": 0.68,
	"thiệt hại lớn": 0.65, "thiệt hại": 0.55,
	"mất mát lớn": 0.60, "mất mát": 0.50,
	"sụt giảm": 0.48, "suy giảm": 0.45, "sụt": 0.42, "giảm sút": 0.45,

	// Negative general
	"khó khăn lớn": 0.58, "khó khăn": 0.40, "trở ngại": 0.40,
	"thách thức lớn": 0.45, "thách thức": 0.35,
	"kém hiệu quả": 0.50, "không hiệu quả": 0.50, "yếu kém": 0.50,
	"tệ": 0.45, "xấu": 0.42, "nguy hiểm": 0.55, "nguy cơ": 0.45,
}
