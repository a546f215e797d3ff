package models

// Branding text shown on the landing page.
const (
	PageTitle = "E-편한 출고 | 출고통합시스템"
	Title     = "E- 편한 출고"
	Subtitle  = "출고통합시스템"
	Footer    = "ⓒ AFOURS Co., Ltd. | E-편한 출고 통합시스템"
)

// DefaultNotices returns the built-in notice set used whenever the persisted
// list is missing, unreadable, or (under the restore-defaults policy) empty.
// A fresh slice is returned on every call.
func DefaultNotices() NoticeList {
	return NoticeList{
		"📦 오늘 출고 마감은 오후 3시입니다.",
		"합배송 주문은 피킹 전에 주문서를 다시 확인해주세요.",
		"송장 출력 오류가 발생하면 물류팀에 바로 알려주세요.",
	}
}

// Link is one outbound entry in the launcher menu.
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// DefaultLinks returns the launcher menu in display order.
func DefaultLinks() []Link {
	return []Link{
		{Label: "제안 상품 등록", URL: "https://newappuct-3jvtvi9fafvdhqhzmstvs3.streamlit.app"},
		{Label: "피킹용 주문서 출력", URL: "https://g89qgzdijtiiazrp2rvflj.streamlit.app"},
		{Label: "합배/단품 나누어서 송장 출력", URL: "https://songjangg.streamlit.app"},
		{Label: "쿠팡/스마트스토어 송장 출력", URL: "https://coupsmartconvert.streamlit.app"},
		{Label: "창고입당용 주문서 변환 및 송장번호 등록용", URL: "https://finalbalzoo.streamlit.app"},
	}
}
