package dto

import "stocklinker/internal/feature/widget/usecase"

// FavoriteItem はウィジェットに表示するお気に入り銘柄です。
type FavoriteItem struct {
	Code            string  `json:"code"`
	Name            string  `json:"name"`
	LastViewedPrice *string `json:"lastViewedPrice"`
	Selected        bool    `json:"selected"`
}

// StateResponse はウィジェット状態のレスポンスで、ストリームのイベントにも使います。
type StateResponse struct {
	Selected  string         `json:"selected"`
	Favorites []FavoriteItem `json:"favorites"`
}

// SelectReq は選択銘柄の変更リクエストです。
type SelectReq struct {
	Code string `json:"code" binding:"required"`
}

// FromState はウィジェット状態をレスポンスに変換します。
func FromState(st usecase.State) StateResponse {
	out := make([]FavoriteItem, 0, len(st.Favorites))
	for _, s := range st.Favorites {
		out = append(out, FavoriteItem{
			Code:            s.Code,
			Name:            s.Name,
			LastViewedPrice: s.LastViewedPrice,
			Selected:        s.Code == st.Selected,
		})
	}
	return StateResponse{Selected: st.Selected, Favorites: out}
}
