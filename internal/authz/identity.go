// Package authz はリクエストの行為者（Identity）と認可ポリシーを提供する。
//
// Identityは「匿名」または「認証済みユーザー」のどちらかであり、
// セッション解決の結果としてリクエストごとに決定される。
// 認可判断はすべてAuthorizeに集約し、リソース種別ごとの
// その場しのぎの所有者チェックを散在させない。
package authz

// Identity はリクエストの行為者を表す。
// ゼロ値は匿名（未ログイン）を意味する。
type Identity struct {
	UserID string
	Admin  bool
}

// Anonymous は匿名の行為者。
// セッショントークンが存在しない・解決できない場合は常にこの値になる。
var Anonymous = Identity{}

// IsAnonymous は行為者が未ログインかどうかを返す。
func (i Identity) IsAnonymous() bool {
	return i.UserID == ""
}
