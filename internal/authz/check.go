package authz

import "github.com/hitoshi/projecthub/internal/model"

// Check は認可判断を行い、拒否された場合に対応するAPIErrorを返す。
// サービス層から呼び出す入口であり、拒否理由からユーザー向け
// エラーへの写像をここに集約する。
func Check(identity Identity, action Action, target Target) error {
	d := Authorize(identity, action, target)
	if d.Allowed {
		return nil
	}

	switch d.Reason {
	case DenyReasonLoginRequired:
		return model.NewLoginRequiredError()
	default:
		return model.NewNotAuthorizedError()
	}
}
