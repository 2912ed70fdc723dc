package authz

// Action は認可対象の操作を表す。
type Action string

const (
	// 公開操作: 匿名でも許可される
	ActionListProjects Action = "list_projects"
	ActionViewProject  Action = "view_project"
	ActionRegister     Action = "register"

	// ユーザー操作: ログイン必須
	ActionListUsers  Action = "list_users"
	ActionViewUser   Action = "view_user"
	ActionEditUser   Action = "edit_user"
	ActionDeleteUser Action = "delete_user"

	// プロジェクト操作: ログイン必須
	ActionCreateProject Action = "create_project"
	ActionEditProject   Action = "edit_project"
	ActionDeleteProject Action = "delete_project"
)

// Target は認可対象のリソース参照を表す。
// ユーザー操作ではUserIDを、プロジェクト操作では対象プロジェクトの
// OwnerIDを設定する。対象を持たない操作（一覧・登録・作成）はゼロ値でよい。
type Target struct {
	UserID  string
	OwnerID string
}

// DenyReason は拒否理由を表す。ハンドラー層でユーザー向けメッセージに変換する。
type DenyReason string

const (
	// DenyReasonLoginRequired はログインが必要な操作を匿名で要求した場合の拒否理由。
	DenyReasonLoginRequired DenyReason = "login_required"
	// DenyReasonNotAuthorized は所有者でも管理者でもない場合の拒否理由。
	DenyReasonNotAuthorized DenyReason = "not_authorized"
)

// Decision は認可判断の結果を表す。
// Deniedは正常な制御フローであり、システム障害ではない。
type Decision struct {
	Allowed bool
	Reason  DenyReason // Allowed=false の場合のみ設定される
}

// allow と deny はDecisionの生成ヘルパー。
func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason DenyReason) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Authorize は行為者・操作・対象の組に対する認可判断を返す。
//
// ルールは以下の優先順で評価し、最初に一致したものが採用される:
//  1. 公開操作（プロジェクト閲覧・一覧、ユーザー登録）は無条件で許可
//  2. それ以外の操作を匿名で要求した場合は拒否（ログイン必須）
//  3. ユーザー変更・削除は本人であれば許可
//  4. プロジェクト変更・削除は所有者であれば許可
//  5. 管理者は上記の所有者制約を越えて許可
//  6. それ以外は拒否
//
// 管理者フラグが免除するのは所有者チェックのみであり、
// 入力バリデーションや一意性制約には影響しない。
func Authorize(identity Identity, action Action, target Target) Decision {
	// 1. 公開操作
	switch action {
	case ActionListProjects, ActionViewProject, ActionRegister:
		return allow()
	}

	// 2. 公開操作以外は認証必須
	if identity.IsAnonymous() {
		return deny(DenyReasonLoginRequired)
	}

	// 3. 本人によるユーザー操作
	switch action {
	case ActionEditUser, ActionDeleteUser:
		if identity.UserID == target.UserID {
			return allow()
		}
	}

	// 4. 所有者によるプロジェクト操作
	switch action {
	case ActionEditProject, ActionDeleteProject:
		if identity.UserID == target.OwnerID {
			return allow()
		}
	}

	// 5. 管理者による越権許可
	if identity.Admin {
		return allow()
	}

	// 6. 認証済みユーザーの一覧・閲覧・作成操作はここまでに到達した時点で許可対象
	switch action {
	case ActionListUsers, ActionViewUser, ActionCreateProject:
		return allow()
	}

	return deny(DenyReasonNotAuthorized)
}
