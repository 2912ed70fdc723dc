// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeLoginRequired    = "LOGIN_REQUIRED"
	ErrCodeNotAuthorized    = "NOT_AUTHORIZED"
	ErrCodeAccountNotFound  = "ACCOUNT_NOT_FOUND"
	ErrCodeInvalidPassword  = "INVALID_PASSWORD"
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeEmailTaken       = "EMAIL_TAKEN"
	ErrCodeProjectNameTaken = "PROJECT_NAME_TAKEN"
	ErrCodeUserNotFound     = "USER_NOT_FOUND"
	ErrCodeProjectNotFound  = "PROJECT_NOT_FOUND"
	ErrCodeUserHasProjects  = "USER_HAS_PROJECTS"
	ErrCodeInvalidRequest   = "INVALID_REQUEST"
)

// NewLoginRequiredError は未ログイン状態で認証必須操作を要求した場合のエラーを生成する。
func NewLoginRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeLoginRequired,
		Message:  "ログインが必要です。",
		Category: "auth",
		Action:   "ログインしてから再度お試しください。",
	}
}

// NewNotAuthorizedError は権限のない操作を要求した場合のエラーを生成する。
// 所有者でも管理者でもないユーザーによる変更・削除がこれに該当する。
func NewNotAuthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeNotAuthorized,
		Message:  "この操作を行う権限がありません。",
		Category: "auth",
		Action:   "自分が所有するリソースに対してのみ操作できます。",
	}
}

// NewAccountNotFoundError はログイン時にメールアドレスが未登録だった場合のエラーを生成する。
func NewAccountNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeAccountNotFound,
		Message:  "このメールアドレスのアカウントが見つかりません。",
		Category: "auth",
		Action:   "メールアドレスを確認するか、新規登録してください。",
	}
}

// NewInvalidPasswordError はログイン時にパスワードが一致しなかった場合のエラーを生成する。
func NewInvalidPasswordError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidPassword,
		Message:  "パスワードが正しくありません。",
		Category: "auth",
		Action:   "パスワードを確認して再度お試しください。",
	}
}

// NewValidationError はフィールド単位のバリデーションエラーを生成する。
// 必須項目の欠落やパスワード長不足などに使用する。
func NewValidationError(field, reason string) *APIError {
	return &APIError{
		Code:     ErrCodeValidationFailed,
		Message:  fmt.Sprintf("%s: %s", field, reason),
		Category: "validation",
		Action:   "入力内容を修正して再度お試しください。",
	}
}

// NewEmailTakenError はメールアドレスの一意性制約違反エラーを生成する。
func NewEmailTakenError(email string) *APIError {
	return &APIError{
		Code:     ErrCodeEmailTaken,
		Message:  fmt.Sprintf("このメールアドレスは既に使用されています: %s", email),
		Category: "validation",
		Action:   "別のメールアドレスを使用するか、ログインしてください。",
	}
}

// NewProjectNameTakenError は同一所有者内のプロジェクト名重複エラーを生成する。
func NewProjectNameTakenError(name string) *APIError {
	return &APIError{
		Code:     ErrCodeProjectNameTaken,
		Message:  fmt.Sprintf("同名のプロジェクトが既に存在します: %s", name),
		Category: "validation",
		Action:   "別のプロジェクト名を指定してください。",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "ユーザーが見つかりません。",
		Category: "auth",
		Action:   "ユーザーIDを確認してください。",
	}
}

// NewProjectNotFoundError はプロジェクトが見つからない場合のエラーを生成する。
func NewProjectNotFoundError(projectID string) *APIError {
	return &APIError{
		Code:     ErrCodeProjectNotFound,
		Message:  fmt.Sprintf("指定されたプロジェクトが見つかりません: %s", projectID),
		Category: "validation",
		Action:   "プロジェクトIDを確認してください。",
	}
}

// NewUserHasProjectsError はプロジェクトを所有するユーザーの削除を拒否するエラーを生成する。
// 所有者参照が宙に浮くことを防ぐため、削除前にプロジェクトの整理を求める。
func NewUserHasProjectsError(count int) *APIError {
	return &APIError{
		Code:     ErrCodeUserHasProjects,
		Message:  fmt.Sprintf("このユーザーは%d件のプロジェクトを所有しているため削除できません。", count),
		Category: "validation",
		Action:   "所有プロジェクトを削除するか、他のユーザーに引き継いでから再度お試しください。",
	}
}

// NewInvalidRequestError はリクエストボディの解析失敗エラーを生成する。
func NewInvalidRequestError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  "リクエストボディの解析に失敗しました。",
		Category: "validation",
		Action:   "正しいJSON形式でリクエストしてください。",
	}
}
