package model

import "time"

// Project はユーザーが所有するプロジェクトを表す。
// 名前は同一所有者内で一意。閲覧は誰でも可能だが、
// 変更・削除は所有者または管理者のみ許可される。
type Project struct {
	ID          string
	Name        string
	Description string
	OwnerID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
