// Package security はアプリケーションのセキュリティ機能を提供する。
//
// InputSanitizerService はユーザー入力のテキスト（名前、プロジェクト名、
// 説明文など）をサニタイズし、格納型XSSを防止する。
// bluemondayのStrictPolicyで全HTMLタグを除去したプレーンテキストのみを
// 永続化する。
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// InputSanitizerService はユーザー入力テキストのサニタイズ機能のインターフェース。
// ユーザー登録・更新およびプロジェクト作成・更新の保存前に使用される。
type InputSanitizerService interface {
	// Sanitize は入力テキストから全HTMLタグを除去し、
	// 前後の空白をトリムしたプレーンテキストを返す。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(input string) string
}

// inputSanitizer はInputSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type inputSanitizer struct {
	policy *bluemonday.Policy
}

// NewInputSanitizer はInputSanitizerServiceの新しいインスタンスを生成する。
// StrictPolicyは全タグ不許可のため、scriptタグやon*イベント属性を含む
// 入力もプレーンテキストに縮退する。
func NewInputSanitizer() *inputSanitizer {
	return &inputSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は入力テキストから全HTMLタグを除去する。
// bluemondayは残存テキストをHTMLエンティティとしてエスケープするため、
// プレーンテキストとして格納できるようunescapeして戻す。
func (s *inputSanitizer) Sanitize(input string) string {
	stripped := s.policy.Sanitize(input)
	return strings.TrimSpace(html.UnescapeString(stripped))
}
