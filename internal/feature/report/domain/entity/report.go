// Package entity はreportフィーチャーのドメインエンティティを定義します。
package entity

import "time"

// Report は一銘柄に対する分析ナラティブです。
type Report struct {
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Summary     string    `json:"summary"`
	Source      string    `json:"source"`
	GeneratedAt time.Time `json:"generated_at"`
}
