// Package api はHTTP境界で共有されるリクエスト/レスポンス型を定義します。
package api

// ErrorResponse はエラーレスポンスの共通形です。
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse は短いメッセージのみを返すレスポンスです。
type MessageResponse struct {
	Message string `json:"message"`
}

// TokenResponse はログイン成功時にJWTトークンを返すレスポンスです。
type TokenResponse struct {
	Token string `json:"token"`
}

// SignupRequest はユーザー登録のリクエストボディです。
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// LoginRequest はログインのリクエストボディです。
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
