// Package middleware 提供 gin 的中間件：token 驗證、角色檢查、request id、存取日誌與 CORS。
package middleware
