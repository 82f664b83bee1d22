// Package api 設定 HTTP 路由。
//
// handlers 子套件把請求轉成服務層呼叫，這裡負責把它們和中間件掛到對應的路徑上，
// 包含 /api/chat/ws 的 websocket 入口。
package api
