package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel_backend/internal/middleware"
	"hotel_backend/internal/service"
)

// ChatHandler 聯絡人、歷史紀錄與圖片上傳
type ChatHandler struct {
	chatService   *service.ChatService
	uploadService *service.UploadService
}

func NewChatHandler(chatService *service.ChatService, uploadService *service.UploadService) *ChatHandler {
	return &ChatHandler{chatService: chatService, uploadService: uploadService}
}

// Contacts 列出可聊天的對象與未讀數
func (h *ChatHandler) Contacts(c *gin.Context) {
	contacts, err := h.chatService.ListContacts(c.Request.Context(), middleware.CurrentUserID(c), middleware.CurrentRole(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contacts)
}

// History 取得與 other_user_id 的對話，並標記已讀
func (h *ChatHandler) History(c *gin.Context) {
	otherUserID := c.Query("other_user_id")
	if otherUserID == "" {
		badRequest(c, "other_user_id is required")
		return
	}

	messages, err := h.chatService.GetHistory(c.Request.Context(), middleware.CurrentUserID(c), middleware.CurrentRole(c), otherUserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

// Upload 上傳聊天圖片，表單欄位為 file
func (h *ChatHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "file is required")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		badRequest(c, "cannot read uploaded file")
		return
	}
	defer file.Close()

	url, err := h.uploadService.UploadChatImage(c.Request.Context(), middleware.CurrentUserID(c), fileHeader.Filename, file, fileHeader.Size)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
