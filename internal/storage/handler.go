package storage

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Store *LocalStore
}

func NewHandler(store *LocalStore) *Handler {
	return &Handler{Store: store}
}

// 5 MB cap on uploads, matching the default form-field limit
const maxUploadBytes = 5 << 20

var allowedUploadExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".pdf": true,
}

// ===========================
// 📤 Upload Payment Proof - POST /uploads/payment-proof
func (h *Handler) UploadPaymentProof(c *gin.Context) {
	h.upload(c, "payment-proofs")
}

// ===========================
// 🖼 Upload Profile Image - POST /uploads/profile-image
func (h *Handler) UploadProfileImage(c *gin.Context) {
	h.upload(c, "profile-images")
}

// ===========================
// 🧾 Upload Event QR - POST /uploads/event-qr
func (h *Handler) UploadEventQR(c *gin.Context) {
	h.upload(c, "event-qr")
}

func (h *Handler) upload(c *gin.Context, subdir string) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	if file.Size > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file exceeds the 5MB upload limit"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedUploadExts[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file type: " + ext})
		return
	}

	uri, err := h.Store.Save(c, file, subdir)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store file"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": uri})
}
