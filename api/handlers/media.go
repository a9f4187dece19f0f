package handlers

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/citizenvoice/pqrs-dashboard-api/config"
)

// Media handles case attachment uploads and signed-upload requests
type Media struct{}

// GenerateSignature generates a signature for direct Cloudinary uploads
func (m Media) GenerateSignature(w http.ResponseWriter, r *http.Request) {
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	uploadPreset := os.Getenv("CLOUDINARY_UPLOAD_PRESET")
	apiSecret := os.Getenv("CLOUDINARY_API_SECRET")

	// Create the signature
	h := hmac.New(sha1.New, []byte(apiSecret))
	h.Write([]byte("timestamp=" + timestamp + "&upload_preset=" + uploadPreset))
	signature := hex.EncodeToString(h.Sum(nil))

	// Respond with the timestamp and signature
	response := map[string]string{
		"timestamp": timestamp,
		"signature": signature,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// UploadAttachmentHandler accepts a multipart file from staff and pushes
// it to Cloudinary, returning the hosted URL for use as a case attachment
func (m Media) UploadAttachmentHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		config.ErrorStatus("failed to parse multipart form", http.StatusBadRequest, w, err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		config.ErrorStatus("file is required", http.StatusBadRequest, w, err)
		return
	}
	defer file.Close()

	cld, err := cloudinary.NewFromURL(os.Getenv("CLOUDINARY_URL"))
	if err != nil {
		config.ErrorStatus("cloudinary is not configured", http.StatusInternalServerError, w, err)
		return
	}

	folder := r.FormValue("folder")
	if folder == "" {
		folder = "pqrs-attachments"
	}

	result, err := cld.Upload.Upload(r.Context(), file, uploader.UploadParams{
		Folder:   folder,
		PublicID: header.Filename,
	})
	if err != nil {
		config.ErrorStatus("failed to upload attachment", http.StatusInternalServerError, w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{
		"url":      result.SecureURL,
		"publicId": result.PublicID,
	})
}
