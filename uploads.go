package main

import (
	"net/http"
	"path"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Techno-SamXa/Fungus-sub000/config"
	"github.com/Techno-SamXa/Fungus-sub000/utils"
)

const maxUploadSizeBytes int64 = 5 * 1024 * 1024
const thumbnailWidth = 320

var imageExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

type uploadImagenResponse struct {
	ImageURL     string `json:"image_url"`
	ThumbnailURL string `json:"thumbnail_url"`
	ObjectKey    string `json:"object_key"`
}

// uploadImagenHandler stores a catalog image on local disk plus a fixed-width
// thumbnail next to it. Object keys are random so re-uploads never collide.
func uploadImagenHandler(c *gin.Context) {
	file, err := c.FormFile("imagen")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "imagen file is required"})
		return
	}
	if file.Size > maxUploadSizeBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large"})
		return
	}
	ext := strings.ToLower(path.Ext(file.Filename))
	if _, ok := imageExtensions[ext]; !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported image type"})
		return
	}

	key := uuid.NewString()
	objectKey := "imagenes/" + key + ext
	thumbKey := "imagenes/" + key + "_thumb" + ext

	dst, err := utils.EnsureUploadDir(objectKey)
	if err != nil {
		respondError(c, "uploads.go", err)
		return
	}
	if err := c.SaveUploadedFile(file, dst); err != nil {
		respondError(c, "uploads.go", err)
		return
	}

	img, err := imaging.Open(dst)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is not a valid image"})
		return
	}
	thumb := imaging.Resize(img, thumbnailWidth, 0, imaging.Lanczos)
	thumbDst, err := utils.EnsureUploadDir(thumbKey)
	if err != nil {
		respondError(c, "uploads.go", err)
		return
	}
	if err := imaging.Save(thumb, thumbDst); err != nil {
		respondError(c, "uploads.go", err)
		return
	}

	logger := config.GetLogger()
	logger.WithField("objectKey", objectKey).Info("image uploaded")

	c.JSON(http.StatusCreated, uploadImagenResponse{
		ImageURL:     utils.PublicURL(objectKey),
		ThumbnailURL: utils.PublicURL(thumbKey),
		ObjectKey:    objectKey,
	})
}
