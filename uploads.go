package main

import (
	"bytes"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mmsoftworks/campusfees_backend/config"
	"github.com/mmsoftworks/campusfees_backend/models"
	"github.com/mmsoftworks/campusfees_backend/utils"
	"github.com/sirupsen/logrus"
)

const maxLogoSizeBytes int64 = 5 * 1024 * 1024

var logoMimeTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

// uploadLogoHandler stores the institution logo in GCS, downscaled so
// receipt rendering never pulls a multi-megabyte original.
func uploadLogoHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()

		file, err := c.FormFile("logo")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "logo file is required"})
			return
		}
		if file.Size > maxLogoSizeBytes {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file size exceeds 5MB limit"})
			return
		}
		mimeType := file.Header.Get("Content-Type")
		ext, ok := logoMimeTypes[mimeType]
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported image type"})
			return
		}

		src, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read upload"})
			return
		}
		defer src.Close()

		data, err := io.ReadAll(io.LimitReader(src, maxLogoSizeBytes+1))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read upload"})
			return
		}
		if int64(len(data)) > maxLogoSizeBytes {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file size exceeds 5MB limit"})
			return
		}

		img, err := imaging.Decode(bytes.NewReader(data))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image"})
			return
		}
		if img.Bounds().Dx() > 400 {
			img = imaging.Resize(img, 400, 0, imaging.Lanczos)
		}

		var buf bytes.Buffer
		format := imaging.PNG
		if ext == ".jpg" {
			format = imaging.JPEG
		}
		if err := imaging.Encode(&buf, img, format); err != nil {
			config.LogError(logger, "uploads.go", "uploadLogoHandler", "imaging.Encode", nil, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process image"})
			return
		}

		ctx := c.Request.Context()
		objectKey := path.Join("logos", uuid.New().String()+ext)
		if err := utils.UploadBytesToGCS(ctx, objectKey, buf.Bytes(), mimeType); err != nil {
			config.LogError(logger, "uploads.go", "uploadLogoHandler", "UploadBytesToGCS", objectKey, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store logo"})
			return
		}
		logoUrl := utils.PublicObjectURL(objectKey)

		// Best-effort cleanup of the previous logo object.
		if current, err := models.GetOrgSettings(ctx); err == nil && current.LogoUrl != "" {
			if oldKey := objectKeyFromURL(current.LogoUrl); oldKey != "" {
				if err := utils.DeleteObjectFromGCS(ctx, oldKey); err != nil {
					logger.WithFields(logrus.Fields{
						"field":      "uploadLogoHandler",
						"object_key": oldKey,
					}).Warn("failed to delete previous logo: " + err.Error())
				}
			}
		}

		if err := models.SetOrgLogo(ctx, logoUrl); err != nil {
			respondError(c, err)
			return
		}

		logger.WithFields(logrus.Fields{
			"object_key": objectKey,
			"size":       buf.Len(),
		}).Info("[logo.upload]")

		c.JSON(http.StatusOK, gin.H{"data": gin.H{"logo": logoUrl}})
	}
}

func objectKeyFromURL(rawUrl string) string {
	parsed, err := url.Parse(rawUrl)
	if err != nil {
		return ""
	}
	// Public URLs look like /<bucket>/<object-key>.
	parts := strings.SplitN(strings.TrimPrefix(parsed.Path, "/"), "/", 2)
	if len(parts) != 2 {
		return ""
	}
	return parts[1]
}
