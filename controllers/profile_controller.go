package controllers

import (
	"log"
	"net/http"
	"strings"

	"github.com/edoctorat/backend/config"
	"github.com/edoctorat/backend/repository"
	"github.com/edoctorat/backend/services"
	"github.com/edoctorat/backend/utils"
	"github.com/gin-gonic/gin"
)

// GetUserInfo resolves the bearer token and returns the profile shaped for
// the requested role.
func GetUserInfo(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")

		info, err := svc.GetUserInfo(c.Request.Context(), token, c.Param("role"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.JSON(http.StatusOK, info)
	}
}

// UploadProfessorPhoto stores a new profile photo in GCS and records its
// public URL on the professor profile, replacing the previous object.
func UploadProfessorPhoto(cfg config.Config, v *utils.FileValidator, professeurs repository.ProfesseurRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		usernameVal, ok := c.Get("username")
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth context"})
			return
		}
		username := usernameVal.(string)

		fileHeader, err := c.FormFile("photo")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
			return
		}

		contentType, err := v.ValidateFile(fileHeader)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx := c.Request.Context()
		prof, err := professeurs.FindByUsername(ctx, username)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "professor profile not found"})
			return
		}

		client, err := utils.NewGCSClient(ctx, cfg)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
			return
		}
		defer client.Close()

		url, err := utils.UploadProfilePhoto(ctx, client, cfg.GCSBucket, utils.GenerateSlug(username), fileHeader, contentType)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
			return
		}

		if err := professeurs.SetPhoto(ctx, username, url); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save photo"})
			return
		}

		// Old photo cleanup is best effort.
		if prof.PathPhoto != "" {
			if objectName, err := utils.ObjectNameFromGCSPublicURL(cfg.GCSBucket, prof.PathPhoto); err == nil {
				if err := utils.DeleteGCSObject(ctx, client, cfg.GCSBucket, objectName); err != nil {
					log.Printf("old photo cleanup failed for %s: %v", username, err)
				}
			}
		}

		c.JSON(http.StatusOK, gin.H{"pathPhoto": url})
	}
}
