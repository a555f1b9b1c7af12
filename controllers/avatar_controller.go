package controllers

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/circleup/api-go/config"
	"github.com/circleup/api-go/models"
	"github.com/circleup/api-go/utils"
)

type AvatarController struct {
	DB       *gorm.DB
	R2Client *s3.Client
	R2Config *config.R2Config
}

type AvatarUploadRequest struct {
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
	FileSize    int64  `json:"fileSize" binding:"required"`
}

type AvatarConfirmRequest struct {
	TempKey string `json:"tempKey" binding:"required"`
}

func NewAvatarController(db *gorm.DB) *AvatarController {
	r2Config := config.GetR2Config()

	r2Client := s3.New(s3.Options{
		BaseEndpoint: aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", r2Config.AccountID)),
		Credentials: credentials.NewStaticCredentialsProvider(
			r2Config.AccessKeyID,
			r2Config.SecretAccessKey,
			"",
		),
		Region: r2Config.Region,
	})

	return &AvatarController{
		DB:       db,
		R2Client: r2Client,
		R2Config: r2Config,
	}
}

// GetUploadURL hands the client a presigned PUT URL for a temporary avatar
// key; the file becomes the profile picture only after ConfirmUpload.
func (ac *AvatarController) GetUploadURL(c *gin.Context) {
	var req AvatarUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !isValidAvatarFile(req.ContentType, req.FileSize) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid avatar file type or size"})
		return
	}

	key := generateTempAvatarKey(req.FileName)

	presigner := s3.NewPresignClient(ac.R2Client)
	presigned, err := presigner.PresignPutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(ac.R2Config.BucketName),
		Key:         aws.String(key),
		ContentType: aws.String(req.ContentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = time.Hour
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create upload URL"})
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data: gin.H{
			"uploadUrl": presigned.URL,
			"tempKey":   key,
			"expiresIn": 3600,
		},
	})
}

// ConfirmUpload moves the temp file to its permanent key and saves the
// public URL on the caller's profile.
func (ac *AvatarController) ConfirmUpload(c *gin.Context) {
	claims := utils.GetUser(c)

	var req AvatarConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !strings.HasPrefix(req.TempKey, "temp/avatars/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid temp key format"})
		return
	}

	if _, err := ac.R2Client.HeadObject(context.TODO(), &s3.HeadObjectInput{
		Bucket: aws.String(ac.R2Config.BucketName),
		Key:    aws.String(req.TempKey),
	}); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Temporary avatar file not found"})
		return
	}

	permanentKey := generateAvatarKey(claims.UserID, req.TempKey)

	if _, err := ac.R2Client.CopyObject(context.TODO(), &s3.CopyObjectInput{
		Bucket:     aws.String(ac.R2Config.BucketName),
		CopySource: aws.String(fmt.Sprintf("%s/%s", ac.R2Config.BucketName, req.TempKey)),
		Key:        aws.String(permanentKey),
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to confirm avatar upload"})
		return
	}
	ac.R2Client.DeleteObject(context.TODO(), &s3.DeleteObjectInput{
		Bucket: aws.String(ac.R2Config.BucketName),
		Key:    aws.String(req.TempKey),
	})

	fileURL := fmt.Sprintf("%s/%s", ac.R2Config.PublicURL, permanentKey)
	if err := ac.DB.Model(&models.User{}).Where("id = ?", claims.UserID).Update("avatar", fileURL).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save avatar"})
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    gin.H{"key": permanentKey, "fileUrl": fileURL},
		Message: "Avatar upload confirmed successfully",
	})
}

func isValidAvatarFile(contentType string, fileSize int64) bool {
	validTypes := []string{
		"image/jpeg", "image/jpg", "image/png", "image/webp",
	}

	validType := false
	for _, validContentType := range validTypes {
		if contentType == validContentType {
			validType = true
			break
		}
	}
	if !validType {
		return false
	}

	// Avatar size limit: 5MB
	return fileSize <= 5*1024*1024
}

func generateTempAvatarKey(fileName string) string {
	ext := filepath.Ext(fileName)
	return fmt.Sprintf("temp/avatars/%d_%s%s", time.Now().Unix(), uuid.New().String(), ext)
}

func generateAvatarKey(userID uint, tempKey string) string {
	ext := filepath.Ext(tempKey)
	return fmt.Sprintf("users/%d/avatar/%d_avatar%s", userID, time.Now().Unix(), ext)
}
