package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/circleup/api-go/models"
	"github.com/circleup/api-go/utils"
)

type CircleController struct {
	DB *gorm.DB
}

func NewCircleController(db *gorm.DB) *CircleController {
	return &CircleController{DB: db}
}

func (cc *CircleController) GetAll(c *gin.Context) {
	var circles []models.Circle
	if err := cc.DB.Find(&circles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch circles"})
		return
	}
	c.JSON(http.StatusOK, circles)
}

func (cc *CircleController) GetMine(c *gin.Context) {
	claims := utils.GetUser(c)

	var user models.User
	if err := cc.DB.Preload("Circles").First(&user, claims.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "User not found"})
		return
	}
	c.JSON(http.StatusOK, user.Circles)
}

func (cc *CircleController) GetAdministered(c *gin.Context) {
	claims := utils.GetUser(c)

	var circles []models.Circle
	err := cc.DB.
		Joins("JOIN circle_admins ca ON ca.circle_id = circles.id").
		Where("ca.user_id = ?", claims.UserID).
		Preload("Admins").
		Find(&circles).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch circles"})
		return
	}
	c.JSON(http.StatusOK, circles)
}

func (cc *CircleController) GetAdmins(c *gin.Context) {
	circleID := c.Param("circleId")

	var circle models.Circle
	if err := cc.DB.Preload("Admins").First(&circle, circleID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Circle not found"})
		return
	}
	c.JSON(http.StatusOK, circle.Admins)
}

// Create makes a new circle with the caller as its first admin and member.
func (cc *CircleController) Create(c *gin.Context) {
	claims := utils.GetUser(c)

	var input struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing models.Circle
	if err := cc.DB.Where("name = ?", input.Name).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": fmt.Sprintf("A circle with name %s already exists", input.Name)})
		return
	}

	var creator models.User
	if err := cc.DB.First(&creator, claims.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "User not found"})
		return
	}

	circle := models.Circle{
		Name:   input.Name,
		Admins: []models.User{creator},
	}
	if err := cc.DB.Create(&circle).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create circle"})
		return
	}

	if err := cc.DB.Model(&creator).Association("Circles").Append(&circle); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join new circle"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"circle": circle, "updatedUser": creator})
}

func (cc *CircleController) Join(c *gin.Context) {
	claims := utils.GetUser(c)
	circleID := c.Param("circleId")

	var user models.User
	if err := cc.DB.Preload("Circles").First(&user, claims.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}

	var circle models.Circle
	if err := cc.DB.First(&circle, circleID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Circle not found"})
		return
	}

	for _, member := range user.Circles {
		if member.ID == circle.ID {
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "User already belongs to circle"})
			return
		}
	}

	if err := cc.DB.Model(&user).Association("Circles").Append(&circle); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join circle"})
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (cc *CircleController) Exit(c *gin.Context) {
	claims := utils.GetUser(c)
	circleID := c.Param("circleId")

	var user models.User
	if err := cc.DB.Preload("Circles").First(&user, claims.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}

	var membership *models.Circle
	for i := range user.Circles {
		if fmt.Sprint(user.Circles[i].ID) == circleID {
			membership = &user.Circles[i]
			break
		}
	}
	if membership == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User does not belong to the circle"})
		return
	}

	if err := cc.DB.Model(&user).Association("Circles").Delete(membership); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to exit circle"})
		return
	}

	c.JSON(http.StatusCreated, user)
}
