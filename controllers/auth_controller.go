package controllers

import (
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/circleup/api-go/models"
	"github.com/circleup/api-go/utils"
)

type AuthController struct {
	DB *gorm.DB
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db}
}

var (
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]{2,}$`)
	phonePattern  = regexp.MustCompile(`^\+[0-9]+$`)
	passwordLower = regexp.MustCompile(`[a-z]`)
	passwordUpper = regexp.MustCompile(`[A-Z]`)
	passwordDigit = regexp.MustCompile(`[0-9]`)
)

func validPassword(password string) bool {
	return len(password) >= 6 &&
		passwordLower.MatchString(password) &&
		passwordUpper.MatchString(password) &&
		passwordDigit.MatchString(password)
}

func validGender(gender string) bool {
	return gender == "male" || gender == "female" || gender == "other"
}

func (ac *AuthController) Register(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required"`
		Surname  string `json:"surname"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
		Gender   string `json:"gender" binding:"required"`
		Phone    string `json:"phone"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	if !validPassword(input.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 6 characters long and contain at least one lowercase letter, one uppercase letter and one number", "success": false})
		return
	}
	if !validGender(input.Gender) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Gender must be either 'male', 'female', or 'other'", "success": false})
		return
	}
	if input.Phone != "" && !phonePattern.MatchString(input.Phone) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Phone must only contain numbers and be preceded by a + sign", "success": false})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not hash password", "success": false})
		return
	}

	user := models.User{
		Name:     input.Name,
		Surname:  input.Surname,
		Email:    strings.ToLower(strings.TrimSpace(input.Email)),
		Password: string(hashedPassword),
		Gender:   input.Gender,
		Phone:    input.Phone,
		Role:     models.RoleUser,
		IsActive: true,
	}

	if err := ac.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is already being used by another user", "success": false})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User registered successfully",
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
		},
	})
}

func (ac *AuthController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := ac.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(input.Email))).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	accessToken, err := signAccessToken(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token", "success": false})
		return
	}

	refreshToken := models.RefreshToken{
		UserID:         user.ID,
		Token:          uuid.New().String(),
		ExpirationDate: time.Now().Add(time.Hour * 24 * 30),
	}
	if err := ac.DB.Create(&refreshToken).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not store refresh token", "success": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token_type":    "Bearer",
		"access_token":  accessToken,
		"refresh_token": refreshToken.Token,
		"user":          user,
	})
}

func (ac *AuthController) RefreshToken(c *gin.Context) {
	var input struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var stored models.RefreshToken
	if err := ac.DB.Where("token = ?", input.RefreshToken).First(&stored).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}
	if time.Now().After(stored.ExpirationDate) {
		ac.DB.Delete(&stored)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token expired"})
		return
	}

	var user models.User
	if err := ac.DB.First(&user, stored.UserID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User no longer exists"})
		return
	}

	accessToken, err := signAccessToken(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token_type":   "Bearer",
		"access_token": accessToken,
	})
}

func (ac *AuthController) Logout(c *gin.Context) {
	claims := utils.GetUser(c)
	ac.DB.Where("user_id = ?", claims.UserID).Delete(&models.RefreshToken{})
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out"})
}

func (ac *AuthController) GetProfile(c *gin.Context) {
	claims := utils.GetUser(c)

	var user models.User
	if err := ac.DB.Preload("Circles").First(&user, claims.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "User not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateProfile patches the caller's profile. Each field is validated
// independently and a fresh access token is issued so the client's cached
// identity stays in sync.
func (ac *AuthController) UpdateProfile(c *gin.Context) {
	claims := utils.GetUser(c)

	var input struct {
		Name      *string `json:"name"`
		Surname   *string `json:"surname"`
		Email     *string `json:"email"`
		Password  *string `json:"password"`
		Phone     *string `json:"phone"`
		Gender    *string `json:"gender"`
		Instagram *string `json:"instagram"`
		Tiktok    *string `json:"tiktok"`
		Snapchat  *string `json:"snapchat"`
		Birthday  *string `json:"birthday"`
		SafeMode  *bool   `json:"safeMode"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}

	if input.Email != nil {
		if !emailPattern.MatchString(*input.Email) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid email address"})
			return
		}
		var existing models.User
		if err := ac.DB.Where("email = ? AND id <> ?", strings.ToLower(*input.Email), claims.UserID).First(&existing).Error; err == nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Email is already being used by another user"})
			return
		}
		updates["email"] = strings.ToLower(*input.Email)
	}
	if input.Password != nil {
		if !validPassword(*input.Password) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Password must be at least 6 characters long and contain at least one lowercase letter, one uppercase letter and one number"})
			return
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not hash password"})
			return
		}
		updates["password"] = string(hashed)
	}
	if input.Phone != nil {
		if !phonePattern.MatchString(*input.Phone) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Phone must be a string that only contains numbers and is preceded by a + sign"})
			return
		}
		updates["phone"] = *input.Phone
	}
	if input.Gender != nil {
		if !validGender(*input.Gender) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Gender must be either 'male', 'female', or 'other'"})
			return
		}
		updates["gender"] = *input.Gender
	}
	if input.Birthday != nil {
		parsed, err := time.Parse("2006-01-02", *input.Birthday)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid date of birth"})
			return
		}
		updates["birthday"] = parsed
	}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Surname != nil {
		updates["surname"] = *input.Surname
	}
	if input.Instagram != nil {
		updates["instagram"] = *input.Instagram
	}
	if input.Tiktok != nil {
		updates["tiktok"] = *input.Tiktok
	}
	if input.Snapchat != nil {
		updates["snapchat"] = *input.Snapchat
	}
	if input.SafeMode != nil {
		updates["safe_mode"] = *input.SafeMode
	}

	var user models.User
	if err := ac.DB.First(&user, claims.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "User not found"})
		return
	}

	if len(updates) > 0 {
		if err := ac.DB.Model(&user).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
			return
		}
	}

	authToken, err := signAccessToken(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"updatedUser": user, "authToken": authToken})
}

func signAccessToken(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     time.Now().Add(time.Hour * 24 * 7).Unix(),
	})
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
