package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/softdesk-dev/softdesk/db"
	"github.com/softdesk-dev/softdesk/internal/auth"
	"github.com/softdesk-dev/softdesk/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	dateOfBirthLayout = "2006-01-02"
	minimumAge        = 16
)

type SignupRequest struct {
	Username        string `json:"username" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=8"`
	DateOfBirth     string `json:"date_of_birth" binding:"required"`
	CanBeContacted  bool   `json:"can_be_contacted"`
	CanDataBeShared bool   `json:"can_data_be_shared"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// isOldEnough compares against the actual birthday, not just the year.
func isOldEnough(dateOfBirth time.Time, years int) bool {
	return !dateOfBirth.AddDate(years, 0, 0).After(time.Now())
}

func Signup(ctx *gin.Context) {
	var body SignupRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	dateOfBirth, err := time.Parse(dateOfBirthLayout, body.DateOfBirth)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "date_of_birth must be in YYYY-MM-DD format"})
		return
	}

	tooYoung := !isOldEnough(dateOfBirth, minimumAge)

	if tooYoung || !body.CanDataBeShared {
		var errorMessage string
		if tooYoung {
			errorMessage = "You must be at least 16 years old to register."
		}
		if !body.CanDataBeShared {
			if errorMessage != "" {
				errorMessage += " "
			}
			errorMessage += "Consent to data storage is required."
		}
		ctx.JSON(http.StatusBadRequest, gin.H{"message": errorMessage})
		return
	}

	body.Username = strings.TrimSpace(body.Username)
	body.Email = strings.ToLower(strings.TrimSpace(body.Email))

	var existingUser models.User

	err = db.DB.Where("username = ?", body.Username).First(&existingUser).Error

	if err == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Username already exists"})
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Database error when checking existing user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)

	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	newUser := models.User{
		Username:        body.Username,
		Email:           body.Email,
		PasswordHash:    string(passwordHash),
		DateOfBirth:     dateOfBirth,
		CanBeContacted:  body.CanBeContacted,
		CanDataBeShared: body.CanDataBeShared,
	}

	if err := db.DB.Create(&newUser).Error; err != nil {
		log.Printf("Failed to create user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	access, refresh, err := auth.GenerateTokenPair(newUser.ID, newUser.Username)

	if err != nil {
		log.Printf("Failed to generate token pair: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"access":  access,
		"refresh": refresh,
		"message": "User registered successfully",
	})
}

func Login(ctx *gin.Context) {
	var body LoginRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	var user models.User

	err := db.DB.Where("username = ?", body.Username).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid username or password"})
			return
		}
		log.Printf("Database error when fetching user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password))

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid username or password"})
		return
	}

	access, refresh, err := auth.GenerateTokenPair(user.ID, user.Username)

	if err != nil {
		log.Printf("Failed to generate token pair: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"access":  access,
		"refresh": refresh,
	})
}

func RefreshToken(ctx *gin.Context) {
	var body RefreshRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	token, err := auth.VerifyJWT(body.Refresh)

	if err != nil || !auth.IsRefreshToken(token) {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired refresh token"})
		return
	}

	claims, ok := token.Claims.(jwt.MapClaims)

	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid token claims"})
		return
	}

	userIDFloat, ok := claims["user_id"].(float64)

	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid user ID in token claims"})
		return
	}

	var user models.User

	if err := db.DB.First(&user, uint(userIDFloat)).Error; err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not found"})
		return
	}

	access, err := auth.GenerateAccessToken(user.ID, user.Username)

	if err != nil {
		log.Printf("Failed to generate access token: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"access": access})
}
