package catalogapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/melangjewelers/catalog/internal/app"
	"github.com/melangjewelers/catalog/internal/domain"
	"github.com/melangjewelers/catalog/internal/webserver"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const tokenTTL = 5 * time.Hour

type credentialsPayload struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=6"`
}

type userInfo struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// RegisterAuthRoutes registers signup and login. These stay open even when
// the token guard protects the catalog mutation routes.
func RegisterAuthRoutes() {
	webserver.PubPOST("/api/user/signup", signup)
	webserver.PubPOST("/api/user/login", login)
}

func issueToken(userID int64, secret string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// signup registers a new account. A duplicate email stops the request with a
// 409 before any row is written; the unique index on email backstops the
// check under concurrent signups.
func signup(c echo.Context) error {
	var payload credentialsPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Unable to parse credentials")
	}
	payload.Email = strings.TrimSpace(payload.Email)
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "A valid email and a password of at least 6 characters are required")
	}

	db := GetDB(c)

	var exists int64
	if err := db.Model(&domain.User{}).Where("email = ?", payload.Email).Count(&exists).Error; err != nil {
		return failStorage(c, "Failed to query users", err)
	}
	if exists > 0 {
		return fail(c, http.StatusConflict, "User already exists, please login")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return failStorage(c, "Failed to process credentials", err)
	}

	now := time.Now()
	user := domain.User{
		Email:          payload.Email,
		HashedPassword: string(hash),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := db.Create(&user).Error; err != nil {
		// concurrent signup lost the race against the unique index
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(strings.ToLower(err.Error()), "unique") {
			return fail(c, http.StatusConflict, "User already exists, please login")
		}
		return failStorage(c, "Failed to create user", err)
	}

	a := GetApp(c)
	token, err := issueToken(user.ID, a.Config().Web.JwtSecret)
	if err != nil {
		return failStorage(c, "Failed to issue token", err)
	}

	a.PublishChange(app.ChangeEvent{
		Actor:  actor(c),
		Action: "created",
		Entity: "user",
		Detail: "signup " + user.Email,
	})

	return c.JSON(http.StatusCreated, echo.Map{
		"msg":   "User registered successfully",
		"token": token,
		"user":  userInfo{ID: user.ID, Email: user.Email},
	})
}

// login verifies the credentials and answers with an explicit 401 on any
// mismatch. Unknown email and wrong password are indistinguishable to the
// caller.
func login(c echo.Context) error {
	var payload credentialsPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Unable to parse credentials")
	}
	payload.Email = strings.TrimSpace(payload.Email)
	if payload.Email == "" || payload.Password == "" {
		return fail(c, http.StatusBadRequest, "Email and password are required")
	}

	var user domain.User
	err := GetDB(c).Where("email = ?", payload.Email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusUnauthorized, "Invalid email or password")
	} else if err != nil {
		return failStorage(c, "Failed to query users", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(payload.Password)) != nil {
		return fail(c, http.StatusUnauthorized, "Invalid email or password")
	}

	token, err := issueToken(user.ID, GetApp(c).Config().Web.JwtSecret)
	if err != nil {
		return failStorage(c, "Failed to issue token", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"msg":   "User logged in successfully",
		"token": token,
		"user":  userInfo{ID: user.ID, Email: user.Email},
	})
}
